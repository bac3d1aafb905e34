// ABOUTME: HTTP middleware guarding chailab routes with bearer JWTs or Basic credentials
// ABOUTME: Also serves a token endpoint that trades Basic credentials for a JWT

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTokenTTL is used when the Authenticator is given no TTL.
const DefaultTokenTTL = 24 * time.Hour

// Authenticator checks requests against a JWT secret and a user set.
// A nil or empty Authenticator lets every request through.
type Authenticator struct {
	verifier  *JWTVerifier
	users     *Users
	tokenTTL  time.Duration
	skipPaths map[string]bool
	logger    *slog.Logger
}

// NewAuthenticator creates an Authenticator. verifier and users may each be nil.
func NewAuthenticator(verifier *JWTVerifier, users *Users, tokenTTL time.Duration, logger *slog.Logger) *Authenticator {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		verifier:  verifier,
		users:     users,
		tokenTTL:  tokenTTL,
		skipPaths: map[string]bool{"/health": true},
		logger:    logger.With("component", "auth"),
	}
}

// Enabled reports whether any credential source is configured.
func (a *Authenticator) Enabled() bool {
	return a != nil && (a.verifier != nil || a.users.Len() > 0)
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// authenticate returns the caller's identity or an error message.
func (a *Authenticator) authenticate(r *http.Request) (*AuthContext, string) {
	header := r.Header.Get("Authorization")

	if strings.HasPrefix(header, "Bearer ") {
		if a.verifier == nil {
			return nil, "bearer tokens are not enabled"
		}
		token, errMsg := extractBearerToken(header)
		if errMsg != "" {
			return nil, errMsg
		}
		sub, err := a.verifier.Verify(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				return nil, "token expired"
			}
			return nil, "invalid token"
		}
		return &AuthContext{Subject: sub, Method: MethodBearer}, ""
	}

	if name, password, ok := r.BasicAuth(); ok {
		if err := a.users.Check(name, password); err != nil {
			return nil, "invalid credentials"
		}
		return &AuthContext{Subject: name, Method: MethodBasic}, ""
	}

	return nil, "authentication required"
}

// Middleware rejects unauthenticated requests with 401 and a JSON body.
// Skipped paths and disabled authenticators pass straight through.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipPaths[r.URL.Path] || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		authCtx, errMsg := a.authenticate(r)
		if authCtx == nil {
			a.logger.Debug("rejected request", "path", r.URL.Path, "reason", errMsg)
			a.unauthorized(w, errMsg)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), authCtx)))
	})
}

// TokenHandler issues a JWT for a request authenticated with Basic credentials.
// Responds 404 when no signing secret is configured.
func (a *Authenticator) TokenHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a == nil || a.verifier == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "token issuance is not enabled"})
			return
		}

		name, password, ok := r.BasicAuth()
		if !ok || a.users.Check(name, password) != nil {
			a.unauthorized(w, "invalid credentials")
			return
		}

		token, err := a.verifier.Generate(name, a.tokenTTL)
		if err != nil {
			a.logger.Error("failed to sign token", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "failed to issue token"})
			return
		}

		a.logger.Info("issued token", "subject", name)
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"token":      token,
			"expires_in": int(a.tokenTTL.Seconds()),
		})
	})
}

func (a *Authenticator) unauthorized(w http.ResponseWriter, msg string) {
	if a.users.Len() > 0 {
		w.Header().Set("WWW-Authenticate", `Basic realm="chailab"`)
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
