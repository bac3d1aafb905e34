// ABOUTME: Tests for the HTTP auth middleware and token endpoint
// ABOUTME: Exercises bearer, Basic, skipped paths, and the disabled pass-through

package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	users, err := NewUsers([]User{{Name: "ada", PasswordHash: hash}})
	require.NoError(t, err)
	return NewAuthenticator(NewJWTVerifier(testSecret), users, time.Hour, slog.Default())
}

// whoami echoes the authenticated subject.
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if a := FromContext(r.Context()); a != nil {
		_, _ = w.Write([]byte(a.Subject + "/" + a.Method))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func TestMiddleware(t *testing.T) {
	a := newTestAuthenticator(t)
	handler := a.Middleware(whoami)

	token, err := a.verifier.Generate("ada", time.Hour)
	require.NoError(t, err)

	t.Run("no credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, `Basic realm="chailab"`, rec.Header().Get("WWW-Authenticate"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "authentication required", body["error"])
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/config", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ada/bearer", rec.Body.String())
	})

	t.Run("bad bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/config", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("basic credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
		req.SetBasicAuth("ada", "hunter2")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ada/basic", rec.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
		req.SetBasicAuth("ada", "nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("health is public", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})
}

func TestMiddlewareDisabled(t *testing.T) {
	a := NewAuthenticator(nil, nil, 0, nil)
	assert.False(t, a.Enabled())

	rec := httptest.NewRecorder()
	a.Middleware(whoami).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestTokenHandler(t *testing.T) {
	a := newTestAuthenticator(t)
	handler := a.TokenHandler()

	t.Run("issues verifiable token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/token", nil)
		req.SetBasicAuth("ada", "hunter2")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Success   bool   `json:"success"`
			Token     string `json:"token"`
			ExpiresIn int    `json:"expires_in"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, 3600, body.ExpiresIn)

		sub, err := a.verifier.Verify(body.Token)
		require.NoError(t, err)
		assert.Equal(t, "ada", sub)
	})

	t.Run("rejects bad credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/token", nil)
		req.SetBasicAuth("ada", "nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("disabled without secret", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewAuthenticator(nil, nil, 0, nil).TokenHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/token", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
