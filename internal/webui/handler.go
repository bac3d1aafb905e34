// ABOUTME: Shared HTTP handler for interface and chat apps: page shell, config, health, prediction log
// ABOUTME: Flavor-specific routes are registered by NewInterfaceHandler and NewChatHandler

package webui

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/2389/chailab/internal/assets"
	"github.com/2389/chailab/internal/auth"
	"github.com/2389/chailab/internal/bridge"
	"github.com/2389/chailab/internal/store"
	"github.com/2389/chailab/internal/theme"
)

// MaxBodyBytes caps request bodies on the API routes.
const MaxBodyBytes = 10 << 20

// Options configures a Handler. Every field is optional.
type Options struct {
	// Name identifies the app in the prediction log. Defaults to the page title.
	Name string
	// Store records every call when set.
	Store store.Store
	// Auth guards every route except /health when enabled.
	Auth   *auth.Authenticator
	Logger *slog.Logger
}

// Handler serves one chailab app.
type Handler struct {
	mux     *http.ServeMux
	handler http.Handler
	name    string
	kind    string
	store   store.Store
	logger  *slog.Logger

	page     *template.Template
	pageData pageData
	config   any
}

type pageData struct {
	Title    string
	ThemeCSS template.CSS
	Config   any
	Assets   template.HTML
}

// newHandler wires the routes common to both flavors.
func newHandler(kind, title, themeName string, config any, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := opts.Name
	if name == "" {
		name = title
	}

	h := &Handler{
		mux:    http.NewServeMux(),
		name:   name,
		kind:   kind,
		store:  opts.Store,
		logger: logger.With("component", "webui", "app", name),
		page:   template.Must(template.ParseFS(templateFS, "templates/page.html")),
		pageData: pageData{
			Title:    title,
			ThemeCSS: template.CSS(theme.CSS(themeName)),
			Config:   config,
			Assets:   assets.ScriptTags(kind),
		},
		config: config,
	}

	h.mux.HandleFunc("GET /{$}", h.handlePage)
	h.mux.HandleFunc("GET /config", h.handleConfig)
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.Handle("GET /static/", http.StripPrefix("/static/", assets.FileServer()))

	if h.store != nil {
		h.mux.HandleFunc("GET /api/predictions", h.handleListPredictions)
		h.mux.HandleFunc("GET /api/predictions/stats", h.handlePredictionStats)
	}
	if opts.Auth.Enabled() {
		h.mux.Handle("POST /api/token", opts.Auth.TokenHandler())
	}

	var inner http.Handler = h.mux
	inner = opts.Auth.Middleware(inner)
	inner = CORSMiddleware(inner)
	inner = LoggingMiddleware(h.logger)(inner)
	h.handler = RequestIDMiddleware(inner)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

// Name returns the app name used in the prediction log.
func (h *Handler) Name() string { return h.name }

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, h.pageData); err != nil {
		h.logger.Error("failed to render page", "error", err)
	}
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, h.config); err != nil {
		h.logger.Error("failed to encode config", "error", err)
	}
}

// handleHealth handles GET /health for liveness checks.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleListPredictions handles GET /api/predictions?limit=N.
func (h *Handler) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	predictions, err := h.store.ListPredictions(r.Context(), h.name, limit)
	if err != nil {
		h.logger.Error("failed to list predictions", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list predictions")
		return
	}
	if predictions == nil {
		predictions = []*store.Prediction{}
	}
	h.writeResult(w, r, map[string]any{"success": true, "predictions": predictions})
}

// handlePredictionStats handles GET /api/predictions/stats.
func (h *Handler) handlePredictionStats(w http.ResponseWriter, r *http.Request) {
	name, kind := h.name, h.kind
	filter := store.PredictionFilter{App: &name, Kind: &kind}
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "since must be an RFC 3339 timestamp")
			return
		}
		filter.Since = &since
	}

	stats, err := h.store.PredictionStats(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to aggregate predictions", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to aggregate predictions")
		return
	}
	h.writeResult(w, r, map[string]any{"success": true, "stats": stats})
}

// record writes one prediction log row. Failures are logged, never returned.
func (h *Handler) record(r *http.Request, inputs, outputs any, callErr error, elapsed time.Duration) {
	if h.store == nil {
		return
	}

	p := &store.Prediction{
		ID:         uuid.New().String(),
		App:        h.name,
		Kind:       h.kind,
		RequestID:  RequestID(r.Context()),
		InputsJSON: marshalOrEmpty(inputs),
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if callErr != nil {
		p.Error = callErr.Error()
	} else {
		p.OutputsJSON = marshalOrEmpty(outputs)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
	defer cancel()
	if err := h.store.SavePrediction(ctx, p); err != nil {
		h.logger.Warn("failed to record prediction", "error", err, "request_id", p.RequestID)
	}
}

func marshalOrEmpty(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// decodeBody reads a JSON object from a size-limited request body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}

// statusFor maps a bridge error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, bridge.ErrRequestValidation):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeCallError reports a failed call as {success:false, error}.
func (h *Handler) writeCallError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	attrs := []any{"error", err, "status", status, "request_id", RequestID(r.Context())}
	var herr *bridge.HandlerError
	if errors.As(err, &herr) && herr.Panic {
		attrs = append(attrs, "panic", true)
	}
	if status >= 500 {
		h.logger.Error("call failed", attrs...)
	} else {
		h.logger.Warn("call rejected", attrs...)
	}
	writeJSONError(w, status, err.Error())
}

// writeJSON encodes body before writing any header. A body JSON cannot
// represent is answered with a 500 {success:false, error} and the encoding
// error is returned.
func writeJSON(w http.ResponseWriter, status int, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response: "+err.Error())
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
	return nil
}

// writeResult writes a successful call result, logging encoding failures.
func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, body any) {
	if err := writeJSON(w, http.StatusOK, body); err != nil {
		h.logger.Error("failed to encode result", "error", err, "request_id", RequestID(r.Context()))
	}
}

// writeJSONError writes a {success:false, error} response.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	data, _ := json.Marshal(map[string]any{"success": false, "error": message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
