package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eugenenazirov/siteconf/internal/composer"
	"github.com/eugenenazirov/siteconf/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler serves the published configuration record.
type Handler struct {
	storage storage.Storage
	clock   func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler reading from store.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	status := "ok"
	if _, err := h.storage.Record(); err != nil {
		status = "starting"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    status,
		Timestamp: h.clock(),
	})
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.record(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handlePublicConfig(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.record(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec.RuntimeConfig.Public)
}

func (h *Handler) handleModules(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.record(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, modulesResponse{Modules: rec.Modules})
}

func (h *Handler) handleStyles(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.record(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stylesResponse{Styles: rec.Styles})
}

func (h *Handler) record(w http.ResponseWriter) (composer.Record, bool) {
	rec, err := h.storage.Record()
	if err != nil {
		if errors.Is(err, storage.ErrNotPublished) {
			writeError(w, http.StatusServiceUnavailable, "Configuration unavailable", err.Error())
			return composer.Record{}, false
		}
		writeInternalError(w, err)
		return composer.Record{}, false
	}
	return rec, true
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type modulesResponse struct {
	Modules []string `json:"modules"`
}

type stylesResponse struct {
	Styles []string `json:"css"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
