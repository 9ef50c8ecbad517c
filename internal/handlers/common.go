package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/tagscan/internal/export"
	"github.com/lehigh-university-libraries/tagscan/internal/images"
	"github.com/lehigh-university-libraries/tagscan/internal/scanner"
	"github.com/lehigh-university-libraries/tagscan/internal/storage"
)

// maxUploadBytes limits a single photo to 10MB.
const maxUploadBytes = 10 * 1024 * 1024

type Handler struct {
	sessionStore *storage.SessionStore
	scanner      *scanner.Service
	nameScheme   export.NameScheme
	fetcher      *images.Fetcher
}

func New(svc *scanner.Service, nameScheme export.NameScheme) *Handler {
	if nameScheme == "" {
		nameScheme = export.NameByLocation
	}
	return &Handler{
		sessionStore: storage.New(),
		scanner:      svc,
		nameScheme:   nameScheme,
		fetcher:      images.NewFetcher(maxUploadBytes),
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/categories", h.HandleCategories)
	mux.HandleFunc("/api/sessions", h.HandleSessions)
	mux.HandleFunc("/api/sessions/{id}", h.HandleSessionDetail)
	mux.HandleFunc("/api/sessions/{id}/scan", h.HandleScan)
	mux.HandleFunc("/api/sessions/{id}/table", h.HandleTable)
	mux.HandleFunc("/api/sessions/{id}/export", h.HandleExport)
	mux.HandleFunc("/api/sessions/{id}/records", h.HandleRecords)
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// writeScanError maps pipeline errors to HTTP status codes.
func (h *Handler) writeScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scanner.ErrMissingCategory):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, scanner.ErrDecode):
		h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, scanner.ErrRecognition):
		h.writeError(w, err.Error(), http.StatusBadGateway)
	default:
		h.writeError(w, "Failed to process image: "+err.Error(), http.StatusInternalServerError)
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*storage.Session, bool) {
	session, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
