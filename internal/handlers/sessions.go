package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/tagscan/internal/models"
)

func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, map[string]any{
		"presets": models.PresetCategories,
	})
}

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		sessions := h.sessionStore.GetAll()
		sessionList := make([]models.SessionSummary, 0, len(sessions))
		for _, session := range sessions {
			sessionList = append(sessionList, session.Summary(false))
		}
		sort.Slice(sessionList, func(i, j int) bool {
			return sessionList[i].CreatedAt.Before(sessionList[j].CreatedAt)
		})
		h.writeJSON(w, sessionList)
	case "POST":
		var request struct {
			Location string `json:"location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		location := strings.TrimSpace(request.Location)
		if location == "" {
			h.writeError(w, "location is required", http.StatusBadRequest)
			return
		}

		session := h.sessionStore.Create(location)
		slog.Info("Session created", "session_id", session.ID, "location", location)
		h.writeJSON(w, session.Summary(false))
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	session, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		h.writeJSON(w, session.Summary(true))
	case "DELETE":
		h.sessionStore.Delete(sessionID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTable returns the pivoted inventory table.
func (h *Handler) HandleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	_, table := session.Contents()
	h.writeJSON(w, table)
}

// HandleRecords clears the ledger on DELETE.
func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != "DELETE" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	session.Clear()
	h.writeJSON(w, session.Summary(false))
}
