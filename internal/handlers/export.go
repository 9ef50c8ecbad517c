package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/tagscan/internal/export"
)

// HandleExport streams the session inventory as a download.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, table := session.Contents()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, export.Snapshot{
		Location: session.Location,
		Records:  records,
		Table:    table,
	}); err != nil {
		h.writeError(w, "Failed to export inventory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := export.FileName(session.Location, format, h.nameScheme)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write export", "session_id", session.ID, "err", err)
		return
	}
	slog.Info("Inventory exported", "session_id", session.ID, "format", format, "records", len(records), "filename", filename)
}
