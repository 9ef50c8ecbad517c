package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/tagscan/internal/models"
	"github.com/lehigh-university-libraries/tagscan/internal/scanner"
)

type scanRequest struct {
	ImageURL       string `json:"image_url"`
	PayloadID      string `json:"payload_id"`
	Category       string `json:"category"`
	CustomCategory string `json:"custom_category"`
}

// choice resolves the typed-or-selected category inputs.
func (s scanRequest) choice() models.CategoryChoice {
	if strings.TrimSpace(s.CustomCategory) != "" {
		return models.Custom(s.CustomCategory)
	}
	return models.Preset(s.Category)
}

// HandleScan accepts a photo either as a multipart upload or as a JSON body
// pointing at an image URL.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	var (
		req     scanRequest
		payload models.ImagePayload
		err     error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		req, payload, err = h.readURLSubmission(r)
	} else {
		req, payload, err = h.readFileSubmission(r)
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.scanner.Process(r.Context(), session, scanner.Submission{
		Payload:  payload,
		Category: req.choice(),
	})
	if err != nil {
		h.writeScanError(w, err)
		return
	}

	h.writeJSON(w, map[string]any{
		"outcome":    result.Outcome,
		"payload_id": result.PayloadID,
		"category":   result.Category,
		"asset_tag":  result.AssetTag,
		"records":    result.Records,
		"message":    outcomeMessage(result),
	})
}

func outcomeMessage(result *scanner.Result) string {
	switch result.Outcome {
	case scanner.OutcomeAdded:
		return fmt.Sprintf("%s: %s added", result.Category, result.AssetTag)
	case scanner.OutcomeNotFound:
		return "Asset tag not found. Try moving closer to the label."
	default:
		return "Photo already processed"
	}
}

func (h *Handler) readFileSubmission(r *http.Request) (scanRequest, models.ImagePayload, error) {
	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			return scanRequest{}, models.ImagePayload{}, fmt.Errorf("failed to read file: %w", err)
		}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return scanRequest{}, models.ImagePayload{}, fmt.Errorf("failed to read file contents: %w", err)
	}
	if len(data) > maxUploadBytes {
		return scanRequest{}, models.ImagePayload{}, fmt.Errorf("file too large (max 10MB)")
	}

	req := scanRequest{
		PayloadID:      r.FormValue("payload_id"),
		Category:       r.FormValue("category"),
		CustomCategory: r.FormValue("custom_category"),
	}
	return req, models.ImagePayload{ID: req.PayloadID, Filename: header.Filename, Data: data}, nil
}

func (h *Handler) readURLSubmission(r *http.Request) (scanRequest, models.ImagePayload, error) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, models.ImagePayload{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if req.ImageURL == "" {
		return req, models.ImagePayload{}, fmt.Errorf("image_url is required")
	}

	data, err := h.fetcher.Fetch(r.Context(), req.ImageURL)
	if err != nil {
		return req, models.ImagePayload{}, err
	}

	parts := strings.Split(req.ImageURL, "/")
	return req, models.ImagePayload{ID: req.PayloadID, Filename: parts[len(parts)-1], Data: data}, nil
}
