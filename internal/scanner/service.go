// Package scanner runs a captured photo through tag recognition and into a
// session's inventory ledger.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/tagscan/internal/extract"
	"github.com/lehigh-university-libraries/tagscan/internal/images"
	"github.com/lehigh-university-libraries/tagscan/internal/models"
	"github.com/lehigh-university-libraries/tagscan/internal/ocr"
	"github.com/lehigh-university-libraries/tagscan/internal/storage"
	"github.com/lehigh-university-libraries/tagscan/internal/utils"
)

var (
	// ErrMissingCategory means no usable category was supplied. Nothing is
	// recognized and no state changes.
	ErrMissingCategory = errors.New("select or type a category")
	// ErrDecode wraps malformed image payloads.
	ErrDecode = errors.New("image could not be decoded")
	// ErrRecognition wraps failures of the text recognizer itself.
	ErrRecognition = errors.New("text recognition failed")
)

// Outcome describes what happened to a submission that did not fail.
type Outcome string

const (
	OutcomeAdded     Outcome = "added"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeNotFound  Outcome = "not_found"
)

// Submission is one photo plus the category it should be filed under.
type Submission struct {
	Payload  models.ImagePayload
	Category models.CategoryChoice
}

// Result reports the handling of a submission.
type Result struct {
	Outcome   Outcome         `json:"outcome"`
	PayloadID string          `json:"payload_id"`
	Category  models.Category `json:"category"`
	AssetTag  models.AssetTag `json:"asset_tag,omitempty"`
	Fragments int             `json:"fragments"`
	Records   int             `json:"records"`
}

// Reading is the outcome of recognizing a single photo outside any session.
type Reading struct {
	AssetTag  models.AssetTag
	Found     bool
	Fragments []string
	Duration  time.Duration
}

// Service wires the recognizer and extractor together.
type Service struct {
	recognizer ocr.Recognizer
	extractor  *extract.Extractor
	logger     *slog.Logger
}

// NewService returns a Service. The recognizer is shared by every session
// and should be built once per process (see ocr.Lazy).
func NewService(recognizer ocr.Recognizer, extractor *extract.Extractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = extract.New(extract.Options{})
	}
	return &Service{recognizer: recognizer, extractor: extractor, logger: logger}
}

// Read decodes data, recognizes its text and extracts the first tag.
func (s *Service) Read(ctx context.Context, data []byte) (*Reading, error) {
	start := time.Now()

	decoded, err := images.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	fragments, err := s.recognizer.Recognize(ctx, decoded.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecognition, err)
	}

	tag, found := s.extractor.Extract(fragments)
	return &Reading{
		AssetTag:  tag,
		Found:     found,
		Fragments: fragments,
		Duration:  time.Since(start),
	}, nil
}

// Process handles one submission for sess. The session stays locked from the
// duplicate check until the record is appended, so concurrent submissions of
// the same payload produce at most one record.
//
// A payload without an identifier is identified by the MD5 of its bytes.
func (s *Service) Process(ctx context.Context, sess *storage.Session, sub Submission) (*Result, error) {
	category, err := sub.Category.Resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingCategory, err)
	}

	payloadID := sub.Payload.ID
	if payloadID == "" {
		payloadID = utils.CalculateDataMD5(sub.Payload.Data)
	}

	sess.Lock()
	defer sess.Unlock()

	result := &Result{
		PayloadID: payloadID,
		Category:  category,
		Records:   sess.Ledger.Len(),
	}

	if !sess.Gate.ShouldProcess(payloadID) {
		result.Outcome = OutcomeDuplicate
		s.logger.Debug("Skipping already processed payload", "session_id", sess.ID, "payload_id", payloadID)
		return result, nil
	}

	reading, err := s.Read(ctx, sub.Payload.Data)
	if err != nil {
		s.logger.Error("Failed to read asset tag", "session_id", sess.ID, "payload_id", payloadID, "err", err)
		return nil, err
	}

	sess.Gate.MarkSeen(payloadID)
	result.Fragments = len(reading.Fragments)

	if !reading.Found {
		result.Outcome = OutcomeNotFound
		s.logger.Info("No asset tag found", "session_id", sess.ID, "payload_id", payloadID, "fragments", len(reading.Fragments), "duration", reading.Duration)
		return result, nil
	}

	sess.Ledger.Append(category, reading.AssetTag)
	result.Outcome = OutcomeAdded
	result.AssetTag = reading.AssetTag
	result.Records = sess.Ledger.Len()

	s.logger.Info("Asset tag recorded",
		"session_id", sess.ID,
		"payload_id", payloadID,
		"category", category,
		"custom_category", sub.Category.IsCustom(),
		"asset_tag", reading.AssetTag,
		"duration", reading.Duration)
	return result, nil
}
