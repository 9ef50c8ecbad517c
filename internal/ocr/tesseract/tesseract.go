// Package tesseract recognizes label text with the Tesseract engine.
//
// It wraps gosseract/v2, which links against libtesseract through cgo. The
// language data for every configured language must be installed, or
// TESSDATA_PREFIX must point at a directory holding it.
//
// A Recognizer owns one gosseract client for its whole lifetime. Tesseract
// clients are not safe for concurrent use, so calls are serialized.
package tesseract

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/lehigh-university-libraries/tagscan/internal/images"
	"github.com/lehigh-university-libraries/tagscan/internal/ocr"
)

var _ ocr.Recognizer = (*Recognizer)(nil)

// Config configures the Tesseract client.
type Config struct {
	// Languages are Tesseract language codes; defaults to por and eng.
	Languages []string
	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string
}

// ParseLanguages splits a comma separated language list such as "por,eng".
func ParseLanguages(s string) []string {
	var langs []string
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// Recognizer runs Tesseract over decoded photos.
type Recognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
	logger *slog.Logger
}

// New creates the client and applies cfg. The client is expensive to set
// up, so callers should build one Recognizer and share it.
func New(cfg Config, logger *slog.Logger) (*Recognizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"por", "eng"}
	}

	client := gosseract.NewClient()
	if cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(cfg.Languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	logger.Info("Tesseract recognizer ready", "languages", strings.Join(cfg.Languages, ","), "version", gosseract.Version())
	return &Recognizer{client: client, logger: logger}, nil
}

// Recognize returns one fragment per detected text line, top to bottom.
// The photo is converted to grayscale first.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image) ([]string, error) {
	data, err := images.EncodePNG(imaging.Grayscale(img))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		// Fall back to the plain transcription split into lines.
		text, terr := r.client.Text()
		if terr != nil {
			return nil, fmt.Errorf("OCR failed: %w", terr)
		}
		return ocr.SplitFragments(text), nil
	}

	fragments := make([]string, 0, len(boxes))
	for _, box := range boxes {
		if word := strings.TrimSpace(box.Word); word != "" {
			fragments = append(fragments, word)
		}
	}

	r.logger.Debug("Tesseract recognized text", "lines", len(fragments))
	return fragments, nil
}

// Close releases the underlying client.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}
