// Package ocr defines the text recognition capability used by the scanner.
//
// A Recognizer turns a decoded photo into text fragments in a deterministic
// scan order. Fragments carry no position information. Backends live in
// sub-packages (tesseract) or wrap a vision LLM provider (LLMRecognizer).
package ocr

import (
	"context"
	"image"
	"strings"
)

// Recognizer returns the text fragments found in img.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]string, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, img image.Image) ([]string, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image) ([]string, error) {
	return f(ctx, img)
}

// SplitFragments splits recognized text into non-empty trimmed lines.
func SplitFragments(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	fragments := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fragments = append(fragments, line)
	}
	return fragments
}
