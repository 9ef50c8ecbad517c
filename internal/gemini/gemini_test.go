package gemini

import (
	"context"
	"testing"

	"github.com/lehigh-university-libraries/tagscan/internal/providers"
)

func TestImageFormat(t *testing.T) {
	tests := map[string]string{
		"image/png":  "png",
		"image/jpeg": "jpeg",
		"":           "png",
		"image/":     "png",
	}
	for in, want := range tests {
		if got := imageFormat(in); got != want {
			t.Errorf("imageFormat(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestExtractTextRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := New().ExtractText(context.Background(), providers.Config{}, providers.Image{}); err == nil {
		t.Error("Expected error without API key")
	}
}
