package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/tagscan/internal/images"
	"github.com/lehigh-university-libraries/tagscan/internal/providers"
)

// Provider names accepted by TAGSCAN_OCR_PROVIDER.
const (
	ProviderTesseract = "tesseract"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

const labelPrompt = `You are performing OCR (Optical Character Recognition) on a photo of a physical inventory label.

Transcribe ALL visible text exactly as printed, one printed line per output line.
Keep digits, spaces, dots and hyphens exactly where they appear.
Do not add interpretation, commentary or formatting.
If nothing is legible, return an empty response.`

// LLMRecognizer transcribes photos with a vision LLM provider.
type LLMRecognizer struct {
	name     string
	provider providers.Provider
	config   providers.Config
	logger   *slog.Logger
}

// NewLLMRecognizer wraps provider. An empty model selects the provider default.
func NewLLMRecognizer(name string, provider providers.Provider, model string, logger *slog.Logger) *LLMRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if model == "" {
		model = DefaultModel(name)
	}
	return &LLMRecognizer{
		name:     name,
		provider: provider,
		config: providers.Config{
			Model:       model,
			Temperature: 0.0,
			Prompt:      labelPrompt,
		},
		logger: logger,
	}
}

// Recognize sends img as PNG and returns the transcription split into lines.
func (r *LLMRecognizer) Recognize(ctx context.Context, img image.Image) ([]string, error) {
	data, err := images.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	text, err := r.provider.ExtractText(ctx, r.config, providers.Image{Data: data, MIMEType: "image/png"})
	if err != nil {
		return nil, fmt.Errorf("%s OCR failed: %w", r.name, err)
	}

	fragments := SplitFragments(text)
	r.logger.Info("Extracted OCR text", "provider", r.name, "model", r.config.Model, "fragments", len(fragments))
	return fragments, nil
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	if model := os.Getenv("TAGSCAN_OCR_MODEL"); model != "" {
		return model
	}
	switch provider {
	case ProviderGemini:
		return "gemini-1.5-flash"
	case ProviderOpenAI:
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			return "gpt-4o"
		}
		return model
	case ProviderOllama:
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			return "mistral-small3.2:24b"
		}
		return model
	default:
		return ""
	}
}
