package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/tagscan/internal/export"
	"github.com/lehigh-university-libraries/tagscan/internal/extract"
	"github.com/lehigh-university-libraries/tagscan/internal/gemini"
	"github.com/lehigh-university-libraries/tagscan/internal/ocr"
	"github.com/lehigh-university-libraries/tagscan/internal/ocr/tesseract"
	"github.com/lehigh-university-libraries/tagscan/internal/ollama"
	"github.com/lehigh-university-libraries/tagscan/internal/openai"
)

// recognizerFlags are shared by every command that reads photos.
type recognizerFlags struct {
	provider string
	model    string
	strict   bool
}

func (f *recognizerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "", "OCR provider: tesseract, gemini, openai, ollama (default $TAGSCAN_OCR_PROVIDER or tesseract)")
	cmd.Flags().StringVar(&f.model, "model", "", "Model for LLM providers (default $TAGSCAN_OCR_MODEL or provider default)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Only accept fragments that are entirely a 5-7 digit tag (default $TAGSCAN_STRICT_MATCH)")
}

func (f *recognizerFlags) providerName() string {
	name := f.provider
	if name == "" {
		name = os.Getenv("TAGSCAN_OCR_PROVIDER")
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = ocr.ProviderTesseract
	}
	return name
}

// extractor honours --strict when given, else TAGSCAN_STRICT_MATCH.
func (f *recognizerFlags) extractor(cmd *cobra.Command) (*extract.Extractor, error) {
	strict := f.strict
	if !cmd.Flags().Changed("strict") {
		if v := os.Getenv("TAGSCAN_STRICT_MATCH"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("invalid TAGSCAN_STRICT_MATCH %q: %w", v, err)
			}
			strict = parsed
		}
	}
	return extract.New(extract.Options{Strict: strict}), nil
}

// buildRecognizer constructs the configured OCR backend.
func buildRecognizer(provider, model string) (ocr.Recognizer, error) {
	switch provider {
	case ocr.ProviderTesseract:
		langs := os.Getenv("TESSERACT_LANGS")
		if langs == "" {
			langs = "por,eng"
		}
		return tesseract.New(tesseract.Config{
			Languages:      tesseract.ParseLanguages(langs),
			TessdataPrefix: os.Getenv("TESSDATA_PREFIX"),
		}, slog.Default())
	case ocr.ProviderGemini:
		return ocr.NewLLMRecognizer(provider, gemini.New(), model, slog.Default()), nil
	case ocr.ProviderOpenAI:
		return ocr.NewLLMRecognizer(provider, openai.New(), model, slog.Default()), nil
	case ocr.ProviderOllama:
		return ocr.NewLLMRecognizer(provider, ollama.New(), model, slog.Default()), nil
	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s (supported: tesseract, gemini, openai, ollama)", provider)
	}
}

func closeRecognizer(r ocr.Recognizer) {
	if c, ok := r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Error("Unable to close recognizer", "err", err)
		}
	}
}

func nameSchemeFromEnv() (export.NameScheme, error) {
	return export.ParseNameScheme(os.Getenv("TAGSCAN_EXPORT_NAME"))
}
