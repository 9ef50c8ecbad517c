// Package ollama transcribes label photos with a local Ollama vision model.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/tagscan/internal/providers"
)

const defaultURL = "http://localhost:11434"

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Ollama talks to the /api/generate endpoint.
type Ollama struct {
	client *http.Client
}

// New returns an Ollama provider. Local vision models can take minutes on
// CPU, so the timeout is generous.
func New() *Ollama {
	return &Ollama{client: &http.Client{Timeout: 5 * time.Minute}}
}

// baseURL reads OLLAMA_URL, then OLLAMA_HOST.
func baseURL() string {
	for _, key := range []string{"OLLAMA_URL", "OLLAMA_HOST"} {
		if v := os.Getenv(key); v != "" {
			return strings.TrimSuffix(v, "/")
		}
	}
	return defaultURL
}

// ExtractText sends the photo with the prompt and returns the model's reply.
func (o *Ollama) ExtractText(ctx context.Context, config providers.Config, image providers.Image) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   config.Model,
		Prompt:  config.Prompt,
		Images:  []string{base64.StdEncoding.EncodeToString(image.Data)},
		Options: generateOptions{Temperature: config.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL()+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama: %s", out.Error)
	}
	return out.Response, nil
}
