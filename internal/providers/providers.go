package providers

import (
	"context"
)

// Config represents the configuration for a vision LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Image is an encoded image handed to a provider
type Image struct {
	Data     []byte
	MIMEType string
}

// Provider defines the interface for a vision LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config, image Image) (string, error)
}
