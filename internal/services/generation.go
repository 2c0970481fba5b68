package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// GenerationClient sends a prompt to a remote text-generation service.
//
// Implementations return the raw response text on success. Quota and rate
// limit rejections satisfy errors.Is(err, ErrQuotaExceeded); every other
// failure is a *GenerationError. Calls are never retried.
type GenerationClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationFactory builds a client bound to one credential.
type GenerationFactory func(ctx context.Context, apiKey string) (GenerationClient, error)

type GenerationOptions struct {
	Provider   string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	LogPreview int
}

// NewGenerationFactory returns a factory for the configured provider.
func NewGenerationFactory(opts GenerationOptions, logger *zap.Logger) (GenerationFactory, error) {
	switch opts.Provider {
	case "", ProviderGemini:
		return func(ctx context.Context, apiKey string) (GenerationClient, error) {
			return NewGeminiClient(ctx, apiKey, opts.Model, opts.LogPreview, logger)
		}, nil
	case ProviderOpenRouter:
		return func(_ context.Context, apiKey string) (GenerationClient, error) {
			return NewOpenRouterClient(apiKey, opts.BaseURL, opts.Model, opts.Timeout, opts.LogPreview, logger)
		}, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", opts.Provider)
	}
}
