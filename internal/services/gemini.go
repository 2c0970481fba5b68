package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/skill-profiler/internal/logger"
)

const (
	ProviderGemini     = "gemini"
	defaultGeminiModel = "gemini-1.5-pro-latest"
	defaultLogPreview  = 200
)

// contentGenerator is the part of genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiClient struct {
	models     contentGenerator
	modelName  string
	logPreview int
	logger     *zap.Logger
}

// NewGeminiClient creates a client for the Gemini API bound to apiKey.
func NewGeminiClient(ctx context.Context, apiKey, model string, logPreview int, log *zap.Logger) (GenerationClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiClient(client.Models, model, logPreview, log), nil
}

func newGeminiClient(models contentGenerator, model string, logPreview int, log *zap.Logger) *geminiClient {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	if logPreview <= 0 {
		logPreview = defaultLogPreview
	}

	return &geminiClient{
		models:     models,
		modelName:  model,
		logPreview: logPreview,
		logger:     logger.WithProvider(log, ProviderGemini, model),
	}
}

// Generate implements GenerationClient.
func (g *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("gemini request", zap.String("prompt", logger.TruncateForLog(prompt, g.logPreview)))

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		if isGeminiQuotaError(err) {
			g.logger.Warn("gemini quota exceeded", zap.Error(err))
			return "", quotaError(err)
		}
		g.logger.Error("gemini request failed", zap.Error(err))
		return "", &GenerationError{Op: "generate content", Err: err}
	}

	if resp == nil {
		return "", &GenerationError{Op: "generate content", Err: errors.New("nil response")}
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(part.Text)
		}
	}

	output := builder.String()
	if strings.TrimSpace(output) == "" {
		return "", &GenerationError{Op: "generate content", Err: errors.New("gemini api returned empty response")}
	}

	g.logger.Debug("gemini response", zap.String("text", logger.TruncateForLog(output, g.logPreview)))

	return output, nil
}

func isGeminiQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return isQuotaStatus(apiErr.Code, apiErr.Status)
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return isQuotaStatus(apiErrPtr.Code, apiErrPtr.Status)
	}

	return false
}

func isQuotaStatus(code int, status string) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(strings.ToUpper(status), "RESOURCE_EXHAUSTED")
}
