package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"alfredoptarigan/skill-profiler/internal/logger"
)

const (
	ProviderOpenRouter       = "openrouter"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "openai/gpt-4o-mini"
)

type openRouterClient struct {
	http       *resty.Client
	modelName  string
	logPreview int
	logger     *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// NewOpenRouterClient creates a chat-completions client bound to apiKey.
func NewOpenRouterClient(apiKey, baseURL, model string, timeout time.Duration, logPreview int, log *zap.Logger) (GenerationClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	if baseURL = strings.TrimSpace(baseURL); baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultOpenRouterModel
	}
	if logPreview <= 0 {
		logPreview = defaultLogPreview
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &openRouterClient{
		http:       client,
		modelName:  model,
		logPreview: logPreview,
		logger:     logger.WithProvider(log, ProviderOpenRouter, model),
	}, nil
}

// Generate implements GenerationClient.
func (o *openRouterClient) Generate(ctx context.Context, prompt string) (string, error) {
	o.logger.Debug("openrouter request", zap.String("prompt", logger.TruncateForLog(prompt, o.logPreview)))

	resp, err := o.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:    o.modelName,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}).
		Post("/chat/completions")
	if err != nil {
		o.logger.Error("openrouter request failed", zap.Error(err))
		return "", &GenerationError{Op: "chat completion", Err: err}
	}

	body := resp.String()

	if resp.StatusCode() == http.StatusTooManyRequests {
		o.logger.Warn("openrouter quota exceeded", zap.String("body", logger.TruncateForLog(body, o.logPreview)))
		return "", quotaError(fmt.Errorf("openrouter status %d: %s", resp.StatusCode(), gjson.Get(body, "error.message").String()))
	}

	if resp.IsError() {
		return "", &GenerationError{
			Op:  "chat completion",
			Err: fmt.Errorf("openrouter status %d: %s", resp.StatusCode(), gjson.Get(body, "error.message").String()),
		}
	}

	// Some upstream providers report rate limits inside a 200 body.
	if code := gjson.Get(body, "error.code").Int(); code == http.StatusTooManyRequests {
		return "", quotaError(errors.New(gjson.Get(body, "error.message").String()))
	}

	text := gjson.Get(body, "choices.0.message.content").String()
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Op: "chat completion", Err: errors.New("openrouter returned empty response")}
	}

	o.logger.Debug("openrouter response", zap.String("text", logger.TruncateForLog(text, o.logPreview)))

	return text, nil
}
