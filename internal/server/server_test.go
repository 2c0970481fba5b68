package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"alfredoptarigan/skill-profiler/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	return &config.Config{
		Server:     config.ServerConfig{Port: "0", Env: "test"},
		Gemini:     config.GeminiConfig{Model: "gemini-1.5-pro-latest"},
		Generation: config.GenerationConfig{Provider: "gemini", QuestionCount: 5, Timeout: time.Second},
		Storage: config.StorageConfig{
			JobsPath:       filepath.Join(dir, "jobs.json"),
			ResultsBackend: "file",
			ResultsPath:    filepath.Join(dir, "exam_results.json"),
			MaxFileSize:    1 << 20,
			Extractor:      "pdf",
		},
		Session:   config.SessionConfig{Backend: "memory"},
		RateLimit: config.RateLimitConfig{Max: 2, Expiration: time.Minute},
	}
}

func get(t *testing.T, app *fiber.App, path string) (int, gjson.Result) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, gjson.ParseBytes(data)
}

func TestServerRoutes(t *testing.T) {
	container, err := Build(context.Background(), testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer container.Close()

	app := New(container)

	status, body := get(t, app, "/")
	if status != http.StatusOK || body.Get("message").String() != appName {
		t.Fatalf("root = %d %s", status, body.Raw)
	}

	status, body = get(t, app, "/api/v1/health")
	if status != http.StatusOK || body.Get("status").String() != "healthy" {
		t.Fatalf("health = %d %s", status, body.Raw)
	}

	status, body = get(t, app, "/api/v1/jobs")
	if status != http.StatusOK || body.Get("jobs.#").Int() != 0 {
		t.Fatalf("jobs = %d %s", status, body.Raw)
	}

	status, body = get(t, app, "/api/v1/jobs")
	if status != http.StatusTooManyRequests || body.Get("code").Int() != http.StatusTooManyRequests {
		t.Fatalf("rate limited = %d %s", status, body.Raw)
	}
}

func TestBuildRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.Provider = "bard"

	if _, err := Build(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestGenerationOptionsFollowProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generation.Provider = "openrouter"
	cfg.OpenRouter = config.OpenRouterConfig{BaseURL: "https://openrouter.ai/api/v1", Model: "openai/gpt-4o-mini"}

	opts := generationOptions(cfg)
	if opts.Model != "openai/gpt-4o-mini" || opts.BaseURL != cfg.OpenRouter.BaseURL {
		t.Fatalf("options = %+v", opts)
	}
}
