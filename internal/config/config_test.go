package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Server.Port)
	}
	if cfg.Gemini.Model != "gemini-1.5-pro-latest" {
		t.Fatalf("unexpected default model %q", cfg.Gemini.Model)
	}
	if cfg.Generation.QuestionCount != 5 {
		t.Fatalf("expected 5 questions, got %d", cfg.Generation.QuestionCount)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Fatalf("expected 2h session ttl, got %s", cfg.Session.TTL)
	}
	if cfg.Storage.ResultsPath != "db/exam_results.json" || cfg.Storage.JobsPath != "db/jobs.json" {
		t.Fatalf("unexpected storage paths: %+v", cfg.Storage)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("DB_NAME", "profiles")
	t.Setenv("QUESTION_COUNT", "3")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Generation.QuestionCount != 3 {
		t.Fatalf("expected 3 questions, got %d", cfg.Generation.QuestionCount)
	}
	if cfg.Session.Backend != "redis" || cfg.Session.TTL != 30*time.Minute {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if !strings.Contains(cfg.GetDatabaseDSN(), "dbname=profiles") {
		t.Fatalf("unexpected dsn %q", cfg.GetDatabaseDSN())
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_MODEL=gemini-test\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// godotenv sets process variables; clear them once the test finishes.
	t.Setenv("GEMINI_MODEL", "")
	os.Unsetenv("GEMINI_MODEL")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.Model != "gemini-test" {
		t.Fatalf("expected model from .env, got %q", cfg.Gemini.Model)
	}
}

func TestValidateRejectsUnknownBackends(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		env  string
		val  string
	}{
		{name: "provider", env: "GENERATION_PROVIDER", val: "llama"},
		{name: "results backend", env: "RESULTS_BACKEND", val: "sqlite"},
		{name: "extractor", env: "PDF_EXTRACTOR", val: "ocr"},
		{name: "session backend", env: "SESSION_BACKEND", val: "disk"},
		{name: "question count", env: "QUESTION_COUNT", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			if _, err := Load(viper.New()); err == nil {
				t.Fatalf("expected error for %s=%s", tt.env, tt.val)
			}
		})
	}
}
