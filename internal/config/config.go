package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Generation GenerationConfig `mapstructure:"generation"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Session    SessionConfig    `mapstructure:"session"`
	Redis      RedisConfig      `mapstructure:"redis"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
}

type GeminiConfig struct {
	// APIKey is only a default for the CLI; the API takes credentials per session.
	APIKey string `mapstructure:"api-key"`
	Model  string `mapstructure:"model"`
}

type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api-key"`
	BaseURL string `mapstructure:"base-url"`
	Model   string `mapstructure:"model"`
}

type GenerationConfig struct {
	Provider      string        `mapstructure:"provider"`
	QuestionCount int           `mapstructure:"question-count"`
	Timeout       time.Duration `mapstructure:"timeout"`
	LogPreview    int           `mapstructure:"log-preview"`
}

type StorageConfig struct {
	JobsPath       string `mapstructure:"jobs-path"`
	ResultsBackend string `mapstructure:"results-backend"`
	ResultsPath    string `mapstructure:"results-path"`
	Partitioned    bool   `mapstructure:"partitioned"`
	MaxFileSize    int64  `mapstructure:"max-file-size"`
	Extractor      string `mapstructure:"extractor"`
}

type SessionConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RateLimitConfig struct {
	Max        int           `mapstructure:"max"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

var defaults = map[string]any{
	"server.port": "3000",
	"server.env":  "development",

	"database.host":     "localhost",
	"database.port":     "5432",
	"database.user":     "postgres",
	"database.password": "postgres",
	"database.name":     "skill_profiler",

	"gemini.api-key": "",
	"gemini.model":   "gemini-1.5-pro-latest",

	"openrouter.api-key":  "",
	"openrouter.base-url": "https://openrouter.ai/api/v1",
	"openrouter.model":    "openai/gpt-4o-mini",

	"generation.provider":       "gemini",
	"generation.question-count": 5,
	"generation.timeout":        "60s",
	"generation.log-preview":    200,

	"storage.jobs-path":       "db/jobs.json",
	"storage.results-backend": "file",
	"storage.results-path":    "db/exam_results.json",
	"storage.partitioned":     false,
	"storage.max-file-size":   10485760,
	"storage.extractor":       "pdf",

	"session.backend": "memory",
	"session.ttl":     "2h",

	"redis.addr":     "localhost:6379",
	"redis.password": "",
	"redis.db":       0,
	"redis.prefix":   "skill-profiler",

	"ratelimit.max":        50,
	"ratelimit.expiration": "1m",

	"log.json":  false,
	"log.debug": false,
}

var envBindings = map[string]string{
	"server.port": "PORT",
	"server.env":  "ENV",

	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.name":     "DB_NAME",

	"gemini.api-key": "GEMINI_API_KEY",
	"gemini.model":   "GEMINI_MODEL",

	"openrouter.api-key":  "OPENROUTER_API_KEY",
	"openrouter.base-url": "OPENROUTER_BASE_URL",
	"openrouter.model":    "OPENROUTER_MODEL",

	"generation.provider":       "GENERATION_PROVIDER",
	"generation.question-count": "QUESTION_COUNT",
	"generation.timeout":        "GENERATION_TIMEOUT",

	"storage.jobs-path":       "JOBS_PATH",
	"storage.results-backend": "RESULTS_BACKEND",
	"storage.results-path":    "RESULTS_PATH",
	"storage.partitioned":     "RESULTS_PARTITIONED",
	"storage.max-file-size":   "MAX_FILE_SIZE",
	"storage.extractor":       "PDF_EXTRACTOR",

	"session.backend": "SESSION_BACKEND",
	"session.ttl":     "SESSION_TTL",

	"redis.addr":     "REDIS_ADDR",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",
	"redis.prefix":   "REDIS_PREFIX",

	"ratelimit.max":        "RATE_LIMIT_MAX",
	"ratelimit.expiration": "RATE_LIMIT_EXPIRATION",

	"log.json":  "LOG_JSON",
	"log.debug": "DEBUG",
}

// Load reads .env (when present), applies defaults and environment bindings to
// v and decodes the result. Any config file must already be read into v.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects unknown backend names and non-positive limits.
func (c *Config) Validate() error {
	switch c.Generation.Provider {
	case "gemini", "openrouter":
	default:
		return fmt.Errorf("unknown generation provider %q", c.Generation.Provider)
	}

	switch c.Storage.ResultsBackend {
	case "file", "postgres":
	default:
		return fmt.Errorf("unknown results backend %q", c.Storage.ResultsBackend)
	}

	switch c.Storage.Extractor {
	case "pdf", "fitz":
	default:
		return fmt.Errorf("unknown pdf extractor %q", c.Storage.Extractor)
	}

	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	if c.Generation.QuestionCount <= 0 {
		return fmt.Errorf("question count must be positive, got %d", c.Generation.QuestionCount)
	}

	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.Storage.MaxFileSize)
	}

	return nil
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}
