package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	LogLevel slog.Level

	LLMProvider    string // openai, anthropic
	OpenAIKey      string
	AnthropicKey   string // API key (X-Api-Key header)
	AnthropicToken string // OAuth token (Authorization: Bearer header)
	LLMModel       string
	LLMBaseURL     string

	ContentBaseURL string
	ContentToken   string

	QuotaBaseURL string

	DatabasePath string
	MaxHistory   int // conversation store cap, in messages
	MaxContext   int // context window sent to the backend, in messages
}

// Load reads configuration from the environment (and .env when present)
// and fails fast on missing required credentials.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore error if no .env

	level, err := parseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:           envOr("LISTEN_ADDR", ""),
		LogLevel:       level,
		LLMProvider:    envOr("LLM_PROVIDER", "openai"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken: os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		LLMModel:       os.Getenv("LLM_MODEL"),
		LLMBaseURL:     os.Getenv("LLM_BASE_URL"),
		ContentBaseURL: os.Getenv("CONTENT_BASE_URL"),
		ContentToken:   os.Getenv("CONTENT_SERVICE_TOKEN"),
		QuotaBaseURL:   os.Getenv("QUOTA_BASE_URL"),
		DatabasePath:   envOr("DATABASE_PATH", "./data.db"),
		MaxHistory:     envInt("MAX_HISTORY", 50),
		MaxContext:     envInt("MAX_CONTEXT", 30),
	}

	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" && cfg.LLMBaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "anthropic":
		if cfg.AnthropicKey == "" && cfg.AnthropicToken == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY or ANTHROPIC_AUTH_TOKEN is required for the anthropic provider")
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	if cfg.ContentBaseURL == "" {
		return nil, fmt.Errorf("CONTENT_BASE_URL is required")
	}
	if cfg.ContentToken == "" {
		return nil, fmt.Errorf("CONTENT_SERVICE_TOKEN is required")
	}
	if cfg.QuotaBaseURL == "" {
		return nil, fmt.Errorf("QUOTA_BASE_URL is required")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
}
