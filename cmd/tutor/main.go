package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/tutor/config"
	"github.com/chris/tutor/internal/agent"
	"github.com/chris/tutor/internal/api"
	"github.com/chris/tutor/internal/cache"
	"github.com/chris/tutor/internal/content"
	"github.com/chris/tutor/internal/db"
	"github.com/chris/tutor/internal/janitor"
	"github.com/chris/tutor/internal/llm"
	"github.com/chris/tutor/internal/quota"
	"github.com/chris/tutor/internal/store"
)

// resultCacheTTL collapses bursts of identical tool calls (model retries)
// without serving stale data across a real edit.
const resultCacheTTL = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	apiKey := cfg.OpenAIKey
	if cfg.LLMProvider == "anthropic" {
		apiKey = cfg.AnthropicKey
	}
	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    apiKey,
		AuthToken: cfg.AnthropicToken,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.LLMBaseURL,
	})
	if err != nil {
		slog.Error("failed to create LLM client", "error", err)
		os.Exit(1)
	}

	transcripts, err := db.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer transcripts.Close()

	results := cache.New[string](resultCacheTTL)
	gate := quota.NewGate(quota.NewClient(cfg.QuotaBaseURL))
	contentClient := content.NewClient(cfg.ContentBaseURL, cfg.ContentToken)
	conversations := store.New(cfg.MaxHistory)
	ag := agent.New(client, results, cfg.MaxContext)

	jan := janitor.New(results, gate.Cache())
	if err := jan.Start(); err != nil {
		slog.Error("failed to start janitor", "error", err)
		os.Exit(1)
	}
	defer jan.Stop()

	handler := api.NewChatHandler(ag, gate, conversations, transcripts, contentClient)
	server := api.NewServer(handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.Addr); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
