package llm

import "fmt"

type ProviderConfig struct {
	Provider  string
	APIKey    string
	AuthToken string // OAuth token (Bearer auth)
	Model     string
	BaseURL   string
}

func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.AuthToken, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
