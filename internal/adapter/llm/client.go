// Package llm adapts generative model endpoints to domain.ModelClient.
// Credentials arrive per call so every session can bring its own API key.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"qbank/internal/config"
	"qbank/internal/domain"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

const defaultTimeout = 60 * time.Second

// NewModelClient builds the client selected by cfg.Provider.
func NewModelClient(ctx context.Context, cfg config.LLMConfig) (domain.ModelClient, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(cfg), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case ProviderOllama:
		return NewOllamaClient(cfg)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}

// resolveModel maps a friendly model name to a provider model ID.
// Unknown names are used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// callError classifies a provider failure. Rate limits and server errors keep
// their status for logs and HTTP details.
func callError(provider string, status int, err error) error {
	de := domain.NewModelCallError(fmt.Errorf("%s: %w", provider, err)).WithContext("provider", provider)
	if status > 0 {
		de.WithContext("status", status)
		if status == http.StatusTooManyRequests {
			de.WithContext("rate_limited", true)
		}
	}
	return de
}

func malformed(provider string) error {
	return fmt.Errorf("%s: %w", provider, domain.ErrMalformedReply)
}
