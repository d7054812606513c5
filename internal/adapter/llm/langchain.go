package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"qbank/internal/config"
	"qbank/internal/logger"
)

// ModelFactory returns the langchaingo model to use for one credential.
type ModelFactory func(credential string) (llms.Model, error)

// LangchainClient sends prompts through a langchaingo llms.Model. It serves
// OpenAI-compatible endpoints (OpenAI, DeepSeek, OpenRouter) and Ollama.
type LangchainClient struct {
	provider           string
	newModel           ModelFactory
	requiresCredential bool
	temperature        float64
	maxTokens          int
	timeout            time.Duration
}

// NewLangchainClient wraps factory. Exported for callers bringing their own llms.Model.
func NewLangchainClient(provider string, factory ModelFactory, requiresCredential bool, cfg config.LLMConfig) *LangchainClient {
	return &LangchainClient{
		provider:           provider,
		newModel:           factory,
		requiresCredential: requiresCredential,
		temperature:        cfg.Temperature,
		maxTokens:          cfg.MaxTokens,
		timeout:            cfg.Timeout,
	}
}

// NewOpenAIClient talks to any OpenAI-compatible chat endpoint; BaseURL
// selects DeepSeek, OpenRouter and the like.
func NewOpenAIClient(cfg config.LLMConfig) *LangchainClient {
	factory := func(credential string) (llms.Model, error) {
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(credential, "Bearer ")),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	}
	return NewLangchainClient(ProviderOpenAI, factory, true, cfg)
}

// NewOllamaClient talks to a local Ollama server, which needs no credential.
func NewOllamaClient(cfg config.LLMConfig) (*LangchainClient, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := []ollama.Option{
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	model, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	factory := func(string) (llms.Model, error) { return model, nil }
	return NewLangchainClient(ProviderOllama, factory, false, cfg), nil
}

func (c *LangchainClient) RequiresCredential() bool { return c.requiresCredential }

func (c *LangchainClient) Generate(ctx context.Context, credential, prompt string) (string, error) {
	model, err := c.newModel(credential)
	if err != nil {
		return "", callError(c.provider, 0, err)
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	var opts []llms.CallOption
	if c.temperature > 0 {
		opts = append(opts, llms.WithTemperature(c.temperature))
	}
	if c.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.maxTokens))
	}

	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}
	resp, err := model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", callError(c.provider, 0, err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		logger.Get().Warn("Model reply carried no text", zap.String("provider", c.provider))
		return "", malformed(c.provider)
	}
	return resp.Choices[0].Content, nil
}
