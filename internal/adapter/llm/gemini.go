package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"qbank/internal/config"
	"qbank/internal/logger"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

// GeminiClient calls the Gemini API. A client is created per call because
// the API key belongs to the calling session.
type GeminiClient struct {
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

func NewGeminiClient(cfg config.LLMConfig) *GeminiClient {
	return &GeminiClient{
		model:       resolveModel(cfg.Model, geminiModels),
		baseURL:     cfg.BaseURL,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
	}
}

func (c *GeminiClient) RequiresCredential() bool { return true }

func (c *GeminiClient) Generate(ctx context.Context, credential, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	clientCfg := &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = c.baseURL
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", callError(ProviderGemini, 0, err)
	}

	genCfg := &genai.GenerateContentConfig{}
	if c.maxTokens > 0 {
		genCfg.MaxOutputTokens = int32(c.maxTokens)
	}
	if c.temperature > 0 {
		temp := float32(c.temperature)
		genCfg.Temperature = &temp
	}

	result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", mapGeminiError(err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		logger.Get().Warn("Gemini reply carried no text", zap.String("model", c.model), zap.Int("candidates", len(result.Candidates)))
		return "", malformed(ProviderGemini)
	}
	return text, nil
}

// mapGeminiError accepts APIError by value or by pointer; the SDK uses both.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return callError(ProviderGemini, apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return callError(ProviderGemini, apiErrPtr.Code, err)
	}
	return callError(ProviderGemini, 0, err)
}
