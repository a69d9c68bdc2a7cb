// Package llm generates parenting advice for game reports with a chat model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kkambbaki/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Supported providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-2.0-flash"
)

var (
	ErrOpenAIKeyRequired = errors.New("OpenAI API key is required")
	ErrGeminiKeyRequired = errors.New("Gemini API key is required")
	ErrEmptyCompletion   = errors.New("empty completion")
)

// Prompt is a system plus user message pair
type Prompt struct {
	System string
	User   string
}

// Client completes a prompt in JSON output mode and returns the raw text.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
	Provider() string
}

// NewClient builds the client of the configured provider
func NewClient(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, ErrOpenAIKeyRequired
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, float32(cfg.Temperature)), nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, ErrGeminiKeyRequired
		}
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, float32(cfg.Temperature))
	default:
		logger.Warn("unsupported LLM provider", zap.String("provider", cfg.Provider))
		return nil, fmt.Errorf("Unsupported LLM provider: %s", cfg.Provider)
	}
}
