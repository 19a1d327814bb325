package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"property-assistant/internal/config"
)

// ChunkCallback receives incremental text while a reply is streamed
type ChunkCallback func(chunk string) error

// LLMClient is the language model collaborator
type LLMClient interface {
	// Generate returns the complete reply to prompt
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream delivers the reply through cb and returns the full text
	GenerateStream(ctx context.Context, prompt string, cb ChunkCallback) (string, error)

	// Provider names the backing service for logs and metrics
	Provider() string
}

// GenerationParams are sampling settings shared by providers
type GenerationParams struct {
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// NewLLMClient creates the client for the configured provider. A missing
// API key is an error so startup can abort.
func NewLLMClient(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingAPIKey)
	}

	params := GenerationParams{
		Model:       cfg.Model,
		Temperature: float32(cfg.Temperature),
		TopP:        float32(cfg.TopP),
		MaxTokens:   cfg.MaxTokens,
	}
	httpClient := &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}

	switch cfg.Provider {
	case "openai":
		logger.Info("using OpenAI-compatible LLM", zap.String("base", cfg.APIBase), zap.String("model", cfg.Model))
		return NewOpenAILLM(cfg.APIKey, cfg.APIBase, params, httpClient), nil
	case "gemini":
		logger.Info("using Gemini LLM", zap.String("model", cfg.Model))
		return NewGeminiLLM(ctx, cfg.APIKey, params, httpClient)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}
