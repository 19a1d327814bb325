package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiLLM generates replies through the Gemini API
type GeminiLLM struct {
	client *genai.Client
	params GenerationParams
}

// NewGeminiLLM creates a Gemini client
func NewGeminiLLM(ctx context.Context, apiKey string, params GenerationParams, httpClient *http.Client) (*GeminiLLM, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiLLM{client: client, params: params}, nil
}

// Provider implements LLMClient
func (g *GeminiLLM) Provider() string { return "gemini" }

func (g *GeminiLLM) config() *genai.GenerateContentConfig {
	temperature := g.params.Temperature
	topP := g.params.TopP
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPersona, genai.RoleUser),
		Temperature:       &temperature,
		TopP:              &topP,
		MaxOutputTokens:   int32(g.params.MaxTokens),
	}
}

// Generate implements LLMClient
func (g *GeminiLLM) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.params.Model, genai.Text(prompt), g.config())
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini returned no text")
	}
	return text, nil
}

// GenerateStream implements LLMClient
func (g *GeminiLLM) GenerateStream(ctx context.Context, prompt string, cb ChunkCallback) (string, error) {
	var full strings.Builder
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.params.Model, genai.Text(prompt), g.config()) {
		if err != nil {
			return full.String(), fmt.Errorf("Gemini stream failed: %w", err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if cb != nil {
			if err := cb(chunk); err != nil {
				return full.String(), err
			}
		}
	}
	return full.String(), nil
}
