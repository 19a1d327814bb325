package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const systemPersona = "You are a friendly and knowledgeable real estate assistant helping buyers find apartments."

// OpenAILLM talks to any OpenAI-compatible chat completion endpoint
type OpenAILLM struct {
	client *openai.Client
	params GenerationParams
}

// NewOpenAILLM creates a client. baseURL may point at NVIDIA, DeepSeek or
// any other compatible endpoint.
func NewOpenAILLM(apiKey, baseURL string, params GenerationParams, httpClient *http.Client) *OpenAILLM {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAILLM{
		client: openai.NewClientWithConfig(cfg),
		params: params,
	}
}

// Provider implements LLMClient
func (o *OpenAILLM) Provider() string { return "openai" }

func (o *OpenAILLM) request(prompt string, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: o.params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPersona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: o.params.Temperature,
		TopP:        o.params.TopP,
		MaxTokens:   o.params.MaxTokens,
		Stream:      stream,
	}
}

// Generate implements LLMClient
func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, o.request(prompt, false))
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream implements LLMClient
func (o *OpenAILLM) GenerateStream(ctx context.Context, prompt string, cb ChunkCallback) (string, error) {
	stream, err := o.client.CreateChatCompletionStream(ctx, o.request(prompt, true))
	if err != nil {
		return "", fmt.Errorf("OpenAI stream failed: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("OpenAI stream read failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunk := resp.Choices[0].Delta.Content
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
