package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"property-assistant/internal/config"
)

func TestNewLLMClient(t *testing.T) {
	ctx := context.Background()

	_, err := NewLLMClient(ctx, &config.LLMConfig{Provider: "gemini"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewLLMClient(ctx, &config.LLMConfig{Provider: "claude", APIKey: "k"}, zap.NewNop())
	assert.Error(t, err)

	client, err := NewLLMClient(ctx, &config.LLMConfig{Provider: "openai", APIKey: "k", Model: "gpt-4o-mini", Timeout: 5}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "openai", client.Provider())
}

// openAIServer answers chat completion calls, streaming when requested
func openAIServer(t *testing.T, reply string, gotPrompt chan<- string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}

		var req struct {
			Model    string `json:"model"`
			Stream   bool   `json:"stream"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if gotPrompt != nil && len(req.Messages) > 0 {
			gotPrompt <- req.Messages[len(req.Messages)-1].Content
		}

		if !req.Stream {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "chatcmpl-1",
				"object": "chat.completion",
				"model":  req.Model,
				"choices": []map[string]any{{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": reply},
					"finish_reason": "stop",
				}},
			})
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, word := range strings.SplitAfter(reply, " ") {
			chunk, _ := json.Marshal(map[string]any{
				"id":     "chatcmpl-1",
				"object": "chat.completion.chunk",
				"model":  req.Model,
				"choices": []map[string]any{{
					"index": 0,
					"delta": map[string]string{"content": word},
				}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestOpenAILLM_Generate(t *testing.T) {
	prompts := make(chan string, 1)
	srv := openAIServer(t, "Sea Breeze is in Kadri.", prompts)
	defer srv.Close()

	llm := NewOpenAILLM("test-key", srv.URL+"/", GenerationParams{Model: "gpt-4o-mini"}, srv.Client())

	reply, err := llm.Generate(context.Background(), "2bhk in kadri")
	require.NoError(t, err)
	assert.Equal(t, "Sea Breeze is in Kadri.", reply)
	assert.Equal(t, "2bhk in kadri", <-prompts)
}

func TestOpenAILLM_GenerateStream(t *testing.T) {
	srv := openAIServer(t, "Sea Breeze is in Kadri.", nil)
	defer srv.Close()

	llm := NewOpenAILLM("test-key", srv.URL, GenerationParams{Model: "gpt-4o-mini"}, srv.Client())

	var chunks []string
	reply, err := llm.GenerateStream(context.Background(), "2bhk in kadri", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Sea Breeze is in Kadri.", reply)
	assert.Equal(t, []string{"Sea ", "Breeze ", "is ", "in ", "Kadri."}, chunks)
}

func TestOpenAILLM_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	llm := NewOpenAILLM("test-key", srv.URL, GenerationParams{Model: "gpt-4o-mini"}, srv.Client())

	_, err := llm.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI API call failed")
}
