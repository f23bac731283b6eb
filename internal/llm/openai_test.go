package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sant0-9/expair/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model     string `json:"model"`
	N         int    `json:"n"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIComplete(t *testing.T) {
	var got capturedRequest
	var auth string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "quick-note"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	})

	p := NewOpenAIProvider("sk-test", "gpt-4o-mini", srv.URL+"/v1")
	resp, err := p.Complete(context.Background(), &CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "sys"},
			{Role: RoleUser, Content: "q-n"},
		},
		N:         1,
		MaxTokens: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 1, got.N)
	assert.Equal(t, 1000, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "q-n", got.Messages[1].Content)

	assert.Equal(t, "quick-note", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "choices": []}`))
	})

	p := NewOpenAIProvider("sk-test", "gpt-4o-mini", srv.URL+"/v1")
	resp, err := p.Complete(context.Background(), &CompletionRequest{N: 1, MaxTokens: 1000})
	require.NoError(t, err)
	assert.Empty(t, resp.Content)
}

func TestOpenAICompleteProviderError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "requests"}}`))
	})

	p := NewOpenAIProvider("sk-test", "gpt-4o-mini", srv.URL+"/v1")
	_, err := p.Complete(context.Background(), &CompletionRequest{N: 1, MaxTokens: 1000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI request failed")
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestOpenAIPing(t *testing.T) {
	status := http.StatusOK
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"object": "list", "data": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided"}}`))
	})

	p := NewOpenAIProvider("sk-test", "", srv.URL+"/v1")
	assert.NoError(t, p.Ping(context.Background()))

	status = http.StatusUnauthorized
	assert.EqualError(t, p.Ping(context.Background()), "invalid API key")
}

func TestNewProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := config.DefaultConfig()
	_, err := NewProvider(cfg)
	assert.EqualError(t, err, "openai requires an API key")

	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.Model = "gpt-3.5-turbo"
	_, err = NewProvider(cfg)
	assert.EqualError(t, err, "unsupported model: gpt-3.5-turbo")

	cfg.OpenAI.Model = "gpt-4-turbo"
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}
