package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
)

type capturedChat struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Stop []string `json:"stop"`
}

func newTestLLM(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewLLMService(LLMConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Limiter: ratelimit.NewWithConfig(ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 100}),
	})
	require.NoError(t, err)
	return s
}

func completion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)

	s, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLLMModel, s.ModelName())
	assert.Equal(t, domain.DefaultMaxTokens, s.maxTokens)
}

func TestChat(t *testing.T) {
	var got capturedChat
	s := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		completion(w, "Respuesta")
	})

	out, err := s.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "sys"},
		{Role: driven.RoleUser, Content: "hola"},
	}, driven.ChatOptions{MaxTokens: 100})
	require.NoError(t, err)

	assert.Equal(t, "Respuesta", out)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestChat_Empty(t *testing.T) {
	s, err := NewLLMService(LLMConfig{APIKey: "k"})
	require.NoError(t, err)
	_, err = s.Chat(context.Background(), nil, driven.ChatOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_DefaultMaxTokensAndStop(t *testing.T) {
	var got capturedChat
	s := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		completion(w, "ok")
	})

	_, err := s.Generate(context.Background(), "p", driven.GenerateOptions{StopWords: []string{"END"}})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, []string{"END"}, got.Stop)
}

func TestChat_APIError(t *testing.T) {
	s := newTestLLM(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	})

	_, err := s.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestToRole(t *testing.T) {
	assert.Equal(t, "system", toRole(driven.RoleSystem))
	assert.Equal(t, "assistant", toRole(driven.RoleAssistant))
	assert.Equal(t, "user", toRole("other"))
}
