package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	s := NewLLMService(LLMConfig{BaseURL: "http://host:11434/"})
	assert.Equal(t, "http://host:11434", s.baseURL)
	assert.Equal(t, DefaultLLMModel, s.ModelName())
	assert.Equal(t, domain.DefaultMaxTokens, s.maxTokens)
}

func TestChat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Role: "assistant", Content: "E = kq/r^2"}})
	}))
	defer srv.Close()

	s := NewLLMService(LLMConfig{BaseURL: srv.URL, Model: "qwen2.5"})
	out, err := s.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "tutor"},
		{Role: driven.RoleUser, Content: "campo de una carga"},
	}, driven.ChatOptions{Temperature: 0.1})
	require.NoError(t, err)

	assert.Equal(t, "E = kq/r^2", out)
	assert.Equal(t, "qwen2.5", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	require.NotNil(t, got.Options)
	assert.Equal(t, domain.DefaultMaxTokens, got.Options.NumPredict)
}

func TestChat_NoMessages(t *testing.T) {
	s := NewLLMService(LLMConfig{})
	_, err := s.Chat(context.Background(), nil, driven.ChatOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "listo"})
	}))
	defer srv.Close()

	s := NewLLMService(LLMConfig{BaseURL: srv.URL})
	out, err := s.Generate(context.Background(), "p", driven.GenerateOptions{MaxTokens: 10, StopWords: []string{"\n"}})
	require.NoError(t, err)
	assert.Equal(t, "listo", out)
	assert.Equal(t, 10, got.Options.NumPredict)
	assert.Equal(t, []string{"\n"}, got.Options.Stop)
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model 'x' not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: srv.URL}).Generate(context.Background(), "p", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewLLMService(LLMConfig{BaseURL: srv.URL}).Ping(context.Background()))
}
