package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil retrieval service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRetrievalService)
	})

	t.Run("retrieval only creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("all ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Retrieval: &mockRetrievalService{},
			Assistant: &mockAssistantService{available: true},
			Stats:     &mockStatsService{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingRetrievalService)
	assert.NoError(t, (&Ports{Retrieval: &mockRetrievalService{}}).Validate())
}

func TestPorts_canAsk(t *testing.T) {
	tests := []struct {
		name  string
		ports Ports
		want  bool
	}{
		{"no assistant", Ports{}, false},
		{"assistant without llm", Ports{Assistant: &mockAssistantService{}}, false},
		{"assistant with llm", Ports{Assistant: &mockAssistantService{available: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ports.canAsk())
		})
	}
}
