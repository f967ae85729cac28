package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "electro", rootCmd.Use)
	assert.Contains(t, rootCmd.Long, "campo_electrico")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "store"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_CommandNeeds(t *testing.T) {
	tests := []struct {
		args []string
		want Need
	}{
		{[]string{"index"}, NeedStore},
		{[]string{"reindex"}, NeedStore},
		{[]string{"add"}, NeedStore},
		{[]string{"search"}, NeedStore},
		{[]string{"stats"}, NeedStore},
		{[]string{"ask"}, NeedAssistant},
		{[]string{"chat"}, NeedAssistantOptional},
		{[]string{"mcp", "serve"}, NeedAssistantOptional},
		{[]string{"settings"}, NeedSettings},
		{[]string{"settings", "llm"}, NeedSettings},
		{[]string{"categories"}, ""},
		{[]string{"version"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.args[len(tt.args)-1], func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Need(cmd.Annotations[needsAnnotation]))
		})
	}
}

func TestRootCmd_RejectsUnknownStore(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "", "--store", "redis", "categories")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBootstrap_ReceivesOptions(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	stats := statsService
	statsService = nil

	var got Options
	closed := false
	SetBootstrap(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{Stats: stats, Close: func() { closed = true }}, nil
	})

	out, err := execute(t, "", "--config-dir", "/tmp/electro-test", "--store", "memory", "stats")

	require.NoError(t, err)
	assert.Contains(t, out, domain.CollectionName)
	assert.Equal(t, "/tmp/electro-test", got.ConfigDir)
	assert.Equal(t, domain.StoreBackendMemory, got.Store)
	assert.Equal(t, NeedStore, got.Needs)

	closeAll()
	assert.True(t, closed)
}

func TestBootstrap_PassesChunkSize(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	var got Options
	SetBootstrap(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{}, nil
	})

	_, err := execute(t, "", "index", "--corpus", sampleCorpus(t), "--chunk-size", "500")

	require.NoError(t, err)
	assert.Equal(t, 500, got.ChunkSize)
}

func TestBootstrap_NotCalledForPlainCommands(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	called := false
	SetBootstrap(func(context.Context, Options) (*Services, error) {
		called = true
		return &Services{}, nil
	})

	_, err := execute(t, "", "categories")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestBootstrap_ErrorAbortsCommand(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	SetBootstrap(func(context.Context, Options) (*Services, error) {
		return nil, domain.ErrLLMUnavailable
	})

	_, err := execute(t, "", "ask", "que es la inductancia?")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestBootstrap_NilServices(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	SetBootstrap(func(context.Context, Options) (*Services, error) {
		return nil, nil
	})

	_, err := execute(t, "", "stats")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no services")
}
