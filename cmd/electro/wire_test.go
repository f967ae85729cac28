package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/adapters/driven/ai"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/cli"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

func TestBootstrap_SettingsOnly(t *testing.T) {
	dir := t.TempDir()

	svcs, err := bootstrap(context.Background(), cli.Options{ConfigDir: dir, Needs: cli.NeedSettings})

	require.NoError(t, err)
	assert.NotNil(t, svcs.Settings)
	assert.Nil(t, svcs.Index)
	assert.Nil(t, svcs.Retrieval)
	assert.Nil(t, svcs.Close)
}

func TestBootstrap_MemoryStore(t *testing.T) {
	dir := t.TempDir()

	svcs, err := bootstrap(context.Background(), cli.Options{
		ConfigDir: dir,
		Store:     domain.StoreBackendMemory,
		Needs:     cli.NeedStore,
	})
	require.NoError(t, err)
	require.NotNil(t, svcs.Close)
	defer svcs.Close()

	assert.NotNil(t, svcs.Index)
	assert.NotNil(t, svcs.Retrieval)
	assert.NotNil(t, svcs.Stats)
	require.NotNil(t, svcs.Assistant)
	assert.False(t, svcs.Assistant.Available())

	stats, err := svcs.Stats.CollectionStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalChunks)
	assert.Empty(t, stats.Location)
}

func TestBootstrap_IndexAndRetrieve(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(t.TempDir(), "corpus")
	require.NoError(t, os.MkdirAll(filepath.Join(corpus, "corriente_alterna"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(corpus, "corriente_alterna", "fasores.tex"),
		[]byte("Un fasor representa una senal sinusoidal por su amplitud y fase."),
		0o600,
	))

	svcs, err := bootstrap(context.Background(), cli.Options{ConfigDir: dir, Needs: cli.NeedStore})
	require.NoError(t, err)
	defer svcs.Close()

	report, err := svcs.Index.IndexCorpus(context.Background(), corpus)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Chunks)

	results, err := svcs.Retrieval.Retrieve(context.Background(), "fasor", 3, "corriente_alterna")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fasores.tex", results[0].Metadata.Source)

	stats, err := svcs.Stats.CollectionStats(context.Background())
	require.NoError(t, err)
	assert.Contains(t, stats.Location, dir)
}

func TestBootstrap_AssistantRequiresLLM(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := bootstrap(context.Background(), cli.Options{
		ConfigDir: t.TempDir(),
		Store:     domain.StoreBackendMemory,
		Needs:     cli.NeedAssistant,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestBootstrap_AssistantOptional(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	svcs, err := bootstrap(context.Background(), cli.Options{
		ConfigDir: t.TempDir(),
		Store:     domain.StoreBackendMemory,
		Needs:     cli.NeedAssistantOptional,
	})
	require.NoError(t, err)
	defer svcs.Close()

	assert.False(t, svcs.Assistant.Available())
}

func TestLLMMode(t *testing.T) {
	tests := []struct {
		need cli.Need
		want ai.LLMMode
	}{
		{cli.NeedSettings, ai.LLMSkip},
		{cli.NeedStore, ai.LLMSkip},
		{cli.NeedAssistantOptional, ai.LLMOptional},
		{cli.NeedAssistant, ai.LLMRequired},
	}

	for _, tt := range tests {
		t.Run(string(tt.need), func(t *testing.T) {
			assert.Equal(t, tt.want, llmMode(tt.need))
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	settings := domain.DefaultAppSettings()

	applyOverrides(&settings, cli.Options{})
	assert.Equal(t, domain.StoreBackendSQLite, settings.Store.Backend)
	assert.Equal(t, domain.DefaultChunkSize, settings.Chunker.ChunkSize)

	applyOverrides(&settings, cli.Options{Store: domain.StoreBackendMemory, ChunkSize: 800})
	assert.Equal(t, domain.StoreBackendMemory, settings.Store.Backend)
	assert.Equal(t, 800, settings.Chunker.ChunkSize)
}

func TestPDFConfig(t *testing.T) {
	cfg := pdfConfig(domain.OCRSettings{Enabled: false, Language: "eng", RasterizerPath: "/opt/bin"})

	assert.False(t, cfg.OCREnabled)
	assert.Equal(t, "eng", cfg.OCRLanguage)
	assert.Equal(t, "/opt/bin", cfg.RasterizerPath)
	assert.Positive(t, cfg.Timeout)
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit := version, commit
	defer func() { version, commit = origVersion, origCommit }()

	version, commit = "1.2.0", "none"
	assert.Equal(t, "1.2.0", versionString())

	commit = "abc123"
	assert.Equal(t, "1.2.0 (abc123)", versionString())
}
