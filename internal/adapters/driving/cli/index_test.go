package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

func TestIndexCmd_Flags(t *testing.T) {
	assert.NotNil(t, indexCmd.Flags().Lookup("corpus"))
	assert.NotNil(t, indexCmd.Flags().Lookup("chunk-size"))
	assert.NotNil(t, reindexCmd.Flags().Lookup("corpus"))

	flag := addCmd.Flags().Lookup("category")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestIndexCmd_IndexesCorpus(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "", "index", "--corpus", sampleCorpus(t))

	require.NoError(t, err)
	assert.Contains(t, out, "Files:   2")
	assert.Contains(t, out, "Chunks:  2")
	assert.Contains(t, out, "IDs:     doc_0 .. doc_1")
}

func TestIndexCmd_UsesCorpusFromSettings(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	require.NoError(t, settingsService.SetCorpusRoot(sampleCorpus(t)))

	out, err := execute(t, "", "index")

	require.NoError(t, err)
	assert.Contains(t, out, "Chunks:  2")
}

func TestIndexCmd_ContinuesIDs(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	corpus := sampleCorpus(t)
	_, err := execute(t, "", "index", "--corpus", corpus)
	require.NoError(t, err)

	out, err := execute(t, "", "index", "--corpus", corpus)

	require.NoError(t, err)
	assert.Contains(t, out, "IDs:     doc_2 .. doc_3")
}

func TestIndexCmd_MissingCorpus(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "", "index", "--corpus", filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorpusNotFound)
}

func TestIndexCmd_NoService(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	indexService = nil

	_, err := execute(t, "", "index")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index service not configured")
}

func TestReindexCmd_RestartsIDs(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	corpus := sampleCorpus(t)
	_, err := execute(t, "", "index", "--corpus", corpus)
	require.NoError(t, err)

	out, err := execute(t, "", "reindex", "--corpus", corpus)

	require.NoError(t, err)
	assert.Contains(t, out, "IDs:     doc_0 .. doc_1")

	stats, err := statsService.CollectionStats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalChunks)
}

func TestAddCmd_AddsFile(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	path := filepath.Join(t.TempDir(), "faraday.tex")
	require.NoError(t, os.WriteFile(path, []byte("La ley de Faraday relaciona la fem con el flujo magnetico."), 0o600))

	out, err := execute(t, "", "add", path, "--category", "campo_magnetico")

	require.NoError(t, err)
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Campo Magnetico")
	assert.Contains(t, out, "IDs:     doc_0 .. doc_0")
}

func TestAddCmd_UnknownCategory(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "", "add", "notes.tex", "--category", "optica")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "valid topics")
}

func TestAddCmd_RequiresCategory(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "", "add", "notes.tex")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}

func TestAddCmd_MissingFile(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "", "add", filepath.Join(t.TempDir(), "nope.tex"), "-c", "campo_electrico")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
