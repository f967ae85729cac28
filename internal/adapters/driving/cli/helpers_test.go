package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/electro-agent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/electro-agent/internal/connectors/filesystem"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/services"
	"github.com/custodia-labs/electro-agent/internal/logger"
	"github.com/custodia-labs/electro-agent/internal/normalisers"
	"github.com/custodia-labs/electro-agent/internal/normalisers/pdf"
	"github.com/custodia-labs/electro-agent/internal/postprocessors/chunker"
)

// MockAssistantService implements driving.AssistantService for CLI tests.
type MockAssistantService struct {
	available bool
	answer    *domain.Answer
	err       error

	question string
	category string
}

func (m *MockAssistantService) Ask(
	_ context.Context, question string, _ []domain.Turn, categoryFilter string,
) (*domain.Answer, error) {
	m.question = question
	m.category = categoryFilter
	return m.answer, m.err
}

func (m *MockAssistantService) Available() bool {
	return m.available
}

// testEnv holds the services installed by setupTestServices.
type testEnv struct {
	assistant *MockAssistantService
	config    *memory.ConfigStore
}

// setupTestServices wires real services over an in-memory store and the
// hashing embedder. The returned cleanup restores the package state.
func setupTestServices(t *testing.T) (*testEnv, func()) {
	t.Helper()

	logger.SetOutput(io.Discard)

	store, err := memory.NewVectorStore(local.NewEmbeddingService(domain.DefaultEmbeddingDims))
	require.NoError(t, err)

	config := memory.NewConfigStore()
	pdfCfg := pdf.DefaultConfig()
	pdfCfg.OCREnabled = false

	retriever := services.NewRetriever(store, domain.DefaultTopK)
	assistant := &MockAssistantService{available: true}

	settingsService = services.NewSettingsService(config, nil)
	indexService = services.NewIndexer(
		filesystem.New(),
		normalisers.NewDefaultRegistry(pdfCfg),
		chunker.New(),
		store,
	)
	retrievalService = retriever
	assistantService = assistant
	statsService = services.NewStatsService(store)

	env := &testEnv{assistant: assistant, config: config}

	return env, func() {
		settingsService = nil
		indexService = nil
		retrievalService = nil
		assistantService = nil
		statsService = nil
		bootstrap = nil
		closeServices = nil
		resetFlags()
		_ = store.Close()
		logger.SetOutput(os.Stderr)
	}
}

// resetFlags restores every flag to its default, since rootCmd is shared
// between tests.
func resetFlags() {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		reset := func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeCorpus creates a small corpus with one file per given category.
func writeCorpus(t *testing.T, files map[domain.Category]map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for category, entries := range files {
		dir := filepath.Join(root, category.String())
		require.NoError(t, os.MkdirAll(dir, 0o755))
		for name, content := range entries {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
		}
	}
	return root
}

func sampleCorpus(t *testing.T) string {
	t.Helper()
	return writeCorpus(t, map[domain.Category]map[string]string{
		domain.CategoryCampoElectrico: {
			"coulomb.tex": "La ley de Coulomb describe la fuerza entre dos cargas puntuales.",
		},
		domain.CategoryMaquinasElectricas: {
			"transformador.tex": "El transformador ideal conserva la potencia entre primario y secundario.",
		},
	})
}
