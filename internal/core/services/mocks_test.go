package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/electro-agent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
)

// newTestStore returns an in-memory store backed by the hashing embedder.
func newTestStore(t *testing.T) *memory.VectorStore {
	t.Helper()
	store, err := memory.NewVectorStore(local.NewEmbeddingService(domain.DefaultEmbeddingDims))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// mockWalker returns a fixed document list.
type mockWalker struct {
	docs []domain.SourceDocument
	err  error
}

func (w *mockWalker) Walk(context.Context, string) ([]domain.SourceDocument, error) {
	return w.docs, w.err
}

// mockExtractors maps filenames to extracted text or errors.
type mockExtractors struct {
	texts    map[string]string
	errs     map[string]error
	warnings map[string][]string
}

func (m *mockExtractors) Register(driven.Extractor) {}

func (m *mockExtractors) Get(string) (driven.Extractor, error) {
	return nil, domain.ErrUnsupportedType
}

func (m *mockExtractors) Extract(_ context.Context, doc domain.SourceDocument) (*domain.Extraction, error) {
	if err := m.errs[doc.Filename]; err != nil {
		return nil, err
	}
	return &domain.Extraction{Text: m.texts[doc.Filename], Warnings: m.warnings[doc.Filename]}, nil
}

func (m *mockExtractors) SupportedExtensions() []string {
	return []string{".pdf", ".tex"}
}

// failingStore wraps a store and fails Add for chosen sources.
type failingStore struct {
	driven.VectorStore
	failSource string
	getErr     error
}

func (s *failingStore) Add(ctx context.Context, ids, documents []string, metadatas []domain.ChunkMetadata) error {
	for _, m := range metadatas {
		if m.Source == s.failSource {
			return errors.New("disk full")
		}
	}
	return s.VectorStore.Add(ctx, ids, documents, metadatas)
}

func (s *failingStore) Get(ctx context.Context, where domain.Where) (*domain.GetResult, error) {
	if s.getErr != nil && !where.IsZero() {
		return nil, s.getErr
	}
	return s.VectorStore.Get(ctx, where)
}

// recordingStore wraps a store and remembers the k of the last query.
type recordingStore struct {
	driven.VectorStore
	lastK int
}

func (s *recordingStore) Query(
	ctx context.Context, text string, k int, where domain.Where,
) ([]domain.RetrievalResult, error) {
	s.lastK = k
	return s.VectorStore.Query(ctx, text, k, where)
}

// mockLLM records the messages it receives.
type mockLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return m.reply, m.err
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = messages
	m.opts = opts
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string          { return "mock" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

// mockPrompts serves a fixed system prompt.
type mockPrompts struct {
	prompt string
	err    error
}

func (p *mockPrompts) Load(string) (string, error) {
	return p.prompt, p.err
}

func texDoc(name string, category domain.Category) domain.SourceDocument {
	return domain.SourceDocument{
		Path:     "/corpus/" + category.String() + "/" + name,
		Filename: name,
		Category: category,
		FileType: domain.FileTypeTeX,
	}
}

// seedChunks adds chunks directly to a store.
func seedChunks(t *testing.T, store driven.VectorStore, chunks ...domain.Chunk) {
	t.Helper()
	ids := make([]string, len(chunks))
	docs := make([]string, len(chunks))
	metas := make([]domain.ChunkMetadata, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
		docs[i] = c.Content
		metas[i] = c.Metadata()
	}
	require.NoError(t, store.Add(context.Background(), ids, docs, metas))
}
