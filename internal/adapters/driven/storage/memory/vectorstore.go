package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/electro-agent/internal/adapters/driven/storage/vectors"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type entry struct {
	id        string
	content   string
	metadata  domain.ChunkMetadata
	embedding []float32
}

// VectorStore is an in-memory implementation of driven.VectorStore.
// Queries are brute-force cosine over every stored embedding.
type VectorStore struct {
	mu       sync.RWMutex
	entries  []entry
	index    map[string]int
	embedder driven.EmbeddingService
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore(embedder driven.EmbeddingService) (*VectorStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: vector store requires an embedding service", domain.ErrEmbeddingUnavailable)
	}
	return &VectorStore{
		index:    make(map[string]int),
		embedder: embedder,
	}, nil
}

// Add embeds and stores documents. Existing ids are replaced in place.
func (s *VectorStore) Add(ctx context.Context, ids, documents []string, metadatas []domain.ChunkMetadata) error {
	if len(ids) != len(documents) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: %d ids, %d documents, %d metadatas",
			domain.ErrInvalidInput, len(ids), len(documents), len(metadatas))
	}
	if len(ids) == 0 {
		return nil
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, documents)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) != len(documents) {
		return fmt.Errorf("%w: got %d embeddings for %d documents",
			domain.ErrEmbeddingUnavailable, len(embeddings), len(documents))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		e := entry{id: id, content: documents[i], metadata: metadatas[i], embedding: embeddings[i]}
		if pos, ok := s.index[id]; ok {
			s.entries[pos] = e
			continue
		}
		s.index[id] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return nil
}

// Query returns up to k entries ordered by ascending cosine distance.
func (s *VectorStore) Query(
	ctx context.Context, text string, k int, where domain.Where,
) ([]domain.RetrievalResult, error) {
	results := []domain.RetrievalResult{}
	if k <= 0 {
		return results, nil
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	s.mu.RLock()
	for _, e := range s.entries {
		if !where.Matches(e.metadata) {
			continue
		}
		d, ok := vectors.CosineDistance(embedding, e.embedding)
		if !ok {
			continue
		}
		results = append(results, domain.RetrievalResult{
			ID:       e.id,
			Content:  e.content,
			Metadata: e.metadata,
			Distance: d,
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Get returns every entry matching where, in insertion order.
func (s *VectorStore) Get(_ context.Context, where domain.Where) (*domain.GetResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := &domain.GetResult{
		IDs:       []string{},
		Documents: []string{},
		Metadatas: []domain.ChunkMetadata{},
	}
	for _, e := range s.entries {
		if !where.Matches(e.metadata) {
			continue
		}
		result.IDs = append(result.IDs, e.id)
		result.Documents = append(result.Documents, e.content)
		result.Metadatas = append(result.Metadatas, e.metadata)
	}
	return result, nil
}

// Delete removes the given ids. Unknown ids are ignored.
func (s *VectorStore) Delete(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.entries[:0]
	for _, e := range s.entries {
		if !drop[e.id] {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	s.index = make(map[string]int, len(kept))
	for i, e := range kept {
		s.index[e.id] = i
	}
	return nil
}

// Count returns the number of stored entries.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Location returns "" since nothing is persisted.
func (s *VectorStore) Location() string {
	return ""
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
