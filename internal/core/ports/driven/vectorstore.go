package driven

import (
	"context"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// VectorStore persists chunks with their embeddings and metadata and serves
// nearest-neighbour queries. Implementations embed text themselves using the
// EmbeddingService they are constructed with.
type VectorStore interface {
	// Add stores documents under the given ids. The three slices are parallel.
	// Adding an existing id replaces it.
	Add(ctx context.Context, ids, documents []string, metadatas []domain.ChunkMetadata) error

	// Query returns up to k results ordered by ascending distance to text,
	// restricted by where. An empty store yields an empty slice.
	Query(ctx context.Context, text string, k int, where domain.Where) ([]domain.RetrievalResult, error)

	// Get returns every stored chunk matching where, unranked.
	Get(ctx context.Context, where domain.Where) (*domain.GetResult, error)

	// Delete removes the given ids. Unknown ids are ignored.
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Location returns where data is kept, or "" for in-memory stores.
	Location() string

	// Close releases resources.
	Close() error
}
