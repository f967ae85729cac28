package driving

import (
	"context"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// IndexService builds and maintains the chunk index.
type IndexService interface {
	// IndexCorpus walks the corpus under root and appends every chunk,
	// continuing the id sequence of whatever is already stored.
	IndexCorpus(ctx context.Context, root string) (*domain.IndexReport, error)

	// ClearAndReindex removes every stored chunk, then indexes root.
	ClearAndReindex(ctx context.Context, root string) (*domain.IndexReport, error)

	// AddDocument indexes a single file under the given category.
	AddDocument(ctx context.Context, path string, category domain.Category) (*domain.IndexReport, error)
}
