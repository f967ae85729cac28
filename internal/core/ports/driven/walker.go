package driven

import (
	"context"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// CorpusWalker discovers the files of a corpus laid out as one folder per category.
type CorpusWalker interface {
	// Walk lists the documents under root, category by category in taxonomy
	// order. A missing category folder is skipped, not an error.
	Walk(ctx context.Context, root string) ([]domain.SourceDocument, error)
}
