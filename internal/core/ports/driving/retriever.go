package driving

import (
	"context"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// RetrievalService serves category-scoped similarity queries.
type RetrievalService interface {
	// Retrieve returns up to k chunks ordered by ascending distance.
	// categoryFilter is a taxonomy key, "todos" or empty. An unknown key
	// yields an empty result, not an error.
	Retrieve(ctx context.Context, query string, k int, categoryFilter string) ([]domain.RetrievalResult, error)
}
