package driving

import (
	"context"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// StatsService reports on the contents of the store.
type StatsService interface {
	// CollectionStats returns the total chunk count and collection name.
	CollectionStats(ctx context.Context) (*domain.CollectionStats, error)

	// StatsByCategory returns the chunk count of every taxonomy category.
	StatsByCategory(ctx context.Context) ([]domain.CategoryCount, error)
}
