package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService reports on the contents of the vector store.
type StatsService struct {
	store driven.VectorStore
}

// NewStatsService creates a new stats service.
func NewStatsService(store driven.VectorStore) *StatsService {
	return &StatsService{store: store}
}

// CollectionStats returns the total chunk count and collection name.
func (s *StatsService) CollectionStats(ctx context.Context) (*domain.CollectionStats, error) {
	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}

	return &domain.CollectionStats{
		TotalChunks:    count,
		CollectionName: domain.CollectionName,
		Location:       s.store.Location(),
	}, nil
}

// StatsByCategory returns the chunk count of every taxonomy category, in
// taxonomy order. A category whose count cannot be read reports 0.
func (s *StatsService) StatsByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	categories := domain.Categories()
	counts := make([]domain.CategoryCount, 0, len(categories))
	for _, c := range categories {
		n := 0
		got, err := s.store.Get(ctx, domain.WhereCategory(c))
		if err != nil {
			logger.Warn("Counting %s failed: %v", c, err)
		} else {
			n = len(got.IDs)
		}
		counts = append(counts, domain.CategoryCount{
			Category: c,
			Display:  c.Display(),
			Chunks:   n,
		})
	}
	return counts, nil
}
