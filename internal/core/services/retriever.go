package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever serves category-scoped similarity queries against the store.
type Retriever struct {
	store    driven.VectorStore
	defaultK int
}

// NewRetriever creates a retriever. defaultK applies when a caller asks for
// k <= 0; a non-positive defaultK falls back to domain.DefaultTopK. Requests
// above domain.MaxTopK are clamped.
func NewRetriever(store driven.VectorStore, defaultK int) *Retriever {
	if defaultK <= 0 {
		defaultK = domain.DefaultTopK
	}
	return &Retriever{store: store, defaultK: defaultK}
}

// Retrieve returns up to k chunks ordered by ascending distance to query.
func (r *Retriever) Retrieve(
	ctx context.Context, query string, k int, categoryFilter string,
) ([]domain.RetrievalResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q, k=%d, category=%q", query, k, categoryFilter)

	if r.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	// Return empty for empty query
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.RetrievalResult{}, nil
	}

	if k <= 0 {
		k = r.defaultK
	}
	if k > domain.MaxTopK {
		logger.Debug("k=%d above limit, using %d", k, domain.MaxTopK)
		k = domain.MaxTopK
	}

	category, filtered, err := domain.ParseCategoryFilter(categoryFilter)
	if err != nil {
		logger.Warn("Unknown category filter %q, returning no results", categoryFilter)
		return []domain.RetrievalResult{}, nil
	}

	where := domain.Where{}
	if filtered {
		where = domain.WhereCategory(category)
	}

	results, err := r.store.Query(ctx, query, k, where)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return nil, fmt.Errorf("query store: %w", err)
	}

	logger.Info("Retrieved %d results", len(results))
	return results, nil
}
