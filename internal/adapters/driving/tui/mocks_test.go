package tui

import (
	"context"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// mockAssistant implements driving.AssistantService for testing.
type mockAssistant struct {
	available bool
	answer    *domain.Answer
	err       error
}

func (m *mockAssistant) Ask(context.Context, string, []domain.Turn, string) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockAssistant) Available() bool {
	return m.available
}

// mockRetrieval implements driving.RetrievalService for testing.
type mockRetrieval struct {
	results []domain.RetrievalResult
	err     error
	k       int
}

func (m *mockRetrieval) Retrieve(_ context.Context, _ string, k int, _ string) ([]domain.RetrievalResult, error) {
	m.k = k
	return m.results, m.err
}

// mockStats implements driving.StatsService for testing.
type mockStats struct {
	total int
}

func (m *mockStats) CollectionStats(context.Context) (*domain.CollectionStats, error) {
	return &domain.CollectionStats{TotalChunks: m.total, CollectionName: domain.CollectionName}, nil
}

func (m *mockStats) StatsByCategory(context.Context) ([]domain.CategoryCount, error) {
	return nil, nil
}
