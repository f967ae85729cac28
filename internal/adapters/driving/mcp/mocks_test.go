package mcp

import (
	"context"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.RetrievalResult
	err     error

	query    string
	k        int
	category string
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	query string,
	k int,
	categoryFilter string,
) ([]domain.RetrievalResult, error) {
	m.query, m.k, m.category = query, k, categoryFilter
	return m.results, m.err
}

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	answer    *domain.Answer
	err       error
	available bool

	question string
	history  []domain.Turn
	category string
}

func (m *mockAssistantService) Ask(
	_ context.Context,
	question string,
	history []domain.Turn,
	categoryFilter string,
) (*domain.Answer, error) {
	m.question, m.history, m.category = question, history, categoryFilter
	return m.answer, m.err
}

func (m *mockAssistantService) Available() bool {
	return m.available
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats     *domain.CollectionStats
	counts    []domain.CategoryCount
	err       error
	countsErr error
}

func (m *mockStatsService) CollectionStats(_ context.Context) (*domain.CollectionStats, error) {
	return m.stats, m.err
}

func (m *mockStatsService) StatsByCategory(_ context.Context) ([]domain.CategoryCount, error) {
	return m.counts, m.countsErr
}

func sampleResult() domain.RetrievalResult {
	return domain.RetrievalResult{
		ID:      "doc_3",
		Content: "La ley de Gauss relaciona el flujo con la carga encerrada.",
		Metadata: domain.ChunkMetadata{
			Source:          "gauss.tex",
			Category:        "campo_electrico",
			CategoryDisplay: "Campo Electrico",
			ChunkNumber:     "0_1",
			FileType:        "tex",
		},
		Distance: 0.12,
	}
}
