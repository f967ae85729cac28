package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query    string `json:"query" jsonschema:"the question or topic to look up in the course material"`
	K        int    `json:"k,omitempty" jsonschema:"maximum number of excerpts to return (default 3)"`
	Category string `json:"category,omitempty" jsonschema:"category key to restrict the search to, or todos"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []ExcerptOutput `json:"results"`
	Count   int             `json:"count"`
}

// ExcerptOutput represents a single retrieved chunk.
type ExcerptOutput struct {
	ID              string  `json:"id"`
	Content         string  `json:"content"`
	Source          string  `json:"source"`
	Category        string  `json:"category"`
	CategoryDisplay string  `json:"category_display"`
	ChunkNumber     string  `json:"chunk_number"`
	FileType        string  `json:"file_type"`
	Distance        float64 `json:"distance"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the student's question"`
	Category string `json:"category,omitempty" jsonschema:"category key to ground the answer on, or todos"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string          `json:"answer"`
	Sources []ExcerptOutput `json:"sources"`
}

// StatsInput is the (empty) input schema for the stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the stats tool.
type StatsOutput struct {
	TotalChunks    int                    `json:"total_chunks"`
	CollectionName string                 `json:"collection_name"`
	Location       string                 `json:"location,omitempty"`
	Categories     []domain.CategoryCount `json:"categories"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the electromagnetism course excerpts most similar to a query",
	}, s.handleRetrieve)

	if s.ports.canAsk() {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question grounded on the course material",
		}, s.handleAsk)
	}

	if s.ports.Stats != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stats",
			Description: "Report how many chunks are indexed, overall and per category",
		}, s.handleStats)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.K, input.Category)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	return nil, RetrieveOutput{
		Results: toExcerpts(results),
		Count:   len(results),
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}

	answer, err := s.ports.Assistant.Ask(ctx, input.Question, nil, input.Category)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Sources: toExcerpts(answer.Sources),
	}, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Stats.CollectionStats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	counts, err := s.ports.Stats.StatsByCategory(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		TotalChunks:    stats.TotalChunks,
		CollectionName: stats.CollectionName,
		Location:       stats.Location,
		Categories:     counts,
	}, nil
}

func toExcerpts(results []domain.RetrievalResult) []ExcerptOutput {
	out := make([]ExcerptOutput, len(results))
	for i := range results {
		m := results[i].Metadata
		out[i] = ExcerptOutput{
			ID:              results[i].ID,
			Content:         results[i].Content,
			Source:          m.Source,
			Category:        m.Category,
			CategoryDisplay: m.CategoryDisplay,
			ChunkNumber:     m.ChunkNumber,
			FileType:        m.FileType,
			Distance:        results[i].Distance,
		}
	}
	return out
}
