package mcp

import (
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval serves similarity queries over the corpus.
	Retrieval driving.RetrievalService

	// Assistant answers questions. Optional; the ask tool is only
	// registered when an LLM is available.
	Assistant driving.AssistantService

	// Stats reports on the store. Optional.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}

func (p *Ports) canAsk() bool {
	return p.Assistant != nil && p.Assistant.Available()
}
