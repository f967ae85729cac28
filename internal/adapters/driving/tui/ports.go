// Package tui provides an interactive terminal user interface for electro.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant answers questions in the chat view.
	Assistant driving.AssistantService

	// Retrieval serves the search view.
	Retrieval driving.RetrievalService

	// Stats feeds the statistics view. Optional.
	Stats driving.StatsService

	// SearchK is the number of excerpts the search view requests.
	// Zero lets the retrieval service decide.
	SearchK int
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	assistant driving.AssistantService,
	retrieval driving.RetrievalService,
	stats driving.StatsService,
) *Ports {
	return &Ports{
		Assistant: assistant,
		Retrieval: retrieval,
		Stats:     stats,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
