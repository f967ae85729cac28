package driving

import (
	"context"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// AssistantService answers questions grounded on retrieved course material.
type AssistantService interface {
	// Ask retrieves relevant excerpts and asks the LLM to answer, given the
	// prior conversation.
	Ask(ctx context.Context, question string, history []domain.Turn, categoryFilter string) (*domain.Answer, error)

	// Available returns true if an LLM is configured.
	Available() bool
}
