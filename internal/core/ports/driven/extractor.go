package driven

import (
	"context"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// Extractor recovers normalised plain text from one file format.
type Extractor interface {
	// FileType returns the format this extractor handles.
	FileType() domain.FileType

	// Extensions returns the lower-case file extensions handled, with the dot.
	Extensions() []string

	// Extract reads the document and returns its text.
	// An empty Extraction is a valid, non-error outcome.
	Extract(ctx context.Context, doc domain.SourceDocument) (*domain.Extraction, error)
}

// ExtractorRegistry selects the extractor for a document.
type ExtractorRegistry interface {
	// Register adds an extractor, replacing any previous one for its extensions.
	Register(e Extractor)

	// Get returns the extractor for a filename, or ErrUnsupportedType.
	Get(filename string) (Extractor, error)

	// Extract dispatches to the matching extractor.
	Extract(ctx context.Context, doc domain.SourceDocument) (*domain.Extraction, error)

	// SupportedExtensions lists every registered extension.
	SupportedExtensions() []string
}
