package driven

import "github.com/custodia-labs/electro-agent/internal/core/domain"

// Segmenter splits extracted text into chunks.
type Segmenter interface {
	// Name returns the segmenter name for logging and configuration.
	Name() string

	// Segment splits text into chunks carrying the document's metadata.
	// Returned chunks have no ID; the indexer assigns them.
	Segment(text string, doc domain.SourceDocument) []domain.Chunk
}
