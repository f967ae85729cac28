// Package domain defines the core business entities for the electromagnetism
// corpus assistant.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Category: The closed subject taxonomy of the corpus
//   - SourceDocument: A corpus file and the category it belongs to
//   - Chunk: A retrievable text segment with its metadata
//   - RetrievalResult: A ranked chunk returned by a similarity query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
