package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnknownCategory indicates a category key outside the taxonomy.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question answering is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrConfig indicates missing or invalid configuration,
	// such as an absent API key for a configured provider.
	ErrConfig = errors.New("configuration error")

	// Extraction Errors.

	// ErrPDFToolNotFound indicates the poppler utilities are not installed.
	ErrPDFToolNotFound = errors.New("pdf tool not found")

	// ErrOCRUnavailable indicates the OCR engine or rasteriser is missing.
	ErrOCRUnavailable = errors.New("OCR unavailable")

	// ErrCorpusNotFound indicates the corpus root directory does not exist.
	ErrCorpusNotFound = errors.New("corpus root not found")
)
