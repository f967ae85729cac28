// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusWalker: Discovers corpus files per category
//   - Extractor: Recovers plain text from one file format
//   - ExtractorRegistry: Selects the extractor for a file
//   - Segmenter: Splits extracted text into chunks
//   - VectorStore: Chunk persistence and similarity queries
//   - EmbeddingService: Generates vector embeddings for the store
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates for the assistant
//   - AIConfigValidator: Checks provider settings before they are saved
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model. Without it, question answering is disabled
//     and only retrieval is available.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
