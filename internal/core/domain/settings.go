package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal is the built-in hashing embedder. It needs no service.
	AIProviderLocal AIProvider = "local"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderLocal:
		return "Local (built-in, no service)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// APIKeyEnv returns the environment variable consulted for this provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// StoreBackend selects the vector store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendSQLite persists chunks and embeddings under the data directory.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendMemory keeps everything in process memory.
	StoreBackendMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	return b == StoreBackendSQLite || b == StoreBackendMemory
}

// CorpusSettings locates the corpus on disk.
type CorpusSettings struct {
	// Root is the directory holding one folder per category.
	Root string
}

// StoreSettings configures the vector store.
type StoreSettings struct {
	Backend StoreBackend

	// DataDir is where the sqlite backend keeps its database.
	// Empty means the config directory.
	DataDir string
}

// ChunkerSettings configures segmentation.
type ChunkerSettings struct {
	// ChunkSize is the character budget per chunk.
	ChunkSize int
}

// OCRSettings configures the scanned-PDF fallback.
type OCRSettings struct {
	// Enabled turns the OCR fallback on.
	Enabled bool

	// Language is the recognition language code passed to the OCR engine.
	Language string

	// RasterizerPath is an optional directory holding the PDF rasteriser binary.
	RasterizerPath string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// MaxTokens caps the length of a generated answer.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings configures retrieval and answer grounding.
type RetrievalSettings struct {
	// TopK is the default number of results.
	TopK int

	// ExcerptChars caps each excerpt placed in the LLM context.
	ExcerptChars int

	// HistoryTurns caps the conversation turns sent with a question.
	HistoryTurns int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Corpus    CorpusSettings
	Store     StoreSettings
	Chunker   ChunkerSettings
	OCR       OCRSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Retrieval RetrievalSettings
}

// Defaults used when settings are absent.
const (
	DefaultCorpusRoot    = "./corpus"
	DefaultChunkSize     = 2000
	DefaultOCRLanguage   = "spa"
	DefaultMaxTokens     = 4096
	DefaultExcerptChars  = 1500
	DefaultHistoryTurns  = 10
	DefaultEmbeddingDims = 384
)

// DefaultAppSettings returns settings with sensible defaults.
// Indexing and retrieval work out of the box with the local embedder;
// answering needs an LLM key.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Corpus: CorpusSettings{Root: DefaultCorpusRoot},
		Store:  StoreSettings{Backend: StoreBackendSQLite},
		Chunker: ChunkerSettings{
			ChunkSize: DefaultChunkSize,
		},
		OCR: OCRSettings{
			Enabled:  true,
			Language: DefaultOCRLanguage,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderLocal,
			Model:    DefaultEmbeddingModels()[AIProviderLocal],
		},
		LLM: LLMSettings{
			Provider:  AIProviderAnthropic,
			Model:     DefaultLLMModels()[AIProviderAnthropic],
			MaxTokens: DefaultMaxTokens,
		},
		Retrieval: RetrievalSettings{
			TopK:         DefaultTopK,
			ExcerptChars: DefaultExcerptChars,
			HistoryTurns: DefaultHistoryTurns,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderAnthropic,
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:  "hash-384",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-sonnet-4-20250514",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Built-in
		"hash-384": DefaultEmbeddingDims,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
