package services

import (
	"fmt"
	"os"
	"slices"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCorpusRoot    = "corpus.root"
	keyStoreBackend  = "store.backend"
	keyStoreDataDir  = "store.data_dir"
	keyChunkSize     = "chunker.chunk_size"
	keyOCREnabled    = "ocr.enabled"
	keyOCRLanguage   = "ocr.language"
	keyOCRRasterizer = "ocr.rasterizer_path"
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyLLMMaxTokens  = "llm.max_tokens"
	keyTopK          = "retrieval.top_k"
	keyExcerptChars  = "retrieval.excerpt_chars"
	keyHistoryTurns  = "retrieval.history_turns"
	defaultOllamaURL = "http://localhost:11434"
)

// SettingsService manages application settings.
// API keys missing from the config file are taken from the provider's
// environment variable (ANTHROPIC_API_KEY, OPENAI_API_KEY).
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings, with API keys completed
// from the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.load()
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envKey(settings.LLM.Provider)
	}
	return settings, nil
}

// load reads settings from the config store only.
func (s *SettingsService) load() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Corpus: domain.CorpusSettings{
			Root: s.getString(keyCorpusRoot, defaults.Corpus.Root),
		},
		Store: domain.StoreSettings{
			Backend: s.getBackend(defaults.Store.Backend),
			DataDir: s.configStore.GetString(keyStoreDataDir),
		},
		Chunker: domain.ChunkerSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunker.ChunkSize),
		},
		OCR: domain.OCRSettings{
			Enabled:        s.getBool(keyOCREnabled, defaults.OCR.Enabled),
			Language:       s.getString(keyOCRLanguage, defaults.OCR.Language),
			RasterizerPath: s.configStore.GetString(keyOCRRasterizer),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider:  s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:     s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:   s.configStore.GetString(keyLLMBaseURL),
			APIKey:    s.configStore.GetString(keyLLMAPIKey),
			MaxTokens: s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:         s.getInt(keyTopK, defaults.Retrieval.TopK),
			ExcerptChars: s.getInt(keyExcerptChars, defaults.Retrieval.ExcerptChars),
			HistoryTurns: s.getInt(keyHistoryTurns, defaults.Retrieval.HistoryTurns),
		},
	}
}

// Save persists application settings.
// API keys equal to the environment value are not written to disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyCorpusRoot, settings.Corpus.Root},
		{keyStoreBackend, string(settings.Store.Backend)},
		{keyStoreDataDir, settings.Store.DataDir},
		{keyChunkSize, settings.Chunker.ChunkSize},
		{keyOCREnabled, settings.OCR.Enabled},
		{keyOCRLanguage, settings.OCR.Language},
		{keyOCRRasterizer, settings.OCR.RasterizerPath},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyTopK, settings.Retrieval.TopK},
		{keyExcerptChars, settings.Retrieval.ExcerptChars},
		{keyHistoryTurns, settings.Retrieval.HistoryTurns},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	embedKey := s.storedKey(settings.Embedding.Provider, settings.Embedding.APIKey)
	if err := s.configStore.Set(keyEmbedAPIKey, embedKey); err != nil {
		return fmt.Errorf("save embedding api_key: %w", err)
	}
	llmKey := s.storedKey(settings.LLM.Provider, settings.LLM.APIKey)
	if err := s.configStore.Set(keyLLMAPIKey, llmKey); err != nil {
		return fmt.Errorf("save llm api_key: %w", err)
	}

	return nil
}

// SetCorpusRoot updates the corpus location.
func (s *SettingsService) SetCorpusRoot(root string) error {
	if root == "" {
		return fmt.Errorf("%w: corpus root is empty", domain.ErrInvalidInput)
	}
	settings := s.load()
	settings.Corpus.Root = root
	return s.Save(settings)
}

// SetChunkSize updates the segmenter character budget.
func (s *SettingsService) SetChunkSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	settings := s.load()
	settings.Chunker.ChunkSize = size
	return s.Save(settings)
}

// SetOCR updates the scanned-PDF fallback settings.
func (s *SettingsService) SetOCR(enabled bool, language, rasterizerPath string) error {
	if language == "" {
		language = domain.DefaultOCRLanguage
	}
	settings := s.load()
	settings.OCR = domain.OCRSettings{
		Enabled:        enabled,
		Language:       language,
		RasterizerPath: rasterizerPath,
	}
	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.envKey(provider) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrConfig, provider)
	}

	settings := s.load()
	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() || !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.envKey(provider) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrConfig, provider)
	}

	settings := s.load()
	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that current settings are usable for indexing and retrieval.
// A missing LLM is not an error: answering is optional.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Corpus.Root == "" {
		return fmt.Errorf("%w: corpus root is not set", domain.ErrConfig)
	}
	if !settings.Store.Backend.IsValid() {
		return fmt.Errorf("%w: invalid store backend %q", domain.ErrConfig, settings.Store.Backend)
	}
	if settings.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrConfig)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not usable (missing API key?)",
			domain.ErrConfig, settings.Embedding.Provider)
	}
	if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
		return fmt.Errorf("%w: %s requires an API key (set %s)",
			domain.ErrConfig, settings.LLM.Provider, settings.LLM.Provider.APIKeyEnv())
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) envKey(provider domain.AIProvider) string {
	name := provider.APIKeyEnv()
	if name == "" {
		return ""
	}
	return s.getenv(name)
}

// storedKey returns the key to write to disk: empty when it merely mirrors
// the environment.
func (s *SettingsService) storedKey(provider domain.AIProvider, key string) string {
	if key == s.envKey(provider) {
		return ""
	}
	return key
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	backend := domain.StoreBackend(s.configStore.GetString(keyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

// baseURLFor keeps a custom Ollama URL, defaults it when missing and clears
// it for every other provider.
func baseURLFor(provider domain.AIProvider, current string) string {
	if provider != domain.AIProviderOllama {
		return ""
	}
	if current == "" {
		return defaultOllamaURL
	}
	return current
}
