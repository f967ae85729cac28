// Package ai provides factory functions for creating AI service adapters
// and the vector store that depends on them.
package ai

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	embedcache "github.com/custodia-labs/electro-agent/internal/adapters/driven/embedding/cache"
	localembed "github.com/custodia-labs/electro-agent/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/electro-agent/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/electro-agent/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/electro-agent/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/electro-agent/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/electro-agent/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/electro-agent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/electro-agent/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// LLMMode says how Initialise treats the language model.
type LLMMode int

const (
	// LLMSkip does not create an LLM service.
	LLMSkip LLMMode = iota
	// LLMOptional creates one if configured; failures become warnings.
	LLMOptional
	// LLMRequired fails initialisation when no LLM is usable.
	LLMRequired
)

// InitOptions configures Initialise.
type InitOptions struct {
	// ConfigDir is the application directory; the sqlite store defaults to ConfigDir/data.
	ConfigDir string

	// LLM selects how the language model is set up.
	LLM LLMMode

	// SkipPing disables connectivity checks for remote providers.
	SkipPing bool
}

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorStore      driven.VectorStore
	Warnings         []string // Non-fatal issues, e.g. an optional LLM that could not start.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.VectorStore != nil {
		r.VectorStore.Close()
	}
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds the embedding service, vector store and, depending on
// opts.LLM, the language model described by settings.
func Initialise(settings *domain.AppSettings, opts InitOptions) (*InitResult, error) {
	result := &InitResult{}

	embedder, err := createEmbedding(&settings.Embedding, !opts.SkipPing)
	if err != nil {
		return nil, err
	}
	result.EmbeddingService = embedcache.New(embedder, 0)

	store, err := CreateVectorStore(&settings.Store, opts.ConfigDir, result.EmbeddingService)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorStore = store

	if opts.LLM == LLMSkip {
		return result, nil
	}

	llm, err := createLLM(&settings.LLM, !opts.SkipPing)
	switch {
	case err != nil && opts.LLM == LLMRequired:
		result.Close()
		return nil, err
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
	case llm == nil && opts.LLM == LLMRequired:
		result.Close()
		return nil, fmt.Errorf("%w: no LLM provider configured. Run 'electro settings llm' to fix",
			domain.ErrLLMUnavailable)
	case llm == nil:
		result.Warnings = append(result.Warnings, "no LLM provider configured: answering is disabled")
	default:
		result.LLMService = llm
	}

	return result, nil
}

// CreateVectorStore opens the configured store backend.
func CreateVectorStore(
	settings *domain.StoreSettings, configDir string, embedder driven.EmbeddingService,
) (driven.VectorStore, error) {
	switch settings.Backend {
	case domain.StoreBackendMemory:
		return memory.NewVectorStore(embedder)
	case domain.StoreBackendSQLite, "":
		dataDir := settings.DataDir
		if dataDir == "" && configDir != "" {
			dataDir = filepath.Join(configDir, "data")
		}
		return sqlite.NewStore(dataDir, embedder)
	default:
		return nil, fmt.Errorf("%w: unsupported store backend %q", domain.ErrConfig, settings.Backend)
	}
}

func createEmbedding(settings *domain.EmbeddingSettings, ping bool) (driven.EmbeddingService, error) {
	if err := checkAPIKey(settings.Provider, settings.APIKey); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'electro settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured. Run 'electro settings embedding' to fix",
			domain.ErrEmbeddingUnavailable)
	}

	if ping && settings.Provider != domain.AIProviderLocal {
		if err := pingService(svc.Ping); err != nil {
			svc.Close()
			return nil, fmt.Errorf("%w: service unreachable (%w). Run 'electro settings embedding' to fix",
				domain.ErrEmbeddingUnavailable, err)
		}
	}
	return svc, nil
}

func createLLM(settings *domain.LLMSettings, ping bool) (driven.LLMService, error) {
	if err := checkAPIKey(settings.Provider, settings.APIKey); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'electro settings llm' to fix", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	if ping {
		if err := pingService(svc.Ping); err != nil {
			svc.Close()
			return nil, fmt.Errorf("%w: service unreachable (%w). Run 'electro settings llm' to fix",
				domain.ErrLLMUnavailable, err)
		}
	}
	return svc, nil
}

// checkAPIKey reports a configuration error when a provider that needs a key has none.
func checkAPIKey(provider domain.AIProvider, key string) error {
	if provider.RequiresAPIKey() && key == "" {
		return fmt.Errorf("%w: %s requires an API key (set %s or run 'electro settings')",
			domain.ErrConfig, provider, provider.APIKeyEnv())
	}
	return nil
}

func pingService(ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return ping(ctx)
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for use in the settings command to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()
	return pingService(svc.Ping)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()
	return pingService(svc.Ping)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderAnthropic {
		return nil, errors.New("anthropic does not support embeddings, use local, ollama or openai")
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderLocal:
		return localembed.NewEmbeddingService(localDimensions(settings.Model)), nil

	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			MaxTokens: settings.MaxTokens,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:    settings.APIKey,
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			MaxTokens: settings.MaxTokens,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:    settings.APIKey,
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			MaxTokens: settings.MaxTokens,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// localDimensions reads N from a "hash-N" model name.
func localDimensions(model string) int {
	if n, err := strconv.Atoi(strings.TrimPrefix(model, "hash-")); err == nil && n > 0 {
		return n
	}
	return domain.DefaultEmbeddingDims
}

func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
