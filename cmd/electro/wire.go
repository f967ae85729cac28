package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/electro-agent/internal/adapters/driven/ai"
	"github.com/custodia-labs/electro-agent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/cli"
	"github.com/custodia-labs/electro-agent/internal/connectors/filesystem"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/core/services"
	"github.com/custodia-labs/electro-agent/internal/logger"
	"github.com/custodia-labs/electro-agent/internal/normalisers"
	"github.com/custodia-labs/electro-agent/internal/normalisers/pdf"
	"github.com/custodia-labs/electro-agent/internal/postprocessors"
)

// defaultDirName is the configuration directory under the user's home.
const defaultDirName = ".electro"

// bootstrap is the composition root: it reads the settings and builds the
// adapters and services the command declared it needs.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, error) {
	dir, err := resolveConfigDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: open config: %w", domain.ErrConfig, err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	svcs := &cli.Services{Settings: settingsService}
	if opts.Needs == cli.NeedSettings {
		return svcs, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	applyOverrides(settings, opts)

	result, err := ai.Initialise(settings, ai.InitOptions{
		ConfigDir: dir,
		LLM:       llmMode(opts.Needs),
	})
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}

	segmenter, err := buildSegmenter(settings.Chunker.ChunkSize)
	if err != nil {
		result.Close()
		return nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		result.Close()
		return nil, err
	}

	retriever := services.NewRetriever(result.VectorStore, settings.Retrieval.TopK)

	svcs.Index = services.NewIndexer(
		filesystem.New(),
		normalisers.NewDefaultRegistry(pdfConfig(settings.OCR)),
		segmenter,
		result.VectorStore,
	)
	svcs.Retrieval = retriever
	svcs.Stats = services.NewStatsService(result.VectorStore)
	svcs.Assistant = services.NewAssistant(retriever, result.LLMService, prompts, services.AssistantConfig{
		TopK:         settings.Retrieval.TopK,
		ExcerptChars: settings.Retrieval.ExcerptChars,
		HistoryTurns: settings.Retrieval.HistoryTurns,
		MaxTokens:    settings.LLM.MaxTokens,
	})
	svcs.Close = result.Close

	logger.Debug("Store: %s (%s), embedder: %s", settings.Store.Backend,
		result.VectorStore.Location(), result.EmbeddingService.ModelName())
	return svcs, nil
}

func resolveConfigDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: locate home directory: %w", domain.ErrConfig, err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// applyOverrides applies per-run command-line overrides to settings.
func applyOverrides(settings *domain.AppSettings, opts cli.Options) {
	if opts.Store != "" {
		settings.Store.Backend = opts.Store
	}
	if opts.ChunkSize > 0 {
		settings.Chunker.ChunkSize = opts.ChunkSize
	}
}

func llmMode(need cli.Need) ai.LLMMode {
	switch need {
	case cli.NeedAssistant:
		return ai.LLMRequired
	case cli.NeedAssistantOptional:
		return ai.LLMOptional
	default:
		return ai.LLMSkip
	}
}

func buildSegmenter(chunkSize int) (driven.Segmenter, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	return registry.Build(postprocessors.DefaultSegmenter, map[string]any{"chunk_size": chunkSize})
}

func pdfConfig(ocr domain.OCRSettings) pdf.Config {
	cfg := pdf.DefaultConfig()
	cfg.OCREnabled = ocr.Enabled
	if ocr.Language != "" {
		cfg.OCRLanguage = ocr.Language
	}
	cfg.RasterizerPath = ocr.RasterizerPath
	return cfg
}
