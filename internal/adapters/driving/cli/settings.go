package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the corpus location, the OCR fallback and the AI
providers used for embeddings and answers.

Settings are stored in ~/.electro/config.toml. API keys may also come from
the ANTHROPIC_API_KEY and OPENAI_API_KEY environment variables or a .env file.`,
	Annotations: needs(NeedSettings),
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: needs(NeedSettings),
	RunE:        runSettingsShow,
}

var settingsCorpusCmd = &cobra.Command{
	Use:         "corpus DIR",
	Short:       "Set the corpus directory",
	Args:        cobra.ExactArgs(1),
	Annotations: needs(NeedSettings),
	RunE:        runSettingsCorpus,
}

var settingsOCRCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Configure the OCR fallback for scanned PDFs",
	Long: `Configure the OCR fallback used when a PDF has no text layer.

The fallback rasterises each page with pdftoppm and recognises it with
tesseract. Both must be installed.`,
	Annotations: needs(NeedSettings),
	RunE:        runSettingsOCR,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:         "embedding",
	Short:       "Configure embedding provider",
	Long:        `Configure the embedding provider used to index and search the corpus.`,
	Annotations: needs(NeedSettings),
	RunE:        runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:         "llm",
	Short:       "Configure LLM provider",
	Long:        `Configure the LLM provider that answers questions in 'ask', 'chat' and the MCP server.`,
	Annotations: needs(NeedSettings),
	RunE:        runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsCorpusCmd)
	settingsCmd.AddCommand(settingsOCRCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  Root: %s\n", settings.Corpus.Root)
	cmd.Printf("  Chunk size: %d\n", settings.Chunker.ChunkSize)
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", settings.Store.Backend)
	if settings.Store.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.Store.DataDir)
	}
	cmd.Println()

	cmd.Println("[OCR]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.OCR.Enabled))
	cmd.Printf("  Language: %s\n", settings.OCR.Language)
	if settings.OCR.RasterizerPath != "" {
		cmd.Printf("  Rasterizer path: %s\n", settings.OCR.RasterizerPath)
	}
	cmd.Println()

	// Embedding settings
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider == domain.AIProviderOllama {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", describeKey(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configured(settings.Embedding.IsConfigured()))
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider == domain.AIProviderOllama {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", describeKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	cmd.Printf("  Status: %s\n", configured(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Excerpt chars: %d\n", settings.Retrieval.ExcerptChars)
	cmd.Printf("  History turns: %d\n", settings.Retrieval.HistoryTurns)
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'electro settings llm' or 'electro settings embedding' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsCorpus(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetCorpusRoot(args[0]); err != nil {
		return fmt.Errorf("failed to set corpus root: %w", err)
	}
	cmd.Printf("Corpus root set to: %s\n", args[0])
	return nil
}

func runSettingsOCR(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Printf("Enable OCR fallback? [%s]: ", yesNo(settings.OCR.Enabled))
	enabled := parseYesNo(readLine(reader), settings.OCR.Enabled)

	language := settings.OCR.Language
	rasterizer := settings.OCR.RasterizerPath
	if enabled {
		cmd.Printf("OCR language (tesseract code, e.g. spa, eng, spa+eng) [%s]: ", language)
		if v := readLine(reader); v != "" {
			language = v
		}
		cmd.Printf("Directory containing pdftoppm (empty = PATH) [%s]: ", rasterizer)
		if v := readLine(reader); v != "" {
			rasterizer = v
		}
	}

	if err := settingsService.SetOCR(enabled, language, rasterizer); err != nil {
		return fmt.Errorf("failed to configure OCR: %w", err)
	}

	if enabled {
		cmd.Printf("OCR fallback enabled (%s)\n", language)
	} else {
		cmd.Println("OCR fallback disabled")
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Printf("Enter API key (empty = use %s): ", selectedProvider.APIKeyEnv())
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	cmd.Println("Run 'electro reindex' so stored vectors match the new model.")
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Printf("Enter API key (empty = use %s): ", selectedProvider.APIKeyEnv())
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parseYesNo(input string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes", "s", "si":
		return true
	case "n", "no":
		return false
	default:
		return defaultVal
	}
}

// readPassword reads a secret without echo when in is a terminal, and
// falls back to a plain line from reader otherwise.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func describeKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
