// Package cli provides the cobra command tree for the electro binary.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

// Global flags.
var (
	verbose      bool
	configDir    string
	storeBackend string
)

// Services used by the commands. They are filled in by the bootstrap hook
// before a command runs, or set directly by tests.
var (
	settingsService  driving.SettingsService
	indexService     driving.IndexService
	retrievalService driving.RetrievalService
	assistantService driving.AssistantService
	statsService     driving.StatsService
)

// Need says which services a command requires. Commands declare it through
// the needsAnnotation annotation.
type Need string

// Service requirements, from lightest to heaviest.
const (
	// NeedSettings only opens the configuration.
	NeedSettings Need = "settings"
	// NeedStore opens the embedding service and vector store.
	NeedStore Need = "store"
	// NeedAssistantOptional also creates the LLM when one is configured.
	NeedAssistantOptional Need = "assistant-optional"
	// NeedAssistant fails when no LLM is usable.
	NeedAssistant Need = "assistant"
)

const needsAnnotation = "electro.needs"

// Options are handed to the bootstrap hook.
type Options struct {
	// ConfigDir overrides ~/.electro.
	ConfigDir string

	// Store overrides the configured store backend.
	Store domain.StoreBackend

	// ChunkSize overrides the configured chunk size for this run.
	ChunkSize int

	// Needs is the requirement of the command about to run.
	Needs Need
}

// Services is what the bootstrap hook returns. Nil fields are left unset.
type Services struct {
	Settings  driving.SettingsService
	Index     driving.IndexService
	Retrieval driving.RetrievalService
	Assistant driving.AssistantService
	Stats     driving.StatsService

	// Close releases stores and clients. May be nil.
	Close func()
}

// Bootstrap builds the services for a command.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap     Bootstrap
	closeServices func()
)

// SetBootstrap installs the composition root.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by 'electro version'.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "electro",
	Short: "Study assistant for an electromagnetism course",
	Long: `Electro indexes a corpus of course material (LaTeX sources and PDFs),
organised by topic, and answers student questions grounded on the most
relevant excerpts.

Topics:
  campo_electrico       Campo Electrico
  campo_magnetico       Campo Magnetico
  corriente_directa     Circuitos en Corriente Directa
  corriente_alterna     Circuitos en Corriente Alterna
  maquinas_electricas   Maquinas Electricas`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.electro)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "vector store backend (sqlite|memory)")
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer closeAll()
	return rootCmd.Execute()
}

func closeAll() {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if storeBackend != "" && !domain.StoreBackend(storeBackend).IsValid() {
		return fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, storeBackend)
	}

	need := Need(cmd.Annotations[needsAnnotation])
	if bootstrap == nil || need == "" {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svcs, err := bootstrap(ctx, Options{
		ConfigDir: configDir,
		Store:     domain.StoreBackend(storeBackend),
		ChunkSize: indexChunkSize,
		Needs:     need,
	})
	if err != nil {
		return err
	}
	if svcs == nil {
		return errors.New("bootstrap returned no services")
	}

	if svcs.Settings != nil {
		settingsService = svcs.Settings
	}
	if svcs.Index != nil {
		indexService = svcs.Index
	}
	if svcs.Retrieval != nil {
		retrievalService = svcs.Retrieval
	}
	if svcs.Assistant != nil {
		assistantService = svcs.Assistant
	}
	if svcs.Stats != nil {
		statsService = svcs.Stats
	}
	closeServices = svcs.Close
	return nil
}

// needs builds the annotation map for a command.
func needs(n Need) map[string]string {
	return map[string]string{needsAnnotation: string(n)}
}

// commandContext returns the command's context or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
