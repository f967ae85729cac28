package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive study assistant",
	Long: `Launch the interactive terminal interface.

Chat with the assistant about the course material, keeping the
conversation context between questions, or browse the indexed excerpts.

Controls:
  Enter    - Send question / Search
  Tab      - Change topic filter
  Ctrl+L   - New conversation
  Esc      - Back to menu
  Ctrl+C   - Quit`,
	Args:        cobra.NoArgs,
	Annotations: needs(NeedAssistantOptional),
	RunE:        runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if assistantService == nil || retrievalService == nil {
		return errors.New("assistant and retrieval services not configured")
	}

	ports := tui.NewPorts(assistantService, retrievalService, statsService)
	ports.SearchK = searchK()

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	logger.SetQuiet(true)
	defer logger.SetQuiet(false)

	if err := app.WithContext(commandContext(cmd)).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// searchK is the number of results the TUI search view asks for.
func searchK() int {
	if settingsService == nil {
		return domain.DefaultTopK
	}
	settings, err := settingsService.Get()
	if err != nil || settings.Retrieval.TopK <= 0 {
		return domain.DefaultTopK
	}
	return settings.Retrieval.TopK
}
