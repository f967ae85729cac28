package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

var askCategory string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the course material",
	Long: `Retrieves the most relevant excerpts and asks the configured LLM to
answer from them. The sources the answer was grounded on are listed after it.

For a multi-turn conversation use 'electro chat'.`,
	Args:        cobra.ExactArgs(1),
	Annotations: needs(NeedAssistant),
	RunE:        runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCategory, "category", "c", domain.AllCategories, "topic key or \"todos\"")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(args[0])
	if question == "" {
		return fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	if assistantService == nil {
		return errors.New("assistant service not configured")
	}
	if !assistantService.Available() {
		return fmt.Errorf("%w: run 'electro settings llm' to configure one", domain.ErrLLMUnavailable)
	}
	if err := checkCategoryFilter(askCategory); err != nil {
		return err
	}

	answer, err := assistantService.Ask(commandContext(cmd), question, nil, askCategory)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)

	if sources := sourceNames(answer.Sources); len(sources) > 0 {
		cmd.Println()
		cmd.Println("Fuentes:")
		for _, s := range sources {
			cmd.Printf("  - %s\n", s)
		}
	}
	return nil
}

// sourceNames lists the distinct sources in rank order.
func sourceNames(results []domain.RetrievalResult) []string {
	seen := make(map[string]bool, len(results))
	var names []string
	for i := range results {
		meta := results[i].Metadata
		name := fmt.Sprintf("%s (%s)", meta.Source, meta.CategoryDisplay)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
