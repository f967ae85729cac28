package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

var (
	searchLimit    int
	searchCategory string
	searchJSON     bool
)

// snippetChars caps the preview printed for each result.
const snippetChars = 200

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed course material",
	Long: `Finds the excerpts closest to the query by semantic similarity.

Results are ordered by ascending distance. Use --category to restrict the
search to one topic, or "todos" for all of them.`,
	Args:        cobra.ExactArgs(1),
	Annotations: needs(NeedStore),
	RunE:        runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", domain.AllCategories, "topic key or \"todos\"")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if err := checkCategoryFilter(searchCategory); err != nil {
		return err
	}

	results, err := retrievalService.Retrieve(commandContext(cmd), query, searchLimit, searchCategory)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RetrievalResult) error {
	if results == nil {
		results = []domain.RetrievalResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RetrievalResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] source (distance)
		meta := results[i].Metadata
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, meta.Source, results[i].Distance)
		cmd.Printf("      %s, fragmento %s\n", meta.CategoryDisplay, meta.ChunkNumber)
		cmd.Printf("      %s\n", snippet(results[i].Content, snippetChars))
		cmd.Println()
	}

	return nil
}

// checkCategoryFilter rejects filters that are neither a topic key nor "todos".
func checkCategoryFilter(filter string) error {
	if _, _, err := domain.ParseCategoryFilter(filter); err != nil {
		return fmt.Errorf("%w (valid topics: %s, %s)", err, categoryKeys(), domain.AllCategories)
	}
	return nil
}

// snippet flattens whitespace and truncates to limit runes.
func snippet(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
