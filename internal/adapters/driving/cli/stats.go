package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:         "stats",
	Short:       "Show index statistics",
	Long:        `Shows the number of indexed chunks, overall and per topic.`,
	Args:        cobra.NoArgs,
	Annotations: needs(NeedStore),
	RunE:        runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

// statsReport is the JSON shape of 'electro stats --json'.
type statsReport struct {
	*domain.CollectionStats
	Categories []domain.CategoryCount `json:"categories"`
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	ctx := commandContext(cmd)
	stats, err := statsService.CollectionStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	counts, err := statsService.StatsByCategory(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(statsReport{CollectionStats: stats, Categories: counts}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Collection: %s\n", stats.CollectionName)
	cmd.Printf("Chunks:     %d\n", stats.TotalChunks)
	if stats.Location != "" {
		cmd.Printf("Location:   %s\n", stats.Location)
	}
	cmd.Println()
	cmd.Println("By topic:")
	for _, c := range counts {
		cmd.Printf("  %-35s %6d\n", c.Display, c.Chunks)
	}
	return nil
}
