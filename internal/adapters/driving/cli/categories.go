package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the course topics",
	Long: `Lists the topic keys accepted by --category, in taxonomy order.
Each key is also the name of the corpus folder holding that topic.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, c := range domain.Categories() {
			cmd.Printf("  %-22s %s\n", c, c.Display())
		}
		cmd.Printf("  %-22s %s\n", domain.AllCategories, "Todos los temas")
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

// categoryKeys joins the taxonomy keys for error messages.
func categoryKeys() string {
	cats := domain.Categories()
	keys := make([]string, len(cats))
	for i, c := range cats {
		keys[i] = c.String()
	}
	return strings.Join(keys, ", ")
}
