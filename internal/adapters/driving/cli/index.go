package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

var (
	indexCorpus    string
	indexChunkSize int
	addCategory    string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the course corpus",
	Long: `Walks the corpus directory and indexes every .tex and .pdf file.

The corpus holds one folder per topic. Files in unknown folders are
skipped. New chunks continue the id sequence of the existing index, so
run 'electro reindex' to rebuild from scratch.`,
	Args:        cobra.NoArgs,
	Annotations: needs(NeedStore),
	RunE:        runIndex,
}

var reindexCmd = &cobra.Command{
	Use:         "reindex",
	Short:       "Clear the index and index the corpus again",
	Args:        cobra.NoArgs,
	Annotations: needs(NeedStore),
	RunE:        runReindex,
}

var addCmd = &cobra.Command{
	Use:   "add FILE",
	Short: "Index a single file under a topic",
	Long: `Indexes one .tex or .pdf file under the given topic, outside the
corpus walk.

Example:
  electro add apuntes/faraday.tex --category campo_magnetico`,
	Args:        cobra.ExactArgs(1),
	Annotations: needs(NeedStore),
	RunE:        runAdd,
}

func init() {
	indexCmd.Flags().StringVar(&indexCorpus, "corpus", "", "corpus directory (default from settings)")
	indexCmd.Flags().IntVar(&indexChunkSize, "chunk-size", 0, "characters per chunk for this run (default from settings)")
	reindexCmd.Flags().StringVar(&indexCorpus, "corpus", "", "corpus directory (default from settings)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "topic key of the file (required)")
	_ = addCmd.MarkFlagRequired("category")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(addCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}
	if indexChunkSize < 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
	}

	root, err := corpusRoot()
	if err != nil {
		return err
	}

	cmd.Printf("Indexing %s\n", root)
	report, err := indexService.IndexCorpus(commandContext(cmd), root)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	root, err := corpusRoot()
	if err != nil {
		return err
	}

	cmd.Printf("Clearing index and indexing %s\n", root)
	report, err := indexService.ClearAndReindex(commandContext(cmd), root)
	if err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	category, err := domain.ParseCategory(addCategory)
	if err != nil {
		return fmt.Errorf("%w (valid topics: %s)", err, categoryKeys())
	}

	report, err := indexService.AddDocument(commandContext(cmd), args[0], category)
	if err != nil {
		return fmt.Errorf("adding %s failed: %w", args[0], err)
	}

	cmd.Printf("Added %s to %s\n", args[0], category.Display())
	printReport(cmd, report)
	return nil
}

// corpusRoot resolves the corpus directory from the flag or the settings.
func corpusRoot() (string, error) {
	if indexCorpus != "" {
		return indexCorpus, nil
	}
	if settingsService == nil {
		return domain.DefaultCorpusRoot, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.Corpus.Root == "" {
		return domain.DefaultCorpusRoot, nil
	}
	return settings.Corpus.Root, nil
}

func printReport(cmd *cobra.Command, report *domain.IndexReport) {
	if report == nil {
		return
	}

	cmd.Println()
	cmd.Printf("  Files:   %d\n", report.Files)
	cmd.Printf("  Chunks:  %d\n", report.Chunks)
	if report.FirstID != "" {
		cmd.Printf("  IDs:     %s .. %s\n", report.FirstID, report.LastID)
	}
	if report.Empty > 0 {
		cmd.Printf("  Empty:   %d\n", report.Empty)
	}
	if report.Errors > 0 {
		cmd.Printf("  Errors:  %d\n", report.Errors)
	}
	cmd.Printf("  Time:    %s\n", report.Duration.Round(time.Millisecond))

	if len(report.Warnings) > 0 {
		cmd.Println()
		cmd.Println("Warnings:")
		for _, w := range report.Warnings {
			cmd.Printf("  - %s\n", w)
		}
	}
}
