package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crossplay/satxword/internal/corpus"
	"github.com/crossplay/satxword/pkg/orchestrator"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display dictionary statistics",
	Long: `Display statistics about the embedded word dictionary: how many
words it holds, and their length distribution.

Examples:
  # Show stats for the bundled dictionary
  crossgen stats`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	o := orchestrator.New()
	stats, err := o.Initialize([]byte(corpus.Default))
	if err != nil {
		return fmt.Errorf("failed to initialize dictionary: %w", err)
	}

	fmt.Printf("\nDictionary Statistics\n")
	fmt.Printf("=====================\n")
	fmt.Printf("Word count:  %d\n", stats.WordCount)
	fmt.Printf("Max length:  %d\n", stats.MaxLength)
	fmt.Printf("Mean length: %.2f\n", stats.MeanLength)

	return nil
}
