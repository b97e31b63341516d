package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crossplay/satxword/internal/corpus"
	"github.com/crossplay/satxword/pkg/orchestrator"
	"github.com/crossplay/satxword/pkg/output"
	"github.com/crossplay/satxword/pkg/puzzle"
)

var (
	genCount   int
	genSize    int
	genOutput  string
	genFormat  string
	genSeed    int64
	genTimeout int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate crossword puzzles",
	Long: `Generate one or more crossword puzzles by encoding the grid as a SAT
problem and solving it with a CDCL solver.

Examples:
  # Generate 10 puzzles on a 15x15 grid in JSON format
  crossgen generate --count 10 --size 15 --format json --output ./puzzles

  # Generate a single puzzle in all formats with a fixed seed
  crossgen generate --seed 42 --format all --output ./puzzle`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&genCount, "count", "n", 1, "number of puzzles to generate")
	generateCmd.Flags().IntVarP(&genSize, "size", "s", 15, "grid size (NxN)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", ".", "output directory (created if missing)")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "json", "output format (json, puz, ipuz, or all)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "RNG seed for word sampling (0 = time-based)")
	generateCmd.Flags().IntVar(&genTimeout, "timeout-ms", 0, "solver time budget in milliseconds (0 = unbounded)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	formats, err := parseFormats(genFormat)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	o := orchestrator.New()
	stats, err := o.Initialize([]byte(corpus.Default))
	if err != nil {
		return fmt.Errorf("failed to initialize dictionary: %w", err)
	}
	if verbosity > 0 {
		fmt.Printf("Loaded %d words (max length %d, mean length %.1f)\n", stats.WordCount, stats.MaxLength, stats.MeanLength)
	}

	if err := os.MkdirAll(genOutput, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fmt.Printf("Generating %d puzzle(s) on a %dx%d grid\n", genCount, genSize, genSize)

	for i := 1; i <= genCount; i++ {
		startTime := time.Now()
		fmt.Printf("[%d/%d] Generating puzzle... ", i, genCount)

		seed := genSeed
		if seed == 0 {
			seed = time.Now().UnixNano() + int64(i)
		}

		puz, err := o.GenerateCrossword(genSize, orchestrator.Config{
			Seed:            seed,
			SolverTimeoutMs: genTimeout,
		})
		if err != nil {
			fmt.Printf("FAILED\n")
			return fmt.Errorf("failed to generate puzzle %d: %w", i, err)
		}

		if err := writeOutputFiles(puz, genOutput, i, formats); err != nil {
			fmt.Printf("FAILED\n")
			return fmt.Errorf("failed to write output files for puzzle %d: %w", i, err)
		}

		fmt.Printf("OK (%.1fs)\n", time.Since(startTime).Seconds())
	}

	fmt.Printf("\nSuccessfully generated %d puzzle(s) in %s\n", genCount, genOutput)
	return nil
}

// parseFormats converts a format string into the list of formats to write.
func parseFormats(format string) ([]string, error) {
	format = strings.ToLower(format)
	if format == "all" {
		return []string{"json", "puz", "ipuz"}, nil
	}

	validFormats := map[string]bool{"json": true, "puz": true, "ipuz": true}
	if !validFormats[format] {
		return nil, fmt.Errorf("invalid format: %s (must be json, puz, ipuz, or all)", format)
	}
	return []string{format}, nil
}

// writeOutputFiles writes p to disk, once per requested format, under
// outputDir/puzzle_NNN.<ext>.
func writeOutputFiles(p *puzzle.Puzzle, outputDir string, puzzleNum int, formats []string) error {
	baseName := fmt.Sprintf("puzzle_%03d", puzzleNum)

	for _, format := range formats {
		var filePath string
		var data []byte
		var err error

		switch format {
		case "json":
			filePath = filepath.Join(outputDir, baseName+".json")
			data, err = output.ToJSON(p)
		case "puz":
			filePath = filepath.Join(outputDir, baseName+".puz")
			data, err = output.FormatPuz(p)
		case "ipuz":
			filePath = filepath.Join(outputDir, baseName+".ipuz")
			data, err = output.ToIPuz(p)
		default:
			return fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return fmt.Errorf("failed to format puzzle as %s: %w", format, err)
		}

		if err := os.WriteFile(filePath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s file: %w", format, err)
		}
	}

	return nil
}
