package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crossplay/satxword/pkg/output"
)

var (
	convertInput  string
	convertOutput string
	convertFormat string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert puzzles between different formats",
	Long: `Convert a generated crossword puzzle between output formats.

Supported formats:
  - json: the engine's native JSON output record
  - puz:  Across Lite .puz binary format
  - ipuz: ipuz JSON format (modern web standard)

Input must be a previously generated JSON puzzle file (the .puz and .ipuz
formats are write-only here).

Examples:
  # Convert JSON to .puz format
  crossgen convert --input puzzle.json --output puzzle.puz --format puz

  # Convert JSON to ipuz format
  crossgen convert --input puzzle.json --output puzzle.ipuz --format ipuz`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "input puzzle JSON file (required)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file path (required)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "target format: json, puz, or ipuz (required)")

	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
	convertCmd.MarkFlagRequired("format")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if verbosity > 0 {
		fmt.Printf("Converting: %s -> %s\n", convertInput, convertOutput)
		fmt.Printf("Target format: %s\n", convertFormat)
	}

	targetFormat := strings.ToLower(convertFormat)
	if targetFormat != "json" && targetFormat != "puz" && targetFormat != "ipuz" {
		return fmt.Errorf("unsupported format '%s': must be json, puz, or ipuz", convertFormat)
	}

	inputData, err := os.ReadFile(convertInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	p, err := output.FromJSON(inputData)
	if err != nil {
		return fmt.Errorf("failed to parse input as puzzle JSON: %w", err)
	}

	var outputData []byte
	switch targetFormat {
	case "json":
		outputData, err = output.ToJSON(p)
	case "puz":
		outputData, err = output.FormatPuz(p)
	case "ipuz":
		outputData, err = output.ToIPuz(p)
	}
	if err != nil {
		return fmt.Errorf("failed to convert to %s: %w", targetFormat, err)
	}

	if err := os.WriteFile(convertOutput, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Successfully converted %s to %s format\n", convertInput, targetFormat)
	if verbosity > 0 {
		fmt.Printf("Output written to: %s\n", convertOutput)
	}
	return nil
}
