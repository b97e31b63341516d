package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crossplay/satxword/pkg/decoder"
	"github.com/crossplay/satxword/pkg/output"
	"github.com/crossplay/satxword/pkg/puzzle"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate crossword puzzle files",
	Long: `Validate one or more crossword puzzle JSON files for correctness.

Checks include:
  - Grid connectivity (all filled cells reachable from one another)
  - Minimum word length
  - Clue completeness (every clue has text and an answer of its declared length)

Examples:
  # Validate a single puzzle file
  crossgen validate --input puzzle.json

  # Validate all puzzles in a directory
  crossgen validate --input ./puzzles`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "input file or directory to validate (required)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if verbosity > 0 {
		fmt.Printf("Validating: %s\n", validateInput)
	}

	info, err := os.Stat(validateInput)
	if err != nil {
		return fmt.Errorf("failed to access input path: %w", err)
	}

	var filesToValidate []string
	if info.IsDir() {
		files, err := filepath.Glob(filepath.Join(validateInput, "*.json"))
		if err != nil {
			return fmt.Errorf("failed to list directory: %w", err)
		}
		if len(files) == 0 {
			return fmt.Errorf("no .json files found in directory: %s", validateInput)
		}
		filesToValidate = files
	} else {
		filesToValidate = []string{validateInput}
	}

	totalFiles := len(filesToValidate)
	invalidFiles := 0
	validFiles := 0

	for _, filePath := range filesToValidate {
		if verbosity > 0 {
			fmt.Printf("\nValidating: %s\n", filePath)
		}

		valid, err := validatePuzzleFile(filePath)
		if err != nil {
			fmt.Printf("FAIL %s: ERROR - %v\n", filepath.Base(filePath), err)
			invalidFiles++
		} else if !valid {
			invalidFiles++
		} else {
			if verbosity > 0 {
				fmt.Printf("OK %s: VALID\n", filepath.Base(filePath))
			}
			validFiles++
		}
	}

	fmt.Printf("\n")
	fmt.Printf("Validation Summary:\n")
	fmt.Printf("  Total files:   %d\n", totalFiles)
	fmt.Printf("  Valid:         %d\n", validFiles)
	fmt.Printf("  Invalid:       %d\n", invalidFiles)

	if invalidFiles > 0 {
		os.Exit(1)
	}
	return nil
}

// validatePuzzleFile validates a single puzzle file. Returns true if valid,
// false if invalid, and an error if the file can't be processed at all.
func validatePuzzleFile(filePath string) (bool, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to read file: %w", err)
	}

	p, err := output.FromJSON(data)
	if err != nil {
		return false, fmt.Errorf("invalid JSON format: %w", err)
	}

	if p.Size == 0 || len(p.Grid) == 0 {
		fmt.Printf("FAIL %s: INVALID - empty grid\n", filepath.Base(filePath))
		return false, nil
	}

	var errs []string

	if !isConnected(p) {
		errs = append(errs, "grid has disconnected filled cells")
	}
	if hasShortWords(p) {
		errs = append(errs, fmt.Sprintf("grid contains words shorter than minimum length (%d)", decoder.MinWordLength))
	}
	errs = append(errs, validateClueCompleteness(p)...)

	if len(errs) > 0 {
		fmt.Printf("FAIL %s: INVALID\n", filepath.Base(filePath))
		for _, e := range errs {
			fmt.Printf("   - %s\n", e)
		}
		return false, nil
	}
	return true, nil
}

// isConnected reports whether every filled cell is reachable from every
// other filled cell via a flood fill over 4-connected neighbors.
func isConnected(p *puzzle.Puzzle) bool {
	size := p.Size
	total := 0
	startY, startX := -1, -1
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if p.Grid[y][x].Letter != "" {
				total++
				if startY == -1 {
					startY, startX = y, x
				}
			}
		}
	}
	if total == 0 {
		return false
	}

	visited := make([][]bool, size)
	for i := range visited {
		visited[i] = make([]bool, size)
	}
	queue := [][2]int{{startY, startX}}
	visited[startY][startX] = true
	count := 1
	dirs := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range dirs {
			ny, nx := cur[0]+d[0], cur[1]+d[1]
			if ny < 0 || ny >= size || nx < 0 || nx >= size {
				continue
			}
			if visited[ny][nx] || p.Grid[ny][nx].Letter == "" {
				continue
			}
			visited[ny][nx] = true
			count++
			queue = append(queue, [2]int{ny, nx})
		}
	}
	return count == total
}

// hasShortWords reports whether any across or down run is shorter than
// decoder.MinWordLength.
func hasShortWords(p *puzzle.Puzzle) bool {
	size := p.Size
	check := func(length int) bool {
		return length > 0 && length < decoder.MinWordLength
	}

	for y := 0; y < size; y++ {
		length := 0
		for x := 0; x < size; x++ {
			if p.Grid[y][x].Letter == "" {
				if check(length) {
					return true
				}
				length = 0
			} else {
				length++
			}
		}
		if check(length) {
			return true
		}
	}

	for x := 0; x < size; x++ {
		length := 0
		for y := 0; y < size; y++ {
			if p.Grid[y][x].Letter == "" {
				if check(length) {
					return true
				}
				length = 0
			} else {
				length++
			}
		}
		if check(length) {
			return true
		}
	}
	return false
}

// validateClueCompleteness checks that every clue has non-empty text and
// answer and that its declared length matches its answer. The grid is not
// read, so an answer is not compared with the letters at the clue's cells.
func validateClueCompleteness(p *puzzle.Puzzle) []string {
	var errs []string
	check := func(clues []puzzle.Clue, dir string) {
		for _, c := range clues {
			if c.Text == "" {
				errs = append(errs, fmt.Sprintf("%s clue %d has empty text", dir, c.Number))
			}
			if c.Answer == "" {
				errs = append(errs, fmt.Sprintf("%s clue %d has empty answer", dir, c.Number))
			}
			if c.Length != len(c.Answer) {
				errs = append(errs, fmt.Sprintf("%s clue %d: declared length %d does not match answer %q", dir, c.Number, c.Length, c.Answer))
			}
		}
	}
	check(p.Across, "across")
	check(p.Down, "down")
	return errs
}
