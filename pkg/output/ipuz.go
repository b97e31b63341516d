package output

import (
	"encoding/json"
	"fmt"

	"github.com/crossplay/satxword/pkg/puzzle"
)

// IPuzDimensions represents the puzzle dimensions.
type IPuzDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IPuzCell represents a clue-numbered cell in the ipuz puzzle grid.
type IPuzCell struct {
	Cell *int `json:"cell,omitempty"`
}

// IPuzClue is a clue in ipuz format [number, "clue text"].
type IPuzClue []interface{}

// IPuzClues represents the clues section with Across and Down.
type IPuzClues struct {
	Across []IPuzClue `json:"Across"`
	Down   []IPuzClue `json:"Down"`
}

// IPuzPuzzle is the complete ipuz format structure.
type IPuzPuzzle struct {
	Version    string          `json:"version"`
	Kind       []string        `json:"kind"`
	Dimensions IPuzDimensions  `json:"dimensions"`
	Puzzle     [][]interface{} `json:"puzzle"`
	Solution   [][]interface{} `json:"solution"`
	Clues      IPuzClues       `json:"clues"`
}

// FormatIPuz converts a decoded puzzle.Puzzle to ipuz format
// (http://ipuz.org/), used by modern web solvers.
func FormatIPuz(p *puzzle.Puzzle) (*IPuzPuzzle, error) {
	if p == nil {
		return nil, fmt.Errorf("puzzle cannot be nil")
	}
	if p.Size <= 0 {
		return nil, fmt.Errorf("invalid grid size: %d", p.Size)
	}
	if len(p.Grid) != p.Size {
		return nil, fmt.Errorf("grid height mismatch: expected %d, got %d", p.Size, len(p.Grid))
	}

	numbers := make(map[[2]int]int)
	for _, c := range append(append([]puzzle.Clue{}, p.Across...), p.Down...) {
		numbers[[2]int{c.X, c.Y}] = c.Number
	}

	puzzleGrid := make([][]interface{}, p.Size)
	solutionGrid := make([][]interface{}, p.Size)
	for y := 0; y < p.Size; y++ {
		if len(p.Grid[y]) != p.Size {
			return nil, fmt.Errorf("grid width mismatch at row %d: expected %d, got %d", y, p.Size, len(p.Grid[y]))
		}
		puzzleGrid[y] = make([]interface{}, p.Size)
		solutionGrid[y] = make([]interface{}, p.Size)
		for x := 0; x < p.Size; x++ {
			cell := p.Grid[y][x]
			if cell.Letter == "" {
				puzzleGrid[y][x] = "#"
				solutionGrid[y][x] = "#"
				continue
			}
			solutionGrid[y][x] = cell.Letter
			if num, ok := numbers[[2]int{x, y}]; ok {
				n := num
				puzzleGrid[y][x] = IPuzCell{Cell: &n}
			} else {
				puzzleGrid[y][x] = 0
			}
		}
	}

	return &IPuzPuzzle{
		Version:    "http://ipuz.org/v2",
		Kind:       []string{"http://ipuz.org/crossword#1"},
		Dimensions: IPuzDimensions{Width: p.Size, Height: p.Size},
		Puzzle:     puzzleGrid,
		Solution:   solutionGrid,
		Clues: IPuzClues{
			Across: ipuzClueList(p.Across),
			Down:   ipuzClueList(p.Down),
		},
	}, nil
}

func ipuzClueList(clues []puzzle.Clue) []IPuzClue {
	out := make([]IPuzClue, 0, len(clues))
	for _, c := range clues {
		out = append(out, IPuzClue{c.Number, c.Text})
	}
	return out
}

// ToIPuz converts a decoded puzzle.Puzzle to ipuz JSON bytes.
func ToIPuz(p *puzzle.Puzzle) ([]byte, error) {
	ipuzPuzzle, err := FormatIPuz(p)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(ipuzPuzzle, "", "  ")
}

// ValidateIPuz checks that a puzzle can be converted to ipuz format.
func ValidateIPuz(p *puzzle.Puzzle) error {
	if p == nil {
		return fmt.Errorf("puzzle cannot be nil")
	}
	if p.Size <= 0 {
		return fmt.Errorf("invalid grid size: %d", p.Size)
	}
	if len(p.Grid) != p.Size {
		return fmt.Errorf("grid height mismatch: expected %d, got %d", p.Size, len(p.Grid))
	}
	for y := 0; y < p.Size; y++ {
		if len(p.Grid[y]) != p.Size {
			return fmt.Errorf("grid width mismatch at row %d: expected %d, got %d", y, p.Size, len(p.Grid[y]))
		}
	}
	if len(p.Across) == 0 && len(p.Down) == 0 {
		return fmt.Errorf("puzzle must have at least one clue")
	}
	return nil
}
