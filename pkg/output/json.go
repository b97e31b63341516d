package output

import (
	"encoding/json"

	"github.com/crossplay/satxword/pkg/puzzle"
)

// ClueJSON is one numbered entry in the spec §6 output record.
type ClueJSON struct {
	Number int    `json:"number"`
	Word   string `json:"word"`
	Clue   string `json:"clue"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// MetadataJSON mirrors spec §6's metadata block.
type MetadataJSON struct {
	Density     float64 `json:"density"`
	WordCount   int     `json:"word_count"`
	LetterCount int     `json:"letter_count"`
	ElapsedMs   int     `json:"elapsed_ms"`
}

// PuzzleJSON is the spec §6 puzzle output record, consumed by hosts.
type PuzzleJSON struct {
	Grid     [][]*string  `json:"grid"` // row-major, y outer, x inner; null = black
	Across   []ClueJSON   `json:"across"`
	Down     []ClueJSON   `json:"down"`
	Metadata MetadataJSON `json:"metadata"`
}

// FormatJSON converts a decoded puzzle.Puzzle to the spec's output record.
func FormatJSON(p *puzzle.Puzzle) *PuzzleJSON {
	grid := make([][]*string, p.Size)
	for y := 0; y < p.Size; y++ {
		grid[y] = make([]*string, p.Size)
		for x := 0; x < p.Size; x++ {
			cell := p.Grid[y][x]
			if cell.Letter == "" {
				grid[y][x] = nil
			} else {
				letter := cell.Letter
				grid[y][x] = &letter
			}
		}
	}

	return &PuzzleJSON{
		Grid:   grid,
		Across: clueJSONs(p.Across),
		Down:   clueJSONs(p.Down),
		Metadata: MetadataJSON{
			Density:     p.Metadata.Density,
			WordCount:   p.Metadata.WordCount,
			LetterCount: p.Metadata.LetterCount,
			ElapsedMs:   int(p.Metadata.ElapsedMs),
		},
	}
}

func clueJSONs(clues []puzzle.Clue) []ClueJSON {
	out := make([]ClueJSON, len(clues))
	for i, c := range clues {
		out[i] = ClueJSON{
			Number: c.Number,
			Word:   c.Answer,
			Clue:   c.Text,
			X:      c.X,
			Y:      c.Y,
		}
	}
	return out
}

// ToJSON converts a decoded puzzle.Puzzle to indented JSON bytes.
func ToJSON(p *puzzle.Puzzle) ([]byte, error) {
	return json.MarshalIndent(FormatJSON(p), "", "  ")
}

// FromJSON parses the spec §6 output record back into a puzzle.Puzzle, for
// tools that need to re-read a previously generated puzzle (format
// conversion, offline validation).
func FromJSON(data []byte) (*puzzle.Puzzle, error) {
	var pj PuzzleJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, err
	}

	size := len(pj.Grid)
	grid := make([][]puzzle.Cell, size)
	for y, row := range pj.Grid {
		grid[y] = make([]puzzle.Cell, len(row))
		for x, letter := range row {
			if letter != nil {
				grid[y][x] = puzzle.Cell{Letter: *letter}
			}
		}
	}

	toClues := func(in []ClueJSON) []puzzle.Clue {
		out := make([]puzzle.Clue, len(in))
		for i, c := range in {
			out[i] = puzzle.Clue{
				Number: c.Number,
				Text:   c.Clue,
				Answer: c.Word,
				Length: len(c.Word),
				X:      c.X,
				Y:      c.Y,
			}
		}
		return out
	}

	meta := puzzle.Metadata{
		Density:     pj.Metadata.Density,
		WordCount:   pj.Metadata.WordCount,
		LetterCount: pj.Metadata.LetterCount,
		ElapsedMs:   float64(pj.Metadata.ElapsedMs),
	}

	return puzzle.NewPuzzle(size, grid, toClues(pj.Across), toClues(pj.Down), meta), nil
}
