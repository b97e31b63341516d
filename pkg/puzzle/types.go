package puzzle

import "time"

// Cell is a single decoded grid cell. An empty Letter means a black square.
type Cell struct {
	Letter string
}

// Clue is one numbered entry in the finished puzzle, positioned at the
// grid cell where it starts.
type Clue struct {
	Number int
	Text   string
	Answer string
	Length int
	X, Y   int
}

// Metadata carries the generation-run statistics alongside every puzzle:
// how many words and letters it contains, how dense it is, and how long it
// took to produce.
type Metadata struct {
	WordCount   int
	LetterCount int
	Density     float64
	ElapsedMs   float64
	CreatedAt   time.Time
}

// Puzzle is a complete, decoded crossword: grid, clues, and metadata.
type Puzzle struct {
	Size     int
	Grid     [][]Cell // Grid[row][col]
	Across   []Clue
	Down     []Clue
	Metadata Metadata
}

// NewPuzzle assembles a Puzzle from its parts.
func NewPuzzle(size int, grid [][]Cell, across, down []Clue, metadata Metadata) *Puzzle {
	return &Puzzle{Size: size, Grid: grid, Across: across, Down: down, Metadata: metadata}
}
