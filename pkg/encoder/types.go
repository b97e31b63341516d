// Package encoder builds a CNF formula whose models correspond to valid,
// dense, connected crosswords over a sampled word pool (spec §4.3).
package encoder

import (
	"github.com/crossplay/satxword/pkg/cnf"
	"github.com/crossplay/satxword/pkg/sampler"
)

// Direction mirrors the crossword entry orientation.
type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "across"
}

// Position is a grid anchor with a direction and a length.
type Position struct {
	X, Y   int
	Dir    Direction
	Length int
}

// Cells returns the (x, y) cells this position covers, in entry order.
func (p Position) Cells() [][2]int {
	out := make([][2]int, p.Length)
	for i := 0; i < p.Length; i++ {
		if p.Dir == Across {
			out[i] = [2]int{p.X + i, p.Y}
		} else {
			out[i] = [2]int{p.X, p.Y + i}
		}
	}
	return out
}

// Before returns the cell immediately preceding the run, and whether it
// lies inside the grid.
func (p Position) Before() (x, y int, ok bool) {
	if p.Dir == Across {
		x, y = p.X-1, p.Y
	} else {
		x, y = p.X, p.Y-1
	}
	return x, y, x >= 0 && y >= 0
}

// After returns the cell immediately following the run, and whether it
// lies inside the grid of the given size.
func (p Position) After(size int) (x, y int, ok bool) {
	if p.Dir == Across {
		x, y = p.X+p.Length, p.Y
	} else {
		x, y = p.X, p.Y+p.Length
	}
	return x, y, x < size && y < size
}

// Config controls how the Encoder builds clauses. Zero values apply spec
// defaults.
type Config struct {
	Size         int
	DensityFloor float64 // default 0.75
	MinWordCount int     // 0 means DefaultMinWordCount(Size)
}

// DefaultMinWordCount implements spec §4.3(i)'s
// M = max(6, ceil(0.5*size) + grid-derived floor), with the grid-derived
// floor taken as size/4 (more positions are expected to be usable as the
// grid grows).
func DefaultMinWordCount(size int) int {
	floor := size / 4
	m := ceilDiv(size, 2) + floor
	if m < 6 {
		return 6
	}
	return m
}

func ceilDiv(a, b int) int {
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}

// placementKey identifies a P(w, p) variable by pool word index and
// position index.
type placementKey struct {
	word int
	pos  int
}

// SolveMsPerVariable is the empirical linear coefficient spec §4.3 cites
// for estimated_solve_ms. Hardware- and solver-dependent; treat as an
// uncalibrated placeholder (spec §9 Open Question), overridable by callers
// that have measured their own deployment.
var SolveMsPerVariable = 0.085

// Stats summarizes one encoding run.
type Stats struct {
	Variables        int
	Clauses          int
	EncodingMs       float64
	EstimatedSolveMs float64
}

// Problem is the CNF formula plus the variable-index tables and Pool
// snapshot needed to decode a satisfying assignment back into a grid.
type Problem struct {
	Size      int
	Pool      sampler.Pool
	Formula   *cnf.Formula
	Positions []Position

	pVar map[placementKey]cnf.Var
	cVar [][][26]cnf.Var // cVar[y][x][letter-'A']
	fVar [][]cnf.Var     // fVar[y][x]

	Stats Stats
}

// PlacementVar returns the P(w, p) variable and whether it exists (it
// exists only when len(pool word w) == positions[p].Length).
func (pr *Problem) PlacementVar(wordIdx, posIdx int) (cnf.Var, bool) {
	v, ok := pr.pVar[placementKey{word: wordIdx, pos: posIdx}]
	return v, ok
}

// CellLetterVar returns the C(x, y, letter) variable, letter in 'A'..'Z'.
func (pr *Problem) CellLetterVar(x, y int, letter byte) cnf.Var {
	return pr.cVar[y][x][letter-'A']
}

// CellFilledVar returns the F(x, y) variable.
func (pr *Problem) CellFilledVar(x, y int) cnf.Var {
	return pr.fVar[y][x]
}

// PlacementCount returns the number of P(w, p) placement variables true
// under value, spec §4.5's word_count = placements.len(). value is
// typically a solver.Assignment's Value method; accepting the function
// directly instead of the concrete type keeps this package solver-agnostic.
// Positions x Pool.Words order matches allocatePlacementVars, so callers
// that need a deterministic traversal alongside the count get one for free.
func (pr *Problem) PlacementCount(value func(cnf.Var) bool) int {
	count := 0
	for posIdx, p := range pr.Positions {
		for wordIdx, w := range pr.Pool.Words {
			if len(w.Text) != p.Length {
				continue
			}
			if v, ok := pr.PlacementVar(wordIdx, posIdx); ok && value(v) {
				count++
			}
		}
	}
	return count
}
