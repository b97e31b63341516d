// Package decoder turns a solver assignment back into a puzzle.Puzzle: the
// letter grid, numbered across/down clues, and run statistics. Entry
// numbering is adapted from pkg/grid/entries.go's three-pass scan; the
// post-decode sanity checks are adapted from pkg/grid/connectivity.go and
// pkg/grid/wordlength.go, run here as defensive invariant checks on a model
// the encoder should never have allowed to be inconsistent.
package decoder

import (
	"errors"
	"fmt"
	"time"

	"github.com/crossplay/satxword/pkg/encoder"
	"github.com/crossplay/satxword/pkg/puzzle"
	"github.com/crossplay/satxword/pkg/solver"
)

// ErrInconsistentModel means the solver returned an assignment that
// violates an invariant the encoding was supposed to guarantee (every
// filled cell connected, every entry at least MinWordLength long). This
// should never happen for a correctly built Problem; it signals an
// encoder bug, not a bad puzzle.
var ErrInconsistentModel = errors.New("decoder: solver model violates a grid invariant")

// MinWordLength mirrors the floor the encoder enforces on entry length.
const MinWordLength = 3

// Decode builds a puzzle.Puzzle from a solved Problem.
func Decode(pr *encoder.Problem, res solver.Result) (*puzzle.Puzzle, error) {
	size := pr.Size
	filled := make([][]bool, size)
	letters := make([][]byte, size)
	for y := 0; y < size; y++ {
		filled[y] = make([]bool, size)
		letters[y] = make([]byte, size)
		for x := 0; x < size; x++ {
			f := pr.CellFilledVar(x, y)
			filled[y][x] = res.Assignment.Value(f)
			if !filled[y][x] {
				continue
			}
			for l := 0; l < 26; l++ {
				letter := byte('A' + l)
				if res.Assignment.Value(pr.CellLetterVar(x, y, letter)) {
					letters[y][x] = letter
					break
				}
			}
		}
	}

	if !connected(filled, size) {
		return nil, fmt.Errorf("%w: filled cells are not fully connected", ErrInconsistentModel)
	}

	wordsByText := make(map[string]string, len(pr.Pool.Words))
	for _, w := range pr.Pool.Words {
		wordsByText[w.Text] = w.Clue
	}

	grid := make([][]puzzle.Cell, size)
	for y := 0; y < size; y++ {
		grid[y] = make([]puzzle.Cell, size)
		for x := 0; x < size; x++ {
			if filled[y][x] {
				grid[y][x] = puzzle.Cell{Letter: string(letters[y][x])}
			}
		}
	}

	numbers := assignNumbers(filled, size)
	across, err := collectEntries(filled, letters, numbers, size, true, wordsByText)
	if err != nil {
		return nil, err
	}
	down, err := collectEntries(filled, letters, numbers, size, false, wordsByText)
	if err != nil {
		return nil, err
	}

	letterCount := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if filled[y][x] {
				letterCount++
			}
		}
	}

	meta := puzzle.Metadata{
		WordCount:   pr.PlacementCount(res.Assignment.Value),
		LetterCount: letterCount,
		Density:     float64(letterCount) / float64(size*size),
		ElapsedMs:   res.ElapsedMs,
		CreatedAt:   time.Now(),
	}

	return puzzle.NewPuzzle(size, grid, across, down, meta), nil
}

// assignNumbers is the first pass of pkg/grid/entries.go's numbering scan:
// row-major order, a cell gets the next number if it starts an across or
// down entry.
func assignNumbers(filled [][]bool, size int) [][]int {
	numbers := make([][]int, size)
	for y := range numbers {
		numbers[y] = make([]int, size)
	}
	next := 1
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !filled[y][x] {
				continue
			}
			startsAcross := (x == 0 || !filled[y][x-1]) && x+1 < size && filled[y][x+1]
			startsDown := (y == 0 || !filled[y-1][x]) && y+1 < size && filled[y+1][x]
			if startsAcross || startsDown {
				numbers[y][x] = next
				next++
			}
		}
	}
	return numbers
}

func collectEntries(filled [][]bool, letters [][]byte, numbers [][]int, size int, across bool, wordsByText map[string]string) ([]puzzle.Clue, error) {
	var out []puzzle.Clue
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !filled[y][x] {
				continue
			}
			var starts bool
			if across {
				starts = x == 0 || !filled[y][x-1]
			} else {
				starts = y == 0 || !filled[y-1][x]
			}
			if !starts {
				continue
			}

			answer := make([]byte, 0, size)
			cx, cy := x, y
			for cx < size && cy < size && filled[cy][cx] {
				answer = append(answer, letters[cy][cx])
				if across {
					cx++
				} else {
					cy++
				}
			}
			if len(answer) < 2 {
				continue
			}
			if len(answer) < MinWordLength {
				return nil, fmt.Errorf("%w: entry at (%d,%d) has length %d < %d", ErrInconsistentModel, x, y, len(answer), MinWordLength)
			}

			text := string(answer)
			clue, ok := wordsByText[text]
			if !ok {
				return nil, fmt.Errorf("%w: decoded word %q is not in the sampled pool", ErrInconsistentModel, text)
			}

			out = append(out, puzzle.Clue{
				Number: numbers[y][x],
				Text:   clue,
				Answer: text,
				Length: len(answer),
				X:      x,
				Y:      y,
			})
		}
	}
	return out, nil
}

// connected runs the same BFS flood fill as pkg/grid/connectivity.go, but
// starting from the first filled cell encountered rather than a fixed
// center (the decoded grid's block pattern is solved for, not assumed to
// be symmetric).
func connected(filled [][]bool, size int) bool {
	startX, startY, found := -1, -1, false
	total := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !filled[y][x] {
				continue
			}
			total++
			if !found {
				startX, startY, found = x, y, true
			}
		}
	}
	if total == 0 {
		return false
	}

	visited := make([][]bool, size)
	for y := range visited {
		visited[y] = make([]bool, size)
	}
	queue := [][2]int{{startX, startY}}
	visited[startY][startX] = true
	reached := 1

	dirs := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range dirs {
			nx, ny := cur[0]+d[0], cur[1]+d[1]
			if nx < 0 || nx >= size || ny < 0 || ny >= size {
				continue
			}
			if visited[ny][nx] || !filled[ny][nx] {
				continue
			}
			visited[ny][nx] = true
			reached++
			queue = append(queue, [2]int{nx, ny})
		}
	}
	return reached == total
}
