package encoder

import (
	"math"
	"time"

	"github.com/crossplay/satxword/pkg/cnf"
	"github.com/crossplay/satxword/pkg/sampler"
)

const defaultDensityFloor = 0.75

// Encode builds a Problem whose models are valid, dense, connected
// crosswords drawn from pool. Encode never fails for well-formed inputs;
// a too-small pool simply yields a (trivially) UNSAT problem, reported
// back by the solver, not by Encode.
func Encode(pool sampler.Pool, cfg Config) *Problem {
	start := time.Now()

	densityFloor := cfg.DensityFloor
	if densityFloor == 0 {
		densityFloor = defaultDensityFloor
	}
	minWordCount := cfg.MinWordCount
	if minWordCount == 0 {
		minWordCount = DefaultMinWordCount(cfg.Size)
	}

	f := cnf.NewFormula()
	size := cfg.Size

	pr := &Problem{
		Size:      size,
		Pool:      pool,
		Formula:   f,
		Positions: enumeratePositions(size),
		pVar:      make(map[placementKey]cnf.Var),
	}

	allocateCellVars(f, pr, size)
	allocatePlacementVars(f, pr, pool)

	placementUniquenessPerPosition(f, pr)
	placementUniquenessPerWord(f, pr, pool)
	cellLetterExclusion(f, pr, size)
	cellLetterByPlacement := placementImpliesLetters(f, pr, pool)
	noLetterWithoutJustification(f, pr, size, cellLetterByPlacement)
	boundaryRule(f, pr, size)
	noShortRuns(f, pr, size)
	densityConstraint(f, pr, size, densityFloor)
	minimumWordCount(f, pr, minWordCount)
	connectivity(f, pr, size)

	elapsed := time.Since(start)
	pr.Stats = Stats{
		Variables:        f.NumVars,
		Clauses:          len(f.Clauses),
		EncodingMs:       float64(elapsed.Microseconds()) / 1000.0,
		EstimatedSolveMs: SolveMsPerVariable * float64(f.NumVars),
	}

	return pr
}

// enumeratePositions lists every (x, y, direction, length) that fits
// inside a size x size grid, in deterministic row-major, across-then-down,
// ascending-length order.
func enumeratePositions(size int) []Position {
	var out []Position
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			for length := 3; length <= size && x+length <= size; length++ {
				out = append(out, Position{X: x, Y: y, Dir: Across, Length: length})
			}
			for length := 3; length <= size && y+length <= size; length++ {
				out = append(out, Position{X: x, Y: y, Dir: Down, Length: length})
			}
		}
	}
	return out
}

func allocateCellVars(f *cnf.Formula, pr *Problem, size int) {
	pr.cVar = make([][][26]cnf.Var, size)
	for y := 0; y < size; y++ {
		pr.cVar[y] = make([][26]cnf.Var, size)
		for x := 0; x < size; x++ {
			for l := 0; l < 26; l++ {
				pr.cVar[y][x][l] = f.NewVar()
			}
		}
	}
	pr.fVar = make([][]cnf.Var, size)
	for y := 0; y < size; y++ {
		pr.fVar[y] = make([]cnf.Var, size)
		for x := 0; x < size; x++ {
			pr.fVar[y][x] = f.NewVar()
		}
	}
}

func allocatePlacementVars(f *cnf.Formula, pr *Problem, pool sampler.Pool) {
	for posIdx, p := range pr.Positions {
		for wordIdx, w := range pool.Words {
			if len(w.Text) != p.Length {
				continue
			}
			pr.pVar[placementKey{word: wordIdx, pos: posIdx}] = f.NewVar()
		}
	}
}

// placementUniquenessPerPosition is clause family (a).
func placementUniquenessPerPosition(f *cnf.Formula, pr *Problem) {
	for posIdx, p := range pr.Positions {
		var lits []cnf.Lit
		for wordIdx, w := range pr.Pool.Words {
			if len(w.Text) != p.Length {
				continue
			}
			if v, ok := pr.PlacementVar(wordIdx, posIdx); ok {
				lits = append(lits, cnf.Pos(v))
			}
		}
		f.AtMostOne(lits)
	}
}

// placementUniquenessPerWord is clause family (b). Words may be unused.
func placementUniquenessPerWord(f *cnf.Formula, pr *Problem, pool sampler.Pool) {
	for wordIdx, w := range pool.Words {
		var lits []cnf.Lit
		for posIdx, p := range pr.Positions {
			if p.Length != len(w.Text) {
				continue
			}
			if v, ok := pr.PlacementVar(wordIdx, posIdx); ok {
				lits = append(lits, cnf.Pos(v))
			}
		}
		f.AtMostOne(lits)
	}
}

// cellLetterExclusion is clause family (c).
func cellLetterExclusion(f *cnf.Formula, pr *Problem, size int) {
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			lits := make([]cnf.Lit, 26)
			for l := 0; l < 26; l++ {
				lits[l] = cnf.Pos(pr.cVar[y][x][l])
			}
			f.AtMostOne(lits)
			f.IffOr(cnf.Pos(pr.fVar[y][x]), lits...)
		}
	}
}

// placementImpliesLetters is clause family (d). It also returns, for each
// (x, y, letter), the list of placement literals that justify that letter
// — consumed directly by clause family (e).
func placementImpliesLetters(f *cnf.Formula, pr *Problem, pool sampler.Pool) map[[3]int][]cnf.Lit {
	justify := make(map[[3]int][]cnf.Lit)
	for posIdx, p := range pr.Positions {
		cells := p.Cells()
		for wordIdx, w := range pool.Words {
			if len(w.Text) != p.Length {
				continue
			}
			v, ok := pr.PlacementVar(wordIdx, posIdx)
			if !ok {
				continue
			}
			pLit := cnf.Pos(v)
			for i, cell := range cells {
				letter := w.Text[i]
				cVar := pr.CellLetterVar(cell[0], cell[1], letter)
				f.Implies(pLit, cnf.Pos(cVar))
				f.Implies(pLit, cnf.Pos(pr.fVar[cell[1]][cell[0]]))

				key := [3]int{cell[0], cell[1], int(letter - 'A')}
				justify[key] = append(justify[key], pLit)
			}
		}
	}
	return justify
}

// noLetterWithoutJustification is clause family (e): bidirectional
// spelling. Without it the solver could paint letters into cells unused by
// any placement.
func noLetterWithoutJustification(f *cnf.Formula, pr *Problem, size int, justify map[[3]int][]cnf.Lit) {
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			for l := 0; l < 26; l++ {
				letter := byte('A' + l)
				cLit := cnf.Pos(pr.CellLetterVar(x, y, letter))
				key := [3]int{x, y, l}
				placements := justify[key]
				if len(placements) == 0 {
					// No placement can ever put this letter here: forbid it outright.
					f.Unit(cLit.Not())
					continue
				}
				f.ImpliesOr(cLit, placements...)
			}
		}
	}
}

// boundaryRule is clause family (f): forbids accidental extension of a
// chosen run into an adjacent parallel word.
func boundaryRule(f *cnf.Formula, pr *Problem, size int) {
	for posIdx, p := range pr.Positions {
		for wordIdx, w := range pr.Pool.Words {
			if len(w.Text) != p.Length {
				continue
			}
			v, ok := pr.PlacementVar(wordIdx, posIdx)
			if !ok {
				continue
			}
			pLit := cnf.Pos(v)
			if bx, by, ok := p.Before(); ok {
				f.Implies(pLit, cnf.Neg(pr.fVar[by][bx]))
			}
			if ax, ay, ok := p.After(size); ok {
				f.Implies(pLit, cnf.Neg(pr.fVar[ay][ax]))
			}
		}
	}
}

// minRunLength mirrors the floor dictionary.MinWordLength/decoder.MinWordLength
// enforce on entry length (spec §4.1).
const minRunLength = 3

// noShortRuns is clause family (g): forbids any maximal run of filled cells
// shorter than minRunLength, in either direction. Clause family (e) only
// requires a filled cell's letter to be justified by a placement in *one*
// direction, so without this family two across-justified cells stacked
// vertically (or vice versa) would form a legal but too-short perpendicular
// run no placement covers. Pure implications over existing F(x,y)
// literals; no auxiliary variables needed.
func noShortRuns(f *cnf.Formula, pr *Problem, size int) {
	for y := 0; y < size; y++ {
		line := make([]cnf.Var, size)
		for x := 0; x < size; x++ {
			line[x] = pr.fVar[y][x]
		}
		forbidShortRuns(f, line)
	}
	for x := 0; x < size; x++ {
		line := make([]cnf.Var, size)
		for y := 0; y < size; y++ {
			line[y] = pr.fVar[y][x]
		}
		forbidShortRuns(f, line)
	}
}

// forbidShortRuns adds the clauses forbidding a run of true literals in line
// that starts but cannot reach minRunLength. A cell starts a run when it is
// filled and its predecessor (if any) is not; such a cell's next
// minRunLength-1 neighbors must also be filled, or, if the line doesn't have
// room left for that, the cell is forbidden from starting a run at all.
func forbidShortRuns(f *cnf.Formula, line []cnf.Var) {
	n := len(line)
	for i := 0; i < n; i++ {
		cur := cnf.Pos(line[i])
		if i+minRunLength-1 >= n {
			if i > 0 {
				f.AddClause(cur.Not(), cnf.Pos(line[i-1]))
			}
			continue
		}
		for k := 1; k < minRunLength; k++ {
			next := cnf.Pos(line[i+k])
			if i == 0 {
				f.Implies(cur, next)
			} else {
				f.AddClause(cur.Not(), cnf.Pos(line[i-1]), next)
			}
		}
	}
}

// densityConstraint is clause family (h).
func densityConstraint(f *cnf.Formula, pr *Problem, size int, densityFloor float64) {
	n := size * size
	threshold := int(math.Ceil(densityFloor * float64(n)))
	var lits []cnf.Lit
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			lits = append(lits, cnf.Pos(pr.fVar[y][x]))
		}
	}
	f.AtLeastK(lits, threshold)
}

// minimumWordCount is clause family (i). Literals are gathered in
// Position x Word order, the same deterministic order allocatePlacementVars
// used to mint them, rather than by ranging over the pVar map: map iteration
// order is randomized per run, which would make the AtLeastK/Sinz auxiliary
// numbering (and the resulting CNF bit pattern) vary between otherwise
// identical encodes of the same (size, seed).
func minimumWordCount(f *cnf.Formula, pr *Problem, minWordCount int) {
	var lits []cnf.Lit
	for posIdx, p := range pr.Positions {
		for wordIdx, w := range pr.Pool.Words {
			if len(w.Text) != p.Length {
				continue
			}
			if v, ok := pr.PlacementVar(wordIdx, posIdx); ok {
				lits = append(lits, cnf.Pos(v))
			}
		}
	}
	f.AtLeastK(lits, minWordCount)
}

func neighbors4(x, y, size int) [][2]int {
	var out [][2]int
	candidates := [][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
	for _, c := range candidates {
		if c[0] >= 0 && c[0] < size && c[1] >= 0 && c[1] < size {
			out = append(out, c)
		}
	}
	return out
}

// connectivity is clause family (j): every filled cell must be reachable
// from a single selected root through a chain of filled, 4-adjacent cells.
// Reachability is unrolled for K steps (twice the grid side, an upper bound
// on the longest simple path's cell count along one axis) using Tseitin
// auxiliaries M(c,k) = OR of neighbor R's at k-1, and A(c,k) = F(c) AND
// M(c,k).
func connectivity(f *cnf.Formula, pr *Problem, size int) {
	k := 2 * size

	rootVar := make([][]cnf.Var, size)
	for y := 0; y < size; y++ {
		rootVar[y] = make([]cnf.Var, size)
		for x := 0; x < size; x++ {
			rootVar[y][x] = f.NewVar()
		}
	}
	var rootLits []cnf.Lit
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			f.Implies(cnf.Pos(rootVar[y][x]), cnf.Pos(pr.fVar[y][x]))
			rootLits = append(rootLits, cnf.Pos(rootVar[y][x]))
		}
	}
	f.ExactlyOne(rootLits)

	rVar := make([][][]cnf.Var, k+1)
	for step := 0; step <= k; step++ {
		rVar[step] = make([][]cnf.Var, size)
		for y := 0; y < size; y++ {
			rVar[step][y] = make([]cnf.Var, size)
			for x := 0; x < size; x++ {
				rVar[step][y][x] = f.NewVar()
			}
		}
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			f.Iff(cnf.Pos(rVar[0][y][x]), cnf.Pos(rootVar[y][x]))
		}
	}

	for step := 1; step <= k; step++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				var neighborLits []cnf.Lit
				for _, n := range neighbors4(x, y, size) {
					neighborLits = append(neighborLits, cnf.Pos(rVar[step-1][n[1]][n[0]]))
				}
				m := f.NewVar()
				if len(neighborLits) == 0 {
					f.Unit(cnf.Neg(m))
				} else {
					f.IffOr(cnf.Pos(m), neighborLits...)
				}

				a := f.NewVar()
				f.IffAnd(cnf.Pos(a), cnf.Pos(pr.fVar[y][x]), cnf.Pos(m))

				f.IffOr(cnf.Pos(rVar[step][y][x]), cnf.Pos(rVar[step-1][y][x]), cnf.Pos(a))
			}
		}
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			f.Implies(cnf.Pos(pr.fVar[y][x]), cnf.Pos(rVar[k][y][x]))
		}
	}
}
