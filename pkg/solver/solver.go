// Package solver wraps a CDCL SAT backend (github.com/irifrance/gini) behind
// the narrow surface the orchestrator needs: hand it a formula, get back a
// satisfying assignment, UNSAT, or a timeout. Grounded on gini's public
// gini.New/Add/Solve/Value API (the shape documented by the vendored gini
// internals found in the retrieval pack) rather than a hand-rolled solver.
package solver

import (
	"errors"
	"time"

	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"

	"github.com/crossplay/satxword/pkg/cnf"
)

// ErrUnsat is returned when the formula has no satisfying assignment.
var ErrUnsat = errors.New("solver: formula is unsatisfiable")

// ErrTimeout is returned when the solve did not finish within the
// requested time budget. The solver is abandoned; there is no partial
// assignment to recover.
var ErrTimeout = errors.New("solver: time budget exceeded")

// Assignment is a satisfying truth assignment, indexed by cnf.Var.
type Assignment struct {
	values map[cnf.Var]bool
}

// Value reports the truth value gini assigned to v.
func (a Assignment) Value(v cnf.Var) bool {
	return a.values[v]
}

// Result is the outcome of a successful solve.
type Result struct {
	Assignment Assignment
	ElapsedMs  float64
}

// Solve runs to completion with no time budget.
func Solve(f *cnf.Formula) (Result, error) {
	return SolveWithTimeout(f, 0)
}

// SolveWithTimeout runs the solver, abandoning it if it has not finished
// within timeout. A non-positive timeout means no limit.
func SolveWithTimeout(f *cnf.Formula, timeout time.Duration) (Result, error) {
	start := time.Now()

	g := gini.New()
	for _, clause := range f.Clauses {
		for _, l := range clause {
			g.Add(litToGini(l))
		}
		g.Add(0)
	}

	outcome := make(chan int, 1)
	go func() { outcome <- g.Solve() }()

	var sat int
	if timeout <= 0 {
		sat = <-outcome
	} else {
		select {
		case sat = <-outcome:
		case <-time.After(timeout):
			return Result{}, ErrTimeout
		}
	}

	if sat != 1 {
		return Result{}, ErrUnsat
	}

	values := make(map[cnf.Var]bool, f.NumVars)
	for v := 1; v <= f.NumVars; v++ {
		values[cnf.Var(v)] = g.Value(z.Dimacs(v))
	}

	return Result{
		Assignment: Assignment{values: values},
		ElapsedMs:  float64(time.Since(start).Microseconds()) / 1000.0,
	}, nil
}

func litToGini(l cnf.Lit) z.Lit {
	return z.Dimacs(int(l))
}
