package solver

import (
	"testing"
	"time"

	"github.com/crossplay/satxword/pkg/cnf"
)

func TestSolve_Satisfiable(t *testing.T) {
	f := cnf.NewFormula()
	vars := f.NewVars(3)
	f.AddClause(cnf.Pos(vars[0]), cnf.Pos(vars[1]))
	f.AddClause(cnf.Neg(vars[0]), cnf.Pos(vars[2]))

	res, err := Solve(f)
	if err != nil {
		t.Fatalf("expected satisfiable formula, got error: %v", err)
	}
	if res.Assignment.Value(vars[0]) && !res.Assignment.Value(vars[2]) {
		t.Error("assignment violates (¬v0 ∨ v2)")
	}
	if !res.Assignment.Value(vars[0]) && !res.Assignment.Value(vars[1]) {
		t.Error("assignment violates (v0 ∨ v1)")
	}
}

func TestSolve_Unsat(t *testing.T) {
	f := cnf.NewFormula()
	v := f.NewVar()
	f.Unit(cnf.Pos(v))
	f.Unit(cnf.Neg(v))

	if _, err := Solve(f); err != ErrUnsat {
		t.Fatalf("expected ErrUnsat, got %v", err)
	}
}

func TestSolveWithTimeout_Elapsed(t *testing.T) {
	f := cnf.NewFormula()
	v := f.NewVar()
	f.Unit(cnf.Pos(v))

	res, err := SolveWithTimeout(f, 5*time.Second)
	if err != nil {
		t.Fatalf("expected satisfiable formula, got error: %v", err)
	}
	if !res.Assignment.Value(v) {
		t.Error("expected v to be forced true")
	}
}
