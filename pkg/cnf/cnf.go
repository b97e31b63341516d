// Package cnf provides the Boolean-formula primitives (variables, literals,
// clauses) and the cardinality/at-most-one encoders the Encoder builds
// crossword semantics out of. Naming follows the Clause/Literal/CNF shape
// common to Go SAT packages in the wild; this implementation is new.
package cnf

import "math/bits"

// Var is a 1-indexed Boolean variable identifier. 0 is never a valid Var.
type Var int32

// Lit is a signed literal: a positive Var for the positive literal, its
// negation for the negative literal.
type Lit int32

// Pos returns the positive literal for v.
func Pos(v Var) Lit { return Lit(v) }

// Neg returns the negative literal for v.
func Neg(v Var) Lit { return Lit(-v) }

// Not returns the negation of l.
func (l Lit) Not() Lit { return -l }

// Var returns the variable l refers to.
func (l Lit) Var() Var {
	if l < 0 {
		return Var(-l)
	}
	return Var(l)
}

// Clause is a disjunction of literals.
type Clause []Lit

// Formula is a CNF clause list together with the running variable count.
// Clauses are appended in the exact order callers emit them, which is what
// gives the Encoder its required deterministic clause ordering.
type Formula struct {
	NumVars int
	Clauses []Clause
}

// NewFormula returns an empty formula.
func NewFormula() *Formula {
	return &Formula{}
}

// NewVar allocates and returns a fresh variable.
func (f *Formula) NewVar() Var {
	f.NumVars++
	return Var(f.NumVars)
}

// NewVars allocates n fresh variables and returns them in allocation order.
func (f *Formula) NewVars(n int) []Var {
	out := make([]Var, n)
	for i := range out {
		out[i] = f.NewVar()
	}
	return out
}

// AddClause appends a clause verbatim.
func (f *Formula) AddClause(lits ...Lit) {
	c := make(Clause, len(lits))
	copy(c, lits)
	f.Clauses = append(f.Clauses, c)
}

// Unit forces l to true.
func (f *Formula) Unit(l Lit) {
	f.AddClause(l)
}

// Implies adds the clause for a -> b, i.e. (¬a ∨ b).
func (f *Formula) Implies(a, b Lit) {
	f.AddClause(a.Not(), b)
}

// ImpliesOr adds the clause for a -> (b1 ∨ b2 ∨ ... ), i.e. (¬a ∨ b1 ∨ b2 ∨ ...).
func (f *Formula) ImpliesOr(a Lit, bs ...Lit) {
	lits := make([]Lit, 0, len(bs)+1)
	lits = append(lits, a.Not())
	lits = append(lits, bs...)
	f.AddClause(lits...)
}

// ImpliesAll adds one binary clause per b, for a -> (b1 ∧ b2 ∧ ...).
func (f *Formula) ImpliesAll(a Lit, bs ...Lit) {
	for _, b := range bs {
		f.Implies(a, b)
	}
}

// Iff adds the two clauses for a <-> b.
func (f *Formula) Iff(a, b Lit) {
	f.Implies(a, b)
	f.Implies(b, a)
}

// IffOr adds the clauses for a <-> (b1 ∨ b2 ∨ ... ∨ bn): a -> OR(b), and
// each b_i -> a.
func (f *Formula) IffOr(a Lit, bs ...Lit) {
	f.ImpliesOr(a, bs...)
	for _, b := range bs {
		f.Implies(b, a)
	}
}

// IffAnd adds the clauses for a <-> (b1 ∧ b2 ∧ ... ∧ bn): a -> each b_i,
// and (b1 ∧ ... ∧ bn) -> a.
func (f *Formula) IffAnd(a Lit, bs ...Lit) {
	f.ImpliesAll(a, bs...)
	lits := make([]Lit, 0, len(bs)+1)
	for _, b := range bs {
		lits = append(lits, b.Not())
	}
	lits = append(lits, a)
	f.AddClause(lits...)
}

// amoThreshold is the literal-count crossover between pairwise and bitwise
// at-most-one encoding (spec §9): below it pairwise is cheaper, at or above
// it bitwise is preferred. This is a fixed constant, not a runtime choice,
// so encoding is deterministic per problem size.
const amoThreshold = 6

// AtMostOne adds clauses enforcing that at most one of lits is true,
// choosing pairwise encoding below amoThreshold literals and a bitwise
// (binary) encoding at or above it.
func (f *Formula) AtMostOne(lits []Lit) {
	if len(lits) < 2 {
		return
	}
	if len(lits) < amoThreshold {
		f.atMostOnePairwise(lits)
		return
	}
	f.atMostOneBitwise(lits)
}

func (f *Formula) atMostOnePairwise(lits []Lit) {
	for i := 0; i < len(lits); i++ {
		for j := i + 1; j < len(lits); j++ {
			f.AddClause(lits[i].Not(), lits[j].Not())
		}
	}
}

// atMostOneBitwise encodes at-most-one over n literals using
// ceil(log2(n)) auxiliary bit variables: literal i implies the bit pattern
// of i, so any two distinct true literals would force a contradictory bit
// assignment.
func (f *Formula) atMostOneBitwise(lits []Lit) {
	n := len(lits)
	k := bits.Len(uint(n - 1))
	if k == 0 {
		k = 1
	}
	bitVars := f.NewVars(k)
	for i, lit := range lits {
		for j := 0; j < k; j++ {
			bitLit := Pos(bitVars[j])
			if (i>>uint(j))&1 == 0 {
				bitLit = Neg(bitVars[j])
			}
			f.Implies(lit, bitLit)
		}
	}
}

// ExactlyOne adds AtMostOne(lits) plus a single clause requiring at least
// one of lits to be true.
func (f *Formula) ExactlyOne(lits []Lit) {
	f.AtMostOne(lits)
	if len(lits) > 0 {
		f.AddClause(lits...)
	}
}

// AtLeastK adds clauses enforcing that at least k of lits are true, via a
// Sinz sequential-counter at-most-(n-k) encoding over the negated literals.
func (f *Formula) AtLeastK(lits []Lit, k int) {
	if k <= 0 {
		return
	}
	if k > len(lits) {
		// Unsatisfiable by construction: force an empty clause's worth of
		// contradiction via two unit clauses on a fresh variable.
		v := f.NewVar()
		f.Unit(Pos(v))
		f.Unit(Neg(v))
		return
	}
	negated := make([]Lit, len(lits))
	for i, l := range lits {
		negated[i] = l.Not()
	}
	f.atMostKSequential(negated, len(lits)-k)
}

// atMostKSequential is the Sinz (2005) sequential-counter at-most-k
// encoding over n literals using O(n*k) auxiliary register variables.
func (f *Formula) atMostKSequential(lits []Lit, k int) {
	n := len(lits)
	if k >= n {
		return // trivially satisfied
	}
	if k == 0 {
		for _, l := range lits {
			f.Unit(l.Not())
		}
		return
	}

	// s[i][j] (1-indexed i in [1,n-1], j in [1,k]) means "at least j of
	// x_1..x_i are true".
	s := make([][]Var, n)
	for i := 1; i < n; i++ {
		s[i] = f.NewVars(k)
	}
	sLit := func(i, j int) Lit { return Pos(s[i][j-1]) }

	x := func(i int) Lit { return lits[i-1] }

	// i = 1
	f.Implies(x(1), sLit(1, 1))
	for j := 2; j <= k; j++ {
		f.Unit(sLit(1, j).Not())
	}

	for i := 2; i <= n-1; i++ {
		f.Implies(x(i), sLit(i, 1))
		f.Implies(sLit(i-1, 1), sLit(i, 1))
		for j := 2; j <= k; j++ {
			f.AddClause(x(i).Not(), sLit(i-1, j-1).Not(), sLit(i, j))
			f.Implies(sLit(i-1, j), sLit(i, j))
		}
		f.AddClause(x(i).Not(), sLit(i-1, k).Not())
	}

	f.AddClause(x(n).Not(), sLit(n-1, k).Not())
}
