// Package genpce builds and certifies propagation-complete encodings of
// Boolean CNF formulas: buildOptimal grows a target encoding until its unit
// propagation alone decides everything the reference formula decides over
// the declared inputs, minimize strips clauses that turn out redundant for
// that property, checkOptimal certifies that an encoding already has it, and
// greedyOptimization hill-climbs the input set to shrink the result further.
package genpce

import "io"

// Engine is the capability set the core algorithms need from an incremental
// CDCL SAT solver. Literals are DIMACS-style signed integers (nonzero,
// 1-indexed variable ids) so the core and its tests never depend on any
// particular solver's internal literal encoding.
type Engine interface {
	// NewVar returns a fresh variable id.
	NewVar() int
	// AddClause adds a clause (a disjunction of the given literals).
	AddClause(lits []int) error

	NumVars() int
	NumClauses() int
	NumUnits() int

	// Solve attempts to satisfy the clause database under the given
	// assumptions. On UNSAT it returns a clause of negated assumptions
	// sufficient to explain the inconsistency, directly usable as a learned
	// clause.
	Solve(assumptions []int) (sat bool, conflict []int)

	// Propagate attempts unit propagation alone (no search) under the given
	// assumptions, returning false iff a conflict is reached.
	Propagate(assumptions []int) bool

	// Trail returns the literals forced by the most recent Solve/Propagate
	// call, in assignment order.
	Trail() []int

	GetClause(i int) []int
	IsLocked(i int) bool
	LockReason(v int)
	UndoLocked()
	ClearLocked()

	// SetAssumptions declares the first k variables "real"; any declared
	// afterwards (e.g. clause-redundancy selectors) occupy the remainder.
	SetAssumptions(k int)

	// CopyTo structurally clones the engine into dst, appending one fresh
	// selector variable per clause, and returns the number of original
	// (non-selector) variables.
	CopyTo(dst Engine) int

	PrintUnits(w io.Writer)
	PrintClause(w io.Writer, i int)
	PrintFormula(w io.Writer)
}

// CopyWithSelectors clones src's clauses into dst, appending one fresh
// selector variable sᵢ per clause Cᵢ and storing Cᵢ ∨ sᵢ, then declares
// dst's first n_vars(src) variables as the real ones. It returns
// n_vars(src). Implemented purely over Engine's primitives (NewVar,
// AddClause, GetClause, NumVars, NumClauses, SetAssumptions) so it works
// identically for a real solver-backed engine or a test mock; this is the
// shared body every Engine.CopyTo implementation should delegate to.
func CopyWithSelectors(src, dst Engine) int {
	n := src.NumVars()
	for i := 0; i < n; i++ {
		dst.NewVar()
	}
	for i := 0; i < src.NumClauses(); i++ {
		sel := dst.NewVar()
		clause := append(append([]int(nil), src.GetClause(i)...), sel)
		dst.AddClause(clause)
	}
	dst.SetAssumptions(n)
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func negate(lits []int) []int {
	out := make([]int, len(lits))
	for i, l := range lits {
		out[i] = -l
	}
	return out
}
