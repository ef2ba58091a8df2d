package genpce

import (
	"io"

	"github.com/rhartert/genpce/internal/sat"
)

// SolverEngine adapts an *internal/sat.Solver to the Engine interface,
// translating between genpce's DIMACS-style signed-int literals and the
// solver's zero-indexed sat.Literal encoding.
type SolverEngine struct {
	Solver *sat.Solver
}

// NewSolverEngine wraps a freshly constructed solver.
func NewSolverEngine(opts sat.Options) *SolverEngine {
	return &SolverEngine{Solver: sat.NewSolver(opts)}
}

func toLit(v int) sat.Literal {
	if v > 0 {
		return sat.PositiveLiteral(v - 1)
	}
	return sat.NegativeLiteral(-v - 1)
}

func fromLit(l sat.Literal) int {
	if l.IsPositive() {
		return l.VarID() + 1
	}
	return -(l.VarID() + 1)
}

func toLits(vs []int) []sat.Literal {
	out := make([]sat.Literal, len(vs))
	for i, v := range vs {
		out[i] = toLit(v)
	}
	return out
}

func fromLits(ls []sat.Literal) []int {
	out := make([]int, len(ls))
	for i, l := range ls {
		out[i] = fromLit(l)
	}
	return out
}

func (e *SolverEngine) NewVar() int {
	return e.Solver.AddVariable() + 1
}

func (e *SolverEngine) AddClause(lits []int) error {
	return e.Solver.AddClause(toLits(lits))
}

func (e *SolverEngine) NumVars() int    { return e.Solver.NumVariables() }
func (e *SolverEngine) NumClauses() int { return e.Solver.NumClauses() }
func (e *SolverEngine) NumUnits() int   { return e.Solver.NumUnits() }

func (e *SolverEngine) Solve(assumptions []int) (bool, []int) {
	status, conflict := e.Solver.Solve(toLits(assumptions))
	return status == sat.True, fromLits(conflict)
}

func (e *SolverEngine) Propagate(assumptions []int) bool {
	return e.Solver.PropagateAssumptions(toLits(assumptions))
}

func (e *SolverEngine) Trail() []int {
	return fromLits(e.Solver.Trail())
}

func (e *SolverEngine) GetClause(i int) []int {
	return fromLits(e.Solver.GetClause(i))
}

func (e *SolverEngine) IsLocked(i int) bool { return e.Solver.IsLocked(i) }
func (e *SolverEngine) LockReason(v int)    { e.Solver.LockReason(v - 1) }
func (e *SolverEngine) UndoLocked()         { e.Solver.UndoLocked() }
func (e *SolverEngine) ClearLocked()        { e.Solver.ClearLocked() }
func (e *SolverEngine) SetAssumptions(k int) {
	e.Solver.SetAssumptions(k)
}

func (e *SolverEngine) CopyTo(dst Engine) int {
	return CopyWithSelectors(e, dst)
}

func (e *SolverEngine) PrintUnits(w io.Writer)         { e.Solver.PrintUnits(w) }
func (e *SolverEngine) PrintClause(w io.Writer, i int) { e.Solver.PrintClause(w, i) }
func (e *SolverEngine) PrintFormula(w io.Writer)       { e.Solver.PrintFormula(w) }
