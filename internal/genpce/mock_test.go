package genpce

import (
	"fmt"
	"io"
)

// mockEngine is a brute-force Engine used to test buildOptimal, checkOptimal,
// minimize and the MUS shrinker against small, hand-verifiable CNFs without
// depending on the CDCL solver's search order. Solve enumerates truth
// assignments directly; Propagate runs a textbook unit-propagation fixpoint
// over the stored clauses. Both are correct by construction for the tiny
// instances exercised here, independent of whatever buildOptimal/checkOptimal
// are under test.
type mockEngine struct {
	numVars int
	clauses [][]int
	locked  map[int]bool

	trail []int
}

func newMockEngine() *mockEngine {
	return &mockEngine{locked: map[int]bool{}}
}

func (m *mockEngine) NewVar() int {
	m.numVars++
	return m.numVars
}

func (m *mockEngine) AddClause(lits []int) error {
	c := append([]int(nil), lits...)
	m.clauses = append(m.clauses, c)
	return nil
}

func (m *mockEngine) NumVars() int    { return m.numVars }
func (m *mockEngine) NumClauses() int { return len(m.clauses) }

func (m *mockEngine) NumUnits() int {
	n := 0
	for _, c := range m.clauses {
		if len(c) == 1 {
			n++
		}
	}
	return n
}

// Solve brute-forces satisfiability of m's clauses under assumptions. On
// UNSAT it returns the (non-minimal, but sound) refutation "at least one
// assumption must not hold".
func (m *mockEngine) Solve(assumptions []int) (bool, []int) {
	fixed := map[int]bool{}
	for _, a := range assumptions {
		fixed[abs(a)] = a > 0
	}

	free := make([]int, 0, m.numVars)
	for v := 1; v <= m.numVars; v++ {
		if _, ok := fixed[v]; !ok {
			free = append(free, v)
		}
	}

	assign := map[int]bool{}
	for v, val := range fixed {
		assign[v] = val
	}

	if m.search(free, 0, assign) {
		return true, nil
	}
	return false, negate(assumptions)
}

func (m *mockEngine) search(free []int, idx int, assign map[int]bool) bool {
	if idx == len(free) {
		return m.satisfied(assign)
	}
	v := free[idx]
	assign[v] = true
	if m.search(free, idx+1, assign) {
		return true
	}
	assign[v] = false
	if m.search(free, idx+1, assign) {
		return true
	}
	delete(assign, v)
	return false
}

func (m *mockEngine) satisfied(assign map[int]bool) bool {
	for _, c := range m.clauses {
		ok := false
		for _, l := range c {
			if assign[abs(l)] == (l > 0) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Propagate runs unit propagation to a fixpoint starting from assumptions,
// recording the resulting trail. Returns false on conflict.
func (m *mockEngine) Propagate(assumptions []int) bool {
	val := map[int]int{} // 1 true, -1 false
	var trail []int

	assignLit := func(l int) bool {
		v, want := abs(l), l > 0
		if cur, ok := val[v]; ok {
			if (cur == 1) != want {
				return false
			}
			return true
		}
		if want {
			val[v] = 1
		} else {
			val[v] = -1
		}
		trail = append(trail, l)
		return true
	}

	for _, a := range assumptions {
		if !assignLit(a) {
			m.trail = nil
			return false
		}
	}

	changed := true
	for changed {
		changed = false
		for _, c := range m.clauses {
			satisfied := false
			var unassigned []int
			for _, l := range c {
				v := abs(l)
				if cur, ok := val[v]; ok {
					if (cur == 1) == (l > 0) {
						satisfied = true
						break
					}
				} else {
					unassigned = append(unassigned, l)
				}
			}
			if satisfied {
				continue
			}
			if len(unassigned) == 0 {
				m.trail = nil
				return false
			}
			if len(unassigned) == 1 {
				if !assignLit(unassigned[0]) {
					m.trail = nil
					return false
				}
				changed = true
			}
		}
	}

	m.trail = trail
	return true
}

func (m *mockEngine) Trail() []int { return m.trail }

func (m *mockEngine) GetClause(i int) []int { return m.clauses[i] }

func (m *mockEngine) IsLocked(i int) bool { return m.locked[i] }

func (m *mockEngine) LockReason(v int) { m.locked[v] = true }

func (m *mockEngine) UndoLocked() {}

func (m *mockEngine) ClearLocked() {}

func (m *mockEngine) SetAssumptions(k int) {}

func (m *mockEngine) CopyTo(dst Engine) int {
	return CopyWithSelectors(m, dst)
}

func (m *mockEngine) PrintUnits(w io.Writer) {
	for _, c := range m.clauses {
		if len(c) == 1 {
			fmt.Fprintf(w, "%d 0\n", c[0])
		}
	}
}

func (m *mockEngine) PrintClause(w io.Writer, i int) {
	for _, l := range m.clauses[i] {
		fmt.Fprintf(w, "%d ", l)
	}
	fmt.Fprintf(w, "0\n")
}

func (m *mockEngine) PrintFormula(w io.Writer) {
	for i := range m.clauses {
		m.PrintClause(w, i)
	}
}
