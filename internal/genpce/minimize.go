package genpce

import (
	"fmt"
	"io"
)

// MinimizeOptions configures a clause-redundancy minimization run.
type MinimizeOptions struct {
	// Lock enables the reason-locking heuristic: once a literal is found
	// implied while testing a clause, the clause currently responsible for
	// it is locked and skipped by later iterations of this same run,
	// avoiding repeated re-derivation of the same support.
	Lock bool
}

// MinimizeResult reports the outcome of a minimize run.
type MinimizeResult struct {
	// ClauseCount is n_clauses(E) - n_redundant + n_units(E), the size of
	// the minimized encoding.
	ClauseCount int
	// Redundant[i] reports whether E's i-th clause was found removable.
	Redundant []bool
}

// Minimize clones e into a fresh engine (via newEngine, with one extra
// selector variable per clause — see CopyWithSelectors) and determines
// which of e's clauses can be removed without breaking propagation-
// completeness over e's declared (non-selector) inputs. It returns the
// result and the clone, which the caller may discard or inspect further.
func Minimize(e Engine, newEngine func() Engine, opts MinimizeOptions) (MinimizeResult, Engine) {
	m := newEngine()
	numRealVars := e.CopyTo(m)

	numClauses := e.NumClauses()
	redundant := make([]bool, numClauses)

	for i := 0; i < numClauses; i++ {
		if m.IsLocked(i) {
			continue
		}

		clause := m.GetClause(i) // Cᵢ ∨ sᵢ, as stored in the clone
		selectorVar := numRealVars + i + 1
		implied := 0

		for j, lj := range clause {
			if abs(lj) > numRealVars {
				continue // this is clause i's own selector literal
			}

			assumptions := make([]int, 0, len(clause)+numClauses)
			for k, lk := range clause {
				if k == j || abs(lk) > numRealVars {
					continue
				}
				assumptions = append(assumptions, -lk)
			}
			// Disable clause i itself by asserting its own selector.
			assumptions = append(assumptions, selectorVar)
			for w := 0; w < numClauses; w++ {
				if w == i {
					continue
				}
				ws := numRealVars + w + 1
				if redundant[w] {
					assumptions = append(assumptions, ws) // already dispensed with: disabled
				} else {
					assumptions = append(assumptions, -ws) // still needed: enabled
				}
			}

			if !m.Propagate(assumptions) {
				continue
			}

			forced := false
			for _, l := range m.Trail() {
				if l == lj {
					forced = true
					break
				}
			}
			if forced {
				implied++
				if opts.Lock {
					m.LockReason(abs(lj))
				}
			}
		}

		if implied == len(clause)-1 {
			redundant[i] = true
			if opts.Lock {
				m.ClearLocked()
			}
		} else if opts.Lock {
			m.UndoLocked()
		}
	}

	kept := 0
	for _, r := range redundant {
		if !r {
			kept++
		}
	}

	return MinimizeResult{
		ClauseCount: kept + e.NumUnits(),
		Redundant:   redundant,
	}, m
}

// PrintMinimized writes e's root-level units followed by the non-redundant
// clauses identified by result, as a DIMACS CNF.
func PrintMinimized(w io.Writer, e Engine, result MinimizeResult) {
	fmt.Fprintf(w, "p cnf %d %d\n", e.NumVars(), result.ClauseCount)
	e.PrintUnits(w)
	for i := 0; i < e.NumClauses(); i++ {
		if !result.Redundant[i] {
			e.PrintClause(w, i)
		}
	}
}
