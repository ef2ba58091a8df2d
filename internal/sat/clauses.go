package sat

import (
	"strings"
)

// status holds lifecycle bit flags for a clause, replacing the separate
// learnt/isProtected bools so a third flag (locked) fits without growing the
// struct.
type status uint8

const (
	statusLearnt status = 1 << iota
	// statusProtected marks a learnt clause that ReduceDB must not discard in
	// its next pass.
	statusProtected
	// statusLocked marks a clause that the redundancy minimizer (see
	// Solver.LockReason) has identified as the antecedent of some trail
	// literal. Locked clauses are skipped by later minimization passes on
	// the same solver.
	statusLocked
)

// Clause is a disjunction of literals tracked by a Solver's watch lists.
//
// Clause indices (as assigned on construction and consumed by
// Solver.NumClauses/GetClause/IsLocked/LockReason) count only the problem
// clauses stored in the solver's constraints slice: a clause that AddClause
// finds already satisfied, or reduces to a unit, gets no index. Stored
// problem clauses are never removed (Simplify and ReduceDB only prune learnt
// clauses), so an index stays valid for the solver's lifetime.
type Clause struct {
	activity float64

	// The clause's literals. Must always contain at least two literals while
	// the clause is alive.
	literals []Literal
	sliceRef *[]Literal

	// Position of the previous watched literal, used to resume scanning for
	// a replacement watch without restarting from the clause's head.
	prevPos int

	// The literal block distance used to estimate the quality of the clause;
	// ReduceDB removes clauses with a higher LBD first.
	lbd int

	statusMask status

	// index is this clause's position within its owning Solver's constraints
	// slice, or -1 if it was never added there (e.g. a learnt clause). See
	// the stability caveat above.
	index int
}

func (c *Clause) isLearnt() bool    { return c.statusMask&statusLearnt != 0 }
func (c *Clause) isProtected() bool { return c.statusMask&statusProtected != 0 }
func (c *Clause) isLocked() bool    { return c.statusMask&statusLocked != 0 }

func (c *Clause) setProtected()   { c.statusMask |= statusProtected }
func (c *Clause) setUnprotected() { c.statusMask &^= statusProtected }
func (c *Clause) setLocked()      { c.statusMask |= statusLocked }
func (c *Clause) setUnlocked()    { c.statusMask &^= statusLocked }

// Literals returns the clause's current (possibly simplified) literal list.
// Callers must not retain the returned slice across calls that may mutate
// the clause (Simplify, Propagate).
func (c *Clause) Literals() []Literal {
	return c.literals
}

func NewClause(s *Solver, tmpLiterals []Literal, learnt bool) (*Clause, bool) {
	size := len(tmpLiterals)

	if !learnt {
		seen := map[Literal]struct{}{}

		for i := size - 1; i >= 0; i-- {
			// If the opposite literal is in the clause, then the clause is
			// always true.
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return nil, true
			}

			// Remove the literal if it is already present.
			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}

			seen[tmpLiterals[i]] = struct{}{}

			switch s.LitValue(tmpLiterals[i]) {
			case True:
				return nil, true // clause is always true
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}

		tmpLiterals = tmpLiterals[:size]
	}

	switch size {
	case 0:
		// Empty clauses cannot be valid.
		return nil, false
	case 1:
		// Directly enqueue unit facts.
		return nil, s.enqueue(tmpLiterals[0], nil)
	default:
		ref := allocSlice(size)
		c := &Clause{
			prevPos:  2, // no previous literal
			sliceRef: ref,
			index:    -1,
		}
		if learnt {
			c.statusMask |= statusLearnt
		}
		c.literals = (*ref)[:0]
		c.literals = append(c.literals, tmpLiterals[:size]...)

		if learnt {
			maxLevel := -1
			wl := -1
			for i := 1; i < len(c.literals); i++ {
				if level := s.level[c.literals[i].VarID()]; level > maxLevel {
					maxLevel = level
					wl = i
				}
			}
			c.literals[wl], c.literals[1] = c.literals[1], c.literals[wl]
		} else {
			c.index = len(s.constraints)
			s.constraints = append(s.constraints, c)
		}

		s.Watch(c, c.literals[0].Opposite(), c.literals[1])
		s.Watch(c, c.literals[1].Opposite(), c.literals[0])

		return c, true
	}
}

// isReasonFor reports whether the clause is currently the propagation
// reason for its own first literal, i.e. whether removing it would leave a
// dangling antecedent on the trail. Distinct from isLocked, which tracks the
// redundancy minimizer's explicit locks.
func (c *Clause) isReasonFor(solver *Solver) bool {
	return solver.reason[c.literals[0].VarID()] == c
}

// Delete unhooks the clause from its solver's watch lists and releases its
// literal slice back to the shared pool. Only ever called on learnt clauses,
// which are never indexed for introspection.
func (c *Clause) Delete(s *Solver) {
	s.Unwatch(c, c.literals[0].Opposite())
	s.Unwatch(c, c.literals[1].Opposite())
	freeSlice(c.sliceRef)
}

func (c *Clause) Simplify(s *Solver) bool {
	j := 0
	for i := 0; i < len(c.literals); i++ {
		v := s.LitValue(c.literals[i])
		switch v {
		case True:
			return true
		case False:
			// discard the literal.
		case Unknown:
			c.literals[j] = c.literals[i]
			j++
		}
	}
	c.literals = c.literals[:j]
	return false
}

func (c *Clause) Propagate(s *Solver, l Literal) bool {
	// Make sure that the triggering literal is c.literals[1]. This simplifies
	// the rest of this function as c.literals[0] is always the literal to be
	// potentially enqueued (if all other literals are false).
	opp := l.Opposite()
	if c.literals[0] == opp {
		c.literals[0] = c.literals[1]
		c.literals[1] = opp
	}

	// If c.literals[0] is True, then the clause is already true.
	if s.LitValue(c.literals[0]) == True {
		s.Watch(c, l, c.literals[0])
		return true
	}

	// Look for a new literal to watch, starting from the position of the
	// previous watched literal so repeated calls don't keep rescanning the
	// clause's head.
	if c.prevPos >= len(c.literals) {
		c.prevPos = 2
	}
	for i, lit := range c.literals[c.prevPos:] {
		if s.LitValue(lit) != False {
			c.prevPos += i
			c.literals[1] = lit
			c.literals[c.prevPos] = l.Opposite()
			s.Watch(c, lit.Opposite(), c.literals[0])
			return true
		}
	}
	for i, lit := range c.literals[2:c.prevPos] {
		if s.LitValue(lit) != False {
			c.prevPos = i + 2
			c.literals[1] = lit
			c.literals[c.prevPos] = l.Opposite()
			s.Watch(c, lit.Opposite(), c.literals[0])
			return true
		}
	}

	// The first literal must be true if all other literals are false.
	s.Watch(c, l, c.literals[0])
	return s.enqueue(c.literals[0], c)
}

func (c *Clause) ExplainFailure(s *Solver) []Literal {
	s.tmpReason = s.tmpReason[:0]
	for _, l := range c.literals {
		s.tmpReason = append(s.tmpReason, l.Opposite())
	}
	if c.isLearnt() {
		s.BumpClaActivity(c)
	}
	return s.tmpReason
}

func (c *Clause) ExplainAssign(s *Solver, l Literal) []Literal {
	s.tmpReason = s.tmpReason[:0]
	for i := 1; i < len(c.literals); i++ {
		s.tmpReason = append(s.tmpReason, c.literals[i].Opposite())
	}
	if c.isLearnt() {
		s.BumpClaActivity(c)
	}
	return s.tmpReason
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
