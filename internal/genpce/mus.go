package genpce

// MUSShrink deletion-shrinks a conflict clause (as returned by Engine.Solve:
// negated-assumption clause form) against r, by testing, one literal at a
// time and in a single forward pass, whether dropping the corresponding
// assumption still leaves the remainder unsat under r. Each test uses the
// core as already shrunk by earlier iterations of the same pass, which is
// sufficient to reach a minimal (not necessarily minimum) unsat subset.
//
// Returns the shrunk clause, in the same negated form, and whether any
// literal was actually dropped.
func MUSShrink(r Engine, clause []int) ([]int, bool) {
	core := negate(clause)
	kept := make([]int, 0, len(core))
	shrunk := false

	for i, lit := range core {
		trial := make([]int, 0, len(kept)+len(core)-i-1)
		trial = append(trial, kept...)
		trial = append(trial, core[i+1:]...)

		if status, _ := r.Solve(trial); !status {
			shrunk = true
			continue // lit is not needed; drop it permanently
		}
		kept = append(kept, lit)
	}

	return negate(kept), shrunk
}
