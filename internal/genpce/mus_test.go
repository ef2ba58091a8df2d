package genpce

import "testing"

func TestMUSShrinkDropsRedundantLiterals(t *testing.T) {
	r := newMockEngine()
	v1 := r.NewVar()
	v2 := r.NewVar()
	v3 := r.NewVar()
	mustAddClause(r, []int{-v1}) // forces v1 = false

	// core = {v1, v2, v3} is unsat under r (v1=true contradicts the unit
	// clause) regardless of v2, v3: only -v1 is actually needed.
	conflict := []int{-v1, -v2, -v3}

	shrunk, didShrink := MUSShrink(r, conflict)
	if !didShrink {
		t.Fatalf("expected MUSShrink to drop at least one literal")
	}
	if len(shrunk) != 1 || shrunk[0] != -v1 {
		t.Fatalf("MUSShrink(%v) = %v, want [%d]", conflict, shrunk, -v1)
	}
}

func TestMUSShrinkLeavesMinimalClauseUnchanged(t *testing.T) {
	r := newMockEngine()
	v1 := r.NewVar()
	mustAddClause(r, []int{-v1})

	conflict := []int{-v1}
	shrunk, didShrink := MUSShrink(r, conflict)
	if didShrink {
		t.Fatalf("a single-literal clause has nothing left to drop")
	}
	if len(shrunk) != 1 || shrunk[0] != -v1 {
		t.Fatalf("MUSShrink(%v) = %v, want unchanged", conflict, shrunk)
	}
}
