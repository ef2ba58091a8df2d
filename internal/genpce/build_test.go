package genpce

import "testing"

// newANDGateReference builds the standard Tseitin encoding of v3 = v1 AND v2:
// (¬v1∨¬v2∨v3) ∧ (v1∨¬v3) ∧ (v2∨¬v3).
func newANDGateReference() *mockEngine {
	r := newMockEngine()
	v1 := r.NewVar()
	v2 := r.NewVar()
	v3 := r.NewVar()
	mustAddClause(r, []int{-v1, -v2, v3})
	mustAddClause(r, []int{v1, -v3})
	mustAddClause(r, []int{v2, -v3})
	return r
}

// TestBuildOptimalProducesPropagationCompleteTarget checks the core
// end-to-end invariant: whatever buildOptimal learns into t, checkOptimal
// must subsequently certify it propagation-complete over the same inputs.
func TestBuildOptimalProducesPropagationCompleteTarget(t *testing.T) {
	r := newANDGateReference()
	inputs := []int{1, 2}

	target := newMockEngine()
	target.NewVar()
	target.NewVar()
	target.NewVar()

	buildResult := BuildOptimal(r, target, inputs, BuildOptions{})
	if buildResult.AssignmentsAnalyzed == 0 {
		t.Fatalf("expected at least one assignment analyzed")
	}

	checkResult := CheckOptimal(target, inputs, false)
	if !checkResult.Optimal {
		t.Fatalf("target built by BuildOptimal must be propagation-complete over %v", inputs)
	}
}

// TestBuildOptimalIsDeterministicAcrossRuns re-running buildOptimal from
// scratch on the same reference and input order must learn the same number
// of clauses (no dependence on map iteration order) on the non-random path.
func TestBuildOptimalIsDeterministicAcrossRuns(t *testing.T) {
	inputs := []int{1, 2}

	run := func() int {
		r := newANDGateReference()
		target := newMockEngine()
		target.NewVar()
		target.NewVar()
		target.NewVar()
		res := BuildOptimal(r, target, inputs, BuildOptions{})
		return res.ClausesLearned
	}

	first := run()
	second := run()
	if first != second {
		t.Fatalf("buildOptimal learned %d clauses on one run and %d on another", first, second)
	}
}

// TestBuildOptimalWithMUSStaysPropagationComplete checks that enabling MUS
// shrinking preserves soundness: the resulting target must still be
// propagation-complete.
func TestBuildOptimalWithMUSStaysPropagationComplete(t *testing.T) {
	r := newANDGateReference()
	inputs := []int{1, 2}

	target := newMockEngine()
	target.NewVar()
	target.NewVar()
	target.NewVar()

	BuildOptimal(r, target, inputs, BuildOptions{MUS: true})

	checkResult := CheckOptimal(target, inputs, false)
	if !checkResult.Optimal {
		t.Fatalf("MUS-shrunk target must still be propagation-complete over %v", inputs)
	}
}
