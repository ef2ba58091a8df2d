package genpce

import "testing"

func TestGreedyOptimizationStructuralInvariants(t *testing.T) {
	r := newANDGateReference()
	initialInputs := []int{1, 2}

	result := GreedyOptimization(
		r,
		initialInputs,
		r.NumVars(),
		func() Engine { return newMockEngine() },
		BuildOptions{},
		MinimizeOptions{},
	)

	// The AND gate puts no constraint on inputs {1,2} alone, so the minimized
	// encoding over them is empty and promoting v3 cannot lower that.
	if result.ClauseCount != 0 {
		t.Fatalf("expected a clause count of 0, got %d", result.ClauseCount)
	}

	seen := map[int]bool{}
	for _, v := range initialInputs {
		seen[v] = true
	}
	for _, v := range result.Inputs {
		if seen[v] {
			continue
		}
		seen[v] = true
	}
	if len(result.Inputs) != len(initialInputs)+len(result.Promoted) {
		t.Fatalf("Inputs should be initial inputs plus promoted vars, got %d inputs and %d promoted",
			len(result.Inputs), len(result.Promoted))
	}

	promotedSet := map[int]bool{}
	for _, v := range result.Promoted {
		if promotedSet[v] {
			t.Fatalf("variable %d promoted more than once", v)
		}
		promotedSet[v] = true
		for _, init := range initialInputs {
			if v == init {
				t.Fatalf("promoted variable %d was already a declared input", v)
			}
		}
	}
}

func TestGreedyOptimizationNeverIncreasesCost(t *testing.T) {
	r := newANDGateReference()
	initialInputs := []int{1, 2}

	baseline := buildAndMinimizeCost(r, initialInputs, r.NumVars(), func() Engine { return newMockEngine() }, BuildOptions{}, MinimizeOptions{})

	result := GreedyOptimization(
		r,
		initialInputs,
		r.NumVars(),
		func() Engine { return newMockEngine() },
		BuildOptions{},
		MinimizeOptions{},
	)

	if result.ClauseCount > baseline {
		t.Fatalf("greedy result cost %d exceeds the un-promoted baseline %d", result.ClauseCount, baseline)
	}
}
