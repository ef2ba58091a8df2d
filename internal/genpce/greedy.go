package genpce

// GreedyResult reports the outcome of a greedyOptimization run.
type GreedyResult struct {
	// Inputs is the final input set: the original declared inputs followed
	// by every promoted auxiliary, in promotion order.
	Inputs []int
	// Promoted lists the auxiliary variables promoted into the input set,
	// in promotion order.
	Promoted []int
	// ClauseCount is the final minimized clause count.
	ClauseCount int
}

// GreedyOptimization iterates buildOptimal+minimize, growing the input set
// one auxiliary variable at a time for as long as doing so strictly shrinks
// the minimized clause count. r is read-only; newEngine constructs fresh,
// empty engines sharing r's variable space, and a fresh target is rebuilt
// from scratch on every trial.
func GreedyOptimization(r Engine, initialInputs []int, numVars int, newEngine func() Engine, buildOpts BuildOptions, minOpts MinimizeOptions) GreedyResult {
	inputs := append([]int(nil), initialInputs...)

	declared := make(map[int]bool, len(inputs))
	for _, v := range inputs {
		declared[abs(v)] = true
	}
	var aux []int
	for v := 1; v <= numVars; v++ {
		if !declared[v] {
			aux = append(aux, v)
		}
	}

	costCurrent := buildAndMinimizeCost(r, inputs, numVars, newEngine, buildOpts, minOpts)

	var promoted []int

	for len(aux) > 0 {
		bestIdx := -1
		bestCost := 0

		for idx, v := range aux {
			trialInputs := append(append([]int(nil), inputs...), v)
			cost := buildAndMinimizeCost(r, trialInputs, numVars, newEngine, buildOpts, minOpts)
			if bestIdx < 0 || cost < bestCost {
				bestCost = cost
				bestIdx = idx
			}
		}

		if bestCost >= costCurrent {
			break
		}

		bestVar := aux[bestIdx]
		inputs = append(inputs, bestVar)
		promoted = append(promoted, bestVar)
		aux = append(aux[:bestIdx], aux[bestIdx+1:]...)
		costCurrent = bestCost
	}

	return GreedyResult{
		Inputs:      inputs,
		Promoted:    promoted,
		ClauseCount: costCurrent,
	}
}

func buildAndMinimizeCost(r Engine, inputs []int, numVars int, newEngine func() Engine, buildOpts BuildOptions, minOpts MinimizeOptions) int {
	t := newEngine()
	for i := 0; i < numVars; i++ {
		t.NewVar()
	}
	BuildOptimal(r, t, inputs, buildOpts)
	result, _ := Minimize(t, newEngine, minOpts)
	return result.ClauseCount
}
