package genpce

// CheckResult reports the outcome of a checkOptimal run.
type CheckResult struct {
	Optimal             bool
	AssignmentsAnalyzed int
}

// CheckOptimal runs a DFS over partial assignments of inputs, identical in
// shape to buildOptimal's traversal but run only against r: for every path
// and every unseen input p, it solves both polarities of core ∪ {p} under
// r. If r's full solve under one polarity is unsat while BCP under core
// alone failed to decide that input, r is not propagation-complete over
// inputs and the search returns false at that first witness.
//
// naive=true skips the fingerprint memo and performs both solves
// unconditionally, serving as a trusted oracle against the memoized path.
func CheckOptimal(r Engine, inputs []int, naive bool) CheckResult {
	var result CheckResult
	memo := map[string]struct{}{}
	result.Optimal = checkDFS(r, inputs, nil, memo, naive, &result)
	return result
}

func checkDFS(r Engine, inputs []int, core []int, memo map[string]struct{}, naive bool, result *CheckResult) bool {
	// core itself may be infeasible under r without BCP alone being able to
	// see it (e.g. two binary clauses that only conflict once a variable is
	// actually decided). A full solve is the only test strong enough to
	// catch that: an infeasible core vacuously entails everything, so there
	// is nothing further to check in this branch.
	if status, _ := r.Solve(core); !status {
		return true
	}

	if !r.Propagate(core) {
		return true // refuted by BCP alone; also vacuously PC here
	}
	propagated := r.Trail()

	seen := make(map[int]bool, len(propagated))
	for _, l := range propagated {
		seen[abs(l)] = true
	}

	for _, p := range inputs {
		if seen[abs(p)] {
			continue
		}
		for _, cand := range [2]int{p, -p} {
			if !naive {
				fp := fingerprint(core, cand)
				if _, ok := memo[fp]; ok {
					continue
				}
				memo[fp] = struct{}{}
			}

			nextCore := append(append([]int(nil), core...), cand)

			result.AssignmentsAnalyzed++
			status, _ := r.Solve(nextCore)
			if !status {
				return false
			}

			if !checkDFS(r, inputs, nextCore, memo, naive, result) {
				return false
			}
		}
	}

	return true
}
