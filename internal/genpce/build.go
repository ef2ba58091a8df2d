package genpce

import "math/rand"

// BuildResult reports statistics from a buildOptimal run, surfacing the
// "assignments analyzed" / clauses-learned / MUS-shrink counters the
// original tool prints in its summary lines.
type BuildResult struct {
	AssignmentsAnalyzed int
	ClausesLearned      int
	MUSShrinks          int
}

// BuildOptions configures a buildOptimal run.
type BuildOptions struct {
	Random bool
	Seed   int64
	MUS    bool
}

// BuildOptimal mutates t by adding learned clauses until, for every partial
// assignment of the declared input literals, BCP on t derives every input
// literal r entails under that assignment; literals of non-input variables
// are not enumerated, so t need not derive them. r is treated as read-only
// beyond its own internal solve state; t is append-only.
func BuildOptimal(r, t Engine, inputs []int, opts BuildOptions) BuildResult {
	order := append([]int(nil), inputs...)
	if opts.Random {
		rnd := rand.New(rand.NewSource(opts.Seed))
		rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	queue := newAssignmentQueue()
	memo := map[string]struct{}{}
	queue.push(&Assignment{})

	var result BuildResult

	for {
		current, ok := queue.pop()
		if !ok {
			break
		}
		if !t.Propagate(current.Core) {
			continue // subtree already closed by a previously learned clause
		}
		current.Propagated = t.Trail()

		seen := make(map[int]bool, len(current.Propagated))
		for _, l := range current.Propagated {
			seen[abs(l)] = true
		}

		for _, p := range order {
			if seen[abs(p)] {
				continue
			}
			// Both polarities are attempted whenever unmemoized: the
			// reference source's pos_status/neg_status short-circuit guards
			// are transposed and therefore inert, so there is no actual
			// asymmetry between the two branches to preserve.
			for _, cand := range [2]int{p, -p} {
				fp := fingerprint(current.Core, cand)
				if _, ok := memo[fp]; ok {
					continue
				}
				memo[fp] = struct{}{}
				extend(r, t, current, cand, queue, opts, &result)
			}
		}
	}

	return result
}

// extend is the `solve` extension step of §4.2.1: it tries to grow current
// by literal p, and either pushes the extension for further exploration (the
// reference agrees it's satisfiable) or registers the resulting refutation
// as a learned clause of t.
func extend(r, t Engine, current *Assignment, p int, queue *assignmentQueue, opts BuildOptions, result *BuildResult) {
	result.AssignmentsAnalyzed++
	nextCore := append(append([]int(nil), current.Core...), p)

	if !t.Propagate(nextCore) {
		status, conflict := t.Solve(nextCore)
		if status {
			panic("genpce: t.Solve(next.core) unexpectedly SAT after propagate failed")
		}
		mustAddClause(t, conflict)
		result.ClausesLearned++
		return
	}

	nextPropagated := t.Trail()

	status, conflict := r.Solve(nextCore)
	if status {
		queue.push(&Assignment{Core: nextCore, Propagated: nextPropagated})
		return
	}

	clause := conflict
	if opts.MUS {
		shrunk, didShrink := MUSShrink(r, conflict)
		clause = shrunk
		if didShrink {
			result.MUSShrinks++
		}
	}
	mustAddClause(t, clause)
	result.ClausesLearned++
}

func mustAddClause(t Engine, clause []int) {
	if err := t.AddClause(clause); err != nil {
		panic("genpce: failed to add learned clause to target: " + err.Error())
	}
}
