package genpce

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rhartert/yagh"
)

// Assignment is a partial assignment of input literals (core) together with
// its BCP closure against the current target encoding (propagated). The
// invariant core ⊆ propagated is maintained by the caller: propagated is
// only ever set from the target engine's trail right after a successful
// Propagate(core) call.
type Assignment struct {
	Core       []int
	Propagated []int
}

// fingerprint returns the sorted signed-literal key used to memoize search
// branches: the literals of core ∪ {extra}.
func fingerprint(core []int, extra int) string {
	lits := make([]int, len(core)+1)
	copy(lits, core)
	lits[len(core)] = extra
	sort.Ints(lits)

	var sb strings.Builder
	for i, l := range lits {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", l)
	}
	return sb.String()
}

// assignmentQueue is the best-first priority queue of Assignments ordered by
// (|core| desc, |propagated| desc) — "deepest first". It reuses the binary
// heap VarOrder uses for decision variables (github.com/rhartert/yagh),
// keyed by a synthetic id instead of a variable id, rather than introducing
// a second heap implementation.
type assignmentQueue struct {
	heap   *yagh.IntMap[int64]
	items  map[int]*Assignment
	nextID int
}

func newAssignmentQueue() *assignmentQueue {
	return &assignmentQueue{
		heap:  yagh.New[int64](0),
		items: map[int]*Assignment{},
	}
}

func (q *assignmentQueue) push(a *Assignment) {
	id := q.nextID
	q.nextID++
	q.heap.GrowBy(1)
	q.heap.Put(id, packPriority(len(a.Core), len(a.Propagated)))
	q.items[id] = a
}

func (q *assignmentQueue) pop() (*Assignment, bool) {
	elem, ok := q.heap.Pop()
	if !ok {
		return nil, false
	}
	a := q.items[elem.Elem]
	delete(q.items, elem.Elem)
	return a, true
}

func (q *assignmentQueue) empty() bool {
	return len(q.items) == 0
}

// packPriority packs (|core|, |propagated|) into a single min-heap key: the
// heap (like VarOrder's) pops the minimum, so negating the packed value
// makes the largest core/propagated pair come out first.
func packPriority(coreLen, propagatedLen int) int64 {
	return -(int64(coreLen)<<32 | int64(propagatedLen))
}
