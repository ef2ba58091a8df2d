package genpce

import "testing"

func TestFingerprintOrderIndependent(t *testing.T) {
	a := fingerprint([]int{1, -2}, 3)
	b := fingerprint([]int{-2, 1}, 3)
	if a != b {
		t.Fatalf("fingerprint should be order-independent: %q != %q", a, b)
	}

	c := fingerprint([]int{1, -2}, -3)
	if a == c {
		t.Fatalf("fingerprint should distinguish different extra literals")
	}
}

func TestAssignmentQueueDeepestFirst(t *testing.T) {
	q := newAssignmentQueue()
	q.push(&Assignment{Core: []int{1}, Propagated: []int{1}})
	q.push(&Assignment{Core: []int{1, 2, 3}, Propagated: []int{1, 2, 3}})
	q.push(&Assignment{Core: []int{1, 2}, Propagated: []int{1, 2}})

	first, ok := q.pop()
	if !ok || len(first.Core) != 3 {
		t.Fatalf("expected the deepest assignment (core len 3) first, got %v", first)
	}
	second, ok := q.pop()
	if !ok || len(second.Core) != 2 {
		t.Fatalf("expected core len 2 second, got %v", second)
	}
	third, ok := q.pop()
	if !ok || len(third.Core) != 1 {
		t.Fatalf("expected core len 1 third, got %v", third)
	}
	if !q.empty() {
		t.Fatalf("queue should be empty after draining all pushes")
	}
	if _, ok := q.pop(); ok {
		t.Fatalf("pop on empty queue should report ok=false")
	}
}

func TestAssignmentQueuePropagatedTiebreak(t *testing.T) {
	q := newAssignmentQueue()
	q.push(&Assignment{Core: []int{1}, Propagated: []int{1}})
	q.push(&Assignment{Core: []int{1}, Propagated: []int{1, 2, 3}})

	first, ok := q.pop()
	if !ok || len(first.Propagated) != 3 {
		t.Fatalf("expected the assignment with longer propagated trail first, got %v", first)
	}
}
