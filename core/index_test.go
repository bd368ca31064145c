package core

import "testing"

func TestIndexApplyTransitions(t *testing.T) {
	ix := NewIndex()

	if tr := ix.Apply(5); tr != TransitionNewUnique {
		t.Fatalf("first sighting: expected TransitionNewUnique, got %v", tr)
	}
	if tr := ix.Apply(5); tr != TransitionFirstDuplicate {
		t.Fatalf("second sighting: expected TransitionFirstDuplicate, got %v", tr)
	}
	if tr := ix.Apply(5); tr != TransitionRepeatDuplicate {
		t.Fatalf("third sighting: expected TransitionRepeatDuplicate, got %v", tr)
	}
}

func TestIndexCountUnique(t *testing.T) {
	ix := NewIndex()
	for _, v := range []int64{1, 2, 3} {
		ix.Apply(v)
	}
	ix.Apply(2) // 2 becomes duplicated

	if got := ix.CountUnique(); got != 2 {
		t.Fatalf("expected 2 unique keys (1 and 3), got %d", got)
	}
	if got := ix.Len(); got != 3 {
		t.Fatalf("expected 3 distinct keys tracked, got %d", got)
	}
}

func TestIndexBoundaryValues(t *testing.T) {
	ix := NewIndex()
	if tr := ix.Apply(0); tr != TransitionNewUnique {
		t.Fatalf("0 should be a valid new key, got %v", tr)
	}
	if tr := ix.Apply(999999999); tr != TransitionNewUnique {
		t.Fatalf("999999999 should be a valid new key, got %v", tr)
	}
}
