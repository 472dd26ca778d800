package sortkeys

import (
	"testing"

	"jsstyle/internal/errors"
)

func TestTracker_RecordAndGetPrevious(t *testing.T) {
	var tr Tracker
	tr.Enter()

	if _, ok := tr.RecordAndGetPrevious(StringName("b"), true); ok {
		t.Fatal("a new frame should have no previous name")
	}

	// An unresolvable name keeps the baseline.
	prev, ok := tr.RecordAndGetPrevious(Name{}, false)
	if !ok || prev.String() != "b" {
		t.Fatalf("previous = %q, %v; want b", prev, ok)
	}
	prev, ok = tr.RecordAndGetPrevious(StringName("a"), true)
	if !ok || prev.String() != "b" {
		t.Fatalf("previous after unresolvable = %q, %v; want b", prev, ok)
	}
	prev, _ = tr.RecordAndGetPrevious(StringName("c"), true)
	if prev.String() != "a" {
		t.Fatalf("previous = %q, want a", prev)
	}
}

func TestTracker_Nesting(t *testing.T) {
	var tr Tracker
	tr.Enter()
	tr.RecordAndGetPrevious(StringName("outer"), true)

	tr.Enter()
	if tr.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", tr.Depth())
	}
	if _, ok := tr.RecordAndGetPrevious(StringName("inner"), true); ok {
		t.Error("nested frame must start empty")
	}
	tr.Exit()

	prev, ok := tr.RecordAndGetPrevious(StringName("next"), true)
	if !ok || prev.String() != "outer" {
		t.Errorf("after exit previous = %q, %v; want outer", prev, ok)
	}
	tr.Exit()
	if tr.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", tr.Depth())
	}
}

func TestTracker_Underflow(t *testing.T) {
	tests := []struct {
		name string
		call func(*Tracker)
	}{
		{"exit", func(tr *Tracker) { tr.Exit() }},
		{"record", func(tr *Tracker) { tr.RecordAndGetPrevious(StringName("a"), true) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, errors.InternalError) {
					t.Errorf("expected ErrScopeUnderflow panic, got %v", r)
				}
			}()
			var tr Tracker
			tt.call(&tr)
		})
	}
}
