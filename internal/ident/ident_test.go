package ident

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("New() produced invalid uuid %q: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("New() repeated identifier %q", id)
		}
		seen[id] = true
	}
}

func TestDeterministic(t *testing.T) {
	a := Deterministic("raw-segment:doc-1")
	b := Deterministic("raw-segment:doc-1")
	if a != b {
		t.Errorf("same reference gave %q and %q", a, b)
	}
	c := Deterministic("raw-segment:doc-2")
	if a == c {
		t.Errorf("different references gave the same identifier %q", a)
	}

	u, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("Deterministic() produced invalid uuid %q: %v", a, err)
	}
	if u.Version() != 4 {
		t.Errorf("uuid version = %d, want 4", u.Version())
	}
	if u.Variant() != uuid.RFC4122 {
		t.Errorf("uuid variant = %v, want RFC4122", u.Variant())
	}
}
