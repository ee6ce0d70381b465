package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	a, b := gen.NewID(), gen.NewID()
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("expected uuid, got %q: %v", a, err)
	}
	if !Accept(a) {
		t.Fatalf("generated id %q must be acceptable", a)
	}
}

func TestAccept(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"req-123":                 true,
		"a.b_c":                   true,
		"":                        false,
		"has space":               false,
		"newline\n":               false,
		"quote\"":                 false,
		strings.Repeat("x", 64):   true,
		strings.Repeat("x", 65):   false,
		"0b7c8d2e-ffff-4aaa-9bbb": true,
	}
	for raw, want := range tests {
		if got := Accept(raw); got != want {
			t.Fatalf("Accept(%q)=%v want=%v", raw, got, want)
		}
	}
}
