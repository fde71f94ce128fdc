package shortid

import (
	"strings"
	"testing"
)

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	const n = 12
	s, err := Generate(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n {
		t.Fatalf("expected length %d, got %d", n, len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			t.Fatalf("character %q not in alphabet", r)
		}
	}
}

func TestGenerate_InvalidLength(t *testing.T) {
	if _, err := Generate(0); err == nil {
		t.Fatalf("expected error for length 0")
	}
	if _, err := Generate(-1); err == nil {
		t.Fatalf("expected error for negative length")
	}
}

func TestNew_EntropyHint(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Logf("warning: two New() results are identical; extremely unlikely")
	}
}
