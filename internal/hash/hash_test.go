package hash

import (
	"bytes"
	"errors"
	"testing"
)

func TestAllAlgorithmsDeterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	for _, name := range ListNames() {
		h, err := Build(name)
		if err != nil {
			t.Fatalf("Build(%q): %v", name, err)
		}
		a := h.Sum(data)
		b := h.Sum(data)
		if !bytes.Equal(a, b) {
			t.Fatalf("%s: Sum not deterministic", name)
		}
		if len(a) == 0 {
			t.Fatalf("%s: empty digest", name)
		}
	}
}

func TestDifferentInputsDifferentDigests(t *testing.T) {
	for _, name := range ListNames() {
		h, _ := Build(name)
		a := h.Sum([]byte("one"))
		b := h.Sum([]byte("two"))
		if bytes.Equal(a, b) {
			t.Fatalf("%s: collision between distinct trivial inputs", name)
		}
	}
}

func TestBuildUnknown(t *testing.T) {
	if _, err := Build("nonexistent"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestListNamesContainsDefaults(t *testing.T) {
	names := ListNames()
	want := []string{"Blake3", "SHA-256", "SHA-512", "SHA3-256", "SHA3-512", "Blake2s-256", "Blake2b-512", "Tiger", "Whirlpool"}
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	for _, w := range want {
		if !found[w] {
			t.Fatalf("expected %q among registered hashers, got %v", w, names)
		}
	}
}
