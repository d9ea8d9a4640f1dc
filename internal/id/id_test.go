package id

import (
	"strings"
	"testing"
)

func TestGenerate_HasPrefix(t *testing.T) {
	got, err := Generate("token")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(got, "token-") {
		t.Errorf("missing prefix: %q", got)
	}
	// prefix + dash + 21-char nanoid
	if len(got) != len("token-")+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		got, err := Generate("t")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if seen[got] {
			t.Fatalf("duplicate id generated: %q", got)
		}
		seen[got] = true
	}
}

func TestMustGenerate(t *testing.T) {
	got := MustGenerate("img")
	if !strings.HasPrefix(got, "img-") {
		t.Errorf("missing prefix: %q", got)
	}
}
