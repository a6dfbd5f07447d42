package utils

import (
	"strings"
	"testing"
)

func TestGenerateQueryHashStable(t *testing.T) {
	a := GenerateQueryHash("epi_dashboard", map[string]string{"loja": "LJ01", "view": "status"})
	b := GenerateQueryHash("epi_dashboard", map[string]string{"view": "status", "loja": "LJ01"})
	if a != b {
		t.Fatalf("key order must not change the hash: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "epi_dashboard:") {
		t.Fatalf("hash must be prefixed by the resource: %q", a)
	}

	c := GenerateQueryHash("epi_dashboard", map[string]string{"loja": "LJ02", "view": "status"})
	if a == c {
		t.Fatal("different filters must hash differently")
	}
}
