package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestFibBig(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{2, "1"},
		{10, "55"},
		{20, "6765"},
		{50, "12586269025"},
		{92, "7540113804746346429"},
		{93, "12200160415121876738"},
		{100, "354224848179261915075"},
		{186, "332825110087067562321196029789634457848"},
	}
	for _, tt := range tests {
		if got := fibBig(tt.n).String(); got != tt.want {
			t.Errorf("fibBig(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestFibBig_Recurrence(t *testing.T) {
	for n := uint64(0); n < 200; n++ {
		sum := new(big.Int).Add(fibBig(n), fibBig(n+1))
		if sum.Cmp(fibBig(n+2)) != 0 {
			t.Fatalf("F(%d) + F(%d) != F(%d)", n, n+1, n+2)
		}
	}
}

func TestIndices(t *testing.T) {
	ns := indices()
	if len(ns) != denseLimit+1+len(extraIndices) {
		t.Fatalf("len = %d", len(ns))
	}
	for i := 1; i < len(ns); i++ {
		if ns[i] <= ns[i-1] {
			t.Fatalf("indices not strictly increasing at %d: %d <= %d", i, ns[i], ns[i-1])
		}
	}
}

// TestWrite_MatchesCommittedGolden fails when the committed file is stale.
func TestWrite_MatchesCommittedGolden(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping golden regeneration in short mode")
	}
	path := filepath.Join(t.TempDir(), "golden.json")
	if err := write(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(filepath.Join("..", "..", "fibonacci", "testdata", "fibonacci_golden.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bytes.TrimSpace(got), bytes.TrimSpace(want)) {
		t.Error("fibonacci_golden.json is out of date; run go run ./cmd/generate-golden")
	}
}
