package rng

import (
	"errors"
	"testing"
)

func TestHashSeed_KnownValues(t *testing.T) {
	tests := []struct {
		seed string
		want uint32
	}{
		{"", 0x811c9dc5},
		{"a", 0xe40c292c},
	}
	for _, tt := range tests {
		if got := HashSeed(tt.seed); got != tt.want {
			t.Errorf("HashSeed(%q) = %#x, want %#x", tt.seed, got, tt.want)
		}
	}
}

func TestHashSeed_Stable(t *testing.T) {
	if HashSeed("abc") != HashSeed("abc") {
		t.Fatal("same seed hashed to different values")
	}
	if HashSeed("abc") == HashSeed("abd") {
		t.Fatal("expected abc and abd to hash differently")
	}
}

func TestRNG_Deterministic(t *testing.T) {
	rng1 := FromSeed("test-seed")
	rng2 := FromSeed("test-seed")

	for i := 0; i < 50; i++ {
		a := rng1.Float()
		b := rng2.Float()
		if a != b {
			t.Fatalf("draw %d: got %v and %v from same seed", i, a, b)
		}
	}
}

func TestRNG_Float_Range(t *testing.T) {
	r := New(99)
	for i := 0; i < 10000; i++ {
		f := r.Float()
		if f < 0 || f >= 1 {
			t.Fatalf("draw out of range [0,1): %v", f)
		}
	}
}

func TestRNG_Intn_Range(t *testing.T) {
	r := New(7)
	for i := 0; i < 1000; i++ {
		if n := r.Intn(6); n < 0 || n > 5 {
			t.Fatalf("Intn(6) out of range: %d", n)
		}
	}
}

func TestRNG_WeightedSelect_Distribution(t *testing.T) {
	r := New(12345)
	weights := []float64{70, 20, 10}
	counts := [3]int{}

	const trials = 10000
	for i := 0; i < trials; i++ {
		idx := r.WeightedSelect(weights)
		if idx < 0 || idx > 2 {
			t.Fatalf("index out of range: %d", idx)
		}
		counts[idx]++
	}

	// With 10k trials, expect roughly 70%/20%/10% ± some margin.
	if counts[0] < 6000 || counts[0] > 8000 {
		t.Errorf("expected ~7000 for weight 70, got %d", counts[0])
	}
	if counts[1] < 1000 || counts[1] > 3000 {
		t.Errorf("expected ~2000 for weight 20, got %d", counts[1])
	}
	if counts[2] < 200 || counts[2] > 1800 {
		t.Errorf("expected ~1000 for weight 10, got %d", counts[2])
	}
}

func TestRNG_Shuffle_IsPermutation(t *testing.T) {
	r := New(3)
	perm := r.Shuffle(8)
	seen := map[int]bool{}
	for _, v := range perm {
		if v < 0 || v >= 8 || seen[v] {
			t.Fatalf("not a permutation: %v", perm)
		}
		seen[v] = true
	}
}

func TestRNG_Draws_Tracks(t *testing.T) {
	r := New(42)
	if r.Draws() != 0 {
		t.Fatalf("expected 0 draws, got %d", r.Draws())
	}
	r.Float()
	r.Intn(4)
	r.WeightedSelect([]float64{1, 1})
	if r.Draws() != 3 {
		t.Fatalf("expected 3 draws, got %d", r.Draws())
	}
}

func TestRNG_Restore_MatchesState(t *testing.T) {
	r := FromSeed("resume")
	for i := 0; i < 10; i++ {
		r.Float()
	}

	restored := Restore(r.State(), r.Draws())

	for i := 0; i < 5; i++ {
		want := r.Float()
		got := restored.Float()
		if got != want {
			t.Fatalf("draw %d: expected %v, got %v", i, want, got)
		}
	}
	if restored.Draws() != 15 {
		t.Fatalf("expected 15 draws, got %d", restored.Draws())
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := FromSeed("abc")
	rng2 := FromSeed("abd")

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Float() != rng2.Float() {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}

func TestPick_Empty(t *testing.T) {
	r := New(1)
	_, err := PickNamed(r, "roles", []string{})

	var empty *EmptyCollectionError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyCollectionError, got %v", err)
	}
	if empty.Pool != "roles" {
		t.Errorf("expected pool roles, got %q", empty.Pool)
	}
	if r.Draws() != 0 {
		t.Error("empty pick should not consume a draw")
	}
}

func TestPick_SingleItem(t *testing.T) {
	r := New(1)
	for i := 0; i < 10; i++ {
		got, err := Pick(r, []string{"only"})
		if err != nil || got != "only" {
			t.Fatalf("Pick = %q, %v", got, err)
		}
	}
}
