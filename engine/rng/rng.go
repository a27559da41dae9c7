// Package rng provides the seeded generator every session draws from.
// A generator is only a function of its own 32-bit accumulator, so its
// position can be saved and restored exactly.
package rng

import (
	"fmt"
	"hash/fnv"
)

// HashSeed hashes a seed string to 32 bits with FNV-1a.
func HashSeed(seed string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return h.Sum32()
}

// RNG is a Mulberry32 generator with draw counting.
type RNG struct {
	state uint32
	draws int64
}

// New creates a generator from a hashed seed.
func New(seed uint32) *RNG {
	return &RNG{state: seed}
}

// FromSeed creates a generator from a seed string.
func FromSeed(seed string) *RNG {
	return New(HashSeed(seed))
}

// Restore recreates a generator at a saved accumulator value.
func Restore(state uint32, draws int64) *RNG {
	return &RNG{state: state, draws: draws}
}

// Float returns the next value in [0, 1).
func (r *RNG) Float() float64 {
	r.draws++
	r.state += 0x6D2B79F5
	a := r.state
	t := (a ^ a>>15) * (a | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296.0
}

// Intn returns a value in [0, n). n must be positive.
func (r *RNG) Intn(n int) int {
	return int(r.Float() * float64(n))
}

// Chance reports whether a draw falls under p.
func (r *RNG) Chance(p float64) bool {
	return r.Float() < p
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with a positive total.
func (r *RNG) WeightedSelect(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	roll := r.Float() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Shuffle returns a permutation of [0, n) using Fisher-Yates.
func (r *RNG) Shuffle(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx
}

// State returns the current accumulator.
func (r *RNG) State() uint32 {
	return r.state
}

// Draws returns the number of values produced since the seed.
func (r *RNG) Draws() int64 {
	return r.draws
}

// EmptyCollectionError is returned when picking from an empty pool.
type EmptyCollectionError struct {
	Pool string
}

func (e *EmptyCollectionError) Error() string {
	if e.Pool == "" {
		return "rng: pick from empty collection"
	}
	return fmt.Sprintf("rng: pick from empty collection %q", e.Pool)
}

// Pick selects items[floor(Float()*len)].
func Pick[T any](r *RNG, items []T) (T, error) {
	return PickNamed(r, "", items)
}

// PickNamed is Pick with a pool name for error reporting.
func PickNamed[T any](r *RNG, pool string, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, &EmptyCollectionError{Pool: pool}
	}
	return items[r.Intn(len(items))], nil
}
