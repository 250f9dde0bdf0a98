// Package prng implements the seeded pseudo-random source the scheduling and
// paper-selection engines depend on. Every client of the program must derive
// the exact same values from the same seed string — there is no server-side
// tiebreaker — so the algorithms are fixed: FNV-1a for seed derivation and
// Mulberry32 for the stream. Neither is cryptographic and neither needs to be.
package prng

import (
	"math/rand/v2"
)

const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619

	mulberryIncrement uint32 = 0x6D2B79F5
)

// DeriveSeed hashes a seed string to a 32-bit generator seed using FNV-1a.
// Identical strings always produce identical seeds on every platform.
func DeriveSeed(s string) uint32 {
	h := fnvOffset
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

// Source is a Mulberry32 generator. The zero value is a valid (seed 0) source.
type Source struct {
	state uint32
}

// New returns a Source starting from the given seed.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// FromString returns a Source seeded from DeriveSeed(s).
func FromString(s string) *Source {
	return New(DeriveSeed(s))
}

// Float64 advances the generator and returns the next value in [0, 1).
func (s *Source) Float64() float64 {
	s.state += mulberryIncrement
	t := s.state
	t = imul(t^(t>>15), t|1)
	t ^= t + imul(t^(t>>7), t|61)
	return float64((t^(t>>14))>>0) / 4294967296.0
}

// IntN returns a value in [0, n) drawn from the stream. n must be positive.
func (s *Source) IntN(n int) int {
	return int(s.Float64() * float64(n))
}

// imul mirrors 32-bit overflowing multiplication.
func imul(a, b uint32) uint32 {
	return a * b
}

// ShuffleSeeded returns a copy of items permuted by a Fisher–Yates shuffle
// driven by the seed string. The input slice is not modified.
func ShuffleSeeded[T any](items []T, seed string) []T {
	out := make([]T, len(items))
	copy(out, items)
	src := FromString(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ShuffleRandom returns a copy of items in uniform random order. Used for the
// per-load question shuffling mode, where reproducibility is intentionally
// disabled.
func ShuffleRandom[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
