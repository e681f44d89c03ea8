// Package rng implements the per-person hash-chain RNG (spec.md §4.1). Each
// person carries its own chain state; there is no global RNG (spec.md §9),
// which is what lets patches run the chain forward independently and still
// agree with the serial reference bit-for-bit.
package rng

import (
	"crypto/sha256"

	"spreadsim/model"
)

// Advance replaces the chain state with SHA-256 of itself. crypto/sha256 is
// used directly rather than through a third-party hashing library: the
// chain algorithm *is* "repeated SHA-256", a concrete requirement of the
// spec (spec.md §8, "RNG chain" law), not a swappable hashing concern — see
// DESIGN.md for the stdlib-usage justification.
func Advance(d model.Seed) model.Seed {
	return model.Seed(sha256.Sum256(d[:]))
}

// Decisions captures the three per-tick decisions derived from a chain
// state, per spec.md §4.1. d is assumed to already be the post-advance
// state for the current tick.
type Decisions struct {
	IsCoughing   bool
	IsBreathing  bool
	Acceleration model.Direction
}

// Decide computes a person's decisions for the current tick from their
// (already-advanced) chain state and the scenario parameters. Bytes are
// interpreted as unsigned 0..255, per spec.md §4.1.
func Decide(d model.Seed, params model.Parameters) Decisions {
	return Decisions{
		IsCoughing:   int(d[0]) < params.CoughThreshold,
		IsBreathing:  int(d[1]) < params.BreathThreshold,
		Acceleration: accelerationFromByte(d[2], params.AccelerationDivisor),
	}
}

func accelerationFromByte(b byte, divisor int) model.Direction {
	if divisor <= 0 {
		return model.None
	}
	return model.DirectionFromIndex(int(b) / divisor)
}
