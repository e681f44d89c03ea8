package model

// Parameters holds the scenario-wide, immutable-for-the-run knobs shared by
// every person. Shared read-only access is by pointer — see DESIGN.md D-1
// for the reference-counted-sharing rationale carried over from the
// original Rust implementation's Arc<Parameters>.
//
// CoughThreshold and BreathThreshold are compared against an unsigned RNG
// byte (0..255, see rng.Decisions); a value of 256 therefore means "always".
type Parameters struct {
	CoughThreshold       int
	BreathThreshold      int
	AccelerationDivisor  int
	RecoveryTime         int
	InfectionRadius      int
	IncubationTime       int
}

// MaxMovePerTick is the maximum Chebyshev displacement a person can make in
// one tick: velocity components are clamped to [-1, 1].
const MaxMovePerTick = 1

// MinPadding returns the minimum patch padding the engine will accept for
// these parameters, per spec.md §4.5: padding >= infection_radius + 1.
func (p Parameters) MinPadding() int {
	return p.InfectionRadius + 1
}
