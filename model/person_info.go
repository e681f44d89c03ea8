package model

// Seed is the 32-byte opaque hash-chain state carried by a person, either as
// their initial RNG seed or, in output, the post-tick chain state.
type Seed [32]byte

// PersonInfo is the stable boundary representation of a person: everything
// needed to reconstruct their runtime state, and everything the scenario
// and output formats exchange.
type PersonInfo struct {
	Name      string
	Position  Vector
	Seed      Seed
	Infection InfectionState
	Direction Direction
}
