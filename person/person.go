// Package person implements the runtime Person type and the per-person tick
// algorithm (spec.md §4.2) and pairwise infection resolution (spec.md §4.3).
package person

import (
	"spreadsim/model"
	"spreadsim/rng"
)

// Person is the runtime state of one simulated individual. Params is a
// shared, read-only pointer — see DESIGN.md D-1 for why this is a plain
// pointer rather than a copy: Parameters never changes during a run, so
// sharing it is race-free without synchronization.
type Person struct {
	ID        int
	Params    *model.Parameters
	Name      string
	Position  model.Vector
	Direction model.Direction
	Infection model.InfectionState
	Seed      model.Seed
}

// NewFromInfo builds the runtime Person for one scenario population entry.
// id is the person's stable, never-reused index into the scenario
// population order (spec.md §3).
func NewFromInfo(id int, info model.PersonInfo, params *model.Parameters) *Person {
	return &Person{
		ID:        id,
		Params:    params,
		Name:      info.Name,
		Position:  info.Position,
		Direction: info.Direction,
		Infection: info.Infection,
		Seed:      info.Seed,
	}
}

// Info snapshots the person into the stable boundary representation.
func (p *Person) Info() model.PersonInfo {
	return model.PersonInfo{
		Name:      p.Name,
		Position:  p.Position,
		Seed:      p.Seed,
		Infection: p.Infection,
		Direction: p.Direction,
	}
}

// Environment is the read-only context a patch assembles for a single
// person's tick: the grid, obstacles, and the positions/ghosts of every
// other person visible to the owning patch (spec.md §4.2 preconditions).
type Environment struct {
	Grid      model.Rectangle
	Obstacles []model.Rectangle
	Positions []model.Vector
	Ghosts    []model.Vector
}

// Tick advances the person by exactly one tick, per spec.md §4.2:
//  1. advance the RNG chain
//  2. increment the dwell counter and apply time-driven state transitions
//  3. compute a candidate move from current direction + acceleration
//  4. resolve collisions against the grid, obstacles, and other positions/ghosts
//
// Tick mutates the person in place and returns whether the move bumped
// (was rejected).
func (p *Person) Tick(env Environment) (bumped bool) {
	p.Seed = rng.Advance(p.Seed)
	p.Infection.InStateSince++
	p.Infection.AdvanceDwell(p.Params.IncubationTime, p.Params.RecoveryTime)

	decisions := rng.Decide(p.Seed, *p.Params)
	velocity := p.Direction.Vector().Add(decisions.Acceleration.Vector()).Clamp(-1, 1)
	candidate := p.Position.Add(velocity)

	if collides(candidate, env) {
		p.Direction = model.None
		return true
	}

	p.Direction = model.DirectionFromVector(velocity)
	p.Position = candidate
	return false
}

// IsCoughing and IsBreathing expose the current tick's decisions, derived
// from the person's (already advanced) chain state. They are recomputed
// rather than cached since they are pure functions of Seed and Params.
func (p *Person) IsCoughing() bool {
	return rng.Decide(p.Seed, *p.Params).IsCoughing
}

func (p *Person) IsBreathing() bool {
	return rng.Decide(p.Seed, *p.Params).IsBreathing
}

// collides implements the fixed-order collision check of spec.md §4.2 step 5:
// grid bounds, then obstacles, then occupied positions/ghosts.
func collides(candidate model.Vector, env Environment) bool {
	if !env.Grid.Contains(candidate) {
		return true
	}
	for _, obstacle := range env.Obstacles {
		if obstacle.Contains(candidate) {
			return true
		}
	}
	for _, occupied := range env.Positions {
		if occupied == candidate {
			return true
		}
	}
	for _, ghost := range env.Ghosts {
		if ghost == candidate {
			return true
		}
	}
	return false
}

// InfectPairwise resolves infection across one unordered pair, per spec.md
// §4.3. Both directions are evaluated independently; Infect is idempotent
// and monotone (Susceptible -> Infected only), so this is safe to call once
// per unordered pair regardless of which side owns the call.
func InfectPairwise(a, b *Person, infectionRadius int) {
	if model.ManhattanDistance(a.Position, b.Position) > infectionRadius {
		return
	}
	if a.Infection.Status == model.Infectious && a.IsCoughing() && b.IsBreathing() {
		b.Infection.Infect()
	}
	if b.Infection.Status == model.Infectious && b.IsCoughing() && a.IsBreathing() {
		a.Infection.Infect()
	}
}
