// Package patch implements the unit of parallel work: a rectangular region
// of the grid, the persons it currently owns, and the padded halo protocol
// that lets it see — but never mutate — persons owned by neighboring
// patches (spec.md §4.4-§4.6).
package patch

import (
	"sort"

	"spreadsim/model"
	"spreadsim/person"
	"spreadsim/validator"
)

// Patch owns the persons currently inside Rectangle, plus read-only
// knowledge of persons in its padded halo.
type Patch struct {
	ID       int
	Rect     model.Rectangle
	Padded   model.Rectangle
	Owned    []*person.Person
	NeighborIDs []int
	QueryOverlap map[string]model.Rectangle
}

// New builds a patch for rect within grid, with a halo padded by padding
// cells (clipped to grid), and the subset of each named query rectangle
// that falls within this patch.
func New(id int, rect, grid model.Rectangle, padding int, queries map[string]model.Rectangle) *Patch {
	overlap := make(map[string]model.Rectangle, len(queries))
	for name, area := range queries {
		if region, ok := rect.Intersect(area); ok {
			overlap[name] = region
		}
	}
	return &Patch{
		ID:           id,
		Rect:         rect,
		Padded:       rect.Expand(padding, grid),
		QueryOverlap: overlap,
	}
}

// Snapshot is the read-only view of a patch's persons exchanged between
// patches. It is always handed around by value, never by mutable
// reference — see spec.md §9's "halo: pass snapshots ... not shared
// mutable references".
type Snapshot struct {
	PatchID   int
	Persons   []PersonSnapshot
}

// PersonSnapshot is the minimal halo-visible state of one person. Seed is
// included, not just the booleans derived from it, so a neighbor can
// recompute IsCoughing/IsBreathing itself via rng.Decide — those are pure
// functions of Seed and Parameters, so this reproduces exactly what the
// owning patch would have computed, without trusting a precomputed flag
// carried across the wire.
type PersonSnapshot struct {
	ID        int
	Position  model.Vector
	Infection model.InfectionState
	Seed      model.Seed
}

// TakeSnapshot captures the current state of every owned person for
// distribution to neighbors; the engine takes one before and one after
// each tick's moves.
func (p *Patch) TakeSnapshot() Snapshot {
	snaps := make([]PersonSnapshot, len(p.Owned))
	for i, owned := range p.Owned {
		snaps[i] = PersonSnapshot{
			ID:        owned.ID,
			Position:  owned.Position,
			Infection: owned.Infection,
			Seed:      owned.Seed,
		}
	}
	return Snapshot{PatchID: p.ID, Persons: snaps}
}

// HaloPersons filters a neighbor's snapshot down to the persons that
// currently lie within this patch's padded rectangle (the only ones this
// patch needs to know about).
func (p *Patch) HaloPersons(neighbor Snapshot) []PersonSnapshot {
	var visible []PersonSnapshot
	for _, ps := range neighbor.Persons {
		if p.Padded.Contains(ps.Position) {
			visible = append(visible, ps)
		}
	}
	return visible
}

// SortOwnedByID restores the id-ascending invariant the per-tick algorithm
// requires (spec.md §4.4 step 2). Migration appends out of order, so the
// scheduler calls this once per tick after migration settles.
func (p *Patch) SortOwnedByID() {
	sort.Slice(p.Owned, func(i, j int) bool { return p.Owned[i].ID < p.Owned[j].ID })
}

// PopulationCount returns the number of currently-owned persons.
func (p *Patch) PopulationCount() int {
	return len(p.Owned)
}

// LocalTick advances every owned person by exactly one tick, in
// id-ascending order, per spec.md §4.4. halo is the set of neighbor-owned
// persons visible in this patch's padded rectangle, captured before any
// patch has moved this tick — the "pre-move ghost snapshot" of §4.5.
//
// Step 1 of §4.4 captures ghost positions for every owned+halo person
// before movement; step 2 then gives each owned person a live-updating
// view of positions so later persons in the same patch see earlier
// persons' moves, exactly like the serial reference. See DESIGN.md D-3 for
// why an upfront ghost snapshot combined with a live positions view,
// each with the acting person excluded, reproduces the serial reference's
// incremental ghosts-list accumulation bit-for-bit.
//
// LocalTick never reads or writes another patch's Owned slice; halo is
// handed in by value.
func (p *Patch) LocalTick(grid model.Rectangle, obstacles []model.Rectangle, halo []PersonSnapshot, hooks validator.Hooks, tick int) {
	if hooks == nil {
		hooks = validator.NoOp{}
	}
	n := len(p.Owned)

	live := make([]model.Vector, n)
	for i, owned := range p.Owned {
		live[i] = owned.Position
	}

	ghosts := make([]model.Vector, n, n+len(halo))
	copy(ghosts, live)
	for _, h := range halo {
		ghosts = append(ghosts, h.Position)
	}

	haloPositions := make([]model.Vector, len(halo))
	for i, h := range halo {
		haloPositions[i] = h.Position
	}

	for i, owned := range p.Owned {
		hooks.OnPersonTick(tick, p.ID, owned.ID)

		positions := make([]model.Vector, 0, n-1+len(haloPositions))
		for j, v := range live {
			if j != i {
				positions = append(positions, v)
			}
		}
		positions = append(positions, haloPositions...)

		ownGhosts := make([]model.Vector, 0, len(ghosts)-1)
		for j, g := range ghosts {
			if j != i {
				ownGhosts = append(ownGhosts, g)
			}
		}

		owned.Tick(person.Environment{
			Grid:      grid,
			Obstacles: obstacles,
			Positions: positions,
			Ghosts:    ownGhosts,
		})
		live[i] = owned.Position
	}
}

// ResolveInfections applies pairwise infection resolution for every
// unordered (owned, owned) and (owned, halo) pair, per spec.md §4.4 step 3.
// (halo, halo) pairs belong to another patch and are resolved there.
//
// Halo persons are read-only: infection is applied only to p.Owned[*], via
// person.InfectPairwise with a throwaway halo-side Person rebuilt from the
// snapshot's position, infection state, and seed. Owned persons can still
// infect a halo susceptible; that infection lands when the owning patch
// later applies its own halo-derived resolution against the same
// encounter from its side, so the transition is not lost, only deferred
// to the owner.
func (p *Patch) ResolveInfections(halo []PersonSnapshot, infectionRadius int) {
	for i := range p.Owned {
		for j := i + 1; j < len(p.Owned); j++ {
			person.InfectPairwise(p.Owned[i], p.Owned[j], infectionRadius)
		}
	}
	for _, owned := range p.Owned {
		for _, h := range halo {
			shadow := person.NewFromInfo(h.ID, model.PersonInfo{
				Position:  h.Position,
				Infection: h.Infection,
				Seed:      h.Seed,
			}, owned.Params)
			person.InfectPairwise(owned, shadow, infectionRadius)
		}
	}
}
