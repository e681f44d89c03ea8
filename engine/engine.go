// Package engine implements the concurrent patch-parallel tick coordinator
// ("rocket", spec.md §4.8) and its serial-equivalence "starship" sibling
// mode. The scheduler partitions a Scenario into patches, runs each
// patch's local tick on its own goroutine behind a per-tick barrier,
// exchanges halo snapshots, migrates persons that cross patch boundaries,
// and aggregates statistics and trace — all so that the observable Output
// is bit-identical to serial.Run for the same scenario, apart from the
// per-run RunID.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"

	"spreadsim/model"
	"spreadsim/patch"
	"spreadsim/person"
	"spreadsim/propagation"
	"spreadsim/telemetry"
	"spreadsim/validator"
)

// Mode selects which engine topology runs a scenario. Both modes produce
// bit-identical Output for the same scenario apart from RunID (spec.md §8,
// "Parity"); they differ only in how the work is scheduled.
type Mode int

const (
	// ModeRocket runs every patch's local tick concurrently, one goroutine
	// per patch, synchronized at a per-tick barrier.
	ModeRocket Mode = iota
	// ModeStarship runs the same patch decomposition, but pins every
	// patch's worker to tick in strict patch-id order within the barrier.
	// It exists to isolate scheduling-order bugs from the padded-halo
	// protocol itself: if starship and rocket ever disagree, the bug is in
	// concurrency, not in the halo math.
	ModeStarship
)

// InsufficientPaddingError is returned when the configured padding cannot
// guarantee correct collision and infection resolution for the scenario's
// infection radius (spec.md §4.5).
type InsufficientPaddingError struct {
	Padding  int
	Required int
}

func (e *InsufficientPaddingError) Error() string {
	return fmt.Sprintf("padding %d is insufficient, need at least %d", e.Padding, e.Required)
}

// DuplicatePositionError reports the invariant violation of spec.md §7: two
// owned persons occupying the same cell at a barrier start. It indicates a
// bug in the halo/migration protocol or a malformed scenario, never a
// recoverable condition.
type DuplicatePositionError struct {
	PersonA, PersonB int
	Position         model.Vector
}

func (e *DuplicatePositionError) Error() string {
	return fmt.Sprintf("persons %d and %d both occupy %v", e.PersonA, e.PersonB, e.Position)
}

// Option configures optional Run behavior.
type Option func(*runOptions)

type runOptions struct {
	metrics *telemetry.Metrics
}

// WithMetrics has Run report tick, patch, migration, and infection counts
// to m as it runs. Safe to omit; a nil metrics pointer records nothing.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *runOptions) { o.metrics = m }
}

// Run partitions scenario, validates padding, and drives the simulation to
// completion under mode. hooks may be nil.
func Run(ctx context.Context, scenario model.Scenario, padding int, mode Mode, hooks validator.Hooks, opts ...Option) (out model.Output, err error) {
	if hooks == nil {
		hooks = validator.NoOp{}
	}
	var options runOptions
	for _, opt := range opts {
		opt(&options)
	}
	required := scenario.Parameters.MinPadding()
	if padding < required {
		return model.Output{}, errors.WithStack(&InsufficientPaddingError{Padding: padding, Required: required})
	}
	if err := scenario.Partition.Validate(); err != nil {
		return model.Output{}, errors.Wrap(err, "invalid partition")
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("engine: patch worker panicked: %v", r)
		}
	}()

	grid := scenario.Grid()
	rects := scenario.Partition.Rectangles(grid)
	patches := make([]*patch.Patch, len(rects))
	for i, r := range rects {
		patches[i] = patch.New(i, r, grid, padding, scenario.Queries)
	}
	wireNeighbors(patches, propagation.Analyze(grid, scenario.Obstacles, scenario.Parameters.InfectionRadius))
	seedPopulation(patches, grid, scenario)
	if dupErr := checkNoCollisions(patches); dupErr != nil {
		return model.Output{}, errors.WithStack(dupErr)
	}

	out = model.Output{
		RunID:    ksuid.New().String(),
		Scenario: scenario,
		Stats:    make(map[string][]model.Statistics, len(scenario.Queries)),
	}
	extendOutput(&out, scenario, patches)

	for tick := 1; tick <= scenario.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return out, errors.Wrap(err, "engine: run cancelled")
		}
		if dupErr := checkNoCollisions(patches); dupErr != nil {
			return out, errors.WithStack(dupErr)
		}

		before := countInfected(patches)

		preMove := takeSnapshots(patches)
		if err := runTickBarrier(ctx, patches, grid, scenario.Obstacles, preMove, hooks, tick, mode, options.metrics); err != nil {
			return out, err
		}
		resolveCrossPatchMovementConflicts(patches, preMove)

		postMove := takeSnapshots(patches)
		resolveCrossPatchInfections(patches, postMove, scenario.Parameters.InfectionRadius)
		moved := migrate(patches, grid)

		if options.metrics != nil {
			if newly := countInfected(patches) - before; newly > 0 {
				options.metrics.Infections.Add(float64(newly))
			}
		}

		extendOutput(&out, scenario, patches)

		if options.metrics != nil {
			options.metrics.TicksCompleted.Inc()
			options.metrics.Migrations.Add(float64(moved))
		}
	}

	return out, nil
}

func wireNeighbors(patches []*patch.Patch, adjacency *propagation.AdjacencyMatrix) {
	for _, a := range patches {
		for _, b := range patches {
			if a.ID == b.ID {
				continue
			}
			if adjacency.CanReach(a.Padded, b.Rect) {
				a.NeighborIDs = append(a.NeighborIDs, b.ID)
			}
		}
	}
}

func seedPopulation(patches []*patch.Patch, grid model.Rectangle, scenario model.Scenario) {
	for id, info := range scenario.Population {
		p := person.NewFromInfo(id, info, &scenario.Parameters)
		for _, owner := range patches {
			if owner.Rect.Contains(p.Position) {
				owner.Owned = append(owner.Owned, p)
				break
			}
		}
	}
	for _, owner := range patches {
		owner.SortOwnedByID()
	}
}

// checkNoCollisions enforces the spec.md §7 invariant that no two owned
// persons occupy the same cell at a barrier start. Patches partition the
// grid into disjoint rectangles, so any duplicate can only ever arise
// within a single patch's Owned slice; a global scan still catches it
// regardless of which patch the offending pair ended up in.
func checkNoCollisions(patches []*patch.Patch) error {
	seen := make(map[model.Vector]int)
	for _, p := range patches {
		for _, owned := range p.Owned {
			if other, ok := seen[owned.Position]; ok {
				return &DuplicatePositionError{PersonA: other, PersonB: owned.ID, Position: owned.Position}
			}
			seen[owned.Position] = owned.ID
		}
	}
	return nil
}

func takeSnapshots(patches []*patch.Patch) map[int]patch.Snapshot {
	snapshots := make(map[int]patch.Snapshot, len(patches))
	for _, p := range patches {
		snapshots[p.ID] = p.TakeSnapshot()
	}
	return snapshots
}

// countInfected counts persons who have ever left the Susceptible state,
// used to derive the number of new infections caused by one tick.
func countInfected(patches []*patch.Patch) int {
	n := 0
	for _, p := range patches {
		for _, owned := range p.Owned {
			if owned.Infection.Status != model.Susceptible {
				n++
			}
		}
	}
	return n
}

func haloFor(p *patch.Patch, snapshots map[int]patch.Snapshot) []patch.PersonSnapshot {
	var halo []patch.PersonSnapshot
	for _, neighborID := range p.NeighborIDs {
		halo = append(halo, p.HaloPersons(snapshots[neighborID])...)
	}
	return halo
}

// runTickBarrier runs every patch's LocalTick for one tick and waits for
// all of them before returning, implementing the per-tick barrier of
// spec.md §4.8. ModeStarship runs the same work sequentially in patch-id
// order instead of concurrently; everything else about the tick is
// identical between the two modes.
func runTickBarrier(ctx context.Context, patches []*patch.Patch, grid model.Rectangle, obstacles []model.Rectangle, preMove map[int]patch.Snapshot, hooks validator.Hooks, tick int, mode Mode, metrics *telemetry.Metrics) error {
	tickOne := func(p *patch.Patch) {
		hooks.OnPatchTick(tick, p.ID)
		start := time.Now()
		p.LocalTick(grid, obstacles, haloFor(p, preMove), hooks, tick)
		if metrics != nil {
			metrics.PatchTickLatency.Observe(time.Since(start).Seconds())
		}
	}

	if mode == ModeStarship {
		for _, p := range patches {
			tickOne(p)
		}
		return nil
	}

	if metrics != nil {
		metrics.ActivePatches.Set(float64(len(patches)))
		defer metrics.ActivePatches.Set(0)
	}
	group, _ := errgroup.WithContext(ctx)
	for _, p := range patches {
		p := p
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("engine: patch worker panicked: %v", r)
				}
			}()
			tickOne(p)
			return nil
		})
	}
	return group.Wait()
}

// resolveCrossPatchMovementConflicts closes the gap LocalTick cannot see on
// its own: a patch only has the neighbor's pre-move halo (preMove), so two
// owned persons in different patches whose candidate moves land on the same
// cell this tick both appear to succeed locally. This is the second halo
// exchange of spec.md §4.5 ("(2) post-move positions"), applied as a
// movement tie-break rather than just an infection re-check.
//
// Within a single patch, LocalTick's live-updating positions view already
// gives the serial reference's id-ascending outcome, so only movers (owned
// persons whose position changed this tick) are candidates for correction,
// and only against movers owned by other patches; a mover that collided with
// anyone's pre-move cell was already bumped locally, since every pre-move
// position is visible via ghosts (preMove) regardless of which patch owns
// it, given MinPadding.
//
// Resolution mirrors serial.Run exactly: across the whole population, in
// id-ascending order, the first mover to reach a cell keeps it; every later
// mover contesting that same cell reverts to its own pre-move position with
// Direction set to None. Because a reverted person's pre-move cell was
// already ghost-blocked for everyone this tick, undoing a move can never
// open up a cell another person's move newly depends on, so one pass in id
// order is sufficient — no iteration to a fixed point is needed.
func resolveCrossPatchMovementConflicts(patches []*patch.Patch, preMove map[int]patch.Snapshot) {
	prePosition := make(map[int]model.Vector)
	for _, snap := range preMove {
		for _, ps := range snap.Persons {
			prePosition[ps.ID] = ps.Position
		}
	}

	var movers []*person.Person
	for _, p := range patches {
		for _, owned := range p.Owned {
			if pre, ok := prePosition[owned.ID]; ok && owned.Position != pre {
				movers = append(movers, owned)
			}
		}
	}
	sort.Slice(movers, func(i, j int) bool { return movers[i].ID < movers[j].ID })

	committed := make(map[model.Vector]bool, len(movers))
	for _, m := range movers {
		if committed[m.Position] {
			m.Position = prePosition[m.ID]
			m.Direction = model.None
			continue
		}
		committed[m.Position] = true
	}
}

// resolveCrossPatchInfections applies each patch's own-pair resolution
// plus its resolution against halo persons captured from postMove, the
// post-movement snapshot exchange of spec.md §4.5 step 2.
func resolveCrossPatchInfections(patches []*patch.Patch, postMove map[int]patch.Snapshot, infectionRadius int) {
	for _, p := range patches {
		p.ResolveInfections(haloFor(p, postMove), infectionRadius)
	}
}

// migrate moves any owned person whose position has left its owning
// patch's rectangle into the patch that now contains it (spec.md §4.6),
// then restores id-ascending order in every affected patch. It returns
// the number of persons migrated.
func migrate(patches []*patch.Patch, grid model.Rectangle) int {
	touched := make(map[int]bool)
	moved := 0
	for _, owner := range patches {
		var stay []*person.Person
		for _, p := range owner.Owned {
			if owner.Rect.Contains(p.Position) {
				stay = append(stay, p)
				continue
			}
			for _, dest := range patches {
				if dest.ID != owner.ID && dest.Rect.Contains(p.Position) {
					dest.Owned = append(dest.Owned, p)
					touched[dest.ID] = true
					moved++
					break
				}
			}
		}
		owner.Owned = stay
	}
	for _, owner := range patches {
		if touched[owner.ID] {
			owner.SortOwnedByID()
		}
	}
	return moved
}

func extendOutput(out *model.Output, scenario model.Scenario, patches []*patch.Patch) {
	if scenario.Trace {
		infos := make([]model.PersonInfo, len(scenario.Population))
		for _, p := range patches {
			for _, owned := range p.Owned {
				infos[owned.ID] = owned.Info()
			}
		}
		out.Trace = append(out.Trace, model.TraceEntry{Population: infos})
	}
	for name := range scenario.Queries {
		var tally model.Statistics
		for _, p := range patches {
			region, ok := p.QueryOverlap[name]
			if !ok {
				continue
			}
			for _, owned := range p.Owned {
				if region.Contains(owned.Position) {
					tally = tally.Tally(owned.Infection.Status)
				}
			}
		}
		out.Stats[name] = append(out.Stats[name], tally)
	}
}
