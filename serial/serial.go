// Package serial implements the deterministic single-threaded reference
// engine ("slug") that spec.md §1 defines as ground truth: the concurrent
// engine's output must be bit-identical to this package's output for every
// scenario. It is also a standalone engine mode in its own right — see
// SPEC_FULL.md D.1 — not merely a test oracle.
package serial

import (
	"github.com/segmentio/ksuid"

	"spreadsim/model"
	"spreadsim/person"
	"spreadsim/validator"
)

// Run executes every tick of scenario on a single goroutine and returns
// the accumulated Output. hooks may be nil.
//
// Each tick processes the whole population once, in id-ascending order.
// A ghost snapshot of every person's pre-move position is captured before
// any person moves; a live positions view is updated immediately after
// each person's move so later persons in the pass see earlier moves. Both
// exclude the acting person. This reproduces, cell for cell, what the
// reference simulator's incrementally-grown ghosts list and in-place
// positions array produce — see DESIGN.md D-3.
func Run(scenario model.Scenario, hooks validator.Hooks) model.Output {
	if hooks == nil {
		hooks = validator.NoOp{}
	}

	population := make([]*person.Person, len(scenario.Population))
	for i, info := range scenario.Population {
		population[i] = person.NewFromInfo(i, info, &scenario.Parameters)
	}

	grid := scenario.Grid()
	out := model.Output{
		RunID:    ksuid.New().String(),
		Scenario: scenario,
		Stats:    make(map[string][]model.Statistics, len(scenario.Queries)),
	}

	extend(&out, scenario, population)

	for tick := 1; tick <= scenario.Ticks; tick++ {
		hooks.OnPatchTick(tick, 0)
		runTick(tick, grid, scenario.Obstacles, population, hooks)
		resolveInfections(population, scenario.Parameters.InfectionRadius)
		extend(&out, scenario, population)
	}

	return out
}

func runTick(tick int, grid model.Rectangle, obstacles []model.Rectangle, population []*person.Person, hooks validator.Hooks) {
	n := len(population)
	live := make([]model.Vector, n)
	for i, p := range population {
		live[i] = p.Position
	}
	ghosts := make([]model.Vector, n)
	copy(ghosts, live)

	for i, p := range population {
		hooks.OnPersonTick(tick, 0, p.ID)

		positions := make([]model.Vector, 0, n-1)
		for j, v := range live {
			if j != i {
				positions = append(positions, v)
			}
		}
		ownGhosts := make([]model.Vector, 0, n-1)
		for j, g := range ghosts {
			if j != i {
				ownGhosts = append(ownGhosts, g)
			}
		}

		p.Tick(person.Environment{Grid: grid, Obstacles: obstacles, Positions: positions, Ghosts: ownGhosts})
		live[i] = p.Position
	}
}

func resolveInfections(population []*person.Person, infectionRadius int) {
	for i := range population {
		for j := i + 1; j < len(population); j++ {
			person.InfectPairwise(population[i], population[j], infectionRadius)
		}
	}
}

func extend(out *model.Output, scenario model.Scenario, population []*person.Person) {
	if scenario.Trace {
		infos := make([]model.PersonInfo, len(population))
		for i, p := range population {
			infos[i] = p.Info()
		}
		out.Trace = append(out.Trace, model.TraceEntry{Population: infos})
	}
	for name, area := range scenario.Queries {
		var tally model.Statistics
		for _, p := range population {
			if area.Contains(p.Position) {
				tally = tally.Tally(p.Infection.Status)
			}
		}
		out.Stats[name] = append(out.Stats[name], tally)
	}
}
