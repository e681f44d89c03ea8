// Package testfixtures builds the literal end-to-end scenarios named in
// spec.md §8. The serial, patch, and engine test suites do not import it;
// they build their own scenarios.
package testfixtures

import "spreadsim/model"

func params() model.Parameters {
	return model.Parameters{
		CoughThreshold:      128,
		BreathThreshold:     128,
		AccelerationDivisor: 32,
		RecoveryTime:        3,
		InfectionRadius:     1,
		IncubationTime:      2,
	}
}

func allQuery(grid model.Vector) map[string]model.Rectangle {
	return map[string]model.Rectangle{"all": model.NewRectangle(model.Vector{}, grid)}
}

// EmptyWorld is scenario 1: a 10x10 grid, no obstacles, no population, 5
// ticks, one query covering the whole grid.
func EmptyWorld() model.Scenario {
	grid := model.Vector{X: 10, Y: 10}
	return model.Scenario{
		Name:       "empty-world",
		Parameters: params(),
		Ticks:      5,
		GridSize:   grid,
		Queries:    allQuery(grid),
	}
}

// OneStationarySusceptible is scenario 2: a single susceptible person with
// an all-zero seed and no facing direction, run for 3 ticks.
func OneStationarySusceptible() model.Scenario {
	grid := model.Vector{X: 10, Y: 10}
	return model.Scenario{
		Name:       "one-stationary-susceptible",
		Parameters: params(),
		Ticks:      3,
		GridSize:   grid,
		Trace:      true,
		Queries:    allQuery(grid),
		Population: []model.PersonInfo{
			{
				Name:      "Alice",
				Position:  model.Vector{X: 5, Y: 5},
				Direction: model.None,
				Infection: model.InfectionState{Status: model.Susceptible},
			},
		},
	}
}

// Incubation is scenario 3: one Infected person at the origin, with
// incubationTime=2 and recoveryTime=3, run long enough to observe the full
// Infected -> Infectious -> Recovered timeline.
func Incubation() model.Scenario {
	grid := model.Vector{X: 10, Y: 10}
	p := params()
	p.IncubationTime = 2
	p.RecoveryTime = 3
	return model.Scenario{
		Name:       "incubation",
		Parameters: p,
		Ticks:      5,
		GridSize:   grid,
		Trace:      true,
		Queries:    allQuery(grid),
		Population: []model.PersonInfo{
			{
				Name:      "Patient Zero",
				Position:  model.Vector{},
				Direction: model.None,
				Infection: model.InfectionState{Status: model.Infected},
			},
		},
	}
}

// DirectInfectionAtRadiusOne is scenario 4: an Infectious, always-coughing
// person adjacent to a Susceptible, always-breathing person, infection
// radius 1.
func DirectInfectionAtRadiusOne() model.Scenario {
	grid := model.Vector{X: 10, Y: 10}
	p := params()
	p.CoughThreshold = 256
	p.BreathThreshold = 256
	p.InfectionRadius = 1
	return model.Scenario{
		Name:       "direct-infection-at-radius-one",
		Parameters: p,
		Ticks:      1,
		GridSize:   grid,
		Trace:      true,
		Queries:    allQuery(grid),
		Population: []model.PersonInfo{
			{
				Name:      "cougher",
				Position:  model.Vector{X: 0, Y: 0},
				Direction: model.None,
				Infection: model.InfectionState{Status: model.Infectious},
			},
			{
				Name:      "breather",
				Position:  model.Vector{X: 1, Y: 0},
				Direction: model.None,
				Infection: model.InfectionState{Status: model.Susceptible},
			},
		},
	}
}

// SwapPrevention is scenario 5: two adjacent persons facing each other with
// no acceleration; the ghost mechanism must bump both rather than letting
// them swap cells.
func SwapPrevention() model.Scenario {
	grid := model.Vector{X: 10, Y: 10}
	p := params()
	p.AccelerationDivisor = 0
	return model.Scenario{
		Name:       "swap-prevention",
		Parameters: p,
		Ticks:      1,
		GridSize:   grid,
		Trace:      true,
		Queries:    allQuery(grid),
		Population: []model.PersonInfo{
			{
				Name:      "left",
				Position:  model.Vector{X: 4, Y: 5},
				Direction: model.East,
				Infection: model.InfectionState{Status: model.Susceptible},
			},
			{
				Name:      "right",
				Position:  model.Vector{X: 5, Y: 5},
				Direction: model.West,
				Infection: model.InfectionState{Status: model.Susceptible},
			},
		},
	}
}

// TwoPatchHalo is scenario 6: a 20x10 grid cut at x=10 into two patches,
// with an Infectious cougher just inside the left patch and a Susceptible
// breather just inside the right patch, one cell apart across the cut.
func TwoPatchHalo() model.Scenario {
	grid := model.Vector{X: 20, Y: 10}
	p := params()
	p.CoughThreshold = 256
	p.BreathThreshold = 256
	p.InfectionRadius = 1
	return model.Scenario{
		Name:       "two-patch-halo",
		Parameters: p,
		Ticks:      1,
		GridSize:   grid,
		Trace:      true,
		Partition:  model.Partition{X: []int{10}},
		Queries:    allQuery(grid),
		Population: []model.PersonInfo{
			{
				Name:      "cougher",
				Position:  model.Vector{X: 9, Y: 5},
				Direction: model.None,
				Infection: model.InfectionState{Status: model.Infectious},
			},
			{
				Name:      "breather",
				Position:  model.Vector{X: 10, Y: 5},
				Direction: model.None,
				Infection: model.InfectionState{Status: model.Susceptible},
			},
		},
	}
}

// MinPadding returns the TwoPatchHalo scenario's required padding, per
// spec.md §4.5 (infection_radius + 1).
func MinPadding() int {
	return TwoPatchHalo().Parameters.MinPadding()
}
