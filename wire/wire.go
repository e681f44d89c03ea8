// Package wire implements the JSON scenario/output file format of
// spec.md §6. It exists entirely outside the simulation core: the core
// only ever sees model.Scenario/model.Output, never JSON. Translating
// between the two is the I/O layer's job, and failures here are
// "malformed scenario / output" errors (spec.md §7), not invariant
// violations.
package wire

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"spreadsim/model"
)

type vector struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type rectangle struct {
	TopLeft vector `json:"topLeft"`
	Size    vector `json:"size"`
}

type area struct {
	Area rectangle `json:"area"`
}

type parameters struct {
	CoughThreshold      int `json:"coughThreshold"`
	BreathThreshold     int `json:"breathThreshold"`
	AccelerationDivisor int `json:"accelerationDivisor"`
	RecoveryTime        int `json:"recoveryTime"`
	InfectionRadius     int `json:"infectionRadius"`
	IncubationTime      int `json:"incubationTime"`
}

type infectionState struct {
	Type  string `json:"type"`
	Since int    `json:"since,omitempty"`
}

type personInfo struct {
	Name           string         `json:"name"`
	Pos            vector         `json:"pos"`
	RngState       string         `json:"rngState"`
	InfectionState infectionState `json:"infectionState"`
	Direction      string         `json:"direction"`
}

// Scenario is the on-disk scenario file schema.
type Scenario struct {
	Name       string                `json:"name"`
	Parameters parameters            `json:"parameters"`
	Ticks      int                   `json:"ticks"`
	GridSize   vector                `json:"gridSize"`
	Trace      bool                  `json:"trace"`
	Partition  struct {
		X []int `json:"x"`
		Y []int `json:"y"`
	} `json:"partition"`
	Obstacles   []rectangle           `json:"obstacles"`
	StatQueries map[string]area       `json:"statQueries"`
	Population  []personInfo          `json:"population"`
}

// Statistics is the on-disk per-tick tally.
type Statistics struct {
	Susceptible int `json:"susceptible"`
	Infected    int `json:"infected"`
	Infectious  int `json:"infectious"`
	Recovered   int `json:"recovered"`
}

// TraceEntry is one tick's population snapshot, on disk.
type TraceEntry struct {
	Population []personInfo `json:"population"`
}

// Output is the on-disk output file schema.
type Output struct {
	Scenario Scenario                `json:"scenario"`
	Trace    []TraceEntry            `json:"trace,omitempty"`
	Stats    map[string][]Statistics `json:"stats"`
}

// ParseScenario decodes a scenario file and converts it to the core's
// model.Scenario, or returns a wrapped decode/validation error.
func ParseScenario(data []byte) (model.Scenario, error) {
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Scenario{}, errors.Wrap(err, "wire: decoding scenario")
	}
	return s.toModel()
}

func (s Scenario) toModel() (model.Scenario, error) {
	obstacles := make([]model.Rectangle, len(s.Obstacles))
	for i, o := range s.Obstacles {
		obstacles[i] = o.toModel()
	}

	queries := make(map[string]model.Rectangle, len(s.StatQueries))
	for name, a := range s.StatQueries {
		queries[name] = a.Area.toModel()
	}

	population := make([]model.PersonInfo, len(s.Population))
	for i, p := range s.Population {
		info, err := p.toModel()
		if err != nil {
			return model.Scenario{}, errors.Wrapf(err, "wire: population[%d]", i)
		}
		population[i] = info
	}

	return model.Scenario{
		Name: s.Name,
		Parameters: model.Parameters{
			CoughThreshold:      s.Parameters.CoughThreshold,
			BreathThreshold:     s.Parameters.BreathThreshold,
			AccelerationDivisor: s.Parameters.AccelerationDivisor,
			RecoveryTime:        s.Parameters.RecoveryTime,
			InfectionRadius:     s.Parameters.InfectionRadius,
			IncubationTime:      s.Parameters.IncubationTime,
		},
		Ticks:      s.Ticks,
		GridSize:   s.GridSize.toModel(),
		Trace:      s.Trace,
		Partition:  model.Partition{X: s.Partition.X, Y: s.Partition.Y},
		Obstacles:  obstacles,
		Queries:    queries,
		Population: population,
	}, nil
}

func (v vector) toModel() model.Vector { return model.Vector{X: v.X, Y: v.Y} }

func fromVector(v model.Vector) vector { return vector{X: v.X, Y: v.Y} }

func (r rectangle) toModel() model.Rectangle {
	return model.NewRectangle(r.TopLeft.toModel(), r.Size.toModel())
}

func fromRectangle(r model.Rectangle) rectangle {
	return rectangle{TopLeft: fromVector(r.TopLeft), Size: fromVector(r.Size)}
}

func (p personInfo) toModel() (model.PersonInfo, error) {
	seed, err := decodeSeed(p.RngState)
	if err != nil {
		return model.PersonInfo{}, err
	}
	return model.PersonInfo{
		Name:     p.Name,
		Position: p.Pos.toModel(),
		Seed:     seed,
		Infection: model.InfectionState{
			Status:       model.ParseInfectionStatus(p.InfectionState.Type),
			InStateSince: p.InfectionState.Since,
		},
		Direction: model.ParseDirection(p.Direction),
	}, nil
}

func fromPersonInfo(p model.PersonInfo) personInfo {
	return personInfo{
		Name:     p.Name,
		Pos:      fromVector(p.Position),
		RngState: encodeSeed(p.Seed),
		InfectionState: infectionState{
			Type:  p.Infection.Status.String(),
			Since: p.Infection.InStateSince,
		},
		Direction: p.Direction.String(),
	}
}

func decodeSeed(s string) (model.Seed, error) {
	var seed model.Seed
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return seed, errors.Wrap(err, "wire: decoding rngState")
	}
	if len(raw) != len(seed) {
		return seed, fmt.Errorf("wire: rngState must be %d bytes, got %d", len(seed), len(raw))
	}
	copy(seed[:], raw)
	return seed, nil
}

func encodeSeed(seed model.Seed) string {
	return base64.StdEncoding.EncodeToString(seed[:])
}

// RenderOutput converts a core model.Output to its on-disk JSON form.
func RenderOutput(out model.Output) ([]byte, error) {
	wireOut := Output{
		Scenario: fromScenario(out.Scenario),
		Stats:    make(map[string][]Statistics, len(out.Stats)),
	}
	for _, entry := range out.Trace {
		population := make([]personInfo, len(entry.Population))
		for i, p := range entry.Population {
			population[i] = fromPersonInfo(p)
		}
		wireOut.Trace = append(wireOut.Trace, TraceEntry{Population: population})
	}
	for name, series := range out.Stats {
		stats := make([]Statistics, len(series))
		for i, s := range series {
			stats[i] = Statistics{
				Susceptible: s.Susceptible,
				Infected:    s.Infected,
				Infectious:  s.Infectious,
				Recovered:   s.Recovered,
			}
		}
		wireOut.Stats[name] = stats
	}

	data, err := json.MarshalIndent(wireOut, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "wire: encoding output")
	}
	return data, nil
}

func fromScenario(s model.Scenario) Scenario {
	obstacles := make([]rectangle, len(s.Obstacles))
	for i, o := range s.Obstacles {
		obstacles[i] = fromRectangle(o)
	}
	queries := make(map[string]area, len(s.Queries))
	for name, r := range s.Queries {
		queries[name] = area{Area: fromRectangle(r)}
	}
	population := make([]personInfo, len(s.Population))
	for i, p := range s.Population {
		population[i] = fromPersonInfo(p)
	}

	out := Scenario{
		Name: s.Name,
		Parameters: parameters{
			CoughThreshold:      s.Parameters.CoughThreshold,
			BreathThreshold:     s.Parameters.BreathThreshold,
			AccelerationDivisor: s.Parameters.AccelerationDivisor,
			RecoveryTime:        s.Parameters.RecoveryTime,
			InfectionRadius:     s.Parameters.InfectionRadius,
			IncubationTime:      s.Parameters.IncubationTime,
		},
		Ticks:       s.Ticks,
		GridSize:    fromVector(s.GridSize),
		Trace:       s.Trace,
		Obstacles:   obstacles,
		StatQueries: queries,
		Population:  population,
	}
	out.Partition.X = s.Partition.X
	out.Partition.Y = s.Partition.Y
	return out
}
