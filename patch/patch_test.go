package patch

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"spreadsim/model"
	"spreadsim/person"
)

func baseParams() *model.Parameters {
	return &model.Parameters{
		CoughThreshold:      256,
		BreathThreshold:     256,
		AccelerationDivisor: 0, // isolate movement from RNG-driven acceleration
		RecoveryTime:        3,
		InfectionRadius:     1,
		IncubationTime:      2,
	}
}

func TestNewComputesPaddedRectangleAndQueryOverlap(t *testing.T) {
	Convey("Given a 10x10 grid cut into a left half patch, padding 2", t, func() {
		grid := model.NewRectangle(model.Vector{}, model.Vector{X: 10, Y: 10})
		rect := model.NewRectangle(model.Vector{}, model.Vector{X: 5, Y: 10})
		queries := map[string]model.Rectangle{
			"all":  grid,
			"none": model.NewRectangle(model.Vector{X: 8, Y: 8}, model.Vector{X: 1, Y: 1}),
		}

		Convey("Padded clips to the grid and QueryOverlap only keeps intersecting queries", func() {
			p := New(0, rect, grid, 2, queries)
			So(p.Padded, ShouldResemble, model.NewRectangle(model.Vector{}, model.Vector{X: 7, Y: 10}))
			So(p.QueryOverlap["all"], ShouldResemble, rect)
			So(p.QueryOverlap, ShouldNotContainKey, "none")
		})
	})
}

func TestHaloPersonsFiltersToPaddedRectangle(t *testing.T) {
	Convey("Given a patch with a padded rectangle [0,7)x[0,10)", t, func() {
		grid := model.NewRectangle(model.Vector{}, model.Vector{X: 10, Y: 10})
		rect := model.NewRectangle(model.Vector{}, model.Vector{X: 5, Y: 10})
		p := New(0, rect, grid, 2, nil)

		neighbor := Snapshot{
			PatchID: 1,
			Persons: []PersonSnapshot{
				{ID: 5, Position: model.Vector{X: 6, Y: 3}},  // inside the halo
				{ID: 6, Position: model.Vector{X: 9, Y: 3}},  // outside the halo
			},
		}

		Convey("Only the in-halo person is visible", func() {
			visible := p.HaloPersons(neighbor)
			So(visible, ShouldHaveLength, 1)
			So(visible[0].ID, ShouldEqual, 5)
		})
	})
}

func TestLocalTickGivesLaterOwnedPersonsTheEarlierOnesMoves(t *testing.T) {
	Convey("Given two owned persons in id order, the second heading for the cell the first moves into", t, func() {
		grid := model.NewRectangle(model.Vector{}, model.Vector{X: 10, Y: 10})
		params := baseParams()
		a := person.NewFromInfo(0, model.PersonInfo{Position: model.Vector{X: 1, Y: 1}, Direction: model.Southeast}, params)
		b := person.NewFromInfo(1, model.PersonInfo{Position: model.Vector{X: 3, Y: 2}, Direction: model.West}, params)
		p := &Patch{ID: 0, Rect: grid, Owned: []*person.Person{a, b}}

		Convey("The first moves, and the second sees its new position and bumps", func() {
			p.LocalTick(grid, nil, nil, nil, 1)
			So(a.Position, ShouldResemble, model.Vector{X: 2, Y: 2})
			So(b.Position, ShouldResemble, model.Vector{X: 3, Y: 2})
		})
	})
}

func TestLocalTickBlocksSwapViaGhosts(t *testing.T) {
	Convey("Given two owned persons facing each other", t, func() {
		grid := model.NewRectangle(model.Vector{}, model.Vector{X: 10, Y: 10})
		params := baseParams()
		a := person.NewFromInfo(0, model.PersonInfo{Position: model.Vector{X: 4, Y: 5}, Direction: model.East}, params)
		b := person.NewFromInfo(1, model.PersonInfo{Position: model.Vector{X: 5, Y: 5}, Direction: model.West}, params)
		p := &Patch{ID: 0, Rect: grid, Owned: []*person.Person{a, b}}

		Convey("Neither moves, the ghost of the other's pre-move position blocks both", func() {
			p.LocalTick(grid, nil, nil, nil, 1)
			So(a.Position, ShouldResemble, model.Vector{X: 4, Y: 5})
			So(b.Position, ShouldResemble, model.Vector{X: 5, Y: 5})
		})
	})
}

func TestLocalTickRespectsHaloGhosts(t *testing.T) {
	Convey("Given an owned person heading toward a halo person's position", t, func() {
		grid := model.NewRectangle(model.Vector{}, model.Vector{X: 10, Y: 10})
		params := baseParams()
		a := person.NewFromInfo(0, model.PersonInfo{Position: model.Vector{X: 4, Y: 5}, Direction: model.East}, params)
		p := &Patch{ID: 0, Rect: grid, Owned: []*person.Person{a}}
		halo := []PersonSnapshot{{ID: 9, Position: model.Vector{X: 5, Y: 5}}}

		Convey("The owned person bumps against the halo ghost", func() {
			p.LocalTick(grid, nil, halo, nil, 1)
			So(a.Position, ShouldResemble, model.Vector{X: 4, Y: 5})
			So(a.Direction, ShouldEqual, model.None)
		})
	})
}

func TestResolveInfectionsCrossesIntoHalo(t *testing.T) {
	Convey("Given an owned infectious cougher next to a halo susceptible breather", t, func() {
		params := &model.Parameters{CoughThreshold: 256, BreathThreshold: 256, InfectionRadius: 1}
		a := person.NewFromInfo(0, model.PersonInfo{
			Position:  model.Vector{X: 9, Y: 5},
			Infection: model.InfectionState{Status: model.Infectious},
		}, params)
		p := &Patch{ID: 0, Owned: []*person.Person{a}}
		halo := []PersonSnapshot{{ID: 9, Position: model.Vector{X: 10, Y: 5}, Infection: model.InfectionState{Status: model.Susceptible}}}

		Convey("ResolveInfections does not panic and leaves the owned person's own state untouched", func() {
			So(func() { p.ResolveInfections(halo, params.InfectionRadius) }, ShouldNotPanic)
			So(a.Infection.Status, ShouldEqual, model.Infectious)
		})
	})
}

func TestSortOwnedByIDRestoresOrder(t *testing.T) {
	Convey("Given owned persons appended out of id order by migration", t, func() {
		params := baseParams()
		p := &Patch{Owned: []*person.Person{
			person.NewFromInfo(2, model.PersonInfo{}, params),
			person.NewFromInfo(0, model.PersonInfo{}, params),
			person.NewFromInfo(1, model.PersonInfo{}, params),
		}}

		Convey("SortOwnedByID restores ascending id order", func() {
			p.SortOwnedByID()
			So(p.Owned[0].ID, ShouldEqual, 0)
			So(p.Owned[1].ID, ShouldEqual, 1)
			So(p.Owned[2].ID, ShouldEqual, 2)
		})
	})
}
