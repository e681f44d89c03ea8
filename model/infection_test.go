package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInfectionStateTransitions(t *testing.T) {
	Convey("Given a susceptible person", t, func() {
		s := InfectionState{Status: Susceptible}

		Convey("Infect() transitions them to Infected with dwell 0", func() {
			s.Infect()
			So(s.Status, ShouldEqual, Infected)
			So(s.InStateSince, ShouldEqual, 0)
		})

		Convey("AdvanceDwell never transitions a Susceptible person", func() {
			s.InStateSince = 100
			changed := s.AdvanceDwell(2, 3)
			So(changed, ShouldBeFalse)
			So(s.Status, ShouldEqual, Susceptible)
		})
	})

	Convey("Given an Infected person below the incubation threshold", t, func() {
		s := InfectionState{Status: Infected, InStateSince: 1}

		Convey("A second Infect() call is a no-op", func() {
			s.Infect()
			So(s.Status, ShouldEqual, Infected)
			So(s.InStateSince, ShouldEqual, 1)
		})

		Convey("AdvanceDwell does not transition before incubationTime", func() {
			changed := s.AdvanceDwell(2, 3)
			So(changed, ShouldBeFalse)
			So(s.Status, ShouldEqual, Infected)
		})
	})

	Convey("Given an Infected person at the incubation threshold", t, func() {
		s := InfectionState{Status: Infected, InStateSince: 2}

		Convey("AdvanceDwell transitions to Infectious with dwell reset", func() {
			changed := s.AdvanceDwell(2, 3)
			So(changed, ShouldBeTrue)
			So(s.Status, ShouldEqual, Infectious)
			So(s.InStateSince, ShouldEqual, 0)
		})
	})

	Convey("Given an Infectious person at the recovery threshold", t, func() {
		s := InfectionState{Status: Infectious, InStateSince: 3}

		Convey("AdvanceDwell transitions to Recovered with dwell reset", func() {
			changed := s.AdvanceDwell(2, 3)
			So(changed, ShouldBeTrue)
			So(s.Status, ShouldEqual, Recovered)
			So(s.InStateSince, ShouldEqual, 0)
		})
	})

	Convey("Given a Recovered person", t, func() {
		s := InfectionState{Status: Recovered, InStateSince: 50}

		Convey("Neither AdvanceDwell nor Infect changes their state", func() {
			changed := s.AdvanceDwell(2, 3)
			So(changed, ShouldBeFalse)
			s.Infect()
			So(s.Status, ShouldEqual, Recovered)
		})
	})
}

func TestInfectionStatusStringRoundTrip(t *testing.T) {
	Convey("Given every infection status's wire string", t, func() {
		all := []InfectionStatus{Susceptible, Infected, Infectious, Recovered}
		for _, status := range all {
			Convey("ParseInfectionStatus(status.String()) recovers status for "+status.String(), func() {
				So(ParseInfectionStatus(status.String()), ShouldEqual, status)
			})
		}
	})
}
