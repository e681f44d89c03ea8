package model

// Statistics is the per-query, per-tick SI²R tally. It forms a commutative
// monoid under Add, so partial tallies can be summed in any order
// (spec.md §4.8).
type Statistics struct {
	Susceptible int
	Infected    int
	Infectious  int
	Recovered   int
}

// Add returns the componentwise sum of two Statistics.
func (s Statistics) Add(o Statistics) Statistics {
	return Statistics{
		Susceptible: s.Susceptible + o.Susceptible,
		Infected:    s.Infected + o.Infected,
		Infectious:  s.Infectious + o.Infectious,
		Recovered:   s.Recovered + o.Recovered,
	}
}

// Total returns the total number of persons counted.
func (s Statistics) Total() int {
	return s.Susceptible + s.Infected + s.Infectious + s.Recovered
}

// Tally folds a single person's status into the Statistics.
func (s Statistics) Tally(status InfectionStatus) Statistics {
	switch status {
	case Susceptible:
		s.Susceptible++
	case Infected:
		s.Infected++
	case Infectious:
		s.Infectious++
	case Recovered:
		s.Recovered++
	}
	return s
}

// SumStatistics reduces a slice of partials to a single Statistics. The
// reduction order does not affect the result since Add is commutative and
// associative and all fields are integers.
func SumStatistics(partials []Statistics) Statistics {
	var total Statistics
	for _, p := range partials {
		total = total.Add(p)
	}
	return total
}
