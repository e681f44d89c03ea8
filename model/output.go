package model

// TraceEntry is one tick's population snapshot, in scenario population
// order (which is stable person-id order, spec.md §3).
type TraceEntry struct {
	Population []PersonInfo
}

// Output is the result of a completed run: the scenario that was simulated,
// the optional per-tick trace, and the per-query statistics time series.
// Each entry of Stats has length Ticks+1 (tick 0 plus one entry per tick),
// per spec.md §4.8 and the "Serialization round-trip" law in spec.md §8;
// Trace has the same length when Scenario.Trace is set and is empty
// otherwise.
type Output struct {
	RunID    string
	Scenario Scenario
	Trace    []TraceEntry
	Stats    map[string][]Statistics
}
