package model

import "fmt"

// Partition holds the ascending cut lines that divide the grid into
// patches, independently in x and y.
type Partition struct {
	X []int
	Y []int
}

// Validate checks that both cut-line lists are strictly ascending, per
// spec.md §3. A malformed partition is an invariant violation (spec.md §7),
// not a recoverable condition.
func (p Partition) Validate() error {
	if !strictlyAscending(p.X) {
		return fmt.Errorf("partition: x cuts not strictly ascending: %v", p.X)
	}
	if !strictlyAscending(p.Y) {
		return fmt.Errorf("partition: y cuts not strictly ascending: %v", p.Y)
	}
	return nil
}

func strictlyAscending(vals []int) bool {
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			return false
		}
	}
	return true
}

// PatchCount returns (|cuts_x|+1) * (|cuts_y|+1).
func (p Partition) PatchCount() int {
	return (len(p.X) + 1) * (len(p.Y) + 1)
}

// Rectangles returns the patch rectangles covering grid, enumerated
// left-to-right, top-to-bottom (row-major, x fastest) — the observable
// patch-id order required by spec.md §3 and §6.
func (p Partition) Rectangles(grid Rectangle) []Rectangle {
	br := grid.BottomRight()
	xBounds := append(append([]int{grid.TopLeft.X}, p.X...), br.X)
	yBounds := append(append([]int{grid.TopLeft.Y}, p.Y...), br.Y)

	rects := make([]Rectangle, 0, p.PatchCount())
	for j := 0; j < len(yBounds)-1; j++ {
		for i := 0; i < len(xBounds)-1; i++ {
			rects = append(rects, Rectangle{
				TopLeft: Vector{X: xBounds[i], Y: yBounds[j]},
				Size:    Vector{X: xBounds[i+1] - xBounds[i], Y: yBounds[j+1] - yBounds[j]},
			})
		}
	}
	return rects
}

// Scenario is the full, immutable-once-constructed description of a
// simulation run.
type Scenario struct {
	Name       string
	Parameters Parameters
	Ticks      int
	GridSize   Vector
	Trace      bool
	Partition  Partition
	Obstacles  []Rectangle
	Queries    map[string]Rectangle
	Population []PersonInfo
}

// Grid returns the scenario's grid rectangle, Rectangle(origin, gridSize).
func (s Scenario) Grid() Rectangle {
	return Rectangle{TopLeft: Vector{}, Size: s.GridSize}
}

// OnObstacle reports whether c lies within any obstacle.
func (s Scenario) OnObstacle(c Vector) bool {
	for _, o := range s.Obstacles {
		if o.Contains(c) {
			return true
		}
	}
	return false
}
