// Package propagation implements the static reachability pre-analysis of
// spec.md §4.7: a conservative test of whether information (movement or
// infection) can ever flow from one region of the grid to another, used to
// prune patch neighbor sets and skip halo work that can never matter.
package propagation

import "spreadsim/model"

// AdjacencyMatrix is the result of Analyze: every non-obstacle cell is
// assigned a component id, and two cells can propagate to each other, in
// any number of ticks, iff they share a component. This is a closure over
// the single-step growth relation, computed once for the whole grid rather
// than re-derived per patch pair.
type AdjacencyMatrix struct {
	grid       model.Rectangle
	obstacle   map[model.Vector]bool
	componentOf map[model.Vector]int
}

// Analyze computes the reachability closure for grid, treating every cell
// inside any of obstacles as a permanent non-propagating cell. radius is
// the scenario's infection radius; the single-step growth relation is
// "Manhattan distance <= radius, OR Chebyshev distance <= 1" (spec.md
// §4.7), since a person can always reach an orthogonally/diagonally
// adjacent cell by moving even when radius is 0.
func Analyze(grid model.Rectangle, obstacles []model.Rectangle, radius int) *AdjacencyMatrix {
	m := &AdjacencyMatrix{
		grid:        grid,
		obstacle:    make(map[model.Vector]bool),
		componentOf: make(map[model.Vector]int),
	}
	onObstacle := func(c model.Vector) bool {
		for _, o := range obstacles {
			if o.Contains(c) {
				return true
			}
		}
		return false
	}

	parent := make(map[model.Vector]model.Vector)
	var find func(model.Vector) model.Vector
	find = func(c model.Vector) model.Vector {
		for parent[c] != c {
			parent[c] = parent[parent[c]]
			c = parent[c]
		}
		return c
	}
	union := func(a, b model.Vector) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	reach := radius
	if reach < 1 {
		reach = 1
	}

	grid.ForEachCell(func(c model.Vector) {
		if onObstacle(c) {
			m.obstacle[c] = true
			return
		}
		parent[c] = c
	})

	grid.ForEachCell(func(c model.Vector) {
		if m.obstacle[c] {
			return
		}
		for dy := -reach; dy <= reach; dy++ {
			for dx := -reach; dx <= reach; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if !singleStepReachable(dx, dy, radius) {
					continue
				}
				other := model.Vector{X: c.X + dx, Y: c.Y + dy}
				if !grid.Contains(other) || m.obstacle[other] {
					continue
				}
				union(c, other)
			}
		}
	})

	ids := make(map[model.Vector]int)
	next := 0
	grid.ForEachCell(func(c model.Vector) {
		if m.obstacle[c] {
			return
		}
		root := find(c)
		id, ok := ids[root]
		if !ok {
			id = next
			next++
			ids[root] = id
		}
		m.componentOf[c] = id
	})

	return m
}

func singleStepReachable(dx, dy, radius int) bool {
	manhattan := absInt(dx) + absInt(dy)
	if manhattan <= radius {
		return true
	}
	return absInt(dx) <= 1 && absInt(dy) <= 1
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CanReach reports whether information can propagate between a and b: they
// overlap directly, or some non-obstacle cell in a shares a component with
// some non-obstacle cell in b. The result is conservative — it may report
// true for a pair that never actually interacts within the scenario's
// tick budget, but never reports false for a pair that can.
func (m *AdjacencyMatrix) CanReach(a, b model.Rectangle) bool {
	if _, ok := a.Intersect(b); ok {
		return true
	}
	aComponents := make(map[int]bool)
	a.ForEachCell(func(c model.Vector) {
		if id, ok := m.componentOf[c]; ok {
			aComponents[id] = true
		}
	})
	found := false
	b.ForEachCell(func(c model.Vector) {
		if found {
			return
		}
		if id, ok := m.componentOf[c]; ok && aComponents[id] {
			found = true
		}
	})
	return found
}
