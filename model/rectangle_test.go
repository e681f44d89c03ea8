package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRectangleContainment(t *testing.T) {
	Convey("Given a rectangle at (2,2) sized 3x3", t, func() {
		r := NewRectangle(Vector{X: 2, Y: 2}, Vector{X: 3, Y: 3})

		Convey("It contains its top-left corner but not its bottom-right", func() {
			So(r.Contains(Vector{X: 2, Y: 2}), ShouldBeTrue)
			So(r.Contains(r.BottomRight()), ShouldBeFalse)
		})

		Convey("It contains its last in-bounds cell", func() {
			So(r.Contains(Vector{X: 4, Y: 4}), ShouldBeTrue)
		})

		Convey("It does not contain cells outside its bounds", func() {
			So(r.Contains(Vector{X: 1, Y: 2}), ShouldBeFalse)
			So(r.Contains(Vector{X: 5, Y: 2}), ShouldBeFalse)
		})
	})
}

func TestRectangleOverlapAndIntersect(t *testing.T) {
	Convey("Given two overlapping rectangles", t, func() {
		a := NewRectangle(Vector{X: 0, Y: 0}, Vector{X: 4, Y: 4})
		b := NewRectangle(Vector{X: 2, Y: 2}, Vector{X: 4, Y: 4})

		Convey("They overlap", func() {
			So(a.Overlaps(b), ShouldBeTrue)
			So(b.Overlaps(a), ShouldBeTrue)
		})

		Convey("Their intersection is the shared 2x2 region", func() {
			got, ok := a.Intersect(b)
			So(ok, ShouldBeTrue)
			So(got, ShouldResemble, NewRectangle(Vector{X: 2, Y: 2}, Vector{X: 2, Y: 2}))
		})
	})

	Convey("Given two disjoint rectangles", t, func() {
		a := NewRectangle(Vector{X: 0, Y: 0}, Vector{X: 2, Y: 2})
		b := NewRectangle(Vector{X: 10, Y: 10}, Vector{X: 2, Y: 2})

		Convey("They do not overlap and have no intersection", func() {
			So(a.Overlaps(b), ShouldBeFalse)
			_, ok := a.Intersect(b)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given two rectangles that merely touch edges", t, func() {
		a := NewRectangle(Vector{X: 0, Y: 0}, Vector{X: 2, Y: 2})
		b := NewRectangle(Vector{X: 2, Y: 0}, Vector{X: 2, Y: 2})

		Convey("They do not overlap, since the shared edge has zero width", func() {
			So(a.Overlaps(b), ShouldBeFalse)
		})
	})
}

func TestRectangleForEachCellRowMajor(t *testing.T) {
	Convey("Given a 2x2 rectangle at the origin", t, func() {
		r := NewRectangle(Vector{}, Vector{X: 2, Y: 2})

		Convey("ForEachCell visits cells in row-major order, x fastest", func() {
			var visited []Vector
			r.ForEachCell(func(c Vector) { visited = append(visited, c) })
			So(visited, ShouldResemble, []Vector{
				{X: 0, Y: 0}, {X: 1, Y: 0},
				{X: 0, Y: 1}, {X: 1, Y: 1},
			})
		})
	})
}

func TestRectangleExpandClipsToBound(t *testing.T) {
	Convey("Given a rectangle near the edge of a bounding grid", t, func() {
		grid := NewRectangle(Vector{}, Vector{X: 10, Y: 10})
		r := NewRectangle(Vector{X: 0, Y: 8}, Vector{X: 2, Y: 2})

		Convey("Expand clips to the grid instead of going negative or past the edge", func() {
			expanded := r.Expand(3, grid)
			So(expanded.TopLeft, ShouldResemble, Vector{X: 0, Y: 5})
			So(expanded.BottomRight(), ShouldResemble, Vector{X: 5, Y: 10})
		})
	})
}
