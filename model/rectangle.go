package model

// Rectangle is half-open in both dimensions: it contains cell c iff
// TopLeft <= c < BottomRight, componentwise.
type Rectangle struct {
	TopLeft Vector
	Size    Vector
}

// NewRectangle builds a rectangle from its top-left corner and size.
func NewRectangle(topLeft, size Vector) Rectangle {
	return Rectangle{TopLeft: topLeft, Size: size}
}

// BottomRight is the exclusive lower-right corner.
func (r Rectangle) BottomRight() Vector {
	return r.TopLeft.Add(r.Size)
}

// Contains reports whether c lies inside the half-open rectangle.
func (r Rectangle) Contains(c Vector) bool {
	br := r.BottomRight()
	return c.X >= r.TopLeft.X && c.X < br.X && c.Y >= r.TopLeft.Y && c.Y < br.Y
}

// Overlaps reports whether the two rectangles share any cell. Two
// rectangles overlap iff neither is strictly left/right/above/below the
// other.
func (r Rectangle) Overlaps(o Rectangle) bool {
	rBR := r.BottomRight()
	oBR := o.BottomRight()
	if r.TopLeft.X >= oBR.X || o.TopLeft.X >= rBR.X {
		return false
	}
	if r.TopLeft.Y >= oBR.Y || o.TopLeft.Y >= rBR.Y {
		return false
	}
	return true
}

// Intersect returns the overlapping region of r and o. ok is false if the
// rectangles do not overlap, in which case the returned rectangle is the
// zero value and must not be used.
func (r Rectangle) Intersect(o Rectangle) (Rectangle, bool) {
	if !r.Overlaps(o) {
		return Rectangle{}, false
	}
	rBR := r.BottomRight()
	oBR := o.BottomRight()
	top := maxInt(r.TopLeft.X, o.TopLeft.X)
	left := maxInt(r.TopLeft.Y, o.TopLeft.Y)
	right := minInt(rBR.X, oBR.X)
	bottom := minInt(rBR.Y, oBR.Y)
	return Rectangle{
		TopLeft: Vector{X: top, Y: left},
		Size:    Vector{X: right - top, Y: bottom - left},
	}, true
}

// Expand grows the rectangle by n cells on every side, clipping the result
// to bound (typically the grid rectangle).
func (r Rectangle) Expand(n int, bound Rectangle) Rectangle {
	br := r.BottomRight()
	boundBR := bound.BottomRight()
	top := maxInt(r.TopLeft.X-n, bound.TopLeft.X)
	left := maxInt(r.TopLeft.Y-n, bound.TopLeft.Y)
	right := minInt(br.X+n, boundBR.X)
	bottom := minInt(br.Y+n, boundBR.Y)
	return Rectangle{
		TopLeft: Vector{X: top, Y: left},
		Size:    Vector{X: right - top, Y: bottom - left},
	}
}

// Empty reports whether the rectangle contains no cells.
func (r Rectangle) Empty() bool {
	return r.Size.X <= 0 || r.Size.Y <= 0
}

// ForEachCell visits every cell of the rectangle in row-major order (x
// fastest), matching the iteration order the scheduler relies on for
// deterministic aggregation.
func (r Rectangle) ForEachCell(fn func(Vector)) {
	br := r.BottomRight()
	for y := r.TopLeft.Y; y < br.Y; y++ {
		for x := r.TopLeft.X; x < br.X; x++ {
			fn(Vector{X: x, Y: y})
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
