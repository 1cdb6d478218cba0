// Package images - Geometry shared by the redaction transforms.
package images

// Rect is a lightweight pixel rectangle.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// Dx returns the width of r, or 0 when r is inverted.
func (r Rect) Dx() int { return max(r.X2-r.X1, 0) }

// Dy returns the height of r, or 0 when r is inverted.
func (r Rect) Dy() int { return max(r.Y2-r.Y1, 0) }

// Empty reports whether r contains no pixels. Inverted rectangles are empty.
func (r Rect) Empty() bool {
	return r.X1 >= r.X2 || r.Y1 >= r.Y2
}

// Intersect returns the largest rectangle contained by both r and o.
//
// The top-left corner of the overlap is the maximum of the two top-left
// corners and the bottom-right corner is the minimum of the two bottom-right
// corners. When the rectangles do not overlap the result is inverted, which
// Empty reports as such; it is not canonicalized.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
		X2: min(r.X2, o.X2),
		Y2: min(r.Y2, o.Y2),
	}
}

// Region is a user-drawn rectangle given as origin and size. It may extend
// past the edge of the frame it is applied to.
type Region struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Rect returns the unclamped rectangle [X, X+W) x [Y, Y+H).
// Negative sizes collapse to an empty rectangle.
func (g Region) Rect() Rect {
	return Rect{X1: g.X, Y1: g.Y, X2: g.X + max(g.W, 0), Y2: g.Y + max(g.H, 0)}
}

// Clamp intersects the region with a width x height canvas.
//
// For a non-negative region the result is [x, min(x+w, width)) x
// [y, min(y+h, height)). A region that misses the canvas yields an empty
// rectangle, which every transform treats as a no-op.
//
// Example:
//
// ```go
//
//	r := Region{X: 8, Y: 8, W: 5, H: 5}.Clamp(10, 10) // Rect{8, 8, 10, 10}
//
// ```
func (g Region) Clamp(width, height int) Rect {
	return g.Rect().Intersect(Rect{X2: max(width, 0), Y2: max(height, 0)})
}
