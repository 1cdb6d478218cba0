package redact

import (
	"math"

	"github.com/nvr-ai/go-redact/images"
)

// Mask marks the pixels covered by a brush stroke. It has one cell per
// pixel of the frame it was built for and lives for a single call.
type Mask struct {
	width, height int
	cells         []bool
}

// NewMask returns an empty mask for a width x height canvas.
func NewMask(width, height int) *Mask {
	width, height = max(width, 0), max(height, 0)
	return &Mask{width: width, height: height, cells: make([]bool, width*height)}
}

// BuildMask stamps a disc of the given brush size at every point pair.
func BuildMask(points images.PointList, brushSize, width, height int) *Mask {
	m := NewMask(width, height)
	radius := discRadius(brushSize)
	for cx, cy := range points.Pairs() {
		m.Stamp(cx, cy, radius)
	}
	return m
}

// Stamp marks every pixel within radius of (cx, cy), clipped to the canvas.
func (m *Mask) Stamp(cx, cy, radius int) {
	stampDisc(m.width, m.height, cx, cy, radius, func(x, y int) {
		m.cells[y*m.width+x] = true
	})
}

// At reports whether (x, y) is marked. Out-of-canvas pixels are not.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.cells[y*m.width+x]
}

// Count returns the number of marked pixels.
func (m *Mask) Count() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

// Bounds scans the whole mask and returns the smallest rectangle holding
// every marked pixel (X2, Y2 exclusive). It is empty when nothing is marked.
func (m *Mask) Bounds() images.Rect {
	minX, minY := m.width, m.height
	maxX, maxY := -1, -1
	for y := 0; y < m.height; y++ {
		row := m.cells[y*m.width : (y+1)*m.width]
		for x, c := range row {
			if !c {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return images.Rect{}
	}
	return images.Rect{X1: minX, Y1: minY, X2: maxX + 1, Y2: maxY + 1}
}

// AnyIn reports whether any pixel of r is marked, stopping at the first one.
func (m *Mask) AnyIn(r images.Rect) bool {
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			if m.At(x, y) {
				return true
			}
		}
	}
	return false
}

// discRadius is the stamp radius for a brush size: floor(size/2).
// Sizes are capped at the uint32 range so squared distances fit in an int.
func discRadius(brushSize int) int {
	return min(max(brushSize, 0), math.MaxUint32) / 2
}

// stampDisc calls plot for every canvas pixel (x, y) with
// (x-cx)² + (y-cy)² <= radius². Only the rows and columns of the disc's
// bounding square that lie on the canvas are visited.
func stampDisc(width, height, cx, cy, radius int, plot func(x, y int)) {
	rsq := radius * radius
	y0, y1 := max(cy-radius, 0), min(cy+radius, height-1)
	x0, x1 := max(cx-radius, 0), min(cx+radius, width-1)
	for y := y0; y <= y1; y++ {
		dy := y - cy
		for x := x0; x <= x1; x++ {
			dx := x - cx
			if dx*dx+dy*dy <= rsq {
				plot(x, y)
			}
		}
	}
}
