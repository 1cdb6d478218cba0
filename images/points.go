package images

import (
	"iter"
	"math"

	"github.com/chewxy/math32"
)

// PointList is a flat stroke path: x1, y1, x2, y2, ...
// A trailing unpaired value is ignored.
type PointList []float32

// Len returns the number of complete coordinate pairs.
func (p PointList) Len() int { return len(p) / 2 }

// Pairs yields each complete (x, y) pair as pixel coordinates, in order.
func (p PointList) Pairs() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := 0; i+1 < len(p); i += 2 {
			if !yield(Coord(p[i]), Coord(p[i+1])) {
				return
			}
		}
	}
}

// Coord converts a stroke sample to a pixel coordinate.
//
// The value is truncated toward zero and saturated to the int32 range;
// NaN maps to 0. Out-of-canvas results are left for the caller to clip.
func Coord(v float32) int {
	switch {
	case math32.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}
