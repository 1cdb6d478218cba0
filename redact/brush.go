package redact

import (
	"log/slog"

	"github.com/nvr-ai/go-redact/images"
)

// BrushSolidFill paints a disc of diameter brushSize in color c at every
// point of the stroke. Overlapping discs simply overwrite each other.
//
// No mask is built: each disc is written straight into the frame.
func BrushSolidFill(f images.Frame, points images.PointList, brushSize int, c images.RGB) {
	radius := discRadius(brushSize)
	Logger().Debug("brush solid fill", slog.Int("points", points.Len()), slog.Int("radius", radius))
	for cx, cy := range points.Pairs() {
		stampDisc(f.Width, f.Height, cx, cy, radius, func(x, y int) {
			f.SetRGB(x, y, c)
		})
	}
}

// BrushPixelate pixelates the pixels covered by a brush stroke.
//
// The stroke is rasterized into a Mask, and a grid of blockSize blocks
// (minimum 1) is laid over the mask's bounding box with the last row and
// column cut short. Blocks without a marked pixel are skipped. For every
// other block the mean color is taken over all of its pixels, marked or
// not, and written to its marked pixels only, so unmarked neighbors inside
// a block tint the result without being changed themselves.
func BrushPixelate(f images.Frame, points images.PointList, brushSize, blockSize int) {
	blockSize = max(blockSize, 1)
	mask := BuildMask(points, brushSize, f.Width, f.Height)
	box := mask.Bounds()
	Logger().Debug("brush pixelate",
		slog.Int("points", points.Len()), slog.Any("bounds", box), slog.Int("block", blockSize))
	if box.Empty() {
		return
	}
	blockSize = min(blockSize, max(box.Dx(), box.Dy()))
	for by := box.Y1; by < box.Y2; by += blockSize {
		for bx := box.X1; bx < box.X2; bx += blockSize {
			block := images.Rect{
				X1: bx,
				Y1: by,
				X2: min(bx+blockSize, box.X2),
				Y2: min(by+blockSize, box.Y2),
			}
			if !mask.AnyIn(block) {
				continue
			}
			if avg, ok := blockMean(f, block); ok {
				fillBlock(f, block, avg, mask)
			}
		}
	}
}
