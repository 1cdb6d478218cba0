// Package redact implements in-place redaction transforms over caller-owned
// RGBA8 frames: solid fill, pixelation and Gaussian blur over a rectangle,
// and solid fill and pixelation along a freehand brush path.
//
// Every transform is a plain function of (frame, geometry, parameters). None
// of them return errors: geometry that misses the frame is clamped away,
// block sizes below one are raised to one, and any pixel whose bytes fall
// outside the buffer is skipped. Alpha is never written.
//
// The transforms hold no state and do no locking. Calls on different frames
// may run concurrently; calls on the same frame must be serialized by the
// caller.
package redact

import (
	"log/slog"

	"github.com/nvr-ai/go-redact/images"
	"github.com/nvr-ai/go-redact/images/kernels"
)

// SolidFill overwrites the color of every pixel of region that lies on the
// frame with c.
func SolidFill(f images.Frame, region images.Region, c images.RGB) {
	rect := region.Clamp(f.Width, f.Height)
	Logger().Debug("solid fill", slog.Any("rect", rect))
	if rect.Empty() {
		return
	}
	for y := rect.Y1; y < rect.Y2; y++ {
		for x := rect.X1; x < rect.X2; x++ {
			f.SetRGB(x, y, c)
		}
	}
}

// Pixelate replaces each block of region with the block's mean color.
//
// Blocks are blockSize pixels square (minimum 1), laid out from the clamped
// region's top-left corner; the last row and column are cut short by the
// region edge rather than padded. The mean of each channel is the integer
// sum divided by the pixel count, truncated.
func Pixelate(f images.Frame, region images.Region, blockSize int) {
	blockSize = max(blockSize, 1)
	rect := region.Clamp(f.Width, f.Height)
	Logger().Debug("pixelate", slog.Any("rect", rect), slog.Int("block", blockSize))
	if rect.Empty() || blockSize == 1 {
		return
	}
	// A block never extends past the region, so larger sizes add nothing.
	blockSize = min(blockSize, max(rect.Dx(), rect.Dy()))
	for by := rect.Y1; by < rect.Y2; by += blockSize {
		for bx := rect.X1; bx < rect.X2; bx += blockSize {
			block := images.Rect{
				X1: bx,
				Y1: by,
				X2: min(bx+blockSize, rect.X2),
				Y2: min(by+blockSize, rect.Y2),
			}
			if avg, ok := blockMean(f, block); ok {
				fillBlock(f, block, avg, nil)
			}
		}
	}
}

// GaussianBlur blurs the color channels of region with the given radius.
// A radius of 0 leaves the frame untouched. See kernels.GaussianBlur.
func GaussianBlur(f images.Frame, region images.Region, radius int) {
	gaussianBlur(f, region, radius, nil)
}

func gaussianBlur(f images.Frame, region images.Region, radius int, pool *kernels.Pool) {
	Logger().Debug("gaussian blur",
		slog.Any("rect", region.Clamp(f.Width, f.Height)), slog.Int("radius", radius))
	kernels.GaussianBlur(f, region, kernels.Options{Radius: radius, Pool: pool})
}

// blockMean returns the truncated mean color of the addressable pixels of
// block. ok is false when none of them are addressable.
func blockMean(f images.Frame, block images.Rect) (avg images.RGB, ok bool) {
	var sumR, sumG, sumB, count uint64
	for y := block.Y1; y < block.Y2; y++ {
		for x := block.X1; x < block.X2; x++ {
			off, ok := f.Offset(x, y)
			if !ok {
				continue
			}
			sumR += uint64(f.Pix[off])
			sumG += uint64(f.Pix[off+1])
			sumB += uint64(f.Pix[off+2])
			count++
		}
	}
	if count == 0 {
		return images.RGB{}, false
	}
	return images.RGB{
		R: uint8(sumR / count),
		G: uint8(sumG / count),
		B: uint8(sumB / count),
	}, true
}

// fillBlock writes c into block, or only into its masked pixels when mask
// is non-nil.
func fillBlock(f images.Frame, block images.Rect, c images.RGB, mask *Mask) {
	for y := block.Y1; y < block.Y2; y++ {
		for x := block.X1; x < block.X2; x++ {
			if mask != nil && !mask.At(x, y) {
				continue
			}
			f.SetRGB(x, y, c)
		}
	}
}
