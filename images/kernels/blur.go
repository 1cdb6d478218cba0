package kernels

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-redact/images"
)

// Options configures the blur call.
type Options struct {
	Radius int   // Blur radius (window size = 2*Radius + 1). 0 is a no-op.
	Pool   *Pool // Optional scratch pool for the region copy and the horizontal pass.
}

// Pool lets callers reuse scratch buffers across blur calls to reduce GC
// pressure when many regions are blurred in a row. It is safe for
// concurrent use; a nil *Pool allocates on every call.
type Pool struct {
	bufs sync.Pool // *[]byte
}

// Get returns a scratch slice of length n. Its contents are unspecified.
func (p *Pool) Get(n int) []byte {
	if p == nil {
		return make([]byte, n)
	}
	if v := p.bufs.Get(); v != nil {
		buf := *(v.(*[]byte))
		if cap(buf) >= n {
			return buf[:n]
		}
	}
	return make([]byte, n)
}

// Put hands buf back for reuse.
func (p *Pool) Put(buf []byte) {
	if p == nil || buf == nil {
		return
	}
	// Clear is skipped; every reader fully overwrites what it uses.
	p.bufs.Put(&buf)
}

// GaussianBlur applies a separable Gaussian blur to the RGB channels of the
// part of region that lies on the frame, in place.
//
// The algorithm:
//   - Copies the clamped region into scratch so reads never see the pass's
//     own writes.
//   - Horizontal pass: each output pixel is the weighted sum of the taps that
//     fall inside the region's horizontal extent, divided by the sum of the
//     weights of those taps. Pixels outside the region never contribute;
//     this is neither zero padding nor clamp-to-edge.
//   - Vertical pass: the same over the horizontal result, written back into
//     the frame at the region's absolute position.
//
// Alpha is carried through the horizontal pass from the center pixel and is
// never written back. All accumulation is float32; results are truncated.
func GaussianBlur(f images.Frame, region images.Region, opt Options) {
	r := opt.Radius
	if r <= 0 {
		return
	}
	rect := region.Clamp(f.Width, f.Height)
	if rect.Empty() {
		return
	}
	w, h := rect.Dx(), rect.Dy()
	n := w * h * images.BytesPerPixel

	// 1) Copy the region out of the frame.
	src := opt.Pool.Get(n)
	defer opt.Pool.Put(src)
	clear(src)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off, ok := f.Offset(rect.X1+x, rect.Y1+y)
			if !ok {
				continue
			}
			i := (y*w + x) * 4
			copy(src[i:i+4], f.Pix[off:off+4])
		}
	}

	// Taps further out than the region is wide or tall are never sampled.
	half := min(r, max(w, h)-1)
	kernel := gaussianTaps(r, half)

	// 2) Horizontal pass into tmp.
	tmp := opt.Pool.Get(n)
	defer opt.Pool.Put(tmp)
	for y := 0; y < h; y++ {
		row := y * w * 4
		for x := 0; x < w; x++ {
			lo, hi := max(x-half, 0), min(x+half, w-1)
			var sumR, sumG, sumB, sumW float32
			for sx := lo; sx <= hi; sx++ {
				k := kernel[sx-x+half]
				p := src[row+sx*4 : row+sx*4+3 : row+sx*4+3]
				sumR += float32(p[0]) * k
				sumG += float32(p[1]) * k
				sumB += float32(p[2]) * k
				sumW += k
			}
			i := row + x*4
			tmp[i+0] = truncate8(sumR / sumW)
			tmp[i+1] = truncate8(sumG / sumW)
			tmp[i+2] = truncate8(sumB / sumW)
			tmp[i+3] = src[i+3]
		}
	}

	// 3) Vertical pass from tmp back into the frame.
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			lo, hi := max(y-half, 0), min(y+half, h-1)
			var sumR, sumG, sumB, sumW float32
			for sy := lo; sy <= hi; sy++ {
				k := kernel[sy-y+half]
				i := (sy*w + x) * 4
				sumR += float32(tmp[i+0]) * k
				sumG += float32(tmp[i+1]) * k
				sumB += float32(tmp[i+2]) * k
				sumW += k
			}
			off, ok := f.Offset(rect.X1+x, rect.Y1+y)
			if !ok {
				continue
			}
			f.Pix[off+0] = truncate8(sumR / sumW)
			f.Pix[off+1] = truncate8(sumG / sumW)
			f.Pix[off+2] = truncate8(sumB / sumW)
		}
	}
}

// truncate8 stores a channel value the way a saturating float-to-byte cast
// does: values are truncated toward zero and pinned to [0, 255]. Float32
// rounding can push a weighted mean of 255s just past 255.
func truncate8(v float32) uint8 {
	switch {
	case v <= 0 || math32.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
