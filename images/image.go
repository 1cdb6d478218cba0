// Package images - Frame definition and pixel addressing for redaction transforms.
package images

import (
	"image"

	"github.com/pkg/errors"
)

// BytesPerPixel is the stride of one RGBA8 pixel.
const BytesPerPixel = 4

// Frame is a view over a caller-owned RGBA8 buffer.
//
// Pix is row-major with no row padding, so a well-formed frame has
// len(Pix) == Width*Height*4. Transforms never resize or reallocate Pix.
type Frame struct {
	// The pixel data of the frame (R, G, B, A per pixel).
	Pix []byte `json:"pix" yaml:"pix"`
	// The width of the frame.
	Width int `json:"width" yaml:"width"`
	// The height of the frame.
	Height int `json:"height" yaml:"height"`
}

// RGB is an opaque fill color. Alpha is never written by a transform.
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// NewFrame allocates a zeroed frame of the given dimensions.
func NewFrame(width, height int) Frame {
	width, height = max(width, 0), max(height, 0)
	return Frame{
		Pix:    make([]byte, width*height*BytesPerPixel),
		Width:  width,
		Height: height,
	}
}

// FrameFromRGBA wraps the pixels of img without copying.
//
// Arguments:
// - img: The source image. Its stride must equal 4*width.
//
// Returns:
// - A frame sharing img.Pix, or an error if img has row padding.
func FrameFromRGBA(img *image.RGBA) (Frame, error) {
	if img == nil {
		return Frame{}, errors.New("nil image")
	}
	b := img.Rect
	if img.Stride != b.Dx()*BytesPerPixel {
		return Frame{}, errors.Errorf("stride %d does not match width %d", img.Stride, b.Dx())
	}
	n := b.Dx() * b.Dy() * BytesPerPixel
	return Frame{Pix: img.Pix[:n:n], Width: b.Dx(), Height: b.Dy()}, nil
}

// RGBA returns an *image.RGBA sharing the frame's pixels.
func (f Frame) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Validate reports whether the buffer length matches the frame dimensions.
func (f Frame) Validate() error {
	if f.Width < 0 || f.Height < 0 {
		return errors.Errorf("negative frame dimensions %dx%d", f.Width, f.Height)
	}
	if want := f.Width * f.Height * BytesPerPixel; len(f.Pix) != want {
		return errors.Errorf("frame %dx%d needs %d bytes, got %d", f.Width, f.Height, want, len(f.Pix))
	}
	return nil
}

// Clone returns a deep copy of the frame.
func (f Frame) Clone() Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return Frame{Pix: pix, Width: f.Width, Height: f.Height}
}

// Bounds returns the canvas rectangle.
func (f Frame) Bounds() Rect {
	return Rect{X2: max(f.Width, 0), Y2: max(f.Height, 0)}
}

// Offset returns the byte offset of pixel (x, y) and whether all four of its
// bytes lie inside Pix. Callers skip the pixel when ok is false.
func (f Frame) Offset(x, y int) (off int, ok bool) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0, false
	}
	off = (y*f.Width + x) * BytesPerPixel
	return off, off+BytesPerPixel <= len(f.Pix)
}

// At returns the RGB and alpha of pixel (x, y), or zero values when the
// pixel is out of range.
func (f Frame) At(x, y int) (RGB, uint8) {
	off, ok := f.Offset(x, y)
	if !ok {
		return RGB{}, 0
	}
	p := f.Pix[off : off+4 : off+4]
	return RGB{R: p[0], G: p[1], B: p[2]}, p[3]
}

// SetRGB overwrites the color channels of pixel (x, y), leaving alpha alone.
// Out-of-range pixels are ignored.
func (f Frame) SetRGB(x, y int, c RGB) {
	off, ok := f.Offset(x, y)
	if !ok {
		return
	}
	p := f.Pix[off : off+3 : off+3]
	p[0], p[1], p[2] = c.R, c.G, c.B
}
