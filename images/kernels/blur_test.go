package kernels

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/nvr-ai/go-redact/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genFrame returns a deterministic random frame; alpha is random too so
// tests can check it is never written.
func genFrame(w, h int, seed int64) images.Frame {
	f := images.NewFrame(w, h)
	rng := rand.New(rand.NewSource(seed))
	for i := range f.Pix {
		f.Pix[i] = uint8(rng.Intn(256))
	}
	return f
}

func TestGaussianKernelShape(t *testing.T) {
	for _, r := range []int{1, 2, 3, 5, 10, 25} {
		k := GaussianKernel(r)
		require.Len(t, k, 2*r+1, "radius %d", r)
		for i := range k {
			assert.Equal(t, k[i], k[2*r-i], "radius %d not symmetric at %d", r, i)
			assert.GreaterOrEqual(t, k[i], float32(0))
			assert.LessOrEqual(t, k[i], k[r], "radius %d: center is not the maximum", r)
		}
	}
}

func TestGaussianKernelValues(t *testing.T) {
	// radius 2: sigma = 1, 2σ² = 2, norm = 1/sqrt(2π).
	k := GaussianKernel(2)
	norm := 1 / math.Sqrt(2*math.Pi)
	want := []float64{
		norm * math.Exp(-2),
		norm * math.Exp(-0.5),
		norm,
		norm * math.Exp(-0.5),
		norm * math.Exp(-2),
	}
	for i := range want {
		assert.InDelta(t, want[i], float64(k[i]), 1e-6, "tap %d", i)
	}
}

func TestGaussianKernelRadiusZero(t *testing.T) {
	assert.Equal(t, []float32{1}, GaussianKernel(0))
}

func TestGaussianBlurRadiusZeroIsIdentity(t *testing.T) {
	f := genFrame(16, 16, 1)
	orig := f.Clone()
	GaussianBlur(f, images.Region{X: 0, Y: 0, W: 16, H: 16}, Options{Radius: 0})
	assert.Equal(t, orig.Pix, f.Pix)
}

func TestGaussianBlurOutsideRegionUntouched(t *testing.T) {
	f := genFrame(20, 20, 2)
	orig := f.Clone()
	region := images.Region{X: 5, Y: 6, W: 7, H: 4}
	GaussianBlur(f, region, Options{Radius: 3})

	rect := region.Clamp(f.Width, f.Height)
	changed := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			off, _ := f.Offset(x, y)
			inside := x >= rect.X1 && x < rect.X2 && y >= rect.Y1 && y < rect.Y2
			if !inside {
				assert.Equal(t, orig.Pix[off:off+4], f.Pix[off:off+4], "pixel (%d,%d) outside region changed", x, y)
				continue
			}
			assert.Equal(t, orig.Pix[off+3], f.Pix[off+3], "alpha at (%d,%d) changed", x, y)
			if orig.Pix[off] != f.Pix[off] {
				changed++
			}
		}
	}
	assert.Positive(t, changed, "blur should change a random region")
}

func TestGaussianBlurMatchesReference(t *testing.T) {
	f := genFrame(24, 18, 3)
	orig := f.Clone()
	region := images.Region{X: 3, Y: 2, W: 15, H: 30} // runs past the bottom edge
	GaussianBlur(f, region, Options{Radius: 4})

	want := referenceBlur(orig, region.Clamp(orig.Width, orig.Height), 4)
	for i := range want.Pix {
		d := int(want.Pix[i]) - int(f.Pix[i])
		if d < -2 || d > 2 {
			t.Fatalf("byte %d: got %d, reference %d", i, f.Pix[i], want.Pix[i])
		}
	}
}

func TestGaussianBlurExactBytes(t *testing.T) {
	// 2x2 region, radius 1: each pass mixes a pixel with its neighbor at
	// weight e^-2, i.e. fractions 0.8808 and 0.1192. Values truncate.
	//   row 0: 0, 255 -> 30 (30.40), 224 (224.60)
	//   col 0: 30, 0  -> 26 (26.42), 3 (3.58)
	//   col 1: 224, 0 -> 197 (197.30), 26 (26.70)
	f := images.NewFrame(2, 2)
	f.SetRGB(1, 0, images.RGB{R: 255, G: 255, B: 255})
	for i := 3; i < len(f.Pix); i += 4 {
		f.Pix[i] = 77
	}
	GaussianBlur(f, images.Region{W: 2, H: 2}, Options{Radius: 1})

	assert.Equal(t, []byte{
		26, 26, 26, 77, 197, 197, 197, 77,
		3, 3, 3, 77, 26, 26, 26, 77,
	}, f.Pix)
}

func TestGaussianBlurHugeRadius(t *testing.T) {
	region := images.Region{X: 2, Y: 3, W: 4, H: 4}
	for _, r := range []int{1e9, 1 << 50, math.MaxInt} {
		f := genFrame(10, 10, 2)
		orig := f.Clone()
		require.NotPanics(t, func() {
			GaussianBlur(f, region, Options{Radius: r})
		}, "radius %d", r)
		assert.NotEqual(t, orig.Pix, f.Pix, "radius %d", r)
	}

	// All taps weigh the same at this scale, so a uniform region stays put.
	f := images.NewFrame(6, 6)
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = 40, 80, 120, 255
	}
	GaussianBlur(f, images.Region{W: 6, H: 6}, Options{Radius: math.MaxInt})
	for i := 0; i < len(f.Pix); i += 4 {
		assert.InDelta(t, 40, int(f.Pix[i]), 1)
		assert.InDelta(t, 80, int(f.Pix[i+1]), 1)
		assert.InDelta(t, 120, int(f.Pix[i+2]), 1)
	}
}

func TestGaussianBlurRadiusWiderThanRegion(t *testing.T) {
	f := genFrame(12, 12, 10)
	orig := f.Clone()
	region := images.Region{X: 4, Y: 4, W: 5, H: 3}
	GaussianBlur(f, region, Options{Radius: 9})

	want := referenceBlur(orig, region.Clamp(orig.Width, orig.Height), 9)
	for i := range want.Pix {
		d := int(want.Pix[i]) - int(f.Pix[i])
		if d < -2 || d > 2 {
			t.Fatalf("byte %d: got %d, reference %d", i, f.Pix[i], want.Pix[i])
		}
	}
}

func TestGaussianTapsAreKernelCenter(t *testing.T) {
	full := GaussianKernel(10)
	assert.Equal(t, full[7:14], gaussianTaps(10, 3))
	assert.Equal(t, full[10:11], gaussianTaps(10, 0))
	assert.Equal(t, full, gaussianTaps(10, 10))
}

func TestGaussianBlurUniformStaysUniform(t *testing.T) {
	f := images.NewFrame(12, 12)
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = 90, 180, 255, 255
	}
	GaussianBlur(f, images.Region{X: 0, Y: 0, W: 12, H: 12}, Options{Radius: 5})
	for i := 0; i < len(f.Pix); i += 4 {
		assert.InDelta(t, 90, int(f.Pix[i]), 1)
		assert.InDelta(t, 180, int(f.Pix[i+1]), 1)
		assert.InDelta(t, 255, int(f.Pix[i+2]), 1)
		assert.Equal(t, uint8(255), f.Pix[i+3])
	}
}

func TestGaussianBlurDoesNotSampleOutsideRegion(t *testing.T) {
	// A bright column just left of the region must not bleed into it.
	f := images.NewFrame(10, 5)
	for y := 0; y < 5; y++ {
		f.SetRGB(2, y, images.RGB{R: 255, G: 255, B: 255})
	}
	GaussianBlur(f, images.Region{X: 3, Y: 0, W: 7, H: 5}, Options{Radius: 3})
	for y := 0; y < 5; y++ {
		for x := 3; x < 10; x++ {
			c, _ := f.At(x, y)
			assert.Equal(t, images.RGB{}, c, "pixel (%d,%d)", x, y)
		}
	}
}

func TestGaussianBlurSpreadsPoint(t *testing.T) {
	f := images.NewFrame(9, 9)
	f.SetRGB(4, 4, images.RGB{R: 255})
	GaussianBlur(f, images.Region{X: 0, Y: 0, W: 9, H: 9}, Options{Radius: 2})

	center, _ := f.At(4, 4)
	side, _ := f.At(5, 4)
	far, _ := f.At(0, 0)
	assert.Less(t, center.R, uint8(255))
	assert.Positive(t, side.R)
	assert.Less(t, side.R, center.R)
	assert.Equal(t, uint8(0), far.R)
}

func TestGaussianBlurDegenerateRegions(t *testing.T) {
	tests := []struct {
		name   string
		region images.Region
	}{
		{"Fully outside", images.Region{X: 50, Y: 50, W: 5, H: 5}},
		{"Origin past width", images.Region{X: 11, Y: 0, W: 2, H: 2}},
		{"Zero area", images.Region{X: 1, Y: 1, W: 0, H: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := genFrame(10, 10, 4)
			orig := f.Clone()
			GaussianBlur(f, tt.region, Options{Radius: 3})
			assert.Equal(t, orig.Pix, f.Pix)
		})
	}
}

func TestGaussianBlurSinglePixelRegion(t *testing.T) {
	f := genFrame(4, 4, 5)
	orig := f.Clone()
	GaussianBlur(f, images.Region{X: 1, Y: 1, W: 1, H: 1}, Options{Radius: 6})
	for i := range orig.Pix {
		if i == (1*4+1)*4+0 || i == (1*4+1)*4+1 || i == (1*4+1)*4+2 {
			// A lone pixel renormalizes to itself, up to float32 rounding.
			assert.InDelta(t, int(orig.Pix[i]), int(f.Pix[i]), 1, "byte %d", i)
			continue
		}
		assert.Equal(t, orig.Pix[i], f.Pix[i], "byte %d", i)
	}
}

func TestGaussianBlurShortBuffer(t *testing.T) {
	f := genFrame(6, 6, 6)
	f.Pix = f.Pix[:len(f.Pix)-8] // last two pixels missing
	assert.NotPanics(t, func() {
		GaussianBlur(f, images.Region{X: 0, Y: 0, W: 6, H: 6}, Options{Radius: 2})
	})
}

func TestGaussianBlurPoolMatchesUnpooled(t *testing.T) {
	pool := &Pool{}
	region := images.Region{X: 1, Y: 1, W: 30, H: 20}

	want := genFrame(32, 24, 7)
	GaussianBlur(want, region, Options{Radius: 3})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := genFrame(32, 24, 7)
			GaussianBlur(got, region, Options{Radius: 3, Pool: pool})
			assert.Equal(t, want.Pix, got.Pix)
		}()
	}
	wg.Wait()
}

func TestPoolGet(t *testing.T) {
	var nilPool *Pool
	assert.Len(t, nilPool.Get(12), 12)
	nilPool.Put(make([]byte, 4))

	p := &Pool{}
	buf := p.Get(64)
	assert.Len(t, buf, 64)
	p.Put(buf)
	assert.Len(t, p.Get(16), 16)
	assert.Len(t, p.Get(128), 128)
}

// referenceBlur is a float64 rendition of the edge-aware separable blur.
func referenceBlur(src images.Frame, rect images.Rect, radius int) images.Frame {
	dst := src.Clone()
	w, h := rect.Dx(), rect.Dy()
	sigma := float64(radius) / 2
	k := make([]float64, 2*radius+1)
	for i := range k {
		x := float64(i - radius)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}

	tmp := make([][3]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s [3]float64
			var sw float64
			for d := -radius; d <= radius; d++ {
				sx := x + d
				if sx < 0 || sx >= w {
					continue
				}
				c, _ := src.At(rect.X1+sx, rect.Y1+y)
				s[0] += float64(c.R) * k[d+radius]
				s[1] += float64(c.G) * k[d+radius]
				s[2] += float64(c.B) * k[d+radius]
				sw += k[d+radius]
			}
			for c := range s {
				tmp[y*w+x][c] = math.Floor(s[c] / sw)
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s [3]float64
			var sw float64
			for d := -radius; d <= radius; d++ {
				sy := y + d
				if sy < 0 || sy >= h {
					continue
				}
				for c := range s {
					s[c] += tmp[sy*w+x][c] * k[d+radius]
				}
				sw += k[d+radius]
			}
			dst.SetRGB(rect.X1+x, rect.Y1+y, images.RGB{
				R: uint8(s[0] / sw),
				G: uint8(s[1] / sw),
				B: uint8(s[2] / sw),
			})
		}
	}
	return dst
}
