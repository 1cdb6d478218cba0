package kernels

import "github.com/chewxy/math32"

// GaussianKernel builds the 1-D weights used by GaussianBlur.
//
// The kernel has 2*radius+1 taps at offsets -radius..radius with
// sigma = radius/2:
//
//	w(x) = norm * exp(-x² / 2σ²),  norm = 1 / sqrt(π * 2σ²)
//
// norm is the 1-D normalization factor even though the kernel is applied
// along both axes, and the weights are not rescaled to sum to one. The blur
// divides by the weights it actually samples, so neither affects its output.
//
// For radius <= 0 it returns the identity kernel [1].
func GaussianKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	return gaussianTaps(radius, radius)
}

// gaussianTaps returns the taps of the radius kernel at offsets -half..half.
// half must be in [0, radius]; sigma still follows radius.
func gaussianTaps(radius, half int) []float32 {
	sigma := float32(radius) / 2
	twoSigmaSq := 2 * sigma * sigma
	norm := 1 / math32.Sqrt(math32.Pi*twoSigmaSq)

	kernel := make([]float32, 2*half+1)
	for i := range kernel {
		x := float32(i - half)
		kernel[i] = norm * math32.Exp(-x*x/twoSigmaSq)
	}
	return kernel
}
