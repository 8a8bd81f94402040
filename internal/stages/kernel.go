package stages

import "math"

// 3x3 smoothing kernel shared by the denoiser and the sharpener.
// Weights sum to the divisor, so a uniform region passes through unchanged.
var smoothKernel = [9]int{
	1, 2, 1,
	2, 4, 2,
	1, 2, 1,
}

const smoothKernelDiv = 16

// clampRound maps an arbitrary float channel value back into [0,255],
// rounding to the nearest integer.
func clampRound(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
