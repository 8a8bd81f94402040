package stages

import (
	"fmt"

	"frame-enhancement/internal/raster"
)

// GlobalHistEq implements global luminance histogram equalization. It is the
// whole-frame fallback for CLAHE: one histogram, no tiling, no clipping.
type GlobalHistEq struct{}

// NewGlobalHistEq creates a new global histogram equalization stage
func NewGlobalHistEq() *GlobalHistEq {
	return &GlobalHistEq{}
}

func (g *GlobalHistEq) Apply(input *raster.Buffer, params map[string]interface{}) (*raster.Buffer, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input buffer: %w", err)
	}

	width := input.Width
	height := input.Height
	n := width * height

	lum := make([]float64, n)
	var hist [256]int
	for p := 0; p < n; p++ {
		i := p * raster.Channels
		lum[p] = raster.LumR*float64(input.Pix[i]) +
			raster.LumG*float64(input.Pix[i+1]) +
			raster.LumB*float64(input.Pix[i+2])
		hist[lumBin(lum[p])]++
	}

	mapping := identityMapping()
	denom := float64(n - hist[0])
	if denom > 0 {
		cdf := 0
		for i := range hist {
			cdf += hist[i]
			mapping[i] = clampRound(float64(cdf-hist[0]) / denom * 255)
		}
	}

	output := input.Clone()
	for p := 0; p < n; p++ {
		l := lum[p]
		corrected := mapping[lumBin(l)]

		ratio := 1.0
		if l > 0 {
			ratio = float64(corrected) / l
		}

		i := p * raster.Channels
		output.Pix[i] = clampRound(float64(input.Pix[i]) * ratio)
		output.Pix[i+1] = clampRound(float64(input.Pix[i+1]) * ratio)
		output.Pix[i+2] = clampRound(float64(input.Pix[i+2]) * ratio)
	}

	return output, nil
}

func (g *GlobalHistEq) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (g *GlobalHistEq) GetName() string {
	return "Global Histogram Equalization"
}

func (g *GlobalHistEq) GetDescription() string {
	return "Whole-frame luminance histogram equalization"
}

func (g *GlobalHistEq) Validate(params map[string]interface{}) error {
	return nil
}

func (g *GlobalHistEq) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{}
}
