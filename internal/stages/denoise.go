package stages

import (
	"fmt"

	"frame-enhancement/internal/raster"
)

// GaussianDenoiser implements the fixed 3x3 smoothing convolution
type GaussianDenoiser struct{}

// NewGaussianDenoiser creates a new Gaussian denoise stage
func NewGaussianDenoiser() *GaussianDenoiser {
	return &GaussianDenoiser{}
}

func (g *GaussianDenoiser) Apply(input *raster.Buffer, params map[string]interface{}) (*raster.Buffer, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input buffer: %w", err)
	}

	// Border pixels are copied verbatim; the clone covers them up front.
	output := input.Clone()

	width := input.Width
	height := input.Height

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			for c := 0; c < 3; c++ {
				sum := 0
				k := 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						sum += smoothKernel[k] * int(input.Pix[input.Offset(x+dx, y+dy)+c])
						k++
					}
				}
				// Integer round-to-nearest; weights are non-negative.
				output.Pix[output.Offset(x, y)+c] = uint8((sum + smoothKernelDiv/2) / smoothKernelDiv)
			}
			output.Pix[output.Offset(x, y)+3] = 255
		}
	}

	return output, nil
}

func (g *GaussianDenoiser) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (g *GaussianDenoiser) GetName() string {
	return "Gaussian Denoise"
}

func (g *GaussianDenoiser) GetDescription() string {
	return "Fixed 3x3 weighted smoothing for sensor noise reduction"
}

func (g *GaussianDenoiser) Validate(params map[string]interface{}) error {
	return nil
}

func (g *GaussianDenoiser) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{}
}
