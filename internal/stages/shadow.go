package stages

import (
	"fmt"

	"frame-enhancement/internal/raster"
)

const (
	// Per-frame adaptation rate; roughly a 200-frame time constant.
	shadowAlpha = 0.005
	// Background values at or below this are too dark to divide by.
	shadowFloor = 10.0
	// Corrected pixels are rescaled toward mid-grey.
	shadowTarget = 128.0
)

// ShadowCorrector removes multiplicative shading by dividing each pixel by a
// slowly adapting per-pixel background estimate. It is the only stateful
// stage: the model persists across calls on the same instance.
type ShadowCorrector struct {
	model []float64 // width*height*3, per-pixel RGB running average
}

// NewShadowCorrector creates a shadow correction stage with no learned model
func NewShadowCorrector() *ShadowCorrector {
	return &ShadowCorrector{}
}

func (s *ShadowCorrector) Apply(input *raster.Buffer, params map[string]interface{}) (*raster.Buffer, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input buffer: %w", err)
	}

	width := input.Width
	height := input.Height
	n := width * height

	// First frame (or a resolution change) is a learning-only pass: seed the
	// model from the frame and return it untouched.
	if s.model == nil || len(s.model) != n*3 {
		s.model = make([]float64, n*3)
		for p := 0; p < n; p++ {
			i := p * raster.Channels
			s.model[p*3] = float64(input.Pix[i])
			s.model[p*3+1] = float64(input.Pix[i+1])
			s.model[p*3+2] = float64(input.Pix[i+2])
		}
		return input, nil
	}

	output := input.Clone()
	for p := 0; p < n; p++ {
		i := p * raster.Channels
		for c := 0; c < 3; c++ {
			pixel := float64(input.Pix[i+c])
			m := (1-shadowAlpha)*s.model[p*3+c] + shadowAlpha*pixel
			s.model[p*3+c] = m
			if m > shadowFloor {
				output.Pix[i+c] = clampRound(pixel / m * shadowTarget)
			}
		}
	}

	return output, nil
}

// Reset discards the learned model; the next Apply re-enters the
// learning-only branch. Use when the scene background changes materially.
func (s *ShadowCorrector) Reset() {
	s.model = nil
}

// Model exposes the current background estimate (length width*height*3, or
// nil before the first pass). Callers must treat it as read-only.
func (s *ShadowCorrector) Model() []float64 {
	return s.model
}

func (s *ShadowCorrector) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (s *ShadowCorrector) GetName() string {
	return "Background Shadow Correction"
}

func (s *ShadowCorrector) GetDescription() string {
	return "Divide-by-background correction with a persistent exponential background model"
}

func (s *ShadowCorrector) Validate(params map[string]interface{}) error {
	return nil
}

func (s *ShadowCorrector) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{}
}
