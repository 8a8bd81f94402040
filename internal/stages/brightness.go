package stages

import (
	"fmt"

	"frame-enhancement/internal/raster"
)

const (
	brightnessTarget  = 128.0
	brightnessMinGain = 0.5
	brightnessMaxGain = 2.0
)

// BrightnessNormalizer applies global mean-luminance gain control
type BrightnessNormalizer struct{}

// NewBrightnessNormalizer creates a new brightness normalization stage
func NewBrightnessNormalizer() *BrightnessNormalizer {
	return &BrightnessNormalizer{}
}

func (b *BrightnessNormalizer) Apply(input *raster.Buffer, params map[string]interface{}) (*raster.Buffer, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input buffer: %w", err)
	}

	mean := input.MeanLuminance()
	if mean < 1 {
		// Effectively black frame; amplifying it would only amplify noise.
		return input, nil
	}

	gain := brightnessTarget / mean
	if gain < brightnessMinGain {
		gain = brightnessMinGain
	}
	if gain > brightnessMaxGain {
		gain = brightnessMaxGain
	}

	output := input.Clone()
	for i := 0; i < len(output.Pix); i += raster.Channels {
		output.Pix[i] = clampRound(float64(input.Pix[i]) * gain)
		output.Pix[i+1] = clampRound(float64(input.Pix[i+1]) * gain)
		output.Pix[i+2] = clampRound(float64(input.Pix[i+2]) * gain)
	}

	return output, nil
}

func (b *BrightnessNormalizer) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{}
}

func (b *BrightnessNormalizer) GetName() string {
	return "Brightness Normalization"
}

func (b *BrightnessNormalizer) GetDescription() string {
	return "Global mean-luminance gain control toward mid-grey"
}

func (b *BrightnessNormalizer) Validate(params map[string]interface{}) error {
	return nil
}

func (b *BrightnessNormalizer) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{}
}
