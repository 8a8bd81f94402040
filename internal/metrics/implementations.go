// Concrete implementations of quality metrics
package metrics

import (
	"fmt"
	"math"

	"frame-enhancement/internal/raster"
)

func checkPair(original, processed *raster.Buffer) error {
	if err := original.Validate(); err != nil {
		return fmt.Errorf("original: %w", err)
	}
	if err := processed.Validate(); err != nil {
		return fmt.Errorf("processed: %w", err)
	}
	if original.Width != processed.Width || original.Height != processed.Height {
		return fmt.Errorf("dimension mismatch: %dx%d vs %dx%d",
			original.Width, original.Height, processed.Width, processed.Height)
	}
	return nil
}

func luminanceMSE(original, processed *raster.Buffer) float64 {
	sumSquaredDiff := 0.0
	for y := 0; y < original.Height; y++ {
		for x := 0; x < original.Width; x++ {
			diff := original.LuminanceAt(x, y) - processed.LuminanceAt(x, y)
			sumSquaredDiff += diff * diff
		}
	}
	return sumSquaredDiff / float64(original.Width*original.Height)
}

// PSNR implements Peak Signal-to-Noise Ratio over luminance
type PSNR struct{}

func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed *raster.Buffer) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	mse := luminanceMSE(original, processed)
	if mse == 0 {
		return math.Inf(1), nil // Perfect match
	}

	maxVal := 255.0
	return 20 * math.Log10(maxVal/math.Sqrt(mse)), nil
}

func (p *PSNR) GetName() string {
	return "PSNR"
}

func (p *PSNR) GetDescription() string {
	return "Peak Signal-to-Noise Ratio - measures how much the frame changed"
}

func (p *PSNR) GetRange() (float64, float64) {
	return 0, 100 // Practical range, can go higher
}

func (p *PSNR) IsHigherBetter() bool {
	return true
}

// MSE implements Mean Squared Error over luminance
type MSE struct{}

func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed *raster.Buffer) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}
	return luminanceMSE(original, processed), nil
}

func (m *MSE) GetName() string {
	return "MSE"
}

func (m *MSE) GetDescription() string {
	return "Mean Squared Error between luminance channels"
}

func (m *MSE) GetRange() (float64, float64) {
	return 0, 65025 // 255^2
}

func (m *MSE) IsHigherBetter() bool {
	return false
}

// ContrastRatio measures how much luminance contrast the pipeline added
type ContrastRatio struct{}

func NewContrastRatio() *ContrastRatio {
	return &ContrastRatio{}
}

func (c *ContrastRatio) Calculate(original, processed *raster.Buffer) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	origContrast := luminanceStddev(original)
	if origContrast == 0 {
		return 1.0, nil
	}
	return luminanceStddev(processed) / origContrast, nil
}

// luminanceStddev uses the standard deviation of luminance as the contrast measure.
func luminanceStddev(buf *raster.Buffer) float64 {
	mean := buf.MeanLuminance()

	sumSquaredDiff := 0.0
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			diff := buf.LuminanceAt(x, y) - mean
			sumSquaredDiff += diff * diff
		}
	}
	return math.Sqrt(sumSquaredDiff / float64(buf.Width*buf.Height))
}

func (c *ContrastRatio) GetName() string {
	return "Contrast Ratio"
}

func (c *ContrastRatio) GetDescription() string {
	return "Ratio of processed to original luminance contrast"
}

func (c *ContrastRatio) GetRange() (float64, float64) {
	return 0, 2
}

func (c *ContrastRatio) IsHigherBetter() bool {
	return true
}
