package metrics

import (
	"math"
	"testing"

	"frame-enhancement/internal/raster"
)

func greyFrame(width, height int, v uint8) *raster.Buffer {
	buf := raster.New(width, height)
	for i := 0; i < len(buf.Pix); i += raster.Channels {
		buf.Pix[i] = v
		buf.Pix[i+1] = v
		buf.Pix[i+2] = v
		buf.Pix[i+3] = 255
	}
	return buf
}

func TestPSNRIdenticalFrames(t *testing.T) {
	frame := greyFrame(4, 4, 100)
	got, err := NewPSNR().Calculate(frame, frame.Clone())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !math.IsInf(got, 1) {
		t.Errorf("PSNR of identical frames = %v, want +Inf", got)
	}
}

func TestMSEKnownDifference(t *testing.T) {
	// Uniform grey frames 10 levels apart differ by 10 in luminance
	// everywhere, so the mean squared error is 100.
	a := greyFrame(4, 4, 100)
	b := greyFrame(4, 4, 110)

	got, err := NewMSE().Calculate(a, b)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if math.Abs(got-100) > 1e-6 {
		t.Errorf("MSE = %v, want 100", got)
	}

	psnr, err := NewPSNR().Calculate(a, b)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	want := 20 * math.Log10(255/math.Sqrt(got))
	if math.Abs(psnr-want) > 1e-9 {
		t.Errorf("PSNR = %v, want %v", psnr, want)
	}
}

func TestContrastRatioFlatOriginal(t *testing.T) {
	flat := greyFrame(4, 4, 128)
	busy := greyFrame(4, 4, 128)
	busy.SetRGBA(0, 0, 255, 255, 255, 255)

	got, err := NewContrastRatio().Calculate(flat, busy)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if got != 1.0 {
		t.Errorf("ratio against a zero-contrast original = %v, want 1.0", got)
	}
}

func TestMetricsDimensionMismatch(t *testing.T) {
	a := greyFrame(4, 4, 100)
	b := greyFrame(3, 4, 100)

	for _, m := range []Metric{NewPSNR(), NewMSE(), NewContrastRatio()} {
		if _, err := m.Calculate(a, b); err == nil {
			t.Errorf("%s accepted mismatched dimensions", m.GetName())
		}
	}
}

func TestEvaluator(t *testing.T) {
	e := NewEvaluator()
	a := greyFrame(4, 4, 100)
	b := greyFrame(4, 4, 110)

	results := e.EvaluateAll(a, b)
	for _, name := range []string{"psnr", "mse", "contrast_ratio"} {
		if _, ok := results[name]; !ok {
			t.Errorf("EvaluateAll missing %q", name)
		}
	}

	if _, err := e.Calculate("nonexistent", a, b); err == nil {
		t.Error("Calculate accepted an unregistered metric name")
	}
}

func TestEvaluateAllSkipsFailures(t *testing.T) {
	e := NewEvaluator()
	a := greyFrame(4, 4, 100)
	b := greyFrame(5, 5, 100)

	if results := e.EvaluateAll(a, b); len(results) != 0 {
		t.Errorf("EvaluateAll on mismatched frames returned %v", results)
	}
}
