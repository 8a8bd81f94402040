// Quality metrics for before/after frame comparison
package metrics

import (
	"fmt"

	"frame-enhancement/internal/raster"
)

// Metric defines the interface for quality metrics
type Metric interface {
	Calculate(original, processed *raster.Buffer) (float64, error)
	GetName() string
	GetDescription() string
	GetRange() (float64, float64)
	IsHigherBetter() bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("psnr", NewPSNR())
	e.Register("mse", NewMSE())
	e.Register("contrast_ratio", NewContrastRatio())
}

func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

func (e *Evaluator) Calculate(name string, original, processed *raster.Buffer) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}
	return metric.Calculate(original, processed)
}

// EvaluateAll computes every registered metric, skipping ones that fail.
func (e *Evaluator) EvaluateAll(original, processed *raster.Buffer) map[string]float64 {
	result := make(map[string]float64)
	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			result[name] = value
		}
	}
	return result
}
