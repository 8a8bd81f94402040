// Frame enhancement pipeline: stage selection, ordering and persistent state
package core

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"frame-enhancement/internal/raster"
	"frame-enhancement/internal/stages"
)

// Pipeline applies the enabled enhancement stages to each frame in a fixed
// order: denoise, shadow correction, brightness normalization, contrast
// enhancement, sharpening. It owns the shadow corrector's persistent
// background model, so one Pipeline instance serves one sequential stream of
// frames; concurrent streams need their own instances. Calls on a single
// instance are serialized internally.
type Pipeline struct {
	mu       sync.Mutex
	settings Settings
	logger   *slog.Logger

	denoise    *stages.GaussianDenoiser
	shadow     *stages.ShadowCorrector
	brightness *stages.BrightnessNormalizer
	clahe      *stages.CLAHE
	histEq     *stages.GlobalHistEq
	sharpen    *stages.UnsharpSharpener
}

func NewPipeline(settings Settings, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		settings:   settings,
		logger:     logger,
		denoise:    stages.NewGaussianDenoiser(),
		shadow:     stages.NewShadowCorrector(),
		brightness: stages.NewBrightnessNormalizer(),
		clahe:      stages.NewCLAHE(),
		histEq:     stages.NewGlobalHistEq(),
		sharpen:    stages.NewUnsharpSharpener(),
	}
}

// Process runs the enabled stages over a copy of source and returns the
// result. Output dimensions always equal input dimensions. When the pipeline
// is disabled the source is returned as-is, without a copy. The shadow
// correction stage mutates the persistent background model as a side effect;
// no other stage has cross-call state.
func (p *Pipeline) Process(source *raster.Buffer) (*raster.Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := source.Validate(); err != nil {
		return nil, fmt.Errorf("invalid source buffer: %w", err)
	}

	if !p.settings.Enabled {
		p.logger.Debug("PIPELINE: Disabled, passing frame through")
		return source, nil
	}

	start := time.Now()
	current := source.Clone()

	var err error
	if p.settings.Denoise {
		if current, err = p.runStage(p.denoise, current, nil); err != nil {
			return nil, err
		}
	}
	if p.settings.ShadowCorrection {
		if current, err = p.runStage(p.shadow, current, nil); err != nil {
			return nil, err
		}
	}
	if p.settings.BrightnessNorm {
		if current, err = p.runStage(p.brightness, current, nil); err != nil {
			return nil, err
		}
	}
	switch p.settings.Contrast {
	case ContrastCLAHE:
		params := map[string]interface{}{
			"tiles_per_axis": float64(p.settings.CLAHE.TilesPerAxis),
			"clip_limit":     p.settings.CLAHE.ClipLimit,
		}
		if current, err = p.runStage(p.clahe, current, params); err != nil {
			return nil, err
		}
	case ContrastHistEq:
		if current, err = p.runStage(p.histEq, current, nil); err != nil {
			return nil, err
		}
	}
	if p.settings.MotionBlurComp {
		params := map[string]interface{}{"amount": p.settings.SharpenAmount}
		if current, err = p.runStage(p.sharpen, current, params); err != nil {
			return nil, err
		}
	}

	p.logger.Debug("PIPELINE: Frame processed",
		"width", source.Width,
		"height", source.Height,
		"duration_ms", time.Since(start).Milliseconds())

	return current, nil
}

func (p *Pipeline) runStage(stage stages.Stage, input *raster.Buffer, params map[string]interface{}) (*raster.Buffer, error) {
	start := time.Now()
	output, err := stage.Apply(input, params)
	if err != nil {
		p.logger.Error("PIPELINE: Stage failed", "stage", stage.GetName(), "error", err)
		return nil, fmt.Errorf("stage %s: %w", stage.GetName(), err)
	}
	p.logger.Debug("PIPELINE: Stage completed",
		"stage", stage.GetName(),
		"duration_us", time.Since(start).Microseconds())
	return output, nil
}

// ResetBackground clears the persistent shadow model; the next shadow
// correction pass becomes a learning-only pass again.
func (p *Pipeline) ResetBackground() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Info("PIPELINE: Background model reset")
	p.shadow.Reset()
}

// BackgroundModel returns the current per-pixel background estimate, or nil
// before the first shadow correction pass. Read-only.
func (p *Pipeline) BackgroundModel() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shadow.Model()
}

// Settings returns the current settings.
func (p *Pipeline) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// SetSettings replaces the settings used for subsequent Process calls.
func (p *Pipeline) SetSettings(settings Settings) error {
	if err := settings.Finalize(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = settings
	p.logger.Debug("PIPELINE: Settings updated", "contrast", string(settings.Contrast))
	return nil
}
