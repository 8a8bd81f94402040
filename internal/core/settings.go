// Pipeline configuration surface
package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

/* Example settings file ...

enabled: true
denoise: true
shadow_correction: true
brightness_norm: true
contrast: clahe
motion_blur_comp: false
clahe:
  tiles_per_axis: 8
  clip_limit: 2.5
sharpen_amount: 1.5

*/

// ContrastMode selects which contrast stage runs. CLAHE and global histogram
// equalization are mutually exclusive by construction.
type ContrastMode string

const (
	ContrastNone   ContrastMode = "none"
	ContrastCLAHE  ContrastMode = "clahe"
	ContrastHistEq ContrastMode = "histogram_eq"
)

// CLAHEParams holds the numeric parameters of the adaptive contrast stage.
type CLAHEParams struct {
	TilesPerAxis int     `yaml:"tiles_per_axis"`
	ClipLimit    float64 `yaml:"clip_limit"`
}

// Settings holds the pipeline enable flags and stage parameters. Callers may
// mutate settings between Process calls via Pipeline.SetSettings.
type Settings struct {
	Enabled          bool         `yaml:"enabled"`
	Denoise          bool         `yaml:"denoise"`
	ShadowCorrection bool         `yaml:"shadow_correction"`
	BrightnessNorm   bool         `yaml:"brightness_norm"`
	Contrast         ContrastMode `yaml:"contrast"`
	MotionBlurComp   bool         `yaml:"motion_blur_comp"`
	CLAHE            CLAHEParams  `yaml:"clahe"`
	SharpenAmount    float64      `yaml:"sharpen_amount"`
}

// DefaultSettings returns the documented defaults: every correction stage on,
// CLAHE as the contrast stage, sharpening off.
func DefaultSettings() Settings {
	return Settings{
		Enabled:          true,
		Denoise:          true,
		ShadowCorrection: true,
		BrightnessNorm:   true,
		Contrast:         ContrastCLAHE,
		MotionBlurComp:   false,
		CLAHE: CLAHEParams{
			TilesPerAxis: 8,
			ClipLimit:    2.5,
		},
		SharpenAmount: 1.5,
	}
}

// LoadSettings reads a YAML settings file and fills in defaults.
func LoadSettings(filename string) (Settings, error) {
	s := DefaultSettings()

	contents, err := os.ReadFile(filename)
	if err != nil {
		return s, fmt.Errorf("read '%s': %w", filename, err)
	}
	if err := yaml.Unmarshal(contents, &s); err != nil {
		return s, fmt.Errorf("parse '%s': %w", filename, err)
	}

	return s, s.Finalize()
}

// Save writes the settings as YAML.
func (s Settings) Save(filename string) error {
	if err := s.Finalize(); err != nil {
		return err
	}
	contents, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return os.WriteFile(filename, contents, 0644)
}

// Finalize does sanity checks and fills zero values with defaults.
func (s *Settings) Finalize() error {
	if s.Contrast == "" {
		s.Contrast = ContrastNone
	}
	switch s.Contrast {
	case ContrastNone, ContrastCLAHE, ContrastHistEq:
	default:
		return fmt.Errorf("no contrast mode named '%s'", s.Contrast)
	}

	if s.CLAHE.TilesPerAxis == 0 {
		s.CLAHE.TilesPerAxis = DefaultSettings().CLAHE.TilesPerAxis
	}
	if s.CLAHE.TilesPerAxis < 1 {
		return fmt.Errorf("clahe tiles_per_axis must be positive, got %d", s.CLAHE.TilesPerAxis)
	}
	if s.CLAHE.ClipLimit == 0 {
		s.CLAHE.ClipLimit = DefaultSettings().CLAHE.ClipLimit
	}
	if s.CLAHE.ClipLimit < 0 {
		return fmt.Errorf("clahe clip_limit must be non-negative, got %g", s.CLAHE.ClipLimit)
	}

	if s.SharpenAmount == 0 {
		s.SharpenAmount = DefaultSettings().SharpenAmount
	}
	if s.SharpenAmount < 0 {
		return fmt.Errorf("sharpen_amount must be non-negative, got %g", s.SharpenAmount)
	}

	return nil
}
