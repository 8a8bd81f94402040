// Stage system for the frame enhancement pipeline
package stages

import (
	"fmt"

	"frame-enhancement/internal/raster"
)

// Stage defines the interface for pixel-transform stages
type Stage interface {
	Apply(input *raster.Buffer, params map[string]interface{}) (*raster.Buffer, error)
	GetDefaultParams() map[string]interface{}
	GetName() string
	GetDescription() string
	Validate(params map[string]interface{}) error
	GetParameterInfo() []ParameterInfo
}

// ParameterInfo describes a stage parameter for configuration surfaces
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "int", "float", "bool"
	Min         interface{} `json:"min,omitempty"`
	Max         interface{} `json:"max,omitempty"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
}

// Factories rather than singletons: the shadow corrector carries persistent
// state, so every pipeline instance needs its own copy of each stage.
var factories = make(map[string]func() Stage)

func Register(name string, factory func() Stage) {
	factories[name] = factory
}

func New(name string) (Stage, error) {
	factory, exists := factories[name]
	if !exists {
		return nil, fmt.Errorf("stage not found: %s", name)
	}
	return factory(), nil
}

func IsValidStage(name string) bool {
	_, exists := factories[name]
	return exists
}

func ValidateParameters(name string, params map[string]interface{}) error {
	stage, err := New(name)
	if err != nil {
		return err
	}
	return stage.Validate(params)
}

// GetAllStages returns one fresh instance per registered stage.
func GetAllStages() map[string]Stage {
	result := make(map[string]Stage)
	for name, factory := range factories {
		result[name] = factory()
	}
	return result
}

func init() {
	Register("denoise", func() Stage { return NewGaussianDenoiser() })
	Register("shadow_correction", func() Stage { return NewShadowCorrector() })
	Register("brightness_norm", func() Stage { return NewBrightnessNormalizer() })
	Register("clahe", func() Stage { return NewCLAHE() })
	Register("histogram_eq", func() Stage { return NewGlobalHistEq() })
	Register("unsharp", func() Stage { return NewUnsharpSharpener() })
}
