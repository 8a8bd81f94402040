package stages

import (
	"testing"
)

func TestRegistryContainsAllStages(t *testing.T) {
	for _, name := range []string{
		"denoise",
		"shadow_correction",
		"brightness_norm",
		"clahe",
		"histogram_eq",
		"unsharp",
	} {
		t.Run(name, func(t *testing.T) {
			if !IsValidStage(name) {
				t.Fatalf("stage %q not registered", name)
			}
			stage, err := New(name)
			if err != nil {
				t.Fatalf("New(%q): %v", name, err)
			}
			if stage.GetName() == "" || stage.GetDescription() == "" {
				t.Error("stage is missing a name or description")
			}
			if err := stage.Validate(stage.GetDefaultParams()); err != nil {
				t.Errorf("default params rejected: %v", err)
			}
		})
	}
}

func TestNewUnknownStage(t *testing.T) {
	if _, err := New("nonexistent"); err == nil {
		t.Error("New accepted an unregistered stage name")
	}
	if IsValidStage("nonexistent") {
		t.Error("IsValidStage reported an unregistered stage as valid")
	}
}

func TestFactoriesReturnFreshInstances(t *testing.T) {
	a, err := New("shadow_correction")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New("shadow_correction")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Stateful stages must not share their background model.
	frame := uniformBuffer(2, 2, 100)
	if _, err := a.Apply(frame, nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if b.(*ShadowCorrector).Model() != nil {
		t.Error("two registry instances share background state")
	}
}

func TestValidateParameters(t *testing.T) {
	if err := ValidateParameters("clahe", map[string]interface{}{"clip_limit": 2.5}); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
	if err := ValidateParameters("clahe", map[string]interface{}{"clip_limit": 500.0}); err == nil {
		t.Error("invalid params accepted")
	}
	if err := ValidateParameters("nonexistent", nil); err == nil {
		t.Error("unknown stage accepted")
	}
}
