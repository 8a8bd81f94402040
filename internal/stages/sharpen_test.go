package stages

import (
	"bytes"
	"testing"

	"frame-enhancement/internal/raster"
)

func TestSharpenUniformUnchanged(t *testing.T) {
	input := uniformBuffer(5, 5, 90)
	want := input.Clone()

	output, err := NewUnsharpSharpener().Apply(input, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(output.Pix, want.Pix) {
		t.Error("uniform frame changed under unsharp masking")
	}
}

func TestSharpenBorderUnchanged(t *testing.T) {
	input := checkerBuffer(6, 6, 20, 230)
	output, err := NewUnsharpSharpener().Apply(input, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	for y := 0; y < input.Height; y++ {
		for x := 0; x < input.Width; x++ {
			if x > 0 && x < input.Width-1 && y > 0 && y < input.Height-1 {
				continue
			}
			i := input.Offset(x, y)
			for c := 0; c < raster.Channels; c++ {
				if output.Pix[i+c] != input.Pix[i+c] {
					t.Fatalf("border pixel (%d,%d) changed", x, y)
				}
			}
		}
	}
}

// A bright spot on a flat field: the blur pulls the spot down, the mask
// amplifies the difference back up until it clips.
func TestSharpenAmplifiesDetail(t *testing.T) {
	input := uniformBuffer(3, 3, 100)
	input.SetRGBA(1, 1, 200, 200, 200, 255)

	output, err := NewUnsharpSharpener().Apply(input, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Blurred center: (200*4 + 100*12 + 8) / 16 = 125. Difference 75,
	// 200 + 1.5*75 = 312.5, clamps to 255.
	i := output.Offset(1, 1)
	for c := 0; c < 3; c++ {
		if output.Pix[i+c] != 255 {
			t.Errorf("center channel %d = %d, want 255", c, output.Pix[i+c])
		}
	}
}

func TestSharpenZeroAmountIdentity(t *testing.T) {
	input := checkerBuffer(5, 5, 60, 190)
	want := input.Clone()

	output, err := NewUnsharpSharpener().Apply(input, map[string]interface{}{"amount": 0.0})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(output.Pix, want.Pix) {
		t.Error("amount 0 should leave the frame untouched")
	}
}

func TestSharpenPreservesAlpha(t *testing.T) {
	input := uniformBuffer(3, 3, 100)
	input.SetRGBA(1, 1, 200, 200, 200, 77)

	output, err := NewUnsharpSharpener().Apply(input, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := output.Pix[output.Offset(1, 1)+3]; got != 77 {
		t.Errorf("interior alpha = %d, want 77", got)
	}
}

func TestSharpenValidate(t *testing.T) {
	u := NewUnsharpSharpener()
	if err := u.Validate(map[string]interface{}{"amount": 1.5}); err != nil {
		t.Errorf("valid amount rejected: %v", err)
	}
	if err := u.Validate(map[string]interface{}{"amount": 11.0}); err == nil {
		t.Error("out-of-range amount accepted")
	}
	if err := u.Validate(map[string]interface{}{"amount": -0.5}); err == nil {
		t.Error("negative amount accepted")
	}
}
