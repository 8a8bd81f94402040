package raster

import (
	"bytes"
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		buf     *Buffer
		wantErr bool
	}{
		{"valid", New(4, 3), false},
		{"nil", nil, true},
		{"zero_width", &Buffer{Width: 0, Height: 3, Pix: []uint8{}}, true},
		{"negative_height", &Buffer{Width: 4, Height: -1, Pix: []uint8{}}, true},
		{"short_pix", &Buffer{Width: 2, Height: 2, Pix: make([]uint8, 15)}, true},
		{"long_pix", &Buffer{Width: 2, Height: 2, Pix: make([]uint8, 17)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromPix(t *testing.T) {
	pix := make([]uint8, 2*3*Channels)
	buf, err := FromPix(2, 3, pix)
	if err != nil {
		t.Fatalf("FromPix: %v", err)
	}
	if buf.Width != 2 || buf.Height != 3 {
		t.Errorf("got %dx%d, want 2x3", buf.Width, buf.Height)
	}

	if _, err := FromPix(2, 3, make([]uint8, 5)); err == nil {
		t.Error("FromPix accepted a mismatched pixel slice")
	}
}

func TestClone(t *testing.T) {
	buf := New(2, 2)
	buf.SetRGBA(1, 1, 10, 20, 30, 40)

	clone := buf.Clone()
	if !bytes.Equal(clone.Pix, buf.Pix) {
		t.Fatal("clone pixels differ from original")
	}

	clone.SetRGBA(0, 0, 99, 99, 99, 99)
	if bytes.Equal(clone.Pix, buf.Pix) {
		t.Error("mutating the clone changed the original")
	}
}

func TestLuminanceAt(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    float64
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255 * (LumR + LumG + LumB)},
		{"red", 255, 0, 0, 255 * LumR},
		{"green", 0, 255, 0, 255 * LumG},
		{"blue", 0, 0, 255, 255 * LumB},
		{"grey", 128, 128, 128, 128 * (LumR + LumG + LumB)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := New(1, 1)
			buf.SetRGBA(0, 0, tt.r, tt.g, tt.b, 255)
			got := buf.LuminanceAt(0, 0)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LuminanceAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeanLuminance(t *testing.T) {
	buf := New(3, 3)
	for i := 0; i < len(buf.Pix); i += Channels {
		buf.Pix[i] = 100
		buf.Pix[i+1] = 100
		buf.Pix[i+2] = 100
		buf.Pix[i+3] = 255
	}

	want := 100 * (LumR + LumG + LumB)
	if got := buf.MeanLuminance(); math.Abs(got-want) > 1e-9 {
		t.Errorf("MeanLuminance = %v, want %v", got, want)
	}
}
