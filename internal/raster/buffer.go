// Dense RGBA8 raster buffer shared by all pipeline stages
package raster

import (
	"fmt"
)

// Channels per pixel: R, G, B, A.
const Channels = 4

// Luminance weights (ITU-R BT.601).
const (
	LumR = 0.299
	LumG = 0.587
	LumB = 0.114
)

// Buffer is a width*height RGBA8 raster stored row-major in a flat slice.
// The length of Pix is always Width*Height*4.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed buffer of the given dimensions.
func New(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// FromPix wraps an existing pixel slice. The slice is used directly, not copied.
func FromPix(width, height int, pix []uint8) (*Buffer, error) {
	b := &Buffer{Width: width, Height: height, Pix: pix}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the buffer invariant. A mismatched pixel slice is a caller
// contract violation and must be rejected before any stage touches the data.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * Channels; len(b.Pix) != want {
		return fmt.Errorf("pixel slice length %d does not match %dx%dx%d=%d",
			len(b.Pix), b.Width, b.Height, Channels, want)
	}
	return nil
}

// Clone returns a deep copy with its own pixel storage.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    make([]uint8, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// Offset returns the index of pixel (x, y) in Pix.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// RGBA returns the four channel values of pixel (x, y).
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// SetRGBA stores the four channel values of pixel (x, y).
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// LuminanceAt returns the weighted luminance of pixel (x, y).
func (b *Buffer) LuminanceAt(x, y int) float64 {
	i := b.Offset(x, y)
	return LumR*float64(b.Pix[i]) + LumG*float64(b.Pix[i+1]) + LumB*float64(b.Pix[i+2])
}

// MeanLuminance returns the average luminance over the whole frame.
func (b *Buffer) MeanLuminance() float64 {
	sum := 0.0
	for i := 0; i < len(b.Pix); i += Channels {
		sum += LumR*float64(b.Pix[i]) + LumG*float64(b.Pix[i+1]) + LumB*float64(b.Pix[i+2])
	}
	return sum / float64(b.Width*b.Height)
}
