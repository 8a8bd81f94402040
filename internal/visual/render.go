// Diagnostic rendering for pipeline tuning
package visual

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"frame-enhancement/internal/raster"
)

var (
	heatCold = colorful.Color{R: 0.10, G: 0.15, B: 0.45}
	heatHot  = colorful.Color{R: 0.95, G: 0.30, B: 0.10}
)

// RenderBackgroundModel saves a heatmap PNG of the shadow corrector's
// background estimate, normalized to the range of values actually present.
func RenderBackgroundModel(model []float64, width, height int, title, filename string) error {
	if model == nil {
		return fmt.Errorf("no background model learned yet")
	}
	if len(model) != width*height*3 {
		return fmt.Errorf("model length %d does not match %dx%dx3", len(model), width, height)
	}

	// Collapse RGB to luminance, tracking the value range for normalization.
	lum := make([]float64, width*height)
	min, max := 1e18, -1e18
	for p := range lum {
		l := raster.LumR*model[p*3] + raster.LumG*model[p*3+1] + raster.LumB*model[p*3+2]
		lum[p] = l
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := (lum[y*width+x] - min) / span
			r, g, b := heatCold.BlendLuv(heatHot, t).Clamped().RGB255()
			i := img.PixOffset(x, y)
			img.Pix[i] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 255
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 10, 20)
	return dc.SavePNG(filename)
}

// RenderTileGrid saves the frame with the CLAHE tile boundaries drawn over
// it, showing where nearest-tile mapping discontinuities can appear.
func RenderTileGrid(buf *raster.Buffer, tilesPerAxis int, filename string) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("invalid buffer: %w", err)
	}
	if tilesPerAxis < 1 {
		return fmt.Errorf("tiles_per_axis must be positive, got %d", tilesPerAxis)
	}

	tileWidth := (buf.Width + tilesPerAxis - 1) / tilesPerAxis
	tileHeight := (buf.Height + tilesPerAxis - 1) / tilesPerAxis

	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	copy(img.Pix, buf.Pix)

	dc := gg.NewContextForImage(img)
	dc.SetRGBA(1, 1, 0, 0.8)
	dc.SetLineWidth(1)
	for tx := 1; tx < tilesPerAxis; tx++ {
		x := float64(tx * tileWidth)
		if x >= float64(buf.Width) {
			break
		}
		dc.DrawLine(x, 0, x, float64(buf.Height))
	}
	for ty := 1; ty < tilesPerAxis; ty++ {
		y := float64(ty * tileHeight)
		if y >= float64(buf.Height) {
			break
		}
		dc.DrawLine(0, y, float64(buf.Width), y)
	}
	dc.Stroke()

	return dc.SavePNG(filename)
}
