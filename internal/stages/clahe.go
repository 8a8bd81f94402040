package stages

import (
	"fmt"
	"math"

	"frame-enhancement/internal/raster"
)

const (
	defaultTilesPerAxis = 8
	defaultClipLimit    = 2.5
)

// CLAHE implements contrast-limited adaptive histogram equalization over a
// fixed grid of tiles. Each pixel consults the mapping of its own tile only;
// there is no blending across tile boundaries.
type CLAHE struct{}

// NewCLAHE creates a new adaptive contrast enhancement stage
func NewCLAHE() *CLAHE {
	return &CLAHE{}
}

func (c *CLAHE) Apply(input *raster.Buffer, params map[string]interface{}) (*raster.Buffer, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input buffer: %w", err)
	}

	tiles := defaultTilesPerAxis
	if val, ok := params["tiles_per_axis"]; ok {
		if v, ok := val.(float64); ok {
			tiles = int(v)
		} else if v, ok := val.(int); ok {
			tiles = v
		}
	}
	if tiles < 1 {
		tiles = 1
	}

	clipLimit := defaultClipLimit
	if val, ok := params["clip_limit"]; ok {
		if v, ok := val.(float64); ok {
			clipLimit = v
		}
	}

	width := input.Width
	height := input.Height

	lum := make([]float64, width*height)
	for p := 0; p < width*height; p++ {
		i := p * raster.Channels
		lum[p] = raster.LumR*float64(input.Pix[i]) +
			raster.LumG*float64(input.Pix[i+1]) +
			raster.LumB*float64(input.Pix[i+2])
	}

	tileWidth := (width + tiles - 1) / tiles
	tileHeight := (height + tiles - 1) / tiles

	// One luminance mapping per tile, scoped to this call.
	mappings := make([][256]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0 := tx * tileWidth
			y0 := ty * tileHeight
			x1 := x0 + tileWidth
			y1 := y0 + tileHeight
			if x1 > width {
				x1 = width
			}
			if y1 > height {
				y1 = height
			}
			mappings[ty*tiles+tx] = tileMapping(lum, width, x0, y0, x1, y1, clipLimit)
		}
	}

	output := input.Clone()
	for y := 0; y < height; y++ {
		ty := y / tileHeight
		if ty >= tiles {
			ty = tiles - 1
		}
		for x := 0; x < width; x++ {
			tx := x / tileWidth
			if tx >= tiles {
				tx = tiles - 1
			}
			mapping := &mappings[ty*tiles+tx]

			l := lum[y*width+x]
			corrected := mapping[lumBin(l)]

			ratio := 1.0
			if l > 0 {
				ratio = float64(corrected) / l
			}

			i := input.Offset(x, y)
			output.Pix[i] = clampRound(float64(input.Pix[i]) * ratio)
			output.Pix[i+1] = clampRound(float64(input.Pix[i+1]) * ratio)
			output.Pix[i+2] = clampRound(float64(input.Pix[i+2]) * ratio)
		}
	}

	return output, nil
}

// tileMapping builds the clip-limited equalization lookup table for one tile.
// A degenerate tile (no pixels, or zero normalization range) maps to identity.
func tileMapping(lum []float64, stride, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var mapping [256]uint8

	count := (x1 - x0) * (y1 - y0)
	if count <= 0 {
		return identityMapping()
	}

	var hist [256]float64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[lumBin(lum[y*stride+x])]++
		}
	}

	// The average-bin-count factor uses integer division, so tiles smaller
	// than 256 pixels floor to a zero limit and redistribute everything,
	// which leaves the mapping at identity for flat histograms.
	limit := clipLimit * float64(count/256)
	excess := 0.0
	for i := range hist {
		if hist[i] > limit {
			excess += hist[i] - limit
			hist[i] = limit
		}
	}
	share := excess / 256
	for i := range hist {
		hist[i] += share
	}

	cdf := 0.0
	first := hist[0]
	denom := float64(count) - first
	if denom <= 0 {
		return identityMapping()
	}
	for i := range hist {
		cdf += hist[i]
		mapping[i] = clampRound((cdf - first) / denom * 255)
	}
	return mapping
}

func identityMapping() [256]uint8 {
	var mapping [256]uint8
	for i := range mapping {
		mapping[i] = uint8(i)
	}
	return mapping
}

// lumBin quantizes a luminance value to a histogram bin index.
func lumBin(l float64) int {
	b := int(math.Round(l))
	if b < 0 {
		return 0
	}
	if b > 255 {
		return 255
	}
	return b
}

func (c *CLAHE) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"tiles_per_axis": float64(defaultTilesPerAxis),
		"clip_limit":     defaultClipLimit,
	}
}

func (c *CLAHE) GetName() string {
	return "CLAHE"
}

func (c *CLAHE) GetDescription() string {
	return "Tiled, clip-limited local histogram equalization"
}

func (c *CLAHE) Validate(params map[string]interface{}) error {
	if val, ok := params["tiles_per_axis"]; ok {
		if v, ok := val.(float64); ok {
			if v < 1 || v > 64 {
				return fmt.Errorf("tiles_per_axis must be between 1 and 64")
			}
		}
	}

	if val, ok := params["clip_limit"]; ok {
		if v, ok := val.(float64); ok {
			if v < 0.1 || v > 100.0 {
				return fmt.Errorf("clip_limit must be between 0.1 and 100.0")
			}
		}
	}

	return nil
}

func (c *CLAHE) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "tiles_per_axis",
			Type:        "int",
			Min:         1.0,
			Max:         64.0,
			Default:     float64(defaultTilesPerAxis),
			Description: "Tile grid size along each axis",
		},
		{
			Name:        "clip_limit",
			Type:        "float",
			Min:         0.1,
			Max:         100.0,
			Default:     defaultClipLimit,
			Description: "Histogram clip limit as a multiple of the average bin count",
		},
	}
}
