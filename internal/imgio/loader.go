// Image file loading and saving for the enhancement CLI
package imgio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"frame-enhancement/internal/raster"
)

// Loader handles image file operations
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger,
	}
}

// LoadFrame reads an image file and converts it to an RGBA raster buffer.
func (l *Loader) LoadFrame(filepath string) (*raster.Buffer, error) {
	l.logger.Debug("Loading frame", "filepath", filepath)

	if !l.isSupportedImageFormat(filepath) {
		return nil, fmt.Errorf("unsupported image format: %s", filepath)
	}

	contents, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("read '%s': %w", filepath, err)
	}

	img, format, err := image.Decode(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("decode '%s': %w", filepath, err)
	}

	if format == "jpeg" {
		l.logCaptureMetadata(filepath, contents)
	}

	buf := FromImage(img)
	l.logger.Info("Frame loaded",
		"filepath", filepath,
		"format", format,
		"width", buf.Width,
		"height", buf.Height)

	return buf, nil
}

// SaveFrame writes a raster buffer to an image file; the format follows the
// file extension.
func (l *Loader) SaveFrame(buf *raster.Buffer, filepath string) error {
	l.logger.Debug("Saving frame", "filepath", filepath)

	if err := buf.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid buffer: %w", err)
	}

	out, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("create '%s': %w", filepath, err)
	}
	defer out.Close()

	img := ToImage(buf)
	switch strings.ToLower(getFileExtension(filepath)) {
	case ".png":
		err = png.Encode(out, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 95})
	case ".tiff", ".tif":
		err = tiff.Encode(out, img, nil)
	case ".bmp":
		err = bmp.Encode(out, img)
	default:
		return fmt.Errorf("unsupported image format: %s", filepath)
	}
	if err != nil {
		return fmt.Errorf("encode '%s': %w", filepath, err)
	}

	l.logger.Info("Frame saved",
		"filepath", filepath,
		"width", buf.Width,
		"height", buf.Height)

	return nil
}

// FromImage converts any decoded image to an RGBA raster buffer.
func FromImage(img image.Image) *raster.Buffer {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	buf := raster.New(bounds.Dx(), bounds.Dy())
	copy(buf.Pix, rgba.Pix)
	return buf
}

// ToImage wraps a raster buffer as an image.RGBA without copying pixels.
func ToImage(buf *raster.Buffer) *image.RGBA {
	return &image.RGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * raster.Channels,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}
}

// logCaptureMetadata logs camera EXIF fields when present. Failures are not
// errors; most synthetic frames carry no EXIF block at all.
func (l *Loader) logCaptureMetadata(filepath string, contents []byte) {
	x, err := exif.Decode(bytes.NewReader(contents))
	if err != nil {
		l.logger.Debug("No EXIF metadata", "filepath", filepath)
		return
	}

	fields := []slog.Attr{slog.String("filepath", filepath)}
	for _, name := range []exif.FieldName{exif.ExposureTime, exif.ISOSpeedRatings, exif.Orientation} {
		if tag, err := x.Get(name); err == nil {
			fields = append(fields, slog.String(string(name), tag.String()))
		}
	}
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "Capture metadata", fields...)
}

func (l *Loader) isSupportedImageFormat(filepath string) bool {
	ext := strings.ToLower(getFileExtension(filepath))
	for _, format := range []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"} {
		if ext == format {
			return true
		}
	}
	return false
}

func getFileExtension(filepath string) string {
	for i := len(filepath) - 1; i >= 0; i-- {
		if filepath[i] == '.' {
			return filepath[i:]
		}
		if filepath[i] == '/' || filepath[i] == '\\' {
			break
		}
	}
	return ""
}

// GetSupportedFormats lists the accepted file formats.
func (l *Loader) GetSupportedFormats() []string {
	return []string{"JPEG", "PNG", "TIFF", "BMP"}
}
