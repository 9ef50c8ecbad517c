// Package images decodes captured label photos.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// MaxPixels caps the declared size of a photo. A 48 megapixel phone capture
// still fits.
const MaxPixels = 50_000_000

var (
	// ErrUnsupportedFormat is returned for anything other than PNG or JPEG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooManyPixels is returned when the header declares an empty image or
	// one larger than MaxPixels.
	ErrTooManyPixels = errors.New("image dimensions out of range")
)

// Decoded is a decoded photo together with its source format.
type Decoded struct {
	Image  image.Image
	Format string
	Width  int
	Height int
}

// Decode parses PNG or JPEG bytes, applying the EXIF orientation phones
// write into camera captures.
func Decode(data []byte) (*Decoded, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to decode image: empty payload")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	// the pixel buffer is allocated from the header before any data is read
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	return &Decoded{
		Image:  img,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// EncodePNG re-encodes img losslessly for recognizers that take bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
