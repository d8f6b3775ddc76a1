// Package imageproc decodes uploaded pictures and produces JPEG thumbnails
// for the catalog galleries.
package imageproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	// Quality settings
	qualityThumb = 60
	// Size settings (max dimension)
	maxSizeThumb = 300
)

// Info describes a decoded image.
type Info struct {
	Width  int
	Height int
	Format string
}

// Decode reads image metadata from raw bytes.
func Decode(data []byte) (*Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Thumbnail downscales the image to at most 300px on its longest side and
// re-encodes it as JPEG. Images already small enough are only re-encoded.
func Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxSizeThumb || bounds.Dy() > maxSizeThumb {
		img = imaging.Fit(img, maxSizeThumb, maxSizeThumb, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(qualityThumb)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
