package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	data := encodePNG(t, 640, 480)
	info, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 640, info.Width)
	assert.Equal(t, 480, info.Height)
	assert.Equal(t, "png", info.Format)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	assert.Error(t, err)
}

func TestThumbnailDownscales(t *testing.T) {
	data := encodePNG(t, 1200, 800)
	thumb, err := Thumbnail(data)
	require.NoError(t, err)

	info, err := Decode(thumb)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", info.Format)
	assert.LessOrEqual(t, info.Width, 300)
	assert.LessOrEqual(t, info.Height, 300)
	// Aspect ratio preserved.
	assert.Equal(t, 300, info.Width)
	assert.Equal(t, 200, info.Height)
}

func TestThumbnailKeepsSmallImages(t *testing.T) {
	data := encodePNG(t, 100, 50)
	thumb, err := Thumbnail(data)
	require.NoError(t, err)

	info, err := Decode(thumb)
	require.NoError(t, err)
	assert.Equal(t, 100, info.Width)
	assert.Equal(t, 50, info.Height)
}
