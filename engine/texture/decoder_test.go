package texture

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, name string, img image.Image, encode func(io.Writer, image.Image) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f, img))
	return path
}

// redOverBlue is a 1x2 image with a red top row and a blue bottom row.
func redOverBlue() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestDecodePNGFlipsRows(t *testing.T) {
	path := writeImage(t, "flip.png", redOverBlue(), png.Encode)

	img, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Width)
	assert.Equal(t, 2, img.Height)
	require.Equal(t, 3, img.Channels)
	assert.Equal(t, []byte{0, 0, 255, 255, 0, 0}, img.Pixels)
}

func TestDecodePalettedHasFourChannels(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 1, 2), color.Palette{
		color.RGBA{R: 255, A: 255},
		color.RGBA{B: 255, A: 255},
	})
	src.SetColorIndex(0, 0, 0)
	src.SetColorIndex(0, 1, 1)

	for name, encode := range map[string]func(io.Writer, image.Image) error{
		"paletted.png": png.Encode,
		"paletted.gif": func(w io.Writer, img image.Image) error { return gif.Encode(w, img, nil) },
	} {
		t.Run(name, func(t *testing.T) {
			img, err := FileDecoder{}.Decode(writeImage(t, name, src, encode))
			require.NoError(t, err)
			require.Equal(t, 4, img.Channels)
			assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, img.Pixels)
		})
	}
}

func TestDecodePNGWithAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	path := writeImage(t, "alpha.png", src, png.Encode)

	img, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	require.Equal(t, 4, img.Channels)
	require.Len(t, img.Pixels, 4)
	assert.InDelta(t, 200, int(img.Pixels[0]), 2)
	assert.InDelta(t, 100, int(img.Pixels[1]), 2)
	assert.InDelta(t, 50, int(img.Pixels[2]), 2)
	assert.Equal(t, byte(128), img.Pixels[3])
}

func TestDecodeJPEGHasThreeChannels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 180
	}
	path := writeImage(t, "board.jpg", src, func(w io.Writer, m image.Image) error {
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 90})
	})

	img, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Channels)
	assert.Len(t, img.Pixels, 8*8*3)
}

func TestDecodeBMP(t *testing.T) {
	path := writeImage(t, "flip.bmp", redOverBlue(), bmp.Encode)

	img, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	require.Equal(t, 3, img.Channels)
	assert.Equal(t, []byte{0, 0, 255, 255, 0, 0}, img.Pixels)
}

func TestDecodeGrayIsSingleChannel(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	path := writeImage(t, "mask.png", src, png.Encode)

	img, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Channels)
	assert.False(t, validChannels(img.Channels))
}

func TestDecodeRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image at all"), 0o644))

	_, err := FileDecoder{}.Decode(path)
	assert.ErrorContains(t, err, "not an image")
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := FileDecoder{}.Decode(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
