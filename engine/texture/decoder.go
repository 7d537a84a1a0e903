package texture

import (
	"bytes"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FileDecoder decodes JPEG, PNG, GIF, BMP, TIFF and WebP files from disk.
type FileDecoder struct{}

var _ Decoder = FileDecoder{}

// Decode reads the file, checks its header is an image, decodes it and flips it vertically.
// The channel count reflects the source: 1 for grayscale, 3 for opaque color, 4 for paletted or translucent.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - Image: the decoded image
//   - error: error if the file cannot be read, is not an image, or fails to decode
func (FileDecoder) Decode(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return Image{}, fmt.Errorf("failed to sniff %s: %w", path, err)
	}
	if kind == filetype.Unknown || kind.MIME.Type != "image" {
		return Image{}, fmt.Errorf("%s is not an image (detected %q)", path, kind.MIME.Value)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode %s as %s: %w", path, kind.Extension, err)
	}

	channels := channelCount(src)
	flipped := transform.FlipV(src)
	b := flipped.Bounds()

	return Image{
		Pixels:   packPixels(flipped, channels),
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channels,
	}, nil
}

// channelCount reports how many channels the source image carries.
// Paletted images always get an alpha channel, even when every palette entry is opaque.
func channelCount(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return 1
	case *image.Paletted:
		return 4
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// packPixels copies a premultiplied RGBA image into a tight buffer with the given channel count,
// undoing the premultiplication so partially transparent texels keep their color.
func packPixels(img *image.RGBA, channels int) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, 0, w*h*channels)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, bl, a := row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]
			if a != 0 && a != 0xff {
				r = unpremultiply(r, a)
				g = unpremultiply(g, a)
				bl = unpremultiply(bl, a)
			}
			switch channels {
			case 1:
				out = append(out, r)
			case 3:
				out = append(out, r, g, bl)
			default:
				out = append(out, r, g, bl, a)
			}
		}
	}
	return out
}

func unpremultiply(c, a uint8) uint8 {
	return uint8(min(255, (uint32(c)*255+uint32(a)/2)/uint32(a)))
}
