package renderer

import (
	"image"
	"math/bits"

	"github.com/Carmen-Shannon/stilllife/common"
	"github.com/Carmen-Shannon/stilllife/engine/mesh"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"github.com/anthonynsimon/bild/transform"
)

// minUniformOffsetAlignment is the WebGPU default for dynamic uniform buffer offsets.
const minUniformOffsetAlignment = 256

// mipLevel is one level of a texture's mip chain in tightly packed RGBA8.
type mipLevel struct {
	width  uint32
	height uint32
	pixels []byte
}

// uniformSlotStride returns the distance in bytes between consecutive per-draw uniform slots.
//
// Parameters:
//   - blockSize: the size of the uniform struct
//
// Returns:
//   - uint64: the block size rounded up to the dynamic offset alignment
func uniformSlotStride(blockSize uint64) uint64 {
	return common.RoundUpAlign(minUniformOffsetAlignment, blockSize)
}

// mipLevelCount returns the number of levels in a full mip chain down to 1x1.
func mipLevelCount(width, height int) uint32 {
	return uint32(bits.Len(uint(max(width, height, 1))))
}

// expandRGBA converts a 3 or 4 channel image into RGBA8, the only 8-bit color format WebGPU samples.
// Three channel images get an opaque alpha.
//
// Parameters:
//   - img: the decoded image
//
// Returns:
//   - []byte: RGBA8 pixels
func expandRGBA(img texture.Image) []byte {
	if img.Channels == 4 {
		return img.Pixels
	}
	n := img.Width * img.Height
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		out[i*4] = img.Pixels[i*3]
		out[i*4+1] = img.Pixels[i*3+1]
		out[i*4+2] = img.Pixels[i*3+2]
		out[i*4+3] = 0xff
	}
	return out
}

// buildMipChain downsamples RGBA8 pixels by halves until the level is 1x1.
// Channels are filtered independently with linear resampling.
//
// Parameters:
//   - width: the base level width
//   - height: the base level height
//   - rgba: the base level pixels
//
// Returns:
//   - []mipLevel: every level, base first
func buildMipChain(width, height int, rgba []byte) []mipLevel {
	levels := make([]mipLevel, 0, mipLevelCount(width, height))
	levels = append(levels, mipLevel{width: uint32(width), height: uint32(height), pixels: rgba})

	prev := &image.RGBA{Pix: rgba, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	w, h := width, height
	for w > 1 || h > 1 {
		w, h = max(1, w/2), max(1, h/2)
		next := transform.Resize(prev, w, h, transform.Linear)
		levels = append(levels, mipLevel{width: uint32(w), height: uint32(h), pixels: tightPixels(next)})
		prev = next
	}
	return levels
}

// tightPixels returns the pixels of img without any row padding.
func tightPixels(img *image.RGBA) []byte {
	b := img.Bounds()
	rowBytes := b.Dx() * 4
	if img.Stride == rowBytes {
		return img.Pix[:rowBytes*b.Dy()]
	}
	out := make([]byte, 0, rowBytes*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		out = append(out, img.Pix[y*img.Stride:y*img.Stride+rowBytes]...)
	}
	return out
}

// vertexBytes returns the interleaved vertex buffer contents of a geometry.
func vertexBytes(g mesh.Geometry) []byte {
	return common.SliceToBytes(g.Vertices)
}

// indexBytes returns the uint32 index buffer contents of a geometry.
func indexBytes(g mesh.Geometry) []byte {
	return common.SliceToBytes(g.Indices)
}
