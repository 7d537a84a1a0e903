package texture

import "errors"

var (
	// ErrImageLoad reports an image that failed to decode or has an unsupported channel count.
	ErrImageLoad = errors.New("image load failed")

	// ErrTextureNotFound reports a tag lookup miss.
	ErrTextureNotFound = errors.New("texture not found")

	// ErrCapacityExceeded reports a registration past the available texture slots.
	ErrCapacityExceeded = errors.New("texture capacity exceeded")

	// ErrReleased reports use of a registry after ReleaseAll.
	ErrReleased = errors.New("texture registry released")
)

// NotFoundSlot is the slot FindSlot reports for an unknown tag.
const NotFoundSlot = -1

// DefaultCapacity is the number of texture slots available when none is configured.
const DefaultCapacity = 16

// Image is decoded pixel data ready for upload. Pixels are tightly packed with Channels bytes per
// pixel and the rows are stored bottom-up, which matches texture coordinates with v = 0 at the bottom.
type Image struct {
	Pixels   []byte
	Width    int
	Height   int
	Channels int
}

// Handle is an opaque reference to a GPU texture owned by a Device.
type Handle uint64

// Source pairs an image file with the tag it is registered under.
type Source struct {
	Path string
	Tag  string
}

// Decoder turns an image file into pixel data.
type Decoder interface {
	// Decode reads and decodes the image at path.
	//
	// Parameters:
	//   - path: the image file path
	//
	// Returns:
	//   - Image: the decoded, vertically flipped image
	//   - error: error if the file cannot be read or decoded
	Decode(path string) (Image, error)
}

// Device creates, binds and releases GPU textures.
type Device interface {
	// CreateTexture uploads an RGB or RGBA image with repeat wrapping, linear filtering and a full mip chain.
	//
	// Parameters:
	//   - label: debug label for the GPU objects
	//   - img: the image to upload, 3 or 4 channels
	//
	// Returns:
	//   - Handle: the new texture
	//   - error: error if the upload fails
	CreateTexture(label string, img Image) (Handle, error)

	// BindSlot makes a texture resolvable through a sampler slot index.
	//
	// Parameters:
	//   - slot: the slot index
	//   - h: the texture to bind
	//
	// Returns:
	//   - error: error if the handle is unknown or the slot is out of range
	BindSlot(slot int, h Handle) error

	// ReleaseTexture frees a texture. Releasing an unknown handle is a no-op.
	//
	// Parameters:
	//   - h: the texture to release
	ReleaseTexture(h Handle)
}

// validChannels reports whether the channel count can be uploaded.
func validChannels(channels int) bool {
	return channels == 3 || channels == 4
}
