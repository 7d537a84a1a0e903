package texture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"
)

// entry is one registered texture. Its slot is its index in the registry.
type entry struct {
	tag    string
	handle Handle
}

// decoded is the outcome of decoding one Source ahead of registration.
type decoded struct {
	img Image
	err error
}

// registry is the implementation of the Registry interface.
type registry struct {
	device        Device
	decoder       Decoder
	logger        *zap.Logger
	capacity      int
	decodeWorkers int
	progress      func(done, total int)

	entries  []entry
	released bool
}

// Registry owns the textures of a scene and maps tags to the sampler slot each texture is bound to.
// Slots are assigned in registration order starting at 0.
type Registry interface {
	// Register decodes, uploads and records one texture. Failed registrations leave the registry unchanged.
	//
	// Parameters:
	//   - path: the image file path
	//   - tag: the tag the texture is looked up by
	//
	// Returns:
	//   - error: ErrCapacityExceeded when every slot is taken, ErrImageLoad when the image cannot be used,
	//     ErrReleased after ReleaseAll, or the device upload error
	Register(path, tag string) error

	// RegisterAll decodes every source, in parallel when more than one decode worker is configured,
	// and then registers the successes in slice order.
	//
	// Parameters:
	//   - sources: the textures to register
	//
	// Returns:
	//   - error: the joined per-source failures, nil if all succeeded
	RegisterAll(sources []Source) error

	// BindAll binds every registered texture to the slot matching its registration order.
	//
	// Returns:
	//   - error: the joined bind failures
	BindAll() error

	// FindSlot returns the slot of the first texture registered under tag.
	//
	// Parameters:
	//   - tag: the texture tag
	//
	// Returns:
	//   - int: the slot, NotFoundSlot on a miss
	//   - bool: false on a miss
	FindSlot(tag string) (int, bool)

	// Tags returns the registered tags in slot order.
	//
	// Returns:
	//   - []string: a copy of the tags
	Tags() []string

	// Count returns the number of registered textures.
	//
	// Returns:
	//   - int: the texture count
	Count() int

	// Capacity returns the maximum number of textures.
	//
	// Returns:
	//   - int: the slot count
	Capacity() int

	// ReleaseAll frees every texture once. Calling it again does nothing.
	ReleaseAll()
}

var _ Registry = &registry{}

// NewRegistry creates an empty registry uploading through device.
//
// Parameters:
//   - device: the GPU texture device
//   - options: functional options to configure the registry
//
// Returns:
//   - Registry: the new registry
func NewRegistry(device Device, options ...RegistryBuilderOption) Registry {
	r := &registry{
		device:        device,
		decoder:       FileDecoder{},
		logger:        zap.NewNop(),
		capacity:      DefaultCapacity,
		decodeWorkers: 1,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Register(path, tag string) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	if err := r.checkCapacity(tag); err != nil {
		return err
	}
	img, err := r.decoder.Decode(path)
	return r.add(path, tag, img, err)
}

func (r *registry) RegisterAll(sources []Source) error {
	if err := r.checkWritable(); err != nil {
		return err
	}

	// Only sources that can still get a slot are decoded ahead. Later ones are decoded on demand
	// when earlier failures leave room.
	ahead := min(max(r.capacity-len(r.entries), 0), len(sources))
	results := r.decodeAll(sources[:ahead])

	var errs []error
	for i, src := range sources {
		if err := r.checkCapacity(src.Tag); err != nil {
			errs = append(errs, err)
		} else {
			res := decoded{}
			if i < len(results) {
				res = results[i]
			} else {
				res.img, res.err = r.decoder.Decode(src.Path)
			}
			if err := r.add(src.Path, src.Tag, res.img, res.err); err != nil {
				errs = append(errs, err)
			}
		}
		if r.progress != nil {
			r.progress(i+1, len(sources))
		}
	}
	return errors.Join(errs...)
}

// decodeAll decodes every source and returns the results indexed like sources.
func (r *registry) decodeAll(sources []Source) []decoded {
	results := make([]decoded, len(sources))
	if r.decodeWorkers <= 1 || len(sources) < 2 {
		for i, src := range sources {
			results[i].img, results[i].err = r.decoder.Decode(src.Path)
		}
		return results
	}

	pool := worker.NewDynamicWorkerPool(min(r.decodeWorkers, len(sources)), len(sources), time.Second)
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		idx, path := i, src.Path
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				img, err := r.decoder.Decode(path)
				results[idx] = decoded{img: img, err: err}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return results
}

// add uploads one decoded image and appends it. decodeErr is the result of decoding path.
func (r *registry) add(path, tag string, img Image, decodeErr error) error {
	if err := r.checkCapacity(tag); err != nil {
		return err
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: %q: %w", ErrImageLoad, tag, decodeErr)
	}
	if !validChannels(img.Channels) {
		return fmt.Errorf("%w: %q from %s has %d channels, want 3 or 4", ErrImageLoad, tag, path, img.Channels)
	}

	h, err := r.device.CreateTexture(tag, img)
	if err != nil {
		return fmt.Errorf("failed to upload texture %q: %w", tag, err)
	}
	r.entries = append(r.entries, entry{tag: tag, handle: h})
	r.logger.Debug("registered texture",
		zap.String("tag", tag),
		zap.String("path", path),
		zap.Int("slot", len(r.entries)-1),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("channels", img.Channels),
	)
	return nil
}

func (r *registry) checkCapacity(tag string) error {
	if len(r.entries) >= r.capacity {
		return fmt.Errorf("%w: cannot register %q, all %d slots are in use", ErrCapacityExceeded, tag, r.capacity)
	}
	return nil
}

func (r *registry) checkWritable() error {
	if r.released {
		return ErrReleased
	}
	return nil
}

func (r *registry) BindAll() error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	var errs []error
	for slot, e := range r.entries {
		if err := r.device.BindSlot(slot, e.handle); err != nil {
			errs = append(errs, fmt.Errorf("failed to bind %q to slot %d: %w", e.tag, slot, err))
		}
	}
	return errors.Join(errs...)
}

func (r *registry) FindSlot(tag string) (int, bool) {
	for slot, e := range r.entries {
		if e.tag == tag {
			return slot, true
		}
	}
	return NotFoundSlot, false
}

func (r *registry) Tags() []string {
	tags := make([]string, len(r.entries))
	for i, e := range r.entries {
		tags[i] = e.tag
	}
	return tags
}

func (r *registry) Count() int {
	return len(r.entries)
}

func (r *registry) Capacity() int {
	return r.capacity
}

func (r *registry) ReleaseAll() {
	if r.released {
		return
	}
	for _, e := range r.entries {
		r.device.ReleaseTexture(e.handle)
	}
	r.logger.Debug("released textures", zap.Int("count", len(r.entries)))
	r.entries = nil
	r.released = true
}
