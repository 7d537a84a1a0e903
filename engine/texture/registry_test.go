package texture

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	next     Handle
	created  []string
	bound    map[int]Handle
	released map[Handle]int
	failOn   string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{bound: map[int]Handle{}, released: map[Handle]int{}}
}

func (d *fakeDevice) CreateTexture(label string, img Image) (Handle, error) {
	if label == d.failOn {
		return 0, errors.New("out of memory")
	}
	d.next++
	d.created = append(d.created, label)
	return d.next, nil
}

func (d *fakeDevice) BindSlot(slot int, h Handle) error {
	d.bound[slot] = h
	return nil
}

func (d *fakeDevice) ReleaseTexture(h Handle) {
	d.released[h]++
}

// fakeDecoder serves images by path. Unknown paths fail.
type fakeDecoder struct {
	mu     sync.Mutex
	images map[string]Image
	calls  int
}

func (d *fakeDecoder) Decode(path string) (Image, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	img, ok := d.images[path]
	if !ok {
		return Image{}, fmt.Errorf("open %s: no such file", path)
	}
	return img, nil
}

func rgb() Image { return Image{Pixels: make([]byte, 12), Width: 2, Height: 2, Channels: 3} }
func rgba() Image { return Image{Pixels: make([]byte, 16), Width: 2, Height: 2, Channels: 4} }

func stillLifeDecoder() *fakeDecoder {
	return &fakeDecoder{images: map[string]Image{
		"marble.jpg": rgb(),
		"wood.jpg":   rgb(),
		"label.png":  rgba(),
		"mask.png":   {Pixels: make([]byte, 4), Width: 2, Height: 2, Channels: 1},
		"lumin.png":  {Pixels: make([]byte, 8), Width: 2, Height: 2, Channels: 2},
	}}
}

func TestRegisterAssignsSlotsInOrder(t *testing.T) {
	dev := newFakeDevice()
	r := NewRegistry(dev, WithDecoder(stillLifeDecoder()))

	require.NoError(t, r.Register("marble.jpg", "countertop"))
	require.NoError(t, r.Register("wood.jpg", "counter"))
	require.NoError(t, r.Register("label.png", "teabox"))

	slot, ok := r.FindSlot("counter")
	assert.True(t, ok)
	assert.Equal(t, 1, slot)
	assert.Equal(t, 3, r.Count())
	assert.Equal(t, []string{"countertop", "counter", "teabox"}, r.Tags())
	assert.Equal(t, []string{"countertop", "counter", "teabox"}, dev.created)
}

func TestFindSlotMiss(t *testing.T) {
	r := NewRegistry(newFakeDevice(), WithDecoder(stillLifeDecoder()))
	slot, ok := r.FindSlot("missing")
	assert.False(t, ok)
	assert.Equal(t, NotFoundSlot, slot)
}

func TestFindSlotFirstMatchWins(t *testing.T) {
	r := NewRegistry(newFakeDevice(), WithDecoder(stillLifeDecoder()))
	require.NoError(t, r.Register("marble.jpg", "dup"))
	require.NoError(t, r.Register("wood.jpg", "dup"))

	slot, ok := r.FindSlot("dup")
	assert.True(t, ok)
	assert.Equal(t, 0, slot)
}

func TestRegisterRejectsUnsupportedChannels(t *testing.T) {
	dev := newFakeDevice()
	r := NewRegistry(dev, WithDecoder(stillLifeDecoder()))

	for _, path := range []string{"mask.png", "lumin.png"} {
		err := r.Register(path, path)
		assert.ErrorIs(t, err, ErrImageLoad, path)
	}
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, dev.created)
}

func TestRegisterDecodeFailure(t *testing.T) {
	r := NewRegistry(newFakeDevice(), WithDecoder(stillLifeDecoder()))
	err := r.Register("nope.jpg", "nope")
	assert.ErrorIs(t, err, ErrImageLoad)
	assert.Equal(t, 0, r.Count())
}

func TestRegisterUploadFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.failOn = "counter"
	r := NewRegistry(dev, WithDecoder(stillLifeDecoder()))

	err := r.Register("wood.jpg", "counter")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrImageLoad)
	assert.Equal(t, 0, r.Count())
}

func TestRegisterCapacity(t *testing.T) {
	dec := stillLifeDecoder()
	r := NewRegistry(newFakeDevice(), WithDecoder(dec))
	require.Equal(t, DefaultCapacity, r.Capacity())

	for i := range DefaultCapacity {
		require.NoError(t, r.Register("wood.jpg", fmt.Sprintf("t%d", i)))
	}
	calls := dec.calls

	err := r.Register("wood.jpg", "overflow")
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, DefaultCapacity, r.Count())
	assert.Equal(t, calls, dec.calls, "a full registry should not decode")
}

func TestWithCapacity(t *testing.T) {
	r := NewRegistry(newFakeDevice(), WithDecoder(stillLifeDecoder()), WithCapacity(1))
	require.NoError(t, r.Register("wood.jpg", "a"))
	assert.ErrorIs(t, r.Register("wood.jpg", "b"), ErrCapacityExceeded)

	r = NewRegistry(newFakeDevice(), WithCapacity(0))
	assert.Equal(t, DefaultCapacity, r.Capacity())
}

func TestBindAll(t *testing.T) {
	dev := newFakeDevice()
	r := NewRegistry(dev, WithDecoder(stillLifeDecoder()))
	require.NoError(t, r.Register("marble.jpg", "countertop"))
	require.NoError(t, r.Register("wood.jpg", "counter"))

	require.NoError(t, r.BindAll())
	assert.Equal(t, map[int]Handle{0: 1, 1: 2}, dev.bound)
}

func TestReleaseAllOnce(t *testing.T) {
	dev := newFakeDevice()
	r := NewRegistry(dev, WithDecoder(stillLifeDecoder()))
	require.NoError(t, r.Register("marble.jpg", "countertop"))
	require.NoError(t, r.Register("wood.jpg", "counter"))

	r.ReleaseAll()
	r.ReleaseAll()

	assert.Equal(t, map[Handle]int{1: 1, 2: 1}, dev.released)
	assert.Equal(t, 0, r.Count())
	assert.ErrorIs(t, r.Register("wood.jpg", "again"), ErrReleased)
	assert.ErrorIs(t, r.BindAll(), ErrReleased)
}

func TestRegisterAllKeepsSourceOrder(t *testing.T) {
	sources := []Source{
		{Path: "marble.jpg", Tag: "countertop"},
		{Path: "missing.jpg", Tag: "ghost"},
		{Path: "wood.jpg", Tag: "counter"},
		{Path: "mask.png", Tag: "mask"},
		{Path: "label.png", Tag: "teabox"},
	}

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			var progress []int
			r := NewRegistry(newFakeDevice(),
				WithDecoder(stillLifeDecoder()),
				WithDecodeWorkers(workers),
				WithProgress(func(done, total int) {
					assert.Equal(t, len(sources), total)
					progress = append(progress, done)
				}),
			)

			err := r.RegisterAll(sources)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrImageLoad)
			assert.Equal(t, []string{"countertop", "counter", "teabox"}, r.Tags())
			assert.Equal(t, []int{1, 2, 3, 4, 5}, progress)

			slot, ok := r.FindSlot("teabox")
			assert.True(t, ok)
			assert.Equal(t, 2, slot)
		})
	}
}

func TestRegisterAllStopsAtCapacity(t *testing.T) {
	r := NewRegistry(newFakeDevice(), WithDecoder(stillLifeDecoder()), WithCapacity(2), WithDecodeWorkers(2))
	err := r.RegisterAll([]Source{
		{Path: "marble.jpg", Tag: "a"},
		{Path: "wood.jpg", Tag: "b"},
		{Path: "label.png", Tag: "c"},
	})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, []string{"a", "b"}, r.Tags())
}

func TestRegisterAllSkipsDecodingPastCapacity(t *testing.T) {
	sources := []Source{
		{Path: "marble.jpg", Tag: "a"},
		{Path: "wood.jpg", Tag: "b"},
		{Path: "label.png", Tag: "c"},
		{Path: "marble.jpg", Tag: "d"},
	}

	for _, workers := range []int{1, 2} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			dec := stillLifeDecoder()
			r := NewRegistry(newFakeDevice(), WithDecoder(dec), WithCapacity(2), WithDecodeWorkers(workers))

			err := r.RegisterAll(sources)
			assert.ErrorIs(t, err, ErrCapacityExceeded)
			assert.Equal(t, []string{"a", "b"}, r.Tags())
			assert.Equal(t, 2, dec.calls)
		})
	}
}

func TestRegisterAllUsesRoomLeftByFailures(t *testing.T) {
	dec := stillLifeDecoder()
	r := NewRegistry(newFakeDevice(), WithDecoder(dec), WithCapacity(2), WithDecodeWorkers(2))

	err := r.RegisterAll([]Source{
		{Path: "missing.jpg", Tag: "ghost"},
		{Path: "marble.jpg", Tag: "a"},
		{Path: "wood.jpg", Tag: "b"},
	})
	assert.ErrorIs(t, err, ErrImageLoad)
	assert.NotErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, []string{"a", "b"}, r.Tags())
	assert.Equal(t, 3, dec.calls)
}
