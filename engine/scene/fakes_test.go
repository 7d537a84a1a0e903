package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/stilllife/engine/mesh"
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func newBlock(t *testing.T) shader.UniformBlock {
	t.Helper()
	layout, err := shader.ParseUniformLayout(shader.StillLifeSource, shader.UniformGroup, shader.UniformBinding)
	require.NoError(t, err)
	return shader.NewUniformBlock(layout)
}

// drawCall is the uniform state seen by one mesh draw.
type drawCall struct {
	kind       mesh.Kind
	parts      mesh.Parts
	model      mgl32.Mat4
	color      mgl32.Vec4
	useTexture bool
	slot       int32
	uv         mgl32.Vec2
	shininess  float32
	snapshot   []byte
}

type fakeMeshes struct {
	block    shader.UniformBlock
	loaded   map[mesh.Kind]int
	draws    []drawCall
	released int
	failOn   map[mesh.Kind]bool

	// loadFailures is how many more times Load of a kind fails.
	loadFailures map[mesh.Kind]int
}

func newFakeMeshes(block shader.UniformBlock) *fakeMeshes {
	return &fakeMeshes{
		block:        block,
		loaded:       map[mesh.Kind]int{},
		failOn:       map[mesh.Kind]bool{},
		loadFailures: map[mesh.Kind]int{},
	}
}

func (m *fakeMeshes) Load(kind mesh.Kind) error {
	if m.loadFailures[kind] > 0 {
		m.loadFailures[kind]--
		return errors.New("transient")
	}
	m.loaded[kind]++
	return nil
}

func (m *fakeMeshes) Draw(kind mesh.Kind, parts mesh.Parts) error {
	if m.loaded[kind] == 0 {
		return fmt.Errorf("%w: %s", mesh.ErrNotLoaded, kind)
	}
	c := drawCall{kind: kind, parts: parts, snapshot: append([]byte(nil), m.block.Bytes()...)}
	c.model, _ = m.block.Mat4("model")
	c.color, _ = m.block.Vec4(shader.UniformObjectColor)
	c.useTexture, _ = m.block.Bool(shader.UniformUseTexture)
	c.slot, _ = m.block.Int(shader.UniformObjectTexture)
	c.uv, _ = m.block.Vec2(shader.UniformUVScale)
	c.shininess, _ = m.block.Float("material.shininess")
	m.draws = append(m.draws, c)
	if m.failOn[kind] {
		return errors.New("device lost")
	}
	return nil
}

func (m *fakeMeshes) Release() {
	m.released++
}

type fakeDevice struct {
	next     texture.Handle
	bound    map[int]texture.Handle
	released map[texture.Handle]int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{bound: map[int]texture.Handle{}, released: map[texture.Handle]int{}}
}

func (d *fakeDevice) CreateTexture(label string, img texture.Image) (texture.Handle, error) {
	d.next++
	return d.next, nil
}

func (d *fakeDevice) BindSlot(slot int, h texture.Handle) error {
	d.bound[slot] = h
	return nil
}

func (d *fakeDevice) ReleaseTexture(h texture.Handle) {
	d.released[h]++
}

// fakeDecoder serves a 2x2 RGB image for every listed path.
type fakeDecoder struct {
	paths map[string]bool
}

func (d fakeDecoder) Decode(path string) (texture.Image, error) {
	if !d.paths[path] {
		return texture.Image{}, fmt.Errorf("open %s: no such file", path)
	}
	return texture.Image{Pixels: make([]byte, 12), Width: 2, Height: 2, Channels: 3}, nil
}

func decoderFor(dir string, names ...string) fakeDecoder {
	d := fakeDecoder{paths: map[string]bool{}}
	for _, n := range names {
		d.paths[filepath.Join(dir, n)] = true
	}
	return d
}

func allStillLifeFiles() fakeDecoder {
	return decoderFor("tex", "white_mug.jpg", "ceramic.jpg", "countertop.jpg", "knife_handle.jpg")
}
