package scene

import (
	"testing"

	"github.com/Carmen-Shannon/stilllife/engine/material"
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"github.com/Carmen-Shannon/stilllife/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type slots map[string]int

func (s slots) FindSlot(tag string) (int, bool) {
	slot, ok := s[tag]
	if !ok {
		return texture.NotFoundSlot, false
	}
	return slot, true
}

func newMaterials(t *testing.T) material.Registry {
	t.Helper()
	r := material.NewRegistry()
	for _, m := range StillLifeMaterials() {
		require.NoError(t, r.Define(m))
	}
	return r
}

func TestFlatColorClearsTexture(t *testing.T) {
	block := newBlock(t)
	p := NewStatePusher(block, slots{"mug": 0}, newMaterials(t))

	require.True(t, p.SetTexture("mug"))
	on, _ := block.Bool(shader.UniformUseTexture)
	require.True(t, on)

	p.SetFlatColor(mgl32.Vec4{0, 0, 0, 1})
	on, _ = block.Bool(shader.UniformUseTexture)
	assert.False(t, on)
	color, _ := block.Vec4(shader.UniformObjectColor)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, color)
}

func TestSetTextureWritesSlot(t *testing.T) {
	block := newBlock(t)
	p := NewStatePusher(block, slots{"mug": 0, "counter": 1}, newMaterials(t))

	p.SetTexture("counter")
	slot, _ := block.Int(shader.UniformObjectTexture)
	assert.Equal(t, int32(1), slot)
	assert.Equal(t, StateStats{}, p.Stats())
}

func TestSetTextureMissSamplesFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	block := newBlock(t)
	p := NewStatePusher(block, slots{}, newMaterials(t), WithStateLogger(zap.New(core)))

	assert.False(t, p.SetTexture("marble"))
	assert.False(t, p.SetTexture("marble"))

	on, _ := block.Bool(shader.UniformUseTexture)
	assert.True(t, on)
	slot, _ := block.Int(shader.UniformObjectTexture)
	assert.Equal(t, int32(texture.NotFoundSlot), slot)
	assert.Equal(t, 2, p.Stats().TextureMisses)
	assert.Equal(t, 1, logs.Len(), "a missing tag is logged once")
}

func TestSetMaterialMissKeepsPrevious(t *testing.T) {
	block := newBlock(t)
	p := NewStatePusher(block, slots{}, newMaterials(t))

	require.True(t, p.SetMaterial("wood"))
	assert.False(t, p.SetMaterial("steel"))

	shininess, _ := block.Float(material.UniformShininess)
	assert.Equal(t, float32(16), shininess)
	diffuse, _ := block.Vec3(material.UniformDiffuseColor)
	assert.Equal(t, mgl32.Vec3{0.65, 0.45, 0.30}, diffuse)
	assert.Equal(t, 1, p.Stats().MaterialMisses)
}

func TestSetUVScaleAndTransform(t *testing.T) {
	block := newBlock(t)
	p := NewStatePusher(block, slots{}, newMaterials(t))

	p.SetUVScale(mgl32.Vec2{5, 1})
	uv, _ := block.Vec2(shader.UniformUVScale)
	assert.Equal(t, mgl32.Vec2{5, 1}, uv)

	scale, rot, pos := mgl32.Vec3{2, 1, 1}, mgl32.Vec3{0, 90, 0}, mgl32.Vec3{1, 0, 0}
	p.SetTransform(scale, rot, pos)
	model, _ := block.Mat4(transform.ModelUniform)
	assert.Equal(t, transform.Compose(scale, rot, pos), model)
}
