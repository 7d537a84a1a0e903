package light

import (
	"testing"

	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlock(t *testing.T) shader.UniformBlock {
	t.Helper()
	layout, err := shader.ParseUniformLayout(shader.StillLifeSource, shader.UniformGroup, shader.UniformBinding)
	require.NoError(t, err)
	return shader.NewUniformBlock(layout)
}

func TestPushStillLifeRig(t *testing.T) {
	block := newBlock(t)
	require.NoError(t, Push(block, StillLifeRig()))

	on, _ := block.Bool(UniformUseLighting)
	assert.True(t, on)

	pos, _ := block.Vec3("lightSources[0].position")
	assert.Equal(t, mgl32.Vec3{7.5, 20, 5}, pos)

	focal, _ := block.Float("lightSources[0].focalStrength")
	assert.Equal(t, float32(350), focal)

	diffuse, _ := block.Vec3("lightSources[1].diffuseColor")
	assert.Equal(t, mgl32.Vec3{0.7, 0.7, 0.7}, diffuse)

	dirPos, _ := block.Vec3("lightSources[1].position")
	assert.Equal(t, mgl32.Vec3{}, dirPos)

	dir, _ := block.Vec3("lightSources[1].direction")
	assert.InDelta(t, 1, dir.Len(), 1e-6)

	assert.Zero(t, block.Misses())
}

func TestPushRejectsTooManyLights(t *testing.T) {
	block := newBlock(t)
	lights := make([]Light, MaxSources+1)
	for i := range lights {
		lights[i] = NewLight(WithPosition(mgl32.Vec3{1, 2, 3}))
	}

	assert.ErrorIs(t, Push(block, lights), ErrTooManyLights)
	on, _ := block.Bool(UniformUseLighting)
	assert.False(t, on)
}

func TestPushNoLightsDisablesLighting(t *testing.T) {
	block := newBlock(t)
	block.SetBool(UniformUseLighting, true)
	require.NoError(t, Push(block, nil))
	on, _ := block.Bool(UniformUseLighting)
	assert.False(t, on)
}

func TestDirectionalClearsPosition(t *testing.T) {
	l := NewLight(WithPosition(mgl32.Vec3{1, 1, 1}), WithType(LightTypeDirectional))
	assert.Equal(t, mgl32.Vec3{}, l.Position())
}

func TestUniformName(t *testing.T) {
	assert.Equal(t, "lightSources[2].specularIntensity", UniformName(2, "specularIntensity"))
}
