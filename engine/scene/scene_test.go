package scene

import (
	"testing"

	"github.com/Carmen-Shannon/stilllife/engine/camera"
	"github.com/Carmen-Shannon/stilllife/engine/light"
	"github.com/Carmen-Shannon/stilllife/engine/mesh"
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"github.com/Carmen-Shannon/stilllife/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	block  shader.UniformBlock
	device *fakeDevice
	meshes *fakeMeshes
	scene  Scene
}

func newFixture(t *testing.T, options ...SceneBuilderOption) *fixture {
	t.Helper()
	f := &fixture{block: newBlock(t), device: newFakeDevice()}
	f.meshes = newFakeMeshes(f.block)
	opts := append([]SceneBuilderOption{
		WithTextures(StillLifeTextures("tex")),
		WithDecoder(allStillLifeFiles()),
	}, options...)
	f.scene = NewScene(f.block, f.device, f.meshes, opts...)
	return f
}

func kinds(draws []drawCall) []mesh.Kind {
	out := make([]mesh.Kind, len(draws))
	for i, d := range draws {
		out[i] = d.kind
	}
	return out
}

func TestLifecycleErrors(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.scene.Render(), ErrNotPrepared)

	require.NoError(t, f.scene.Prepare())
	assert.ErrorIs(t, f.scene.Prepare(), ErrAlreadyPrepared)

	f.scene.Release()
	assert.ErrorIs(t, f.scene.Render(), ErrReleased)
	assert.ErrorIs(t, f.scene.Prepare(), ErrReleased)
}

func TestReleaseFreesOnce(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Prepare())

	f.scene.Release()
	f.scene.Release()

	assert.Equal(t, 1, f.meshes.released)
	require.Len(t, f.device.released, 4)
	for h, n := range f.device.released {
		assert.Equal(t, 1, n, "handle %d", h)
	}
}

func TestPrepareRetryAfterFailureStartsClean(t *testing.T) {
	f := newFixture(t)
	f.meshes.loadFailures[mesh.Plane] = 1

	err := f.scene.Prepare()
	require.Error(t, err)
	assert.ErrorIs(t, f.scene.Render(), ErrNotPrepared)
	assert.Len(t, f.device.released, 4, "textures from the failed attempt are released")

	require.NoError(t, f.scene.Prepare())
	assert.Equal(t, 4, f.scene.Textures().Count())
	assert.Equal(t, 4, f.scene.Materials().Len())

	slot, ok := f.scene.Textures().FindSlot("counter")
	assert.True(t, ok)
	assert.Equal(t, 2, slot)
	require.NoError(t, f.scene.Render())

	f.scene.Release()
	assert.Len(t, f.device.released, 8)
	for h, n := range f.device.released {
		assert.Equal(t, 1, n, "handle %d", h)
	}
}

func TestPrepareLoadsUsedMeshesOnce(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Prepare())
	for _, k := range mesh.Kinds {
		assert.Equal(t, 1, f.meshes.loaded[k], k.String())
	}

	grapes, err := GrapeStatements(grapePositions, grapeSizes)
	require.NoError(t, err)
	g := newFixture(t, WithStatements(grapes))
	require.NoError(t, g.scene.Prepare())
	assert.Equal(t, map[mesh.Kind]int{mesh.Sphere: 1}, g.meshes.loaded)
}

func TestPrepareBindsTexturesInOrder(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Prepare())

	assert.Equal(t, []string{"mug", "mug2", "counter", "cuttingBoard"}, f.scene.Textures().Tags())
	assert.Equal(t, map[int]texture.Handle{0: 1, 1: 2, 2: 3, 3: 4}, f.device.bound)
	slot, ok := f.scene.Textures().FindSlot("counter")
	require.True(t, ok)
	assert.Equal(t, 2, slot)
	assert.Equal(t, 4, f.scene.Materials().Len())
}

func TestPreparePushesLights(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Prepare())

	on, _ := f.block.Bool(light.UniformUseLighting)
	assert.True(t, on)
	focal, _ := f.block.Float(light.UniformName(0, "focalStrength"))
	assert.Equal(t, float32(350), focal)
	diffuse, _ := f.block.Vec3(light.UniformName(1, "diffuseColor"))
	assert.Equal(t, mgl32.Vec3{0.7, 0.7, 0.7}, diffuse)
}

func TestPrepareToleratesMissingTextures(t *testing.T) {
	f := newFixture(t, WithDecoder(decoderFor("tex", "countertop.jpg")))
	require.NoError(t, f.scene.Prepare())
	assert.Equal(t, []string{"counter"}, f.scene.Textures().Tags())

	require.NoError(t, f.scene.Render())
	body := f.meshes.draws[1]
	assert.True(t, body.useTexture)
	assert.Equal(t, int32(texture.NotFoundSlot), body.slot)
	assert.Equal(t, int32(0), f.meshes.draws[0].slot)
	assert.Equal(t, 3, f.scene.Stats().TextureMisses, "mug body, mug handle and cutting board")
}

func TestPrepareFailsPastCapacity(t *testing.T) {
	f := newFixture(t, WithTextureCapacity(2))
	err := f.scene.Prepare()
	assert.ErrorIs(t, err, texture.ErrCapacityExceeded)
	assert.ErrorIs(t, f.scene.Render(), ErrNotPrepared)
}

func TestPrepareRejectsTooManyLights(t *testing.T) {
	lights := make([]light.Light, light.MaxSources+1)
	for i := range lights {
		lights[i] = light.NewLight()
	}
	f := newFixture(t, WithLights(lights))
	assert.ErrorIs(t, f.scene.Prepare(), light.ErrTooManyLights)
}

func TestStillLifeDrawOrder(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Prepare())
	require.NoError(t, f.scene.Render())

	want := []mesh.Kind{
		mesh.Plane,
		mesh.Cylinder, mesh.Torus, mesh.Cylinder, mesh.Cylinder, mesh.Box, mesh.Cylinder,
		mesh.Box,
		mesh.Sphere, mesh.Sphere, mesh.Sphere, mesh.Sphere, mesh.Sphere, mesh.Sphere,
		mesh.Cylinder, mesh.Cylinder,
		mesh.Box,
	}
	assert.Equal(t, want, kinds(f.meshes.draws))

	d := f.meshes.draws
	assert.Equal(t, mesh.PartSides, d[1].parts, "open mug body")
	assert.Equal(t, mesh.Parts(0), d[3].parts, "closed rim")
	assert.Equal(t, mesh.PartBottom|mesh.PartSides, d[14].parts, "sausage")
}

func TestStillLifeTextureState(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Prepare())
	require.NoError(t, f.scene.Render())
	d := f.meshes.draws

	countertop := d[0]
	assert.True(t, countertop.useTexture)
	assert.Equal(t, int32(2), countertop.slot)
	assert.Equal(t, mgl32.Vec2{1, 1}, countertop.uv)
	assert.Equal(t, float32(32), countertop.shininess)

	body, handle, rim := d[1], d[2], d[3]
	assert.Equal(t, int32(0), body.slot)
	assert.Equal(t, mgl32.Vec2{5, 1}, body.uv)
	assert.True(t, handle.useTexture)
	assert.Equal(t, mgl32.Vec2{2, 1}, handle.uv)
	assert.False(t, rim.useTexture)
	assert.Equal(t, mgl32.Vec2{2, 1}, rim.uv, "scale carries over until the next statement sets one")
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, rim.color)

	teaBox := d[16]
	assert.False(t, teaBox.useTexture)
	assert.Equal(t, float32(16), teaBox.shininess, "wood from the cutting board carries over")
	assert.Equal(t, StateStats{}, f.scene.Stats())
}

func TestRenderIsRepeatable(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.Prepare())

	require.NoError(t, f.scene.Render())
	first := f.meshes.draws
	f.meshes.draws = nil
	require.NoError(t, f.scene.Render())

	require.Len(t, f.meshes.draws, len(first))
	for i := range first {
		assert.Equal(t, first[i].snapshot, f.meshes.draws[i].snapshot, "draw %d", i)
	}
}

func TestGrapesDrawOncePerInstance(t *testing.T) {
	grapes, err := GrapeStatements(grapePositions, grapeSizes)
	require.NoError(t, err)
	f := newFixture(t, WithStatements(grapes))
	require.NoError(t, f.scene.Prepare())
	require.NoError(t, f.scene.Render())

	require.Len(t, f.meshes.draws, 6)
	for i, d := range f.meshes.draws {
		assert.Equal(t, mesh.Sphere, d.kind)
		s := grapeSizes[i]
		want := transform.Compose(mgl32.Vec3{s, s, s}, mgl32.Vec3{}, grapePositions[i])
		assert.Equal(t, want, d.model, "grape %d", i)
		assert.Equal(t, grapeColor, d.color)
	}
}

func TestInstanceArraysMustMatch(t *testing.T) {
	_, err := GrapeStatements(grapePositions, grapeSizes[:5])
	assert.ErrorIs(t, err, ErrMismatchedInstances)

	_, err = SausageStatements(sausagePositions, sausageScales, []float32{35})
	assert.ErrorIs(t, err, ErrMismatchedInstances)

	sausages, err := SausageStatements(sausagePositions, sausageScales, sausageRotations)
	require.NoError(t, err)
	require.Len(t, sausages, 2)
	assert.Equal(t, mgl32.Vec3{0, 45, 0}, sausages[1].Rotation)
}

func TestRenderContinuesPastDrawFailures(t *testing.T) {
	f := newFixture(t)
	f.meshes.failOn[mesh.Torus] = true
	require.NoError(t, f.scene.Prepare())

	err := f.scene.Render()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mug handle")
	assert.Len(t, f.meshes.draws, 17)
}

func TestRenderPushesCamera(t *testing.T) {
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	cam.Update()
	f := newFixture(t, WithCamera(cam))
	require.NoError(t, f.scene.Prepare())
	require.NoError(t, f.scene.Render())

	view, _ := f.block.Mat4(shader.UniformView)
	assert.Equal(t, cam.View(), view)
	eye, _ := f.block.Vec3(shader.UniformViewPosition)
	assert.Equal(t, cam.Position(), eye)
}

func TestLoadProgressReported(t *testing.T) {
	var calls [][2]int
	f := newFixture(t, WithDecodeWorkers(4), WithLoadProgress(func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}))
	require.NoError(t, f.scene.Prepare())
	assert.Equal(t, [][2]int{{1, 4}, {2, 4}, {3, 4}, {4, 4}}, calls)
	assert.Equal(t, []string{"mug", "mug2", "counter", "cuttingBoard"}, f.scene.Textures().Tags())
}
