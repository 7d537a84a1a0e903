package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/stilllife/engine/camera"
	"github.com/Carmen-Shannon/stilllife/engine/renderer"
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/Carmen-Shannon/stilllife/engine/scene"
	"github.com/Carmen-Shannon/stilllife/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWindow struct {
	window.Window
	frames   int
	polled   int
	onResize func(w, h int)
}

func (w *fakeWindow) PollEvents() bool {
	w.polled++
	return w.polled <= w.frames
}

func (w *fakeWindow) SetResizeCallback(fn func(w, h int)) { w.onResize = fn }
func (w *fakeWindow) Width() int                          { return 800 }
func (w *fakeWindow) Height() int                         { return 400 }

type fakeRenderer struct {
	renderer.Renderer
	begins, ends int
	beginErr     error
	resized      [][2]int
}

func (r *fakeRenderer) BeginFrame() error {
	r.begins++
	return r.beginErr
}

func (r *fakeRenderer) EndFrame() error {
	r.ends++
	return nil
}

func (r *fakeRenderer) Resize(w, h int) error {
	r.resized = append(r.resized, [2]int{w, h})
	return nil
}

func (r *fakeRenderer) DrawsLastFrame() int          { return 17 }
func (r *fakeRenderer) DroppedDraws() uint64         { return 0 }
func (r *fakeRenderer) Uniforms() shader.UniformBlock { return nil }

type fakeScene struct {
	scene.Scene
	cam        camera.Camera
	prepareErr error
	renderErr  error
	prepared   int
	renders    int
	released   int
}

func (s *fakeScene) Prepare() error        { s.prepared++; return s.prepareErr }
func (s *fakeScene) Render() error         { s.renders++; return s.renderErr }
func (s *fakeScene) Release()              { s.released++ }
func (s *fakeScene) Camera() camera.Camera { return s.cam }
func (s *fakeScene) Stats() scene.StateStats {
	return scene.StateStats{TextureMisses: 1}
}

// stepClock advances by step on every read.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestRunDrivesFrames(t *testing.T) {
	w := &fakeWindow{frames: 3}
	r := &fakeRenderer{}
	s := &fakeScene{}
	e := NewEngine(WithWindow(w), WithRenderer(r), WithScene(s))

	var rendered []float32
	e.SetRenderCallback(func(dt float32) { rendered = append(rendered, dt) })

	require.NoError(t, e.Run())
	assert.Equal(t, 1, s.prepared)
	assert.Equal(t, 3, s.renders)
	assert.Equal(t, 1, s.released)
	assert.Equal(t, 3, r.begins)
	assert.Equal(t, 3, r.ends)
	assert.Len(t, rendered, 3)
	assert.Equal(t, uint64(3), e.Frames())
}

func TestRunRequiresParts(t *testing.T) {
	assert.Error(t, NewEngine().Run())
}

func TestRunStopsOnPrepareFailure(t *testing.T) {
	w := &fakeWindow{frames: 3}
	s := &fakeScene{prepareErr: errors.New("no device")}
	e := NewEngine(WithWindow(w), WithRenderer(&fakeRenderer{}), WithScene(s))

	assert.ErrorContains(t, e.Run(), "no device")
	assert.Equal(t, 0, s.renders)
	assert.Equal(t, 0, s.released)
}

func TestFixedTicks(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: 25 * time.Millisecond}
	w := &fakeWindow{frames: 4}
	e := NewEngine(WithWindow(w), WithRenderer(&fakeRenderer{}), WithScene(&fakeScene{}),
		WithClock(clock.now), WithTickRate(100))

	ticks := 0
	e.SetTickCallback(func(dt float32) {
		ticks++
		assert.InDelta(t, 0.01, dt, 1e-6)
	})
	require.NoError(t, e.Run())
	// Each frame reads the clock once, so four frames span 100ms.
	assert.Equal(t, 10, ticks)
}

func TestQuitStopsLoop(t *testing.T) {
	w := &fakeWindow{frames: 100}
	s := &fakeScene{}
	e := NewEngine(WithWindow(w), WithRenderer(&fakeRenderer{}), WithScene(s))
	e.SetRenderCallback(func(float32) { e.Quit() })

	require.NoError(t, e.Run())
	assert.Equal(t, 1, s.renders)
}

func TestRenderErrorsLoggedOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := &fakeWindow{frames: 5}
	s := &fakeScene{renderErr: errors.New("draw budget exceeded")}
	e := NewEngine(WithWindow(w), WithRenderer(&fakeRenderer{}), WithScene(s), WithLogger(zap.New(core)))

	require.NoError(t, e.Run())
	assert.Equal(t, 5, s.renders)
	assert.Equal(t, 1, logs.FilterMessage("frame failed").Len())
}

func TestBeginFrameFailureSkipsScene(t *testing.T) {
	w := &fakeWindow{frames: 2}
	r := &fakeRenderer{beginErr: errors.New("surface outdated")}
	s := &fakeScene{}
	e := NewEngine(WithWindow(w), WithRenderer(r), WithScene(s))

	require.NoError(t, e.Run())
	assert.Equal(t, 0, s.renders)
	assert.Equal(t, 0, r.ends)
}

func TestResizeUpdatesSurfaceAndAspect(t *testing.T) {
	w := &fakeWindow{}
	r := &fakeRenderer{}
	cam := camera.NewCamera()
	NewEngine(WithWindow(w), WithRenderer(r), WithScene(&fakeScene{cam: cam}))
	require.NotNil(t, w.onResize)

	w.onResize(1280, 640)
	w.onResize(0, 0)

	assert.Equal(t, [][2]int{{1280, 640}}, r.resized)
	assert.InDelta(t, 2, cam.Aspect(), 1e-6)
}

func TestProfilerSamplesCounters(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	clock := &stepClock{t: time.Unix(0, 0), step: 600 * time.Millisecond}
	w := &fakeWindow{frames: 2}
	e := NewEngine(WithWindow(w), WithRenderer(&fakeRenderer{}), WithScene(&fakeScene{}),
		WithLogger(zap.New(core)), WithClock(clock.now), WithProfiling(true))

	require.NoError(t, e.Run())
	reports := logs.FilterMessage("profile").All()
	require.NotEmpty(t, reports)
	fields := reports[0].ContextMap()
	assert.Equal(t, int64(17), fields["draws"])
	assert.Equal(t, int64(1), fields["texture_misses"])
}
