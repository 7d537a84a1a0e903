package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/stilllife/engine/profiler"
	"github.com/Carmen-Shannon/stilllife/engine/renderer"
	"github.com/Carmen-Shannon/stilllife/engine/scene"
	"github.com/Carmen-Shannon/stilllife/engine/window"
	"go.uber.org/zap"
)

// maxTicksPerFrame bounds how many fixed ticks one slow frame may catch up on.
const maxTicksPerFrame = 5

// engine implements the Engine interface.
// Polls the window, ticks, renders and presents on the calling goroutine.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	logger   *zap.Logger
	now      func() time.Time

	profiler         *profiler.Profiler
	profilingEnabled bool
	profilerInterval time.Duration

	engineTickRate time.Duration
	tickAccum      time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	quit          bool
	frames        uint64
	lastRenderErr string
}

// Engine is the main entry point for the engine.
// It owns the frame loop that drives the window, the scene and the renderer.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer frames are drawn with.
	Renderer() renderer.Renderer

	// Scene returns the scene drawn each frame.
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the fixed tick rate in ticks per second.
	// The tick callback runs as many times per frame as needed to keep up with this rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for input processing and camera movement.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the tick length in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each frame is presented.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frames returns the number of frames run so far.
	Frames() uint64

	// Run prepares the scene and loops until the window closes or Quit is called.
	// The scene is released when Run returns.
	//
	// Returns:
	//   - error: error if the engine is missing a window, renderer or scene, or the scene fails to prepare
	Run() error

	// Quit stops the loop after the current frame. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, scene, profiling, tick rate)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger:           zap.NewNop(),
		now:              time.Now,
		profilingEnabled: false,
		profilerInterval: time.Second,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	e.profiler = profiler.NewProfiler(
		profiler.WithLogger(e.logger),
		profiler.WithInterval(e.profilerInterval),
		profiler.WithClock(e.now),
		profiler.WithCounters(e.counters),
	)

	if e.window != nil {
		e.window.SetResizeCallback(e.handleResize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Run() error {
	if e.window == nil || e.renderer == nil || e.scene == nil {
		return errors.New("engine needs a window, a renderer and a scene")
	}

	if err := e.scene.Prepare(); err != nil {
		return fmt.Errorf("failed to prepare scene: %w", err)
	}
	defer e.scene.Release()

	if w, h := e.window.Width(), e.window.Height(); w > 0 && h > 0 {
		e.handleResize(w, h)
	}

	lastFrame := e.now()
	for !e.quit && e.window.PollEvents() {
		frameStart := e.now()
		elapsed := frameStart.Sub(lastFrame)
		lastFrame = frameStart

		e.step(elapsed)

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - e.now().Sub(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}

	e.logger.Info("engine stopped", zap.Uint64("frames", e.frames))
	return nil
}

// step runs one frame: the fixed ticks owed for elapsed, then the render, then profiling.
func (e *engine) step(elapsed time.Duration) {
	e.tickAccum += elapsed
	if limit := maxTicksPerFrame * e.engineTickRate; e.tickAccum > limit {
		e.tickAccum = limit
	}
	for e.tickAccum >= e.engineTickRate {
		e.tickAccum -= e.engineTickRate
		if e.tickCallback != nil {
			e.tickCallback(float32(e.engineTickRate.Seconds()))
		}
	}

	e.renderFrame()
	e.frames++

	if e.renderCallback != nil {
		e.renderCallback(float32(elapsed.Seconds()))
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

// renderFrame updates the camera and draws the scene into one frame.
// Failures are logged once per distinct message so a persistent fault does not flood the log.
func (e *engine) renderFrame() {
	if c := e.scene.Camera(); c != nil {
		c.Update()
	}

	if err := e.renderer.BeginFrame(); err != nil {
		e.reportRenderError("begin frame", err)
		return
	}

	renderErr := e.scene.Render()
	if err := e.renderer.EndFrame(); err != nil {
		renderErr = errors.Join(renderErr, err)
	}
	if renderErr != nil {
		e.reportRenderError("render", renderErr)
		return
	}
	e.lastRenderErr = ""
}

func (e *engine) reportRenderError(stage string, err error) {
	msg := err.Error()
	if msg == e.lastRenderErr {
		return
	}
	e.lastRenderErr = msg
	e.logger.Warn("frame failed", zap.String("stage", stage), zap.Error(err), zap.Uint64("frame", e.frames))
}

// handleResize reconfigures the surface and the camera aspect. A zero size is a minimized window.
func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		if err := e.renderer.Resize(width, height); err != nil {
			e.logger.Error("failed to resize surface", zap.Error(err), zap.Int("width", width), zap.Int("height", height))
		}
	}
	if e.scene != nil {
		if c := e.scene.Camera(); c != nil {
			c.SetAspect(float32(width) / float32(height))
		}
	}
}

// counters samples the renderer and scene for the profiler.
func (e *engine) counters() profiler.Counters {
	var c profiler.Counters
	if e.renderer != nil {
		c.DrawsLastFrame = e.renderer.DrawsLastFrame()
		c.DroppedDraws = e.renderer.DroppedDraws()
		if u := e.renderer.Uniforms(); u != nil {
			c.UniformMisses = u.Misses()
		}
	}
	if e.scene != nil {
		stats := e.scene.Stats()
		c.TextureMisses = stats.TextureMisses
		c.MaterialMisses = stats.MaterialMisses
	}
	return c
}

// Quit stops the loop after the current frame.
func (e *engine) Quit() {
	e.quit = true
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.engineTickRate = tickRate(fps)
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameLimit(fps)
}

func tickRate(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
