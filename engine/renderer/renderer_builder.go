package renderer

import (
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithMaxDraws sets the number of per-draw uniform slots. Draws past it in one frame are dropped.
//
// Parameters:
//   - n: the slot count
//
// Returns:
//   - RendererBuilderOption: a function that applies the option to a renderer
func WithMaxDraws(n int) RendererBuilderOption {
	return func(r *renderer) {
		if n > 0 {
			r.maxDraws = n
		}
	}
}

// WithTextureSlots sets how many sampler slots textures can be bound to.
func WithTextureSlots(n int) RendererBuilderOption {
	return func(r *renderer) {
		if n > 0 {
			r.textureSlots = n
		}
	}
}

// WithClearColor sets the color the frame is cleared to.
func WithClearColor(c mgl32.Vec4) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
	}
}

// WithProgram replaces the built-in still-life shader program.
func WithProgram(p shader.Program) RendererBuilderOption {
	return func(r *renderer) {
		r.program = p
	}
}

// WithLogger sets the logger used by the renderer and its uniform block.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the option to a renderer
func WithLogger(l *zap.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if l != nil {
			r.logger = l
		}
	}
}
