package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/stilllife/engine/mesh"
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"github.com/Carmen-Shannon/stilllife/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backend  RendererBackend
	program  shader.Program
	uniforms shader.UniformBlock
	logger   *zap.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
	maxDraws             int
	textureSlots         int
}

// Renderer draws the still-life program into a window surface.
//
// All scene state flows through one UniformBlock. Every mesh draw snapshots the block into its own
// uniform slot, so state set before a draw applies to that draw only as far as the next write.
type Renderer interface {
	// Uniforms returns the uniform block draws are snapshotted from.
	//
	// Returns:
	//   - shader.UniformBlock: the shared block
	Uniforms() shader.UniformBlock

	// Textures returns the GPU texture device for a texture registry.
	//
	// Returns:
	//   - texture.Device: the device
	Textures() texture.Device

	// Meshes returns the library that uploads and draws shapes.
	//
	// Returns:
	//   - mesh.Library: the mesh library
	Meshes() mesh.Library

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: error if the render targets cannot be recreated
	Resize(width, height int) error

	// BeginFrame acquires the next swapchain texture and begins the render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// EndFrame submits the frame's draws and presents it.
	//
	// Returns:
	//   - error: error if the frame could not be submitted
	EndFrame() error

	// DrawsLastFrame returns the number of draws submitted by the previous frame.
	DrawsLastFrame() int

	// DroppedDraws returns the number of draws dropped because a frame ran out of uniform slots.
	DroppedDraws() uint64

	// Release frees every GPU resource.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a WebGPU renderer for a window and registers the still-life program.
//
// Parameters:
//   - w: the window to render into
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: error if the adapter, device, surface or pipeline cannot be created
func NewRenderer(w window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		logger:       zap.NewNop(),
		presentMode:  PresentModeVSync,
		msaa:         MSAA4x,
		clearColor:   wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		maxDraws:     64,
		textureSlots: texture.DefaultCapacity,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if r.program == nil {
		p, err := shader.NewProgram("Still Life", shader.StillLifeSource)
		if err != nil {
			return nil, err
		}
		r.program = p
	}
	r.uniforms = shader.NewUniformBlock(r.program.UniformLayout(), shader.WithLogger(r.logger))

	backend, err := newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.clearColor, r.logger)
	if err != nil {
		return nil, err
	}
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)

	if err := r.backend.ConfigureSurface(w.Width(), w.Height()); err != nil {
		r.backend.Release()
		return nil, err
	}
	if err := r.backend.RegisterProgram(r.program, r.maxDraws, r.textureSlots); err != nil {
		r.backend.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) Uniforms() shader.UniformBlock {
	return r.uniforms
}

func (r *renderer) Textures() texture.Device {
	return r.backend
}

func (r *renderer) Meshes() mesh.Library {
	return &meshLibrary{backend: r.backend, uniforms: r.uniforms}
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) EndFrame() error {
	if err := r.backend.EndFrame(); err != nil {
		return err
	}
	r.backend.Present()
	return nil
}

func (r *renderer) DrawsLastFrame() int {
	return r.backend.DrawsLastFrame()
}

func (r *renderer) DroppedDraws() uint64 {
	return r.backend.DroppedDraws()
}

func (r *renderer) Release() {
	r.backend.Release()
}

// meshBackend is the part of the backend a meshLibrary draws through.
type meshBackend interface {
	LoadMesh(g mesh.Geometry) error
	HasMesh(kind mesh.Kind) bool
	DrawMesh(kind mesh.Kind, parts mesh.Parts, uniforms []byte, slot int) error
	ReleaseMeshes()
}

// meshLibrary adapts the backend to mesh.Library, reading the draw's texture slot from the uniform block.
type meshLibrary struct {
	backend  meshBackend
	uniforms shader.UniformBlock
}

var _ mesh.Library = &meshLibrary{}

func (l *meshLibrary) Load(kind mesh.Kind) error {
	if l.backend.HasMesh(kind) {
		return nil
	}
	if err := l.backend.LoadMesh(mesh.Build(kind)); err != nil {
		return fmt.Errorf("failed to load %s: %w", kind, err)
	}
	return nil
}

func (l *meshLibrary) Draw(kind mesh.Kind, parts mesh.Parts) error {
	return l.backend.DrawMesh(kind, parts, l.uniforms.Bytes(), l.textureSlot())
}

// textureSlot returns the sampler slot the fragment stage will read, or NotFoundSlot for flat colored draws.
func (l *meshLibrary) textureSlot() int {
	if textured, _ := l.uniforms.Bool(shader.UniformUseTexture); !textured {
		return texture.NotFoundSlot
	}
	slot, ok := l.uniforms.Int(shader.UniformObjectTexture)
	if !ok {
		return texture.NotFoundSlot
	}
	return int(slot)
}

func (l *meshLibrary) Release() {
	l.backend.ReleaseMeshes()
}
