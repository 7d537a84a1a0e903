package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/stilllife/engine/mesh"
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

var (
	// ErrNoFrame is returned by draws issued outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("no frame in progress")

	// ErrDrawBudgetExceeded is returned for draws past the per-frame uniform slot budget. The draw is dropped.
	ErrDrawBudgetExceeded = errors.New("per-frame draw budget exceeded")

	// ErrUnknownTexture is returned when binding a handle the device never created.
	ErrUnknownTexture = errors.New("unknown texture handle")
)

// gpuTexture is an uploaded texture together with the bind group that samples it.
type gpuTexture struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

func (t *gpuTexture) release() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// gpuMesh is an uploaded shape.
type gpuMesh struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	geometry     mesh.Geometry
}

func (m *gpuMesh) release() {
	m.vertexBuffer.Release()
	m.indexBuffer.Release()
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	logger *zap.Logger

	device   *wgpu.Device
	queue    *wgpu.Queue
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	pipeline      *wgpu.RenderPipeline
	uniformLayout *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout

	// Every draw of a frame gets its own slot in uniformBuffer, addressed with a dynamic offset.
	// Slots are staged on the CPU and written in one call before the frame is submitted.
	uniformBuffer    *wgpu.Buffer
	uniformBindGroup *wgpu.BindGroup
	uniformStaging   []byte
	slotStride       uint64
	maxDraws         int

	sampler    *wgpu.Sampler
	fallback   *gpuTexture
	textures   map[texture.Handle]*gpuTexture
	nextHandle texture.Handle
	slots      []texture.Handle
	meshes     map[mesh.Kind]*gpuMesh

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	draws     int
	lastDraws int
	dropped   uint64
}

type wgpuRendererBackend interface {
	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: error if the multisample or depth targets cannot be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterProgram creates the render pipeline, the per-draw uniform slots, the shared sampler and the
	// fallback texture for a shader program. Must be called after the first ConfigureSurface.
	//
	// Parameters:
	//   - p: the parsed shader program
	//   - maxDraws: the number of uniform slots, which caps the draws per frame
	//   - textureSlots: the number of sampler slots textures can be bound to
	//
	// Returns:
	//   - error: error if any GPU object cannot be created
	RegisterProgram(p shader.Program, maxDraws, textureSlots int) error

	texture.Device

	// LoadMesh uploads a geometry's vertex and index buffers. Loading a kind twice is a no-op.
	//
	// Parameters:
	//   - g: the geometry to upload
	//
	// Returns:
	//   - error: error if the buffers cannot be created
	LoadMesh(g mesh.Geometry) error

	// HasMesh reports whether a kind has been uploaded.
	HasMesh(kind mesh.Kind) bool

	// DrawMesh encodes the draw of a loaded mesh with a snapshot of the uniform bytes.
	//
	// Parameters:
	//   - kind: the shape to draw
	//   - parts: the parts to draw
	//   - uniforms: the uniform struct bytes for this draw
	//   - slot: the sampler slot to bind, the fallback texture when negative or unbound
	//
	// Returns:
	//   - error: ErrNoFrame outside a frame, ErrDrawBudgetExceeded when the slots are used up,
	//     or an error wrapping mesh.ErrNotLoaded
	DrawMesh(kind mesh.Kind, parts mesh.Parts, uniforms []byte, slot int) error

	// ReleaseMeshes frees every uploaded mesh.
	ReleaseMeshes()

	// BeginFrame acquires the next swapchain texture, creates a command encoder, and begins
	// the main render pass. Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// EndFrame uploads the frame's uniform slots, ends the render pass and submits the command buffer.
	//
	// Returns:
	//   - error: error if the command buffer cannot be finished
	EndFrame() error

	// Present presents the swapchain texture acquired by BeginFrame.
	Present()

	// DrawsLastFrame returns the number of draws submitted by the last finished frame.
	DrawsLastFrame() int

	// DroppedDraws returns the number of draws dropped since creation because the slot budget ran out.
	DroppedDraws() uint64

	// Release frees every GPU object, the device and the surface.
	Release()
}

var _ wgpuRendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, clearColor wgpu.Color, logger *zap.Logger) (wgpuRendererBackend, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		logger:      logger,
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  clearColor,
		textures:    make(map[texture.Handle]*gpuTexture),
		meshes:      make(map[mesh.Kind]*gpuMesh),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Still Life Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		// Minimized. Keep the previous targets until a real size arrives.
		return nil
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	format := pickSurfaceFormat(capabilities.Formats)
	b.surfaceFormat = &format

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("failed to create msaa texture: %w", err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			return fmt.Errorf("failed to create msaa view: %w", err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create depth view: %w", err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView, // nil when MSAA is off, set in BeginFrame
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	b.logger.Debug("configured surface",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Uint32("samples", count),
	)
	return nil
}

// releaseTargets frees the size dependent render targets.
func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) RegisterProgram(p shader.Program, maxDraws, textureSlots int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before registering a program")
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.Label(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", p.Label(), err)
	}
	defer module.Release()

	uniformDesc := p.BindGroupLayoutDescriptor(shader.UniformGroup)
	if len(uniformDesc.Entries) == 0 {
		return fmt.Errorf("%s declares no uniform group %d", p.Label(), shader.UniformGroup)
	}
	uniformDesc.Label = p.Label() + " Uniform Layout"
	uniformDesc.Entries = append([]wgpu.BindGroupLayoutEntry(nil), uniformDesc.Entries...)
	for i := range uniformDesc.Entries {
		if uniformDesc.Entries[i].Binding == shader.UniformBinding {
			uniformDesc.Entries[i].Buffer.HasDynamicOffset = true
		}
	}
	b.uniformLayout, err = b.device.CreateBindGroupLayout(&uniformDesc)
	if err != nil {
		return fmt.Errorf("failed to create uniform layout: %w", err)
	}

	textureDesc := p.BindGroupLayoutDescriptor(shader.TextureGroup)
	textureDesc.Label = p.Label() + " Texture Layout"
	b.textureLayout, err = b.device.CreateBindGroupLayout(&textureDesc)
	if err != nil {
		return fmt.Errorf("failed to create texture layout: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.Label(),
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.uniformLayout, b.textureLayout},
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.Label() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.EntryPoint(shader.StageVertex),
			Buffers:    []wgpu.VertexBufferLayout{p.VertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.EntryPoint(shader.StageFragment),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			// Open shapes such as the mug body are seen from inside.
			CullMode: wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline: %w", err)
	}

	blockSize := p.UniformLayout().Size()
	b.slotStride = uniformSlotStride(blockSize)
	b.maxDraws = maxDraws
	b.uniformStaging = make([]byte, b.slotStride*uint64(maxDraws))
	b.uniformBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.Label() + " Uniform Slots",
		Size:  uint64(len(b.uniformStaging)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform buffer: %w", err)
	}
	b.uniformBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  p.Label() + " Uniform Bind Group",
		Layout: b.uniformLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: shader.UniformBinding,
				Buffer:  b.uniformBuffer,
				Offset:  0,
				Size:    blockSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create uniform bind group: %w", err)
	}

	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Texture Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}

	b.fallback, err = b.uploadTexture("Fallback", texture.Image{Pixels: []byte{0xff, 0xff, 0xff, 0xff}, Width: 1, Height: 1, Channels: 4})
	if err != nil {
		return fmt.Errorf("failed to create fallback texture: %w", err)
	}
	b.slots = make([]texture.Handle, textureSlots)

	b.logger.Info("registered shader program",
		zap.String("label", p.Label()),
		zap.Uint64("uniform_size", blockSize),
		zap.Uint64("slot_stride", b.slotStride),
		zap.Int("max_draws", maxDraws),
		zap.Int("texture_slots", textureSlots),
	)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, img texture.Image) (texture.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if img.Channels != 3 && img.Channels != 4 {
		return 0, fmt.Errorf("texture %s: unsupported channel count %d", label, img.Channels)
	}
	t, err := b.uploadTexture(label, img)
	if err != nil {
		return 0, err
	}
	b.nextHandle++
	b.textures[b.nextHandle] = t
	return b.nextHandle, nil
}

// uploadTexture creates an RGBA8 texture with a full mip chain and a bind group sampling it.
func (b *wgpuRendererBackendImpl) uploadTexture(label string, img texture.Image) (*gpuTexture, error) {
	if b.textureLayout == nil {
		return nil, errors.New("no shader program registered")
	}

	levels := buildMipChain(img.Width, img.Height, expandRGBA(img))
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(img.Width),
			Height:             uint32(img.Height),
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: uint32(len(levels)),
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	t := &gpuTexture{texture: tex}

	for i, level := range levels {
		b.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: uint32(i),
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			level.pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  level.width * 4,
				RowsPerImage: level.height,
			},
			&wgpu.Extent3D{
				Width:              level.width,
				Height:             level.height,
				DepthOrArrayLayers: 1,
			},
		)
	}

	t.view, err = tex.CreateView(nil)
	if err != nil {
		t.release()
		return nil, err
	}
	t.bindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: b.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: t.view},
			{Binding: 1, Sampler: b.sampler},
		},
	})
	if err != nil {
		t.release()
		return nil, err
	}
	return t, nil
}

func (b *wgpuRendererBackendImpl) BindSlot(slot int, h texture.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if slot < 0 || slot >= len(b.slots) {
		return fmt.Errorf("texture slot %d out of range [0, %d)", slot, len(b.slots))
	}
	if _, ok := b.textures[h]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, h)
	}
	b.slots[slot] = h
	return nil
}

func (b *wgpuRendererBackendImpl) ReleaseTexture(h texture.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.textures[h]
	if !ok {
		return
	}
	t.release()
	delete(b.textures, h)
	for i, bound := range b.slots {
		if bound == h {
			b.slots[i] = 0
		}
	}
}

func (b *wgpuRendererBackendImpl) LoadMesh(g mesh.Geometry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.meshes[g.Kind]; ok {
		return nil
	}

	vertexData, indexData := vertexBytes(g), indexBytes(g)
	if len(vertexData) == 0 || len(indexData) == 0 {
		return fmt.Errorf("mesh %s has no geometry", g.Kind)
	}

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: g.Kind.String() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: g.Kind.String() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return err
	}
	b.queue.WriteBuffer(vb, 0, vertexData)
	b.queue.WriteBuffer(ib, 0, indexData)

	b.meshes[g.Kind] = &gpuMesh{vertexBuffer: vb, indexBuffer: ib, geometry: g}
	b.logger.Debug("loaded mesh",
		zap.Stringer("kind", g.Kind),
		zap.Int("vertices", len(g.Vertices)),
		zap.Int("indices", len(g.Indices)),
	)
	return nil
}

func (b *wgpuRendererBackendImpl) HasMesh(kind mesh.Kind) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.meshes[kind]
	return ok
}

func (b *wgpuRendererBackendImpl) DrawMesh(kind mesh.Kind, parts mesh.Parts, uniforms []byte, slot int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	m, ok := b.meshes[kind]
	if !ok {
		return fmt.Errorf("%w: %s", mesh.ErrNotLoaded, kind)
	}
	if b.draws >= b.maxDraws {
		b.dropped++
		return fmt.Errorf("%w: %d slots", ErrDrawBudgetExceeded, b.maxDraws)
	}

	offset := uint64(b.draws) * b.slotStride
	copy(b.uniformStaging[offset:offset+b.slotStride], uniforms)
	b.draws++

	b.framePass.SetBindGroup(shader.UniformGroup, b.uniformBindGroup, []uint32{uint32(offset)})
	b.framePass.SetBindGroup(shader.TextureGroup, b.textureFor(slot).bindGroup, nil)
	b.framePass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(m.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	for _, r := range m.geometry.RangesFor(parts) {
		b.framePass.DrawIndexed(r.Count, 1, r.First, 0, 0)
	}
	return nil
}

// textureFor resolves a sampler slot to a texture, the fallback when nothing is bound there.
func (b *wgpuRendererBackendImpl) textureFor(slot int) *gpuTexture {
	if slot < 0 || slot >= len(b.slots) {
		return b.fallback
	}
	if t, ok := b.textures[b.slots[slot]]; ok {
		return t
	}
	return b.fallback
}

func (b *wgpuRendererBackendImpl) ReleaseMeshes() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for kind, m := range b.meshes {
		m.release()
		delete(b.meshes, kind)
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pipeline == nil {
		return errors.New("no shader program registered")
	}
	// A frame whose surface texture was never presented is still holding the swapchain image.
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetPipeline(b.pipeline)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.draws = 0

	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}

	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	if b.draws > 0 {
		b.queue.WriteBuffer(b.uniformBuffer, 0, b.uniformStaging[:uint64(b.draws)*b.slotStride])
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameSurface = nil
		b.frameView = nil
		return fmt.Errorf("failed to finish frame: %w", err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.lastDraws = b.draws

	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) DrawsLastFrame() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastDraws
}

func (b *wgpuRendererBackendImpl) DroppedDraws() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

func (b *wgpuRendererBackendImpl) Release() {
	b.ReleaseMeshes()

	b.mu.Lock()
	defer b.mu.Unlock()

	for h, t := range b.textures {
		t.release()
		delete(b.textures, h)
	}
	if b.fallback != nil {
		b.fallback.release()
		b.fallback = nil
	}
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	if b.uniformBindGroup != nil {
		b.uniformBindGroup.Release()
		b.uniformBindGroup = nil
	}
	if b.uniformBuffer != nil {
		b.uniformBuffer.Release()
		b.uniformBuffer = nil
	}
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.textureLayout != nil {
		b.textureLayout.Release()
		b.textureLayout = nil
	}
	if b.uniformLayout != nil {
		b.uniformLayout.Release()
		b.uniformLayout = nil
	}
	b.releaseTargets()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// pickSurfaceFormat prefers a linear 8-bit swapchain format so shader colors reach the screen unencoded.
// Falls back to the surface's first supported format.
//
// Parameters:
//   - formats: the formats the surface supports, in preference order
//
// Returns:
//   - wgpu.TextureFormat: the chosen format
func pickSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f
		}
	}
	if len(formats) == 0 {
		return wgpu.TextureFormatBGRA8Unorm
	}
	return formats[0]
}
