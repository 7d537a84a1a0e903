package scene

import (
	"github.com/Carmen-Shannon/stilllife/engine/material"
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"github.com/Carmen-Shannon/stilllife/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// SlotFinder resolves a texture tag to its sampler slot. texture.Registry satisfies it.
type SlotFinder interface {
	FindSlot(tag string) (int, bool)
}

// MaterialFinder resolves a material tag. material.Registry satisfies it.
type MaterialFinder interface {
	Find(tag string) (material.Material, bool)
}

// StateStats counts lookup misses seen while pushing draw state.
type StateStats struct {
	TextureMisses  int
	MaterialMisses int
}

// statePusher is the implementation of the StatePusher interface.
type statePusher struct {
	uniforms  shader.Uniforms
	textures  SlotFinder
	materials MaterialFinder
	logger    *zap.Logger

	stats          StateStats
	warnedTexture  map[string]struct{}
	warnedMaterial map[string]struct{}
}

// StatePusher writes the per-draw shader state that precedes each mesh draw.
// Every write goes straight to the bound uniforms, so state left by one draw is seen by the next
// unless it is overwritten.
type StatePusher interface {
	// SetFlatColor disables texturing and sets the object color. The texture flag is written first.
	//
	// Parameters:
	//   - color: RGBA color
	SetFlatColor(color mgl32.Vec4)

	// SetTexture enables texturing and points the sampler at the slot registered under tag.
	// A miss is logged and counted and the sampler is set to texture.NotFoundSlot.
	//
	// Parameters:
	//   - tag: the texture tag
	//
	// Returns:
	//   - bool: false on a lookup miss
	SetTexture(tag string) bool

	// SetUVScale sets the texture tiling factors.
	//
	// Parameters:
	//   - uv: repeats along u and v
	SetUVScale(uv mgl32.Vec2)

	// SetMaterial writes every field of the material registered under tag.
	// A miss is logged and counted and leaves the previous material in place.
	//
	// Parameters:
	//   - tag: the material tag
	//
	// Returns:
	//   - bool: false on a lookup miss
	SetMaterial(tag string) bool

	// SetTransform composes and writes the model matrix.
	//
	// Parameters:
	//   - scale: per-axis scale factors
	//   - rotationDeg: rotation about X, Y and Z in degrees
	//   - position: world-space translation
	SetTransform(scale, rotationDeg, position mgl32.Vec3)

	// Stats returns the lookup misses seen so far.
	//
	// Returns:
	//   - StateStats: the miss counters
	Stats() StateStats
}

var _ StatePusher = &statePusher{}

// NewStatePusher creates a StatePusher writing into u.
//
// Parameters:
//   - u: the active shader uniforms
//   - textures: resolves texture tags to slots
//   - materials: resolves material tags
//   - options: functional options to configure the pusher
//
// Returns:
//   - StatePusher: the new pusher
func NewStatePusher(u shader.Uniforms, textures SlotFinder, materials MaterialFinder, options ...StatePusherOption) StatePusher {
	p := &statePusher{
		uniforms:       u,
		textures:       textures,
		materials:      materials,
		logger:         zap.NewNop(),
		warnedTexture:  make(map[string]struct{}),
		warnedMaterial: make(map[string]struct{}),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *statePusher) SetFlatColor(color mgl32.Vec4) {
	p.uniforms.SetBool(shader.UniformUseTexture, false)
	p.uniforms.SetVec4(shader.UniformObjectColor, color)
}

func (p *statePusher) SetTexture(tag string) bool {
	p.uniforms.SetBool(shader.UniformUseTexture, true)

	slot, ok := p.textures.FindSlot(tag)
	if !ok {
		p.stats.TextureMisses++
		if _, seen := p.warnedTexture[tag]; !seen {
			p.warnedTexture[tag] = struct{}{}
			p.logger.Warn("texture lookup missed, sampling fallback",
				zap.String("tag", tag),
				zap.Error(texture.ErrTextureNotFound),
			)
		}
		slot = texture.NotFoundSlot
	}
	p.uniforms.SetSampler2D(shader.UniformObjectTexture, int32(slot))
	return ok
}

func (p *statePusher) SetUVScale(uv mgl32.Vec2) {
	p.uniforms.SetVec2(shader.UniformUVScale, uv)
}

func (p *statePusher) SetMaterial(tag string) bool {
	m, ok := p.materials.Find(tag)
	if !ok {
		p.stats.MaterialMisses++
		if _, seen := p.warnedMaterial[tag]; !seen {
			p.warnedMaterial[tag] = struct{}{}
			p.logger.Warn("material lookup missed, keeping previous material",
				zap.String("tag", tag),
				zap.Error(material.ErrMaterialNotFound),
			)
		}
		return false
	}
	material.Push(p.uniforms, m)
	return true
}

func (p *statePusher) SetTransform(scale, rotationDeg, position mgl32.Vec3) {
	transform.Push(p.uniforms, scale, rotationDeg, position)
}

func (p *statePusher) Stats() StateStats {
	return p.stats
}
