package light

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxSources is the number of light slots in the shader's lightSources array.
const MaxSources = 4

// UniformUseLighting toggles the lighting path in the fragment stage.
const UniformUseLighting = "bUseLighting"

// ErrTooManyLights is returned by Push when more than MaxSources lights are given.
var ErrTooManyLights = errors.New("too many light sources")

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypePoint emits from a position. Direction is pushed alongside but only shapes the
	// highlight through focal strength.
	LightTypePoint LightType = iota

	// LightTypeDirectional has no position, only a direction, and lights every fragment uniformly.
	// The shader recognises it by a zero position.
	LightTypeDirectional
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType         LightType
	position          mgl32.Vec3
	direction         mgl32.Vec3
	ambientColor      mgl32.Vec3
	diffuseColor      mgl32.Vec3
	specularColor     mgl32.Vec3
	focalStrength     float32
	specularIntensity float32
}

// Light is one Phong light source written into a lightSources[N] slot.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position. Always zero for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Direction returns the direction the light travels in.
	//
	// Returns:
	//   - mgl32.Vec3: the direction
	Direction() mgl32.Vec3

	// AmbientColor returns the ambient contribution color.
	AmbientColor() mgl32.Vec3

	// DiffuseColor returns the diffuse contribution color.
	DiffuseColor() mgl32.Vec3

	// SpecularColor returns the specular contribution color.
	SpecularColor() mgl32.Vec3

	// FocalStrength returns the specular exponent of this light's highlight.
	// Zero falls back to the material's shininess.
	//
	// Returns:
	//   - float32: the focal strength
	FocalStrength() float32

	// SpecularIntensity returns the specular multiplier. Zero is treated as 1 by the shader.
	//
	// Returns:
	//   - float32: the specular intensity
	SpecularIntensity() float32
}

var _ Light = &lightImpl{}

// NewLight creates a Light with the provided options. Defaults to an unlit point light at the origin.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the new light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{lightType: LightTypePoint}
	for _, opt := range options {
		opt(l)
	}
	if l.lightType == LightTypeDirectional {
		l.position = mgl32.Vec3{}
	}
	return l
}

func (l *lightImpl) Type() LightType            { return l.lightType }
func (l *lightImpl) Position() mgl32.Vec3       { return l.position }
func (l *lightImpl) Direction() mgl32.Vec3      { return l.direction }
func (l *lightImpl) AmbientColor() mgl32.Vec3   { return l.ambientColor }
func (l *lightImpl) DiffuseColor() mgl32.Vec3   { return l.diffuseColor }
func (l *lightImpl) SpecularColor() mgl32.Vec3  { return l.specularColor }
func (l *lightImpl) FocalStrength() float32     { return l.focalStrength }
func (l *lightImpl) SpecularIntensity() float32 { return l.specularIntensity }

// UniformName returns the flattened uniform name of a field in light slot i,
// e.g. UniformName(1, "diffuseColor") is "lightSources[1].diffuseColor".
//
// Parameters:
//   - i: the light slot index
//   - field: the LightSource field name
//
// Returns:
//   - string: the uniform name
func UniformName(i int, field string) string {
	return fmt.Sprintf("lightSources[%d].%s", i, field)
}

// Push writes the lights into consecutive lightSources slots and enables lighting.
// Passing no lights disables lighting. Slots past len(lights) are left untouched.
//
// Parameters:
//   - u: the destination uniforms
//   - lights: the lights to write, at most MaxSources
//
// Returns:
//   - error: an error wrapping ErrTooManyLights, in which case nothing is written
func Push(u shader.Uniforms, lights []Light) error {
	if len(lights) > MaxSources {
		return fmt.Errorf("%w: %d given, %d supported", ErrTooManyLights, len(lights), MaxSources)
	}

	u.SetBool(UniformUseLighting, len(lights) > 0)
	for i, l := range lights {
		u.SetVec3(UniformName(i, "position"), l.Position())
		u.SetVec3(UniformName(i, "direction"), l.Direction())
		u.SetVec3(UniformName(i, "ambientColor"), l.AmbientColor())
		u.SetVec3(UniformName(i, "diffuseColor"), l.DiffuseColor())
		u.SetVec3(UniformName(i, "specularColor"), l.SpecularColor())
		u.SetFloat(UniformName(i, "focalStrength"), l.FocalStrength())
		u.SetFloat(UniformName(i, "specularIntensity"), l.SpecularIntensity())
	}
	return nil
}

// StillLifeRig returns the two lights of the still-life scene: a blue key light above the
// countertop and a white directional fill.
//
// Returns:
//   - []Light: the lights in slot order
func StillLifeRig() []Light {
	return []Light{
		NewLight(
			WithPosition(mgl32.Vec3{7.5, 20, 5}),
			WithDirection(mgl32.Vec3{0, -1, -0.5}),
			WithAmbientColor(mgl32.Vec3{0.05, 0.05, 0.3}),
			WithDiffuseColor(mgl32.Vec3{0.1, 0.1, 1}),
			WithSpecularColor(mgl32.Vec3{0.2, 0.2, 1}),
			WithFocalStrength(350),
			WithSpecularIntensity(0.9),
		),
		NewLight(
			WithType(LightTypeDirectional),
			WithDirection(mgl32.Vec3{-0.3, -1, -0.3}),
			WithAmbientColor(mgl32.Vec3{0.1, 0.1, 0.1}),
			WithDiffuseColor(mgl32.Vec3{0.7, 0.7, 0.7}),
			WithSpecularColor(mgl32.Vec3{0.5, 0.5, 0.5}),
		),
	}
}
