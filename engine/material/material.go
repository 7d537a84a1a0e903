package material

import (
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names written by Push.
const (
	UniformAmbientColor    = "material.ambientColor"
	UniformAmbientStrength = "material.ambientStrength"
	UniformDiffuseColor    = "material.diffuseColor"
	UniformSpecularColor   = "material.specularColor"
	UniformShininess       = "material.shininess"
)

// material is the implementation of the Material interface.
type material struct {
	tag             string
	ambientColor    mgl32.Vec3
	ambientStrength float32
	diffuseColor    mgl32.Vec3
	specularColor   mgl32.Vec3
	shininess       float32
}

// Material is a named bundle of Phong lighting coefficients, independent of any texture.
// Materials are immutable once built.
type Material interface {
	// Tag retrieves the lookup key of the material.
	//
	// Returns:
	//   - string: the tag
	Tag() string

	// AmbientColor retrieves the ambient reflectance color.
	//
	// Returns:
	//   - mgl32.Vec3: RGB color
	AmbientColor() mgl32.Vec3

	// AmbientStrength retrieves the ambient scale factor in [0, 1].
	//
	// Returns:
	//   - float32: the ambient strength
	AmbientStrength() float32

	// DiffuseColor retrieves the diffuse reflectance color.
	//
	// Returns:
	//   - mgl32.Vec3: RGB color
	DiffuseColor() mgl32.Vec3

	// SpecularColor retrieves the specular reflectance color.
	//
	// Returns:
	//   - mgl32.Vec3: RGB color
	SpecularColor() mgl32.Vec3

	// Shininess retrieves the specular exponent, always greater than zero for a valid material.
	//
	// Returns:
	//   - float32: the shininess
	Shininess() float32
}

var _ Material = &material{}

// NewMaterial creates a Material with the given tag.
// Colors default to black, ambient strength to 0 and shininess to 1.
//
// Parameters:
//   - tag: the lookup key
//   - options: functional options setting the lighting coefficients
//
// Returns:
//   - Material: the new material
func NewMaterial(tag string, options ...MaterialBuilderOption) Material {
	m := &material{
		tag:       tag,
		shininess: 1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Tag() string {
	return m.tag
}

func (m *material) AmbientColor() mgl32.Vec3 {
	return m.ambientColor
}

func (m *material) AmbientStrength() float32 {
	return m.ambientStrength
}

func (m *material) DiffuseColor() mgl32.Vec3 {
	return m.diffuseColor
}

func (m *material) SpecularColor() mgl32.Vec3 {
	return m.specularColor
}

func (m *material) Shininess() float32 {
	return m.shininess
}

// Push writes all five material fields of m into u.
//
// Parameters:
//   - u: the destination uniforms
//   - m: the material to write
func Push(u shader.Uniforms, m Material) {
	u.SetVec3(UniformAmbientColor, m.AmbientColor())
	u.SetFloat(UniformAmbientStrength, m.AmbientStrength())
	u.SetVec3(UniformDiffuseColor, m.DiffuseColor())
	u.SetVec3(UniformSpecularColor, m.SpecularColor())
	u.SetFloat(UniformShininess, m.Shininess())
}
