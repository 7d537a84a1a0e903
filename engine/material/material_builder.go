package material

import "github.com/go-gl/mathgl/mgl32"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithAmbientColor sets the ambient reflectance color.
//
// Parameters:
//   - c: RGB color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithAmbientColor(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.ambientColor = c
	}
}

// WithAmbientStrength sets the ambient scale factor.
//
// Parameters:
//   - s: strength in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithAmbientStrength(s float32) MaterialBuilderOption {
	return func(m *material) {
		m.ambientStrength = s
	}
}

// WithDiffuseColor sets the diffuse reflectance color.
//
// Parameters:
//   - c: RGB color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithDiffuseColor(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseColor = c
	}
}

// WithSpecularColor sets the specular reflectance color.
//
// Parameters:
//   - c: RGB color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithSpecularColor(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.specularColor = c
	}
}

// WithShininess sets the specular exponent.
//
// Parameters:
//   - s: shininess, must be greater than zero
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithShininess(s float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = s
	}
}
