package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithType sets the kind of light. Directional lights have their position cleared.
//
// Parameters:
//   - t: the light type
//
// Returns:
//   - LightBuilderOption: a function that applies the option to a lightImpl
func WithType(t LightType) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightType = t
	}
}

// WithPosition sets the world-space position of the light.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the option to a lightImpl
func WithPosition(p mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = p
	}
}

// WithDirection sets the direction of the light. Non-zero directions are normalized before storing.
//
// Parameters:
//   - d: the direction
//
// Returns:
//   - LightBuilderOption: a function that applies the option to a lightImpl
func WithDirection(d mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		if d.Len() > 0 {
			d = d.Normalize()
		}
		l.direction = d
	}
}

// WithAmbientColor sets the ambient color.
func WithAmbientColor(c mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambientColor = c
	}
}

// WithDiffuseColor sets the diffuse color.
func WithDiffuseColor(c mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.diffuseColor = c
	}
}

// WithSpecularColor sets the specular color.
func WithSpecularColor(c mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.specularColor = c
	}
}

// WithFocalStrength sets the specular exponent of the light's highlight.
//
// Parameters:
//   - s: the focal strength (0 uses the material shininess)
//
// Returns:
//   - LightBuilderOption: a function that applies the option to a lightImpl
func WithFocalStrength(s float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.focalStrength = s
	}
}

// WithSpecularIntensity sets the specular multiplier.
//
// Parameters:
//   - s: the intensity (0 is treated as 1)
//
// Returns:
//   - LightBuilderOption: a function that applies the option to a lightImpl
func WithSpecularIntensity(s float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.specularIntensity = s
	}
}
