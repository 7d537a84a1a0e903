package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithOrbit sets the initial spherical coordinates around the target.
//
// Parameters:
//   - radius: distance from the target
//   - azimuth: horizontal angle in radians, 0 places the camera on the target's +Z side
//   - elevation: vertical angle in radians above the horizontal plane
//
// Returns:
//   - CameraControllerOption: functional option to set the orbit
func WithOrbit(radius, azimuth, elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
		cc.azimuth = azimuth
		cc.elevation = elevation
	}
}

// WithTarget sets the look-at/pivot point.
//
// Parameters:
//   - target: world-space pivot
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles in radians.
func WithElevationBounds(minElevation, maxElevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = minElevation
		cc.maxElevation = maxElevation
	}
}

// WithSpeeds sets the input multipliers.
//
// Parameters:
//   - orbit: radians per keyboard orbit step
//   - mouse: radians per dragged pixel
//   - zoom: radius change per scroll unit
//   - pan: distance per pan unit
//
// Returns:
//   - CameraControllerOption: functional option to set the speeds
func WithSpeeds(orbit, mouse, zoom, pan float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed = orbit
		cc.mouseSensitivity = mouse
		cc.zoomSpeed = zoom
		cc.panSpeed = pan
	}
}
