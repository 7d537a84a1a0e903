package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController moves the viewer around the still life. It owns the eye and the pivot;
// the Camera only derives matrices from them.
//
// The eye sits on a sphere around the pivot described by radius, azimuth and elevation.
// Panning slides eye and pivot together so the sphere travels with it.
type CameraController interface {
	// Position returns the eye in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the pivot the eye looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the pivot position
	Target() mgl32.Vec3

	// Zoom moves the eye toward the pivot for positive delta, within the radius limits.
	//
	// Parameters:
	//   - delta: scroll amount, scaled by the zoom speed
	Zoom(delta float32)

	// OrbitLeft steps the azimuth down by the orbit speed.
	OrbitLeft()

	// OrbitRight steps the azimuth up by the orbit speed.
	OrbitRight()

	// OrbitUp raises the eye by one step, stopping at the elevation ceiling.
	OrbitUp()

	// OrbitDown lowers the eye by one step, stopping at the elevation floor.
	OrbitDown()

	// OrbitDrag turns a cursor drag into azimuth and elevation changes.
	//
	// Parameters:
	//   - dx: horizontal cursor delta in pixels
	//   - dy: vertical cursor delta in pixels
	OrbitDrag(dx, dy float32)

	// Radius returns the eye's distance from the pivot.
	Radius() float32

	// SetRadius places the eye at radius from the pivot, within the limits.
	//
	// Parameters:
	//   - radius: the distance from the pivot
	SetRadius(radius float32)

	// Azimuth returns the angle around the Y axis in radians.
	Azimuth() float32

	// Elevation returns the angle above the ground plane in radians.
	Elevation() float32

	// SetElevation places the eye at elevation, within the limits.
	//
	// Parameters:
	//   - elevation: the angle in radians
	SetElevation(elevation float32)

	// PanRight slides along the view's right axis on the ground plane.
	//
	// Parameters:
	//   - delta: signed amount, scaled by the pan speed
	PanRight(delta float32)

	// PanUp slides along world Y.
	//
	// Parameters:
	//   - delta: signed amount, scaled by the pan speed
	PanUp(delta float32)

	// PanForward slides toward the pivot along the ground plane.
	//
	// Parameters:
	//   - delta: signed amount, scaled by the pan speed
	PanForward(delta float32)
}
