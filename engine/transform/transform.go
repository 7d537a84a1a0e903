package transform

import (
	"github.com/Carmen-Shannon/stilllife/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// ModelUniform is the uniform receiving the composed model matrix.
const ModelUniform = "model"

// Compose builds a model matrix as T * Rx * Ry * Rz * S. Applied to a column vector this scales
// first, then rotates about X, Y and Z in that order, then translates.
// The order is fixed: rotations do not commute and the scene data depends on it.
//
// Parameters:
//   - scale: per-axis scale factors
//   - rotationDeg: rotation angles in degrees about X, Y and Z
//   - position: translation in world space
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func Compose(scale, rotationDeg, position mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(rotationDeg.X()))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(rotationDeg.Y()))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(rotationDeg.Z()))
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())

	return t.Mul4(rx).Mul4(ry).Mul4(rz).Mul4(s)
}

// Push composes a model matrix and writes it to the model uniform.
//
// Parameters:
//   - u: the destination uniforms
//   - scale: per-axis scale factors
//   - rotationDeg: rotation angles in degrees about X, Y and Z
//   - position: translation in world space
func Push(u shader.Uniforms, scale, rotationDeg, position mgl32.Vec3) {
	u.SetMat4(ModelUniform, Compose(scale, rotationDeg, position))
}
