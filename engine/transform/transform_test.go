package transform

import (
	"testing"

	"github.com/Carmen-Shannon/stilllife/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "component %d", i)
	}
}

func TestComposeIdentity(t *testing.T) {
	m := Compose(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, mgl32.Vec3{})
	assert.True(t, m.ApproxEqualThreshold(mgl32.Ident4(), tol))
}

func TestComposeScaleRotateTranslate(t *testing.T) {
	m := Compose(mgl32.Vec3{2, 1, 1}, mgl32.Vec3{0, 90, 0}, mgl32.Vec3{1, 0, 0})

	// (1,0,0) scaled to (2,0,0), rotated +90 about Y to (0,0,-2), translated to (1,0,-2)
	assertVecNear(t, mgl32.Vec3{1, 0, -2}, common.TransformPoint(m, mgl32.Vec3{1, 0, 0}))

	want := mgl32.Translate3D(1, 0, 0).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90))).
		Mul4(mgl32.Scale3D(2, 1, 1))
	assert.True(t, m.ApproxEqualThreshold(want, tol))
}

func TestComposeRotationOrderIsXThenYThenZ(t *testing.T) {
	m := Compose(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{90, 90, 0}, mgl32.Vec3{})

	// Rx(90) * Ry(90) applied to +Z: Ry takes +Z to +X, Rx leaves +X alone
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, common.TransformPoint(m, mgl32.Vec3{0, 0, 1}))

	swapped := mgl32.HomogRotate3DY(mgl32.DegToRad(90)).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(90)))
	assert.False(t, m.ApproxEqualThreshold(swapped, tol))
}
