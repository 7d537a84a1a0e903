package scene

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/stilllife/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrMismatchedInstances is returned when per-instance arrays differ in length.
var ErrMismatchedInstances = errors.New("mismatched instance arrays")

// DrawStatement is one primitive draw and the state pushed before it.
// Empty Texture and Material, and a zero UVScale, leave the corresponding uniforms as the
// previous statement left them.
type DrawStatement struct {
	Name     string
	Mesh     mesh.Kind
	Parts    mesh.Parts
	Scale    mgl32.Vec3
	Rotation mgl32.Vec3
	Position mgl32.Vec3
	Color    mgl32.Vec4
	UVScale  mgl32.Vec2
	Texture  string
	Material string
}

// GrapeStatements builds one sphere statement per grape. Each grape is scaled uniformly by its size.
//
// Parameters:
//   - positions: the center of each grape
//   - sizes: the radius of each grape
//
// Returns:
//   - []DrawStatement: the statements in index order
//   - error: ErrMismatchedInstances if the arrays differ in length
func GrapeStatements(positions []mgl32.Vec3, sizes []float32) ([]DrawStatement, error) {
	if len(positions) != len(sizes) {
		return nil, fmt.Errorf("%w: %d grape positions, %d sizes", ErrMismatchedInstances, len(positions), len(sizes))
	}
	return grapeStatements(positions, sizes), nil
}

func grapeStatements(positions []mgl32.Vec3, sizes []float32) []DrawStatement {
	out := make([]DrawStatement, len(positions))
	for i := range positions {
		s := sizes[i]
		out[i] = DrawStatement{
			Name:     fmt.Sprintf("grape %d", i+1),
			Mesh:     mesh.Sphere,
			Scale:    mgl32.Vec3{s, s, s},
			Position: positions[i],
			Color:    grapeColor,
		}
	}
	return out
}

// SausageStatements builds one closed-bottom cylinder statement per sausage.
//
// Parameters:
//   - positions: the base of each sausage
//   - scales: the per-axis scale of each sausage
//   - yRotations: the rotation of each sausage about Y in degrees
//
// Returns:
//   - []DrawStatement: the statements in index order
//   - error: ErrMismatchedInstances if the arrays differ in length
func SausageStatements(positions, scales []mgl32.Vec3, yRotations []float32) ([]DrawStatement, error) {
	if len(positions) != len(scales) || len(positions) != len(yRotations) {
		return nil, fmt.Errorf("%w: %d sausage positions, %d scales, %d rotations",
			ErrMismatchedInstances, len(positions), len(scales), len(yRotations))
	}
	return sausageStatements(positions, scales, yRotations), nil
}

func sausageStatements(positions, scales []mgl32.Vec3, yRotations []float32) []DrawStatement {
	out := make([]DrawStatement, len(positions))
	for i := range positions {
		out[i] = DrawStatement{
			Name:     fmt.Sprintf("sausage %d", i+1),
			Mesh:     mesh.Cylinder,
			Parts:    mesh.PartBottom | mesh.PartSides,
			Scale:    scales[i],
			Rotation: mgl32.Vec3{0, yRotations[i], 0},
			Position: positions[i],
			Color:    sausageColor,
		}
	}
	return out
}

// meshKinds returns the distinct shapes drawn by statements, in mesh.Kinds order.
func meshKinds(statements []DrawStatement) []mesh.Kind {
	used := make(map[mesh.Kind]bool, len(mesh.Kinds))
	for _, st := range statements {
		used[st.Mesh] = true
	}
	var kinds []mesh.Kind
	for _, k := range mesh.Kinds {
		if used[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
