package scene

import (
	"path/filepath"

	"github.com/Carmen-Shannon/stilllife/engine/material"
	"github.com/Carmen-Shannon/stilllife/engine/mesh"
	"github.com/Carmen-Shannon/stilllife/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultTextureDir is where the still-life textures are looked for when no directory is configured.
const DefaultTextureDir = "assets/textures"

var (
	white = mgl32.Vec4{1, 1, 1, 1}
	black = mgl32.Vec4{0, 0, 0, 1}

	grapeColor   = mgl32.Vec4{0.5, 0, 0.5, 1}
	sausageColor = mgl32.Vec4{0.65, 0.32, 0.17, 1}
)

var (
	grapePositions = []mgl32.Vec3{
		{-3.0, 0.4, 7.5},
		{-2.8, 0.38, 6.9},
		{-2.6, 0.40, 7.3},
		{-2.0, 0.4, 6.4},
		{-2.6, 0.40, 7.8},
		{-2.6, 0.38, 6.4},
	}
	grapeSizes = []float32{0.2, 0.18, 0.22, 0.19, 0.21, 0.17}

	sausagePositions = []mgl32.Vec3{
		{0.0, 0.21, 8.0},
		{0.7, 0.21, 7.0},
	}
	sausageScales = []mgl32.Vec3{
		{0.1, 0.1, 1.8},
		{0.1, 0.1, 1.8},
	}
	sausageRotations = []float32{35, 45}
)

// StillLifeTextures returns the texture files of the still-life, in slot order.
//
// Parameters:
//   - dir: the directory holding the image files
//
// Returns:
//   - []texture.Source: the sources
func StillLifeTextures(dir string) []texture.Source {
	return []texture.Source{
		{Path: filepath.Join(dir, "white_mug.jpg"), Tag: "mug"},
		{Path: filepath.Join(dir, "ceramic.jpg"), Tag: "mug2"},
		{Path: filepath.Join(dir, "countertop.jpg"), Tag: "counter"},
		{Path: filepath.Join(dir, "knife_handle.jpg"), Tag: "cuttingBoard"},
	}
}

// StillLifeMaterials returns the materials of the still-life.
func StillLifeMaterials() []material.Material {
	return []material.Material{
		material.NewMaterial("counter",
			material.WithAmbientColor(mgl32.Vec3{0.5, 0.5, 0.5}),
			material.WithAmbientStrength(0.3),
			material.WithDiffuseColor(mgl32.Vec3{0.2, 0.2, 0.2}),
			material.WithSpecularColor(mgl32.Vec3{0.2, 0.2, 0.2}),
			material.WithShininess(32),
		),
		material.NewMaterial("mugOuter",
			material.WithAmbientColor(mgl32.Vec3{1, 1, 1}),
			material.WithAmbientStrength(0.5),
			material.WithDiffuseColor(mgl32.Vec3{0.3, 0.3, 0.3}),
			material.WithSpecularColor(mgl32.Vec3{0.1, 0.1, 0.1}),
			material.WithShininess(8),
		),
		material.NewMaterial("mugHandle",
			material.WithAmbientColor(mgl32.Vec3{1, 1, 1}),
			material.WithAmbientStrength(0.5),
			material.WithDiffuseColor(mgl32.Vec3{0.3, 0.3, 0.3}),
			material.WithSpecularColor(mgl32.Vec3{0.1, 0.1, 0.1}),
			material.WithShininess(8),
		),
		material.NewMaterial("wood",
			material.WithAmbientColor(mgl32.Vec3{0.76, 0.60, 0.42}),
			material.WithAmbientStrength(0.5),
			material.WithDiffuseColor(mgl32.Vec3{0.65, 0.45, 0.30}),
			material.WithSpecularColor(mgl32.Vec3{0.2, 0.2, 0.2}),
			material.WithShininess(16),
		),
	}
}

// StillLife returns the draw statements of the still-life in draw order:
// countertop, mug, cutting board, grapes, sausages and tea box.
//
// Returns:
//   - []DrawStatement: the statements
func StillLife() []DrawStatement {
	var out []DrawStatement

	out = append(out, DrawStatement{
		Name:     "countertop",
		Mesh:     mesh.Plane,
		Scale:    mgl32.Vec3{15, 1, 12},
		Position: mgl32.Vec3{0, 0, 2},
		Color:    mgl32.Vec4{0.5, 0.5, 0.5, 1},
		Texture:  "counter",
		Material: "counter",
	})

	out = append(out, mugStatements()...)

	out = append(out, DrawStatement{
		Name:     "cutting board",
		Mesh:     mesh.Box,
		Scale:    mgl32.Vec3{6, 0.2, 3},
		Position: mgl32.Vec3{-1, 0.1, 7.5},
		Color:    mgl32.Vec4{0.76, 0.60, 0.42, 1},
		Texture:  "cuttingBoard",
		Material: "wood",
	})

	out = append(out, grapeStatements(grapePositions, grapeSizes)...)
	out = append(out, sausageStatements(sausagePositions, sausageScales, sausageRotations)...)

	out = append(out, DrawStatement{
		Name:     "tea box",
		Mesh:     mesh.Box,
		Scale:    mgl32.Vec3{4, 2, 2},
		Rotation: mgl32.Vec3{0, -25, 0},
		Position: mgl32.Vec3{2.2, 1, 0.6},
		Color:    mgl32.Vec4{0.8, 0.7, 0.5, 1},
	})

	return out
}

// mugStatements returns the mug: an open textured body, a torus handle, a black rim with a white
// inner lip, and a tea bag tag hanging from its string.
func mugStatements() []DrawStatement {
	return []DrawStatement{
		{
			Name:     "mug body",
			Mesh:     mesh.Cylinder,
			Parts:    mesh.PartSides,
			Scale:    mgl32.Vec3{1, 2, 1},
			Position: mgl32.Vec3{5.5, 0, 3},
			Color:    white,
			UVScale:  mgl32.Vec2{5, 1},
			Texture:  "mug",
			Material: "mugOuter",
		},
		{
			Name:     "mug handle",
			Mesh:     mesh.Torus,
			Scale:    mgl32.Vec3{0.7, 0.7, 0.2},
			Rotation: mgl32.Vec3{0, -15, 0},
			Position: mgl32.Vec3{6.5, 0.8, 3},
			Color:    white,
			UVScale:  mgl32.Vec2{2, 1},
			Texture:  "mug",
		},
		{
			Name:     "mug rim",
			Mesh:     mesh.Cylinder,
			Scale:    mgl32.Vec3{1.01, 0.05, 1.01},
			Position: mgl32.Vec3{5.5, 2, 3},
			Color:    black,
		},
		{
			Name:     "mug inner rim",
			Mesh:     mesh.Cylinder,
			Scale:    mgl32.Vec3{0.99, 0.05, 0.99},
			Position: mgl32.Vec3{5.5, 2.01, 3},
			Color:    white,
		},
		{
			Name:     "tea tag",
			Mesh:     mesh.Box,
			Scale:    mgl32.Vec3{0.4, 0.6, 0.1},
			Position: mgl32.Vec3{5.5, 0.33, 4},
			Color:    black,
		},
		{
			Name:     "tea string",
			Mesh:     mesh.Cylinder,
			Scale:    mgl32.Vec3{0.02, 1.75, 0.02},
			Position: mgl32.Vec3{5.5, 0.33, 4},
			Color:    mgl32.Vec4{0.96, 0.87, 0.70, 1},
		},
	}
}
