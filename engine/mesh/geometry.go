package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// CylinderSegments is the number of radial segments of the cylinder.
	CylinderSegments = 36

	// SphereStacks and SphereSlices set the latitude and longitude resolution of the sphere.
	SphereStacks = 18
	SphereSlices = 36

	// TorusMajorRadius is the distance from the torus center to the center of its tube.
	TorusMajorRadius = 1.0

	// TorusMinorRadius is the radius of the torus tube.
	TorusMinorRadius = 0.2

	TorusRings = 36
	TorusSides = 16
)

// Build generates the geometry of a shape. All shapes are unit sized:
// the plane spans [-1, 1] in XZ at y = 0, the box is a unit cube centered on the origin,
// the cylinder has radius 1 and spans y in [0, 1], the sphere has radius 1 and the torus
// lies in the XY plane.
//
// Parameters:
//   - kind: the shape
//
// Returns:
//   - Geometry: the generated geometry, empty for an unknown kind
func Build(kind Kind) Geometry {
	var g Geometry
	switch kind {
	case Plane:
		g = buildPlane()
	case Cylinder:
		g = buildCylinder(CylinderSegments)
	case Torus:
		g = buildTorus(TorusMajorRadius, TorusMinorRadius, TorusRings, TorusSides)
	case Box:
		g = buildBox()
	case Sphere:
		g = buildSphere(SphereStacks, SphereSlices)
	}
	g.Kind = kind
	return g
}

// whole wraps a geometry's full index range as a single part drawn for any selection.
func whole(g Geometry) Geometry {
	g.Parts = []PartRange{{Parts: PartsAll, Range: Range{First: 0, Count: uint32(len(g.Indices))}}}
	return g
}

func buildPlane() Geometry {
	up := mgl32.Vec3{0, 1, 0}
	g := Geometry{
		Vertices: []Vertex{
			{mgl32.Vec3{-1, 0, -1}, up, mgl32.Vec2{0, 1}},
			{mgl32.Vec3{1, 0, -1}, up, mgl32.Vec2{1, 1}},
			{mgl32.Vec3{1, 0, 1}, up, mgl32.Vec2{1, 0}},
			{mgl32.Vec3{-1, 0, 1}, up, mgl32.Vec2{0, 0}},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
	return whole(g)
}

func buildBox() Geometry {
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}

	var g Geometry
	for _, f := range faces {
		base := uint32(len(g.Vertices))
		center := f.normal.Mul(0.5)
		for _, c := range [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
			p := center.Add(f.u.Mul(c.X() - 0.5)).Add(f.v.Mul(c.Y() - 0.5))
			g.Vertices = append(g.Vertices, Vertex{p, f.normal, c})
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return whole(g)
}

// buildCylinder emits the sides, then the top cap, then the bottom cap, each as its own part.
func buildCylinder(segments int) Geometry {
	var g Geometry
	step := 2 * math32.Pi / float32(segments)

	sideStart := uint32(len(g.Indices))
	for i := 0; i <= segments; i++ {
		a := float32(i) * step
		x, z := math32.Cos(a), math32.Sin(a)
		n := mgl32.Vec3{x, 0, z}
		u := float32(i) / float32(segments)
		g.Vertices = append(g.Vertices,
			Vertex{mgl32.Vec3{x, 0, z}, n, mgl32.Vec2{u, 0}},
			Vertex{mgl32.Vec3{x, 1, z}, n, mgl32.Vec2{u, 1}},
		)
	}
	for i := 0; i < segments; i++ {
		b := uint32(i * 2)
		g.Indices = append(g.Indices, b, b+1, b+3, b, b+3, b+2)
	}
	g.Parts = append(g.Parts, PartRange{PartSides, Range{sideStart, uint32(len(g.Indices)) - sideStart}})

	addCap := func(y, ny float32, part Parts) {
		start := uint32(len(g.Indices))
		center := uint32(len(g.Vertices))
		n := mgl32.Vec3{0, ny, 0}
		g.Vertices = append(g.Vertices, Vertex{mgl32.Vec3{0, y, 0}, n, mgl32.Vec2{0.5, 0.5}})
		for i := 0; i <= segments; i++ {
			a := float32(i) * step
			x, z := math32.Cos(a), math32.Sin(a)
			g.Vertices = append(g.Vertices, Vertex{mgl32.Vec3{x, y, z}, n, mgl32.Vec2{0.5 + x/2, 0.5 + z/2}})
		}
		for i := 0; i < segments; i++ {
			r := center + 1 + uint32(i)
			if ny > 0 {
				g.Indices = append(g.Indices, center, r+1, r)
			} else {
				g.Indices = append(g.Indices, center, r, r+1)
			}
		}
		g.Parts = append(g.Parts, PartRange{part, Range{start, uint32(len(g.Indices)) - start}})
	}
	addCap(1, 1, PartTop)
	addCap(0, -1, PartBottom)

	return g
}

func buildSphere(stacks, slices int) Geometry {
	var g Geometry
	for i := 0; i <= stacks; i++ {
		phi := math32.Pi * float32(i) / float32(stacks)
		y := math32.Cos(phi)
		r := math32.Sin(phi)
		for j := 0; j <= slices; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(slices)
			p := mgl32.Vec3{r * math32.Cos(theta), y, r * math32.Sin(theta)}
			uv := mgl32.Vec2{float32(j) / float32(slices), 1 - float32(i)/float32(stacks)}
			g.Vertices = append(g.Vertices, Vertex{p, p, uv})
		}
	}
	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			g.Indices = append(g.Indices, a, a+1, b+1, a, b+1, b)
		}
	}
	return whole(g)
}

func buildTorus(major, minor float32, rings, sides int) Geometry {
	var g Geometry
	for i := 0; i <= rings; i++ {
		u := 2 * math32.Pi * float32(i) / float32(rings)
		cu, su := math32.Cos(u), math32.Sin(u)
		for j := 0; j <= sides; j++ {
			v := 2 * math32.Pi * float32(j) / float32(sides)
			cv, sv := math32.Cos(v), math32.Sin(v)
			n := mgl32.Vec3{cv * cu, cv * su, sv}
			p := mgl32.Vec3{(major + minor*cv) * cu, (major + minor*cv) * su, minor * sv}
			uv := mgl32.Vec2{float32(i) / float32(rings), float32(j) / float32(sides)}
			g.Vertices = append(g.Vertices, Vertex{p, n, uv})
		}
	}
	row := uint32(sides + 1)
	for i := 0; i < rings; i++ {
		for j := 0; j < sides; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			g.Indices = append(g.Indices, a, b, b+1, a, b+1, a+1)
		}
	}
	return whole(g)
}
