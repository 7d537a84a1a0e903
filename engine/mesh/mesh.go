package mesh

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNotLoaded is returned when drawing a kind that was never loaded.
var ErrNotLoaded = errors.New("mesh not loaded")

// Kind identifies one of the primitive shapes.
type Kind int

const (
	Plane Kind = iota
	Cylinder
	Torus
	Box
	Sphere
)

// Kinds lists every primitive shape.
var Kinds = []Kind{Plane, Cylinder, Torus, Box, Sphere}

// String returns the lowercase shape name.
func (k Kind) String() string {
	switch k {
	case Plane:
		return "plane"
	case Cylinder:
		return "cylinder"
	case Torus:
		return "torus"
	case Box:
		return "box"
	case Sphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Parts selects which sub-ranges of a shape are drawn. Only the cylinder has separate parts;
// every other shape draws whole for any selection. The zero value selects every part.
type Parts uint8

const (
	PartTop Parts = 1 << iota
	PartBottom
	PartSides

	PartsAll = PartTop | PartBottom | PartSides
)

// Has reports whether p selects every part in other. A zero p selects everything.
func (p Parts) Has(other Parts) bool {
	if p == 0 {
		p = PartsAll
	}
	return p&other == other
}

// Vertex is the interleaved vertex format consumed by the still-life shader:
// position at location 0, normal at 1, uv at 2, 32 bytes per vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Range is a contiguous run of indices.
type Range struct {
	First uint32
	Count uint32
}

// PartRange ties an index range to the parts it belongs to.
type PartRange struct {
	Parts Parts
	Range Range
}

// Geometry is the CPU-side mesh of one shape.
type Geometry struct {
	Kind     Kind
	Vertices []Vertex
	Indices  []uint32
	Parts    []PartRange
}

// RangesFor returns the index ranges drawn for a part selection, in index order.
//
// Parameters:
//   - parts: the part selection (zero selects all)
//
// Returns:
//   - []Range: the ranges to draw
func (g Geometry) RangesFor(parts Parts) []Range {
	if parts == 0 {
		parts = PartsAll
	}
	var out []Range
	for _, pr := range g.Parts {
		if pr.Parts&parts != 0 {
			out = append(out, pr.Range)
		}
	}
	return out
}

// Library uploads primitive meshes once and issues draw calls against them.
type Library interface {
	// Load builds and uploads the geometry of a shape. Loading a kind twice is a no-op.
	//
	// Parameters:
	//   - kind: the shape to load
	//
	// Returns:
	//   - error: error if the upload fails
	Load(kind Kind) error

	// Draw issues a draw of a loaded shape using the current uniform state.
	//
	// Parameters:
	//   - kind: the shape to draw
	//   - parts: the parts to draw (zero selects all)
	//
	// Returns:
	//   - error: an error wrapping ErrNotLoaded if the shape was never loaded
	Draw(kind Kind, parts Parts) error

	// Release frees every uploaded mesh.
	Release()
}
