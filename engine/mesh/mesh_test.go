package mesh

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexIsTightlyPacked(t *testing.T) {
	assert.Equal(t, uintptr(32), unsafe.Sizeof(Vertex{}))
}

func TestBuildEveryKind(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			g := Build(kind)
			assert.Equal(t, kind, g.Kind)
			require.NotEmpty(t, g.Vertices)
			require.NotEmpty(t, g.Indices)
			assert.Zero(t, len(g.Indices)%3)

			for _, idx := range g.Indices {
				require.Less(t, int(idx), len(g.Vertices))
			}
			for _, v := range g.Vertices {
				assert.InDelta(t, 1, v.Normal.Len(), 1e-4)
			}

			var covered uint32
			for _, r := range g.RangesFor(PartsAll) {
				covered += r.Count
			}
			assert.Equal(t, uint32(len(g.Indices)), covered)
		})
	}
}

func TestBuildBoundsAndCounts(t *testing.T) {
	plane := Build(Plane)
	assert.Len(t, plane.Vertices, 4)
	assert.Len(t, plane.Indices, 6)
	for _, v := range plane.Vertices {
		assert.Zero(t, v.Position.Y())
	}

	box := Build(Box)
	assert.Len(t, box.Vertices, 24)
	assert.Len(t, box.Indices, 36)
	for _, v := range box.Vertices {
		for i := 0; i < 3; i++ {
			assert.InDelta(t, 0.5, abs(v.Position[i]), 1e-6)
		}
	}

	sphere := Build(Sphere)
	for _, v := range sphere.Vertices {
		assert.InDelta(t, 1, v.Position.Len(), 1e-4)
	}

	cyl := Build(Cylinder)
	for _, v := range cyl.Vertices {
		assert.GreaterOrEqual(t, v.Position.Y(), float32(0))
		assert.LessOrEqual(t, v.Position.Y(), float32(1))
	}
}

func TestCylinderParts(t *testing.T) {
	g := Build(Cylinder)
	require.Len(t, g.Parts, 3)

	sides := g.RangesFor(PartSides)
	require.Len(t, sides, 1)
	assert.Equal(t, uint32(0), sides[0].First)
	assert.Equal(t, uint32(CylinderSegments*6), sides[0].Count)

	top := g.RangesFor(PartTop)
	require.Len(t, top, 1)
	assert.Equal(t, uint32(CylinderSegments*3), top[0].Count)

	assert.Len(t, g.RangesFor(PartBottom|PartSides), 2)
	assert.Len(t, g.RangesFor(0), 3)
}

func TestWholeShapesIgnorePartSelection(t *testing.T) {
	g := Build(Torus)
	assert.Len(t, g.RangesFor(PartSides), 1)
	assert.Len(t, g.RangesFor(PartTop), 1)
}

func TestPartsHas(t *testing.T) {
	assert.True(t, Parts(0).Has(PartTop))
	assert.True(t, PartsAll.Has(PartTop|PartSides))
	assert.False(t, PartSides.Has(PartTop))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "cylinder", Cylinder.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
