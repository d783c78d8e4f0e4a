package mesh

import (
	"testing"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

// cube returns a closed, outward-oriented unit cube. Point i sits at
// (i>>2&1, i>>1&1, i&1).
func cube() *Mesh {
	points := make([]geometry.Vector3, 8)
	for i := range points {
		points[i] = geometry.NewVector3(float64(i>>2&1), float64(i>>1&1), float64(i&1))
	}
	return &Mesh{
		Points: points,
		Faces: []Face{
			{0, 1, 3}, {0, 3, 2},
			{4, 6, 7}, {4, 7, 5},
			{0, 4, 5}, {0, 5, 1},
			{2, 3, 7}, {2, 7, 6},
			{0, 2, 6}, {0, 6, 4},
			{1, 5, 7}, {1, 7, 3},
		},
	}
}

func TestCubeIsClosed(t *testing.T) {
	m := cube()
	assert.True(t, m.IsClosed())
	assert.True(t, m.IsEdgeManifold())
	assert.Equal(t, 18, m.EdgeCount())
	assert.Len(t, m.Edges(), 18)
	assert.Len(t, m.HalfEdges(), 36)
}

func TestOpenAndFlippedMeshes(t *testing.T) {
	open := cube()
	open.Faces = open.Faces[1:]
	assert.False(t, open.IsClosed())

	flipped := cube()
	f := flipped.Faces[0]
	flipped.Faces[0] = Face{f[0], f[2], f[1]}
	assert.False(t, flipped.IsClosed(), "inconsistent orientation is not closed")

	assert.False(t, (&Mesh{}).IsClosed())
}

func TestEdgesSorted(t *testing.T) {
	edges := cube().Edges()
	for i := 1; i < len(edges); i++ {
		prev, cur := edges[i-1], edges[i]
		assert.True(t, prev[0] < cur[0] || (prev[0] == cur[0] && prev[1] < cur[1]))
	}
	assert.Equal(t, [2]int{0, 1}, edges[0])
}

func TestNonManifoldEdge(t *testing.T) {
	m := cube()
	m.Points = append(m.Points, geometry.NewVector3(0.5, -1, 0))
	m.Faces = append(m.Faces, Face{0, 4, 8})
	assert.False(t, m.IsEdgeManifold())
}

func TestCompact(t *testing.T) {
	m := cube()
	m.Points = append([]geometry.Vector3{geometry.NewVector3(9, 9, 9)}, m.Points...)
	for f := range m.Faces {
		for k := range m.Faces[f] {
			m.Faces[f][k]++
		}
	}

	compact, remap := m.Compact()
	assert.Equal(t, -1, remap[0])
	assert.Equal(t, 0, remap[1])
	assert.Equal(t, 8, compact.NumPoints())
	assert.Equal(t, cube().Faces, compact.Faces)
	assert.True(t, compact.IsClosed())
	assert.Equal(t, 9, m.NumPoints(), "source mesh is untouched")
}

func TestCloneIsDeep(t *testing.T) {
	m := cube()
	c := m.Clone()
	c.Points[0] = geometry.NewVector3(5, 5, 5)
	c.Faces[0] = Face{7, 7, 7}
	assert.Equal(t, geometry.NewVector3(0, 0, 0), m.Points[0])
	assert.Equal(t, Face{0, 1, 3}, m.Faces[0])
}

func TestBoundingBoxIgnoresIsolatedPoints(t *testing.T) {
	m := cube()
	m.Points = append(m.Points, geometry.NewVector3(100, 100, 100))
	box := m.BoundingBox()
	assert.Equal(t, geometry.NewVector3(1, 1, 1), box.Max)
	assert.Equal(t, geometry.NewVector3(0, 0, 0), box.Min)
}

func TestFacesUint32(t *testing.T) {
	faces := cube().FacesUint32()
	assert.Equal(t, [3]uint32{0, 1, 3}, faces[0])
	assert.Len(t, faces, 12)
}
