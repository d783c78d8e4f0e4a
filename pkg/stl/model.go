package stl

import (
	"math"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
)

// Model is an STL solid with its corners welded into a shared point list
type Model struct {
	Name   string
	Points []geometry.Vector3
	Faces  []mesh.Face

	index map[[3]uint64]int
}

// NewModel creates an empty model
func NewModel(name string) *Model {
	return &Model{
		Name:  name,
		index: make(map[[3]uint64]int),
	}
}

// AddTriangle appends a facet. Corners with the same coordinates share one
// point; the first occurrence fixes its index.
func (m *Model) AddTriangle(a, b, c geometry.Vector3) {
	m.Faces = append(m.Faces, mesh.Face{m.point(a), m.point(b), m.point(c)})
}

func (m *Model) point(p geometry.Vector3) int {
	key := [3]uint64{math.Float64bits(p.X), math.Float64bits(p.Y), math.Float64bits(p.Z)}
	if i, ok := m.index[key]; ok {
		return i
	}
	m.Points = append(m.Points, p)
	m.index[key] = len(m.Points) - 1
	return len(m.Points) - 1
}

// TriangleCount returns the number of facets in the model
func (m *Model) TriangleCount() int {
	return len(m.Faces)
}

// Mesh returns the model as a mesh sharing its slices
func (m *Model) Mesh() *mesh.Mesh {
	return &mesh.Mesh{Points: m.Points, Faces: m.Faces}
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	return geometry.BoundsOf(m.Points)
}
