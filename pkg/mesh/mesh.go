// Package mesh provides an indexed triangle mesh
package mesh

import (
	"slices"

	"github.com/philipparndt/alphashape/pkg/geometry"
)

// Face is a triangle given by three point indices, wound counter-clockwise
// when seen from outside
type Face [3]int

// Mesh is a triangle soup over a shared point list. Faces may leave points
// unreferenced; those are isolated vertices.
type Mesh struct {
	Points []geometry.Vector3
	Faces  []Face
}

// HalfEdge is the directed edge From -> To of a face
type HalfEdge struct {
	From, To int
	Face     int
}

// New creates a mesh over copies of points and faces
func New(points []geometry.Vector3, faces []Face) *Mesh {
	return &Mesh{
		Points: slices.Clone(points),
		Faces:  slices.Clone(faces),
	}
}

// Clone returns a deep copy
func (m *Mesh) Clone() *Mesh {
	return New(m.Points, m.Faces)
}

// NumPoints returns the number of points, referenced or not
func (m *Mesh) NumPoints() int {
	return len(m.Points)
}

// NumFaces returns the number of faces
func (m *Mesh) NumFaces() int {
	return len(m.Faces)
}

// Triangle returns the geometry of face f
func (m *Mesh) Triangle(f int) geometry.Triangle {
	face := m.Faces[f]
	return geometry.NewTriangle(m.Points[face[0]], m.Points[face[1]], m.Points[face[2]])
}

// HalfEdges returns the three directed edges of every face, in face order
func (m *Mesh) HalfEdges() []HalfEdge {
	hes := make([]HalfEdge, 0, 3*len(m.Faces))
	for f, face := range m.Faces {
		for k := 0; k < 3; k++ {
			hes = append(hes, HalfEdge{From: face[k], To: face[(k+1)%3], Face: f})
		}
	}
	return hes
}

// EdgeKey returns the undirected key of edge a-b
func EdgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// EdgeFaces maps every undirected edge to the faces using it
func (m *Mesh) EdgeFaces() map[[2]int][]int {
	edges := make(map[[2]int][]int, 3*len(m.Faces)/2)
	for f, face := range m.Faces {
		for k := 0; k < 3; k++ {
			key := EdgeKey(face[k], face[(k+1)%3])
			edges[key] = append(edges[key], f)
		}
	}
	return edges
}

// Edges returns the distinct undirected edges in ascending order
func (m *Mesh) Edges() [][2]int {
	set := m.EdgeFaces()
	edges := make([][2]int, 0, len(set))
	for e := range set {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	return edges
}

// EdgeCount returns the number of distinct undirected edges
func (m *Mesh) EdgeCount() int {
	return len(m.EdgeFaces())
}

// IsClosed reports whether every directed edge is matched by exactly one
// opposite directed edge. Such a mesh is watertight and consistently
// oriented. An empty mesh is not closed.
func (m *Mesh) IsClosed() bool {
	if len(m.Faces) == 0 {
		return false
	}
	directed := make(map[[2]int]int, 3*len(m.Faces))
	for _, he := range m.HalfEdges() {
		directed[[2]int{he.From, he.To}]++
	}
	for e, n := range directed {
		if n != 1 || directed[[2]int{e[1], e[0]}] != 1 {
			return false
		}
	}
	return true
}

// IsEdgeManifold reports whether no edge is shared by more than two faces
func (m *Mesh) IsEdgeManifold() bool {
	for _, faces := range m.EdgeFaces() {
		if len(faces) > 2 {
			return false
		}
	}
	return true
}

// Referenced marks the points used by at least one face
func (m *Mesh) Referenced() []bool {
	used := make([]bool, len(m.Points))
	for _, face := range m.Faces {
		used[face[0]] = true
		used[face[1]] = true
		used[face[2]] = true
	}
	return used
}

// Compact returns a mesh without unreferenced points. Surviving points keep
// their relative order. remap[old] is the new index, or -1 when dropped.
func (m *Mesh) Compact() (*Mesh, []int) {
	used := m.Referenced()
	remap := make([]int, len(m.Points))
	points := make([]geometry.Vector3, 0, len(m.Points))
	for i, p := range m.Points {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(points)
		points = append(points, p)
	}
	faces := make([]Face, len(m.Faces))
	for f, face := range m.Faces {
		faces[f] = Face{remap[face[0]], remap[face[1]], remap[face[2]]}
	}
	return &Mesh{Points: points, Faces: faces}, remap
}

// BoundingBox returns the bounding box of the referenced points
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	box := geometry.NewBoundingBox()
	for i, used := range m.Referenced() {
		if used {
			box.Extend(m.Points[i])
		}
	}
	return box
}

// FacesUint32 returns the faces as unsigned index triples
func (m *Mesh) FacesUint32() [][3]uint32 {
	out := make([][3]uint32, len(m.Faces))
	for f, face := range m.Faces {
		out[f] = [3]uint32{uint32(face[0]), uint32(face[1]), uint32(face[2])}
	}
	return out
}
