// Package spatial answers nearest-vertex queries against a mesh
package spatial

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
)

// ErrEmptyIndex is returned when the mesh has no referenced vertex
var ErrEmptyIndex = errors.New("spatial: mesh has no faces to index")

// Index is a k-d tree over the vertices a mesh's faces reference
type Index struct {
	tree *kdtree.Tree
	size int
}

// NewIndex builds an index over the face-referenced vertices of m.
// Isolated points are not indexed; reported ids are indices into m.Points.
func NewIndex(m *mesh.Mesh) (*Index, error) {
	used := m.Referenced()
	pts := make(points, 0, len(m.Points))
	for i, ok := range used {
		if ok {
			pts = append(pts, point{Vector3: m.Points[i], id: i})
		}
	}
	if len(pts) == 0 {
		return nil, ErrEmptyIndex
	}
	return &Index{tree: kdtree.New(pts, false), size: len(pts)}, nil
}

// Len returns the number of indexed vertices
func (x *Index) Len() int {
	return x.size
}

// Nearest returns the id of the indexed vertex closest to p and its
// Euclidean distance. Ties resolve to an arbitrary candidate.
func (x *Index) Nearest(p geometry.Vector3) (int, float64) {
	c, d2 := x.tree.Nearest(point{Vector3: p, id: -1})
	if c == nil {
		return -1, math.Inf(1)
	}
	return c.(point).id, math.Sqrt(d2)
}

// NearestAll answers Nearest for every query point
func (x *Index) NearestAll(ps []geometry.Vector3) ([]uint32, []float64) {
	ids := make([]uint32, len(ps))
	dists := make([]float64, len(ps))
	for i, p := range ps {
		id, d := x.Nearest(p)
		ids[i] = uint32(id)
		dists[i] = d
	}
	return ids, dists
}

// point is a kdtree.Comparable carrying its mesh vertex id
type point struct {
	geometry.Vector3
	id int
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.At(int(d)) - c.(point).At(int(d))
}

func (p point) Dims() int { return 3 }

// Distance returns the squared distance, as kdtree expects
func (p point) Distance(c kdtree.Comparable) float64 {
	return p.DistanceSquared(c.(point).Vector3)
}

type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Pivot(d kdtree.Dim) int                { return plane{Dim: d, points: p}.Pivot() }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts points along one axis. The median of medians pivot keeps
// tree construction deterministic.
type plane struct {
	kdtree.Dim
	points
}

func (p plane) Less(i, j int) bool {
	return p.points[i].At(int(p.Dim)) < p.points[j].At(int(p.Dim))
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
