// Package delaunay builds three-dimensional Delaunay triangulations.
//
// Cells live in a flat arena and refer to each other and to the input
// points by integer id. The triangulation is closed by an infinite vertex:
// every convex hull facet is shared with an infinite cell, so every cell
// has exactly four neighbours.
package delaunay

import (
	"errors"
	"fmt"
	"slices"

	"github.com/philipparndt/alphashape/pkg/geometry"
)

// Infinite is the vertex id of the point at infinity
const Infinite = -1

var (
	ErrTooFewPoints   = errors.New("delaunay: at least 4 points are required")
	ErrDegenerate     = errors.New("delaunay: all points are coplanar")
	ErrDuplicatePoint = errors.New("delaunay: duplicate point")
	ErrNonFinite      = errors.New("delaunay: coordinate is not finite")
	ErrTriangulation  = errors.New("delaunay: invalid triangulation")
)

// Cell is a tetrahedron. V[i] is a vertex id or Infinite, N[i] is the id of
// the cell sharing the facet opposite V[i].
type Cell struct {
	V [4]int
	N [4]int
}

// IsInfinite reports whether the cell has the infinite vertex
func (c Cell) IsInfinite() bool {
	return c.V[0] == Infinite || c.V[1] == Infinite || c.V[2] == Infinite || c.V[3] == Infinite
}

// Index returns the position of vertex v in the cell, or -1
func (c Cell) Index(v int) int {
	for i, w := range c.V {
		if w == v {
			return i
		}
	}
	return -1
}

// NeighborIndex returns the position of neighbour cell n, or -1
func (c Cell) NeighborIndex(n int) int {
	for i, m := range c.N {
		if m == n {
			return i
		}
	}
	return -1
}

// Facet returns the vertices of the facet opposite V[i], wound so that the
// normal points into the cell, toward V[i], when the cell is positively
// oriented. Seen from the neighbour across it, the facet faces outward.
func (c Cell) Facet(i int) [3]int {
	f := [3]int{c.V[(i+1)%4], c.V[(i+2)%4], c.V[(i+3)%4]}
	if i%2 == 0 {
		f[0], f[1] = f[1], f[0]
	}
	return f
}

// Triangulation is a Delaunay triangulation of a fixed point set
type Triangulation struct {
	points     []geometry.Vector3
	cells      []Cell
	vertexCell []int
	finite     int
	hint       int
}

// NumVertices returns the number of input points
func (t *Triangulation) NumVertices() int {
	return len(t.points)
}

// Point returns the coordinates of vertex v
func (t *Triangulation) Point(v int) geometry.Vector3 {
	return t.points[v]
}

// Points returns a copy of the input points
func (t *Triangulation) Points() []geometry.Vector3 {
	return slices.Clone(t.points)
}

// NumCells returns the number of cells, infinite ones included
func (t *Triangulation) NumCells() int {
	return len(t.cells)
}

// NumFiniteCells returns the number of finite tetrahedra
func (t *Triangulation) NumFiniteCells() int {
	return t.finite
}

// Cell returns cell c
func (t *Triangulation) Cell(c int) Cell {
	return t.cells[c]
}

// IsInfinite reports whether cell c has the infinite vertex
func (t *Triangulation) IsInfinite(c int) bool {
	return t.cells[c].IsInfinite()
}

// FiniteCells returns the ids of all finite cells in ascending order
func (t *Triangulation) FiniteCells() []int {
	ids := make([]int, 0, t.finite)
	for c := range t.cells {
		if !t.cells[c].IsInfinite() {
			ids = append(ids, c)
		}
	}
	return ids
}

// Mirror returns the neighbour across facet i of cell c and the index of
// that same facet inside the neighbour
func (t *Triangulation) Mirror(c, i int) (int, int) {
	n := t.cells[c].N[i]
	return n, t.cells[n].NeighborIndex(c)
}

// VertexCell returns some cell incident to vertex v
func (t *Triangulation) VertexCell(v int) int {
	return t.vertexCell[v]
}

// CellPoints returns the corner coordinates of a finite cell
func (t *Triangulation) CellPoints(c int) [4]geometry.Vector3 {
	v := t.cells[c].V
	return [4]geometry.Vector3{t.points[v[0]], t.points[v[1]], t.points[v[2]], t.points[v[3]]}
}

// Faces returns four triangles per finite cell, as vertex id triples
// (0,1,2), (0,2,3), (1,2,3), (0,1,3)
func (t *Triangulation) Faces() [][3]int {
	faces := make([][3]int, 0, 4*t.finite)
	for _, cell := range t.cells {
		if cell.IsInfinite() {
			continue
		}
		v := cell.V
		faces = append(faces,
			[3]int{v[0], v[1], v[2]},
			[3]int{v[0], v[2], v[3]},
			[3]int{v[1], v[2], v[3]},
			[3]int{v[0], v[1], v[3]},
		)
	}
	return faces
}

// Validate checks the combinatorial and geometric invariants: symmetric
// neighbour links across identical facets, positively oriented finite
// cells and locally empty circumspheres.
func (t *Triangulation) Validate() error {
	for c, cell := range t.cells {
		for i, n := range cell.N {
			if n < 0 || n >= len(t.cells) {
				return fmt.Errorf("%w: cell %d has no neighbour %d", ErrTriangulation, c, i)
			}
			j := t.cells[n].NeighborIndex(c)
			if j < 0 {
				return fmt.Errorf("%w: cell %d is not linked back from %d", ErrTriangulation, c, n)
			}
			if !sameFacet(cell, i, t.cells[n], j) {
				return fmt.Errorf("%w: cells %d and %d disagree on their shared facet", ErrTriangulation, c, n)
			}
		}
		if cell.IsInfinite() {
			continue
		}
		p := t.CellPoints(c)
		if geometry.Orient3D(p[0], p[1], p[2], p[3]) <= 0 {
			return fmt.Errorf("%w: cell %d is not positively oriented", ErrTriangulation, c)
		}
		for i, n := range cell.N {
			if t.cells[n].IsInfinite() {
				continue
			}
			opposite := t.cells[n].V[t.cells[n].NeighborIndex(c)]
			if geometry.InSphere(p[0], p[1], p[2], p[3], t.points[opposite]) > 0 {
				return fmt.Errorf("%w: vertex %d lies inside the circumsphere of cell %d (facet %d)",
					ErrTriangulation, opposite, c, i)
			}
		}
	}
	for v, c := range t.vertexCell {
		if c < 0 || t.cells[c].Index(v) < 0 {
			return fmt.Errorf("%w: vertex %d has no incident cell", ErrTriangulation, v)
		}
	}
	return nil
}

func sameFacet(a Cell, i int, b Cell, j int) bool {
	fa := sortedFacet(a, i)
	fb := sortedFacet(b, j)
	return fa == fb
}

func sortedFacet(c Cell, i int) [3]int {
	f := [3]int{c.V[(i+1)%4], c.V[(i+2)%4], c.V[(i+3)%4]}
	slices.Sort(f[:])
	return f
}
