package alpha

import (
	"fmt"

	"github.com/philipparndt/alphashape/pkg/delaunay"
	"github.com/philipparndt/alphashape/pkg/geometry"
)

// Label is the status of a simplex in the alpha complex
type Label int

const (
	Exterior Label = iota
	Singular
	Regular
	Interior
)

func (l Label) String() string {
	switch l {
	case Exterior:
		return "exterior"
	case Singular:
		return "singular"
	case Regular:
		return "regular"
	case Interior:
		return "interior"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// Location is where a query point lies relative to the alpha shape
type Location int

const (
	Outside Location = iota
	Boundary
	Inside
)

func (l Location) String() string {
	switch l {
	case Outside:
		return "outside"
	case Boundary:
		return "boundary"
	case Inside:
		return "inside"
	default:
		return fmt.Sprintf("Location(%d)", int(l))
	}
}

// Contained reports whether the location counts as part of the shape.
// Points on the boundary are contained.
func (l Location) Contained() bool {
	return l != Outside
}

// ClassifyCell labels a cell with critical alpha critical
func ClassifyCell(critical, alpha float64) Label {
	if alpha >= critical {
		return Interior
	}
	return Exterior
}

// ClassifyFacet labels a facet: interior when both incident cells are,
// regular when exactly one is, singular when none is but the facet itself
// is in the complex.
func ClassifyFacet(f Facet, alpha float64) Label {
	return classifyInterval(f.Critical, f.Min, f.Max, alpha)
}

// ClassifyEdge labels an edge by the same rule over its incident facets
func ClassifyEdge(e Edge, alpha float64) Label {
	return classifyInterval(e.Critical, e.Mid, e.Max, alpha)
}

// ClassifyVertex labels a vertex by the same rule over its incident edges
func ClassifyVertex(v Vertex, alpha float64) Label {
	return classifyInterval(0, v.Mid, v.Max, alpha)
}

// classifyInterval tests the interval bounds from the top so that a
// rounded critical value above mid cannot hide a regular simplex
func classifyInterval(critical, mid, hi, alpha float64) Label {
	switch {
	case alpha >= hi:
		return Interior
	case alpha >= mid:
		return Regular
	case alpha >= critical:
		return Singular
	default:
		return Exterior
	}
}

// CellLabel labels cell c
func (f *Filtration) CellLabel(c int, alpha float64) Label {
	return ClassifyCell(f.cells[c], alpha)
}

// FacetLabel labels the facet opposite vertex i of cell c
func (f *Filtration) FacetLabel(c, i int, alpha float64) Label {
	facet, ok := f.FacetOf(c, i)
	if !ok {
		return Exterior
	}
	return ClassifyFacet(facet, alpha)
}

// EdgeLabel labels the edge between vertices a and b
func (f *Filtration) EdgeLabel(a, b int, alpha float64) Label {
	e, ok := f.EdgeOf(a, b)
	if !ok {
		return Exterior
	}
	return ClassifyEdge(e, alpha)
}

// VertexLabel labels vertex v
func (f *Filtration) VertexLabel(v int, alpha float64) Label {
	return ClassifyVertex(f.vertices[v], alpha)
}

// ClassifyPoint locates p in the triangulation and reports the label of
// the lowest-dimensional simplex containing it. Points outside the convex
// hull are outside.
func (f *Filtration) ClassifyPoint(p geometry.Vector3, alpha float64) Location {
	c, lt, li, lj := f.tri.Locate(p)
	var label Label
	switch lt {
	case delaunay.InCell:
		label = f.CellLabel(c, alpha)
	case delaunay.OnFacet:
		label = f.FacetLabel(c, li, alpha)
	case delaunay.OnEdge:
		cell := f.tri.Cell(c)
		label = f.EdgeLabel(cell.V[li], cell.V[lj], alpha)
	case delaunay.OnVertex:
		label = f.VertexLabel(f.tri.Cell(c).V[li], alpha)
	default:
		return Outside
	}
	return locationOf(label)
}

func locationOf(l Label) Location {
	switch l {
	case Interior:
		return Inside
	case Regular, Singular:
		return Boundary
	default:
		return Outside
	}
}
