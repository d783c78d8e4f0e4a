// Package alpha computes the alpha filtration of a Delaunay triangulation
// and classifies its simplices and arbitrary points against an alpha value.
//
// Alpha values are squared radii. A cell enters the alpha complex at its
// squared circumradius. Facets and edges either enter at the radius of
// their smallest empty circumscribing sphere or, when that sphere is not
// empty, together with the cheapest simplex that contains them.
package alpha

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/philipparndt/alphashape/pkg/delaunay"
	"github.com/philipparndt/alphashape/pkg/geometry"
)

var (
	ErrAlphaIndex            = errors.New("alpha: spectrum index out of range")
	ErrInvalidComponentCount = errors.New("alpha: component count must be at least 1")
)

// Facet is a triangle of the triangulation seen from one of its cells.
// Critical is the alpha at which it enters the complex; Min and Max are
// the alphas of its two incident cells, infinite cells counting as +Inf.
type Facet struct {
	Cell, Index int
	Critical    float64
	Min, Max    float64
}

// Edge is a finite edge with its entry alpha, the smallest entry alpha of
// its incident facets (Mid) and the largest Max of its incident facets.
type Edge struct {
	A, B     int
	Critical float64
	Mid, Max float64
}

// Vertex intervals. Every vertex enters at alpha 0.
type Vertex struct {
	Mid, Max float64
}

// Filtration holds the critical alphas of every simplex
type Filtration struct {
	tri       *delaunay.Triangulation
	cells     []float64
	facets    []Facet
	facetOf   []int
	edges     []Edge
	edgeIndex map[[2]int]int
	vertices  []Vertex
	spectrum  []float64
	allPoints float64
}

// Compute builds the filtration of t
func Compute(t *delaunay.Triangulation) *Filtration {
	f := &Filtration{
		tri:       t,
		cells:     make([]float64, t.NumCells()),
		facetOf:   make([]int, 4*t.NumCells()),
		edgeIndex: make(map[[2]int]int, 7*t.NumVertices()),
		vertices:  make([]Vertex, t.NumVertices()),
	}
	f.computeCells()
	f.computeFacets()
	f.computeEdges()
	f.computeVertices()
	f.computeSpectrum()
	return f
}

func (f *Filtration) computeCells() {
	t := f.tri
	for c := range f.cells {
		if t.IsInfinite(c) {
			f.cells[c] = math.Inf(1)
			continue
		}
		p := t.CellPoints(c)
		f.cells[c] = geometry.TetraCircumradius2(p[0], p[1], p[2], p[3])
	}

	f.allPoints = 0
	lowest := make([]float64, t.NumVertices())
	for v := range lowest {
		lowest[v] = math.Inf(1)
	}
	for c, a := range f.cells {
		if t.IsInfinite(c) {
			continue
		}
		for _, v := range t.Cell(c).V {
			lowest[v] = math.Min(lowest[v], a)
		}
	}
	for _, a := range lowest {
		f.allPoints = math.Max(f.allPoints, a)
	}
}

func (f *Filtration) computeFacets() {
	t := f.tri
	for k := range f.facetOf {
		f.facetOf[k] = -1
	}
	for c := 0; c < t.NumCells(); c++ {
		cell := t.Cell(c)
		for i := 0; i < 4; i++ {
			if f.facetOf[4*c+i] >= 0 {
				continue
			}
			n, j := t.Mirror(c, i)
			verts := cell.Facet(i)
			if slices.Contains(verts[:], delaunay.Infinite) {
				continue
			}

			a, b, d := t.Point(verts[0]), t.Point(verts[1]), t.Point(verts[2])
			gabriel := true
			for _, opposite := range []int{cell.V[i], t.Cell(n).V[j]} {
				if opposite != delaunay.Infinite && geometry.InTriangleSphere(a, b, d, t.Point(opposite)) > 0 {
					gabriel = false
					break
				}
			}

			lo := math.Min(f.cells[c], f.cells[n])
			hi := math.Max(f.cells[c], f.cells[n])
			critical := lo
			if gabriel {
				critical = math.Min(geometry.TriangleCircumradius2(a, b, d), lo)
			}

			id := len(f.facets)
			f.facets = append(f.facets, Facet{Cell: c, Index: i, Critical: critical, Min: lo, Max: hi})
			f.facetOf[4*c+i] = id
			f.facetOf[4*n+j] = id
		}
	}
}

func (f *Filtration) computeEdges() {
	t := f.tri
	gabriel := make([]bool, 0, len(f.facets))
	for _, facet := range f.facets {
		verts := t.Cell(facet.Cell).Facet(facet.Index)
		for k := 0; k < 3; k++ {
			a, b, third := verts[k], verts[(k+1)%3], verts[(k+2)%3]
			key := edgeKey(a, b)
			id, ok := f.edgeIndex[key]
			if !ok {
				id = len(f.edges)
				f.edgeIndex[key] = id
				f.edges = append(f.edges, Edge{A: key[0], B: key[1], Mid: math.Inf(1)})
				gabriel = append(gabriel, true)
			}
			e := &f.edges[id]
			e.Mid = math.Min(e.Mid, facet.Critical)
			e.Max = math.Max(e.Max, facet.Max)
			if gabriel[id] && geometry.InDiametralSphere(t.Point(a), t.Point(b), t.Point(third)) > 0 {
				gabriel[id] = false
			}
		}
	}
	for id := range f.edges {
		e := &f.edges[id]
		if gabriel[id] {
			e.Critical = math.Min(t.Point(e.A).DistanceSquared(t.Point(e.B))/4, e.Mid)
		} else {
			e.Critical = e.Mid
		}
	}
}

func (f *Filtration) computeVertices() {
	for v := range f.vertices {
		f.vertices[v] = Vertex{Mid: math.Inf(1)}
	}
	for _, e := range f.edges {
		for _, v := range []int{e.A, e.B} {
			f.vertices[v].Mid = math.Min(f.vertices[v].Mid, e.Critical)
			f.vertices[v].Max = math.Max(f.vertices[v].Max, e.Max)
		}
	}
}

func (f *Filtration) computeSpectrum() {
	values := make([]float64, 0, len(f.cells)+len(f.facets)+len(f.edges))
	for _, a := range f.cells {
		if !math.IsInf(a, 1) {
			values = append(values, a)
		}
	}
	for _, facet := range f.facets {
		if !math.IsInf(facet.Critical, 1) {
			values = append(values, facet.Critical)
		}
	}
	for _, e := range f.edges {
		if !math.IsInf(e.Critical, 1) {
			values = append(values, e.Critical)
		}
	}
	slices.Sort(values)
	f.spectrum = slices.Compact(values)
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// Triangulation returns the underlying triangulation
func (f *Filtration) Triangulation() *delaunay.Triangulation {
	return f.tri
}

// Spectrum returns the distinct critical alphas in ascending order
func (f *Filtration) Spectrum() []float64 {
	return slices.Clone(f.spectrum)
}

// Len returns the number of distinct critical alphas
func (f *Filtration) Len() int {
	return len(f.spectrum)
}

// NthAlpha returns the n-th smallest critical alpha, counting from 1
func (f *Filtration) NthAlpha(n int) (float64, error) {
	if n < 1 || n > len(f.spectrum) {
		return math.NaN(), fmt.Errorf("%w: %d not in [1, %d]", ErrAlphaIndex, n, len(f.spectrum))
	}
	return f.spectrum[n-1], nil
}

// CellAlpha returns the squared circumradius of cell c, +Inf if infinite
func (f *Filtration) CellAlpha(c int) float64 {
	return f.cells[c]
}

// Facets returns every facet that has at least one finite incident cell
func (f *Filtration) Facets() []Facet {
	return slices.Clone(f.facets)
}

// FacetOf returns the facet opposite vertex i of cell c. ok is false for
// facets between two infinite cells.
func (f *Filtration) FacetOf(c, i int) (Facet, bool) {
	id := f.facetOf[4*c+i]
	if id < 0 {
		return Facet{}, false
	}
	return f.facets[id], true
}

// Edges returns every finite edge
func (f *Filtration) Edges() []Edge {
	return slices.Clone(f.edges)
}

// EdgeOf returns the edge between vertices a and b
func (f *Filtration) EdgeOf(a, b int) (Edge, bool) {
	id, ok := f.edgeIndex[edgeKey(a, b)]
	if !ok {
		return Edge{}, false
	}
	return f.edges[id], true
}

// VertexOf returns the interval of vertex v
func (f *Filtration) VertexOf(v int) Vertex {
	return f.vertices[v]
}

// AllPointsAlpha returns the smallest alpha at which every vertex belongs
// to an interior cell
func (f *Filtration) AllPointsAlpha() float64 {
	return f.allPoints
}
