package delaunay

import (
	"fmt"
	"slices"

	"github.com/philipparndt/alphashape/pkg/geometry"
)

// builder holds the scratch state of an incremental Bowyer-Watson run
type builder struct {
	t     *Triangulation
	alive []bool
	free  []int

	// mark[c] == stamp means cell c was already tested during the current
	// insertion; inside[c] holds the outcome.
	mark   []uint32
	inside []bool
	stamp  uint32

	stack    []int
	cavity   []int
	boundary []boundaryFacet
	created  []int
	edges    map[[2]int]facetRef
}

type boundaryFacet struct {
	v        [4]int // vertices of the conflicting cell
	i        int    // facet index inside the conflicting cell
	outside  int    // neighbour that is not in conflict
	mirrorAt int    // facet index inside the neighbour
}

type facetRef struct {
	cell, i int
}

func newBuilder(points []geometry.Vector3) *builder {
	t := &Triangulation{
		points:     points,
		vertexCell: make([]int, len(points)),
	}
	for v := range t.vertexCell {
		t.vertexCell[v] = -1
	}
	estimate := 7 * len(points)
	return &builder{
		t:      t,
		alive:  make([]bool, 0, estimate),
		mark:   make([]uint32, 0, estimate),
		inside: make([]bool, 0, estimate),
		edges:  make(map[[2]int]facetRef),
	}
}

func (b *builder) alloc(cell Cell) int {
	if n := len(b.free); n > 0 {
		c := b.free[n-1]
		b.free = b.free[:n-1]
		b.t.cells[c] = cell
		b.alive[c] = true
		b.mark[c] = 0
		return c
	}
	b.t.cells = append(b.t.cells, cell)
	b.alive = append(b.alive, true)
	b.mark = append(b.mark, 0)
	b.inside = append(b.inside, false)
	return len(b.t.cells) - 1
}

func (b *builder) release(c int) {
	b.alive[c] = false
	b.free = append(b.free, c)
}

// start creates the seed tetrahedron and the four infinite cells around it
func (b *builder) start(seed [4]int) {
	ids := []int{b.alloc(Cell{V: seed})}
	for i := 0; i < 4; i++ {
		v := seed
		v[i] = Infinite
		v[(i+1)%4], v[(i+2)%4] = v[(i+2)%4], v[(i+1)%4]
		ids = append(ids, b.alloc(Cell{V: v}))
	}

	open := make(map[[3]int]facetRef, 8)
	for _, c := range ids {
		for i := 0; i < 4; i++ {
			key := sortedFacet(b.t.cells[c], i)
			if other, ok := open[key]; ok {
				b.t.cells[c].N[i] = other.cell
				b.t.cells[other.cell].N[other.i] = c
				delete(open, key)
				continue
			}
			open[key] = facetRef{cell: c, i: i}
		}
	}
	for _, v := range seed {
		b.t.vertexCell[v] = ids[0]
	}
	b.t.hint = ids[0]
}

// insert adds vertex v by carving out the cells whose circumsphere holds it
// and starring the cavity boundary from v.
func (b *builder) insert(v int) error {
	t := b.t
	p := t.points[v]

	first, err := t.locateConflict(p, t.hint, b.alive)
	if err != nil {
		return fmt.Errorf("inserting point %d: %w", v, err)
	}

	b.stamp++
	b.cavity = b.cavity[:0]
	b.boundary = b.boundary[:0]
	b.stack = append(b.stack[:0], first)
	b.mark[first] = b.stamp
	b.inside[first] = true

	for len(b.stack) > 0 {
		c := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		b.cavity = append(b.cavity, c)

		for i, n := range t.cells[c].N {
			if b.mark[n] != b.stamp {
				b.mark[n] = b.stamp
				b.inside[n] = t.inConflict(n, p)
				if b.inside[n] {
					b.stack = append(b.stack, n)
				}
			}
			if !b.inside[n] {
				b.boundary = append(b.boundary, boundaryFacet{
					v:        t.cells[c].V,
					i:        i,
					outside:  n,
					mirrorAt: t.cells[n].NeighborIndex(c),
				})
			}
		}
	}

	for _, c := range b.cavity {
		b.release(c)
	}

	clear(b.edges)
	b.created = b.created[:0]
	for _, f := range b.boundary {
		cell := Cell{V: f.v}
		cell.V[f.i] = v
		cell.N[f.i] = f.outside
		c := b.alloc(cell)
		t.cells[f.outside].N[f.mirrorAt] = c
		b.created = append(b.created, c)

		// The other three facets contain v and are shared with other new
		// cells; pair them up by the edge they have besides v.
		for k := 0; k < 4; k++ {
			if k == f.i {
				continue
			}
			key := edgeKey(cell, f.i, k)
			if other, ok := b.edges[key]; ok {
				t.cells[c].N[k] = other.cell
				t.cells[other.cell].N[other.i] = c
				delete(b.edges, key)
				continue
			}
			b.edges[key] = facetRef{cell: c, i: k}
		}
	}
	if len(b.edges) != 0 {
		return fmt.Errorf("%w: cavity of point %d is not a closed surface", ErrTriangulation, v)
	}

	for _, c := range b.created {
		for _, w := range t.cells[c].V {
			if w != Infinite {
				t.vertexCell[w] = c
			}
		}
	}
	t.hint = b.created[len(b.created)-1]
	return nil
}

// edgeKey identifies the facet opposite V[k] of a new cell whose V[pi] is
// the inserted point by the two remaining vertices.
func edgeKey(cell Cell, pi, k int) [2]int {
	var e [2]int
	n := 0
	for j, w := range cell.V {
		if j != pi && j != k {
			e[n] = w
			n++
		}
	}
	if e[0] > e[1] {
		e[0], e[1] = e[1], e[0]
	}
	return e
}

// inConflict reports whether p invalidates cell c. Finite cells conflict
// when p is strictly inside their circumsphere. Infinite cells conflict
// when p is strictly beyond their hull facet, or in its plane and strictly
// inside its circumcircle.
func (t *Triangulation) inConflict(c int, p geometry.Vector3) bool {
	cell := t.cells[c]
	k := cell.Index(Infinite)
	if k < 0 {
		q := t.CellPoints(c)
		return geometry.InSphere(q[0], q[1], q[2], q[3], p) > 0
	}

	var q [4]geometry.Vector3
	for j, w := range cell.V {
		if j == k {
			q[j] = p
		} else {
			q[j] = t.points[w]
		}
	}
	switch geometry.Orient3D(q[0], q[1], q[2], q[3]) {
	case 1:
		return true
	case -1:
		return false
	}
	f := [3]geometry.Vector3{q[(k+1)%4], q[(k+2)%4], q[(k+3)%4]}
	return geometry.InTriangleSphere(f[0], f[1], f[2], p) > 0
}

// finish drops released cells and renumbers the survivors in arena order
func (b *builder) finish() *Triangulation {
	t := b.t
	remap := make([]int, len(t.cells))
	cells := make([]Cell, 0, len(t.cells)-len(b.free))
	for c, cell := range t.cells {
		if !b.alive[c] {
			remap[c] = -1
			continue
		}
		remap[c] = len(cells)
		cells = append(cells, cell)
	}
	for c := range cells {
		for i, n := range cells[c].N {
			cells[c].N[i] = remap[n]
		}
	}
	t.cells = slices.Clip(cells)

	for v := range t.vertexCell {
		t.vertexCell[v] = -1
	}
	t.finite = 0
	for c, cell := range t.cells {
		if !cell.IsInfinite() {
			t.finite++
		}
		for _, w := range cell.V {
			if w != Infinite && t.vertexCell[w] < 0 {
				t.vertexCell[w] = c
			}
		}
	}
	t.hint = 0
	return t
}
