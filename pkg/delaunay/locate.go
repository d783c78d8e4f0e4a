package delaunay

import (
	"fmt"

	"github.com/philipparndt/alphashape/pkg/geometry"
)

// LocateType tells where a located point lies relative to the returned cell
type LocateType int

const (
	InCell LocateType = iota
	OnFacet
	OnEdge
	OnVertex
	OutsideHull
)

func (lt LocateType) String() string {
	switch lt {
	case InCell:
		return "cell"
	case OnFacet:
		return "facet"
	case OnEdge:
		return "edge"
	case OnVertex:
		return "vertex"
	case OutsideHull:
		return "outside"
	default:
		return fmt.Sprintf("LocateType(%d)", int(lt))
	}
}

// Locate finds the finite cell containing p. The indices li and lj refer
// to positions inside that cell:
//   - OnFacet: li is the facet (opposite vertex) containing p
//   - OnEdge: li and lj are the edge endpoints
//   - OnVertex: li is the vertex p coincides with
//   - OutsideHull: cell is an infinite cell whose hull facet p sees, li is
//     the position of the infinite vertex
func (t *Triangulation) Locate(p geometry.Vector3) (cell int, lt LocateType, li, lj int) {
	c, o, outside, err := t.walk(p, t.hint, nil)
	if err != nil {
		return -1, OutsideHull, -1, -1
	}
	if outside {
		return c, OutsideHull, t.cells[c].Index(Infinite), -1
	}

	var zeros, nonZeros []int
	for i, s := range o {
		if s == 0 {
			zeros = append(zeros, i)
		} else {
			nonZeros = append(nonZeros, i)
		}
	}
	switch len(zeros) {
	case 0:
		return c, InCell, -1, -1
	case 1:
		return c, OnFacet, zeros[0], -1
	case 2:
		return c, OnEdge, nonZeros[0], nonZeros[1]
	default:
		return c, OnVertex, nonZeros[0], -1
	}
}

// locateConflict returns a cell whose removal starts the cavity of p: the
// finite cell containing p, or an infinite cell whose hull facet p sees.
func (t *Triangulation) locateConflict(p geometry.Vector3, hint int, alive []bool) (int, error) {
	c, _, _, err := t.walk(p, hint, alive)
	return c, err
}

// walk performs a visibility walk: from the current cell it crosses any
// facet that separates the cell from p until no such facet exists. The
// facet scan starts at a pseudo-random offset so the walk cannot cycle.
// alive, when non-nil, masks released cells during construction.
func (t *Triangulation) walk(p geometry.Vector3, start int, alive []bool) (cell int, orients [4]int, outside bool, err error) {
	c := start
	if c < 0 || c >= len(t.cells) || (alive != nil && !alive[c]) {
		c = t.anyCell(alive)
	}
	if k := t.cells[c].Index(Infinite); k >= 0 {
		c = t.cells[c].N[k]
	}

	rng := uint32(2463534242)
	limit := 4*len(t.cells) + 16
walk:
	for step := 0; step < limit; step++ {
		rng ^= rng << 13
		rng ^= rng >> 17
		rng ^= rng << 5
		offset := int(rng % 4)

		var o [4]int
		q := t.CellPoints(c)
		for k := 0; k < 4; k++ {
			i := (offset + k) % 4
			saved := q[i]
			q[i] = p
			o[i] = geometry.Orient3D(q[0], q[1], q[2], q[3])
			q[i] = saved
			if o[i] < 0 {
				n := t.cells[c].N[i]
				if t.cells[n].IsInfinite() {
					return n, o, true, nil
				}
				c = n
				continue walk
			}
		}
		return c, o, false, nil
	}
	return t.scan(p, alive)
}

// scan locates p by testing every cell
func (t *Triangulation) scan(p geometry.Vector3, alive []bool) (int, [4]int, bool, error) {
	for c, cell := range t.cells {
		if (alive != nil && !alive[c]) || cell.IsInfinite() {
			continue
		}
		o := t.orientations(c, p)
		if o[0] >= 0 && o[1] >= 0 && o[2] >= 0 && o[3] >= 0 {
			return c, o, false, nil
		}
	}
	for c, cell := range t.cells {
		if (alive != nil && !alive[c]) || !cell.IsInfinite() {
			continue
		}
		k := cell.Index(Infinite)
		var q [4]geometry.Vector3
		for j, w := range cell.V {
			if j == k {
				q[j] = p
			} else {
				q[j] = t.points[w]
			}
		}
		if geometry.Orient3D(q[0], q[1], q[2], q[3]) > 0 {
			return c, [4]int{}, true, nil
		}
	}
	return -1, [4]int{}, false, fmt.Errorf("%w: cannot locate %v", ErrTriangulation, p)
}

func (t *Triangulation) orientations(c int, p geometry.Vector3) [4]int {
	var o [4]int
	q := t.CellPoints(c)
	for i := 0; i < 4; i++ {
		saved := q[i]
		q[i] = p
		o[i] = geometry.Orient3D(q[0], q[1], q[2], q[3])
		q[i] = saved
	}
	return o
}

func (t *Triangulation) anyCell(alive []bool) int {
	for c := range t.cells {
		if alive == nil || alive[c] {
			return c
		}
	}
	return 0
}
