package alpha

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// unionFind is a disjoint-set forest with path halving and union by size
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
		u.size[i] = 1
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union merges the sets of a and b and reports whether they were distinct
func (u *unionFind) union(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
	return true
}

// SolidComponents counts the connected components of the interior cells at
// alpha, two cells being connected when they share a facet.
func (f *Filtration) SolidComponents(alpha float64) int {
	t := f.tri
	u := newUnionFind(len(f.cells))
	interior := func(c int) bool {
		return !math.IsInf(f.cells[c], 1) && alpha >= f.cells[c]
	}
	count := 0
	for c := range f.cells {
		if !interior(c) {
			continue
		}
		count++
		for _, n := range t.Cell(c).N {
			if n < c && interior(n) && u.union(c, n) {
				count--
			}
		}
	}
	return count
}

// OptimalAlpha returns the smallest critical alpha, not below
// AllPointsAlpha, at which the interior cells form at most k components.
func (f *Filtration) OptimalAlpha(k int) (float64, error) {
	if k < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidComponentCount, k)
	}

	t := f.tri
	order := t.FiniteCells()
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(f.cells[a], f.cells[b])
	})

	u := newUnionFind(len(f.cells))
	added := make([]bool, len(f.cells))
	count := 0
	next := 0
	start, _ := slices.BinarySearch(f.spectrum, f.allPoints)
	for s, a := range f.spectrum {
		for next < len(order) && f.cells[order[next]] <= a {
			c := order[next]
			added[c] = true
			count++
			for _, n := range t.Cell(c).N {
				if added[n] && u.union(c, n) {
					count--
				}
			}
			next++
		}
		if s >= start && count <= k {
			return a, nil
		}
	}
	return f.spectrum[len(f.spectrum)-1], nil
}
