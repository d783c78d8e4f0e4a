package delaunay

import (
	"fmt"
	"slices"

	"github.com/philipparndt/alphashape/pkg/geometry"
)

// Triangulate computes the Delaunay triangulation of points. Vertex ids
// in the result are indices into points. The points are inserted along a
// Morton curve, so the result only depends on the input.
func Triangulate(points []geometry.Vector3) (*Triangulation, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	for i, p := range points {
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w: point %d is %v", ErrNonFinite, i, p)
		}
	}
	if err := checkDuplicates(points); err != nil {
		return nil, err
	}

	order := mortonOrder(points)
	seed, err := initialTetrahedron(points, order)
	if err != nil {
		return nil, err
	}

	b := newBuilder(points)
	b.start(seed)
	for _, v := range order {
		if v == seed[0] || v == seed[1] || v == seed[2] || v == seed[3] {
			continue
		}
		if err := b.insert(v); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

func checkDuplicates(points []geometry.Vector3) error {
	ids := make([]int, len(points))
	for i := range ids {
		ids[i] = i
	}
	slices.SortFunc(ids, func(a, b int) int {
		switch {
		case points[a].Less(points[b]):
			return -1
		case points[b].Less(points[a]):
			return 1
		default:
			return a - b
		}
	})
	for k := 1; k < len(ids); k++ {
		if points[ids[k-1]] == points[ids[k]] {
			return fmt.Errorf("%w: points %d and %d are both %v",
				ErrDuplicatePoint, ids[k-1], ids[k], points[ids[k]])
		}
	}
	return nil
}

// initialTetrahedron picks the first four affinely independent points in
// insertion order and returns them positively oriented.
func initialTetrahedron(points []geometry.Vector3, order []int) ([4]int, error) {
	seed := [4]int{order[0], order[1], -1, -1}
	k := 2
	for ; k < len(order); k++ {
		if !geometry.Collinear(points[seed[0]], points[seed[1]], points[order[k]]) {
			seed[2] = order[k]
			break
		}
	}
	if seed[2] < 0 {
		return seed, fmt.Errorf("%w: all %d points are collinear", ErrDegenerate, len(points))
	}
	for k++; k < len(order); k++ {
		o := geometry.Orient3D(points[seed[0]], points[seed[1]], points[seed[2]], points[order[k]])
		if o != 0 {
			seed[3] = order[k]
			if o < 0 {
				seed[0], seed[1] = seed[1], seed[0]
			}
			return seed, nil
		}
	}
	return seed, fmt.Errorf("%w: all %d points lie in one plane", ErrDegenerate, len(points))
}

// mortonOrder sorts point ids along a Z-order curve over the bounding box.
// Ties keep input order.
func mortonOrder(points []geometry.Vector3) []int {
	bounds := geometry.BoundsOf(points)
	size := bounds.Size()
	scale := [3]float64{}
	for axis := 0; axis < 3; axis++ {
		if s := size.At(axis); s > 0 {
			scale[axis] = float64(mortonMax) / s
		}
	}

	codes := make([]uint64, len(points))
	for i, p := range points {
		var q [3]uint64
		for axis := 0; axis < 3; axis++ {
			f := (p.At(axis) - bounds.Min.At(axis)) * scale[axis]
			q[axis] = min(uint64(f), mortonMax)
		}
		codes[i] = spread(q[0]) | spread(q[1])<<1 | spread(q[2])<<2
	}

	ids := make([]int, len(points))
	for i := range ids {
		ids[i] = i
	}
	slices.SortStableFunc(ids, func(a, b int) int {
		switch {
		case codes[a] < codes[b]:
			return -1
		case codes[a] > codes[b]:
			return 1
		default:
			return 0
		}
	})
	return ids
}

const mortonMax = 1<<21 - 1

// spread inserts two zero bits between each of the low 21 bits of x
func spread(x uint64) uint64 {
	x &= mortonMax
	x = (x | x<<32) & 0x1f00000000ffff
	x = (x | x<<16) & 0x1f0000ff0000ff
	x = (x | x<<8) & 0x100f00f00f00f00f
	x = (x | x<<4) & 0x10c30c30c30c30c3
	x = (x | x<<2) & 0x1249249249249249
	return x
}
