// Package repair turns a triangle soup into a clean, consistently oriented
// mesh without unused points.
package repair

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
)

// ErrIndexOutOfRange is returned when a face references a missing point
var ErrIndexOutOfRange = errors.New("repair: face index out of range")

// Stats counts what a repair changed
type Stats struct {
	MergedPoints    int
	DegenerateFaces int
	DuplicateFaces  int
	FlippedFaces    int
	Components      int
	RemovedPoints   int
}

// Repair returns a cleaned copy of the mesh given by points and faces.
// The steps run in this order:
//
//  1. bitwise-equal points are merged into the lowest index
//  2. faces with a repeated index or collinear corners are dropped
//  3. faces over the same vertex set as an earlier face are dropped
//  4. every edge-connected component is oriented consistently, starting
//     from its lowest face index
//  5. closed components enclosing negative volume are flipped
//  6. unreferenced points are removed, keeping ascending order
//
// Running Repair on its own output changes nothing.
func Repair(points []geometry.Vector3, faces []mesh.Face) (*mesh.Mesh, Stats, error) {
	var stats Stats
	for f, face := range faces {
		for _, v := range face {
			if v < 0 || v >= len(points) {
				return nil, stats, fmt.Errorf("%w: face %d references %d of %d points", ErrIndexOutOfRange, f, v, len(points))
			}
		}
	}

	canonical, merged := weld(points)
	stats.MergedPoints = merged

	seen := make(map[[3]int]bool, len(faces))
	kept := make([]mesh.Face, 0, len(faces))
	for _, face := range faces {
		face = mesh.Face{canonical[face[0]], canonical[face[1]], canonical[face[2]]}
		if face[0] == face[1] || face[1] == face[2] || face[0] == face[2] ||
			geometry.Collinear(points[face[0]], points[face[1]], points[face[2]]) {
			stats.DegenerateFaces++
			continue
		}
		key := [3]int(face)
		slices.Sort(key[:])
		if seen[key] {
			stats.DuplicateFaces++
			continue
		}
		seen[key] = true
		kept = append(kept, face)
	}

	m := &mesh.Mesh{Points: slices.Clone(points), Faces: kept}
	stats.Components, stats.FlippedFaces = orient(m)

	out, remap := m.Compact()
	for _, r := range remap {
		if r < 0 {
			stats.RemovedPoints++
		}
	}
	return out, stats, nil
}

// weld maps every point to the lowest index holding the same bit pattern
func weld(points []geometry.Vector3) ([]int, int) {
	first := make(map[[3]uint64]int, len(points))
	canonical := make([]int, len(points))
	merged := 0
	for i, p := range points {
		key := [3]uint64{math.Float64bits(p.X), math.Float64bits(p.Y), math.Float64bits(p.Z)}
		if j, ok := first[key]; ok {
			canonical[i] = j
			merged++
			continue
		}
		first[key] = i
		canonical[i] = i
	}
	return canonical, merged
}

func flip(f mesh.Face) mesh.Face {
	return mesh.Face{f[0], f[2], f[1]}
}

func hasDirected(f mesh.Face, a, b int) bool {
	for k := 0; k < 3; k++ {
		if f[k] == a && f[(k+1)%3] == b {
			return true
		}
	}
	return false
}

// orient makes neighbouring faces agree across every edge shared by
// exactly two faces, then turns closed components outward. It returns the
// number of components and the number of faces whose winding changed.
func orient(m *mesh.Mesh) (int, int) {
	edgeFaces := m.EdgeFaces()
	original := slices.Clone(m.Faces)
	component := make([]int, len(m.Faces))
	for f := range component {
		component[f] = -1
	}

	var members [][]int
	for start := range m.Faces {
		if component[start] >= 0 {
			continue
		}
		id := len(members)
		component[start] = id
		queue := []int{start}
		var comp []int
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			comp = append(comp, f)
			face := m.Faces[f]
			for k := 0; k < 3; k++ {
				a, b := face[k], face[(k+1)%3]
				shared := edgeFaces[mesh.EdgeKey(a, b)]
				if len(shared) != 2 {
					continue
				}
				g := shared[0]
				if g == f {
					g = shared[1]
				}
				if component[g] >= 0 {
					continue
				}
				if hasDirected(m.Faces[g], a, b) {
					m.Faces[g] = flip(m.Faces[g])
				}
				component[g] = id
				queue = append(queue, g)
			}
		}
		slices.Sort(comp)
		members = append(members, comp)
	}

	for _, comp := range members {
		if !closed(m, comp) {
			continue
		}
		volume := 0.0
		for _, f := range comp {
			volume += m.Triangle(f).SignedVolume()
		}
		if volume < 0 {
			for _, f := range comp {
				m.Faces[f] = flip(m.Faces[f])
			}
		}
	}

	flipped := 0
	for f := range m.Faces {
		if m.Faces[f] != original[f] {
			flipped++
		}
	}
	return len(members), flipped
}

// closed reports whether the faces in comp form a closed, consistently
// oriented surface on their own
func closed(m *mesh.Mesh, comp []int) bool {
	sub := &mesh.Mesh{Points: m.Points, Faces: make([]mesh.Face, len(comp))}
	for i, f := range comp {
		sub.Faces[i] = m.Faces[f]
	}
	return sub.IsClosed()
}
