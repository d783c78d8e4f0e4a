// Package simplify reduces triangle meshes by quadric error edge collapse
// (Garland and Heckbert, "Surface Simplification Using Quadric Error
// Metrics", 1997).
package simplify

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
)

// DefaultStopRatio keeps 5% of the input edges
const DefaultStopRatio = 0.05

// boundaryWeight scales the constraint planes that hold open borders in
// place, relative to the squared border edge length
const boundaryWeight = 1000.0

var ErrInvalidRatio = errors.New("simplify: stop ratio must be in (0, 1]")

type options struct {
	ratio float64
}

// Option configures Simplify
type Option func(*options)

// WithStopRatio stops once the edge count is at most ratio times the
// initial edge count
func WithStopRatio(ratio float64) Option {
	return func(o *options) {
		o.ratio = ratio
	}
}

// Stats summarizes a simplification run
type Stats struct {
	InitialEdges int
	FinalEdges   int
	InitialFaces int
	FinalFaces   int
	Collapses    int
}

// Simplify collapses edges of a copy of m, cheapest first, until the edge
// budget is met or no legal collapse remains. The result contains only
// referenced points, in their original relative order.
func Simplify(m *mesh.Mesh, opts ...Option) (*mesh.Mesh, Stats, error) {
	o := options{ratio: DefaultStopRatio}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.ratio > 0 && o.ratio <= 1) {
		return nil, Stats{}, fmt.Errorf("%w: got %v", ErrInvalidRatio, o.ratio)
	}

	s := newState(m)
	stats := Stats{InitialEdges: len(s.edges), InitialFaces: len(m.Faces)}
	target := int(math.Floor(o.ratio * float64(len(s.edges))))

	s.seed()
	for len(s.edges) > target && s.queue.Len() > 0 {
		c := heap.Pop(&s.queue).(candidate)
		if !s.current(c) || !s.legal(c) {
			continue
		}
		s.collapse(c)
		stats.Collapses++
	}

	out := &mesh.Mesh{Points: s.pos}
	for f, face := range s.faces {
		if s.faceAlive[f] {
			out.Faces = append(out.Faces, face)
		}
	}
	out, _ = out.Compact()
	stats.FinalEdges = out.EdgeCount()
	stats.FinalFaces = out.NumFaces()
	return out, stats, nil
}

// candidate collapses edge (Keep, Drop) into a vertex at Target
type candidate struct {
	Cost       float64
	Keep, Drop int
	Target     geometry.Vector3
	versions   [2]int
}

type queue []candidate

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].Cost != q[j].Cost {
		return q[i].Cost < q[j].Cost
	}
	if q[i].Keep != q[j].Keep {
		return q[i].Keep < q[j].Keep
	}
	return q[i].Drop < q[j].Drop
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)   { *q = append(*q, x.(candidate)) }
func (q *queue) Pop() any {
	old := *q
	c := old[len(old)-1]
	*q = old[:len(old)-1]
	return c
}

type state struct {
	pos       []geometry.Vector3
	faces     []mesh.Face
	faceAlive []bool
	vertFaces [][]int
	quadrics  []quadric
	version   []int
	alive     []bool
	boundary  []bool
	edges     map[[2]int]int // undirected edge -> incident face count
	vertices  int
	queue     queue
}

func newState(m *mesh.Mesh) *state {
	s := &state{
		pos:       slices.Clone(m.Points),
		faces:     slices.Clone(m.Faces),
		faceAlive: make([]bool, len(m.Faces)),
		vertFaces: make([][]int, len(m.Points)),
		quadrics:  make([]quadric, len(m.Points)),
		version:   make([]int, len(m.Points)),
		alive:     make([]bool, len(m.Points)),
		boundary:  make([]bool, len(m.Points)),
		edges:     make(map[[2]int]int, 3*len(m.Faces)/2),
	}
	for f, face := range s.faces {
		s.faceAlive[f] = true
		for k := 0; k < 3; k++ {
			s.vertFaces[face[k]] = append(s.vertFaces[face[k]], f)
			s.edges[mesh.EdgeKey(face[k], face[(k+1)%3])]++
			if !s.alive[face[k]] {
				s.alive[face[k]] = true
				s.vertices++
			}
		}

		tri := m.Triangle(f)
		area := tri.Area()
		if area == 0 {
			continue
		}
		q := planeQuadric(tri.UnitNormal(), tri.A, area)
		for _, v := range face {
			s.quadrics[v] = s.quadrics[v].add(q)
		}
	}

	// Constraint planes perpendicular to open borders
	for f, face := range s.faces {
		for k := 0; k < 3; k++ {
			a, b := face[k], face[(k+1)%3]
			if s.edges[mesh.EdgeKey(a, b)] != 1 {
				continue
			}
			s.boundary[a] = true
			s.boundary[b] = true
			edge := s.pos[b].Sub(s.pos[a])
			normal := edge.Cross(m.Triangle(f).UnitNormal()).Normalize()
			if normal == (geometry.Vector3{}) {
				continue
			}
			q := planeQuadric(normal, s.pos[a], boundaryWeight*edge.LengthSquared())
			s.quadrics[a] = s.quadrics[a].add(q)
			s.quadrics[b] = s.quadrics[b].add(q)
		}
	}
	return s
}

func (s *state) seed() {
	keys := make([][2]int, 0, len(s.edges))
	for e := range s.edges {
		keys = append(keys, e)
	}
	slices.SortFunc(keys, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	for _, e := range keys {
		if c, ok := s.candidate(e[0], e[1]); ok {
			s.queue = append(s.queue, c)
		}
	}
	heap.Init(&s.queue)
}

// candidate computes the cheapest placement for collapsing edge a-b
func (s *state) candidate(a, b int) (candidate, bool) {
	onBorder := s.edges[mesh.EdgeKey(a, b)] == 1
	keep, drop := a, b
	switch {
	case s.boundary[a] && s.boundary[b] && !onBorder:
		// would pinch two borders together
		return candidate{}, false
	case s.boundary[b] && !s.boundary[a]:
		keep, drop = b, a
	}

	q := s.quadrics[keep].add(s.quadrics[drop])
	var placements []geometry.Vector3
	if s.boundary[keep] && !s.boundary[drop] {
		placements = []geometry.Vector3{s.pos[keep]}
	} else {
		mid := s.pos[keep].Lerp(s.pos[drop], 0.5)
		if x, ok := q.minimizer(); ok && x.DistanceSquared(mid) <= 4*s.pos[keep].DistanceSquared(s.pos[drop]) {
			placements = append(placements, x)
		}
		placements = append(placements, s.pos[keep], s.pos[drop], mid)
	}

	best := candidate{Cost: math.Inf(1), Keep: keep, Drop: drop}
	for _, x := range placements {
		if cost := q.eval(x); cost < best.Cost {
			best.Cost = cost
			best.Target = x
		}
	}
	best.Cost = math.Max(best.Cost, 0)
	best.versions = [2]int{s.version[keep], s.version[drop]}
	return best, true
}

func (s *state) current(c candidate) bool {
	return s.alive[c.Keep] && s.alive[c.Drop] &&
		s.version[c.Keep] == c.versions[0] && s.version[c.Drop] == c.versions[1] &&
		s.edges[mesh.EdgeKey(c.Keep, c.Drop)] > 0
}

func (s *state) neighbors(v int) map[int]bool {
	n := make(map[int]bool)
	for _, f := range s.vertFaces[v] {
		if !s.faceAlive[f] {
			continue
		}
		for _, w := range s.faces[f] {
			if w != v {
				n[w] = true
			}
		}
	}
	return n
}

// legal checks the link condition and that no surviving face flips or
// degenerates
func (s *state) legal(c candidate) bool {
	if s.vertices <= 4 {
		return false
	}

	shared := 0
	var opposite []int
	for _, f := range s.vertFaces[c.Keep] {
		if s.faceAlive[f] && slices.Contains(s.faces[f][:], c.Drop) {
			shared++
			for _, w := range s.faces[f] {
				if w != c.Keep && w != c.Drop {
					opposite = append(opposite, w)
				}
			}
		}
	}
	nk := s.neighbors(c.Keep)
	common := 0
	for w := range s.neighbors(c.Drop) {
		if nk[w] {
			common++
			if !slices.Contains(opposite, w) {
				return false
			}
		}
	}
	if common != shared {
		return false
	}

	for _, v := range []int{c.Keep, c.Drop} {
		for _, f := range s.vertFaces[v] {
			face := s.faces[f]
			if !s.faceAlive[f] || (slices.Contains(face[:], c.Keep) && slices.Contains(face[:], c.Drop)) {
				continue
			}
			before := geometry.NewTriangle(s.pos[face[0]], s.pos[face[1]], s.pos[face[2]])
			moved := before
			switch v {
			case face[0]:
				moved.A = c.Target
			case face[1]:
				moved.B = c.Target
			default:
				moved.C = c.Target
			}
			if moved.IsDegenerate() || before.Normal().Dot(moved.Normal()) <= 0 {
				return false
			}
		}
	}
	return true
}

// collapse merges Drop into Keep at Target and queues the edges around Keep
func (s *state) collapse(c candidate) {
	keep, drop := c.Keep, c.Drop

	for _, f := range s.vertFaces[drop] {
		if !s.faceAlive[f] {
			continue
		}
		face := s.faces[f]
		for k := 0; k < 3; k++ {
			e := mesh.EdgeKey(face[k], face[(k+1)%3])
			if s.edges[e]--; s.edges[e] == 0 {
				delete(s.edges, e)
			}
		}
		if slices.Contains(face[:], keep) {
			s.faceAlive[f] = false
			continue
		}
		for k := range face {
			if face[k] == drop {
				face[k] = keep
			}
		}
		s.faces[f] = face
		for k := 0; k < 3; k++ {
			s.edges[mesh.EdgeKey(face[k], face[(k+1)%3])]++
		}
		s.vertFaces[keep] = append(s.vertFaces[keep], f)
	}

	s.pos[keep] = c.Target
	s.quadrics[keep] = s.quadrics[keep].add(s.quadrics[drop])
	s.boundary[keep] = s.boundary[keep] || s.boundary[drop]
	s.alive[drop] = false
	s.vertFaces[drop] = nil
	s.vertices--
	s.version[keep]++

	live := s.vertFaces[keep][:0]
	for _, f := range s.vertFaces[keep] {
		if s.faceAlive[f] {
			live = append(live, f)
		}
	}
	s.vertFaces[keep] = live

	ns := make([]int, 0, 8)
	for w := range s.neighbors(keep) {
		ns = append(ns, w)
	}
	slices.Sort(ns)
	for _, w := range ns {
		if cand, ok := s.candidate(keep, w); ok {
			heap.Push(&s.queue, cand)
		}
	}
}
