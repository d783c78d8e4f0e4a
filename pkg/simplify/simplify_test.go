package simplify

import (
	"math"
	"testing"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sphere returns an outward-oriented octahedron subdivided levels times
// and projected onto the unit sphere
func sphere(levels int) *mesh.Mesh {
	m := &mesh.Mesh{
		Points: []geometry.Vector3{
			{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
		},
		Faces: []mesh.Face{
			{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
			{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
		},
	}
	for l := 0; l < levels; l++ {
		mids := map[[2]int]int{}
		mid := func(a, b int) int {
			key := mesh.EdgeKey(a, b)
			if v, ok := mids[key]; ok {
				return v
			}
			m.Points = append(m.Points, m.Points[a].Lerp(m.Points[b], 0.5).Normalize())
			mids[key] = len(m.Points) - 1
			return mids[key]
		}
		var faces []mesh.Face
		for _, f := range m.Faces {
			ab, bc, ca := mid(f[0], f[1]), mid(f[1], f[2]), mid(f[2], f[0])
			faces = append(faces,
				mesh.Face{f[0], ab, ca},
				mesh.Face{ab, f[1], bc},
				mesh.Face{ca, bc, f[2]},
				mesh.Face{ab, bc, ca},
			)
		}
		m.Faces = faces
	}
	return m
}

func planeGrid(n int) *mesh.Mesh {
	m := &mesh.Mesh{}
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			m.Points = append(m.Points, geometry.NewVector3(float64(i), float64(j), 0))
		}
	}
	id := func(i, j int) int { return i*(n+1) + j }
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Faces = append(m.Faces,
				mesh.Face{id(i, j), id(i+1, j), id(i+1, j+1)},
				mesh.Face{id(i, j), id(i+1, j+1), id(i, j+1)},
			)
		}
	}
	return m
}

func assertWellFormed(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	for _, f := range m.Faces {
		for _, v := range f {
			require.GreaterOrEqual(t, v, 0)
			require.Less(t, v, len(m.Points))
		}
		assert.False(t, f[0] == f[1] || f[1] == f[2] || f[0] == f[2], "face %v repeats a vertex", f)
	}
	for i, used := range m.Referenced() {
		assert.True(t, used, "point %d is unreferenced", i)
	}
}

func TestSimplifyInvalidRatio(t *testing.T) {
	for _, r := range []float64{0, -0.5, 1.5, math.NaN()} {
		_, _, err := Simplify(sphere(1), WithStopRatio(r))
		assert.ErrorIs(t, err, ErrInvalidRatio, "ratio %v", r)
	}
}

func TestSimplifyRatioOneKeepsMesh(t *testing.T) {
	in := sphere(2)
	out, stats, err := Simplify(in, WithStopRatio(1))
	require.NoError(t, err)
	assert.Zero(t, stats.Collapses)
	assert.Equal(t, in.Faces, out.Faces)
	assert.Equal(t, in.EdgeCount(), stats.FinalEdges)
}

func TestSimplifySphere(t *testing.T) {
	in := sphere(3)
	before := in.Clone()
	e0 := in.EdgeCount()

	out, stats, err := Simplify(in, WithStopRatio(0.25))
	require.NoError(t, err)

	assert.Equal(t, e0, stats.InitialEdges)
	assert.LessOrEqual(t, stats.FinalEdges, int(0.25*float64(e0)))
	assert.Equal(t, out.EdgeCount(), stats.FinalEdges)
	assert.True(t, out.IsClosed())
	assertWellFormed(t, out)
	assert.Equal(t, before, in, "input mesh must not change")

	// Euler characteristic of a sphere survives every legal collapse
	assert.Equal(t, 2, len(out.Points)-out.EdgeCount()+out.NumFaces())
	for _, p := range out.Points {
		assert.InDelta(t, 1.0, p.Length(), 0.5)
	}
}

func TestSimplifyDefaultRatio(t *testing.T) {
	out, stats, err := Simplify(sphere(2))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.FinalEdges, 6)
	assert.True(t, out.IsClosed())
	assertWellFormed(t, out)
}

func TestSimplifyDropsIsolatedPoints(t *testing.T) {
	in := sphere(1)
	in.Points = append([]geometry.Vector3{{X: 5, Y: 5, Z: 5}}, in.Points...)
	for f := range in.Faces {
		for k := range in.Faces[f] {
			in.Faces[f][k]++
		}
	}
	out, _, err := Simplify(in, WithStopRatio(1))
	require.NoError(t, err)
	assert.Len(t, out.Points, len(in.Points)-1)
	assertWellFormed(t, out)
}

func TestSimplifyFlatGridKeepsOrientation(t *testing.T) {
	in := planeGrid(8)
	out, stats, err := Simplify(in, WithStopRatio(0.3))
	require.NoError(t, err)
	assert.Greater(t, stats.Collapses, 0)
	assertWellFormed(t, out)
	for f := range out.Faces {
		n := out.Triangle(f).Normal()
		assert.Greater(t, n.Z, 0.0, "face %d flipped", f)
	}
}

func TestQuadricMinimizer(t *testing.T) {
	// Three orthogonal planes through (1, 2, 3) meet in that point
	q := planeQuadric(geometry.NewVector3(1, 0, 0), geometry.NewVector3(1, 2, 3), 1).
		add(planeQuadric(geometry.NewVector3(0, 1, 0), geometry.NewVector3(1, 2, 3), 1)).
		add(planeQuadric(geometry.NewVector3(0, 0, 1), geometry.NewVector3(1, 2, 3), 1))

	x, ok := q.minimizer()
	require.True(t, ok)
	assert.InDelta(t, 1.0, x.X, 1e-12)
	assert.InDelta(t, 2.0, x.Y, 1e-12)
	assert.InDelta(t, 3.0, x.Z, 1e-12)
	assert.InDelta(t, 0.0, q.eval(x), 1e-12)
	assert.InDelta(t, 3.0, q.eval(geometry.NewVector3(2, 3, 4)), 1e-12)

	flat := planeQuadric(geometry.NewVector3(0, 0, 1), geometry.Vector3{}, 1)
	_, ok = flat.minimizer()
	assert.False(t, ok)
}
