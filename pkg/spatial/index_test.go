package spatial

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube() *mesh.Mesh {
	points := make([]geometry.Vector3, 8)
	for i := range points {
		points[i] = geometry.NewVector3(float64(i>>2&1), float64(i>>1&1), float64(i&1))
	}
	return &mesh.Mesh{
		Points: points,
		Faces: []mesh.Face{
			{0, 1, 3}, {0, 3, 2},
			{4, 6, 7}, {4, 7, 5},
			{0, 4, 5}, {0, 5, 1},
			{2, 3, 7}, {2, 7, 6},
			{0, 2, 6}, {0, 6, 4},
			{1, 5, 7}, {1, 7, 3},
		},
	}
}

// nearestByScan finds the referenced vertex nearest to point by a linear
// scan. Returns -1 for a mesh without faces.
func nearestByScan(m *mesh.Mesh, point geometry.Vector3) (int, float64) {
	nearest := -1
	minDistance := math.MaxFloat64
	for i, used := range m.Referenced() {
		if !used {
			continue
		}
		if d := point.Distance(m.Points[i]); d < minDistance {
			minDistance = d
			nearest = i
		}
	}
	return nearest, minDistance
}

func TestNearestByScan(t *testing.T) {
	m := cube()
	m.Points = append(m.Points, geometry.NewVector3(0, 0, 0.05))

	id, distance := nearestByScan(m, geometry.NewVector3(0, 0, 0.1))
	assert.Equal(t, 0, id, "isolated points are skipped")
	assert.InDelta(t, 0.1, distance, 1e-12)

	id, _ = nearestByScan(&mesh.Mesh{}, geometry.Vector3{})
	assert.Equal(t, -1, id)
}

func TestNearestCubeCorner(t *testing.T) {
	idx, err := NewIndex(cube())
	require.NoError(t, err)
	assert.Equal(t, 8, idx.Len())

	id, d := idx.Nearest(geometry.NewVector3(0, 0, 0.1))
	assert.Equal(t, 0, id)
	assert.InDelta(t, 0.1, d, 1e-12)

	id, d = idx.Nearest(geometry.NewVector3(1, 1, 1))
	assert.Equal(t, 7, id)
	assert.Zero(t, d)
}

func TestIsolatedPointsAreSkipped(t *testing.T) {
	m := cube()
	// Isolated point right next to the query keeps its id space but is
	// never returned
	m.Points = append([]geometry.Vector3{geometry.NewVector3(0, 0, 0.09)}, m.Points...)
	for f := range m.Faces {
		for k := range m.Faces[f] {
			m.Faces[f][k]++
		}
	}

	idx, err := NewIndex(m)
	require.NoError(t, err)
	ids, dists := idx.NearestAll([]geometry.Vector3{{X: 0, Y: 0, Z: 0.1}, {X: 2, Y: 2, Z: 2}})
	assert.Equal(t, []uint32{1, 8}, ids)
	assert.InDelta(t, 0.1, dists[0], 1e-12)
}

func TestEmptyIndex(t *testing.T) {
	_, err := NewIndex(&mesh.Mesh{Points: []geometry.Vector3{{X: 1}}})
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestNearestMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 2))
	m := &mesh.Mesh{}
	for i := 0; i < 300; i++ {
		m.Points = append(m.Points, geometry.NewVector3(rng.Float64(), rng.Float64(), rng.Float64()))
	}
	for i := 0; i+2 < len(m.Points); i += 3 {
		m.Faces = append(m.Faces, mesh.Face{i, i + 1, i + 2})
	}

	idx, err := NewIndex(m)
	require.NoError(t, err)
	for q := 0; q < 200; q++ {
		p := geometry.NewVector3(rng.Float64()*1.2-0.1, rng.Float64()*1.2-0.1, rng.Float64()*1.2-0.1)
		_, got := idx.Nearest(p)
		_, want := nearestByScan(m, p)
		assert.InDelta(t, want, got, 1e-12)
	}
}
