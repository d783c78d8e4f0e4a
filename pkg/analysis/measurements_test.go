package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube(scale float64) *mesh.Mesh {
	points := make([]geometry.Vector3, 8)
	for i := range points {
		points[i] = geometry.NewVector3(float64(i>>2&1), float64(i>>1&1), float64(i&1)).Mul(scale)
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

func TestSurfaceArea(t *testing.T) {
	area := SurfaceArea(cube(2))
	if math.Abs(area-24.0) > 1e-10 {
		t.Errorf("SurfaceArea failed: expected 24, got %v", area)
	}
}

func TestVolumeClosed(t *testing.T) {
	volume, err := Volume(cube(2))
	require.NoError(t, err)
	if math.Abs(volume-8.0) > 1e-10 {
		t.Errorf("Volume failed: expected 8, got %v", volume)
	}
}

func TestVolumeTranslationInvariant(t *testing.T) {
	m := cube(1)
	for i := range m.Points {
		m.Points[i] = m.Points[i].Add(geometry.NewVector3(-3, 7, 11))
	}
	volume, err := Volume(m)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, volume, 1e-9)
}

func TestVolumeOpenMesh(t *testing.T) {
	m := cube(1)
	m.Faces = m.Faces[:11]
	_, err := Volume(m)
	assert.ErrorIs(t, err, ErrOpenMesh)
}

func TestAnalyzeMesh(t *testing.T) {
	result := AnalyzeMesh(cube(1))

	assert.Equal(t, 12, result.TriangleCount)
	assert.Equal(t, 8, result.VertexCount)
	assert.Equal(t, 18, result.EdgeCount)
	assert.True(t, result.Closed)
	assert.InDelta(t, 1.0, result.Volume, 1e-12)
	assert.InDelta(t, 6.0, result.SurfaceArea, 1e-12)
	assert.Equal(t, geometry.NewVector3(1, 1, 1), result.Dimensions)
	assert.InDelta(t, 1.0, result.MinEdgeLength, 1e-12)
	assert.InDelta(t, math.Sqrt2, result.MaxEdgeLength, 1e-12)
	assert.InDelta(t, (12+6*math.Sqrt2)/18, result.AvgEdgeLength, 1e-12)
}

func TestFindEdges(t *testing.T) {
	result := AnalyzeMesh(cube(1))

	longest := FindLongestEdges(result, 3)
	require.Len(t, longest, 3)
	for _, e := range longest {
		assert.InDelta(t, math.Sqrt2, e.Length, 1e-12)
	}

	shortest := FindShortestEdges(result, 100)
	assert.Len(t, shortest, 18)
	assert.InDelta(t, 1.0, shortest[0].Length, 1e-12)

	diagonals := FindEdgesByLength(result, 1.1, 2)
	assert.Len(t, diagonals, 6)
}

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "(1.000000, 2.500000, -3.000000)", FormatVector(geometry.NewVector3(1, 2.5, -3)))
	assert.Equal(t, "2.000000 units", FormatMeasurement(2, ""))
}
