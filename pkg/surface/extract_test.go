package surface

import (
	"math"
	"testing"

	"github.com/philipparndt/alphashape/pkg/alpha"
	"github.com/philipparndt/alphashape/pkg/analysis"
	"github.com/philipparndt/alphashape/pkg/delaunay"
	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubePoints(offset geometry.Vector3) []geometry.Vector3 {
	var pts []geometry.Vector3
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				pts = append(pts, geometry.NewVector3(x, y, z).Add(offset))
			}
		}
	}
	return pts
}

func filtration(t *testing.T, pts []geometry.Vector3) *alpha.Filtration {
	t.Helper()
	tri, err := delaunay.Triangulate(pts)
	require.NoError(t, err)
	return alpha.Compute(tri)
}

func TestExtractUnitCube(t *testing.T) {
	f := filtration(t, cubePoints(geometry.Vector3{}))

	m, report := Extract(f, 0.75)
	assert.Equal(t, 12, report.Faces)
	assert.True(t, report.Closed)
	assert.True(t, report.Manifold)
	assert.Len(t, m.Points, 8)

	assert.InDelta(t, 6.0, analysis.SurfaceArea(m), 1e-9)
	volume, err := analysis.Volume(m)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, volume, 1e-9)
}

func TestExtractBelowSolidAlpha(t *testing.T) {
	f := filtration(t, cubePoints(geometry.Vector3{}))
	m, report := Extract(f, 0.5)
	assert.Zero(t, report.Faces)
	assert.False(t, report.Closed)
	assert.Len(t, m.Points, 8, "points are kept even without faces")
}

func TestExtractGridHull(t *testing.T) {
	var pts []geometry.Vector3
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				pts = append(pts, geometry.NewVector3(float64(i), float64(j), float64(k)))
			}
		}
	}
	f := filtration(t, pts)
	top, err := f.NthAlpha(f.Len())
	require.NoError(t, err)

	m, report := Extract(f, top)
	require.True(t, report.Closed)
	assert.InDelta(t, 54.0, analysis.SurfaceArea(m), 1e-9)
	volume, err := analysis.Volume(m)
	require.NoError(t, err)
	assert.InDelta(t, 27.0, volume, 1e-9)
}

func TestExtractTwoComponents(t *testing.T) {
	pts := append(cubePoints(geometry.Vector3{}), cubePoints(geometry.NewVector3(50, 0, 0))...)
	f := filtration(t, pts)

	m, report := Extract(f, 0.75)
	assert.Equal(t, 24, report.Faces)
	assert.True(t, report.Closed)
	volume, err := analysis.Volume(m)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, volume, 1e-9)
}

func torusPoints(major, minor int) []geometry.Vector3 {
	const r1, r2 = 1.0, 0.3
	var pts []geometry.Vector3
	for i := 0; i < major; i++ {
		u := 2 * math.Pi * float64(i) / float64(major)
		for j := 0; j < minor; j++ {
			v := 2 * math.Pi * float64(j) / float64(minor)
			w := r1 + r2*math.Cos(v)
			pts = append(pts, geometry.NewVector3(w*math.Cos(u), w*math.Sin(u), r2*math.Sin(v)))
		}
	}
	return pts
}

func ringPoints(count, n int) []geometry.Vector3 {
	var pts []geometry.Vector3
	for k := 0; k < count; k++ {
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			pts = append(pts, geometry.NewVector3(math.Cos(a), math.Sin(a), 0.4*float64(k)))
		}
	}
	return pts
}

// interiorVolume sums the volumes of the cells in the alpha complex
func interiorVolume(f *alpha.Filtration, a float64) float64 {
	tri := f.Triangulation()
	total := 0.0
	for _, c := range tri.FiniteCells() {
		if f.CellLabel(c, a) != alpha.Interior {
			continue
		}
		p := tri.CellPoints(c)
		total += math.Abs(p[1].Sub(p[0]).Dot(p[2].Sub(p[0]).Cross(p[3].Sub(p[0])))) / 6
	}
	return total
}

func TestExtractEnclosesInteriorCells(t *testing.T) {
	clouds := map[string][]geometry.Vector3{
		"torus": torusPoints(40, 12),
		"rings": ringPoints(6, 10),
		"grid":  nil,
	}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			for k := 0; k < 5; k++ {
				clouds["grid"] = append(clouds["grid"], geometry.NewVector3(float64(i), float64(j), float64(k)))
			}
		}
	}

	for name, pts := range clouds {
		t.Run(name, func(t *testing.T) {
			f := filtration(t, pts)
			for _, a := range f.Spectrum() {
				m, _ := Extract(f, a)
				signed := 0.0
				for i := range m.Faces {
					signed += m.Triangle(i).SignedVolume()
				}
				want := interiorVolume(f, a)
				if math.Abs(signed-want) > 1e-9*math.Max(1, want) {
					t.Errorf("alpha %v: boundary encloses %v, interior cells hold %v", a, signed, want)
					return
				}
			}
		})
	}
}
