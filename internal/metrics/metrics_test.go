package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveBuild(8, 6, 3)
	m.ObserveBuild(8, 5, 2)
	m.ObserveSurface(12)
	m.ObserveSimplify(40)

	assert.Equal(t, 16.0, testutil.ToFloat64(m.points))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.cells))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.spectrumSize))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.boundaryFacets))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.collapses))
}

func TestRunStatus(t *testing.T) {
	m := New()
	m.Run("info", nil)
	m.Run("info", nil)
	m.Run("info", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("info", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("info", "error")))
}

func TestStage(t *testing.T) {
	m := New()
	done := m.Stage("triangulate")
	done()

	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))
	want := `
# HELP alphashape_input_points_total Points triangulated
# TYPE alphashape_input_points_total counter
alphashape_input_points_total 0
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "alphashape_input_points_total"))
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.ObserveSurface(7)
	path := filepath.Join(t.TempDir(), "alphashape.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alphashape_boundary_facets 7")
}
