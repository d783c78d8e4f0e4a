package off

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFormat(t *testing.T) {
	var buf bytes.Buffer
	points := []geometry.Vector3{{X: 0, Y: 0.5, Z: -1}, {X: 1e-20, Y: 2, Z: 3}, {X: 1, Y: 1, Z: 1}}
	faces := []mesh.Face{{0, 1, 2}}
	require.NoError(t, Write(&buf, points, faces))

	want := "OFF\n3 1 0\n0 0.5 -1\n1e-20 2 3\n1 1 1\n3 0 1 2\n"
	assert.Equal(t, want, buf.String())
}

func TestRoundTrip(t *testing.T) {
	points := []geometry.Vector3{
		{X: 0.1, Y: 0.2, Z: 0.3},
		{X: math.Pi, Y: -math.E, Z: 1.0 / 3},
		{X: math.MaxFloat64, Y: math.SmallestNonzeroFloat64, Z: 0},
		{X: 7, Y: 8, Z: 9},
	}
	faces := []mesh.Face{{0, 1, 2}, {0, 2, 3}, {3, 2, 1}}

	path := filepath.Join(t.TempDir(), "shape.off")
	require.NoError(t, WriteFile(path, points, faces))

	m, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, points, m.Points)
	assert.Equal(t, faces, m.Faces)
}

func TestReadLenient(t *testing.T) {
	input := `OFF 3 1 0
# a comment
0 0 0
1 0 0   # trailing comment

0 1 0
3 0 1 2
`
	m, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, m.Points, 3)
	assert.Equal(t, []mesh.Face{{0, 1, 2}}, m.Faces)
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no header", "3 1 0\n"},
		{"missing counts", "OFF\n3\n"},
		{"bad count", "OFF\nx 1 0\n"},
		{"truncated points", "OFF\n3 1 0\n0 0 0\n"},
		{"bad coordinate", "OFF\n1 0 0\n0 zero 0\n"},
		{"quad", "OFF\n4 1 0\n0 0 0\n1 0 0\n1 1 0\n0 1 0\n4 0 1 2 3\n"},
		{"index out of range", "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.off"))
	assert.Error(t, err)
}
