package stl

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tetraASCII = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
  facet normal 1 1 1
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid tetra
`

func binarySTL(name string, tris [][3]geometry.Vector3) []byte {
	data := make([]byte, headerSize+4+facetSize*len(tris))
	copy(data, name)
	binary.LittleEndian.PutUint32(data[headerSize:], uint32(len(tris)))
	for i, tri := range tris {
		facet := data[headerSize+4+i*facetSize:]
		for k, p := range tri {
			for a := 0; a < 3; a++ {
				binary.LittleEndian.PutUint32(facet[12*(k+1)+4*a:], math.Float32bits(float32(p.At(a))))
			}
		}
	}
	return data
}

func TestParseASCII(t *testing.T) {
	model, err := ParseBytes([]byte(tetraASCII))
	require.NoError(t, err)

	if model.Name != "tetra" {
		t.Errorf("Name = %q, want tetra", model.Name)
	}
	assert.Equal(t, 4, model.TriangleCount())
	assert.Len(t, model.Points, 4, "shared corners must be welded")
	assert.True(t, model.Mesh().IsClosed())
	assert.Equal(t, mesh.Face{0, 1, 2}, model.Faces[0])
}

func TestParseBinary(t *testing.T) {
	o, x, y, z := geometry.Vector3{}, geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0), geometry.NewVector3(0, 0, 1)
	// header starting with "solid" must not fool the detection
	data := binarySTL("solid but binary", [][3]geometry.Vector3{
		{o, y, x}, {o, x, z}, {o, z, y}, {x, y, z},
	})

	model, err := ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "solid but binary", model.Name)
	assert.Equal(t, 4, model.TriangleCount())
	assert.Len(t, model.Points, 4)
	assert.True(t, model.Mesh().IsClosed())

	box := model.BoundingBox()
	assert.Equal(t, geometry.NewVector3(1, 1, 1), box.Max)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.stl")
	require.NoError(t, os.WriteFile(path, []byte(tetraASCII), 0o644))

	model, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 4, model.TriangleCount())

	_, err = Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short binary", []byte("abc")},
		{"truncated binary", binarySTL("x", make([][3]geometry.Vector3, 2))[:headerSize+4+facetSize]},
		{"bad vertex", []byte("solid s\nfacet\nvertex 0 a 0\nendfacet\n")},
		{"two vertices", []byte("solid s\nfacet\nvertex 0 0 0\nvertex 1 0 0\nendfacet\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes(tt.data)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
