package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
	"github.com/philipparndt/alphashape/pkg/off"
	"github.com/philipparndt/alphashape/pkg/openscad"
	"github.com/philipparndt/alphashape/pkg/stl"
)

// loadPoints reads a point cloud. OFF, STL and OpenSCAD files contribute
// their vertices; anything else is read as XYZ text.
func loadPoints(path string) ([]geometry.Vector3, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".off", ".stl", ".scad":
		m, err := loadMesh(path)
		if err != nil {
			return nil, err
		}
		return m.Points, nil
	default:
		return readXYZ(path)
	}
}

// loadMesh reads a triangle mesh from an OFF or STL file, or renders one
// from an OpenSCAD model
func loadMesh(path string) (*mesh.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".off":
		return off.ReadFile(path)
	case ".stl":
		model, err := stl.Parse(path)
		if err != nil {
			return nil, err
		}
		return model.Mesh(), nil
	case ".scad":
		model, err := openscad.NewRenderer(".").Render(context.Background(), path)
		if err != nil {
			return nil, err
		}
		return model.Mesh(), nil
	default:
		return nil, fmt.Errorf("%s: unsupported mesh format, expected .off, .stl or .scad", path)
	}
}

// readXYZ reads one point per line as three numbers separated by blanks
// or commas. Extra columns are ignored, '#' starts a comment.
func readXYZ(path string) ([]geometry.Vector3, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var points []geometry.Vector3
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s:%d: expected 3 coordinates, got %d", path, line, len(fields))
		}
		var xyz [3]float64
		for k := range xyz {
			if xyz[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
		}
		points = append(points, geometry.FromArray(xyz))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return points, nil
}
