package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
)

// ErrOpenMesh is returned with the volume of a mesh that is not closed and
// consistently oriented; the value is then not meaningful
var ErrOpenMesh = errors.New("analysis: mesh is not closed")

// EdgeInfo contains information about an edge in the mesh
type EdgeInfo struct {
	A, B       int
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float64
	TriangleID int
}

// MeasurementResult contains various measurements of a mesh
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	Closed        bool
	SurfaceArea   float64
	TriangleCount int
	VertexCount   int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo
}

// SurfaceArea returns the summed area of all faces
func SurfaceArea(m *mesh.Mesh) float64 {
	total := 0.0
	for f := range m.Faces {
		total += m.Triangle(f).Area()
	}
	return total
}

// Volume returns the volume enclosed by the mesh as the sum of signed
// tetrahedron volumes against the origin. The sum is returned even when
// the mesh is open, together with ErrOpenMesh.
func Volume(m *mesh.Mesh) (float64, error) {
	total := 0.0
	for f := range m.Faces {
		total += m.Triangle(f).SignedVolume()
	}
	if !m.IsClosed() {
		return total, ErrOpenMesh
	}
	return total, nil
}

// AnalyzeMesh performs comprehensive analysis on a mesh
func AnalyzeMesh(m *mesh.Mesh) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:   m.BoundingBox(),
		SurfaceArea:   SurfaceArea(m),
		TriangleCount: m.NumFaces(),
		AllEdges:      make([]EdgeInfo, 0),
	}

	result.Dimensions = result.BoundingBox.Size()
	volume, err := Volume(m)
	result.Closed = err == nil
	if result.Closed {
		result.Volume = volume
	}
	for _, used := range m.Referenced() {
		if used {
			result.VertexCount++
		}
	}

	// Collect all edges, each once
	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	seen := make(map[[2]int]bool, 3*m.NumFaces()/2)

	for i, face := range m.Faces {
		for k := 0; k < 3; k++ {
			a, b := face[k], face[(k+1)%3]
			key := mesh.EdgeKey(a, b)
			if seen[key] {
				continue
			}
			seen[key] = true

			start, end := m.Points[key[0]], m.Points[key[1]]
			length := start.Distance(end)
			result.AllEdges = append(result.AllEdges, EdgeInfo{
				A:          key[0],
				B:          key[1],
				Start:      start,
				End:        end,
				Length:     length,
				TriangleID: i,
			})

			totalLength += length
			if length < minLength {
				minLength = length
			}
			if length > maxLength {
				maxLength = length
			}
		}
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Length > edges[j].Length
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FindShortestEdges returns the N shortest edges in the mesh
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Length < edges[j].Length
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
