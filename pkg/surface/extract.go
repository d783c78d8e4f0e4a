// Package surface extracts the boundary of an alpha shape as a mesh
package surface

import (
	"github.com/philipparndt/alphashape/pkg/alpha"
	"github.com/philipparndt/alphashape/pkg/mesh"
)

// Report describes the extracted boundary. Area and volume are only
// reliable for a closed mesh.
type Report struct {
	Faces    int
	Closed   bool
	Manifold bool
}

// Extract returns the regular facets of the alpha complex at a as a mesh
// over all triangulation points. Each face is wound so that its normal
// points toward the exterior cell. Isolated points are kept so that face
// indices equal input point ids.
func Extract(f *alpha.Filtration, a float64) (*mesh.Mesh, Report) {
	t := f.Triangulation()
	m := &mesh.Mesh{Points: t.Points()}

	for _, facet := range f.Facets() {
		if alpha.ClassifyFacet(facet, a) != alpha.Regular {
			continue
		}
		c, i := facet.Cell, facet.Index
		if f.CellLabel(c, a) != alpha.Exterior {
			c, i = t.Mirror(c, i)
		}
		m.Faces = append(m.Faces, mesh.Face(t.Cell(c).Facet(i)))
	}

	return m, Report{
		Faces:    len(m.Faces),
		Closed:   m.IsClosed(),
		Manifold: m.IsEdgeManifold(),
	}
}
