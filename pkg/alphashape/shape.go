// Package alphashape reconstructs a surface from a 3-D point cloud with
// alpha shapes and answers geometric queries against it.
//
// A Shape owns the Delaunay triangulation of its points, the alpha
// filtration derived from it, the current alpha and the boundary mesh at
// that alpha. Changing alpha only marks the mesh stale; it is rebuilt on
// the next read. A Shape is not safe for concurrent use.
package alphashape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/philipparndt/alphashape/pkg/alpha"
	"github.com/philipparndt/alphashape/pkg/analysis"
	"github.com/philipparndt/alphashape/pkg/delaunay"
	"github.com/philipparndt/alphashape/pkg/geometry"
	"github.com/philipparndt/alphashape/pkg/mesh"
	"github.com/philipparndt/alphashape/pkg/off"
	"github.com/philipparndt/alphashape/pkg/repair"
	"github.com/philipparndt/alphashape/pkg/simplify"
	"github.com/philipparndt/alphashape/pkg/spatial"
	"github.com/philipparndt/alphashape/pkg/surface"
)

var (
	ErrInvalidAlpha = errors.New("alphashape: alpha must be finite and non-negative")
	ErrUnknownKind  = errors.New("alphashape: unknown critical alpha kind")
	ErrDimension    = errors.New("alphashape: coordinate count is not a multiple of 3")
)

// CriticalKind names a derived alpha threshold
type CriticalKind int

const (
	// AllPoints is the smallest alpha at which every point belongs to an
	// interior cell
	AllPoints CriticalKind = iota
	// OneRegion is the smallest alpha, not below AllPoints, at which the
	// interior forms a single solid component
	OneRegion
)

// String returns the name accepted by ParseCriticalKind
func (k CriticalKind) String() string {
	switch k {
	case AllPoints:
		return "all-points"
	case OneRegion:
		return "one-region"
	default:
		return fmt.Sprintf("CriticalKind(%d)", int(k))
	}
}

// ParseCriticalKind maps "all-points" and "one-region" to their kind
func ParseCriticalKind(name string) (CriticalKind, error) {
	switch name {
	case "all-points":
		return AllPoints, nil
	case "one-region":
		return OneRegion, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

type options struct {
	logger *slog.Logger
	alpha  float64
}

// Option configures New
type Option func(*options)

// WithLogger sends progress messages to l
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAlpha sets the initial alpha. Invalid values make New fail.
func WithAlpha(a float64) Option {
	return func(o *options) {
		o.alpha = a
	}
}

// Shape is an alpha shape over a fixed point set
type Shape struct {
	logger *slog.Logger
	filt   *alpha.Filtration
	alpha  float64

	// boundary at alpha; nil when stale
	mesh   *mesh.Mesh
	report surface.Report
}

// New triangulates points and computes their alpha filtration. At least
// four distinct, finite, non-coplanar points are required.
func New(points []geometry.Vector3, opts ...Option) (*Shape, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkAlpha(o.alpha); err != nil {
		return nil, err
	}

	start := time.Now()
	o.logger.Info("computing delaunay triangulation", "points", len(points))
	tri, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, err
	}
	o.logger.Info("triangulation done",
		"vertices", tri.NumVertices(),
		"finite_cells", tri.NumFiniteCells(),
		"elapsed", time.Since(start))

	filt := alpha.Compute(tri)
	o.logger.Info("alpha filtration done",
		"alpha_values", filt.Len(),
		"all_points_alpha", filt.AllPointsAlpha(),
		"elapsed", time.Since(start))

	return &Shape{logger: o.logger, filt: filt, alpha: o.alpha}, nil
}

// FromCoords converts a flat x, y, z, x, y, z, ... slice into points
func FromCoords(coords []float64) ([]geometry.Vector3, error) {
	if len(coords)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrDimension, len(coords))
	}
	points := make([]geometry.Vector3, len(coords)/3)
	for i := range points {
		points[i] = geometry.NewVector3(coords[3*i], coords[3*i+1], coords[3*i+2])
	}
	return points, nil
}

func checkAlpha(a float64) error {
	if !(a >= 0) || math.IsInf(a, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidAlpha, a)
	}
	return nil
}

// Filtration exposes the underlying alpha filtration
func (s *Shape) Filtration() *alpha.Filtration {
	return s.filt
}

// Alpha returns the current alpha
func (s *Shape) Alpha() float64 {
	return s.alpha
}

// SetAlpha changes the current alpha. The boundary mesh is rebuilt lazily.
func (s *Shape) SetAlpha(a float64) error {
	if err := checkAlpha(a); err != nil {
		return err
	}
	if a == s.alpha {
		return nil
	}
	s.alpha = a
	s.mesh = nil
	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		s.logger.Debug("alpha changed", "alpha", a, "solid_components", s.NumSolidComponents())
	}
	return nil
}

// Spectrum returns the distinct critical alphas in ascending order
func (s *Shape) Spectrum() []float64 {
	return s.filt.Spectrum()
}

// NthAlpha returns the n-th smallest critical alpha, counting from 1
func (s *Shape) NthAlpha(n int) (float64, error) {
	return s.filt.NthAlpha(n)
}

// NumSolidComponents counts the face-connected components of the interior
// at the current alpha
func (s *Shape) NumSolidComponents() int {
	return s.filt.SolidComponents(s.alpha)
}

// CriticalAlpha returns the threshold of the given kind
func (s *Shape) CriticalAlpha(kind CriticalKind) (float64, error) {
	switch kind {
	case AllPoints:
		return s.filt.AllPointsAlpha(), nil
	case OneRegion:
		return s.filt.OptimalAlpha(1)
	default:
		return math.NaN(), fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// CriticalAlphaByName is CriticalAlpha keyed by name. Unknown names yield
// NaN.
func (s *Shape) CriticalAlphaByName(name string) float64 {
	kind, err := ParseCriticalKind(name)
	if err != nil {
		return math.NaN()
	}
	a, err := s.CriticalAlpha(kind)
	if err != nil {
		return math.NaN()
	}
	return a
}

// OptimalAlpha returns the smallest alpha, not below AllPoints, at which
// the interior has at most k solid components
func (s *Shape) OptimalAlpha(k int) (float64, error) {
	return s.filt.OptimalAlpha(k)
}

// current returns the boundary at the current alpha, rebuilding it when
// stale. The cache is only replaced once extraction has finished.
func (s *Shape) current() *mesh.Mesh {
	if s.mesh != nil {
		return s.mesh
	}
	start := time.Now()
	m, report := surface.Extract(s.filt, s.alpha)
	s.mesh, s.report = m, report
	s.logger.Info("boundary extracted",
		"alpha", s.alpha,
		"facets", report.Faces,
		"closed", report.Closed,
		"manifold", report.Manifold,
		"elapsed", time.Since(start))
	if report.Faces > 0 && !report.Closed {
		s.logger.Warn("boundary is not closed; volume is unreliable", "alpha", s.alpha)
	}
	return s.mesh
}

// Mesh returns a copy of the boundary mesh. Its point list holds every
// input point so that face indices are input point ids.
func (s *Shape) Mesh() *mesh.Mesh {
	return s.current().Clone()
}

// SurfaceReport describes the boundary at the current alpha
func (s *Shape) SurfaceReport() surface.Report {
	s.current()
	return s.report
}

// Points returns a copy of the input points
func (s *Shape) Points() []geometry.Vector3 {
	return s.filt.Triangulation().Points()
}

// SurfaceArea returns the area of the boundary
func (s *Shape) SurfaceArea() float64 {
	return analysis.SurfaceArea(s.current())
}

// Volume returns the volume enclosed by the boundary. When the boundary is
// not closed the value is returned with analysis.ErrOpenMesh.
func (s *Shape) Volume() (float64, error) {
	return analysis.Volume(s.current())
}

// BoundaryFacets returns the boundary triangles as input point ids, wound
// counter-clockwise seen from outside
func (s *Shape) BoundaryFacets() [][3]uint32 {
	return s.current().FacesUint32()
}

// ClassifyPoint locates p against the alpha shape. Points on the boundary
// report alpha.Boundary.
func (s *Shape) ClassifyPoint(p geometry.Vector3) alpha.Location {
	return s.filt.ClassifyPoint(p, s.alpha)
}

// ClassifyPoints reports for each point whether it is inside the shape or
// on its boundary
func (s *Shape) ClassifyPoints(ps []geometry.Vector3) []bool {
	in := make([]bool, len(ps))
	for i, p := range ps {
		in[i] = s.ClassifyPoint(p).Contained()
	}
	return in
}

// NearestNeighbor returns, for each query, the closest boundary vertex as
// an input point id and its distance. Points not on the boundary are never
// returned; ties resolve to either candidate.
func (s *Shape) NearestNeighbor(ps []geometry.Vector3) ([]uint32, []float64, error) {
	idx, err := spatial.NewIndex(s.current())
	if err != nil {
		return nil, nil, err
	}
	ids, dists := idx.NearestAll(ps)
	return ids, dists, nil
}

// Simplify decimates a copy of the boundary until at most ratio times its
// edges remain. The result is compact and independent of the shape.
func (s *Shape) Simplify(ratio float64) (*mesh.Mesh, simplify.Stats, error) {
	start := time.Now()
	m, stats, err := simplify.Simplify(s.current(), simplify.WithStopRatio(ratio))
	if err != nil {
		return nil, stats, err
	}
	s.logger.Info("boundary simplified",
		"ratio", ratio,
		"edges_before", stats.InitialEdges,
		"edges_after", stats.FinalEdges,
		"faces_after", stats.FinalFaces,
		"elapsed", time.Since(start))
	return m, stats, nil
}

// Triangulation returns four triangles per finite Delaunay cell as input
// point ids
func (s *Shape) Triangulation() [][3]uint32 {
	faces := s.filt.Triangulation().Faces()
	out := make([][3]uint32, len(faces))
	for i, f := range faces {
		out[i] = [3]uint32{uint32(f[0]), uint32(f[1]), uint32(f[2])}
	}
	return out
}

// WriteOFF writes the input points and the boundary facets to path
func (s *Shape) WriteOFF(path string) error {
	m := s.current()
	if err := off.WriteFile(path, m.Points, m.Faces); err != nil {
		return err
	}
	s.logger.Info("boundary written", "path", path, "facets", len(m.Faces))
	return nil
}

// RemoveUnusedPoints repairs an arbitrary triangle soup and drops the
// points no face uses. See repair.Repair for the steps.
func RemoveUnusedPoints(points []geometry.Vector3, faces [][3]uint32) ([]geometry.Vector3, [][3]uint32, error) {
	soup := make([]mesh.Face, len(faces))
	for i, f := range faces {
		soup[i] = mesh.Face{int(f[0]), int(f[1]), int(f[2])}
	}
	m, _, err := repair.Repair(points, soup)
	if err != nil {
		return nil, nil, err
	}
	return m.Points, m.FacesUint32(), nil
}
