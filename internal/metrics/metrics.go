// Package metrics records reconstruction timings and sizes in a private
// Prometheus registry, exported as a node-exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "alphashape"

// Metrics holds the collectors of one command invocation
type Metrics struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	points         prometheus.Counter
	cells          prometheus.Gauge
	boundaryFacets prometheus.Gauge
	spectrumSize   prometheus.Gauge
	collapses      prometheus.Counter
}

// New registers all collectors in a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Reconstructions by command and outcome",
		}, []string{"command", "status"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		points: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_points_total",
			Help:      "Points triangulated",
		}),
		cells: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "finite_cells",
			Help:      "Finite Delaunay cells of the last triangulation",
		}),
		boundaryFacets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "boundary_facets",
			Help:      "Boundary facets of the last extracted surface",
		}),
		spectrumSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spectrum_size",
			Help:      "Distinct critical alpha values of the last shape",
		}),
		collapses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edge_collapses_total",
			Help:      "Edges collapsed by simplification",
		}),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Stage starts timing a pipeline stage; call the returned func when done
func (m *Metrics) Stage(name string) func() {
	start := time.Now()
	return func() {
		m.stageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}

// ObserveBuild records the size of a new shape
func (m *Metrics) ObserveBuild(points, finiteCells, spectrum int) {
	m.points.Add(float64(points))
	m.cells.Set(float64(finiteCells))
	m.spectrumSize.Set(float64(spectrum))
}

// ObserveSurface records the size of an extracted boundary
func (m *Metrics) ObserveSurface(facets int) {
	m.boundaryFacets.Set(float64(facets))
}

// ObserveSimplify records collapsed edges
func (m *Metrics) ObserveSimplify(collapses int) {
	m.collapses.Add(float64(collapses))
}

// Run counts a finished command
func (m *Metrics) Run(command string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.runs.WithLabelValues(command, status).Inc()
}

// WriteFile writes all metrics in text exposition format. The file is
// replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
