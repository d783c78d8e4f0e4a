package main

import (
	"fmt"
	"log/slog"

	"github.com/philipparndt/alphashape/internal/config"
	"github.com/philipparndt/alphashape/pkg/alphashape"
)

// buildShape loads a point cloud, builds its alpha shape and applies the
// configured alpha
func (c *cli) buildShape(path string, logger *slog.Logger) (*alphashape.Shape, error) {
	points, err := loadPoints(path)
	if err != nil {
		return nil, err
	}

	done := c.metrics.Stage("triangulate")
	shape, err := alphashape.New(points, alphashape.WithLogger(logger))
	done()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.metrics.ObserveBuild(len(points), shape.Filtration().Triangulation().NumFiniteCells(), shape.Filtration().Len())

	a, err := c.resolveAlpha(shape)
	if err != nil {
		return nil, err
	}
	if err := shape.SetAlpha(a); err != nil {
		return nil, err
	}

	done = c.metrics.Stage("extract")
	report := shape.SurfaceReport()
	done()
	c.metrics.ObserveSurface(report.Faces)
	return shape, nil
}

// resolveAlpha turns the configured alpha choice into a value for shape
func (c *cli) resolveAlpha(shape *alphashape.Shape) (float64, error) {
	choice, err := config.ParseAlpha(c.cfg.Alpha)
	if err != nil {
		return 0, err
	}
	switch choice.Name {
	case config.AlphaAllPoints:
		return shape.CriticalAlpha(alphashape.AllPoints)
	case config.AlphaOneRegion:
		return shape.CriticalAlpha(alphashape.OneRegion)
	case config.AlphaAuto:
		return shape.OptimalAlpha(c.cfg.Components)
	default:
		return choice.Value, nil
	}
}
