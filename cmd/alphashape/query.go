package main

import (
	"fmt"

	"github.com/philipparndt/alphashape/pkg/analysis"
	"github.com/spf13/cobra"
)

func newClassifyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [points] [queries]",
		Short: "Report whether query points lie inside the alpha shape",
		Long:  "Print one line per query point: its coordinates and inside, boundary or outside. Boundary points count as contained.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { c.metrics.Run("classify", err) }()

			shape, err := c.buildShape(args[0], c.logger)
			if err != nil {
				return err
			}
			queries, err := loadPoints(args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, q := range queries {
				fmt.Fprintf(out, "%s %s\n", analysis.FormatVector(q), shape.ClassifyPoint(q))
			}
			return nil
		},
	}
}

func newNearestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "nearest [points] [queries]",
		Short: "Find the nearest boundary vertex for query points",
		Long:  "Print one line per query point: its coordinates, the id of the closest boundary vertex in the input and the distance to it.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { c.metrics.Run("nearest", err) }()

			shape, err := c.buildShape(args[0], c.logger)
			if err != nil {
				return err
			}
			queries, err := loadPoints(args[1])
			if err != nil {
				return err
			}
			ids, dists, err := shape.NearestNeighbor(queries)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, q := range queries {
				fmt.Fprintf(out, "%s -> %d %.6f\n", analysis.FormatVector(q), ids[i], dists[i])
			}
			return nil
		},
	}
}
