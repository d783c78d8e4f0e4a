package main

import (
	"fmt"

	"github.com/philipparndt/alphashape/pkg/off"
	"github.com/spf13/cobra"
)

func newSimplifyCmd(c *cli) *cobra.Command {
	var (
		ratio   float64
		offPath string
	)
	cmd := &cobra.Command{
		Use:   "simplify [points]",
		Short: "Decimate the alpha shape boundary by edge collapse",
		Long:  "Collapse boundary edges, cheapest first by quadric error, until at most ratio times the original edge count remains.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { c.metrics.Run("simplify", err) }()

			if !cmd.Flags().Changed("ratio") {
				ratio = c.cfg.SimplifyRatio
			}
			shape, err := c.buildShape(args[0], c.logger)
			if err != nil {
				return err
			}

			done := c.metrics.Stage("simplify")
			m, stats, err := shape.Simplify(ratio)
			done()
			if err != nil {
				return err
			}
			c.metrics.ObserveSimplify(stats.Collapses)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Simplification")
			fmt.Fprintln(out, "==============")
			fmt.Fprintf(out, "  Ratio: %g\n", ratio)
			fmt.Fprintf(out, "  Edges: %d -> %d\n", stats.InitialEdges, stats.FinalEdges)
			fmt.Fprintf(out, "  Faces: %d -> %d\n", stats.InitialFaces, stats.FinalFaces)
			fmt.Fprintf(out, "  Vertices: %d\n", len(m.Points))
			fmt.Fprintf(out, "  Collapses: %d\n", stats.Collapses)
			fmt.Fprintf(out, "  Closed: %t\n", m.IsClosed())

			if offPath != "" {
				return off.WriteFile(offPath, m.Points, m.Faces)
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&ratio, "ratio", "r", 0.05, "Fraction of edges to keep, in (0, 1]")
	cmd.Flags().StringVar(&offPath, "off", "", "Write the simplified mesh to this OFF file")
	return cmd
}
