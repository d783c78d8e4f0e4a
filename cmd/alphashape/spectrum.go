package main

import (
	"fmt"

	"github.com/philipparndt/alphashape/pkg/alphashape"
	"github.com/spf13/cobra"
)

func newSpectrumCmd(c *cli) *cobra.Command {
	var components bool
	cmd := &cobra.Command{
		Use:   "spectrum [points]",
		Short: "List the critical alpha values of a point cloud",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { c.metrics.Run("spectrum", err) }()

			points, err := loadPoints(args[0])
			if err != nil {
				return err
			}
			done := c.metrics.Stage("triangulate")
			shape, err := alphashape.New(points, alphashape.WithLogger(c.logger))
			done()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, a := range shape.Spectrum() {
				if !components {
					fmt.Fprintf(out, "%6d  %.12g\n", i+1, a)
					continue
				}
				if err := shape.SetAlpha(a); err != nil {
					return err
				}
				fmt.Fprintf(out, "%6d  %.12g  %d\n", i+1, a, shape.NumSolidComponents())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&components, "show-components", "c", false, "Also print the number of solid components at each value")
	return cmd
}
