package main

import (
	"github.com/philipparndt/alphashape/pkg/alphashape"
	"github.com/philipparndt/alphashape/pkg/mesh"
	"github.com/philipparndt/alphashape/pkg/off"
	"github.com/spf13/cobra"
)

func newTriangulationCmd(c *cli) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "triangulation [points]",
		Short: "Export the Delaunay triangulation as triangles",
		Long:  "Write four triangles per finite Delaunay cell as an OFF file over the input points.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { c.metrics.Run("triangulation", err) }()

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

			tris := shape.Triangulation()
			faces := make([]mesh.Face, len(tris))
			for i, t := range tris {
				faces[i] = mesh.Face{int(t[0]), int(t[1]), int(t[2])}
			}
			if outPath == "" || outPath == "-" {
				return off.Write(cmd.OutOrStdout(), shape.Points(), faces)
			}
			return off.WriteFile(outPath, shape.Points(), faces)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output OFF file (default stdout)")
	return cmd
}
