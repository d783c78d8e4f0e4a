package main

import (
	"github.com/philipparndt/alphashape/pkg/off"
	"github.com/philipparndt/alphashape/pkg/repair"
	"github.com/spf13/cobra"
)

func newRepairCmd(c *cli) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "repair [mesh]",
		Short: "Clean a triangle mesh and drop unused points",
		Long: `Merge duplicate points, drop degenerate and duplicate faces, orient faces
consistently, turn closed parts outward and remove unreferenced points.
The input is an OFF or STL file; the result is written as OFF.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { c.metrics.Run("repair", err) }()

			in, err := loadMesh(args[0])
			if err != nil {
				return err
			}
			done := c.metrics.Stage("repair")
			m, stats, err := repair.Repair(in.Points, in.Faces)
			done()
			if err != nil {
				return err
			}
			c.logger.Info("mesh repaired",
				"merged_points", stats.MergedPoints,
				"degenerate_faces", stats.DegenerateFaces,
				"duplicate_faces", stats.DuplicateFaces,
				"flipped_faces", stats.FlippedFaces,
				"components", stats.Components,
				"removed_points", stats.RemovedPoints)

			if outPath == "" || outPath == "-" {
				return off.Write(cmd.OutOrStdout(), m.Points, m.Faces)
			}
			return off.WriteFile(outPath, m.Points, m.Faces)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output OFF file (default stdout)")
	return cmd
}
