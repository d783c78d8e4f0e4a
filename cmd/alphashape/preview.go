package main

import (
	"github.com/philipparndt/alphashape/pkg/preview"
	"github.com/spf13/cobra"
)

func newPreviewCmd(c *cli) *cobra.Command {
	var (
		outPath string
		opts    = preview.DefaultOptions()
	)
	cmd := &cobra.Command{
		Use:   "preview [points]",
		Short: "Render the alpha shape boundary to a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { c.metrics.Run("preview", err) }()

			shape, err := c.buildShape(args[0], c.logger)
			if err != nil {
				return err
			}
			done := c.metrics.Stage("render")
			err = preview.WritePNG(outPath, shape.Mesh(), opts)
			done()
			if err != nil {
				return err
			}
			c.logger.Info("preview written", "path", outPath, "width", opts.Width, "height", opts.Height)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output PNG file")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "Image width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "Image height in pixels")
	cmd.Flags().Float64Var(&opts.Yaw, "yaw", opts.Yaw, "Camera rotation around the vertical axis in degrees")
	cmd.Flags().Float64Var(&opts.Pitch, "pitch", opts.Pitch, "Camera elevation in degrees")
	cmd.Flags().BoolVarP(&opts.Wireframe, "wireframe", "w", false, "Draw boundary edges")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
