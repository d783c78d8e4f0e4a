package main

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type batchResult struct {
	file       string
	points     int
	alpha      float64
	facets     int
	components int
	area       float64
	volume     float64
	closed     bool
	err        error
}

func newBatchCmd(c *cli) *cobra.Command {
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "batch [points...]",
		Short: "Summarize the alpha shapes of many point clouds in parallel",
		Long:  "Build one alpha shape per input file, at most batch.concurrency at a time, and print one summary row per file in argument order.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() { c.metrics.Run("batch", err) }()

			runID := uuid.New()
			logger := c.logger.With("run_id", runID.String())
			logger.Info("batch started", "files", len(args), "concurrency", c.cfg.Batch.Concurrency)

			results := make([]batchResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(c.cfg.Batch.Concurrency)
			for i, path := range args {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					results[i] = c.summarize(path, logger.With("job_id", uuid.NewString(), "file", path))
					if results[i].err != nil && !keepGoing {
						return results[i].err
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tPOINTS\tALPHA\tFACETS\tCOMPONENTS\tAREA\tVOLUME")
			var failed []error
			for _, r := range results {
				if r.err != nil {
					fmt.Fprintf(w, "%s\terror: %v\n", r.file, r.err)
					failed = append(failed, r.err)
					continue
				}
				volume := "-"
				if r.closed {
					volume = fmt.Sprintf("%.6f", r.volume)
				}
				fmt.Fprintf(w, "%s\t%d\t%.6g\t%d\t%d\t%.6f\t%s\n", r.file, r.points, r.alpha, r.facets, r.components, r.area, volume)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			logger.Info("batch finished", "files", len(args), "failed", len(failed))
			return errors.Join(failed...)
		},
	}
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Report failing files instead of stopping at the first one")
	return cmd
}

// summarize builds one shape and measures its boundary
func (c *cli) summarize(path string, logger *slog.Logger) batchResult {
	shape, err := c.buildShape(path, logger)
	if err != nil {
		logger.Error("build failed", "error", err)
		return batchResult{file: path, err: err}
	}
	volume, verr := shape.Volume()
	return batchResult{
		file:       path,
		points:     len(shape.Points()),
		alpha:      shape.Alpha(),
		facets:     shape.SurfaceReport().Faces,
		components: shape.NumSolidComponents(),
		area:       shape.SurfaceArea(),
		volume:     volume,
		closed:     verr == nil,
	}
}
