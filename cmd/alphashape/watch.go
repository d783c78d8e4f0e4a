package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/philipparndt/alphashape/pkg/openscad"
	"github.com/philipparndt/alphashape/pkg/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd(c *cli) *cobra.Command {
	var offPath string
	cmd := &cobra.Command{
		Use:   "watch [points]",
		Short: "Rebuild the alpha shape whenever the point cloud changes",
		Long:  "Build the boundary once, write it as OFF, then rebuild and rewrite it after every change to the input file until interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var mu sync.Mutex
			rebuild := func() {
				mu.Lock()
				defer mu.Unlock()

				shape, err := c.buildShape(path, c.logger)
				if err == nil {
					err = shape.WriteOFF(offPath)
				}
				c.metrics.Run("watch", err)
				if err != nil {
					c.logger.Error("rebuild failed", "path", path, "error", err)
				}
			}
			rebuild()

			fw, err := watcher.NewFileWatcher(c.cfg.Watch.Debounce, c.logger)
			if err != nil {
				return err
			}
			defer fw.Close()
			files, err := watchedFiles(path)
			if err != nil {
				return err
			}
			if err := fw.Watch(files, func(string) { rebuild() }); err != nil {
				return err
			}

			c.logger.Info("watching for changes", "path", path, "files", len(files), "output", offPath)
			err = fw.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&offPath, "off", "", "OFF file to rewrite after every change")
	_ = cmd.MarkFlagRequired("off")
	return cmd
}

// watchedFiles lists the input and, for OpenSCAD models, every file it
// uses or includes
func watchedFiles(path string) ([]string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".scad" {
		return []string{path}, nil
	}
	return openscad.NewRenderer(".").ResolveDependencies(path)
}
