package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/alphashape/internal/config"
	"github.com/philipparndt/alphashape/internal/logging"
	"github.com/philipparndt/alphashape/internal/metrics"
	"github.com/philipparndt/alphashape/version"
	"github.com/spf13/cobra"
)

// cli carries the settings and collaborators shared by all sub-commands
type cli struct {
	configPath  string
	logLevel    string
	logJSON     bool
	metricsFile string
	alpha       string
	components  int

	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "alphashape",
		Short: "Reconstruct surfaces from 3D point clouds with alpha shapes",
		Long: `alphashape computes the 3D Delaunay triangulation of a point cloud, derives
its alpha shapes and extracts, measures, simplifies and exports their boundary.
Point clouds are read from XYZ text files, OFF files or STL files.`,
		Version:           version.GetFullVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&c.logJSON, "log-json", false, "Log as JSON")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	flags.StringVarP(&c.alpha, "alpha", "a", "", "Alpha value, or one of all-points, one-region, auto")
	flags.IntVar(&c.components, "components", 0, "Solid component target for --alpha auto")

	rootCmd.AddCommand(
		newInfoCmd(c),
		newSpectrumCmd(c),
		newClassifyCmd(c),
		newNearestCmd(c),
		newSimplifyCmd(c),
		newRepairCmd(c),
		newTriangulationCmd(c),
		newPreviewCmd(c),
		newWatchCmd(c),
		newBatchCmd(c),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and applies command line overrides
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = c.logJSON
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = c.metricsFile
	}
	if flags.Changed("alpha") {
		cfg.Alpha = c.alpha
	}
	if flags.Changed("components") {
		cfg.Components = c.components
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.New(logging.Config{Level: level, JSON: cfg.Log.JSON, Output: cmd.ErrOrStderr()})
	c.metrics = metrics.New()
	return nil
}

// execute runs the command line and writes the metrics file, if one is
// configured, whether or not the command succeeded
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{logger: logging.Discard()}
	rootCmd := newRootCmd(c)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if c.metrics != nil && c.cfg.MetricsFile != "" {
		if werr := c.metrics.WriteFile(c.cfg.MetricsFile); werr != nil && err == nil {
			err = fmt.Errorf("write metrics: %w", werr)
		}
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
