package main

import (
	"fmt"
	"runtime"

	"github.com/philipparndt/alphashape/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "alphashape %s\n", version.GetVersion())
			fmt.Fprintf(out, "  commit: %s\n", version.GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", version.BuildDate)
			fmt.Fprintf(out, "  go:     %s\n", runtime.Version())
			return nil
		},
	}
}
