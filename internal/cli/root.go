// Package cli implements the gansner command-line interface.
//
// The CLI is a thin outer surface over the layered layout library: it loads
// a graph description from a TOML file, runs the layout, and prints the
// computed node positions. The library itself never parses anything - all
// file handling lives here.
//
// # Commands
//
//   - layout: compute node positions for a graph description file
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/derekdreery/gansner/pkg/buildinfo"
)

// Execute runs the gansner CLI and returns an error if any command fails.
//
// Logging goes to stderr at info level, or debug level with --verbose (-v).
// The logger is attached to the command context and retrieved by commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "gansner",
		Short:        "gansner computes layered graph layouts",
		Long:         `gansner computes layered (Sugiyama-style) layouts for directed graphs: it assigns each node of a graph description to a layer and prints the resulting drawing positions, leaving rendering to other tools.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newLayoutCmd())

	return root.ExecuteContext(ctx)
}
