package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rocketpool/rocketpool-web/internal/logging"
)

var verbose bool

// NewRootCommand builds the rocketpool command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rocketpool",
		Short: "Rocket Pool command line tools",
		Long: `rocketpool runs maintenance operations against a Rocket Pool deployment
and inspects the event topics used by the web UI.

Use "rocketpool [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logging.NewWithWriter(cmd.ErrOrStderr(), os.Getenv("LOG_FORMAT"), level)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newNodeCommand(), newTopicsCommand(), newVersionCommand())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		slog.Debug("Command failed", "error", err)
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
