// Package cli provides the Cobra command structure for the formatter.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nkxxll/ruff/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root ruff command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "ruff",
		Short: "An opinionated Python code formatter",
		Long: `ruff is an opinionated Python code formatter written in Go.

It rewrites Python source into a single canonical style: consistent
indentation, normalized spacing, capped blank lines, and line breaking
driven by line length and magic trailing commas. Formatting can be
limited to a byte range, checked without writing, or printed as a diff.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyStyledHelp(rootCmd, color, os.Stdout)

	return rootCmd
}
