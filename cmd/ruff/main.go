// Command ruff formats Python source files.
package main

import (
	"errors"
	"os"

	"github.com/nkxxll/ruff/internal/cli"
	"github.com/nkxxll/ruff/internal/logging"
)

// Injected at release time via ldflags.
//
//nolint:gochecknoglobals
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	os.Exit(exitCode(root.Execute()))
}

// exitCode maps command errors onto the process exit code. The
// sentinel errors carry status only; anything else is a real failure
// worth a log line.
func exitCode(err error) int {
	switch {
	case err == nil:
		return cli.ExitSuccess
	case errors.Is(err, cli.ErrFilesWouldChange):
		return cli.ExitWouldChange
	case errors.Is(err, cli.ErrFormatFailed):
		return cli.ExitError
	default:
		logging.Default().Error("command failed", logging.FieldError, err)
		return cli.ExitError
	}
}
