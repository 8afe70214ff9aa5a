package cli

import "github.com/nkxxll/ruff/pkg/runner"

// Exit codes for ruff.
const (
	// ExitSuccess indicates successful execution with nothing to change.
	ExitSuccess = 0

	// ExitWouldChange indicates check or diff mode found files that
	// would be reformatted.
	ExitWouldChange = 1

	// ExitError indicates formatting failed for at least one file, or
	// the command could not run at all.
	ExitError = 2
)

// ExitCodeFromResult determines the exit code for a formatting run.
// checkMode covers both --check and --diff, where changed files signal
// a nonzero exit without being an error.
func ExitCodeFromResult(result *runner.Result, checkMode bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitError
	}

	if checkMode && result.HasChanges() {
		return ExitWouldChange
	}

	return ExitSuccess
}
