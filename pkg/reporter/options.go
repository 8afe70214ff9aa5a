package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers.
const bufWriterSize = 64 * 1024

// Options configures how a Reporter renders a run.
type Options struct {
	// Writer receives the report, ErrorWriter any per-file errors.
	Writer      io.Writer
	ErrorWriter io.Writer

	Format Format

	// Color is "auto", "always" or "never".
	Color string

	// Check phrases the report as "would change" rather than "wrote".
	Check bool

	ShowSummary bool

	// Compact minifies output where the format supports it.
	Compact bool

	// WorkingDir, when set, is stripped from reported paths.
	WorkingDir string
}

// DefaultOptions reports to stdout/stderr as colorized text with a
// trailing summary.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}
