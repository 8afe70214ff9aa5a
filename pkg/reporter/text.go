package reporter

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nkxxll/ruff/internal/ui/pretty"
	"github.com/nkxxll/ruff/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to format."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		switch {
		case file.Error != nil:
			fmt.Fprintln(r.bw, r.styles.FormatFileError(r.displayPath(file.Path), file.Error))
		case file.Skipped:
			fmt.Fprintf(r.bw, "%s %s\n",
				r.styles.Dim.Render("skipped (modified on disk):"),
				r.styles.FilePath.Render(r.displayPath(file.Path)))
		case file.Changed && r.opts.Check:
			fmt.Fprintf(r.bw, "%s %s\n",
				r.styles.Changed.Render("Would reformat:"),
				r.styles.FilePath.Render(r.displayPath(file.Path)))
		case file.Written:
			fmt.Fprintf(r.bw, "%s %s\n",
				r.styles.Changed.Render("Reformatted:"),
				r.styles.FilePath.Render(r.displayPath(file.Path)))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw, r.summaryLine(result.Stats))
	}

	return result.Stats.FilesChanged, nil
}

// summaryLine builds the one-line aggregate summary.
func (r *TextReporter) summaryLine(stats runner.Stats) string {
	var parts []string

	changedVerb := "reformatted"
	if r.opts.Check {
		changedVerb = "would be reformatted"
	}
	if stats.FilesChanged > 0 {
		parts = append(parts, r.styles.Changed.Render(
			fmt.Sprintf("%d %s %s", stats.FilesChanged, pluralFiles(stats.FilesChanged), changedVerb)))
	}
	if stats.FilesUnchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d %s left unchanged",
			stats.FilesUnchanged, pluralFiles(stats.FilesUnchanged)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, r.styles.Dim.Render(
			fmt.Sprintf("%d %s skipped", stats.FilesSkipped, pluralFiles(stats.FilesSkipped))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, r.styles.Failure.Render(
			fmt.Sprintf("%d %s failed", stats.FilesErrored, pluralFiles(stats.FilesErrored))))
	}

	if len(parts) == 0 {
		return r.styles.Success.Render("No files to format.")
	}
	return strings.Join(parts, ", ")
}

// displayPath shortens a path relative to the working directory when possible.
func (r *TextReporter) displayPath(path string) string {
	if r.opts.WorkingDir == "" {
		return path
	}
	rel, err := filepath.Rel(r.opts.WorkingDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func pluralFiles(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}
