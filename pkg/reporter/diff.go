package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nkxxll/ruff/internal/ui/pretty"
	"github.com/nkxxll/ruff/pkg/edits"
	"github.com/nkxxll/ruff/pkg/runner"
)

// DiffReporter prints the unified diff each changed file would
// receive, colorized per line when the terminal allows it.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// Report implements Reporter. The returned count is the number of
// files with pending changes.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var changed, added, deleted int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintln(r.out, r.styles.FormatFileError(file.Path, file.Error))
			continue
		}
		if !file.Diff.HasChanges() {
			continue
		}
		changed++
		added += file.Diff.Additions
		deleted += file.Diff.Deletions
		r.writeDiff(file.Diff)
	}

	if changed > 0 && r.opts.ShowSummary {
		fmt.Fprintln(r.out, r.summaryLine(changed, added, deleted))
	}
	return changed, nil
}

func (r *DiffReporter) writeDiff(diff *edits.Diff) {
	name := displayPath(diff.Path)

	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", name, name)))
	fmt.Fprintln(r.out, r.styles.DiffRemove.Render("--- a/"+name))
	fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+++ b/"+name))

	for _, line := range strings.Split(diff.String(), "\n") {
		// String() repeats the file headers; only the hunks are wanted
		// here.
		if line == "" || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		fmt.Fprintln(r.out, r.styleHunkLine(line))
	}

	fmt.Fprintln(r.out)
}

func (r *DiffReporter) styleHunkLine(line string) string {
	switch line[0] {
	case '@':
		return r.styles.DiffHunk.Render(line)
	case '+':
		return r.styles.DiffAdd.Render(line)
	case '-':
		return r.styles.DiffRemove.Render(line)
	}
	return r.styles.DiffContext.Render(line)
}

func (r *DiffReporter) summaryLine(files, added, deleted int) string {
	parts := []string{fmt.Sprintf("%d %s would be reformatted", files, plural(files, "file"))}
	if added > 0 {
		parts = append(parts,
			r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", added, plural(added, "insertion"))))
	}
	if deleted > 0 {
		parts = append(parts,
			r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deleted, plural(deleted, "deletion"))))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// displayPath shortens an absolute path relative to the working
// directory, falling back to the basename when the file lives far
// outside it.
func displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return rel
}
