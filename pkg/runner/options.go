// Package runner provides multi-file formatting orchestration.
package runner

import (
	"github.com/nkxxll/ruff/pkg/config"
	"github.com/nkxxll/ruff/pkg/pyast"
)

// Mode selects what the runner does with formatted output.
type Mode int

const (
	// ModeWrite rewrites changed files in place.
	ModeWrite Mode = iota
	// ModeCheck reports files that would change without writing them.
	ModeCheck
	// ModeDiff computes unified diffs instead of writing files.
	ModeDiff
)

// Options controls a formatting run over one or more paths.
type Options struct {
	// Paths to format, files or directories. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths; empty means the process cwd.
	WorkingDir string

	// Extensions treated as Python, lowercase with leading dot.
	// Empty means DefaultExtensions().
	Extensions []string

	// IncludeGlobs narrows discovery to matching files; ExcludeGlobs
	// skips files or directories. Both are relative to WorkingDir.
	IncludeGlobs []string
	ExcludeGlobs []string

	// FollowSymlinks walks through directory symlinks.
	FollowSymlinks bool

	// Jobs caps worker concurrency; zero or negative picks NumCPU.
	Jobs int

	Mode Mode

	// Range restricts formatting to a byte span. Requires Paths to
	// resolve to exactly one file.
	Range *pyast.Span

	Config *config.Config
}

// DefaultExtensions returns the extensions recognized as Python files.
func DefaultExtensions() []string {
	return []string{".py", ".pyi"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
