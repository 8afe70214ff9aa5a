package runner

import "github.com/nkxxll/ruff/pkg/edits"

// FileOutcome is the per-file result of a formatting run.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Changed reports whether formatting altered the content.
	Changed bool

	// Written reports whether the file was rewritten on disk.
	Written bool

	// Skipped reports the file was left alone because it changed on disk
	// between reading and writing.
	Skipped bool

	// Diff holds the unified diff in diff mode. Nil otherwise, or when
	// the file was already formatted.
	Diff *edits.Diff

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesFormatted is the number of files successfully formatted.
	FilesFormatted int

	// FilesChanged is the number of files whose content changed.
	FilesChanged int

	// FilesUnchanged is the number of files already formatted.
	FilesUnchanged int

	// FilesWritten is the number of files rewritten on disk.
	FilesWritten int

	// FilesSkipped is the number of files skipped due to concurrent modification.
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasChanges reports whether any file would be (or was) reformatted.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed to format.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesFormatted++

	if outcome.Skipped {
		r.Stats.FilesSkipped++
		return
	}

	if outcome.Changed {
		r.Stats.FilesChanged++
	} else {
		r.Stats.FilesUnchanged++
	}

	if outcome.Written {
		r.Stats.FilesWritten++
	}
}
