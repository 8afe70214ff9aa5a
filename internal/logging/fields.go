package logging

// Shared field keys so log lines stay grep-able across packages.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	FieldLineLength  = "line_length"
	FieldIndentStyle = "indent_style"
	FieldJobs        = "jobs"

	FieldFilesDiscovered = "files_discovered"
	FieldFilesChanged    = "files_changed"
	FieldFilesErrored    = "files_errored"
)
