package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/nkxxll/ruff/internal/logging"
	"github.com/nkxxll/ruff/pkg/config"
	"github.com/nkxxll/ruff/pkg/edits"
	"github.com/nkxxll/ruff/pkg/format"
	"github.com/nkxxll/ruff/pkg/fsutil"
	"github.com/nkxxll/ruff/pkg/pyast"
)

// ErrRangeNeedsSingleFile is returned when a range is given for more
// than one input file.
var ErrRangeNeedsSingleFile = errors.New("a format range requires exactly one input file")

// Runner orchestrates formatting across many files.
type Runner struct{}

// New creates a new Runner.
func New() *Runner {
	return &Runner{}
}

// Run discovers files under opts.Paths and formats them concurrently.
// It returns a deterministic collection of FileOutcome values and
// aggregate stats.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Formats files concurrently using a worker pool
//   - Writes, checks, or diffs according to opts.Mode
//   - Respects context cancellation
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", "count", len(files))

	if opts.Range != nil && len(files) != 1 {
		return nil, fmt.Errorf("%w: matched %d files", ErrRangeNeedsSingleFile, len(files))
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if jobs > len(files) {
		jobs = len(files)
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts)
		}()
	}

	// Feed work in a separate goroutine.
	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	// Close outCh when all workers are done.
	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers complete out of order; collect into a map first.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	// Build result in deterministic order.
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker formats files from workCh and sends outcomes to outCh.
func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, opts Options) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.processFile(ctx, path, opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// processFile runs the per-file pipeline: read, format, then write,
// check, or diff depending on the mode.
func (r *Runner) processFile(ctx context.Context, path string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	formatted, err := FormatContent(content, opts.Range, opts.Config)
	if err != nil {
		outcome.Error = fmt.Errorf("format %s: %w", path, err)
		return outcome
	}

	outcome.Changed = !bytes.Equal(content, formatted)
	if !outcome.Changed {
		return outcome
	}

	switch opts.Mode {
	case ModeCheck:
		// Report only.

	case ModeDiff:
		displayPath := path
		if rel, relErr := filepath.Rel(opts.WorkingDir, path); relErr == nil && opts.WorkingDir != "" {
			displayPath = rel
		}
		diff, diffErr := edits.GenerateDiff(displayPath, content, formatted)
		if diffErr != nil {
			outcome.Error = diffErr
			return outcome
		}
		outcome.Diff = diff

	case ModeWrite:
		modified, modErr := fsutil.CheckModifiedQuick(ctx, info)
		if modErr != nil {
			outcome.Error = modErr
			return outcome
		}
		if modified {
			// The file changed underneath us. Leave it alone.
			logging.FromContext(ctx).Warn("file modified during run, skipping", "path", path)
			outcome.Skipped = true
			return outcome
		}
		if writeErr := fsutil.WriteAtomic(ctx, path, formatted, info.Mode.Perm()); writeErr != nil {
			outcome.Error = fmt.Errorf("write %s: %w", path, writeErr)
			return outcome
		}
		outcome.Written = true
	}

	return outcome
}

// FormatContent formats a whole document, or splices a range-limited
// format result back into the original content.
func FormatContent(content []byte, rng *pyast.Span, cfg *config.Config) ([]byte, error) {
	fopts := cfg.FormatOptions()

	if rng == nil {
		return format.FormatDocument(content, fopts)
	}

	slice, err := format.FormatRange(content, *rng, fopts)
	if err != nil {
		return nil, err
	}

	edit := edits.TextEdit{
		StartOffset: slice.Span.Start,
		EndOffset:   slice.Span.End,
		NewText:     slice.Text,
	}
	if edit.IsNoop(content) {
		return content, nil
	}
	prepared, err := edits.Prepare([]edits.TextEdit{edit}, len(content))
	if err != nil {
		return nil, err
	}
	return edits.Apply(content, prepared), nil
}
