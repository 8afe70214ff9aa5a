package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkxxll/ruff/pkg/config"
	"github.com/nkxxll/ruff/pkg/pyast"
	"github.com/nkxxll/ruff/pkg/runner"
)

// writeFiles creates files under dir; keys are relative paths.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func runOpts(dir string, mode runner.Mode) runner.Options {
	return runner.Options{
		Paths:      []string{dir},
		WorkingDir: dir,
		Mode:       mode,
		Config:     config.NewConfig(),
	}
}

func TestRunWriteMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"messy.py": "x=1\n",
		"clean.py": "y = 2\n",
	})

	result, err := runner.New().Run(context.Background(), runOpts(dir, runner.ModeWrite))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 2, result.Stats.FilesFormatted)
	assert.Equal(t, 1, result.Stats.FilesChanged)
	assert.Equal(t, 1, result.Stats.FilesUnchanged)
	assert.Equal(t, 1, result.Stats.FilesWritten)
	assert.True(t, result.HasChanges())
	assert.False(t, result.HasErrors())

	content, err := os.ReadFile(filepath.Join(dir, "messy.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(content))

	content, err = os.ReadFile(filepath.Join(dir, "clean.py"))
	require.NoError(t, err)
	assert.Equal(t, "y = 2\n", string(content))
}

func TestRunCheckMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"messy.py": "x=1\n"})

	result, err := runner.New().Run(context.Background(), runOpts(dir, runner.ModeCheck))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesChanged)
	assert.Zero(t, result.Stats.FilesWritten)

	// Check mode never touches the file.
	content, err := os.ReadFile(filepath.Join(dir, "messy.py"))
	require.NoError(t, err)
	assert.Equal(t, "x=1\n", string(content))
}

func TestRunDiffMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"messy.py": "x=1\n"})

	result, err := runner.New().Run(context.Background(), runOpts(dir, runner.ModeDiff))
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	outcome := result.Files[0]
	require.NotNil(t, outcome.Diff)
	assert.True(t, outcome.Diff.HasChanges())
	assert.Contains(t, outcome.Diff.Text, "-x=1")
	assert.Contains(t, outcome.Diff.Text, "+x = 1")

	// Diff mode never touches the file either.
	content, err := os.ReadFile(filepath.Join(dir, "messy.py"))
	require.NoError(t, err)
	assert.Equal(t, "x=1\n", string(content))
}

func TestRunSyntaxError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"bad.py":  "def f(:\n",
		"good.py": "x=1\n",
	})

	result, err := runner.New().Run(context.Background(), runOpts(dir, runner.ModeWrite))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesChanged)
	assert.True(t, result.HasErrors())

	// Outcomes are ordered by path; bad.py comes first.
	require.Len(t, result.Files, 2)
	assert.Error(t, result.Files[0].Error)
	assert.NoError(t, result.Files[1].Error)
}

func TestRunEmptyDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result, err := runner.New().Run(context.Background(), runOpts(dir, runner.ModeWrite))
	require.NoError(t, err)
	assert.Zero(t, result.Stats.FilesDiscovered)
	assert.Empty(t, result.Files)
}

func TestRunRangeSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.py": "x=1\ny   =   2\nz=3\n"})

	opts := runOpts(dir, runner.ModeWrite)
	opts.Paths = []string{filepath.Join(dir, "a.py")}
	opts.Range = &pyast.Span{Start: 4, End: 5}

	result, err := runner.New().Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.FilesWritten)

	content, err := os.ReadFile(filepath.Join(dir, "a.py"))
	require.NoError(t, err)
	assert.Equal(t, "x=1\ny = 2\nz=3\n", string(content))
}

func TestRunRangeRejectsMultipleFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.py": "x=1\n",
		"b.py": "y=2\n",
	})

	opts := runOpts(dir, runner.ModeWrite)
	opts.Range = &pyast.Span{Start: 0, End: 1}

	_, err := runner.New().Run(context.Background(), opts)
	require.ErrorIs(t, err, runner.ErrRangeNeedsSingleFile)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.py": "x=1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New().Run(ctx, runOpts(dir, runner.ModeWrite))
	require.Error(t, err)
}

func TestFormatContent(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	t.Run("whole document", func(t *testing.T) {
		out, err := runner.FormatContent([]byte("x=1\n"), nil, cfg)
		require.NoError(t, err)
		assert.Equal(t, "x = 1\n", string(out))
	})

	t.Run("range splices into original", func(t *testing.T) {
		rng := &pyast.Span{Start: 4, End: 5}
		out, err := runner.FormatContent([]byte("x=1\ny   =   2\nz=3\n"), rng, cfg)
		require.NoError(t, err)
		assert.Equal(t, "x=1\ny = 2\nz=3\n", string(out))
	})

	t.Run("already formatted range is a noop", func(t *testing.T) {
		content := []byte("x = 1\ny = 2\n")
		rng := &pyast.Span{Start: 6, End: 11}
		out, err := runner.FormatContent(content, rng, cfg)
		require.NoError(t, err)
		assert.Equal(t, string(content), string(out))
	})

	t.Run("range out of bounds", func(t *testing.T) {
		rng := &pyast.Span{Start: 0, End: 100}
		_, err := runner.FormatContent([]byte("x=1\n"), rng, cfg)
		require.Error(t, err)
	})
}
