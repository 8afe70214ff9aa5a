package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nkxxll/ruff/pkg/fsutil"
)

// seedFile writes content into a fresh temp dir and returns the path.
func seedFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.py")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("seed %s: %v", path, err)
	}
	return path
}

// snapshot reads path through the package and fails the test on error.
func snapshot(t *testing.T, path string) ([]byte, *fsutil.FileInfo) {
	t.Helper()
	content, info, err := fsutil.ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return content, info
}

func TestReadFileSnapshot(t *testing.T) {
	t.Parallel()

	content := []byte("x = 1\n")
	path := seedFile(t, content)

	got, info := snapshot(t, path)

	if string(got) != string(content) {
		t.Errorf("content = %q, want %q", got, content)
	}
	if info.Path != path {
		t.Errorf("Path = %q, want %q", info.Path, path)
	}
	if info.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", info.Size, len(content))
	}
	if info.Mode.Perm() != 0o644 {
		t.Errorf("Mode = %o, want %o", info.Mode.Perm(), 0o644)
	}
	if info.Hash == ([32]byte{}) {
		t.Error("Hash is zero")
	}
}

func TestReadFileErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "absent.py"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Errorf("err = %v, want ErrIsDirectory", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := fsutil.ReadFile(ctx, "anything")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(t *testing.T, path string, info *fsutil.FileInfo)
		changed bool
	}{
		{
			name:    "untouched",
			mutate:  func(*testing.T, string, *fsutil.FileInfo) {},
			changed: false,
		},
		{
			name: "rewritten",
			mutate: func(t *testing.T, path string, _ *fsutil.FileInfo) {
				if err := os.WriteFile(path, []byte("y = 2\n\n"), 0o644); err != nil {
					t.Fatalf("rewrite: %v", err)
				}
			},
			changed: true,
		},
		{
			name: "deleted",
			mutate: func(t *testing.T, path string, _ *fsutil.FileInfo) {
				if err := os.Remove(path); err != nil {
					t.Fatalf("remove: %v", err)
				}
			},
			changed: true,
		},
		{
			name: "same size and time, different bytes",
			mutate: func(t *testing.T, path string, info *fsutil.FileInfo) {
				if err := os.WriteFile(path, []byte("y = 2\n"), 0o644); err != nil {
					t.Fatalf("rewrite: %v", err)
				}
				// Restore the snapshot's mod time so only the hash
				// tier can catch the change.
				if err := os.Chtimes(path, info.ModTime, info.ModTime); err != nil {
					t.Fatalf("chtimes: %v", err)
				}
			},
			changed: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := seedFile(t, []byte("x = 1\n"))
			_, info := snapshot(t, path)
			tt.mutate(t, path, info)

			changed, err := fsutil.CheckModified(ctx, info)
			if err != nil {
				t.Fatalf("CheckModified: %v", err)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
		})
	}

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()
		_, err := fsutil.CheckModified(ctx, nil)
		if !errors.Is(err, fsutil.ErrNilFileInfo) {
			t.Errorf("err = %v, want ErrNilFileInfo", err)
		}
	})
}

func TestCheckModifiedQuick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("untouched", func(t *testing.T) {
		t.Parallel()

		path := seedFile(t, []byte("x = 1\n"))
		_, info := snapshot(t, path)

		changed, err := fsutil.CheckModifiedQuick(ctx, info)
		if err != nil {
			t.Fatalf("CheckModifiedQuick: %v", err)
		}
		if changed {
			t.Error("untouched file reported as changed")
		}
	})

	t.Run("size change", func(t *testing.T) {
		t.Parallel()

		path := seedFile(t, []byte("x = 1\n"))
		_, info := snapshot(t, path)
		if err := os.WriteFile(path, []byte("x = 1\ny = 2\n"), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}

		changed, err := fsutil.CheckModifiedQuick(ctx, info)
		if err != nil {
			t.Fatalf("CheckModifiedQuick: %v", err)
		}
		if !changed {
			t.Error("grown file reported as unchanged")
		}
	})

	t.Run("mod time change", func(t *testing.T) {
		t.Parallel()

		path := seedFile(t, []byte("x = 1\n"))
		_, info := snapshot(t, path)
		later := info.ModTime.Add(time.Minute)
		if err := os.Chtimes(path, later, later); err != nil {
			t.Fatalf("chtimes: %v", err)
		}

		changed, err := fsutil.CheckModifiedQuick(ctx, info)
		if err != nil {
			t.Fatalf("CheckModifiedQuick: %v", err)
		}
		if !changed {
			t.Error("touched file reported as unchanged")
		}
	})
}
