package runner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nkxxll/ruff/pkg/langdetect"
)

// sniffLimit caps how much of an extensionless file is read to decide
// whether it is a Python script.
const sniffLimit = 1024

// Discover resolves opts.Paths to the sorted set of Python files to
// format. Directories are walked recursively; files are accepted when
// their extension matches or, for extensionless scripts, when a shebang
// or the leading content identifies Python.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		opts:       opts,
		seen:       make(map[string]struct{}),
	}

	for _, path := range opts.effectivePaths() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", ctxErr)
		}
		if err := d.addPath(ctx, path); err != nil {
			return nil, err
		}
	}

	sort.Strings(d.files)
	return d.files, nil
}

// resolveWorkDir resolves the working directory, defaulting to the
// process working directory.
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return wd, nil
	}
	return filepath.Abs(workDir)
}

// discoverer accumulates matching files across all input paths, with
// dedup when the same file is reachable through several of them.
type discoverer struct {
	workDir    string
	extensions []string
	opts       Options

	seen  map[string]struct{}
	files []string
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

// rel returns path relative to the working directory for glob matching,
// falling back to the path itself when it lies outside.
func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (d *discoverer) addPath(ctx context.Context, path string) error {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(d.workDir, abs)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return d.walk(ctx, abs)
	}

	// An explicitly named file skips the hidden-name rule but still
	// honors the glob filters.
	rel := d.rel(abs)
	if d.excluded(rel) || !d.included(rel) {
		return nil
	}
	if d.isPythonFile(abs) {
		d.add(abs)
	}
	return nil
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := d.rel(path)

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if d.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.walkSymlink(ctx, path)
		}

		d.considerFile(path, entry.Name(), rel)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// walkSymlink handles a symlink found during a walk. Broken links are
// skipped; directory targets are only entered when FollowSymlinks is
// set, and are walked by their resolved path so the link cannot recurse
// into itself.
func (d *discoverer) walkSymlink(ctx context.Context, path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil
	}
	if info.IsDir() {
		if !d.opts.FollowSymlinks {
			return nil
		}
		return d.walk(ctx, target)
	}
	d.considerFile(path, filepath.Base(path), d.rel(path))
	return nil
}

// considerFile applies the walk-time filters to one regular file.
func (d *discoverer) considerFile(path, name, rel string) {
	if strings.HasPrefix(name, ".") {
		return
	}
	if d.excluded(rel) || !d.included(rel) {
		return
	}
	if d.isPythonFile(path) {
		d.add(path)
	}
}

// isPythonFile reports whether path should be formatted: a matching
// extension, or for extensionless files, Python-looking leading content.
func (d *discoverer) isPythonFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range d.extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	if ext != "" {
		return false
	}
	return langdetect.DetectPython(sniff(path))
}

// sniff reads the head of a file for language detection. Errors yield an
// empty sample, which detection treats as not Python.
func sniff(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	head := make([]byte, sniffLimit)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return nil
	}
	return head[:n]
}

func (d *discoverer) excluded(rel string) bool {
	for _, pattern := range d.opts.ExcludeGlobs {
		if matchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

func (d *discoverer) included(rel string) bool {
	if len(d.opts.IncludeGlobs) == 0 {
		return true
	}
	for _, pattern := range d.opts.IncludeGlobs {
		if matchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-normalized relative path against one glob.
// Besides the filepath.Match syntax it understands "**" for "any number
// of path elements" and also matches bare file patterns ("*_pb2.py")
// against the basename at any depth.
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if strings.Contains(pattern, "**") {
		return matchDoubleStar(path, pattern)
	}

	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	ok, err := filepath.Match(pattern, filepath.Base(path))
	return err == nil && ok
}

// matchDoubleStar resolves a pattern containing one "**" separator.
func matchDoubleStar(path, pattern string) bool {
	head, tail, _ := strings.Cut(pattern, "**")
	head = strings.TrimSuffix(head, "/")
	tail = strings.TrimPrefix(tail, "/")

	switch {
	case head == "" && tail == "":
		// "**" alone matches everything.
		return true

	case head == "":
		// "**/name": name as a suffix or any single path element.
		if strings.HasSuffix(path, tail) || strings.Contains(path, tail) {
			return true
		}
		for _, part := range strings.Split(path, "/") {
			if ok, err := filepath.Match(tail, part); err == nil && ok {
				return true
			}
		}
		return false

	case tail == "":
		// "dir/**": everything under dir.
		return path == head || strings.HasPrefix(path, head+"/")

	default:
		// "dir/**/name": prefix and suffix must both hold.
		if !strings.HasPrefix(path, head) {
			return false
		}
		if strings.HasSuffix(path, tail) {
			return true
		}
		ok, err := filepath.Match(tail, filepath.Base(path))
		return err == nil && ok
	}
}
