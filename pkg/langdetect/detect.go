// Package langdetect decides whether a file holds Python source.
// It combines extension checks with go-enry shebang and content
// detection so that extensionless scripts are still picked up.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// pythonExtensions are the file extensions treated as Python without
// inspecting content. Stub files (.pyi) share the same grammar.
//
//nolint:gochecknoglobals // Read-only lookup table.
var pythonExtensions = map[string]bool{
	".py":  true,
	".pyi": true,
}

// IsPythonPath returns true if the path's extension marks it as Python.
func IsPythonPath(path string) bool {
	return pythonExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsPython reports whether the file at path with the given content is
// Python source. The extension wins when present; otherwise the shebang
// and content patterns decide.
func IsPython(path string, content []byte) bool {
	if IsPythonPath(path) {
		return true
	}
	if filepath.Ext(path) != "" {
		// A different extension is authoritative.
		return false
	}
	return DetectPython(content)
}

// DetectPython returns true if the content looks like Python source.
func DetectPython(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	// Strategy 1: shebang is the most reliable signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return lang == "Python"
	}

	// Strategy 2: highly indicative Python patterns.
	if matchesPythonPattern(content) {
		return true
	}

	// Strategy 3: the enry classifier with a small candidate set.
	candidates := []string{"Python", "Shell", "Ruby", "Perl", "Text"}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe {
		return lang == "Python"
	}

	return false
}

// matchesPythonPattern checks for patterns that only Python plausibly has.
func matchesPythonPattern(content []byte) bool {
	contentStr := string(content)

	// def/class definitions ending in a colon.
	if strings.Contains(contentStr, "def ") && strings.Contains(contentStr, "):") {
		return true
	}
	if strings.Contains(contentStr, "class ") && strings.Contains(contentStr, ":") &&
		strings.Contains(contentStr, "self") {
		return true
	}

	// from/import statements (Go uses "import (" instead).
	if strings.Contains(contentStr, "import ") && !strings.Contains(contentStr, "import (") {
		trimmed := strings.TrimSpace(contentStr)
		if strings.Contains(contentStr, "from ") || strings.HasPrefix(trimmed, "import ") {
			return true
		}
	}

	// Dunder names.
	if bytes.Contains(content, []byte("__name__")) || bytes.Contains(content, []byte("__main__")) {
		return true
	}

	return false
}
