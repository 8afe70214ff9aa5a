// Package logging wraps charmbracelet/log with the level names and
// field keys used across the formatter.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // shared default logger
var (
	defaultMu     sync.Mutex
	defaultLogger *log.Logger
)

// parseLevel maps a level name to a log.Level. Names are matched
// case-insensitively; anything unrecognized falls back to info.
func parseLevel(name string) log.Level {
	switch strings.ToLower(name) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New returns a logger writing to stderr at the named level. Levels are
// "debug", "info", "warn" and "error".
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Level:           parseLevel(level),
	})
	return logger
}

// Default returns the shared process-wide logger, creating it at info
// level on first use.
func Default() *log.Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("info")
	}
	return defaultLogger
}

// SetDefault replaces the shared logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// SetLevel adjusts the shared logger's level by name.
func SetLevel(level string) {
	Default().SetLevel(parseLevel(level))
}
