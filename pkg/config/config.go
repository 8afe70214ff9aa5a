// Package config defines core configuration types for the formatter.
// These types are pure data structures with no dependency on any config
// loader.
package config

import "github.com/nkxxll/ruff/pkg/format"

// IndentStyle selects the indentation character for formatted output.
type IndentStyle string

const (
	IndentStyleSpace IndentStyle = "space"
	IndentStyleTab   IndentStyle = "tab"
)

// IsValid returns true if the indent style is one of the known values.
func (s IndentStyle) IsValid() bool {
	switch s {
	case IndentStyleSpace, IndentStyleTab:
		return true
	default:
		return false
	}
}

// OutputFormat specifies the output format for reporting.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// Config is the root configuration structure.
type Config struct {
	// LineLength is the target maximum line width in display cells.
	LineLength int `toml:"line-length" yaml:"line-length"`

	// IndentStyle selects tabs or spaces ("space" or "tab").
	IndentStyle IndentStyle `toml:"indent-style" yaml:"indent-style"`

	// IndentWidth is the number of spaces per indent level.
	IndentWidth int `toml:"indent-width" yaml:"indent-width"`

	// SkipMagicTrailingComma disables trailing-comma-driven expansion.
	SkipMagicTrailingComma bool `toml:"skip-magic-trailing-comma" yaml:"skip-magic-trailing-comma"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `toml:"ignore" yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Check reports files that would change without writing them.
	Check bool `toml:"-" yaml:"-"`

	// Diff prints unified diffs instead of writing files.
	Diff bool `toml:"-" yaml:"-"`

	// Format specifies the reporting format.
	Format OutputFormat `toml:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `toml:"-" yaml:"-"`
}

// NewConfig returns a Config with the formatter defaults.
func NewConfig() *Config {
	return &Config{
		LineLength:  88,
		IndentStyle: IndentStyleSpace,
		IndentWidth: 4,
		Format:      FormatText,
		Jobs:        0,
	}
}

// FormatOptions converts the configuration to engine options.
func (c *Config) FormatOptions() format.Options {
	opts := format.DefaultOptions()
	if c == nil {
		return opts
	}
	if c.LineLength > 0 {
		opts.LineLength = c.LineLength
	}
	if c.IndentWidth > 0 {
		opts.IndentWidth = c.IndentWidth
	}
	if c.IndentStyle == IndentStyleTab {
		opts.IndentStyle = format.IndentTabs
	}
	opts.MagicTrailingComma = !c.SkipMagicTrailingComma
	return opts
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Ignore != nil {
		clone.Ignore = make([]string, len(c.Ignore))
		copy(clone.Ignore, c.Ignore)
	}
	return &clone
}
