// Package format renders Python source in a canonical style. Its central
// entry points are FormatDocument, which formats a whole document, and
// FormatRange, which re-formats the smallest formattable region covering a
// requested byte range while guaranteeing output identical to whole-document
// formatting.
package format

import "strings"

// IndentStyle selects the indentation character.
type IndentStyle uint8

const (
	// IndentSpaces indents with IndentWidth spaces per level.
	IndentSpaces IndentStyle = iota

	// IndentTabs indents with one tab per level.
	IndentTabs
)

// Options control one formatting operation. The zero value is not valid;
// use DefaultOptions.
type Options struct {
	// IndentStyle selects tabs or spaces.
	IndentStyle IndentStyle

	// IndentWidth is the number of spaces per indent level. Ignored for
	// tabs. Must be positive.
	IndentWidth int

	// LineLength is the target maximum width of a rendered line, measured
	// in display cells. Bracketed sequences on wider lines are expanded
	// one element per line.
	LineLength int

	// MagicTrailingComma expands any bracketed sequence that carries a
	// trailing comma in the source, regardless of line width.
	MagicTrailingComma bool
}

// DefaultOptions returns the default formatting options: four-space
// indents, 88-column lines, magic trailing comma enabled.
func DefaultOptions() Options {
	return Options{
		IndentStyle:        IndentSpaces,
		IndentWidth:        4,
		LineLength:         88,
		MagicTrailingComma: true,
	}
}

// IndentUnit returns the indentation string for one level.
func (o Options) IndentUnit() string {
	if o.IndentStyle == IndentTabs {
		return "\t"
	}
	return strings.Repeat(" ", o.IndentWidth)
}

// Indent returns the indentation string for the given level.
func (o Options) Indent(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(o.IndentUnit(), level)
}
