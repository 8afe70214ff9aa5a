package format

import "github.com/nkxxll/ruff/pkg/pyast"

// IndentDepth classifies the indentation depth of the line position at
// offset under the configured style.
//
// ok is false when the indentation does not conform: mixed characters, a
// space run that is not an exact multiple of the indent width, or an offset
// that is not at the head of a line (a simple-statement body sharing its
// clause header's line).
func IndentDepth(offset int, lines *pyast.Lines, opts Options) (depth int, ok bool) {
	indent, ok := lines.IndentationAt(offset)
	if !ok {
		return 0, false
	}
	return classifyIndent(indent, opts)
}

// classifyIndent maps an indentation string to a depth, requiring a
// homogeneous run of the configured character.
func classifyIndent(indent string, opts Options) (depth int, ok bool) {
	if opts.IndentStyle == IndentTabs {
		for i := 0; i < len(indent); i++ {
			if indent[i] != '\t' {
				return 0, false
			}
		}
		return len(indent), true
	}

	for i := 0; i < len(indent); i++ {
		if indent[i] != ' ' {
			return 0, false
		}
	}
	if opts.IndentWidth <= 0 || len(indent)%opts.IndentWidth != 0 {
		return 0, false
	}
	return len(indent) / opts.IndentWidth, true
}
