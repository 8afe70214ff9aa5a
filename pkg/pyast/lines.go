package pyast

import "sort"

// LineInfo describes one source line.
type LineInfo struct {
	// StartOffset is the byte index of the first character of the line.
	StartOffset int

	// NewlineStart is the byte index where the line terminator begins
	// (equal to EndOffset for the final, unterminated line).
	NewlineStart int

	// EndOffset is the byte index just past the line terminator.
	EndOffset int
}

// Lines is a line index over a source document. It handles both LF and
// CRLF line endings.
type Lines struct {
	source []byte
	lines  []LineInfo
}

// BuildLines constructs a line index for the given source.
func BuildLines(source []byte) *Lines {
	l := &Lines{source: source}
	if len(source) == 0 {
		return l
	}

	lineStart := 0
	for idx, ch := range source {
		if ch == '\n' {
			newlineStart := idx
			if idx > 0 && source[idx-1] == '\r' {
				newlineStart = idx - 1
			}
			l.lines = append(l.lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: newlineStart,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		}
	}

	// Final line without a trailing newline.
	if lineStart <= len(source) {
		l.lines = append(l.lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: len(source),
			EndOffset:    len(source),
		})
	}

	return l
}

// Count returns the number of lines.
func (l *Lines) Count() int {
	return len(l.lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes. Returns (0, 0) if the offset is out of range.
func (l *Lines) LineAt(offset int) (int, int) {
	if offset < 0 || len(l.lines) == 0 {
		return 0, 0
	}

	if offset >= len(l.source) {
		last := l.lines[len(l.lines)-1]
		return len(l.lines), offset - last.StartOffset + 1
	}

	idx := sort.Search(len(l.lines), func(i int) bool {
		return l.lines[i].EndOffset > offset
	})
	if idx >= len(l.lines) {
		idx = len(l.lines) - 1
	}

	return idx + 1, offset - l.lines[idx].StartOffset + 1
}

// LineStart returns the start offset of the line containing offset.
func (l *Lines) LineStart(offset int) int {
	line, _ := l.LineAt(offset)
	if line == 0 {
		return 0
	}
	return l.lines[line-1].StartOffset
}

// IndentationAt returns the whitespace run between the start of the line
// containing offset and offset itself. ok is false when anything other than
// spaces or tabs precedes offset on its line, meaning the offset does not
// sit at the head of a line (for example a simple-statement body sharing
// its clause header's line).
func (l *Lines) IndentationAt(offset int) (indent string, ok bool) {
	start := l.LineStart(offset)
	if offset > len(l.source) {
		offset = len(l.source)
	}
	for i := start; i < offset; i++ {
		if c := l.source[i]; c != ' ' && c != '\t' {
			return "", false
		}
	}
	return string(l.source[start:offset]), true
}

// LineContent returns the content of a 1-based line, excluding the newline.
func (l *Lines) LineContent(line int) []byte {
	if line < 1 || line > len(l.lines) {
		return nil
	}
	info := l.lines[line-1]
	return l.source[info.StartOffset:info.NewlineStart]
}
