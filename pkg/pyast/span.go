// Package pyast defines the Python syntax tree consumed by the formatter.
// Nodes carry byte spans into the original source; the tree is immutable
// once built by the parser.
package pyast

// Span is a half-open byte range [Start, End) in the source document.
type Span struct {
	// Start is the byte index where the span begins (inclusive).
	Start int

	// End is the byte index where the span ends (exclusive).
	End int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if other lies fully within this span.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// ContainsOffset returns true if the given offset is within this span.
func (s Span) ContainsOffset(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Text returns the source text covered by the span.
func (s Span) Text(source []byte) []byte {
	if s.Start < 0 || s.End > len(source) || s.Start > s.End {
		return nil
	}
	return source[s.Start:s.End]
}
