// Package comments assigns every source comment to a syntax tree node as a
// leading or trailing comment with a line-position tag, and recognizes the
// formatter's suppression sentinels.
package comments

import (
	"bytes"

	"github.com/nkxxll/ruff/pkg/pyast"
)

// LinePosition tags where a comment sits relative to code on its line.
type LinePosition uint8

const (
	// PositionOwnLine marks a comment with only whitespace before it.
	PositionOwnLine LinePosition = iota

	// PositionEndOfLine marks a comment following code on the same line.
	PositionEndOfLine
)

// IsOwnLine returns true for own-line comments.
func (p LinePosition) IsOwnLine() bool {
	return p == PositionOwnLine
}

// Comment is a source comment attached to exactly one node.
type Comment struct {
	Span     pyast.Span
	Position LinePosition
}

// Text returns the comment's source text including the leading '#'.
func (c Comment) Text(source []byte) []byte {
	return c.Span.Text(source)
}

// Map holds the comment attachments for one parsed document.
type Map struct {
	leading  map[*pyast.Node][]Comment
	trailing map[*pyast.Node][]Comment
	all      []Comment
}

// Leading returns the ordered leading comments of a node.
func (m *Map) Leading(n *pyast.Node) []Comment {
	return m.leading[n]
}

// Trailing returns the ordered trailing comments of a node.
func (m *Map) Trailing(n *pyast.Node) []Comment {
	return m.trailing[n]
}

// All returns every comment in source order.
func (m *Map) All() []Comment {
	return m.all
}

// Spans returns the spans of all comments in source order.
func (m *Map) Spans() []pyast.Span {
	spans := make([]pyast.Span, len(m.all))
	for i, c := range m.all {
		spans[i] = c.Span
	}
	return spans
}

// fmtSentinel parses a suppression sentinel comment. It accepts the exact
// forms "# fmt: off", "# fmt:off", "# fmt: on", and "# fmt:on".
func fmtSentinel(text []byte) string {
	rest := bytes.TrimPrefix(text, []byte("#"))
	rest = bytes.TrimSpace(rest)
	if !bytes.HasPrefix(rest, []byte("fmt:")) {
		return ""
	}
	state := bytes.TrimSpace(rest[len("fmt:"):])
	switch string(state) {
	case "off", "on":
		return string(state)
	}
	return ""
}

// IsFmtOff reports whether the comment text turns formatting off.
func IsFmtOff(text []byte) bool {
	return fmtSentinel(text) == "off"
}

// IsFmtOn reports whether the comment text turns formatting back on.
func IsFmtOn(text []byte) bool {
	return fmtSentinel(text) == "on"
}

// StartsSuppression reports whether the own-line comments in list leave
// formatting suppressed. The last sentinel wins.
func StartsSuppression(list []Comment, source []byte) bool {
	suppressed := false
	for _, c := range list {
		if !c.Position.IsOwnLine() {
			continue
		}
		switch fmtSentinel(c.Text(source)) {
		case "off":
			suppressed = true
		case "on":
			suppressed = false
		}
	}
	return suppressed
}

// EndsSuppression reports whether the own-line comments in list re-enable
// formatting. The last sentinel wins.
func EndsSuppression(list []Comment, source []byte) bool {
	enabled := false
	for _, c := range list {
		if !c.Position.IsOwnLine() {
			continue
		}
		switch fmtSentinel(c.Text(source)) {
		case "on":
			enabled = true
		case "off":
			enabled = false
		}
	}
	return enabled
}
