package comments

import (
	"github.com/nkxxll/ruff/pkg/parser"
	"github.com/nkxxll/ruff/pkg/pyast"
)

// Attach assigns each comment to a logical-line node of the tree.
//
// Own-line comments become leading comments of the next logical-line node in
// document order; when no node follows (trailing comments at the end of a
// suite or the document) they become own-line trailing comments of the
// closest preceding node. End-of-line comments become trailing comments of
// the node ending on their line, or of the clause header starting on their
// line when no node ends there.
func Attach(root *pyast.Node, raw []parser.Comment, lines *pyast.Lines, source []byte) *Map {
	m := &Map{
		leading:  make(map[*pyast.Node][]Comment),
		trailing: make(map[*pyast.Node][]Comment),
	}

	// Logical-line nodes in preorder. Starts are non-decreasing; at equal
	// starts the outer node comes first, so "next node" searches resolve to
	// the outermost statement (comments before a decorated function attach
	// to the function, not the decorator).
	anchors := pyast.FindAll(root, func(n *pyast.Node) bool {
		return n.IsLogicalLine()
	})

	for _, rc := range raw {
		c := Comment{Span: rc.Span, Position: PositionEndOfLine}
		if rc.OwnLine {
			c.Position = PositionOwnLine
		}
		m.all = append(m.all, c)

		if rc.OwnLine {
			if next := nextAnchor(anchors, c.Span.End); next != nil {
				m.leading[next] = append(m.leading[next], c)
				continue
			}
			if prev := prevAnchorByEnd(anchors, c.Span.Start); prev != nil {
				m.trailing[prev] = append(m.trailing[prev], c)
				continue
			}
			// Document containing only comments: nothing to attach to.
			continue
		}

		target := endOfLineAnchor(anchors, lines, c.Span.Start)
		if target != nil {
			m.trailing[target] = append(m.trailing[target], c)
		}
	}

	return m
}

// nextAnchor returns the first node starting at or after offset.
func nextAnchor(anchors []*pyast.Node, offset int) *pyast.Node {
	for _, n := range anchors {
		if n.Span.Start >= offset {
			return n
		}
	}
	return nil
}

// prevAnchorByEnd returns the node with the greatest end not past offset,
// preferring the innermost (latest-starting) node on ties.
func prevAnchorByEnd(anchors []*pyast.Node, offset int) *pyast.Node {
	var best *pyast.Node
	for _, n := range anchors {
		if n.Span.End > offset {
			continue
		}
		if best == nil || n.Span.End > best.Span.End ||
			(n.Span.End == best.Span.End && n.Span.Start > best.Span.Start) {
			best = n
		}
	}
	return best
}

// endOfLineAnchor finds the node owning an end-of-line comment at offset:
// the innermost node ending on the comment's line, failing that the
// innermost node starting on it (a clause header line), and failing that
// the innermost node containing it (an `else:` or `finally:` line, which
// has no node of its own).
func endOfLineAnchor(anchors []*pyast.Node, lines *pyast.Lines, offset int) *pyast.Node {
	commentLine, _ := lines.LineAt(offset)

	var best *pyast.Node
	for _, n := range anchors {
		if n.Span.End > offset {
			continue
		}
		line, _ := lines.LineAt(n.Span.End - 1)
		if line != commentLine {
			continue
		}
		if best == nil || n.Span.Start > best.Span.Start {
			best = n
		}
	}
	if best != nil {
		return best
	}

	for _, n := range anchors {
		if n.Span.Start > offset {
			break
		}
		line, _ := lines.LineAt(n.Span.Start)
		if line != commentLine {
			continue
		}
		if best == nil || n.Span.Start > best.Span.Start {
			best = n
		}
	}
	if best != nil {
		return best
	}

	for _, n := range anchors {
		if n.Span.Start > offset {
			break
		}
		if n.Span.End <= offset {
			continue
		}
		if best == nil || n.Span.Start >= best.Span.Start {
			best = n
		}
	}
	return best
}
