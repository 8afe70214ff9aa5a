package format

import (
	"strings"

	"github.com/nkxxll/ruff/pkg/comments"
	"github.com/nkxxll/ruff/pkg/pyast"
)

// narrow shrinks the formatting request to a tighter sub-range of the
// enclosing node's span.
//
// The range is narrowed by searching the enclosing node's logical-line
// descendants for node and comment start/end offsets closer to the request,
// plus clause-header colon ends. Only offsets the renderer emits source map
// entries for are eligible: that guarantees the narrowed range maps to an
// exact span of the formatted output.
//
// Indented blocks guard narrowing with an indentation-consistency check:
// when a block's first statement does not sit at exactly one more indent
// unit than the enclosing node, the block is not descended into and the
// wider ancestor boundary is kept, since reformatting such a block alone
// would produce indentation inconsistent with its unformatted siblings.
func narrow(request pyast.Span, enclosing *pyast.Node, source []byte, lines *pyast.Lines, cm *comments.Map, opts Options) pyast.Span {
	enclosingIndent, _ := lines.IndentationAt(enclosing.Span.Start)

	level := 0
	if !enclosing.IsModule() {
		level = 1
	}

	v := &narrower{
		request:         request,
		source:          source,
		lines:           lines,
		comments:        cm,
		opts:            opts,
		narrowedStart:   enclosing.Span.Start,
		narrowedEnd:     enclosing.Span.End,
		enclosingIndent: enclosingIndent,
		level:           level,
	}
	pyast.Walk(enclosing, v)

	return pyast.Span{Start: v.narrowedStart, End: v.narrowedEnd}
}

type narrower struct {
	request  pyast.Span
	source   []byte
	lines    *pyast.Lines
	comments *comments.Map
	opts     Options

	narrowedStart int
	narrowedEnd   int

	// enclosingIndent is the indentation text of the enclosing node's line;
	// level counts indented sequences entered below it, saved and restored
	// per sequence.
	enclosingIndent string
	level           int
}

func (v *narrower) EnterNode(n *pyast.Node) pyast.TraversalSignal {
	if !n.IsLogicalLine() && !n.IsModule() {
		return pyast.Skip
	}

	for _, c := range v.comments.Leading(n) {
		v.narrowOffset(c.Span.Start)
		v.narrowOffset(c.Span.End)
	}
	v.narrowOffset(n.Span.Start)
	v.narrowOffset(n.Span.End)

	// Nothing beneath this node can improve either bound: its range sits
	// entirely before the request, or both bounds already fall strictly
	// inside it.
	if n.Span.End < v.request.Start ||
		(v.narrowedStart > n.Span.Start && v.narrowedEnd <= n.Span.End) {
		return pyast.Skip
	}

	// A match statement's case arms form an indented sequence of their own:
	// one scope with a saved and restored nesting level, entered behind the
	// same indentation gate as a suite. Try statements need no special
	// casing here: their body/else/finally suites are gated individually
	// and their except handlers share the try's own indentation.
	if n.Kind == pyast.KindMatch {
		for _, part := range n.Parts {
			switch {
			case part.Role == pyast.RoleCases:
				if len(part.Nodes) == 0 {
					continue
				}
				if saved, ok := v.enterLevel(part.Nodes[0], part.ColonEnd); ok {
					for _, member := range part.Nodes {
						pyast.Walk(member, v)
					}
					v.leaveLevel(saved)
				}
			case part.Node != nil:
				pyast.Walk(part.Node, v)
			}
		}
		return pyast.Skip
	}

	return pyast.Traverse
}

func (v *narrower) LeaveNode(n *pyast.Node) {
	if !n.IsLogicalLine() && !n.IsModule() {
		return
	}

	// End-of-line trailing comments are not safe narrowing anchors; only
	// own-line trailing comments emit their own source map entries.
	for _, c := range v.comments.Trailing(n) {
		if !c.Position.IsOwnLine() {
			continue
		}
		v.narrowOffset(c.Span.Start)
		v.narrowOffset(c.Span.End)
	}
}

func (v *narrower) VisitSuite(suite pyast.Part) {
	if len(suite.Nodes) == 0 {
		return
	}
	saved, ok := v.enterLevel(suite.Nodes[0], suite.ColonEnd)
	if !ok {
		return
	}
	pyast.WalkSuite(suite.Nodes, v)
	v.leaveLevel(saved)
}

// enterLevel opens an indented sequence whose first statement is first and
// whose introducing clause colon ends at colonEnd (zero when the sequence
// has no header of its own).
//
// When the request ends inside the clause header, the colon end becomes an
// end-boundary candidate so a signature can be formatted without its body.
// The sequence is only entered when its first statement sits at exactly the
// expected indentation; otherwise ok is false and the caller keeps the
// wider boundary.
func (v *narrower) enterLevel(first *pyast.Node, colonEnd int) (saved int, ok bool) {
	if colonEnd > 0 {
		v.narrowOffset(colonEnd)
	}

	indent, atLineStart := v.lines.IndentationAt(first.Span.Start)
	if !atLineStart {
		// Simple-statement body sharing the header's line: the renderer
		// must see the whole clause to decide whether to expand it.
		return 0, false
	}

	rel, isPrefix := strings.CutPrefix(indent, v.enclosingIndent)
	if !isPrefix || !v.hasExpectedIndent(rel) {
		return 0, false
	}

	saved = v.level
	v.level++
	return saved, true
}

func (v *narrower) leaveLevel(saved int) {
	v.level = saved
}

// hasExpectedIndent checks that rel is exactly level indent units of the
// configured style.
func (v *narrower) hasExpectedIndent(rel string) bool {
	if v.opts.IndentStyle == IndentTabs {
		if len(rel) != v.level {
			return false
		}
		for i := 0; i < len(rel); i++ {
			if rel[i] != '\t' {
				return false
			}
		}
		return true
	}

	if len(rel) != v.level*v.opts.IndentWidth {
		return false
	}
	for i := 0; i < len(rel); i++ {
		if rel[i] != ' ' {
			return false
		}
	}
	return true
}

func (v *narrower) narrowOffset(offset int) {
	v.narrowStart(offset)
	v.narrowEnd(offset)
}

func (v *narrower) narrowStart(offset int) {
	if offset <= v.request.Start && offset > v.narrowedStart {
		v.narrowedStart = offset
	}
}

func (v *narrower) narrowEnd(offset int) {
	if offset >= v.request.End && offset < v.narrowedEnd {
		v.narrowedEnd = offset
	}
}
