package format

import (
	"bytes"
	"sort"
	"strings"

	"github.com/nkxxll/ruff/pkg/comments"
	"github.com/nkxxll/ruff/pkg/parser"
	"github.com/nkxxll/ruff/pkg/pyast"
)

// renderer produces canonical output for a subtree, statement by statement.
// Statements are re-emitted from their tokens with normalized spacing and
// line breaking; suites are indented by structure rather than by whatever
// the source had. When a source map is attached, the renderer records an
// entry at every offset the range narrower can pick as a boundary.
type renderer struct {
	source []byte
	code   []parser.Token
	lines  *pyast.Lines
	cm     *comments.Map
	opts   Options

	out bytes.Buffer
	sm  *SourceMap
}

func newRenderer(source []byte, tokens []parser.Token, lines *pyast.Lines, cm *comments.Map, opts Options, withMap bool) *renderer {
	code := make([]parser.Token, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Kind {
		case parser.TokName, parser.TokNumber, parser.TokString, parser.TokOp:
			code = append(code, tok)
		}
	}
	r := &renderer{
		source: source,
		code:   code,
		lines:  lines,
		cm:     cm,
		opts:   opts,
	}
	if withMap {
		r.sm = &SourceMap{}
	}
	return r
}

func (r *renderer) write(s string) {
	r.out.WriteString(s)
}

func (r *renderer) mark(source int) {
	r.sm.Add(source, r.out.Len())
}

// renderRoot renders either the whole module or a single statement subtree
// at the given indent level.
func (r *renderer) renderRoot(n *pyast.Node, level int) {
	if n.IsModule() {
		r.mark(n.Span.Start)
		body := n.Body()
		if len(body) == 0 {
			for _, c := range r.cm.All() {
				r.writeOwnLineComment(c, 0)
			}
		} else {
			r.renderSuiteContents(body, 0, 2)
		}
		r.mark(n.Span.End)
		return
	}
	r.renderItem(n, level, r.blankCap(level), false)
}

// blankCap is the maximum number of consecutive blank lines kept between
// statements: two at module level, one inside any suite.
func (r *renderer) blankCap(level int) int {
	if level == 0 {
		return 2
	}
	return 1
}

// renderSuiteContents renders a statement list, preserving up to blankCap
// blank lines between consecutive items and running the suppression
// automaton: statements inside an off region are emitted verbatim.
func (r *renderer) renderSuiteContents(stmts []*pyast.Node, level, blankCap int) {
	state := active
	prevEnd := -1
	for _, stmt := range stmts {
		state = state.update(r.cm.Leading(stmt), r.source)
		if prevEnd >= 0 {
			first := stmt.Span.Start
			if lc := r.cm.Leading(stmt); len(lc) > 0 {
				first = lc[0].Span.Start
			}
			r.writeBlanks(prevEnd, first, blankCap)
		}
		r.renderItem(stmt, level, blankCap, state == suppressedOn)
		prevEnd = r.itemEnd(stmt)
		state = state.update(r.cm.Trailing(stmt), r.source)
	}
}

// itemEnd is the source offset where a rendered item ends, including its
// trailing comments.
func (r *renderer) itemEnd(n *pyast.Node) int {
	end := n.Span.End
	for _, c := range r.cm.Trailing(n) {
		if c.Span.End > end {
			end = c.Span.End
		}
	}
	return end
}

// renderItem renders one logical-line node with its leading comments before
// it and its own-line trailing comments after it.
func (r *renderer) renderItem(n *pyast.Node, level, blankCap int, verbatim bool) {
	prevEnd := -1
	for _, c := range r.cm.Leading(n) {
		if prevEnd >= 0 {
			r.writeBlanks(prevEnd, c.Span.Start, blankCap)
		}
		r.writeOwnLineComment(c, level)
		prevEnd = c.Span.End
	}
	if prevEnd >= 0 {
		r.writeBlanks(prevEnd, n.Span.Start, blankCap)
	}

	r.renderStatementLine(n, level, verbatim)
	r.writeOwnLineTrailing(n, level, blankCap)
}

func (r *renderer) renderStatementLine(n *pyast.Node, level int, verbatim bool) {
	indent := r.opts.Indent(level)

	if verbatim {
		r.write(indent)
		r.mark(n.Span.Start)
		r.sm.AddVerbatim(n.Span.Start, n.Span.End, r.out.Len())
		r.write(string(r.source[n.Span.Start:n.Span.End]))
		r.mark(n.Span.End)
		// Header-line comments of a compound statement sit inside its span
		// and are already part of the verbatim text.
		var after []comments.Comment
		for _, c := range r.eolComments(n) {
			if c.Span.Start >= n.Span.End {
				after = append(after, c)
			}
		}
		r.flushEOL(after, len(r.source)+1)
		r.write("\n")
		return
	}

	if n.Kind.IsSimpleStatement() || n.Kind == pyast.KindDecorator {
		r.write(indent)
		r.mark(n.Span.Start)
		if n.Docstring {
			r.writeDocstring(n)
		} else {
			r.writeSegment(n.Span.Start, n.Span.End, level)
		}
		r.mark(n.Span.End)
		r.flushEOL(r.eolComments(n), len(r.source)+1)
		r.write("\n")
		return
	}

	r.renderCompound(n, level)
}

// renderCompound renders a compound statement (or a clause node) by walking
// its parts with a cursor over the source: tokens between the cursor and
// each clause colon form a header line, suites indent one level deeper, and
// except handlers stay at the header's level.
func (r *renderer) renderCompound(n *pyast.Node, level int) {
	indent := r.opts.Indent(level)
	cursor := n.Span.Start
	eol := r.eolComments(n)

	for _, part := range n.Parts {
		switch {
		case part.Role == pyast.RoleChild && part.Node != nil && part.Node.IsLogicalLine():
			// A decorator before the header, or an elif/else clause after a
			// suite. Either way it is its own logical line.
			r.renderItem(part.Node, level, 1, false)
			cursor = part.Node.Span.End

		case part.IsSuite():
			r.write(indent)
			if cursor == n.Span.Start {
				r.mark(cursor)
			}
			r.writeSegment(cursor, part.ColonEnd, level)
			r.mark(part.ColonEnd)
			if len(part.Nodes) > 0 {
				eol = r.flushEOL(eol, part.Nodes[0].Span.Start)
			} else {
				eol = r.flushEOL(eol, n.Span.End+1)
			}
			r.write("\n")
			r.renderSuiteContents(part.Nodes, level+1, 1)
			if len(part.Nodes) > 0 {
				cursor = part.Nodes[len(part.Nodes)-1].Span.End
			}

		case part.Role == pyast.RoleCases:
			r.write(indent)
			if cursor == n.Span.Start {
				r.mark(cursor)
			}
			r.writeSegment(cursor, part.ColonEnd, level)
			r.mark(part.ColonEnd)
			if len(part.Nodes) > 0 {
				eol = r.flushEOL(eol, part.Nodes[0].Span.Start)
			}
			r.write("\n")
			for _, member := range part.Nodes {
				r.renderItem(member, level+1, 1, false)
			}
			if len(part.Nodes) > 0 {
				cursor = part.Nodes[len(part.Nodes)-1].Span.End
			}

		case part.Role == pyast.RoleHandlers:
			for _, member := range part.Nodes {
				r.renderItem(member, level, 1, false)
			}
			if len(part.Nodes) > 0 {
				cursor = part.Nodes[len(part.Nodes)-1].Span.End
			}
		}
	}

	r.flushEOL(eol, n.Span.End+1)
}

// writeSegment emits the code tokens between two source offsets as one
// normalized (possibly expanded) line body.
func (r *renderer) writeSegment(from, to, level int) {
	r.write(renderTokenLine(r.source, r.tokensIn(from, to), r.opts, level))
}

func (r *renderer) tokensIn(from, to int) []parser.Token {
	idx := sort.Search(len(r.code), func(i int) bool {
		return r.code[i].Span.Start >= from
	})
	end := idx
	for end < len(r.code) && r.code[end].Span.End <= to {
		end++
	}
	return r.code[idx:end]
}

// writeDocstring emits a docstring verbatim except for trailing whitespace,
// which is stripped from every line.
func (r *renderer) writeDocstring(n *pyast.Node) {
	text := string(n.Span.Text(r.source))
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.write("\n")
		}
		r.write(strings.TrimRight(line, " \t\r"))
	}
}

// eolComments returns the node's end-of-line trailing comments.
func (r *renderer) eolComments(n *pyast.Node) []comments.Comment {
	var list []comments.Comment
	for _, c := range r.cm.Trailing(n) {
		if !c.Position.IsOwnLine() {
			list = append(list, c)
		}
	}
	return list
}

// flushEOL writes the pending end-of-line comments that start before the
// given source offset and returns the rest. Compound statements use it to
// keep a comment on the clause-header line it came from.
func (r *renderer) flushEOL(pending []comments.Comment, before int) []comments.Comment {
	for len(pending) > 0 && pending[0].Span.Start < before {
		c := pending[0]
		pending = pending[1:]
		r.write("  ")
		r.mark(c.Span.Start)
		r.write(strings.TrimRight(string(c.Text(r.source)), " \t"))
		r.mark(c.Span.End)
	}
	return pending
}

func (r *renderer) writeOwnLineComment(c comments.Comment, level int) {
	r.write(r.opts.Indent(level))
	r.mark(c.Span.Start)
	r.write(strings.TrimRight(string(c.Text(r.source)), " \t"))
	r.mark(c.Span.End)
	r.write("\n")
}

// writeOwnLineTrailing renders a node's own-line trailing comments. These
// only occur after the last logical line of the document.
func (r *renderer) writeOwnLineTrailing(n *pyast.Node, level, blankCap int) {
	prevEnd := n.Span.End
	for _, c := range r.cm.Trailing(n) {
		if !c.Position.IsOwnLine() {
			if c.Span.End > prevEnd {
				prevEnd = c.Span.End
			}
			continue
		}
		r.writeBlanks(prevEnd, c.Span.Start, blankCap)
		r.writeOwnLineComment(c, level)
		prevEnd = c.Span.End
	}
}

// writeBlanks emits the blank lines found between two source offsets,
// capped.
func (r *renderer) writeBlanks(from, to, limit int) {
	if from < 0 || to <= from || to > len(r.source) {
		return
	}
	blanks := bytes.Count(r.source[from:to], []byte("\n")) - 1
	if blanks > limit {
		blanks = limit
	}
	for i := 0; i < blanks; i++ {
		r.write("\n")
	}
}
