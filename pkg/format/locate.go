package format

import (
	"github.com/nkxxll/ruff/pkg/comments"
	"github.com/nkxxll/ruff/pkg/pyast"
)

// EnclosingResult is the outcome of the enclosing-node search: either the
// request lies wholly inside a suppressed region, or the deepest logical-line
// node fully containing it together with its indentation depth.
type EnclosingResult struct {
	// Suppressed is true when there is nothing to format.
	Suppressed bool

	// Node is the enclosing node. Nil when Suppressed.
	Node *pyast.Node

	// IndentLevel is the node's nesting depth relative to the document root.
	IndentLevel int
}

// locate finds the node with the minimum covering range of request.
//
// The search is restricted to logical-line nodes (and the module root):
// formatting a sub-expression on its own could change whether its parent
// needs parentheses or extra split points, which would break equivalence
// with whole-document output. Possible docstrings are excluded so that the
// renderer's docstring detection, which only works when the enclosing suite
// is rendered, still applies. Nodes whose indentation does not conform to
// the configured style are excluded because formatting them alone would
// produce indentation mismatching their unformatted siblings.
func locate(request pyast.Span, root *pyast.Node, source []byte, lines *pyast.Lines, cm *comments.Map, opts Options) EnclosingResult {
	v := &locator{
		request:  request,
		source:   source,
		lines:    lines,
		comments: cm,
		opts:     opts,
		result:   EnclosingResult{Suppressed: true},
	}
	pyast.Walk(root, v)
	return v.result
}

type locator struct {
	request  pyast.Span
	source   []byte
	lines    *pyast.Lines
	comments *comments.Map
	opts     Options

	// result holds the deepest match so far; children recorded later always
	// override an ancestor.
	result EnclosingResult

	// state tracks suppression within the current suite.
	state suppressed
}

func (l *locator) EnterNode(n *pyast.Node) pyast.TraversalSignal {
	if !n.IsLogicalLine() && !n.IsModule() {
		return pyast.Skip
	}

	// Statements drive the suppression automaton even when they do not
	// contain the request: a later sibling may.
	if n.IsStatement() {
		l.state = l.state.update(l.comments.Leading(n), l.source)
	}

	if !n.Span.Contains(l.request) {
		return pyast.Skip
	}

	if l.state == suppressedOn && n.IsStatement() {
		l.result = EnclosingResult{Suppressed: true}
		return pyast.Skip
	}

	// A possible docstring must be formatted through its enclosing suite.
	if n.Docstring {
		return pyast.Skip
	}

	depth, ok := IndentDepth(n.Span.Start, l.lines, l.opts)
	if !ok {
		// Non-standard indentation or a simple-statement body: keep the
		// previous selection and format the enclosing node instead.
		return pyast.Skip
	}

	l.result = EnclosingResult{Node: n, IndentLevel: depth}
	return pyast.Traverse
}

func (l *locator) LeaveNode(n *pyast.Node) {
	if n.IsStatement() {
		l.state = l.state.update(l.comments.Trailing(n), l.source)
	}
}

func (l *locator) VisitSuite(suite pyast.Part) {
	// Suppression never leaks into or out of a nested suite, so a stack is
	// unnecessary: reset on the way out.
	pyast.WalkSuite(suite.Nodes, l)
	l.state = active
}
