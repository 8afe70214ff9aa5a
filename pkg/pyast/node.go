package pyast

// Role describes how a child part relates to its parent node.
type Role uint8

const (
	// RoleChild is an inline child: an expression operand, a decorator,
	// or an elif/else clause that shares the parent's indentation.
	RoleChild Role = iota

	// RoleSuite is an indented statement suite (a body). The primary body,
	// a loop/try `else` suite, and a `finally` suite all use this role.
	RoleSuite

	// RoleHandlers is the except-handler sequence of a try statement.
	RoleHandlers

	// RoleCases is the case-arm sequence of a match statement.
	RoleCases
)

// Part is one ordered child slot of a node: either a single inline node or
// a sequence of nodes (a suite, handler list, or case list).
type Part struct {
	Role Role

	// Node is set for RoleChild parts.
	Node *Node

	// Nodes is set for suite and sequence parts, in source order.
	Nodes []*Node

	// ColonEnd is the end offset of the clause-header colon that introduces
	// a suite or case sequence. Zero for parts without a preceding header.
	ColonEnd int

	// Inline is true for a RoleSuite whose statements share the header's
	// line (`if x: pass`). Such suites have no indentation run of their own.
	Inline bool
}

// IsSuite returns true if this part is an indented statement suite.
func (p Part) IsSuite() bool {
	return p.Role == RoleSuite
}

// IsSequence returns true for handler and case sequences.
func (p Part) IsSequence() bool {
	return p.Role == RoleHandlers || p.Role == RoleCases
}

// Node represents a single node in the Python AST. A node's span contains
// the spans of all its descendants.
type Node struct {
	// Kind identifies what type of node this is.
	Kind Kind

	// Span is the byte range this node covers in the source.
	Span Span

	// Parts are the ordered child slots, in source order.
	Parts []Part

	// Docstring marks an expression statement whose sole content is a
	// string literal sitting first in its suite. The renderer applies
	// dedicated docstring handling to such statements.
	Docstring bool
}

// IsLogicalLine reports whether this node begins an independently
// formattable source line.
func (n *Node) IsLogicalLine() bool {
	return n.Kind.IsLogicalLine()
}

// IsStatement reports whether this node is a statement.
func (n *Node) IsStatement() bool {
	return n.Kind.IsStatement()
}

// IsModule reports whether this node is the document root.
func (n *Node) IsModule() bool {
	return n.Kind == KindModule
}

// Body returns the node's first suite part, or nil if it has none.
func (n *Node) Body() []*Node {
	for _, p := range n.Parts {
		if p.IsSuite() {
			return p.Nodes
		}
	}
	return nil
}

// Suites returns all suite parts of the node, in source order.
func (n *Node) Suites() []Part {
	var suites []Part
	for _, p := range n.Parts {
		if p.IsSuite() {
			suites = append(suites, p)
		}
	}
	return suites
}

// AddChild appends an inline child part.
func (n *Node) AddChild(child *Node) {
	n.Parts = append(n.Parts, Part{Role: RoleChild, Node: child})
}

// AddSuite appends an indented suite part introduced by the colon ending
// at colonEnd.
func (n *Node) AddSuite(stmts []*Node, colonEnd int, inline bool) {
	n.Parts = append(n.Parts, Part{
		Role:     RoleSuite,
		Nodes:    stmts,
		ColonEnd: colonEnd,
		Inline:   inline,
	})
}

// AddSequence appends a handler or case sequence part.
func (n *Node) AddSequence(role Role, nodes []*Node, colonEnd int) {
	n.Parts = append(n.Parts, Part{Role: role, Nodes: nodes, ColonEnd: colonEnd})
}
