package pyast

// TraversalSignal tells the walker whether to descend into a node's
// children after entering it.
type TraversalSignal int

const (
	// Traverse continues into the node's children.
	Traverse TraversalSignal = iota

	// Skip leaves the node without visiting its children.
	Skip
)

// IsTraverse returns true if the signal requests descending.
func (s TraversalSignal) IsTraverse() bool {
	return s == Traverse
}

// Visitor is a preorder tree visitor with enter/leave hooks. VisitSuite is
// invoked for each statement suite part; implementations that need
// per-suite state (suppression, nesting level) reset or save it there and
// call WalkSuite to continue.
type Visitor interface {
	EnterNode(n *Node) TraversalSignal
	LeaveNode(n *Node)
	VisitSuite(suite Part)
}

// Walk performs a preorder traversal of the tree rooted at n.
func Walk(n *Node, v Visitor) {
	if n == nil {
		return
	}
	if v.EnterNode(n).IsTraverse() {
		WalkParts(n, v)
	}
	v.LeaveNode(n)
}

// WalkParts visits the child parts of n without re-entering n itself.
func WalkParts(n *Node, v Visitor) {
	for _, p := range n.Parts {
		switch {
		case p.Node != nil:
			Walk(p.Node, v)
		case p.IsSuite():
			v.VisitSuite(p)
		default:
			// Handler and case sequences: visit members directly. Their
			// own suites go through VisitSuite when each member is walked.
			for _, member := range p.Nodes {
				Walk(member, v)
			}
		}
	}
}

// WalkSuite walks every statement of a suite in order.
func WalkSuite(suite []*Node, v Visitor) {
	for _, stmt := range suite {
		Walk(stmt, v)
	}
}

// FindAll returns all nodes under root matching the predicate, in preorder.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node
	walkAll(root, func(n *Node) {
		if predicate(n) {
			result = append(result, n)
		}
	})
	return result
}

func walkAll(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, p := range n.Parts {
		if p.Node != nil {
			walkAll(p.Node, fn)
			continue
		}
		for _, member := range p.Nodes {
			walkAll(member, fn)
		}
	}
}
