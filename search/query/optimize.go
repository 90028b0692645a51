package query

// Optimize rewrites the tree rooted at node in place and returns the new
// root, or nil when nothing is left to evaluate. Operators without children
// are removed, and operators with a single child other than #score are
// replaced by that child. Optimize(Optimize(n)) is the same tree as
// Optimize(n).
func Optimize(node Node) Node {
	switch n := node.(type) {
	case nil:
		return nil
	case *TermNode:
		return n
	case *ScoreNode:
		if n.child == nil {
			return nil
		}
		child, ok := Optimize(n.child).(PositionalNode)
		if !ok {
			return nil
		}
		n.child = child
		return n
	case *SynNode:
		n.children = optimizeChildren(n.children)
		return collapse(n, n.children)
	case *NearNode:
		n.children = optimizeChildren(n.children)
		return collapse(n, n.children)
	case *WindowNode:
		n.children = optimizeChildren(n.children)
		return collapse(n, n.children)
	case *ConjunctionNode:
		n.children = optimizeChildren(n.children)
		return collapse(n, n.children)
	case *DisjunctionNode:
		n.children = optimizeChildren(n.children)
		return collapse(n, n.children)
	case *SumNode:
		n.children = optimizeChildren(n.children)
		return collapse(n, n.children)
	case *WandNode:
		n.children = optimizeChildren(n.children)
		return collapse(n, n.children)
	default:
		return node
	}
}

func optimizeChildren[T Node](children []T) []T {
	optimized := children[:0]

	for _, child := range children {
		// A collapsed operator is replaced by its only child, which has the
		// same capabilities as the operator.
		if node, ok := Optimize(child).(T); ok {
			optimized = append(optimized, node)
		}
	}

	return optimized
}

func collapse[T Node](node Node, children []T) Node {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return node
	}
}
