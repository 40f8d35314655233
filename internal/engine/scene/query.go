package scene

// Predicate selects nodes during ancestor walks and picking.
type Predicate func(*Node) bool

// HasCapability matches nodes carrying every bit of c.
func HasCapability(c Capability) Predicate {
	return func(n *Node) bool { return n.Tags.Has(c) }
}

// IsFurniture matches nodes with a furniture kind.
func IsFurniture() Predicate {
	return func(n *Node) bool { return n.Tags.IsFurniture() }
}

// IsBookable matches chairs and tables.
func IsBookable() Predicate {
	return func(n *Node) bool { return n.Tags.Kind.Bookable() }
}

// Is matches exactly one node.
func Is(target *Node) Predicate {
	return func(n *Node) bool { return n == target }
}

// AnyOf matches when at least one predicate does.
func AnyOf(preds ...Predicate) Predicate {
	return func(n *Node) bool {
		for _, p := range preds {
			if p(n) {
				return true
			}
		}
		return false
	}
}

// NearestAncestor walks from n (inclusive) towards the root and returns the
// first node matching pred, or nil when the root is passed without a match.
func NearestAncestor(n *Node, pred Predicate) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if pred(cur) {
			return cur
		}
	}
	return nil
}
