package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ============================================================
// Scene Node
// ============================================================

// Node is an element of the scene graph. A node has at most one parent and
// its transform is relative to that parent.
type Node struct {
	ID        string
	Name      string
	Transform Transform
	Tags      Tags
	Mesh      *Mesh
	Visible   bool

	parent   *Node
	children []*Node
	disposed bool
}

func NewNode(name string) *Node {
	return &Node{
		ID:        uuid.NewString(),
		Name:      name,
		Transform: NewTransform(),
		Visible:   true,
	}
}

// NewMeshNode creates a node that owns the given mesh.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

func (n *Node) Parent() *Node { return n.parent }

// Disposed reports whether the node's resources have been released.
func (n *Node) Disposed() bool { return n.disposed }

// MarkDisposed is called by the resource manager once n is released.
func (n *Node) MarkDisposed() { n.disposed = true }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Add attaches children in order, detaching each from its previous parent.
// Nil, self and ancestor nodes are ignored.
func (n *Node) Add(children ...*Node) {
	for _, child := range children {
		if child == nil || child == n || child.IsAncestorOf(n) {
			continue
		}
		if child.parent != nil {
			child.parent.Remove(child)
		}
		child.parent = n
		n.children = append(n.children, child)
	}
}

// Remove detaches a direct child. It reports whether child was attached here.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Detach removes the node from its parent, if any.
func (n *Node) Detach() bool {
	if n.parent == nil {
		return false
	}
	return n.parent.Remove(n)
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for cur := other.parent; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Traverse visits the subtree in pre-order (graph order).
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children() {
		child.Traverse(fn)
	}
}

// Walk is Traverse with pruning: returning false skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children() {
		child.Walk(fn)
	}
}

// Find returns the node with the given id inside the subtree.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(cur *Node) bool {
		if found != nil {
			return false
		}
		if cur.ID == id {
			found = cur
			return false
		}
		return true
	})
	return found
}

// ============================================================
// World transforms
// ============================================================

func (n *Node) LocalMatrix() mgl64.Mat4 {
	return n.Transform.Matrix()
}

func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for cur := n.parent; cur != nil; cur = cur.parent {
		m = cur.LocalMatrix().Mul4(m)
	}
	return m
}

func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.WorldMatrix().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
}

// WorldToLocal converts a world-space point into this node's local frame.
func (n *Node) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return n.WorldMatrix().Inv().Mul4x1(p.Vec4(1)).Vec3()
}

// LocalToWorld converts a point in this node's local frame into world space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return n.WorldMatrix().Mul4x1(p.Vec4(1)).Vec3()
}
