package scene

import (
	"slices"

	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/models"
	"github.com/taigrr/irregularz/pkg/render"
)

// Kind tells branches from leaves.
type Kind int

const (
	Branch Kind = iota // groups children, draws nothing itself
	Leaf               // draws a model, has no children
)

func (k Kind) String() string {
	switch k {
	case Branch:
		return "branch"
	case Leaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// UpdateFunc is called on a node once per Scene.Update, before its world
// transform is recomputed. dt is the frame time in seconds.
type UpdateFunc func(n *Node, dt float64)

// orphanage owns every node that has no parent. It never lists its
// children, so detached subtrees are left to the garbage collector.
var orphanage = &Node{Name: "orphanage", kind: Branch}

// Node is a scene graph element. Every node has exactly one owner: a
// branch, or the orphanage while detached.
type Node struct {
	Name string

	// Local is the transform relative to the parent. World is derived from
	// it on the next Scene.Update.
	Local math3d.Mat4

	kind     Kind
	world    math3d.Mat4
	bounds   render.AABB
	parent   *Node
	children []*Node
	model    *models.Model
	updater  UpdateFunc
}

// NewBranch creates a detached branch.
func NewBranch(name string) *Node {
	return newNode(name, Branch)
}

// NewLeaf creates a detached leaf drawing model. model may be nil.
func NewLeaf(name string, model *models.Model) *Node {
	n := newNode(name, Leaf)
	n.model = model
	return n
}

func newNode(name string, kind Kind) *Node {
	return &Node{
		Name:   name,
		Local:  math3d.Identity(),
		kind:   kind,
		world:  math3d.Identity(),
		bounds: render.EmptyAABB(),
		parent: orphanage,
	}
}

// Kind returns whether n is a branch or a leaf.
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the owning branch, or nil when n is detached.
func (n *Node) Parent() *Node {
	if n.parent == orphanage {
		return nil
	}
	return n.parent
}

// Children returns the children of a branch. The slice must not be
// modified.
func (n *Node) Children() []*Node { return n.children }

// World returns the world transform computed by the last update.
func (n *Node) World() math3d.Mat4 { return n.world }

// Bounds returns the world-space bounds computed by the last update.
func (n *Node) Bounds() render.AABB { return n.bounds }

// Model returns the model drawn by a leaf.
func (n *Node) Model() *models.Model { return n.model }

// SetModel replaces the model drawn by a leaf. It has no effect on
// branches.
func (n *Node) SetModel(m *models.Model) {
	if n.kind == Leaf {
		n.model = m
	}
}

// SetUpdater installs the per-frame update hook. nil removes it.
func (n *Node) SetUpdater(fn UpdateFunc) { n.updater = fn }

// Add attaches child to n, detaching it from its previous owner first. It
// reports whether child is now a child of n. Adding nil, adding to a leaf,
// or adding an ancestor of n (which would form a cycle) does nothing and
// reports false.
func (n *Node) Add(child *Node) bool {
	if child == nil || n.kind != Branch || child == n {
		return false
	}
	if child.parent == n {
		return true
	}
	for p := n.parent; p != orphanage && p != nil; p = p.parent {
		if p == child {
			return false
		}
	}

	child.parent.unlink(child)
	child.parent = n
	n.children = append(n.children, child)
	return true
}

// Remove detaches child from n. It reports false, changing nothing, when
// child is not a child of n.
func (n *Node) Remove(child *Node) bool {
	if child == nil || child.parent != n {
		return false
	}
	n.unlink(child)
	child.parent = orphanage
	return true
}

func (n *Node) unlink(child *Node) {
	if n == orphanage {
		return
	}
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}
