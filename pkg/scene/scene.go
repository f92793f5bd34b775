// Package scene implements the scene graph: a tree of branches and leaves
// that propagates transforms down, bounds up, and drives culled rendering.
package scene

import (
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/render"
)

// Visualizer consumes the geometry of visible leaves. The renderer draws
// it; the shadow mapper tests it against its grid.
type Visualizer interface {
	// SetClipper enables clipping for subsequent Render calls, or disables
	// it when c is nil.
	SetClipper(c *render.Clipper)
	SetMaterial(m render.Material)
	Render(world math3d.Mat4, vertices []float64, indices []int)
}

// Scene is a tree rooted at a branch.
type Scene struct {
	root *Node
}

// New creates a scene with an empty root branch.
func New() *Scene {
	return &Scene{root: NewBranch("root")}
}

// Root returns the root branch.
func (s *Scene) Root() *Node { return s.root }

// Add attaches n to the root.
func (s *Scene) Add(n *Node) bool { return s.root.Add(n) }

// Bounds returns the world-space bounds of everything in the scene, as of
// the last update.
func (s *Scene) Bounds() render.AABB { return s.root.bounds }

// Update runs the update hooks and recomputes world transforms top-down,
// then bounds bottom-up.
func (s *Scene) Update(dt float64) {
	update(s.root, math3d.Identity(), dt)
}

func update(n *Node, parentWorld math3d.Mat4, dt float64) {
	if n.updater != nil {
		n.updater(n, dt)
	}
	n.world = parentWorld.Mul(n.Local)

	n.bounds = render.EmptyAABB()
	switch n.kind {
	case Branch:
		for _, c := range n.children {
			update(c, n.world, dt)
			n.bounds.Union(c.bounds)
		}
	case Leaf:
		if n.model != nil {
			n.bounds = n.model.Bounds().Transform(n.world)
		}
	}
}

// Render hands every leaf that is not wholly outside f to v. Nodes that
// straddle a plane turn clipping on for their subtree; nodes wholly inside
// turn it off. Bounds must be current, so call Update first.
func (s *Scene) Render(v Visualizer, f *render.Frustum) {
	clipper := render.NewClipper(f)
	draw(s.root, v, f, clipper, false)
	v.SetClipper(nil)
}

func draw(n *Node, v Visualizer, f *render.Frustum, clipper *render.Clipper, inside bool) {
	if !inside {
		switch f.Evaluate(n.bounds) {
		case render.Outside:
			return
		case render.Partial:
			v.SetClipper(clipper)
		case render.Inside:
			v.SetClipper(nil)
			inside = true
		}
	}

	switch n.kind {
	case Branch:
		for _, c := range n.children {
			draw(c, v, f, clipper, inside)
		}
	case Leaf:
		if n.model == nil {
			return
		}
		for _, mesh := range n.model.Meshes {
			v.SetMaterial(mesh.Material)
			v.Render(n.world, mesh.Vertices, mesh.Indices)
		}
	}
}

// Walk visits every node in pre-order. Returning false from fn skips the
// children of that node.
func (s *Scene) Walk(fn func(*Node) bool) {
	s.root.Walk(fn)
}

// Find returns the first node named name in pre-order, or nil.
func (s *Scene) Find(name string) *Node {
	var found *Node
	s.root.Walk(func(n *Node) bool {
		if found == nil && n.Name == name {
			found = n
		}
		return found == nil
	})
	return found
}
