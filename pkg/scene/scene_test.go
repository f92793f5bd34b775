package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/models"
	"github.com/taigrr/irregularz/pkg/render"
)

// recorder is a Visualizer that remembers what it was asked to draw.
type recorder struct {
	clipper  *render.Clipper
	material render.Material
	draws    []drawCall
}

type drawCall struct {
	world    math3d.Mat4
	material string
	clipped  bool
	count    int
}

func (r *recorder) SetClipper(c *render.Clipper)  { r.clipper = c }
func (r *recorder) SetMaterial(m render.Material) { r.material = m }
func (r *recorder) Render(world math3d.Mat4, vertices []float64, indices []int) {
	r.draws = append(r.draws, drawCall{
		world:    world,
		material: r.material.Name,
		clipped:  r.clipper != nil,
		count:    len(indices) / 3,
	})
}

func unitBox() *models.Model {
	return models.NewBox(math3d.V3(2, 2, 2), render.Material{Name: "box", Diffuse: 0xFFFFFF})
}

// testFrustum looks down -Z from the origin with a 90 degree field of view.
func testFrustum() *render.Frustum {
	proj := math3d.PerspectiveZO(math.Pi/2, 1, 1, 100)
	return render.NewFrustum(proj)
}

func TestReparentLeaf(t *testing.T) {
	sc := New()
	a := NewBranch("a")
	b := NewBranch("b")
	a.Local = math3d.Translate(math3d.V3(10, 0, 0))
	b.Local = math3d.Translate(math3d.V3(0, 5, 0))
	require.True(t, sc.Add(a))
	require.True(t, sc.Add(b))

	leaf := NewLeaf("leaf", unitBox())
	require.True(t, a.Add(leaf))
	sc.Update(0)
	assert.Equal(t, math3d.V3(10, 0, 0), leaf.World().Translation())

	require.True(t, b.Add(leaf))
	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{leaf}, b.Children())
	assert.Same(t, b, leaf.Parent())

	sc.Update(0)
	assert.Equal(t, math3d.V3(0, 5, 0), leaf.World().Translation())
	assert.True(t, a.Bounds().Empty(), "a lost its only leaf")
	assert.Equal(t, math3d.V3(-1, 4, -1), b.Bounds().Min)
}

func TestAddEdgeCases(t *testing.T) {
	root := NewBranch("root")
	child := NewBranch("child")
	grandchild := NewBranch("grandchild")
	leaf := NewLeaf("leaf", nil)

	assert.False(t, root.Add(nil))
	assert.False(t, root.Add(root), "self")
	require.True(t, root.Add(child))
	require.True(t, child.Add(grandchild))
	assert.True(t, root.Add(child), "same parent")
	assert.Len(t, root.Children(), 1)
	assert.False(t, grandchild.Add(root), "cycle")
	assert.False(t, leaf.Add(child), "leaves have no children")
	assert.Same(t, root, child.Parent())
}

func TestRemove(t *testing.T) {
	a := NewBranch("a")
	b := NewBranch("b")
	leaf := NewLeaf("leaf", nil)
	assert.Nil(t, leaf.Parent())

	require.True(t, a.Add(leaf))
	assert.False(t, b.Remove(leaf), "not owned by b")
	assert.False(t, a.Remove(nil))
	assert.Same(t, a, leaf.Parent())

	assert.True(t, a.Remove(leaf))
	assert.Nil(t, leaf.Parent())
	assert.Empty(t, a.Children())
	assert.False(t, a.Remove(leaf), "already detached")

	assert.True(t, b.Add(leaf), "a detached node can be adopted")
}

func TestUpdateComposesTransforms(t *testing.T) {
	sc := New()
	outer := NewBranch("outer")
	outer.Local = math3d.RotateY(math.Pi / 2)
	inner := NewLeaf("inner", unitBox())
	inner.Local = math3d.Translate(math3d.V3(0, 0, -3))
	outer.Add(inner)
	sc.Add(outer)

	calls := 0
	outer.SetUpdater(func(n *Node, dt float64) {
		calls++
		assert.Equal(t, 0.25, dt)
		n.Local = math3d.Translate(math3d.V3(1, 0, 0))
	})

	sc.Update(0.25)
	assert.Equal(t, 1, calls)
	assert.Equal(t, math3d.V3(1, 0, -3), inner.World().Translation(), "hook runs before the transform")

	box := sc.Bounds()
	assert.InDelta(t, 0, box.Min.X, 1e-12)
	assert.InDelta(t, 2, box.Max.X, 1e-12)
	assert.InDelta(t, -4, box.Min.Z, 1e-12)
	assert.Equal(t, box, sc.Root().Bounds())
}

func TestRenderCulls(t *testing.T) {
	sc := New()
	visible := NewLeaf("visible", unitBox())
	visible.Local = math3d.Translate(math3d.V3(0, 0, -10))
	straddling := NewLeaf("straddling", unitBox())
	straddling.Local = math3d.Translate(math3d.V3(0, 0, -100))
	behind := NewLeaf("behind", unitBox())
	behind.Local = math3d.Translate(math3d.V3(0, 0, 10))

	group := NewBranch("group")
	group.Add(visible)
	group.Add(behind)
	sc.Add(group)
	sc.Add(straddling)
	sc.Update(0)

	var r recorder
	sc.Render(&r, testFrustum())

	require.Len(t, r.draws, 2)
	assert.Equal(t, visible.World(), r.draws[0].world)
	assert.False(t, r.draws[0].clipped)
	assert.Equal(t, "box", r.draws[0].material)
	assert.Equal(t, 12, r.draws[0].count)
	assert.Equal(t, straddling.World(), r.draws[1].world)
	assert.True(t, r.draws[1].clipped)
	assert.Nil(t, r.clipper, "clipping is off after Render")
}

func TestRenderSkipsEmptyLeaves(t *testing.T) {
	sc := New()
	sc.Add(NewLeaf("empty", nil))
	sc.Update(0)

	var r recorder
	sc.Render(&r, testFrustum())
	assert.Empty(t, r.draws)
}

func TestWalkAndFind(t *testing.T) {
	sc := New()
	a := NewBranch("a")
	b := NewLeaf("b", nil)
	c := NewLeaf("c", nil)
	a.Add(b)
	sc.Add(a)
	sc.Add(c)

	var names []string
	sc.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n != a
	})
	assert.Equal(t, []string{"root", "a", "c"}, names)

	assert.Same(t, b, sc.Find("b"))
	assert.Nil(t, sc.Find("missing"))
}

func TestSetModel(t *testing.T) {
	leaf := NewLeaf("leaf", nil)
	branch := NewBranch("branch")
	m := unitBox()

	leaf.SetModel(m)
	branch.SetModel(m)
	assert.Same(t, m, leaf.Model())
	assert.Nil(t, branch.Model())
	assert.Equal(t, "leaf", leaf.Kind().String())
	assert.Equal(t, "branch", branch.Kind().String())
}
