package frame

import (
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/models"
	"github.com/taigrr/irregularz/pkg/render"
	"github.com/taigrr/irregularz/pkg/scene"
)

// Ground is the height of the floor in the built-in scenes.
const Ground = -5.0

// Spin is the turntable speed of the built-in scenes, in radians per second.
const Spin = 0.4

func material(name string, diffuse uint32) render.Material {
	return render.Material{Name: name, Ambient: render.DefaultAmbient, Diffuse: diffuse}
}

func ground() *scene.Node {
	floor := scene.NewLeaf("ground", models.NewQuad(100, material("ground", 0xC8C8B4)))
	floor.Local = math3d.Translate(math3d.V3(0, Ground, 0))
	return floor
}

// turntable returns a branch that spins its children about Y.
func turntable(name string) *scene.Node {
	n := scene.NewBranch(name)
	var angle float64
	n.SetUpdater(func(n *scene.Node, dt float64) {
		angle += Spin * dt
		n.Local = math3d.RotateY(angle)
	})
	return n
}

// DemoScene builds a floor with a spinning arrangement of boxes.
func DemoScene() *scene.Scene {
	sc := scene.New()
	sc.Add(ground())

	table := turntable("boxes")
	sc.Add(table)

	boxes := []struct {
		name    string
		size    math3d.Vec3
		pos     math3d.Vec3
		diffuse uint32
	}{
		{"pillar", math3d.V3(3, 14, 3), math3d.V3(0, 2, 0), 0xE05040},
		{"crate", math3d.V3(5, 5, 5), math3d.V3(8, -2.5, 3), 0x40A0E0},
		{"slab", math3d.V3(10, 1, 4), math3d.V3(-7, 1, -4), 0x60C060},
		{"cube", math3d.V3(2, 2, 2), math3d.V3(-3, -4, 8), 0xE0C040},
	}
	for _, b := range boxes {
		leaf := scene.NewLeaf(b.name, models.NewBox(b.size, material(b.name, b.diffuse)))
		leaf.Local = math3d.Translate(b.pos)
		table.Add(leaf)
	}

	// a lintel hung between two posts, casting a shadow of its own
	gate := scene.NewBranch("gate")
	gate.Local = math3d.Translate(math3d.V3(0, 0, -12))
	for _, x := range []float64{-4, 4} {
		post := scene.NewLeaf("post", models.NewBox(math3d.V3(1, 8, 1), material("post", 0xB0B0B0)))
		post.Local = math3d.Translate(math3d.V3(x, Ground+4, 0))
		gate.Add(post)
	}
	lintel := scene.NewLeaf("lintel", models.NewBox(math3d.V3(10, 1, 2), material("lintel", 0xB0B0B0)))
	lintel.Local = math3d.Translate(math3d.V3(0, Ground+8.5, 0))
	gate.Add(lintel)
	sc.Add(gate)

	return sc
}

// ModelScene places m on a turntable standing on the floor, scaled so its
// largest dimension is size.
func ModelScene(m *models.Model, size float64) (*scene.Scene, *scene.Node) {
	sc := scene.New()
	sc.Add(ground())

	table := turntable("turntable")
	sc.Add(table)

	leaf := scene.NewLeaf(m.Name, m)
	Place(leaf, m, size)
	table.Add(leaf)
	return sc, leaf
}

// Place sets leaf's transform so m is centered over the origin, resting on
// the floor, with its largest dimension equal to size.
func Place(leaf *scene.Node, m *models.Model, size float64) {
	fit := m.Fit(size)
	b := m.Bounds()
	if b.Empty() {
		leaf.Local = fit
		return
	}
	b = b.Transform(fit)
	leaf.Local = math3d.Translate(math3d.V3(0, Ground-b.Min.Y, 0)).Mul(fit)
}
