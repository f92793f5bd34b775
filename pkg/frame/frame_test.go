package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/irregularz/pkg/config"
	"github.com/taigrr/irregularz/pkg/control"
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/models"
	"github.com/taigrr/irregularz/pkg/render"
	"github.com/taigrr/irregularz/pkg/scene"
	"github.com/taigrr/irregularz/pkg/shadow"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Width, cfg.Height = 80, 60
	cfg.Workers = 2
	cfg.Orbit = 0
	cfg.Light = [3]float64{0, 50, 0}
	cfg.Camera.Position = [3]float64{0, 20, 30}
	cfg.Camera.Target = [3]float64{0, 0, 0}
	return cfg
}

// blockerScene is a floor with a small box floating above its center.
func blockerScene() *scene.Scene {
	sc := scene.New()
	sc.Add(ground())
	box := scene.NewLeaf("blocker", models.NewBox(math3d.V3(4, 1, 4), render.DefaultMaterial()))
	box.Local = math3d.Translate(math3d.V3(0, 5, 0))
	sc.Add(box)
	return sc
}

func render1(t *testing.T, cfg config.Config) *Driver {
	t.Helper()
	d := New(cfg, blockerScene())
	t.Cleanup(d.Close)
	d.Frame(0)
	return d
}

func TestFrameDrawsAndShadows(t *testing.T) {
	cfg := testConfig()
	lit := cfg
	lit.Shadow.Enabled = false

	shaded := render1(t, cfg)
	plain := render1(t, lit)

	st := shaded.Stats()
	assert.Equal(t, 1, st.Frames)
	assert.Positive(t, st.Render.Fragments)
	assert.Positive(t, st.Shadow.Samples)
	assert.Positive(t, st.Shadow.Shadowed)
	assert.Zero(t, plain.Stats().Shadow.Samples)

	darkened := 0
	a, b := shaded.ColorBuffer().Pixels, plain.ColorBuffer().Pixels
	require.Len(t, a, len(b))
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		require.Equal(t, shadow.DefaultDarken(b[i]), a[i], "pixel %d", i)
		darkened++
	}
	assert.Equal(t, st.Shadow.Shadowed, darkened)
}

func TestFrameClearsToBackground(t *testing.T) {
	cfg := testConfig()
	cfg.Camera.Target = [3]float64{0, 100, 30} // looking straight up at the sky
	d := New(cfg, blockerScene())
	defer d.Close()
	d.Frame(0)

	want := render.PackRGB(cfg.ClearColor)
	for _, p := range d.ColorBuffer().Pixels {
		require.Equal(t, want, p)
	}
	assert.Zero(t, d.Stats().Shadow.Shadowed)
}

func TestLightOrbit(t *testing.T) {
	cfg := testConfig()
	cfg.Light = [3]float64{10, 50, -70}
	cfg.Orbit = 1
	d := New(cfg, scene.New())
	defer d.Close()

	assert.Equal(t, math3d.V3(10, 50, -70), d.Light())

	d.Frame(0.5)
	want := math3d.RotateY(0.5).MulVec3(math3d.V3(10, 50, -70))
	got := d.Light()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
	assert.InDelta(t, math.Hypot(10, 70), math.Hypot(got.X, got.Z), 1e-9)

	light := d.Mapper().Light()
	assert.Equal(t, got, light.Position)
	assert.Equal(t, math3d.Zero3(), light.Target)
}

func TestResize(t *testing.T) {
	d := New(testConfig(), scene.New())
	defer d.Close()

	before := d.ColorBuffer()
	d.Resize(80, 60)
	assert.Same(t, before, d.ColorBuffer(), "same size keeps the buffers")

	d.Resize(120, 40)
	assert.Equal(t, 120, d.ColorBuffer().Width)
	assert.Equal(t, 40, d.DepthBuffer().Height)
	assert.Same(t, d.ColorBuffer(), d.Renderer().ColorBuffer())
	assert.InDelta(t, 3.0, d.Camera().AspectRatio, 1e-12)

	d.Resize(0, -3)
	assert.Equal(t, 1, d.ColorBuffer().Width)
	assert.Equal(t, 1, d.ColorBuffer().Height)
}

func TestControlsMoveCamera(t *testing.T) {
	cfg := testConfig()
	cfg.Camera.Speed = 10
	d := New(cfg, scene.New())
	defer d.Close()

	start := d.Camera().Position
	dir := d.Camera().Forward()

	d.Control().Press(control.Forward)
	d.Frame(0.5)

	moved := d.Camera().Position.Sub(start)
	assert.InDelta(t, 5, moved.Len(), 1e-9)
	assert.InDelta(t, 1, moved.Normalize().Dot(dir), 1e-9)
}

func TestSetShadows(t *testing.T) {
	d := New(testConfig(), blockerScene())
	defer d.Close()
	assert.True(t, d.Shadows())

	d.SetShadows(false)
	d.Frame(0)
	assert.Zero(t, d.Stats().Shadow.Samples)
}

func TestDemoScene(t *testing.T) {
	sc := DemoScene()
	require.NotNil(t, sc.Find("ground"))
	require.NotNil(t, sc.Find("pillar"))
	require.NotNil(t, sc.Find("lintel"))

	sc.Update(1)
	b := sc.Bounds()
	assert.False(t, b.Empty())
	assert.InDelta(t, Ground, b.Min.Y, 1e-9)

	d := New(config.Default(), sc)
	defer d.Close()
	d.Resize(64, 48)
	d.Frame(1.0 / 30)
	assert.Positive(t, d.Stats().Render.Fragments)
}

func TestPlaceRestsOnFloor(t *testing.T) {
	m := models.NewBox(math3d.V3(2, 8, 4), render.DefaultMaterial())
	sc, leaf := ModelScene(m, 20)
	sc.Update(0)

	b := leaf.Bounds()
	assert.InDelta(t, Ground, b.Min.Y, 1e-9)
	assert.InDelta(t, 20, b.Size().Y, 1e-9)
	assert.InDelta(t, 0, b.Center().X, 1e-9)
	assert.InDelta(t, 0, b.Center().Z, 1e-9)
}

func TestOverlay(t *testing.T) {
	plain := render1(t, testConfig())

	d := New(testConfig(), blockerScene())
	defer d.Close()
	assert.False(t, d.Overlay())
	d.SetOverlay(true)
	d.Frame(0)

	changed := 0
	a, b := d.ColorBuffer().Pixels, plain.ColorBuffer().Pixels
	for i := range a {
		if a[i] != b[i] {
			changed++
			assert.Contains(t, []uint32{render.WireYellow, render.WireRed, render.WireGreen, render.WireBlue}, a[i])
		}
	}
	assert.Positive(t, changed)
}
