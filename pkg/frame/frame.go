// Package frame drives one viewer frame: input, scene update, rasterization
// and the shadow pass.
package frame

import (
	"time"

	"github.com/taigrr/irregularz/pkg/config"
	"github.com/taigrr/irregularz/pkg/control"
	"github.com/taigrr/irregularz/pkg/logging"
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/parallel"
	"github.com/taigrr/irregularz/pkg/render"
	"github.com/taigrr/irregularz/pkg/scene"
	"github.com/taigrr/irregularz/pkg/shadow"
)

// Stats describes the last frame.
type Stats struct {
	Render  render.RenderStats
	Shadow  shadow.Stats
	Elapsed time.Duration
	Frames  int
}

// Driver owns the buffers and the pipeline stages for one scene.
type Driver struct {
	cfg   config.Config
	scene *scene.Scene

	color    *render.ColorBuffer
	depth    *render.DepthBuffer
	renderer *render.Renderer
	camera   *render.Camera
	control  *control.FirstPerson
	pool     *parallel.Pool
	mapper   *shadow.Mapper

	shadows    bool
	overlay    bool
	lightAngle float64
	light      math3d.Vec3
	stats      Stats
}

// New creates a driver for sc rendering at cfg.Width x cfg.Height. A zero
// size allocates a 1x1 target; call Resize once the real size is known.
func New(cfg config.Config, sc *scene.Scene) *Driver {
	width, height := max(cfg.Width, 1), max(cfg.Height, 1)

	cam := cfg.Camera
	camera := render.NewCamera(cam.FOV, float64(width)/float64(height), cam.Near, cam.Far)
	camera.MoveTo(cam.Position[0], cam.Position[1], cam.Position[2])
	camera.LookAt(cam.Target[0], cam.Target[1], cam.Target[2])

	color := render.NewColorBuffer(width, height)
	depth := render.NewDepthBuffer(width, height)
	pool := parallel.NewPool(cfg.Workers)

	d := &Driver{
		cfg:      cfg,
		scene:    sc,
		color:    color,
		depth:    depth,
		renderer: render.NewRenderer(color, depth),
		camera:   camera,
		control:  control.NewFirstPerson(camera, cfg.FPS),
		pool:     pool,
		mapper:   shadow.NewMapper(cfg.Shadow.GridSize, pool, shadow.WithBias(cfg.Shadow.Bias)),
		shadows:  cfg.Shadow.Enabled,
	}
	d.placeLight()
	return d
}

// Close stops the worker pool.
func (d *Driver) Close() { d.pool.Close() }

// Scene returns the scene being drawn.
func (d *Driver) Scene() *scene.Scene { return d.scene }

// Camera returns the viewer camera.
func (d *Driver) Camera() *render.Camera { return d.camera }

// Control returns the camera controller.
func (d *Driver) Control() *control.FirstPerson { return d.control }

// Renderer returns the rasterizer.
func (d *Driver) Renderer() *render.Renderer { return d.renderer }

// Mapper returns the shadow mapper.
func (d *Driver) Mapper() *shadow.Mapper { return d.mapper }

// ColorBuffer returns the current color target.
func (d *Driver) ColorBuffer() *render.ColorBuffer { return d.color }

// DepthBuffer returns the current depth target.
func (d *Driver) DepthBuffer() *render.DepthBuffer { return d.depth }

// Light returns the current light position.
func (d *Driver) Light() math3d.Vec3 { return d.light }

// Stats returns the statistics of the last frame.
func (d *Driver) Stats() Stats { return d.stats }

// Shadows reports whether the shadow pass runs.
func (d *Driver) Shadows() bool { return d.shadows }

// SetShadows turns the shadow pass on or off.
func (d *Driver) SetShadows(on bool) { d.shadows = on }

// Overlay reports whether bounding boxes and the light are outlined.
func (d *Driver) Overlay() bool { return d.overlay }

// SetOverlay turns the debug outlines on or off.
func (d *Driver) SetOverlay(on bool) { d.overlay = on }

// Resize reallocates the buffers for a width x height target. Sizes that do
// not change are ignored.
func (d *Driver) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if width == d.color.Width && height == d.color.Height {
		return
	}
	d.color = render.NewColorBuffer(width, height)
	d.depth = render.NewDepthBuffer(width, height)
	d.renderer.SetTarget(d.color, d.depth)
	d.camera.SetAspectRatio(float64(width) / float64(height))
	logging.Logger().Debug("resize", "width", width, "height", height)
}

// Frame advances the viewer by dt seconds and draws one frame: controls
// move the camera, the light orbits, the scene updates and is rasterized,
// then shadows are applied to the finished image.
func (d *Driver) Frame(dt float64) {
	start := time.Now()

	d.control.Update(dt, d.cfg.Camera.Speed)
	d.lightAngle += d.cfg.Orbit * dt
	d.placeLight()

	d.scene.Update(dt)

	d.camera.Apply(d.renderer)
	d.renderer.ResetStats()
	d.renderer.Clear(d.cfg.ClearColor)
	d.scene.Render(d.renderer, d.camera.Frustum())

	d.stats.Shadow = shadow.Stats{}
	if d.shadows {
		d.mapper.Shadow(d.scene, d.color, d.depth, d.renderer.Combined())
		d.stats.Shadow = d.mapper.Stats()
	}

	if d.overlay {
		d.drawOverlay()
	}

	d.stats.Render = d.renderer.Stats()
	d.stats.Elapsed = time.Since(start)
	d.stats.Frames++
}

// placeLight rotates the configured light position about Y by the current
// orbit angle and aims both the shading light and the shadow light at the
// origin.
func (d *Driver) placeLight() {
	l := d.cfg.Light
	d.light = math3d.RotateY(d.lightAngle).MulVec3(math3d.V3(l[0], l[1], l[2]))
	d.mapper.LookAt(0, 0, 0)
	d.mapper.MoveTo(d.light.X, d.light.Y, d.light.Z)
	d.renderer.MoveLight(d.light.X, d.light.Y, d.light.Z)
}

// drawOverlay outlines the bounds of every drawn leaf, the axes and the
// light position.
func (d *Driver) drawOverlay() {
	w := render.NewWireframe(d.color, d.renderer.Combined())
	d.scene.Walk(func(n *scene.Node) bool {
		if n.Kind() == scene.Leaf && n.Model() != nil {
			w.DrawBox(n.Bounds(), render.WireYellow)
		}
		return true
	})
	w.DrawAxes(5)
	w.DrawPoint(d.light, 4, render.WireRed)
}
