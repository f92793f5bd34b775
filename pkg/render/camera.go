package render

import (
	"math"

	"github.com/taigrr/irregularz/pkg/math3d"
)

// Camera is a perspective eye placed at Position and aimed at Target.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates a camera at (0, 0, 1) looking at the origin.
func NewCamera(fov, aspect, near, far float64) *Camera {
	c := &Camera{
		Position:  math3d.V3(0, 0, 1),
		Target:    math3d.Zero3(),
		viewDirty: true,
	}
	c.SetFOV(fov)
	c.SetAspectRatio(aspect)
	c.SetClipPlanes(near, far)
	return c
}

// MoveTo places the camera at (x, y, z).
func (c *Camera) MoveTo(x, y, z float64) {
	c.Position = math3d.V3(x, y, z)
	c.viewDirty = true
}

// LookAt aims the camera at (x, y, z).
func (c *Camera) LookAt(x, y, z float64) {
	c.Target = math3d.V3(x, y, z)
	c.viewDirty = true
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio. Non-positive ratios are replaced
// with 1.
func (c *Camera) SetAspectRatio(aspect float64) {
	if !(aspect > 0) {
		aspect = 1
	}
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes. A far plane in front
// of the near plane is pulled back onto it.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = math.Max(far, near)
	c.projDirty = true
}

// Forward returns the unit direction from Position toward Target.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		up := math3d.Up()
		if c.Forward().Cross(up).LenSq() < 1e-12 {
			// Looking straight up or down.
			up = math3d.V3(0, 0, -1)
		}
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, up)
		c.viewDirty = false
		c.viewProjDirty = true
	}
	return c.viewMatrix
}

// ProjectionMatrix returns a projection with depth in [0, 1].
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.PerspectiveZO(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
		c.viewProjDirty = true
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix()
	if c.viewProjDirty {
		c.viewProjMatrix = proj.Mul(view)
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// Frustum returns the camera's view frustum.
func (c *Camera) Frustum() *Frustum {
	return NewFrustum(c.ViewProjectionMatrix())
}

// Apply loads the camera's matrices into r.
func (c *Camera) Apply(r *Renderer) {
	r.SetView(c.ViewMatrix())
	r.SetProjection(c.ProjectionMatrix())
}
