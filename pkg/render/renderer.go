package render

import (
	"math"

	"github.com/taigrr/irregularz/pkg/math3d"
)

// RenderStats counts the work done by a Renderer since the last reset.
type RenderStats struct {
	Triangles int // triangles submitted
	Rejected  int // triangles removed entirely by the clipper
	Skipped   int // polygons with a vertex at or behind the eye plane
	Fragments int // pixels that passed the depth test
}

// Renderer rasterizes flat-shaded triangles into a color and a depth buffer.
// It is not safe for concurrent use: the depth test is a read-modify-write on
// shared buffers.
type Renderer struct {
	color *ColorBuffer
	depth *DepthBuffer

	view       math3d.Mat4
	projection math3d.Mat4
	viewport   math3d.Mat4
	combined   math3d.Mat4
	dirty      bool

	toLight  math3d.Vec3
	ambient  int
	material Material
	clipper  *Clipper

	screen []math3d.Vec3
	stats  RenderStats
}

// NewRenderer creates a renderer drawing into color and depth, which must
// have the same dimensions.
func NewRenderer(color *ColorBuffer, depth *DepthBuffer) *Renderer {
	r := &Renderer{
		view:       math3d.Identity(),
		projection: math3d.Identity(),
		toLight:    math3d.Up(),
		ambient:    DefaultAmbientLevel,
		material:   DefaultMaterial(),
		screen:     make([]math3d.Vec3, 0, minClipCapacity),
	}
	r.SetTarget(color, depth)
	return r
}

// SetTarget switches the buffers drawn into and updates the viewport.
func (r *Renderer) SetTarget(color *ColorBuffer, depth *DepthBuffer) {
	r.color = color
	r.depth = depth
	r.viewport = math3d.Viewport(color.Width, color.Height)
	r.dirty = true
}

// ColorBuffer returns the color target.
func (r *Renderer) ColorBuffer() *ColorBuffer { return r.color }

// DepthBuffer returns the depth target.
func (r *Renderer) DepthBuffer() *DepthBuffer { return r.depth }

// SetView sets the view matrix.
func (r *Renderer) SetView(m math3d.Mat4) {
	r.view = m
	r.dirty = true
}

// SetProjection sets the projection matrix. It owns the depth convention:
// the renderer only compares depths and expects near < far within [0, 1].
func (r *Renderer) SetProjection(m math3d.Mat4) {
	r.projection = m
	r.dirty = true
}

// View returns the view matrix.
func (r *Renderer) View() math3d.Mat4 { return r.view }

// Projection returns the projection matrix.
func (r *Renderer) Projection() math3d.Mat4 { return r.projection }

// Viewport returns the viewport matrix of the current target.
func (r *Renderer) Viewport() math3d.Mat4 { return r.viewport }

// Combined returns viewport * projection * view, mapping world space to
// pixel space.
func (r *Renderer) Combined() math3d.Mat4 {
	if r.dirty {
		r.combined = r.viewport.Mul(r.projection).Mul(r.view)
		r.dirty = false
	}
	return r.combined
}

// Frustum returns the camera frustum for the current view and projection.
func (r *Renderer) Frustum() *Frustum {
	return NewFrustum(r.projection.Mul(r.view))
}

// SetClipper enables clipping against c, or disables it when c is nil.
func (r *Renderer) SetClipper(c *Clipper) {
	r.clipper = c
}

// SetMaterial sets the material used by subsequent Render calls.
func (r *Renderer) SetMaterial(m Material) {
	r.material = m
}

// SetAmbientLevel sets the ambient share of the diffuse color, in [0, 255].
func (r *Renderer) SetAmbientLevel(ka int) {
	r.ambient = clampInt(ka, 0, 255)
}

// MoveLight places the directional light so that it shines from (x, y, z)
// toward the origin.
func (r *Renderer) MoveLight(x, y, z float64) {
	if l := math3d.V3(x, y, z).Normalize(); l != math3d.Zero3() {
		r.toLight = l
	}
}

// Clear fills the color buffer with the opaque 0xRRGGBB color rgb and resets
// every depth sample to the far plane.
func (r *Renderer) Clear(rgb uint32) {
	r.color.Fill(PackRGB(rgb))
	r.depth.Fill(1)
}

// Stats returns the counters accumulated since the last ResetStats.
func (r *Renderer) Stats() RenderStats { return r.stats }

// ResetStats zeroes the counters.
func (r *Renderer) ResetStats() { r.stats = RenderStats{} }

// Render draws the triangles of an indexed mesh. vertices holds xyz triples in
// model space; indices holds one triple per triangle. Triangles with an
// index out of range are ignored.
func (r *Renderer) Render(world math3d.Mat4, vertices []float64, indices []int) {
	matrix := r.Combined()
	count := len(vertices) / 3

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if !validIndex(i0, count) || !validIndex(i1, count) || !validIndex(i2, count) {
			continue
		}
		r.stats.Triangles++

		v0 := world.MulVec3(vertexAt(vertices, i0))
		v1 := world.MulVec3(vertexAt(vertices, i1))
		v2 := world.MulVec3(vertexAt(vertices, i2))

		color := Shade(r.ambient, illumination(r.toLight, v0, v1, v2), r.material)
		r.polygon(matrix, v0, v1, v2, color)
	}
}

func (r *Renderer) polygon(matrix math3d.Mat4, v0, v1, v2 math3d.Vec3, color uint32) {
	tri := [3]math3d.Vec3{v0, v1, v2}
	poly := tri[:]
	if r.clipper != nil {
		poly = r.clipper.Clip(v0, v1, v2)
		if len(poly) < 3 {
			r.stats.Rejected++
			return
		}
	}

	screen := r.screen[:0]
	for _, p := range poly {
		h := matrix.MulVec4(math3d.V4FromV3(p, 1))
		if !(h.W > 0) {
			r.stats.Skipped++
			return
		}
		screen = append(screen, math3d.V3(h.X/h.W, h.Y/h.W, h.Z/h.W))
	}
	r.screen = screen

	for k := 1; k+1 < len(screen); k++ {
		r.scanOrder(screen[0], screen[k], screen[k+1], color)
	}
}

// scanOrder sorts the triangle top to bottom and records on which side the
// long edge lies. Counter-clockwise triangles in world space arrive clockwise
// in the y-down screen; the other winding produces empty spans.
func (r *Renderer) scanOrder(v0, v1, v2 math3d.Vec3, color uint32) {
	g, ok := newGradients(v0, v1, v2)
	if !ok {
		return
	}

	if v0.Y < v1.Y {
		switch {
		case v2.Y < v0.Y:
			r.scan(&g, v2, v0, v1, true, color)
		case v1.Y < v2.Y:
			r.scan(&g, v0, v1, v2, true, color)
		default:
			r.scan(&g, v0, v2, v1, false, color)
		}
		return
	}

	switch {
	case v2.Y < v1.Y:
		r.scan(&g, v2, v1, v0, false, color)
	case v0.Y < v2.Y:
		r.scan(&g, v1, v0, v2, false, color)
	default:
		r.scan(&g, v1, v2, v0, true, color)
	}
}

// scan walks a triangle sorted by Y. The long edge runs top to bottom; the
// two short edges cover the upper and lower halves. When swap is set the
// short edges are on the left.
func (r *Renderer) scan(g *gradients, top, mid, bottom math3d.Vec3, swap bool, color uint32) {
	var long, short edge
	if long.configure(top, bottom, g) <= 0 {
		return
	}

	if short.configure(top, mid, g) > 0 {
		r.spans(g, &long, &short, swap, color)
	}
	if short.configure(mid, bottom, g) > 0 {
		r.spans(g, &long, &short, swap, color)
	}
}

// spans fills the rows covered by short. Pixel (x, y) is covered when
// ceil(left) <= x < ceil(right).
func (r *Renderer) spans(g *gradients, long, short *edge, swap bool, color uint32) {
	left, right := long, short
	if swap {
		left, right = short, long
	}

	width := r.color.Width
	height := r.color.Height
	y := short.y
	for n := short.height; n > 0; n-- {
		if y >= 0 && y < height {
			start := int(math.Ceil(left.x))
			end := int(math.Ceil(right.x))
			start = max(start, 0)
			end = min(end, width)
			if end > start {
				offset := y*width + start
				z := left.z + (float64(start)-left.x)*g.dzdx
				for x := start; x < end; x++ {
					if z < r.depth.Values[offset] {
						r.depth.Values[offset] = z
						r.color.Pixels[offset] = color
						r.stats.Fragments++
					}
					z += g.dzdx
					offset++
				}
			}
		}

		left.x += left.xStep
		left.z += left.zStep
		right.x += right.xStep
		right.z += right.zStep
		y++
	}
}

// gradients holds the screen-space depth slopes of a triangle.
type gradients struct {
	dzdx float64
	dzdy float64
}

// newGradients derives depth slopes from the plane through the three screen
// vertices. It reports false for triangles with no screen area.
func newGradients(s0, s1, s2 math3d.Vec3) (gradients, bool) {
	ax, ay, az := s0.X-s2.X, s0.Y-s2.Y, s0.Z-s2.Z
	bx, by, bz := s1.X-s2.X, s1.Y-s2.Y, s1.Z-s2.Z
	d := bx*ay - ax*by
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return gradients{}, false
	}
	inv := 1 / d
	return gradients{
		dzdx: (bz*ay - az*by) * inv,
		dzdy: (az*bx - bz*ax) * inv,
	}, true
}

// edge steps along one side of a triangle, one scanline at a time.
type edge struct {
	y      int
	height int
	x      float64
	z      float64
	xStep  float64
	zStep  float64
}

// configure positions the edge a-b on the first scanline at or below a.Y and
// returns the number of scanlines it covers.
func (e *edge) configure(a, b math3d.Vec3, g *gradients) int {
	e.y = int(math.Ceil(a.Y))
	e.height = int(math.Ceil(b.Y)) - e.y
	if e.height <= 0 {
		return e.height
	}

	e.xStep = (b.X - a.X) / (b.Y - a.Y)
	e.zStep = e.xStep*g.dzdx + g.dzdy

	dy := float64(e.y) - a.Y
	e.x = e.xStep*dy + a.X
	e.z = dy*g.dzdy + (e.x-a.X)*g.dzdx + a.Z
	return e.height
}

func validIndex(i, count int) bool {
	return i >= 0 && i < count
}

func vertexAt(vertices []float64, i int) math3d.Vec3 {
	return math3d.V3(vertices[i*3], vertices[i*3+1], vertices[i*3+2])
}
