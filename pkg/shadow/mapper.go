// Package shadow computes per-pixel shadows with an irregular z-buffer:
// camera depth samples are reprojected into a light-space grid, and the
// scene is rasterized from the light against those exact sample positions
// instead of a fixed-resolution depth texture.
package shadow

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/taigrr/irregularz/pkg/logging"
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/parallel"
	"github.com/taigrr/irregularz/pkg/render"
	"github.com/taigrr/irregularz/pkg/scene"
)

// Defaults for the tuning knobs.
const (
	DefaultSize = 256
	DefaultBias = 0.00005
)

// DefaultDarken halves every color channel and keeps the pixel opaque.
func DefaultDarken(p uint32) uint32 {
	return 0xFF000000 | (p>>1)&0x7F7F7F
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithBias sets the depth bias added to an occluder before it is compared
// with a sample. Larger values trade acne for detached shadows.
func WithBias(bias float64) Option {
	return func(m *Mapper) { m.bias = bias }
}

// WithDarken sets the function applied to shadowed pixels.
func WithDarken(fn func(uint32) uint32) Option {
	return func(m *Mapper) {
		if fn != nil {
			m.darken = fn
		}
	}
}

// WithLens sets the light's vertical field of view and clip planes.
func WithLens(fovy, near, far float64) Option {
	return func(m *Mapper) {
		m.light.SetFOV(fovy)
		m.light.SetClipPlanes(near, far)
	}
}

// Stats describes the last shadow pass.
type Stats struct {
	Samples   int // camera samples inserted into the grid
	Dropped   int // camera samples that fell outside the light's view
	Triangles int // front-facing occluder triangles tested
	Shadowed  int // camera pixels darkened
}

// Mapper renders the scene from a light and darkens the camera pixels it
// cannot see. It implements scene.Visualizer for the light pass. A Mapper
// is not safe for concurrent use; it parallelizes internally on its pool.
type Mapper struct {
	size     int
	pool     *parallel.Pool
	bias     float64
	darken   func(uint32) uint32
	light    *render.Camera
	viewport math3d.Mat4
	grid     *Grid
	mask     []uint8

	transformed []math3d.Vec4
	triangles   []triangle
	shadowed    atomic.Int64
	stats       Stats
}

// NewMapper creates a mapper with a size x size light grid. pool may be nil
// to run every stage on the calling goroutine.
func NewMapper(size int, pool *parallel.Pool, opts ...Option) *Mapper {
	if size <= 0 {
		size = DefaultSize
	}
	m := &Mapper{
		size:     size,
		pool:     pool,
		bias:     DefaultBias,
		darken:   DefaultDarken,
		light:    render.NewCamera(math.Pi/4, 1, 1, 1000),
		viewport: math3d.Viewport(size, size),
		grid:     NewGrid(size),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MoveTo places the light at (x, y, z).
func (m *Mapper) MoveTo(x, y, z float64) { m.light.MoveTo(x, y, z) }

// LookAt aims the light at (x, y, z).
func (m *Mapper) LookAt(x, y, z float64) { m.light.LookAt(x, y, z) }

// Light returns the light's vantage point.
func (m *Mapper) Light() *render.Camera { return m.light }

// Grid returns the sample grid.
func (m *Mapper) Grid() *Grid { return m.grid }

// Frustum returns the light's view frustum.
func (m *Mapper) Frustum() *render.Frustum { return m.light.Frustum() }

// Combined returns viewport * projection * view for the light, mapping world
// space to grid space.
func (m *Mapper) Combined() math3d.Mat4 {
	return m.viewport.Mul(m.light.ViewProjectionMatrix())
}

// Stats returns the counters of the last pass.
func (m *Mapper) Stats() Stats {
	s := m.stats
	s.Shadowed = int(m.shadowed.Load())
	return s
}

// Shadow darkens the pixels of color that the light cannot see. depth must
// be the depth buffer rendered with cameraCombined (viewport * projection *
// view) and have the same dimensions as color. The stages run in order:
// grid generation, the light pass over sc, and post-processing.
func (m *Mapper) Shadow(sc *scene.Scene, color *render.ColorBuffer, depth *render.DepthBuffer, cameraCombined math3d.Mat4) {
	if color.Width != depth.Width || color.Height != depth.Height {
		logging.Logger().Warn("shadow pass skipped: buffer size mismatch",
			"color", [2]int{color.Width, color.Height},
			"depth", [2]int{depth.Width, depth.Height})
		return
	}
	log := logging.Logger()

	start := time.Now()
	m.Generate(depth, cameraCombined)
	generated := time.Now()

	sc.Render(m, m.Frustum())
	rendered := time.Now()

	m.PostProcess(color)

	log.Debug("shadow pass",
		"generate", generated.Sub(start),
		"render", rendered.Sub(generated),
		"postprocess", time.Since(rendered),
		"samples", m.stats.Samples,
		"dropped", m.stats.Dropped,
		"shadowed", m.shadowed.Load())
}

// Generate rebuilds the grid from a camera depth buffer. Every pixel
// nearer than the far plane is unprojected with the inverse of
// cameraCombined and reprojected into the light's grid; samples landing
// outside the grid are dropped.
func (m *Mapper) Generate(depth *render.DepthBuffer, cameraCombined math3d.Mat4) {
	n := depth.Size()
	if len(m.mask) < n {
		m.mask = make([]uint8, n)
	}
	clear(m.mask[:n])
	m.stats = Stats{}
	m.shadowed.Store(0)

	if m.grid.Cap() < n {
		logging.Logger().Debug("shadow grid grown", "samples", n)
	}
	m.grid.Reset(n)

	toLight := m.Combined().Mul(cameraCombined.Inverse())
	for y := range depth.Height {
		row := y * depth.Width
		for x := range depth.Width {
			z := depth.Values[row+x]
			if z >= 1 {
				continue
			}
			p := toLight.MulVec4(math3d.V4(float64(x), float64(y), z, 1))
			if p.W > 0 && m.grid.Insert(p.X/p.W, p.Y/p.W, p.Z/p.W, row+x) {
				m.stats.Samples++
			} else {
				m.stats.Dropped++
			}
		}
	}
}

// SetClipper is a no-op: occluders are bounded by the grid instead.
func (m *Mapper) SetClipper(*render.Clipper) {}

// SetMaterial is a no-op: occluders have no color.
func (m *Mapper) SetMaterial(render.Material) {}

// Render tests one mesh, as an occluder, against the grid. Vertices are
// transformed in parallel vertex ranges and triangles set up in parallel
// triangle ranges; after that barrier the grid is swept in parallel row
// ranges so that each worker owns the buckets it unlinks from.
func (m *Mapper) Render(world math3d.Mat4, vertices []float64, indices []int) {
	matrix := m.Combined().Mul(world)

	nv := len(vertices) / 3
	if cap(m.transformed) < nv {
		m.transformed = make([]math3d.Vec4, nv)
	}
	m.transformed = m.transformed[:nv]
	m.pool.Range(nv, func(start, end int) {
		for i := start; i < end; i++ {
			v := matrix.MulVec4(math3d.V4(vertices[i*3], vertices[i*3+1], vertices[i*3+2], 1))
			if v.W > 0 {
				v = math3d.V4(v.X/v.W, v.Y/v.W, v.Z/v.W, v.W)
			}
			m.transformed[i] = v
		}
	})

	nt := len(indices) / 3
	if cap(m.triangles) < nt {
		m.triangles = make([]triangle, nt)
	}
	m.triangles = m.triangles[:nt]
	limit := float64(m.size - 1)
	m.pool.Range(nt, func(start, end int) {
		for i := start; i < end; i++ {
			m.triangles[i].setup(m.transformed, indices[i*3:i*3+3], limit)
		}
	})

	for i := range m.triangles {
		if m.triangles[i].ok {
			m.stats.Triangles++
		}
	}

	m.pool.Range(m.size, func(rowStart, rowEnd int) {
		for i := range m.triangles {
			t := &m.triangles[i]
			if !t.ok || t.maxY < rowStart || t.minY >= rowEnd {
				continue
			}
			hit := func(c *cell) bool {
				if !t.covers(c.x, c.y) || !(c.z > t.depth(c.x, c.y)+m.bias) {
					return false
				}
				m.mask[c.offset] = 1
				return true
			}
			for by := max(t.minY, rowStart); by <= min(t.maxY, rowEnd-1); by++ {
				for bx := t.minX; bx <= t.maxX; bx++ {
					m.grid.sweep(by*m.size+bx, hit)
				}
			}
		}
	})
}

// PostProcess darkens every flagged pixel of color and clears its flag, in
// parallel row ranges.
func (m *Mapper) PostProcess(color *render.ColorBuffer) {
	n := min(color.Size(), len(m.mask))
	width := color.Width
	m.pool.Range(color.Height, func(start, end int) {
		count := 0
		for y := start; y < end; y++ {
			for o := y * width; o < min((y+1)*width, n); o++ {
				if m.mask[o] == 0 {
					continue
				}
				color.Pixels[o] = m.darken(color.Pixels[o])
				m.mask[o] = 0
				count++
			}
		}
		m.shadowed.Add(int64(count))
	})
}

// Occluded reports whether the pixel at offset is flagged and waiting for
// PostProcess.
func (m *Mapper) Occluded(offset int) bool {
	return offset >= 0 && offset < len(m.mask) && m.mask[offset] != 0
}
