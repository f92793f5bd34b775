package shadow

import (
	"math"

	"github.com/taigrr/irregularz/pkg/math3d"
)

// triangle is an occluder in grid space, prepared for point-in-triangle
// and depth queries at arbitrary sample positions.
type triangle struct {
	ok bool

	// inclusive bucket range
	minX, minY, maxX, maxY int

	// edge functions e(x, y) = a*x + b*y + c, non-negative inside
	a, b, c [3]float64

	z0, dz1, dz2 float64
	invArea      float64
}

// setup prepares the triangle over idx. It leaves t.ok false for triangles
// with a vertex at or behind the light, with an out of range index, facing
// away from the light, or outside the grid. limit is the last bucket index
// along each axis.
func (t *triangle) setup(vs []math3d.Vec4, idx []int, limit float64) {
	t.ok = false
	for _, i := range idx {
		if i < 0 || i >= len(vs) || !(vs[i].W > 0) {
			return
		}
	}
	v0, v1, v2 := vs[idx[0]], vs[idx[1]], vs[idx[2]]

	// Counter-clockwise faces come out clockwise in the y-down grid, with
	// negative area.
	area := (v1.X-v0.X)*(v2.Y-v0.Y) - (v1.Y-v0.Y)*(v2.X-v0.X)
	if !(area < 0) {
		return
	}
	v1, v2 = v2, v1
	area = -area

	minX := math.Floor(max(min(v0.X, v1.X, v2.X), 0))
	minY := math.Floor(max(min(v0.Y, v1.Y, v2.Y), 0))
	maxX := math.Floor(min(max(v0.X, v1.X, v2.X), limit))
	maxY := math.Floor(min(max(v0.Y, v1.Y, v2.Y), limit))
	if minX > maxX || minY > maxY {
		return
	}
	t.minX, t.minY, t.maxX, t.maxY = int(minX), int(minY), int(maxX), int(maxY)

	// Edge k is opposite vertex k.
	t.edge(0, v1, v2)
	t.edge(1, v2, v0)
	t.edge(2, v0, v1)

	t.z0 = v0.Z
	t.dz1 = v1.Z - v0.Z
	t.dz2 = v2.Z - v0.Z
	t.invArea = 1 / area
	t.ok = true
}

// edge sets edge function k for the directed edge p -> q.
func (t *triangle) edge(k int, p, q math3d.Vec4) {
	t.a[k] = p.Y - q.Y
	t.b[k] = q.X - p.X
	t.c[k] = (q.Y-p.Y)*p.X - (q.X-p.X)*p.Y
}

// covers reports whether (x, y) lies inside or on the triangle.
func (t *triangle) covers(x, y float64) bool {
	return t.a[0]*x+t.b[0]*y+t.c[0] >= 0 &&
		t.a[1]*x+t.b[1]*y+t.c[1] >= 0 &&
		t.a[2]*x+t.b[2]*y+t.c[2] >= 0
}

// depth interpolates the triangle's depth at (x, y).
func (t *triangle) depth(x, y float64) float64 {
	e1 := t.a[1]*x + t.b[1]*y + t.c[1]
	e2 := t.a[2]*x + t.b[2]*y + t.c[2]
	return t.z0 + (e1*t.dz1+e2*t.dz2)*t.invArea
}
