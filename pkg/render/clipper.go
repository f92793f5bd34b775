package render

import "github.com/taigrr/irregularz/pkg/math3d"

// minClipCapacity is enough for a triangle cut by five planes. A cut by all
// six can leave 9 vertices, which grows the scratch slices.
const minClipCapacity = 8

// Clipper cuts triangles against the planes of a frustum using
// Sutherland-Hodgman. A Clipper owns two scratch polygons that are reused on
// every call, so it must not be shared between goroutines.
type Clipper struct {
	frustum *Frustum
	a, b    []math3d.Vec3
}

// NewClipper creates a clipper for f.
func NewClipper(f *Frustum) *Clipper {
	return &Clipper{
		frustum: f,
		a:       make([]math3d.Vec3, 0, minClipCapacity),
		b:       make([]math3d.Vec3, 0, minClipCapacity),
	}
}

// Frustum returns the frustum the clipper cuts against.
func (c *Clipper) Frustum() *Frustum {
	return c.frustum
}

// Clip returns the convex polygon left after cutting triangle v0, v1, v2 by
// every plane it crosses. The result has 0 vertices when the triangle is
// rejected, the original 3 when no plane is violated, or a fan of up to 9.
// The returned slice is scratch storage and is overwritten by the next call.
func (c *Clipper) Clip(v0, v1, v2 math3d.Vec3) []math3d.Vec3 {
	c.a = append(c.a[:0], v0, v1, v2)

	mask, reject := c.mask(v0, v1, v2)
	if reject {
		return nil
	}
	if mask == 0 {
		return c.a
	}

	for i := range c.frustum.Planes {
		if mask&(1<<i) == 0 {
			continue
		}
		plane := c.frustum.Planes[i]

		c.b = c.b[:0]
		prev := c.a[0]
		prevDist := plane.Distance(prev)
		n := len(c.a)
		for k := 1; k <= n; k++ {
			cur := c.a[k%n]
			curDist := plane.Distance(cur)
			switch {
			case prevDist <= 0 && curDist <= 0:
				c.b = append(c.b, cur)
			case prevDist <= 0:
				c.b = append(c.b, prev.Lerp(cur, prevDist/(prevDist-curDist)))
			case curDist <= 0:
				c.b = append(c.b, prev.Lerp(cur, prevDist/(prevDist-curDist)), cur)
			}
			prev, prevDist = cur, curDist
		}

		if len(c.b) < 3 {
			return nil
		}
		c.a, c.b = c.b, c.a
	}

	return c.a
}

// mask returns a bit per plane that at least one vertex lies outside of, and
// whether some plane has all three vertices outside.
func (c *Clipper) mask(v0, v1, v2 math3d.Vec3) (mask int, reject bool) {
	for i := range c.frustum.Planes {
		p := c.frustum.Planes[i]
		count := 0
		for _, v := range [3]math3d.Vec3{v0, v1, v2} {
			if p.Outside(v) {
				count++
			}
		}
		if count == 3 {
			return 0, true
		}
		if count > 0 {
			mask |= 1 << i
		}
	}
	return mask, false
}
