// Package render implements the software pipeline: frustum culling, triangle
// clipping, scanline rasterization into packed color and depth buffers, and
// presentation of the finished frame.
package render

import (
	"github.com/taigrr/irregularz/pkg/math3d"
)

// Plane is a half-space boundary with a unit normal. A point p lies outside
// when Normal·p > D.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane equation so the normal has unit length.
// Zero-length planes are left untouched.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// Distance returns Normal·point - D. Positive values are outside.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) - p.D
}

// Outside reports whether point lies strictly on the outer side of the plane.
func (p Plane) Outside(point math3d.Vec3) bool {
	return p.Distance(point) > 0
}

// Intersect returns the point where segment a-b crosses the plane.
// The caller guarantees a and b lie on opposite sides.
func (p Plane) Intersect(a, b math3d.Vec3) math3d.Vec3 {
	da := p.Distance(a)
	db := p.Distance(b)
	t := da / (da - db)
	return a.Lerp(b, t)
}

// Containment classifies a volume against a frustum.
type Containment int

const (
	Outside Containment = iota
	Inside
	Partial
)

func (c Containment) String() string {
	switch c {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	case Partial:
		return "partial"
	}
	return "unknown"
}

// Frustum holds the six planes of a view volume.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
type Frustum struct {
	Planes [6]Plane
}

// Plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustum extracts the frustum planes from a combined view-projection
// matrix whose clip-space depth range is [0, w] (see math3d.PerspectiveZO).
// Uses the Gribb/Hartmann method; no trigonometry is involved.
func NewFrustum(m math3d.Mat4) *Frustum {
	// For column-major m, row i is m[i], m[i+4], m[i+8], m[i+12].
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	r0, w0 := row(0)
	r1, w1 := row(1)
	r2, w2 := row(2)
	r3, w3 := row(3)

	// Each inward half-space is n·p + w >= 0. Flipping the normal turns it into
	// the outward form used throughout the pipeline: -n·p > w means outside.
	inward := [6]struct {
		n math3d.Vec3
		w float64
	}{
		FrustumLeft:   {r3.Add(r0), w3 + w0},
		FrustumRight:  {r3.Sub(r0), w3 - w0},
		FrustumBottom: {r3.Add(r1), w3 + w1},
		FrustumTop:    {r3.Sub(r1), w3 - w1},
		FrustumNear:   {r2, w2},
		FrustumFar:    {r3.Sub(r2), w3 - w2},
	}

	f := &Frustum{}
	for i, in := range inward {
		f.Planes[i] = Plane{Normal: in.n.Negate(), D: in.w}
		f.Planes[i].Normalize()
	}
	return f
}

// Evaluate classifies box against the frustum by testing all 8 corners
// against all 6 planes. A box is Outside when every corner lies outside a
// single plane, Inside when no corner lies outside any plane, and Partial
// otherwise. Partial is conservative: it may include boxes that are entirely
// outside but straddle several planes.
func (f *Frustum) Evaluate(box AABB) Containment {
	if box.Empty() {
		return Outside
	}

	corners := box.Corners()
	total := 0
	for i := range f.Planes {
		count := 0
		for _, c := range corners {
			if f.Planes[i].Outside(c) {
				count++
			}
		}
		if count == len(corners) {
			return Outside
		}
		total += count
	}

	if total == 0 {
		return Inside
	}
	return Partial
}

// ContainsPoint reports whether p is inside or on every plane.
func (f *Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].Outside(p) {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere touches the frustum.
func (f *Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].Distance(center) > radius {
			return false
		}
	}
	return true
}
