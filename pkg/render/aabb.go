package render

import (
	"math"

	"github.com/taigrr/irregularz/pkg/math3d"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns a box that contains nothing. Extending it with a point
// yields a box around that point.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: math3d.V3(inf, inf, inf),
		Max: math3d.V3(-inf, -inf, -inf),
	}
}

// Empty reports whether the box has no extent on some axis.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to include p.
func (b *AABB) Extend(p math3d.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Union grows the box to include o. Empty boxes are ignored.
func (b *AABB) Union(o AABB) {
	if o.Empty() {
		return
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the 8 corners of the box.
func (b AABB) Corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Transform returns the box bounding all 8 corners of b after transformation
// by m. An empty box stays empty.
func (b AABB) Transform(m math3d.Mat4) AABB {
	out := EmptyAABB()
	if b.Empty() {
		return out
	}
	for _, c := range b.Corners() {
		out.Extend(m.MulVec3(c))
	}
	return out
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// BoundsOf returns the box around a flat xyz vertex buffer.
func BoundsOf(vertices []float64) AABB {
	b := EmptyAABB()
	for i := 0; i+2 < len(vertices); i += 3 {
		b.Extend(math3d.V3(vertices[i], vertices[i+1], vertices[i+2]))
	}
	return b
}
