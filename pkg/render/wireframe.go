package render

import (
	"math"

	"github.com/taigrr/irregularz/pkg/math3d"
)

// Overlay colors, packed.
var (
	WireRed    = PackRGB(0xFF3030)
	WireGreen  = PackRGB(0x30FF30)
	WireBlue   = PackRGB(0x3080FF)
	WireYellow = PackRGB(0xFFE030)
)

// minW keeps projected line ends in front of the eye.
const minW = 1e-6

// Wireframe draws unshaded lines over a color buffer, ignoring depth. It is
// used for debug overlays such as bounding boxes and the light position.
type Wireframe struct {
	fb     *ColorBuffer
	matrix math3d.Mat4
}

// NewWireframe creates a wireframe drawer for fb. combined maps world space
// to pixel space, as returned by Renderer.Combined.
func NewWireframe(fb *ColorBuffer, combined math3d.Mat4) *Wireframe {
	return &Wireframe{fb: fb, matrix: combined}
}

// DrawLine3D draws the segment p1-p2. Parts behind the eye are cut off.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color uint32) {
	a := w.matrix.MulVec4(math3d.V4FromV3(p1, 1))
	b := w.matrix.MulVec4(math3d.V4FromV3(p2, 1))

	switch {
	case a.W < minW && b.W < minW:
		return
	case a.W < minW:
		a = b.Lerp(a, (b.W-minW)/(b.W-a.W))
	case b.W < minW:
		b = a.Lerp(b, (a.W-minW)/(a.W-b.W))
	}

	x0, y0 := a.X/a.W, a.Y/a.W
	x1, y1 := b.X/b.W, b.Y/b.W
	if !clipSegment(&x0, &y0, &x1, &y1, float64(w.fb.Width-1), float64(w.fb.Height-1)) {
		return
	}
	w.fb.DrawLine(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), color)
}

// boxEdges lists the 12 edges of a box by corner index, as ordered by
// AABB.Corners.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// DrawBox outlines an axis-aligned box. Empty boxes are skipped.
func (w *Wireframe) DrawBox(b AABB, color uint32) {
	if b.Empty() {
		return
	}
	corners := b.Corners()
	for _, e := range boxEdges {
		w.DrawLine3D(corners[e[0]], corners[e[1]], color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), WireRed)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), WireGreen)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), WireBlue)
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color uint32) {
	h := size / 2
	w.DrawLine3D(math3d.V3(pos.X-h, pos.Y, pos.Z), math3d.V3(pos.X+h, pos.Y, pos.Z), color)
	w.DrawLine3D(math3d.V3(pos.X, pos.Y-h, pos.Z), math3d.V3(pos.X, pos.Y+h, pos.Z), color)
	w.DrawLine3D(math3d.V3(pos.X, pos.Y, pos.Z-h), math3d.V3(pos.X, pos.Y, pos.Z+h), color)
}

// DrawLine draws a Bresenham line between two pixels. Pixels outside the
// buffer are skipped.
func (fb *ColorBuffer) DrawLine(x0, y0, x1, y1 int, p uint32) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.Set(x0, y0, p)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipSegment trims a segment to [0, maxX] x [0, maxY] (Liang-Barsky). It
// reports false when nothing is left.
func clipSegment(x0, y0, x1, y1 *float64, maxX, maxY float64) bool {
	if maxX < 0 || maxY < 0 {
		return false
	}
	dx, dy := *x1-*x0, *y1-*y0
	t0, t1 := 0.0, 1.0
	for _, c := range [4][2]float64{
		{-dx, *x0},
		{dx, maxX - *x0},
		{-dy, *y0},
		{dy, maxY - *y0},
	} {
		p, q := c[0], c[1]
		if p == 0 {
			if q < 0 {
				return false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
		if t0 > t1 {
			return false
		}
	}
	if math.IsNaN(t0) || math.IsNaN(t1) {
		return false
	}
	*x1, *y1 = *x0+t1*dx, *y0+t1*dy
	*x0, *y0 = *x0+t0*dx, *y0+t0*dy
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
