package render

import (
	"testing"

	"github.com/taigrr/irregularz/pkg/math3d"
)

func countSet(fb *ColorBuffer) int {
	n := 0
	for _, p := range fb.Pixels {
		if p != 0 {
			n++
		}
	}
	return n
}

func TestDrawLine3D(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 math3d.Vec3
		want   [][2]int
		count  int
	}{
		{
			name:  "horizontal",
			p1:    math3d.V3(2, 3, 0),
			p2:    math3d.V3(10, 3, 0),
			want:  [][2]int{{2, 3}, {6, 3}, {10, 3}},
			count: 9,
		},
		{
			name:  "diagonal",
			p1:    math3d.V3(0, 0, 0),
			p2:    math3d.V3(4, 4, 0),
			want:  [][2]int{{0, 0}, {2, 2}, {4, 4}},
			count: 5,
		},
		{
			name:  "clipped to the buffer",
			p1:    math3d.V3(-1000, 5, 0),
			p2:    math3d.V3(1000, 5, 0),
			want:  [][2]int{{0, 5}, {19, 5}},
			count: 20,
		},
		{
			name:  "outside",
			p1:    math3d.V3(-10, -10, 0),
			p2:    math3d.V3(-5, 30, 0),
			count: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewColorBuffer(20, 20)
			NewWireframe(fb, math3d.Identity()).DrawLine3D(tt.p1, tt.p2, WireRed)

			if got := countSet(fb); got != tt.count {
				t.Errorf("pixels set = %d, want %d", got, tt.count)
			}
			for _, p := range tt.want {
				if fb.At(p[0], p[1]) != WireRed {
					t.Errorf("pixel %v not drawn", p)
				}
			}
		})
	}
}

func TestDrawLine3DBehindEye(t *testing.T) {
	// w = z, so points with z <= 0 are behind the eye.
	m := math3d.Identity()
	m.Set(3, 2, 1)
	m.Set(3, 3, 0)

	fb := NewColorBuffer(20, 20)
	w := NewWireframe(fb, m)

	w.DrawLine3D(math3d.V3(5, 5, -1), math3d.V3(5, 5, -2), WireRed)
	if got := countSet(fb); got != 0 {
		t.Fatalf("segment behind the eye drew %d pixels", got)
	}

	// Crossing the eye plane keeps the visible half.
	w.DrawLine3D(math3d.V3(5, 5, 1), math3d.V3(5, 5, -1), WireRed)
	if fb.At(5, 5) != WireRed {
		t.Error("visible end not drawn")
	}
}

func TestDrawBox(t *testing.T) {
	fb := NewColorBuffer(20, 20)
	w := NewWireframe(fb, math3d.Identity())
	w.DrawBox(NewAABB(math3d.V3(2, 2, 0), math3d.V3(8, 6, 1)), WireYellow)

	for _, p := range [][2]int{{2, 2}, {8, 2}, {2, 6}, {8, 6}, {5, 2}, {2, 4}} {
		if fb.At(p[0], p[1]) != WireYellow {
			t.Errorf("outline pixel %v not drawn", p)
		}
	}
	if fb.At(5, 4) != 0 {
		t.Error("interior pixel drawn")
	}

	before := countSet(fb)
	w.DrawBox(EmptyAABB(), WireRed)
	if countSet(fb) != before {
		t.Error("empty box drew pixels")
	}
}
