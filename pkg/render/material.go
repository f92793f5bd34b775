package render

import (
	"math"

	"github.com/taigrr/irregularz/pkg/math3d"
)

// Default material colors, as 0xRRGGBB.
const (
	DefaultAmbient = 0x080808
	DefaultDiffuse = 0xFFFFFF
)

// DefaultAmbientLevel is the share of the diffuse color a face keeps when it
// faces away from the light, out of 256.
const DefaultAmbientLevel = 127

// Material is the flat color of a mesh. Colors are 0xRRGGBB.
type Material struct {
	Name    string
	Ambient uint32
	Diffuse uint32
}

// DefaultMaterial returns a white material with a dim ambient term.
func DefaultMaterial() Material {
	return Material{Name: "default", Ambient: DefaultAmbient, Diffuse: DefaultDiffuse}
}

// Shade blends a material into one packed pixel. ka is the ambient level and
// kd the diffuse intensity, both in [0, 255].
func Shade(ka, kd int, m Material) uint32 {
	channel := func(shift uint) uint8 {
		d := int(m.Diffuse>>shift) & 0xFF
		a := int(m.Ambient>>shift) & 0xFF
		return uint8(clampInt((ka*d+kd*d)>>8+a, 0, 255))
	}
	return Pack(channel(16), channel(8), channel(0))
}

// illumination returns the Lambert term of a counter-clockwise triangle in
// [0, 255]. toLight must be a unit vector. Degenerate triangles receive no
// light.
func illumination(toLight, v0, v1, v2 math3d.Vec3) int {
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	l := n.Len()
	if l == 0 {
		return 0
	}
	dot := toLight.Dot(n) / l
	return int(math.Max(0, math.Min(1, dot)) * 255)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
