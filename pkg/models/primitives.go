package models

import (
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/render"
)

// NewQuad builds a square of the given edge length in the XZ plane,
// centered on the origin and facing +Y.
func NewQuad(size float64, material render.Material) *Model {
	h := size / 2
	vertices := []float64{
		-h, 0, -h,
		-h, 0, h,
		h, 0, h,
		h, 0, -h,
	}
	indices := []int{0, 1, 2, 0, 2, 3}
	return NewModel("quad", NewMesh(material.Name, vertices, indices, material))
}

// boxFaces lists each face of a box as a counter-clockwise quad seen from
// outside. Corner i has x, y and z taken from bits 0, 1 and 2.
var boxFaces = [6][4]int{
	{0, 4, 6, 2}, // -X
	{1, 3, 7, 5}, // +X
	{0, 1, 5, 4}, // -Y
	{2, 6, 7, 3}, // +Y
	{0, 2, 3, 1}, // -Z
	{4, 5, 7, 6}, // +Z
}

// NewBox builds an axis-aligned box with the given dimensions, centered on
// the origin, with outward-facing triangles.
func NewBox(size math3d.Vec3, material render.Material) *Model {
	h := size.Scale(0.5)
	vertices := make([]float64, 0, 8*3)
	for i := range 8 {
		x, y, z := -h.X, -h.Y, -h.Z
		if i&1 != 0 {
			x = h.X
		}
		if i&2 != 0 {
			y = h.Y
		}
		if i&4 != 0 {
			z = h.Z
		}
		vertices = append(vertices, x, y, z)
	}

	indices := make([]int, 0, len(boxFaces)*6)
	for _, f := range boxFaces {
		indices = append(indices, f[0], f[1], f[2], f[0], f[2], f[3])
	}
	return NewModel("box", NewMesh(material.Name, vertices, indices, material))
}
