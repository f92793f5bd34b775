// Package models holds triangle geometry and the loaders that produce it.
package models

import (
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/render"
)

// Mesh is an indexed triangle list drawn with a single material.
// Vertices holds xyz triples in model space and Indices one triple per
// triangle. A mesh must not be modified after construction; Bounds is
// computed once by NewMesh.
type Mesh struct {
	Name     string
	Vertices []float64
	Indices  []int
	Material render.Material
	Bounds   render.AABB
}

// NewMesh creates a mesh and computes its bounding box.
func NewMesh(name string, vertices []float64, indices []int, material render.Material) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
		Material: material,
		Bounds:   render.BoundsOf(vertices),
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) math3d.Vec3 {
	return math3d.V3(m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2])
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = append([]float64(nil), m.Vertices...)
	clone.Indices = append([]int(nil), m.Indices...)
	return &clone
}

// Model is a named set of meshes, one per material.
type Model struct {
	Name   string
	Meshes []*Mesh
}

// NewModel creates a model from meshes.
func NewModel(name string, meshes ...*Mesh) *Model {
	return &Model{Name: name, Meshes: meshes}
}

// Bounds returns the union of the mesh bounds.
func (m *Model) Bounds() render.AABB {
	box := render.EmptyAABB()
	for _, mesh := range m.Meshes {
		box.Union(mesh.Bounds)
	}
	return box
}

// TriangleCount returns the number of triangles over all meshes.
func (m *Model) TriangleCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += mesh.TriangleCount()
	}
	return n
}

// VertexCount returns the number of vertices over all meshes.
func (m *Model) VertexCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += mesh.VertexCount()
	}
	return n
}

// Fit returns a transform that centers the model on the origin and scales
// its largest dimension to size. Empty or flat-to-a-point models are only
// centered.
func (m *Model) Fit(size float64) math3d.Mat4 {
	box := m.Bounds()
	if box.Empty() {
		return math3d.Identity()
	}

	center := box.Center()
	largest := box.Size().MaxComponent()

	translate := math3d.Translate(center.Negate())
	if largest <= 0 {
		return translate
	}
	return math3d.ScaleUniform(size / largest).Mul(translate)
}
