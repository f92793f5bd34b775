package models

import (
	"fmt"

	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/render"
)

// Assembler collects positions and material-tagged triangles and compiles
// them into a Model with one mesh per material. Vertices shared by several
// triangles of the same material are stored once.
type Assembler struct {
	positions []math3d.Vec3
	triangles []triangle
	material  render.Material
}

type triangle struct {
	v        [3]int
	material render.Material
}

// NewAssembler creates an assembler using the default material.
func NewAssembler() *Assembler {
	return &Assembler{material: render.DefaultMaterial()}
}

// AddVertex appends a position and returns its index.
func (a *Assembler) AddVertex(x, y, z float64) int {
	a.positions = append(a.positions, math3d.V3(x, y, z))
	return len(a.positions) - 1
}

// VertexCount returns the number of positions added so far.
func (a *Assembler) VertexCount() int {
	return len(a.positions)
}

// SetMaterial sets the material of subsequently added triangles.
func (a *Assembler) SetMaterial(m render.Material) {
	a.material = m
}

// Material returns the current material.
func (a *Assembler) Material() render.Material {
	return a.material
}

// AddTriangle adds a triangle over three vertex indices.
func (a *Assembler) AddTriangle(i0, i1, i2 int) error {
	for _, i := range [3]int{i0, i1, i2} {
		if i < 0 || i >= len(a.positions) {
			return fmt.Errorf("vertex index %d out of range [0, %d)", i, len(a.positions))
		}
	}
	a.triangles = append(a.triangles, triangle{v: [3]int{i0, i1, i2}, material: a.material})
	return nil
}

// AddPolygon adds a convex polygon as the triangle fan (0, k, k+1).
func (a *Assembler) AddPolygon(indices ...int) error {
	if len(indices) < 3 {
		return fmt.Errorf("polygon needs at least 3 vertices, got %d", len(indices))
	}
	for k := 1; k+1 < len(indices); k++ {
		if err := a.AddTriangle(indices[0], indices[k], indices[k+1]); err != nil {
			return err
		}
	}
	return nil
}

// TriangleCount returns the number of triangles added so far.
func (a *Assembler) TriangleCount() int {
	return len(a.triangles)
}

// Compile builds the model. Meshes appear in the order their material was
// first used.
func (a *Assembler) Compile(name string) *Model {
	type bucket struct {
		material render.Material
		remap    map[math3d.Vec3]int
		vertices []float64
		indices  []int
	}

	var order []*bucket
	buckets := make(map[render.Material]*bucket)

	for _, t := range a.triangles {
		b, ok := buckets[t.material]
		if !ok {
			b = &bucket{material: t.material, remap: make(map[math3d.Vec3]int)}
			buckets[t.material] = b
			order = append(order, b)
		}
		for _, i := range t.v {
			p := a.positions[i]
			idx, seen := b.remap[p]
			if !seen {
				idx = len(b.vertices) / 3
				b.remap[p] = idx
				b.vertices = append(b.vertices, p.X, p.Y, p.Z)
			}
			b.indices = append(b.indices, idx)
		}
	}

	model := &Model{Name: name, Meshes: make([]*Mesh, 0, len(order))}
	for _, b := range order {
		model.Meshes = append(model.Meshes, NewMesh(b.material.Name, b.vertices, b.indices, b.material))
	}
	return model
}
