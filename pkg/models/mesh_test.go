package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/render"
)

func TestNewMeshBounds(t *testing.T) {
	m := NewMesh("tri", []float64{-1, 0, 2, 3, 4, -5, 0, 1, 0}, []int{0, 1, 2}, render.DefaultMaterial())

	assert.Equal(t, math3d.V3(-1, 0, -5), m.Bounds.Min)
	assert.Equal(t, math3d.V3(3, 4, 2), m.Bounds.Max)
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, m.TriangleCount())
	assert.Equal(t, math3d.V3(3, 4, -5), m.Vertex(1))
}

func TestMeshCloneIsIndependent(t *testing.T) {
	m := NewQuad(2, render.DefaultMaterial()).Meshes[0]
	clone := m.Clone()

	clone.Vertices[0] = 99
	clone.Indices[0] = 3
	assert.NotEqual(t, 99.0, m.Vertices[0])
	assert.Equal(t, 0, m.Indices[0])
	assert.Equal(t, m.Bounds, clone.Bounds)
}

func TestModelBoundsAndCounts(t *testing.T) {
	empty := NewModel("empty")
	assert.True(t, empty.Bounds().Empty())

	model := NewModel("pair",
		NewBox(math3d.V3(2, 2, 2), render.DefaultMaterial()).Meshes[0],
		NewQuad(10, render.DefaultMaterial()).Meshes[0],
	)
	box := model.Bounds()
	assert.Equal(t, math3d.V3(-5, -1, -5), box.Min)
	assert.Equal(t, math3d.V3(5, 1, 5), box.Max)
	assert.Equal(t, 14, model.TriangleCount())
	assert.Equal(t, 12, model.VertexCount())
}

func TestModelFit(t *testing.T) {
	model := NewModel("offset", NewMesh("m", []float64{10, 0, 0, 14, 2, 0, 12, 1, 1}, []int{0, 1, 2}, render.DefaultMaterial()))

	fitted := model.Bounds().Transform(model.Fit(2))
	assert.InDelta(t, 0, fitted.Center().X, 1e-9)
	assert.InDelta(t, 0, fitted.Center().Y, 1e-9)
	assert.InDelta(t, 2, fitted.Size().X, 1e-9)

	assert.Equal(t, math3d.Identity(), NewModel("none").Fit(1))
}

func TestPrimitivesFaceOutward(t *testing.T) {
	models := []*Model{
		NewBox(math3d.V3(1, 2, 3), render.DefaultMaterial()),
		NewQuad(4, render.DefaultMaterial()),
	}

	for _, model := range models {
		t.Run(model.Name, func(t *testing.T) {
			mesh := model.Meshes[0]
			for i := 0; i < len(mesh.Indices); i += 3 {
				v0 := mesh.Vertex(mesh.Indices[i])
				v1 := mesh.Vertex(mesh.Indices[i+1])
				v2 := mesh.Vertex(mesh.Indices[i+2])
				n := v1.Sub(v0).Cross(v2.Sub(v0))
				centroid := v0.Add(v1).Add(v2).Scale(1.0 / 3)
				if model.Name == "quad" {
					centroid = math3d.Up()
				}
				require.Positive(t, n.Dot(centroid), "triangle %d faces inward", i/3)
			}
		})
	}
}

func TestAssemblerGroupsByMaterial(t *testing.T) {
	red := render.Material{Name: "red", Diffuse: 0xFF0000}
	asm := NewAssembler()
	for _, p := range [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 0}} {
		asm.AddVertex(p[0], p[1], p[2])
	}

	require.NoError(t, asm.AddTriangle(0, 1, 2))
	asm.SetMaterial(red)
	require.NoError(t, asm.AddTriangle(3, 1, 2))
	assert.Error(t, asm.AddTriangle(0, 1, 4))
	assert.Error(t, asm.AddPolygon(0, 1))
	assert.Equal(t, 2, asm.TriangleCount())

	model := asm.Compile("mixed")
	require.Len(t, model.Meshes, 2)
	assert.Equal(t, "default", model.Meshes[0].Name)
	assert.Equal(t, red, model.Meshes[1].Material)
	assert.Equal(t, 3, model.Meshes[1].VertexCount(), "identical positions are merged")
	assert.Equal(t, []int{0, 1, 2}, model.Meshes[1].Indices)
}
