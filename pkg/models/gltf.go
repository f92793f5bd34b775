package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/irregularz/pkg/math3d"
	"github.com/taigrr/irregularz/pkg/render"
)

// LoadGLB loads a binary glTF (.glb) file.
func LoadGLB(path string) (*Model, error) {
	return LoadGLTF(path)
}

// LoadGLTF loads a glTF or GLB file. Triangle primitives are grouped by
// material; the base color factor becomes the diffuse color.
func LoadGLTF(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return readGLTF(doc, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

func readGLTF(doc *gltf.Document, name string) (*Model, error) {
	asm := NewAssembler()
	for _, m := range doc.Meshes {
		if err := readMesh(doc, m, asm); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	return asm.Compile(name), nil
}

// readMesh feeds the triangle primitives of m into asm.
func readMesh(doc *gltf.Document, m *gltf.Mesh, asm *Assembler) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		asm.SetMaterial(gltfMaterial(doc, prim.Material))

		base := asm.VertexCount()
		for _, p := range positions {
			asm.AddVertex(p.X, p.Y, p.Z)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			if err := asm.AddTriangle(base+indices[i], base+indices[i+1], base+indices[i+2]); err != nil {
				return fmt.Errorf("triangle %d: %w", i/3, err)
			}
		}
	}
	return nil
}

// gltfMaterial converts the base color of material idx. A missing material
// yields the default.
func gltfMaterial(doc *gltf.Document, idx *int) render.Material {
	m := render.DefaultMaterial()
	if idx == nil || *idx < 0 || *idx >= len(doc.Materials) {
		return m
	}

	src := doc.Materials[*idx]
	m.Name = src.Name
	if m.Name == "" {
		m.Name = fmt.Sprintf("material%d", *idx)
	}
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		c := pbr.BaseColorFactor
		m.Diffuse = channel(c[0])<<16 | channel(c[1])<<8 | channel(c[2])
	}
	return m
}

func channel(v float64) uint32 {
	return uint32(max(0, min(1, v)) * 255)
}

// readVec3Accessor reads float VEC3 data from an accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		result[i] = math3d.V3(readFloat32(b), readFloat32(b[4:]), readFloat32(b[8:]))
	}
	return result, nil
}

// readIndices reads unsigned scalar index data from an accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		switch size {
		case 1:
			result[i] = int(b[0])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return result, nil
}

// accessorBytes returns the bytes backing an accessor, starting at its
// first element, and the stride between elements. elemSize is used when
// the buffer view is tightly packed.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	data := doc.Buffers[view.Buffer].Data
	if data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + accessor.ByteOffset
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if start < 0 || end > len(data) {
			return nil, 0, fmt.Errorf("accessor spans [%d, %d) past buffer of %d bytes", start, end, len(data))
		}
	}
	return data[start:], stride, nil
}

func readFloat32(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}
