package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/irregularz/pkg/logging"
	"github.com/taigrr/irregularz/pkg/render"
)

// OpenFunc opens a file referenced from a model, such as a material library.
type OpenFunc func(name string) (io.ReadCloser, error)

// LoadOBJ reads a Wavefront OBJ file. Material libraries are resolved
// relative to the file's directory.
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	open := func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, name))
	}

	model, err := ReadOBJ(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), open)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return model, nil
}

// ReadOBJ parses OBJ text from r. Positions and faces are kept; texture
// coordinates and normals are accepted and ignored. Faces with more than
// three vertices are split into fans. mtllib statements are resolved with
// open; a nil open skips them. A usemtl naming an unknown material selects
// the default material.
func ReadOBJ(r io.Reader, name string, open OpenFunc) (*Model, error) {
	p := &objParser{
		asm:       NewAssembler(),
		materials: make(map[string]render.Material),
		open:      open,
		name:      name,
	}

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return p.asm.Compile(p.name), nil
}

type objParser struct {
	asm       *Assembler
	materials map[string]render.Material
	open      OpenFunc
	name      string
	named     bool
	face      []int
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		return p.parseVertex(fields[1:])
	case "f":
		return p.parseFace(fields[1:])
	case "usemtl":
		if len(fields) < 2 {
			return errors.New("usemtl with no name")
		}
		m, ok := p.materials[fields[1]]
		if !ok {
			logging.Logger().Warn("unknown material", "name", fields[1])
			m = render.DefaultMaterial()
		}
		p.asm.SetMaterial(m)
	case "mtllib":
		if len(fields) < 2 {
			return errors.New("mtllib with no file")
		}
		return p.loadLibrary(fields[1])
	case "o":
		if len(fields) > 1 && !p.named {
			p.name = fields[1]
			p.named = true
		}
	}
	return nil
}

// parseVertex parses "v x y z [w]"; w is ignored.
func (p *objParser) parseVertex(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}
	var xyz [3]float64
	for i, f := range fields[:3] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		xyz[i] = v
	}
	p.asm.AddVertex(xyz[0], xyz[1], xyz[2])
	return nil
}

// parseFace parses "f v1[/vt1][/vn1] v2... v3...". Positive indices are
// 1-based, negative ones count back from the last vertex read.
func (p *objParser) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs 3 vertices, got %d", len(fields))
	}

	p.face = p.face[:0]
	count := p.asm.VertexCount()
	for _, f := range fields {
		ref, _, _ := strings.Cut(f, "/")
		n, err := strconv.Atoi(ref)
		if err != nil {
			return fmt.Errorf("face: %w", err)
		}
		switch {
		case n > 0:
			p.face = append(p.face, n-1)
		case n < 0:
			p.face = append(p.face, count+n)
		default:
			return errors.New("face vertex index 0")
		}
	}
	return p.asm.AddPolygon(p.face...)
}

func (p *objParser) loadLibrary(name string) error {
	if p.open == nil {
		return nil
	}
	rc, err := p.open(name)
	if err != nil {
		logging.Logger().Warn("material library unavailable", "file", name, "err", err)
		return nil
	}
	defer rc.Close()

	materials, err := LoadMTL(rc)
	if err != nil {
		return fmt.Errorf("mtllib %s: %w", name, err)
	}
	for k, m := range materials {
		p.materials[k] = m
	}
	return nil
}
