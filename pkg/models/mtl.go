package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/taigrr/irregularz/pkg/render"
)

// LoadMTL reads a Wavefront material library. Only newmtl, Ka and Kd are
// interpreted; other statements are ignored. Materials start from the
// default ambient and diffuse colors.
func LoadMTL(r io.Reader) (map[string]render.Material, error) {
	materials := make(map[string]render.Material)
	var current *render.Material
	commit := func() {
		if current != nil {
			materials[current.Name] = *current
		}
	}

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch strings.ToLower(fields[0]) {
		case "newmtl":
			if len(fields) < 2 {
				err = errors.New("newmtl with no name")
				break
			}
			commit()
			m := render.DefaultMaterial()
			m.Name = fields[1]
			current = &m
		case "ka":
			if current == nil {
				err = errors.New("Ka before newmtl")
				break
			}
			current.Ambient, err = parseColor(fields[1:])
		case "kd":
			if current == nil {
				err = errors.New("Kd before newmtl")
				break
			}
			current.Diffuse, err = parseColor(fields[1:])
		}
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mtl: %w", err)
	}
	commit()
	return materials, nil
}

// parseColor converts three channels in [0, 1] into 0xRRGGBB.
func parseColor(fields []string) (uint32, error) {
	if len(fields) < 3 {
		return 0, fmt.Errorf("color needs 3 channels, got %d", len(fields))
	}
	var rgb uint32
	for _, f := range fields[:3] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, err
		}
		c := uint32(max(0, min(1, v)) * 255)
		rgb = rgb<<8 | c
	}
	return rgb, nil
}
