package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/irregularz/pkg/logging"
)

// Load reads a model, choosing the loader by file extension.
func Load(path string) (*Model, error) {
	var (
		model *Model
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		model, err = LoadOBJ(path)
	case ".glb":
		model, err = LoadGLB(path)
	case ".gltf":
		model, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	logging.Logger().Info("model loaded",
		"path", path,
		"meshes", len(model.Meshes),
		"triangles", model.TriangleCount())
	return model, nil
}
