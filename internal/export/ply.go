// Package export writes decoded scenes to disk: one PLY file per model mesh
// and encoded preview images.
package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fbx-decoder/internal/scene"
)

// White is used for meshes whose material cannot be resolved.
var White = color.NRGBA{255, 255, 255, 255}

// WritePLY writes geom as a binary little-endian PLY mesh. Every vertex
// carries the same RGBA color; uv and normal properties are emitted when the
// geometry has them.
func WritePLY(w io.Writer, geom *scene.Geometry, c color.NRGBA) error {
	bw := bufio.NewWriter(w)
	writeUVs := len(geom.UVs) > 0
	writeNormals := len(geom.Normals) > 0

	fmt.Fprintf(bw, "ply\nformat binary_little_endian 1.0\ncomment fbx-decoder export\n")
	fmt.Fprintf(bw, "element vertex %d\n", len(geom.Positions))
	fmt.Fprintf(bw, "property float x\nproperty float y\nproperty float z\n")
	if writeUVs {
		fmt.Fprintf(bw, "property float texture_u\nproperty float texture_v\n")
	}
	if writeNormals {
		fmt.Fprintf(bw, "property float nx\nproperty float ny\nproperty float nz\n")
	}
	fmt.Fprintf(bw, "property uchar red\nproperty uchar green\nproperty uchar blue\nproperty uchar alpha\n")
	fmt.Fprintf(bw, "element face %d\n", geom.NumTriangles())
	fmt.Fprintf(bw, "property list uchar int vertex_indices\nend_header\n")

	le := binary.LittleEndian
	rgba := [4]uint8{c.R, c.G, c.B, c.A}
	for i, p := range geom.Positions {
		binary.Write(bw, le, p)
		if writeUVs {
			binary.Write(bw, le, geom.UVs[i])
		}
		if writeNormals {
			binary.Write(bw, le, geom.Normals[i])
		}
		bw.Write(rgba[:])
	}

	var face [13]byte
	face[0] = 3
	for i := 0; i+2 < len(geom.Indices); i += 3 {
		le.PutUint32(face[1:], geom.Indices[i])
		le.PutUint32(face[5:], geom.Indices[i+1])
		le.PutUint32(face[9:], geom.Indices[i+2])
		bw.Write(face[:])
	}
	return bw.Flush()
}

// MeshColor returns the diffuse color of the material a model's mesh uses,
// White when the material cannot be resolved.
func MeshColor(s *scene.Scene, model *scene.Model, mesh *scene.Mesh) color.NRGBA {
	m, ok := s.MeshMaterial(model, mesh)
	if !ok {
		return White
	}
	return color.NRGBA{unit8(m.DiffuseColor[0]), unit8(m.DiffuseColor[1]), unit8(m.DiffuseColor[2]), 255}
}

// unit8 maps [0,1] to [0,255], truncating like an integer cast.
func unit8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v * 255)
}

// PLYName is the file name of the i-th mesh of model.
func PLYName(model *scene.Model, i int) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, model.DisplayName())
	return fmt.Sprintf("%s_%d.ply", name, i)
}

// WriteScenePLYs writes every mesh attached to every model into dir and
// returns the written paths.
func WriteScenePLYs(dir string, s *scene.Scene) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	var paths []string
	for mi := range s.Models {
		model := &s.Models[mi]
		for i, meshIdx := range model.Meshes {
			mesh := &s.Meshes[meshIdx]
			path := filepath.Join(dir, PLYName(model, i))
			if err := writePLYFile(path, &mesh.Geometry, MeshColor(s, model, mesh)); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func writePLYFile(path string, geom *scene.Geometry, c color.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := WritePLY(f, geom, c); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return f.Close()
}
