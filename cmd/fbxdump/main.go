package main

import (
	"flag"
	"fmt"
	"os"

	"fbx-decoder/internal/fbx"
	"fbx-decoder/internal/scene"
)

func main() {
	tree := flag.Bool("tree", false, "Print the raw node tree")
	lenient := flag.Bool("lenient", false, "Recover from malformed node sizes")
	flag.Parse()

	failed := false
	for _, arg := range flag.Args() {
		data, err := fbx.ReadFile(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			failed = true
			continue
		}

		var opts []fbx.DecodeOption
		if *lenient {
			opts = append(opts, fbx.Lenient())
		}
		doc, err := fbx.Decode(data, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			failed = true
			continue
		}
		fmt.Printf("\n=== %s (version %d, nodes=%d properties=%d) ===\n", arg, doc.Version, len(doc.Nodes)-1, len(doc.Properties))

		if *tree {
			if err := fbx.Dump(os.Stdout, doc); err != nil {
				fmt.Fprintf(os.Stderr, "Dump error: %v\n", err)
				failed = true
			}
			continue
		}

		s, err := scene.FromDocument(doc, scene.Options{Flags: scene.LoadAll, Lenient: *lenient})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Scene error %s: %v\n", arg, err)
			failed = true
			continue
		}
		printScene(s)
	}

	if failed {
		os.Exit(1)
	}
}

func printScene(s *scene.Scene) {
	for _, m := range s.Models {
		t, q := m.LocalTranslation, m.LocalRotation
		fmt.Printf("Model %q id=%d T=(%.3f %.3f %.3f) R=(%.3f %.3f %.3f %.3f)\n",
			m.DisplayName(), m.ID, t[0], t[1], t[2], q[0], q[1], q[2], q[3])
		for i, mi := range m.Meshes {
			mesh := &s.Meshes[mi]
			g := &mesh.Geometry
			matName := "-"
			if mat, ok := s.MeshMaterial(&m, mesh); ok {
				matName = mat.DisplayName()
			}
			fmt.Printf("  Mesh[%d] %q verts=%d tris=%d uv=%t normals=%t material=%s\n",
				i, mesh.DisplayName(), len(g.Positions), g.NumTriangles(), len(g.UVs) > 0, len(g.Normals) > 0, matName)
		}
	}
	for _, mat := range s.Materials {
		d := mat.DiffuseColor
		fmt.Printf("Material %q %s diffuse=(%.3f %.3f %.3f) shininess=%.2f\n",
			mat.DisplayName(), mat.ShadingModel, d[0], d[1], d[2], mat.ShininessExponent)
		for slot := scene.TextureSlot(0); slot < scene.NumTextureSlots; slot++ {
			if tex, ok := s.MaterialTexture(&mat, slot); ok {
				fmt.Printf("  %-9s %s\n", slot.String()+":", tex.RelativeFileName)
			}
		}
	}
	fmt.Printf("Totals: models=%d meshes=%d materials=%d textures=%d\n",
		len(s.Models), len(s.Meshes), len(s.Materials), len(s.Textures))
}
