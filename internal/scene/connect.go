package scene

import (
	"fmt"
	"log/slog"

	"fbx-decoder/internal/fbx"
)

// objectKind orders the object categories by connection precedence.
type objectKind uint8

const (
	kindNone objectKind = iota
	kindModel
	kindMesh
	kindMaterial
	kindTexture
)

func (k objectKind) String() string {
	switch k {
	case kindModel:
		return "model"
	case kindMesh:
		return "mesh"
	case kindMaterial:
		return "material"
	case kindTexture:
		return "texture"
	}
	return "none"
}

// endpoint is the resolved side of a connection: a run of objects in one
// of the scene arrays.
type endpoint struct {
	kind  objectKind
	first int
	count int
}

// objectIndex maps object ids to endpoints. Earlier kinds win when two
// objects share an id; the loser can never be connected.
type objectIndex map[int64]endpoint

func buildIndex(s *Scene, log *slog.Logger) objectIndex {
	idx := make(objectIndex, len(s.Models)+len(s.Meshes)+len(s.Materials)+len(s.Textures))
	add := func(id int64, ep endpoint) {
		if prev, ok := idx[id]; ok {
			log.Warn("scene: object id collision", "id", id, "kept", prev.kind, "dropped", ep.kind)
			return
		}
		idx[id] = ep
	}
	for i := range s.Models {
		add(s.Models[i].ID, endpoint{kindModel, i, 1})
	}
	for i := 0; i < len(s.Meshes); {
		j := i + 1
		for j < len(s.Meshes) && s.Meshes[j].ID == s.Meshes[i].ID {
			j++
		}
		add(s.Meshes[i].ID, endpoint{kindMesh, i, j - i})
		i = j
	}
	for i := range s.Materials {
		add(s.Materials[i].ID, endpoint{kindMaterial, i, 1})
	}
	for i := range s.Textures {
		add(s.Textures[i].ID, endpoint{kindTexture, i, 1})
	}
	return idx
}

// connection is one Connections/C record.
type connection struct {
	kind string
	a, b int64
	slot string
}

func readConnection(doc *fbx.Document, id fbx.NodeID) (connection, error) {
	var c connection
	var texts []string
	var ids []int64
	for _, p := range doc.Props(id) {
		switch {
		case p.Type == fbx.String:
			s, _ := p.Text()
			texts = append(texts, s)
		case p.Type == fbx.Int64 && !p.Array:
			v, _ := p.Int64()
			ids = append(ids, v)
		}
	}
	if len(texts) == 0 || len(ids) < 2 {
		return c, nodeErr(doc, id, fbx.Formatf("connection needs a kind and two ids"))
	}
	c.kind, c.a, c.b = texts[0], ids[0], ids[1]
	if len(texts) > 1 {
		c.slot = texts[1]
	}
	return c, nil
}

// textureSlots maps material property names to texture slots.
var textureSlots = map[string]TextureSlot{
	"DiffuseColor":      Albedo,
	"NormalMap":         Normal,
	"ShininessExponent": Roughness,
	"ReflectionFactor":  Metallic,
}

func (e *extractor) connections() error {
	idx := buildIndex(e.scene, e.log)
	for id := range e.doc.Children(e.doc.Find("Connections")) {
		if e.doc.Node(id).Name != "C" {
			continue
		}
		c, err := readConnection(e.doc, id)
		if err != nil {
			return fmt.Errorf("scene: %w", err)
		}
		if err := e.connect(idx, c, id); err != nil {
			return err
		}
	}
	return nil
}

func (e *extractor) connect(idx objectIndex, c connection, id fbx.NodeID) error {
	a, okA := idx[c.a]
	b, okB := idx[c.b]
	if !okA || !okB {
		return nil
	}
	if a.kind > b.kind {
		a, b = b, a
	}

	s := e.scene
	switch c.kind {
	case "OO":
		if a.kind != kindModel {
			return nil
		}
		m := &s.Models[a.first]
		switch b.kind {
		case kindMesh:
			for i := range b.count {
				m.Meshes = append(m.Meshes, b.first+i)
			}
		case kindMaterial:
			m.Materials = append(m.Materials, b.first)
		}

	case "OP":
		if a.kind != kindMaterial || b.kind != kindTexture {
			return nil
		}
		slot, ok := textureSlots[c.slot]
		if !ok {
			if !e.opts.Lenient {
				return fmt.Errorf("scene: %w", nodeErr(e.doc, id, fbx.Formatf("unknown texture slot %q", c.slot)))
			}
			e.log.Warn("scene: skipping unknown texture slot", "slot", c.slot)
			return nil
		}
		s.Materials[a.first].Textures[slot] = b.first
	}
	return nil
}
