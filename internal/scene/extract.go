package scene

import (
	"fmt"
	"log/slog"

	"fbx-decoder/internal/fbx"
	"fbx-decoder/internal/mathutil"
)

// extractor collects the objects below the Objects node.
type extractor struct {
	doc   *fbx.Document
	opts  Options
	log   *slog.Logger
	scene *Scene
}

func (e *extractor) objects() error {
	objects := e.doc.Find("Objects")
	if objects == fbx.None {
		e.log.Debug("scene: no Objects node")
		return nil
	}
	loadMaterials := e.opts.Flags.Has(LoadMaterials)

	for id := range e.doc.Children(objects) {
		var err error
		switch e.doc.Node(id).Name {
		case "Model":
			err = e.model(id)
		case "Geometry":
			err = e.geometry(id)
		case "Material":
			if loadMaterials {
				err = e.material(id)
			}
		case "Texture":
			if loadMaterials {
				err = e.texture(id)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *extractor) model(id fbx.NodeID) error {
	obj, err := objectIDAndName(e.doc, id)
	if err != nil {
		return err
	}
	m := Model{Object: obj, LocalRotation: IdentityQuat}

	records, err := properties70(e.doc, id)
	if err != nil {
		return fmt.Errorf("scene: model %q: %w", obj.DisplayName(), err)
	}
	for _, r := range records {
		switch r.Name {
		case "Lcl Translation":
			if v, ok := r.vec3(); ok {
				m.LocalTranslation = v
			}
		case "Lcl Rotation":
			if v, ok := r.vec3(); ok {
				m.LocalRotation = Quat(mathutil.EulerDegToQuat(mathutil.Vec3(v)))
			}
		}
	}

	e.scene.Models = append(e.scene.Models, m)
	return nil
}

func (e *extractor) geometry(id fbx.NodeID) error {
	obj, class, err := objectHeader(e.doc, id)
	if err != nil {
		return err
	}
	if class != "" && class != "Mesh" {
		e.log.Debug("scene: skipping geometry", "name", obj.DisplayName(), "class", class)
		return nil
	}
	meshes, err := readGeometry(e.doc, id, e.opts.Flags)
	if err != nil {
		return err
	}
	e.scene.Meshes = append(e.scene.Meshes, meshes...)
	return nil
}

func (e *extractor) material(id fbx.NodeID) error {
	obj, err := objectIDAndName(e.doc, id)
	if err != nil {
		return err
	}
	m := Material{Object: obj}
	for i := range m.Textures {
		m.Textures[i] = -1
	}
	wrap := func(err error) error {
		return fmt.Errorf("scene: material %q: %w", obj.DisplayName(), err)
	}

	if m.ShadingModel, err = childText(e.doc, id, "ShadingModel"); err != nil {
		return wrap(err)
	}
	if c := e.doc.Child(id, "MultiLayer"); c != fbx.None {
		if p, ok := e.doc.FirstProp(c); ok {
			v, err := p.Number()
			if err != nil {
				return wrap(nodeErr(e.doc, c, err))
			}
			m.MultiLayer = int32(v)
		}
	}

	records, err := properties70(e.doc, id)
	if err != nil {
		return wrap(err)
	}
	for _, r := range records {
		var color Vec3
		var value float32
		switch r.Type {
		case "Color", "ColorRGB":
			color, _ = r.vec3()
		case "Number", "double":
			value, _ = r.number()
		}

		switch r.Name {
		case "DiffuseColor":
			m.DiffuseColor = color
		case "AmbientColor":
			m.AmbientColor = color
		case "AmbientFactor":
			m.AmbientFactor = value
		case "SpecularColor":
			m.SpecularColor = color
		case "SpecularFactor":
			m.SpecularFactor = value
		case "Shininess":
			m.Shininess = value
		case "ShininessExponent":
			m.ShininessExponent = value
		case "ReflectionColor":
			m.ReflectionColor = color
		}
	}

	if m.ShadingModel != "Phong" {
		if !e.opts.Lenient {
			return wrap(nodeErr(e.doc, id, fbx.Formatf("unsupported shading model %q", m.ShadingModel)))
		}
		e.log.Warn("scene: accepting non-Phong material", "name", obj.DisplayName(), "shading", m.ShadingModel)
	}

	e.scene.Materials = append(e.scene.Materials, m)
	return nil
}

func (e *extractor) texture(id fbx.NodeID) error {
	obj, err := objectIDAndName(e.doc, id)
	if err != nil {
		return err
	}
	t := Texture{Object: obj}
	if t.FileName, err = childText(e.doc, id, "FileName"); err != nil {
		return fmt.Errorf("scene: texture %q: %w", obj.DisplayName(), err)
	}
	if t.RelativeFileName, err = childText(e.doc, id, "RelativeFilename"); err != nil {
		return fmt.Errorf("scene: texture %q: %w", obj.DisplayName(), err)
	}
	e.scene.Textures = append(e.scene.Textures, t)
	return nil
}
