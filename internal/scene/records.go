package scene

import (
	"fbx-decoder/internal/fbx"
)

// objectHeader scans the properties of an object node: the first int64 is
// the id, the first string the name and the string after it the class.
func objectHeader(doc *fbx.Document, id fbx.NodeID) (obj Object, class string, err error) {
	haveID, nstr := false, 0
	for _, p := range doc.Props(id) {
		switch {
		case p.Type == fbx.Int64 && !p.Array && !haveID:
			if obj.ID, err = p.Int64(); err != nil {
				return obj, "", nodeErr(doc, id, err)
			}
			haveID = true
		case p.Type == fbx.String:
			s, _ := p.Text()
			switch nstr {
			case 0:
				obj.Name = s
			case 1:
				class = s
			}
			nstr++
		}
	}
	if !haveID {
		return obj, "", nodeErr(doc, id, fbx.Formatf("object has no id"))
	}
	return obj, class, nil
}

func objectIDAndName(doc *fbx.Document, id fbx.NodeID) (Object, error) {
	obj, _, err := objectHeader(doc, id)
	return obj, err
}

// record is one Properties70 "P" entry. Empty strings are not stored in the
// file, so the record is read as its leading strings followed by its values.
type record struct {
	Name   string
	Type   string
	Values []float64
}

func (r record) vec3() (Vec3, bool) {
	n := len(r.Values)
	if n < 3 {
		return Vec3{}, false
	}
	v := r.Values[n-3:]
	return Vec3{float32(v[0]), float32(v[1]), float32(v[2])}, true
}

func (r record) number() (float32, bool) {
	if len(r.Values) == 0 {
		return 0, false
	}
	return float32(r.Values[len(r.Values)-1]), true
}

// properties70 reads the P records below the Properties70 child of id.
func properties70(doc *fbx.Document, id fbx.NodeID) ([]record, error) {
	var out []record
	for c := range doc.Children(doc.Child(id, "Properties70")) {
		if doc.Node(c).Name != "P" {
			continue
		}
		var r record
		var texts []string
		for _, p := range doc.Props(c) {
			switch {
			case p.Type == fbx.String && len(r.Values) == 0:
				s, _ := p.Text()
				texts = append(texts, s)
			case p.IsNumber():
				v, err := p.Number()
				if err != nil {
					return nil, nodeErr(doc, c, err)
				}
				r.Values = append(r.Values, v)
			}
		}
		if len(texts) == 0 {
			return nil, nodeErr(doc, c, fbx.Formatf("property record without a name"))
		}
		r.Name = texts[0]
		if len(texts) > 1 {
			r.Type = texts[1]
		}
		out = append(out, r)
	}
	return out, nil
}

// childText returns the string value of the named child, "" when absent.
func childText(doc *fbx.Document, id fbx.NodeID, name string) (string, error) {
	c := doc.Child(id, name)
	p, ok := doc.FirstProp(c)
	if !ok {
		return "", nil
	}
	s, err := p.Text()
	if err != nil {
		return "", nodeErr(doc, c, err)
	}
	return s, nil
}
