package scene

import (
	"errors"
	"fmt"

	"fbx-decoder/internal/fbx"
)

// Mapping says which stream elements of a layer element are addressed by.
type Mapping int

const (
	ByPolygonVertex Mapping = iota
	ByPolygon
	ByVertex
	AllSame
)

func (m Mapping) String() string {
	switch m {
	case ByPolygonVertex:
		return "ByPolygonVertex"
	case ByPolygon:
		return "ByPolygon"
	case ByVertex:
		return "ByVertex"
	case AllSame:
		return "AllSame"
	}
	return fmt.Sprintf("Mapping(%d)", int(m))
}

// Reference says whether layer data is read directly or through an index array.
type Reference int

const (
	IndexToDirect Reference = iota
	Direct
)

func (r Reference) String() string {
	if r == Direct {
		return "Direct"
	}
	return "IndexToDirect"
}

func parseMapping(s string) (Mapping, error) {
	switch s {
	case "ByPolygonVertex":
		return ByPolygonVertex, nil
	case "ByPolygon":
		return ByPolygon, nil
	case "ByVertice", "ByVertex":
		return ByVertex, nil
	case "AllSame":
		return AllSame, nil
	}
	return 0, fbx.Formatf("unknown mapping type %q", s)
}

func parseReference(s string) (Reference, error) {
	switch s {
	case "IndexToDirect", "Index":
		return IndexToDirect, nil
	case "Direct":
		return Direct, nil
	}
	return 0, fbx.Formatf("unknown reference type %q", s)
}

// layerElement is the raw content of a LayerElement* node.
type layerElement[T any] struct {
	present   bool
	data      []T
	indices   []int32
	mapping   Mapping
	reference Reference
}

// readLayer reads the mapping, reference, data and index children of a
// layer element node. A missing node yields an element with present unset.
func readLayer[T any](doc *fbx.Document, id fbx.NodeID, dataName, indexName string,
	read func(fbx.Property) ([]T, error)) (layerElement[T], error) {

	le := layerElement[T]{mapping: ByPolygonVertex, reference: IndexToDirect}
	if id == fbx.None {
		return le, nil
	}
	le.present = true

	for c := range doc.Children(id) {
		name := doc.Node(c).Name
		p, ok := doc.FirstProp(c)
		if !ok {
			continue
		}
		var err error
		switch {
		case name == "MappingInformationType":
			var s string
			if s, err = p.Text(); err == nil {
				le.mapping, err = parseMapping(s)
			}
		case name == "ReferenceInformationType":
			var s string
			if s, err = p.Text(); err == nil {
				le.reference, err = parseReference(s)
			}
		case name == dataName:
			le.data, err = read(p)
		case indexName != "" && name == indexName:
			le.indices, err = p.Int32Array()
		}
		if err != nil {
			return le, nodeErr(doc, c, err)
		}
	}
	return le, nil
}

// nodeErr attaches the node path to a FormatError that lacks one.
func nodeErr(doc *fbx.Document, id fbx.NodeID, err error) error {
	var fe *fbx.FormatError
	if errors.As(err, &fe) && fe.Path == "" {
		fe.Path = doc.Path(id)
	}
	return err
}

// cornerGroups records, for every control point, which corners of the
// expanded stream reference it: corners[offset[i] : offset[i]+count[i]].
type cornerGroups struct {
	offset  []uint32
	count   []uint32
	corners []uint32
}

// lookup returns the value for index i; -1 selects the zero value.
func lookup[T any](data []T, i int32) (T, error) {
	var zero T
	if i == -1 {
		return zero, nil
	}
	if i < 0 || int(i) >= len(data) {
		return zero, fbx.Formatf("layer index %d out of range [0,%d)", i, len(data))
	}
	return data[i], nil
}

// mapLayer expands a UV or normal layer to one value per corner.
func mapLayer[T any](le layerElement[T], groups *cornerGroups, numCorners int) ([]T, error) {
	switch le.mapping {
	case ByPolygonVertex:
		if le.reference == Direct {
			if len(le.data) != numCorners {
				return nil, fbx.Formatf("ByPolygonVertex/Direct layer has %d values for %d corners", len(le.data), numCorners)
			}
			return le.data, nil
		}
		if len(le.indices) != numCorners {
			return nil, fbx.Formatf("ByPolygonVertex/IndexToDirect layer has %d indices for %d corners", len(le.indices), numCorners)
		}
		out := make([]T, numCorners)
		for i, idx := range le.indices {
			v, err := lookup(le.data, idx)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case ByVertex:
		numPoints := len(groups.offset)
		values := le.data
		if le.reference == IndexToDirect {
			if len(le.indices) != numPoints {
				return nil, fbx.Formatf("ByVertex/IndexToDirect layer has %d indices for %d control points", len(le.indices), numPoints)
			}
			values = make([]T, numPoints)
			for i, idx := range le.indices {
				v, err := lookup(le.data, idx)
				if err != nil {
					return nil, err
				}
				values[i] = v
			}
		} else if len(values) != numPoints {
			return nil, fbx.Formatf("ByVertex/Direct layer has %d values for %d control points", len(values), numPoints)
		}
		out := make([]T, numCorners)
		for i, v := range values {
			start := groups.offset[i]
			for _, corner := range groups.corners[start : start+groups.count[i]] {
				out[corner] = v
			}
		}
		return out, nil

	case AllSame:
		if len(le.data) != 1 {
			return nil, fbx.Formatf("AllSame layer has %d values, want 1", len(le.data))
		}
		out := make([]T, numCorners)
		for i := range out {
			out[i] = le.data[0]
		}
		return out, nil
	}
	return nil, fbx.Formatf("unsupported %s/%s layer mapping", le.mapping, le.reference)
}

// pairs groups a flat double array into 2D points.
func pairs(p fbx.Property) ([]Vec2, error) {
	raw, err := p.Float64Array()
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fbx.Formatf("UV array length %d is not a multiple of 2", len(raw))
	}
	out := make([]Vec2, len(raw)/2)
	for i := range out {
		out[i] = Vec2{float32(raw[2*i]), float32(raw[2*i+1])}
	}
	return out, nil
}

// triples groups a flat double array into 3D points.
func triples(p fbx.Property) ([]Vec3, error) {
	raw, err := p.Float64Array()
	if err != nil {
		return nil, err
	}
	if len(raw)%3 != 0 {
		return nil, fbx.Formatf("vector array length %d is not a multiple of 3", len(raw))
	}
	out := make([]Vec3, len(raw)/3)
	for i := range out {
		out[i] = Vec3{float32(raw[3*i]), float32(raw[3*i+1]), float32(raw[3*i+2])}
	}
	return out, nil
}
