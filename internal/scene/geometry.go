package scene

import (
	"fmt"
	"math"
	"slices"

	"fbx-decoder/internal/fbx"
)

// decodeIndex undoes the bitwise complement marking the last corner of a polygon.
func decodeIndex(i int32) int32 {
	if i < 0 {
		return ^i
	}
	return i
}

// span is one polygon of the corner stream.
type span struct {
	first, size int
}

// polygons splits the corner stream at negative (end-of-polygon) indices.
// A trailing run without a terminator still counts as a polygon.
func polygons(indices []int32) []span {
	var out []span
	first := 0
	for i, idx := range indices {
		if idx < 0 {
			out = append(out, span{first, i + 1 - first})
			first = i + 1
		}
	}
	if first < len(indices) {
		out = append(out, span{first, len(indices) - first})
	}
	return out
}

// expandCorners looks up the control point of every corner and groups the
// corners by control point with a counting sort.
func expandCorners(points []Vec3, indices []int32) ([]Vec3, *cornerGroups, error) {
	positions := make([]Vec3, len(indices))
	groups := &cornerGroups{
		offset:  make([]uint32, len(points)),
		count:   make([]uint32, len(points)),
		corners: make([]uint32, len(indices)),
	}

	for i, raw := range indices {
		cp := decodeIndex(raw)
		if int(cp) >= len(points) {
			return nil, nil, fbx.Formatf("corner %d references control point %d of %d", i, cp, len(points))
		}
		positions[i] = points[cp]
		groups.count[cp]++
	}

	var offset uint32
	for i := range groups.offset {
		groups.offset[i] = offset
		offset += groups.count[i]
		groups.count[i] = 0
	}

	for i, raw := range indices {
		cp := decodeIndex(raw)
		groups.corners[groups.offset[cp]+groups.count[cp]] = uint32(i)
		groups.count[cp]++
	}
	return positions, groups, nil
}

// polygonMaterials returns the material bucket of every polygon.
func polygonMaterials(le layerElement[int32], numPolygons int, load bool) ([]int32, error) {
	out := make([]int32, numPolygons)
	if !load || !le.present {
		return out, nil
	}
	switch le.mapping {
	case AllSame:
		if len(le.data) > 0 {
			for i := range out {
				out[i] = le.data[0]
			}
		}
		return out, nil
	case ByPolygon:
		if len(le.data) != numPolygons {
			return nil, fbx.Formatf("ByPolygon material layer has %d values for %d polygons", len(le.data), numPolygons)
		}
		return le.data, nil
	}
	return nil, fbx.Formatf("unsupported %s material mapping", le.mapping)
}

// vertexKey is the bit pattern of a full vertex: position, uv, normal.
type vertexKey [8]uint32

// bucket accumulates the welded geometry of one material.
type bucket struct {
	material int32
	index    map[vertexKey]uint32
	geom     Geometry
}

func (b *bucket) addVertex(positions []Vec3, uvs []Vec2, normals []Vec3, corner int) uint32 {
	var key vertexKey
	pos := positions[corner]
	for k := 0; k < 3; k++ {
		key[k] = math.Float32bits(pos[k])
	}
	var uv Vec2
	if uvs != nil {
		uv = uvs[corner]
		key[3], key[4] = math.Float32bits(uv[0]), math.Float32bits(uv[1])
	}
	var n Vec3
	if normals != nil {
		n = normals[corner]
		key[5], key[6], key[7] = math.Float32bits(n[0]), math.Float32bits(n[1]), math.Float32bits(n[2])
	}

	if i, ok := b.index[key]; ok {
		return i
	}
	i := uint32(len(b.geom.Positions))
	b.index[key] = i
	b.geom.Positions = append(b.geom.Positions, pos)
	if uvs != nil {
		b.geom.UVs = append(b.geom.UVs, uv)
	}
	if normals != nil {
		b.geom.Normals = append(b.geom.Normals, n)
	}
	return i
}

// corners is the per-corner input of the welding and triangulation pass.
type corners struct {
	positions []Vec3
	uvs       []Vec2 // nil or parallel to positions
	normals   []Vec3 // nil or parallel to positions
}

// weldAndTriangulate distributes polygons into per-material buckets, welds
// identical vertices inside each bucket and fan-triangulates every polygon
// with at least three corners. Fans assume convex polygons; concave ones
// come out wrong. Buckets are returned by ascending material index.
func weldAndTriangulate(c corners, polys []span, materials []int32) []*bucket {
	buckets := make(map[int32]*bucket)
	for pi, poly := range polys {
		if poly.size < 3 {
			// Lines and points.
			continue
		}
		mat := materials[pi]
		b := buckets[mat]
		if b == nil {
			b = &bucket{material: mat, index: make(map[vertexKey]uint32)}
			buckets[mat] = b
		}

		corner := poly.first
		a := b.addVertex(c.positions, c.uvs, c.normals, corner)
		prev := b.addVertex(c.positions, c.uvs, c.normals, corner+1)
		for k := 2; k < poly.size; k++ {
			cur := b.addVertex(c.positions, c.uvs, c.normals, corner+k)
			b.geom.Indices = append(b.geom.Indices, a, prev, cur)
			prev = cur
		}
	}

	out := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		if len(b.geom.Indices) > 0 {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(x, y *bucket) int { return int(x.material) - int(y.material) })
	return out
}

// readGeometry reconstructs the meshes of one Geometry node.
func readGeometry(doc *fbx.Document, id fbx.NodeID, flags Flags) ([]Mesh, error) {
	obj, err := objectIDAndName(doc, id)
	if err != nil {
		return nil, err
	}
	wrap := func(err error) error {
		return fmt.Errorf("scene: geometry %q: %w", obj.DisplayName(), nodeErr(doc, id, err))
	}

	vertsNode := doc.Child(id, "Vertices")
	vertsProp, ok := doc.FirstProp(vertsNode)
	if !ok {
		return nil, wrap(fbx.Formatf("missing Vertices"))
	}
	points, err := triples(vertsProp)
	if err != nil {
		return nil, wrap(nodeErr(doc, vertsNode, err))
	}

	indexNode := doc.Child(id, "PolygonVertexIndex")
	indexProp, ok := doc.FirstProp(indexNode)
	if !ok {
		return nil, wrap(fbx.Formatf("missing PolygonVertexIndex"))
	}
	indices, err := indexProp.Int32Array()
	if err != nil {
		return nil, wrap(nodeErr(doc, indexNode, err))
	}

	positions, groups, err := expandCorners(points, indices)
	if err != nil {
		return nil, wrap(err)
	}
	c := corners{positions: positions}

	if flags.Has(LoadUVs) {
		le, err := readLayer(doc, doc.Child(id, "LayerElementUV"), "UV", "UVIndex", pairs)
		if err != nil {
			return nil, wrap(err)
		}
		if len(le.data) > 0 {
			if c.uvs, err = mapLayer(le, groups, len(positions)); err != nil {
				return nil, wrap(err)
			}
		}
	}

	if flags.Has(LoadNormals) {
		le, err := readLayer(doc, doc.Child(id, "LayerElementNormal"), "Normals", "NormalsIndex", triples)
		if err != nil {
			return nil, wrap(err)
		}
		if len(le.data) > 0 {
			if c.normals, err = mapLayer(le, groups, len(positions)); err != nil {
				return nil, wrap(err)
			}
		}
	}

	polys := polygons(indices)
	var matLayer layerElement[int32]
	if flags.Has(LoadMaterials) {
		matLayer, err = readLayer(doc, doc.Child(id, "LayerElementMaterial"), "Materials", "",
			func(p fbx.Property) ([]int32, error) { return p.Int32Array() })
		if err != nil {
			return nil, wrap(err)
		}
	}
	materials, err := polygonMaterials(matLayer, len(polys), flags.Has(LoadMaterials))
	if err != nil {
		return nil, wrap(err)
	}

	buckets := weldAndTriangulate(c, polys, materials)
	meshes := make([]Mesh, len(buckets))
	for i, b := range buckets {
		meshes[i] = Mesh{Object: obj, Geometry: b.geom, MaterialIndex: b.material}
	}
	return meshes, nil
}
