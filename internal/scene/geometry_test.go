package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-decoder/internal/fbx"
)

func TestExpandCornersGroupsByControlPoint(t *testing.T) {
	points := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	positions, groups, err := expandCorners(points, []int32{0, 1, ^2, 2, 1, ^0})
	require.NoError(t, err)

	assert.Equal(t, []Vec3{points[0], points[1], points[2], points[2], points[1], points[0]}, positions)
	assert.Equal(t, []uint32{0, 2, 4}, groups.offset)
	assert.Equal(t, []uint32{2, 2, 2}, groups.count)
	assert.Equal(t, []uint32{0, 5, 1, 4, 2, 3}, groups.corners)
}

func TestExpandCornersOutOfRange(t *testing.T) {
	_, _, err := expandCorners([]Vec3{{}}, []int32{0, 1, ^0})
	assert.True(t, fbx.IsFormatError(err))
}

func TestMapLayerByPolygonVertexDirectIsIdentity(t *testing.T) {
	data := []Vec2{{0, 0}, {1, 0}, {1, 1}}
	le := layerElement[Vec2]{present: true, data: data, mapping: ByPolygonVertex, reference: Direct}
	out, err := mapLayer(le, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	_, err = mapLayer(le, nil, 4)
	assert.True(t, fbx.IsFormatError(err), "length must match the corner count")
}

func TestMapLayerByPolygonVertexIndexed(t *testing.T) {
	le := layerElement[Vec2]{
		present:   true,
		data:      []Vec2{{0.5, 0.5}, {1, 1}},
		indices:   []int32{1, -1, 0},
		mapping:   ByPolygonVertex,
		reference: IndexToDirect,
	}
	out, err := mapLayer(le, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []Vec2{{1, 1}, {0, 0}, {0.5, 0.5}}, out, "-1 selects the zero value")

	le.indices = []int32{0, 2, 0}
	_, err = mapLayer(le, nil, 3)
	assert.True(t, fbx.IsFormatError(err))

	le.indices = []int32{0, -2, 0}
	_, err = mapLayer(le, nil, 3)
	assert.True(t, fbx.IsFormatError(err))
}

func TestMapLayerByVertexScatter(t *testing.T) {
	points := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	indices := []int32{0, 1, ^2, 2, 1, ^0}
	_, groups, err := expandCorners(points, indices)
	require.NoError(t, err)

	a, b := Vec3{1, 0, 0}, Vec3{0, 0, 1}
	le := layerElement[Vec3]{
		present:   true,
		data:      []Vec3{a, b},
		indices:   []int32{1, 0, 1},
		mapping:   ByVertex,
		reference: IndexToDirect,
	}
	out, err := mapLayer(le, groups, len(indices))
	require.NoError(t, err)
	// Every corner gets the value of its control point.
	assert.Equal(t, []Vec3{b, a, b, b, a, b}, out)

	le = layerElement[Vec3]{present: true, data: []Vec3{a, b, a}, mapping: ByVertex, reference: Direct}
	out, err = mapLayer(le, groups, len(indices))
	require.NoError(t, err)
	assert.Equal(t, []Vec3{a, b, a, a, b, a}, out)

	le.data = le.data[:2]
	_, err = mapLayer(le, groups, len(indices))
	assert.True(t, fbx.IsFormatError(err))
}

func TestMapLayerAllSameAndUnsupported(t *testing.T) {
	le := layerElement[Vec2]{present: true, data: []Vec2{{3, 4}}, mapping: AllSame}
	out, err := mapLayer(le, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []Vec2{{3, 4}, {3, 4}, {3, 4}}, out)

	le.mapping = ByPolygon
	_, err = mapLayer(le, nil, 3)
	assert.True(t, fbx.IsFormatError(err))
}

func TestParseMappingAndReference(t *testing.T) {
	m, err := parseMapping("ByVertice")
	require.NoError(t, err)
	assert.Equal(t, ByVertex, m)
	_, err = parseMapping("ByEdge")
	assert.True(t, fbx.IsFormatError(err))

	r, err := parseReference("Index")
	require.NoError(t, err)
	assert.Equal(t, IndexToDirect, r)
	_, err = parseReference("Indirect")
	assert.True(t, fbx.IsFormatError(err))
}

func TestPolygonsSplit(t *testing.T) {
	assert.Equal(t, []span{{0, 3}, {3, 4}}, polygons([]int32{0, 1, ^2, 0, 2, 3, ^4}))
	assert.Equal(t, []span{{0, 3}, {3, 2}}, polygons([]int32{0, 1, ^2, 4, 5}), "unterminated run counts")
	assert.Empty(t, polygons(nil))
}

// fan returns one n-gon with distinct corners.
func fan(n int) (corners, []span) {
	var c corners
	for i := range n {
		c.positions = append(c.positions, Vec3{float32(i), float32(i * i), 0})
	}
	return c, []span{{0, n}}
}

func TestFanTriangulation(t *testing.T) {
	for n := 3; n <= 8; n++ {
		c, polys := fan(n)
		buckets := weldAndTriangulate(c, polys, []int32{0})
		require.Len(t, buckets, 1)
		g := buckets[0].geom
		assert.Equal(t, n-2, g.NumTriangles(), "n=%d", n)
		assert.Len(t, g.Positions, n)
	}

	c, polys := fan(5)
	g := weldAndTriangulate(c, polys, []int32{0})[0].geom
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4}, g.Indices)
}

func TestWelding(t *testing.T) {
	// Two triangles sharing the edge (1,2).
	p := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	c := corners{positions: []Vec3{p[0], p[1], p[2], p[1], p[3], p[2]}}
	polys := []span{{0, 3}, {3, 3}}

	g := weldAndTriangulate(c, polys, []int32{0, 0})[0].geom
	assert.Len(t, g.Positions, 4, "identical vertices are shared")
	assert.Equal(t, []uint32{0, 1, 2, 1, 3, 2}, g.Indices)

	up, down := Vec3{0, 0, 1}, Vec3{0, 0, -1}
	c.normals = []Vec3{up, up, up, down, down, down}
	g = weldAndTriangulate(c, polys, []int32{0, 0})[0].geom
	assert.Len(t, g.Positions, 6, "a differing normal keeps vertices apart")
	assert.Len(t, g.Normals, 6)
	assert.Empty(t, g.UVs)
}

func TestDegeneratePolygonsDropped(t *testing.T) {
	p := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	c := corners{positions: []Vec3{p[0], p[0], p[1], p[0], p[1], p[2]}}
	polys := []span{{0, 1}, {1, 2}, {3, 3}}

	buckets := weldAndTriangulate(c, polys, []int32{0, 0, 0})
	require.Len(t, buckets, 1)
	assert.Equal(t, 1, buckets[0].geom.NumTriangles())
	assert.Len(t, buckets[0].geom.Positions, 3)

	// A bucket that only received points and lines produces no mesh.
	buckets = weldAndTriangulate(c, polys, []int32{1, 1, 0})
	require.Len(t, buckets, 1)
	assert.Equal(t, int32(0), buckets[0].material)
}

func TestMaterialBuckets(t *testing.T) {
	p := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	c := corners{positions: []Vec3{p[0], p[1], p[2], p[0], p[1], p[2], p[0], p[1], p[2]}}
	polys := []span{{0, 3}, {3, 3}, {6, 3}}

	buckets := weldAndTriangulate(c, polys, []int32{2, 0, 2})
	require.Len(t, buckets, 2)
	assert.Equal(t, int32(0), buckets[0].material)
	assert.Equal(t, 1, buckets[0].geom.NumTriangles())
	assert.Equal(t, int32(2), buckets[1].material)
	assert.Equal(t, 2, buckets[1].geom.NumTriangles())
	assert.Len(t, buckets[1].geom.Positions, 3, "welded within the bucket")
}

func TestPolygonMaterials(t *testing.T) {
	out, err := polygonMaterials(layerElement[int32]{}, 3, true)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 0}, out, "missing layer")

	le := layerElement[int32]{present: true, data: []int32{4}, mapping: AllSame}
	out, err = polygonMaterials(le, 2, true)
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 4}, out)

	out, err = polygonMaterials(le, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0}, out, "materials not requested")

	le = layerElement[int32]{present: true, data: []int32{1, 0}, mapping: ByPolygon}
	out, err = polygonMaterials(le, 2, true)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 0}, out)

	_, err = polygonMaterials(le, 3, true)
	assert.True(t, fbx.IsFormatError(err))

	le.mapping = ByVertex
	_, err = polygonMaterials(le, 2, true)
	assert.True(t, fbx.IsFormatError(err))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Cube", Object{Name: "Cube\x00\x01Model"}.DisplayName())
	assert.Equal(t, "a b", Object{Name: "a\x00b"}.DisplayName())
}
