package scene

import "strings"

// Vec2 is a 2D point (texture coordinate).
type Vec2 [2]float32

// Vec3 is a 3D point, vector or RGB color.
type Vec3 [3]float32

// Quat is a rotation quaternion stored as (x, y, z, w).
type Quat [4]float32

// IdentityQuat is the zero rotation.
var IdentityQuat = Quat{0, 0, 0, 1}

// Geometry is a flat, welded, triangulated vertex/index buffer.
// UVs and Normals are either empty or parallel to Positions.
type Geometry struct {
	Positions []Vec3
	UVs       []Vec2
	Normals   []Vec3
	Indices   []uint32 // three per triangle
}

// NumTriangles returns len(Indices)/3.
func (g *Geometry) NumTriangles() int { return len(g.Indices) / 3 }

// Object carries the identity shared by all scene objects.
type Object struct {
	ID   int64
	Name string
}

// DisplayName strips the "\x00\x01Class" suffix the format appends to
// object names and replaces any remaining control bytes with spaces.
func (o Object) DisplayName() string {
	name := o.Name
	if i := strings.Index(name, "\x00\x01"); i >= 0 {
		name = name[:i]
	}
	return strings.Map(func(r rune) rune {
		if r == 0x00 || r == 0x01 {
			return ' '
		}
		return r
	}, name)
}

// Mesh is the part of one source geometry that uses a single material.
type Mesh struct {
	Object
	Geometry      Geometry
	MaterialIndex int32 // index into the owning model's material list
}

// TextureSlot names the texture inputs of a material.
type TextureSlot int

const (
	Albedo TextureSlot = iota
	Normal
	Roughness
	Metallic
	NumTextureSlots
)

var slotNames = [...]string{"albedo", "normal", "roughness", "metallic"}

func (s TextureSlot) String() string {
	if s >= 0 && s < NumTextureSlots {
		return slotNames[s]
	}
	return "unknown"
}

// Material holds the Phong parameters of a material and its texture bindings.
type Material struct {
	Object
	ShadingModel      string
	MultiLayer        int32
	DiffuseColor      Vec3
	AmbientColor      Vec3
	SpecularColor     Vec3
	ReflectionColor   Vec3
	AmbientFactor     float32
	SpecularFactor    float32
	Shininess         float32
	ShininessExponent float32

	// Textures holds indices into Scene.Textures, -1 when unbound.
	Textures [NumTextureSlots]int
}

// Texture references an image file; the image itself is never loaded.
type Texture struct {
	Object
	FileName         string
	RelativeFileName string
}

// Model is a scene node. Meshes and Materials index Scene.Meshes and
// Scene.Materials; the model does not own them.
type Model struct {
	Object
	LocalRotation    Quat
	LocalTranslation Vec3
	Meshes           []int
	Materials        []int
}

// Scene is the decoded content of one container.
type Scene struct {
	Version   uint32
	Models    []Model
	Meshes    []Mesh
	Materials []Material
	Textures  []Texture
}

// MeshMaterial returns the material a model's mesh uses: the model's
// material at the mesh's material index.
func (s *Scene) MeshMaterial(model *Model, mesh *Mesh) (*Material, bool) {
	i := int(mesh.MaterialIndex)
	if i < 0 || i >= len(model.Materials) {
		return nil, false
	}
	return &s.Materials[model.Materials[i]], true
}

// MaterialTexture returns the texture bound to slot, if any.
func (s *Scene) MaterialTexture(m *Material, slot TextureSlot) (*Texture, bool) {
	i := m.Textures[slot]
	if i < 0 {
		return nil, false
	}
	return &s.Textures[i], true
}

// Flags selects the optional data read from geometry and object nodes.
type Flags uint8

const (
	LoadUVs Flags = 1 << iota
	LoadNormals
	LoadMaterials

	LoadAll = LoadUVs | LoadNormals | LoadMaterials
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }
