package flver

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FLVER is a decoded model file.
type FLVER struct {
	Header    Header
	Dummies   []Dummy
	Materials []Material
	Bones     []Bone
	Meshes    []Mesh

	// Layouts holds the vertex buffer layouts referenced by the meshes'
	// vertex buffers.
	Layouts []BufferLayout
}

// New returns an empty model with a default header.
func New() *FLVER {
	return &FLVER{
		Header:    Header{Version: 0x2000E},
		Dummies:   []Dummy{},
		Materials: []Material{},
		Bones:     []Bone{},
		Meshes:    []Mesh{},
		Layouts:   []BufferLayout{},
	}
}

// Header holds file-level metadata.
type Header struct {
	// Version is the format version; see versions for the accepted set.
	Version int32

	// BoundingBoxMin and BoundingBoxMax bound every mesh in the model.
	BoundingBoxMin mgl32.Vec3
	BoundingBoxMax mgl32.Vec3

	// VertexIndexSize is the bit width of face set indices, either 16 or
	// 32, or 0 if each face set declares its own width.
	VertexIndexSize int32

	// Unicode selects UTF-16 strings rather than Shift JIS.
	Unicode bool

	Unk4A bool
	Unk4C int32
	Unk5C byte
	Unk5D byte
	Unk68 int32
}

// Dummy is a reference point used for effects and attachment.
type Dummy struct {
	Position mgl32.Vec3

	// Color is stored verbatim; the channel order varies between games.
	Color [4]byte

	Forward mgl32.Vec3
	Upward  mgl32.Vec3

	ReferenceID     int16
	ParentBoneIndex int16
	AttachBoneIndex int16

	Flag1           bool
	UseUpwardVector bool

	Unk30 int32
	Unk34 int32
}

// Material determines how meshes referencing it are rendered.
type Material struct {
	// Name is a friendly name for the material.
	Name string

	// MTD is the path of the material definition file.
	MTD string

	Flags int32

	// Textures holds the texture records claimed by this material.
	Textures []Texture

	Unk18 int32
}

// Texture binds a texture file to a slot in a material.
type Texture struct {
	// Type names the slot, matching a sampler in the material definition.
	Type string

	// Path is the texture file path.
	Path string

	Scale mgl32.Vec2

	Unk10 byte
	Unk11 bool
	Unk14 float32
	Unk18 float32
	Unk1C float32
}

// Bone is a joint in the model's skeleton.
type Bone struct {
	Name string

	Translation mgl32.Vec3

	// Rotation is a euler angle in radians.
	Rotation mgl32.Vec3

	Scale mgl32.Vec3

	BoundingBoxMin mgl32.Vec3
	BoundingBoxMax mgl32.Vec3

	ParentIndex          int16
	ChildIndex           int16
	NextSiblingIndex     int16
	PreviousSiblingIndex int16

	Unk3C int32
}

// Mesh is a drawable portion of the model using a single material.
type Mesh struct {
	// Dynamic marks meshes skinned to multiple bones.
	Dynamic bool

	// MaterialIndex indexes the model's material list.
	MaterialIndex int32

	// DefaultBoneIndex is the bone this mesh belongs to, or -1.
	DefaultBoneIndex int32

	// BoneIndices indexes the bones available to this mesh's vertices.
	BoneIndices []int32

	// FaceSets holds the index sets claimed by this mesh.
	FaceSets []FaceSet

	// VertexBuffers names the layout of each buffer the mesh's vertices
	// were unpacked from, in buffer order.
	VertexBuffers []VertexBuffer

	// Vertices holds the unpacked vertices.
	Vertices []Vertex

	// BoundingBox bounds the mesh, or is nil if the mesh has none.
	BoundingBox *BoundingBox
}

// BoundingBox is an axis-aligned bounding volume.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3

	// Unk is only present in files at version 0x2001A or later.
	Unk mgl32.Vec3
}

// FaceSet is one set of triangles drawn from a mesh's vertices, typically
// one per level of detail.
type FaceSet struct {
	Flags uint32

	// TriangleStrip marks the indices as a triangle strip rather than a
	// triangle list.
	TriangleStrip bool

	CullBackfaces bool

	Unk06 byte
	Unk07 byte

	// Indices index the owning mesh's vertices.
	Indices []int32
}

// Triangulate flattens the face set into a triangle list. Primitive
// restarts are honored for strips; degenerate triangles are dropped unless
// includeDegenerates is set.
func (fs *FaceSet) Triangulate(includeDegenerates bool) []int32 {
	if !fs.TriangleStrip {
		tris := make([]int32, len(fs.Indices))
		copy(tris, fs.Indices)
		return tris
	}
	var tris []int32
	flip := false
	for i := 0; i+2 < len(fs.Indices); i++ {
		a, b, c := fs.Indices[i], fs.Indices[i+1], fs.Indices[i+2]
		if a == 0xFFFF || b == 0xFFFF || c == 0xFFFF {
			flip = false
			continue
		}
		if includeDegenerates || (a != b && b != c && c != a) {
			if flip {
				tris = append(tris, c, b, a)
			} else {
				tris = append(tris, a, b, c)
			}
		}
		flip = !flip
	}
	return tris
}

// VertexBuffer records which layout one of a mesh's buffers used. The
// buffer's contents live in the mesh's vertices.
type VertexBuffer struct {
	// LayoutIndex indexes the model's layout list.
	LayoutIndex int32
}

// Vertex is one vertex of a mesh. Which fields are meaningful depends on
// the layouts of the buffers the mesh was read from.
type Vertex struct {
	Position mgl32.Vec3

	// BoneIndices index the mesh's bone indices, or the model's bones
	// directly for meshes without their own list.
	BoneIndices [4]int32

	BoneWeights [4]float32

	Normal mgl32.Vec3

	// NormalW is the fourth component carried by packed normals; it is
	// usually a bone index for static meshes.
	NormalW int32

	UVs      []mgl32.Vec3
	Tangents []mgl32.Vec4

	Bitangent mgl32.Vec4

	Colors []Color
}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R float32
	G float32
	B float32
	A float32
}
