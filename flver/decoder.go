package flver

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nex3/SoulsFormats/bxio"
	"github.com/nex3/SoulsFormats/errors"
)

// Decode reads a model from r.
//
// warnings reports pool entries no record claimed; when it is non-nil the
// model still decoded successfully, minus the orphaned entries. err is
// non-nil only when decoding failed outright, in which case the model is
// nil.
func Decode(r io.Reader) (f *FLVER, warnings, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes a model from data. See Decode.
func DecodeBytes(data []byte) (f *FLVER, warnings, err error) {
	d := &decoder{br: bxio.NewReader(data)}
	if err := d.decode(); err != nil {
		return nil, nil, err
	}
	return d.f, d.warnings.Return(), nil
}

// rawBuffer is a vertex buffer record whose payload has not been unpacked.
type rawBuffer struct {
	bufferIndex int32
	layoutIndex int32
	vertexSize  int32
	vertexCount int
	dataOffset  int32
}

// meshRefs holds the pool indices a mesh claims once every pool is read.
type meshRefs struct {
	faceSets []int32
	buffers  []int32
}

type decoder struct {
	br       *bxio.Reader
	f        *FLVER
	warnings errors.Errors

	dataOffset int32
	indexSize  int32

	textureRanges [][2]int32
	meshRefs      []meshRefs

	faceSets *arena[FaceSet]
	buffers  *arena[rawBuffer]
	textures *arena[Texture]
}

func (d *decoder) decode() error {
	br := d.br
	d.f = New()

	br.AssertASCII("FLVER\x00")
	if br.AssertASCII("L\x00", "B\x00") == "B\x00" {
		br.Fail(ErrBigEndian)
	}
	h := &d.f.Header
	h.Version = br.AssertInt32(versions...)
	d.dataOffset = br.Int32()
	br.Int32() // data length, implied by the final buffer
	dummyCount := br.Count()
	materialCount := br.Count()
	boneCount := br.Count()
	meshCount := br.Count()
	bufferCount := br.Count()
	h.BoundingBoxMin = br.Vec3()
	h.BoundingBoxMax = br.Vec3()
	br.Int32() // true face count
	br.Int32() // total face count
	d.indexSize = int32(br.AssertByte(0, 16, 32))
	h.VertexIndexSize = d.indexSize
	h.Unicode = br.Bool()
	h.Unk4A = br.Bool()
	br.AssertByte(0)
	h.Unk4C = br.Int32()
	faceSetCount := br.Count()
	layoutCount := br.Count()
	textureCount := br.Count()
	h.Unk5C = br.Byte()
	h.Unk5D = br.Byte()
	br.AssertByte(0)
	br.AssertByte(0)
	br.AssertInt32(0)
	br.AssertInt32(0)
	h.Unk68 = br.AssertInt32(0, 1, 2, 3, 4)
	for i := 0; i < 5; i++ {
		br.AssertInt32(0)
	}

	for i := 0; i < dummyCount; i++ {
		d.f.Dummies = append(d.f.Dummies, d.decodeDummy())
	}
	for i := 0; i < materialCount; i++ {
		d.decodeMaterial()
	}
	for i := 0; i < boneCount; i++ {
		d.f.Bones = append(d.f.Bones, d.decodeBone())
	}
	for i := 0; i < meshCount; i++ {
		d.decodeMesh()
	}

	faceSets := make([]FaceSet, 0, faceSetCount)
	for i := 0; i < faceSetCount; i++ {
		faceSets = append(faceSets, d.decodeFaceSet())
	}
	d.faceSets = newArena("face set", faceSets)

	buffers := make([]rawBuffer, 0, bufferCount)
	for i := 0; i < bufferCount; i++ {
		buffers = append(buffers, d.decodeBuffer())
	}
	d.buffers = newArena("vertex buffer", buffers)

	for i := 0; i < layoutCount; i++ {
		d.f.Layouts = append(d.f.Layouts, d.decodeLayout())
	}

	textures := make([]Texture, 0, textureCount)
	for i := 0; i < textureCount; i++ {
		textures = append(textures, d.decodeTexture())
	}
	d.textures = newArena("texture", textures)

	if err := br.Err(); err != nil {
		return err
	}

	// Claims run in file order so a reference shared between two records
	// always fails on the later one.
	for i := range d.f.Materials {
		if err := d.claimTextures(i); err != nil {
			return MaterialError{Index: i, Cause: err}
		}
	}
	for i := range d.f.Meshes {
		if err := d.resolveMesh(i); err != nil {
			return err
		}
	}

	for _, idx := range d.faceSets.leftover() {
		d.warnings = d.warnings.Append(UnclaimedError{Pool: "face set", Index: idx})
	}
	for _, idx := range d.buffers.leftover() {
		d.warnings = d.warnings.Append(UnclaimedError{Pool: "vertex buffer", Index: idx})
	}
	for _, idx := range d.textures.leftover() {
		d.warnings = d.warnings.Append(UnclaimedError{Pool: "texture", Index: idx})
	}
	return nil
}

// stringAt reads the zero-terminated string at off in the header's
// encoding, leaving the read position unchanged.
func (d *decoder) stringAt(off int32) string {
	br := d.br
	br.StepIn(int(off))
	var s string
	if d.f.Header.Unicode {
		s = br.UTF16Z()
	} else {
		s = br.ShiftJISZ()
	}
	br.StepOut()
	return s
}

func (d *decoder) decodeDummy() Dummy {
	br := d.br
	var dmy Dummy
	dmy.Position = br.Vec3()
	copy(dmy.Color[:], br.Bytes(4))
	dmy.Forward = br.Vec3()
	dmy.ReferenceID = br.Int16()
	dmy.ParentBoneIndex = br.Int16()
	dmy.Upward = br.Vec3()
	dmy.AttachBoneIndex = br.Int16()
	dmy.Flag1 = br.Bool()
	dmy.UseUpwardVector = br.Bool()
	dmy.Unk30 = br.Int32()
	dmy.Unk34 = br.Int32()
	br.AssertInt32(0)
	br.AssertInt32(0)
	return dmy
}

func (d *decoder) decodeMaterial() {
	br := d.br
	var mat Material
	nameOff := br.Int32()
	mtdOff := br.Int32()
	textureCount := br.Count()
	textureIndex := br.Int32()
	mat.Flags = br.Int32()
	br.AssertInt32(0) // GX item lists are not supported
	mat.Unk18 = br.Int32()
	br.AssertInt32(0)
	mat.Name = d.stringAt(nameOff)
	mat.MTD = d.stringAt(mtdOff)
	d.textureRanges = append(d.textureRanges, [2]int32{textureIndex, int32(textureCount)})
	d.f.Materials = append(d.f.Materials, mat)
}

func (d *decoder) decodeBone() Bone {
	br := d.br
	var b Bone
	b.Translation = br.Vec3()
	nameOff := br.Int32()
	b.Rotation = br.Vec3()
	b.ParentIndex = br.Int16()
	b.ChildIndex = br.Int16()
	b.Scale = br.Vec3()
	b.NextSiblingIndex = br.Int16()
	b.PreviousSiblingIndex = br.Int16()
	b.BoundingBoxMin = br.Vec3()
	b.Unk3C = br.Int32()
	b.BoundingBoxMax = br.Vec3()
	for i := 0; i < 13; i++ {
		br.AssertInt32(0)
	}
	b.Name = d.stringAt(nameOff)
	return b
}

func (d *decoder) decodeMesh() {
	br := d.br
	var m Mesh
	m.Dynamic = br.Bool()
	br.AssertByte(0)
	br.AssertByte(0)
	br.AssertByte(0)
	m.MaterialIndex = br.Int32()
	br.AssertInt32(0)
	br.AssertInt32(0)
	m.DefaultBoneIndex = br.Int32()
	boneCount := br.Count()
	boundingBoxOff := br.Int32()
	boneOff := br.Int32()
	faceSetCount := br.Count()
	faceSetOff := br.Int32()
	bufferCount := br.AssertInt32(1, 2, 3)
	bufferOff := br.Int32()

	if boundingBoxOff != 0 {
		br.StepIn(int(boundingBoxOff))
		bb := BoundingBox{Min: br.Vec3(), Max: br.Vec3()}
		if hasBoundingBoxUnk(d.f.Header.Version) {
			bb.Unk = br.Vec3()
		}
		m.BoundingBox = &bb
		br.StepOut()
	}
	if boneCount > 0 {
		br.StepIn(int(boneOff))
		m.BoneIndices = br.Int32s(boneCount)
		br.StepOut()
	}

	var refs meshRefs
	br.StepIn(int(faceSetOff))
	refs.faceSets = br.Int32s(faceSetCount)
	br.StepOut()
	br.StepIn(int(bufferOff))
	refs.buffers = br.Int32s(int(bufferCount))
	br.StepOut()
	d.meshRefs = append(d.meshRefs, refs)
	d.f.Meshes = append(d.f.Meshes, m)
}

func (d *decoder) decodeFaceSet() FaceSet {
	br := d.br
	var fs FaceSet
	fs.Flags = br.Uint32()
	fs.TriangleStrip = br.Bool()
	fs.CullBackfaces = br.Bool()
	fs.Unk06 = br.Byte()
	fs.Unk07 = br.Byte()
	indexCount := br.Count()
	indicesOff := br.Int32()
	size := d.indexSize
	if hasFaceSetSizes(d.f.Header.Version) {
		br.Int32() // byte length of the indices, implied by count and size
		br.AssertInt32(0)
		size = br.AssertInt32(0, 16, 32)
		if size == 0 {
			size = d.indexSize
		}
		br.AssertInt32(0)
	}

	br.StepIn(int(d.dataOffset) + int(indicesOff))
	switch size {
	case 16:
		fs.Indices = make([]int32, indexCount)
		for i := range fs.Indices {
			fs.Indices[i] = int32(br.Uint16())
		}
	case 32:
		fs.Indices = br.Int32s(indexCount)
	default:
		br.Fail(ErrIndexSize)
	}
	br.StepOut()
	return fs
}

func (d *decoder) decodeBuffer() rawBuffer {
	br := d.br
	var b rawBuffer
	b.bufferIndex = br.Int32()
	b.layoutIndex = br.Int32()
	b.vertexSize = br.Int32()
	b.vertexCount = br.Count()
	br.AssertInt32(0)
	br.AssertInt32(0)
	br.AssertInt32(b.vertexSize * int32(b.vertexCount))
	b.dataOffset = br.Int32()
	return b
}

func (d *decoder) decodeLayout() BufferLayout {
	br := d.br
	memberCount := br.Count()
	br.AssertInt32(0)
	br.AssertInt32(0)
	memberOff := br.Int32()

	var l BufferLayout
	br.StepIn(int(memberOff))
	l.Members = make([]LayoutMember, 0, memberCount)
	var structOff int32
	for i := 0; i < memberCount; i++ {
		var m LayoutMember
		m.Unk00 = br.AssertInt32(0, 1, 2)
		br.AssertInt32(structOff)
		m.Type = LayoutType(br.Uint32())
		m.Semantic = LayoutSemantic(br.Uint32())
		m.Index = br.Int32()
		structOff += int32(m.Type.Size())
		l.Members = append(l.Members, m)
	}
	br.StepOut()
	return l
}

func (d *decoder) decodeTexture() Texture {
	br := d.br
	var t Texture
	pathOff := br.Int32()
	typeOff := br.Int32()
	t.Scale = br.Vec2()
	t.Unk10 = br.AssertByte(0, 1, 2)
	t.Unk11 = br.Bool()
	br.AssertByte(0)
	br.AssertByte(0)
	t.Unk14 = br.Float32()
	t.Unk18 = br.Float32()
	t.Unk1C = br.Float32()
	t.Path = d.stringAt(pathOff)
	t.Type = d.stringAt(typeOff)
	return t
}

func (d *decoder) claimTextures(i int) error {
	rng := d.textureRanges[i]
	if rng[1] == 0 {
		return nil
	}
	mat := &d.f.Materials[i]
	mat.Textures = make([]Texture, 0, rng[1])
	for j := int32(0); j < rng[1]; j++ {
		tex, err := d.textures.claim(int(rng[0] + j))
		if err != nil {
			return err
		}
		mat.Textures = append(mat.Textures, tex)
	}
	return nil
}

func (d *decoder) resolveMesh(i int) error {
	m := &d.f.Meshes[i]
	refs := d.meshRefs[i]

	if len(refs.faceSets) > 0 {
		m.FaceSets = make([]FaceSet, 0, len(refs.faceSets))
		for _, idx := range refs.faceSets {
			fs, err := d.faceSets.claim(int(idx))
			if err != nil {
				return MeshError{Index: i, Cause: err}
			}
			m.FaceSets = append(m.FaceSets, fs)
		}
	}

	bufs := make([]rawBuffer, 0, len(refs.buffers))
	for _, idx := range refs.buffers {
		b, err := d.buffers.claim(int(idx))
		if err != nil {
			return MeshError{Index: i, Cause: err}
		}
		bufs = append(bufs, b)
		m.VertexBuffers = append(m.VertexBuffers, VertexBuffer{LayoutIndex: b.layoutIndex})
	}

	if err := d.checkBuffers(i, bufs); err != nil {
		return err
	}
	d.decodeVertices(m, bufs)
	if err := d.br.Err(); err != nil {
		return MeshError{Index: i, Cause: err}
	}
	return nil
}

// checkBuffers validates a mesh's claimed buffers against their layouts.
// Every check runs before any vertex data is read so a mesh either decodes
// fully or not at all.
func (d *decoder) checkBuffers(i int, bufs []rawBuffer) error {
	idxs := make([]int32, len(bufs))
	for bi, b := range bufs {
		if int(b.bufferIndex) != bi {
			return UnsupportedLayoutError{
				Mesh:   i,
				Reason: fmt.Sprintf("buffer %d carries buffer index %d", bi, b.bufferIndex),
			}
		}
		idxs[bi] = b.layoutIndex
	}
	if err := checkMemberSet(i, d.f.Layouts, idxs); err != nil {
		return err
	}
	for _, b := range bufs {
		layout := d.f.Layouts[b.layoutIndex]
		if int(b.vertexSize) != layout.Size() {
			return UnsupportedLayoutError{
				Mesh:   i,
				Reason: fmt.Sprintf("vertex size %d does not match layout size %d", b.vertexSize, layout.Size()),
			}
		}
	}
	return nil
}

func (d *decoder) decodeVertices(m *Mesh, bufs []rawBuffer) {
	br := d.br
	factor := uvFactor(d.f.Header.Version)

	// The first buffer's count is authoritative; the rest restate it.
	n := bufs[0].vertexCount

	var uvCap, tangentCap, colorCap int
	for _, b := range bufs {
		var uvs, tangents, colors int
		for _, mem := range d.f.Layouts[b.layoutIndex].Members {
			switch mem.Semantic {
			case SemanticUV:
				uvs += uvSlots(mem)
			case SemanticTangent:
				tangents++
			case SemanticVertexColor:
				colors++
			}
		}
		uvCap = max(uvCap, uvs)
		tangentCap = max(tangentCap, tangents)
		colorCap = max(colorCap, colors)
	}

	m.Vertices = make([]Vertex, n)
	for vi := range m.Vertices {
		if uvCap > 0 {
			m.Vertices[vi].UVs = make([]mgl32.Vec3, 0, uvCap)
		}
		if tangentCap > 0 {
			m.Vertices[vi].Tangents = make([]mgl32.Vec4, 0, tangentCap)
		}
		if colorCap > 0 {
			m.Vertices[vi].Colors = make([]Color, 0, colorCap)
		}
	}

	for _, b := range bufs {
		layout := d.f.Layouts[b.layoutIndex]
		br.StepIn(int(d.dataOffset) + int(b.dataOffset))
		for vi := 0; vi < n; vi++ {
			for _, mem := range layout.Members {
				readMember(br, &m.Vertices[vi], mem, factor)
			}
		}
		br.StepOut()
	}
}
