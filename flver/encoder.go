package flver

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/nex3/SoulsFormats/bxio"
)

// Encode writes f to w. Nothing is written if encoding fails.
func Encode(w io.Writer, f *FLVER) error {
	b, err := EncodeBytes(f)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeBytes encodes f and returns the assembled file.
func EncodeBytes(f *FLVER) ([]byte, error) {
	e := &encoder{bw: bxio.NewWriter(), f: f}
	return e.encode()
}

type encoder struct {
	bw *bxio.Writer
	f  *FLVER

	// layouts is the model's layout list with duplicates merged;
	// layoutMap takes an index into the model's list to one into layouts.
	layouts   []BufferLayout
	layoutMap []int32

	// faceSetSizes holds the chosen index width of each face set, in pool
	// order.
	faceSetSizes []int32
}

func (e *encoder) encode() ([]byte, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	e.dedupLayouts()
	if err := e.chooseFaceSetSizes(); err != nil {
		return nil, err
	}

	e.writeHeader()
	for i := range e.f.Dummies {
		e.writeDummy(&e.f.Dummies[i])
	}
	texIndex := 0
	for i := range e.f.Materials {
		e.writeMaterial(i, texIndex)
		texIndex += len(e.f.Materials[i].Textures)
	}
	for i := range e.f.Bones {
		e.writeBone(i)
	}
	for i := range e.f.Meshes {
		e.writeMesh(i)
	}
	gi := 0
	for mi := range e.f.Meshes {
		for fi := range e.f.Meshes[mi].FaceSets {
			e.writeFaceSet(&e.f.Meshes[mi].FaceSets[fi], gi)
			gi++
		}
	}
	gi = 0
	for mi := range e.f.Meshes {
		m := &e.f.Meshes[mi]
		for bi := range m.VertexBuffers {
			e.writeBufferHeader(m, bi, gi)
			gi++
		}
	}
	for i := range e.layouts {
		e.writeLayoutHeader(i)
	}
	ti := 0
	for mi := range e.f.Materials {
		for t := range e.f.Materials[mi].Textures {
			e.writeTexture(&e.f.Materials[mi].Textures[t], ti)
			ti++
		}
	}

	e.writeMeshLists()
	e.writeLayoutMembers()
	e.writeStrings()
	if err := e.writeData(); err != nil {
		return nil, err
	}
	return e.bw.Finish()
}

// check validates the parts of the model a write cannot express. It runs
// before anything is assembled so a failed encode emits nothing.
func (e *encoder) check() error {
	h := e.f.Header
	known := false
	for _, v := range versions {
		if h.Version == v {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unsupported format version 0x%X", h.Version)
	}
	switch h.VertexIndexSize {
	case 0, 16, 32:
	default:
		return fmt.Errorf("bad vertex index size %d", h.VertexIndexSize)
	}
	if h.VertexIndexSize == 0 && !hasFaceSetSizes(h.Version) {
		return ErrIndexSize
	}
	if h.Unk68 < 0 || h.Unk68 > 4 {
		return fmt.Errorf("bad header field unk68 %d", h.Unk68)
	}

	for mi := range e.f.Meshes {
		m := &e.f.Meshes[mi]
		if len(m.VertexBuffers) == 0 {
			return MeshError{Index: mi, Cause: ErrNoBuffers}
		}
		if len(m.VertexBuffers) > 3 {
			return MeshError{
				Index: mi,
				Cause: fmt.Errorf("%d vertex buffers, at most 3 allowed", len(m.VertexBuffers)),
			}
		}
		idxs := make([]int32, len(m.VertexBuffers))
		for i, vb := range m.VertexBuffers {
			idxs[i] = vb.LayoutIndex
		}
		if err := checkMemberSet(mi, e.f.Layouts, idxs); err != nil {
			return err
		}
	}
	return nil
}

// dedupLayouts merges layouts with identical members so repeated claims of
// the same layout shape share one pool entry.
func (e *encoder) dedupLayouts() {
	e.layoutMap = make([]int32, len(e.f.Layouts))
	seen := map[[32]byte]int32{}
	for i, l := range e.f.Layouts {
		k := layoutKey(l)
		if ci, ok := seen[k]; ok {
			e.layoutMap[i] = ci
			continue
		}
		ci := int32(len(e.layouts))
		seen[k] = ci
		e.layoutMap[i] = ci
		e.layouts = append(e.layouts, l)
	}
}

func layoutKey(l BufferLayout) [32]byte {
	b := make([]byte, 0, 16*len(l.Members))
	var tmp [16]byte
	for _, m := range l.Members {
		binary.LittleEndian.PutUint32(tmp[0:], uint32(m.Unk00))
		binary.LittleEndian.PutUint32(tmp[4:], uint32(m.Type))
		binary.LittleEndian.PutUint32(tmp[8:], uint32(m.Semantic))
		binary.LittleEndian.PutUint32(tmp[12:], uint32(m.Index))
		b = append(b, tmp[:]...)
	}
	return blake2b.Sum256(b)
}

// chooseFaceSetSizes picks the index width of each face set. A header that
// declares a width fixes it for every set; otherwise each set gets the
// narrowest width its indices fit.
func (e *encoder) chooseFaceSetSizes() error {
	for mi := range e.f.Meshes {
		for fi, fs := range e.f.Meshes[mi].FaceSets {
			var maxIndex int32
			for _, idx := range fs.Indices {
				if idx < 0 {
					return MeshError{
						Index: mi,
						Cause: fmt.Errorf("face set %d has negative index %d", fi, idx),
					}
				}
				maxIndex = max(maxIndex, idx)
			}
			size := e.f.Header.VertexIndexSize
			if size == 0 {
				size = 16
				if maxIndex > 0xFFFF {
					size = 32
				}
			} else if size == 16 && maxIndex > 0xFFFF {
				return MeshError{
					Index: mi,
					Cause: fmt.Errorf("face set %d index %d does not fit in 16 bits", fi, maxIndex),
				}
			}
			e.faceSetSizes = append(e.faceSetSizes, size)
		}
	}
	return nil
}

func (e *encoder) faceCounts() (trueCount, totalCount int32) {
	for _, m := range e.f.Meshes {
		for _, fs := range m.FaceSets {
			totalCount += int32(len(fs.Triangulate(true)) / 3)
			if fs.Flags == 0 {
				trueCount += int32(len(fs.Triangulate(false)) / 3)
			}
		}
	}
	return trueCount, totalCount
}

func (e *encoder) writeHeader() {
	bw := e.bw
	h := e.f.Header
	var faceSetTotal, bufferTotal, textureTotal int
	for _, m := range e.f.Meshes {
		faceSetTotal += len(m.FaceSets)
		bufferTotal += len(m.VertexBuffers)
	}
	for _, mat := range e.f.Materials {
		textureTotal += len(mat.Textures)
	}

	bw.ASCII("FLVER\x00")
	bw.ASCII("L\x00")
	bw.Int32(h.Version)
	bw.ReserveInt32("dataOffset")
	bw.ReserveInt32("dataLength")
	bw.Int32(int32(len(e.f.Dummies)))
	bw.Int32(int32(len(e.f.Materials)))
	bw.Int32(int32(len(e.f.Bones)))
	bw.Int32(int32(len(e.f.Meshes)))
	bw.Int32(int32(bufferTotal))
	bw.Vec3(h.BoundingBoxMin)
	bw.Vec3(h.BoundingBoxMax)
	trueCount, totalCount := e.faceCounts()
	bw.Int32(trueCount)
	bw.Int32(totalCount)
	bw.Byte(byte(h.VertexIndexSize))
	bw.Bool(h.Unicode)
	bw.Bool(h.Unk4A)
	bw.Byte(0)
	bw.Int32(h.Unk4C)
	bw.Int32(int32(faceSetTotal))
	bw.Int32(int32(len(e.layouts)))
	bw.Int32(int32(textureTotal))
	bw.Byte(h.Unk5C)
	bw.Byte(h.Unk5D)
	bw.Byte(0)
	bw.Byte(0)
	bw.Int32(0)
	bw.Int32(0)
	bw.Int32(h.Unk68)
	for i := 0; i < 5; i++ {
		bw.Int32(0)
	}
}

func (e *encoder) writeDummy(dmy *Dummy) {
	bw := e.bw
	bw.Vec3(dmy.Position)
	bw.Bytes(dmy.Color[:])
	bw.Vec3(dmy.Forward)
	bw.Int16(dmy.ReferenceID)
	bw.Int16(dmy.ParentBoneIndex)
	bw.Vec3(dmy.Upward)
	bw.Int16(dmy.AttachBoneIndex)
	bw.Bool(dmy.Flag1)
	bw.Bool(dmy.UseUpwardVector)
	bw.Int32(dmy.Unk30)
	bw.Int32(dmy.Unk34)
	bw.Int32(0)
	bw.Int32(0)
}

func (e *encoder) writeMaterial(i, texIndex int) {
	bw := e.bw
	mat := &e.f.Materials[i]
	bw.ReserveInt32(fmt.Sprintf("materialName%d", i))
	bw.ReserveInt32(fmt.Sprintf("materialMTD%d", i))
	bw.Int32(int32(len(mat.Textures)))
	bw.Int32(int32(texIndex))
	bw.Int32(mat.Flags)
	bw.Int32(0)
	bw.Int32(mat.Unk18)
	bw.Int32(0)
}

func (e *encoder) writeBone(i int) {
	bw := e.bw
	b := &e.f.Bones[i]
	bw.Vec3(b.Translation)
	bw.ReserveInt32(fmt.Sprintf("boneName%d", i))
	bw.Vec3(b.Rotation)
	bw.Int16(b.ParentIndex)
	bw.Int16(b.ChildIndex)
	bw.Vec3(b.Scale)
	bw.Int16(b.NextSiblingIndex)
	bw.Int16(b.PreviousSiblingIndex)
	bw.Vec3(b.BoundingBoxMin)
	bw.Int32(b.Unk3C)
	bw.Vec3(b.BoundingBoxMax)
	for i := 0; i < 13; i++ {
		bw.Int32(0)
	}
}

func (e *encoder) writeMesh(mi int) {
	bw := e.bw
	m := &e.f.Meshes[mi]
	bw.Bool(m.Dynamic)
	bw.Byte(0)
	bw.Byte(0)
	bw.Byte(0)
	bw.Int32(m.MaterialIndex)
	bw.Int32(0)
	bw.Int32(0)
	bw.Int32(m.DefaultBoneIndex)
	bw.Int32(int32(len(m.BoneIndices)))
	bw.ReserveInt32(fmt.Sprintf("meshBoundingBox%d", mi))
	bw.ReserveInt32(fmt.Sprintf("meshBoneIndices%d", mi))
	bw.Int32(int32(len(m.FaceSets)))
	bw.ReserveInt32(fmt.Sprintf("meshFaceSets%d", mi))
	bw.Int32(int32(len(m.VertexBuffers)))
	bw.ReserveInt32(fmt.Sprintf("meshBuffers%d", mi))
}

func (e *encoder) writeFaceSet(fs *FaceSet, gi int) {
	bw := e.bw
	bw.Uint32(fs.Flags)
	bw.Bool(fs.TriangleStrip)
	bw.Bool(fs.CullBackfaces)
	bw.Byte(fs.Unk06)
	bw.Byte(fs.Unk07)
	bw.Int32(int32(len(fs.Indices)))
	bw.ReserveInt32(fmt.Sprintf("faceSetIndices%d", gi))
	if hasFaceSetSizes(e.f.Header.Version) {
		size := e.faceSetSizes[gi]
		bw.Int32(int32(len(fs.Indices)) * size / 8)
		bw.Int32(0)
		bw.Int32(size)
		bw.Int32(0)
	}
}

func (e *encoder) writeBufferHeader(m *Mesh, bi, gi int) {
	bw := e.bw
	li := e.layoutMap[m.VertexBuffers[bi].LayoutIndex]
	size := int32(e.layouts[li].Size())
	count := int32(len(m.Vertices))
	bw.Int32(int32(bi))
	bw.Int32(li)
	bw.Int32(size)
	bw.Int32(count)
	bw.Int32(0)
	bw.Int32(0)
	bw.Int32(size * count)
	bw.ReserveInt32(fmt.Sprintf("bufferData%d", gi))
}

func (e *encoder) writeLayoutHeader(i int) {
	bw := e.bw
	bw.Int32(int32(len(e.layouts[i].Members)))
	bw.Int32(0)
	bw.Int32(0)
	bw.ReserveInt32(fmt.Sprintf("layoutMembers%d", i))
}

func (e *encoder) writeTexture(t *Texture, ti int) {
	bw := e.bw
	bw.ReserveInt32(fmt.Sprintf("texturePath%d", ti))
	bw.ReserveInt32(fmt.Sprintf("textureType%d", ti))
	bw.Vec2(t.Scale)
	bw.Byte(t.Unk10)
	bw.Bool(t.Unk11)
	bw.Byte(0)
	bw.Byte(0)
	bw.Float32(t.Unk14)
	bw.Float32(t.Unk18)
	bw.Float32(t.Unk1C)
}

// writeMeshLists writes each mesh's bounding box, bone index list, and pool
// index lists, filling the offsets reserved by the mesh records.
func (e *encoder) writeMeshLists() {
	bw := e.bw
	faceSetBase, bufferBase := 0, 0
	for mi := range e.f.Meshes {
		m := &e.f.Meshes[mi]
		if m.BoundingBox != nil {
			bw.FillInt32(fmt.Sprintf("meshBoundingBox%d", mi), int32(bw.Pos()))
			bw.Vec3(m.BoundingBox.Min)
			bw.Vec3(m.BoundingBox.Max)
			if hasBoundingBoxUnk(e.f.Header.Version) {
				bw.Vec3(m.BoundingBox.Unk)
			}
		} else {
			bw.FillInt32(fmt.Sprintf("meshBoundingBox%d", mi), 0)
		}

		bw.FillInt32(fmt.Sprintf("meshBoneIndices%d", mi), int32(bw.Pos()))
		bw.Int32s(m.BoneIndices)

		bw.FillInt32(fmt.Sprintf("meshFaceSets%d", mi), int32(bw.Pos()))
		for j := range m.FaceSets {
			bw.Int32(int32(faceSetBase + j))
		}
		faceSetBase += len(m.FaceSets)

		bw.FillInt32(fmt.Sprintf("meshBuffers%d", mi), int32(bw.Pos()))
		for j := range m.VertexBuffers {
			bw.Int32(int32(bufferBase + j))
		}
		bufferBase += len(m.VertexBuffers)
	}
}

func (e *encoder) writeLayoutMembers() {
	bw := e.bw
	for i, l := range e.layouts {
		bw.FillInt32(fmt.Sprintf("layoutMembers%d", i), int32(bw.Pos()))
		var structOff int32
		for _, m := range l.Members {
			bw.Int32(m.Unk00)
			bw.Int32(structOff)
			bw.Uint32(uint32(m.Type))
			bw.Uint32(uint32(m.Semantic))
			bw.Int32(m.Index)
			structOff += int32(m.Type.Size())
		}
	}
}

func (e *encoder) writeStrings() {
	for i := range e.f.Materials {
		mat := &e.f.Materials[i]
		e.writeString(fmt.Sprintf("materialName%d", i), mat.Name)
		e.writeString(fmt.Sprintf("materialMTD%d", i), mat.MTD)
	}
	for i := range e.f.Bones {
		e.writeString(fmt.Sprintf("boneName%d", i), e.f.Bones[i].Name)
	}
	ti := 0
	for i := range e.f.Materials {
		for _, t := range e.f.Materials[i].Textures {
			e.writeString(fmt.Sprintf("texturePath%d", ti), t.Path)
			e.writeString(fmt.Sprintf("textureType%d", ti), t.Type)
			ti++
		}
	}
}

func (e *encoder) writeString(name, s string) {
	bw := e.bw
	bw.FillInt32(name, int32(bw.Pos()))
	if e.f.Header.Unicode {
		bw.UTF16Z(s)
	} else {
		bw.ShiftJISZ(s)
	}
}

// writeData writes the data region holding face set indices and packed
// vertex buffers, then fills the header's offset and length.
func (e *encoder) writeData() error {
	bw := e.bw
	bw.Pad(0x10)
	dataStart := bw.Pos()

	gi := 0
	for mi := range e.f.Meshes {
		for fi := range e.f.Meshes[mi].FaceSets {
			fs := &e.f.Meshes[mi].FaceSets[fi]
			bw.Pad(0x10)
			bw.FillInt32(fmt.Sprintf("faceSetIndices%d", gi), int32(bw.Pos()-dataStart))
			if e.faceSetSizes[gi] == 16 {
				for _, idx := range fs.Indices {
					bw.Uint16(uint16(idx))
				}
			} else {
				bw.Int32s(fs.Indices)
			}
			gi++
		}
	}

	factor := uvFactor(e.f.Header.Version)
	gi = 0
	for mi := range e.f.Meshes {
		m := &e.f.Meshes[mi]
		// Cursors span the mesh's buffers so queued attributes are dealt
		// out across them exactly as decoding gathers them.
		cursors := make([]vertexCursor, len(m.Vertices))
		for bi := range m.VertexBuffers {
			bw.Pad(0x10)
			bw.FillInt32(fmt.Sprintf("bufferData%d", gi), int32(bw.Pos()-dataStart))
			layout := e.layouts[e.layoutMap[m.VertexBuffers[bi].LayoutIndex]]
			for vi := range m.Vertices {
				for _, mem := range layout.Members {
					if err := writeMember(bw, &m.Vertices[vi], &cursors[vi], mem, factor); err != nil {
						return MeshError{Index: mi, Cause: err}
					}
				}
			}
			gi++
		}
	}

	bw.FillInt32("dataOffset", int32(dataStart))
	bw.FillInt32("dataLength", int32(bw.Pos()-dataStart))
	return nil
}
