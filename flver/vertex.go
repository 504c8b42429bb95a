package flver

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/nex3/SoulsFormats/bxio"
)

// memberTypes lists, per semantic, the layout types the codec can unpack.
var memberTypes = map[LayoutSemantic]map[LayoutType]bool{
	SemanticPosition: {
		LayoutFloat3: true,
		LayoutFloat4: true,
	},
	SemanticBoneWeights: {
		LayoutByte4A:          true,
		LayoutByte4C:          true,
		LayoutShort4toFloat4A: true,
	},
	SemanticBoneIndices: {
		LayoutByte4B:           true,
		LayoutByte4E:           true,
		LayoutShortBoneIndices: true,
	},
	SemanticNormal: {
		LayoutFloat3:          true,
		LayoutFloat4:          true,
		LayoutByte4A:          true,
		LayoutByte4B:          true,
		LayoutByte4C:          true,
		LayoutByte4E:          true,
		LayoutShort4toFloat4A: true,
		LayoutShort4toFloat4B: true,
	},
	SemanticUV: {
		LayoutFloat2:          true,
		LayoutFloat3:          true,
		LayoutFloat4:          true,
		LayoutUV:              true,
		LayoutUVPair:          true,
		LayoutShort2toFloat2:  true,
		LayoutShort4toFloat4B: true,
	},
	SemanticTangent: {
		LayoutFloat4: true,
		LayoutByte4A: true,
		LayoutByte4B: true,
		LayoutByte4C: true,
		LayoutByte4E: true,
	},
	SemanticBitangent: {
		LayoutFloat4: true,
		LayoutByte4A: true,
		LayoutByte4B: true,
		LayoutByte4C: true,
		LayoutByte4E: true,
	},
	SemanticVertexColor: {
		LayoutFloat4: true,
		LayoutByte4A: true,
		LayoutByte4C: true,
	},
}

func memberSupported(m LayoutMember) bool {
	return memberTypes[m.Semantic][m.Type]
}

// checkMemberSet validates that the layouts named by a mesh's buffers can
// be unpacked together. Queued semantics may repeat across buffers;
// everything else decodes into a single vertex field and may appear only
// once.
func checkMemberSet(mesh int, layouts []BufferLayout, idxs []int32) error {
	counts := map[LayoutSemantic]int{}
	for _, li := range idxs {
		if li < 0 || int(li) >= len(layouts) {
			return MeshError{
				Index: mesh,
				Cause: MissingReferenceError{Pool: "buffer layout", Index: int(li)},
			}
		}
		for _, mem := range layouts[li].Members {
			if !memberSupported(mem) {
				return UnsupportedLayoutError{
					Mesh:   mesh,
					Reason: fmt.Sprintf("cannot unpack %v as %v", mem.Type, mem.Semantic),
				}
			}
			counts[mem.Semantic]++
		}
	}
	for sem, n := range counts {
		switch sem {
		case SemanticPosition, SemanticNormal, SemanticUV, SemanticTangent, SemanticVertexColor:
		default:
			if n > 1 {
				return UnsupportedLayoutError{
					Mesh:   mesh,
					Reason: fmt.Sprintf("%v appears more than once", sem),
				}
			}
		}
	}
	return nil
}

// uvSlots returns how many UV entries a member consumes.
func uvSlots(m LayoutMember) int {
	if m.Semantic != SemanticUV {
		return 0
	}
	switch m.Type {
	case LayoutFloat4, LayoutUVPair:
		return 2
	default:
		return 1
	}
}

func sbyteNorm(b byte) float32 {
	return (float32(b) - 127) / 127
}

func packSbyteNorm(f float32) byte {
	return byte(int(math.Round(float64(f)*127 + 127)))
}

func shortNorm(s int16) float32 {
	return float32(s) / 32767
}

func packShortNorm(f float32) int16 {
	return int16(math.Round(float64(f) * 32767))
}

// readMember unpacks one layout member into v. The reader is positioned at
// the member's bytes; combinations not in memberTypes have been rejected
// before any vertex data is read.
func readMember(br *bxio.Reader, v *Vertex, m LayoutMember, factor float32) {
	switch m.Semantic {
	case SemanticPosition:
		v.Position = br.Vec3()
		if m.Type == LayoutFloat4 {
			br.Float32()
		}

	case SemanticBoneWeights:
		for i := range v.BoneWeights {
			switch m.Type {
			case LayoutByte4A:
				v.BoneWeights[i] = float32(int8(br.Byte())) / 127
			case LayoutByte4C:
				v.BoneWeights[i] = float32(br.Byte()) / 255
			case LayoutShort4toFloat4A:
				v.BoneWeights[i] = shortNorm(br.Int16())
			}
		}

	case SemanticBoneIndices:
		for i := range v.BoneIndices {
			switch m.Type {
			case LayoutByte4B, LayoutByte4E:
				v.BoneIndices[i] = int32(br.Byte())
			case LayoutShortBoneIndices:
				v.BoneIndices[i] = int32(br.Uint16())
			}
		}

	case SemanticNormal:
		switch m.Type {
		case LayoutFloat3:
			v.Normal = br.Vec3()
		case LayoutFloat4:
			v.Normal = br.Vec3()
			v.NormalW = int32(br.Float32())
		case LayoutByte4A, LayoutByte4B, LayoutByte4C, LayoutByte4E:
			for i := 0; i < 3; i++ {
				v.Normal[i] = sbyteNorm(br.Byte())
			}
			v.NormalW = int32(br.Byte())
		case LayoutShort4toFloat4A:
			for i := 0; i < 3; i++ {
				v.Normal[i] = shortNorm(br.Int16())
			}
			v.NormalW = int32(br.Int16())
		case LayoutShort4toFloat4B:
			for i := 0; i < 3; i++ {
				v.Normal[i] = (float32(br.Uint16()) - 32767) / 32767
			}
			v.NormalW = int32(br.Int16())
		}

	case SemanticUV:
		switch m.Type {
		case LayoutFloat2:
			v.UVs = append(v.UVs, mgl32.Vec3{br.Float32(), br.Float32(), 0})
		case LayoutFloat3:
			v.UVs = append(v.UVs, br.Vec3())
		case LayoutFloat4:
			v.UVs = append(v.UVs, mgl32.Vec3{br.Float32(), br.Float32(), 0})
			v.UVs = append(v.UVs, mgl32.Vec3{br.Float32(), br.Float32(), 0})
		case LayoutUV:
			v.UVs = append(v.UVs, readShortUV(br, factor))
		case LayoutUVPair:
			v.UVs = append(v.UVs, readShortUV(br, factor))
			v.UVs = append(v.UVs, readShortUV(br, factor))
		case LayoutShort2toFloat2:
			v.UVs = append(v.UVs, readShortUV(br, factor))
		case LayoutShort4toFloat4B:
			uv := mgl32.Vec3{
				float32(br.Int16()) / factor,
				float32(br.Int16()) / factor,
				float32(br.Int16()) / factor,
			}
			br.AssertInt16(0)
			v.UVs = append(v.UVs, uv)
		}

	case SemanticTangent:
		v.Tangents = append(v.Tangents, readVec4Norm(br, m.Type))

	case SemanticBitangent:
		v.Bitangent = readVec4Norm(br, m.Type)

	case SemanticVertexColor:
		switch m.Type {
		case LayoutFloat4:
			v.Colors = append(v.Colors, Color{br.Float32(), br.Float32(), br.Float32(), br.Float32()})
		case LayoutByte4A:
			a := float32(br.Byte()) / 255
			r := float32(br.Byte()) / 255
			g := float32(br.Byte()) / 255
			b := float32(br.Byte()) / 255
			v.Colors = append(v.Colors, Color{r, g, b, a})
		case LayoutByte4C:
			r := float32(br.Byte()) / 255
			g := float32(br.Byte()) / 255
			b := float32(br.Byte()) / 255
			a := float32(br.Byte()) / 255
			v.Colors = append(v.Colors, Color{r, g, b, a})
		}
	}
}

func readShortUV(br *bxio.Reader, factor float32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(br.Int16()) / factor,
		float32(br.Int16()) / factor,
		0,
	}
}

func readVec4Norm(br *bxio.Reader, t LayoutType) mgl32.Vec4 {
	if t == LayoutFloat4 {
		return br.Vec4()
	}
	var v mgl32.Vec4
	for i := range v {
		v[i] = sbyteNorm(br.Byte())
	}
	return v
}

// vertexCursor tracks how many entries of each queued attribute a vertex
// has supplied to the buffers packed so far.
type vertexCursor struct {
	uv      int
	tangent int
	color   int
}

// writeMember packs one layout member of v, consuming cursor slots. It
// fails if the vertex does not carry the attributes the layout demands.
func writeMember(bw *bxio.Writer, v *Vertex, cur *vertexCursor, m LayoutMember, factor float32) error {
	switch m.Semantic {
	case SemanticPosition:
		bw.Vec3(v.Position)
		if m.Type == LayoutFloat4 {
			bw.Float32(0)
		}

	case SemanticBoneWeights:
		for _, w := range v.BoneWeights {
			switch m.Type {
			case LayoutByte4A:
				bw.Byte(byte(int8(math.Round(float64(w) * 127))))
			case LayoutByte4C:
				bw.Byte(byte(math.Round(float64(w) * 255)))
			case LayoutShort4toFloat4A:
				bw.Int16(packShortNorm(w))
			}
		}

	case SemanticBoneIndices:
		for _, idx := range v.BoneIndices {
			switch m.Type {
			case LayoutByte4B, LayoutByte4E:
				bw.Byte(byte(idx))
			case LayoutShortBoneIndices:
				bw.Uint16(uint16(idx))
			}
		}

	case SemanticNormal:
		switch m.Type {
		case LayoutFloat3:
			bw.Vec3(v.Normal)
		case LayoutFloat4:
			bw.Vec3(v.Normal)
			bw.Float32(float32(v.NormalW))
		case LayoutByte4A, LayoutByte4B, LayoutByte4C, LayoutByte4E:
			for i := 0; i < 3; i++ {
				bw.Byte(packSbyteNorm(v.Normal[i]))
			}
			bw.Byte(byte(v.NormalW))
		case LayoutShort4toFloat4A:
			for i := 0; i < 3; i++ {
				bw.Int16(packShortNorm(v.Normal[i]))
			}
			bw.Int16(int16(v.NormalW))
		case LayoutShort4toFloat4B:
			for i := 0; i < 3; i++ {
				bw.Uint16(uint16(math.Round(float64(v.Normal[i])*32767 + 32767)))
			}
			bw.Int16(int16(v.NormalW))
		}

	case SemanticUV:
		need := uvSlots(m)
		if cur.uv+need > len(v.UVs) {
			return fmt.Errorf("vertex has %d uvs, layouts consume more", len(v.UVs))
		}
		uv := v.UVs[cur.uv]
		switch m.Type {
		case LayoutFloat2:
			bw.Float32(uv[0])
			bw.Float32(uv[1])
		case LayoutFloat3:
			bw.Vec3(uv)
		case LayoutFloat4:
			second := v.UVs[cur.uv+1]
			bw.Float32(uv[0])
			bw.Float32(uv[1])
			bw.Float32(second[0])
			bw.Float32(second[1])
		case LayoutUV:
			writeShortUV(bw, uv, factor)
		case LayoutUVPair:
			writeShortUV(bw, uv, factor)
			writeShortUV(bw, v.UVs[cur.uv+1], factor)
		case LayoutShort2toFloat2:
			writeShortUV(bw, uv, factor)
		case LayoutShort4toFloat4B:
			for i := 0; i < 3; i++ {
				bw.Int16(int16(math.Round(float64(uv[i]) * float64(factor))))
			}
			bw.Int16(0)
		}
		cur.uv += need

	case SemanticTangent:
		if cur.tangent >= len(v.Tangents) {
			return fmt.Errorf("vertex has %d tangents, layouts consume more", len(v.Tangents))
		}
		writeVec4Norm(bw, v.Tangents[cur.tangent], m.Type)
		cur.tangent++

	case SemanticBitangent:
		writeVec4Norm(bw, v.Bitangent, m.Type)

	case SemanticVertexColor:
		if cur.color >= len(v.Colors) {
			return fmt.Errorf("vertex has %d colors, layouts consume more", len(v.Colors))
		}
		c := v.Colors[cur.color]
		switch m.Type {
		case LayoutFloat4:
			bw.Float32(c.R)
			bw.Float32(c.G)
			bw.Float32(c.B)
			bw.Float32(c.A)
		case LayoutByte4A:
			bw.Byte(byte(math.Round(float64(c.A) * 255)))
			bw.Byte(byte(math.Round(float64(c.R) * 255)))
			bw.Byte(byte(math.Round(float64(c.G) * 255)))
			bw.Byte(byte(math.Round(float64(c.B) * 255)))
		case LayoutByte4C:
			bw.Byte(byte(math.Round(float64(c.R) * 255)))
			bw.Byte(byte(math.Round(float64(c.G) * 255)))
			bw.Byte(byte(math.Round(float64(c.B) * 255)))
			bw.Byte(byte(math.Round(float64(c.A) * 255)))
		}
		cur.color++
	}
	return nil
}

func writeShortUV(bw *bxio.Writer, uv mgl32.Vec3, factor float32) {
	bw.Int16(int16(math.Round(float64(uv[0]) * float64(factor))))
	bw.Int16(int16(math.Round(float64(uv[1]) * float64(factor))))
}

func writeVec4Norm(bw *bxio.Writer, v mgl32.Vec4, t LayoutType) {
	if t == LayoutFloat4 {
		bw.Vec4(v)
		return
	}
	for i := range v {
		bw.Byte(packSbyteNorm(v[i]))
	}
}
