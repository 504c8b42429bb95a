package flver

import (
	"strconv"
)

// LayoutType identifies the wire encoding of one vertex attribute.
type LayoutType uint32

const (
	LayoutFloat2           LayoutType = 0x01
	LayoutFloat3           LayoutType = 0x02
	LayoutFloat4           LayoutType = 0x03
	LayoutByte4A           LayoutType = 0x10
	LayoutByte4B           LayoutType = 0x11
	LayoutShort2toFloat2   LayoutType = 0x12
	LayoutByte4C           LayoutType = 0x13
	LayoutUV               LayoutType = 0x15
	LayoutUVPair           LayoutType = 0x16
	LayoutShortBoneIndices LayoutType = 0x18
	LayoutShort4toFloat4A  LayoutType = 0x1A
	LayoutShort4toFloat4B  LayoutType = 0x2E
	LayoutByte4E           LayoutType = 0x2F
	LayoutEdgeCompressed   LayoutType = 0xF0
)

var layoutTypeSizes = map[LayoutType]int{
	LayoutFloat2:           8,
	LayoutFloat3:           12,
	LayoutFloat4:           16,
	LayoutByte4A:           4,
	LayoutByte4B:           4,
	LayoutShort2toFloat2:   4,
	LayoutByte4C:           4,
	LayoutUV:               4,
	LayoutUVPair:           8,
	LayoutShortBoneIndices: 8,
	LayoutShort4toFloat4A:  8,
	LayoutShort4toFloat4B:  8,
	LayoutByte4E:           4,
	LayoutEdgeCompressed:   1,
}

var layoutTypeStrings = map[LayoutType]string{
	LayoutFloat2:           "Float2",
	LayoutFloat3:           "Float3",
	LayoutFloat4:           "Float4",
	LayoutByte4A:           "Byte4A",
	LayoutByte4B:           "Byte4B",
	LayoutShort2toFloat2:   "Short2toFloat2",
	LayoutByte4C:           "Byte4C",
	LayoutUV:               "UV",
	LayoutUVPair:           "UVPair",
	LayoutShortBoneIndices: "ShortBoneIndices",
	LayoutShort4toFloat4A:  "Short4toFloat4A",
	LayoutShort4toFloat4B:  "Short4toFloat4B",
	LayoutByte4E:           "Byte4E",
	LayoutEdgeCompressed:   "EdgeCompressed",
}

// Size returns the number of bytes one attribute of this type occupies in
// a vertex, or 0 for types the codec does not know.
func (t LayoutType) Size() int {
	return layoutTypeSizes[t]
}

func (t LayoutType) String() string {
	if s, ok := layoutTypeStrings[t]; ok {
		return s
	}
	return "LayoutType(0x" + strconv.FormatUint(uint64(t), 16) + ")"
}

// LayoutSemantic identifies which vertex attribute a layout member feeds.
type LayoutSemantic uint32

const (
	SemanticPosition    LayoutSemantic = 0
	SemanticBoneWeights LayoutSemantic = 1
	SemanticBoneIndices LayoutSemantic = 2
	SemanticNormal      LayoutSemantic = 3
	SemanticUV          LayoutSemantic = 5
	SemanticTangent     LayoutSemantic = 6
	SemanticBitangent   LayoutSemantic = 7
	SemanticVertexColor LayoutSemantic = 10
)

var layoutSemanticStrings = map[LayoutSemantic]string{
	SemanticPosition:    "Position",
	SemanticBoneWeights: "BoneWeights",
	SemanticBoneIndices: "BoneIndices",
	SemanticNormal:      "Normal",
	SemanticUV:          "UV",
	SemanticTangent:     "Tangent",
	SemanticBitangent:   "Bitangent",
	SemanticVertexColor: "VertexColor",
}

func (s LayoutSemantic) String() string {
	if n, ok := layoutSemanticStrings[s]; ok {
		return n
	}
	return "LayoutSemantic(" + strconv.FormatUint(uint64(s), 10) + ")"
}

// LayoutMember describes one attribute within a vertex buffer layout.
type LayoutMember struct {
	// Unk00 is 0, 1, or 2; its meaning is unknown.
	Unk00 int32

	// Type is the wire encoding of the attribute.
	Type LayoutType

	// Semantic is the attribute the member feeds.
	Semantic LayoutSemantic

	// Index distinguishes repeated semantics within a layout.
	Index int32
}

// BufferLayout describes the vertex structure of one vertex buffer.
type BufferLayout struct {
	Members []LayoutMember
}

// Size returns the per-vertex byte size implied by the layout's members.
func (l BufferLayout) Size() int {
	var size int
	for _, m := range l.Members {
		size += m.Type.Size()
	}
	return size
}
