// Package flver implements a decoder and encoder for FLVER model files.
//
// A FLVER file stores its face sets and vertex buffers in flat pools shared
// by every mesh; each mesh lists the pool indices it owns. Decoding claims
// each entry for exactly one mesh and then unpacks vertex attributes
// according to the buffer layout each buffer names. Claiming an entry twice,
// or referencing one that does not exist, is a hard error; entries left in a
// pool after every mesh has claimed are reported as warnings alongside the
// decoded model.
package flver

// versions lists the format versions the codec accepts.
var versions = []int32{
	0x20005,
	0x20009,
	0x2000C,
	0x2000D,
	0x2000E,
	0x2000F,
	0x20010,
	0x20013,
	0x20014,
	0x20016,
	0x2001A,
	0x2001B,
}

// uvFactor returns the fixed-point divisor for short UV components, which
// changed partway through the format's life.
func uvFactor(version int32) float32 {
	if version >= 0x2000F {
		return 2048
	}
	return 1024
}

// hasBoundingBoxUnk returns whether mesh bounding boxes carry the third
// vector introduced at version 0x2001A.
func hasBoundingBoxUnk(version int32) bool {
	return version >= 0x2001A
}

// hasFaceSetSizes returns whether face set records carry their own index
// size fields rather than relying on the header.
func hasFaceSetSizes(version int32) bool {
	return version > 0x20005
}
