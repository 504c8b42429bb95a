// Package soulsformats handles the decoding and encoding of proprietary
// binary formats used by FromSoftware game engines.
//
// Each format lives in its own sub-package: "mtd" handles material
// definitions, and "flver" handles models. Both are built on the "bxio"
// package, which provides the structured binary reader and writer the
// format codecs share.
//
// Most shipped files are wrapped in a DCX compression container. This
// package unwraps and rebuilds that container, and sniffs which format a
// byte stream holds so tools can dispatch without relying on file names.
package soulsformats

import (
	"bytes"
	"encoding/binary"
)

// Format identifies a file format by its leading bytes.
type Format int

const (
	FormatUnknown Format = iota
	FormatDCX
	FormatMTD
	FormatFLVER
)

func (f Format) String() string {
	switch f {
	case FormatDCX:
		return "DCX"
	case FormatMTD:
		return "MTD"
	case FormatFLVER:
		return "FLVER"
	}
	return "unknown"
}

// Detect sniffs which format data holds. Compressed files detect as
// FormatDCX; Decompress them first to detect the wrapped format.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("DCX\x00")):
		return FormatDCX
	case bytes.HasPrefix(data, []byte("FLVER\x00")):
		return FormatFLVER
	case isMTD(data):
		return FormatMTD
	}
	return FormatUnknown
}

// isMTD checks the fixed prefix of the MTD header: a zero int32 leads the
// file, and the "MTD " magic string sits at 0x28 behind its length field.
func isMTD(data []byte) bool {
	if len(data) < 0x2C {
		return false
	}
	if binary.LittleEndian.Uint32(data) != 0 {
		return false
	}
	if binary.LittleEndian.Uint32(data[0x24:]) != 4 {
		return false
	}
	return string(data[0x28:0x2C]) == "MTD "
}
