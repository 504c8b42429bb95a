// Package bxio implements the binary readers and writers shared by the
// format packages.
//
// Reader wraps an in-memory byte slice with typed reads, absolute seeking,
// scoped step-in/step-out excursions, and assert-reads that validate
// structural constants. Writer is an append-only sink with named int32
// reservations that are patched in place once dependent sizes are known.
// Byte order is little-endian except for the explicitly big-endian variants
// used by container headers. Both are sticky: the first failure is recorded
// and every later operation becomes a no-op, so call sites check Err or
// Finish once per region instead of after every read.
package bxio

import (
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// utf16le matches the on-disk layout of wide strings in these formats.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeShiftJIS converts s to Shift-JIS bytes. Runes with no Shift-JIS
// representation are an error rather than silently replaced, since the
// formats round-trip strings byte for byte.
func EncodeShiftJIS(s string) ([]byte, error) {
	return japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
}

// DecodeShiftJIS converts Shift-JIS bytes to a string. Invalid sequences
// decode to U+FFFD, matching how the engine's own tools treat them.
func DecodeShiftJIS(b []byte) string {
	s, err := japanese.ShiftJIS.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// EncodeUTF16 converts s to UTF-16LE bytes without a terminator.
func EncodeUTF16(s string) ([]byte, error) {
	return utf16le.NewEncoder().Bytes([]byte(s))
}

// DecodeUTF16 converts UTF-16LE bytes to a string.
func DecodeUTF16(b []byte) string {
	s, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
