package flver

import (
	"fmt"

	"github.com/nex3/SoulsFormats/errors"
)

var (
	// ErrBigEndian indicates a file written with big-endian byte order,
	// which the codec does not read.
	ErrBigEndian = errors.New("big-endian files are not supported")

	// ErrNoBuffers indicates a mesh with no vertex buffers.
	ErrNoBuffers = errors.New("mesh has no vertex buffers")

	// ErrIndexSize indicates a face set with no index size of its own in a
	// file whose header does not declare one either.
	ErrIndexSize = errors.New("face set does not declare an index size")
)

// MissingReferenceError is returned when a mesh or material references a
// pool entry that does not exist or that another record already claimed.
type MissingReferenceError struct {
	// Pool names the pool the reference points into.
	Pool string
	// Index is the referenced pool index.
	Index int
}

func (e MissingReferenceError) Error() string {
	return fmt.Sprintf("%s %d not present or already claimed", e.Pool, e.Index)
}

// UnclaimedError reports a pool entry that no record claimed. It is a
// warning; the entry's contents are dropped from the decoded model.
type UnclaimedError struct {
	// Pool names the pool holding the orphaned entry.
	Pool string
	// Index is the orphaned entry's pool index.
	Index int
}

func (e UnclaimedError) Error() string {
	return fmt.Sprintf("%s %d is not claimed by any record", e.Pool, e.Index)
}

// UnsupportedLayoutError is returned when a mesh's vertex buffers cannot be
// unpacked. It is raised before any vertex data is read.
type UnsupportedLayoutError struct {
	// Mesh is the index of the offending mesh.
	Mesh int
	// Reason describes the configuration the codec cannot handle.
	Reason string
}

func (e UnsupportedLayoutError) Error() string {
	return fmt.Sprintf("mesh %d: %s", e.Mesh, e.Reason)
}

// MeshError wraps an error with the index of the mesh being decoded.
type MeshError struct {
	Index int
	Cause error
}

func (e MeshError) Error() string {
	return fmt.Sprintf("mesh %d: %s", e.Index, e.Cause)
}

func (e MeshError) Unwrap() error {
	return e.Cause
}

// MaterialError wraps an error with the index of the material being decoded.
type MaterialError struct {
	Index int
	Cause error
}

func (e MaterialError) Error() string {
	return fmt.Sprintf("material %d: %s", e.Index, e.Cause)
}

func (e MaterialError) Unwrap() error {
	return e.Cause
}
