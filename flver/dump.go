package flver

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nex3/SoulsFormats/errors"
)

// Dump decodes a model from r and writes a human-readable summary of its
// structure to w.
func Dump(w io.Writer, r io.Reader) (warn, err error) {
	if r == nil {
		return nil, errors.New("nil reader")
	}
	if w == nil {
		return nil, errors.New("nil writer")
	}

	f, warn, err := Decode(r)
	if err != nil {
		return warn, err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Version: 0x%X", f.Header.Version)
	fmt.Fprintf(bw, "\nBounding box: %v .. %v", f.Header.BoundingBoxMin, f.Header.BoundingBoxMax)
	fmt.Fprintf(bw, "\nDummies: %d", len(f.Dummies))
	fmt.Fprintf(bw, "\nMaterials: %d {", len(f.Materials))
	for i := range f.Materials {
		mat := &f.Materials[i]
		fmt.Fprintf(bw, "\n\t#%d: %s [%s], %d textures", i, mat.Name, mat.MTD, len(mat.Textures))
	}
	fmt.Fprint(bw, "\n}")
	fmt.Fprintf(bw, "\nBones: %d {", len(f.Bones))
	for i := range f.Bones {
		b := &f.Bones[i]
		fmt.Fprintf(bw, "\n\t#%d: %s (parent %d)", i, b.Name, b.ParentIndex)
	}
	fmt.Fprint(bw, "\n}")
	fmt.Fprintf(bw, "\nMeshes: %d {", len(f.Meshes))
	for i := range f.Meshes {
		m := &f.Meshes[i]
		var tris int
		for fi := range m.FaceSets {
			tris += len(m.FaceSets[fi].Triangulate(false)) / 3
		}
		fmt.Fprintf(bw, "\n\t#%d: material %d, %d vertices, %d face sets, %d triangles, %d buffers",
			i, m.MaterialIndex, len(m.Vertices), len(m.FaceSets), tris, len(m.VertexBuffers))
	}
	fmt.Fprint(bw, "\n}")
	fmt.Fprintf(bw, "\nLayouts: %d {", len(f.Layouts))
	for i, l := range f.Layouts {
		fmt.Fprintf(bw, "\n\t#%d: %d bytes:", i, l.Size())
		for _, mem := range l.Members {
			fmt.Fprintf(bw, " %v:%v", mem.Semantic, mem.Type)
		}
	}
	fmt.Fprint(bw, "\n}\n")

	if err := bw.Flush(); err != nil {
		return warn, err
	}
	return warn, nil
}
