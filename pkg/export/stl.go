package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/chazu/meshsmith/pkg/kernel"
)

const stlHeaderSize = 80

// stlTriangle is the on-disk record of one binary STL facet.
type stlTriangle struct {
	Normal    [3]float32
	Vertex1   [3]float32
	Vertex2   [3]float32
	Vertex3   [3]float32
	Attribute uint16
}

// WriteSTL writes all meshes as a single binary STL solid. Facet normals
// are recomputed from the winding.
func WriteSTL(w io.Writer, meshes []*kernel.Mesh) error {
	var count int
	for _, m := range meshes {
		count += m.TriangleCount()
	}
	if int64(count) > math.MaxUint32 {
		return fmt.Errorf("export stl: %d triangles exceed the format limit", count)
	}

	bw := bufio.NewWriter(w)

	var header [stlHeaderSize]byte
	copy(header[:], "meshsmith binary STL")
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("export stl: header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(count)); err != nil {
		return fmt.Errorf("export stl: triangle count: %w", err)
	}

	for _, m := range meshes {
		for t := 0; t < m.TriangleCount(); t++ {
			a := m.Vertex(int(m.Indices[3*t]))
			b := m.Vertex(int(m.Indices[3*t+1]))
			c := m.Vertex(int(m.Indices[3*t+2]))

			n := b.Sub(a).Cross(c.Sub(a))
			if l := n.Len(); l > 0 {
				n = n.Mul(1 / l)
			}

			rec := stlTriangle{
				Normal:  [3]float32{float32(n[0]), float32(n[1]), float32(n[2])},
				Vertex1: [3]float32{float32(a[0]), float32(a[1]), float32(a[2])},
				Vertex2: [3]float32{float32(b[0]), float32(b[1]), float32(b[2])},
				Vertex3: [3]float32{float32(c[0]), float32(c[1]), float32(c[2])},
			}
			if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
				return fmt.Errorf("export stl: %s: %w", m.PartName, err)
			}
		}
	}

	return bw.Flush()
}
