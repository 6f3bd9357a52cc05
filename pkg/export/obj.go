package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/meshsmith/pkg/geom"
	"github.com/chazu/meshsmith/pkg/kernel"
)

// objWriter buffers OBJ output and keeps the first write error.
type objWriter struct {
	w   *bufio.Writer
	err error
}

func (o *objWriter) printf(format string, args ...any) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, args...)
}

func (o *objWriter) vec(tag string, v mgl64.Vec3) {
	o.printf("%s %s %s %s\n", tag, ftoa(v[0]), ftoa(v[1]), ftoa(v[2]))
}

func (o *objWriter) flush() error {
	if o.err != nil {
		return o.err
	}
	return o.w.Flush()
}

// ftoa formats without exponents, which some OBJ readers reject.
func ftoa(f float64) string {
	if f == 0 {
		// Drops the sign of negative zero.
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func smoothing(smooth bool) string {
	if smooth {
		return "1"
	}
	return "off"
}

// WriteOBJ writes triangle meshes as one OBJ object each, with vertex
// normals. Indices are global across objects as the format requires.
func WriteOBJ(w io.Writer, meshes []*kernel.Mesh) error {
	o := &objWriter{w: bufio.NewWriter(w)}
	o.printf("# meshsmith\n")

	base := 1
	for _, m := range meshes {
		o.printf("o %s\n", m.PartName)
		for i := 0; i < m.VertexCount(); i++ {
			o.vec("v", m.Vertex(i))
		}
		for i := 0; i < m.VertexCount(); i++ {
			o.vec("vn", m.Normal(i))
		}
		o.printf("s %s\n", smoothing(m.Smooth))
		for t := 0; t < m.TriangleCount(); t++ {
			a := base + int(m.Indices[3*t])
			b := base + int(m.Indices[3*t+1])
			c := base + int(m.Indices[3*t+2])
			o.printf("f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		}
		base += m.VertexCount()
	}
	return o.flush()
}

// WritePolyOBJ writes a single polygon mesh keeping its quads. Smooth
// meshes carry averaged vertex normals.
func WritePolyOBJ(w io.Writer, name string, m *geom.PolyMesh) error {
	if err := m.CheckIndices(); err != nil {
		return fmt.Errorf("export obj: %w", err)
	}

	o := &objWriter{w: bufio.NewWriter(w)}
	o.printf("# meshsmith\n")
	o.printf("o %s\n", name)
	for _, v := range m.Vertices {
		o.vec("v", v)
	}
	if m.Smooth {
		for _, n := range m.VertexNormals() {
			o.vec("vn", n)
		}
	}
	o.printf("s %s\n", smoothing(m.Smooth))
	for _, f := range m.Faces {
		o.printf("f")
		for _, idx := range f {
			if m.Smooth {
				o.printf(" %d//%d", idx+1, idx+1)
			} else {
				o.printf(" %d", idx+1)
			}
		}
		o.printf("\n")
	}
	return o.flush()
}
