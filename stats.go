package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/chazu/meshsmith/pkg/geom"
	"github.com/chazu/meshsmith/pkg/kernel"
)

type statsPrinter struct {
	w   io.Writer
	out *termenv.Output
}

func newStatsPrinter(w io.Writer) *statsPrinter {
	return &statsPrinter{w: w, out: termenv.NewOutput(w)}
}

func (p *statsPrinter) header(s string) {
	fmt.Fprintln(p.w, p.out.String(s).Bold())
}

func (p *statsPrinter) row(label string, value any) {
	fmt.Fprintf(p.w, "  %-12s %v\n", p.out.String(label).Faint(), value)
}

func (p *statsPrinter) check(label string, ok bool) {
	v := p.out.String("yes").Foreground(p.out.Color("2"))
	if !ok {
		v = p.out.String("no").Foreground(p.out.Color("1"))
	}
	p.row(label, v)
}

// writePolyStats prints topology and size figures of a polygon mesh.
func writePolyStats(w io.Writer, name string, pm *geom.PolyMesh) {
	p := newStatsPrinter(w)
	p.header(name)
	p.row("vertices", pm.VertexCount())
	p.row("faces", pm.FaceCount())
	p.row("edges", pm.EdgeCount())
	p.row("euler", pm.EulerCharacteristic())
	p.check("manifold", pm.IsClosedManifold())
	p.check("oriented", pm.IsConsistentlyOriented())
	p.row("volume", fmt.Sprintf("%.6g", pm.SignedVolume()))
	p.row("area", fmt.Sprintf("%.6g", pm.SurfaceArea()))
	lo, hi := pm.Bounds()
	p.row("bounds", fmt.Sprintf("[%.4g %.4g %.4g] .. [%.4g %.4g %.4g]",
		lo[0], lo[1], lo[2], hi[0], hi[1], hi[2]))
}

// writeMeshStats prints per-part counts of tessellated meshes.
func writeMeshStats(w io.Writer, meshes []*kernel.Mesh) {
	p := newStatsPrinter(w)
	var verts, tris int
	for _, m := range meshes {
		p.header(m.PartName)
		p.row("vertices", m.VertexCount())
		p.row("triangles", m.TriangleCount())
		verts += m.VertexCount()
		tris += m.TriangleCount()
	}
	p.header("total")
	p.row("parts", len(meshes))
	p.row("vertices", verts)
	p.row("triangles", tris)
}
