package primitive

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/meshsmith/pkg/geom"
)

// SphereVertexCount returns the number of vertices Sphere emits.
func SphereVertexCount(segments, rings int) int {
	return 2 + segments*(rings-1)
}

// SphereFaceCount returns the number of faces Sphere emits.
func SphereFaceCount(segments, rings int) int {
	return segments * rings
}

// Sphere builds a UV sphere centered on the origin with its poles on the Z
// axis. Vertex layout matches Capsule: top pole, rings top to bottom,
// bottom pole.
func Sphere(p SphereParams) *geom.PolyMesh {
	r := p.Radius
	m := geom.New(SphereVertexCount(p.Segments, p.Rings), SphereFaceCount(p.Segments, p.Rings))
	m.Smooth = true

	m.AddVertex(mgl64.Vec3{0, 0, r})
	for k := 1; k < p.Rings; k++ {
		phi := math.Pi * float64(k) / float64(p.Rings)
		z := r * math.Cos(phi)
		t := r * math.Sin(phi)
		for j := 0; j < p.Segments; j++ {
			m.AddVertex(ringPoint(j, p.Segments, t, z))
		}
	}
	m.AddVertex(mgl64.Vec3{0, 0, -r})

	lathe(m, p.Segments, p.Rings-1)
	return m
}
