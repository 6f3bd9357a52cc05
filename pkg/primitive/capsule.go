package primitive

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/meshsmith/pkg/geom"
)

// MinCapsuleHeight is the floor applied to CapsuleParams.Height so the
// cylindrical body never collapses to zero length.
const MinCapsuleHeight = 1e-3

// CapsuleVertexCount returns the number of vertices Capsule emits.
func CapsuleVertexCount(segments, rings int) int {
	return 2 + 2*rings*segments
}

// CapsuleFaceCount returns the number of faces Capsule emits: two
// triangle fans plus 2*rings-1 quad strips.
func CapsuleFaceCount(segments, rings int) int {
	return 2*segments + (2*rings-1)*segments
}

// latitude returns the height above the equator of ring i of a cap.
func (p CapsuleParams) latitude(i int) float64 {
	if p.Spacing == SpacingLinear {
		return p.Radius * float64(i) / float64(p.Rings)
	}
	return p.Radius * math.Sin(0.5*math.Pi*float64(i)/float64(p.Rings))
}

// Capsule builds a capsule along the Z axis centered on the origin.
//
// Vertex 0 is the top pole, followed by Rings rings of the upper cap from
// the pole down to the equator, Rings rings of the lower cap from the
// equator down, and the bottom pole last. Every ring holds Segments
// vertices. The caps are triangle fans and the body between consecutive
// rings is a quad strip.
func Capsule(p CapsuleParams) *geom.PolyMesh {
	h := math.Max(p.Height, MinCapsuleHeight)
	r := p.Radius
	half := h / 2

	m := geom.New(CapsuleVertexCount(p.Segments, p.Rings), CapsuleFaceCount(p.Segments, p.Rings))
	m.Smooth = true

	m.AddVertex(mgl64.Vec3{0, 0, half + r})

	for i := p.Rings; i > 0; i-- {
		z := p.latitude(i - 1)
		t := math.Sqrt(r*r - z*z)
		for j := 0; j < p.Segments; j++ {
			m.AddVertex(ringPoint(j, p.Segments, t, z+half))
		}
	}

	for i := 0; i < p.Rings; i++ {
		z := -p.latitude(i)
		t := math.Sqrt(r*r - z*z)
		for j := 0; j < p.Segments; j++ {
			m.AddVertex(ringPoint(j, p.Segments, t, z-half))
		}
	}

	m.AddVertex(mgl64.Vec3{0, 0, -(half + r)})

	lathe(m, p.Segments, 2*p.Rings)
	return m
}
