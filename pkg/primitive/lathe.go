package primitive

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/meshsmith/pkg/geom"
)

// ringPoint returns vertex j of a ring of the given radius and height.
// Angles advance from +Y towards -X.
func ringPoint(j, segments int, radius, z float64) mgl64.Vec3 {
	theta := 2 * math.Pi / float64(segments) * float64(j)
	return mgl64.Vec3{
		radius * math.Sin(-theta),
		radius * math.Cos(-theta),
		z,
	}
}

// lathe connects a top pole, a stack of rings and a bottom pole into faces.
// The mesh must already hold the top pole at index 0, then rings*segments
// ring vertices from top to bottom, then the bottom pole.
func lathe(m *geom.PolyMesh, segments, rings int) {
	for i := 1; i < segments; i++ {
		m.AddFace(0, i, i+1)
	}
	m.AddFace(0, segments, 1)

	offset := segments + 1
	for i := 0; i < rings-1; i++ {
		for j := 0; j < segments-1; j++ {
			t := offset + j
			m.AddFace(t-segments, t, t+1, t-segments+1)
		}
		m.AddFace(offset-1, offset+segments-1, offset, offset-segments)
		offset += segments
	}

	// offset is now the bottom pole.
	for i := 0; i < segments-1; i++ {
		t := offset + i
		m.AddFace(t-segments, offset, t-segments+1)
	}
	m.AddFace(offset-1, offset, offset-segments)
}
