package primitive

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapsuleCounts(t *testing.T) {
	for _, segments := range []int{3, 4, 8, 17} {
		for _, rings := range []int{1, 2, 5} {
			t.Run(fmt.Sprintf("s%d_r%d", segments, rings), func(t *testing.T) {
				m := Capsule(CapsuleParams{Segments: segments, Rings: rings, Radius: 1.5, Height: 3})

				assert.Equal(t, 2+2*rings*segments, m.VertexCount())
				assert.Equal(t, 2*segments+(2*rings-1)*segments, m.FaceCount())
				assert.Equal(t, CapsuleVertexCount(segments, rings), m.VertexCount())
				assert.Equal(t, CapsuleFaceCount(segments, rings), m.FaceCount())

				require.NoError(t, m.CheckIndices())
				assert.True(t, m.IsClosedManifold(), "boundary edges: %v", m.BoundaryEdges())
				assert.True(t, m.IsConsistentlyOriented())
				assert.Equal(t, 2, m.EulerCharacteristic())
				assert.Greater(t, m.SignedVolume(), 0.0, "faces must wind outward")
				assert.True(t, m.Smooth)
			})
		}
	}
}

func TestCapsuleFaceShapes(t *testing.T) {
	const segments, rings = 6, 3
	m := Capsule(CapsuleParams{Segments: segments, Rings: rings, Radius: 1, Height: 1})

	for i, f := range m.Faces {
		switch {
		case i < segments:
			assert.Len(t, f, 3, "top fan face %d", i)
			assert.Equal(t, 0, f[0], "top fan face %d must start at the pole", i)
		case i >= m.FaceCount()-segments:
			assert.Len(t, f, 3, "bottom fan face %d", i)
			assert.Contains(t, f, m.VertexCount()-1, "bottom fan face %d must touch the pole", i)
		default:
			assert.Len(t, f, 4, "body face %d", i)
		}
	}
}

// assertVecNear compares component-wise with an absolute tolerance, so
// sin/cos residue around zero still matches.
func assertVecNear(t *testing.T, want, got mgl64.Vec3, msg string, args ...any) {
	t.Helper()
	label := fmt.Sprintf(msg, args...)
	for k := range want {
		assert.InDelta(t, want[k], got[k], 1e-12, "%s axis %d: got %v", label, k, got)
	}
}

func TestCapsuleFourSegmentsOneRing(t *testing.T) {
	m := Capsule(CapsuleParams{Segments: 4, Rings: 1, Radius: 1, Height: 2})

	require.Equal(t, 10, m.VertexCount())
	require.Equal(t, 12, m.FaceCount())
	assert.Equal(t, mgl64.Vec3{0, 0, 2}, m.Vertices[0])
	assert.Equal(t, mgl64.Vec3{0, 0, -2}, m.Vertices[9])

	// Single ring per cap sits on the equator of each hemisphere.
	want := []mgl64.Vec3{{0, 1, 1}, {-1, 0, 1}, {0, -1, 1}, {1, 0, 1}}
	for j, w := range want {
		assertVecNear(t, w, m.Vertices[1+j], "upper ring %d", j)
		assertVecNear(t, mgl64.Vec3{w[0], w[1], -1}, m.Vertices[5+j], "lower ring %d", j)
	}
}

func TestCapsulePoles(t *testing.T) {
	for _, h := range []float64{0.5, 1, 4} {
		for _, r := range []float64{0.25, 1, 3} {
			m := Capsule(CapsuleParams{Segments: 8, Rings: 3, Radius: r, Height: h})
			assert.Equal(t, mgl64.Vec3{0, 0, h/2 + r}, m.Vertices[0])
			assert.Equal(t, mgl64.Vec3{0, 0, -(h/2 + r)}, m.Vertices[m.VertexCount()-1])

			min, max := m.Bounds()
			assert.InDelta(t, h/2+r, max[2], 1e-12)
			assert.InDelta(t, -(h/2 + r), min[2], 1e-12)
		}
	}
}

func TestCapsuleMirrorSymmetry(t *testing.T) {
	const segments, rings = 7, 4
	m := Capsule(CapsuleParams{Segments: segments, Rings: rings, Radius: 1.25, Height: 2.5})

	upper := func(r, j int) mgl64.Vec3 { return m.Vertices[1+r*segments+j] }
	lower := func(r, j int) mgl64.Vec3 { return m.Vertices[1+(rings+r)*segments+j] }

	for r := 0; r < rings; r++ {
		for j := 0; j < segments; j++ {
			u := upper(r, j)
			l := lower(rings-1-r, j)
			assert.Equal(t, u[0], l[0], "ring %d vertex %d x", r, j)
			assert.Equal(t, u[1], l[1], "ring %d vertex %d y", r, j)
			assert.Equal(t, u[2], -l[2], "ring %d vertex %d z", r, j)
		}
	}
}

func TestCapsuleVerticesOnSurface(t *testing.T) {
	p := CapsuleParams{Segments: 12, Rings: 5, Radius: 2, Height: 3}
	m := Capsule(p)
	for i, v := range m.Vertices {
		// Distance to the capsule's core segment equals the radius.
		cz := math.Max(-p.Height/2, math.Min(p.Height/2, v[2]))
		d := v.Sub(mgl64.Vec3{0, 0, cz}).Len()
		assert.InDelta(t, p.Radius, d, 1e-9, "vertex %d", i)
	}
}

func TestCapsuleSineSpacing(t *testing.T) {
	const segments, rings = 4, 4
	r, h := 2.0, 1.0
	m := Capsule(CapsuleParams{Segments: segments, Rings: rings, Radius: r, Height: h})

	for ring := 0; ring < rings; ring++ {
		i := rings - ring
		want := r*math.Sin(0.5*math.Pi*float64(i-1)/rings) + h/2
		assert.InDelta(t, want, m.Vertices[1+ring*segments][2], 1e-12, "upper ring %d", ring)
	}
	// Sine spacing: ring gaps shrink towards the pole.
	gapPole := m.Vertices[1][2] - m.Vertices[1+segments][2]
	gapEquator := m.Vertices[1+2*segments][2] - m.Vertices[1+3*segments][2]
	assert.Less(t, gapPole, gapEquator)
}

func TestCapsuleLinearSpacing(t *testing.T) {
	const segments, rings = 4, 4
	r, h := 2.0, 1.0
	m := Capsule(CapsuleParams{Segments: segments, Rings: rings, Radius: r, Height: h, Spacing: SpacingLinear})

	for ring := 0; ring < rings; ring++ {
		i := rings - ring
		want := r*float64(i-1)/rings + h/2
		assert.InDelta(t, want, m.Vertices[1+ring*segments][2], 1e-12, "upper ring %d", ring)
	}
	assert.True(t, m.IsClosedManifold())
	assert.True(t, m.IsConsistentlyOriented())
}

func TestCapsuleHeightClamp(t *testing.T) {
	for _, h := range []float64{0, -5, MinCapsuleHeight / 2} {
		got := Capsule(CapsuleParams{Segments: 6, Rings: 2, Radius: 1, Height: h})
		want := Capsule(CapsuleParams{Segments: 6, Rings: 2, Radius: 1, Height: MinCapsuleHeight})
		assert.Equal(t, want, got, "height %g must behave like the clamp floor", h)
	}
}

func TestCapsuleDeterministic(t *testing.T) {
	p := CapsuleParams{Segments: 13, Rings: 6, Radius: 0.7, Height: 1.9}
	a := Capsule(p)
	b := Capsule(p)
	require.Equal(t, len(a.Vertices), len(b.Vertices))
	for i := range a.Vertices {
		for k := 0; k < 3; k++ {
			assert.Equal(t, math.Float64bits(a.Vertices[i][k]), math.Float64bits(b.Vertices[i][k]))
		}
	}
	assert.Equal(t, a.Faces, b.Faces)
}

func TestCapsuleVolumeConverges(t *testing.T) {
	r, h := 1.0, 2.0
	m := Capsule(CapsuleParams{Segments: 96, Rings: 32, Radius: r, Height: h})
	want := math.Pi*r*r*h + 4.0/3.0*math.Pi*r*r*r
	assert.InEpsilon(t, want, m.SignedVolume(), 0.01)
}

func TestCapsuleDegenerateRadius(t *testing.T) {
	// No error and no panic; the geometry just collapses onto the axis.
	m := Capsule(CapsuleParams{Segments: 5, Rings: 2, Radius: 0, Height: 1})
	assert.Equal(t, CapsuleVertexCount(5, 2), m.VertexCount())
	assert.NoError(t, m.CheckIndices())
	for _, v := range m.Vertices {
		assert.Equal(t, 0.0, math.Abs(v[0])+math.Abs(v[1]))
	}
}

func TestCapsuleConcurrent(t *testing.T) {
	p := CapsuleParams{Segments: 16, Rings: 4, Radius: 1, Height: 2}
	want := Capsule(p)

	results := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		go func() {
			got := Capsule(p)
			results <- assert.ObjectsAreEqual(want, got)
		}()
	}
	for i := 0; i < 8; i++ {
		assert.True(t, <-results)
	}
}
