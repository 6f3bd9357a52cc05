package primitive

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphere(t *testing.T) {
	tests := []struct {
		segments, rings int
	}{
		{3, 2}, {4, 3}, {8, 5}, {32, 16},
	}
	for _, tt := range tests {
		m := Sphere(SphereParams{Segments: tt.segments, Rings: tt.rings, Radius: 2})
		assert.Equal(t, SphereVertexCount(tt.segments, tt.rings), m.VertexCount())
		assert.Equal(t, SphereFaceCount(tt.segments, tt.rings), m.FaceCount())
		require.NoError(t, m.CheckIndices())
		assert.True(t, m.IsClosedManifold())
		assert.True(t, m.IsConsistentlyOriented())
		assert.Equal(t, 2, m.EulerCharacteristic())
		assert.Greater(t, m.SignedVolume(), 0.0)
		for i, v := range m.Vertices {
			assert.InDelta(t, 2.0, v.Len(), 1e-9, "vertex %d", i)
		}
	}
}

func TestSphereVolumeConverges(t *testing.T) {
	m := Sphere(SphereParams{Segments: 96, Rings: 48, Radius: 1})
	assert.InEpsilon(t, 4.0/3.0*math.Pi, m.SignedVolume(), 0.01)
}

func TestBox(t *testing.T) {
	m := Box(BoxParams{Size: mgl64.Vec3{1, 2, 3}})
	require.Equal(t, 8, m.VertexCount())
	require.Equal(t, 6, m.FaceCount())
	assert.True(t, m.IsClosedManifold())
	assert.True(t, m.IsConsistentlyOriented())
	assert.InDelta(t, 2*4*6.0, m.SignedVolume(), 1e-12)

	min, max := m.Bounds()
	assert.Equal(t, mgl64.Vec3{-1, -2, -3}, min)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, max)

	for i := range m.Faces {
		n := m.FaceNormal(i)
		center := mgl64.Vec3{}
		for _, idx := range m.Faces[i] {
			center = center.Add(m.Vertices[idx])
		}
		assert.Greater(t, n.Dot(center), 0.0, "face %d normal must point outward", i)
	}
}

func TestValidate(t *testing.T) {
	d := DefaultParams()
	tests := []struct {
		name string
		err  error
	}{
		{"default capsule", d.Capsule.Validate()},
		{"default sphere", d.Sphere.Validate()},
		{"default box", d.Box.Validate()},
	}
	for _, tt := range tests {
		assert.NoError(t, tt.err, tt.name)
	}

	bad := []struct {
		name string
		err  error
	}{
		{"capsule segments", CapsuleParams{Segments: 2, Rings: 1, Radius: 1}.Validate()},
		{"capsule rings", CapsuleParams{Segments: 3, Rings: 0, Radius: 1}.Validate()},
		{"capsule radius", CapsuleParams{Segments: 3, Rings: 1, Radius: 0}.Validate()},
		{"capsule NaN radius", CapsuleParams{Segments: 3, Rings: 1, Radius: math.NaN()}.Validate()},
		{"capsule spacing", CapsuleParams{Segments: 3, Rings: 1, Radius: 1, Spacing: Spacing(9)}.Validate()},
		{"sphere rings", SphereParams{Segments: 3, Rings: 1, Radius: 1}.Validate()},
		{"sphere radius", SphereParams{Segments: 3, Rings: 2, Radius: -1}.Validate()},
		{"box size", BoxParams{Size: mgl64.Vec3{1, 0, 1}}.Validate()},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, errors.Is(tt.err, ErrInvalidParams))
		})
	}

	// Height is clamped by the builder, not rejected.
	assert.NoError(t, CapsuleParams{Segments: 3, Rings: 1, Radius: 1, Height: 0}.Validate())
}

func TestParseSpacing(t *testing.T) {
	tests := []struct {
		in      string
		want    Spacing
		wantErr bool
	}{
		{"", SpacingSine, false},
		{"sine", SpacingSine, false},
		{"Linear", SpacingLinear, false},
		{" linear ", SpacingLinear, false},
		{"cubic", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSpacing(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidParams, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	var s Spacing
	require.NoError(t, s.UnmarshalText([]byte("linear")))
	assert.Equal(t, SpacingLinear, s)
	b, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "linear", string(b))
}
