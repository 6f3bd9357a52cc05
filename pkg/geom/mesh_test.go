package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tetra returns a unit right tetrahedron with outward winding.
func tetra() *PolyMesh {
	m := New(4, 4)
	m.AddVertex(mgl64.Vec3{0, 0, 0})
	m.AddVertex(mgl64.Vec3{1, 0, 0})
	m.AddVertex(mgl64.Vec3{0, 1, 0})
	m.AddVertex(mgl64.Vec3{0, 0, 1})
	m.AddFace(0, 2, 1)
	m.AddFace(0, 1, 3)
	m.AddFace(0, 3, 2)
	m.AddFace(1, 2, 3)
	return m
}

// quadCube returns an axis-aligned unit cube made of quads.
func quadCube() *PolyMesh {
	m := New(8, 6)
	for _, v := range []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	} {
		m.AddVertex(v)
	}
	m.AddFace(0, 3, 2, 1)
	m.AddFace(4, 5, 6, 7)
	m.AddFace(0, 1, 5, 4)
	m.AddFace(1, 2, 6, 5)
	m.AddFace(2, 3, 7, 6)
	m.AddFace(3, 0, 4, 7)
	return m
}

func TestCheckIndices(t *testing.T) {
	tests := []struct {
		name    string
		mesh    func() *PolyMesh
		wantErr bool
	}{
		{"tetra", tetra, false},
		{"cube", quadCube, false},
		{"out of range", func() *PolyMesh {
			m := tetra()
			m.AddFace(0, 1, 4)
			return m
		}, true},
		{"negative", func() *PolyMesh {
			m := tetra()
			m.AddFace(-1, 1, 2)
			return m
		}, true},
		{"two indices", func() *PolyMesh {
			m := tetra()
			m.AddFace(0, 1)
			return m
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh().CheckIndices()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClosedManifold(t *testing.T) {
	assert.True(t, tetra().IsClosedManifold())
	assert.True(t, quadCube().IsClosedManifold())
	assert.Equal(t, 2, tetra().EulerCharacteristic())
	assert.Equal(t, 2, quadCube().EulerCharacteristic())

	open := tetra()
	open.Faces = open.Faces[:3]
	assert.False(t, open.IsClosedManifold())
	assert.Len(t, open.BoundaryEdges(), 3)

	assert.False(t, New(0, 0).IsClosedManifold())
}

func TestConsistentOrientation(t *testing.T) {
	assert.True(t, tetra().IsConsistentlyOriented())
	assert.True(t, quadCube().IsConsistentlyOriented())

	flipped := tetra()
	f := flipped.Faces[3]
	f[1], f[2] = f[2], f[1]
	assert.True(t, flipped.IsClosedManifold(), "flipping a face keeps edge counts")
	assert.False(t, flipped.IsConsistentlyOriented())
}

func TestSignedVolume(t *testing.T) {
	assert.InDelta(t, 1.0/6, tetra().SignedVolume(), 1e-12)
	assert.InDelta(t, 1.0, quadCube().SignedVolume(), 1e-12)
	assert.InDelta(t, 6.0, quadCube().SurfaceArea(), 1e-12)
}

func TestTriangulatePreservesWinding(t *testing.T) {
	cube := quadCube()
	tri := cube.Triangulate()
	require.Equal(t, 12, tri.FaceCount())
	for _, f := range tri.Faces {
		assert.Len(t, f, 3)
	}
	assert.True(t, tri.IsClosedManifold())
	assert.True(t, tri.IsConsistentlyOriented())
	assert.InDelta(t, cube.SignedVolume(), tri.SignedVolume(), 1e-12)
	// Source mesh is untouched.
	assert.Len(t, cube.Faces[0], 4)
}

func TestFaceAndVertexNormals(t *testing.T) {
	cube := quadCube()
	want := []mgl64.Vec3{{0, 0, -1}, {0, 0, 1}, {0, -1, 0}, {1, 0, 0}, {0, 1, 0}, {-1, 0, 0}}
	for i, w := range want {
		assert.True(t, cube.FaceNormal(i).ApproxEqual(w), "face %d normal = %v, want %v", i, cube.FaceNormal(i), w)
	}

	normals := cube.VertexNormals()
	require.Len(t, normals, 8)
	for i, n := range normals {
		assert.InDelta(t, 1.0, n.Len(), 1e-12, "vertex %d", i)
		// Corner normals point away from the cube center.
		center := mgl64.Vec3{0.5, 0.5, 0.5}
		assert.Greater(t, n.Dot(cube.Vertices[i].Sub(center)), 0.0, "vertex %d", i)
	}
}

func TestBounds(t *testing.T) {
	min, max := quadCube().Bounds()
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, min)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, max)

	min, max = New(0, 0).Bounds()
	assert.Equal(t, mgl64.Vec3{}, min)
	assert.Equal(t, mgl64.Vec3{}, max)
}

func TestTransformAndAppend(t *testing.T) {
	cube := quadCube()
	moved := cube.Transform(mgl64.Translate3D(10, 0, 0))
	min, _ := moved.Bounds()
	assert.Equal(t, mgl64.Vec3{10, 0, 0}, min)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, cube.Vertices[0], "Transform must not mutate the receiver")

	both := cube.Clone()
	both.Append(moved)
	assert.Equal(t, 16, both.VertexCount())
	assert.Equal(t, 12, both.FaceCount())
	assert.NoError(t, both.CheckIndices())
	assert.True(t, both.IsClosedManifold())
	assert.InDelta(t, 2.0, both.SignedVolume(), 1e-9)
}
