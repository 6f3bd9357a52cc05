// Package geom defines the polygon mesh produced by the primitive builders.
// A PolyMesh is a vertex list plus a face list of 3- or 4-index polygons
// wound counter-clockwise when viewed from outside the solid.
package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is an ordered list of vertex indices forming one planar polygon.
type Face []int

// PolyMesh is an indexed polygon mesh. Faces only reference indices of
// vertices already in Vertices.
type PolyMesh struct {
	Vertices []mgl64.Vec3 `json:"vertices"`
	Faces    []Face       `json:"faces"`
	Smooth   bool         `json:"smooth"` // shade with averaged vertex normals
}

// New returns an empty mesh with room for the given number of vertices
// and faces. Negative capacities are treated as zero.
func New(vertexCap, faceCap int) *PolyMesh {
	vertexCap = max(vertexCap, 0)
	faceCap = max(faceCap, 0)
	return &PolyMesh{
		Vertices: make([]mgl64.Vec3, 0, vertexCap),
		Faces:    make([]Face, 0, faceCap),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *PolyMesh) AddVertex(v mgl64.Vec3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddFace appends a face built from the given indices.
func (m *PolyMesh) AddFace(idx ...int) {
	f := make(Face, len(idx))
	copy(f, idx)
	m.Faces = append(m.Faces, f)
}

// VertexCount returns the number of vertices.
func (m *PolyMesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *PolyMesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty reports whether the mesh has no geometry.
func (m *PolyMesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// CheckIndices verifies that every face has at least three indices and that
// all of them are in range.
func (m *PolyMesh) CheckIndices() error {
	n := len(m.Vertices)
	for fi, f := range m.Faces {
		if len(f) < 3 {
			return fmt.Errorf("face %d has %d indices, need at least 3", fi, len(f))
		}
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", fi, idx, n)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box. An empty mesh returns two
// zero vectors.
func (m *PolyMesh) Bounds() (min, max mgl64.Vec3) {
	if len(m.Vertices) == 0 {
		return min, max
	}
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.Vertices {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], v[i])
			max[i] = math.Max(max[i], v[i])
		}
	}
	return min, max
}

// Clone returns a deep copy of the mesh.
func (m *PolyMesh) Clone() *PolyMesh {
	out := &PolyMesh{
		Vertices: make([]mgl64.Vec3, len(m.Vertices)),
		Faces:    make([]Face, len(m.Faces)),
		Smooth:   m.Smooth,
	}
	copy(out.Vertices, m.Vertices)
	for i, f := range m.Faces {
		out.Faces[i] = append(Face(nil), f...)
	}
	return out
}

// Transform returns a copy of the mesh with every vertex multiplied by m.
func (m *PolyMesh) Transform(mat mgl64.Mat4) *PolyMesh {
	out := m.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = mgl64.TransformCoordinate(v, mat)
	}
	return out
}

// Append adds the geometry of other to m, offsetting its face indices.
// The result is a disjoint union; no vertices are welded.
func (m *PolyMesh) Append(other *PolyMesh) {
	offset := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, f := range other.Faces {
		nf := make(Face, len(f))
		for i, idx := range f {
			nf[i] = idx + offset
		}
		m.Faces = append(m.Faces, nf)
	}
	m.Smooth = m.Smooth && other.Smooth
}

// Triangulate returns a copy where every polygon is split into a triangle
// fan around its first vertex. Winding is preserved.
func (m *PolyMesh) Triangulate() *PolyMesh {
	out := &PolyMesh{
		Vertices: append([]mgl64.Vec3(nil), m.Vertices...),
		Smooth:   m.Smooth,
	}
	for _, f := range m.Faces {
		for i := 1; i+1 < len(f); i++ {
			out.Faces = append(out.Faces, Face{f[0], f[i], f[i+1]})
		}
	}
	return out
}
