package geom

import "github.com/go-gl/mathgl/mgl64"

// faceArea2 returns the Newell normal of face f, whose length is twice the
// polygon area. It is exact for triangles and robust for slightly
// non-planar quads.
func (m *PolyMesh) faceArea2(f Face) mgl64.Vec3 {
	var n mgl64.Vec3
	for i := range f {
		cur := m.Vertices[f[i]]
		next := m.Vertices[f[(i+1)%len(f)]]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n
}

// FaceNormal returns the unit outward normal of face i. Degenerate faces
// return the zero vector.
func (m *PolyMesh) FaceNormal(i int) mgl64.Vec3 {
	n := m.faceArea2(m.Faces[i])
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}

// VertexNormals returns one unit normal per vertex, the area-weighted
// average of the normals of all faces touching it. Vertices with no faces
// get the zero vector.
func (m *PolyMesh) VertexNormals() []mgl64.Vec3 {
	normals := make([]mgl64.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		n := m.faceArea2(f)
		for _, idx := range f {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i, n := range normals {
		if l := n.Len(); l > 0 {
			normals[i] = n.Mul(1 / l)
		}
	}
	return normals
}

// SignedVolume returns the enclosed volume of a closed mesh. It is positive
// when faces wind counter-clockwise seen from outside.
func (m *PolyMesh) SignedVolume() float64 {
	var vol float64
	for _, f := range m.Faces {
		a := m.Vertices[f[0]]
		for i := 1; i+1 < len(f); i++ {
			b := m.Vertices[f[i]]
			c := m.Vertices[f[i+1]]
			vol += a.Dot(b.Cross(c))
		}
	}
	return vol / 6
}

// SurfaceArea returns the total area of all faces.
func (m *PolyMesh) SurfaceArea() float64 {
	var area float64
	for _, f := range m.Faces {
		area += m.faceArea2(f).Len() / 2
	}
	return area
}
