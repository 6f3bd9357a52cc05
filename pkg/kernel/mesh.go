package kernel

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/meshsmith/pkg/geom"
)

// Mesh is a triangle mesh suitable for rendering and export.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene part this came from
	Smooth   bool      `json:"smooth"`   // normals are averaged per vertex
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i as a double-precision vector.
func (m *Mesh) Vertex(i int) mgl64.Vec3 {
	return mgl64.Vec3{float64(m.Vertices[3*i]), float64(m.Vertices[3*i+1]), float64(m.Vertices[3*i+2])}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) mgl64.Vec3 {
	return mgl64.Vec3{float64(m.Normals[3*i]), float64(m.Normals[3*i+1]), float64(m.Normals[3*i+2])}
}

// FromPoly triangulates a polygon mesh into a render mesh. Smooth meshes
// keep shared vertices with averaged normals; flat meshes get three fresh
// vertices per triangle carrying the face normal.
func FromPoly(pm *geom.PolyMesh) *Mesh {
	tri := pm.Triangulate()
	if pm.Smooth {
		return smoothMesh(tri)
	}
	return flatMesh(tri)
}

func smoothMesh(tri *geom.PolyMesh) *Mesh {
	normals := tri.VertexNormals()
	out := &Mesh{
		Vertices: make([]float32, 0, 3*len(tri.Vertices)),
		Normals:  make([]float32, 0, 3*len(tri.Vertices)),
		Indices:  make([]uint32, 0, 3*len(tri.Faces)),
		Smooth:   true,
	}
	for i, v := range tri.Vertices {
		n := normals[i]
		out.Vertices = append(out.Vertices, float32(v[0]), float32(v[1]), float32(v[2]))
		out.Normals = append(out.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
	}
	for _, f := range tri.Faces {
		out.Indices = append(out.Indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return out
}

func flatMesh(tri *geom.PolyMesh) *Mesh {
	numVerts := 3 * len(tri.Faces)
	out := &Mesh{
		Vertices: make([]float32, 0, 3*numVerts),
		Normals:  make([]float32, 0, 3*numVerts),
		Indices:  make([]uint32, 0, numVerts),
	}
	for i, f := range tri.Faces {
		n := tri.FaceNormal(i)
		for j := 0; j < 3; j++ {
			v := tri.Vertices[f[j]]
			out.Vertices = append(out.Vertices, float32(v[0]), float32(v[1]), float32(v[2]))
			out.Normals = append(out.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
			out.Indices = append(out.Indices, uint32(3*i+j))
		}
	}
	return out
}
