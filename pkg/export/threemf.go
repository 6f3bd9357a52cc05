package export

import (
	"fmt"
	"io"

	"github.com/hpinc/go3mf"

	"github.com/chazu/meshsmith/pkg/kernel"
)

// Model converts meshes into a 3MF model with one object and one build
// item per mesh. Units are millimeters.
func Model(meshes []*kernel.Mesh) *go3mf.Model {
	model := &go3mf.Model{Units: go3mf.UnitMillimeter}

	for i, m := range meshes {
		mesh := new(go3mf.Mesh)
		mesh.Vertices.Vertex = make([]go3mf.Point3D, 0, m.VertexCount())
		for v := 0; v < m.VertexCount(); v++ {
			mesh.Vertices.Vertex = append(mesh.Vertices.Vertex, go3mf.Point3D{
				m.Vertices[3*v], m.Vertices[3*v+1], m.Vertices[3*v+2],
			})
		}
		mesh.Triangles.Triangle = make([]go3mf.Triangle, 0, m.TriangleCount())
		for t := 0; t < m.TriangleCount(); t++ {
			mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{
				V1: m.Indices[3*t], V2: m.Indices[3*t+1], V3: m.Indices[3*t+2],
			})
		}

		id := uint32(i + 1)
		model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{
			ID:   id,
			Name: m.PartName,
			Type: go3mf.ObjectTypeModel,
			Mesh: mesh,
		})
		model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: id})
	}

	return model
}

// Write3MF writes meshes as a 3MF package.
func Write3MF(w io.Writer, meshes []*kernel.Mesh) error {
	if err := go3mf.NewEncoder(w).Encode(Model(meshes)); err != nil {
		return fmt.Errorf("export 3mf: %w", err)
	}
	return nil
}
