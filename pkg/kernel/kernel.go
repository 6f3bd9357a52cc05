// Package kernel defines the abstract geometry kernel interface.
// Implementations (poly, sdfx) build primitive solids, place them and
// tessellate them into render meshes. The kernel abstraction allows
// swapping backends without changing the rest of the system.
package kernel

import "github.com/chazu/meshsmith/pkg/primitive"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives, all centered on the origin.
	Box(x, y, z float64) Solid // half-extents
	Sphere(p primitive.SphereParams) Solid
	Capsule(p primitive.CapsuleParams) Solid

	// Union combines two solids.
	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
