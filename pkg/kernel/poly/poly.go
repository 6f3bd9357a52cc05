// Package poly implements the kernel.Kernel interface with exact polygon
// meshes from pkg/primitive. Solids keep their polygons until ToMesh, so
// counts and topology match the primitive builders one to one.
package poly

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/meshsmith/pkg/geom"
	"github.com/chazu/meshsmith/pkg/kernel"
	"github.com/chazu/meshsmith/pkg/primitive"
)

// Compile-time interface check.
var _ kernel.Kernel = (*PolyKernel)(nil)

// polySolid wraps a polygon mesh to implement kernel.Solid.
type polySolid struct {
	m *geom.PolyMesh
}

// BoundingBox returns the axis-aligned bounding box.
func (s *polySolid) BoundingBox() (min, max [3]float64) {
	lo, hi := s.m.Bounds()
	return [3]float64(lo), [3]float64(hi)
}

// PolyKernel implements kernel.Kernel on polygon meshes.
type PolyKernel struct{}

// New returns a new PolyKernel.
func New() *PolyKernel {
	return &PolyKernel{}
}

// unwrap extracts the polygon mesh from a kernel.Solid.
func unwrap(s kernel.Solid) *geom.PolyMesh {
	return s.(*polySolid).m
}

// wrap creates a kernel.Solid from a polygon mesh.
func wrap(m *geom.PolyMesh) kernel.Solid {
	return &polySolid{m: m}
}

// Mesh returns the polygon mesh behind a solid created by this kernel.
func Mesh(s kernel.Solid) *geom.PolyMesh {
	return unwrap(s)
}

// Box creates a box spanning -(x,y,z) to +(x,y,z).
func (k *PolyKernel) Box(x, y, z float64) kernel.Solid {
	return wrap(primitive.Box(primitive.BoxParams{Size: mgl64.Vec3{x, y, z}}))
}

// Sphere creates a UV sphere.
func (k *PolyKernel) Sphere(p primitive.SphereParams) kernel.Solid {
	return wrap(primitive.Sphere(p))
}

// Capsule creates a capsule along Z.
func (k *PolyKernel) Capsule(p primitive.CapsuleParams) kernel.Solid {
	return wrap(primitive.Capsule(p))
}

// Union returns both solids as one mesh. Overlapping volumes are not
// merged.
func (k *PolyKernel) Union(a, b kernel.Solid) kernel.Solid {
	m := unwrap(a).Clone()
	m.Append(unwrap(b))
	return wrap(m)
}

// Translate moves a solid by (x, y, z).
func (k *PolyKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(unwrap(s).Transform(mgl64.Translate3D(x, y, z)))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *PolyKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(unwrap(s).Transform(EulerMatrix(x, y, z)))
}

// EulerMatrix returns Rz * Ry * Rx for angles in degrees, so X is applied
// first.
func EulerMatrix(x, y, z float64) mgl64.Mat4 {
	rx := mgl64.HomogRotate3DX(mgl64.DegToRad(x))
	ry := mgl64.HomogRotate3DY(mgl64.DegToRad(y))
	rz := mgl64.HomogRotate3DZ(mgl64.DegToRad(z))
	return rz.Mul4(ry).Mul4(rx)
}

// ToMesh triangulates the solid into a render mesh.
func (k *PolyKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return kernel.FromPoly(unwrap(s)), nil
}
