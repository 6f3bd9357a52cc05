package primitive

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/meshsmith/pkg/geom"
)

// boxFaces lists the six quads of a box over the corner order used by Box,
// each wound counter-clockwise seen from outside.
var boxFaces = [6][4]int{
	{0, 3, 2, 1}, // -Z
	{4, 5, 6, 7}, // +Z
	{0, 1, 5, 4}, // -Y
	{1, 2, 6, 5}, // +X
	{2, 3, 7, 6}, // +Y
	{3, 0, 4, 7}, // -X
}

// Box builds an axis-aligned box spanning -Size to +Size.
func Box(p BoxParams) *geom.PolyMesh {
	x, y, z := p.Size[0], p.Size[1], p.Size[2]
	m := geom.New(8, 6)
	m.Smooth = true

	for _, c := range [8]mgl64.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	} {
		m.AddVertex(c)
	}
	for _, f := range boxFaces {
		m.AddFace(f[:]...)
	}
	return m
}
