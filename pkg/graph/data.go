package graph

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/meshsmith/pkg/primitive"
)

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// PrimitiveKind distinguishes between primitive shapes.
type PrimitiveKind int

const (
	PrimCapsule PrimitiveKind = iota // cylinder with hemispherical caps
	PrimSphere                       // UV sphere
	PrimBox                          // axis-aligned box
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimCapsule:
		return "capsule"
	case PrimSphere:
		return "sphere"
	case PrimBox:
		return "box"
	default:
		return "unknown"
	}
}

// CapsuleData describes a capsule part.
type CapsuleData struct {
	Params primitive.CapsuleParams `json:"params"`
}

func (CapsuleData) nodeData() {}

// SphereData describes a UV sphere part.
type SphereData struct {
	Params primitive.SphereParams `json:"params"`
}

func (SphereData) nodeData() {}

// BoxData describes a box part.
type BoxData struct {
	Params primitive.BoxParams `json:"params"`
}

func (BoxData) nodeData() {}

// PrimitiveKindOf returns the primitive kind of a node payload and false
// for non-primitive payloads.
func PrimitiveKindOf(d NodeData) (PrimitiveKind, bool) {
	switch d.(type) {
	case CapsuleData:
		return PrimCapsule, true
	case SphereData:
		return PrimSphere, true
	case BoxData:
		return PrimBox, true
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to child nodes.
// Created by the (place ...) form.
type TransformData struct {
	Translation *mgl64.Vec3 `json:"translation,omitempty"`
	Rotation    *mgl64.Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping (assembly, subassembly).
// Created by the (assembly ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
