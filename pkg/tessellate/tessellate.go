// Package tessellate walks a design graph and produces triangle meshes
// using a geometry kernel. One mesh is produced per part.
package tessellate

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/meshsmith/pkg/graph"
	"github.com/chazu/meshsmith/pkg/kernel"
)

// transformStack holds the place frames from the root down to the node
// being visited.
type transformStack struct {
	frames []graph.TransformData
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(td graph.TransformData) {
	ts.frames = append(ts.frames, td)
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// apply moves s from its local frame into world space. Each frame rotates
// and then translates within its parent, so frames are applied innermost
// first and nested places compose as rigid motions.
func (ts *transformStack) apply(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	for i := len(ts.frames) - 1; i >= 0; i-- {
		f := ts.frames[i]
		if r := f.Rotation; r != nil && *r != (mgl64.Vec3{}) {
			s = k.Rotate(s, r[0], r[1], r[2])
		}
		if t := f.Translation; t != nil && *t != (mgl64.Vec3{}) {
			s = k.Translate(s, t[0], t[1], t[2])
		}
	}
	return s
}

// placed is a primitive solid already moved into world space.
type placed struct {
	node  *graph.Node
	solid kernel.Solid
}

// Tessellate walks the design graph and produces one triangle mesh per
// primitive part using the provided geometry kernel. The tessellator is
// read-only and never mutates the graph.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	solids, err := collect(g, k)
	if err != nil {
		return nil, err
	}

	var meshes []*kernel.Mesh
	for _, p := range solids {
		mesh, err := k.ToMesh(p.solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", p.node.ID.Short(), err)
		}
		// Prefer the node's Name, fall back to short ID.
		if p.node.Name != "" {
			mesh.PartName = p.node.Name
		} else {
			mesh.PartName = p.node.ID.Short()
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Merge unions every placed part of the graph into a single solid and
// tessellates it as one mesh called name. A graph without parts yields
// nil.
func Merge(g *graph.DesignGraph, k kernel.Kernel, name string) (*kernel.Mesh, error) {
	solids, err := collect(g, k)
	if err != nil || len(solids) == 0 {
		return nil, err
	}

	merged := solids[0].solid
	for _, p := range solids[1:] {
		merged = k.Union(merged, p.solid)
	}
	mesh, err := k.ToMesh(merged)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for merged scene: %w", err)
	}
	mesh.PartName = name
	return mesh, nil
}

// collect walks every root and returns the placed solids in walk order.
func collect(g *graph.DesignGraph, k kernel.Kernel) ([]placed, error) {
	if g == nil {
		return nil, nil
	}

	var solids []placed
	ts := newTransformStack()

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := walkNode(g, k, root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		solids = append(solids, collected...)
	}
	return solids, nil
}

// Solid builds the kernel solid for a primitive payload, centered on the
// origin.
func Solid(k kernel.Kernel, d graph.NodeData) (kernel.Solid, error) {
	switch data := d.(type) {
	case graph.CapsuleData:
		return k.Capsule(data.Params), nil
	case graph.SphereData:
		return k.Sphere(data.Params), nil
	case graph.BoxData:
		s := data.Params.Size
		return k.Box(s[0], s[1], s[2]), nil
	}
	return nil, fmt.Errorf("unsupported primitive data type %T", d)
}

// walkNode recursively traverses a node and its children, collecting solids.
func walkNode(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]placed, error) {
	switch n.Kind {
	case graph.NodePrimitive:
		return handlePrimitive(k, n, ts)

	case graph.NodeTransform:
		return handleTransform(g, k, n, ts)

	case graph.NodeGroup:
		return handleChildren(g, k, n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// handlePrimitive creates the world-space solid for a primitive node.
func handlePrimitive(k kernel.Kernel, n *graph.Node, ts *transformStack) ([]placed, error) {
	solid, err := Solid(k, n.Data)
	if err != nil {
		return nil, fmt.Errorf("primitive node %s: %w", n.ID.Short(), err)
	}
	return []placed{{node: n, solid: ts.apply(k, solid)}}, nil
}

// handleTransform pushes the transform, recurses into children, then pops.
func handleTransform(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]placed, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	ts.push(td)
	defer ts.pop()
	return handleChildren(g, k, n, ts)
}

// handleChildren recurses into children transparently.
func handleChildren(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, ts *transformStack) ([]placed, error) {
	var solids []placed
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, k, child, ts)
		if err != nil {
			return nil, err
		}
		solids = append(solids, collected...)
	}
	return solids, nil
}
