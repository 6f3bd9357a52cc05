package graph

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // parametric solid (capsule, sphere, box)
	NodeTransform                 // spatial transformation (place)
	NodeGroup                     // logical grouping (assembly)
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// SourceRef points back to the script location that created a node.
type SourceRef struct {
	Line int `json:"line,omitempty"`
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID    `json:"id"`
	Kind     NodeKind  `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Source   SourceRef `json:"source"`
	Children []NodeID  `json:"children,omitempty"`
	Data     NodeData  `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
