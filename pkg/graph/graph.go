package graph

import (
	"github.com/samber/lo"
)

// DesignGraph is the top-level immutable data structure produced by script
// evaluation. It is never mutated after evaluation; each evaluation
// produces a new graph.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Order     []NodeID          `json:"order"` // insertion order of Nodes
}

// New creates an empty DesignGraph.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. Adding an ID twice replaces the node
// but keeps its original position in Order.
func (g *DesignGraph) AddNode(n *Node) {
	if _, exists := g.Nodes[n.ID]; !exists {
		g.Order = append(g.Order, n.ID)
	}
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// AssignOrphanRoots makes every node that is neither a root nor a child of
// another node a root, in insertion order. Scripts that only define parts
// render without wrapping them in an assembly.
func (g *DesignGraph) AssignOrphanRoots() {
	referenced := make(map[NodeID]bool, len(g.Nodes))
	for _, id := range g.Roots {
		referenced[id] = true
	}
	for _, n := range g.Nodes {
		for _, c := range n.Children {
			referenced[c] = true
		}
	}
	for _, id := range g.Order {
		if !referenced[id] {
			g.AddRoot(id)
		}
	}
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Parts returns all primitive nodes in insertion order.
func (g *DesignGraph) Parts() []*Node {
	nodes := lo.FilterMap(g.Order, func(id NodeID, _ int) (*Node, bool) {
		n := g.Nodes[id]
		return n, n != nil && n.Kind == NodePrimitive
	})
	return nodes
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
