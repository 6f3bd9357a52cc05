package geom

// Edge is an undirected edge with A < B.
type Edge struct {
	A, B int
}

// MakeEdge returns the canonical undirected edge between a and b.
func MakeEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// halfEdge is a directed edge from one face's winding.
type halfEdge struct {
	from, to int
}

// Edges counts how many faces border each undirected edge.
func (m *PolyMesh) Edges() map[Edge]int {
	edges := make(map[Edge]int)
	for _, f := range m.Faces {
		for i := range f {
			edges[MakeEdge(f[i], f[(i+1)%len(f)])]++
		}
	}
	return edges
}

// EdgeCount returns the number of distinct undirected edges.
func (m *PolyMesh) EdgeCount() int {
	return len(m.Edges())
}

// BoundaryEdges returns edges that border fewer or more than two faces.
func (m *PolyMesh) BoundaryEdges() []Edge {
	var out []Edge
	for e, n := range m.Edges() {
		if n != 2 {
			out = append(out, e)
		}
	}
	return out
}

// IsClosedManifold reports whether every edge borders exactly two faces.
// An empty mesh is not closed.
func (m *PolyMesh) IsClosedManifold() bool {
	if len(m.Faces) == 0 {
		return false
	}
	for _, n := range m.Edges() {
		if n != 2 {
			return false
		}
	}
	return true
}

// IsConsistentlyOriented reports whether each directed edge is used by
// exactly one face and its reverse by exactly one other face, which holds
// when all faces of a closed surface share the same winding.
func (m *PolyMesh) IsConsistentlyOriented() bool {
	if len(m.Faces) == 0 {
		return false
	}
	half := make(map[halfEdge]int)
	for _, f := range m.Faces {
		for i := range f {
			half[halfEdge{f[i], f[(i+1)%len(f)]}]++
		}
	}
	for he, n := range half {
		if n != 1 {
			return false
		}
		if half[halfEdge{he.to, he.from}] != 1 {
			return false
		}
	}
	return true
}

// EulerCharacteristic returns V - E + F. A closed genus-0 surface gives 2.
func (m *PolyMesh) EulerCharacteristic() int {
	return len(m.Vertices) - m.EdgeCount() + len(m.Faces)
}
