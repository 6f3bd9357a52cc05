package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs all Tier 1 structural validation checks on the scene graph
// and returns a slice of validation findings. An empty slice means the graph
// is valid. This function is read-only and never mutates the graph.
func Validate(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateKinds(g)...)
	return errs
}

// ValidateAll runs structural (Tier 1) and parameter (Tier 2) validation
// and returns a ValidationResult with separated errors and warnings.
func ValidateAll(g *DesignGraph) ValidationResult {
	tier1 := Validate(g)
	tier2Errs, tier2Warnings := validateParams(g)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}

	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)

	return result
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
// If we encounter a gray node during traversal, we have found a cycle.
func validateDAG(g *DesignGraph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int) // default zero = white
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	// Start DFS from every node to catch disconnected components.
	for _, id := range g.Order {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child ID points to a node that
// actually exists in g.Nodes.
func validateReferences(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, id := range g.Order {
		node := g.Nodes[id]
		for _, childID := range node.Children {
			if _, ok := g.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateNames checks that every entry in NameIndex points to an existing
// node and that no two nodes share the same name.
func validateNames(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	var names []string
	for _, id := range g.Order {
		node := g.Nodes[id]
		if node.Name == "" {
			continue
		}
		if _, seen := nameToNodes[node.Name]; !seen {
			names = append(names, node.Name)
		}
		nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
	}
	for _, name := range names {
		if ids := nameToNodes[name]; len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root ID references an existing node and
// warns about orphan nodes (nodes unreachable from any root).
func validateRoots(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	if len(g.Nodes) == 0 {
		return errs
	}

	// Orphan detection: BFS from all roots through Children edges.
	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for _, id := range g.Order {
		if reachable[id] {
			continue
		}
		node := g.Nodes[id]
		name := node.Name
		if name == "" {
			name = id.Short()
		}
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", name),
			Severity: SeverityWarning,
		})
	}

	return errs
}

// validateKinds checks that each node's payload matches its kind and that
// primitives are leaves.
func validateKinds(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, id := range g.Order {
		node := g.Nodes[id]
		ok := false
		switch node.Kind {
		case NodePrimitive:
			_, ok = PrimitiveKindOf(node.Data)
			if len(node.Children) > 0 {
				errs = append(errs, ValidationError{
					NodeID:   id,
					Message:  "primitive node must not have children",
					Severity: SeverityError,
				})
			}
		case NodeTransform:
			_, ok = node.Data.(TransformData)
		case NodeGroup:
			_, ok = node.Data.(GroupData)
		}
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("%s node carries %T payload", node.Kind, node.Data),
				Severity: SeverityError,
			})
		}
	}

	return errs
}
