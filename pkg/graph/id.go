package graph

import (
	"strings"

	"github.com/google/uuid"
)

// NodeID is a content-addressed identifier for graph nodes. IDs are
// name-based UUIDs so the same path always yields the same ID.
type NodeID string

// ZeroID is the empty NodeID.
const ZeroID NodeID = ""

// nodeNamespace scopes node UUIDs to this project.
var nodeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/meshsmith/graph"))

// NewNodeID derives a deterministic NodeID from a path such as
// "defpart/pill".
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(nodeNamespace, []byte(path)).String())
}

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

func (id NodeID) String() string {
	return string(id)
}

// Short returns the first 12 hex digits of the ID for messages.
func (id NodeID) Short() string {
	s := strings.ReplaceAll(string(id), "-", "")
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
