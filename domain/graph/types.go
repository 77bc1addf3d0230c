package graph

import (
	"time"
)

// NodeType classifies how a node is rendered and adapted
type NodeType string

const (
	NodeTypeMemory   NodeType = "memory"
	NodeTypeDocument NodeType = "document"
	NodeTypeUser     NodeType = "user"
	NodeTypeDefault  NodeType = "default"
)

// ParseNodeType maps an arbitrary type string to a known NodeType
func ParseNodeType(s string) NodeType {
	switch NodeType(s) {
	case NodeTypeMemory, NodeTypeDocument, NodeTypeUser:
		return NodeType(s)
	default:
		return NodeTypeDefault
	}
}

// RelationKind describes why an edge exists
type RelationKind string

const (
	RelationExplicit   RelationKind = "explicit"
	RelationSameScope  RelationKind = "same-scope"
	RelationCrossScope RelationKind = "cross-scope"
)

// Node is a single memory in the canonical graph
type Node struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Type      NodeType  `json:"type"`
	Scope     string    `json:"scope"`
	Timestamp time.Time `json:"timestamp"`
}

// Edge connects two distinct nodes in the canonical graph
type Edge struct {
	ID       string       `json:"id"`
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Weight   float64      `json:"weight"`
	Relation RelationKind `json:"relation"`
}

// CanonicalGraph is the validated node/edge structure every component past
// the normalizer may rely on: node ids are unique, every edge references two
// distinct surviving nodes.
type CanonicalGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// IsEmpty reports whether the graph has no nodes
func (g CanonicalGraph) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// HasNode checks membership by id
func (g CanonicalGraph) HasNode(id string) bool {
	for _, n := range g.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// FindNode returns the node with the given id, if present
func (g CanonicalGraph) FindNode(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// EdgesOf returns all edges touching the given node id
func (g CanonicalGraph) EdgesOf(id string) []Edge {
	var connected []Edge
	for _, e := range g.Edges {
		if e.Source == id || e.Target == id {
			connected = append(connected, e)
		}
	}
	return connected
}

// Stats summarizes a graph for the visualization payload
type Stats struct {
	NodeCount int     `json:"node_count"`
	EdgeCount int     `json:"edge_count"`
	Density   float64 `json:"density"`
}

// ComputeStats derives summary statistics from a canonical graph
func ComputeStats(g CanonicalGraph) Stats {
	stats := Stats{
		NodeCount: len(g.Nodes),
		EdgeCount: len(g.Edges),
	}
	if len(g.Nodes) > 1 {
		maxPossibleEdges := len(g.Nodes) * (len(g.Nodes) - 1) / 2
		stats.Density = float64(len(g.Edges)) / float64(maxPossibleEdges)
	}
	return stats
}

// RawNode is a structured-endpoint node before coercion. Upstream field names
// are not guaranteed, so elements are decoded loosely.
type RawNode map[string]any

// RawEdge is a structured-endpoint edge before coercion
type RawEdge map[string]any

// RawGraph is the uncoerced response of the structured graph endpoint
type RawGraph struct {
	Nodes []RawNode `json:"nodes"`
	Edges []RawEdge `json:"edges"`
}
