package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNormalizer_Normalize_Idempotent(t *testing.T) {
	// Arrange
	n := NewNormalizer(zap.NewNop())
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	canonical := CanonicalGraph{
		Nodes: []Node{
			{ID: "a", Label: "First", Type: NodeTypeMemory, Scope: "student", Timestamp: ts},
			{ID: "b", Label: "Second", Type: NodeTypeDocument, Scope: "student", Timestamp: ts},
		},
		Edges: []Edge{
			{ID: "e1", Source: "a", Target: "b", Weight: 2, Relation: RelationSameScope},
		},
	}

	// Act
	once := n.Normalize(canonical, "student")
	twice := n.Normalize(once, "student")

	// Assert
	assert.Equal(t, canonical, once)
	assert.Equal(t, once, twice)
}

func TestNormalizer_Normalize_DeduplicatesNodesKeepFirst(t *testing.T) {
	n := NewNormalizer(zap.NewNop())
	candidate := CanonicalGraph{
		Nodes: []Node{
			{ID: "a", Label: "kept"},
			{ID: "a", Label: "discarded"},
			{ID: "b", Label: "other"},
		},
	}

	result := n.Normalize(candidate, "student")

	assert.Len(t, result.Nodes, 2)
	assert.Equal(t, "kept", result.Nodes[0].Label)

	ids := map[string]int{}
	for _, node := range result.Nodes {
		ids[node.ID]++
	}
	for id, count := range ids {
		assert.Equal(t, 1, count, "node id %s appears more than once", id)
	}
}

func TestNormalizer_Normalize_DropsDanglingAndSelfLoopEdges(t *testing.T) {
	n := NewNormalizer(zap.NewNop())
	candidate := CanonicalGraph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{
			{ID: "ok", Source: "a", Target: "b"},
			{ID: "dangling", Source: "a", Target: "missing"},
			{ID: "self", Source: "b", Target: "b"},
		},
	}

	result := n.Normalize(candidate, "student")

	assert.Len(t, result.Edges, 1)
	assert.Equal(t, "ok", result.Edges[0].ID)
	// All valid nodes survive even when their edges do not.
	assert.Len(t, result.Nodes, 2)
}

func TestNormalizer_Normalize_AssignsFallbacks(t *testing.T) {
	n := NewNormalizer(zap.NewNop())
	candidate := CanonicalGraph{
		Nodes: []Node{
			{}, // no id, no label, no type, no scope
			{ID: "b"},
		},
		Edges: []Edge{
			{Source: "node-0", Target: "b"}, // no id, no relation
		},
	}

	result := n.Normalize(candidate, "parent")

	assert.Equal(t, "node-0", result.Nodes[0].ID)
	assert.Equal(t, placeholderText, result.Nodes[0].Label)
	assert.Equal(t, NodeTypeDefault, result.Nodes[0].Type)
	assert.Equal(t, "parent", result.Nodes[0].Scope)
	assert.Equal(t, "edge-0", result.Edges[0].ID)
	assert.Equal(t, RelationExplicit, result.Edges[0].Relation)
}

func TestNormalizer_NormalizeRaw_CoercesAlternateFieldNames(t *testing.T) {
	n := NewNormalizer(zap.NewNop())
	raw := RawGraph{
		Nodes: []RawNode{
			{"nodeId": float64(7), "title": "Numeric id", "mode": "job"},
			{"id": "x", "name": "Named", "type": "document"},
		},
		Edges: []RawEdge{
			{"from": "7", "to": "x", "strength": float64(3)},
			// Alternate names win over canonical ones.
			{"sourceId": "x", "targetId": "7", "source": "bogus", "target": "bogus"},
		},
	}

	result := n.NormalizeRaw(raw, "job")

	assert.Len(t, result.Nodes, 2)
	assert.Equal(t, "7", result.Nodes[0].ID)
	assert.Equal(t, "Numeric id", result.Nodes[0].Label)
	assert.Equal(t, "job", result.Nodes[0].Scope)
	assert.Equal(t, NodeTypeDocument, result.Nodes[1].Type)

	assert.Len(t, result.Edges, 2)
	assert.Equal(t, "7", result.Edges[0].Source)
	assert.Equal(t, "x", result.Edges[0].Target)
	assert.Equal(t, float64(3), result.Edges[0].Weight)
	assert.Equal(t, "x", result.Edges[1].Source)
	assert.Equal(t, "7", result.Edges[1].Target)
}

func TestNormalizer_NormalizeRaw_ReferentialIntegrity(t *testing.T) {
	n := NewNormalizer(zap.NewNop())
	raw := RawGraph{
		Nodes: []RawNode{
			{"id": "a", "label": "A"},
			{"id": "b", "label": "B"},
		},
		Edges: []RawEdge{
			{"source": "a", "target": "b"},
			{"source": "a", "target": "ghost"},
		},
	}

	result := n.NormalizeRaw(raw, "student")

	ids := map[string]bool{}
	for _, node := range result.Nodes {
		ids[node.ID] = true
	}
	for _, edge := range result.Edges {
		assert.True(t, ids[edge.Source], "edge %s has dangling source", edge.ID)
		assert.True(t, ids[edge.Target], "edge %s has dangling target", edge.ID)
		assert.NotEqual(t, edge.Source, edge.Target)
	}
	assert.Len(t, result.Edges, 1)
}
