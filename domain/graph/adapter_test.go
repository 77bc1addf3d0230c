package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeAdapter_OneDocumentPerNonUserNode(t *testing.T) {
	// Arrange
	a := NewShapeAdapter()
	g := CanonicalGraph{
		Nodes: []Node{
			{ID: "a", Label: "Alpha", Type: NodeTypeMemory, Scope: "student"},
			{ID: "b", Label: "Beta", Type: NodeTypeDocument, Scope: "student"},
			{ID: "u", Label: "Me", Type: NodeTypeUser, Scope: "student"},
		},
		Edges: []Edge{
			{ID: "e1", Source: "a", Target: "b", Weight: 2, Relation: RelationSameScope},
			{ID: "e2", Source: "a", Target: "u", Weight: 1, Relation: RelationCrossScope},
		},
	}

	// Act
	docs, err := a.Adapt(g)

	// Assert: k=2 non-user nodes -> exactly 2 documents
	assert.NoError(t, err)
	assert.Len(t, docs, 2)

	assert.Equal(t, "a", docs[0].ID)
	assert.Len(t, docs[0].MemoryEntries, 2) // one entry per connected edge
	assert.Equal(t, RelationSameScope, docs[0].MemoryEntries[0].Relation)

	assert.Equal(t, "b", docs[1].ID)
	assert.Len(t, docs[1].MemoryEntries, 1)
}

func TestShapeAdapter_IsolatedNodeGetsSingletonEntry(t *testing.T) {
	a := NewShapeAdapter()
	g := CanonicalGraph{
		Nodes: []Node{{ID: "lonely", Label: "No friends", Type: NodeTypeMemory}},
	}

	docs, err := a.Adapt(g)

	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Len(t, docs[0].MemoryEntries, 1)
	assert.Equal(t, "lonely-entry", docs[0].MemoryEntries[0].ID)
	assert.Equal(t, "No friends", docs[0].MemoryEntries[0].Content)
}

func TestShapeAdapter_OnlyUserNodes_FallbackDocument(t *testing.T) {
	a := NewShapeAdapter()
	g := CanonicalGraph{
		Nodes: []Node{
			{ID: "u1", Label: "First user", Type: NodeTypeUser},
			{ID: "u2", Label: "Second user", Type: NodeTypeUser},
		},
	}

	docs, err := a.Adapt(g)

	// k=0 non-user, m=2 user -> exactly one document, from the first user node
	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, "u1", docs[0].ID)
	assert.Equal(t, "First user", docs[0].Title)
}

func TestShapeAdapter_EmptyGraph_NoData(t *testing.T) {
	a := NewShapeAdapter()

	docs, err := a.Adapt(CanonicalGraph{})

	assert.Nil(t, docs)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestShapeAdapter_DefaultsTitleContentSummaryToLabel(t *testing.T) {
	a := NewShapeAdapter()
	g := CanonicalGraph{Nodes: []Node{{ID: "n", Label: "The label", Type: NodeTypeMemory}}}

	docs, err := a.Adapt(g)

	assert.NoError(t, err)
	assert.Equal(t, "The label", docs[0].Title)
	assert.Equal(t, "The label", docs[0].Content)
	assert.Equal(t, "The label", docs[0].Summary)
}
