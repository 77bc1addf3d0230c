package graph

import (
	"errors"
	"time"
)

// ErrNoData signals that the canonical graph has no nodes at all, so the
// external visualization component must not be invoked. Distinct from a
// rendering fault: callers show "no memories yet", not "something went wrong".
var ErrNoData = errors.New("graph has no nodes to adapt")

// AdaptedEntry is one memory entry inside an adapted document
type AdaptedEntry struct {
	ID       string       `json:"id"`
	Content  string       `json:"content"`
	Relation RelationKind `json:"relation"`
	Weight   float64      `json:"weight"`
}

// AdaptedDocument is the nested document/entry shape the external
// visualization component demands. Entirely synthetic and discarded after
// each render.
type AdaptedDocument struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Summary       string            `json:"summary"`
	Type          NodeType          `json:"type"`
	Metadata      map[string]string `json:"metadata"`
	MemoryEntries []AdaptedEntry    `json:"memoryEntries"`
}

// ShapeAdapter transforms a canonical graph into adapted documents,
// maximizing the chance the external component renders at least one.
type ShapeAdapter struct{}

// NewShapeAdapter creates an adapter
func NewShapeAdapter() *ShapeAdapter {
	return &ShapeAdapter{}
}

// Adapt emits one document per non-user node. A connected node gets one entry
// per touching edge; an isolated node gets a single singleton entry. When no
// non-user nodes exist, the first user node becomes a last-resort document so
// the external component always receives non-empty input. An empty graph
// yields ErrNoData.
func (a *ShapeAdapter) Adapt(g CanonicalGraph) ([]AdaptedDocument, error) {
	if g.IsEmpty() {
		return nil, ErrNoData
	}

	var nonUser, userNodes []Node
	for _, node := range g.Nodes {
		if node.Type == NodeTypeUser {
			userNodes = append(userNodes, node)
		} else {
			nonUser = append(nonUser, node)
		}
	}

	docs := make([]AdaptedDocument, 0, len(nonUser))
	for _, node := range nonUser {
		docs = append(docs, a.documentFor(node, g.EdgesOf(node.ID)))
	}

	if len(docs) == 0 {
		// Only user nodes survived; one document keeps the renderer fed.
		docs = append(docs, a.documentFor(userNodes[0], g.EdgesOf(userNodes[0].ID)))
	}

	return docs, nil
}

func (a *ShapeAdapter) documentFor(node Node, connected []Edge) AdaptedDocument {
	doc := AdaptedDocument{
		ID:      node.ID,
		Title:   node.Label,
		Content: node.Label,
		Summary: node.Label,
		Type:    node.Type,
		Metadata: map[string]string{
			"scope": node.Scope,
		},
		MemoryEntries: make([]AdaptedEntry, 0, len(connected)),
	}
	if !node.Timestamp.IsZero() {
		doc.Metadata["timestamp"] = node.Timestamp.Format(time.RFC3339)
	}

	for _, edge := range connected {
		doc.MemoryEntries = append(doc.MemoryEntries, AdaptedEntry{
			ID:       edge.ID,
			Content:  node.Label,
			Relation: edge.Relation,
			Weight:   edge.Weight,
		})
	}
	if len(doc.MemoryEntries) == 0 {
		doc.MemoryEntries = append(doc.MemoryEntries, AdaptedEntry{
			ID:       node.ID + "-entry",
			Content:  node.Label,
			Relation: RelationExplicit,
			Weight:   1,
		})
	}
	return doc
}
