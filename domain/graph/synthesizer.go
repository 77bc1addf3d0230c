package graph

import (
	"fmt"
	"time"
)

// temporalWindow is the fixed recency window for synthesized links. Two
// memories further apart than this are never linked, regardless of scope.
const temporalWindow = 7 * 24 * time.Hour

// Synthesizer derives edges from a flat memory list when the store has no
// structured graph to offer. Pairs are linked when they share a scope (or the
// combined view is active) and fall within the temporal window. Quadratic
// over the node set, which is bounded by a single user's fetched memories.
type Synthesizer struct{}

// NewSynthesizer creates a temporal link synthesizer
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize produces an edge list for the given nodes. No deduplication or
// self-loop elimination happens here; the normalizer owns those invariants.
func (s *Synthesizer) Synthesize(nodes []Node, combined bool) []Edge {
	var edges []Edge
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			sameScope := nodes[i].Scope == nodes[j].Scope
			if !combined && !sameScope {
				continue
			}
			if !withinWindow(nodes[i].Timestamp, nodes[j].Timestamp) {
				continue
			}

			edge := Edge{
				ID:       fmt.Sprintf("link-%s-%s", nodes[i].ID, nodes[j].ID),
				Source:   nodes[i].ID,
				Target:   nodes[j].ID,
				Weight:   1,
				Relation: RelationCrossScope,
			}
			if sameScope {
				edge.Weight = 2
				edge.Relation = RelationSameScope
			}
			edges = append(edges, edge)
		}
	}
	return edges
}

func withinWindow(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	delta := a.Sub(b)
	if delta < 0 {
		delta = -delta
	}
	return delta < temporalWindow
}
