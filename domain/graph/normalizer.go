package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Normalizer turns arbitrary candidate node/edge lists into a CanonicalGraph.
// It never fails: malformed input is coerced, defaulted, or dropped. All
// alternate-field-name handling lives here so downstream consumers only ever
// see canonical fields.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a normalizer
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Field coercion priority. Alternate names seen in the wild are checked
// before the canonical names.
var (
	nodeIDKeys      = []string{"id", "nodeId", "node_id"}
	nodeLabelKeys   = []string{"label", "title", "name", "text"}
	nodeTypeKeys    = []string{"type", "nodeType"}
	nodeScopeKeys   = []string{"scope", "mode", "category"}
	nodeTimeKeys    = []string{"timestamp", "eventDate", "createdAt", "created_at"}
	edgeIDKeys      = []string{"id", "edgeId", "edge_id"}
	edgeSourceKeys  = []string{"from", "sourceId", "source_id", "source"}
	edgeTargetKeys  = []string{"to", "targetId", "target_id", "target"}
	edgeWeightKeys  = []string{"weight", "strength"}
	edgeKindKeys    = []string{"relation", "relationKind", "kind"}
	placeholderText = "Untitled memory"
)

// NormalizeRaw coerces a structured-endpoint response into canonical form and
// enforces all graph invariants.
func (n *Normalizer) NormalizeRaw(raw RawGraph, activeCategory string) CanonicalGraph {
	candidate := CanonicalGraph{
		Nodes: make([]Node, 0, len(raw.Nodes)),
		Edges: make([]Edge, 0, len(raw.Edges)),
	}

	for _, rn := range raw.Nodes {
		candidate.Nodes = append(candidate.Nodes, Node{
			ID:        coerceString(rn, nodeIDKeys),
			Label:     coerceString(rn, nodeLabelKeys),
			Type:      ParseNodeType(coerceString(rn, nodeTypeKeys)),
			Scope:     coerceString(rn, nodeScopeKeys),
			Timestamp: coerceTimestamp(rn, nodeTimeKeys),
		})
	}

	for _, re := range raw.Edges {
		weight := coerceNumber(re, edgeWeightKeys)
		if weight == 0 {
			weight = 1
		}
		candidate.Edges = append(candidate.Edges, Edge{
			ID:       coerceString(re, edgeIDKeys),
			Source:   coerceString(re, edgeSourceKeys),
			Target:   coerceString(re, edgeTargetKeys),
			Weight:   weight,
			Relation: parseRelation(coerceString(re, edgeKindKeys)),
		})
	}

	return n.Normalize(candidate, activeCategory)
}

// Normalize enforces the structural invariants on an already-typed candidate
// graph: unique node ids (keep-first), defaulted labels/types/scopes, no
// dangling edges, no self-loops, and fallback ids everywhere. Normalizing an
// already-canonical graph returns an equal graph.
func (n *Normalizer) Normalize(candidate CanonicalGraph, activeCategory string) CanonicalGraph {
	out := CanonicalGraph{
		Nodes: make([]Node, 0, len(candidate.Nodes)),
		Edges: make([]Edge, 0, len(candidate.Edges)),
	}

	seen := make(map[string]struct{}, len(candidate.Nodes))
	for i, node := range candidate.Nodes {
		if node.ID == "" {
			node.ID = fmt.Sprintf("node-%d", i)
		}
		if _, dup := seen[node.ID]; dup {
			continue
		}
		seen[node.ID] = struct{}{}

		if node.Label == "" {
			node.Label = placeholderText
		}
		if node.Type == "" {
			node.Type = NodeTypeDefault
		}
		if node.Scope == "" {
			node.Scope = activeCategory
		}
		out.Nodes = append(out.Nodes, node)
	}

	for i, edge := range candidate.Edges {
		if _, ok := seen[edge.Source]; !ok {
			n.logMalformedEdge(edge, "source not in node set")
			continue
		}
		if _, ok := seen[edge.Target]; !ok {
			n.logMalformedEdge(edge, "target not in node set")
			continue
		}
		if edge.Source == edge.Target {
			n.logMalformedEdge(edge, "self loop")
			continue
		}
		if edge.ID == "" {
			edge.ID = fmt.Sprintf("edge-%d", i)
		}
		if edge.Relation == "" {
			edge.Relation = RelationExplicit
		}
		out.Edges = append(out.Edges, edge)
	}

	return out
}

// Malformed edges are a diagnostics concern, never a user-facing one.
func (n *Normalizer) logMalformedEdge(edge Edge, reason string) {
	n.logger.Debug("dropping malformed edge",
		zap.String("edgeID", edge.ID),
		zap.String("source", edge.Source),
		zap.String("target", edge.Target),
		zap.String("reason", reason),
	)
}

func parseRelation(s string) RelationKind {
	switch RelationKind(s) {
	case RelationSameScope, RelationCrossScope:
		return RelationKind(s)
	default:
		return RelationExplicit
	}
}

// coerceString returns the first present key as a string. Numeric ids are
// rendered without a fractional part.
func coerceString(m map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func coerceNumber(m map[string]any, keys []string) float64 {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return v
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f
			}
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func coerceTimestamp(m map[string]any, keys []string) time.Time {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if raw, err := json.Marshal(v); err == nil {
				if t := parseTimestamp(raw); !t.IsZero() {
					return t
				}
			}
		}
	}
	return time.Time{}
}
