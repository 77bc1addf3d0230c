package graph

import (
	"math"
)

// Viewport is the render surface size, owned by the hosting UI
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeShape is a rendering-time classification derived from the node type
type NodeShape string

const (
	ShapeCircle        NodeShape = "circle"
	ShapeRoundedSquare NodeShape = "rounded-square"
	ShapeDiamond       NodeShape = "diamond"
)

// LaidOutNode is a node with assigned coordinates. Ephemeral; recomputed on
// every layout pass and never persisted.
type LaidOutNode struct {
	Node
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Shape NodeShape `json:"shape"`
}

// LaidOutEdge is an edge resolved to its endpoint coordinates
type LaidOutEdge struct {
	Edge
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

const (
	layoutMargin  = 60.0
	minimumRadius = 80.0
)

// RadialLayout places nodes evenly around a circle centered in the viewport.
// A pure function of (graph, viewport): identical inputs yield identical
// coordinates.
type RadialLayout struct{}

// NewRadialLayout creates a layout engine
func NewRadialLayout() *RadialLayout {
	return &RadialLayout{}
}

// Apply computes positions for every node and resolves edge endpoints. Edges
// whose endpoints are missing from the laid-out set should not exist after
// normalization; they are skipped rather than trusted.
func (l *RadialLayout) Apply(g CanonicalGraph, vp Viewport) ([]LaidOutNode, []LaidOutEdge) {
	n := len(g.Nodes)
	if n == 0 {
		return []LaidOutNode{}, []LaidOutEdge{}
	}

	cx := vp.Width / 2
	cy := vp.Height / 2
	r := math.Max(math.Min(vp.Width, vp.Height)/2-layoutMargin, minimumRadius)

	placed := make([]LaidOutNode, 0, n)
	byID := make(map[string]LaidOutNode, n)
	for idx, node := range g.Nodes {
		theta := float64(idx) / float64(n) * 2 * math.Pi
		laid := LaidOutNode{
			Node:  node,
			X:     cx + r*math.Cos(theta),
			Y:     cy + r*math.Sin(theta),
			Shape: shapeFor(node.Type),
		}
		placed = append(placed, laid)
		byID[node.ID] = laid
	}

	edges := make([]LaidOutEdge, 0, len(g.Edges))
	for _, edge := range g.Edges {
		src, okSrc := byID[edge.Source]
		dst, okDst := byID[edge.Target]
		if !okSrc || !okDst {
			continue
		}
		edges = append(edges, LaidOutEdge{
			Edge: edge,
			X1:   src.X, Y1: src.Y,
			X2: dst.X, Y2: dst.Y,
		})
	}

	return placed, edges
}

func shapeFor(t NodeType) NodeShape {
	switch t {
	case NodeTypeDocument:
		return ShapeRoundedSquare
	case NodeTypeUser:
		return ShapeDiamond
	default:
		return ShapeCircle
	}
}
