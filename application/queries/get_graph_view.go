package queries

import (
	"errors"

	"recall-backend/domain/graph"
)

// GetGraphViewQuery asks for the laid-out memory graph for one view scope
type GetGraphViewQuery struct {
	UserID   string          `json:"user_id"`
	Scope    graph.ViewScope `json:"scope"`
	Viewport graph.Viewport  `json:"viewport"`
}

// Validate validates the query
func (q GetGraphViewQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("userID is required")
	}
	if q.Viewport.Width <= 0 || q.Viewport.Height <= 0 {
		return errors.New("viewport must have positive dimensions")
	}
	return nil
}

// GraphViewResult is the renderable graph handed to the built-in renderer
type GraphViewResult struct {
	Nodes       []graph.LaidOutNode `json:"nodes"`
	Edges       []graph.LaidOutEdge `json:"edges"`
	Stats       graph.Stats         `json:"stats"`
	Scope       graph.ViewScope     `json:"scope"`
	Synthesized bool                `json:"synthesized"`
	Unavailable bool                `json:"unavailable"`
}

// GetAdaptedDocumentsQuery asks for the external visualization component's
// nested document/entry shape
type GetAdaptedDocumentsQuery struct {
	UserID string          `json:"user_id"`
	Scope  graph.ViewScope `json:"scope"`
}

// Validate validates the query
func (q GetAdaptedDocumentsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("userID is required")
	}
	return nil
}

// AdaptedDocumentsResult wraps the adapter output
type AdaptedDocumentsResult struct {
	Documents []graph.AdaptedDocument `json:"documents"`
	Scope     graph.ViewScope         `json:"scope"`
}

// GetNodeQuery asks for one node's canonical fields (detail panel)
type GetNodeQuery struct {
	UserID string          `json:"user_id"`
	Scope  graph.ViewScope `json:"scope"`
	NodeID string          `json:"node_id"`
}

// Validate validates the query
func (q GetNodeQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("userID is required")
	}
	if q.NodeID == "" {
		return errors.New("nodeID is required")
	}
	return nil
}
