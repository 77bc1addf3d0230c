package handlers

import (
	"context"
	"fmt"

	"recall-backend/application/queries"
	"recall-backend/application/queries/bus"
	"recall-backend/application/services"
	apperrors "recall-backend/pkg/errors"
)

// GetNodeHandler resolves one node's canonical fields for the detail panel
type GetNodeHandler struct {
	provider *services.GraphProvider
}

// NewGetNodeHandler creates a node lookup handler
func NewGetNodeHandler(provider *services.GraphProvider) *GetNodeHandler {
	return &GetNodeHandler{provider: provider}
}

// Handle executes the node lookup query
func (h *GetNodeHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetNodeQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	g, _, err := h.provider.BuildGraph(ctx, q.UserID, q.Scope)
	if err != nil {
		return nil, err
	}

	node, found := g.FindNode(q.NodeID)
	if !found {
		return nil, apperrors.NewNotFoundError("node")
	}
	return &node, nil
}
