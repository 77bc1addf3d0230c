package handlers

import (
	"context"
	"fmt"

	"recall-backend/application/queries"
	"recall-backend/application/queries/bus"
	"recall-backend/application/services"
	"recall-backend/domain/graph"
	apperrors "recall-backend/pkg/errors"

	"go.uber.org/zap"
)

// GetGraphViewHandler produces the laid-out graph for the built-in renderer.
// It is the pipeline's renderGraph entry point: fetch, fallback, normalize,
// layout.
type GetGraphViewHandler struct {
	provider *services.GraphProvider
	layout   *graph.RadialLayout
	logger   *zap.Logger
}

// NewGetGraphViewHandler creates a graph view handler
func NewGetGraphViewHandler(provider *services.GraphProvider, layout *graph.RadialLayout, logger *zap.Logger) *GetGraphViewHandler {
	return &GetGraphViewHandler{
		provider: provider,
		layout:   layout,
		logger:   logger,
	}
}

// Handle executes the graph view query
func (h *GetGraphViewHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetGraphViewQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	g, synthesized, err := h.provider.BuildGraph(ctx, q.UserID, q.Scope)
	if err != nil {
		if apperrors.IsGraphUnavailable(err) {
			// Total unavailability renders as an empty state, never a crash.
			return &queries.GraphViewResult{
				Nodes:       []graph.LaidOutNode{},
				Edges:       []graph.LaidOutEdge{},
				Scope:       q.Scope,
				Unavailable: true,
			}, nil
		}
		return nil, err
	}

	nodes, edges := h.layout.Apply(g, q.Viewport)

	h.logger.Debug("graph view computed",
		zap.String("userID", q.UserID),
		zap.String("category", q.Scope.ActiveCategory),
		zap.Bool("combined", q.Scope.Combined),
		zap.Bool("synthesized", synthesized),
		zap.Int("nodeCount", len(nodes)),
		zap.Int("edgeCount", len(edges)),
	)

	return &queries.GraphViewResult{
		Nodes:       nodes,
		Edges:       edges,
		Stats:       graph.ComputeStats(g),
		Scope:       q.Scope,
		Synthesized: synthesized,
	}, nil
}
