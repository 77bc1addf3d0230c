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

// DocumentAdapter converts a canonical graph into the document/entry shape
type DocumentAdapter interface {
	Adapt(g graph.CanonicalGraph) ([]graph.AdaptedDocument, error)
}

// GetAdaptedDocumentsHandler produces the external visualization component's
// document/entry shape. The adaptation pass runs inside a recover boundary:
// a fault here becomes a retryable error payload, never a crash.
type GetAdaptedDocumentsHandler struct {
	provider *services.GraphProvider
	adapter  DocumentAdapter
	logger   *zap.Logger
}

// NewGetAdaptedDocumentsHandler creates an adapted documents handler
func NewGetAdaptedDocumentsHandler(provider *services.GraphProvider, adapter DocumentAdapter, logger *zap.Logger) *GetAdaptedDocumentsHandler {
	return &GetAdaptedDocumentsHandler{
		provider: provider,
		adapter:  adapter,
		logger:   logger,
	}
}

// Handle executes the adapted documents query
func (h *GetAdaptedDocumentsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetAdaptedDocumentsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	g, _, err := h.provider.BuildGraph(ctx, q.UserID, q.Scope)
	if err != nil {
		return nil, err
	}

	docs, err := h.adaptContained(g)
	if err != nil {
		return nil, err
	}

	return &queries.AdaptedDocumentsResult{
		Documents: docs,
		Scope:     q.Scope,
	}, nil
}

// adaptContained converts adapter panics into a RendererFault and the
// zero-node case into a distinct NoData error.
func (h *GetAdaptedDocumentsHandler) adaptContained(g graph.CanonicalGraph) (docs []graph.AdaptedDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("shape adaptation panicked", zap.Any("panic", r))
			docs = nil
			err = apperrors.NewRendererFaultError(fmt.Errorf("adapter panic: %v", r))
		}
	}()

	docs, adaptErr := h.adapter.Adapt(g)
	if adaptErr != nil {
		if adaptErr == graph.ErrNoData {
			return nil, apperrors.NewNoDataError()
		}
		return nil, apperrors.NewRendererFaultError(adaptErr)
	}
	return docs, nil
}
