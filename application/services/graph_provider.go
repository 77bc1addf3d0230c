package services

import (
	"context"
	"time"

	"recall-backend/application/ports"
	"recall-backend/domain/graph"
	apperrors "recall-backend/pkg/errors"
	"recall-backend/pkg/observability"

	"go.uber.org/zap"
)

// GraphProvider orchestrates fetch-with-fallback across the memory store's
// two endpoints and produces a canonical graph. No side effects beyond the
// network reads; every call returns a fresh graph value.
type GraphProvider struct {
	source      ports.MemorySource
	normalizer  *graph.Normalizer
	synthesizer *graph.Synthesizer
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewGraphProvider creates a graph provider
func NewGraphProvider(
	source ports.MemorySource,
	normalizer *graph.Normalizer,
	synthesizer *graph.Synthesizer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *GraphProvider {
	return &GraphProvider{
		source:      source,
		normalizer:  normalizer,
		synthesizer: synthesizer,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// BuildGraph runs the fallback chain for the given scope. The second return
// value reports whether edges were synthesized from the flat memory list
// rather than fetched from the structured endpoint. Both endpoints failing
// yields a GraphUnavailable error; no other condition is an error.
func (p *GraphProvider) BuildGraph(ctx context.Context, userID string, scope graph.ViewScope) (graph.CanonicalGraph, bool, error) {
	raw, graphErr := p.source.FetchGraph(ctx, userID, scope.CategoryFilter())
	if graphErr == nil && raw.Nodes != nil && raw.Edges != nil {
		p.metrics.PipelineRun(observability.PathStructured)
		return p.normalizer.NormalizeRaw(raw, scope.ActiveCategory), false, nil
	}
	if graphErr != nil {
		p.logger.Warn("structured graph endpoint failed, falling back to memory list",
			zap.String("userID", userID),
			zap.Error(graphErr),
		)
	}

	records, listErr := p.source.FetchMemories(ctx, userID, scope.CategoryFilter())
	if listErr != nil {
		p.metrics.PipelineRun(observability.PathUnavailable)
		p.logger.Error("both memory store endpoints failed",
			zap.String("userID", userID),
			zap.NamedError("graphError", graphErr),
			zap.NamedError("listError", listErr),
		)
		return graph.CanonicalGraph{}, false, apperrors.NewGraphUnavailableError(listErr)
	}

	nodes := p.nodesFromRecords(records, scope)
	edges := p.synthesizer.Synthesize(nodes, scope.Combined)
	candidate := graph.CanonicalGraph{Nodes: nodes, Edges: edges}

	p.metrics.PipelineRun(observability.PathSynthesized)
	return p.normalizer.Normalize(candidate, scope.ActiveCategory), true, nil
}

// nodesFromRecords converts records to nodes, dropping expired memories and,
// in the separate view, records tagged for another category. Untagged records
// belong to the active view.
func (p *GraphProvider) nodesFromRecords(records []graph.MemoryRecord, scope graph.ViewScope) []graph.Node {
	now := p.now()
	nodes := make([]graph.Node, 0, len(records))
	for _, rec := range records {
		if rec.IsExpired(now) {
			continue
		}
		if rec.Metadata.Mode != "" && !scope.Matches(rec.Metadata.Mode) {
			continue
		}
		nodes = append(nodes, graph.NodeFromMemory(rec, scope.ActiveCategory))
	}
	return nodes
}
