package handlers

import (
	"context"
	"errors"
	"testing"

	"recall-backend/application/queries"
	"recall-backend/application/services"
	"recall-backend/domain/graph"
	apperrors "recall-backend/pkg/errors"
	"recall-backend/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMemorySource struct {
	graphFn    func(ctx context.Context, userID, scope string) (graph.RawGraph, error)
	memoriesFn func(ctx context.Context, userID, mode string) ([]graph.MemoryRecord, error)
}

func (f *fakeMemorySource) FetchGraph(ctx context.Context, userID, scope string) (graph.RawGraph, error) {
	return f.graphFn(ctx, userID, scope)
}

func (f *fakeMemorySource) FetchMemories(ctx context.Context, userID, mode string) ([]graph.MemoryRecord, error) {
	return f.memoriesFn(ctx, userID, mode)
}

func newTestProvider(source *fakeMemorySource) *services.GraphProvider {
	logger := zap.NewNop()
	return services.NewGraphProvider(
		source,
		graph.NewNormalizer(logger),
		graph.NewSynthesizer(),
		observability.NewNopMetrics(),
		logger,
	)
}

func structuredSource(raw graph.RawGraph) *fakeMemorySource {
	return &fakeMemorySource{
		graphFn: func(context.Context, string, string) (graph.RawGraph, error) {
			return raw, nil
		},
		memoriesFn: func(context.Context, string, string) ([]graph.MemoryRecord, error) {
			return nil, errors.New("should not be called")
		},
	}
}

func unavailableSource() *fakeMemorySource {
	return &fakeMemorySource{
		graphFn: func(context.Context, string, string) (graph.RawGraph, error) {
			return graph.RawGraph{}, errors.New("graph endpoint down")
		},
		memoriesFn: func(context.Context, string, string) ([]graph.MemoryRecord, error) {
			return nil, errors.New("list endpoint down")
		},
	}
}

func twoNodeRaw() graph.RawGraph {
	return graph.RawGraph{
		Nodes: []graph.RawNode{
			{"id": "a", "label": "First memory", "scope": "student"},
			{"id": "b", "label": "Second memory", "scope": "student"},
		},
		Edges: []graph.RawEdge{
			{"id": "e1", "from": "a", "to": "b", "weight": float64(2)},
		},
	}
}

func TestGetGraphViewHandler_LaysOutStructuredGraph(t *testing.T) {
	// Arrange
	handler := NewGetGraphViewHandler(
		newTestProvider(structuredSource(twoNodeRaw())),
		graph.NewRadialLayout(),
		zap.NewNop(),
	)
	query := queries.GetGraphViewQuery{
		UserID:   "user-123",
		Scope:    graph.NewViewScope(false, "student"),
		Viewport: graph.Viewport{Width: 800, Height: 600},
	}

	// Act
	result, err := handler.Handle(context.Background(), query)

	// Assert
	require.NoError(t, err)
	view, ok := result.(*queries.GraphViewResult)
	require.True(t, ok)
	assert.Len(t, view.Nodes, 2)
	assert.Len(t, view.Edges, 1)
	assert.False(t, view.Synthesized)
	assert.False(t, view.Unavailable)
	assert.Equal(t, 2, view.Stats.NodeCount)
	for _, n := range view.Nodes {
		assert.GreaterOrEqual(t, n.X, 0.0)
		assert.LessOrEqual(t, n.X, 800.0)
		assert.GreaterOrEqual(t, n.Y, 0.0)
		assert.LessOrEqual(t, n.Y, 600.0)
	}
}

func TestGetGraphViewHandler_UnavailableStoreYieldsEmptyState(t *testing.T) {
	// Arrange
	handler := NewGetGraphViewHandler(
		newTestProvider(unavailableSource()),
		graph.NewRadialLayout(),
		zap.NewNop(),
	)
	query := queries.GetGraphViewQuery{
		UserID:   "user-123",
		Scope:    graph.NewViewScope(false, "student"),
		Viewport: graph.Viewport{Width: 800, Height: 600},
	}

	// Act
	result, err := handler.Handle(context.Background(), query)

	// Assert
	require.NoError(t, err)
	view, ok := result.(*queries.GraphViewResult)
	require.True(t, ok)
	assert.True(t, view.Unavailable)
	assert.Empty(t, view.Nodes)
	assert.Empty(t, view.Edges)
}

func TestGetGraphViewHandler_RejectsUnexpectedQueryType(t *testing.T) {
	handler := NewGetGraphViewHandler(
		newTestProvider(structuredSource(twoNodeRaw())),
		graph.NewRadialLayout(),
		zap.NewNop(),
	)

	_, err := handler.Handle(context.Background(), queries.GetNodeQuery{})

	assert.Error(t, err)
}

func TestGetAdaptedDocumentsHandler_ProducesDocuments(t *testing.T) {
	// Arrange
	handler := NewGetAdaptedDocumentsHandler(
		newTestProvider(structuredSource(twoNodeRaw())),
		graph.NewShapeAdapter(),
		zap.NewNop(),
	)
	query := queries.GetAdaptedDocumentsQuery{
		UserID: "user-123",
		Scope:  graph.NewViewScope(false, "student"),
	}

	// Act
	result, err := handler.Handle(context.Background(), query)

	// Assert
	require.NoError(t, err)
	docs, ok := result.(*queries.AdaptedDocumentsResult)
	require.True(t, ok)
	assert.Len(t, docs.Documents, 2)
	for _, doc := range docs.Documents {
		assert.NotEmpty(t, doc.MemoryEntries)
	}
}

func TestGetAdaptedDocumentsHandler_EmptyGraphIsNoData(t *testing.T) {
	// Arrange
	empty := graph.RawGraph{Nodes: []graph.RawNode{}, Edges: []graph.RawEdge{}}
	handler := NewGetAdaptedDocumentsHandler(
		newTestProvider(structuredSource(empty)),
		graph.NewShapeAdapter(),
		zap.NewNop(),
	)
	query := queries.GetAdaptedDocumentsQuery{
		UserID: "user-123",
		Scope:  graph.NewViewScope(false, "student"),
	}

	// Act
	_, err := handler.Handle(context.Background(), query)

	// Assert
	require.Error(t, err)
	assert.True(t, apperrors.IsNoData(err))
	assert.False(t, apperrors.IsRendererFault(err))
}

type panickingAdapter struct{}

func (panickingAdapter) Adapt(graph.CanonicalGraph) ([]graph.AdaptedDocument, error) {
	panic("renderer blew up")
}

func TestGetAdaptedDocumentsHandler_PanicBecomesRendererFault(t *testing.T) {
	// Arrange
	handler := NewGetAdaptedDocumentsHandler(
		newTestProvider(structuredSource(twoNodeRaw())),
		panickingAdapter{},
		zap.NewNop(),
	)
	query := queries.GetAdaptedDocumentsQuery{
		UserID: "user-123",
		Scope:  graph.NewViewScope(false, "student"),
	}

	// Act
	result, err := handler.Handle(context.Background(), query)

	// Assert
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsRendererFault(err))
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.True(t, appErr.Retryable)
}

func TestGetNodeHandler_FindsNodeByID(t *testing.T) {
	// Arrange
	handler := NewGetNodeHandler(newTestProvider(structuredSource(twoNodeRaw())))
	query := queries.GetNodeQuery{
		UserID: "user-123",
		Scope:  graph.NewViewScope(false, "student"),
		NodeID: "b",
	}

	// Act
	result, err := handler.Handle(context.Background(), query)

	// Assert
	require.NoError(t, err)
	node, ok := result.(*graph.Node)
	require.True(t, ok)
	assert.Equal(t, "b", node.ID)
	assert.Equal(t, "Second memory", node.Label)
}

func TestGetNodeHandler_MissingNodeIsNotFound(t *testing.T) {
	// Arrange
	handler := NewGetNodeHandler(newTestProvider(structuredSource(twoNodeRaw())))
	query := queries.GetNodeQuery{
		UserID: "user-123",
		Scope:  graph.NewViewScope(false, "student"),
		NodeID: "missing",
	}

	// Act
	_, err := handler.Handle(context.Background(), query)

	// Assert
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}
