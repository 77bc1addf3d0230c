package services

import (
	"context"
	"sync"
	"time"

	"recall-backend/domain/graph"
	apperrors "recall-backend/pkg/errors"
	"recall-backend/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScopeSnapshot is the graph most recently computed for a user's view scope.
// The contained graph is never mutated after construction; a new pipeline run
// always produces a fresh snapshot.
type ScopeSnapshot struct {
	Graph       graph.CanonicalGraph `json:"graph"`
	Scope       graph.ViewScope      `json:"scope"`
	Synthesized bool                 `json:"synthesized"`
	Unavailable bool                 `json:"unavailable"`
	Generation  uint64               `json:"generation"`
	ComputedAt  time.Time            `json:"computed_at"`
}

type scopeState struct {
	scope      graph.ViewScope
	generation uint64
	snapshot   *ScopeSnapshot
}

// ViewScopeController owns each user's {combined, activeCategory} pair and
// triggers one pipeline run per transition. Runs are tagged with the
// generation active at issue time; a completion whose generation has been
// superseded is discarded and never overwrites the held snapshot.
type ViewScopeController struct {
	provider        *GraphProvider
	defaultCategory string
	metrics         *observability.Metrics
	logger          *zap.Logger

	mu     sync.Mutex
	states map[string]*scopeState
}

// NewViewScopeController creates a view scope controller
func NewViewScopeController(provider *GraphProvider, defaultCategory string, metrics *observability.Metrics, logger *zap.Logger) *ViewScopeController {
	if defaultCategory == "" {
		defaultCategory = graph.DefaultCategory
	}
	return &ViewScopeController{
		provider:        provider,
		defaultCategory: defaultCategory,
		metrics:         metrics,
		logger:          logger,
		states:          make(map[string]*scopeState),
	}
}

// Current returns the user's active view scope
func (c *ViewScopeController) Current(userID string) graph.ViewScope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked(userID).scope
}

// Snapshot returns the most recent pipeline result for the user, if any
func (c *ViewScopeController) Snapshot(userID string) (*ScopeSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.stateLocked(userID).snapshot
	return snap, snap != nil
}

// ToggleCombined flips the combined flag and runs the pipeline
func (c *ViewScopeController) ToggleCombined(ctx context.Context, userID string) (*ScopeSnapshot, error) {
	return c.transition(ctx, userID, func(s graph.ViewScope) graph.ViewScope {
		s.Combined = !s.Combined
		return s
	})
}

// SetScope replaces the scope wholesale and runs the pipeline
func (c *ViewScopeController) SetScope(ctx context.Context, userID string, scope graph.ViewScope) (*ScopeSnapshot, error) {
	return c.transition(ctx, userID, func(graph.ViewScope) graph.ViewScope {
		return graph.NewViewScope(scope.Combined, scope.ActiveCategory)
	})
}

// SwitchCategory changes the active category and runs the pipeline
func (c *ViewScopeController) SwitchCategory(ctx context.Context, userID, category string) (*ScopeSnapshot, error) {
	return c.transition(ctx, userID, func(s graph.ViewScope) graph.ViewScope {
		return graph.NewViewScope(s.Combined, category)
	})
}

// Refresh re-runs the pipeline without changing the scope
func (c *ViewScopeController) Refresh(ctx context.Context, userID string) (*ScopeSnapshot, error) {
	return c.transition(ctx, userID, func(s graph.ViewScope) graph.ViewScope {
		return s
	})
}

// transition applies a scope change, bumps the generation, and runs exactly
// one pipeline pass for it. No transition is rejected; rapid toggling simply
// issues more runs, and only the newest generation may publish its result.
func (c *ViewScopeController) transition(ctx context.Context, userID string, apply func(graph.ViewScope) graph.ViewScope) (*ScopeSnapshot, error) {
	c.mu.Lock()
	st := c.stateLocked(userID)
	st.scope = apply(st.scope)
	st.generation++
	gen := st.generation
	scope := st.scope
	c.mu.Unlock()

	runID := uuid.New().String()
	c.logger.Debug("pipeline run issued",
		zap.String("runID", runID),
		zap.String("userID", userID),
		zap.String("category", scope.ActiveCategory),
		zap.Bool("combined", scope.Combined),
		zap.Uint64("generation", gen),
	)

	g, synthesized, err := c.provider.BuildGraph(ctx, userID, scope)
	unavailable := false
	if err != nil {
		if !apperrors.IsGraphUnavailable(err) {
			return nil, err
		}
		unavailable = true
		g = graph.CanonicalGraph{Nodes: []graph.Node{}, Edges: []graph.Edge{}}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if st.generation != gen {
		// A later transition superseded this run while it was in flight.
		c.metrics.StaleDiscarded()
		c.logger.Debug("discarding stale pipeline completion",
			zap.String("runID", runID),
			zap.String("userID", userID),
			zap.Uint64("completedGeneration", gen),
			zap.Uint64("currentGeneration", st.generation),
		)
		if st.snapshot == nil {
			// Superseded before anything was ever published for this user.
			// Hand back an empty placeholder; the newest run will publish.
			return &ScopeSnapshot{
				Graph:      graph.CanonicalGraph{Nodes: []graph.Node{}, Edges: []graph.Edge{}},
				Scope:      st.scope,
				Generation: st.generation,
				ComputedAt: time.Now(),
			}, nil
		}
		return st.snapshot, nil
	}

	st.snapshot = &ScopeSnapshot{
		Graph:       g,
		Scope:       scope,
		Synthesized: synthesized,
		Unavailable: unavailable,
		Generation:  gen,
		ComputedAt:  time.Now(),
	}
	return st.snapshot, nil
}

func (c *ViewScopeController) stateLocked(userID string) *scopeState {
	st, ok := c.states[userID]
	if !ok {
		st = &scopeState{scope: graph.NewViewScope(false, c.defaultCategory)}
		c.states[userID] = st
	}
	return st
}
