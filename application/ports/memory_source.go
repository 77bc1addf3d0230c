package ports

import (
	"context"

	"recall-backend/domain/graph"
)

// MemorySource is the read interface of the external long-term memory store.
// Two endpoints: a structured graph and a flat memory list. Both may fail or
// return partial shapes; the provider owns the fallback chain between them.
type MemorySource interface {
	// FetchGraph calls the structured graph endpoint. An empty scope omits
	// the scope filter (combined view).
	FetchGraph(ctx context.Context, userID, scope string) (graph.RawGraph, error)

	// FetchMemories calls the flat memory-list endpoint. An empty mode omits
	// the mode filter.
	FetchMemories(ctx context.Context, userID, mode string) ([]graph.MemoryRecord, error)
}
