package graph

// ViewScope is the user-selected view over memories: a category (mode) that
// partitions them, and a combined flag that ignores the partition. It is a
// value object; every transition produces a new value instead of mutating
// shared state.
type ViewScope struct {
	Combined       bool   `json:"combined"`
	ActiveCategory string `json:"active_category"`
}

// KnownCategories are the assistant's modes
var KnownCategories = []string{"student", "parent", "job"}

// DefaultCategory is used when no mode is selected
const DefaultCategory = "student"

// NewViewScope builds a scope, falling back to the default category
func NewViewScope(combined bool, category string) ViewScope {
	if category == "" {
		category = DefaultCategory
	}
	return ViewScope{Combined: combined, ActiveCategory: category}
}

// CategoryFilter returns the category to filter fetches by, or "" when the
// combined view ignores the partition
func (s ViewScope) CategoryFilter() string {
	if s.Combined {
		return ""
	}
	return s.ActiveCategory
}

// Matches reports whether a record scope belongs to this view
func (s ViewScope) Matches(scope string) bool {
	return s.Combined || scope == s.ActiveCategory
}
