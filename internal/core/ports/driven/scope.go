package driven

import "github.com/terrafusion/chunkgrader/internal/core/domain"

// ScopeProvider supplies the run scope: the filters applied to every
// chunk-catalog query. Services consult it once at the start of each
// logical operation, never caching across operations, so an operator
// change takes effect on the next call.
type ScopeProvider interface {
	// RunScope returns the current scope, or an empty/nil Filters when
	// unscoped.
	RunScope() domain.Filters
}

// ScopeFunc adapts a plain function to ScopeProvider.
type ScopeFunc func() domain.Filters

// RunScope returns f().
func (f ScopeFunc) RunScope() domain.Filters {
	return f()
}
