package file

import (
	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
)

// scopeKeyPrefix is the config table holding the run scope. Each key
// under it is a catalog column and its value the required equality,
// e.g.:
//
//	[review.scope]
//	chunking_run_id = "run-2024-11"
const scopeKeyPrefix = "review.scope"

// Ensure ScopeProvider implements the interface.
var _ driven.ScopeProvider = (*ScopeProvider)(nil)

// ScopeProvider reads the run scope from a config store. The scope is
// read fresh on every call, so a config edit (picked up by Watch or an
// explicit Load) applies to the next operation without a restart.
type ScopeProvider struct {
	config *ConfigStore
}

// NewScopeProvider creates a scope provider backed by the given config store.
func NewScopeProvider(config *ConfigStore) *ScopeProvider {
	return &ScopeProvider{config: config}
}

// RunScope returns the configured scope, or nil when unscoped.
func (p *ScopeProvider) RunScope() domain.Filters {
	values := p.config.StringsWithPrefix(scopeKeyPrefix)
	if len(values) == 0 {
		return nil
	}

	scope := make(domain.Filters, len(values))
	for column, value := range values {
		if value == "" {
			continue
		}
		scope[column] = value
	}
	if len(scope) == 0 {
		return nil
	}
	return scope
}
