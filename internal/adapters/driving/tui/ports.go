// Package tui provides the interactive chunk-review session for
// chunkgrader. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/terrafusion/chunkgrader/internal/core/ports/driving"
	"github.com/terrafusion/chunkgrader/internal/links"
)

// Ports aggregates the driving port interfaces required by the review
// session. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Selection decides which chunk a reviewer sees next.
	Selection driving.SelectionService

	// Review records submitted reviews.
	Review driving.ReviewService

	// Stats supplies coverage counters for the header.
	Stats driving.StatsService

	// Links renders document share links. Optional.
	Links *links.Map
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Selection == nil {
		return ErrMissingSelectionService
	}
	if p.Review == nil {
		return ErrMissingReviewService
	}
	return nil
}
