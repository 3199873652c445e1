package driven

import (
	"context"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

// ReviewStore reads and appends the review log. The log is NOT scoped
// by run at the storage level: rows carry only the chunk uuid, so run
// scoping happens client-side by intersecting with the scope's chunk
// set.
type ReviewStore interface {
	// PageReviewChunkIDs returns the chunk uuid of up to limit review
	// rows starting at offset, optionally restricted by equality
	// filters (e.g. reviewer name). One entry per review row, so a
	// chunk reviewed twice appears twice.
	PageReviewChunkIDs(ctx context.Context, filters domain.Filters, offset, limit int) ([]string, error)

	// ReviewedChunkIDs returns the distinct members of chunkIDs that
	// have at least one review. Callers keep batches within one page
	// window; implementations translate to an in-set filter.
	ReviewedChunkIDs(ctx context.Context, chunkIDs []string) ([]string, error)

	// Insert appends one review and returns the stored row with
	// server-assigned fields (InsertedAt) populated. A nil row with a
	// nil error is never returned; an insert that yields no row is an
	// adapter error.
	Insert(ctx context.Context, review domain.Review) (*domain.Review, error)
}
