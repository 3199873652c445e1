package driving

import "context"

// Stats is a snapshot of corpus-wide review progress under the current
// run scope.
type Stats struct {
	// TotalChunks is the scoped chunk-catalog row count.
	TotalChunks int

	// TotalDocuments is the scoped distinct source count.
	TotalDocuments int

	// TotalReviews counts review rows whose chunk belongs to the scope.
	TotalReviews int

	// ReviewedChunks counts scoped chunks with at least one review.
	ReviewedChunks int

	// ReviewedDocuments counts scoped documents with at least one
	// reviewed chunk.
	ReviewedDocuments int
}

// StatsService exposes read-only aggregate queries. Everything touching
// the chunk catalog is scoped to the current run; review rows are
// intersected with the scope's chunk set client-side.
type StatsService interface {
	// Overview computes the corpus-wide counters in one call.
	Overview(ctx context.Context) (*Stats, error)

	// TotalChunks returns the scoped chunk count.
	TotalChunks(ctx context.Context) (int, error)

	// TotalDocuments returns the scoped distinct source count.
	TotalDocuments(ctx context.Context) (int, error)

	// TotalReviews counts review rows for scoped chunks.
	TotalReviews(ctx context.Context) (int, error)

	// ChunksWithAtLeastOneReview counts scoped chunks having reviews.
	ChunksWithAtLeastOneReview(ctx context.Context) (int, error)

	// DocumentsWithAtLeastOneReview counts scoped documents having at
	// least one reviewed chunk.
	DocumentsWithAtLeastOneReview(ctx context.Context) (int, error)

	// ReviewedChunksInDocument counts distinct reviewed chunks in the
	// document containing the given chunk, or 0 when the chunk is
	// absent or the id is empty.
	ReviewedChunksInDocument(ctx context.Context, chunkUUID string) (int, error)

	// TotalReviewsByUser counts review rows by reviewer name for
	// scoped chunks, or 0 for an empty name.
	TotalReviewsByUser(ctx context.Context, name string) (int, error)
}
