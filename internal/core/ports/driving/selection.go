package driving

import (
	"context"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

// SelectionService decides which chunk a reviewer sees next. Selection
// spreads effort across the corpus: documents with low review coverage
// are favoured, and unreviewed chunks are preferred within a document.
// Coverage is recomputed from the store on every call; there is no
// cached sampling state.
type SelectionService interface {
	// RandomChunk picks a chunk from the current run scope, biased
	// toward low-coverage documents and unreviewed chunks. Returns
	// (nil, nil) when the scope is empty.
	RandomChunk(ctx context.Context) (*domain.Chunk, error)

	// SimilarChunk picks a chunk near the given one: usually from the
	// same document while its coverage is low, drifting to other
	// documents as coverage rises. Never returns the anchor chunk
	// itself. Returns (nil, nil) when no candidate exists or the
	// anchor is outside the scope.
	SimilarChunk(ctx context.Context, chunkUUID string) (*domain.Chunk, error)

	// ChunkByUUID retrieves a chunk by identifier under the current
	// scope. Returns (nil, nil) when absent or the id is empty.
	ChunkByUUID(ctx context.Context, chunkUUID string) (*domain.Chunk, error)

	// AdjacentChunk loads the neighbour of a chunk within the same
	// document by sequence number. An invalid direction returns
	// domain.ErrInvalidDirection; an absent neighbour (including prev
	// from chunk 0) returns (nil, nil).
	AdjacentChunk(ctx context.Context, chunkUUID string, direction domain.Direction) (*domain.Chunk, error)

	// CountChunksInDocument returns the scoped chunk count of the
	// document containing the given chunk, or 0 when the chunk is
	// absent or the id is empty.
	CountChunksInDocument(ctx context.Context, chunkUUID string) (int, error)
}
