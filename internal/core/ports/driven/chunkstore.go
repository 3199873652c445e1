package driven

import (
	"context"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

// ChunkStore reads the chunk catalog. The catalog is populated by the
// importer from an upstream chunking run's export and is immutable
// afterwards. All filters are column→value equality predicates ANDed
// together; callers pass the run scope pre-merged with any extras.
type ChunkStore interface {
	// CountChunks returns the exact number of catalog rows matching
	// the filters.
	CountChunks(ctx context.Context, filters domain.Filters) (int, error)

	// CountDistinctSources returns the number of distinct source
	// values among rows matching the filters.
	CountDistinctSources(ctx context.Context, filters domain.Filters) (int, error)

	// PageChunkRefs returns the identifying projection of up to limit
	// rows matching the filters, starting at offset. A short or empty
	// result signals the final page.
	PageChunkRefs(ctx context.Context, filters domain.Filters, offset, limit int) ([]domain.ChunkRef, error)

	// GetChunk retrieves the full row for a chunk uuid under the
	// filters. Returns domain.ErrNotFound when no row matches.
	GetChunk(ctx context.Context, filters domain.Filters, uuid string) (*domain.Chunk, error)

	// GetChunkBySequence retrieves the full row with the given source
	// and chunk number under the filters. Returns domain.ErrNotFound
	// when no row matches.
	GetChunkBySequence(ctx context.Context, filters domain.Filters, source string, number int) (*domain.Chunk, error)

	// ChunkAt retrieves the full row at the given offset within the
	// filtered catalog. Used as the uniform-random fallback. Returns
	// domain.ErrNotFound when the offset is past the end.
	ChunkAt(ctx context.Context, filters domain.Filters, offset int) (*domain.Chunk, error)

	// SaveChunks stores a batch of imported chunks.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error
}
