package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrafusion/chunkgrader/internal/adapters/driven/storage/memory"
	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

func TestBuildCoverageIndex_Grouping(t *testing.T) {
	ctx := context.Background()
	chunkStore := memory.NewChunkStore()
	reviewStore := memory.NewReviewStore()

	require.NoError(t, chunkStore.SaveChunks(ctx, []domain.Chunk{
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"),
		chunk("b0", "docB", 0, "run-1"),
		// Rows missing their source are excluded from grouping but
		// still count as in scope.
		chunk("s0", "", 0, "run-1"),
	}))
	addReview(t, reviewStore, "a0", "Eva")
	addReview(t, reviewStore, "ghost", "Eva")

	idx, err := buildCoverageIndex(ctx, chunkStore, reviewStore, nil)
	require.NoError(t, err)

	assert.Len(t, idx.inScope, 4)
	assert.Len(t, idx.bySource, 2)
	assert.ElementsMatch(t, []string{"a0", "a1"}, idx.bySource["docA"])
	assert.Len(t, idx.reviewed, 1, "reviews of unknown chunks are dropped")
	assert.InDelta(t, 0.5, idx.sourceCoverage("docA"), 1e-9)
	assert.Zero(t, idx.sourceCoverage("docB"))
	assert.Zero(t, idx.sourceCoverage("missing"))
}

func TestBuildCoverageIndex_EmptyScopeShortCircuit(t *testing.T) {
	ctx := context.Background()
	chunkStore := memory.NewChunkStore()
	reviewStore := memory.NewReviewStore()
	addReview(t, reviewStore, "ghost", "Eva")

	idx, err := buildCoverageIndex(ctx, chunkStore, reviewStore, nil)
	require.NoError(t, err)

	assert.Empty(t, idx.inScope)
	assert.Empty(t, idx.reviewed)
	assert.Zero(t, reviewStore.PageCalls, "review log must not be queried for an empty scope")
}

func TestPageAllChunkRefs_SpansPages(t *testing.T) {
	ctx := context.Background()
	chunkStore := memory.NewChunkStore()

	// More rows than two pagination windows
	const total = 2*pageWindow + 137
	chunks := make([]domain.Chunk, 0, total)
	for i := 0; i < total; i++ {
		chunks = append(chunks, chunk("c"+strconv.Itoa(i), "doc", i, "run-1"))
	}
	require.NoError(t, chunkStore.SaveChunks(ctx, chunks))

	refs, err := pageAllChunkRefs(ctx, chunkStore, nil)
	require.NoError(t, err)
	assert.Len(t, refs, total)
}
