package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrafusion/chunkgrader/internal/adapters/driven/storage/memory"
	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
)

// staticScope returns a fixed run scope for tests.
func staticScope(filters domain.Filters) driven.ScopeProvider {
	return driven.ScopeFunc(func() domain.Filters { return filters })
}

func chunk(uuid, source string, number int, run string) domain.Chunk {
	return domain.Chunk{
		UUID:          uuid,
		Source:        source,
		ChunkNumber:   number,
		ChunkingRunID: run,
		Text:          "text of " + uuid,
	}
}

// newSelectionFixture seeds a chunk store and wires a selection service
// with a deterministic rng.
func newSelectionFixture(t *testing.T, scope domain.Filters, chunks ...domain.Chunk) (*SelectionService, *memory.ChunkStore, *memory.ReviewStore) {
	t.Helper()
	chunkStore := memory.NewChunkStore()
	reviewStore := memory.NewReviewStore()
	if len(chunks) > 0 {
		require.NoError(t, chunkStore.SaveChunks(context.Background(), chunks))
	}
	svc := NewSelectionService(chunkStore, reviewStore, staticScope(scope))
	svc.rng = rand.New(rand.NewSource(7))
	return svc, chunkStore, reviewStore
}

func addReview(t *testing.T, store *memory.ReviewStore, chunkUUID, name string) {
	t.Helper()
	_, err := store.Insert(context.Background(), domain.Review{ChunkUUID: chunkUUID, Name: name})
	require.NoError(t, err)
}

func TestRandomChunk_EmptyScope(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil)

	got, err := svc.RandomChunk(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRandomChunk_ScopeMatchesNothing(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, domain.Filters{"chunking_run_id": "run-2"},
		chunk("a0", "docA", 0, "run-1"))

	got, err := svc.RandomChunk(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRandomChunk_ReturnsFullRow(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"))

	got, err := svc.RandomChunk(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a0", got.UUID)
	assert.Equal(t, "text of a0", got.Text)
}

func TestRandomChunk_PrefersUnreviewedWithinSource(t *testing.T) {
	svc, _, reviews := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"),
		chunk("a2", "docA", 2, "run-1"))
	addReview(t, reviews, "a0", "Eva")
	addReview(t, reviews, "a1", "Eva")

	// Single source, one unreviewed chunk: it must always win.
	for i := 0; i < 50; i++ {
		got, err := svc.RandomChunk(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "a2", got.UUID)
	}
}

func TestRandomChunk_FullyReviewedSourceStillRotates(t *testing.T) {
	svc, _, reviews := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"))
	addReview(t, reviews, "a0", "Eva")
	addReview(t, reviews, "a1", "Eva")

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		got, err := svc.RandomChunk(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		seen[got.UUID] = true
	}
	assert.True(t, seen["a0"] && seen["a1"], "uniform fallback must rotate chunks, saw %v", seen)
}

func TestRandomChunk_RespectsRunScope(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, domain.Filters{"chunking_run_id": "run-1"},
		chunk("a0", "docA", 0, "run-1"),
		chunk("x0", "docX", 0, "run-2"))

	for i := 0; i < 50; i++ {
		got, err := svc.RandomChunk(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "a0", got.UUID)
	}
}

func TestSimilarChunk_EmptyID(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil, chunk("a0", "docA", 0, "run-1"))

	got, err := svc.SimilarChunk(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSimilarChunk_UnknownAnchor(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil, chunk("a0", "docA", 0, "run-1"))

	got, err := svc.SimilarChunk(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSimilarChunk_NeverReturnsAnchor(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"),
		chunk("b0", "docB", 0, "run-1"))

	for i := 0; i < 200; i++ {
		got, err := svc.SimilarChunk(context.Background(), "a0")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.NotEqual(t, "a0", got.UUID)
	}
}

func TestSimilarChunk_AnchorIsOnlyChunkAnywhere(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil, chunk("a0", "docA", 0, "run-1"))

	got, err := svc.SimilarChunk(context.Background(), "a0")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSimilarChunk_OnlyCurrentDocumentAvailable(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"))

	for i := 0; i < 50; i++ {
		got, err := svc.SimilarChunk(context.Background(), "a0")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "a1", got.UUID)
	}
}

func TestSimilarChunk_FullCoverageMostlyMovesOn(t *testing.T) {
	// docA fully reviewed: p_same ≈ 0.05, so staying on docA should be
	// rare but never zero over enough trials.
	svc, _, reviews := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"),
		chunk("b0", "docB", 0, "run-1"),
		chunk("b1", "docB", 1, "run-1"))
	addReview(t, reviews, "a0", "Eva")
	addReview(t, reviews, "a1", "Eva")

	const trials = 5000
	sameDoc := 0
	for i := 0; i < trials; i++ {
		got, err := svc.SimilarChunk(context.Background(), "a0")
		require.NoError(t, err)
		require.NotNil(t, got)
		if got.Source == "docA" {
			sameDoc++
		}
	}

	frequency := float64(sameDoc) / trials
	assert.InDelta(t, 0.05, frequency, 0.02, "same-document frequency %f", frequency)
}

func TestSimilarChunk_ZeroCoverageMostlyStays(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"),
		chunk("b0", "docB", 0, "run-1"))

	const trials = 5000
	sameDoc := 0
	for i := 0; i < trials; i++ {
		got, err := svc.SimilarChunk(context.Background(), "a0")
		require.NoError(t, err)
		require.NotNil(t, got)
		if got.Source == "docA" {
			sameDoc++
		}
	}

	frequency := float64(sameDoc) / trials
	assert.InDelta(t, 0.95, frequency, 0.02, "same-document frequency %f", frequency)
}

func TestChunkByUUID(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, domain.Filters{"chunking_run_id": "run-1"},
		chunk("a0", "docA", 0, "run-1"),
		chunk("x0", "docX", 0, "run-2"))

	got, err := svc.ChunkByUUID(context.Background(), "a0")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "docA", got.Source)

	// Outside scope behaves as absent
	got, err = svc.ChunkByUUID(context.Background(), "x0")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.ChunkByUUID(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAdjacentChunk_NextAndPrev(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"),
		chunk("a2", "docA", 2, "run-1"))

	got, err := svc.AdjacentChunk(context.Background(), "a1", domain.DirectionNext)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a2", got.UUID)

	got, err = svc.AdjacentChunk(context.Background(), "a1", domain.DirectionPrev)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a0", got.UUID)

	// No chunk_number 3 exists
	got, err = svc.AdjacentChunk(context.Background(), "a2", domain.DirectionNext)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAdjacentChunk_PrevFromZeroIsNotFound(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"))

	got, err := svc.AdjacentChunk(context.Background(), "a0", domain.DirectionPrev)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAdjacentChunk_InvalidDirection(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil, chunk("a0", "docA", 0, "run-1"))

	got, err := svc.AdjacentChunk(context.Background(), "a0", domain.Direction("bogus"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
	assert.Nil(t, got)
}

func TestAdjacentChunk_CrossDocumentBoundary(t *testing.T) {
	// Adjacent lookups never leak into another document even when the
	// target number exists there.
	svc, _, _ := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("b0", "docB", 0, "run-1"),
		chunk("b1", "docB", 1, "run-1"))

	got, err := svc.AdjacentChunk(context.Background(), "a0", domain.DirectionNext)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCountChunksInDocument(t *testing.T) {
	svc, _, _ := newSelectionFixture(t, nil,
		chunk("a0", "docA", 0, "run-1"),
		chunk("a1", "docA", 1, "run-1"),
		chunk("b0", "docB", 0, "run-1"))

	count, err := svc.CountChunksInDocument(context.Background(), "a0")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.CountChunksInDocument(context.Background(), "missing")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = svc.CountChunksInDocument(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, count)
}
