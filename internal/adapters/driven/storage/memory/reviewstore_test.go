package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

func seededReviewStore(t *testing.T) *ReviewStore {
	t.Helper()
	store := NewReviewStore()
	ctx := context.Background()
	for _, review := range []domain.Review{
		{ID: "r1", ChunkUUID: "a0", Name: "Eva"},
		{ID: "r2", ChunkUUID: "a0", Name: "Tomek"},
		{ID: "r3", ChunkUUID: "b0", Name: "Eva"},
	} {
		_, err := store.Insert(ctx, review)
		require.NoError(t, err)
	}
	return store
}

func TestReviewStore_Insert_AssignsInsertedAt(t *testing.T) {
	store := NewReviewStore()

	stored, err := store.Insert(context.Background(), domain.Review{ID: "r1", ChunkUUID: "a0"})
	require.NoError(t, err)
	assert.False(t, stored.InsertedAt.IsZero())
	assert.Equal(t, 1, store.InsertCalls)
}

func TestReviewStore_PageReviewChunkIDs(t *testing.T) {
	store := seededReviewStore(t)
	ctx := context.Background()

	ids, err := store.PageReviewChunkIDs(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a0", "a0", "b0"}, ids, "insertion order, duplicates kept")

	ids, err = store.PageReviewChunkIDs(ctx, nil, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a0"}, ids)
}

func TestReviewStore_PageReviewChunkIDs_FiltersByName(t *testing.T) {
	store := seededReviewStore(t)

	ids, err := store.PageReviewChunkIDs(context.Background(), domain.Filters{"name": "Eva"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a0", "b0"}, ids)
}

func TestReviewStore_ReviewedChunkIDs(t *testing.T) {
	store := seededReviewStore(t)

	ids, err := store.ReviewedChunkIDs(context.Background(), []string{"a0", "b0", "x0"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a0", "b0"}, ids, "distinct, unreviewed ids absent")
}

func TestReviewStore_All_ReturnsCopy(t *testing.T) {
	store := seededReviewStore(t)

	all := store.All()
	require.Len(t, all, 3)
	all[0].Name = "mutated"

	assert.Equal(t, "Eva", store.All()[0].Name)
}
