package services

import (
	"context"
	"fmt"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService computes read-only aggregates. Chunk-catalog queries are
// scoped to the current run; review rows are intersected with the
// scope's chunk set client-side, since the review log carries no run
// column.
type StatsService struct {
	chunks  driven.ChunkStore
	reviews driven.ReviewStore
	scope   driven.ScopeProvider
}

// NewStatsService creates a new stats service.
func NewStatsService(
	chunks driven.ChunkStore,
	reviews driven.ReviewStore,
	scope driven.ScopeProvider,
) *StatsService {
	return &StatsService{
		chunks:  chunks,
		reviews: reviews,
		scope:   scope,
	}
}

// runScope reads the scope provider once for one logical operation.
func (s *StatsService) runScope() domain.Filters {
	if s.scope == nil {
		return nil
	}
	return s.scope.RunScope()
}

// Overview computes the corpus-wide counters in one call.
func (s *StatsService) Overview(ctx context.Context) (*driving.Stats, error) {
	scope := s.runScope()

	totalChunks, err := s.chunks.CountChunks(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("counting chunks: %w", err)
	}
	totalDocuments, err := s.chunks.CountDistinctSources(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	idx, err := buildCoverageIndex(ctx, s.chunks, s.reviews, scope)
	if err != nil {
		return nil, err
	}

	totalReviews, err := s.countScopedReviews(ctx, idx, nil)
	if err != nil {
		return nil, err
	}

	reviewedSources := make(map[string]struct{})
	for _, ref := range idx.refs {
		if ref.Source == "" {
			continue
		}
		if _, ok := idx.reviewed[ref.UUID]; ok {
			reviewedSources[ref.Source] = struct{}{}
		}
	}

	return &driving.Stats{
		TotalChunks:       totalChunks,
		TotalDocuments:    totalDocuments,
		TotalReviews:      totalReviews,
		ReviewedChunks:    len(idx.reviewed),
		ReviewedDocuments: len(reviewedSources),
	}, nil
}

// TotalChunks returns the scoped chunk-catalog row count.
func (s *StatsService) TotalChunks(ctx context.Context) (int, error) {
	return s.chunks.CountChunks(ctx, s.runScope())
}

// TotalDocuments returns the scoped distinct source count.
func (s *StatsService) TotalDocuments(ctx context.Context) (int, error) {
	return s.chunks.CountDistinctSources(ctx, s.runScope())
}

// TotalReviews counts review rows whose chunk belongs to the current
// scope. A chunk reviewed twice counts twice.
func (s *StatsService) TotalReviews(ctx context.Context) (int, error) {
	idx, err := buildCoverageIndex(ctx, s.chunks, s.reviews, s.runScope())
	if err != nil {
		return 0, err
	}
	return s.countScopedReviews(ctx, idx, nil)
}

// ChunksWithAtLeastOneReview counts distinct scoped chunks having at
// least one review.
func (s *StatsService) ChunksWithAtLeastOneReview(ctx context.Context) (int, error) {
	idx, err := buildCoverageIndex(ctx, s.chunks, s.reviews, s.runScope())
	if err != nil {
		return 0, err
	}
	return len(idx.reviewed), nil
}

// DocumentsWithAtLeastOneReview counts distinct scoped sources with at
// least one reviewed chunk.
func (s *StatsService) DocumentsWithAtLeastOneReview(ctx context.Context) (int, error) {
	idx, err := buildCoverageIndex(ctx, s.chunks, s.reviews, s.runScope())
	if err != nil {
		return 0, err
	}
	sources := make(map[string]struct{})
	for _, ref := range idx.refs {
		if ref.Source == "" {
			continue
		}
		if _, ok := idx.reviewed[ref.UUID]; ok {
			sources[ref.Source] = struct{}{}
		}
	}
	return len(sources), nil
}

// ReviewedChunksInDocument counts distinct reviewed chunks in the
// document containing the given chunk.
func (s *StatsService) ReviewedChunksInDocument(ctx context.Context, chunkUUID string) (int, error) {
	if chunkUUID == "" {
		return 0, nil
	}
	scope := s.runScope()

	current, err := notFoundAsNil(s.chunks.GetChunk(ctx, scope, chunkUUID))
	if err != nil {
		return 0, err
	}
	if current == nil || current.Source == "" {
		return 0, nil
	}

	refs, err := pageAllChunkRefs(ctx, s.chunks, scope.Merge(domain.Filters{"source": current.Source}))
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.UUID != "" {
			ids = append(ids, ref.UUID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	// Batch the in-set filter the same way paged reads are windowed.
	distinct := make(map[string]struct{})
	for start := 0; start < len(ids); start += pageWindow {
		end := min(start+pageWindow, len(ids))
		reviewed, err := s.reviews.ReviewedChunkIDs(ctx, ids[start:end])
		if err != nil {
			return 0, fmt.Errorf("querying reviewed chunks: %w", err)
		}
		for _, id := range reviewed {
			distinct[id] = struct{}{}
		}
	}
	return len(distinct), nil
}

// TotalReviewsByUser counts review rows by reviewer name, restricted to
// the current scope's chunks.
func (s *StatsService) TotalReviewsByUser(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	idx, err := buildCoverageIndex(ctx, s.chunks, s.reviews, s.runScope())
	if err != nil {
		return 0, err
	}
	return s.countScopedReviews(ctx, idx, domain.Filters{"name": name})
}

// countScopedReviews counts review rows (optionally filtered) whose
// chunk uuid belongs to the index's scope set.
func (s *StatsService) countScopedReviews(ctx context.Context, idx *coverageIndex, filters domain.Filters) (int, error) {
	if len(idx.inScope) == 0 {
		return 0, nil
	}
	ids, err := pageAllReviewChunkIDs(ctx, s.reviews, filters)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, id := range ids {
		if _, ok := idx.inScope[id]; ok {
			count++
		}
	}
	return count, nil
}
