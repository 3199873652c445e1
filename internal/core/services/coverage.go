package services

import (
	"context"
	"fmt"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
)

// pageWindow is the fixed pagination window for exhaustive reads.
// Tuned to balance round-trips against payload size.
const pageWindow = 2000

// maxPages caps every pagination loop so a store that never returns a
// short page cannot spin forever. 10,000 pages is 20M rows at the
// current window, far beyond any review corpus.
const maxPages = 10000

// coverageIndex is the per-call materialisation of review coverage for
// the current run scope. It is rebuilt from the store on every
// selection or stats call; nothing here is cached or written back.
type coverageIndex struct {
	// refs holds the identifying projection of every in-scope chunk.
	refs []domain.ChunkRef

	// inScope is the set of in-scope chunk uuids.
	inScope map[string]struct{}

	// reviewed is the subset of inScope with at least one review.
	reviewed map[string]struct{}

	// bySource groups in-scope chunk uuids by source document. Rows
	// with an empty source or uuid are skipped.
	bySource map[string][]string
}

// buildCoverageIndex pages the chunk catalog under the given scope and
// intersects the review log with it. The review log is not run-scoped
// at the storage level, so scoping is client-side; when the scope
// matches zero chunks the review log is not queried at all.
func buildCoverageIndex(
	ctx context.Context,
	chunks driven.ChunkStore,
	reviews driven.ReviewStore,
	scope domain.Filters,
) (*coverageIndex, error) {
	refs, err := pageAllChunkRefs(ctx, chunks, scope)
	if err != nil {
		return nil, err
	}

	idx := &coverageIndex{
		refs:     refs,
		inScope:  make(map[string]struct{}, len(refs)),
		reviewed: make(map[string]struct{}),
		bySource: make(map[string][]string),
	}
	for _, ref := range refs {
		if ref.UUID == "" {
			continue
		}
		idx.inScope[ref.UUID] = struct{}{}
		if ref.Source == "" {
			continue
		}
		idx.bySource[ref.Source] = append(idx.bySource[ref.Source], ref.UUID)
	}

	if len(idx.inScope) == 0 {
		return idx, nil
	}

	reviewedIDs, err := pageAllReviewChunkIDs(ctx, reviews, nil)
	if err != nil {
		return nil, err
	}
	for _, id := range reviewedIDs {
		if _, ok := idx.inScope[id]; ok {
			idx.reviewed[id] = struct{}{}
		}
	}

	return idx, nil
}

// sourceCoverage returns the review coverage of one source's chunks.
func (idx *coverageIndex) sourceCoverage(source string) float64 {
	ids := idx.bySource[source]
	reviewed := 0
	for _, id := range ids {
		if _, ok := idx.reviewed[id]; ok {
			reviewed++
		}
	}
	return domain.Coverage(len(ids), reviewed)
}

// pageAllChunkRefs reads the whole filtered chunk catalog, one fixed
// window at a time, stopping at the first short page.
func pageAllChunkRefs(ctx context.Context, store driven.ChunkStore, filters domain.Filters) ([]domain.ChunkRef, error) {
	var all []domain.ChunkRef
	for page := 0; page < maxPages; page++ {
		refs, err := store.PageChunkRefs(ctx, filters, page*pageWindow, pageWindow)
		if err != nil {
			return nil, fmt.Errorf("paging chunk catalog: %w", err)
		}
		all = append(all, refs...)
		if len(refs) < pageWindow {
			return all, nil
		}
	}
	return nil, fmt.Errorf("chunk catalog: %w", domain.ErrPageLimitExceeded)
}

// pageAllReviewChunkIDs reads the chunk uuid column of the whole review
// log, optionally filtered (e.g. by reviewer name). One entry per
// review row.
func pageAllReviewChunkIDs(ctx context.Context, store driven.ReviewStore, filters domain.Filters) ([]string, error) {
	var all []string
	for page := 0; page < maxPages; page++ {
		ids, err := store.PageReviewChunkIDs(ctx, filters, page*pageWindow, pageWindow)
		if err != nil {
			return nil, fmt.Errorf("paging review log: %w", err)
		}
		all = append(all, ids...)
		if len(ids) < pageWindow {
			return all, nil
		}
	}
	return nil, fmt.Errorf("review log: %w", domain.ErrPageLimitExceeded)
}
