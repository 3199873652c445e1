package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driving"
	"github.com/terrafusion/chunkgrader/internal/logger"
)

// Ensure SelectionService implements the interface.
var _ driving.SelectionService = (*SelectionService)(nil)

// Same-document bias bounds for SimilarChunk: at 0% document coverage
// the stay probability is maxSameDocP, falling linearly to minSameDocP
// at 100% so a finished document can still resurface (e.g. for a
// second reviewer). Tuning constants kept for behavioural parity.
const (
	minSameDocP = 0.05
	maxSameDocP = 0.95
)

// SelectionService picks the next chunk to present. Coverage is
// recomputed from the stores on every call, so concurrent submissions
// are picked up without any cache invalidation.
type SelectionService struct {
	chunks  driven.ChunkStore
	reviews driven.ReviewStore
	scope   driven.ScopeProvider
	rng     *rand.Rand
}

// NewSelectionService creates a new selection service.
func NewSelectionService(
	chunks driven.ChunkStore,
	reviews driven.ReviewStore,
	scope driven.ScopeProvider,
) *SelectionService {
	return &SelectionService{
		chunks:  chunks,
		reviews: reviews,
		scope:   scope,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// runScope reads the scope provider once for one logical operation.
func (s *SelectionService) runScope() domain.Filters {
	if s.scope == nil {
		return nil
	}
	return s.scope.RunScope()
}

// RandomChunk picks a chunk from the current scope, weighting documents
// by low coverage and preferring unreviewed chunks within the chosen
// document.
func (s *SelectionService) RandomChunk(ctx context.Context) (*domain.Chunk, error) {
	scope := s.runScope()

	total, err := s.chunks.CountChunks(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("counting chunks: %w", err)
	}
	if total <= 0 {
		return nil, nil
	}

	idx, err := buildCoverageIndex(ctx, s.chunks, s.reviews, scope)
	if err != nil {
		return nil, err
	}

	source, ok := chooseSourceByCoverage(idx.bySource, idx.reviewed, s.rng)
	if !ok {
		// No usable grouping (e.g. every row missing its source):
		// uniform random row within the scoped count.
		offset := s.rng.Intn(total)
		logger.Debug("random chunk: empty grouping, uniform offset %d of %d", offset, total)
		return notFoundAsNil(s.chunks.ChunkAt(ctx, scope, offset))
	}

	pool := preferUnreviewed(idx.bySource[source], idx.reviewed, "")
	target := pool[s.rng.Intn(len(pool))]
	logger.Debug("random chunk: source %q coverage %.2f -> %s", source, idx.sourceCoverage(source), target)
	return notFoundAsNil(s.chunks.GetChunk(ctx, scope, target))
}

// SimilarChunk biases toward the same document as the anchor chunk, but
// never deterministically: the stay probability falls with the
// document's coverage, and the result is never the anchor itself.
func (s *SelectionService) SimilarChunk(ctx context.Context, chunkUUID string) (*domain.Chunk, error) {
	if chunkUUID == "" {
		return nil, nil
	}
	scope := s.runScope()

	current, err := notFoundAsNil(s.chunks.GetChunk(ctx, scope, chunkUUID))
	if err != nil {
		return nil, err
	}
	if current == nil || current.Source == "" {
		return nil, nil
	}

	idx, err := buildCoverageIndex(ctx, s.chunks, s.reviews, scope)
	if err != nil {
		return nil, err
	}
	sameDoc := idx.bySource[current.Source]
	if len(sameDoc) == 0 {
		return nil, nil
	}

	coverage := idx.sourceCoverage(current.Source)
	pSame := minSameDocP + (maxSameDocP-minSameDocP)*(1-coverage)
	logger.Debug("similar chunk: source %q coverage %.2f p_same %.2f", current.Source, coverage, pSame)

	if s.rng.Float64() < pSame {
		pool := preferUnreviewed(sameDoc, idx.reviewed, chunkUUID)
		if len(pool) > 0 {
			return notFoundAsNil(s.chunks.GetChunk(ctx, scope, pool[s.rng.Intn(len(pool))]))
		}
		// The anchor is the document's only chunk; fall through to
		// other documents.
	}

	otherSources := make(map[string][]string, len(idx.bySource))
	for source, ids := range idx.bySource {
		if source != current.Source && len(ids) > 0 {
			otherSources[source] = ids
		}
	}
	if len(otherSources) == 0 {
		// Only the current document is available.
		pool := preferUnreviewed(sameDoc, idx.reviewed, chunkUUID)
		if len(pool) == 0 {
			return nil, nil
		}
		return notFoundAsNil(s.chunks.GetChunk(ctx, scope, pool[s.rng.Intn(len(pool))]))
	}

	source, ok := chooseSourceByCoverage(otherSources, idx.reviewed, s.rng)
	if !ok {
		// Flat uniform choice over all other chunks, preferring
		// unreviewed.
		var flat []string
		for _, ids := range otherSources {
			flat = append(flat, ids...)
		}
		pool := preferUnreviewed(flat, idx.reviewed, "")
		return notFoundAsNil(s.chunks.GetChunk(ctx, scope, pool[s.rng.Intn(len(pool))]))
	}

	pool := preferUnreviewed(otherSources[source], idx.reviewed, "")
	return notFoundAsNil(s.chunks.GetChunk(ctx, scope, pool[s.rng.Intn(len(pool))]))
}

// ChunkByUUID retrieves a chunk by identifier under the current scope.
func (s *SelectionService) ChunkByUUID(ctx context.Context, chunkUUID string) (*domain.Chunk, error) {
	if chunkUUID == "" {
		return nil, nil
	}
	return notFoundAsNil(s.chunks.GetChunk(ctx, s.runScope(), chunkUUID))
}

// AdjacentChunk loads the previous/next chunk of the same document by
// sequence number. An invalid direction is a caller error, distinct
// from an absent neighbour.
func (s *SelectionService) AdjacentChunk(ctx context.Context, chunkUUID string, direction domain.Direction) (*domain.Chunk, error) {
	if !direction.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDirection, direction)
	}
	if chunkUUID == "" {
		return nil, nil
	}
	scope := s.runScope()

	current, err := notFoundAsNil(s.chunks.GetChunk(ctx, scope, chunkUUID))
	if err != nil {
		return nil, err
	}
	if current == nil || current.Source == "" {
		return nil, nil
	}

	target := current.ChunkNumber + 1
	if direction == domain.DirectionPrev {
		target = current.ChunkNumber - 1
		if target < 0 {
			return nil, nil
		}
	}

	return notFoundAsNil(s.chunks.GetChunkBySequence(ctx, scope, current.Source, target))
}

// CountChunksInDocument returns the scoped chunk count of the document
// containing the given chunk.
func (s *SelectionService) CountChunksInDocument(ctx context.Context, chunkUUID string) (int, error) {
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

	count, err := s.chunks.CountChunks(ctx, scope.Merge(domain.Filters{"source": current.Source}))
	if err != nil {
		return 0, fmt.Errorf("counting document chunks: %w", err)
	}
	return count, nil
}

// preferUnreviewed returns the unreviewed members of ids (minus
// exclude) when any exist, otherwise all members minus exclude. The
// fallback keeps repeated calls on a fully-reviewed document from
// pinning to one chunk.
func preferUnreviewed(ids []string, reviewed map[string]struct{}, exclude string) []string {
	var unreviewed, all []string
	for _, id := range ids {
		if id == exclude {
			continue
		}
		all = append(all, id)
		if _, ok := reviewed[id]; !ok {
			unreviewed = append(unreviewed, id)
		}
	}
	if len(unreviewed) > 0 {
		return unreviewed
	}
	return all
}

// notFoundAsNil translates the store's ErrNotFound into the service
// surface's nil-row convention.
func notFoundAsNil(chunk *domain.Chunk, err error) (*domain.Chunk, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching chunk: %w", err)
	}
	return chunk, nil
}
