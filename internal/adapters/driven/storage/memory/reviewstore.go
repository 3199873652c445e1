package memory

import (
	"context"
	"sync"
	"time"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
)

// Ensure ReviewStore implements the interface.
var _ driven.ReviewStore = (*ReviewStore)(nil)

// ReviewStore is an in-memory implementation of driven.ReviewStore.
// The log is append-only in insertion order.
type ReviewStore struct {
	mu      sync.RWMutex
	reviews []domain.Review

	// InsertCalls counts Insert invocations, letting tests assert that
	// validation failures never reach the store.
	InsertCalls int

	// PageCalls counts PageReviewChunkIDs invocations, letting tests
	// assert the empty-scope short circuit.
	PageCalls int
}

// NewReviewStore creates a new in-memory review store.
func NewReviewStore() *ReviewStore {
	return &ReviewStore{}
}

// PageReviewChunkIDs returns the chunk uuid of up to limit review rows
// starting at offset, optionally restricted by reviewer name.
func (s *ReviewStore) PageReviewChunkIDs(_ context.Context, filters domain.Filters, offset, limit int) ([]string, error) {
	s.mu.Lock()
	s.PageCalls++
	s.mu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	matched := 0
	for i := range s.reviews {
		if !matchReview(&s.reviews[i], filters) {
			continue
		}
		if matched >= offset && len(ids) < limit {
			ids = append(ids, s.reviews[i].ChunkUUID)
		}
		matched++
	}
	return ids, nil
}

// ReviewedChunkIDs returns the distinct members of chunkIDs with at
// least one review.
func (s *ReviewStore) ReviewedChunkIDs(_ context.Context, chunkIDs []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]struct{}, len(chunkIDs))
	for _, id := range chunkIDs {
		wanted[id] = struct{}{}
	}
	seen := make(map[string]struct{})
	var result []string
	for i := range s.reviews {
		id := s.reviews[i].ChunkUUID
		if _, ok := wanted[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result, nil
}

// Insert appends one review, assigning InsertedAt.
func (s *ReviewStore) Insert(_ context.Context, review domain.Review) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InsertCalls++
	review.InsertedAt = time.Now().UTC()
	s.reviews = append(s.reviews, review)
	stored := review
	return &stored, nil
}

// All returns a copy of every stored review, for test assertions.
func (s *ReviewStore) All() []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// matchReview applies equality predicates to a review row.
func matchReview(review *domain.Review, filters domain.Filters) bool {
	for col, val := range filters {
		switch col {
		case "chunk_uuid":
			if review.ChunkUUID != val {
				return false
			}
		case "name":
			if review.Name != val {
				return false
			}
		default:
			return false
		}
	}
	return true
}
