package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driving"
)

// Ensure ReviewService implements the interface.
var _ driving.ReviewService = (*ReviewService)(nil)

// ReviewService validates and records review submissions. Reviews are
// append-only; the service never updates or deletes.
type ReviewService struct {
	reviews driven.ReviewStore
}

// NewReviewService creates a new review service.
func NewReviewService(reviews driven.ReviewStore) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// Submit persists one review. The only mandatory field is ChunkUUID,
// checked before any store call; the form layer owns completeness
// validation. HasWellDiagram is normalised from boolean or string
// input, and WellAssignment defaults to an empty set.
func (s *ReviewService) Submit(ctx context.Context, submission driving.ReviewSubmission) (*domain.Review, error) {
	if submission.ChunkUUID == "" {
		return nil, domain.ErrChunkUUIDRequired
	}

	wellAssignment := submission.WellAssignment
	if wellAssignment == nil {
		wellAssignment = []string{}
	}

	review := domain.Review{
		ID:             uuid.NewString(),
		ChunkUUID:      submission.ChunkUUID,
		Name:           submission.Name,
		ChunkSize:      submission.ChunkSize,
		ChunkInfo:      submission.ChunkInfo,
		HasWellDiagram: domain.ParseTriBool(submission.HasWellDiagram),
		Comment:        submission.Comment,
		Observation:    submission.Observation,
		WellAssignment: wellAssignment,
		// InsertedAt is assigned by the store.
	}

	stored, err := s.reviews.Insert(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("inserting review: %w", err)
	}
	if stored == nil {
		return nil, domain.ErrEmptyInsertResult
	}
	return stored, nil
}
