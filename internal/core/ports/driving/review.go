package driving

import (
	"context"

	"github.com/terrafusion/chunkgrader/internal/core/domain"
)

// ReviewSubmission is the reviewer-input record collected by the form
// layer. Only ChunkUUID is mandatory here; the form layer decides which
// fields a complete submission requires.
type ReviewSubmission struct {
	// ChunkUUID references the reviewed chunk. Required.
	ChunkUUID string

	// Name is the reviewer identity.
	Name string

	// ChunkSize is the chunk-size judgment.
	ChunkSize string

	// ChunkInfo is the information-completeness judgment.
	ChunkInfo string

	// HasWellDiagram accepts a bool, a string ("Yes", "true", "1", ...)
	// or nil for absent; it is normalised before storage.
	HasWellDiagram any

	// Comment is optional free text about the chunk.
	Comment string

	// Observation is optional general free text.
	Observation string

	// WellAssignment holds zero or more judgment strings.
	WellAssignment []string
}

// ReviewService records review submissions.
type ReviewService interface {
	// Submit validates and persists one review. A missing ChunkUUID
	// returns domain.ErrChunkUUIDRequired before any store call. The
	// returned row carries the store-assigned InsertedAt.
	Submit(ctx context.Context, submission ReviewSubmission) (*domain.Review, error)
}
