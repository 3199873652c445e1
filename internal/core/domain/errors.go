package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Not-found on single-row lookups is NOT an error at the service
// surface: services return a nil row for a legitimately absent result.
// Stores still signal ErrNotFound internally so adapters keep the usual
// scan idiom; services translate it.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDirection indicates an adjacent-chunk direction other
	// than "next" or "prev". This is a caller programming mistake and
	// is never conflated with an absent neighbour.
	ErrInvalidDirection = errors.New(`direction must be "next" or "prev"`)

	// ErrChunkUUIDRequired indicates a review submission without the
	// one mandatory field. Raised before any store call.
	ErrChunkUUIDRequired = errors.New("chunk_uuid is required")

	// ErrEmptyInsertResult indicates an insert succeeded at the
	// transport level but returned no row, which points at a
	// backend/schema mismatch rather than a transport failure.
	ErrEmptyInsertResult = errors.New("insert returned no row")

	// ErrPageLimitExceeded indicates a pagination loop ran past its
	// defensive cap without the store returning a final short page.
	ErrPageLimitExceeded = errors.New("pagination exceeded page limit")
)
