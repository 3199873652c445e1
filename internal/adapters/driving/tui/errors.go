package tui

import "errors"

// Port validation errors.
var (
	// ErrMissingSelectionService indicates the selection service port is nil.
	ErrMissingSelectionService = errors.New("selection service is required")

	// ErrMissingReviewService indicates the review service port is nil.
	ErrMissingReviewService = errors.New("review service is required")
)
