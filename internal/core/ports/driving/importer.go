package driving

import (
	"context"
	"io"
)

// ImportReport summarises one import run.
type ImportReport struct {
	// Imported is the number of chunk rows written.
	Imported int

	// Skipped is the number of input lines dropped for missing fields.
	Skipped int
}

// ImportService loads an upstream chunking run's export into the
// catalog.
type ImportService interface {
	// ImportJSONL reads one JSON object per line and stores the chunks.
	// Rows without a uuid are assigned one; rows without text are
	// skipped. runID overrides each row's chunking_run_id when set.
	ImportJSONL(ctx context.Context, r io.Reader, runID string) (*ImportReport, error)
}
