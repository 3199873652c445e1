package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terrafusion/chunkgrader/internal/adapters/driven/storage/memory"
	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
	"github.com/terrafusion/chunkgrader/internal/core/services"
)

// setupTestServices wires the commands to memory-backed services with a
// small fixed catalog. Returns the stores and a cleanup restoring the
// previous wiring.
func setupTestServices(t *testing.T) (*memory.ChunkStore, *memory.ReviewStore, func()) {
	t.Helper()

	chunkStore := memory.NewChunkStore()
	reviewStore := memory.NewReviewStore()
	scope := driven.ScopeFunc(func() domain.Filters { return nil })

	err := chunkStore.SaveChunks(context.Background(), []domain.Chunk{
		{UUID: "a0", Source: "docA", ChunkNumber: 0, ChunkingRunID: "run-1", Text: "alpha text"},
		{UUID: "a1", Source: "docA", ChunkNumber: 1, ChunkingRunID: "run-1", Text: "beta text"},
		{UUID: "b0", Source: "docB", ChunkNumber: 0, ChunkingRunID: "run-1", Text: "gamma text"},
	})
	require.NoError(t, err)

	oldSelection := selectionService
	oldReview := reviewService
	oldStats := statsService
	oldImport := importService
	oldLinks := linkMap

	Initialize(Services{
		Selection: services.NewSelectionService(chunkStore, reviewStore, scope),
		Review:    services.NewReviewService(reviewStore),
		Stats:     services.NewStatsService(chunkStore, reviewStore, scope),
		Import:    services.NewImportService(chunkStore),
	})

	cleanup := func() {
		selectionService = oldSelection
		reviewService = oldReview
		statsService = oldStats
		importService = oldImport
		linkMap = oldLinks
	}
	return chunkStore, reviewStore, cleanup
}

// execute runs the root command with the given args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}
