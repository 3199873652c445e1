package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrafusion/chunkgrader/internal/adapters/driven/storage/memory"
	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
	"github.com/terrafusion/chunkgrader/internal/core/services"
)

// newTestApp builds an app over memory-backed services with a small
// catalog.
func newTestApp(t *testing.T) (*App, *memory.ReviewStore) {
	t.Helper()

	chunkStore := memory.NewChunkStore()
	reviewStore := memory.NewReviewStore()
	scope := driven.ScopeFunc(func() domain.Filters { return nil })

	err := chunkStore.SaveChunks(context.Background(), []domain.Chunk{
		{UUID: "a0", Source: "docA", ChunkNumber: 0, ChunkingRunID: "run-1", Text: "alpha text"},
		{UUID: "a1", Source: "docA", ChunkNumber: 1, ChunkingRunID: "run-1", Text: "beta text"},
	})
	require.NoError(t, err)

	app, err := NewApp(&Ports{
		Selection: services.NewSelectionService(chunkStore, reviewStore, scope),
		Review:    services.NewReviewService(reviewStore),
		Stats:     services.NewStatsService(chunkStore, reviewStore, scope),
	})
	require.NoError(t, err)
	app.SetDimensions(100, 40)

	return app, reviewStore
}

// load runs a command and feeds its message back into the app.
func load(t *testing.T, app *App, cmd tea.Cmd) *App {
	t.Helper()
	require.NotNil(t, cmd)
	model, _ := app.Update(cmd())
	return model.(*App)
}

func TestNewApp_RequiresSelectionService(t *testing.T) {
	_, err := NewApp(&Ports{Review: nil, Selection: nil})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSelectionService)
}

func TestNewApp_RequiresReviewService(t *testing.T) {
	chunkStore := memory.NewChunkStore()
	reviewStore := memory.NewReviewStore()
	scope := driven.ScopeFunc(func() domain.Filters { return nil })

	_, err := NewApp(&Ports{
		Selection: services.NewSelectionService(chunkStore, reviewStore, scope),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReviewService)
}

func TestApp_LoadsChunkOnStart(t *testing.T) {
	app, _ := newTestApp(t)

	app = load(t, app, app.loadRandom())

	require.NotNil(t, app.Chunk())
	assert.Equal(t, "docA", app.Chunk().Source)
	assert.Equal(t, 2, app.totalInDoc)
}

func TestApp_ViewRendersChunkAndForm(t *testing.T) {
	app, _ := newTestApp(t)
	app = load(t, app, app.loadRandom())

	view := app.View()

	assert.Contains(t, view, "of docA")
	assert.Contains(t, view, "Name")
	assert.Contains(t, view, "Chunk size")
	assert.Contains(t, view, "Well assignment")
	assert.Contains(t, view, "[enter] submit")
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, _ := newTestApp(t)
	app.ready = false
	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_SubmitIncompleteFormShowsMissingFields(t *testing.T) {
	app, reviews := newTestApp(t)
	app = load(t, app, app.loadRandom())

	cmd := app.submit()

	assert.Nil(t, cmd, "incomplete form never reaches the store")
	assert.Zero(t, reviews.InsertCalls)
	assert.Contains(t, app.View(), "Missing:")
}

func TestApp_SubmitCompleteFormStoresReview(t *testing.T) {
	app, reviews := newTestApp(t)
	app = load(t, app, app.loadRandom())
	reviewed := app.Chunk().UUID

	app.form.name.index = 0
	app.form.chunkSize.index = 0
	app.form.chunkInfo.index = 0
	app.form.wellDiagram.index = 0
	app.form.assignmentSelected[0] = true

	cmd := app.submit()
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, reviewSavedMsg{}, msg)

	all := reviews.All()
	require.Len(t, all, 1)
	assert.Equal(t, reviewed, all[0].ChunkUUID)
	assert.Equal(t, "Eva", all[0].Name)
}

func TestApp_ReviewSavedAdvancesToNextChunk(t *testing.T) {
	app, _ := newTestApp(t)
	app = load(t, app, app.loadRandom())
	previous := app.Chunk().UUID

	model, cmd := app.Update(reviewSavedMsg{})
	app = model.(*App)
	app = load(t, app, cmd)

	require.NotNil(t, app.Chunk())
	assert.NotEqual(t, previous, app.Chunk().UUID, "similar pick never returns the anchor")
}

func TestApp_AdjacentNavigation(t *testing.T) {
	app, _ := newTestApp(t)
	app = load(t, app, app.loadRandom())

	// Walk to a0 deterministically, then step forward
	app = load(t, app, func() tea.Msg {
		chunk, err := app.ports.Selection.ChunkByUUID(app.ctx, "a0")
		require.NoError(t, err)
		return app.loaded(chunk)
	})
	require.Equal(t, "a0", app.Chunk().UUID)

	app = load(t, app, app.loadAdjacent("a0", domain.DirectionNext))
	assert.Equal(t, "a1", app.Chunk().UUID)

	// Stepping past the end reports instead of moving
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'.'}})
	app = model.(*App)
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, errorOccurredMsg{}, msg)
}

func TestApp_EmptyCatalog(t *testing.T) {
	chunkStore := memory.NewChunkStore()
	reviewStore := memory.NewReviewStore()
	scope := driven.ScopeFunc(func() domain.Filters { return nil })

	app, err := NewApp(&Ports{
		Selection: services.NewSelectionService(chunkStore, reviewStore, scope),
		Review:    services.NewReviewService(reviewStore),
	})
	require.NoError(t, err)
	app.SetDimensions(100, 40)

	app = load(t, app, app.loadRandom())

	assert.Nil(t, app.Chunk())
	assert.Contains(t, app.View(), "No chunks available")
}

func TestApp_QuitKeys(t *testing.T) {
	app, _ := newTestApp(t)
	app = load(t, app, app.loadRandom())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
