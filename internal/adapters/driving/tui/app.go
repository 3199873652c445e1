package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/terrafusion/chunkgrader/internal/adapters/driving/tui/styles"
	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/logger"
)

// Messages produced by the app's commands.
type (
	// chunkLoadedMsg carries the next chunk to review plus its document
	// context. A nil chunk means nothing matched.
	chunkLoadedMsg struct {
		chunk      *domain.Chunk
		totalInDoc int
		reviewed   int
	}

	// reviewSavedMsg confirms a submission was stored.
	reviewSavedMsg struct{}

	// errorOccurredMsg carries a failed command's error.
	errorOccurredMsg struct {
		err error
	}
)

// App is the review session following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// chunk is the chunk currently under review, nil when none matched.
	chunk *domain.Chunk

	// totalInDoc and reviewedInDoc describe the chunk's document.
	totalInDoc    int
	reviewedInDoc int

	// docLink is the rendered document link tree, when available.
	docLink string

	// form collects the review answers.
	form form

	// status is a one-line confirmation or error message.
	status   string
	statusOK bool

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new review session with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		form:   newForm(s),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("chunkgrader - Chunk Review"),
		a.loadRandom(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case chunkLoadedMsg:
		a.chunk = msg.chunk
		a.totalInDoc = msg.totalInDoc
		a.reviewedInDoc = msg.reviewed
		a.docLink = a.renderDocLink()
		a.form.resetForNewChunk()
		return a, nil

	case reviewSavedMsg:
		a.setStatus("Review saved.", true)
		// Move on: mostly stay near the reviewed chunk
		if a.chunk != nil {
			return a, a.loadSimilar(a.chunk.UUID)
		}
		return a, a.loadRandom()

	case errorOccurredMsg:
		a.setStatus(msg.err.Error(), false)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// handleKey routes key presses between session controls and the form.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Keys that work regardless of focus
	switch key {
	case "ctrl+c":
		return a, tea.Quit
	case "tab":
		a.form.nextField()
		return a, nil
	case "shift+tab":
		a.form.prevField()
		return a, nil
	case "enter":
		return a, a.submit()
	}

	// While editing free text, everything else belongs to the input
	if a.form.editingText() {
		var cmd tea.Cmd
		a.form, cmd = a.form.update(msg)
		return a, cmd
	}

	switch key {
	case "q", "esc":
		return a, tea.Quit
	case "n":
		a.setStatus("", true)
		return a, a.loadRandom()
	case "s":
		if a.chunk != nil {
			a.setStatus("", true)
			return a, a.loadSimilar(a.chunk.UUID)
		}
		return a, a.loadRandom()
	case ".":
		if a.chunk != nil {
			return a, a.loadAdjacent(a.chunk.UUID, domain.DirectionNext)
		}
	case ",":
		if a.chunk != nil {
			return a, a.loadAdjacent(a.chunk.UUID, domain.DirectionPrev)
		}
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.update(msg)
	return a, cmd
}

// submit validates the form and stores the review.
func (a *App) submit() tea.Cmd {
	if a.chunk == nil {
		a.setStatus("Nothing to review.", false)
		return nil
	}
	if !a.form.validate() {
		a.setStatus("Fill in the missing fields before submitting.", false)
		return nil
	}

	submission := a.form.submission(a.chunk.UUID)
	return func() tea.Msg {
		if _, err := a.ports.Review.Submit(a.ctx, submission); err != nil {
			return errorOccurredMsg{err: fmt.Errorf("saving review: %w", err)}
		}
		return reviewSavedMsg{}
	}
}

// loadRandom fetches the next coverage-weighted chunk.
func (a *App) loadRandom() tea.Cmd {
	return func() tea.Msg {
		chunk, err := a.ports.Selection.RandomChunk(a.ctx)
		if err != nil {
			return errorOccurredMsg{err: fmt.Errorf("picking chunk: %w", err)}
		}
		return a.loaded(chunk)
	}
}

// loadSimilar fetches a chunk near the given one.
func (a *App) loadSimilar(chunkUUID string) tea.Cmd {
	return func() tea.Msg {
		chunk, err := a.ports.Selection.SimilarChunk(a.ctx, chunkUUID)
		if err != nil {
			return errorOccurredMsg{err: fmt.Errorf("picking similar chunk: %w", err)}
		}
		if chunk == nil {
			// Nothing similar left; fall back to the weighted pick
			chunk, err = a.ports.Selection.RandomChunk(a.ctx)
			if err != nil {
				return errorOccurredMsg{err: fmt.Errorf("picking chunk: %w", err)}
			}
		}
		return a.loaded(chunk)
	}
}

// loadAdjacent fetches the chunk's neighbour in its document.
func (a *App) loadAdjacent(chunkUUID string, direction domain.Direction) tea.Cmd {
	return func() tea.Msg {
		chunk, err := a.ports.Selection.AdjacentChunk(a.ctx, chunkUUID, direction)
		if err != nil {
			return errorOccurredMsg{err: fmt.Errorf("loading neighbour: %w", err)}
		}
		if chunk == nil {
			return errorOccurredMsg{err: fmt.Errorf("no %s chunk in this document", direction)}
		}
		return a.loaded(chunk)
	}
}

// loaded assembles the chunkLoadedMsg for a fetched chunk.
func (a *App) loaded(chunk *domain.Chunk) tea.Msg {
	if chunk == nil {
		return chunkLoadedMsg{}
	}

	total, err := a.ports.Selection.CountChunksInDocument(a.ctx, chunk.UUID)
	if err != nil {
		return errorOccurredMsg{err: fmt.Errorf("counting document chunks: %w", err)}
	}

	reviewed := 0
	if a.ports.Stats != nil {
		reviewed, err = a.ports.Stats.ReviewedChunksInDocument(a.ctx, chunk.UUID)
		if err != nil {
			return errorOccurredMsg{err: fmt.Errorf("counting reviewed chunks: %w", err)}
		}
	}

	return chunkLoadedMsg{chunk: chunk, totalInDoc: total, reviewed: reviewed}
}

// renderDocLink renders the document link tree for the current chunk.
func (a *App) renderDocLink() string {
	if a.ports.Links == nil || a.chunk == nil || len(a.chunk.Metadata) == 0 {
		return ""
	}
	link, err := a.ports.Links.FormatDocumentLink(a.chunk.Metadata)
	if err != nil {
		logger.Debug("no document link for chunk %s: %v", a.chunk.UUID, err)
		return ""
	}
	return link
}

func (a *App) setStatus(text string, ok bool) {
	a.status = text
	a.statusOK = ok
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.chunk == nil {
		return a.styles.Title.Render("chunkgrader") + "\n\n" +
			a.styles.Normal.Render("No chunks available in the current scope.") + "\n\n" +
			a.styles.Help.Render("[n] retry  [q] quit")
	}

	var b strings.Builder

	header := fmt.Sprintf("Chunk %d/%d of %s  (%d/%d reviewed)",
		a.chunk.ChunkNumber+1, a.totalInDoc, a.chunk.Source,
		a.reviewedInDoc, a.totalInDoc)
	b.WriteString(a.styles.Title.Render(header) + "\n")
	b.WriteString(a.styles.Muted.Render("uuid "+a.chunk.UUID) + "\n")

	if a.docLink != "" {
		b.WriteString(a.docLink + "\n")
	}

	b.WriteString(a.styles.Border.Render(a.chunkText()) + "\n\n")
	b.WriteString(a.form.view())

	if a.status != "" {
		style := a.styles.Error
		if a.statusOK {
			style = a.styles.Success
		}
		b.WriteString(style.Render(a.status) + "\n")
	}

	b.WriteString(a.styles.Help.Render(
		"[tab] field  [←/→] option  [space] toggle  [enter] submit  " +
			"[n] new  [s] similar  [,/.] prev/next  [q] quit"))

	return b.String()
}

// chunkText returns the chunk body clipped to the available height.
func (a *App) chunkText() string {
	text := a.chunk.Text

	// Leave room for the header, form and help lines
	maxLines := a.height - 22
	if maxLines < 4 {
		maxLines = 4
	}

	lines := strings.Split(text, "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "…")
	}
	return strings.Join(lines, "\n")
}

// Run starts the review session.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Chunk returns the chunk currently under review (for testing).
func (a *App) Chunk() *domain.Chunk {
	return a.chunk
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
}
