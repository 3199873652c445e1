package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/terrafusion/chunkgrader/internal/adapters/driving/tui/styles"
	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driving"
)

// Form field indices, in tab order.
const (
	fieldName = iota
	fieldChunkSize
	fieldChunkInfo
	fieldWellDiagram
	fieldWellAssignment
	fieldComment
	fieldObservation
	fieldCount
)

// choice is a single-select field over a fixed option set. Index -1
// means no answer yet.
type choice struct {
	options []string
	index   int
}

func newChoice(options []string) choice {
	return choice{options: options, index: -1}
}

// cycle moves the selection by delta, wrapping at both ends.
func (c *choice) cycle(delta int) {
	n := len(c.options)
	if n == 0 {
		return
	}
	if c.index < 0 {
		if delta > 0 {
			c.index = 0
		} else {
			c.index = n - 1
		}
		return
	}
	c.index = (c.index + delta%n + n) % n
}

// value returns the selected option, or "" when unset.
func (c *choice) value() string {
	if c.index < 0 || c.index >= len(c.options) {
		return ""
	}
	return c.options[c.index]
}

// form collects one review. The reviewer name survives across chunks
// within a session; everything else resets per chunk.
type form struct {
	styles *styles.Styles

	focus int

	name        choice
	chunkSize   choice
	chunkInfo   choice
	wellDiagram choice

	assignmentCursor   int
	assignmentSelected map[int]bool

	comment     textinput.Model
	observation textinput.Model

	missing []string
}

func newForm(s *styles.Styles) form {
	comment := textinput.New()
	comment.Placeholder = "comment about this chunk"
	comment.CharLimit = 500
	comment.Width = 60

	observation := textinput.New()
	observation.Placeholder = "general observation"
	observation.CharLimit = 500
	observation.Width = 60

	return form{
		styles:             s,
		name:               newChoice(domain.ReviewerOptions()),
		chunkSize:          newChoice(domain.ChunkSizeOptions()),
		chunkInfo:          newChoice(domain.ChunkInfoOptions()),
		wellDiagram:        newChoice(domain.WellDiagramOptions()),
		assignmentSelected: make(map[int]bool),
		comment:            comment,
		observation:        observation,
	}
}

// resetForNewChunk clears per-chunk answers, keeping the reviewer name.
func (f *form) resetForNewChunk() {
	f.chunkSize.index = -1
	f.chunkInfo.index = -1
	f.wellDiagram.index = -1
	f.assignmentCursor = 0
	f.assignmentSelected = make(map[int]bool)
	f.comment.SetValue("")
	f.observation.SetValue("")
	f.missing = nil
	f.setFocus(fieldName)
}

// editingText reports whether the focused field is a free-text input.
func (f *form) editingText() bool {
	return f.focus == fieldComment || f.focus == fieldObservation
}

// setFocus moves focus, keeping the text inputs' focus state in sync.
func (f *form) setFocus(field int) {
	f.focus = field
	f.comment.Blur()
	f.observation.Blur()
	switch field {
	case fieldComment:
		f.comment.Focus()
	case fieldObservation:
		f.observation.Focus()
	}
}

// nextField advances focus, wrapping past the last field.
func (f *form) nextField() {
	f.setFocus((f.focus + 1) % fieldCount)
}

// prevField moves focus back, wrapping before the first field.
func (f *form) prevField() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

// update handles a key while the form has focus. Tab navigation and
// submission are handled by the app; everything else lands here.
func (f form) update(msg tea.KeyMsg) (form, tea.Cmd) {
	if f.editingText() {
		var cmd tea.Cmd
		switch f.focus {
		case fieldComment:
			f.comment, cmd = f.comment.Update(msg)
		case fieldObservation:
			f.observation, cmd = f.observation.Update(msg)
		}
		return f, cmd
	}

	switch msg.String() {
	case "left":
		f.cycleFocused(-1)
	case "right":
		f.cycleFocused(1)
	case " ":
		if f.focus == fieldWellAssignment {
			f.assignmentSelected[f.assignmentCursor] = !f.assignmentSelected[f.assignmentCursor]
		}
	case "up":
		if f.focus == fieldWellAssignment && f.assignmentCursor > 0 {
			f.assignmentCursor--
		}
	case "down":
		if f.focus == fieldWellAssignment &&
			f.assignmentCursor < len(domain.WellAssignmentOptions())-1 {
			f.assignmentCursor++
		}
	}
	return f, nil
}

// cycleFocused cycles the focused single-select field.
func (f *form) cycleFocused(delta int) {
	switch f.focus {
	case fieldName:
		f.name.cycle(delta)
	case fieldChunkSize:
		f.chunkSize.cycle(delta)
	case fieldChunkInfo:
		f.chunkInfo.cycle(delta)
	case fieldWellDiagram:
		f.wellDiagram.cycle(delta)
	case fieldWellAssignment:
		// left/right also moves the multi-select cursor
		if delta < 0 && f.assignmentCursor > 0 {
			f.assignmentCursor--
		}
		if delta > 0 && f.assignmentCursor < len(domain.WellAssignmentOptions())-1 {
			f.assignmentCursor++
		}
	}
}

// wellAssignment returns the selected judgment strings in option order.
func (f *form) wellAssignment() []string {
	options := domain.WellAssignmentOptions()
	selected := make([]string, 0, len(options))
	for i, option := range options {
		if f.assignmentSelected[i] {
			selected = append(selected, option)
		}
	}
	return selected
}

// validate records which required fields are unanswered and returns
// true when the form is complete. Comment and observation are optional.
func (f *form) validate() bool {
	f.missing = nil
	if f.name.value() == "" {
		f.missing = append(f.missing, "Name")
	}
	if f.chunkSize.value() == "" {
		f.missing = append(f.missing, "Chunk Size")
	}
	if len(f.wellAssignment()) == 0 {
		f.missing = append(f.missing, "Well Assignment")
	}
	if f.chunkInfo.value() == "" {
		f.missing = append(f.missing, "Chunk Information")
	}
	if f.wellDiagram.value() == "" {
		f.missing = append(f.missing, "Well Diagram")
	}
	return len(f.missing) == 0
}

// submission builds the review for the given chunk from the current
// answers.
func (f *form) submission(chunkUUID string) driving.ReviewSubmission {
	var diagram any
	if v := f.wellDiagram.value(); v != "" {
		diagram = v
	}

	return driving.ReviewSubmission{
		ChunkUUID:      chunkUUID,
		Name:           f.name.value(),
		ChunkSize:      f.chunkSize.value(),
		ChunkInfo:      f.chunkInfo.value(),
		HasWellDiagram: diagram,
		Comment:        strings.TrimSpace(f.comment.Value()),
		Observation:    strings.TrimSpace(f.observation.Value()),
		WellAssignment: f.wellAssignment(),
	}
}

// view renders the form fields.
func (f *form) view() string {
	var b strings.Builder

	b.WriteString(f.choiceRow(fieldName, "Name", &f.name))
	b.WriteString(f.choiceRow(fieldChunkSize, "Chunk size", &f.chunkSize))
	b.WriteString(f.choiceRow(fieldChunkInfo, "Chunk information", &f.chunkInfo))
	b.WriteString(f.choiceRow(fieldWellDiagram, "Well diagram", &f.wellDiagram))
	b.WriteString(f.assignmentRows())
	b.WriteString(f.textRow(fieldComment, "Comment", f.comment.View()))
	b.WriteString(f.textRow(fieldObservation, "Observation", f.observation.View()))

	if len(f.missing) > 0 {
		b.WriteString(f.styles.Error.Render("Missing: "+strings.Join(f.missing, ", ")) + "\n")
	}

	return b.String()
}

// label renders a field label with a focus marker.
func (f *form) label(field int, text string) string {
	marker := "  "
	if f.focus == field {
		marker = "> "
	}
	return marker + f.styles.Subtitle.Render(text)
}

func (f *form) choiceRow(field int, labelText string, c *choice) string {
	parts := make([]string, 0, len(c.options))
	for i, option := range c.options {
		if i == c.index {
			parts = append(parts, f.styles.Selected.Render(option))
		} else {
			parts = append(parts, f.styles.Muted.Render(option))
		}
	}
	return f.label(field, labelText) + "  " + strings.Join(parts, "  ") + "\n"
}

func (f *form) assignmentRows() string {
	var b strings.Builder
	b.WriteString(f.label(fieldWellAssignment, "Well assignment") + "\n")
	for i, option := range domain.WellAssignmentOptions() {
		box := "[ ]"
		if f.assignmentSelected[i] {
			box = "[x]"
		}
		line := "      " + box + " " + option
		if f.focus == fieldWellAssignment && i == f.assignmentCursor {
			line = f.styles.Selected.Render(line)
		} else {
			line = f.styles.Normal.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (f *form) textRow(field int, labelText, input string) string {
	return f.label(field, labelText) + "  " + input + "\n"
}
