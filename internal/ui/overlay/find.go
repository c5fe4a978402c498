package overlay

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FindMsg is emitted on every edit of the find query
type FindMsg struct {
	Query string
}

// FindBar is a one-line prompt for finding text in the document
type FindBar struct {
	input   textinput.Model
	matches int
	styles  *Styles
}

// NewFindBar creates a find bar holding the previous query
func NewFindBar(query string) *FindBar {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "find..."
	ti.CharLimit = 100
	ti.Width = 36
	ti.SetValue(query)
	ti.Focus()

	return &FindBar{
		input:  ti,
		styles: New(),
	}
}

// SetMatches updates the match count shown after the query
func (f *FindBar) SetMatches(n int) {
	f.matches = n
}

// Query returns the current query
func (f *FindBar) Query() string {
	return f.input.Value()
}

// Init implements tea.Model
func (f *FindBar) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (f *FindBar) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			// keep the query so n/N can step through matches
			return f, func() tea.Msg { return CloseOverlayMsg{} }

		case tea.KeyEsc:
			f.input.SetValue("")
			return f, tea.Batch(
				func() tea.Msg { return FindMsg{Query: ""} },
				func() tea.Msg { return CloseOverlayMsg{} },
			)
		}
	}

	prev := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)

	if query := f.input.Value(); query != prev {
		return f, tea.Batch(cmd, func() tea.Msg { return FindMsg{Query: query} })
	}
	return f, cmd
}

// View implements tea.Model
func (f *FindBar) View() string {
	view := f.input.View()
	switch {
	case f.input.Value() == "":
	case f.matches == 0:
		view += f.styles.Footer.UnsetMarginTop().Render("  no matches")
	default:
		view += f.styles.Footer.UnsetMarginTop().Render(fmt.Sprintf("  %d lines", f.matches))
	}
	return view
}

// Title implements Overlay; the find bar has none
func (f *FindBar) Title() string {
	return ""
}

// Size implements Overlay
func (f *FindBar) Size() (width, height int) {
	return 56, 1
}
