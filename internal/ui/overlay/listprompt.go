package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
)

// ListPrompt asks for the name of a new word list on behalf of a popup
type ListPrompt struct {
	id     engine.ID
	input  textinput.Model
	styles *Styles
}

// NewListPrompt creates the prompt for popup id
func NewListPrompt(id engine.ID) *ListPrompt {
	ti := textinput.New()
	ti.Placeholder = "List name..."
	ti.Focus()
	ti.CharLimit = 80
	ti.Width = 36

	return &ListPrompt{
		id:     id,
		input:  ti,
		styles: New(),
	}
}

// Init initializes the overlay
func (p *ListPrompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (p *ListPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			id := p.id
			return p, func() tea.Msg { return ListNameMsg{ID: id, Canceled: true} }

		case "enter":
			id := p.id
			name := strings.TrimSpace(p.input.Value())
			return p, func() tea.Msg { return ListNameMsg{ID: id, Name: name, Canceled: name == ""} }
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View renders the prompt
func (p *ListPrompt) View() string {
	var b strings.Builder
	b.WriteString(p.input.View())
	b.WriteString("\n")
	b.WriteString(p.styles.Footer.Render(
		p.styles.MenuKey.Render("Enter") + " create  " + p.styles.MenuKey.Render("Esc") + " cancel",
	))
	return b.String()
}

// Title returns the overlay title
func (p *ListPrompt) Title() string {
	return "New Word List"
}

// Size returns the overlay dimensions
func (p *ListPrompt) Size() (width, height int) {
	return 44, 5
}

// ID returns the popup the prompt belongs to
func (p *ListPrompt) ID() engine.ID {
	return p.id
}
