package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding represents a single keybinding entry
type KeyBinding struct {
	Key         string
	Description string
}

// KeyCategory represents a category of keybindings
type KeyCategory struct {
	Name     string
	Bindings []KeyBinding
}

// HelpOverlay displays keybinding reference
type HelpOverlay struct {
	styles     *Styles
	scroll     int
	maxScroll  int
	viewHeight int
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{
		styles:     New(),
		viewHeight: 20,
	}
}

// Init initializes the overlay
func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q", "?":
			return h, func() tea.Msg { return CloseOverlayMsg{} }

		case "j", "down":
			h.scroll = min(h.scroll+1, h.maxScroll)

		case "k", "up":
			h.scroll = max(h.scroll-1, 0)

		case "g":
			h.scroll = 0

		case "G":
			h.scroll = h.maxScroll
		}
	}
	return h, nil
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	var content strings.Builder
	for i, cat := range Categories() {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(h.styles.Category.Render(cat.Name + ":"))
		content.WriteString("\n")

		for _, binding := range cat.Bindings {
			content.WriteString("  ")
			content.WriteString(h.styles.MenuKey.Render(padRight(binding.Key, 8)))
			content.WriteString(h.styles.MenuItem.Render(binding.Description))
			content.WriteString("\n")
		}
	}

	lines := strings.Split(strings.TrimRight(content.String(), "\n"), "\n")
	h.maxScroll = max(0, len(lines)-h.viewHeight)
	h.scroll = min(h.scroll, h.maxScroll)

	end := min(h.scroll+h.viewHeight, len(lines))
	result := strings.Join(lines[h.scroll:end], "\n")

	if h.maxScroll > 0 {
		result += "\n" + h.styles.Footer.Render("[j/k to scroll, g/G to jump]")
	}
	return result
}

// Title returns the overlay title
func (h *HelpOverlay) Title() string {
	return "Help"
}

// Size returns the overlay dimensions
func (h *HelpOverlay) Size() (width, height int) {
	return 56, 24
}

// Categories returns all keybinding categories
func Categories() []KeyCategory {
	return []KeyCategory{
		{
			Name: "Reading",
			Bindings: []KeyBinding{
				{Key: "j/k", Description: "Scroll down/up"},
				{Key: "g/G", Description: "Jump to top/bottom"},
				{Key: "drag", Description: "Select words to explain"},
				{Key: "ctrl+d", Description: "Explain the current selection"},
				{Key: "/", Description: "Find in document"},
				{Key: "n/N", Description: "Next/previous match"},
			},
		},
		{
			Name: "Popups",
			Bindings: []KeyBinding{
				{Key: "m/M", Description: "Next/previous model"},
				{Key: "p/P", Description: "Next/previous prompt"},
				{Key: "l/L", Description: "Next/previous word list"},
				{Key: "s", Description: "Save to the selected list"},
				{Key: "v", Description: "Read aloud / stop"},
				{Key: "c", Description: "Copy explanation"},
				{Key: "esc", Description: "Close the top popup"},
				{Key: "X", Description: "Close all popups"},
			},
		},
		{
			Name: "Other",
			Bindings: []KeyBinding{
				{Key: "H", Description: "Saved explanations"},
				{Key: "b", Description: "Back up now"},
				{Key: "?", Description: "Help (this screen)"},
				{Key: "q", Description: "Quit"},
			},
		},
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
