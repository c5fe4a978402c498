package overlay

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/styles"
)

// Styles are the text styles used inside modal overlays. The box and its
// title bar are drawn by the reader.
type Styles struct {
	Title    lipgloss.Style
	Category lipgloss.Style // section headers, saved words
	MenuItem lipgloss.Style
	MenuKey  lipgloss.Style // key hints
	Footer   lipgloss.Style
}

// New returns the overlay styles for the reader palette
func New() *Styles {
	text := lipgloss.NewStyle().Foreground(styles.Text)
	return &Styles{
		Title:    text.Bold(true).MarginBottom(1),
		Category: lipgloss.NewStyle().Foreground(styles.Blue).Bold(true),
		MenuItem: text,
		MenuKey:  lipgloss.NewStyle().Foreground(styles.Yellow).Bold(true),
		Footer:   lipgloss.NewStyle().Foreground(styles.Subtext0).MarginTop(1),
	}
}
