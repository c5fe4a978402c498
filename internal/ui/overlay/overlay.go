package overlay

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
)

// Overlay represents a modal overlay component. While one is open it owns
// the keyboard and the reader ignores mouse selections.
type Overlay interface {
	tea.Model
	Title() string
	Size() (width, height int)
}

// CloseOverlayMsg signals that the overlay should be closed
type CloseOverlayMsg struct{}

// ListNameMsg is emitted when the list-name prompt is confirmed or canceled
type ListNameMsg struct {
	ID       engine.ID
	Name     string
	Canceled bool
}
