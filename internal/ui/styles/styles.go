package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
)

// Styles holds all the UI styles
type Styles struct {
	// Document
	Document   lipgloss.Style
	DocTitle   lipgloss.Style
	Selection  lipgloss.Style
	ScrollInfo lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusMode    lipgloss.Style
	StatusHint    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
	CloseAll      lipgloss.Style

	// Modal overlays
	Overlay          lipgloss.Style
	OverlayTitle     lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemActive   lipgloss.Style
	MenuItemDisabled lipgloss.Style
	MenuKey          lipgloss.Style
	Separator        lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	// Explanation popups
	Popup         lipgloss.Style
	PopupLabel    lipgloss.Style
	PopupValue    lipgloss.Style
	PopupDisabled lipgloss.Style
	PopupBody     lipgloss.Style
	PopupBold     lipgloss.Style
	PopupMuted    lipgloss.Style
	PopupError    lipgloss.Style
	PopupSaved    lipgloss.Style
	PopupAction   lipgloss.Style
	PopupSpeaking lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Document: lipgloss.NewStyle().
			Foreground(Text),

		DocTitle: lipgloss.NewStyle().
			Foreground(Lavender).
			Bold(true),

		Selection: lipgloss.NewStyle().
			Background(Surface2).
			Foreground(Text),

		ScrollInfo: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		StatusOnline: lipgloss.NewStyle().
			Foreground(Green),

		StatusOffline: lipgloss.NewStyle().
			Foreground(Red),

		CloseAll: lipgloss.NewStyle().
			Foreground(Base).
			Background(Maroon).
			Padding(0, 1),

		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base).
			Padding(1, 2),

		OverlayTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			MarginBottom(1),

		MenuItem: lipgloss.NewStyle().
			Foreground(Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		MenuItemDisabled: lipgloss.NewStyle().
			Foreground(Overlay0),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),

		Popup: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Background(Mantle).
			Padding(0, 1),

		PopupLabel: lipgloss.NewStyle().
			Foreground(Overlay1),

		PopupValue: lipgloss.NewStyle().
			Foreground(Sapphire),

		PopupDisabled: lipgloss.NewStyle().
			Foreground(Surface2),

		PopupBody: lipgloss.NewStyle().
			Foreground(Text),

		PopupBold: lipgloss.NewStyle().
			Foreground(Rosewater).
			Bold(true),

		PopupMuted: lipgloss.NewStyle().
			Foreground(Overlay0).
			Italic(true),

		PopupError: lipgloss.NewStyle().
			Foreground(Red),

		PopupSaved: lipgloss.NewStyle().
			Foreground(Green).
			Bold(true),

		PopupAction: lipgloss.NewStyle().
			Foreground(Yellow),

		PopupSpeaking: lipgloss.NewStyle().
			Foreground(Peach).
			Bold(true),
	}
}

// PopupBorder returns the popup style with the border color for state
func (s *Styles) PopupBorder(state engine.State) lipgloss.Style {
	color, ok := StateColors[state.String()]
	if !ok {
		color = Surface2
	}
	return s.Popup.BorderForeground(color)
}

// NoticeLevel returns the toast style for an engine notice level
func (s *Styles) NoticeLevel(level engine.NoticeLevel) lipgloss.Style {
	switch level {
	case engine.NoticeSuccess:
		return s.ToastSuccess
	case engine.NoticeError:
		return s.ToastError
	default:
		return s.ToastInfo
	}
}
