package statusbar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/13pathak/AI-Popup-Infopedia/internal/types"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/styles"
)

// CloseAllZone is the bubblezone id of the "close all" button
const CloseAllZone = "statusbar-close-all"

// Info is the reader state shown on the right of the bar
type Info struct {
	Overlays int
	Online   bool
	Host     string
	Percent  int
}

// StatusBar represents the status bar at the bottom of the reader
type StatusBar struct {
	mode   types.Mode
	width  int
	styles *styles.Styles
	info   Info
	zones  *zone.Manager
}

// New creates a new StatusBar with the given mode, width, and styles
func New(mode types.Mode, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		mode:   mode,
		width:  width,
		styles: styles,
	}
}

// WithInfo returns a copy of the bar showing info. The close-all button is
// only clickable when zones is non-nil.
func (sb StatusBar) WithInfo(info Info, zones *zone.Manager) StatusBar {
	sb.info = info
	sb.zones = zones
	return sb
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	// Mode badge
	modeBadge := sb.styles.StatusMode.Render(" " + sb.mode.String() + " ")

	// Keybinding hints
	hints := GetHints(sb.mode)
	left := modeBadge
	if hints != "" {
		separator := sb.styles.StatusHint.Render(" │ ")
		left = lipgloss.JoinHorizontal(lipgloss.Left, modeBadge, separator, sb.styles.StatusHint.Render(hints))
	}

	right := sb.renderInfo()

	// Fill the gap between hints and info; hints give way on narrow terminals
	inner := sb.width - sb.styles.StatusBar.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = modeBadge
		gap = max(1, inner-lipgloss.Width(left)-lipgloss.Width(right))
	}
	content := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return sb.styles.StatusBar.Width(sb.width).MaxHeight(1).Render(content)
}

func (sb StatusBar) renderInfo() string {
	s := sb.styles
	var parts []string

	if sb.info.Host != "" {
		if sb.info.Online {
			parts = append(parts, s.StatusOnline.Render("● "+sb.info.Host))
		} else {
			parts = append(parts, s.StatusOffline.Render("○ "+sb.info.Host))
		}
	}

	parts = append(parts, s.StatusInfo.Render(fmt.Sprintf("%d%%", sb.info.Percent)))

	if sb.info.Overlays > 0 {
		button := s.CloseAll.Render(fmt.Sprintf("✕ close %d", sb.info.Overlays))
		if sb.zones != nil {
			button = sb.zones.Mark(CloseAllZone, button)
		}
		parts = append(parts, button)
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "  "
		}
		out += p
	}
	return out
}
