// Package toast renders short-lived notices in the corner of the reader.
package toast

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/13pathak/AI-Popup-Infopedia/internal/types"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/styles"
)

// MaxVisible is how many toasts are shown at once; the newest win
const MaxVisible = 3

// ToastRenderer draws toasts with the reader's styles
type ToastRenderer struct {
	styles *styles.Styles
}

// New creates a renderer
func New(s *styles.Styles) *ToastRenderer {
	return &ToastRenderer{styles: s}
}

// Render stacks the newest toasts, right aligned, each prefixed with its
// level's icon. It returns "" when there is nothing to show.
func (r *ToastRenderer) Render(toasts []types.Toast, width int) string {
	if n := len(toasts); n == 0 {
		return ""
	} else if n > MaxVisible {
		toasts = toasts[n-MaxVisible:]
	}

	w := min(max(width/3, 20), 44)
	boxes := make([]string, len(toasts))
	for i, t := range toasts {
		boxes[i] = r.styleForLevel(t.Level).Width(w).Render(icon(t.Level) + " " + t.Message)
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func icon(level types.ToastLevel) string {
	switch level {
	case types.ToastSuccess:
		return "✓"
	case types.ToastWarning:
		return "⚠"
	case types.ToastError:
		return "✗"
	default:
		return "•"
	}
}

func (r *ToastRenderer) styleForLevel(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
