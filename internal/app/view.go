package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/popup"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/statusbar"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/toast"
)

// View renders the reader: the document, popups lowest priority first,
// toasts, the modal overlay and the status bar
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	rows := m.renderDocument()

	speaking := m.engine.Speaking()
	for _, inst := range m.engine.Instances() {
		box := m.popups.Render(inst, speaking == inst.ID)
		rows = popup.Composite(rows, box, inst.Position.Left, inst.Position.Top)
	}
	rows = m.highlightNested(rows)

	// Render toasts in bottom-right corner
	if len(m.toasts) > 0 {
		toastView := toast.New(m.styles).Render(m.toasts, m.width)
		if toastView != "" {
			left := m.width - lipgloss.Width(toastView)
			top := len(rows) - lipgloss.Height(toastView)
			rows = popup.Composite(rows, toastView, left, top)
		}
	}

	if !m.overlayStack.IsEmpty() {
		modal := m.renderModal()
		left := (m.width - lipgloss.Width(modal)) / 2
		top := (len(rows) - lipgloss.Height(modal)) / 2
		rows = popup.Composite(rows, modal, max(left, 0), max(top, 0))
	}

	sb := statusbar.New(m.mode, m.width, m.styles).WithInfo(statusbar.Info{
		Overlays: m.engine.Len(),
		Online:   m.isOnline,
		Host:     m.host,
		Percent:  m.percent(),
	}, m.zones)

	view := strings.Join(rows, "\n") + "\n" + sb.Render()
	return m.zones.Scan(view)
}

// renderDocument renders the visible document rows with the host selection
// highlighted
func (m Model) renderDocument() []string {
	rows := make([]string, m.docHeight())
	for i := range rows {
		row := m.scroll + i
		if row >= len(m.lines) {
			continue
		}
		rows[i] = m.renderLine(row)
	}
	return rows
}

func (m Model) renderLine(row int) string {
	line := m.lines[row]
	style := m.styles.Document
	if row < m.titleRows {
		style = m.styles.DocTitle
	}

	if m.sel.owner != 0 {
		return style.Render(line)
	}
	width := ansi.StringWidth(line)
	from, to, ok := m.sel.span.cols(row, width)
	if !ok {
		return style.Render(line)
	}

	var b strings.Builder
	if from > 0 {
		b.WriteString(style.Render(ansi.Cut(line, 0, from)))
	}
	b.WriteString(m.styles.Selection.Render(ansi.Cut(line, from, to)))
	if to < width {
		b.WriteString(style.Render(ansi.Cut(line, to, width)))
	}
	return b.String()
}

// highlightNested paints a selection inside a popup body over the popup
func (m Model) highlightNested(rows []string) []string {
	if m.sel.owner == 0 || !m.sel.span.moved {
		return rows
	}
	inst, ok := m.engine.Instance(m.sel.owner)
	if !ok {
		return rows
	}

	layout := m.popups.Layout(inst, m.engine.Speaking() == inst.ID)
	for i, line := range layout.Body {
		from, to, ok := m.sel.span.cols(i, ansi.StringWidth(line))
		if !ok {
			continue
		}
		rows = popup.Composite(rows,
			m.styles.Selection.Render(ansi.Cut(line, from, to)),
			inst.Position.Left+layout.BodyCol+from,
			inst.Position.Top+layout.BodyRow+i,
		)
	}
	return rows
}

// renderModal renders the current modal overlay in a titled box
func (m Model) renderModal() string {
	current := m.overlayStack.Current()
	overlayView := current.View()

	if title := current.Title(); title != "" {
		titleView := m.styles.OverlayTitle.Render(title)
		overlayView = lipgloss.JoinVertical(lipgloss.Left, titleView, overlayView)
	}

	width, height := current.Size()
	return m.styles.Overlay.
		Width(min(width, max(m.width-2, 1))).
		MaxHeight(m.docHeight()).
		Height(height).
		Render(overlayView)
}
