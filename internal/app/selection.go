package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
	"github.com/13pathak/AI-Popup-Infopedia/internal/types"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/statusbar"
)

// cell is a position in a block of plain text lines
type cell struct {
	row int
	col int
}

func (c cell) before(o cell) bool {
	return c.row < o.row || (c.row == o.row && c.col < o.col)
}

// span is a dragged range of cells. anchor is where the drag started.
type span struct {
	anchor cell
	head   cell
	moved  bool
}

func (s span) ordered() (start, end cell) {
	if s.head.before(s.anchor) {
		return s.head, s.anchor
	}
	return s.anchor, s.head
}

// cols returns the half-open column range the span covers on row
func (s span) cols(row, width int) (from, to int, ok bool) {
	if !s.moved {
		return 0, 0, false
	}
	start, end := s.ordered()
	if row < start.row || row > end.row {
		return 0, 0, false
	}
	from, to = 0, width
	if row == start.row {
		from = start.col
	}
	if row == end.row {
		to = min(to, end.col+1)
	}
	if from >= to {
		return 0, 0, false
	}
	return from, to, true
}

// text extracts the covered text. Line breaks and runs of spaces collapse
// into single spaces.
func (s span) text(lines []string) string {
	if !s.moved {
		return ""
	}
	start, end := s.ordered()

	var parts []string
	for row := max(start.row, 0); row <= end.row && row < len(lines); row++ {
		line := lines[row]
		if from, to, ok := s.cols(row, ansi.StringWidth(line)); ok {
			parts = append(parts, ansi.Cut(line, from, to))
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// rect is the bounding rectangle of the span relative to the lines' origin
func (s span) rect(lines []string) engine.Rect {
	start, end := s.ordered()
	if start.row == end.row {
		return engine.Rect{Left: start.col, Top: start.row, Width: end.col - start.col + 1, Height: 1}
	}

	width := 1
	for row := max(start.row, 0); row <= end.row && row < len(lines); row++ {
		width = max(width, ansi.StringWidth(lines[row]))
	}
	return engine.Rect{Left: 0, Top: start.row, Width: width, Height: end.row - start.row + 1}
}

// selection is the reader's single live selection: on the document when
// owner is zero, otherwise inside that popup's body.
type selection struct {
	owner    engine.ID
	span     span
	dragging bool
}

// surface is a snapshot of the reader's selection handed to the engine
type surface struct {
	host   engine.Selection
	nested map[engine.ID]engine.Selection
}

func (s surface) HostSelection() engine.Selection {
	return s.host
}

func (s surface) NestedSelection(id engine.ID) engine.Selection {
	return s.nested[id]
}

// surface builds the engine's view of the current selection. Rectangles are
// in viewport coordinates.
func (m Model) surface() surface {
	out := surface{nested: map[engine.ID]engine.Selection{}}
	if !m.sel.span.moved {
		return out
	}

	if m.sel.owner == 0 {
		rect := m.sel.span.rect(m.lines)
		rect.Top -= m.scroll
		out.host = engine.Selection{Text: m.sel.span.text(m.lines), Rect: rect}
		return out
	}

	inst, ok := m.engine.Instance(m.sel.owner)
	if !ok {
		return out
	}
	layout := m.popups.Layout(inst, m.engine.Speaking() == inst.ID)
	rect := m.sel.span.rect(layout.Body)
	rect.Left += inst.Position.Left + layout.BodyCol
	rect.Top += inst.Position.Top + layout.BodyRow
	out.nested[inst.ID] = engine.Selection{Text: m.sel.span.text(layout.Body), Rect: rect}
	return out
}

// popupAt returns the top-most popup whose box contains p
func (m Model) popupAt(p engine.Point) *engine.Instance {
	all := m.engine.Instances()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Bounds().Contains(p) {
			return all[i]
		}
	}
	return nil
}

// handleMouse turns terminal mouse events into selections and engine
// pointer events. Mouse input is ignored while a modal overlay is open.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.overlayStack.IsEmpty() {
		return m, nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-3)
		return m, nil

	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(3)
		return m, nil

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m.pointerDown(msg)

	case msg.Action == tea.MouseActionMotion:
		if m.sel.dragging {
			m.extendSelection(engine.Point{X: msg.X, Y: msg.Y})
		}
		return m, nil

	case msg.Action == tea.MouseActionRelease:
		return m.pointerUp()
	}
	return m, nil
}

func (m Model) pointerDown(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if z := m.zones.Get(statusbar.CloseAllZone); z != nil && z.InBounds(msg) {
		m.logger.Debug("close all clicked", "overlays", m.engine.Len())
		m.engine.CloseAll()
		m.sel = selection{}
		return m, nil
	}

	p := engine.Point{X: msg.X, Y: msg.Y}
	cmd := m.engine.PointerDown(p)
	m.sel = selection{}

	if inst := m.popupAt(p); inst != nil {
		layout := m.popups.Layout(inst, m.engine.Speaking() == inst.ID)
		if row, col, ok := layout.BodyCell(p.X-inst.Position.Left, p.Y-inst.Position.Top); ok {
			at := cell{row: row, col: col}
			m.sel = selection{owner: inst.ID, span: span{anchor: at, head: at}, dragging: true}
		}
	} else if p.Y < m.docHeight() {
		at := cell{row: m.scroll + p.Y, col: max(p.X, 0)}
		m.sel = selection{span: span{anchor: at, head: at}, dragging: true}
	}

	if m.sel.dragging {
		m.mode = types.ModeSelect
	}
	return m, cmd
}

// extendSelection moves the selection head to p, clamped to the area the
// drag started in
func (m *Model) extendSelection(p engine.Point) {
	var at cell
	if m.sel.owner == 0 {
		y := min(max(p.Y, 0), m.docHeight()-1)
		at = cell{row: m.scroll + y, col: max(p.X, 0)}
	} else {
		inst, ok := m.engine.Instance(m.sel.owner)
		if !ok {
			m.sel = selection{}
			m.mode = types.ModeRead
			return
		}
		layout := m.popups.Layout(inst, m.engine.Speaking() == inst.ID)
		if len(layout.Body) == 0 {
			return
		}
		row := min(max(p.Y-inst.Position.Top-layout.BodyRow, 0), len(layout.Body)-1)
		col := min(max(p.X-inst.Position.Left-layout.BodyCol, 0), layout.Width-layout.BodyCol*2-1)
		at = cell{row: row, col: col}
	}

	if at != m.sel.span.head {
		m.sel.span.head = at
		m.sel.span.moved = m.sel.span.head != m.sel.span.anchor
	}
}

func (m Model) pointerUp() (tea.Model, tea.Cmd) {
	m.sel.dragging = false
	if m.mode == types.ModeSelect {
		m.mode = types.ModeRead
	}

	cmd := m.engine.PointerUp(m.surface())

	// a selection inside a popup is consumed by the release
	if m.sel.owner != 0 {
		m.sel = selection{}
	}
	return m, cmd
}
