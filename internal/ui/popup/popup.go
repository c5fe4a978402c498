// Package popup renders explanation overlays and lays them over the
// document view.
package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/styles"
)

const (
	// DefaultMaxWidth is the widest a popup gets, border included
	DefaultMaxWidth = 48
	minInner        = 16
	// chrome is the border plus horizontal padding on both sides
	chrome = 4
)

// Layout is a popup laid out for rendering and hit testing
type Layout struct {
	// Lines are the styled content rows inside the border
	Lines []string
	// Body holds the plain text of the body rows
	Body []string
	// BodyRow and BodyCol locate the first body cell relative to the
	// popup's top-left corner
	BodyRow int
	BodyCol int
	Width   int
	Height  int
}

// BodyCell maps a point relative to the popup's corner onto the body.
// ok is false when the point is outside the body text area.
func (l Layout) BodyCell(x, y int) (row, col int, ok bool) {
	row, col = y-l.BodyRow, x-l.BodyCol
	if row < 0 || row >= len(l.Body) || col < 0 || col >= l.Width-chrome {
		return 0, 0, false
	}
	return row, col, true
}

// Renderer draws popups. It implements engine.Measurer.
type Renderer struct {
	styles   *styles.Styles
	maxWidth int
}

// New creates a renderer
func New(s *styles.Styles, maxWidth int) *Renderer {
	if maxWidth < minInner+chrome {
		maxWidth = DefaultMaxWidth
	}
	return &Renderer{styles: s, maxWidth: maxWidth}
}

// SetMaxWidth bounds popups to the terminal width
func (r *Renderer) SetMaxWidth(w int) {
	r.maxWidth = max(minInner+chrome, w)
}

// Measure returns the popup's outer size
func (r *Renderer) Measure(inst *engine.Instance) engine.Size {
	l := r.Layout(inst, false)
	return engine.Size{Width: l.Width, Height: l.Height}
}

// Render draws the popup box
func (r *Renderer) Render(inst *engine.Instance, speaking bool) string {
	l := r.Layout(inst, speaking)
	return r.styles.PopupBorder(inst.State).
		Width(l.Width - 2).
		Render(strings.Join(l.Lines, "\n"))
}

// Layout arranges the popup's rows
func (r *Renderer) Layout(inst *engine.Instance, speaking bool) Layout {
	s := r.styles
	panel := inst.Panel
	hasSelectors := panel != nil && len(panel.Models.Options) > 0

	inner := r.innerWidth(inst, hasSelectors)
	rule := s.Separator.Render(strings.Repeat("─", inner))

	var lines []string
	if hasSelectors {
		lines = append(lines,
			r.selectorRow("m", "Model", &panel.Models, inner),
			r.selectorRow("p", "Prompt", &panel.Prompts, inner),
			rule,
		)
	}

	bodyRow := len(lines) + 1
	styled := wrapStyled(r.body(inst), inner)
	body := make([]string, len(styled))
	for i, line := range styled {
		body[i] = strings.TrimRight(ansi.Strip(line), " ")
	}
	lines = append(lines, styled...)

	if panel != nil {
		switch panel.Actions {
		case engine.ActionsControls:
			lines = append(lines, rule,
				r.selectorRow("l", "List", &panel.Lists, inner),
				r.actionsRow(speaking, inner),
			)
		case engine.ActionsSaving:
			lines = append(lines, rule, s.PopupMuted.Render("Saving..."))
		case engine.ActionsSaved:
			lines = append(lines, rule, s.PopupSaved.Render(engine.SavedText))
		case engine.ActionsNoLists:
			lines = append(lines, rule)
			lines = append(lines, wrapStyled(renderLines(s.PopupError, engine.NoListsText), inner)...)
		}
	}

	return Layout{
		Lines:   lines,
		Body:    body,
		BodyRow: bodyRow,
		BodyCol: 2,
		Width:   inner + chrome,
		Height:  len(lines) + 2,
	}
}

func (r *Renderer) innerWidth(inst *engine.Instance, hasSelectors bool) int {
	limit := r.maxWidth - chrome
	natural := 0
	for _, line := range strings.Split(StripMarkdown(inst.Content), "\n") {
		natural = max(natural, ansi.StringWidth(line))
	}
	if hasSelectors {
		natural = max(natural, limit)
	}
	return max(minInner, min(natural, limit))
}

func (r *Renderer) body(inst *engine.Instance) string {
	s := r.styles
	switch inst.State {
	case engine.StateLoading:
		return renderLines(s.PopupMuted, inst.Content)
	case engine.StateError:
		return renderLines(s.PopupError, inst.Content)
	default:
		return Markdown(inst.Content, s.PopupBody, s.PopupBold)
	}
}

func (r *Renderer) selectorRow(key, label string, sel *engine.Selector, inner int) string {
	s := r.styles
	value := sel.Label()
	valueStyle := s.PopupValue
	if sel.Disabled || value == "" {
		valueStyle = s.PopupDisabled
	}

	prefix := s.MenuKey.Render(key) + " " + s.PopupLabel.Render(label+":") + " "
	room := inner - ansi.StringWidth(prefix)
	return prefix + valueStyle.Render(ansi.Truncate(value, max(room, 1), "…"))
}

func (r *Renderer) actionsRow(speaking bool, inner int) string {
	s := r.styles
	voice := s.PopupAction.Render("voice")
	if speaking {
		voice = s.PopupSpeaking.Render("stop ")
	}
	row := s.MenuKey.Render("s") + " " + s.PopupAction.Render("save") + "  " +
		s.MenuKey.Render("v") + " " + voice + "  " +
		s.MenuKey.Render("c") + " " + s.PopupAction.Render("copy")
	return ansi.Truncate(row, inner, "")
}

func wrapStyled(text string, width int) []string {
	wrapped := wrap.String(wordwrap.String(text, width), width)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return lines
}

// Markdown renders **bold** runs with bold and everything else with normal.
// An unmatched marker is kept as literal text.
func Markdown(text string, normal, bold lipgloss.Style) string {
	parts := strings.Split(text, "**")
	if len(parts)%2 == 0 {
		last := len(parts) - 1
		parts[last-1] += "**" + parts[last]
		parts = parts[:last]
	}

	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		style := normal
		if i%2 == 1 {
			style = bold
		}
		b.WriteString(renderLines(style, part))
	}
	return b.String()
}

// renderLines styles each line on its own so lipgloss does not pad them
// to a common width
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// StripMarkdown removes paired ** markers
func StripMarkdown(text string) string {
	return ansi.Strip(Markdown(text, lipgloss.NewStyle(), lipgloss.NewStyle()))
}
