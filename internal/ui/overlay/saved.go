package overlay

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
)

// savedWidth is the wrap width of definitions in the saved panel
const savedWidth = 64

// SavedEntry is one saved explanation as shown in the saved panel
type SavedEntry struct {
	Word       string
	Definition string
	List       string
	Saved      time.Time
	// Here marks entries saved from the open document
	Here bool
}

// SavedPanel lists saved explanations, newest first, in a scrollable view
type SavedPanel struct {
	lines      []string
	count      int
	scrollY    int
	viewHeight int
	styles     *Styles
}

// NewSavedPanel renders entries into the panel. Definitions are expected
// without markdown markers.
func NewSavedPanel(entries []SavedEntry) *SavedPanel {
	s := New()
	p := &SavedPanel{
		count:      len(entries),
		viewHeight: 18,
		styles:     s,
	}

	if len(entries) == 0 {
		p.lines = []string{s.Footer.UnsetMarginTop().Render("Nothing saved yet. Press s on a popup to save it.")}
		return p
	}

	for i, e := range entries {
		if i > 0 {
			p.lines = append(p.lines, "")
		}

		header := s.Category.Render(e.Word)
		meta := []string{}
		if e.List != "" {
			meta = append(meta, e.List)
		}
		if !e.Saved.IsZero() {
			meta = append(meta, humanize.Time(e.Saved))
		}
		if e.Here {
			meta = append(meta, "this page")
		}
		if len(meta) > 0 {
			header += s.Footer.UnsetMarginTop().Render("  " + strings.Join(meta, " · "))
		}
		p.lines = append(p.lines, header)

		for _, line := range strings.Split(wordwrap.String(e.Definition, savedWidth), "\n") {
			p.lines = append(p.lines, s.MenuItem.Render(line))
		}
	}
	return p
}

// Init initializes the panel
func (p *SavedPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (p *SavedPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q", "H":
			return p, func() tea.Msg { return CloseOverlayMsg{} }
		case "j", "down":
			p.scrollY = min(p.scrollY+1, p.maxScroll())
		case "k", "up":
			p.scrollY = max(p.scrollY-1, 0)
		case "ctrl+f", "pgdown", " ":
			p.scrollY = min(p.scrollY+p.viewHeight, p.maxScroll())
		case "ctrl+b", "pgup":
			p.scrollY = max(p.scrollY-p.viewHeight, 0)
		case "g":
			p.scrollY = 0
		case "G":
			p.scrollY = p.maxScroll()
		}
	}
	return p, nil
}

// View renders the visible part of the panel
func (p *SavedPanel) View() string {
	end := min(p.scrollY+p.viewHeight, len(p.lines))
	view := strings.Join(p.lines[p.scrollY:end], "\n")

	if p.maxScroll() > 0 {
		view += "\n" + p.styles.Footer.Render(
			fmt.Sprintf("[j/k to scroll, g/G to jump] (line %d/%d)", p.scrollY+1, len(p.lines)),
		)
	}
	return view
}

// Title returns the overlay title
func (p *SavedPanel) Title() string {
	return fmt.Sprintf("Saved Explanations (%d)", p.count)
}

// Size returns the overlay dimensions
func (p *SavedPanel) Size() (width, height int) {
	return savedWidth + 6, p.viewHeight + 5
}

func (p *SavedPanel) maxScroll() int {
	return max(0, len(p.lines)-p.viewHeight)
}
