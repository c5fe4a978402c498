package overlay

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSavedPanel_Empty(t *testing.T) {
	p := NewSavedPanel(nil)

	assert.Contains(t, ansi.Strip(p.View()), "Nothing saved yet")
	assert.Equal(t, "Saved Explanations (0)", p.Title())
}

func TestSavedPanel_Entries(t *testing.T) {
	p := NewSavedPanel([]SavedEntry{
		{Word: "leaf", Definition: "A green organ.", List: "Biology", Saved: time.Now().Add(-2 * time.Hour), Here: true},
		{Word: "root", Definition: "Takes up water."},
	})

	view := ansi.Strip(p.View())
	assert.Contains(t, view, "leaf")
	assert.Contains(t, view, "Biology · 2 hours ago · this page")
	assert.Contains(t, view, "A green organ.")
	assert.Contains(t, view, "root")
	assert.Equal(t, "Saved Explanations (2)", p.Title())
	assert.NotContains(t, view, "scroll")
}

func TestSavedPanel_Scroll(t *testing.T) {
	entries := make([]SavedEntry, 20)
	for i := range entries {
		entries[i] = SavedEntry{Word: "word", Definition: strings.Repeat("text ", 30)}
	}
	p := NewSavedPanel(entries)
	require.Positive(t, p.maxScroll())

	p.Update(runeKey("j"))
	assert.Equal(t, 1, p.scrollY)
	p.Update(runeKey("G"))
	assert.Equal(t, p.maxScroll(), p.scrollY)
	p.Update(runeKey("j"))
	assert.Equal(t, p.maxScroll(), p.scrollY, "clamped at the bottom")
	p.Update(runeKey("g"))
	assert.Equal(t, 0, p.scrollY)

	view := ansi.Strip(p.View())
	assert.Contains(t, view, "line 1/")
	assert.LessOrEqual(t, len(strings.Split(view, "\n")), p.viewHeight+2)
}

func TestSavedPanel_Closes(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, runeKey("q"), runeKey("H")} {
		p := NewSavedPanel(nil)
		_, cmd := p.Update(k)
		require.NotNil(t, cmd)
		assert.IsType(t, CloseOverlayMsg{}, cmd())
	}
}
