package overlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOverlay is a simple overlay implementation for testing
type mockOverlay struct {
	title   string
	width   int
	height  int
	updates int
}

func (m mockOverlay) Init() tea.Cmd {
	return nil
}

func (m mockOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, func() tea.Msg { return CloseOverlayMsg{} }
	}
	m.updates++
	return m, nil
}

func (m mockOverlay) View() string {
	return m.title
}

func (m mockOverlay) Title() string {
	return m.title
}

func (m mockOverlay) Size() (width, height int) {
	return m.width, m.height
}

func TestNewStack(t *testing.T) {
	stack := NewStack()
	require.NotNil(t, stack)
	assert.True(t, stack.IsEmpty())
	assert.Nil(t, stack.Current())
	assert.Nil(t, stack.Pop())
	assert.Nil(t, stack.Update(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestStack_PushPop(t *testing.T) {
	stack := NewStack()

	assert.Nil(t, stack.Push(mockOverlay{title: "first"}))
	stack.Push(mockOverlay{title: "second"})

	assert.Equal(t, 2, stack.Len())
	assert.Equal(t, "second", stack.Current().Title())

	popped := stack.Pop()
	require.NotNil(t, popped)
	assert.Equal(t, "second", popped.Title())
	assert.Equal(t, "first", stack.Current().Title())

	stack.Clear()
	assert.True(t, stack.IsEmpty())
}

func TestStack_UpdateReplacesTop(t *testing.T) {
	stack := NewStack()
	stack.Push(mockOverlay{title: "top"})

	stack.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	stack.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})

	top, ok := stack.Current().(mockOverlay)
	require.True(t, ok)
	assert.Equal(t, 2, top.updates, "value overlays are stored back after update")
}

func TestStack_CloseOverlayMsg(t *testing.T) {
	stack := NewStack()
	stack.Push(mockOverlay{title: "bottom"})
	stack.Push(mockOverlay{title: "top"})

	cmd := stack.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, 2, stack.Len(), "the overlay only asks to close")

	assert.Nil(t, stack.Update(cmd()))
	assert.Equal(t, 1, stack.Len())
	assert.Equal(t, "bottom", stack.Current().Title())
}

func TestStack_PushReturnsInit(t *testing.T) {
	stack := NewStack()

	cmd := stack.Push(NewListPrompt(4))

	assert.NotNil(t, cmd, "list prompt starts the cursor blink")
	var _ Overlay = mockOverlay{}
}
