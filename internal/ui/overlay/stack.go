package overlay

import tea "github.com/charmbracelet/bubbletea"

// Stack holds the open modal overlays. Only the top one receives input;
// the reader treats a non-empty stack as owning both keyboard and mouse.
type Stack struct {
	open []Overlay
}

// NewStack creates an empty stack
func NewStack() *Stack {
	return &Stack{}
}

// Push opens o above the current overlay and returns its init command
func (s *Stack) Push(o Overlay) tea.Cmd {
	s.open = append(s.open, o)
	return o.Init()
}

// Pop closes the top overlay and returns it, or nil when nothing is open
func (s *Stack) Pop() Overlay {
	o := s.Current()
	if o != nil {
		s.open = s.open[:len(s.open)-1]
	}
	return o
}

// Current returns the top overlay, or nil when nothing is open
func (s *Stack) Current() Overlay {
	if n := len(s.open); n > 0 {
		return s.open[n-1]
	}
	return nil
}

// Len returns the number of open overlays
func (s *Stack) Len() int {
	return len(s.open)
}

// IsEmpty reports whether no overlay is open
func (s *Stack) IsEmpty() bool {
	return len(s.open) == 0
}

// Clear closes every overlay
func (s *Stack) Clear() {
	s.open = nil
}

// Update hands msg to the top overlay. Overlays never close themselves:
// they return CloseOverlayMsg and the stack pops when it comes back.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	top := s.Current()
	if top == nil {
		return nil
	}
	if _, ok := msg.(CloseOverlayMsg); ok {
		s.Pop()
		return nil
	}

	next, cmd := top.Update(msg)
	if o, ok := next.(Overlay); ok {
		s.open[len(s.open)-1] = o
	}
	return cmd
}
