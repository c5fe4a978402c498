// Package types contains shared types used across the reader UI.
package types

// Mode represents what the reader is currently doing with input
type Mode int

const (
	// ModeRead is plain reading: keys scroll and drive the top popup
	ModeRead Mode = iota
	// ModeSelect is active while the mouse is dragging out a selection
	ModeSelect
	// ModeInput is active while a modal prompt owns the keyboard
	ModeInput
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "READ"
	case ModeSelect:
		return "SELECT"
	case ModeInput:
		return "INPUT"
	default:
		return "UNKNOWN"
	}
}
