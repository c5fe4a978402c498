package engine

import "fmt"

// LoadingText is the placeholder body shown while a definition is in flight
const LoadingText = "Loading..."

// ID identifies an overlay instance for its whole lifetime. IDs are never reused.
type ID uint64

// String returns the string representation of the ID
func (id ID) String() string {
	return fmt.Sprintf("ov-%d", id)
}

// Instance is one anchored floating panel.
// Instances are owned by the Registry and only mutated on the update loop.
type Instance struct {
	ID            ID
	Anchor        Rect
	SourceText    string
	StackPriority int
	State         State

	// Content is the body text: the placeholder, the definition or the failure text
	Content  string
	Position Position
	Size     Size

	// ClickOriginInside is set by pointer-down and consumed by the next pointer-up
	ClickOriginInside bool

	// ModelID and PromptContent are the user's current picks; empty means backend default
	ModelID       string
	PromptContent string

	Panel *ActionPanel

	promptOpen bool
	generation uint64
}

// Interacting reports whether the interaction lock is held: a redefinition is
// in flight or a blocking prompt is open. Locked instances survive outside clicks.
func (i *Instance) Interacting() bool {
	return i.State == StateInteracting || i.promptOpen
}

// PromptOpen reports whether a blocking prompt is open for this instance
func (i *Instance) PromptOpen() bool {
	return i.promptOpen
}

// Bounds returns the isolated boundary of the instance on screen
func (i *Instance) Bounds() Rect {
	return Rect{
		Left:   i.Position.Left,
		Top:    i.Position.Top,
		Width:  i.Size.Width,
		Height: i.Size.Height,
	}
}

// Generation returns the number of fetches issued for this instance
func (i *Instance) Generation() uint64 {
	return i.generation
}
