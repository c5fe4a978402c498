// Package engine implements the overlay interaction engine: the registry of
// live explanation overlays, the selection tracker that turns pointer and key
// activity into intents, the fetch coordinator that applies asynchronous
// definitions, the placement rules and the per-overlay action panel.
//
// The engine is host agnostic. It runs on the Bubble Tea update loop: every
// mutation happens inside Controller methods, and every collaborator call is
// returned as a tea.Cmd whose result comes back as a message.
package engine

// Point is a cell position in viewport coordinates
type Point struct {
	X int
	Y int
}

// Size is the measured extent of an overlay or of the viewport
type Size struct {
	Width  int
	Height int
}

// Rect is a bounding rectangle in viewport coordinates
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Bottom returns the first row below the rectangle
func (r Rect) Bottom() int {
	return r.Top + r.Height
}

// Right returns the first column right of the rectangle
func (r Rect) Right() int {
	return r.Left + r.Width
}

// Contains reports whether p falls inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right() && p.Y >= r.Top && p.Y < r.Bottom()
}

// Empty reports whether the rectangle covers no cells
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Position is the top-left corner an overlay is drawn at
type Position struct {
	Left int
	Top  int
}
