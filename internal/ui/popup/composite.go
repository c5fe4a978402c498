package popup

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Composite draws box over base with its top-left corner at (left, top).
// base is not modified; rows and columns outside base are clipped.
func Composite(base []string, box string, left, top int) []string {
	out := make([]string, len(base))
	copy(out, base)

	for i, line := range strings.Split(box, "\n") {
		row := top + i
		if row < 0 || row >= len(out) {
			continue
		}
		out[row] = splice(out[row], line, left)
	}
	return out
}

// splice replaces the cells of under starting at col with over
func splice(under, over string, col int) string {
	if col < 0 {
		over = ansi.TruncateLeft(over, -col, "")
		col = 0
	}

	head := ansi.Truncate(under, col, "")
	if w := ansi.StringWidth(head); w < col {
		head += strings.Repeat(" ", col-w)
	}
	tail := ansi.TruncateLeft(under, col+ansi.StringWidth(over), "")

	// reset so the popup's styles do not bleed into the tail
	return head + "\x1b[0m" + over + "\x1b[0m" + tail
}
