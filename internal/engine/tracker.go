package engine

import "strings"

// Word count bounds for a selection to open an overlay
const (
	MinWords        = 1
	DefaultMaxWords = 6
)

// Surface is the host side of selection tracking: it reports what is
// currently selected on the page and inside each overlay.
type Surface interface {
	// HostSelection returns the selection on the host document
	HostSelection() Selection
	// NestedSelection returns the selection inside the overlay's own content
	NestedSelection(id ID) Selection
}

// WordCount counts whitespace separated words in text
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Tracker classifies pointer and key activity into intents.
// It keeps no state of its own; click-origin flags live on the instances.
type Tracker struct {
	registry *Registry
	maxWords int
}

// NewTracker creates a tracker over the given registry
func NewTracker(registry *Registry, maxWords int) *Tracker {
	if maxWords < MinWords {
		maxWords = DefaultMaxWords
	}
	return &Tracker{registry: registry, maxWords: maxWords}
}

// Accepts reports whether a selection's text is short enough to explain
func (t *Tracker) Accepts(text string) bool {
	n := WordCount(text)
	return n >= MinWords && n <= t.maxWords
}

// PointerUp inspects, in priority order, nested selections inside overlays
// (top-most first), in-overlay interaction and finally the host selection.
func (t *Tracker) PointerUp(s Surface) Intent {
	overlays := t.registry.All()

	for i := len(overlays) - 1; i >= 0; i-- {
		sel := s.NestedSelection(overlays[i].ID)
		sel.Text = strings.TrimSpace(sel.Text)
		if sel.Text == "" {
			continue
		}
		if !t.Accepts(sel.Text) {
			// the top-most nested selection wins even when it is too long
			break
		}
		for _, inst := range overlays {
			inst.ClickOriginInside = false
		}
		return Intent{Kind: IntentReselectNested, Selection: sel, Owner: overlays[i].ID}
	}

	var inside *Instance
	for i := len(overlays) - 1; i >= 0; i-- {
		if overlays[i].ClickOriginInside {
			overlays[i].ClickOriginInside = false
			if inside == nil {
				inside = overlays[i]
			}
		}
	}
	if inside != nil {
		return Intent{Kind: IntentInteractInside, Target: inside.ID}
	}

	sel := s.HostSelection()
	sel.Text = strings.TrimSpace(sel.Text)
	if !t.Accepts(sel.Text) {
		// an empty selection is not evidence of an outside click
		return Intent{Kind: IntentNone}
	}
	if top := t.registry.Top(); top != nil && top.SourceText == sel.Text {
		return Intent{Kind: IntentNone}
	}
	return Intent{Kind: IntentOpen, Selection: sel}
}

// PointerDown hit-tests every overlay's boundary and records where the
// gesture started. Overlays are siblings, so only the top-most hit counts.
func (t *Tracker) PointerDown(p Point) Intent {
	overlays := t.registry.All()

	var hit *Instance
	for i := len(overlays) - 1; i >= 0; i-- {
		inst := overlays[i]
		if hit == nil && inst.Bounds().Contains(p) {
			hit = inst
			inst.ClickOriginInside = true
			continue
		}
		inst.ClickOriginInside = false
	}

	if hit == nil && len(overlays) > 0 {
		return Intent{Kind: IntentDismissAll}
	}
	return Intent{Kind: IntentNone}
}

// Key classifies a key press. Escape dismisses the top-most overlay.
func (t *Tracker) Key(key string) Intent {
	if key != "esc" {
		return Intent{Kind: IntentNone}
	}
	top := t.registry.Top()
	if top == nil {
		return Intent{Kind: IntentNone}
	}
	return Intent{Kind: IntentDismissOne, Target: top.ID}
}

// Trigger opens an overlay for the current host selection on explicit request.
// The duplicate guard does not apply; the word bound does.
func (t *Tracker) Trigger(s Surface) Intent {
	sel := s.HostSelection()
	sel.Text = strings.TrimSpace(sel.Text)
	if !t.Accepts(sel.Text) {
		return Intent{Kind: IntentNone}
	}
	return Intent{Kind: IntentOpen, Selection: sel}
}
