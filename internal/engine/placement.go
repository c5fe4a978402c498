package engine

// DefaultMargin is the gap kept between an overlay, its anchor and the viewport edges
const DefaultMargin = 10

// Placer maps an anchor rectangle and a measured overlay size to a position.
//
// Overlays go above the anchor when there is room for them plus the margin,
// otherwise below it. Horizontally they start at the anchor's left edge and
// are pulled back inside the viewport. A placement below the anchor is not
// clamped to the bottom edge unless ClampBottom is set.
type Placer struct {
	Margin      int
	ClampBottom bool
}

// NewPlacer returns a Placer, using DefaultMargin when margin is negative
func NewPlacer(margin int, clampBottom bool) Placer {
	if margin < 0 {
		margin = DefaultMargin
	}
	return Placer{Margin: margin, ClampBottom: clampBottom}
}

// Place computes the final on-screen position
func (p Placer) Place(anchor Rect, size Size, viewport Size) Position {
	margin := p.Margin

	var top int
	if anchor.Top > size.Height+margin {
		top = anchor.Top - size.Height - margin
	} else {
		top = anchor.Bottom() + margin
		if p.ClampBottom && top+size.Height > viewport.Height-margin {
			top = max(viewport.Height-size.Height-margin, margin)
		}
	}

	left := anchor.Left
	if left+size.Width > viewport.Width-margin {
		left = viewport.Width - size.Width - margin
	}
	if left < margin {
		left = margin
	}

	return Position{Left: left, Top: top}
}

// Place runs the default placement rules (DefaultMargin, no bottom clamp)
func Place(anchor Rect, size Size, viewport Size) Position {
	return Placer{Margin: DefaultMargin}.Place(anchor, size, viewport)
}
