package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlace(t *testing.T) {
	viewport := Size{Width: 1000, Height: 800}

	tests := []struct {
		name   string
		anchor Rect
		size   Size
		want   Position
	}{
		{
			name:   "no room above places below",
			anchor: Rect{Left: 100, Top: 5, Width: 50, Height: 20},
			size:   Size{Width: 300, Height: 100},
			want:   Position{Left: 100, Top: 35},
		},
		{
			name:   "room above places above",
			anchor: Rect{Left: 100, Top: 200, Width: 50, Height: 20},
			size:   Size{Width: 300, Height: 100},
			want:   Position{Left: 100, Top: 90},
		},
		{
			name:   "exactly height plus margin is not enough room",
			anchor: Rect{Left: 100, Top: 110, Width: 50, Height: 20},
			size:   Size{Width: 300, Height: 100},
			want:   Position{Left: 100, Top: 140},
		},
		{
			name:   "negative left clamps to margin",
			anchor: Rect{Left: -5, Top: 200, Width: 50, Height: 20},
			size:   Size{Width: 300, Height: 100},
			want:   Position{Left: 10, Top: 90},
		},
		{
			name:   "right overflow clamps to viewport edge",
			anchor: Rect{Left: 900, Top: 200, Width: 50, Height: 20},
			size:   Size{Width: 300, Height: 100},
			want:   Position{Left: 690, Top: 90},
		},
		{
			name:   "wider than viewport falls back to margin",
			anchor: Rect{Left: 400, Top: 200, Width: 50, Height: 20},
			size:   Size{Width: 1200, Height: 100},
			want:   Position{Left: 10, Top: 90},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Place(tt.anchor, tt.size, viewport))
		})
	}
}

func TestPlacer_BelowOverflow(t *testing.T) {
	anchor := Rect{Left: 10, Top: 50, Width: 5, Height: 1}
	size := Size{Width: 30, Height: 60}
	viewport := Size{Width: 100, Height: 80}

	t.Run("unclamped by default", func(t *testing.T) {
		pos := NewPlacer(DefaultMargin, false).Place(anchor, size, viewport)
		assert.Equal(t, 61, pos.Top)
	})

	t.Run("clamped when enabled", func(t *testing.T) {
		pos := NewPlacer(DefaultMargin, true).Place(anchor, size, viewport)
		assert.Equal(t, 10, pos.Top)
	})
}

func TestNewPlacer_NegativeMarginUsesDefault(t *testing.T) {
	p := NewPlacer(-1, false)
	assert.Equal(t, DefaultMargin, p.Margin)
}

func TestRect_Contains(t *testing.T) {
	r := Rect{Left: 2, Top: 3, Width: 4, Height: 2}

	assert.True(t, r.Contains(Point{X: 2, Y: 3}))
	assert.True(t, r.Contains(Point{X: 5, Y: 4}))
	assert.False(t, r.Contains(Point{X: 6, Y: 4}))
	assert.False(t, r.Contains(Point{X: 2, Y: 5}))
	assert.False(t, Rect{}.Contains(Point{}))
}
