package overlay

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/styles"
)

func TestNewStyles(t *testing.T) {
	s := New()
	require.NotNil(t, s)

	tests := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Title", s.Title},
		{"Category", s.Category},
		{"MenuItem", s.MenuItem},
		{"MenuKey", s.MenuKey},
		{"Footer", s.Footer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.style.Render("test"))
		})
	}
}

func TestStyles_Colors(t *testing.T) {
	s := New()

	assert.Equal(t, styles.Yellow, s.MenuKey.GetForeground())
	assert.Equal(t, styles.Blue, s.Category.GetForeground())
	assert.True(t, s.Title.GetBold())
}
