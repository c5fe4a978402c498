package statusbar

import "github.com/13pathak/AI-Popup-Infopedia/internal/types"

// GetHints returns the keybinding hints for the given mode
func GetHints(mode types.Mode) string {
	switch mode {
	case types.ModeRead:
		return "drag: select  m/p/l: pickers  s: save  v: voice  /: find  H: saved  ?: help  q: quit"
	case types.ModeSelect:
		return "release to explain"
	case types.ModeInput:
		return "Enter: confirm  Esc: cancel"
	default:
		return ""
	}
}
