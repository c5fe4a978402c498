package app

import (
	"strings"

	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/overlay"
)

// savedLimit bounds how many saved explanations the saved panel shows
const savedLimit = 200

// findLines returns the rows whose text contains query, case-insensitively
func findLines(lines []string, query string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var rows []int
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), query) {
			rows = append(rows, i)
		}
	}
	return rows
}

// find updates the query and scrolls to the first match at or below the
// current view
func (m *Model) find(query string) {
	m.query = query
	m.matches = findLines(m.lines, query)
	if bar, ok := m.overlayStack.Current().(*overlay.FindBar); ok {
		bar.SetMatches(len(m.matches))
	}

	for _, row := range m.matches {
		if row >= m.scroll {
			m.scrollTo(row)
			return
		}
	}
	if len(m.matches) > 0 {
		m.scrollTo(m.matches[0])
	}
}

// jumpToMatch scrolls to the next (dir > 0) or previous match, wrapping
// around the document
func (m *Model) jumpToMatch(dir int) {
	if len(m.matches) == 0 {
		return
	}
	if dir > 0 {
		for _, row := range m.matches {
			if row > m.scroll {
				m.scrollTo(row)
				return
			}
		}
		m.scrollTo(m.matches[0])
		return
	}
	for i := len(m.matches) - 1; i >= 0; i-- {
		if m.matches[i] < m.scroll {
			m.scrollTo(m.matches[i])
			return
		}
	}
	m.scrollTo(m.matches[len(m.matches)-1])
}

// scrollTo puts row at the top of the view, as far as the document allows
func (m *Model) scrollTo(row int) {
	m.scroll = 0
	m.scrollBy(row)
}
