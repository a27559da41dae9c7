package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/storyseed/engine/state"
)

var phaseCase = cases.Title(language.English)

// renderStatusBar produces a full-width inverted status line showing the
// arc phase, tension, completion and turn.
func (m Model) renderStatusBar() string {
	left, right := m.statusText()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

func (m Model) statusText() (left, right string) {
	s := m.game.Session()
	if s == nil {
		return " storyseed", ""
	}

	left = fmt.Sprintf(" %s | Tension %.0f", phaseCase.String(string(s.Arc.Phase)), s.Arc.Tension)
	if s.Ended {
		right = fmt.Sprintf("Ended | T:%d ", s.ChoiceCount)
	} else {
		right = fmt.Sprintf("%.0f%% | T:%d ", s.Arc.Completion, state.Turn(s))
	}
	if m.busy {
		right = "… " + right
	}
	return left, right
}
