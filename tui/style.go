package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/storyseed/play"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// renderLine wraps and styles one output line by kind. System messages are
// bracketed in gray; info and trace lines keep their layout.
func renderLine(text string, kind play.Kind, width int) string {
	switch kind {
	case play.KindChoice:
		return styleChoice.Render(wordwrap.String(text, width))
	case play.KindInfo:
		return styleInfo.Render(text)
	case play.KindSystem:
		return styleSystem.Render(wordwrap.String("["+text+"]", width))
	case play.KindError:
		return styleError.Render(wordwrap.String(text, width))
	case play.KindTrace:
		return styleTrace.Render(text)
	default:
		return styleNarration.Render(wordwrap.String(text, width))
	}
}
