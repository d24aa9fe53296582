package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("24")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	styleImpact = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleOption = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleOptionNumber = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	styleTip = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleQuiz = lipgloss.NewStyle().
			Foreground(lipgloss.Color("177")).
			Bold(true)

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleMeterLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))
)

// Meter fill colors by level.
const (
	colorMeterLow  = "#d7005f"
	colorMeterMid  = "#ffaf00"
	colorMeterHigh = "#00af5f"
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindHeader
	kindImpact
	kindOption
	kindTip
	kindQuiz
	kindChoice
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "── "):
		return kindHeader
	case strings.HasPrefix(line, "⚠ "):
		return kindImpact
	case strings.HasPrefix(line, "💡"):
		return kindTip
	case strings.HasPrefix(line, "❓"):
		return kindQuiz
	case strings.HasPrefix(line, "→ "):
		return kindChoice
	case isOption(line):
		return kindOption
	default:
		return kindNarrative
	}
}

// isOption matches numbered list entries: "  3) Evacuate".
func isOption(line string) bool {
	rest := strings.TrimLeft(line, " ")
	if len(rest) == len(line) {
		return false
	}
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	return i > 0 && strings.HasPrefix(rest[i:], ") ")
}

// styledOption renders "  3) Evacuate" with the number highlighted.
func styledOption(line string) string {
	idx := strings.Index(line, ") ")
	if idx < 0 {
		return styleOption.Render(line)
	}
	return styleOptionNumber.Render(line[:idx+1]) + styleOption.Render(line[idx+1:])
}

// styledPlayerInput renders the echoed player input with "> " prefix.
func styledPlayerInput(input string) string {
	return stylePlayerInput.Render("> " + input)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
