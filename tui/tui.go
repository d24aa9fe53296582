package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/risingwaters/cli"
	"github.com/nathoo/risingwaters/engine"
	"github.com/nathoo/risingwaters/engine/state"
	"github.com/nathoo/risingwaters/loader"
	"github.com/nathoo/risingwaters/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Options configure a TUI session.
type Options struct {
	Locale string
	Trace  bool
	// Catalog and Open enable /scenario. Both may be nil.
	Catalog []loader.Info
	Open    cli.Opener
	// OnChange is called after the player switches scenario or language.
	OnChange func(scenario, locale string)
}

// Model is the Bubble Tea model for the Rising Waters TUI.
type Model struct {
	engine   *engine.Engine
	locale   string
	catalog  []loader.Info
	open     cli.Opener
	onChange func(scenario, locale string)

	viewport viewport.Model
	input    textinput.Model
	history  *History
	bars     [3]progress.Model

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
}

// gameOutputMsg carries output produced outside Update into the loop.
type gameOutputMsg struct {
	lines []rawLine
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	locale := opts.Locale
	if locale == "" {
		locale = state.DefaultLocale
	}
	return Model{
		engine:   eng,
		locale:   locale,
		catalog:  opts.Catalog,
		open:     opts.Open,
		onChange: opts.OnChange,
		input:    ti,
		history:  NewHistory(100),
		bars:     newMeterBars(),
		trace:    opts.Trace,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, opts Options) error {
	m := New(eng, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) text() cli.Strings {
	return cli.Strings{Defs: m.engine.Defs, Locale: m.locale}
}

// Init returns the initial command that shows the briefing and deals the
// first event.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		return gameOutputMsg{lines: m.begin()}
	}
}

// begin starts the game if needed and renders the briefing and first screen.
func (m Model) begin() []rawLine {
	t := m.text()
	lines := narrative(t.Welcome()...)
	lines = append(lines, system(t.T("helpHint", "Type /help for commands."))...)
	if m.engine.Phase() == types.PhaseLoading {
		result, err := m.engine.Start()
		if err != nil {
			return append(lines, errorLine(t.Error(err)))
		}
		if m.trace {
			lines = append(lines, narrative(formatTrace(result)...)...)
		}
	}
	return append(lines, m.screen()...)
}

func (m Model) screen() []rawLine {
	return append([]rawLine{{}}, narrative(m.text().Screen(m.engine.Snapshot(), false)...)...)
}

func narrative(lines ...string) []rawLine {
	out := make([]rawLine, len(lines))
	for i, l := range lines {
		out[i] = rawLine{text: l, kind: classifyLine(l)}
	}
	return out
}

func system(lines ...string) []rawLine {
	out := make([]rawLine, len(lines))
	for i, l := range lines {
		out[i] = rawLine{text: l, kind: kindSystem, isSystem: true}
	}
	return out
}

func errorLine(text string) rawLine {
	return rawLine{text: text, kind: kindError}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 - meterRows // status bar + input line + meters
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput("", msg.lines)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line. An empty line only counts
// while a tip is waiting to be dismissed.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" && m.engine.State.Step != types.StepTip {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(input, output)
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	rep := cli.Play(m.engine, m.locale, input)
	output := narrative(rep.Lines...)
	if rep.Err != "" {
		output = append(output, errorLine(rep.Err))
	}
	output = append(output, system(rep.Notices...)...)
	if rep.Moved {
		if m.trace {
			output = append(output, narrative(formatTrace(rep.Result)...)...)
		}
		output = append(output, m.screen()...)
	}
	m = m.appendOutput(input, output)
	return m, nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(input string, lines []rawLine) Model {
	if input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: input, isInput: true})
	}
	m.rawLines = append(m.rawLines, lines...)

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, styledPlayerInput(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeader:
		return styleHeader.Render(line)
	case kindImpact:
		return styleImpact.Render(line)
	case kindOption:
		return styledOption(line)
	case kindTip:
		return styleTip.Render(line)
	case kindQuiz:
		return styleQuiz.Render(line)
	case kindChoice:
		return styleChoice.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// wordWrap wraps text to fit within the given display width, breaking at
// word boundaries. Leading indentation is repeated on continuation lines.
func wordWrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}

	body := strings.TrimLeft(text, " ")
	indent := text[:len(text)-len(body)]
	avail := width - len(indent)
	if avail < 1 {
		indent, avail = "", width
	}

	var result strings.Builder
	words := strings.Fields(body)
	lineLen := 0

	for i, word := range words {
		wLen := lipgloss.Width(word)

		if i == 0 {
			result.WriteString(indent)
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > avail {
			result.WriteString("\n")
			result.WriteString(indent)
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + meters + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderMeters() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]rawLine, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return system("Goodbye."), true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return system(m.cmdState()...), false

	case "/lang":
		return m.cmdLang(arg), false

	case "/scenario":
		return m.cmdScenario(arg), false

	case "/replay":
		return m.cmdReset(m.engine.Replay), false

	case "/restart":
		return m.cmdReset(m.engine.Restart), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return system("Trace output enabled."), false
		}
		return system("Trace output disabled."), false

	default:
		return system(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)), false
	}
}

func (m *Model) cmdHelp() []rawLine {
	var out []rawLine
	if h := m.engine.Defs.Help(m.locale); h != "" {
		out = append(out, narrative(h, "")...)
	}
	return append(out, narrative(
		"System:",
		"  /help             Show this help",
		"  /lang [code]      Switch language ("+strings.Join(m.engine.Defs.Locales(), ", ")+")",
		"  /scenario [id]    List scenarios or switch to one",
		"  /restart          Abandon this game and start over",
		"  /replay           Play again after game over",
		"  /state            Debug: dump current state",
		"  /trace            Toggle debug trace output",
		"  /quit             Exit game",
		"",
		"Playing:",
		"  Type a number or a response name, Enter to dismiss a tip,",
		"  and a number to answer a quiz.",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for input history",
	)...)
}

func (m *Model) cmdState() []string {
	s := m.engine.Snapshot()
	output := []string{
		fmt.Sprintf("Game: %s (%s)", s.GameID, s.Scenario),
		fmt.Sprintf("Phase: %s  Step: %s", s.Phase, s.Step),
		fmt.Sprintf("Round: %d/%d  Deck: %d left", s.Round, s.TotalRounds, s.DeckRemaining),
		fmt.Sprintf("Metrics: %+v", s.Metrics),
	}
	if s.Event != nil {
		output = append(output, fmt.Sprintf("Event: %s", s.Event.ID))
	}
	if len(s.Actions) > 0 {
		ids := make([]string, len(s.Actions))
		for i, a := range s.Actions {
			ids[i] = fmt.Sprintf("%s[%s]", a.ID, a.Category)
		}
		output = append(output, fmt.Sprintf("Pool: %s", strings.Join(ids, " ")))
	}
	return append(output, fmt.Sprintf("Seed: %d", m.engine.RNG.Seed()))
}

func (m *Model) cmdLang(code string) []rawLine {
	locales := m.engine.Defs.Locales()
	if code == "" {
		return system(fmt.Sprintf("Language: %s (available: %s)", m.locale, strings.Join(locales, ", ")))
	}
	for _, l := range locales {
		if l == code {
			m.locale = code
			m.notify()
			return m.screen()
		}
	}
	return system(fmt.Sprintf("Unknown language %q (available: %s)", code, strings.Join(locales, ", ")))
}

func (m *Model) cmdScenario(id string) []rawLine {
	if id == "" {
		var out []rawLine
		for _, info := range m.catalog {
			mark := " "
			if info.ID == m.engine.Defs.Scenario.ID {
				mark = "*"
			}
			out = append(out, rawLine{text: fmt.Sprintf(" %s %-20s %s", mark, info.ID, info.Name)})
		}
		if m.open != nil {
			out = append(out, system("Type /scenario <id> to switch.")...)
		}
		return out
	}
	if m.open == nil {
		return system("Switching scenarios is not available.")
	}
	eng, err := m.open(id)
	if err != nil {
		return []rawLine{errorLine(fmt.Sprintf("Error loading scenario: %v", err))}
	}
	m.engine = eng
	m.notify()
	return m.begin()
}

func (m *Model) cmdReset(reset func() (types.Result, error)) []rawLine {
	result, err := reset()
	if err != nil {
		return []rawLine{errorLine(m.text().Error(err))}
	}
	var out []rawLine
	if m.trace {
		out = narrative(formatTrace(result)...)
	}
	return append(out, m.screen()...)
}

func (m *Model) notify() {
	if m.onChange != nil {
		m.onChange(m.engine.Defs.Scenario.ID, m.locale)
	}
}

func formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
