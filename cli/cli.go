// Package cli provides the plain-text front end of Rising Waters: terminal
// I/O, output formatting, and meta-command dispatch. It is used when stdout
// is not a terminal and for script playback.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/risingwaters/engine"
	"github.com/nathoo/risingwaters/engine/state"
	"github.com/nathoo/risingwaters/loader"
	"github.com/nathoo/risingwaters/types"
)

// Opener builds a fresh engine for another scenario.
type Opener func(id string) (*engine.Engine, error)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Locale    string
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	// Catalog and Open enable /scenario. Both may be nil.
	Catalog []loader.Info
	Open    Opener
	// OnChange is called after the player switches scenario or language.
	OnChange func(scenario, locale string)
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, locale string) *CLI {
	if locale == "" {
		locale = state.DefaultLocale
	}
	return &CLI{
		Engine: eng,
		Locale: locale,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

func (c *CLI) text() Strings {
	return Strings{Defs: c.Engine.Defs, Locale: c.Locale}
}

// Run starts the game loop. It shows the briefing, deals the first event,
// then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	c.welcome()
	if c.Engine.Phase() == types.PhaseLoading {
		result, err := c.Engine.Start()
		if err != nil {
			c.printSystem(c.text().Error(err))
			return
		}
		c.after(result)
	}
	c.show()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if input == "" && c.Engine.State.Step != types.StepTip {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		if c.play(input) {
			c.show()
		}
	}
}

// play feeds one line of input to the engine. It reports whether the
// state moved on.
func (c *CLI) play(input string) bool {
	rep := Play(c.Engine, c.Locale, input)
	for _, line := range rep.Lines {
		c.printLine(line)
	}
	if rep.Err != "" {
		c.printSystem(rep.Err)
	}
	for _, n := range rep.Notices {
		c.printSystem(n)
	}
	if c.Trace && rep.Moved {
		c.printTrace(rep.Result)
	}
	return rep.Moved
}

// after reports side notes of a result and the trace when enabled.
func (c *CLI) after(result types.Result) {
	if Reshuffled(result) {
		c.printSystem(c.text().T("reshuffled", "All events have been played. The deck is reshuffled."))
	}
	if c.Trace {
		c.printTrace(result)
	}
}

func (c *CLI) welcome() {
	for _, line := range c.text().Welcome() {
		c.printLine(line)
	}
	c.printSystem(c.text().T("helpHint", "Type /help for commands."))
}

// show renders whatever the engine is waiting for.
func (c *CLI) show() {
	c.printLine("")
	for _, line := range c.text().Screen(c.Engine.Snapshot(), true) {
		c.printLine(line)
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/lang":
		c.cmdLang(arg)

	case "/scenario":
		c.cmdScenario(arg)

	case "/replay":
		c.cmdReset(c.Engine.Replay)

	case "/restart":
		c.cmdReset(c.Engine.Restart)

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	if h := c.Engine.Defs.Help(c.Locale); h != "" {
		c.printLine(h)
		c.printLine("")
	}
	help := []string{
		"System:",
		"  /help             Show this help",
		"  /lang [code]      Switch language (" + strings.Join(c.Engine.Defs.Locales(), ", ") + ")",
		"  /scenario [id]    List scenarios or switch to one",
		"  /restart          Abandon this game and start over",
		"  /replay           Play again after game over",
		"  /state            Debug: dump current state",
		"  /trace            Toggle debug trace output",
		"  /quit             Exit game",
		"",
		"Playing:",
		"  <number> or name  Pick a response",
		"  <Enter>           Dismiss a tip",
		"  <number>          Answer a quiz",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.Snapshot()
	c.printSystem(fmt.Sprintf("Game: %s (%s)", s.GameID, s.Scenario))
	c.printSystem(fmt.Sprintf("Phase: %s  Step: %s", s.Phase, s.Step))
	c.printSystem(fmt.Sprintf("Round: %d/%d  Deck: %d left", s.Round, s.TotalRounds, s.DeckRemaining))
	c.printSystem(fmt.Sprintf("Metrics: %+v", s.Metrics))
	if s.Event != nil {
		c.printSystem(fmt.Sprintf("Event: %s", s.Event.ID))
	}
	if len(s.Actions) > 0 {
		ids := make([]string, len(s.Actions))
		for i, a := range s.Actions {
			ids[i] = fmt.Sprintf("%s[%s]", a.ID, a.Category)
		}
		c.printSystem(fmt.Sprintf("Pool: %s", strings.Join(ids, " ")))
	}
	c.printSystem(fmt.Sprintf("Quiz answered: %t  Seed: %d", c.Engine.State.QuizAnswered, c.Engine.RNG.Seed()))
}

func (c *CLI) cmdLang(code string) {
	locales := c.Engine.Defs.Locales()
	if code == "" {
		c.printSystem(fmt.Sprintf("Language: %s (available: %s)", c.Locale, strings.Join(locales, ", ")))
		return
	}
	found := false
	for _, l := range locales {
		if l == code {
			found = true
		}
	}
	if !found {
		c.printSystem(fmt.Sprintf("Unknown language %q (available: %s)", code, strings.Join(locales, ", ")))
		return
	}
	c.Locale = code
	c.notify()
	c.show()
}

func (c *CLI) cmdScenario(id string) {
	if id == "" {
		for _, info := range c.Catalog {
			mark := " "
			if info.ID == c.Engine.Defs.Scenario.ID {
				mark = "*"
			}
			c.printLine(fmt.Sprintf(" %s %-20s %s", mark, info.ID, info.Name))
		}
		if c.Open != nil {
			c.printSystem("Type /scenario <id> to switch.")
		}
		return
	}
	if c.Open == nil {
		c.printSystem("Switching scenarios is not available.")
		return
	}
	eng, err := c.Open(id)
	if err != nil {
		c.printSystem(fmt.Sprintf("Error loading scenario: %v", err))
		return
	}
	c.Engine = eng
	c.notify()
	c.welcome()
	result, err := c.Engine.Start()
	if err != nil {
		c.printSystem(c.text().Error(err))
		return
	}
	c.after(result)
	c.show()
}

func (c *CLI) cmdReset(reset func() (types.Result, error)) {
	result, err := reset()
	if err != nil {
		c.printSystem(c.text().Error(err))
		return
	}
	c.after(result)
	c.show()
}

func (c *CLI) notify() {
	if c.OnChange != nil {
		c.OnChange(c.Engine.Defs.Scenario.ID, c.Locale)
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
