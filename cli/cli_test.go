package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/risingwaters/engine"
	"github.com/nathoo/risingwaters/engine/state"
	"github.com/nathoo/risingwaters/loader"
	"github.com/nathoo/risingwaters/types"
)

func loc(en, vi string) types.Localized {
	l := types.Localized{"en": en}
	if vi != "" {
		l["vi"] = vi
	}
	return l
}

func testQuiz() *types.QuizDef {
	return &types.QuizDef{
		Question:      loc("Where should you go when water rises?", ""),
		Options:       []types.Localized{loc("Stay put", ""), loc("Move to high ground", ""), loc("Swim", "")},
		CorrectAnswer: 1,
	}
}

// testDefs returns a three-round scenario for CLI testing.
func testDefs(id string) *state.Defs {
	return state.NewDefs(types.Scenario{
		ID: id,
		InitialState: types.InitialState{
			Safety: 70, Infrastructure: 70, Morale: 70, ResourcePoints: 50, TotalRounds: 3,
		},
		WinCondition: types.WinCondition{MinSafety: 50, MinInfrastructure: 50},
		Events: []types.EventDef{
			{
				ID: "event_heavy_rain", Icon: "🌧️",
				Title:       loc("Heavy Rain", "Mưa lớn"),
				Description: loc("It keeps raining.", ""),
				Tip:         loc("Clear the drains.", ""),
				Effects:     map[string]int{"safety": -5, "morale": -3},
				Quiz:        testQuiz(),
			},
			{
				ID: "event_dike_breach", Icon: "🌊",
				Title:       loc("Dike Breach", ""),
				Description: loc("The dike gave way.", ""),
				Tip:         loc("Move early.", ""),
				Effects:     map[string]int{"infrastructure": -10},
				Quiz:        testQuiz(),
			},
		},
		Actions: []types.ActionDef{
			{ID: "sandbags", Title: loc("Fill sandbags", "Đắp bao cát"), Category: types.CategoryPrepare, Effects: map[string]int{"safety": 10, "resourcePoints": -5}},
			{ID: "repair", Title: loc("Repair dikes", ""), Category: types.CategoryRecover, Effects: map[string]int{"infrastructure": 10, "resourcePoints": -5}, Cost: 5},
			{ID: "relocate", Title: loc("Relocate families", ""), Category: types.CategoryDefend, Effects: map[string]int{"safety": 5, "morale": -2}},
			{ID: "warn", Title: loc("Sound the warning", ""), Category: types.CategoryPrepare, Effects: map[string]int{"morale": 3}},
			{ID: "do_nothing", Title: loc("Do nothing", ""), Category: types.CategoryRisk, Effects: map[string]int{"safety": -5}},
		},
		I18n: map[string]map[string]string{
			"en": {"round": "Round", "welcomeTitle": "Test Flood"},
			"vi": {"round": "Lượt", "chooseAction": "Chọn hành động:"},
		},
		HelpText: map[string]string{"en": "Keep the town safe."},
	})
}

func testEngine(t *testing.T, id string, quizChance float64) *engine.Engine {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Seed = 42
	opts.QuizChance = quizChance
	eng, err := engine.New(testDefs(id), opts)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return eng
}

func newTestCLI(t *testing.T, input string, quizChance float64) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := New(testEngine(t, "test", quizChance), "en")
	c.In = strings.NewReader(input)
	c.Out = &out
	return c, &out
}

func TestCLI_WelcomeAndFirstRound(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n", 0)
	c.Run()

	output := out.String()
	for _, want := range []string{"Test Flood", "Type /help", "Round 1/3", "Choose your response:", "  1) ", "  4) ", "Goodbye."} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if c.Engine.Phase() != types.PhasePlaying {
		t.Errorf("phase = %s, want playing", c.Engine.Phase())
	}
}

func TestCLI_EventCardShowsImpact(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n", 0)
	c.Run()

	ev := c.Engine.State.CurrentEvent
	output := out.String()
	if !strings.Contains(output, ev.Icon+" "+ev.Title["en"]) {
		t.Errorf("expected event title in output:\n%s", output)
	}
	if !strings.Contains(output, "Expected impact: ") {
		t.Errorf("expected impact badges in output:\n%s", output)
	}
}

func TestCLI_ActionThenTip(t *testing.T) {
	c, out := newTestCLI(t, "1\n\n/quit\n", 0)
	c.Run()

	output := out.String()
	if !strings.Contains(output, "→ ") {
		t.Error("expected chosen action echo")
	}
	if !strings.Contains(output, "💡 Tip: ") {
		t.Error("expected tip after the action")
	}
	if !strings.Contains(output, "Round 2/3") {
		t.Errorf("expected round 2 after acknowledging the tip:\n%s", output)
	}
}

func TestCLI_PlaythroughToGameOver(t *testing.T) {
	c, out := newTestCLI(t, "1\n\n1\n\n1\n\n", 0)
	c.Run()

	if c.Engine.Phase() != types.PhaseGameOver {
		t.Fatalf("phase = %s, want gameOver", c.Engine.Phase())
	}
	output := out.String()
	for _, want := range []string{"Game Over", "Score: ", "Rank: ", "/replay"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	// Two events over three rounds: the deck refills once.
	if !strings.Contains(output, "reshuffled") {
		t.Error("expected reshuffle notice")
	}
}

func TestCLI_ReplayAfterGameOver(t *testing.T) {
	c, out := newTestCLI(t, "1\n\n1\n\n1\n\nmaybe\ny\n/quit\n", 0)
	c.Run()

	if c.Engine.Phase() != types.PhasePlaying || c.Engine.State.Round != 1 {
		t.Fatalf("phase/round = %s/%d, want playing/1", c.Engine.Phase(), c.Engine.State.Round)
	}
	if n := strings.Count(out.String(), "Round 1/3"); n != 2 {
		t.Errorf("Round 1/3 shown %d times, want 2", n)
	}
}

func TestCLI_ReplayMidGameRejected(t *testing.T) {
	c, out := newTestCLI(t, "/replay\n/quit\n", 0)
	c.Run()

	if !strings.Contains(out.String(), "not expected right now") {
		t.Errorf("expected wrong-step message:\n%s", out.String())
	}
}

func TestCLI_Restart(t *testing.T) {
	c, _ := newTestCLI(t, "1\n\n/restart\n/quit\n", 0)
	first := c.Engine.State.GameID
	c.Run()

	if c.Engine.State.Round != 1 {
		t.Errorf("round = %d, want 1 after restart", c.Engine.State.Round)
	}
	if c.Engine.State.GameID == first {
		t.Error("restart should start a new game id")
	}
	if c.Engine.State.Metrics.ResourcePoints != 50 {
		t.Errorf("metrics not reset: %+v", c.Engine.State.Metrics)
	}
}

func TestCLI_NotEnoughResources(t *testing.T) {
	c, out := newTestCLI(t, "1\n/quit\n", 0)
	if _, err := c.Engine.Start(); err != nil {
		t.Fatal(err)
	}
	c.Engine.State.ActionPool[0] = types.ActionDef{
		ID: "levee", Title: loc("Build a levee", ""), Category: types.CategoryDefend,
		Effects: map[string]int{"infrastructure": 30, "resourcePoints": -100},
	}
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Not enough Resource Points! Need 100, have 50.") {
		t.Errorf("expected RP message:\n%s", output)
	}
	if c.Engine.State.Step != types.StepAction {
		t.Errorf("step = %s, want action", c.Engine.State.Step)
	}
}

func TestCLI_UnknownAction(t *testing.T) {
	c, out := newTestCLI(t, "fly away\n9\n/quit\n", 0)
	c.Run()

	if n := strings.Count(out.String(), "not available this round"); n != 2 {
		t.Errorf("unknown action message shown %d times, want 2", n)
	}
}

func TestCLI_Quiz(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
		rp     int
	}{
		{"correct", "2", "Correct! +2 Resource Points.", 2},
		{"wrong", "1", "The right answer was: Move to high ground", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI(t, "do nothing\n\n"+tt.answer+"\n/quit\n", 1)
			c.Run()

			output := out.String()
			if !strings.Contains(output, "Quick quiz") {
				t.Fatalf("expected quiz:\n%s", output)
			}
			if !strings.Contains(output, tt.want) {
				t.Errorf("expected %q:\n%s", tt.want, output)
			}
			// do_nothing costs nothing, so RP moves only by the bonus.
			if got := c.Engine.State.Metrics.ResourcePoints; got != 50+tt.rp {
				t.Errorf("RP = %d, want %d", got, 50+tt.rp)
			}
			if c.Engine.State.Step != types.StepAction {
				t.Errorf("step = %s, want action after the quiz", c.Engine.State.Step)
			}
		})
	}
}

func TestCLI_QuizRejectsBadAnswer(t *testing.T) {
	c, out := newTestCLI(t, "1\n\nabc\n7\n/quit\n", 1)
	c.Run()

	if n := strings.Count(out.String(), "Pick one of the listed answers."); n != 2 {
		t.Errorf("bad answer message shown %d times, want 2:\n%s", n, out.String())
	}
	if c.Engine.State.Step != types.StepQuiz {
		t.Errorf("step = %s, want quiz", c.Engine.State.Step)
	}
}

func TestCLI_MetaCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"help", "/help\n", "Keep the town safe."},
		{"help lists commands", "/help\n", "/lang [code]"},
		{"state", "/state\n", "Phase: playing  Step: action"},
		{"state seed", "/state\n", "Seed: 42"},
		{"trace on", "/trace\n", "Trace output enabled."},
		{"trace events", "/trace\n1\n", "[trace]   action_taken"},
		{"unknown", "/dance\n", "Unknown command: /dance"},
		{"lang list", "/lang\n", "available: en, vi"},
		{"lang unknown", "/lang fr\n", "Unknown language \"fr\""},
		{"lang switch", "/lang vi\n", "Chọn hành động:"},
		{"scenario without opener", "/scenario other\n", "not available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI(t, tt.input+"/quit\n", 0)
			c.Run()
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestCLI_LangSwitchNotifies(t *testing.T) {
	c, out := newTestCLI(t, "/lang vi\n/quit\n", 0)
	var gotScenario, gotLocale string
	c.OnChange = func(s, l string) { gotScenario, gotLocale = s, l }
	c.Run()

	if gotScenario != "test" || gotLocale != "vi" {
		t.Errorf("OnChange(%q, %q), want (test, vi)", gotScenario, gotLocale)
	}
	if !strings.Contains(out.String(), "Lượt 1/3") {
		t.Errorf("expected Vietnamese round header:\n%s", out.String())
	}
}

func TestCLI_ScenarioSwitch(t *testing.T) {
	c, out := newTestCLI(t, "/scenario\n/scenario nope\n/scenario other\n/quit\n", 0)
	c.Catalog = []loader.Info{{ID: "other", Name: "Other"}, {ID: "test", Name: "Test"}}
	c.Open = func(id string) (*engine.Engine, error) {
		if id != "other" {
			return nil, errors.New("scenario not found")
		}
		return testEngine(t, id, 0), nil
	}
	var changed string
	c.OnChange = func(s, _ string) { changed = s }
	c.Run()

	output := out.String()
	if !strings.Contains(output, " * test") {
		t.Errorf("expected current scenario marked:\n%s", output)
	}
	if !strings.Contains(output, "Error loading scenario: scenario not found") {
		t.Errorf("expected load error:\n%s", output)
	}
	if c.Engine.Defs.Scenario.ID != "other" || changed != "other" {
		t.Errorf("scenario = %s, changed = %q", c.Engine.Defs.Scenario.ID, changed)
	}
	if c.Engine.Phase() != types.PhasePlaying {
		t.Errorf("new scenario should be started, phase = %s", c.Engine.Phase())
	}
}

func TestCLI_ScriptEcho(t *testing.T) {
	c, out := newTestCLI(t, "# a comment\n/state\n/quit\n", 0)
	c.EchoInput = true
	c.Run()

	output := out.String()
	if strings.Contains(output, "a comment") {
		t.Error("comment lines should be skipped")
	}
	if !strings.Contains(output, "> /state\n") {
		t.Errorf("expected echoed input:\n%s", output)
	}
}

func TestCLI_EOF(t *testing.T) {
	c, _ := newTestCLI(t, "", 0)
	c.Run() // must return without /quit
	if c.Engine.Phase() != types.PhasePlaying {
		t.Errorf("phase = %s", c.Engine.Phase())
	}
}
