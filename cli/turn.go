package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/risingwaters/engine"
	"github.com/nathoo/risingwaters/loader"
	"github.com/nathoo/risingwaters/types"
)

// Reply is what one line of player input produced.
type Reply struct {
	Lines   []string // narrative feedback
	Notices []string // system messages
	Err     string   // rejected input, already localized
	Result  types.Result
	Moved   bool // the engine advanced and the screen should be redrawn
}

// Play feeds one line of input to the engine for the step it waits on:
// an action while choosing, anything while a tip is shown, an option number
// during a quiz, and yes/replay after game over.
func Play(eng *engine.Engine, locale, input string) Reply {
	t := Strings{Defs: eng.Defs, Locale: locale}
	snap := eng.Snapshot()

	var (
		rep Reply
		err error
	)
	switch {
	case snap.Phase == types.PhaseGameOver:
		if !isYes(input) {
			rep.Notices = append(rep.Notices, t.T("playAgain", "Type /replay to play again or /quit to exit."))
			return rep
		}
		rep.Result, err = eng.Replay()

	case snap.Step == types.StepAction:
		m := MatchAction(input, snap.Actions, locale)
		if m.ID == "" {
			if len(m.Candidates) > 0 {
				rep.Err = fmt.Sprintf("%s %s?", t.T("didYouMean", "Did you mean"), strings.Join(m.Candidates, ", "))
			} else {
				rep.Err = t.T("unknownAction", "That response is not available this round.")
			}
			return rep
		}
		rep.Result, err = eng.SelectAction(m.ID)
		if err == nil && eng.State.LastAction != nil {
			a := eng.State.LastAction
			line := "→ " + t.L(a.Title)
			if b := t.Badges(a.Effects); len(b) > 0 {
				line += ": " + strings.Join(b, ", ")
			}
			rep.Lines = append(rep.Lines, line)
		}

	case snap.Step == types.StepTip:
		rep.Result, err = eng.AcknowledgeTip()

	case snap.Step == types.StepQuiz:
		n, convErr := strconv.Atoi(strings.TrimSpace(input))
		if convErr != nil {
			rep.Err = t.T("noAnswer", "Pick one of the listed answers.")
			return rep
		}
		rep.Result, err = eng.AnswerQuiz(n - 1)
		if err == nil {
			correct, _ := QuizResultFrom(rep.Result)
			rep.Lines = append(rep.Lines, t.QuizResult(snap.Quiz, correct, eng.Options().QuizBonus))
		}

	default:
		err = engine.ErrNotPlaying
	}

	if err != nil {
		rep.Err = t.Error(err)
		return rep
	}
	if Reshuffled(rep.Result) {
		rep.Notices = append(rep.Notices, t.T("reshuffled", "All events have been played. The deck is reshuffled."))
	}
	rep.Moved = true
	return rep
}

func isYes(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes", "replay", "again", "c", "có":
		return true
	}
	return false
}

// Welcome returns the scenario briefing.
func (s Strings) Welcome() []string {
	lines := []string{s.T("welcomeTitle", loader.DisplayName(s.Defs.Scenario.ID))}
	if w := s.T("welcomeText", ""); w != "" {
		lines = append(lines, w)
	}
	return lines
}

// MetricsLine renders all four metrics on one line.
func (s Strings) MetricsLine(m types.Metrics) string {
	return fmt.Sprintf("%s %d | %s %d | %s %d | %s %d",
		s.Metric(types.MetricSafety), m.Safety,
		s.Metric(types.MetricInfrastructure), m.Infrastructure,
		s.Metric(types.MetricMorale), m.Morale,
		s.Metric(types.MetricResourcePoints), m.ResourcePoints)
}

// Screen renders whatever the engine is waiting for. The metrics line is
// included only when withMetrics is set; the TUI draws meters instead.
func (s Strings) Screen(snap types.Snapshot, withMetrics bool) []string {
	var out []string
	if snap.Phase == types.PhaseGameOver {
		lines := s.OutcomeLines(snap)
		if len(lines) == 0 {
			return nil
		}
		out = append(out, "── "+lines[0]+" ──")
		out = append(out, lines[1:]...)
		return append(out, "["+s.T("playAgain", "Type /replay to play again or /quit to exit.")+"]")
	}

	switch snap.Step {
	case types.StepAction:
		out = append(out, fmt.Sprintf("── %s %d/%d ──", s.T("round", "Round"), snap.Round, snap.TotalRounds))
		if withMetrics {
			out = append(out, s.MetricsLine(snap.Metrics))
		}
		if ev := snap.Event; ev != nil {
			out = append(out, "", strings.TrimSpace(ev.Icon+" "+s.L(ev.Title)), s.L(ev.Description))
			if b := s.Badges(ev.Effects); len(b) > 0 {
				out = append(out, fmt.Sprintf("⚠ %s: %s", s.T("expectedImpact", "Expected impact"), strings.Join(b, ", ")))
			}
		}
		out = append(out, "", s.T("chooseAction", "Choose your response:"))
		for i, a := range snap.Actions {
			out = append(out, fmt.Sprintf("  %d) %s", i+1, s.ActionLabel(a)))
			if d := s.L(a.Description); d != "" {
				out = append(out, "     "+d)
			}
		}

	case types.StepTip:
		if withMetrics {
			out = append(out, s.MetricsLine(snap.Metrics))
		}
		if ev := snap.Event; ev != nil {
			if tip := s.L(ev.Tip); tip != "" {
				out = append(out, fmt.Sprintf("💡 %s: %s", s.T("tipTitle", "Tip"), tip))
			}
		}
		out = append(out, "["+s.T("understood", "Understood")+" ⏎]")

	case types.StepQuiz:
		q := snap.Quiz
		if q == nil {
			return nil
		}
		out = append(out, "❓ "+s.T("quizTitle", "Quick quiz"), s.L(q.Question))
		for i, opt := range q.Options {
			out = append(out, fmt.Sprintf("  %d) %s", i+1, s.L(opt)))
		}
	}
	return out
}
