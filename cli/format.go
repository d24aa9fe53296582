package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/risingwaters/engine"
	"github.com/nathoo/risingwaters/engine/effects"
	"github.com/nathoo/risingwaters/engine/state"
	"github.com/nathoo/risingwaters/types"
)

// Strings renders scenario text in one locale. Both front ends use it.
type Strings struct {
	Defs   *state.Defs
	Locale string
}

// T looks up a UI string, falling back to English content and then to fallback.
func (s Strings) T(key, fallback string) string {
	return s.Defs.Text(s.Locale, key, fallback)
}

// L picks the active locale out of a localized value.
func (s Strings) L(l types.Localized) string {
	return state.Localize(l, s.Locale)
}

// fill replaces {name} placeholders.
func fill(text string, vars map[string]any) string {
	if len(vars) == 0 {
		return text
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

var metricFallback = map[string]string{
	types.MetricSafety:         "Safety",
	types.MetricInfrastructure: "Infrastructure",
	types.MetricMorale:         "Morale",
	types.MetricResourcePoints: "Resource Points",
}

// Metric returns the display name of a metric.
func (s Strings) Metric(name string) string {
	fb, ok := metricFallback[name]
	if !ok {
		fb = name
	}
	return s.T(name, fb)
}

var rankFallback = map[types.Rank]string{
	types.RankResilientSurvivor: "Resilient Survivor",
	types.RankAdaptiveLearner:   "Adaptive Learner",
	types.RankUnprepared:        "Unprepared",
}

// Rank returns the display name of a rank.
func (s Strings) Rank(r types.Rank) string {
	return s.T(string(r), rankFallback[r])
}

// Feedback renders the end-of-game feedback sentence.
func (s Strings) Feedback(f types.Feedback) string {
	fallback := map[string]string{
		"feedback_won":                "Well done. Your weakest area was {metric} at {value}.",
		"feedback_collapse":           "Both safety and infrastructure collapsed.",
		"feedback_low_safety":         "Safety fell too low.",
		"feedback_low_infrastructure": "Infrastructure fell too low.",
		"feedback_weakest":            "Your weakest area was {metric} at {value}.",
	}[f.Headline]
	return fill(s.T(f.Headline, fallback), map[string]any{
		"metric": s.Metric(f.Weakest),
		"value":  f.Value,
	})
}

// Badges renders effect deltas as signed labels in metric order, skipping zeros.
func (s Strings) Badges(deltas map[string]int) []string {
	var out []string
	for _, k := range []string{
		types.MetricSafety, types.MetricInfrastructure,
		types.MetricMorale, types.MetricResourcePoints,
	} {
		if v := deltas[k]; v != 0 {
			out = append(out, fmt.Sprintf("%s %+d", s.Metric(k), v))
		}
	}
	// Unknown keys are shown as written so authors notice them.
	var extra []string
	for k, v := range deltas {
		if !effects.IsMetric(k) && v != 0 {
			extra = append(extra, fmt.Sprintf("%s %+d", k, v))
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// ActionLabel renders an action title with its cost.
func (s Strings) ActionLabel(a types.ActionDef) string {
	title := s.L(a.Title)
	if cost := state.ActionCost(a); cost > 0 {
		return fmt.Sprintf("%s (%d RP)", title, cost)
	}
	return title
}

// Error renders an engine error for the player.
func (s Strings) Error(err error) string {
	var ire *engine.InsufficientResourcesError
	switch {
	case errors.As(err, &ire):
		return fill(s.T("notEnoughRP", "Not enough Resource Points! Need {needed}, have {available}."),
			map[string]any{"needed": ire.Needed, "available": ire.Available})
	case errors.Is(err, engine.ErrUnknownAction):
		return s.T("unknownAction", "That response is not available this round.")
	case errors.Is(err, engine.ErrNoAnswer):
		return s.T("noAnswer", "Pick one of the listed answers.")
	case errors.Is(err, engine.ErrNotPlaying):
		return s.T("notPlaying", "The game is over. Type /replay to play again.")
	default:
		return err.Error()
	}
}

// QuizResult renders the verdict on a quiz answer.
func (s Strings) QuizResult(q *types.QuizDef, correct bool, bonus int) string {
	if correct {
		return fill(s.T("correct", "Correct! +{bonus} Resource Points."), map[string]any{"bonus": bonus})
	}
	answer := ""
	if q != nil && q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
		answer = s.L(q.Options[q.CorrectAnswer])
	}
	return fill(s.T("incorrect", "Not quite. The right answer was: {answer}"), map[string]any{"answer": answer})
}

// OutcomeLines renders the game over summary.
func (s Strings) OutcomeLines(snap types.Snapshot) []string {
	o := snap.Outcome
	if o == nil {
		return nil
	}
	verdict := s.T("defeat", "The community could not hold out.")
	if o.Won {
		verdict = s.T("victory", "The community came through the floods.")
	}
	m := snap.Metrics
	sc := o.Score
	return []string{
		s.T("gameOver", "Game Over"),
		verdict,
		fmt.Sprintf("%s: %d  %s: %d  %s: %d  %s: %d",
			s.Metric(types.MetricSafety), m.Safety,
			s.Metric(types.MetricInfrastructure), m.Infrastructure,
			s.Metric(types.MetricMorale), m.Morale,
			s.Metric(types.MetricResourcePoints), m.ResourcePoints),
		fmt.Sprintf("%s: %d (%d + %d + %d + %d, bonus %d)",
			s.T("score", "Score"), sc.Total,
			sc.Safety, sc.Infrastructure, sc.Morale, sc.Efficiency, sc.Bonus),
		fmt.Sprintf("%s: %s", s.T("rank", "Rank"), s.Rank(o.Rank)),
		s.Feedback(o.Feedback),
	}
}

// QuizResultFrom reads the verdict out of an AnswerQuiz result.
func QuizResultFrom(r types.Result) (correct, found bool) {
	for _, ev := range r.Events {
		if ev.Type == "quiz_answered" {
			c, _ := ev.Data["correct"].(bool)
			return c, true
		}
	}
	return false, false
}

// Reshuffled reports whether the result refilled the event deck.
func Reshuffled(r types.Result) bool {
	for _, ev := range r.Events {
		if ev.Type == "deck_reshuffled" {
			return true
		}
	}
	return false
}
