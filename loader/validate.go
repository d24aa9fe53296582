package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/risingwaters/engine/effects"
	"github.com/nathoo/risingwaters/engine/selector"
	"github.com/nathoo/risingwaters/engine/state"
	"github.com/nathoo/risingwaters/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validCategories = map[types.Category]bool{
	types.CategoryPrepare: true,
	types.CategoryDefend:  true,
	types.CategoryRecover: true,
	types.CategoryRisk:    true,
}

// validate checks a decoded scenario for consistency. Warnings are logged;
// an error is returned only if something would break play.
func validate(sc *types.Scenario) error {
	ve := check(sc)
	for _, w := range ve.Warnings {
		slog.Warn("scenario warning", "scenario", sc.ID, "detail", w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// check collects every problem with the scenario.
func check(sc *types.Scenario) *ValidationError {
	ve := &ValidationError{}
	errorf := func(format string, args ...any) {
		ve.Errors = append(ve.Errors, fmt.Sprintf(format, args...))
	}
	warnf := func(format string, args ...any) {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(format, args...))
	}

	in := sc.InitialState
	if in.TotalRounds <= 0 && in.TotalDays <= 0 {
		errorf("initialState needs totalRounds or totalDays greater than 0")
	}
	if in.TotalRounds > 0 && in.TotalDays > 0 && in.TotalRounds != in.TotalDays {
		warnf("initialState sets both totalRounds (%d) and totalDays (%d); totalRounds wins", in.TotalRounds, in.TotalDays)
	}
	for name, v := range map[string]int{
		"safety":         in.Safety,
		"infrastructure": in.Infrastructure,
		"morale":         in.Morale,
	} {
		if v < 0 || v > effects.MeterMax {
			errorf("initialState.%s = %d is outside 0..%d", name, v, effects.MeterMax)
		}
	}
	if in.ResourcePoints < 0 {
		errorf("initialState.resourcePoints = %d is negative", in.ResourcePoints)
	}

	// Events.
	if len(sc.Events) == 0 {
		errorf("scenario has no events")
	}
	eventIDs := map[string]bool{}
	for i, ev := range sc.Events {
		if ev.ID == "" {
			errorf("event #%d has no id", i+1)
			continue
		}
		if eventIDs[ev.ID] {
			errorf("duplicate event id %q", ev.ID)
		}
		eventIDs[ev.ID] = true
		checkEffects("event "+ev.ID, ev.Effects, warnf)
		if state.Localize(ev.Tip, state.DefaultLocale) == "" {
			warnf("event %q has no tip", ev.ID)
		}
		if q := ev.Quiz; q != nil {
			if len(q.Options) < 2 {
				errorf("event %q quiz needs at least 2 options", ev.ID)
			} else if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				errorf("event %q quiz correctAnswer %d is outside 0..%d", ev.ID, q.CorrectAnswer, len(q.Options)-1)
			}
		}
	}

	// Actions.
	actionIDs := map[string]bool{}
	risk, others := 0, 0
	categories := map[types.Category]bool{}
	for i, a := range sc.Actions {
		if a.ID == "" {
			errorf("action #%d has no id", i+1)
			continue
		}
		if actionIDs[a.ID] {
			errorf("duplicate action id %q", a.ID)
		}
		actionIDs[a.ID] = true
		if !validCategories[a.Category] {
			errorf("action %q has unknown category %q", a.ID, a.Category)
			continue
		}
		categories[a.Category] = true
		if a.Category == types.CategoryRisk {
			risk++
		} else {
			others++
		}
		checkEffects("action "+a.ID, a.Effects, warnf)
		if a.Cost > 0 {
			if d := a.Effects[types.MetricResourcePoints]; d < 0 && -d != a.Cost {
				warnf("action %q cost %d differs from its resourcePoints effect %d; cost is checked, the effect is applied", a.ID, a.Cost, d)
			}
		}
	}
	switch {
	case risk == 0 || others < selector.PoolSize-1:
		errorf("%v (have %d non-risk, %d risk)", selector.ErrPoolConfig, others, risk)
	case risk > 1:
		warnf("%d risk actions defined; only the first is offered", risk)
	}

	// Relevance overrides.
	for eventID, cats := range sc.Relevance {
		if !eventIDs[eventID] {
			warnf("relevance for unknown event %q", eventID)
		}
		for _, c := range cats {
			if !validCategories[c] {
				errorf("relevance for %q names unknown category %q", eventID, c)
			} else if !categories[c] {
				warnf("relevance for %q names category %q but no action has it", eventID, c)
			}
		}
	}

	if sc.WinCondition.MinSafety > effects.MeterMax || sc.WinCondition.MinInfrastructure > effects.MeterMax {
		errorf("winCondition can never be met (thresholds above %d)", effects.MeterMax)
	}

	return ve
}

func checkEffects(owner string, deltas map[string]int, warnf func(string, ...any)) {
	for k := range deltas {
		if !effects.IsMetric(k) {
			warnf("%s has effect on unknown metric %q; it will be ignored", owner, k)
		}
	}
}
