// Package scoring turns final metrics into a score breakdown, a rank,
// a win/lose verdict and feedback on the weakest area.
package scoring

import "github.com/nathoo/risingwaters/types"

// Score caps seen in shipped content. The bucket table can reach 85.
const (
	CapClassic = 80
	CapFull    = 100
)

// DefaultStartingRP is the budget the efficiency bucket measures spending against.
const DefaultStartingRP = 50

// Rules parameterizes Compute.
type Rules struct {
	Cap        int
	StartingRP int
}

// DefaultRules returns the rules of the current content.
func DefaultRules() Rules {
	return Rules{Cap: CapClassic, StartingRP: DefaultStartingRP}
}

// tier maps a threshold to the points it awards. Tiers are checked in order.
type tier struct {
	min    int
	points int
}

var (
	safetyTiers = []tier{{95, 25}, {85, 20}, {70, 15}, {50, 8}}
	infraTiers  = []tier{{90, 20}, {80, 16}, {60, 12}, {40, 6}}
	moraleTiers = []tier{{80, 15}, {60, 10}, {40, 5}}
	spendTiers  = []tier{{50, 20}, {40, 16}, {30, 12}, {20, 8}}
)

const minEfficiencyPoints = 4

func award(v int, tiers []tier, floor int) int {
	for _, t := range tiers {
		if v >= t.min {
			return t.points
		}
	}
	return floor
}

// Compute scores the final metrics.
func Compute(m types.Metrics, r Rules) types.ScoreBreakdown {
	var b types.ScoreBreakdown
	b.Safety = award(m.Safety, safetyTiers, 0)
	b.Infrastructure = award(m.Infrastructure, infraTiers, 0)
	b.Morale = award(m.Morale, moraleTiers, 0)
	b.Efficiency = award(r.StartingRP-m.ResourcePoints, spendTiers, minEfficiencyPoints)

	if m.Safety >= 95 && m.Infrastructure >= 90 {
		b.Bonus += 10
	}
	if m.Safety >= 70 && m.Infrastructure >= 60 {
		b.Bonus += 5
	}
	if m.Safety >= 80 && m.Infrastructure >= 80 && m.Morale >= 80 {
		b.Bonus += 5
	}

	b.Raw = b.Safety + b.Infrastructure + b.Morale + b.Efficiency + b.Bonus
	b.Total = b.Raw
	if r.Cap > 0 && b.Total > r.Cap {
		b.Total = r.Cap
	}
	return b
}

// Won reports whether both thresholds of the win condition are met.
func Won(m types.Metrics, wc types.WinCondition) bool {
	return m.Safety >= wc.MinSafety && m.Infrastructure >= wc.MinInfrastructure
}

// RankFor returns the qualitative tier for final safety and infrastructure.
func RankFor(m types.Metrics) types.Rank {
	switch {
	case m.Safety >= 70 && m.Infrastructure >= 70:
		return types.RankResilientSurvivor
	case m.Safety >= 50 && m.Infrastructure >= 50:
		return types.RankAdaptiveLearner
	default:
		return types.RankUnprepared
	}
}

// Feedback headline keys. Presentation layers look these up in the scenario strings.
const (
	HeadlineWon           = "feedback_won"
	HeadlineCollapse      = "feedback_collapse"
	HeadlineLowSafety     = "feedback_low_safety"
	HeadlineLowInfra      = "feedback_low_infrastructure"
	HeadlineWeakestMetric = "feedback_weakest"
)

// FeedbackFor explains the outcome. The weakest metric is the lowest of safety,
// infrastructure and morale; ties keep the earlier one in that order.
func FeedbackFor(m types.Metrics, wc types.WinCondition, won bool) types.Feedback {
	f := types.Feedback{Weakest: types.MetricSafety, Value: m.Safety}
	if m.Infrastructure < f.Value {
		f.Weakest, f.Value = types.MetricInfrastructure, m.Infrastructure
	}
	if m.Morale < f.Value {
		f.Weakest, f.Value = types.MetricMorale, m.Morale
	}

	switch {
	case won:
		f.Headline = HeadlineWon
	case m.Safety < 50 && m.Infrastructure < 50:
		f.Headline = HeadlineCollapse
	case m.Safety < wc.MinSafety:
		f.Headline = HeadlineLowSafety
	case m.Infrastructure < wc.MinInfrastructure:
		f.Headline = HeadlineLowInfra
	default:
		f.Headline = HeadlineWeakestMetric
	}
	return f
}

// Evaluate computes the full end-of-game outcome.
func Evaluate(m types.Metrics, wc types.WinCondition, r Rules) types.Outcome {
	won := Won(m, wc)
	return types.Outcome{
		Score:    Compute(m, r),
		Rank:     RankFor(m),
		Won:      won,
		Feedback: FeedbackFor(m, wc, won),
	}
}
