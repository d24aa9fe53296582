// Package effects implements centralized metric mutation via the Apply function.
// Every change to the four metrics goes through here so clamping always holds.
package effects

import (
	"math"
	"sort"

	"github.com/nathoo/risingwaters/types"
)

// MeterMax is the upper bound of safety, infrastructure and morale.
const MeterMax = 100

// DefaultRPMax is the resource point ceiling used by current content.
const DefaultRPMax = 999

// Bounds configures clamping. RPMax of 0 leaves resource points unbounded above.
type Bounds struct {
	RPMax int
}

// DefaultBounds returns the bounds of the current game variant.
func DefaultBounds() Bounds {
	return Bounds{RPMax: DefaultRPMax}
}

// Apply adds every delta to its metric and then clamps all four metrics.
// Returns one metric_changed event per metric whose value moved, and the
// sorted keys that did not name a metric (those are skipped).
func Apply(m *types.Metrics, deltas map[string]int, b Bounds) ([]types.Event, []string) {
	before := *m
	var unknown []string

	keys := make([]string, 0, len(deltas))
	for k := range deltas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		delta := deltas[k]
		switch k {
		case types.MetricSafety:
			m.Safety = add(m.Safety, delta)
		case types.MetricInfrastructure:
			m.Infrastructure = add(m.Infrastructure, delta)
		case types.MetricMorale:
			m.Morale = add(m.Morale, delta)
		case types.MetricResourcePoints:
			m.ResourcePoints = add(m.ResourcePoints, delta)
		default:
			unknown = append(unknown, k)
		}
	}

	Clamp(m, b)

	var events []types.Event
	for _, k := range []string{
		types.MetricSafety, types.MetricInfrastructure,
		types.MetricMorale, types.MetricResourcePoints,
	} {
		from, to := Get(before, k), Get(*m, k)
		if from == to {
			continue
		}
		events = append(events, types.Event{
			Type: "metric_changed",
			Data: map[string]any{"metric": k, "delta": deltas[k], "from": from, "to": to},
		})
	}
	return events, unknown
}

// Clamp forces every metric into its range.
func Clamp(m *types.Metrics, b Bounds) {
	m.Safety = clamp(m.Safety, 0, MeterMax)
	m.Infrastructure = clamp(m.Infrastructure, 0, MeterMax)
	m.Morale = clamp(m.Morale, 0, MeterMax)
	if m.ResourcePoints < 0 {
		m.ResourcePoints = 0
	}
	if b.RPMax > 0 && m.ResourcePoints > b.RPMax {
		m.ResourcePoints = b.RPMax
	}
}

// Get returns a metric by name, or 0 for an unknown name.
func Get(m types.Metrics, name string) int {
	switch name {
	case types.MetricSafety:
		return m.Safety
	case types.MetricInfrastructure:
		return m.Infrastructure
	case types.MetricMorale:
		return m.Morale
	case types.MetricResourcePoints:
		return m.ResourcePoints
	}
	return 0
}

// IsMetric reports whether name is one of the four tracked metrics.
func IsMetric(name string) bool {
	switch name {
	case types.MetricSafety, types.MetricInfrastructure,
		types.MetricMorale, types.MetricResourcePoints:
		return true
	}
	return false
}

// add saturates at the int limits instead of wrapping.
func add(v, delta int) int {
	if delta > 0 && v > math.MaxInt-delta {
		return math.MaxInt
	}
	if delta < 0 && v < math.MinInt-delta {
		return math.MinInt
	}
	return v + delta
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
