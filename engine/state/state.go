// Package state manages the mutable game state and the read-only lookups
// over scenario content (actions, relevance, localized text).
package state

import (
	"math"
	"sort"

	"github.com/nathoo/risingwaters/types"
	"github.com/zyedidia/generic/mapset"
)

// DefaultLocale is used when a string has no translation for the active locale.
const DefaultLocale = "en"

// DefaultRelevance maps event IDs to the action categories that respond to them.
// Events not listed have no preference and get a uniformly random pool.
var DefaultRelevance = map[string][]types.Category{
	// Rainfall / water level.
	"event_slow_rain":         {types.CategoryPrepare, types.CategoryRecover},
	"event_heavy_rain":        {types.CategoryPrepare, types.CategoryDefend},
	"event_dike_breach":       {types.CategoryDefend, types.CategoryRecover},
	"event_landslide_warning": {types.CategoryDefend},

	// Damage / infrastructure.
	"event_irrigation_damage":  {types.CategoryRecover},
	"event_water_recedes":      {types.CategoryRecover},
	"event_communication_down": {types.CategoryPrepare},

	// Emergencies.
	"event_rescue_request":    {types.CategoryDefend},
	"event_disease_risk":      {types.CategoryDefend},
	"event_supplies_shortage": {types.CategoryRecover},

	// Relief.
	"event_clear_weather":         {types.CategoryRecover},
	"event_successful_evacuation": {types.CategoryDefend},
	"event_aid_arrives":           {types.CategoryRecover},
}

// Defs holds the immutable scenario definitions.
type Defs struct {
	Scenario types.Scenario
	Actions  map[string]types.ActionDef

	relevance    map[string][]types.Category
	relevanceSet map[string]mapset.Set[types.Category]
}

// NewDefs indexes a scenario. Relevance entries in the scenario replace the
// default entry for the same event.
func NewDefs(sc types.Scenario) *Defs {
	d := &Defs{
		Scenario:     sc,
		Actions:      make(map[string]types.ActionDef, len(sc.Actions)),
		relevance:    map[string][]types.Category{},
		relevanceSet: map[string]mapset.Set[types.Category]{},
	}
	for _, a := range sc.Actions {
		d.Actions[a.ID] = a
	}
	for id, cats := range DefaultRelevance {
		d.setRelevance(id, cats)
	}
	for id, cats := range sc.Relevance {
		d.setRelevance(id, cats)
	}
	return d
}

func (d *Defs) setRelevance(eventID string, cats []types.Category) {
	set := mapset.New[types.Category]()
	for _, c := range cats {
		set.Put(c)
	}
	d.relevance[eventID] = append([]types.Category(nil), cats...)
	d.relevanceSet[eventID] = set
}

// TotalRounds returns the configured game length, accepting either field name.
func (d *Defs) TotalRounds() int {
	if d.Scenario.InitialState.TotalRounds > 0 {
		return d.Scenario.InitialState.TotalRounds
	}
	return d.Scenario.InitialState.TotalDays
}

// InitialMetrics returns the starting metrics of the scenario.
func (d *Defs) InitialMetrics() types.Metrics {
	in := d.Scenario.InitialState
	return types.Metrics{
		Safety:         in.Safety,
		Infrastructure: in.Infrastructure,
		Morale:         in.Morale,
		ResourcePoints: in.ResourcePoints,
	}
}

// RelevantCategories returns the preferred categories for an event, in
// declaration order. Nil if the event has no preference.
func (d *Defs) RelevantCategories(eventID string) []types.Category {
	return d.relevance[eventID]
}

// IsRelevant reports whether an action category responds to the event.
func (d *Defs) IsRelevant(eventID string, c types.Category) bool {
	set, ok := d.relevanceSet[eventID]
	if !ok {
		return false
	}
	return set.Has(c)
}

// Text looks up a UI string for a locale, falling back to the default
// locale and then to fallback.
func (d *Defs) Text(locale, key, fallback string) string {
	if t, ok := d.Scenario.I18n[locale][key]; ok && t != "" {
		return t
	}
	if t, ok := d.Scenario.I18n[DefaultLocale][key]; ok && t != "" {
		return t
	}
	return fallback
}

// Help returns the help text for a locale.
func (d *Defs) Help(locale string) string {
	if h := d.Scenario.HelpText[locale]; h != "" {
		return h
	}
	return d.Scenario.HelpText[DefaultLocale]
}

// Locales returns the locale codes the scenario has strings for, sorted.
func (d *Defs) Locales() []string {
	seen := map[string]bool{}
	for loc := range d.Scenario.I18n {
		seen[loc] = true
	}
	for loc := range d.Scenario.HelpText {
		seen[loc] = true
	}
	out := make([]string, 0, len(seen))
	for loc := range seen {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// Localize picks the text for a locale out of a localized value.
func Localize(l types.Localized, locale string) string {
	if s, ok := l[locale]; ok && s != "" {
		return s
	}
	if s, ok := l[DefaultLocale]; ok {
		return s
	}
	// Deterministic pick among whatever is there.
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return l[keys[0]]
}

// ActionCost returns the resource points an action needs.
func ActionCost(a types.ActionDef) int {
	if a.Cost > 0 {
		return a.Cost
	}
	if d := a.Effects[types.MetricResourcePoints]; d < 0 {
		if d == math.MinInt {
			return math.MaxInt
		}
		return -d
	}
	return 0
}

// RiskAction returns the scenario's "do nothing" action.
func (d *Defs) RiskAction() (types.ActionDef, bool) {
	for _, a := range d.Scenario.Actions {
		if a.Category == types.CategoryRisk {
			return a, true
		}
	}
	return types.ActionDef{}, false
}

// NewState creates a fresh game state from definitions. The game stays in
// the loading phase until the engine starts it.
func NewState(defs *Defs) *types.State {
	return &types.State{
		Phase:      types.PhaseLoading,
		Step:       types.StepNone,
		Round:      1,
		Metrics:    defs.InitialMetrics(),
		ActionPool: []types.ActionDef{},
	}
}
