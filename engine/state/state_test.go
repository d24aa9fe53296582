package state

import (
	"math"
	"testing"

	"github.com/nathoo/risingwaters/types"
)

func testDefs() *Defs {
	return NewDefs(types.Scenario{
		ID: "test",
		InitialState: types.InitialState{
			Safety: 80, Infrastructure: 70, Morale: 75, ResourcePoints: 50, TotalDays: 8,
		},
		WinCondition: types.WinCondition{MinSafety: 70, MinInfrastructure: 60},
		Actions: []types.ActionDef{
			{ID: "sandbags", Category: types.CategoryDefend, Effects: map[string]int{"infrastructure": 10, "resourcePoints": -8}},
			{ID: "radio", Category: types.CategoryPrepare, Cost: 3, Effects: map[string]int{"morale": 5}},
			{ID: "nothing", Category: types.CategoryRisk, Effects: map[string]int{"morale": -2}},
		},
		I18n: map[string]map[string]string{
			"en": {"quizTitle": "Safety Quiz", "onlyEnglish": "Hello"},
			"vi": {"quizTitle": "Câu Đố An Toàn"},
		},
		HelpText: map[string]string{"en": "Help!"},
		Relevance: map[string][]types.Category{
			"event_heavy_rain": {types.CategoryRecover},
			"event_custom":     {types.CategoryPrepare},
		},
	})
}

func TestNewState(t *testing.T) {
	defs := testDefs()
	s := NewState(defs)

	if s.Phase != types.PhaseLoading {
		t.Errorf("Phase = %q, want loading", s.Phase)
	}
	if s.Round != 1 {
		t.Errorf("Round = %d, want 1", s.Round)
	}
	want := types.Metrics{Safety: 80, Infrastructure: 70, Morale: 75, ResourcePoints: 50}
	if s.Metrics != want {
		t.Errorf("Metrics = %+v, want %+v", s.Metrics, want)
	}
	if s.ActionPool == nil {
		t.Error("ActionPool should not be nil")
	}
}

func TestTotalRounds(t *testing.T) {
	defs := testDefs()
	if got := defs.TotalRounds(); got != 8 {
		t.Errorf("TotalRounds from totalDays = %d, want 8", got)
	}
	defs.Scenario.InitialState.TotalRounds = 5
	if got := defs.TotalRounds(); got != 5 {
		t.Errorf("TotalRounds = %d, want 5", got)
	}
}

func TestActionCost(t *testing.T) {
	defs := testDefs()
	tests := []struct {
		id   string
		want int
	}{
		{"sandbags", 8},
		{"radio", 3},
		{"nothing", 0},
	}
	for _, tt := range tests {
		if got := ActionCost(defs.Actions[tt.id]); got != tt.want {
			t.Errorf("ActionCost(%s) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestActionCost_MinIntEffect(t *testing.T) {
	a := types.ActionDef{ID: "drain", Effects: map[string]int{"resourcePoints": math.MinInt}}
	if got := ActionCost(a); got != math.MaxInt {
		t.Errorf("ActionCost = %d, want MaxInt", got)
	}
}

func TestRelevance(t *testing.T) {
	defs := testDefs()

	// Scenario entries replace the default for the same event.
	if defs.IsRelevant("event_heavy_rain", types.CategoryDefend) {
		t.Error("event_heavy_rain override should drop defend")
	}
	if !defs.IsRelevant("event_heavy_rain", types.CategoryRecover) {
		t.Error("event_heavy_rain override should include recover")
	}
	// Defaults survive for other events.
	if !defs.IsRelevant("event_dike_breach", types.CategoryDefend) {
		t.Error("default relevance missing for event_dike_breach")
	}
	if got := defs.RelevantCategories("event_slow_rain"); len(got) != 2 || got[0] != types.CategoryPrepare {
		t.Errorf("RelevantCategories(event_slow_rain) = %v", got)
	}
	if defs.RelevantCategories("event_unmapped") != nil {
		t.Error("unmapped event should have no categories")
	}
	if defs.IsRelevant("event_unmapped", types.CategoryPrepare) {
		t.Error("unmapped event should not be relevant to anything")
	}
}

func TestText(t *testing.T) {
	defs := testDefs()
	tests := []struct {
		locale, key, fallback, want string
	}{
		{"vi", "quizTitle", "x", "Câu Đố An Toàn"},
		{"en", "quizTitle", "x", "Safety Quiz"},
		{"vi", "onlyEnglish", "x", "Hello"},
		{"fr", "missing", "Fallback", "Fallback"},
	}
	for _, tt := range tests {
		if got := defs.Text(tt.locale, tt.key, tt.fallback); got != tt.want {
			t.Errorf("Text(%s, %s) = %q, want %q", tt.locale, tt.key, got, tt.want)
		}
	}
	if defs.Help("vi") != "Help!" {
		t.Errorf("Help(vi) should fall back to en")
	}
	if locs := defs.Locales(); len(locs) != 2 || locs[0] != "en" || locs[1] != "vi" {
		t.Errorf("Locales = %v", locs)
	}
}

func TestLocalize(t *testing.T) {
	l := types.Localized{"en": "Heavy Rain", "vi": "Mưa Lớn"}
	if Localize(l, "vi") != "Mưa Lớn" {
		t.Error("expected Vietnamese text")
	}
	if Localize(l, "fr") != "Heavy Rain" {
		t.Error("expected English fallback")
	}
	if Localize(types.Localized{"vi": "Chỉ"}, "fr") != "Chỉ" {
		t.Error("expected the only available text")
	}
	if Localize(nil, "en") != "" {
		t.Error("expected empty string for nil")
	}
}

func TestRiskAction(t *testing.T) {
	a, ok := testDefs().RiskAction()
	if !ok || a.ID != "nothing" {
		t.Errorf("RiskAction = %+v, %v", a, ok)
	}
}
