package effects

import (
	"math"
	"testing"

	"github.com/nathoo/risingwaters/types"
)

func start() types.Metrics {
	return types.Metrics{Safety: 80, Infrastructure: 70, Morale: 75, ResourcePoints: 50}
}

func TestApply_AddsDeltas(t *testing.T) {
	m := start()
	events, unknown := Apply(&m, map[string]int{"safety": -10, "resourcePoints": -5}, DefaultBounds())

	want := types.Metrics{Safety: 70, Infrastructure: 70, Morale: 75, ResourcePoints: 45}
	if m != want {
		t.Errorf("metrics = %+v, want %+v", m, want)
	}
	if len(unknown) != 0 {
		t.Errorf("unexpected unknown keys: %v", unknown)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != "metric_changed" || events[0].Data["metric"] != "safety" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Data["metric"] != "resourcePoints" || events[1].Data["to"] != 45 {
		t.Errorf("second event = %+v", events[1])
	}
}

func TestApply_ClampsMeters(t *testing.T) {
	tests := []struct {
		name   string
		deltas map[string]int
		want   types.Metrics
	}{
		{"overflow", map[string]int{"safety": 500, "infrastructure": 31, "morale": 26},
			types.Metrics{Safety: 100, Infrastructure: 100, Morale: 100, ResourcePoints: 50}},
		{"underflow", map[string]int{"safety": -500, "infrastructure": -71, "morale": -76, "resourcePoints": -51},
			types.Metrics{Safety: 0, Infrastructure: 0, Morale: 0, ResourcePoints: 0}},
		{"rp ceiling", map[string]int{"resourcePoints": 5000},
			types.Metrics{Safety: 80, Infrastructure: 70, Morale: 75, ResourcePoints: 999}},
		{"extreme", map[string]int{"safety": math.MinInt32, "morale": math.MaxInt32},
			types.Metrics{Safety: 0, Infrastructure: 70, Morale: 100, ResourcePoints: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := start()
			Apply(&m, tt.deltas, DefaultBounds())
			if m != tt.want {
				t.Errorf("got %+v, want %+v", m, tt.want)
			}
		})
	}
}

func TestApply_UnboundedRP(t *testing.T) {
	m := start()
	Apply(&m, map[string]int{"resourcePoints": 2000}, Bounds{})
	if m.ResourcePoints != 2050 {
		t.Errorf("resourcePoints = %d, want 2050", m.ResourcePoints)
	}
	Apply(&m, map[string]int{"resourcePoints": -5000}, Bounds{})
	if m.ResourcePoints != 0 {
		t.Errorf("resourcePoints = %d, want 0", m.ResourcePoints)
	}
}

func TestApply_UnknownKeysIgnored(t *testing.T) {
	m := start()
	_, unknown := Apply(&m, map[string]int{"water": 10, "food": -3, "morale": 1}, DefaultBounds())

	if m.Morale != 76 {
		t.Errorf("morale = %d, want 76", m.Morale)
	}
	if len(unknown) != 2 || unknown[0] != "food" || unknown[1] != "water" {
		t.Errorf("unknown = %v, want [food water]", unknown)
	}
}

func TestApply_NoEventWhenClampedValueUnchanged(t *testing.T) {
	m := types.Metrics{Safety: 100}
	events, _ := Apply(&m, map[string]int{"safety": 10}, DefaultBounds())
	if len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
}

func TestApply_InvariantHoldsAcrossSequences(t *testing.T) {
	m := start()
	seq := []map[string]int{
		{"safety": 90, "resourcePoints": -200},
		{"infrastructure": -300, "morale": 45},
		{"safety": -1, "resourcePoints": 1500},
		{"morale": -1000},
		{"safety": math.MaxInt, "resourcePoints": math.MaxInt},
		{"infrastructure": math.MinInt, "morale": math.MaxInt},
		{"safety": math.MinInt, "resourcePoints": math.MinInt},
	}
	for i, d := range seq {
		Apply(&m, d, DefaultBounds())
		for _, v := range []int{m.Safety, m.Infrastructure, m.Morale} {
			if v < 0 || v > MeterMax {
				t.Fatalf("step %d: meter out of range: %+v", i, m)
			}
		}
		if m.ResourcePoints < 0 || m.ResourcePoints > DefaultRPMax {
			t.Fatalf("step %d: resourcePoints out of range: %+v", i, m)
		}
	}
}

func TestApply_ExtremeDeltasSaturate(t *testing.T) {
	m := start()
	Apply(&m, map[string]int{"safety": math.MaxInt, "resourcePoints": math.MaxInt}, DefaultBounds())
	if m.Safety != MeterMax || m.ResourcePoints != DefaultRPMax {
		t.Fatalf("after +MaxInt: %+v", m)
	}

	m = start()
	Apply(&m, map[string]int{"resourcePoints": math.MaxInt}, Bounds{})
	Apply(&m, map[string]int{"resourcePoints": 10}, Bounds{})
	if m.ResourcePoints != math.MaxInt {
		t.Errorf("unbounded resourcePoints = %d, want MaxInt", m.ResourcePoints)
	}

	m = types.Metrics{Morale: 0}
	Apply(&m, map[string]int{"morale": math.MinInt}, DefaultBounds())
	if m.Morale != 0 {
		t.Errorf("morale = %d, want 0", m.Morale)
	}
}

func TestGetAndIsMetric(t *testing.T) {
	m := start()
	if Get(m, "morale") != 75 || Get(m, "nope") != 0 {
		t.Error("Get returned wrong values")
	}
	if !IsMetric("resourcePoints") || IsMetric("cost") {
		t.Error("IsMetric misclassified a key")
	}
}
