package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nathoo/risingwaters/engine"
	"github.com/nathoo/risingwaters/engine/selector"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatal(err)
	}
	def := engine.DefaultOptions()
	if opts.Policy != def.Policy || opts.Scoring != def.Scoring || opts.Bounds != def.Bounds ||
		opts.QuizOnce != def.QuizOnce || opts.QuizChance != def.QuizChance || opts.QuizBonus != def.QuizBonus {
		t.Errorf("options = %+v, want defaults %+v", opts, def)
	}
}

func TestLoad_File(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", `
content_dir: /srv/floods
scenario: mekong_delta
language: vi
log_level: debug
engine:
  action_pool: uniform
  score_cap: 100
  quiz_once: false
  quiz_chance: 0.5
  quiz_bonus: 3
  rp_max: 0
  starting_rp: 60
  seed: 99
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ContentDir != "/srv/floods" || cfg.Scenario != "mekong_delta" || cfg.Language != "vi" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v", cfg.Level())
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Policy != selector.PolicyUniform {
		t.Errorf("Policy = %s", opts.Policy)
	}
	if opts.Scoring.Cap != 100 || opts.Scoring.StartingRP != 60 {
		t.Errorf("Scoring = %+v", opts.Scoring)
	}
	if opts.QuizOnce || opts.QuizChance != 0.5 || opts.QuizBonus != 3 {
		t.Errorf("quiz options = %v %v %v", opts.QuizOnce, opts.QuizChance, opts.QuizBonus)
	}
	if opts.Bounds.RPMax != 0 {
		t.Errorf("RPMax = %d, want 0 (unbounded)", opts.Bounds.RPMax)
	}
	if opts.Seed != 99 {
		t.Errorf("Seed = %d", opts.Seed)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", "engine: [")
	if _, err := Load(p); err == nil {
		t.Error("expected parse error")
	}
}

func TestEngineOptions_Invalid(t *testing.T) {
	neg := -1
	chance := 1.5
	tests := []struct {
		name string
		ec   EngineConfig
	}{
		{"policy", EngineConfig{ActionPool: "weighted"}},
		{"cap", EngineConfig{ScoreCap: &neg}},
		{"chance", EngineConfig{QuizChance: &chance}},
		{"rp max", EngineConfig{RPMax: &neg}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Engine: tt.ec}
			if _, err := cfg.EngineOptions(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{Scenario: "central_highlands", Language: "en"}
	env := map[string]string{
		EnvScenario: "hanoi_lowlands",
		EnvContent:  "/tmp/content",
	}
	cfg.applyEnv(func(k string) string { return env[k] })
	if cfg.Scenario != "hanoi_lowlands" {
		t.Errorf("Scenario = %q", cfg.Scenario)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q, unset env should not override", cfg.Language)
	}
	if cfg.ContentDir != "/tmp/content" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", "language: en\n")
	t.Setenv(EnvLanguage, "vi")
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Language != "vi" {
		t.Errorf("Language = %q, want vi from env", cfg.Language)
	}
}

func TestPreferences_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", PrefsFile)

	empty, err := LoadPreferences(p)
	if err != nil {
		t.Fatal(err)
	}
	if empty != (Preferences{}) {
		t.Errorf("missing prefs = %+v, want empty", empty)
	}

	want := Preferences{Scenario: "mekong_delta", Language: "vi"}
	if err := want.Save(p); err != nil {
		t.Fatal(err)
	}
	got, err := LoadPreferences(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("prefs = %+v, want %+v", got, want)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Config
		prefs        Preferences
		wantScenario string
		wantLanguage string
	}{
		{"defaults", Config{}, Preferences{}, "central_highlands", "en"},
		{"remembered", Config{}, Preferences{Scenario: "mekong_delta", Language: "vi"}, "mekong_delta", "vi"},
		{"explicit wins", Config{Scenario: "hanoi_lowlands"}, Preferences{Scenario: "mekong_delta", Language: "vi"}, "hanoi_lowlands", "vi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, l := Resolve(&tt.cfg, tt.prefs, "central_highlands", "en")
			if s != tt.wantScenario || l != tt.wantLanguage {
				t.Errorf("Resolve = %s, %s; want %s, %s", s, l, tt.wantScenario, tt.wantLanguage)
			}
		})
	}
}
