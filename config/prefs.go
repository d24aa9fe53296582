package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PrefsFile is the preferences file name inside the settings directory.
const PrefsFile = "prefs.yaml"

// Preferences are remembered between sessions.
type Preferences struct {
	Scenario string `yaml:"scenario,omitempty"`
	Language string `yaml:"language,omitempty"`
}

// LoadPreferences reads preferences from path. A missing file yields empty preferences.
func LoadPreferences(path string) (Preferences, error) {
	var p Preferences
	if err := readYAML(path, &p); err != nil {
		return Preferences{}, fmt.Errorf("reading preferences %s: %w", path, err)
	}
	return p, nil
}

// Save writes the preferences to path, creating its directory.
func (p Preferences) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing preferences %s: %w", path, err)
	}
	return nil
}

// Resolve picks the scenario and language to play. Explicit choices win over
// remembered ones, which win over the defaults.
func Resolve(cfg *Config, prefs Preferences, defaultScenario, defaultLanguage string) (scenario, language string) {
	scenario, language = defaultScenario, defaultLanguage
	if prefs.Scenario != "" {
		scenario = prefs.Scenario
	}
	if prefs.Language != "" {
		language = prefs.Language
	}
	if cfg.Scenario != "" {
		scenario = cfg.Scenario
	}
	if cfg.Language != "" {
		language = cfg.Language
	}
	return scenario, language
}
