// Package config loads runtime settings from a YAML file and the environment,
// and persists the player's scenario and language choice between sessions.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/risingwaters/engine"
	"github.com/nathoo/risingwaters/engine/selector"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvScenario = "RISINGWATERS_SCENARIO"
	EnvLanguage = "RISINGWATERS_LANG"
	EnvContent  = "RISINGWATERS_CONTENT"
)

// DirName is the per-user settings directory under the home directory.
const DirName = ".risingwaters"

// EngineConfig overrides engine defaults. Nil fields keep the default.
type EngineConfig struct {
	ActionPool string   `yaml:"action_pool,omitempty"` // relevance | uniform
	ScoreCap   *int     `yaml:"score_cap,omitempty"`
	QuizOnce   *bool    `yaml:"quiz_once,omitempty"`
	QuizChance *float64 `yaml:"quiz_chance,omitempty"`
	QuizBonus  *int     `yaml:"quiz_bonus,omitempty"`
	RPMax      *int     `yaml:"rp_max,omitempty"` // 0 = unbounded
	StartingRP *int     `yaml:"starting_rp,omitempty"`
	Seed       int64    `yaml:"seed,omitempty"`
}

// Config is the full runtime configuration.
type Config struct {
	ContentDir string       `yaml:"content_dir,omitempty"` // empty = built-in scenarios
	Scenario   string       `yaml:"scenario,omitempty"`
	Language   string       `yaml:"language,omitempty"`
	LogFile    string       `yaml:"log_file,omitempty"`
	LogLevel   string       `yaml:"log_level,omitempty"`
	Engine     EngineConfig `yaml:"engine,omitempty"`
}

// Dir returns the per-user settings directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := readYAML(path, cfg); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// readYAML decodes a YAML file into v. Missing files leave v untouched.
func readYAML(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(b, v)
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvScenario); v != "" {
		c.Scenario = v
	}
	if v := getenv(EnvLanguage); v != "" {
		c.Language = v
	}
	if v := getenv(EnvContent); v != "" {
		c.ContentDir = v
	}
}

// EngineOptions merges the engine overrides into engine defaults.
func (c *Config) EngineOptions() (engine.Options, error) {
	opts := engine.DefaultOptions()
	ec := c.Engine

	policy, err := selector.ParsePolicy(ec.ActionPool)
	if err != nil {
		return opts, err
	}
	opts.Policy = policy

	if ec.ScoreCap != nil {
		if *ec.ScoreCap < 0 {
			return opts, fmt.Errorf("score_cap must not be negative, got %d", *ec.ScoreCap)
		}
		opts.Scoring.Cap = *ec.ScoreCap
	}
	if ec.StartingRP != nil {
		opts.Scoring.StartingRP = *ec.StartingRP
	}
	if ec.QuizOnce != nil {
		opts.QuizOnce = *ec.QuizOnce
	}
	if ec.QuizChance != nil {
		if *ec.QuizChance < 0 || *ec.QuizChance > 1 {
			return opts, fmt.Errorf("quiz_chance must be between 0 and 1, got %g", *ec.QuizChance)
		}
		opts.QuizChance = *ec.QuizChance
	}
	if ec.QuizBonus != nil {
		opts.QuizBonus = *ec.QuizBonus
	}
	if ec.RPMax != nil {
		if *ec.RPMax < 0 {
			return opts, fmt.Errorf("rp_max must not be negative, got %d", *ec.RPMax)
		}
		opts.Bounds.RPMax = *ec.RPMax
	}
	opts.Seed = ec.Seed
	return opts, nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
