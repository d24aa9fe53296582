// Rising Waters is a flood-preparedness game played over a fixed number of rounds.
// Usage: risingwaters [flags] [scenario_file_or_directory]
package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nathoo/risingwaters/cli"
	"github.com/nathoo/risingwaters/config"
	"github.com/nathoo/risingwaters/engine"
	"github.com/nathoo/risingwaters/engine/state"
	"github.com/nathoo/risingwaters/loader"
	"github.com/nathoo/risingwaters/scenarios"
	"github.com/nathoo/risingwaters/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `Usage: risingwaters [flags] [scenario_file_or_directory]

Flags:
  --version            Print version and exit
  --list               List available scenarios and exit
  --scenario <id>      Scenario to play
  --lang <code>        Language (en, vi)
  --content <dir>      Load scenarios from a directory instead of the built-in set
  --config <file>      Config file (default ~/.risingwaters/config.yaml)
  --log <file>         Write JSON logs to a file
  --seed <n>           Fix the random seed
  --plain              Use the plain text interface
  --script <file>      Play commands from a file (implies --plain)
  --trace              Show engine events after each input
`

func main() {
	os.Exit(run(os.Args[1:]))
}

// run plays one session and returns the process exit code.
func run(args []string) int {
	plain := false
	trace := false
	list := false
	var (
		path, scriptFile, configFile       string
		scenarioFlag, langFlag, contentDir string
		logFile                            string
		seed                               int64
	)

	var missing string
	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			missing = flag
			return ""
		}
		*i++
		return args[*i]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("risingwaters %s (commit %s, built %s)\n", version, commit, date)
			return 0
		case "--help", "-h":
			fmt.Print(usage)
			return 0
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--list":
			list = true
		case "--script":
			scriptFile = value(&i, "--script")
		case "--config":
			configFile = value(&i, "--config")
		case "--scenario":
			scenarioFlag = value(&i, "--scenario")
		case "--lang":
			langFlag = value(&i, "--lang")
		case "--content":
			contentDir = value(&i, "--content")
		case "--log":
			logFile = value(&i, "--log")
		case "--seed":
			v := value(&i, "--seed")
			if missing != "" {
				break
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed must be an integer: %v\n", err)
				return 1
			}
			seed = n
		default:
			if path == "" {
				path = args[i]
			}
		}
		if missing != "" {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", missing)
			return 1
		}
	}

	if configFile == "" {
		configFile, _ = config.DefaultPath()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if scenarioFlag != "" {
		cfg.Scenario = scenarioFlag
	}
	if langFlag != "" {
		cfg.Language = langFlag
	}
	if contentDir != "" {
		cfg.ContentDir = contentDir
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if seed != 0 {
		cfg.Engine.Seed = seed
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	var fsys fs.FS = scenarios.FS
	if cfg.ContentDir != "" {
		fsys = os.DirFS(cfg.ContentDir)
	}
	catalog, err := loader.List(fsys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if list {
		for _, info := range catalog {
			fmt.Printf("%-20s %s\n", info.ID, info.Name)
		}
		return 0
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		return 1
	}
	opts.Logger = logger

	prefsPath := ""
	if dir, err := config.Dir(); err == nil {
		prefsPath = filepath.Join(dir, config.PrefsFile)
	}
	prefs, err := config.LoadPreferences(prefsPath)
	if err != nil {
		logger.Warn("ignoring preferences", "error", err)
	}
	scenarioID, lang := config.Resolve(cfg, prefs, scenarios.Default, state.DefaultLocale)

	open := func(id string) (*engine.Engine, error) {
		defs, err := loader.LoadScenario(fsys, id)
		if err != nil {
			return nil, err
		}
		return engine.New(defs, opts)
	}

	var eng *engine.Engine
	if path != "" {
		var defs *state.Defs
		defs, err = loader.Load(path)
		if err == nil {
			eng, err = engine.New(defs, opts)
		}
	} else {
		eng, err = open(scenarioID)
		if err != nil && cfg.Scenario == "" && scenarioID != scenarios.Default {
			// A remembered scenario may have been removed since.
			logger.Warn("remembered scenario unavailable", "scenario", scenarioID, "error", err)
			scenarioID = scenarios.Default
			eng, err = open(scenarioID)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		return 1
	}
	logger.Info("scenario loaded", "scenario", eng.Defs.Scenario.ID, "language", lang, "rounds", eng.Defs.TotalRounds())

	remember := func(scenario, locale string) {
		if prefsPath == "" {
			return
		}
		p := config.Preferences{Scenario: scenario, Language: locale}
		if path != "" && scenario == eng.Defs.Scenario.ID {
			// Scenarios opened by path are not in the catalog.
			p.Scenario = prefs.Scenario
		}
		if err := p.Save(prefsPath); err != nil {
			logger.Warn("saving preferences", "error", err)
		}
	}
	remember(eng.Defs.Scenario.ID, lang)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			return 1
		}
		defer f.Close()
		c := newCLI(eng, lang, trace, catalog, open, remember)
		c.In = f
		c.EchoInput = true
		c.Run()
		return 0
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		newCLI(eng, lang, trace, catalog, open, remember).Run()
		return 0
	}

	err = tui.Run(eng, tui.Options{
		Locale:   lang,
		Trace:    trace,
		Catalog:  catalog,
		Open:     open,
		OnChange: remember,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newCLI(eng *engine.Engine, lang string, trace bool, catalog []loader.Info, open cli.Opener, onChange func(string, string)) *cli.CLI {
	c := cli.New(eng, lang)
	c.Trace = trace
	c.Catalog = catalog
	c.Open = open
	c.OnChange = onChange
	return c
}

// newLogger writes JSON logs to the configured file. Without one, logs are
// discarded so they never draw over the game screen.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: cfg.Level()})
	return slog.New(h).With("version", version), func() { f.Close() }, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
