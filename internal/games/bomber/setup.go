package bomber

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bomber/internal/config"
	"github.com/vovakirdan/tui-bomber/internal/games/bomber/levels"
)

// Options selects the config file, difficulty and level pack of a run.
type Options struct {
	ConfigPath string
	LevelsDir  string // overrides levels.dir from the config
	Preset     config.DifficultyPreset
	Logger     *log.Logger
}

// Package-level options, read by games created through the registry.
var options = Options{Preset: config.DifficultyFixed}

// Configure sets the options used by the next Reset.
func Configure(o Options) {
	if o.Preset == "" {
		o.Preset = config.DifficultyFixed
	}
	options = o
}

// CurrentOptions returns the options set by Configure.
func CurrentOptions() Options {
	return options
}

// Setup is everything a run needs before its first tick.
type Setup struct {
	Config config.BomberConfig
	Loader *levels.Loader
	Levels []levels.Level
}

// Prepare loads the config and the level pack. The CLI calls it before
// starting the terminal UI so configuration errors surface early.
func Prepare(o Options) (Setup, error) {
	cfg, err := config.LoadBomber(o.ConfigPath)
	if err != nil {
		return Setup{}, err
	}
	if !config.IsFixedPreset(o.Preset) {
		config.ApplyBomberPreset(&cfg, o.Preset)
	}

	dir := o.LevelsDir
	if dir == "" {
		dir = cfg.Levels.Dir
	}
	var loader *levels.Loader
	if dir == "" {
		loader = levels.DefaultLoader(o.Logger)
	} else {
		loader = levels.NewDirLoader(dir, cfg.Levels.Prefix, cfg.Levels.Count, o.Logger)
	}

	lvls, err := loader.LoadAll()
	if err != nil {
		return Setup{}, fmt.Errorf("bomber: level pack %q: %w", loader.Prefix(), err)
	}

	if o.Logger != nil {
		o.Logger.Info("bomber ready", "config", cfg.Source, "pack", loader.Prefix(),
			"source", loader.Source(), "levels", len(lvls), "difficulty", o.Preset)
	}
	return Setup{Config: cfg, Loader: loader, Levels: lvls}, nil
}
