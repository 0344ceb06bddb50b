// Package config provides YAML-based configuration loading and
// difficulty presets for Bomber.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
)

// BomberConfig contains all configuration for a Bomber run.
type BomberConfig struct {
	Player BomberPlayer `yaml:"player"`
	Timing BomberTiming `yaml:"timing"`
	Levels BomberLevels `yaml:"levels"`

	// Source is the file the config was read from, or "embedded" or
	// "builtin". It is not part of the YAML.
	Source string `yaml:"-"`
}

// BomberPlayer defines the starting inventory.
type BomberPlayer struct {
	Lives int `yaml:"lives"`
	Bombs int `yaml:"bombs"`
	Range int `yaml:"range"`
}

// BomberTiming defines bomb and transition durations.
// Values use Go duration syntax ("3s", "500ms").
type BomberTiming struct {
	Fuse            time.Duration `yaml:"fuse"`
	Effect          time.Duration `yaml:"effect"`
	LevelClearDelay time.Duration `yaml:"level_clear_delay"`
}

// BomberLevels selects the level pack.
type BomberLevels struct {
	Prefix string `yaml:"prefix"`
	Count  int    `yaml:"count"` // 0 = load until the first missing file
	Dir    string `yaml:"dir"`   // empty = embedded pack
}

// Stats converts the player section for the simulation.
func (c BomberConfig) Stats() core.Stats {
	return core.Stats{Lives: c.Player.Lives, Bombs: c.Player.Bombs, Range: c.Player.Range}
}

// CoreTiming converts the timing section for the simulation.
func (c BomberConfig) CoreTiming() core.Timing {
	return core.Timing{Fuse: c.Timing.Fuse, Effect: c.Timing.Effect}
}

// Validate reports the first out-of-range value.
func (c BomberConfig) Validate() error {
	switch {
	case c.Player.Lives < 1:
		return fmt.Errorf("config: player.lives must be at least 1, got %d", c.Player.Lives)
	case c.Player.Bombs < 1:
		return fmt.Errorf("config: player.bombs must be at least 1, got %d", c.Player.Bombs)
	case c.Player.Range < 1:
		return fmt.Errorf("config: player.range must be at least 1, got %d", c.Player.Range)
	case c.Timing.Fuse <= 0:
		return fmt.Errorf("config: timing.fuse must be positive, got %v", c.Timing.Fuse)
	case c.Timing.Effect < 0:
		return fmt.Errorf("config: timing.effect must not be negative, got %v", c.Timing.Effect)
	case c.Timing.LevelClearDelay < 0:
		return fmt.Errorf("config: timing.level_clear_delay must not be negative, got %v", c.Timing.LevelClearDelay)
	case c.Levels.Count < 0:
		return fmt.Errorf("config: levels.count must not be negative, got %d", c.Levels.Count)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // use the config file as is
)

// ParsePreset validates a preset name. The empty string means fixed.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyFixed, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// IsFixedPreset returns true if the preset leaves the config untouched.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
