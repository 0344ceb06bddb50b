package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/bomber.yaml
var defaultBomberYAML []byte

// DefaultBomberConfig returns the hardcoded defaults, used when the
// embedded YAML cannot be parsed.
func DefaultBomberConfig() BomberConfig {
	return BomberConfig{
		Player: BomberPlayer{
			Lives: 3,
			Bombs: 1,
			Range: 1,
		},
		Timing: BomberTiming{
			Fuse:            3 * time.Second,
			Effect:          500 * time.Millisecond,
			LevelClearDelay: 1500 * time.Millisecond,
		},
		Levels: BomberLevels{
			Prefix: "classic",
		},
		Source: "builtin",
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultBomberYAML
}
