package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name looked up in every search location.
const ConfigFile = "bomber.yaml"

// LoadBomber loads the Bomber configuration. Missing keys keep their
// default values.
// Search order: customPath -> ~/.bomber/configs/bomber.yaml -> ./configs/bomber.yaml -> embedded default
func LoadBomber(customPath string) (BomberConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return BomberConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data, customPath)
		if err != nil {
			return BomberConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory, then local configs directory
	for _, p := range []string{userConfigPath(ConfigFile), filepath.Join("configs", ConfigFile)} {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if cfg, err := parse(data, p); err == nil {
			return cfg, cfg.Validate()
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultBomberYAML, "embedded")
	if err != nil {
		return DefaultBomberConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parse(data []byte, source string) (BomberConfig, error) {
	cfg := DefaultBomberConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BomberConfig{}, err
	}
	cfg.Source = source
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bomber", "configs", filename)
}

// UserConfigPath returns where a user override of the config lives.
func UserConfigPath() string {
	return userConfigPath(ConfigFile)
}

// ApplyBomberPreset modifies the config based on a difficulty preset.
// Easy gives more lives and a slower fuse, hard the opposite.
func ApplyBomberPreset(cfg *BomberConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Player.Lives = 5
		cfg.Timing.Fuse = 4 * time.Second
	case DifficultyNormal:
		cfg.Player.Lives = 3
		cfg.Timing.Fuse = 3 * time.Second
	case DifficultyHard:
		cfg.Player.Lives = 1
		cfg.Timing.Fuse = 2 * time.Second
	}
}
