package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home, work = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func TestEmbeddedDefaultMatchesBuiltin(t *testing.T) {
	isolate(t)

	cfg, err := LoadBomber("")
	if err != nil {
		t.Fatalf("LoadBomber: %v", err)
	}
	if cfg.Source != "embedded" {
		t.Errorf("Source = %q, want embedded", cfg.Source)
	}

	want := DefaultBomberConfig()
	want.Source = cfg.Source
	if cfg != want {
		t.Errorf("embedded %+v differs from builtin %+v", cfg, want)
	}
}

func TestSearchOrder(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(work, "configs", ConfigFile), "player: {lives: 7}\n")
	cfg, err := LoadBomber("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Player.Lives != 7 || cfg.Source != filepath.Join("configs", ConfigFile) {
		t.Errorf("local config: lives %d source %q", cfg.Player.Lives, cfg.Source)
	}

	writeFile(t, filepath.Join(home, ".bomber", "configs", ConfigFile), "player: {lives: 8}\n")
	cfg, _ = LoadBomber("")
	if cfg.Player.Lives != 8 {
		t.Errorf("user config should win over local: lives %d", cfg.Player.Lives)
	}

	custom := filepath.Join(t.TempDir(), "mine.yaml")
	writeFile(t, custom, "player: {lives: 9}\n")
	cfg, _ = LoadBomber(custom)
	if cfg.Player.Lives != 9 || cfg.Source != custom {
		t.Errorf("custom config should win: lives %d source %q", cfg.Player.Lives, cfg.Source)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	isolate(t)
	custom := filepath.Join(t.TempDir(), "partial.yaml")
	writeFile(t, custom, "timing:\n  fuse: 2500ms\nlevels:\n  dir: ./maps\n")

	cfg, err := LoadBomber(custom)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timing.Fuse != 2500*time.Millisecond {
		t.Errorf("Fuse = %v", cfg.Timing.Fuse)
	}
	if cfg.Timing.Effect != 500*time.Millisecond || cfg.Player.Lives != 3 || cfg.Levels.Prefix != "classic" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Levels.Dir != "./maps" {
		t.Errorf("Dir = %q", cfg.Levels.Dir)
	}
}

func TestBrokenUserConfigFallsThrough(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".bomber", "configs", ConfigFile), "player: [\n")

	cfg, err := LoadBomber("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source != "embedded" {
		t.Errorf("Source = %q, want embedded", cfg.Source)
	}
}

func TestCustomPathErrors(t *testing.T) {
	isolate(t)

	if _, err := LoadBomber(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, bad, "timing: {fuse: soon}\n")
	if _, err := LoadBomber(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("error = %v, want parse failure", err)
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	writeFile(t, invalid, "player: {range: 0}\n")
	if _, err := LoadBomber(invalid); err == nil || !strings.Contains(err.Error(), "player.range") {
		t.Errorf("error = %v, want range validation", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*BomberConfig)
	}{
		{"lives", func(c *BomberConfig) { c.Player.Lives = 0 }},
		{"bombs", func(c *BomberConfig) { c.Player.Bombs = 0 }},
		{"range", func(c *BomberConfig) { c.Player.Range = 0 }},
		{"fuse", func(c *BomberConfig) { c.Timing.Fuse = 0 }},
		{"effect", func(c *BomberConfig) { c.Timing.Effect = -time.Second }},
		{"delay", func(c *BomberConfig) { c.Timing.LevelClearDelay = -time.Second }},
		{"count", func(c *BomberConfig) { c.Levels.Count = -1 }},
	}
	if err := DefaultBomberConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBomberConfig()
			tt.modify(&cfg)
			if cfg.Validate() == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		preset    DifficultyPreset
		wantLives int
		wantFuse  time.Duration
	}{
		{DifficultyEasy, 5, 4 * time.Second},
		{DifficultyNormal, 3, 3 * time.Second},
		{DifficultyHard, 1, 2 * time.Second},
		{DifficultyFixed, 6, 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultBomberConfig()
			cfg.Player.Lives = 6
			cfg.Timing.Fuse = 1500 * time.Millisecond
			ApplyBomberPreset(&cfg, tt.preset)
			if cfg.Player.Lives != tt.wantLives || cfg.Timing.Fuse != tt.wantFuse {
				t.Errorf("lives/fuse = %d/%v, want %d/%v", cfg.Player.Lives, cfg.Timing.Fuse, tt.wantLives, tt.wantFuse)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	for _, s := range []string{"easy", "normal", "hard", "fixed"} {
		if p, err := ParsePreset(s); err != nil || string(p) != s {
			t.Errorf("ParsePreset(%q) = %q, %v", s, p, err)
		}
	}
	if p, err := ParsePreset(""); err != nil || !IsFixedPreset(p) {
		t.Errorf("empty preset = %q, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestConversions(t *testing.T) {
	cfg := DefaultBomberConfig()
	if s := cfg.Stats(); s.Lives != 3 || s.Bombs != 1 || s.Range != 1 {
		t.Errorf("Stats = %+v", s)
	}
	if tm := cfg.CoreTiming(); tm.Fuse != 3*time.Second || tm.Effect != 500*time.Millisecond {
		t.Errorf("CoreTiming = %+v", tm)
	}
}
