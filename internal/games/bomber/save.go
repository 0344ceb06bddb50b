package bomber

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
	"github.com/vovakirdan/tui-bomber/internal/games/bomber/levels"
	"github.com/vovakirdan/tui-bomber/internal/games/bomber/levels/formats"
	"github.com/vovakirdan/tui-bomber/internal/registry"
)

// saveVersion is bumped when saveFile changes shape.
const saveVersion = 2

// ErrNotRunning is returned when saving a game that failed to load.
var ErrNotRunning = errors.New("bomber: no game in progress")

// saveFile is the YAML body of a save slot. Changed holds every cell of
// the current level that differs from its file: destroyed walls and
// collected pickups.
type saveFile struct {
	Version  int               `yaml:"version"`
	Pack     string            `yaml:"pack"`
	Level    int               `yaml:"level"`
	Score    int               `yaml:"score"`
	Player   core.PlayerFields `yaml:"player"`
	Changed  []savedCell       `yaml:"changed,omitempty"`
	DoorOpen bool              `yaml:"door_open,omitempty"`
}

type savedCell struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Tile string `yaml:"tile"`
}

// changedCells lists the cells of m that no longer match the level file.
func changedCells(l *levels.Level, m *core.Map) []savedCell {
	var out []savedCell
	for y, row := range m.Tiles() {
		for x, k := range row {
			if k != l.Rows[y][x] {
				out = append(out, savedCell{X: x, Y: y, Tile: k.String()})
			}
		}
	}
	return out
}

// replayCells brings a fresh map to the saved state. Only changes play
// could have made are accepted: a wall destroyed, then a pickup taken.
func replayCells(m *core.Map, cells []savedCell) error {
	for _, c := range cells {
		want, ok := formats.ParseTile(c.Tile)
		if !ok {
			return fmt.Errorf("%w: unknown tile %q", core.ErrInvalidSave, c.Tile)
		}
		k, err := m.TileAt(c.X, c.Y)
		if err != nil {
			return fmt.Errorf("%w: %w", core.ErrInvalidSave, err)
		}
		if k == core.TileDestructible {
			m.DestroyWall(c.X, c.Y)
		}
		if want == core.TileEmpty {
			m.TakePickup(c.X, c.Y)
		}
		if got, _ := m.TileAt(c.X, c.Y); got != want {
			return fmt.Errorf("%w: cell (%d,%d) cannot become %s from %s",
				core.ErrInvalidSave, c.X, c.Y, want, k)
		}
	}
	return nil
}

var _ registry.Saver = (*Game)(nil)

// Save captures the run at the start of the current level.
func (g *Game) Save() (registry.SaveState, error) {
	if g.session == nil {
		return registry.SaveState{}, ErrNotRunning
	}
	if g.session.Over() {
		return registry.SaveState{}, fmt.Errorf("bomber: game is over")
	}
	snap := g.session.Snapshot()
	m := g.session.Map()
	data, err := yaml.Marshal(saveFile{
		Version:  saveVersion,
		Pack:     g.setup.Loader.Prefix(),
		Level:    snap.Level,
		Score:    snap.Score,
		Player:   snap.Player,
		Changed:  changedCells(&g.setup.Levels[snap.Level], m),
		DoorOpen: !m.DoorLocked(),
	})
	if err != nil {
		return registry.SaveState{}, fmt.Errorf("bomber: encode save: %w", err)
	}
	return registry.SaveState{Level: snap.Level, Data: data}, nil
}

// Load replaces the running session with a saved one. The game must
// have been Reset first so the level pack is loaded.
func (g *Game) Load(st registry.SaveState) error {
	if g.loadErr != nil {
		return g.loadErr
	}
	if g.session == nil {
		return ErrNotRunning
	}

	var f saveFile
	if err := yaml.Unmarshal(st.Data, &f); err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidSave, err)
	}
	if f.Version != saveVersion {
		return fmt.Errorf("%w: version %d", core.ErrInvalidSave, f.Version)
	}
	if pack := g.setup.Loader.Prefix(); f.Pack != pack {
		return fmt.Errorf("%w: saved for pack %q, running %q", core.ErrInvalidSave, f.Pack, pack)
	}

	prev := g.session
	if err := g.newSession(); err != nil {
		return err
	}
	if err := g.restoreMap(f); err != nil {
		g.session = prev
		return err
	}
	if err := g.session.Restore(f.Level, f.Player); err != nil {
		g.session = prev
		return err
	}
	g.session.SetBaseScore(f.Score)
	g.clearFor = 0
	g.layout()
	return nil
}

// restoreMap applies the saved cell changes and door state to the saved
// level. The door is opened here so Restore does not spend keys again.
func (g *Game) restoreMap(f saveFile) error {
	m := g.session.LevelMap(f.Level)
	if m == nil {
		return fmt.Errorf("%w: level %d out of range", core.ErrInvalidSave, f.Level)
	}
	if err := replayCells(m, f.Changed); err != nil {
		return err
	}
	if f.DoorOpen {
		m.UnlockDoor()
	}
	return nil
}
