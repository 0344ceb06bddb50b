package levels

import (
	"fmt"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
)

// Validate checks everything the simulation relies on but does not
// re-check at runtime: the map structure, at least one door, a path
// from the start to a door, and enough keys to open it.
func Validate(lv Level) error {
	m, err := lv.ToMap()
	if err != nil {
		return err
	}

	if m.Count(core.TileDoor) == 0 {
		return fmt.Errorf("%w: %s: no door", ErrInvalidLevel, lv.FilePath)
	}

	hiddenKeys := 0
	for _, k := range lv.Concealed {
		if k == core.TileKey {
			hiddenKeys++
		}
	}
	if have := m.Count(core.TileKey) + hiddenKeys; have < lv.RequiredKeys {
		return fmt.Errorf("%w: %s: needs %d keys, has %d", ErrInvalidLevel, lv.FilePath, lv.RequiredKeys, have)
	}

	if !doorReachable(m) {
		return fmt.Errorf("%w: %s: no door reachable from start %s", ErrInvalidLevel, lv.FilePath, m.Start())
	}
	return nil
}

// doorReachable runs a breadth-first search from the start. Destructible
// walls count as passable since bombs can clear them.
func doorReachable(m *core.Map) bool {
	start := m.Start()
	seen := map[core.Position]bool{start: true}
	queue := []core.Position{start}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if m.IsDoor(p.X, p.Y) {
			return true
		}
		for _, d := range core.Directions {
			n := p.Step(d)
			if seen[n] {
				continue
			}
			k, err := m.TileAt(n.X, n.Y)
			if err != nil || k == core.TileIndestructible {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return false
}
