package core_test

import (
	"testing"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
)

var legend = map[rune]core.TileKind{
	'#': core.TileIndestructible,
	'%': core.TileDestructible,
	'.': core.TileEmpty,
	'D': core.TileDoor,
	'K': core.TileKey,
	'+': core.TileBonusBombInc,
	'-': core.TileBonusBombDec,
	'>': core.TileBonusRangeInc,
	'<': core.TileBonusRangeDec,
	'L': core.TileBonusLife,
}

func rowsOf(t *testing.T, layout ...string) [][]core.TileKind {
	t.Helper()
	rows := make([][]core.TileKind, len(layout))
	for y, line := range layout {
		for _, r := range line {
			k, ok := legend[r]
			if !ok {
				t.Fatalf("unknown layout rune %q", r)
			}
			rows[y] = append(rows[y], k)
		}
	}
	return rows
}

// mustMap builds a map starting at (1,1).
func mustMap(t *testing.T, layout ...string) *core.Map {
	t.Helper()
	return mustMapData(t, core.MapData{Rows: rowsOf(t, layout...), Start: core.Position{X: 1, Y: 1}})
}

func mustMapData(t *testing.T, d core.MapData) *core.Map {
	t.Helper()
	m, err := core.NewMap(d)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

func open7x7() []string {
	return []string{
		"#######",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#######",
	}
}

func tileAt(t *testing.T, m *core.Map, x, y int) core.TileKind {
	t.Helper()
	k, err := m.TileAt(x, y)
	if err != nil {
		t.Fatalf("TileAt(%d,%d): %v", x, y, err)
	}
	return k
}

func containsPos(cells []core.Position, p core.Position) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}
