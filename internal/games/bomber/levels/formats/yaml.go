// Package formats provides the level file parsers for Bomber.
package formats

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
)

// YAMLLevel is the on-disk layout of a level file.
type YAMLLevel struct {
	Name         string            `yaml:"name"`
	Start        YAMLPoint         `yaml:"start"`
	RequiredKeys int               `yaml:"required_keys,omitempty"`
	Rows         []string          `yaml:"rows"`
	Legend       map[string]string `yaml:"legend,omitempty"`
	Concealed    []YAMLConcealed   `yaml:"concealed,omitempty"`
}

// YAMLPoint is a cell coordinate.
type YAMLPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// YAMLConcealed is a pickup hidden under a destructible wall.
type YAMLConcealed struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Tile string `yaml:"tile"`
}

// Level is a parsed level. It is not validated beyond what parsing needs.
type Level struct {
	Name         string
	Rows         [][]core.TileKind
	Start        core.Position
	RequiredKeys int
	Concealed    map[core.Position]core.TileKind
}

// DefaultLegend maps layout runes to tiles.
func DefaultLegend() map[rune]core.TileKind {
	return map[rune]core.TileKind{
		'#': core.TileIndestructible,
		'%': core.TileDestructible,
		'.': core.TileEmpty,
		' ': core.TileEmpty,
		'D': core.TileDoor,
		'K': core.TileKey,
		'+': core.TileBonusBombInc,
		'-': core.TileBonusBombDec,
		'>': core.TileBonusRangeInc,
		'<': core.TileBonusRangeDec,
		'L': core.TileBonusLife,
	}
}

// ParseTile resolves a tile by the name TileKind.String returns.
func ParseTile(name string) (core.TileKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := core.TileEmpty; k <= core.TileBonusLife; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return core.TileEmpty, false
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	legend := DefaultLegend()
	// Sorted so that errors are reported in a stable order.
	keys := make([]string, 0, len(yl.Legend))
	for sym := range yl.Legend {
		keys = append(keys, sym)
	}
	sort.Strings(keys)
	for _, sym := range keys {
		if utf8.RuneCountInString(sym) != 1 {
			return Level{}, fmt.Errorf("legend symbol %q must be a single character", sym)
		}
		k, ok := ParseTile(yl.Legend[sym])
		if !ok {
			return Level{}, fmt.Errorf("legend %q: unknown tile %q", sym, yl.Legend[sym])
		}
		r, _ := utf8.DecodeRuneInString(sym)
		legend[r] = k
	}

	level := Level{
		Name:         yl.Name,
		Rows:         make([][]core.TileKind, 0, len(yl.Rows)),
		Start:        core.Position{X: yl.Start.X, Y: yl.Start.Y},
		RequiredKeys: yl.RequiredKeys,
		Concealed:    make(map[core.Position]core.TileKind, len(yl.Concealed)),
	}

	for y, line := range yl.Rows {
		row := make([]core.TileKind, 0, len(line))
		for x, r := range []rune(line) {
			k, ok := legend[r]
			if !ok {
				return Level{}, fmt.Errorf("row %d col %d: unknown symbol %q", y, x, r)
			}
			row = append(row, k)
		}
		level.Rows = append(level.Rows, row)
	}

	for _, c := range yl.Concealed {
		k, ok := ParseTile(c.Tile)
		if !ok {
			return Level{}, fmt.Errorf("concealed (%d,%d): unknown tile %q", c.X, c.Y, c.Tile)
		}
		p := core.Position{X: c.X, Y: c.Y}
		if _, dup := level.Concealed[p]; dup {
			return Level{}, fmt.Errorf("concealed (%d,%d): duplicate entry", c.X, c.Y)
		}
		level.Concealed[p] = k
	}

	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
