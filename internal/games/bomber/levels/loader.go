// Package levels loads and validates Bomber level packs.
// A pack is a set of files named map_<prefix>_<i>.yaml, played in index
// order. This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
	"github.com/vovakirdan/tui-bomber/internal/games/bomber/levels/formats"
)

// DefaultPrefix names the embedded pack.
const DefaultPrefix = "classic"

//go:embed packs/classic/*.yaml
var packs embed.FS

// ErrInvalidLevel is returned for missing or malformed level files.
// These are configuration errors: the game cannot start with them.
var ErrInvalidLevel = errors.New("levels: invalid level")

// Level is a parsed and validated level definition.
type Level struct {
	Index        int
	Name         string
	Rows         [][]core.TileKind
	Start        core.Position
	RequiredKeys int
	Concealed    map[core.Position]core.TileKind
	FilePath     string
}

// MapData returns the level in the form core.NewMap accepts.
func (l *Level) MapData() core.MapData {
	return core.MapData{
		Index:        l.Index,
		Name:         l.Name,
		Rows:         l.Rows,
		Start:        l.Start,
		RequiredKeys: l.RequiredKeys,
		Concealed:    l.Concealed,
	}
}

// ToMap builds a fresh playable map from the level.
func (l *Level) ToMap() (*core.Map, error) {
	m, err := core.NewMap(l.MapData())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidLevel, l.FilePath, err)
	}
	return m, nil
}

// Loader reads a level pack from a file system.
type Loader struct {
	fsys   fs.FS
	prefix string
	count  int
	source string
	logger *log.Logger
}

// NewLoader returns a loader for map_<prefix>_<i>.yaml files in fsys.
// A count of zero loads consecutive files until the first missing index.
// A nil logger discards output.
func NewLoader(fsys fs.FS, prefix string, count int, logger *log.Logger) *Loader {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{fsys: fsys, prefix: prefix, count: max(count, 0), source: "fs", logger: logger}
}

// NewDirLoader returns a loader over a directory on disk.
func NewDirLoader(dir, prefix string, count int, logger *log.Logger) *Loader {
	l := NewLoader(os.DirFS(dir), prefix, count, logger)
	l.source = dir
	return l
}

// DefaultLoader returns a loader for the embedded classic pack.
func DefaultLoader(logger *log.Logger) *Loader {
	sub, err := fs.Sub(packs, "packs/"+DefaultPrefix)
	if err != nil {
		panic(fmt.Sprintf("levels: embedded pack: %v", err))
	}
	l := NewLoader(sub, DefaultPrefix, 0, logger)
	l.source = "embedded"
	return l
}

// Source describes where the pack is read from.
func (l *Loader) Source() string { return l.source }

// Prefix is the pack name used in file names.
func (l *Loader) Prefix() string { return l.prefix }

// FileName returns the file name of level i.
func (l *Loader) FileName(i int) string {
	return fmt.Sprintf("map_%s_%d.yaml", l.prefix, i)
}

// LoadAll loads and validates every level of the pack in order.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	for i := 0; l.count == 0 || i < l.count; i++ {
		name := l.FileName(i)
		if l.count == 0 {
			if _, err := fs.Stat(l.fsys, name); errors.Is(err, fs.ErrNotExist) {
				break
			}
		}
		lv, err := l.LoadFile(name, i)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lv)
	}

	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no %s found in %s", ErrInvalidLevel, l.FileName(0), l.source)
	}
	l.logger.Debug("level pack loaded", "prefix", l.prefix, "source", l.source, "levels", len(levels))
	return levels, nil
}

// LoadFile loads and validates one level file as level index.
func (l *Loader) LoadFile(name string, index int) (Level, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return Level{}, fmt.Errorf("%w: reading %s: %w", ErrInvalidLevel, name, err)
	}

	parsed, err := parseByExtension(data, path.Ext(name))
	if err != nil {
		return Level{}, fmt.Errorf("%w: parsing %s: %w", ErrInvalidLevel, name, err)
	}

	lv := Level{
		Index:        index,
		Name:         parsed.Name,
		Rows:         parsed.Rows,
		Start:        parsed.Start,
		RequiredKeys: parsed.RequiredKeys,
		Concealed:    parsed.Concealed,
		FilePath:     name,
	}
	if lv.Name == "" {
		lv.Name = fmt.Sprintf("Level %d", index+1)
	}
	if err := Validate(lv); err != nil {
		return Level{}, err
	}

	l.logger.Debug("level loaded", "file", name, "name", lv.Name,
		"width", len(lv.Rows[0]), "height", len(lv.Rows), "keys", lv.RequiredKeys)
	return lv, nil
}

// Maps loads the pack and builds one map per level.
func (l *Loader) Maps() ([]*core.Map, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	return BuildMaps(levels)
}

// BuildMaps builds fresh maps from already loaded levels.
func BuildMaps(levels []Level) ([]*core.Map, error) {
	maps := make([]*core.Map, 0, len(levels))
	for i := range levels {
		m, err := levels[i].ToMap()
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, nil
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	if !slices.Contains(formats.FormatExtensions(), ext) {
		return formats.Level{}, fmt.Errorf("unsupported extension %q (want one of %s)",
			ext, strings.Join(formats.FormatExtensions(), ", "))
	}
	return formats.ParseYAML(data)
}
