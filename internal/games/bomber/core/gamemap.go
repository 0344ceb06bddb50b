package core

import "fmt"

// MapData is the raw description of one level as produced by a level
// loader. NewMap turns it into a playable Map.
type MapData struct {
	Index        int
	Name         string
	Rows         [][]TileKind
	Start        Position
	RequiredKeys int
	// Concealed maps destructible wall cells to the pickup revealed
	// when the wall is destroyed.
	Concealed map[Position]TileKind
}

// Map is the tile grid of a single level. It is mutated in place by
// explosions and pickup collection.
type Map struct {
	index        int
	name         string
	width        int
	height       int
	tiles        []TileKind
	start        Position
	requiredKeys int
	doorLocked   bool
	concealed    map[Position]TileKind
}

// NewMap validates the structural invariants of d and builds a Map.
// Reachability of the door is the loader's concern and is not checked here.
func NewMap(d MapData) (*Map, error) {
	h := len(d.Rows)
	if h == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidMap)
	}
	w := len(d.Rows[0])
	if w == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrInvalidMap)
	}
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("%w: %dx%d is too small", ErrInvalidMap, w, h)
	}
	if d.RequiredKeys < 0 {
		return nil, fmt.Errorf("%w: negative required keys", ErrInvalidMap)
	}

	m := &Map{
		index:        d.Index,
		name:         d.Name,
		width:        w,
		height:       h,
		tiles:        make([]TileKind, 0, w*h),
		start:        d.Start,
		requiredKeys: d.RequiredKeys,
		doorLocked:   d.RequiredKeys > 0,
		concealed:    make(map[Position]TileKind, len(d.Concealed)),
	}

	for y, row := range d.Rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidMap, y, len(row), w)
		}
		for x, k := range row {
			if k > TileBonusLife {
				return nil, fmt.Errorf("%w: unknown tile %d at (%d,%d)", ErrInvalidMap, k, x, y)
			}
			border := x == 0 || y == 0 || x == w-1 || y == h-1
			if border && k != TileIndestructible {
				return nil, fmt.Errorf("%w: border cell (%d,%d) is %s", ErrInvalidMap, x, y, k)
			}
			m.tiles = append(m.tiles, k)
		}
	}

	if !m.inBounds(d.Start.X, d.Start.Y) {
		return nil, fmt.Errorf("%w: start %s outside %dx%d grid", ErrInvalidMap, d.Start, w, h)
	}
	if k := m.tiles[m.offset(d.Start.X, d.Start.Y)]; k != TileEmpty {
		return nil, fmt.Errorf("%w: start %s holds %s", ErrInvalidMap, d.Start, k)
	}

	for p, k := range d.Concealed {
		if !m.inBounds(p.X, p.Y) || m.tiles[m.offset(p.X, p.Y)] != TileDestructible {
			return nil, fmt.Errorf("%w: concealed %s at %s is not under a destructible wall", ErrInvalidMap, k, p)
		}
		if !k.IsPickup() {
			return nil, fmt.Errorf("%w: concealed tile at %s must be a pickup, got %s", ErrInvalidMap, p, k)
		}
		m.concealed[p] = k
	}

	return m, nil
}

func (m *Map) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

func (m *Map) offset(x, y int) int {
	return y*m.width + x
}

// TileAt returns the tile kind at (x, y).
func (m *Map) TileAt(x, y int) (TileKind, error) {
	if !m.inBounds(x, y) {
		return TileEmpty, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	return m.tiles[m.offset(x, y)], nil
}

// IsWalkable reports whether the player may stand on (x, y).
// Walls, a locked door and out-of-bounds cells are not walkable.
func (m *Map) IsWalkable(x, y int) bool {
	if !m.inBounds(x, y) {
		return false
	}
	switch k := m.tiles[m.offset(x, y)]; k {
	case TileIndestructible, TileDestructible:
		return false
	case TileDoor:
		return !m.doorLocked
	default:
		return true
	}
}

// DestroyWall turns a destructible wall into empty floor, or into the
// pickup it concealed. It reports whether a wall was destroyed; any other
// tile is left untouched.
func (m *Map) DestroyWall(x, y int) bool {
	if !m.inBounds(x, y) {
		return false
	}
	i := m.offset(x, y)
	if m.tiles[i] != TileDestructible {
		return false
	}
	p := Position{X: x, Y: y}
	if k, ok := m.concealed[p]; ok {
		m.tiles[i] = k
		delete(m.concealed, p)
	} else {
		m.tiles[i] = TileEmpty
	}
	return true
}

// TakePickup clears a key or bonus at (x, y) and returns its kind.
// It returns TileEmpty when there is nothing to collect.
func (m *Map) TakePickup(x, y int) TileKind {
	if !m.inBounds(x, y) {
		return TileEmpty
	}
	i := m.offset(x, y)
	k := m.tiles[i]
	if !k.IsPickup() {
		return TileEmpty
	}
	m.tiles[i] = TileEmpty
	return k
}

// IsDoor reports whether (x, y) is a door cell.
func (m *Map) IsDoor(x, y int) bool {
	return m.inBounds(x, y) && m.tiles[m.offset(x, y)] == TileDoor
}

// DoorLocked reports whether the level's doors still need keys.
func (m *Map) DoorLocked() bool { return m.doorLocked }

// UnlockDoor opens every door on the map.
func (m *Map) UnlockDoor() { m.doorLocked = false }

func (m *Map) Width() int        { return m.width }
func (m *Map) Height() int       { return m.height }
func (m *Map) Start() Position   { return m.start }
func (m *Map) Index() int        { return m.index }
func (m *Map) Name() string      { return m.name }
func (m *Map) RequiredKeys() int { return m.requiredKeys }
func (m *Map) ConcealedLen() int { return len(m.concealed) }

// Count returns how many visible cells hold kind k.
func (m *Map) Count(k TileKind) int {
	n := 0
	for _, t := range m.tiles {
		if t == k {
			n++
		}
	}
	return n
}

// Tiles returns a copy of the grid, indexed [y][x].
func (m *Map) Tiles() [][]TileKind {
	out := make([][]TileKind, m.height)
	for y := range out {
		row := make([]TileKind, m.width)
		copy(row, m.tiles[y*m.width:(y+1)*m.width])
		out[y] = row
	}
	return out
}

// Clone returns an independent copy of the map, including concealed
// pickups and the door lock state.
func (m *Map) Clone() *Map {
	c := *m
	c.tiles = append([]TileKind(nil), m.tiles...)
	c.concealed = make(map[Position]TileKind, len(m.concealed))
	for p, k := range m.concealed {
		c.concealed[p] = k
	}
	return &c
}
