package core

import "fmt"

// MoveResult reports the outcome of a move intent.
type MoveResult int

const (
	MoveNone MoveResult = iota
	MoveMoved
	MoveBlocked
)

func (r MoveResult) String() string {
	switch r {
	case MoveMoved:
		return "moved"
	case MoveBlocked:
		return "blocked"
	default:
		return "none"
	}
}

// Terrain is the part of a map the player needs to move.
type Terrain interface {
	IsWalkable(x, y int) bool
}

// Stats are the starting inventory of a new player.
type Stats struct {
	Lives int
	Bombs int
	Range int
}

// DefaultStats returns three lives, one bomb and a blast range of one.
func DefaultStats() Stats {
	return Stats{Lives: 3, Bombs: 1, Range: 1}
}

// Player is the single avatar of a session.
type Player struct {
	pos      Position
	facing   Direction
	lives    int
	capacity int
	active   int
	rng      int
	keys     int

	// lastHit is the most recent explosion event that cost a life.
	// Event ids start at 1, so zero means none.
	lastHit EventID
}

// NewPlayer places a player at start facing south. Stats below their
// minimum are raised to it.
func NewPlayer(start Position, s Stats) *Player {
	return &Player{
		pos:      start,
		facing:   South,
		lives:    max(s.Lives, 0),
		capacity: max(s.Bombs, 0),
		rng:      max(s.Range, 1),
	}
}

func (p *Player) Position() Position { return p.pos }
func (p *Player) Facing() Direction  { return p.facing }
func (p *Player) Lives() int         { return p.lives }
func (p *Player) BombCapacity() int  { return p.capacity }
func (p *Player) ActiveBombs() int   { return p.active }
func (p *Player) BlastRange() int    { return p.rng }
func (p *Player) Keys() int          { return p.keys }

// BombsAvailable is the number of bombs that can still be placed.
func (p *Player) BombsAvailable() int { return max(p.capacity-p.active, 0) }

// Alive reports whether the player has lives left.
func (p *Player) Alive() bool { return p.lives > 0 }

// AttemptMove turns the player toward dir and steps one cell if the
// target is walkable. Facing changes even when the move is blocked.
func (p *Player) AttemptMove(t Terrain, dir Direction) MoveResult {
	if !dir.Valid() {
		return MoveBlocked
	}
	p.facing = dir
	next := p.pos.Step(dir)
	if !t.IsWalkable(next.X, next.Y) {
		return MoveBlocked
	}
	p.pos = next
	return MoveMoved
}

// PlaceBombIntent consumes one unit of bomb capacity if any is left.
// The caller must create the bomb, or return the unit with ReleaseBomb.
func (p *Player) PlaceBombIntent() bool {
	if p.active >= p.capacity {
		return false
	}
	p.active++
	return true
}

// ReleaseBomb returns one unit of capacity.
func (p *Player) ReleaseBomb() {
	if p.active > 0 {
		p.active--
	}
}

// ResetBombs returns every outstanding unit of capacity.
func (p *Player) ResetBombs() { p.active = 0 }

// ApplyBlastDamage costs one life for explosion event ev. Repeated calls
// with the same event are ignored. It reports whether a life was lost.
func (p *Player) ApplyBlastDamage(ev EventID) bool {
	if ev != 0 && ev == p.lastHit {
		return false
	}
	if p.lives == 0 {
		return false
	}
	p.lastHit = ev
	p.lives--
	return true
}

func (p *Player) CollectKey() { p.keys++ }

// SpendKeys removes n keys. It fails without change if fewer are held.
func (p *Player) SpendKeys(n int) bool {
	if n < 0 || n > p.keys {
		return false
	}
	p.keys -= n
	return true
}

// ApplyBonus applies a bonus tile to the inventory. Decrements never take
// bomb capacity or range below one. It reports whether kind was a bonus.
func (p *Player) ApplyBonus(kind TileKind) bool {
	switch kind {
	case TileBonusBombInc:
		p.capacity++
	case TileBonusBombDec:
		if p.capacity > 1 {
			p.capacity--
		}
	case TileBonusRangeInc:
		p.rng++
	case TileBonusRangeDec:
		if p.rng > 1 {
			p.rng--
		}
	case TileBonusLife:
		p.lives++
	default:
		return false
	}
	return true
}

// SetPosition moves the player without a walkability check. Used on
// level transitions and restores.
func (p *Player) SetPosition(pos Position) { p.pos = pos }

// PlayerFields is the flat form of a player used by save slots.
// Bombs in flight are not saved.
type PlayerFields struct {
	X      int       `yaml:"x"`
	Y      int       `yaml:"y"`
	Facing Direction `yaml:"facing"`
	Lives  int       `yaml:"lives"`
	Bombs  int       `yaml:"bombs"`
	Range  int       `yaml:"range"`
	Keys   int       `yaml:"keys"`
}

// Fields returns the persistent state of the player.
func (p *Player) Fields() PlayerFields {
	return PlayerFields{
		X:      p.pos.X,
		Y:      p.pos.Y,
		Facing: p.facing,
		Lives:  p.lives,
		Bombs:  p.capacity,
		Range:  p.rng,
		Keys:   p.keys,
	}
}

// PlayerFromFields rebuilds a player from saved fields.
func PlayerFromFields(f PlayerFields) (*Player, error) {
	switch {
	case !f.Facing.Valid():
		return nil, fmt.Errorf("%w: facing %d", ErrInvalidSave, f.Facing)
	case f.Lives < 0, f.Bombs < 0, f.Keys < 0:
		return nil, fmt.Errorf("%w: negative counter", ErrInvalidSave)
	case f.Range < 1:
		return nil, fmt.Errorf("%w: range %d", ErrInvalidSave, f.Range)
	}
	return &Player{
		pos:      Position{X: f.X, Y: f.Y},
		facing:   f.Facing,
		lives:    f.Lives,
		capacity: f.Bombs,
		rng:      f.Range,
		keys:     f.Keys,
	}, nil
}
