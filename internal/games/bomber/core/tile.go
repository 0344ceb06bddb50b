// Package core implements the Bomber simulation: the tile map, the player,
// the bomb registry with chain-reaction detonation, and the session that
// ties them together. It performs no I/O and reads no clock; time enters
// only as the elapsed duration passed to each tick.
package core

import "fmt"

// TileKind identifies what occupies a single map cell.
type TileKind uint8

const (
	TileEmpty TileKind = iota
	TileIndestructible
	TileDestructible
	TileDoor
	TileKey
	TileBonusBombInc
	TileBonusBombDec
	TileBonusRangeInc
	TileBonusRangeDec
	TileBonusLife
)

// String returns the tile name used in logs and level validation messages.
func (k TileKind) String() string {
	switch k {
	case TileEmpty:
		return "empty"
	case TileIndestructible:
		return "indestructible"
	case TileDestructible:
		return "destructible"
	case TileDoor:
		return "door"
	case TileKey:
		return "key"
	case TileBonusBombInc:
		return "bomb+"
	case TileBonusBombDec:
		return "bomb-"
	case TileBonusRangeInc:
		return "range+"
	case TileBonusRangeDec:
		return "range-"
	case TileBonusLife:
		return "life"
	default:
		return fmt.Sprintf("tile(%d)", uint8(k))
	}
}

// IsWall reports whether the tile is either kind of wall.
func (k TileKind) IsWall() bool {
	return k == TileIndestructible || k == TileDestructible
}

// IsBonus reports whether the tile is an inventory bonus.
func (k TileKind) IsBonus() bool {
	return k >= TileBonusBombInc && k <= TileBonusLife
}

// IsPickup reports whether the player collects the tile by walking onto it.
func (k TileKind) IsPickup() bool {
	return k == TileKey || k.IsBonus()
}

// Position is a cell coordinate on the map. X grows east, Y grows south.
type Position struct {
	X, Y int
}

// Step returns the neighbouring cell in the given direction.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// String formats the position as (x,y).
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a cardinal facing.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists the cardinal directions in blast-ray order.
var Directions = [4]Direction{North, South, East, West}

// Delta returns the unit vector for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}
