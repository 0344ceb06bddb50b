package core

import "time"

// BombID identifies a bomb within a registry.
type BombID int

// EventID identifies one explosion event. A chain reaction shares the
// event of the bomb that started it.
type EventID uint64

// BombState is the lifecycle stage of a bomb.
type BombState int

const (
	BombArmed BombState = iota
	BombExploding
	BombConsumed
)

func (s BombState) String() string {
	switch s {
	case BombArmed:
		return "armed"
	case BombExploding:
		return "exploding"
	case BombConsumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Timing holds the bomb durations of a session.
type Timing struct {
	// Fuse is the time from placement to detonation.
	Fuse time.Duration
	// Effect is how long an explosion stays on screen before the bomb
	// is removed and its capacity returned.
	Effect time.Duration
}

// DefaultTiming returns a 3s fuse and a 500ms explosion.
func DefaultTiming() Timing {
	return Timing{Fuse: 3 * time.Second, Effect: 500 * time.Millisecond}
}

// Bomb is a read-only view of a bomb in the registry.
type Bomb struct {
	ID     BombID
	Level  int
	Pos    Position
	Range  int
	Fuse   time.Duration
	Effect time.Duration
	State  BombState
	Event  EventID
	// Footprint lists the cells hit by the blast, own cell first.
	// It is empty while the bomb is armed.
	Footprint []Position
}

// BlastField is the map as seen by an explosion.
type BlastField interface {
	TileAt(x, y int) (TileKind, error)
	DestroyWall(x, y int) bool
}

// BlastTarget is the player as seen by the registry.
type BlastTarget interface {
	Position() Position
	ApplyBlastDamage(ev EventID) bool
	ReleaseBomb()
}

// TickReport summarises what a Tick or Detonate call changed.
type TickReport struct {
	Detonated      []BombID
	Consumed       []BombID
	WallsDestroyed []Position
	Events         []EventID
	LivesLost      int
}

func (r *TickReport) merge(o TickReport) {
	r.Detonated = append(r.Detonated, o.Detonated...)
	r.Consumed = append(r.Consumed, o.Consumed...)
	r.WallsDestroyed = append(r.WallsDestroyed, o.WallsDestroyed...)
	r.Events = append(r.Events, o.Events...)
	r.LivesLost += o.LivesLost
}

// Registry tracks the bombs of the current level.
type Registry struct {
	level     int
	timing    Timing
	bombs     []*Bomb
	nextID    BombID
	nextEvent EventID
}

// NewRegistry returns an empty registry for the given level.
func NewRegistry(level int, t Timing) *Registry {
	if t.Fuse <= 0 {
		t.Fuse = DefaultTiming().Fuse
	}
	if t.Effect < 0 {
		t.Effect = 0
	}
	return &Registry{level: level, timing: t}
}

// Reset discards every bomb and rebinds the registry to a level.
// Event ids keep increasing so damage dedupe stays valid across levels.
func (r *Registry) Reset(level int) {
	r.level = level
	r.bombs = nil
}

func (r *Registry) Level() int     { return r.level }
func (r *Registry) Timing() Timing { return r.timing }
func (r *Registry) Len() int       { return len(r.bombs) }

// Place arms a bomb at (x, y) with the given blast range. It returns
// false if a bomb already occupies the cell.
func (r *Registry) Place(x, y, blastRange int) (BombID, bool) {
	pos := Position{X: x, Y: y}
	if r.at(pos) != nil {
		return 0, false
	}
	r.nextID++
	r.bombs = append(r.bombs, &Bomb{
		ID:    r.nextID,
		Level: r.level,
		Pos:   pos,
		Range: max(blastRange, 1),
		Fuse:  r.timing.Fuse,
		State: BombArmed,
	})
	return r.nextID, true
}

// Occupied reports whether a bomb sits on (x, y).
func (r *Registry) Occupied(x, y int) bool {
	return r.at(Position{X: x, Y: y}) != nil
}

// Get returns a copy of the bomb with the given id.
func (r *Registry) Get(id BombID) (Bomb, bool) {
	for _, b := range r.bombs {
		if b.ID == id {
			return b.snapshot(), true
		}
	}
	return Bomb{}, false
}

// Bombs returns copies of every bomb in placement order.
func (r *Registry) Bombs() []Bomb {
	out := make([]Bomb, 0, len(r.bombs))
	for _, b := range r.bombs {
		out = append(out, b.snapshot())
	}
	return out
}

func (b *Bomb) snapshot() Bomb {
	c := *b
	c.Footprint = append([]Position(nil), b.Footprint...)
	return c
}

func (r *Registry) at(pos Position) *Bomb {
	for _, b := range r.bombs {
		if b.Pos == pos {
			return b
		}
	}
	return nil
}

func (r *Registry) armedAt(pos Position) *Bomb {
	if b := r.at(pos); b != nil && b.State == BombArmed {
		return b
	}
	return nil
}

// Tick advances every bomb by elapsed. Explosions already on screen age
// first, so bombs detonated in this call keep their full effect time.
// Then fuses burn down and every expired bomb detonates, chaining into
// any armed bomb its blast reaches before Tick returns.
func (r *Registry) Tick(elapsed time.Duration, m BlastField, p BlastTarget) TickReport {
	var rep TickReport
	if elapsed < 0 {
		elapsed = 0
	}

	for _, b := range r.bombs {
		if b.State != BombExploding {
			continue
		}
		b.Effect -= elapsed
		if b.Effect <= 0 {
			b.Effect = 0
			b.State = BombConsumed
			rep.Consumed = append(rep.Consumed, b.ID)
			p.ReleaseBomb()
		}
	}

	var expired []*Bomb
	for _, b := range r.bombs {
		if b.State != BombArmed {
			continue
		}
		b.Fuse -= elapsed
		if b.Fuse <= 0 {
			b.Fuse = 0
			expired = append(expired, b)
		}
	}
	for _, b := range expired {
		// A bomb chained by an earlier root in this loop is already exploding.
		if b.State == BombArmed {
			rep.merge(r.explode(b, m, p))
		}
	}

	r.compact()
	return rep
}

// Detonate forces an armed bomb to explode now. It is a no-op for
// unknown ids and bombs that are not armed.
func (r *Registry) Detonate(id BombID, m BlastField, p BlastTarget) TickReport {
	for _, b := range r.bombs {
		if b.ID == id && b.State == BombArmed {
			return r.explode(b, m, p)
		}
	}
	return TickReport{}
}

// explode runs one explosion event from root. Bombs hit by the blast are
// queued and exploded under the same event until no armed bomb is left
// in any footprint. The player loses at most one life per event.
func (r *Registry) explode(root *Bomb, m BlastField, p BlastTarget) TickReport {
	r.nextEvent++
	ev := r.nextEvent
	rep := TickReport{Events: []EventID{ev}}

	r.ignite(root, ev)
	queue := []*Bomb{root}
	hit := false
	target := p.Position()

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		rep.Detonated = append(rep.Detonated, b.ID)

		b.Footprint = r.footprint(b, m, &rep)
		for _, c := range b.Footprint {
			if c == target {
				hit = true
			}
			if next := r.armedAt(c); next != nil {
				r.ignite(next, ev)
				queue = append(queue, next)
			}
		}
	}

	if hit && p.ApplyBlastDamage(ev) {
		rep.LivesLost++
	}
	return rep
}

func (r *Registry) ignite(b *Bomb, ev EventID) {
	b.State = BombExploding
	b.Fuse = 0
	b.Effect = r.timing.Effect
	b.Event = ev
}

// footprint casts the four blast rays from b. A ray stops before an
// indestructible wall, and stops after destroying a destructible one.
func (r *Registry) footprint(b *Bomb, m BlastField, rep *TickReport) []Position {
	cells := []Position{b.Pos}
	for _, dir := range Directions {
		c := b.Pos
		for range b.Range {
			c = c.Step(dir)
			k, err := m.TileAt(c.X, c.Y)
			if err != nil || k == TileIndestructible {
				break
			}
			cells = append(cells, c)
			if k == TileDestructible {
				if m.DestroyWall(c.X, c.Y) {
					rep.WallsDestroyed = append(rep.WallsDestroyed, c)
				}
				break
			}
		}
	}
	return cells
}

func (r *Registry) compact() {
	kept := r.bombs[:0]
	for _, b := range r.bombs {
		if b.State != BombConsumed {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < len(r.bombs); i++ {
		r.bombs[i] = nil
	}
	r.bombs = kept
}
