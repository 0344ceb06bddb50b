package core

import (
	"errors"
	"fmt"
	"time"
)

// Mode is the state of a session.
type Mode int

const (
	ModePlaying Mode = iota
	ModePaused
	ModeWon
	ModeLost
)

func (m Mode) String() string {
	switch m {
	case ModePlaying:
		return "playing"
	case ModePaused:
		return "paused"
	case ModeWon:
		return "won"
	case ModeLost:
		return "lost"
	default:
		return "unknown"
	}
}

// IntentKind is the type of a per-tick player intent.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentMove
	IntentPlaceBomb
	IntentPause
	IntentResume
	IntentQuit
)

// Intent is the input of one tick.
type Intent struct {
	Kind IntentKind
	Dir  Direction // for IntentMove
}

// Intent constructors.
func Idle() Intent            { return Intent{} }
func Move(d Direction) Intent { return Intent{Kind: IntentMove, Dir: d} }
func PlaceBomb() Intent       { return Intent{Kind: IntentPlaceBomb} }
func Pause() Intent           { return Intent{Kind: IntentPause} }
func Resume() Intent          { return Intent{Kind: IntentResume} }
func Quit() Intent            { return Intent{Kind: IntentQuit} }

// BombResult reports the outcome of a place-bomb intent.
type BombResult int

const (
	BombNone BombResult = iota
	BombPlaced
	BombDenied
)

// Score weights.
const (
	ScoreWall  = 10
	ScoreKey   = 50
	ScoreBonus = 25
	ScoreLevel = 500
)

// Config is the starting configuration of a session.
type Config struct {
	Stats  Stats
	Timing Timing
}

// DefaultSessionConfig returns DefaultStats and DefaultTiming.
func DefaultSessionConfig() Config {
	return Config{Stats: DefaultStats(), Timing: DefaultTiming()}
}

// AdvanceResult describes what one Advance call did.
type AdvanceResult struct {
	Tick        uint64
	Move        MoveResult
	Bomb        BombResult
	Picked      TileKind // pickup collected this tick, TileEmpty if none
	DoorOpened  bool
	Report      TickReport
	Mode        Mode
	ModeChanged bool
	Quit        bool
}

// Session owns the maps, the player and the bomb registry of one game.
type Session struct {
	maps   []*Map
	level  int
	player *Player
	bombs  *Registry
	mode   Mode
	quit   bool

	tick          uint64
	played        time.Duration
	pausedTotal   time.Duration
	pausedCurrent time.Duration

	base    int
	walls   int
	keys    int
	bonuses int
	cleared int
}

// NewSession starts a game on the first of maps.
func NewSession(maps []*Map, cfg Config) (*Session, error) {
	if len(maps) == 0 {
		return nil, errors.New("bomber: session needs at least one map")
	}
	for i, m := range maps {
		if m == nil {
			return nil, fmt.Errorf("bomber: map %d is nil", i)
		}
	}
	s := &Session{
		maps:   maps,
		player: NewPlayer(maps[0].Start(), cfg.Stats),
		bombs:  NewRegistry(0, cfg.Timing),
	}
	s.enterLevel(0)
	return s, nil
}

func (s *Session) enterLevel(i int) {
	s.level = i
	s.bombs.Reset(i)
	s.player.ResetBombs()
	s.player.SetPosition(s.maps[i].Start())
	s.mode = ModePlaying
	s.tryUnlock()
}

// Map returns the current level's map.
func (s *Session) Map() *Map { return s.maps[s.level] }

// LevelMap returns the map of level i, or nil when i is out of range.
func (s *Session) LevelMap(i int) *Map {
	if i < 0 || i >= len(s.maps) {
		return nil
	}
	return s.maps[i]
}

// Player returns the session's player.
func (s *Session) Player() *Player { return s.player }

// Bombs returns a snapshot of the bombs on the current level.
func (s *Session) Bombs() []Bomb { return s.bombs.Bombs() }

// Registry returns the bomb registry of the current level.
func (s *Session) Registry() *Registry { return s.bombs }

func (s *Session) Level() int                   { return s.level }
func (s *Session) LevelCount() int              { return len(s.maps) }
func (s *Session) Mode() Mode                   { return s.mode }
func (s *Session) Quit() bool                   { return s.quit }
func (s *Session) Tick() uint64                 { return s.tick }
func (s *Session) Played() time.Duration        { return s.played }
func (s *Session) PausedTotal() time.Duration   { return s.pausedTotal }
func (s *Session) PausedCurrent() time.Duration { return s.pausedCurrent }

// HasNextLevel reports whether another level follows the current one.
func (s *Session) HasNextLevel() bool { return s.level+1 < len(s.maps) }

// LevelCleared reports whether the current level is won and another
// level follows. AdvanceLevel moves on from this state.
func (s *Session) LevelCleared() bool { return s.mode == ModeWon && s.HasNextLevel() }

// Over reports whether the session has reached a terminal state.
func (s *Session) Over() bool {
	return s.mode == ModeLost || (s.mode == ModeWon && !s.HasNextLevel())
}

// Score is computed from walls destroyed, pickups collected and levels
// cleared.
func (s *Session) Score() int {
	return s.base + s.walls*ScoreWall + s.keys*ScoreKey + s.bonuses*ScoreBonus + s.cleared*ScoreLevel
}

// Advance runs one tick. While playing, the intent is applied first,
// then bombs are updated by elapsed, then win and loss are checked.
// While paused, elapsed only counts as paused time.
func (s *Session) Advance(in Intent, elapsed time.Duration) AdvanceResult {
	if elapsed < 0 {
		elapsed = 0
	}
	s.tick++
	before := s.mode
	res := AdvanceResult{Tick: s.tick}

	if in.Kind == IntentQuit {
		s.quit = true
		res.Quit = true
		res.Mode = s.mode
		return res
	}

	switch s.mode {
	case ModePaused:
		s.pausedCurrent += elapsed
		if in.Kind == IntentResume || in.Kind == IntentPause {
			s.pausedTotal += s.pausedCurrent
			s.pausedCurrent = 0
			s.mode = ModePlaying
		}

	case ModePlaying:
		s.advancePlaying(in, elapsed, &res)
	}

	res.Mode = s.mode
	res.ModeChanged = s.mode != before
	return res
}

func (s *Session) advancePlaying(in Intent, elapsed time.Duration, res *AdvanceResult) {
	m := s.Map()
	p := s.player

	switch in.Kind {
	case IntentPause:
		// Pausing takes effect before this tick's time is applied.
		s.mode = ModePaused
		s.pausedCurrent = elapsed
		return

	case IntentMove:
		res.Move = p.AttemptMove(m, in.Dir)
		if res.Move == MoveMoved {
			res.Picked, res.DoorOpened = s.collect(p.Position())
		}

	case IntentPlaceBomb:
		res.Bomb = s.placeBomb()
	}

	s.played += elapsed
	res.Report = s.bombs.Tick(elapsed, m, p)
	s.walls += len(res.Report.WallsDestroyed)

	pos := p.Position()
	switch {
	case !p.Alive():
		s.mode = ModeLost
	case m.IsDoor(pos.X, pos.Y) && !m.DoorLocked():
		s.mode = ModeWon
		s.cleared++
	}
}

func (s *Session) placeBomb() BombResult {
	pos := s.player.Position()
	if s.bombs.Occupied(pos.X, pos.Y) {
		return BombDenied
	}
	if !s.player.PlaceBombIntent() {
		return BombDenied
	}
	if _, ok := s.bombs.Place(pos.X, pos.Y, s.player.BlastRange()); !ok {
		s.player.ReleaseBomb()
		return BombDenied
	}
	return BombPlaced
}

// collect picks up whatever lies on pos and reports the pickup and
// whether it opened the door.
func (s *Session) collect(pos Position) (TileKind, bool) {
	m := s.Map()
	k := m.TakePickup(pos.X, pos.Y)
	switch {
	case k == TileKey:
		s.player.CollectKey()
		s.keys++
		return k, s.tryUnlock()
	case k.IsBonus():
		s.player.ApplyBonus(k)
		s.bonuses++
	}
	return k, false
}

// tryUnlock opens a locked door once the player holds enough keys. The
// required keys are spent.
func (s *Session) tryUnlock() bool {
	m := s.Map()
	if !m.DoorLocked() || s.player.Keys() < m.RequiredKeys() {
		return false
	}
	s.player.SpendKeys(m.RequiredKeys())
	m.UnlockDoor()
	return true
}

// AdvanceLevel moves a won session to the next level: the player is
// placed on its start and the bombs of the old level are discarded.
// It returns false if the session is not won or the last level was won.
func (s *Session) AdvanceLevel() bool {
	if s.mode != ModeWon || !s.HasNextLevel() {
		return false
	}
	s.enterLevel(s.level + 1)
	return true
}

// Restore replaces the player and jumps to level, as when loading a save.
// The saved position must be walkable on that level, otherwise the
// level's start is used.
func (s *Session) Restore(level int, f PlayerFields) error {
	if level < 0 || level >= len(s.maps) {
		return fmt.Errorf("%w: level %d of %d", ErrInvalidSave, level, len(s.maps))
	}
	p, err := PlayerFromFields(f)
	if err != nil {
		return err
	}
	if !p.Alive() {
		return fmt.Errorf("%w: no lives left", ErrInvalidSave)
	}
	s.player = p
	s.level = level
	s.bombs.Reset(level)
	s.mode = ModePlaying
	s.pausedCurrent = 0

	m := s.Map()
	if pos := p.Position(); !m.IsWalkable(pos.X, pos.Y) || m.IsDoor(pos.X, pos.Y) {
		p.SetPosition(m.Start())
	}
	s.tryUnlock()
	return nil
}

// SetBaseScore sets points carried over from a saved game.
func (s *Session) SetBaseScore(n int) { s.base = max(n, 0) }

// Snapshot is a comparable summary of the session state.
type Snapshot struct {
	Tick        uint64
	Level       int
	Mode        Mode
	Player      PlayerFields
	ActiveBombs int
	Bombs       int
	DoorLocked  bool
	Score       int
	Played      time.Duration
	PausedTotal time.Duration
}

// Snapshot returns the current summary.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:        s.tick,
		Level:       s.level,
		Mode:        s.mode,
		Player:      s.player.Fields(),
		ActiveBombs: s.player.ActiveBombs(),
		Bombs:       s.bombs.Len(),
		DoorLocked:  s.Map().DoorLocked(),
		Score:       s.Score(),
		Played:      s.played,
		PausedTotal: s.pausedTotal,
	}
}
