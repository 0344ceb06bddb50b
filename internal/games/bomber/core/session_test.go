package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
)

func newSession(t *testing.T, stats core.Stats, maps ...*core.Map) *core.Session {
	t.Helper()
	s, err := core.NewSession(maps, core.Config{Stats: stats, Timing: testTiming})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionNeedsMaps(t *testing.T) {
	if _, err := core.NewSession(nil, core.DefaultSessionConfig()); err == nil {
		t.Error("expected error for empty map set")
	}
	if _, err := core.NewSession([]*core.Map{nil}, core.DefaultSessionConfig()); err == nil {
		t.Error("expected error for nil map")
	}
}

func TestSessionStart(t *testing.T) {
	s := newSession(t, core.DefaultStats(), mustMap(t, open7x7()...))
	if s.Mode() != core.ModePlaying || s.Level() != 0 || s.LevelCount() != 1 {
		t.Errorf("mode/level/count = %v/%d/%d", s.Mode(), s.Level(), s.LevelCount())
	}
	if s.Player().Position() != (core.Position{X: 1, Y: 1}) {
		t.Errorf("player at %v, want start", s.Player().Position())
	}
}

func TestPauseFreezesFuse(t *testing.T) {
	s := newSession(t, core.DefaultStats(), mustMap(t, open7x7()...))
	s.Advance(core.PlaceBomb(), 0)
	s.Advance(core.Idle(), time.Second)

	if res := s.Advance(core.Pause(), 500*time.Millisecond); res.Mode != core.ModePaused || !res.ModeChanged {
		t.Fatalf("pause: mode = %v changed = %v", res.Mode, res.ModeChanged)
	}
	fuse := s.Bombs()[0].Fuse

	for _, in := range []core.Intent{core.Idle(), core.Move(core.East), core.PlaceBomb()} {
		s.Advance(in, 10*time.Second)
	}
	if got := s.Bombs()[0].Fuse; got != fuse {
		t.Errorf("fuse moved while paused: %v -> %v", fuse, got)
	}
	if s.Player().Position() != (core.Position{X: 1, Y: 1}) || len(s.Bombs()) != 1 {
		t.Error("intents other than resume must be ignored while paused")
	}
	if s.PausedCurrent() != 30*time.Second+500*time.Millisecond {
		t.Errorf("PausedCurrent = %v", s.PausedCurrent())
	}

	s.Advance(core.Resume(), time.Second)
	if s.Mode() != core.ModePlaying {
		t.Fatalf("mode after resume = %v", s.Mode())
	}
	if s.PausedCurrent() != 0 || s.PausedTotal() != 31*time.Second+500*time.Millisecond {
		t.Errorf("paused total/current = %v/%v", s.PausedTotal(), s.PausedCurrent())
	}
	if got := s.Bombs()[0].Fuse; got != fuse {
		t.Errorf("resume tick burned fuse: %v", got)
	}

	res := s.Advance(core.Idle(), fuse)
	if len(res.Report.Detonated) != 1 {
		t.Error("bomb should detonate once the remaining fuse is played")
	}
	if s.Played() != time.Second+fuse {
		t.Errorf("Played = %v", s.Played())
	}
}

func TestPauseToggle(t *testing.T) {
	s := newSession(t, core.DefaultStats(), mustMap(t, open7x7()...))
	s.Advance(core.Pause(), 0)
	s.Advance(core.Pause(), 0)
	if s.Mode() != core.ModePlaying {
		t.Errorf("second pause should resume, mode = %v", s.Mode())
	}
	if res := s.Advance(core.Resume(), 0); res.ModeChanged {
		t.Error("resume while playing is a no-op")
	}
}

func TestQuit(t *testing.T) {
	s := newSession(t, core.DefaultStats(), mustMap(t, open7x7()...))
	s.Advance(core.Pause(), 0)
	if res := s.Advance(core.Quit(), 0); !res.Quit || !s.Quit() {
		t.Error("quit should work from pause")
	}
}

func TestBombDenied(t *testing.T) {
	s := newSession(t, core.Stats{Lives: 3, Bombs: 1, Range: 1}, mustMap(t, open7x7()...))

	if res := s.Advance(core.PlaceBomb(), 0); res.Bomb != core.BombPlaced {
		t.Fatalf("first bomb = %v", res.Bomb)
	}
	if res := s.Advance(core.PlaceBomb(), 0); res.Bomb != core.BombDenied {
		t.Error("bomb on an occupied cell should be denied")
	}
	s.Advance(core.Move(core.East), 0)
	before := s.Snapshot()
	res := s.Advance(core.PlaceBomb(), 0)
	if res.Bomb != core.BombDenied {
		t.Error("bomb at full capacity should be denied")
	}
	after := s.Snapshot()
	if after.ActiveBombs != before.ActiveBombs || after.Bombs != before.Bombs || after.Player != before.Player {
		t.Errorf("denied bomb changed state: %+v -> %+v", before, after)
	}
}

func TestWinOnUnlockedDoor(t *testing.T) {
	s := newSession(t, core.DefaultStats(), mustMap(t,
		"#####",
		"#.D.#",
		"#####",
	))

	res := s.Advance(core.Move(core.East), 0)
	if res.Mode != core.ModeWon || !res.ModeChanged {
		t.Fatalf("mode = %v, want won", res.Mode)
	}
	if !s.Over() || s.LevelCleared() || s.AdvanceLevel() {
		t.Error("winning the only level is terminal")
	}
	if s.Score() != core.ScoreLevel {
		t.Errorf("Score = %d, want %d", s.Score(), core.ScoreLevel)
	}
	if res := s.Advance(core.Move(core.West), time.Second); res.Move != core.MoveNone {
		t.Error("no moves after the game is over")
	}
}

func TestKeyGatedDoor(t *testing.T) {
	locked := func() *core.Map {
		return mustMapData(t, core.MapData{
			Rows:         rowsOf(t, "######", "#.KD.#", "#....#", "######"),
			Start:        core.Position{X: 1, Y: 2},
			RequiredKeys: 1,
		})
	}

	t.Run("blocked without key", func(t *testing.T) {
		s := newSession(t, core.DefaultStats(), locked())
		s.Advance(core.Move(core.East), 0)
		s.Advance(core.Move(core.East), 0) // now at (3,2), below the door
		if res := s.Advance(core.Move(core.North), 0); res.Move != core.MoveBlocked {
			t.Errorf("move into locked door = %v", res.Move)
		}
		if s.Mode() != core.ModePlaying {
			t.Errorf("mode = %v", s.Mode())
		}
	})

	t.Run("key opens door", func(t *testing.T) {
		s := newSession(t, core.DefaultStats(), locked())
		s.Advance(core.Move(core.East), 0)
		res := s.Advance(core.Move(core.North), 0)
		if res.Picked != core.TileKey || !res.DoorOpened {
			t.Fatalf("picked = %v opened = %v", res.Picked, res.DoorOpened)
		}
		if s.Player().Keys() != 0 || s.Map().DoorLocked() {
			t.Errorf("keys = %d locked = %v, want the key spent on the door", s.Player().Keys(), s.Map().DoorLocked())
		}
		if tileAt(t, s.Map(), 2, 1) != core.TileEmpty {
			t.Error("collected key should leave the map")
		}
		if res := s.Advance(core.Move(core.East), 0); res.Mode != core.ModeWon {
			t.Errorf("mode = %v, want won", res.Mode)
		}
		if s.Score() != core.ScoreKey+core.ScoreLevel {
			t.Errorf("Score = %d", s.Score())
		}
	})
}

func TestBonusPickup(t *testing.T) {
	s := newSession(t, core.DefaultStats(), mustMap(t,
		"#######",
		"#.+>L.#",
		"#######",
	))
	for range 3 {
		s.Advance(core.Move(core.East), 0)
	}
	p := s.Player()
	if p.BombCapacity() != 2 || p.BlastRange() != 2 || p.Lives() != 4 {
		t.Errorf("bombs/range/lives = %d/%d/%d", p.BombCapacity(), p.BlastRange(), p.Lives())
	}
	if s.Score() != 3*core.ScoreBonus {
		t.Errorf("Score = %d", s.Score())
	}
}

func TestLoseAtZeroLives(t *testing.T) {
	s := newSession(t, core.Stats{Lives: 1, Bombs: 1, Range: 1}, mustMap(t, open7x7()...))
	s.Advance(core.PlaceBomb(), 0)
	res := s.Advance(core.Idle(), testTiming.Fuse)
	if res.Mode != core.ModeLost || !s.Over() {
		t.Fatalf("mode = %v, want lost", res.Mode)
	}
	if res := s.Advance(core.Idle(), testTiming.Effect); len(res.Report.Consumed) != 0 {
		t.Error("bombs must not update after the game is lost")
	}
}

func TestWallScore(t *testing.T) {
	s := newSession(t, core.DefaultStats(), mustMap(t,
		"#####",
		"#.%.#",
		"#%..#",
		"#####",
	))
	s.Advance(core.PlaceBomb(), 0)
	s.Advance(core.Idle(), testTiming.Fuse)
	if s.Score() != 2*core.ScoreWall {
		t.Errorf("Score = %d, want %d", s.Score(), 2*core.ScoreWall)
	}
}

func twoLevels(t *testing.T) []*core.Map {
	first := mustMapData(t, core.MapData{
		Index: 0,
		Rows:  rowsOf(t, "######", "#.D..#", "#....#", "######"),
		Start: core.Position{X: 1, Y: 1},
	})
	second := mustMapData(t, core.MapData{
		Index: 1,
		Rows:  rowsOf(t, "######", "#...D#", "#....#", "######"),
		Start: core.Position{X: 2, Y: 2},
	})
	return []*core.Map{first, second}
}

func TestAdvanceLevelResetsBombs(t *testing.T) {
	s := newSession(t, core.Stats{Lives: 3, Bombs: 2, Range: 3}, twoLevels(t)...)

	s.Advance(core.PlaceBomb(), 0)
	res := s.Advance(core.Move(core.East), time.Second)
	if res.Mode != core.ModeWon || !s.LevelCleared() || s.Over() {
		t.Fatalf("mode = %v cleared = %v", res.Mode, s.LevelCleared())
	}
	if !s.AdvanceLevel() {
		t.Fatal("AdvanceLevel should move to the second level")
	}

	if s.Level() != 1 || s.Mode() != core.ModePlaying {
		t.Errorf("level/mode = %d/%v", s.Level(), s.Mode())
	}
	if s.Player().Position() != (core.Position{X: 2, Y: 2}) {
		t.Errorf("player at %v, want next start", s.Player().Position())
	}
	if len(s.Bombs()) != 0 || s.Player().ActiveBombs() != 0 {
		t.Errorf("bombs = %d active = %d, want a fresh registry", len(s.Bombs()), s.Player().ActiveBombs())
	}
	if s.Registry().Level() != 1 {
		t.Errorf("registry level = %d", s.Registry().Level())
	}

	// The bomb armed on level 0 must never go off here.
	for range 10 {
		if res := s.Advance(core.Idle(), time.Second); len(res.Report.Detonated) != 0 {
			t.Fatal("bomb from the previous level detonated")
		}
	}
	if s.Player().Lives() != 3 {
		t.Errorf("Lives = %d, want 3", s.Player().Lives())
	}
	if s.AdvanceLevel() {
		t.Error("AdvanceLevel while playing should be refused")
	}

	s.Advance(core.Move(core.East), 0)
	s.Advance(core.Move(core.North), 0)
	res = s.Advance(core.Move(core.East), 0)
	if res.Mode != core.ModeWon || !s.Over() || s.AdvanceLevel() {
		t.Errorf("final level: mode = %v over = %v", res.Mode, s.Over())
	}
}

func TestRestore(t *testing.T) {
	s := newSession(t, core.DefaultStats(), twoLevels(t)...)
	s.Advance(core.PlaceBomb(), 0)

	f := core.PlayerFields{X: 3, Y: 1, Facing: core.West, Lives: 2, Bombs: 2, Range: 3, Keys: 1}
	if err := s.Restore(1, f); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Level() != 1 || s.Player().Fields() != f || len(s.Bombs()) != 0 {
		t.Errorf("restored: level %d fields %+v bombs %d", s.Level(), s.Player().Fields(), len(s.Bombs()))
	}

	f.X, f.Y = 0, 0
	if err := s.Restore(0, f); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Player().Position() != (core.Position{X: 1, Y: 1}) {
		t.Errorf("unwalkable save position should fall back to start, got %v", s.Player().Position())
	}

	if err := s.Restore(5, f); !errors.Is(err, core.ErrInvalidSave) {
		t.Errorf("bad level error = %v", err)
	}
	f.Lives = 0
	if err := s.Restore(0, f); !errors.Is(err, core.ErrInvalidSave) {
		t.Errorf("dead player error = %v", err)
	}
}

func TestSessionDeterminism(t *testing.T) {
	script := []core.Intent{
		core.PlaceBomb(), core.Move(core.East), core.Move(core.East), core.Move(core.South),
		core.Idle(), core.Pause(), core.Idle(), core.Resume(), core.Move(core.West),
		core.PlaceBomb(), core.Idle(), core.Idle(), core.Move(core.South),
	}
	run := func() []core.Snapshot {
		s := newSession(t, core.Stats{Lives: 3, Bombs: 2, Range: 2}, mustMap(t,
			"#######",
			"#...%.#",
			"#.%...#",
			"#...%.#",
			"#.....#",
			"#######",
		))
		var out []core.Snapshot
		for range 4 {
			for _, in := range script {
				s.Advance(in, 400*time.Millisecond)
				out = append(out, s.Snapshot())
			}
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run diverged at step %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
