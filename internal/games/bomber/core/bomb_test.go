package core_test

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
)

var testTiming = core.Timing{Fuse: 3 * time.Second, Effect: 500 * time.Millisecond}

func positions(coords ...int) []core.Position {
	out := make([]core.Position, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, core.Position{X: coords[i], Y: coords[i+1]})
	}
	return out
}

func sameCells(a, b []core.Position) bool {
	if len(a) != len(b) {
		return false
	}
	for _, p := range a {
		if !containsPos(b, p) {
			return false
		}
	}
	return true
}

func TestPlaceRejectsOccupiedCell(t *testing.T) {
	r := core.NewRegistry(0, testTiming)

	id, ok := r.Place(2, 2, 1)
	if !ok || id == 0 {
		t.Fatalf("Place = %d, %v", id, ok)
	}
	if _, ok := r.Place(2, 2, 3); ok {
		t.Error("second bomb on the same cell should be rejected")
	}
	if r.Len() != 1 || !r.Occupied(2, 2) || r.Occupied(3, 2) {
		t.Errorf("Len=%d Occupied(2,2)=%v", r.Len(), r.Occupied(2, 2))
	}
	b, _ := r.Get(id)
	if b.State != core.BombArmed || b.Fuse != testTiming.Fuse || b.Range != 1 {
		t.Errorf("new bomb = %+v", b)
	}
}

func TestFuseCountdown(t *testing.T) {
	m := mustMap(t, open7x7()...)
	p := core.NewPlayer(core.Position{X: 5, Y: 5}, core.DefaultStats())
	r := core.NewRegistry(0, testTiming)
	id, _ := r.Place(1, 1, 1)

	rep := r.Tick(2*time.Second, m, p)
	if len(rep.Detonated) != 0 {
		t.Fatal("bomb should not detonate before its fuse runs out")
	}
	b, _ := r.Get(id)
	if b.Fuse != time.Second {
		t.Errorf("Fuse = %v, want 1s", b.Fuse)
	}

	rep = r.Tick(time.Second, m, p)
	if len(rep.Detonated) != 1 || rep.Detonated[0] != id {
		t.Fatalf("Detonated = %v, want [%d]", rep.Detonated, id)
	}
	b, _ = r.Get(id)
	if b.State != core.BombExploding || b.Effect != testTiming.Effect {
		t.Errorf("bomb after fuse = %+v", b)
	}
}

func TestSevenBySevenBlast(t *testing.T) {
	s, err := core.NewSession([]*core.Map{mustMap(t, open7x7()...)},
		core.Config{Stats: core.Stats{Lives: 3, Bombs: 1, Range: 2}, Timing: testTiming})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if res := s.Advance(core.PlaceBomb(), 0); res.Bomb != core.BombPlaced {
		t.Fatalf("place = %v", res.Bomb)
	}
	res := s.Advance(core.Idle(), testTiming.Fuse)
	if len(res.Report.Detonated) != 1 {
		t.Fatalf("Detonated = %v", res.Report.Detonated)
	}

	bombs := s.Bombs()
	want := positions(1, 1, 2, 1, 3, 1, 1, 2, 1, 3)
	if !sameCells(bombs[0].Footprint, want) {
		t.Errorf("footprint = %v, want %v", bombs[0].Footprint, want)
	}
	if bombs[0].Footprint[0] != (core.Position{X: 1, Y: 1}) {
		t.Error("own cell should lead the footprint")
	}
	if s.Player().Lives() != 2 {
		t.Errorf("player on the bomb: Lives = %d, want 2", s.Player().Lives())
	}
}

func TestBlastDestroysWallInRange(t *testing.T) {
	m := mustMap(t,
		"#######",
		"#..%..#",
		"#.....#",
		"#%....#",
		"#.....#",
		"#.....#",
		"#######",
	)
	p := core.NewPlayer(core.Position{X: 5, Y: 5}, core.DefaultStats())
	r := core.NewRegistry(0, testTiming)
	id, _ := r.Place(1, 1, 2)

	rep := r.Tick(testTiming.Fuse, m, p)
	b, _ := r.Get(id)

	want := positions(1, 1, 2, 1, 3, 1, 1, 2, 1, 3)
	if !sameCells(b.Footprint, want) {
		t.Errorf("footprint = %v, want %v", b.Footprint, want)
	}
	if !sameCells(rep.WallsDestroyed, positions(3, 1, 1, 3)) {
		t.Errorf("WallsDestroyed = %v", rep.WallsDestroyed)
	}
	if tileAt(t, m, 3, 1) != core.TileEmpty || tileAt(t, m, 1, 3) != core.TileEmpty {
		t.Error("walls in range should be destroyed")
	}
}

func TestIndestructibleWallTruncatesRay(t *testing.T) {
	m := mustMap(t,
		"#######",
		"#.....#",
		"##....#",
		"#%....#",
		"#.....#",
		"#.....#",
		"#######",
	)
	p := core.NewPlayer(core.Position{X: 1, Y: 4}, core.Stats{Lives: 3, Bombs: 1, Range: 3})
	r := core.NewRegistry(0, testTiming)
	id, _ := r.Place(1, 1, 3)

	r.Tick(testTiming.Fuse, m, p)
	b, _ := r.Get(id)

	want := positions(1, 1, 2, 1, 3, 1, 4, 1)
	if !sameCells(b.Footprint, want) {
		t.Errorf("footprint = %v, want %v", b.Footprint, want)
	}
	if containsPos(b.Footprint, core.Position{X: 1, Y: 2}) {
		t.Error("an indestructible wall is not part of the blast")
	}
	if tileAt(t, m, 1, 2) != core.TileIndestructible {
		t.Error("indestructible wall changed")
	}
	if tileAt(t, m, 1, 3) != core.TileDestructible {
		t.Error("wall behind an indestructible wall must be unaffected")
	}
	if p.Lives() != 3 {
		t.Error("player behind an indestructible wall must not be hurt")
	}
}

func TestDestructibleWallStopsRay(t *testing.T) {
	m := mustMap(t,
		"#######",
		"#.%%..#",
		"#.....#",
		"#######",
	)
	p := core.NewPlayer(core.Position{X: 4, Y: 1}, core.DefaultStats())
	r := core.NewRegistry(0, testTiming)
	id, _ := r.Place(1, 1, 3)

	r.Tick(testTiming.Fuse, m, p)
	b, _ := r.Get(id)

	if !containsPos(b.Footprint, core.Position{X: 2, Y: 1}) {
		t.Error("destroyed wall belongs to the footprint")
	}
	if containsPos(b.Footprint, core.Position{X: 3, Y: 1}) {
		t.Error("ray must stop at the first destructible wall")
	}
	if tileAt(t, m, 2, 1) != core.TileEmpty {
		t.Error("first wall should be destroyed")
	}
	if tileAt(t, m, 3, 1) != core.TileDestructible {
		t.Error("wall immediately behind must survive")
	}
	if p.Lives() != 3 {
		t.Error("player behind the walls must not be hurt")
	}
}

func TestBlastPassesOverPickupsAndDoors(t *testing.T) {
	m := mustMap(t,
		"#######",
		"#.KD+.#",
		"#######",
	)
	p := core.NewPlayer(core.Position{X: 5, Y: 1}, core.DefaultStats())
	r := core.NewRegistry(0, testTiming)
	r.Place(1, 1, 4)

	rep := r.Tick(testTiming.Fuse, m, p)
	if rep.LivesLost != 1 {
		t.Errorf("LivesLost = %d, want 1", rep.LivesLost)
	}
	if tileAt(t, m, 2, 1) != core.TileKey || tileAt(t, m, 3, 1) != core.TileDoor || tileAt(t, m, 4, 1) != core.TileBonusBombInc {
		t.Error("blasts must not destroy pickups or doors")
	}
}

func TestTwoBombChainCostsOneLife(t *testing.T) {
	m := mustMap(t, open7x7()...)
	p := core.NewPlayer(core.Position{X: 4, Y: 2}, core.Stats{Lives: 3, Bombs: 2, Range: 1})
	r := core.NewRegistry(0, testTiming)

	p.PlaceBombIntent()
	first, _ := r.Place(2, 2, 1)
	r.Tick(time.Second, m, p)
	p.PlaceBombIntent()
	second, _ := r.Place(3, 2, 1)

	rep := r.Tick(2*time.Second, m, p)

	if len(rep.Detonated) != 2 {
		t.Fatalf("Detonated = %v, want both bombs", rep.Detonated)
	}
	a, _ := r.Get(first)
	b, _ := r.Get(second)
	if a.State != core.BombExploding || b.State != core.BombExploding {
		t.Errorf("states = %v, %v", a.State, b.State)
	}
	if a.Event != b.Event || len(rep.Events) != 1 {
		t.Errorf("chain should share one event: %d vs %d (%v)", a.Event, b.Event, rep.Events)
	}
	if !containsPos(b.Footprint, core.Position{X: 4, Y: 2}) {
		t.Errorf("second footprint %v should reach the player", b.Footprint)
	}
	if p.Lives() != 2 || rep.LivesLost != 1 {
		t.Errorf("Lives = %d LivesLost = %d, want exactly one life lost", p.Lives(), rep.LivesLost)
	}
}

func TestLongChainSameTick(t *testing.T) {
	m := mustMap(t,
		"#########",
		"#.......#",
		"#.......#",
		"#.......#",
		"#########",
	)
	const n = 5
	p := core.NewPlayer(core.Position{X: 6, Y: 2}, core.Stats{Lives: 3, Bombs: n, Range: 1})
	r := core.NewRegistry(0, testTiming)

	ids := make([]core.BombID, 0, n)
	for x := 1; x <= n; x++ {
		p.PlaceBombIntent()
		id, _ := r.Place(x, 2, 1)
		ids = append(ids, id)
	}

	rep := r.Detonate(ids[0], m, p)
	if len(rep.Detonated) != n {
		t.Fatalf("Detonated %d bombs, want %d", len(rep.Detonated), n)
	}
	for _, id := range ids {
		b, _ := r.Get(id)
		if b.State != core.BombExploding {
			t.Errorf("bomb %d state = %v", id, b.State)
		}
	}
	if p.Lives() != 2 {
		t.Errorf("Lives = %d, want 2", p.Lives())
	}

	// The rest of the chain already exploded, so fuses expiring later
	// have nothing left to detonate.
	rep = r.Tick(testTiming.Fuse, m, p)
	if len(rep.Detonated) != 0 {
		t.Errorf("tick re-detonated %v", rep.Detonated)
	}
}

// Chained bombs resolve one at a time, so a later ray sees walls an
// earlier bomb of the same event already destroyed.
func TestChainedRaySeesEarlierDestruction(t *testing.T) {
	m := mustMap(t,
		"########",
		"#..%%..#",
		"#......#",
		"########",
	)
	p := core.NewPlayer(core.Position{X: 6, Y: 2}, core.Stats{Lives: 3, Bombs: 2, Range: 1})
	r := core.NewRegistry(0, testTiming)
	root, _ := r.Place(2, 1, 1)
	chained, _ := r.Place(1, 1, 3)

	rep := r.Detonate(root, m, p)
	if len(rep.Detonated) != 2 {
		t.Fatalf("Detonated = %v, want both bombs", rep.Detonated)
	}
	if tileAt(t, m, 3, 1) != core.TileEmpty || tileAt(t, m, 4, 1) != core.TileEmpty {
		t.Error("chained ray should pass the wall the root destroyed and take the next one")
	}
	b, _ := r.Get(chained)
	if !containsPos(b.Footprint, core.Position{X: 4, Y: 1}) {
		t.Errorf("chained footprint %v should reach (4,1)", b.Footprint)
	}
	if p.Lives() != 3 {
		t.Error("player outside both footprints must not be hurt")
	}
}

func TestChainCycleTerminates(t *testing.T) {
	m := mustMap(t, open7x7()...)
	p := core.NewPlayer(core.Position{X: 5, Y: 5}, core.Stats{Lives: 3, Bombs: 4, Range: 3})
	r := core.NewRegistry(0, testTiming)
	for _, c := range positions(2, 2, 3, 2, 2, 3, 3, 3) {
		r.Place(c.X, c.Y, 3)
	}

	rep := r.Tick(testTiming.Fuse, m, p)
	if len(rep.Detonated) != 4 || len(rep.Events) != 1 {
		t.Errorf("Detonated = %v, Events = %v", rep.Detonated, rep.Events)
	}
}

func TestSeparateEventsCostSeparateLives(t *testing.T) {
	m := mustMap(t, open7x7()...)
	p := core.NewPlayer(core.Position{X: 2, Y: 2}, core.Stats{Lives: 3, Bombs: 2, Range: 1})
	r := core.NewRegistry(0, testTiming)
	r.Place(1, 2, 1)
	r.Place(3, 2, 1)

	rep := r.Tick(testTiming.Fuse, m, p)
	if len(rep.Events) != 2 {
		t.Fatalf("Events = %v, want two independent explosions", rep.Events)
	}
	if p.Lives() != 1 {
		t.Errorf("Lives = %d, want 1", p.Lives())
	}
}

func TestEffectExpiryReleasesCapacity(t *testing.T) {
	m := mustMap(t, open7x7()...)
	p := core.NewPlayer(core.Position{X: 5, Y: 5}, core.Stats{Lives: 3, Bombs: 1, Range: 1})
	r := core.NewRegistry(0, testTiming)

	p.PlaceBombIntent()
	id, _ := r.Place(1, 1, 1)

	r.Tick(testTiming.Fuse, m, p)
	if p.ActiveBombs() != 1 {
		t.Error("capacity returns only after the explosion ends")
	}
	if !r.Occupied(1, 1) {
		t.Error("exploding bomb still occupies its cell")
	}

	rep := r.Tick(testTiming.Effect-time.Millisecond, m, p)
	if len(rep.Consumed) != 0 {
		t.Fatal("consumed too early")
	}
	rep = r.Tick(time.Millisecond, m, p)
	if len(rep.Consumed) != 1 || rep.Consumed[0] != id {
		t.Fatalf("Consumed = %v", rep.Consumed)
	}
	if r.Len() != 0 || p.ActiveBombs() != 0 {
		t.Errorf("Len = %d ActiveBombs = %d, want 0/0", r.Len(), p.ActiveBombs())
	}
}

func TestDetonateIgnoresNonArmed(t *testing.T) {
	m := mustMap(t, open7x7()...)
	p := core.NewPlayer(core.Position{X: 5, Y: 5}, core.DefaultStats())
	r := core.NewRegistry(0, testTiming)
	id, _ := r.Place(1, 1, 1)

	r.Detonate(id, m, p)
	if rep := r.Detonate(id, m, p); len(rep.Detonated) != 0 {
		t.Error("exploding bomb must not detonate again")
	}
	if rep := r.Detonate(999, m, p); len(rep.Detonated) != 0 {
		t.Error("unknown id must be a no-op")
	}
}

func TestBombsSnapshotIsCopy(t *testing.T) {
	m := mustMap(t, open7x7()...)
	p := core.NewPlayer(core.Position{X: 5, Y: 5}, core.DefaultStats())
	r := core.NewRegistry(3, testTiming)
	id, _ := r.Place(1, 1, 1)
	r.Detonate(id, m, p)

	bombs := r.Bombs()
	bombs[0].Footprint[0] = core.Position{X: 9, Y: 9}
	bombs[0].State = core.BombConsumed

	b, _ := r.Get(id)
	if b.State != core.BombExploding || b.Footprint[0] != (core.Position{X: 1, Y: 1}) {
		t.Error("mutating a snapshot changed the registry")
	}
	if b.Level != 3 {
		t.Errorf("Level = %d, want 3", b.Level)
	}
}

func TestRegistryReset(t *testing.T) {
	r := core.NewRegistry(0, testTiming)
	r.Place(1, 1, 1)
	r.Place(2, 1, 1)

	r.Reset(1)
	if r.Len() != 0 || r.Level() != 1 {
		t.Errorf("after Reset: Len = %d Level = %d", r.Len(), r.Level())
	}
}
