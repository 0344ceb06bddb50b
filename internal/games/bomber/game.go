// Package bomber provides the Bomber maze game for the arcade platform.
// It adapts the pure simulation in bomber/core to the registry.Game
// contract: input frames become intents and ticks become elapsed time.
package bomber

import (
	"fmt"
	"time"

	platformcore "github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/games/bomber/core"
	"github.com/vovakirdan/tui-bomber/internal/games/bomber/levels"
	"github.com/vovakirdan/tui-bomber/internal/registry"
)

// GameID is the registry and score table identifier.
const GameID = "bomber"

// Game implements Bomber.
type Game struct {
	setup   Setup
	session *core.Session
	loadErr error

	tick     uint64
	tickDur  time.Duration
	clearFor time.Duration // time spent on the level-cleared banner

	// Screen dimensions
	screenW int
	screenH int

	// Layout
	hudHeight  int
	cellW      int
	mapOffsetX int
	mapOffsetY int
	tooSmall   bool

	notice      string
	noticeTicks int
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// New creates a game. Nothing is loaded until Reset.
func New() *Game {
	return &Game{
		hudHeight: 2,
		cellW:     2,
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return GameID }

// Title returns the display name.
func (g *Game) Title() string { return "Bomber" }

// Reset loads the config and level pack and starts a new session on the
// first level. Load failures leave the game in an error state that is
// shown on screen.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.tick = 0
	g.tickDur = cfg.TickDuration()
	g.clearFor = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.notice = ""
	g.noticeTicks = 0
	g.session = nil
	g.loadErr = nil

	setup, err := Prepare(options)
	if err != nil {
		g.loadErr = err
		return
	}
	g.setup = setup

	if err := g.newSession(); err != nil {
		g.loadErr = err
		return
	}
	g.layout()
}

func (g *Game) newSession() error {
	maps, err := levels.BuildMaps(g.setup.Levels)
	if err != nil {
		return err
	}
	s, err := core.NewSession(maps, core.Config{
		Stats:  g.setup.Config.Stats(),
		Timing: g.setup.Config.CoreTiming(),
	})
	if err != nil {
		return err
	}
	g.session = s
	return nil
}

// layout centers the current map below the HUD.
func (g *Game) layout() {
	if g.session == nil {
		return
	}
	m := g.session.Map()
	needW := m.Width() * g.cellW
	needH := m.Height() + g.hudHeight + 1
	if g.screenW < needW || g.screenH < needH {
		g.tooSmall = true
		return
	}
	g.tooSmall = false
	g.mapOffsetX = (g.screenW - needW) / 2
	g.mapOffsetY = g.hudHeight
}

// Resize adapts the layout to a new terminal size without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	g.layout()
}

// Session exposes the running simulation, or nil if loading failed.
func (g *Game) Session() *core.Session { return g.session }

// LevelReached returns the 1-based level in play, or 0 before loading.
func (g *Game) LevelReached() int {
	if g.session == nil {
		return 0
	}
	return g.session.Level() + 1
}

// Err returns the load error, if any.
func (g *Game) Err() error { return g.loadErr }

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.tick++
	if g.noticeTicks > 0 {
		g.noticeTicks--
	}

	if g.loadErr != nil || g.session == nil {
		if in.Has(platformcore.ActionRestart) {
			g.Reset(g.runtimeConfig())
		}
		return platformcore.StepResult{State: g.State()}
	}

	s := g.session

	// Handle restart
	if in.Has(platformcore.ActionRestart) && s.Over() {
		g.Reset(g.runtimeConfig())
		return platformcore.StepResult{State: g.State(), Events: []string{"restart"}}
	}

	if g.tooSmall || s.Over() {
		return platformcore.StepResult{State: g.State()}
	}

	// Level-cleared banner, then on to the next level
	if s.LevelCleared() {
		g.clearFor += g.tickDur
		if g.clearFor < g.setup.Config.Timing.LevelClearDelay {
			return platformcore.StepResult{State: g.State()}
		}
		g.clearFor = 0
		s.AdvanceLevel()
		g.layout()
		return platformcore.StepResult{
			State:  g.State(),
			Events: []string{fmt.Sprintf("level %d", s.Level()+1)},
		}
	}

	res := s.Advance(g.intent(in), g.tickDur)
	return platformcore.StepResult{State: g.State(), Events: events(res)}
}

// intent picks the single intent of a tick. Pause wins over bombs, and
// bombs over movement.
func (g *Game) intent(in platformcore.InputFrame) core.Intent {
	switch {
	case in.Has(platformcore.ActionPause):
		if g.session.Mode() == core.ModePaused {
			return core.Resume()
		}
		return core.Pause()
	case in.Has(platformcore.ActionBomb):
		return core.PlaceBomb()
	case in.Has(platformcore.ActionUp):
		return core.Move(core.North)
	case in.Has(platformcore.ActionDown):
		return core.Move(core.South)
	case in.Has(platformcore.ActionLeft):
		return core.Move(core.West)
	case in.Has(platformcore.ActionRight):
		return core.Move(core.East)
	}
	return core.Idle()
}

func events(res core.AdvanceResult) []string {
	var out []string
	if res.Bomb == core.BombPlaced {
		out = append(out, "bomb")
	}
	if n := len(res.Report.Events); n > 0 {
		out = append(out, fmt.Sprintf("explosion x%d", n))
	}
	if res.Picked != core.TileEmpty {
		out = append(out, "pickup "+res.Picked.String())
	}
	if res.DoorOpened {
		out = append(out, "door open")
	}
	if res.Report.LivesLost > 0 {
		out = append(out, "hit")
	}
	if res.ModeChanged {
		out = append(out, res.Mode.String())
	}
	return out
}

func (g *Game) runtimeConfig() platformcore.RuntimeConfig {
	rate := 0
	if g.tickDur > 0 {
		rate = int(time.Second / g.tickDur)
	}
	return platformcore.RuntimeConfig{ScreenW: g.screenW, ScreenH: g.screenH, TickRate: rate}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	if g.session == nil {
		return platformcore.GameState{GameOver: g.loadErr != nil}
	}
	s := g.session
	return platformcore.GameState{
		Score:    s.Score(),
		GameOver: s.Over(),
		Paused:   s.Mode() == core.ModePaused || g.tooSmall,
		Won:      s.Over() && s.Mode() == core.ModeWon,
	}
}

// Notify shows a short message under the HUD, e.g. after saving.
func (g *Game) Notify(msg string) {
	g.notice = msg
	g.noticeTicks = int(2 * time.Second / max(g.tickDur, time.Millisecond))
}
