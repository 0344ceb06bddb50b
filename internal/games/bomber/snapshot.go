package bomber

import "github.com/vovakirdan/tui-bomber/internal/games/bomber/core"

// StateType is the screen the game is showing.
type StateType string

const (
	StatePlaying      StateType = "playing"
	StatePaused       StateType = "paused"
	StateLevelCleared StateType = "level_cleared"
	StateGameOver     StateType = "game_over"
	StateWin          StateType = "win"
	StatePausedSmall  StateType = "paused_small_window"
	StateLoadError    StateType = "load_error"
)

// Snapshot captures the game for determinism tests.
type Snapshot struct {
	State   StateType
	Tick    uint64
	Session core.Snapshot
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{State: StateLoadError, Tick: g.tick}
	}
	s := g.session

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case s.LevelCleared():
		state = StateLevelCleared
	case s.Over() && s.Mode() == core.ModeWon:
		state = StateWin
	case s.Over():
		state = StateGameOver
	case s.Mode() == core.ModePaused:
		state = StatePaused
	}
	return Snapshot{State: state, Tick: g.tick, Session: s.Snapshot()}
}
