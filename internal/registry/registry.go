// Package registry maps game ids to factories. Game packages register
// themselves from init(), so the CLI and the TUI can create a game by id
// without importing it directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-bomber/internal/core"
)

// Game is the contract between a game and the terminal platform.
// A game holds pure logic: no Bubble Tea, no clock, no terminal.
// The platform maps keys to actions, drives ticks, and draws the screen.
type Game interface {
	// ID is the stable identifier used by the CLI and the score table.
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a new run. It is called once before the first Step
	// and again on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one tick of cfg.TickRate.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen.
	Render(dst *core.Screen)

	// State returns the score and run flags.
	State() core.GameState
}

// SaveState is an opaque save blob produced by a Saver.
type SaveState struct {
	Level int
	Data  []byte
}

// Saver is implemented by games that support save slots.
type Saver interface {
	Save() (SaveState, error)
	Load(s SaveState) error
}

// GameInfo is the metadata of a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh game instance. It must be cheap: Register calls
// it once to read the title.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a factory. It panics on a duplicate id.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns the registered games sorted by id.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(factories))
	for id := range factories {
		out = append(out, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create returns a new instance of the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[id]
	return ok
}
