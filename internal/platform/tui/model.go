package tui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/registry"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

// DefaultSlot is the save slot used when none is named.
const DefaultSlot = "quicksave"

// Optional game capabilities the model uses when present.
type (
	notifier interface{ Notify(msg string) }
	resizer  interface{ Resize(w, h int) }
	leveler  interface{ LevelReached() int }
)

// Options controls a play session.
type Options struct {
	Slot     string // save slot written by Ctrl+S
	Continue bool   // load Slot before the first tick
	Logger   *log.Logger
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	keys       *KeyMapper
	config     core.RuntimeConfig
	slot       string
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	slot := opts.Slot
	if slot == "" {
		slot = DefaultSlot
	}
	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger,
		keys:       NewKeyMapper(),
		config:     cfg,
		slot:       slot,
		inputFrame: core.NewInputFrame(),
	}
}

// Start resets the game and, when asked, loads the save slot.
func (m *Model) Start(resume bool) error {
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	if !resume {
		return nil
	}
	return m.loadSlot()
}

// Init starts the tick loop. The game is reset by Start.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionSave) {
		m.saveSlot()
	}
	return m, nil
}

// handleResize keeps the run going at the new size when the game
// supports it.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	for _, ev := range result.Events {
		m.logger.Debug("game event", "game", m.game.ID(), "event", ev)
	}

	switch {
	case !m.gameState.GameOver:
		m.scoreSaved = false
	case !m.scoreSaved:
		m.saveScore()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

func (m Model) level() int {
	if l, ok := m.game.(leveler); ok {
		return l.LevelReached()
	}
	return 0
}

// saveScore records a finished run. Zero scores are not kept.
func (m Model) saveScore() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score, m.level()); err != nil {
		m.logger.Warn("score not saved", "game", m.game.ID(), "err", err)
		return
	}
	m.logger.Info("score saved", "game", m.game.ID(), "score", m.gameState.Score, "level", m.level())
}

// saveSlot writes the running game to the save slot.
func (m Model) saveSlot() {
	if err := m.writeSlot(); err != nil {
		m.logger.Warn("save failed", "slot", m.slot, "err", err)
		m.notify("Save failed")
		return
	}
	m.logger.Info("game saved", "slot", m.slot, "game", m.game.ID())
	m.notify("Saved to " + m.slot)
}

func (m Model) writeSlot() error {
	saver, ok := m.game.(registry.Saver)
	if !ok {
		return fmt.Errorf("tui: %s does not support saving", m.game.ID())
	}
	if m.store == nil {
		return errors.New("tui: no database")
	}
	st, err := saver.Save()
	if err != nil {
		return err
	}
	return m.store.SaveSlot(storage.SaveSlot{
		Name:   m.slot,
		GameID: m.game.ID(),
		Level:  st.Level,
		Score:  m.game.State().Score,
		Data:   st.Data,
	})
}

// loadSlot replaces the fresh run with the save slot.
func (m *Model) loadSlot() error {
	saver, ok := m.game.(registry.Saver)
	if !ok {
		return fmt.Errorf("tui: %s does not support saving", m.game.ID())
	}
	if m.store == nil {
		return errors.New("tui: no database")
	}
	slot, err := m.store.LoadSlot(m.slot)
	if err != nil {
		return err
	}
	if slot.GameID != m.game.ID() {
		return fmt.Errorf("tui: slot %q belongs to %s", m.slot, slot.GameID)
	}
	if err := saver.Load(registry.SaveState{Level: slot.Level, Data: slot.Data}); err != nil {
		return fmt.Errorf("tui: load slot %q: %w", m.slot, err)
	}
	m.gameState = m.game.State()
	m.logger.Info("game loaded", "slot", m.slot, "level", slot.Level+1)
	m.notify("Loaded " + m.slot)
	return nil
}

func (m Model) notify(msg string) {
	if n, ok := m.game.(notifier); ok {
		n.Notify(msg)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, store, cfg, opts)
	if err := model.Start(opts.Continue); err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
