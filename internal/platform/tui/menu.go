package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

// MenuChoice is what the start menu was left with.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoiceNewGame
	ChoiceContinue
	ChoiceScoreboard
	ChoiceQuit
)

// MenuItem is one line of the start menu.
type MenuItem struct {
	Label  string
	Choice MenuChoice
	Slot   string // for ChoiceContinue
}

// MenuModel is the Bubble Tea model for the start menu.
type MenuModel struct {
	gameID    string
	title     string
	items     []MenuItem
	cursor    int
	width     int
	height    int
	store     *storage.Store
	logger    *log.Logger
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	status    string
	selected  *MenuItem
	quitting  bool
}

// NewMenuModel creates the start menu for gameID, listing its save slots.
func NewMenuModel(gameID, title string, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) MenuModel {
	m := MenuModel{
		gameID:    gameID,
		title:     title,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		logger:    logger,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	m.items = m.buildItems()
	return m
}

func (m MenuModel) buildItems() []MenuItem {
	items := []MenuItem{{Label: "New game", Choice: ChoiceNewGame}}
	if m.store != nil {
		slots, err := m.store.ListSlots(m.gameID)
		if err != nil && m.logger != nil {
			m.logger.Warn("cannot list save slots", "err", err)
		}
		for _, s := range slots {
			items = append(items, MenuItem{
				Label:  fmt.Sprintf("Continue %s (level %d, %d pts)", s.Name, s.Level+1, s.Score),
				Choice: ChoiceContinue,
				Slot:   s.Name,
			})
		}
	}
	return append(items,
		MenuItem{Label: "High scores", Choice: ChoiceScoreboard},
		MenuItem{Label: "Quit", Choice: ChoiceQuit},
	)
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		selected := m.items[m.cursor]
		if selected.Choice == ChoiceQuit {
			m.quitting = true
		}
		m.selected = &selected
		return m, tea.Quit

	case MenuActionScoreboard:
		m.selected = &MenuItem{Choice: ChoiceScoreboard}
		return m, tea.Quit

	case MenuActionDelete:
		m.deleteSelected()
	}

	return m, nil
}

// deleteSelected removes the save slot under the cursor.
func (m *MenuModel) deleteSelected() {
	item := m.items[m.cursor]
	if item.Choice != ChoiceContinue || m.store == nil {
		return
	}
	if err := m.store.DeleteSlot(item.Slot); err != nil {
		m.status = "Cannot delete " + item.Slot
		return
	}
	m.status = "Deleted " + item.Slot
	m.items = m.buildItems()
	m.cursor = min(m.cursor, len(m.items)-1)
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := strings.Join(strings.Split(strings.ToUpper(m.title), ""), " ")
	b.WriteString("\n")
	b.WriteString(centerText("  "+title+"  ", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(centerText(m.status, m.width))
		b.WriteString("\n")
	}
	controls := "Up/Down: Navigate  |  Enter: Select  |  X: Delete save  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Items returns the menu lines.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice MenuChoice
	Slot   string
	Config core.RuntimeConfig
}

// RunMenu runs the start menu and returns the selection.
func RunMenu(gameID, title string, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (MenuResult, error) {
	model := NewMenuModel(gameID, title, store, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Choice: ChoiceQuit, Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.Selected() == nil {
		return MenuResult{Choice: ChoiceQuit, Config: cfg}, nil
	}
	return MenuResult{
		Choice: m.Selected().Choice,
		Slot:   m.Selected().Slot,
		Config: m.Config(),
	}, nil
}
