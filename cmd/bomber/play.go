package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-bomber/internal/config"
	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/games/bomber"
	"github.com/vovakirdan/tui-bomber/internal/platform/tui"
	"github.com/vovakirdan/tui-bomber/internal/registry"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

var (
	flagConfig     string
	flagLevels     string
	flagDifficulty string
	flagSlot       string
	flagContinue   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Bomber",
	Long: `Start a game of Bomber.

Controls:
  WASD/Arrows - Move
  Space       - Drop a bomb
  P/Esc       - Pause
  Ctrl+S      - Save to the slot
  R           - Restart (after game over)
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - 5 lives, 4s fuse
  normal - 3 lives, 3s fuse
  hard   - 1 life, 2s fuse
  fixed  - Use the config file as is (default)

Examples:
  bomber play
  bomber play --difficulty easy
  bomber play --config ./bomber.yaml
  bomber play --levels ./packs/mine
  bomber play --slot evening --continue`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	addGameFlags(playCmd)
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagSlot, "slot", tui.DefaultSlot, "Save slot written by Ctrl+S")
	playCmd.Flags().BoolVar(&flagContinue, "continue", false, "Load the save slot before playing")
}

// addGameFlags adds the flags that select config and level pack.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	cmd.Flags().StringVar(&flagLevels, "levels", "", "Directory with map_<prefix>_<n>.yaml level files")
}

// gameOptions parses the game flags into bomber options.
func gameOptions(logger *log.Logger) (bomber.Options, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return bomber.Options{}, err
	}
	return bomber.Options{
		ConfigPath: flagConfig,
		LevelsDir:  flagLevels,
		Preset:     preset,
		Logger:     logger,
	}, nil
}

func runPlay(cmd *cobra.Command, args []string) {
	logger := newLogger(true)
	opts, err := gameOptions(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	if err := play(opts, store, terminalConfig(), tui.Options{
		Slot:     flagSlot,
		Continue: flagContinue,
		Logger:   logger,
	}); err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// play checks the config and levels, then runs the game until it quits.
func play(opts bomber.Options, store *storage.Store, cfg core.RuntimeConfig, tuiOpts tui.Options) error {
	if _, err := bomber.Prepare(opts); err != nil {
		return err
	}
	bomber.Configure(opts)

	game, err := registry.Create(bomber.GameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	return tui.Run(game, store, cfg, tuiOpts)
}

// terminalConfig sizes the runtime config to the terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}
}

// openStore opens the database. The game still runs without one.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("database unavailable", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}
