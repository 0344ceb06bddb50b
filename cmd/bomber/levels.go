package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/games/bomber"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List and check the active level pack",
	Long: `Loads and validates every level of the active pack and prints a summary.
A broken level makes the command fail with the reason.

Examples:
  bomber levels
  bomber levels --levels ./packs/mine`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func init() {
	addGameFlags(levelsCmd)
}

func runLevels(cmd *cobra.Command, args []string) {
	logger := newLogger(false)
	opts, err := gameOptions(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	setup, err := bomber.Prepare(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pack %q from %s (config: %s)\n", setup.Loader.Prefix(), setup.Loader.Source(), setup.Config.Source)
	fmt.Println()

	nameW := 4 // "Name" header
	for _, lv := range setup.Levels {
		nameW = max(nameW, len(lv.Name))
	}

	fmt.Printf("  %-3s  %-*s  %-7s  %-4s  %-6s  %s\n", "#", nameW, "Name", "Size", "Keys", "Hidden", "File")
	fmt.Printf("  %-3s  %-*s  %-7s  %-4s  %-6s  %s\n", "-", nameW, "----", "----", "----", "------", "----")
	for _, lv := range setup.Levels {
		m, err := lv.ToMap()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		size := fmt.Sprintf("%dx%d", m.Width(), m.Height())
		fmt.Printf("  %-3d  %-*s  %-7s  %-4d  %-6d  %s\n",
			lv.Index+1, nameW, lv.Name, size, m.RequiredKeys(), m.ConcealedLen(), lv.FilePath)
	}

	fmt.Println()
	cfg := setup.Config
	fmt.Printf("Player: %d lives, %d bombs, range %d\n", cfg.Player.Lives, cfg.Player.Bombs, cfg.Player.Range)
	fmt.Printf("Timing: fuse %s, explosion %s\n", cfg.Timing.Fuse, cfg.Timing.Effect)

	rate := core.RuntimeConfig{TickRate: flagFPS}.TickDuration()
	fmt.Printf("At %d fps a fuse lasts %d ticks\n", flagFPS, int(cfg.Timing.Fuse/rate))
}
