package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber"
	"github.com/vovakirdan/tui-bomber/internal/platform/tui"
)

func init() {
	addGameFlags(rootCmd)
	rootCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

// runMenu shows the start menu until the user quits.
func runMenu(cmd *cobra.Command, args []string) {
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

	cfg := terminalConfig()
	for {
		result, err := tui.RunMenu(bomber.GameID, "Bomber", store, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg.ScreenW, cfg.ScreenH = result.Config.ScreenW, result.Config.ScreenH

		switch result.Choice {
		case tui.ChoiceNewGame, tui.ChoiceContinue:
			tuiOpts := tui.Options{Slot: result.Slot, Continue: result.Choice == tui.ChoiceContinue, Logger: logger}
			if err := play(opts, store, cfg, tuiOpts); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}

		case tui.ChoiceScoreboard:
			goBack, err := tui.RunScoreboard(bomber.GameID, "Bomber", store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			if !goBack {
				return
			}

		default:
			return
		}
	}
}
