// bomber is a single-player maze and bombs game for the terminal.
//
// Usage:
//
//	bomber                  - Start menu (new game, continue, scores)
//	bomber play             - Start a new game right away
//	bomber levels           - List the levels of the active pack
//	bomber scores           - Show high scores
//	bomber saves            - List or delete save slots
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--db <path>         - Set database path (default: ~/.bomber/bomber.db)
//	--log-level <level> - debug, info, warn or error (default: warn)
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/tui-bomber/internal/games/bomber"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string

	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bomber",
	Short: "Bomber - Blast your way through mazes in your terminal",
	Long: `Bomber is a terminal maze game. Drop bombs to clear destructible
walls, collect keys and bonuses, and reach the door on every level.

Available commands:
  play     - Start a new game (or continue a save slot)
  levels   - List the levels of the active pack
  scores   - View high scores
  saves    - Manage save slots

Run without a command to open the start menu.

Examples:
  bomber
  bomber play --difficulty hard
  bomber play --levels ./my-pack
  bomber play --slot evening --continue
  bomber scores --tui`,
	SilenceUsage: true,
	Run:          runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bomber/bomber.db", "Path to scores and saves database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(savesCmd)
}

// newLogger builds the process logger. While the terminal UI owns the
// screen, logs only go to --log-file.
func newLogger(tuiMode bool) *log.Logger {
	var w io.Writer = os.Stderr
	switch {
	case flagLogFile != "":
		if logFile == nil {
			f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
				return newDiscardLogger()
			}
			logFile = f
		}
		w = logFile
	case tuiMode:
		return newDiscardLogger()
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "bomber",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

func newDiscardLogger() *log.Logger {
	return log.New(io.Discard)
}
