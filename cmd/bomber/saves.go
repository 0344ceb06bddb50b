package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bomber/internal/games/bomber"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List save slots",
	Long: `List the saved games. Save with Ctrl+S while playing and resume with
'bomber play --slot <name> --continue'.

Examples:
  bomber saves
  bomber saves delete quicksave`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a save slot",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

func init() {
	savesCmd.AddCommand(savesDeleteCmd)
}

func runSaves(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	slots, err := store.ListSlots(bomber.GameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing saves: %v\n", err)
		return
	}
	if len(slots) == 0 {
		fmt.Println("No saved games.")
		return
	}

	nameW := 4 // "Slot" header
	for _, s := range slots {
		nameW = max(nameW, len(s.Name))
	}

	fmt.Printf("  %-*s  %-5s  %-8s  %s\n", nameW, "Slot", "Level", "Score", "Saved")
	fmt.Printf("  %-*s  %-5s  %-8s  %s\n", nameW, "----", "-----", "-----", "-----")
	for _, s := range slots {
		fmt.Printf("  %-*s  %-5d  %-8d  %s\n", nameW, s.Name, s.Level+1, s.Score, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func runSavesDelete(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch err := store.DeleteSlot(args[0]); {
	case errors.Is(err, storage.ErrSlotNotFound):
		fmt.Fprintf(os.Stderr, "No save slot named %q.\n", args[0])
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error deleting save: %v\n", err)
	default:
		fmt.Printf("Deleted %s.\n", args[0])
	}
}
