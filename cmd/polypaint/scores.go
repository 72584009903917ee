package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-polypaint/internal/registry"
	"github.com/vovakirdan/tui-polypaint/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show best completion times for a mode",
	Long: `Display the top 10 fastest completed runs for the specified mode.

Examples:
  polypaint scores polypaint`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

// formatRunTime renders a tick count as m:ss using the standard tick rate.
func formatRunTime(ticks int) string {
	secs := ticks / 60
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'polypaint list' to see available modes.")
		os.Exit(1)
	}

	// Get mode title
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Get fastest runs
	runs, err := store.BestRuns(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	// Display runs
	fmt.Printf("Best Times - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No completed runs yet.")
		fmt.Println()
		fmt.Printf("Play 'polypaint play %s' to set the first time!\n", gameID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-10s  %s\n", "Rank", "Time", "Coverage", "Date")
	fmt.Printf("  %-4s  %-8s  %-10s  %s\n", "----", "----", "--------", "----")

	// Print runs
	for i, entry := range runs {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8s  %-9.1f%%  %s\n", i+1, formatRunTime(entry.Ticks), entry.Coverage, dateStr)
	}

	// Show record
	fmt.Println()
	best, err := store.BestTime(gameID)
	if err == nil && best > 0 {
		fmt.Printf("Record: %s\n", formatRunTime(best))
	}
}
