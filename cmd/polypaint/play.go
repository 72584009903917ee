package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-polypaint/internal/core"
	"github.com/vovakirdan/tui-polypaint/internal/games/polypaint"
	"github.com/vovakirdan/tui-polypaint/internal/platform/tui"
	"github.com/vovakirdan/tui-polypaint/internal/registry"
	"github.com/vovakirdan/tui-polypaint/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a mode",
	Long: `Start playing the specified mode.

Controls:
  A/Left     - Rotate polygon counterclockwise
  D/Right    - Rotate polygon clockwise
  P          - Pause
  R          - New polygon (after winning; anytime in zen)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Lower win threshold, rotation ramps from zero
  normal - Standard thresholds, rotation ramps from 30%
  hard   - Faster circle, higher threshold, rotation ramps from 70%
  fixed  - No rotation speed progression

Examples:
  polypaint play polypaint
  polypaint play polypaint_zen
  polypaint play polypaint --difficulty hard
  polypaint play polypaint --config ./my-polygon.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'polypaint list' to see available modes.")
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Set config path and difficulty before creation
	polypaint.SetConfigPath(flagConfig)
	polypaint.SetDifficultyPreset(flagDifficulty)

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// Run the game
	runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
