// polypaint is a TUI physics toy: a circle bounces inside a rotating polygon
// and paints everything it touches. Rotate the polygon to steer the circle
// and cover enough of the interior to win.
//
// Usage:
//
//	polypaint list              - List available modes
//	polypaint play <mode>       - Play a mode
//	polypaint menu              - Start menu to pick modes interactively
//	polypaint serve             - Start SSH server for remote play and online races
//	polypaint scores <mode>     - Show best completion times for a mode
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible polygons
//	--db <path>     - Set database path (default: ~/.polypaint/runs.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import game modes to register them
	_ "github.com/vovakirdan/tui-polypaint/internal/games/polypaint"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "polypaint",
	Short: "Polypaint - Paint polygons with a bouncing circle in your terminal",
	Long: `Polypaint is a terminal physics toy. A circle bounces inside a polygon
with randomized edge lengths; every surface it touches gets painted. Rotate
the polygon to steer the circle and cover the interior before the clock
embarrasses you.

Available commands:
  list     - Show all available modes
  play     - Play a specific mode directly
  menu     - Interactive mode picker menu
  serve    - Start SSH server for remote play and online races
  scores   - View best completion times

Examples:
  polypaint list
  polypaint play polypaint
  polypaint play polypaint_zen
  polypaint menu
  polypaint serve --ssh :2222
  polypaint scores polypaint`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.polypaint/runs.db", "Path to runs database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
