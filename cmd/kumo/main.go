// kumo is the scripting and savegame toolchain for the kumo platformer
// engine: it checks level scripts, runs them headlessly, opens an
// interactive script console and manages save slots.
//
// Usage:
//
//	kumo check <level>       - Parse a level and load its scripts
//	kumo run <level>         - Run a level's scripts headlessly
//	kumo console <level>     - Open the interactive script console
//	kumo saves               - List save slots
//	kumo saves delete <slot> - Delete a save slot
//
// Global flags:
//
//	--config <path>  - Engine config file (default: ~/.kumo/config.yaml)
//	--db <path>      - Savegame database (default: from config)
//	--log-level <l>  - Log level: debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kumo",
	Short: "Kumo - level scripting toolchain",
	Long: `Kumo drives the scripting side of the kumo platformer engine from
the terminal: validating level scripts, running them headlessly,
poking at a live interpreter session and inspecting save slots.

Available commands:
  check    - Parse a level and load its scripts
  run      - Run a level's scripts headlessly
  console  - Interactive script console for a level
  saves    - Manage save slots

Examples:
  kumo check levels/cloudreach.yaml
  kumo run levels/cloudreach.yaml --load-slot 1
  kumo console levels/cloudreach.yaml
  kumo saves`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to savegame database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(savesCmd)
}

// newLogger builds the engine logger from flags and config.
func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "kumo"})
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if level != "" {
		if parsed, err := log.ParseLevel(level); err == nil {
			logger.SetLevel(parsed)
		}
	}
	return logger
}
