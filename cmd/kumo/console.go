package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kumoworks/kumo/internal/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console <level>",
	Short: "Open the interactive script console",
	Long: `Load the level and its scripts, then drop into an interactive
console executing code in the session's persistent global scope. The
singletons Level, Player and Hud and the UIDS lookup are available
exactly as they are to the level script.

Examples:
  kumo console levels/cloudreach.yaml
  kumo console cloudreach`,
	Args: cobra.ExactArgs(1),
	Run:  runConsole,
}

func runConsole(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: the console needs an interactive terminal")
		os.Exit(1)
	}

	w, err := openWorld(args[0])
	if err != nil {
		fatal(err)
	}
	defer w.close()

	if err := w.session.LoadScripts(); err != nil {
		// A broken level script is exactly what the console is for.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	model := console.New(w.session, w.cfg.Console)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fatal(err)
	}
}
