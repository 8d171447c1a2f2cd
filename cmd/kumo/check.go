package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kumoworks/kumo/internal/script"
)

var checkCmd = &cobra.Command{
	Use:   "check <level>",
	Short: "Parse a level and load its scripts",
	Long: `Parse the level definition, start an interpreter session and run the
standard scripts followed by the level's script, reporting any syntax
or runtime error with its source location. Nothing is persisted.

Examples:
  kumo check levels/cloudreach.yaml
  kumo check cloudreach`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) {
	w, err := openWorld(args[0])
	if err != nil {
		fatal(err)
	}
	defer w.close()

	if err := w.session.LoadScripts(); err != nil {
		var syntaxErr *script.SyntaxError
		var runtimeErr *script.RuntimeError
		switch {
		case errors.As(err, &syntaxErr):
			fmt.Fprintf(os.Stderr, "Syntax error: %s\n", syntaxErr.Message)
		case errors.As(err, &runtimeErr):
			fmt.Fprintf(os.Stderr, "Runtime error: %s\n", runtimeErr.Message)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("%s: ok\n", w.level.Name)
	fmt.Printf("  sprites: %d\n", len(w.level.Sprites()))
	if w.level.Script == "" {
		fmt.Println("  note: level has no script")
	}
}
