package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagLoadSlot  int
	flagSaveSlot  int
	flagSaveDescr string
)

var runCmd = &cobra.Command{
	Use:   "run <level>",
	Short: "Run a level's scripts headlessly",
	Long: `Load the level, run its scripts and report what they did: HUD
messages, return-stack entries and the finish signal. Optionally
restore script state from a save slot first, and write a save slot
afterwards.

Examples:
  kumo run levels/cloudreach.yaml
  kumo run cloudreach --load-slot 1
  kumo run cloudreach --save-slot 2 --description "after intro"`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagLoadSlot, "load-slot", 0, "Restore script state from this slot before running")
	runCmd.Flags().IntVar(&flagSaveSlot, "save-slot", 0, "Write script state into this slot after running")
	runCmd.Flags().StringVar(&flagSaveDescr, "description", "", "Description for the written save slot")
}

func runRun(cmd *cobra.Command, args []string) {
	w, err := openWorld(args[0])
	if err != nil {
		fatal(err)
	}
	defer w.close()

	if err := w.session.LoadScripts(); err != nil {
		fatal(err)
	}

	if flagLoadSlot > 0 {
		if err := w.savegame.LoadGame(flagLoadSlot, w.level.Name); err != nil {
			fatal(err)
		}
		fmt.Printf("restored script state from slot %d\n", flagLoadSlot)
	}

	fmt.Printf("%s by %s\n", w.level.Name, w.level.Author)
	if text := w.hud.Text(); text != "" {
		fmt.Printf("  hud: %s\n", text)
	}
	if stack := w.player.ReturnStack(); len(stack) > 0 {
		fmt.Println("  return stack:")
		for _, e := range stack {
			fmt.Printf("    level=%q entry=%q\n", e.Level, e.Entry)
		}
	}
	if w.manager.Finished {
		fmt.Printf("  finished (win music: %v, exit: %q)\n", w.manager.WinMusic, w.manager.ExitName)
	}

	if flagSaveSlot > 0 {
		descr := flagSaveDescr
		if descr == "" {
			descr = w.level.Name
		}
		if !w.savegame.SaveGame(flagSaveSlot, descr, w.level.Name) {
			fatal(fmt.Errorf("saving to slot %d failed", flagSaveSlot))
		}
		fmt.Printf("saved script state to slot %d\n", flagSaveSlot)
	}
}
