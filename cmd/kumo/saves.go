package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kumoworks/kumo/internal/config"
	"github.com/kumoworks/kumo/internal/savegame"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List save slots",
	Long: `Display every save slot in the savegame database.

Examples:
  kumo saves
  kumo saves delete 3`,
	Run: runSaves,
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

// openStore opens the savegame database from flags and config.
func openStore() *savegame.Store {
	dbPath := flagDBPath
	if dbPath == "" {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			fatal(err)
		}
		dbPath = cfg.Savegame.Database
	}
	store, err := savegame.Open(dbPath)
	if err != nil {
		fatal(err)
	}
	return store
}

func runSaves(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	slots, err := store.ListSlots()
	if err != nil {
		fatal(err)
	}

	if len(slots) == 0 {
		fmt.Println("No saves recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-30s  %s\n", "Slot", "Description", "Date")
	fmt.Printf("  %-4s  %-30s  %s\n", "----", "-----------", "----")
	for _, s := range slots {
		fmt.Printf("  %-4d  %-30s  %s\n", s.Slot, s.Description, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func runSavesDelete(cmd *cobra.Command, args []string) {
	slot, err := strconv.Atoi(args[0])
	if err != nil || slot <= 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid slot %q\n", args[0])
		os.Exit(1)
	}

	store := openStore()
	defer store.Close()

	if !store.IsValid(slot) {
		fmt.Fprintf(os.Stderr, "Error: no save in slot %d\n", slot)
		os.Exit(1)
	}
	if err := store.DeleteSlot(slot); err != nil {
		fatal(err)
	}
	fmt.Printf("deleted slot %d\n", slot)
}
