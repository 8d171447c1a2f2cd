package savegame

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/kumoworks/kumo/internal/event"
)

// Savegame mediates the save and load events between level scripts and
// slot storage. Script code reaches it through the Level singleton; see
// the package comment for why the events live here.
//
// Authors are advised to register at most one handler per event: with
// several save handlers only the last one's mapping is persisted, and
// every load handler triggers its own decode of the stored JSON. Both
// behaviors are kept for compatibility with existing level scripts.
type Savegame struct {
	event.Table

	store  *Store
	logger *log.Logger
}

// New creates a savegame mediator over the given slot store.
func New(store *Store, logger *log.Logger) *Savegame {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Savegame{store: store, logger: logger}
}

// Store exposes the underlying slot store.
func (s *Savegame) Store() *Store { return s.store }

// SaveGame writes the named level's script state into the slot. Every
// registered save handler runs against a fresh mutable mapping; the last
// handler's mapping is the one persisted. Handler errors are logged and
// skipped: a broken handler costs its own data, not the savegame.
// Returns true on success, matching the engine's save UI contract.
//
// Writing a slot replaces it wholesale, so the snapshot carries only the
// currently loaded level's state; other levels' blobs stored under the
// slot are dropped by WriteSlot.
func (s *Savegame) SaveGame(slot int, description, levelName string) bool {
	var blob map[string]any
	for _, h := range s.Handlers("save") {
		store := map[string]any{}
		if _, err := h.Call(store); err != nil {
			s.logger.Error("save handler failed", "level", levelName, "error", err)
			continue
		}
		blob = store
	}

	if err := s.store.WriteSlot(slot, description); err != nil {
		s.logger.Error("cannot write save slot", "slot", slot, "error", err)
		return false
	}

	if blob != nil {
		text, err := Encode(blob)
		if err != nil {
			s.logger.Error("cannot encode script state", "level", levelName, "error", err)
			return false
		}
		if err := s.store.WriteLevelData(slot, levelName, text); err != nil {
			s.logger.Error("cannot write script state", "slot", slot, "error", err)
			return false
		}
	}

	return true
}

// LoadGame restores the named level's script state from the slot and
// fires the load handlers. Each handler receives its own freshly decoded
// mapping (or an empty one when the level has no stored state). Handlers
// must not assume their level is the active one; the player may be inside
// a sublevel when the savegame is restored.
//
// Corrupt script state for this level is logged and treated as absent;
// it never aborts the rest of the load. A missing or unsupported slot is
// an error for the whole operation.
func (s *Savegame) LoadGame(slot int, levelName string) error {
	info, err := s.store.ReadSlot(slot)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("savegame: no save in slot %d", slot)
	}

	data, stored, err := s.store.ReadLevelData(slot, levelName)
	if err != nil {
		return err
	}

	for _, h := range s.Handlers("load") {
		tree := map[string]any{}
		if stored {
			// Decoded once per handler on purpose; see the type comment.
			decoded, err := Decode(data)
			if err != nil {
				var invalid *InvalidSavegameError
				if errors.As(err, &invalid) {
					s.logger.Warn("stored script state unusable, treating as absent",
						"slot", slot, "level", levelName, "error", err)
				} else {
					return err
				}
			} else {
				tree = decoded
			}
		}
		if _, err := h.Call(tree); err != nil {
			s.logger.Error("load handler failed", "level", levelName, "error", err)
		}
	}

	return nil
}
