package savegame

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/kumoworks/kumo/internal/event"
)

func newTestSavegame(t *testing.T) *Savegame {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, log.New(io.Discard))
}

func storeWriter(pairs map[string]any) event.Callable {
	return event.Func(func(args ...any) (any, error) {
		m := args[0].(map[string]any)
		for k, v := range pairs {
			m[k] = v
		}
		return nil, nil
	})
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	sg := newTestSavegame(t)
	sg.On("save", storeWriter(map[string]any{"red": true}))

	var observed any
	sg.On("load", event.Func(func(args ...any) (any, error) {
		observed = args[0].(map[string]any)["red"]
		return nil, nil
	}))

	if ok := sg.SaveGame(0, "switch test", "cloudreach"); !ok {
		t.Fatal("SaveGame returned false")
	}
	if err := sg.LoadGame(0, "cloudreach"); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if observed != true {
		t.Fatalf("load handler observed red = %v, want true", observed)
	}
}

func TestLastSaveHandlerWins(t *testing.T) {
	sg := newTestSavegame(t)
	sg.On("save", storeWriter(map[string]any{"a": float64(1)}))
	sg.On("save", storeWriter(map[string]any{"b": float64(2)}))

	if ok := sg.SaveGame(0, "two handlers", "cloudreach"); !ok {
		t.Fatal("SaveGame returned false")
	}

	data, stored, err := sg.Store().ReadLevelData(0, "cloudreach")
	if err != nil || !stored {
		t.Fatalf("ReadLevelData = (%q, %v, %v)", data, stored, err)
	}
	tree, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, hasA := tree["a"]; hasA {
		t.Error("first handler's data was persisted")
	}
	if tree["b"] != float64(2) {
		t.Errorf("persisted tree = %v, want only b=2", tree)
	}
}

func TestLoadWithoutStoredStatePassesEmptyMapping(t *testing.T) {
	sg := newTestSavegame(t)
	if ok := sg.SaveGame(0, "no save handler", "cloudreach"); !ok {
		t.Fatal("SaveGame returned false")
	}

	var got map[string]any
	sg.On("load", event.Func(func(args ...any) (any, error) {
		got = args[0].(map[string]any)
		return nil, nil
	}))

	if err := sg.LoadGame(0, "cloudreach"); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("load handler got %v, want empty mapping", got)
	}
}

func TestEachLoadHandlerGetsOwnMapping(t *testing.T) {
	sg := newTestSavegame(t)
	sg.On("save", storeWriter(map[string]any{"n": float64(1)}))

	var first, second map[string]any
	sg.On("load", event.Func(func(args ...any) (any, error) {
		first = args[0].(map[string]any)
		first["mutated"] = true
		return nil, nil
	}))
	sg.On("load", event.Func(func(args ...any) (any, error) {
		second = args[0].(map[string]any)
		return nil, nil
	}))

	if ok := sg.SaveGame(0, "", "cloudreach"); !ok {
		t.Fatal("SaveGame returned false")
	}
	if err := sg.LoadGame(0, "cloudreach"); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	if _, leaked := second["mutated"]; leaked {
		t.Error("mutation by first load handler leaked into second handler's mapping")
	}
	if second["n"] != float64(1) {
		t.Errorf("second handler tree = %v", second)
	}
}

func TestCorruptStateIsTreatedAsAbsent(t *testing.T) {
	sg := newTestSavegame(t)
	if err := sg.Store().WriteSlot(0, "corrupted"); err != nil {
		t.Fatalf("WriteSlot: %v", err)
	}
	if err := sg.Store().WriteLevelData(0, "cloudreach", `{"red": tru`); err != nil {
		t.Fatalf("WriteLevelData: %v", err)
	}

	var got map[string]any
	sg.On("load", event.Func(func(args ...any) (any, error) {
		got = args[0].(map[string]any)
		return nil, nil
	}))

	// Corrupt state for one level must not abort the load.
	if err := sg.LoadGame(0, "cloudreach"); err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("handler got %v, want empty mapping", got)
	}
}

func TestLoadMissingSlotFails(t *testing.T) {
	sg := newTestSavegame(t)
	if err := sg.LoadGame(7, "cloudreach"); err == nil {
		t.Fatal("LoadGame on empty slot succeeded")
	}
}

func TestFailingSaveHandlerLosesOnlyItsData(t *testing.T) {
	sg := newTestSavegame(t)
	sg.On("save", storeWriter(map[string]any{"good": true}))
	sg.On("save", event.Func(func(args ...any) (any, error) {
		return nil, &InvalidSavegameError{Reason: "handler blew up"}
	}))

	if ok := sg.SaveGame(0, "", "cloudreach"); !ok {
		t.Fatal("SaveGame returned false")
	}

	data, stored, err := sg.Store().ReadLevelData(0, "cloudreach")
	if err != nil || !stored {
		t.Fatalf("ReadLevelData = (%q, %v, %v)", data, stored, err)
	}
	tree, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tree["good"] != true {
		t.Errorf("surviving tree = %v", tree)
	}
}
