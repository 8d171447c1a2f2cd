package script

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/kumoworks/kumo/internal/core"
	"github.com/kumoworks/kumo/internal/level"
	"github.com/kumoworks/kumo/internal/savegame"
)

func testLevel(script string) *level.Level {
	return &level.Level{
		Name:          "cloudreach",
		Author:        "mira",
		Description:   "first canyon level",
		Difficulty:    34,
		EngineVersion: 47,
		Filename:      "levels/cloudreach.yaml",
		MusicFilename: "music/canyon.ogg",
		NextLevel:     "cloudreach_2",
		Script:        script,
		Boundaries:    core.NewRect(0, 0, 8000, -600),
		StartPosition: core.Point{X: 120, Y: -380},
		SecretAreas: []*level.SecretArea{
			{UID: 20, Rect: core.NewRect(700, -200, 64, -48)},
		},
		Beetles: []*level.Beetle{
			{UID: 10, Color: "red", RestLivingTime: 3.5},
		},
	}
}

type testWorld struct {
	session  *Session
	level    *level.Level
	player   *level.Player
	hud      *level.Hud
	manager  *level.FinishSignal
	savegame *savegame.Savegame
}

func newTestWorld(t *testing.T, script string) *testWorld {
	t.Helper()

	store, err := savegame.Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := log.New(io.Discard)
	w := &testWorld{
		level:    testLevel(script),
		hud:      level.NewHud(),
		manager:  &level.FinishSignal{},
		savegame: savegame.New(store, logger),
	}
	w.player = level.NewPlayer(w.level.StartPosition)

	s, err := New(Config{
		Level:    w.level,
		Player:   w.player,
		Hud:      w.hud,
		Manager:  w.manager,
		Savegame: w.savegame,
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("initializing session: %v", err)
	}
	w.session = s
	t.Cleanup(s.Terminate)
	return w
}

func loadedWorld(t *testing.T, script string) *testWorld {
	t.Helper()
	w := newTestWorld(t, script)
	if err := w.session.LoadScripts(); err != nil {
		t.Fatalf("loading scripts: %v", err)
	}
	return w
}

func mustRun(t *testing.T, s *Session, code string) {
	t.Helper()
	if ok, msg := s.RunCode(code); !ok {
		t.Fatalf("RunCode(%q) failed: %s", code, msg)
	}
}

func TestNewRequiresLevel(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected an error for a session without a level")
	}
}

func TestLifecycleStates(t *testing.T) {
	w := newTestWorld(t, "greeting = 'hello'")
	s := w.session

	if s.State() != StateInitialized {
		t.Fatalf("state after Initialize = %v, want %v", s.State(), StateInitialized)
	}
	if err := s.Initialize(); err == nil {
		t.Fatal("expected double Initialize to fail")
	}
	if err := s.LoadScripts(); err != nil {
		t.Fatalf("LoadScripts: %v", err)
	}
	if s.State() != StateScriptLoaded {
		t.Fatalf("state after LoadScripts = %v, want %v", s.State(), StateScriptLoaded)
	}

	mustRun(t, s, "assert(greeting == 'hello')")
	if s.State() != StateRunning {
		t.Fatalf("state after RunCode = %v, want %v", s.State(), StateRunning)
	}

	s.Terminate()
	if s.State() != StateTerminated {
		t.Fatalf("state after Terminate = %v, want %v", s.State(), StateTerminated)
	}
	if ok, msg := s.RunCode("return 1"); ok || msg == "" {
		t.Fatalf("RunCode after Terminate = (%v, %q), want failure with message", ok, msg)
	}
	s.Terminate() // second Terminate is a no-op
}

func TestLevelScriptSyntaxErrorIsRecoverable(t *testing.T) {
	w := newTestWorld(t, "function broken(")
	err := w.session.LoadScripts()
	if err == nil {
		t.Fatal("expected LoadScripts to fail on a syntax error")
	}
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("error = %T (%v), want *SyntaxError", err, err)
	}
	if syntaxErr.Message == "" {
		t.Fatal("syntax error carries no message")
	}
	w.session.Terminate() // must not panic after a failed load
}

func TestLevelScriptRuntimeErrorIsRecoverable(t *testing.T) {
	w := newTestWorld(t, "error('level setup failed')")
	err := w.session.LoadScripts()
	var runtimeErr *RuntimeError
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("error = %T (%v), want *RuntimeError", err, err)
	}
	if !strings.Contains(runtimeErr.Message, "level setup failed") {
		t.Fatalf("runtime error message %q does not carry the script's message", runtimeErr.Message)
	}
}

func TestRunCodeReportsSyntaxErrors(t *testing.T) {
	w := loadedWorld(t, "")
	ok, msg := w.session.RunCode("this is not lua")
	if ok {
		t.Fatal("expected RunCode to fail on invalid code")
	}
	if msg == "" {
		t.Fatal("expected a diagnostic message")
	}
}

func TestRunCodeGlobalsPersist(t *testing.T) {
	w := loadedWorld(t, "")
	mustRun(t, w.session, "counter = 10")
	mustRun(t, w.session, "counter = counter + 5")
	mustRun(t, w.session, "assert(counter == 15)")
}

func TestStandardScriptsAreAvailable(t *testing.T) {
	w := loadedWorld(t, "")
	mustRun(t, w.session, "assert(clamp(12, 0, 10) == 10)")
	mustRun(t, w.session, "assert(round(2.5) == 3)")
	mustRun(t, w.session, `
		local e = StackEntry("mine", "shaft_3")
		assert(e.level == "mine" and e.entry == "shaft_3")
		local d = StackEntry()
		assert(d.level == "" and d.entry == "")
	`)
}

func TestLevelScriptSeesStandardScripts(t *testing.T) {
	w := loadedWorld(t, "clamped = clamp(-4, 0, 10)")
	mustRun(t, w.session, "assert(clamped == 0)")
}

func TestHandlerOrderingAndSharedArgs(t *testing.T) {
	w := loadedWorld(t, `
		seen = {}
		Level:on("checkpoint", function(name) seen[#seen+1] = "first:" .. name end)
		Level:on("checkpoint", function(name) seen[#seen+1] = "second:" .. name end)
	`)

	if _, err := w.session.FireEvent(w.savegame, "checkpoint", "ravine"); err != nil {
		t.Fatalf("firing event: %v", err)
	}
	mustRun(t, w.session, `
		assert(#seen == 2)
		assert(seen[1] == "first:ravine")
		assert(seen[2] == "second:ravine")
	`)
}

func TestFailingHandlerDoesNotStopOthers(t *testing.T) {
	w := loadedWorld(t, `
		ran = false
		Level:on("tick", function() error("boom") end)
		Level:on("tick", function() ran = true end)
	`)

	if _, err := w.session.FireEvent(w.savegame, "tick"); err == nil {
		t.Fatal("expected the failing handler's error to surface")
	}
	mustRun(t, w.session, "assert(ran == true)")

	// The gameplay boundary swallows the same failure.
	w.session.FireGameplayEvent(w.savegame, "tick")
}

func TestTerminateClearsEventTables(t *testing.T) {
	w := loadedWorld(t, `Level:on("tick", function() end)`)
	if len(w.savegame.Handlers("tick")) != 1 {
		t.Fatal("handler was not registered")
	}
	w.session.Terminate()
	if len(w.savegame.Handlers("tick")) != 0 {
		t.Fatal("Terminate left handlers registered")
	}
}
