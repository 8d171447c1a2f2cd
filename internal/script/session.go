// Package script owns the embedded Lua interpreter bound to a loaded
// level. One Session exists per level: it is created when the level
// loads, executes the shared standard scripts followed by the level's own
// script, dispatches events into registered script handlers during
// gameplay, and is terminated before the level's native state is torn
// down so no script handle can outlive the entity it points at.
package script

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/Shopify/go-lua"
	"github.com/charmbracelet/log"

	"github.com/kumoworks/kumo/internal/event"
	"github.com/kumoworks/kumo/internal/level"
	"github.com/kumoworks/kumo/internal/savegame"
	"github.com/kumoworks/kumo/internal/script/bind"
)

//go:embed scripts/*.lua
var stdlibScripts embed.FS

// State is the session lifecycle phase.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateScriptLoaded
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateScriptLoaded:
		return "script loaded"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config wires the native collaborators a session exposes to scripts.
type Config struct {
	Level    *level.Level
	Player   *level.Player
	Hud      *level.Hud
	Manager  level.Manager
	Savegame *savegame.Savegame
	Logger   *log.Logger
}

// Session is one scripting-VM instance scoped to one loaded level. It is
// single-threaded: every method must be called from the simulation
// goroutine, and nothing here blocks or suspends.
type Session struct {
	l      *lua.State
	bridge *bind.Bridge
	state  State
	logger *log.Logger

	level    *level.Level
	player   *level.Player
	hud      *level.Hud
	manager  level.Manager
	savegame *savegame.Savegame

	nextRef int
}

// New creates a session for the given level. The VM is not constructed
// until Initialize.
func New(cfg Config) (*Session, error) {
	if cfg.Level == nil {
		return nil, fmt.Errorf("script: session needs a level")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Session{
		logger:   logger,
		level:    cfg.Level,
		player:   cfg.Player,
		hud:      cfg.Hud,
		manager:  cfg.Manager,
		savegame: cfg.Savegame,
	}, nil
}

// Level returns the level this session serves.
func (s *Session) Level() *level.Level { return s.level }

// State returns the current lifecycle phase.
func (s *Session) State() State { return s.state }

// Initialize constructs the VM and registers every bindable class's
// capability surface. Class registration failures are programming errors
// and panic; the engine cannot meaningfully continue without its own
// class tables.
func (s *Session) Initialize() error {
	if s.state != StateUninitialized {
		return fmt.Errorf("script: cannot initialize session in state %q", s.state)
	}

	s.l = lua.NewState()
	lua.OpenLibraries(s.l)

	s.bridge = bind.NewBridge()
	s.bridge.Install(s.l)

	s.l.NewTable()
	s.l.SetField(lua.RegistryIndex, callbackTableName)

	s.registerClasses()

	s.state = StateInitialized
	return nil
}

// LoadScripts executes the shared standard script set, then the level's
// script, in that fixed order so level scripts may use library helpers.
//
// A standard-script failure returns MissingStdlibError and the session is
// unusable. A level-script failure returns SyntaxError or RuntimeError
// with the source location; the caller decides whether to refuse the
// level or enter it degraded. Either way the session can still be
// terminated safely.
func (s *Session) LoadScripts() error {
	if s.state != StateInitialized {
		return fmt.Errorf("script: cannot load scripts in state %q", s.state)
	}

	names, err := fs.Glob(stdlibScripts, "scripts/*.lua")
	if err != nil {
		return &MissingStdlibError{Script: "scripts", Err: err}
	}
	sort.Strings(names)
	for _, name := range names {
		src, err := stdlibScripts.ReadFile(name)
		if err != nil {
			return &MissingStdlibError{Script: name, Err: err}
		}
		if err := s.runChunk("@"+name, string(src)); err != nil {
			return &MissingStdlibError{Script: name, Err: err}
		}
	}

	if s.level.Script != "" {
		chunk := "@" + s.level.Filename
		if s.level.Filename == "" {
			chunk = "@" + s.level.Name
		}
		if err := s.runChunk(chunk, s.level.Script); err != nil {
			return err
		}
	}

	s.state = StateScriptLoaded
	return nil
}

// RunCode executes arbitrary code in the session's persistent global
// scope, for developer consoles and reload tooling. Syntax errors and
// raised runtime errors are both captured into the returned message; no
// partial state is rolled back, matching an interactive top-level.
func (s *Session) RunCode(code string) (bool, string) {
	switch s.state {
	case StateUninitialized, StateTerminated:
		return false, fmt.Sprintf("session is %s", s.state)
	case StateScriptLoaded:
		s.state = StateRunning
	}

	if err := s.runChunk("=console", code); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// FireEvent dispatches an event on a bindable entity and returns every
// handler's result, with failures joined into one error.
func (s *Session) FireEvent(src event.Source, kind string, args ...any) ([]any, error) {
	return src.Events().Fire(kind, args...)
}

// FireGameplayEvent dispatches an event during normal gameplay. Handler
// errors are logged and swallowed at this boundary so a broken collision
// or timer handler cannot crash the simulation step; the handler's effect
// is simply absent for this call.
func (s *Session) FireGameplayEvent(src event.Source, kind string, args ...any) []any {
	results, err := src.Events().Fire(kind, args...)
	if err != nil {
		s.logger.Error("event handler failed", "kind", kind, "error", err)
	}
	return results
}

// Terminate releases the VM. It must run before the owning level's
// native state is torn down: it invalidates every script handle first,
// then clears the event tables of all entities this session populated,
// all on the caller's (simulation) goroutine.
func (s *Session) Terminate() {
	if s.state == StateTerminated {
		return
	}

	if s.l != nil {
		s.bridge.InvalidateAll(s.l)
	}

	s.level.Events().Clear()
	if s.player != nil {
		s.player.Events().Clear()
	}
	if s.hud != nil {
		s.hud.Events().Clear()
	}
	if s.savegame != nil {
		s.savegame.Events().Clear()
	}
	for _, sprite := range s.level.Sprites() {
		sprite.Events().Clear()
	}

	s.l = nil
	s.bridge = nil
	s.state = StateTerminated
}

// Bridge exposes the handle bridge, used by native teardown paths that
// destroy single entities mid-level.
func (s *Session) Bridge() *bind.Bridge { return s.bridge }

// InvalidateEntity kills the script handle of one native entity, e.g.
// when an enemy is removed mid-level. Must be called before the entity's
// native state is released.
func (s *Session) InvalidateEntity(entity any) {
	if s.l == nil {
		return
	}
	s.bridge.Invalidate(s.l, entity)
	if src, ok := entity.(event.Source); ok {
		src.Events().Clear()
	}
}

// runChunk loads and executes one chunk of code in the global scope.
func (s *Session) runChunk(name, code string) error {
	if err := lua.LoadBuffer(s.l, code, name, ""); err != nil {
		return &SyntaxError{Chunk: name, Message: s.popErrorMessage(err)}
	}
	if err := s.l.ProtectedCall(0, 0, 0); err != nil {
		return &RuntimeError{Chunk: name, Message: s.popErrorMessage(err)}
	}
	return nil
}

// popErrorMessage extracts the human-readable message the VM left on the
// stack, falling back to the Go error's text.
func (s *Session) popErrorMessage(err error) string {
	if s.l.Top() > 0 {
		if msg, ok := s.l.ToString(-1); ok && msg != "" {
			s.l.Pop(1)
			return msg
		}
		s.l.Pop(1)
	}
	if err != nil {
		return err.Error()
	}
	return "unknown error"
}
