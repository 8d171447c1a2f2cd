package script

import (
	"github.com/Shopify/go-lua"

	"github.com/kumoworks/kumo/internal/level"
)

// levelMethods is the Level singleton's capability surface. Metadata
// reads come from the loaded level; save/load subscriptions go through
// the savegame mediator the handle actually wraps; flow control talks to
// the level manager.
func (s *Session) levelMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "author", Function: s.levelStringGetter(func(lv *level.Level) string { return lv.Author })},
		{Name: "description", Function: s.levelStringGetter(func(lv *level.Level) string { return lv.Description })},
		{Name: "difficulty", Function: func(l *lua.State) int {
			s.bridge.Check(l, 1, classLevel)
			l.PushInteger(s.level.Difficulty)
			return 1
		}},
		{Name: "engine_version", Function: func(l *lua.State) int {
			s.bridge.Check(l, 1, classLevel)
			l.PushInteger(s.level.EngineVersion)
			return 1
		}},
		{Name: "filename", Function: s.levelStringGetter(func(lv *level.Level) string { return lv.Filename })},
		{Name: "music_filename", Function: s.levelStringGetter(func(lv *level.Level) string { return lv.MusicFilename })},
		{Name: "next_level_filename", Function: s.levelStringGetter(func(lv *level.Level) string { return lv.NextLevel })},
		{Name: "script", Function: s.levelStringGetter(func(lv *level.Level) string { return lv.Script })},
		{Name: "boundaries", Function: func(l *lua.State) int {
			s.bridge.Check(l, 1, classLevel)
			b := s.level.Boundaries
			s.pushRectTable(b.X, b.Y, b.W, b.H)
			return 1
		}},
		{Name: "start_position", Function: func(l *lua.State) int {
			s.bridge.Check(l, 1, classLevel)
			l.CreateTable(0, 2)
			l.PushNumber(s.level.StartPosition.X)
			l.SetField(-2, "x")
			l.PushNumber(s.level.StartPosition.Y)
			l.SetField(-2, "y")
			return 1
		}},
		{Name: "fixed_horizontal_velocity", Function: func(l *lua.State) int {
			s.bridge.Check(l, 1, classLevel)
			l.PushNumber(s.level.FixedHorizontalVelocity)
			return 1
		}},
		{Name: "finish", Function: s.levelFinish},
		{Name: "display_info_message", Function: s.levelDisplayInfoMessage},
		{Name: "push_return", Function: s.levelPushReturn},
		{Name: "pop_return", Function: s.levelPopReturn},
		{Name: "clear_return", Function: s.levelClearReturn},
		{Name: "return_stack", Function: s.levelReturnStack},
		s.namedEventMethod(classLevel, "on_save", "save"),
		s.namedEventMethod(classLevel, "on_load", "load"),
		s.methodOn(classLevel),
	}
}

func (s *Session) levelStringGetter(get func(*level.Level) string) lua.Function {
	return func(l *lua.State) int {
		s.bridge.Check(l, 1, classLevel)
		l.PushString(get(s.level))
		return 1
	}
}

// levelFinish ends the level immediately. The first argument selects the
// win music, the optional second names the exit to leave through; an
// empty exit name means the level's default follow-up.
func (s *Session) levelFinish(l *lua.State) int {
	s.bridge.Check(l, 1, classLevel)
	winMusic := l.ToBoolean(2)
	exitName := lua.OptString(l, 3, "")
	if s.manager != nil {
		s.manager.FinishLevel(winMusic, exitName)
	}
	return 0
}

// levelDisplayInfoMessage shows a one-line message to the player via the
// HUD. Scripts use it for hints and debugging.
func (s *Session) levelDisplayInfoMessage(l *lua.State) int {
	s.bridge.Check(l, 1, classLevel)
	text := lua.CheckString(l, 2)
	if s.hud != nil {
		s.hud.SetText(text)
	}
	return 0
}

// levelPushReturn records where the player should come back to after a
// sub-level. Accepts either a {level=..., entry=...} table or two string
// arguments; omitted parts default to "" meaning the current level and
// its default entry.
func (s *Session) levelPushReturn(l *lua.State) int {
	s.bridge.Check(l, 1, classLevel)
	if s.player == nil {
		return 0
	}

	var levelName, entryName string
	if l.TypeOf(2) == lua.TypeTable {
		levelName = s.optFieldString(2, "level")
		entryName = s.optFieldString(2, "entry")
	} else {
		levelName = lua.OptString(l, 2, "")
		entryName = lua.OptString(l, 3, "")
	}
	s.player.PushReturn(levelName, entryName)
	return 0
}

// levelPopReturn pops the most recent return entry, or nil if the stack
// is empty. Note the native level-exit path also pops; scripts normally
// only read via return_stack.
func (s *Session) levelPopReturn(l *lua.State) int {
	s.bridge.Check(l, 1, classLevel)
	if s.player == nil {
		l.PushNil()
		return 1
	}
	entry, ok := s.player.PopReturn()
	if !ok {
		l.PushNil()
		return 1
	}
	s.pushValue(entry)
	return 1
}

func (s *Session) levelClearReturn(l *lua.State) int {
	s.bridge.Check(l, 1, classLevel)
	if s.player != nil {
		s.player.ClearReturn()
	}
	return 0
}

// levelReturnStack returns the pending return entries, oldest first.
func (s *Session) levelReturnStack(l *lua.State) int {
	s.bridge.Check(l, 1, classLevel)
	var stack []level.ReturnEntry
	if s.player != nil {
		stack = s.player.ReturnStack()
	}
	l.CreateTable(len(stack), 0)
	for i, entry := range stack {
		s.pushValue(entry)
		l.RawSetInt(-2, i+1)
	}
	return 1
}
