package script

import (
	"github.com/Shopify/go-lua"

	"github.com/kumoworks/kumo/internal/event"
	"github.com/kumoworks/kumo/internal/script/bind"
)

// Capability tags for the bindable native classes.
const (
	classLevel      = "Level"
	classPlayer     = "Player"
	classHud        = "Hud"
	classSecretArea = "SecretArea"
	classBeetle     = "Beetle"
)

// registerClasses installs every bindable class's capability table and
// the singleton globals. Scripts cannot construct instances of these
// classes: no constructors are exposed, handles only ever come from the
// bridge. The Level global is the sole script-visible level object.
func (s *Session) registerClasses() {
	s.bridge.RegisterClass(s.l, bind.Class{Name: classLevel, Methods: s.levelMethods()})
	s.bridge.RegisterClass(s.l, bind.Class{Name: classPlayer, Methods: s.playerMethods()})
	s.bridge.RegisterClass(s.l, bind.Class{Name: classHud, Methods: s.hudMethods()})
	s.bridge.RegisterClass(s.l, bind.Class{Name: classSecretArea, Methods: s.secretAreaMethods()})
	s.bridge.RegisterClass(s.l, bind.Class{Name: classBeetle, Methods: s.beetleMethods()})

	// The Level singleton wraps the savegame mediator, not the level
	// object; see the savegame package comment.
	if s.savegame != nil {
		s.bridge.Push(s.l, classLevel, s.savegame)
		s.l.SetGlobal("Level")
	}
	if s.player != nil {
		s.bridge.Push(s.l, classPlayer, s.player)
		s.l.SetGlobal("Player")
	}
	if s.hud != nil {
		s.bridge.Push(s.l, classHud, s.hud)
		s.l.SetGlobal("Hud")
	}

	s.registerUIDS()
}

// registerUIDS installs the UIDS global: a lookup table resolving a
// level-editor UID to the sprite's handle on demand.
func (s *Session) registerUIDS() {
	l := s.l
	l.NewTable()
	l.NewTable()
	l.PushGoFunction(func(l *lua.State) int {
		uid := lua.CheckInteger(l, 2)
		sprite, class := s.level.SpriteByUID(uid)
		if sprite == nil {
			l.PushNil()
			return 1
		}
		s.bridge.Push(l, class, sprite)
		return 1
	})
	l.SetField(-2, "__index")
	l.SetMetaTable(-2)
	l.SetGlobal("UIDS")
}

// methodOn builds the generic event-subscription method shared by every
// bindable class: entity:on(kind, handler). Event kinds are open-ended
// strings; registering appends, never replaces.
func (s *Session) methodOn(class string) lua.RegistryFunction {
	return lua.RegistryFunction{Name: "on", Function: func(l *lua.State) int {
		entity := s.bridge.Check(l, 1, class)
		kind := lua.CheckString(l, 2)
		lua.CheckType(l, 3, lua.TypeFunction)
		src, ok := entity.(event.Source)
		if !ok {
			lua.Errorf(l, "%s does not support events", class)
			return 0
		}
		l.PushValue(3)
		src.Events().On(kind, s.newCallable())
		return 0
	}}
}

// namedEventMethod builds an on_<kind> convenience registration method.
func (s *Session) namedEventMethod(class, name, kind string) lua.RegistryFunction {
	return lua.RegistryFunction{Name: name, Function: func(l *lua.State) int {
		entity := s.bridge.Check(l, 1, class)
		lua.CheckType(l, 2, lua.TypeFunction)
		src, ok := entity.(event.Source)
		if !ok {
			lua.Errorf(l, "%s does not support events", class)
			return 0
		}
		l.PushValue(2)
		src.Events().On(kind, s.newCallable())
		return 0
	}}
}

// optFieldString reads a string field from the table at index, yielding
// "" for absent or non-string values.
func (s *Session) optFieldString(index int, name string) string {
	s.l.Field(index, name)
	str, _ := s.l.ToString(-1)
	s.l.Pop(1)
	return str
}

// pushRectTable pushes {x, y, width, height}.
func (s *Session) pushRectTable(x, y, w, h float64) {
	l := s.l
	l.CreateTable(0, 4)
	l.PushNumber(x)
	l.SetField(-2, "x")
	l.PushNumber(y)
	l.SetField(-2, "y")
	l.PushNumber(w)
	l.SetField(-2, "width")
	l.PushNumber(h)
	l.SetField(-2, "height")
}
