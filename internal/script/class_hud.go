package script

import (
	"github.com/Shopify/go-lua"

	"github.com/kumoworks/kumo/internal/level"
)

// hudMethods is the Hud singleton's capability surface.
func (s *Session) hudMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "set_text", Function: func(l *lua.State) int {
			h := s.checkHud(l)
			h.SetText(lua.CheckString(l, 2))
			return 0
		}},
		{Name: "text", Function: func(l *lua.State) int {
			h := s.checkHud(l)
			l.PushString(h.Text())
			return 1
		}},
		{Name: "clear", Function: func(l *lua.State) int {
			h := s.checkHud(l)
			h.ClearText()
			return 0
		}},
		s.methodOn(classHud),
	}
}

func (s *Session) checkHud(l *lua.State) *level.Hud {
	entity := s.bridge.Check(l, 1, classHud)
	h, ok := entity.(*level.Hud)
	if !ok {
		lua.Errorf(l, "Hud handle holds a foreign entity")
	}
	return h
}
