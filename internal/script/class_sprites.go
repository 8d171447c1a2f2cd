package script

import (
	"github.com/Shopify/go-lua"

	"github.com/kumoworks/kumo/internal/level"
)

// secretAreaMethods is the SecretArea handle surface. Scripts may
// activate an area themselves; handler failures are logged, not raised
// back into the activating script.
func (s *Session) secretAreaMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "uid", Function: func(l *lua.State) int {
			sa := s.checkSecretArea(l)
			l.PushInteger(sa.UID)
			return 1
		}},
		{Name: "rect", Function: func(l *lua.State) int {
			sa := s.checkSecretArea(l)
			s.pushRectTable(sa.Rect.X, sa.Rect.Y, sa.Rect.W, sa.Rect.H)
			return 1
		}},
		{Name: "activated", Function: func(l *lua.State) int {
			sa := s.checkSecretArea(l)
			l.PushBoolean(sa.Activated)
			return 1
		}},
		{Name: "activate", Function: func(l *lua.State) int {
			sa := s.checkSecretArea(l)
			if err := sa.Activate(); err != nil {
				s.logger.Error("event handler failed", "kind", "activate", "error", err)
			}
			return 0
		}},
		s.methodOn(classSecretArea),
	}
}

// beetleMethods is the Beetle handle surface.
func (s *Session) beetleMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "uid", Function: func(l *lua.State) int {
			b := s.checkBeetle(l)
			l.PushInteger(b.UID)
			return 1
		}},
		{Name: "color", Function: func(l *lua.State) int {
			b := s.checkBeetle(l)
			l.PushString(b.Color)
			return 1
		}},
		{Name: "set_color", Function: func(l *lua.State) int {
			b := s.checkBeetle(l)
			b.Color = lua.CheckString(l, 2)
			return 0
		}},
		{Name: "rest_living_time", Function: func(l *lua.State) int {
			b := s.checkBeetle(l)
			l.PushNumber(b.RestLivingTime)
			return 1
		}},
		{Name: "set_rest_living_time", Function: func(l *lua.State) int {
			b := s.checkBeetle(l)
			b.RestLivingTime = lua.CheckNumber(l, 2)
			return 0
		}},
		s.namedEventMethod(classBeetle, "on_touch", "touch"),
		s.methodOn(classBeetle),
	}
}

func (s *Session) checkSecretArea(l *lua.State) *level.SecretArea {
	entity := s.bridge.Check(l, 1, classSecretArea)
	sa, ok := entity.(*level.SecretArea)
	if !ok {
		lua.Errorf(l, "SecretArea handle holds a foreign entity")
	}
	return sa
}

func (s *Session) checkBeetle(l *lua.State) *level.Beetle {
	entity := s.bridge.Check(l, 1, classBeetle)
	b, ok := entity.(*level.Beetle)
	if !ok {
		lua.Errorf(l, "Beetle handle holds a foreign entity")
	}
	return b
}
