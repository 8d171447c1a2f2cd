package script

import (
	"github.com/Shopify/go-lua"

	"github.com/kumoworks/kumo/internal/level"
)

// playerMethods is the Player singleton's capability surface.
func (s *Session) playerMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "x", Function: func(l *lua.State) int {
			p := s.checkPlayer(l)
			l.PushNumber(p.Position.X)
			return 1
		}},
		{Name: "y", Function: func(l *lua.State) int {
			p := s.checkPlayer(l)
			l.PushNumber(p.Position.Y)
			return 1
		}},
		{Name: "warp", Function: func(l *lua.State) int {
			p := s.checkPlayer(l)
			x := lua.CheckNumber(l, 2)
			y := lua.CheckNumber(l, 3)
			p.Warp(x, y)
			return 0
		}},
		s.methodOn(classPlayer),
	}
}

func (s *Session) checkPlayer(l *lua.State) *level.Player {
	entity := s.bridge.Check(l, 1, classPlayer)
	p, ok := entity.(*level.Player)
	if !ok {
		lua.Errorf(l, "Player handle holds a foreign entity")
	}
	return p
}
