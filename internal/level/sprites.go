package level

import (
	"github.com/kumoworks/kumo/internal/core"
	"github.com/kumoworks/kumo/internal/event"
)

// SecretArea is an invisible region that congratulates the player when
// entered. Fires the "activate" event kind.
type SecretArea struct {
	event.Table

	UID       int
	Rect      core.Rect
	Activated bool
}

// Activate marks the area found. The first activation fires the
// "activate" event; later calls are no-ops because a secret stays found.
// Handler errors are returned to the caller, which logs them at the fire
// boundary instead of aborting the simulation step.
func (s *SecretArea) Activate() error {
	if s.Activated {
		return nil
	}
	s.Activated = true
	_, err := s.Fire("activate")
	return err
}

// Beetle is a small flying enemy. Fires the "touch" event kind with the
// colliding entity as argument.
type Beetle struct {
	event.Table

	UID            int
	Color          string
	RestLivingTime float64
}

// Touch reports a collision with another entity to script handlers. The
// argument reaches handlers as a handle to the collider.
func (b *Beetle) Touch(collider any) error {
	_, err := b.Fire("touch", collider)
	return err
}
