package level

import "github.com/kumoworks/kumo/internal/event"

// Hud is the on-screen head-up display. The scripting layer only uses its
// transient one-line info message: no line wrapping, intended for short
// contextual hints ("3rd floor"), faded out by the render layer after a
// few seconds.
type Hud struct {
	event.Table

	text string
}

// NewHud creates an empty HUD.
func NewHud() *Hud {
	return &Hud{}
}

// SetText replaces the transient info message.
func (h *Hud) SetText(text string) {
	h.text = text
}

// Text returns the current info message.
func (h *Hud) Text() string {
	return h.text
}

// ClearText removes the info message.
func (h *Hud) ClearText() {
	h.text = ""
}
