package level

import (
	"github.com/kumoworks/kumo/internal/core"
	"github.com/kumoworks/kumo/internal/event"
)

// ReturnEntry is one entry on the level return stack: where to resume
// once a sublevel hands control back. An empty Level means "the current
// level"; an empty Entry means "the default start position".
type ReturnEntry struct {
	Level string
	Entry string
}

// Player is the active player. The return stack lives here rather than on
// the level because it must survive level switches: a sublevel pushes the
// parent level's continuation point and the entry is consumed after the
// sublevel finishes.
type Player struct {
	event.Table

	Position    core.Point
	returnStack []ReturnEntry
}

// NewPlayer creates a player at the given start position.
func NewPlayer(start core.Point) *Player {
	return &Player{Position: start}
}

// Warp moves the player to the given world position.
func (p *Player) Warp(x, y float64) {
	p.Position = core.Point{X: x, Y: y}
}

// PushReturn pushes a return entry onto the stack.
func (p *Player) PushReturn(levelName, entryName string) {
	p.returnStack = append(p.returnStack, ReturnEntry{Level: levelName, Entry: entryName})
}

// PopReturn pops the most recent entry. The second return value is false
// if the stack is empty; an empty stack is a normal condition, not an
// error.
func (p *Player) PopReturn() (ReturnEntry, bool) {
	n := len(p.returnStack)
	if n == 0 {
		return ReturnEntry{}, false
	}
	e := p.returnStack[n-1]
	p.returnStack = p.returnStack[:n-1]
	return e, true
}

// ClearReturn empties the return stack.
func (p *Player) ClearReturn() {
	p.returnStack = nil
}

// ReturnStack returns a snapshot of the stack, oldest entry first.
// Mutating the snapshot does not affect the player.
func (p *Player) ReturnStack() []ReturnEntry {
	out := make([]ReturnEntry, len(p.returnStack))
	copy(out, p.returnStack)
	return out
}
