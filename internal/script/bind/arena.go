// Package bind bridges native engine entities into the scripting VM.
//
// Scripts never hold raw pointers to engine objects. Instead each bindable
// entity is registered in a generation-tagged arena and scripts receive a
// Handle carrying (slot index, generation at bind time). Every access
// re-checks the generation, so a handle that survives its entity fails
// with StaleHandleError instead of reaching freed native state. Entity
// teardown must call Invalidate before the native object is released, on
// the same simulation step as script execution.
package bind

import "fmt"

// StaleHandleError is returned when a handle is used after its native
// entity has been destroyed.
type StaleHandleError struct {
	// Class is the capability tag of the destroyed entity.
	Class string
}

func (e *StaleHandleError) Error() string {
	return fmt.Sprintf("bind: stale handle: %s entity no longer exists", e.Class)
}

// Ref identifies a bound entity by arena slot and generation.
type Ref struct {
	index int
	gen   uint32
}

type slot struct {
	entity any
	class  string
	gen    uint32
	live   bool
}

// Arena tracks the liveness of every bindable entity surfaced to scripts.
type Arena struct {
	slots    []slot
	free     []int
	byEntity map[any]Ref
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{byEntity: make(map[any]Ref)}
}

// Bind registers entity under the given class capability and returns its
// ref. Binding is idempotent: binding an already-live entity returns the
// existing ref.
func (a *Arena) Bind(class string, entity any) Ref {
	if ref, ok := a.byEntity[entity]; ok {
		if s := &a.slots[ref.index]; s.live && s.gen == ref.gen {
			return ref
		}
	}

	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = len(a.slots) - 1
	}

	s := &a.slots[idx]
	s.entity = entity
	s.class = class
	s.live = true

	ref := Ref{index: idx, gen: s.gen}
	a.byEntity[entity] = ref
	return ref
}

// Resolve returns the entity behind ref, or StaleHandleError if the
// entity has been invalidated since the ref was issued.
func (a *Arena) Resolve(ref Ref) (any, error) {
	if ref.index < 0 || ref.index >= len(a.slots) {
		return nil, &StaleHandleError{Class: "unknown"}
	}
	s := &a.slots[ref.index]
	if !s.live || s.gen != ref.gen {
		return nil, &StaleHandleError{Class: s.class}
	}
	return s.entity, nil
}

// Class returns the capability tag recorded for ref, even after the
// entity died. Used for error reporting.
func (a *Arena) Class(ref Ref) string {
	if ref.index < 0 || ref.index >= len(a.slots) {
		return "unknown"
	}
	return a.slots[ref.index].class
}

// Invalidate marks the entity's slot dead and bumps its generation, so
// outstanding refs fail on the next Resolve. A no-op for entities that
// were never bound.
func (a *Arena) Invalidate(entity any) {
	ref, ok := a.byEntity[entity]
	if !ok {
		return
	}
	delete(a.byEntity, entity)

	s := &a.slots[ref.index]
	if !s.live {
		return
	}
	s.live = false
	s.entity = nil
	s.gen++
	a.free = append(a.free, ref.index)
}

// InvalidateAll kills every live slot. Called when the owning level is
// torn down.
func (a *Arena) InvalidateAll() {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		delete(a.byEntity, s.entity)
		s.live = false
		s.entity = nil
		s.gen++
		a.free = append(a.free, i)
	}
}
