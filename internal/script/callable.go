package script

import (
	"fmt"

	"github.com/Shopify/go-lua"
)

// callbackTableName is the registry-side table keeping registered script
// closures (and in-flight mutable mappings) reachable across calls.
const callbackTableName = "kumo.callbacks"

// luaCallable is an event.Callable backed by a Lua closure stored in the
// VM registry. It stays valid until the session terminates.
type luaCallable struct {
	s   *Session
	ref int
}

// stashRef moves the value on top of the stack into the callback table
// and returns its key.
func (s *Session) stashRef() int {
	s.l.Field(lua.RegistryIndex, callbackTableName)
	s.l.Insert(-2)
	s.nextRef++
	s.l.RawSetInt(-2, s.nextRef)
	s.l.Pop(1)
	return s.nextRef
}

// pushRef pushes the stashed value back onto the stack.
func (s *Session) pushRef(ref int) {
	s.l.Field(lua.RegistryIndex, callbackTableName)
	s.l.RawGetInt(-1, ref)
	s.l.Remove(-2)
}

// releaseRef frees the callback-table slot.
func (s *Session) releaseRef(ref int) {
	s.l.Field(lua.RegistryIndex, callbackTableName)
	s.l.PushNil()
	s.l.RawSetInt(-2, ref)
	s.l.Pop(1)
}

// newCallable wraps the Lua function on top of the stack (popping it).
func (s *Session) newCallable() *luaCallable {
	return &luaCallable{s: s, ref: s.stashRef()}
}

// Call invokes the closure with the given arguments, synchronously on the
// caller's goroutine, and returns its single return value converted to a
// Go value.
//
// Arguments of type map[string]any are mutable mappings: the handler sees
// them as a Lua table, and after the call the table's contents are synced
// back into the Go map. This is how save handlers write into the store
// that gets persisted. There is no rollback: mutations made before a
// failure point stick, matching interactive top-level semantics.
func (c *luaCallable) Call(args ...any) (any, error) {
	s := c.s
	if s.l == nil {
		return nil, fmt.Errorf("script: handler called after session termination")
	}
	l := s.l
	base := l.Top()

	s.pushRef(c.ref)
	if !l.IsFunction(-1) {
		l.SetTop(base)
		return nil, fmt.Errorf("script: registered handler is gone")
	}

	type mapping struct {
		ref int
		m   map[string]any
	}
	var mappings []mapping

	for _, a := range args {
		s.pushValue(a)
		if m, ok := a.(map[string]any); ok {
			l.PushValue(-1)
			mappings = append(mappings, mapping{ref: s.stashRef(), m: m})
		}
	}

	var ret any
	callErr := l.ProtectedCall(len(args), 1, 0)
	if callErr != nil {
		callErr = &RuntimeError{Chunk: "event handler", Message: s.popErrorMessage(callErr)}
	} else {
		ret = s.toGoValue(-1)
		l.Pop(1)
	}

	for _, mp := range mappings {
		s.pushRef(mp.ref)
		if l.TypeOf(-1) == lua.TypeTable {
			synced := s.tableToMap(-1)
			for k := range mp.m {
				delete(mp.m, k)
			}
			for k, v := range synced {
				mp.m[k] = v
			}
		}
		l.Pop(1)
		s.releaseRef(mp.ref)
	}

	l.SetTop(base)
	return ret, callErr
}
