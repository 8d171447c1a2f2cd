// Package event implements the per-entity event table: a registry of
// named, ordered, multi-subscriber callbacks that script code attaches to
// bindable engine entities.
//
// Event kinds are open-ended strings rather than a fixed enum. Each
// bindable entity documents the kinds it fires; firing a kind nobody
// subscribed to is legal and a no-op, which keeps forward-compatible
// scripts working against older entities.
package event

import "errors"

// Callable is a single registered handler. The scripting layer implements
// this for Lua closures; tests may register plain Go functions.
type Callable interface {
	// Call invokes the handler with the given arguments and returns its
	// (single) return value. Errors are script-level failures.
	Call(args ...any) (any, error)
}

// Func adapts an ordinary Go function to the Callable interface.
type Func func(args ...any) (any, error)

// Call implements Callable.
func (f Func) Call(args ...any) (any, error) { return f(args...) }

// Table maps event-kind names to their registered handlers in
// registration order. The zero value is ready to use.
//
// Table is not safe for concurrent use; the whole scripting core runs on
// the single simulation thread.
type Table struct {
	handlers map[string][]Callable
}

// Source is implemented by every bindable entity that carries a Table.
type Source interface {
	Events() *Table
}

// Events returns the table itself, so embedding a Table satisfies Source.
func (t *Table) Events() *Table { return t }

// On appends a handler for the given event kind. Registering never
// replaces earlier handlers; invocation order is registration order.
func (t *Table) On(kind string, c Callable) {
	if t.handlers == nil {
		t.handlers = make(map[string][]Callable)
	}
	t.handlers[kind] = append(t.handlers[kind], c)
}

// Handlers returns the handlers registered for kind, in registration
// order. The returned slice is a snapshot; mutating it does not affect
// the table.
func (t *Table) Handlers(kind string) []Callable {
	hs := t.handlers[kind]
	if len(hs) == 0 {
		return nil
	}
	out := make([]Callable, len(hs))
	copy(out, hs)
	return out
}

// Fire invokes every handler registered for kind, in registration order,
// passing the same arguments to each, synchronously on the caller's
// goroutine. It returns all handler return values in order.
//
// A failing handler does not stop dispatch: every handler for this kind
// is attempted, and the failures are joined into a single error returned
// after the last handler ran. Firing a kind with no handlers returns
// (nil, nil).
func (t *Table) Fire(kind string, args ...any) ([]any, error) {
	hs := t.handlers[kind]
	if len(hs) == 0 {
		return nil, nil
	}

	results := make([]any, 0, len(hs))
	var errs []error
	for _, h := range hs {
		ret, err := h.Call(args...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, ret)
	}
	return results, errors.Join(errs...)
}

// Clear drops every registered handler. Called wholesale when the owning
// entity is destroyed.
func (t *Table) Clear() {
	t.handlers = nil
}
