package bind

import (
	"github.com/Shopify/go-lua"
)

// handleTableName is the registry-side table caching one userdata per
// live arena slot, so repeated lookups of the same native entity yield a
// handle that compares equal by identity in script code.
const handleTableName = "kumo.handles"

// Handle is the userdata payload scripts hold for a bound entity.
type Handle struct {
	Ref Ref
}

// Class describes the capability surface of one bindable native class:
// the whitelisted methods scripts may call on its handles.
type Class struct {
	Name    string
	Methods []lua.RegistryFunction
}

// Bridge owns the arena and the per-class method registration for one
// interpreter session.
type Bridge struct {
	arena   *Arena
	classes map[string]Class
}

// NewBridge creates a bridge with an empty arena.
func NewBridge() *Bridge {
	return &Bridge{
		arena:   NewArena(),
		classes: make(map[string]Class),
	}
}

// Arena exposes the liveness arena, used by entity teardown paths.
func (b *Bridge) Arena() *Arena { return b.arena }

// Install prepares the VM-side plumbing. Must be called once before any
// class registration or push.
func (b *Bridge) Install(l *lua.State) {
	l.NewTable()
	l.SetField(lua.RegistryIndex, handleTableName)
}

// RegisterClass creates the metatable for a bindable class and wires its
// capability table as __index. Registering the same class twice is a
// programming error and panics, matching the registry discipline of
// engine boot code.
func (b *Bridge) RegisterClass(l *lua.State, c Class) {
	if _, exists := b.classes[c.Name]; exists {
		panic("bind: class " + c.Name + " already registered")
	}
	b.classes[c.Name] = c

	lua.NewMetaTable(l, c.Name)
	l.NewTable()
	lua.SetFunctions(l, c.Methods, 0)
	l.SetField(-2, "__index")
	l.Pop(1)
}

// Push binds entity under class (idempotently) and pushes its handle
// userdata. The same live entity always pushes the identical userdata.
func (b *Bridge) Push(l *lua.State, class string, entity any) {
	ref := b.arena.Bind(class, entity)

	l.Field(lua.RegistryIndex, handleTableName)
	l.RawGetInt(-1, ref.index)
	if l.TypeOf(-1) == lua.TypeUserData {
		if h, ok := l.ToUserData(-1).(*Handle); ok && h.Ref == ref {
			l.Remove(-2)
			return
		}
	}
	l.Pop(1)

	l.PushUserData(&Handle{Ref: ref})
	lua.SetMetaTableNamed(l, class)
	l.PushValue(-1)
	l.RawSetInt(-3, ref.index)
	l.Remove(-2)
}

// Check resolves the handle at the given stack index, enforcing the class
// capability. A stale handle raises a Lua error carrying the
// StaleHandleError message, so any method call on a dead entity fails
// safely inside the script instead of touching freed native state.
func (b *Bridge) Check(l *lua.State, index int, class string) any {
	ud := lua.CheckUserData(l, index, class)
	h, ok := ud.(*Handle)
	if !ok || h == nil {
		lua.ArgumentError(l, index, class+" handle expected")
		return nil
	}
	entity, err := b.arena.Resolve(h.Ref)
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
		return nil
	}
	return entity
}

// Invalidate kills the entity's arena slot and drops its cached userdata.
// Must run before the native entity's state is released.
func (b *Bridge) Invalidate(l *lua.State, entity any) {
	ref, ok := b.arena.byEntity[entity]
	if !ok {
		return
	}
	b.arena.Invalidate(entity)

	l.Field(lua.RegistryIndex, handleTableName)
	l.PushNil()
	l.RawSetInt(-2, ref.index)
	l.Pop(1)
}

// InvalidateAll kills every live slot and empties the handle cache.
func (b *Bridge) InvalidateAll(l *lua.State) {
	b.arena.InvalidateAll()
	l.NewTable()
	l.SetField(lua.RegistryIndex, handleTableName)
}
