package bind

import (
	"errors"
	"testing"
)

type fakeSprite struct{ name string }

func TestBindIsIdempotentPerEntity(t *testing.T) {
	a := NewArena()
	s := &fakeSprite{name: "switch"}

	r1 := a.Bind("SecretArea", s)
	r2 := a.Bind("SecretArea", s)

	if r1 != r2 {
		t.Fatalf("binding the same live entity twice returned %v and %v", r1, r2)
	}
}

func TestResolveAfterInvalidateIsStale(t *testing.T) {
	a := NewArena()
	s := &fakeSprite{name: "beetle"}
	ref := a.Bind("Beetle", s)

	if got, err := a.Resolve(ref); err != nil || got != s {
		t.Fatalf("Resolve before teardown = (%v, %v)", got, err)
	}

	a.Invalidate(s)

	_, err := a.Resolve(ref)
	var stale *StaleHandleError
	if !errors.As(err, &stale) {
		t.Fatalf("Resolve after teardown = %v, want StaleHandleError", err)
	}
	if stale.Class != "Beetle" {
		t.Errorf("stale class = %q, want Beetle", stale.Class)
	}
}

func TestSlotReuseDoesNotReviveOldRefs(t *testing.T) {
	a := NewArena()
	old := &fakeSprite{name: "old"}
	ref := a.Bind("Beetle", old)
	a.Invalidate(old)

	// The freed slot is reused for a new entity. The stale ref must not
	// resolve to it.
	fresh := &fakeSprite{name: "fresh"}
	freshRef := a.Bind("Beetle", fresh)

	if _, err := a.Resolve(ref); err == nil {
		t.Fatal("stale ref resolved to the reused slot")
	}
	if got, err := a.Resolve(freshRef); err != nil || got != fresh {
		t.Fatalf("fresh ref = (%v, %v)", got, err)
	}
}

func TestInvalidateAll(t *testing.T) {
	a := NewArena()
	refs := []Ref{
		a.Bind("SecretArea", &fakeSprite{name: "a"}),
		a.Bind("Beetle", &fakeSprite{name: "b"}),
	}

	a.InvalidateAll()

	for _, ref := range refs {
		if _, err := a.Resolve(ref); err == nil {
			t.Errorf("ref %v still resolves after InvalidateAll", ref)
		}
	}
}

func TestInvalidateUnknownEntityIsNoOp(t *testing.T) {
	a := NewArena()
	a.Invalidate(&fakeSprite{name: "never bound"})
}
