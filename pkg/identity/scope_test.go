package identity

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConstructYieldsLockedInstance(t *testing.T) {
	p, err := newPoint(1, 2)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if !p.IdentityState().Locked() {
		t.Fatalf("instance unlocked after construction")
	}
	if err := SetAttr(p, "A", 3.0); !errors.Is(err, ErrLockedMutation) {
		t.Fatalf("field write outside scope: got %v, want ErrLockedMutation", err)
	}
	if p.A != 1 {
		t.Fatalf("rejected write still changed the field: %v", p.A)
	}
}

func TestZeroValueIsLocked(t *testing.T) {
	var p point
	if err := SetAttr(&p, "A", 1.0); !errors.Is(err, ErrLockedMutation) {
		t.Fatalf("zero-value instance accepted a write: %v", err)
	}
}

func TestUnlockPermitsWritesAndRelocks(t *testing.T) {
	p, _ := newPoint(1, 2)
	err := Unlock(p, true, func() error {
		return SetAttr(p, "A", 7.0)
	})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if p.A != 7 {
		t.Fatalf("write inside scope lost: %v", p.A)
	}
	if !p.IdentityState().Locked() {
		t.Fatalf("instance not relocked after scope exit")
	}
}

func TestScopeExitRunsOnErrorPath(t *testing.T) {
	p, _ := newPoint(1, 2)
	boom := fmt.Errorf("mid-mutation failure")
	err := Unlock(p, true, func() error {
		if err := SetAttr(p, "A", 9.0); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error not propagated: %v", err)
	}
	// Partial mutations are not rolled back; the bookkeeping still is.
	if p.A != 9 {
		t.Fatalf("partial mutation rolled back unexpectedly")
	}
	if !p.IdentityState().Locked() {
		t.Fatalf("instance left unlocked after failed mutation")
	}
}

func TestNestedScopesAreReentrant(t *testing.T) {
	p, _ := newPoint(1, 2)
	err := Unlock(p, true, func() error {
		// Inner scope on an already-held instance is a no-op; its exit must
		// not relock on behalf of the outer scope.
		if err := Unlock(p, true, func() error { return nil }); err != nil {
			return err
		}
		if p.IdentityState().Locked() {
			return fmt.Errorf("inner scope exit relocked the instance early")
		}
		return SetAttr(p, "B", 11.0)
	})
	if err != nil {
		t.Fatalf("nested unlock: %v", err)
	}
	if p.B != 11 {
		t.Fatalf("write after inner scope lost: %v", p.B)
	}
	if !p.IdentityState().Locked() {
		t.Fatalf("outermost exit did not relock")
	}
}

func TestScopeOnForeignValueIsNoOp(t *testing.T) {
	// Values outside the framework pass through untouched.
	if err := Unlock(42, true, func() error { return nil }); err != nil {
		t.Fatalf("unlock foreign value: %v", err)
	}
	var nilObj *point
	if err := Unlock(nilObj, true, func() error { return nil }); err != nil {
		t.Fatalf("unlock typed nil: %v", err)
	}
}

func TestMutatingScopeInvalidatesCachedRepr(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&knob{}, knobSpec()); err != nil {
		t.Fatalf("register: %v", err)
	}
	k, _ := newKnob(1, "dial")
	before := reg.Repr(k)
	if !strings.Contains(before, "Level = 1") {
		t.Fatalf("unexpected repr: %q", before)
	}
	if err := Mutate(k, func() error { return SetAttr(k, "Level", 2.0) }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	after := reg.Repr(k)
	if after == before {
		t.Fatalf("stale representation survived a committed mutation: %q", after)
	}
	if !strings.Contains(after, "Level = 2") {
		t.Fatalf("repr does not reflect the mutation: %q", after)
	}
}

func TestNonMutatingScopeKeepsCache(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&knob{}, knobSpec()); err != nil {
		t.Fatalf("register: %v", err)
	}
	k, _ := newKnob(1, "dial")
	before := reg.Repr(k)
	if err := Unlock(k, false, func() error { return nil }); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, ok := k.IdentityState().cachedRepr(); !ok {
		t.Fatalf("non-mutating scope dropped the cached representation")
	}
	if reg.Repr(k) != before {
		t.Fatalf("representation changed without mutation")
	}
}

func TestLockStateString(t *testing.T) {
	p, _ := newPoint(1, 2)
	if got := p.IdentityState().String(); !strings.Contains(got, "locked=true") {
		t.Fatalf("lock state string: %q", got)
	}
	_ = Unlock(p, false, func() error {
		if got := p.IdentityState().String(); !strings.Contains(got, "locked=false") {
			t.Errorf("lock state string inside scope: %q", got)
		}
		return nil
	})
}
