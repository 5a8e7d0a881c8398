package identity

import (
	"reflect"
	"sync/atomic"
)

var scopeSeq atomic.Uint64

// Scope is a scoped, reentrant-safe acquisition of mutation permission over a
// single instance. Entering an instance that is already held by another scope
// is a no-op; the outer scope retains control and the inner exit never relocks
// early. A Scope is created per mutation attempt and must not outlive the call
// it wraps.
type Scope struct {
	state  *State // nil when the target is not a managed object
	id     uint64
	mutate bool
}

// NewScope prepares a scope over target. When mutate is true the instance's
// cached representation and hash are invalidated on exit, on every exit path.
// A target that is not a managed Object yields a pass-through scope, so the
// protocol degrades gracefully for foreign values.
func NewScope(target any, mutate bool) *Scope {
	s := &Scope{id: scopeSeq.Add(1), mutate: mutate}
	if obj, ok := target.(Object); ok && !isNilObject(obj) {
		s.state = obj.IdentityState()
	}
	return s
}

// Enter unlocks the target unless another scope already holds it.
func (s *Scope) Enter() {
	if s.state == nil {
		return
	}
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.scopeID != 0 {
		// Another scope is active; it retains control.
		return
	}
	st.unlocked = true
	st.scopeID = s.id
}

// Exit relocks the target if this scope acquired it, invalidating the cache
// first when the scope was opened with mutate. Exits of scopes that never
// acquired the instance are no-ops.
func (s *Scope) Exit() {
	if s.state == nil {
		return
	}
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.scopeID != s.id {
		return
	}
	if s.mutate {
		st.invalidate()
	}
	st.unlocked = false
	st.scopeID = 0
}

// Unlock runs fn with target unlocked, guaranteeing scope exit on every return
// path. It is the explicit mutation primitive available outside the automatic
// constructor and update wrapping.
func Unlock(target any, mutate bool, fn func() error) error {
	s := NewScope(target, mutate)
	s.Enter()
	defer s.Exit()
	return fn()
}

// Construct initializes a freshly allocated managed object: init runs inside
// an unlock scope without cache invalidation, and the object is locked when
// Construct returns, whether or not init succeeded.
func Construct(obj Object, init func() error) error {
	return Unlock(obj, false, init)
}

// Mutate runs fn inside an unlock scope that invalidates the cached
// representation and hash on exit.
func Mutate(obj Object, fn func() error) error {
	return Unlock(obj, true, fn)
}

// isNilObject guards against typed nil pointers reaching IdentityState.
func isNilObject(obj Object) bool {
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
