package identity

import (
	"fmt"
	"sync"
)

// State holds the lock flag, the identity of the scope currently permitted to
// mutate, and the cached representation fingerprint of one managed instance.
// The zero value is locked with an empty cache, so a struct literal that never
// went through Construct rejects writes.
//
// The mutex guards only the short Enter/Exit critical sections and the cache
// slots; no I/O or unbounded work ever runs under it.
type State struct {
	mu       sync.Mutex
	unlocked bool
	scopeID  uint64 // nonzero only while a scope holds the unlock window

	repr      string
	reprValid bool
	hash      uint64
	hashValid bool
}

// Object is the capability interface satisfied by managed value types.
// It is implemented by embedding Base.
type Object interface {
	IdentityState() *State
}

// Base carries the identity state for a managed type. Embed it in the struct
// that declares the type's fields.
type Base struct {
	state State
}

// IdentityState returns the lock and cache bookkeeping for this instance.
func (b *Base) IdentityState() *State { return &b.state }

// Writable returns nil when the instance may currently be mutated and
// ErrLockedMutation otherwise. Setters call this before writing fields.
func (b *Base) Writable() error {
	if b.state.Locked() {
		return ErrLockedMutation
	}
	return nil
}

// Locked reports whether field writes are currently forbidden.
func (s *State) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.unlocked
}

// ScopeActive reports whether an unlock scope currently holds the instance.
func (s *State) ScopeActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopeID != 0
}

// String renders the lock flag for diagnostics.
func (s *State) String() string {
	return fmt.Sprintf("ObjectLock(locked=%t)", s.Locked())
}

// Invalidate clears the cached representation and hash under the instance
// guard. Scope exit does this automatically; it is exposed for callers that
// change state outside the scope protocol.
func (s *State) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidate()
}

// invalidate clears the cache slots. Callers hold mu.
func (s *State) invalidate() {
	if s.reprValid || s.hashValid {
		cacheInvalidations.Add(1)
	}
	s.repr = ""
	s.reprValid = false
	s.hash = 0
	s.hashValid = false
}

func (s *State) cachedRepr() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repr, s.reprValid
}

func (s *State) storeRepr(repr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repr = repr
	s.reprValid = true
}

func (s *State) cachedHash() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hash, s.hashValid
}

func (s *State) storeHash(hash uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hash = hash
	s.hashValid = true
}
