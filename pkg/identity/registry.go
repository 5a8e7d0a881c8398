package identity

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ReprFunc produces the custom representation of a managed instance.
type ReprFunc func(Object) string

// TypeSpec declares how a managed type participates in the identity
// framework. It is supplied once, when the type is introduced.
type TypeSpec struct {
	// Name qualifies representation headers and error messages. Defaults to
	// the reflected type name.
	Name string
	// Repr is an optional custom representation function. Its output is
	// cached per instance until a mutating scope closes.
	Repr ReprFunc
	// ReprAttrs derives the representation mechanically from the named
	// fields, in declared order, when Repr is not set. Dotted paths reach
	// into nested fields.
	ReprAttrs []string
	// EqAttrs overrides representation-based equality with per-attribute
	// comparison over the named fields. The hash follows the equality basis,
	// so instances equal by attributes always hash equal.
	EqAttrs []string
	// Params records the constructor's declared parameter names.
	Params []string
	// Update is the designated mutation entry point, if the type has one. It
	// is wrapped at registration so every invocation runs inside a mutating
	// unlock scope on the instance parameter.
	Update Fn
	// UpdateParams are the declared parameter names of Update. The first one
	// denotes the instance unless UpdateTarget says otherwise.
	UpdateParams []string
	// UpdateTarget optionally names the Update parameter carrying the
	// instance.
	UpdateTarget string
	// UpdateDefaults supplies values for Update parameters omitted at call
	// time.
	UpdateDefaults map[string]any
}

type typeEntry struct {
	spec   TypeSpec
	custom ReprFunc // cached wrapper around the custom representation, nil when none
	active ReprFunc // current strategy slot; nil falls back to the identity default
	update *Wrapped
}

// Registry maps concrete types to their identity behavior and carries the
// process-wide toggle between custom and default representations. Toggling is
// global and immediate: each type's active-strategy slot is rewritten, and the
// next representation read of any instance observes the new strategy.
type Registry struct {
	mu      sync.RWMutex
	types   map[reflect.Type]*typeEntry
	enabled bool
}

// NewRegistry returns an empty registry with custom representations enabled.
func NewRegistry() *Registry {
	return &Registry{types: make(map[reflect.Type]*typeEntry), enabled: true}
}

// Default is the process-wide registry used by the package-level functions.
// Types register themselves here when they are introduced.
var Default = NewRegistry()

// Register introduces the concrete type of sample. It records the constructor
// signature, installs the cached custom representation (if any), and wraps
// the update entry point (if any) so it runs inside a mutating unlock scope.
// Registering the same concrete type twice fails with
// ErrConflictingRegistration.
func (r *Registry) Register(sample Object, spec TypeSpec) error {
	t, err := concreteType(sample)
	if err != nil {
		return err
	}
	if spec.Name == "" {
		spec.Name = t.Elem().String()
	}
	for _, path := range spec.ReprAttrs {
		if err := validateAttrPath(t, path); err != nil {
			return fmt.Errorf("%w: repr attribute %q: %v", ErrConfiguration, path, err)
		}
	}
	for _, path := range spec.EqAttrs {
		if err := validateAttrPath(t, path); err != nil {
			return fmt.Errorf("%w: equality attribute %q: %v", ErrConfiguration, path, err)
		}
	}

	entry := &typeEntry{spec: spec}
	if spec.Update != nil {
		opts := []WrapOption{WithMutate(true)}
		if spec.UpdateTarget != "" {
			opts = append(opts, WithTarget(spec.UpdateTarget))
		}
		if spec.UpdateDefaults != nil {
			opts = append(opts, WithDefaults(spec.UpdateDefaults))
		}
		wrapped, err := Wrap(spec.Update, spec.UpdateParams, opts...)
		if err != nil {
			return err
		}
		entry.update = wrapped
	}

	reprFn := spec.Repr
	if reprFn == nil && len(spec.ReprAttrs) > 0 {
		attrs := append([]string(nil), spec.ReprAttrs...)
		name := spec.Name
		reprFn = func(obj Object) string { return attrString(obj, name, attrs) }
	}
	if reprFn != nil {
		entry.custom = cachedReprFn(reprFn)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[t]; exists {
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, spec.Name)
	}
	if r.enabled {
		entry.active = entry.custom
	}
	r.types[t] = entry
	return nil
}

// MustRegister is Register for init-time type introduction; a registration
// failure is a developer error and panics.
func (r *Registry) MustRegister(sample Object, spec TypeSpec) {
	if err := r.Register(sample, spec); err != nil {
		panic(err)
	}
}

// EnableAll installs the cached custom representation as the active strategy
// for every registered type that defines one.
func (r *Registry) EnableAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = true
	for _, entry := range r.types {
		entry.active = entry.custom
	}
}

// DisableAll installs the identity-based default representation for every
// registered type. The default derives from the instance address, is not
// reproducible across runs, and is never cached.
func (r *Registry) DisableAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = false
	for _, entry := range r.types {
		entry.active = nil
	}
}

// Enabled reports whether custom representations are currently active.
func (r *Registry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Repr returns the representation of obj under the currently active strategy:
// the cached custom string, the attribute-list rendering, or the identity
// default.
func (r *Registry) Repr(obj Object) string {
	entry := r.lookup(obj)
	r.mu.RLock()
	var active ReprFunc
	if entry != nil {
		active = entry.active
	}
	r.mu.RUnlock()
	if active == nil {
		return DefaultRepr(obj)
	}
	return active(obj)
}

// HashOf returns (and caches) the hash of obj's equality basis: the
// EqAttrs-derived string when the type declares one, the representation
// otherwise.
func (r *Registry) HashOf(obj Object) uint64 {
	st := obj.IdentityState()
	if h, ok := st.cachedHash(); ok {
		cacheHits.Add(1)
		return h
	}
	entry := r.lookup(obj)
	var basis string
	if entry != nil && len(entry.spec.EqAttrs) > 0 {
		basis = attrString(obj, entry.spec.Name, entry.spec.EqAttrs)
	} else {
		basis = r.Repr(obj)
	}
	h := xxhash.Sum64String(basis)
	st.storeHash(h)
	return h
}

// Equal reports whether a and b are equal under the identity contract: false
// for distinct concrete types, per-attribute equality when the type declares
// EqAttrs, representation equality otherwise.
func (r *Registry) Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if a == b {
		return true
	}
	entry := r.lookup(a)
	if entry != nil && len(entry.spec.EqAttrs) > 0 {
		for _, path := range entry.spec.EqAttrs {
			va, errA := attrValue(a, path)
			vb, errB := attrValue(b, path)
			if errA != nil || errB != nil {
				return false
			}
			if !r.equalValues(va, vb) {
				return false
			}
		}
		return true
	}
	return r.Repr(a) == r.Repr(b)
}

// Update invokes the type's designated mutation entry point with args bound
// by parameter name. Types without one are permanently immutable after
// construction and fail with ErrUnsupportedOperation.
func (r *Registry) Update(obj Object, args map[string]any) error {
	entry := r.lookup(obj)
	if entry == nil || entry.update == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedOperation, r.TypeName(obj))
	}
	full := make(map[string]any, len(args)+1)
	for k, v := range args {
		full[k] = v
	}
	full[entry.update.Target()] = obj
	return entry.update.Call(full)
}

// Signature returns the recorded constructor parameter names of obj's type.
func (r *Registry) Signature(obj Object) ([]string, bool) {
	entry := r.lookup(obj)
	if entry == nil || entry.spec.Params == nil {
		return nil, false
	}
	out := make([]string, len(entry.spec.Params))
	copy(out, entry.spec.Params)
	return out, true
}

// TypeNames lists the registered type names in sorted order.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for _, entry := range r.types {
		out = append(out, entry.spec.Name)
	}
	sort.Strings(out)
	return out
}

// TypeName resolves the registered name of obj's type in this registry,
// falling back to the reflected name.
func (r *Registry) TypeName(obj Object) string {
	if entry := r.lookup(obj); entry != nil {
		return entry.spec.Name
	}
	return reflect.TypeOf(obj).Elem().String()
}

func (r *Registry) lookup(obj Object) *typeEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[reflect.TypeOf(obj)]
}

// equalValues compares attribute values, recursing into managed objects so
// nested ingredients compare by their own contract.
func (r *Registry) equalValues(a, b any) bool {
	oa, okA := a.(Object)
	ob, okB := b.(Object)
	if okA && okB {
		return r.Equal(oa, ob)
	}
	if okA != okB {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// cachedReprFn wraps a representation function with the per-instance cache:
// the first read computes and stores, later reads return the stored value
// until a mutating scope invalidates it.
func cachedReprFn(fn ReprFunc) ReprFunc {
	return func(obj Object) string {
		st := obj.IdentityState()
		if repr, ok := st.cachedRepr(); ok {
			cacheHits.Add(1)
			return repr
		}
		cacheMisses.Add(1)
		repr := fn(obj)
		st.storeRepr(repr)
		return repr
	}
}

// DefaultRepr is the identity-based representation: derived from the instance
// address, unique per instance, intentionally not reproducible across runs.
func DefaultRepr(obj Object) string {
	return fmt.Sprintf("<%s object at %p>", reflect.TypeOf(obj).Elem().String(), obj)
}

func concreteType(sample Object) (reflect.Type, error) {
	if sample == nil {
		return nil, fmt.Errorf("%w: nil sample", ErrConfiguration)
	}
	t := reflect.TypeOf(sample)
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: managed types are pointers to structs, got %s", ErrConfiguration, t)
	}
	return t, nil
}

// Package-level forwards to the Default registry.

// Register introduces a type in the Default registry.
func Register(sample Object, spec TypeSpec) error { return Default.Register(sample, spec) }

// MustRegister introduces a type in the Default registry, panicking on a
// registration error.
func MustRegister(sample Object, spec TypeSpec) { Default.MustRegister(sample, spec) }

// EnableAll enables custom representations process-wide.
func EnableAll() { Default.EnableAll() }

// DisableAll disables custom representations process-wide.
func DisableAll() { Default.DisableAll() }

// Repr returns obj's representation under the Default registry.
func Repr(obj Object) string { return Default.Repr(obj) }

// HashOf returns obj's cached identity hash under the Default registry.
func HashOf(obj Object) uint64 { return Default.HashOf(obj) }

// Equal compares two managed objects under the Default registry.
func Equal(a, b Object) bool { return Default.Equal(a, b) }

// Update invokes obj's designated update entry point under the Default
// registry.
func Update(obj Object, args map[string]any) error { return Default.Update(obj, args) }

// TypeName resolves obj's registered name under the Default registry.
func TypeName(obj Object) string { return Default.TypeName(obj) }

// TypeNames lists the type names registered in the Default registry.
func TypeNames() []string { return Default.TypeNames() }
