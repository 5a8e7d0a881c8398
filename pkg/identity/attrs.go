package identity

import (
	"fmt"
	"reflect"
	"strings"
)

// attrString renders the deterministic attribute-list representation: the
// type name as a header, then one "name = value" line per declared attribute,
// in order. Two instances of the same type with identical listed values
// produce identical strings, which is what grounds their equality and hash.
func attrString(obj Object, name string, attrs []string) string {
	var b strings.Builder
	b.WriteString(name)
	for _, path := range attrs {
		b.WriteString("\n  ")
		b.WriteString(path)
		b.WriteString(" = ")
		value, err := attrValue(obj, path)
		if err != nil {
			// Paths are validated at registration; this only triggers when a
			// nil pointer sits on the path.
			b.WriteString("<unset>")
			continue
		}
		b.WriteString(renderValue(value))
	}
	return b.String()
}

// renderValue formats one attribute value, rendering nested managed objects
// by their own representation with continuation lines indented.
func renderValue(value any) string {
	if obj, ok := value.(Object); ok && !isNilObject(obj) {
		return strings.ReplaceAll(Repr(obj), "\n", "\n  ")
	}
	return fmt.Sprintf("%v", value)
}

// attrValue resolves a dotted attribute path against obj via reflection.
func attrValue(obj Object, path string) (any, error) {
	v := reflect.ValueOf(obj)
	for _, segment := range strings.Split(path, ".") {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil, fmt.Errorf("nil value at %q in path %q", segment, path)
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("segment %q in path %q is not addressable on a %s", segment, path, v.Kind())
		}
		v = v.FieldByName(segment)
		if !v.IsValid() {
			return nil, fmt.Errorf("no field %q in path %q", segment, path)
		}
	}
	if !v.CanInterface() {
		return nil, fmt.Errorf("attribute path %q resolves to an unexported field", path)
	}
	return v.Interface(), nil
}

// validateAttrPath checks a dotted path against the static type so that a bad
// attribute list fails at registration, not on first render.
func validateAttrPath(t reflect.Type, path string) error {
	if path == "" {
		return fmt.Errorf("empty attribute path")
	}
	for _, segment := range strings.Split(path, ".") {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() == reflect.Interface || t.Kind() == reflect.Map {
			// Dynamic from here on; resolved per instance.
			return nil
		}
		if t.Kind() != reflect.Struct {
			return fmt.Errorf("segment %q does not address a struct", segment)
		}
		field, ok := t.FieldByName(segment)
		if !ok {
			return fmt.Errorf("field %q does not exist on %s", segment, t)
		}
		if field.PkgPath != "" {
			return fmt.Errorf("field %q on %s is unexported", segment, t)
		}
		t = field.Type
	}
	return nil
}

// SetAttr writes a named field of obj, enforcing the lock protocol: the write
// fails with ErrLockedMutation unless an unlock scope currently holds the
// instance. The lock check and the write happen under the instance guard, so
// writes within one window do not tear; ordering across concurrent writers is
// not defined beyond the scope boundary.
func SetAttr(obj Object, name string, value any) error {
	field := reflect.ValueOf(obj).Elem().FieldByName(name)
	if !field.IsValid() {
		return fmt.Errorf("%w: no field %q on %s", ErrInvocation, name, TypeName(obj))
	}
	if !field.CanSet() {
		return fmt.Errorf("%w: field %q on %s is not settable", ErrInvocation, name, TypeName(obj))
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return fmt.Errorf("%w: nil value for field %q", ErrInvocation, name)
	}
	if !v.Type().AssignableTo(field.Type()) {
		if !v.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("%w: cannot assign %s to field %q (%s)", ErrInvocation, v.Type(), name, field.Type())
		}
		v = v.Convert(field.Type())
	}
	st := obj.IdentityState()
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.unlocked {
		return fmt.Errorf("%w: cannot set %s on %s; use its update entry point", ErrLockedMutation, name, TypeName(obj))
	}
	field.Set(v)
	return nil
}
