package identity

import "fmt"

// Fn is the dynamic call form used by wrapped callables: arguments arrive
// bound by declared parameter name.
type Fn func(args map[string]any) error

// Wrapped is a callable whose invocations run inside an unlock scope on the
// argument selected as "the instance".
type Wrapped struct {
	fn       Fn
	params   []string
	defaults map[string]any
	target   string
	mutate   bool
}

// WrapOption adjusts how a callable is wrapped.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	target   string
	mutate   bool
	defaults map[string]any
}

// WithTarget selects the declared parameter that denotes the instance to
// unlock. The default is the first declared parameter.
func WithTarget(name string) WrapOption {
	return func(c *wrapConfig) { c.target = name }
}

// WithMutate controls whether scope exit invalidates the instance's cached
// representation and hash. The default is true: assume mutation occurred
// unless told otherwise.
func WithMutate(mutate bool) WrapOption {
	return func(c *wrapConfig) { c.mutate = mutate }
}

// WithDefaults supplies default values for declared parameters omitted at
// call time.
func WithDefaults(defaults map[string]any) WrapOption {
	return func(c *wrapConfig) { c.defaults = defaults }
}

// Wrap builds a Wrapped callable around fn, whose declared parameter names
// are given in order. An unknown target or default parameter is a developer
// error reported at wrap time with ErrConfiguration.
func Wrap(fn Fn, params []string, opts ...WrapOption) (*Wrapped, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", ErrConfiguration)
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: no declared parameters", ErrConfiguration)
	}
	cfg := wrapConfig{mutate: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.target == "" {
		cfg.target = params[0]
	}
	if !containsParam(params, cfg.target) {
		return nil, fmt.Errorf("%w: parameter %q does not exist", ErrConfiguration, cfg.target)
	}
	for name := range cfg.defaults {
		if !containsParam(params, name) {
			return nil, fmt.Errorf("%w: default for unknown parameter %q", ErrConfiguration, name)
		}
	}
	declared := make([]string, len(params))
	copy(declared, params)
	return &Wrapped{
		fn:       fn,
		params:   declared,
		defaults: cfg.defaults,
		target:   cfg.target,
		mutate:   cfg.mutate,
	}, nil
}

// Call binds args to the declared parameters, opens an unlock scope on the
// resolved instance argument, and invokes the wrapped function. Scope exit is
// guaranteed on every return path, including error propagation.
func (w *Wrapped) Call(args map[string]any) error {
	bound, err := w.bind(args)
	if err != nil {
		return err
	}
	return Unlock(bound[w.target], w.mutate, func() error {
		return w.fn(bound)
	})
}

// Params returns the declared parameter names in order.
func (w *Wrapped) Params() []string {
	out := make([]string, len(w.params))
	copy(out, w.params)
	return out
}

// Target returns the name of the parameter resolved as the instance.
func (w *Wrapped) Target() string { return w.target }

func (w *Wrapped) bind(args map[string]any) (map[string]any, error) {
	bound := make(map[string]any, len(w.params))
	for name, value := range w.defaults {
		bound[name] = value
	}
	for name, value := range args {
		if !containsParam(w.params, name) {
			return nil, fmt.Errorf("%w: unexpected argument %q", ErrInvocation, name)
		}
		bound[name] = value
	}
	for _, name := range w.params {
		if _, ok := bound[name]; !ok {
			return nil, fmt.Errorf("%w: missing argument %q", ErrInvocation, name)
		}
	}
	return bound, nil
}

func containsParam(params []string, name string) bool {
	for _, p := range params {
		if p == name {
			return true
		}
	}
	return false
}
