package emulator

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Config is the emulator configuration a model was loaded under. Two loads of
// the same name with equal configurations share one cached model.
type Config map[string]any

// Loader materializes a named model. Implementations import, decode, or fetch
// the trained artifact; the registry only caches what they return.
type Loader interface {
	// Load returns the model payload and the bounds it was trained within.
	// An unrecognized name fails with ErrUnknownModel.
	Load(ctx context.Context, name string, config Config) (any, *Bounds, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, name string, config Config) (any, *Bounds, error)

func (f LoaderFunc) Load(ctx context.Context, name string, config Config) (any, *Bounds, error) {
	return f(ctx, name, config)
}

// Logger is the narrow logging surface the registry consumes.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type entry struct {
	model  any
	config Config
	bounds *Bounds
}

// Registry caches loaded emulator models by name so repeated use does not
// reload them. A cached model is evicted and reloaded when it is requested
// under a different configuration.
type Registry struct {
	loader  Loader
	log     Logger
	metrics *Metrics

	mu      sync.Mutex
	entries map[string]*entry
}

// Option adjusts a Registry.
type Option func(*Registry)

// WithLogger installs the registry's logger. The default discards.
func WithLogger(log Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithMetrics installs the registry's prometheus collectors. The default
// records nothing.
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry builds a registry around loader.
func NewRegistry(loader Loader, opts ...Option) *Registry {
	r := &Registry{
		loader:  loader,
		log:     noopLogger{},
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the model for name under config, loading it on first use or
// when the configuration changed since the cached load.
func (r *Registry) Get(ctx context.Context, name string, config Config) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok && reflect.DeepEqual(e.config, config) {
		r.metrics.recordCacheHit(name)
		r.log.Debug("emulator model served from cache", "model", name)
		return e.model, nil
	}
	model, bounds, err := r.loader.Load(ctx, name, config)
	if err != nil {
		return nil, fmt.Errorf("load emulator model %q: %w", name, err)
	}
	r.entries[name] = &entry{model: model, config: config, bounds: bounds}
	r.metrics.recordLoad(name)
	r.log.Info("emulator model loaded", "model", name)
	return model, nil
}

// Bounds returns the trained bounds recorded for a loaded model, or false
// when the model has not been loaded or its loader supplied none.
func (r *Registry) Bounds(name string) (*Bounds, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok || e.bounds == nil {
		return nil, false
	}
	return e.bounds, true
}

// CheckProposal validates a proposal against a loaded model's bounds.
// Parameters without recorded bounds are logged and skipped; an out-of-range
// value counts as a violation and fails with ErrOutOfBounds. A model without
// bounds accepts every proposal.
func (r *Registry) CheckProposal(name string, proposal map[string]float64) error {
	bounds, ok := r.Bounds(name)
	if !ok {
		r.log.Debug("no bounds recorded for model", "model", name)
		return nil
	}
	unknown, err := bounds.Check(proposal)
	for _, par := range unknown {
		r.log.Warn("unknown bounds for parameter", "model", name, "parameter", par)
	}
	if err != nil {
		r.metrics.recordViolation(name)
		return err
	}
	return nil
}

// Evict drops the cached model for name, if any.
func (r *Registry) Evict(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Loaded lists the cached model names.
func (r *Registry) Loaded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	return out
}
