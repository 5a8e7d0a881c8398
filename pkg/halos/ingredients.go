package halos

import (
	"fmt"
	"sort"
	"sync"

	"cosmocore/pkg/cosmology"
	"cosmocore/pkg/identity"
)

// SigmaM supplies the mass-variance inputs a halo model ingredient consumes.
// Implementations typically wrap a power spectrum integrator or an emulator;
// this package only consumes the values.
type SigmaM interface {
	// SigmaM is sigma(M, a), the rms overdensity fluctuation on the Lagrangian
	// scale of halos of mass M (Msun).
	SigmaM(m, a float64) (float64, error)
	// DlnSigmaDlog10M is -dln(sigma)/dlog10(M), positive for standard power
	// spectra.
	DlnSigmaDlog10M(m, a float64) (float64, error)
}

// Growth supplies linear growth quantities.
type Growth interface {
	// GrowthFactor is D(a), normalized to 1 today.
	GrowthFactor(a float64) (float64, error)
	// GrowthRate is dln(D)/dln(a).
	GrowthRate(a float64) (float64, error)
}

// Inputs bundles the external physics collaborators an ingredient call may
// need. Cosmo is always required; Sigma and Growth only by relations that
// state so, which fail with ErrMissingInput when the field is nil.
type Inputs struct {
	Cosmo  *cosmology.Parameters
	Sigma  SigmaM
	Growth Growth
}

func (in Inputs) sigma() (SigmaM, error) {
	if in.Sigma == nil {
		return nil, fmt.Errorf("%w: sigma(M)", ErrMissingInput)
	}
	return in.Sigma, nil
}

func (in Inputs) growth() (Growth, error) {
	if in.Growth == nil {
		return nil, fmt.Errorf("%w: growth", ErrMissingInput)
	}
	return in.Growth, nil
}

// Concentration is a concentration-mass relation c(M, a). Relations are
// always strict about their mass definition: they are fits with no universal
// form, so the compatibility requirement cannot be relaxed.
type Concentration interface {
	identity.Object
	Definition() *MassDef
	Concentration(in Inputs, m, a float64) (float64, error)
}

// MassFunction is a halo mass function dn/dlog10M in comoving Mpc^-3.
type MassFunction interface {
	identity.Object
	Definition() *MassDef
	MassFunction(in Inputs, m, a float64) (float64, error)
}

// HaloBias is a linear halo bias b(M, a).
type HaloBias interface {
	identity.Object
	Definition() *MassDef
	HaloBias(in Inputs, m, a float64) (float64, error)
}

// checkMassDef applies the shared compatibility protocol: incompatible is the
// model's own verdict on md, strictAlways marks relations whose requirement
// can never be relaxed, and strict is the per-instance setting.
func checkMassDef(model string, md *MassDef, incompatible, strictAlways, strict bool) error {
	if !incompatible {
		return nil
	}
	if strictAlways {
		return fmt.Errorf("%w: %s is not defined for %s masses and this requirement cannot be relaxed",
			ErrIncompatibleMassDef, model, md.Name())
	}
	if strict {
		return fmt.Errorf("%w: %s is not defined for %s masses; construct with Strict false to relax",
			ErrIncompatibleMassDef, model, md.Name())
	}
	return nil
}

// Factories resolve published model names to constructors, mirroring the
// explicit introduction of each relation at package init. All three kinds
// share the registration discipline; lookups of unknown names fail with
// ErrUnknownModel.

// ConcentrationFactory builds a concentration relation for a mass definition.
type ConcentrationFactory func(md *MassDef) (Concentration, error)

// MassFunctionFactory builds a mass function for a mass definition.
type MassFunctionFactory func(md *MassDef) (MassFunction, error)

// HaloBiasFactory builds a halo bias for a mass definition.
type HaloBiasFactory func(md *MassDef) (HaloBias, error)

type factoryRegistry[F any] struct {
	mu        sync.RWMutex
	factories map[string]F
}

func (r *factoryRegistry[F]) register(name string, f F) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[string]F)
	}
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("halos: model %q registered twice", name))
	}
	r.factories[name] = f
}

func (r *factoryRegistry[F]) lookup(name string) (F, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return f, nil
}

func (r *factoryRegistry[F]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var (
	concentrations factoryRegistry[ConcentrationFactory]
	massFunctions  factoryRegistry[MassFunctionFactory]
	haloBiases     factoryRegistry[HaloBiasFactory]
)

// RegisterConcentration introduces a named concentration relation. Duplicate
// names are a developer error and panic.
func RegisterConcentration(name string, f ConcentrationFactory) { concentrations.register(name, f) }

// ConcentrationFromName resolves a registered concentration factory.
func ConcentrationFromName(name string) (ConcentrationFactory, error) {
	return concentrations.lookup(name)
}

// ConcentrationNames lists the registered relations in sorted order.
func ConcentrationNames() []string { return concentrations.names() }

// RegisterMassFunction introduces a named mass function parametrization.
func RegisterMassFunction(name string, f MassFunctionFactory) { massFunctions.register(name, f) }

// MassFunctionFromName resolves a registered mass function factory.
func MassFunctionFromName(name string) (MassFunctionFactory, error) {
	return massFunctions.lookup(name)
}

// MassFunctionNames lists the registered parametrizations in sorted order.
func MassFunctionNames() []string { return massFunctions.names() }

// RegisterHaloBias introduces a named halo bias parametrization.
func RegisterHaloBias(name string, f HaloBiasFactory) { haloBiases.register(name, f) }

// HaloBiasFromName resolves a registered halo bias factory.
func HaloBiasFromName(name string) (HaloBiasFactory, error) { return haloBiases.lookup(name) }

// HaloBiasNames lists the registered parametrizations in sorted order.
func HaloBiasNames() []string { return haloBiases.names() }
