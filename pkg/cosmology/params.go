// Package cosmology defines the background parameter set consumed by the halo
// model and emulator packages. Parameters is a managed immutable type: once
// constructed it participates in representation-based equality and hashing,
// and it deliberately has no sanctioned mutation entry point.
package cosmology

import (
	"errors"
	"fmt"

	"cosmocore/pkg/identity"
)

// ErrInvalidParameters marks a parameter set rejected at construction.
var ErrInvalidParameters = errors.New("cosmology: invalid parameters")

// Parameters is the background cosmology. All fields are set at construction
// and frozen afterwards; a generic update attempt fails with
// identity.ErrUnsupportedOperation because no mutator is registered.
type Parameters struct {
	identity.Base

	OmegaC float64 // cold dark matter density fraction
	OmegaB float64 // baryon density fraction
	OmegaK float64 // curvature density fraction
	H      float64 // dimensionless Hubble parameter h
	NS     float64 // primordial spectral index
	Sigma8 float64 // amplitude of matter fluctuations at 8 Mpc/h
	W0     float64 // dark energy equation of state at a=1
	WA     float64 // dark energy equation of state evolution
}

func init() {
	identity.MustRegister(&Parameters{}, identity.TypeSpec{
		Name:      "Parameters",
		ReprAttrs: []string{"OmegaC", "OmegaB", "OmegaK", "H", "NS", "Sigma8", "W0", "WA"},
		EqAttrs:   []string{"OmegaC", "OmegaB", "OmegaK", "H", "NS", "Sigma8", "W0", "WA"},
		Params:    []string{"omega_c", "omega_b", "omega_k", "h", "n_s", "sigma8", "w0", "wa"},
	})
}

// Spec carries the constructor arguments for a Parameters value. W0 and WA
// are taken as given; a cosmological constant is W0 = -1, WA = 0.
type Spec struct {
	OmegaC float64
	OmegaB float64
	OmegaK float64
	H      float64
	NS     float64
	Sigma8 float64
	W0     float64
	WA     float64
}

func (s Spec) validate() error {
	switch {
	case s.OmegaC < 0:
		return fmt.Errorf("%w: omega_c = %v is negative", ErrInvalidParameters, s.OmegaC)
	case s.OmegaB < 0:
		return fmt.Errorf("%w: omega_b = %v is negative", ErrInvalidParameters, s.OmegaB)
	case s.H <= 0:
		return fmt.Errorf("%w: h = %v is not positive", ErrInvalidParameters, s.H)
	case s.Sigma8 <= 0:
		return fmt.Errorf("%w: sigma8 = %v is not positive", ErrInvalidParameters, s.Sigma8)
	case s.NS <= 0:
		return fmt.Errorf("%w: n_s = %v is not positive", ErrInvalidParameters, s.NS)
	}
	return nil
}

// New validates spec and constructs a locked Parameters value.
func New(spec Spec) (*Parameters, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	p := &Parameters{}
	err := identity.Construct(p, func() error {
		p.OmegaC = spec.OmegaC
		p.OmegaB = spec.OmegaB
		p.OmegaK = spec.OmegaK
		p.H = spec.H
		p.NS = spec.NS
		p.Sigma8 = spec.Sigma8
		p.W0 = spec.W0
		p.WA = spec.WA
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// VanillaLCDM returns the conventional flat LCDM test cosmology.
func VanillaLCDM() *Parameters {
	p, err := New(Spec{
		OmegaC: 0.25,
		OmegaB: 0.05,
		H:      0.67,
		NS:     0.96,
		Sigma8: 0.81,
		W0:     -1,
	})
	if err != nil {
		panic(err)
	}
	return p
}

// OmegaM is the total matter density fraction.
func (p *Parameters) OmegaM() float64 { return p.OmegaC + p.OmegaB }

// String renders the registered attribute-list representation.
func (p *Parameters) String() string { return identity.Repr(p) }
