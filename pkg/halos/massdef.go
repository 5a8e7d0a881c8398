// Package halos provides the halo model ingredient types: spherical
// overdensity mass definitions, concentration-mass relations, the halo mass
// function and halo bias, and halo profile parameter sets. Every ingredient
// is a managed immutable value; the pressure profile is the one type with a
// sanctioned mutation entry point.
package halos

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cosmocore/pkg/identity"
)

var (
	// ErrInvalidMassDef marks a mass definition rejected at construction or
	// parse time.
	ErrInvalidMassDef = errors.New("halos: invalid mass definition")
	// ErrIncompatibleMassDef marks a model asked to operate outside the mass
	// definitions it was fitted for.
	ErrIncompatibleMassDef = errors.New("halos: incompatible mass definition")
	// ErrUnknownModel marks a name lookup that matched no registered factory.
	ErrUnknownModel = errors.New("halos: unknown model")
	// ErrMissingInput marks a model invoked without a physics input it needs.
	ErrMissingInput = errors.New("halos: missing physics input")
)

// Density discriminates the reference density of a spherical overdensity.
type Density string

const (
	// MatterDensity references the mean matter density.
	MatterDensity Density = "matter"
	// CriticalDensity references the critical density.
	CriticalDensity Density = "critical"
)

// MassDef is a halo mass definition: an overdensity contrast over a reference
// density. Delta is either a decimal contrast ("200", "500"), "vir", or "fof"
// for friends-of-friends masses, which carry no reference density.
type MassDef struct {
	identity.Base

	Delta   string
	Density Density
}

func init() {
	identity.MustRegister(&MassDef{}, identity.TypeSpec{
		Name:      "MassDef",
		ReprAttrs: []string{"Delta", "Density"},
		EqAttrs:   []string{"Delta", "Density"},
		Params:    []string{"delta", "density"},
	})
}

// NewMassDef validates and constructs a locked mass definition.
func NewMassDef(delta string, density Density) (*MassDef, error) {
	switch delta {
	case "vir", "fof":
	default:
		v, err := strconv.ParseFloat(delta, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%w: delta %q is not a positive contrast, \"vir\" or \"fof\"", ErrInvalidMassDef, delta)
		}
	}
	if delta == "fof" {
		// FoF masses have no reference density.
		density = MatterDensity
	}
	switch density {
	case MatterDensity, CriticalDensity:
	default:
		return nil, fmt.Errorf("%w: density %q", ErrInvalidMassDef, density)
	}
	md := &MassDef{}
	err := identity.Construct(md, func() error {
		md.Delta = delta
		md.Density = density
		return nil
	})
	if err != nil {
		return nil, err
	}
	return md, nil
}

// ParseMassDef resolves a compact name such as "200m", "500c", "vir" or "fof"
// into a mass definition.
func ParseMassDef(name string) (*MassDef, error) {
	switch name {
	case "vir":
		return NewMassDef("vir", CriticalDensity)
	case "fof":
		return NewMassDef("fof", MatterDensity)
	}
	var density Density
	switch {
	case strings.HasSuffix(name, "m"):
		density = MatterDensity
	case strings.HasSuffix(name, "c"):
		density = CriticalDensity
	default:
		return nil, fmt.Errorf("%w: cannot parse %q", ErrInvalidMassDef, name)
	}
	return NewMassDef(name[:len(name)-1], density)
}

// MustParseMassDef is ParseMassDef for the preset names; a parse failure
// panics.
func MustParseMassDef(name string) *MassDef {
	md, err := ParseMassDef(name)
	if err != nil {
		panic(err)
	}
	return md
}

// Name is the compact form: "200m", "500c", "vir", "fof".
func (md *MassDef) Name() string {
	switch md.Delta {
	case "vir", "fof":
		return md.Delta
	}
	if md.Density == MatterDensity {
		return md.Delta + "m"
	}
	return md.Delta + "c"
}

// DeltaValue returns the numeric overdensity contrast, reporting false for
// "vir" and "fof".
func (md *MassDef) DeltaValue() (float64, bool) {
	switch md.Delta {
	case "vir", "fof":
		return 0, false
	}
	v, err := strconv.ParseFloat(md.Delta, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (md *MassDef) String() string { return identity.Repr(md) }
