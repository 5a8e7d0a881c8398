package halos

import (
	"fmt"
	"math"

	"cosmocore/pkg/identity"
)

// rhoCritical is the critical density in Msun h^2 / Mpc^3.
const rhoCritical = 2.7744948e11

// tinker08Row holds the published Tinker et al. (2008) coefficients for one
// tabulated matter overdensity.
type tinker08Row struct {
	alpha, beta, gamma, phi float64
}

var tinker08Table = map[float64]tinker08Row{
	200:  {0.186, 1.47, 2.57, 1.19},
	300:  {0.200, 1.52, 2.25, 1.27},
	400:  {0.212, 1.56, 2.05, 1.34},
	600:  {0.218, 1.61, 1.87, 1.45},
	800:  {0.248, 1.87, 1.59, 1.58},
	1200: {0.255, 2.13, 1.51, 1.80},
	1600: {0.260, 2.30, 1.46, 1.97},
	2400: {0.260, 2.53, 1.44, 2.24},
	3200: {0.260, 2.66, 1.41, 2.44},
}

// MassFuncTinker08 is the halo mass function of Tinker et al. (2008). The
// coefficients are tabulated at matter overdensities 200..3200 and are looked
// up exactly, so the mass definition must carry one of the tabulated
// contrasts over the matter density.
type MassFuncTinker08 struct {
	identity.Base

	Def    *MassDef
	Strict bool

	row tinker08Row
	ld  float64 // log10 of the overdensity contrast
}

func init() {
	identity.MustRegister(&MassFuncTinker08{}, identity.TypeSpec{
		Name:      "MassFuncTinker08",
		ReprAttrs: []string{"Def", "Strict"},
		EqAttrs:   []string{"Def", "Strict"},
		Params:    []string{"mass_def", "mass_def_strict"},
	})
	RegisterMassFunction("Tinker08", func(md *MassDef) (MassFunction, error) {
		return NewMassFuncTinker08(md, true)
	})
}

// NewMassFuncTinker08 constructs the parametrization for md. The strict flag
// is recorded for parity with the other ingredients; an untabulated contrast
// cannot be evaluated at all, so it is rejected regardless.
func NewMassFuncTinker08(md *MassDef, strict bool) (*MassFuncTinker08, error) {
	if md.Delta == "fof" {
		return nil, checkMassDef("MassFuncTinker08", md, true, false, strict)
	}
	delta, ok := md.DeltaValue()
	if !ok || md.Density != MatterDensity {
		return nil, fmt.Errorf("%w: MassFuncTinker08 needs a numeric matter overdensity, got %s",
			ErrIncompatibleMassDef, md.Name())
	}
	row, ok := tinker08Table[delta]
	if !ok {
		return nil, fmt.Errorf("%w: MassFuncTinker08 is tabulated at Delta 200..3200, got %s",
			ErrIncompatibleMassDef, md.Name())
	}
	mf := &MassFuncTinker08{}
	err := identity.Construct(mf, func() error {
		mf.Def = md
		mf.Strict = strict
		mf.row = row
		mf.ld = math.Log10(delta)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mf, nil
}

func (mf *MassFuncTinker08) Definition() *MassDef { return mf.Def }

// fsigma evaluates the multiplicity function f(sigma) with the published
// scale-factor evolution of the coefficients.
func (mf *MassFuncTinker08) fsigma(sig, a float64) float64 {
	pA := mf.row.alpha * math.Pow(a, 0.14)
	pa := mf.row.beta * math.Pow(a, 0.06)
	pd := math.Pow(10, -math.Pow(0.75/(mf.ld-1.8750612633), 1.2))
	pb := mf.row.gamma * math.Pow(a, pd)
	return pA * (math.Pow(pb/sig, pa) + 1) * math.Exp(-mf.row.phi/(sig*sig))
}

// MassFunction returns dn/dlog10M in comoving Mpc^-3 at mass m (Msun) and
// scale factor a.
func (mf *MassFuncTinker08) MassFunction(in Inputs, m, a float64) (float64, error) {
	sigma, err := in.sigma()
	if err != nil {
		return 0, err
	}
	sig, err := sigma.SigmaM(m, a)
	if err != nil {
		return 0, err
	}
	dlns, err := sigma.DlnSigmaDlog10M(m, a)
	if err != nil {
		return 0, err
	}
	rho := rhoCritical * in.Cosmo.OmegaM() * in.Cosmo.H * in.Cosmo.H
	return mf.fsigma(sig, a) * rho * dlns / m, nil
}
