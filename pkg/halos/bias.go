package halos

import (
	"fmt"
	"math"

	"cosmocore/pkg/identity"
)

// HaloBiasTinker10 is the linear halo bias of Tinker et al. (2010), a closed
// form in y = log10(Delta) fitted for matter overdensities between 200 and
// 3200. Contrasts outside the fitted range evaluate but are rejected under
// the strict setting.
type HaloBiasTinker10 struct {
	identity.Base

	Def    *MassDef
	Strict bool

	y float64
}

func init() {
	identity.MustRegister(&HaloBiasTinker10{}, identity.TypeSpec{
		Name:      "HaloBiasTinker10",
		ReprAttrs: []string{"Def", "Strict"},
		EqAttrs:   []string{"Def", "Strict"},
		Params:    []string{"mass_def", "mass_def_strict"},
	})
	RegisterHaloBias("Tinker10", func(md *MassDef) (HaloBias, error) {
		return NewHaloBiasTinker10(md, true)
	})
}

// NewHaloBiasTinker10 constructs the parametrization for md, a numeric matter
// overdensity. Contrasts outside [200, 3200] need strict set to false.
func NewHaloBiasTinker10(md *MassDef, strict bool) (*HaloBiasTinker10, error) {
	delta, ok := md.DeltaValue()
	if !ok || md.Density != MatterDensity {
		return nil, fmt.Errorf("%w: HaloBiasTinker10 needs a numeric matter overdensity, got %s",
			ErrIncompatibleMassDef, md.Name())
	}
	if err := checkMassDef("HaloBiasTinker10", md, delta < 200 || delta > 3200, false, strict); err != nil {
		return nil, err
	}
	hb := &HaloBiasTinker10{}
	err := identity.Construct(hb, func() error {
		hb.Def = md
		hb.Strict = strict
		hb.y = math.Log10(delta)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hb, nil
}

func (hb *HaloBiasTinker10) Definition() *MassDef { return hb.Def }

// HaloBias returns b(M, a) at mass m (Msun) and scale factor a.
func (hb *HaloBiasTinker10) HaloBias(in Inputs, m, a float64) (float64, error) {
	sigma, err := in.sigma()
	if err != nil {
		return 0, err
	}
	sig, err := sigma.SigmaM(m, a)
	if err != nil {
		return 0, err
	}
	nu := deltaCollapse / sig

	e := math.Exp(-math.Pow(4/hb.y, 4))
	bigA := 1 + 0.24*hb.y*e
	pa := 0.44*hb.y - 0.88
	const bigB, pb = 0.183, 1.5
	bigC := 0.019 + 0.107*hb.y + 0.19*e
	const pc = 2.4

	nua := math.Pow(nu, pa)
	dca := math.Pow(deltaCollapse, pa)
	return 1 - bigA*nua/(nua+dca) + bigB*math.Pow(nu, pb) + bigC*math.Pow(nu, pc), nil
}
