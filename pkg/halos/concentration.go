package halos

import (
	"fmt"
	"math"

	"cosmocore/pkg/identity"
)

// deltaCollapse is the spherical collapse threshold used in peak heights.
const deltaCollapse = 1.686

// ConcentrationDuffy08 is the concentration-mass relation of Duffy et al.
// (2008), c(M, a) = A (M / M_pivot)^B a^-C with M_pivot = 2e12 Msun/h. Fitted
// for vir, 200m and 200c masses.
type ConcentrationDuffy08 struct {
	identity.Base

	Def *MassDef
	A   float64
	B   float64
	C   float64
}

// ConcentrationBhattacharya13 is the concentration-mass relation of
// Bhattacharya et al. (2013), c(M, a) = A D(a)^B nu^C. Fitted for vir, 200m
// and 200c masses. Needs sigma(M) and the growth factor.
type ConcentrationBhattacharya13 struct {
	identity.Base

	Def *MassDef
	A   float64
	B   float64
	C   float64
}

// ConcentrationIshiyama21 is the concentration-mass relation of Ishiyama et
// al. (2021), defined through the inverse of the NFW mass profile function.
// Fitted for vir, 200c and 500c masses; the Vmax calibration does not exist
// for 500c. Needs sigma(M), its logarithmic slope, and the growth rate.
type ConcentrationIshiyama21 struct {
	identity.Base

	Def     *MassDef
	Relaxed bool
	Vmax    bool

	kappa  float64
	a0, a1 float64
	b0, b1 float64
	cAlpha float64
}

func init() {
	identity.MustRegister(&ConcentrationDuffy08{}, identity.TypeSpec{
		Name:      "ConcentrationDuffy08",
		ReprAttrs: []string{"Def"},
		EqAttrs:   []string{"Def"},
		Params:    []string{"mass_def"},
	})
	identity.MustRegister(&ConcentrationBhattacharya13{}, identity.TypeSpec{
		Name:      "ConcentrationBhattacharya13",
		ReprAttrs: []string{"Def"},
		EqAttrs:   []string{"Def"},
		Params:    []string{"mass_def"},
	})
	identity.MustRegister(&ConcentrationIshiyama21{}, identity.TypeSpec{
		Name:      "ConcentrationIshiyama21",
		ReprAttrs: []string{"Def", "Relaxed", "Vmax"},
		EqAttrs:   []string{"Def", "Relaxed", "Vmax"},
		Params:    []string{"mass_def", "relaxed", "vmax"},
	})

	RegisterConcentration("Duffy08", func(md *MassDef) (Concentration, error) {
		return NewConcentrationDuffy08(md)
	})
	RegisterConcentration("Bhattacharya13", func(md *MassDef) (Concentration, error) {
		return NewConcentrationBhattacharya13(md)
	})
	RegisterConcentration("Ishiyama21", func(md *MassDef) (Concentration, error) {
		return NewConcentrationIshiyama21(md, false, false)
	})
}

// NewConcentrationDuffy08 constructs the relation for md, which must be one
// of vir, 200m or 200c.
func NewConcentrationDuffy08(md *MassDef) (*ConcentrationDuffy08, error) {
	var a, b, c float64
	switch md.Name() {
	case "vir":
		a, b, c = 7.85, -0.081, -0.71
	case "200m":
		a, b, c = 10.14, -0.081, -1.01
	case "200c":
		a, b, c = 5.71, -0.084, -0.47
	default:
		return nil, checkMassDef("ConcentrationDuffy08", md, true, true, true)
	}
	rel := &ConcentrationDuffy08{}
	err := identity.Construct(rel, func() error {
		rel.Def = md
		rel.A, rel.B, rel.C = a, b, c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (rel *ConcentrationDuffy08) Definition() *MassDef { return rel.Def }

func (rel *ConcentrationDuffy08) Concentration(in Inputs, m, a float64) (float64, error) {
	pivotInv := in.Cosmo.H * 5e-13
	return rel.A * math.Pow(m*pivotInv, rel.B) * math.Pow(a, -rel.C), nil
}

// NewConcentrationBhattacharya13 constructs the relation for md, which must
// be one of vir, 200m or 200c.
func NewConcentrationBhattacharya13(md *MassDef) (*ConcentrationBhattacharya13, error) {
	var a, b, c float64
	switch md.Name() {
	case "vir":
		a, b, c = 7.7, 0.9, -0.29
	case "200m":
		a, b, c = 9.0, 1.15, -0.29
	case "200c":
		a, b, c = 5.9, 0.54, -0.35
	default:
		return nil, checkMassDef("ConcentrationBhattacharya13", md, true, true, true)
	}
	rel := &ConcentrationBhattacharya13{}
	err := identity.Construct(rel, func() error {
		rel.Def = md
		rel.A, rel.B, rel.C = a, b, c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (rel *ConcentrationBhattacharya13) Definition() *MassDef { return rel.Def }

func (rel *ConcentrationBhattacharya13) Concentration(in Inputs, m, a float64) (float64, error) {
	sigma, err := in.sigma()
	if err != nil {
		return 0, err
	}
	growth, err := in.growth()
	if err != nil {
		return 0, err
	}
	sig, err := sigma.SigmaM(m, a)
	if err != nil {
		return 0, err
	}
	gz, err := growth.GrowthFactor(a)
	if err != nil {
		return 0, err
	}
	nu := deltaCollapse / sig
	return rel.A * math.Pow(gz, rel.B) * math.Pow(nu, rel.C), nil
}

// NewConcentrationIshiyama21 constructs the relation for md, which must be
// one of vir, 200c or 500c; the Vmax calibration exists for vir and 200c
// only. Relaxed selects the relaxed-halo fit.
func NewConcentrationIshiyama21(md *MassDef, relaxed, vmax bool) (*ConcentrationIshiyama21, error) {
	type key struct {
		vmax, relaxed bool
		delta         string
	}
	vals := map[key][6]float64{
		{true, true, "200"}:   {1.79, 2.15, 2.06, 0.88, 9.24, 0.51},
		{true, false, "200"}:  {1.10, 2.30, 1.64, 1.72, 3.60, 0.32},
		{false, true, "200"}:  {0.60, 2.14, 2.63, 1.69, 6.36, 0.37},
		{false, false, "200"}: {1.19, 2.54, 1.33, 4.04, 1.21, 0.22},
		{true, true, "vir"}:   {2.40, 2.27, 1.80, 0.56, 13.24, 0.079},
		{true, false, "vir"}:  {0.76, 2.34, 1.82, 1.83, 3.52, -0.18},
		{false, true, "vir"}:  {1.22, 2.52, 1.87, 2.13, 4.19, -0.017},
		{false, false, "vir"}: {1.64, 2.67, 1.23, 3.92, 1.30, -0.19},
		{false, true, "500"}:  {0.38, 1.44, 3.41, 2.86, 2.99, 0.42},
		{false, false, "500"}: {1.83, 1.95, 1.17, 3.57, 0.91, 0.26},
	}
	incompatible := true
	switch md.Name() {
	case "vir", "200c", "500c":
		incompatible = md.Delta == "500" && vmax
	}
	if incompatible {
		return nil, checkMassDef("ConcentrationIshiyama21", md, true, true, true)
	}
	v := vals[key{vmax, relaxed, md.Delta}]
	rel := &ConcentrationIshiyama21{}
	err := identity.Construct(rel, func() error {
		rel.Def = md
		rel.Relaxed = relaxed
		rel.Vmax = vmax
		rel.kappa, rel.a0, rel.a1 = v[0], v[1], v[2]
		rel.b0, rel.b1, rel.cAlpha = v[3], v[4], v[5]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

func (rel *ConcentrationIshiyama21) Definition() *MassDef { return rel.Def }

// nfwMass is the NFW profile mass function f(x) = ln(1+x) - x/(1+x).
func nfwMass(x float64) float64 { return math.Log1p(x) - x/(1+x) }

func (rel *ConcentrationIshiyama21) gFunc(x, neff float64) float64 {
	return x / math.Pow(nfwMass(x), (5+neff)/6)
}

// invertG solves gFunc(x, neff) = target for x. The bracket [0.05, 200]
// covers the calibrated range; outside it the solution falls back to a secant
// iteration started at the typical concentration scale.
func (rel *ConcentrationIshiyama21) invertG(target, neff float64) (float64, error) {
	f := func(x float64) float64 { return rel.gFunc(x, neff) - target }
	lo, hi := 0.05, 200.0
	flo, fhi := f(lo), f(hi)
	if flo*fhi <= 0 {
		for range 80 {
			mid := 0.5 * (lo + hi)
			fm := f(mid)
			if fm == 0 {
				return mid, nil
			}
			if flo*fm < 0 {
				hi, fhi = mid, fm
			} else {
				lo, flo = mid, fm
			}
		}
		return 0.5 * (lo + hi), nil
	}
	x0, x1 := 1.0, 2.0
	f0, f1 := f(x0), f(x1)
	for range 64 {
		if f1 == f0 {
			break
		}
		x2 := x1 - f1*(x1-x0)/(f1-f0)
		if x2 <= 0 || math.IsNaN(x2) || math.IsInf(x2, 0) {
			break
		}
		if math.Abs(x2-x1) < 1e-10*math.Abs(x2) {
			return x2, nil
		}
		x0, f0, x1, f1 = x1, f1, x2, f(x2)
	}
	return 0, fmt.Errorf("halos: ConcentrationIshiyama21 profile inversion did not converge for target %v", target)
}

func (rel *ConcentrationIshiyama21) Concentration(in Inputs, m, a float64) (float64, error) {
	sigma, err := in.sigma()
	if err != nil {
		return 0, err
	}
	growth, err := in.growth()
	if err != nil {
		return 0, err
	}
	sig, err := sigma.SigmaM(m, a)
	if err != nil {
		return 0, err
	}
	// kappa rescales the Lagrangian radius, so it cubes into the mass.
	dlns, err := sigma.DlnSigmaDlog10M(rel.kappa*rel.kappa*rel.kappa*m, a)
	if err != nil {
		return 0, err
	}
	alphaEff, err := growth.GrowthRate(a)
	if err != nil {
		return 0, err
	}

	nu := deltaCollapse / sig
	dls := -3 / math.Ln10 * dlns
	neff := -2*dls - 3

	bigA := rel.a0 * (1 + rel.a1*(neff+3))
	bigB := rel.b0 * (1 + rel.b1*(neff+3))
	bigC := 1 - rel.cAlpha*(1-alphaEff)
	arg := bigA / nu * (1 + nu*nu/bigB)
	g, err := rel.invertG(arg, neff)
	if err != nil {
		return 0, err
	}
	return bigC * g, nil
}
