package halos

import (
	"fmt"
	"math"

	"cosmocore/pkg/identity"
)

// ProfilePressureGNFW is the generalized NFW pressure profile of Arnaud et
// al. (2010). Unlike the other ingredients it is deliberately re-tunable: its
// parameters are refit against cluster samples, so it registers a mutation
// entry point and UpdateParameters routes through the managed update
// protocol, invalidating the cached representation and hash.
type ProfilePressureGNFW struct {
	identity.Base

	MassBias float64
	P0       float64
	C500     float64
	Alpha    float64
	AlphaP   float64
	Beta     float64
	Gamma    float64
}

var gnfwParams = []string{"mass_bias", "p0", "c500", "alpha", "alpha_p", "beta", "gamma"}

var gnfwFields = map[string]string{
	"mass_bias": "MassBias",
	"p0":        "P0",
	"c500":      "C500",
	"alpha":     "Alpha",
	"alpha_p":   "AlphaP",
	"beta":      "Beta",
	"gamma":     "Gamma",
}

func init() {
	defaults := make(map[string]any, len(gnfwParams))
	for _, name := range gnfwParams {
		defaults[name] = nil
	}
	identity.MustRegister(&ProfilePressureGNFW{}, identity.TypeSpec{
		Name:           "ProfilePressureGNFW",
		ReprAttrs:      []string{"MassBias", "P0", "C500", "Alpha", "AlphaP", "Beta", "Gamma"},
		Params:         gnfwParams,
		Update:         updateGNFW,
		UpdateParams:   append([]string{"profile"}, gnfwParams...),
		UpdateTarget:   "profile",
		UpdateDefaults: defaults,
	})
}

// updateGNFW applies the supplied parameters, leaving omitted ones in place.
func updateGNFW(args map[string]any) error {
	p, ok := args["profile"].(*ProfilePressureGNFW)
	if !ok {
		return fmt.Errorf("%w: profile argument has type %T", identity.ErrInvocation, args["profile"])
	}
	for name, field := range gnfwFields {
		raw := args[name]
		if raw == nil {
			continue
		}
		v, ok := raw.(float64)
		if !ok {
			return fmt.Errorf("%w: parameter %q has type %T, want float64", identity.ErrInvocation, name, raw)
		}
		if err := identity.SetAttr(p, field, v); err != nil {
			return err
		}
	}
	return nil
}

// NewProfilePressureGNFW constructs the profile with the published Planck
// best-fit parameters.
func NewProfilePressureGNFW() (*ProfilePressureGNFW, error) {
	p := &ProfilePressureGNFW{}
	err := identity.Construct(p, func() error {
		p.MassBias = 0.8
		p.P0 = 6.41
		p.C500 = 1.81
		p.Alpha = 1.33
		p.AlphaP = 0.12
		p.Beta = 4.13
		p.Gamma = 0.31
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateParameters changes the named parameters through the managed mutation
// path. Unknown names fail at binding with identity.ErrInvocation before
// anything is applied; a bad value type fails mid-update and already-applied
// parameters are not rolled back.
func (p *ProfilePressureGNFW) UpdateParameters(params map[string]any) error {
	return identity.Update(p, params)
}

// FormFactor is the dimensionless shape p(x) with x = r/r500:
// (c500 x)^-gamma (1 + (c500 x)^alpha)^-((beta-gamma)/alpha).
func (p *ProfilePressureGNFW) FormFactor(x float64) float64 {
	cx := p.C500 * x
	return math.Pow(cx, -p.Gamma) * math.Pow(1+math.Pow(cx, p.Alpha), -(p.Beta-p.Gamma)/p.Alpha)
}

func (p *ProfilePressureGNFW) String() string { return identity.Repr(p) }
