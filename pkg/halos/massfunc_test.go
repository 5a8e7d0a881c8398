package halos

import (
	"errors"
	"math"
	"testing"
)

func TestTinker08RejectsUntabulatedDefinitions(t *testing.T) {
	cases := []string{"fof", "500c", "250m", "vir"}
	for _, name := range cases {
		if _, err := NewMassFuncTinker08(MustParseMassDef(name), true); !errors.Is(err, ErrIncompatibleMassDef) {
			t.Fatalf("NewMassFuncTinker08(%q): %v", name, err)
		}
	}
	for _, name := range []string{"200m", "300m", "3200m"} {
		if _, err := NewMassFuncTinker08(MustParseMassDef(name), true); err != nil {
			t.Fatalf("NewMassFuncTinker08(%q): %v", name, err)
		}
	}
}

func TestTinker08Multiplicity(t *testing.T) {
	mf, err := NewMassFuncTinker08(MustParseMassDef("200m"), true)
	if err != nil {
		t.Fatalf("NewMassFuncTinker08: %v", err)
	}
	// At a=1 the scale-factor evolution drops out and f(sigma=1) follows
	// directly from the Delta=200 row.
	pd := math.Pow(10, -math.Pow(0.75/(math.Log10(200)-1.8750612633), 1.2))
	want := 0.186 * (math.Pow(2.57*math.Pow(1, pd), 1.47) + 1) * math.Exp(-1.19)
	if got := mf.fsigma(1, 1); math.Abs(got-want) > 1e-12 {
		t.Fatalf("fsigma(1, 1) = %v, want %v", got, want)
	}
	// The exponential cutoff dominates at small sigma.
	if mf.fsigma(0.3, 1) >= mf.fsigma(1, 1) {
		t.Fatalf("multiplicity did not fall toward high peak heights")
	}
}

func TestTinker08MassFunction(t *testing.T) {
	mf, err := NewMassFuncTinker08(MustParseMassDef("200m"), true)
	if err != nil {
		t.Fatalf("NewMassFuncTinker08: %v", err)
	}
	in := testInputs(stubPhysics{sig: 0.9, dlns: 0.3})
	const m = 1e14
	got, err := mf.MassFunction(in, m, 1)
	if err != nil {
		t.Fatalf("MassFunction: %v", err)
	}
	rho := rhoCritical * in.Cosmo.OmegaM() * in.Cosmo.H * in.Cosmo.H
	want := mf.fsigma(0.9, 1) * rho * 0.3 / m
	if math.Abs(got-want) > 1e-12*want {
		t.Fatalf("MassFunction = %v, want %v", got, want)
	}
	if got <= 0 {
		t.Fatalf("mass function not positive: %v", got)
	}
}

func TestTinker10StrictRange(t *testing.T) {
	if _, err := NewHaloBiasTinker10(MustParseMassDef("3600m"), true); !errors.Is(err, ErrIncompatibleMassDef) {
		t.Fatalf("3600m accepted under strict: %v", err)
	}
	if _, err := NewHaloBiasTinker10(MustParseMassDef("3600m"), false); err != nil {
		t.Fatalf("3600m rejected with strict disabled: %v", err)
	}
	if _, err := NewHaloBiasTinker10(MustParseMassDef("200c"), false); !errors.Is(err, ErrIncompatibleMassDef) {
		t.Fatalf("critical overdensity accepted: %v", err)
	}
}

func TestTinker10Bias(t *testing.T) {
	hb, err := NewHaloBiasTinker10(MustParseMassDef("200m"), true)
	if err != nil {
		t.Fatalf("NewHaloBiasTinker10: %v", err)
	}
	// nu = 1 at sigma = deltaCollapse.
	b1, err := hb.HaloBias(testInputs(stubPhysics{sig: deltaCollapse}), 1e13, 1)
	if err != nil {
		t.Fatalf("HaloBias: %v", err)
	}
	if math.Abs(b1-0.9655) > 5e-3 {
		t.Fatalf("b(nu=1) = %v, want about 0.9655", b1)
	}
	// Rarer peaks are more biased.
	b2, err := hb.HaloBias(testInputs(stubPhysics{sig: 0.6}), 1e15, 1)
	if err != nil {
		t.Fatalf("HaloBias: %v", err)
	}
	if b2 <= b1 {
		t.Fatalf("bias did not grow with peak height: %v <= %v", b2, b1)
	}
}
