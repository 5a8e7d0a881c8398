package halos

import (
	"errors"
	"math"
	"strings"
	"testing"

	"cosmocore/pkg/identity"
)

func TestDuffy08AtPivotMass(t *testing.T) {
	rel, err := NewConcentrationDuffy08(MustParseMassDef("200c"))
	if err != nil {
		t.Fatalf("NewConcentrationDuffy08: %v", err)
	}
	in := testInputs(stubPhysics{})
	// At the pivot mass 2e12 Msun/h and a=1 the relation collapses to A.
	pivot := 2e12 / in.Cosmo.H
	c, err := rel.Concentration(in, pivot, 1)
	if err != nil {
		t.Fatalf("Concentration: %v", err)
	}
	if math.Abs(c-5.71) > 1e-10 {
		t.Fatalf("c(pivot, a=1) = %v, want 5.71", c)
	}

	// B < 0: more massive halos are less concentrated.
	chigh, _ := rel.Concentration(in, 100*pivot, 1)
	if chigh >= c {
		t.Fatalf("concentration did not decrease with mass: %v >= %v", chigh, c)
	}
}

func TestDuffy08MassDefsAlwaysStrict(t *testing.T) {
	_, err := NewConcentrationDuffy08(MustParseMassDef("500c"))
	if !errors.Is(err, ErrIncompatibleMassDef) {
		t.Fatalf("500c accepted: %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "cannot be relaxed") {
		t.Fatalf("relation did not declare itself always strict: %v", err)
	}
}

func TestBhattacharya13AtUnitPeakHeight(t *testing.T) {
	rel, err := NewConcentrationBhattacharya13(MustParseMassDef("vir"))
	if err != nil {
		t.Fatalf("NewConcentrationBhattacharya13: %v", err)
	}
	// sigma = deltaCollapse makes nu = 1; growth factor 1 leaves only A.
	in := testInputs(stubPhysics{sig: deltaCollapse, gf: 1})
	c, err := rel.Concentration(in, 1e14, 1)
	if err != nil {
		t.Fatalf("Concentration: %v", err)
	}
	if math.Abs(c-7.7) > 1e-10 {
		t.Fatalf("c(nu=1, D=1) = %v, want 7.7", c)
	}
}

func TestIshiyama21Calibrations(t *testing.T) {
	if _, err := NewConcentrationIshiyama21(MustParseMassDef("200m"), false, false); !errors.Is(err, ErrIncompatibleMassDef) {
		t.Fatalf("200m accepted: %v", err)
	}
	if _, err := NewConcentrationIshiyama21(MustParseMassDef("500c"), false, true); !errors.Is(err, ErrIncompatibleMassDef) {
		t.Fatalf("500c with Vmax accepted: %v", err)
	}
	if _, err := NewConcentrationIshiyama21(MustParseMassDef("500c"), true, false); err != nil {
		t.Fatalf("500c relaxed rejected: %v", err)
	}
}

func TestIshiyama21ProfileInversion(t *testing.T) {
	rel, err := NewConcentrationIshiyama21(MustParseMassDef("500c"), false, false)
	if err != nil {
		t.Fatalf("NewConcentrationIshiyama21: %v", err)
	}
	// G is not monotonic at small x, so the inversion contract is on the
	// function value, not on recovering a particular root.
	for _, neff := range []float64{-2.5, -2.0, -1.5} {
		for _, x := range []float64{0.1, 1, 5, 50} {
			target := rel.gFunc(x, neff)
			got, err := rel.invertG(target, neff)
			if err != nil {
				t.Fatalf("invertG(%v, %v): %v", target, neff, err)
			}
			if back := rel.gFunc(got, neff); math.Abs(back-target) > 1e-6*target {
				t.Fatalf("invertG(%v, %v) = %v, maps back to %v", target, neff, got, back)
			}
		}
	}
}

func TestIshiyama21Concentration(t *testing.T) {
	rel, err := NewConcentrationIshiyama21(MustParseMassDef("500c"), false, false)
	if err != nil {
		t.Fatalf("NewConcentrationIshiyama21: %v", err)
	}
	in := testInputs(stubPhysics{sig: 1.2, dlns: 0.6, gf: 1, gr: 0.5})
	c, err := rel.Concentration(in, 1e14, 1)
	if err != nil {
		t.Fatalf("Concentration: %v", err)
	}
	if c <= 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		t.Fatalf("concentration not finite positive: %v", c)
	}
}

func TestIshiyama21Representation(t *testing.T) {
	rel, err := NewConcentrationIshiyama21(MustParseMassDef("vir"), true, false)
	if err != nil {
		t.Fatalf("NewConcentrationIshiyama21: %v", err)
	}
	repr := identity.Repr(rel)
	if !strings.HasPrefix(repr, "ConcentrationIshiyama21\n") {
		t.Fatalf("header: %q", repr)
	}
	for _, want := range []string{"Relaxed = true", "Vmax = false", "Delta = vir"} {
		if !strings.Contains(repr, want) {
			t.Fatalf("representation missing %q:\n%s", want, repr)
		}
	}
	other, _ := NewConcentrationIshiyama21(MustParseMassDef("vir"), false, false)
	if identity.Equal(rel, other) {
		t.Fatalf("relaxed and unrelaxed fits compare equal")
	}
}
