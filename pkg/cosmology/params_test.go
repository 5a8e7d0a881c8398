package cosmology

import (
	"errors"
	"strings"
	"testing"

	"cosmocore/pkg/identity"
)

func TestNewValidates(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
	}{
		{"negative omega_c", Spec{OmegaC: -0.1, OmegaB: 0.05, H: 0.67, NS: 0.96, Sigma8: 0.81}},
		{"negative omega_b", Spec{OmegaC: 0.25, OmegaB: -0.05, H: 0.67, NS: 0.96, Sigma8: 0.81}},
		{"zero h", Spec{OmegaC: 0.25, OmegaB: 0.05, NS: 0.96, Sigma8: 0.81}},
		{"zero sigma8", Spec{OmegaC: 0.25, OmegaB: 0.05, H: 0.67, NS: 0.96}},
		{"zero n_s", Spec{OmegaC: 0.25, OmegaB: 0.05, H: 0.67, Sigma8: 0.81}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.spec); !errors.Is(err, ErrInvalidParameters) {
				t.Fatalf("New accepted %s: %v", tc.name, err)
			}
		})
	}
}

func TestVanillaLCDM(t *testing.T) {
	p := VanillaLCDM()
	if p.OmegaM() != 0.30 {
		t.Fatalf("OmegaM = %v, want 0.30", p.OmegaM())
	}
	if p.W0 != -1 || p.WA != 0 {
		t.Fatalf("dark energy parameters %v, %v", p.W0, p.WA)
	}
}

func TestParametersAreLocked(t *testing.T) {
	p := VanillaLCDM()
	if !p.IdentityState().Locked() {
		t.Fatalf("constructed parameters are unlocked")
	}
	if err := identity.SetAttr(p, "H", 0.7); !errors.Is(err, identity.ErrLockedMutation) {
		t.Fatalf("direct write after construction: %v", err)
	}
}

func TestParametersHaveNoMutator(t *testing.T) {
	p := VanillaLCDM()
	err := identity.Update(p, map[string]any{"h": 0.7})
	if !errors.Is(err, identity.ErrUnsupportedOperation) {
		t.Fatalf("update on immutable parameters: %v", err)
	}
}

func TestParametersIdentity(t *testing.T) {
	a := VanillaLCDM()
	b := VanillaLCDM()
	if !identity.Equal(a, b) {
		t.Fatalf("equal parameter sets compare unequal")
	}
	if identity.HashOf(a) != identity.HashOf(b) {
		t.Fatalf("equal parameter sets hash unequal")
	}
	c, err := New(Spec{OmegaC: 0.26, OmegaB: 0.05, H: 0.67, NS: 0.96, Sigma8: 0.81, W0: -1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if identity.Equal(a, c) {
		t.Fatalf("distinct parameter sets compare equal")
	}
}

func TestParametersRepresentation(t *testing.T) {
	s := VanillaLCDM().String()
	if !strings.HasPrefix(s, "Parameters\n") {
		t.Fatalf("representation header: %q", s)
	}
	for _, want := range []string{"OmegaC = 0.25", "H = 0.67", "W0 = -1"} {
		if !strings.Contains(s, want) {
			t.Fatalf("representation missing %q:\n%s", want, s)
		}
	}
}
