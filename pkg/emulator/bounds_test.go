package emulator

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewBoundsRejectsInvertedRange(t *testing.T) {
	_, err := NewBounds(map[string]Range{"sigma8": {Min: 1.0, Max: 0.6}})
	if !errors.Is(err, ErrMalformedBounds) {
		t.Fatalf("expected ErrMalformedBounds, got %v", err)
	}
}

func TestBoundsRangeAndParameters(t *testing.T) {
	b, err := NewBounds(map[string]Range{
		"sigma8":  {Min: 0.6, Max: 1.0},
		"omega_m": {Min: 0.1, Max: 0.6},
	})
	if err != nil {
		t.Fatalf("NewBounds: %v", err)
	}
	r, ok := b.Range("sigma8")
	if !ok || r.Min != 0.6 || r.Max != 1.0 {
		t.Fatalf("range: %v %v", r, ok)
	}
	if _, ok := b.Range("ns"); ok {
		t.Fatalf("expected no range for ns")
	}
	if got := b.Parameters(); !reflect.DeepEqual(got, []string{"omega_m", "sigma8"}) {
		t.Fatalf("parameters: %v", got)
	}
}

func TestBoundsCheck(t *testing.T) {
	b, err := NewBounds(map[string]Range{
		"sigma8":  {Min: 0.6, Max: 1.0},
		"omega_m": {Min: 0.1, Max: 0.6},
	})
	if err != nil {
		t.Fatalf("NewBounds: %v", err)
	}

	unknown, err := b.Check(map[string]float64{"sigma8": 0.8, "omega_m": 0.3})
	if err != nil || len(unknown) != 0 {
		t.Fatalf("in-range proposal: %v %v", unknown, err)
	}

	// Endpoints are inside the closed interval.
	if _, err := b.Check(map[string]float64{"sigma8": 0.6}); err != nil {
		t.Fatalf("lower endpoint: %v", err)
	}
	if _, err := b.Check(map[string]float64{"sigma8": 1.0}); err != nil {
		t.Fatalf("upper endpoint: %v", err)
	}

	unknown, err = b.Check(map[string]float64{"sigma8": 0.8, "h": 0.7, "ns": 0.96})
	if err != nil {
		t.Fatalf("unknown parameters must not fail: %v", err)
	}
	if !reflect.DeepEqual(unknown, []string{"h", "ns"}) {
		t.Fatalf("unknown: %v", unknown)
	}

	if _, err := b.Check(map[string]float64{"sigma8": 1.2}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}
