// Package emulator manages trained emulator models: the parameter bounds they
// were trained within, and a process-wide cache of loaded models keyed by
// name and configuration.
package emulator

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrMalformedBounds marks a bounds table rejected at construction.
	ErrMalformedBounds = errors.New("emulator: malformed bounds")
	// ErrOutOfBounds marks a proposal outside the trained region.
	ErrOutOfBounds = errors.New("emulator: parameter out of bounds")
	// ErrUnknownModel marks a name that no loader recognizes.
	ErrUnknownModel = errors.New("emulator: unknown model")
)

// Range is a closed training interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bounds records, per parameter, the interval an emulator was trained within.
// A Bounds value is immutable after construction.
type Bounds struct {
	ranges map[string]Range
}

// NewBounds validates the table: every interval must satisfy Min <= Max.
func NewBounds(ranges map[string]Range) (*Bounds, error) {
	out := make(map[string]Range, len(ranges))
	for par, r := range ranges {
		if r.Min > r.Max {
			return nil, fmt.Errorf("%w: parameter %q has [%v, %v], want [min, max]",
				ErrMalformedBounds, par, r.Min, r.Max)
		}
		out[par] = r
	}
	return &Bounds{ranges: out}, nil
}

// Range reports the trained interval of a parameter.
func (b *Bounds) Range(par string) (Range, bool) {
	r, ok := b.ranges[par]
	return r, ok
}

// Parameters lists the bounded parameter names in sorted order.
func (b *Bounds) Parameters() []string {
	out := make([]string, 0, len(b.ranges))
	for par := range b.ranges {
		out = append(out, par)
	}
	sort.Strings(out)
	return out
}

// Check validates a proposal against the bounds. Parameters without a
// recorded interval are skipped and returned for the caller to report; the
// first out-of-range value fails with ErrOutOfBounds.
func (b *Bounds) Check(proposal map[string]float64) (unknown []string, err error) {
	pars := make([]string, 0, len(proposal))
	for par := range proposal {
		pars = append(pars, par)
	}
	sort.Strings(pars)
	for _, par := range pars {
		r, ok := b.ranges[par]
		if !ok {
			unknown = append(unknown, par)
			continue
		}
		val := proposal[par]
		if val < r.Min || val > r.Max {
			return unknown, fmt.Errorf("%w: %s = %v outside [%v, %v]",
				ErrOutOfBounds, par, val, r.Min, r.Max)
		}
	}
	return unknown, nil
}
