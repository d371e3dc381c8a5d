// Package phase resolves ratio phases into rate-equivalent series.
//
// A ratio phase (gas/oil ratio, water/oil ratio, ...) is only meaningful against a
// base phase's rate. Resolution shifts the base phase's fitted segments so that their
// first offset lines up with the ratio data, predicts the base rate at every ratio
// offset and multiplies. The shift is recomputed for every percentile series because
// each fit can start at a different offset.
package phase

import (
	"fmt"
	"strings"

	"github.com/combocurve/typecurve/errs"
)

// Type distinguishes rate phases from ratio phases.
type Type int

const (
	Rate Type = iota
	Ratio
)

func (t Type) String() string {
	switch t {
	case Rate:
		return "rate"
	case Ratio:
		return "ratio"
	default:
		return "unknown"
	}
}

// ParseType parses "rate" or "ratio".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "rate":
		return Rate, nil
	case "ratio":
		return Ratio, nil
	default:
		return 0, fmt.Errorf("%w: phase type %q", errs.ErrUnknownPhase, s)
	}
}

// Phase is a produced fluid.
type Phase string

const (
	Oil   Phase = "oil"
	Gas   Phase = "gas"
	Water Phase = "water"
)

// ParsePhase validates a phase name.
func ParsePhase(s string) (Phase, error) {
	p := Phase(strings.ToLower(s))
	switch p {
	case Oil, Gas, Water:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", errs.ErrUnknownPhase, s)
	}
}
