package segment

import (
	"fmt"
	"slices"
	"strings"

	"github.com/combocurve/typecurve/errs"
)

// Family identifies the analytic rate function of a segment.
type Family int

const (
	// FamilyEmpty produces zero rate over its span.
	FamilyEmpty Family = iota
	// FamilyFlat is a constant rate: q(t) = q0
	FamilyFlat
	// FamilyExponential is q(t) = q0 * e^(-D*dt)
	FamilyExponential
	// FamilyHyperbolic is the Arps decline q(t) = q0 * (1 + b*D*dt)^(-1/b)
	FamilyHyperbolic
	// FamilyHarmonic is the b=1 Arps decline q(t) = q0 / (1 + D*dt)
	FamilyHarmonic
	// FamilyLinear is q(t) = q0 + k*dt, with k stored in D
	FamilyLinear
)

var familyNames = map[Family]string{
	FamilyEmpty:       "empty",
	FamilyFlat:        "flat",
	FamilyExponential: "exponential",
	FamilyHyperbolic:  "hyperbolic",
	FamilyHarmonic:    "harmonic",
	FamilyLinear:      "linear",
}

var familyFromName = map[string]Family{
	"empty":       FamilyEmpty,
	"flat":        FamilyFlat,
	"exponential": FamilyExponential,
	"exp_dec":     FamilyExponential,
	"hyperbolic":  FamilyHyperbolic,
	"arps":        FamilyHyperbolic,
	"harmonic":    FamilyHarmonic,
	"linear":      FamilyLinear,
}

// String returns the canonical family name.
func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}

	return "unknown"
}

// FamilyFromString resolves a case-insensitive family name.
func FamilyFromString(name string) (Family, error) {
	if f, ok := familyFromName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}

	supported := make([]string, 0, len(familyNames))
	for _, n := range familyNames {
		supported = append(supported, n)
	}
	slices.Sort(supported)

	return FamilyEmpty, fmt.Errorf("%w: %q (supported: %s)", errs.ErrUnknownFamily, name, strings.Join(supported, ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Family) UnmarshalText(text []byte) error {
	parsed, err := FamilyFromString(string(text))
	if err != nil {
		return err
	}
	*f = parsed

	return nil
}

// paramCount is the number of parameters NewSegment expects per family.
func (f Family) paramCount() int {
	switch f {
	case FamilyEmpty:
		return 0
	case FamilyFlat:
		return 1
	case FamilyHyperbolic:
		return 3
	default:
		return 2
	}
}
