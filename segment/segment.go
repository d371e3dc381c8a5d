package segment

import (
	"fmt"
	"math"

	"github.com/combocurve/typecurve/errs"
)

const bEpsilon = 1e-10

// Segment is one piece of a piecewise forecast.
//
// The segment is defined on the integer day offsets [StartIndex, EndIndex] and governs
// the continuous interval [StartIndex, EndIndex+1) when integrated. All rate functions
// are evaluated on dt = t - StartIndex, which makes Shift a pure index translation.
type Segment struct {
	Family     Family  `json:"family" yaml:"family"`
	StartIndex int     `json:"start" yaml:"start"`
	EndIndex   int     `json:"end" yaml:"end"`
	Q0         float64 `json:"q0" yaml:"q0"`
	// D is the nominal decline per day, or the slope per day for FamilyLinear.
	D float64 `json:"d" yaml:"d"`
	// B is the Arps exponent of FamilyHyperbolic.
	B float64 `json:"b" yaml:"b"`
}

// NewSegment builds a segment by family name.
//
// Parameters by family:
//   - "empty": none
//   - "flat": q0
//   - "exponential", "harmonic": q0, D
//   - "linear": q0, slope
//   - "hyperbolic": q0, D, b
//
// Example:
//
//	seg, err := segment.NewSegment("hyperbolic", 0, 364, 1200, 0.004, 0.9)
func NewSegment(family string, start, end int, params ...float64) (Segment, error) {
	f, err := FamilyFromString(family)
	if err != nil {
		return Segment{}, err
	}
	if len(params) != f.paramCount() {
		return Segment{}, fmt.Errorf("%w: %s expects %d parameters, got %d",
			errs.ErrInvalidSegment, f, f.paramCount(), len(params))
	}

	seg := Segment{Family: f, StartIndex: start, EndIndex: end}
	if len(params) > 0 {
		seg.Q0 = params[0]
	}
	if len(params) > 1 {
		seg.D = params[1]
	}
	if len(params) > 2 {
		seg.B = params[2]
	}

	if err := seg.Validate(); err != nil {
		return Segment{}, err
	}

	return seg, nil
}

// Validate checks the span and the parameters.
func (s Segment) Validate() error {
	if s.StartIndex > s.EndIndex {
		return fmt.Errorf("%w: start %d after end %d", errs.ErrInvalidSegment, s.StartIndex, s.EndIndex)
	}
	if _, ok := familyNames[s.Family]; !ok {
		return fmt.Errorf("%w: family %d", errs.ErrUnknownFamily, int(s.Family))
	}
	for _, v := range []float64{s.Q0, s.D, s.B} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite parameter", errs.ErrInvalidSegment)
		}
	}
	if s.Family == FamilyHyperbolic && s.B < 0 {
		return fmt.Errorf("%w: negative hyperbolic exponent %g", errs.ErrInvalidSegment, s.B)
	}

	return nil
}

// Contains reports whether day offset t lies inside [StartIndex, EndIndex].
func (s Segment) Contains(t int) bool {
	return t >= s.StartIndex && t <= s.EndIndex
}

// Rate evaluates the rate at time t.
func (s Segment) Rate(t float64) float64 {
	dt := t - float64(s.StartIndex)

	switch s.Family {
	case FamilyFlat:
		return s.Q0
	case FamilyExponential:
		return s.Q0 * math.Exp(-s.D*dt)
	case FamilyHyperbolic:
		switch {
		case s.B < bEpsilon:
			return s.Q0 * math.Exp(-s.D*dt)
		case math.Abs(s.B-1) < bEpsilon:
			return s.Q0 / (1 + s.D*dt)
		}
		return s.Q0 * math.Pow(1+s.B*s.D*dt, -1/s.B)
	case FamilyHarmonic:
		return s.Q0 / (1 + s.D*dt)
	case FamilyLinear:
		return s.Q0 + s.D*dt
	default:
		return 0
	}
}

// StartRate is the rate at StartIndex.
func (s Segment) StartRate() float64 {
	return s.Rate(float64(s.StartIndex))
}

// EndRate is the rate at EndIndex.
func (s Segment) EndRate() float64 {
	return s.Rate(float64(s.EndIndex))
}

// Volume returns the closed-form integral of the rate over [t0, t1].
// Both bounds are absolute times; the caller clips them to the segment span.
func (s Segment) Volume(t0, t1 float64) float64 {
	if t1 <= t0 {
		return 0
	}
	a := t0 - float64(s.StartIndex)
	b := t1 - float64(s.StartIndex)

	switch s.Family {
	case FamilyFlat:
		return s.Q0 * (b - a)
	case FamilyExponential:
		return exponentialVolume(s.Q0, s.D, a, b)
	case FamilyHyperbolic:
		switch {
		case s.B < bEpsilon:
			return exponentialVolume(s.Q0, s.D, a, b)
		case math.Abs(s.B-1) < bEpsilon:
			return harmonicVolume(s.Q0, s.D, a, b)
		}
		if s.D == 0 {
			return s.Q0 * (b - a)
		}
		// ∫ q0 (1+bDt)^(-1/b) dt = q0/((b-1)D) * (1+bDt)^((b-1)/b)
		e := (s.B - 1) / s.B
		ua := 1 + s.B*s.D*a
		ub := 1 + s.B*s.D*b

		return s.Q0 / ((s.B - 1) * s.D) * (math.Pow(ub, e) - math.Pow(ua, e))
	case FamilyHarmonic:
		return harmonicVolume(s.Q0, s.D, a, b)
	case FamilyLinear:
		return s.Q0*(b-a) + s.D/2*(b*b-a*a)
	default:
		return 0
	}
}

// Shift returns a copy translated by d days.
func (s Segment) Shift(d int) Segment {
	s.StartIndex += d
	s.EndIndex += d

	return s
}

func exponentialVolume(q0, d, a, b float64) float64 {
	if d == 0 {
		return q0 * (b - a)
	}

	return q0 / d * (math.Exp(-d*a) - math.Exp(-d*b))
}

func harmonicVolume(q0, d, a, b float64) float64 {
	if d == 0 {
		return q0 * (b - a)
	}

	return q0 / d * math.Log((1+d*b)/(1+d*a))
}
