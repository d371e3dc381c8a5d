package segment

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/combocurve/typecurve/errs"
)

func numericVolume(s Segment, t0, t1 float64) float64 {
	const steps = 20000
	h := (t1 - t0) / steps
	sum := 0.5 * (s.Rate(t0) + s.Rate(t1))
	for i := 1; i < steps; i++ {
		sum += s.Rate(t0 + float64(i)*h)
	}

	return sum * h
}

func TestNewSegment(t *testing.T) {
	tests := []struct {
		name    string
		family  string
		params  []float64
		want    Family
		wantErr error
	}{
		{"flat", "flat", []float64{5}, FamilyFlat, nil},
		{"exponential upper case", "EXPONENTIAL", []float64{5, 0.01}, FamilyExponential, nil},
		{"alias", "exp_dec", []float64{5, 0.01}, FamilyExponential, nil},
		{"hyperbolic", "hyperbolic", []float64{5, 0.01, 0.8}, FamilyHyperbolic, nil},
		{"empty", "empty", nil, FamilyEmpty, nil},
		{"unknown", "sigmoid", []float64{1}, 0, errs.ErrUnknownFamily},
		{"wrong param count", "hyperbolic", []float64{1, 2}, 0, errs.ErrInvalidSegment},
		{"negative b", "hyperbolic", []float64{1, 0.1, -0.5}, 0, errs.ErrInvalidSegment},
		{"nan", "flat", []float64{math.NaN()}, 0, errs.ErrInvalidSegment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg, err := NewSegment(tt.family, 0, 10, tt.params...)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, seg.Family)
		})
	}

	t.Run("start after end", func(t *testing.T) {
		_, err := NewSegment("flat", 10, 0, 1)
		require.ErrorIs(t, err, errs.ErrInvalidSegment)
	})
}

func TestFamilyText(t *testing.T) {
	var f Family
	require.NoError(t, f.UnmarshalText([]byte("Harmonic")))
	require.Equal(t, FamilyHarmonic, f)

	text, err := FamilyLinear.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "linear", string(text))

	require.Equal(t, "unknown", Family(99).String())
	require.Error(t, f.UnmarshalText([]byte("bogus")))
}

func TestSegmentVolumeMatchesNumericIntegral(t *testing.T) {
	segs := []Segment{
		{Family: FamilyFlat, StartIndex: 10, EndIndex: 200, Q0: 7},
		{Family: FamilyExponential, StartIndex: 10, EndIndex: 200, Q0: 500, D: 0.01},
		{Family: FamilyHyperbolic, StartIndex: 10, EndIndex: 200, Q0: 500, D: 0.02, B: 0.7},
		{Family: FamilyHyperbolic, StartIndex: 10, EndIndex: 200, Q0: 500, D: 0.02, B: 1.5},
		{Family: FamilyHyperbolic, StartIndex: 10, EndIndex: 200, Q0: 500, D: 0.02, B: 1},
		{Family: FamilyHyperbolic, StartIndex: 10, EndIndex: 200, Q0: 500, D: 0.02, B: 0},
		{Family: FamilyHarmonic, StartIndex: 10, EndIndex: 200, Q0: 500, D: 0.02},
		{Family: FamilyLinear, StartIndex: 10, EndIndex: 200, Q0: 100, D: -0.3},
		{Family: FamilyEmpty, StartIndex: 10, EndIndex: 200},
	}
	for _, s := range segs {
		t.Run(s.Family.String(), func(t *testing.T) {
			got := s.Volume(25, 150.5)
			want := numericVolume(s, 25, 150.5)
			require.InDelta(t, want, got, math.Max(1e-6, math.Abs(want)*1e-6))
		})
	}

	t.Run("reversed bounds are zero", func(t *testing.T) {
		require.Zero(t, segs[1].Volume(50, 20))
	})
}

func TestSegmentBoundaryRates(t *testing.T) {
	s := Segment{Family: FamilyExponential, StartIndex: 100, EndIndex: 200, Q0: 50, D: 0.01}
	require.InDelta(t, 50, s.StartRate(), 1e-12)
	require.InDelta(t, 50*math.Exp(-1), s.EndRate(), 1e-9)
}

func TestSegmentShift(t *testing.T) {
	s := Segment{Family: FamilyHarmonic, StartIndex: 3, EndIndex: 30, Q0: 40, D: 0.1}
	shifted := s.Shift(-5)

	require.Equal(t, -2, shifted.StartIndex)
	require.Equal(t, 25, shifted.EndIndex)
	for _, tm := range []float64{0, 4.5, 20} {
		require.InDelta(t, s.Rate(tm), shifted.Rate(tm-5), 1e-12)
	}
}
