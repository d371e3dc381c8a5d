package eur

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/combocurve/typecurve/align"
	"github.com/combocurve/typecurve/cumulative"
	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/segment"
	"github.com/combocurve/typecurve/series"
)

func TestEUR(t *testing.T) {
	s, err := series.New("w", time.Time{}, []int{0, 1, 2, 3}, []float64{10, 10, 10, 10})
	require.NoError(t, err)

	got, err := EUR(s)
	require.NoError(t, err)
	assert.InDelta(t, 40, got, 1e-9)

	fc := segment.MustNew(segment.Segment{Family: segment.FamilyFlat, StartIndex: 4, EndIndex: 13, Q0: 2})
	got, err = EUR(s, cumulative.WithForecast(fc))
	require.NoError(t, err)
	assert.InDelta(t, 60, got, 1e-9)

	got, err = EUR(series.Empty("none"))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestPeakRate(t *testing.T) {
	s, err := series.New("w", time.Time{}, []int{-2, -1, 0, 1, 2}, []float64{50, 80, 120, 90, 200})
	require.NoError(t, err)

	assert.Equal(t, 120.0, PeakRate(s, align.ModeAlign))
	assert.Equal(t, 200.0, PeakRate(s, align.ModeNoAlign))

	windowed := s.Clone()
	windowed.Window = series.DataWindow{Start: 0, End: 3, HasProduction: true}
	assert.Equal(t, 120.0, PeakRate(windowed, align.ModeNoAlign))

	shifted, err := series.New("w", time.Time{}, []int{1, 2}, []float64{3, math.NaN()})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(PeakRate(shifted, align.ModeAlign)))
	assert.Equal(t, 3.0, PeakRate(shifted, align.ModeNoAlign))
	assert.True(t, math.IsNaN(PeakRate(series.Empty("e"), align.ModeNoAlign)))
}

func TestPercentileDistribution(t *testing.T) {
	got := PercentileDistribution([]float64{10, 20, 30, 40}, false)
	require.Len(t, got, 4)

	wantValues := []float64{40, 30, 20, 10}
	wantRanks := []float64{62.5 / 4.25, 162.5 / 4.25, 262.5 / 4.25, 362.5 / 4.25}
	for i, r := range got {
		assert.Equal(t, wantValues[i], r.Value)
		assert.InDelta(t, wantRanks[i], r.Rank, 1e-9)
		assert.Equal(t, 3-i, r.Position)
	}
	assert.InDelta(t, 14.70588, got[0].Rank, 1e-4)

	stat := PercentileDistribution([]float64{10, 20, 30, 40}, true)
	for i := range stat {
		assert.InDelta(t, 100-wantRanks[i], stat[i].Rank, 1e-9)
	}

	t.Run("non-finite values are dropped", func(t *testing.T) {
		got := PercentileDistribution([]float64{math.NaN(), 5, math.Inf(1)}, false)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].Position)
		assert.InDelta(t, BlomRank(0, 1), got[0].Rank, 1e-12)
	})
}

func TestSummarize(t *testing.T) {
	d := Summarize([]float64{4, math.NaN(), 1, 3, 2})
	assert.Equal(t, 4, d.Count)
	assert.InDelta(t, 2.5, d.Mean, 1e-12)
	assert.InDelta(t, 2.5, d.Median, 1e-12)
	assert.InDelta(t, 1.3, d.P10, 1e-12)
	assert.InDelta(t, 3.7, d.P90, 1e-12)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 4.0, d.Max)

	empty := Summarize(nil)
	assert.Zero(t, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.True(t, math.IsNaN(empty.Max))
}

func TestProbitFitRecoversLogNormal(t *testing.T) {
	const (
		n         = 20
		intercept = 3.0
		slope     = -0.5
	)
	values := make([]float64, n)
	for i := range values {
		z := distuv.UnitNormal.Quantile(BlomRank(i, n) / 100)
		values[i] = math.Exp(intercept + slope*z)
	}

	p, err := ProbitFit(values)
	require.NoError(t, err)
	assert.Equal(t, n, p.N)
	// z = (ln v - intercept) / slope
	assert.InDelta(t, -intercept/slope, p.Intercept, 1e-9)
	assert.InDelta(t, 1/slope, p.Slope, 1e-9)
	assert.InDelta(t, 1, p.RSquared, 1e-9)
	assert.InDelta(t, math.Exp(intercept), p.P50, 1e-6)
	assert.Greater(t, p.P01, p.P10)
	assert.Greater(t, p.P10, p.P50)
	assert.Greater(t, p.P50, p.P90)
	assert.Greater(t, p.P90, p.P99)
	assert.InDelta(t, intercept, p.SampleMean, 1e-9)

	assert.Equal(t, 4, p.Bins)
	assert.Equal(t, 1, p.DegreesOfFreedom)
	assert.InDelta(t, 0, p.ChiSquared, 1e-9)
	assert.InDelta(t, 1, p.PValue, 1e-9)
}

func TestProbitFitRegressesProbitOnLogValue(t *testing.T) {
	values := []float64{3, 9, 4, 20, 7, 12}
	p, err := ProbitFit(values)
	require.NoError(t, err)

	ranked := PercentileDistribution(values, false)
	x := make([]float64, len(ranked))
	y := make([]float64, len(ranked))
	for i, r := range ranked {
		x[i] = math.Log(r.Value)
		y[i] = distuv.UnitNormal.Quantile(r.Rank / 100)
	}
	wantIntercept, wantSlope := stat.LinearRegression(x, y, nil, false)

	assert.InDelta(t, wantIntercept, p.Intercept, 1e-12)
	assert.InDelta(t, wantSlope, p.Slope, 1e-12)
	assert.Less(t, p.RSquared, 1.0)
	assert.InDelta(t, math.Exp(-wantIntercept/wantSlope), p.P50, 1e-9)
}

func TestProbitFitDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"empty", nil},
		{"single", []float64{5}},
		{"identical", []float64{5, 5, 5}},
		{"one positive", []float64{0, -3, 7, math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ProbitFit(tt.values)
			require.ErrorIs(t, err, errs.ErrDegenerateStatistics)
			assert.Nil(t, p)
			assert.True(t, errs.IsRecoverable(err))
		})
	}
}

func TestChiSquareBins(t *testing.T) {
	tests := []struct{ n, want int }{
		{1, 4}, {32, 4}, {33, 5}, {80, 10}, {808, 101}, {5000, 101},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chiSquareBins(tt.n), "n=%d", tt.n)
	}
}

func TestProbitScale(t *testing.T) {
	s := DefaultProbitScale()

	assert.InDelta(t, 0, s.ValueToCoord(0.1), 1e-12)
	assert.InDelta(t, 1, s.ValueToCoord(99.9), 1e-12)
	assert.InDelta(t, 0.5, s.ValueToCoord(50), 1e-9)
	assert.InDelta(t, 0, s.ValueToCoord(0), 1e-12, "clamped")

	for _, p := range []float64{1, 10, 37.5, 90, 99} {
		assert.InDelta(t, p, s.CoordToValue(s.ValueToCoord(p)), 1e-6)
	}
	assert.Less(t, s.ValueToCoord(10), s.ValueToCoord(20))
}
