package eur

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/combocurve/typecurve/errs"
)

const (
	minChiSquareBins = 4
	maxChiSquareBins = 101
)

// Probit is a log-normal fit of a value distribution on a probit axis:
//
//	z = Intercept + Slope * ln(value),   z = Φ⁻¹(rank / 100)
//
// with ranks in the exceedance convention, so P10 is the high estimate. The probit
// coordinate is the regressed variable.
type Probit struct {
	N         int     `json:"n" yaml:"n"`
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
	RSquared  float64 `json:"r_squared" yaml:"r_squared"`

	// Sample statistics of ln(value).
	SampleMean   float64 `json:"sample_mean" yaml:"sample_mean"`
	SampleStdDev float64 `json:"sample_std_dev" yaml:"sample_std_dev"`

	P01 float64 `json:"p01" yaml:"p01"`
	P10 float64 `json:"p10" yaml:"p10"`
	P50 float64 `json:"p50" yaml:"p50"`
	P90 float64 `json:"p90" yaml:"p90"`
	P99 float64 `json:"p99" yaml:"p99"`

	Bins             int     `json:"bins" yaml:"bins"`
	ChiSquared       float64 `json:"chi_squared" yaml:"chi_squared"`
	DegreesOfFreedom int     `json:"degrees_of_freedom" yaml:"degrees_of_freedom"`
	PValue           float64 `json:"p_value" yaml:"p_value"`
}

// Estimate returns the fitted value at an exceedance percentile, 0 < percent < 100.
func (p *Probit) Estimate(percent float64) float64 {
	z := distuv.UnitNormal.Quantile(percent / 100)
	return math.Exp((z - p.Intercept) / p.Slope)
}

// ProbitFit fits the positive finite values on a probit axis by least squares of the
// probit coordinate against ln(value).
//
// Ranks come from PercentileDistribution in the exceedance convention. The
// goodness-of-fit statistic compares observed counts against clamp(ceil(n/8), 4, 101)
// equal-probability bins of the fitted distribution; two fitted parameters are taken
// off the degrees of freedom, with a floor of one.
//
// Fewer than two distinct positive values return nil and errs.ErrDegenerateStatistics.
func ProbitFit(values []float64) (*Probit, error) {
	positive := make([]float64, 0, len(values))
	distinct := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			positive = append(positive, v)
			distinct[v] = struct{}{}
		}
	}
	if len(distinct) < 2 {
		return nil, fmt.Errorf("probit fit over %d positive values: %w", len(positive), errs.ErrDegenerateStatistics)
	}

	ranked := PercentileDistribution(positive, false)
	n := len(ranked)
	z := make([]float64, n)
	logs := make([]float64, n)
	for i, r := range ranked {
		z[i] = distuv.UnitNormal.Quantile(r.Rank / 100)
		logs[i] = math.Log(r.Value)
	}

	intercept, slope := stat.LinearRegression(logs, z, nil, false)
	if slope == 0 || math.IsNaN(slope) {
		return nil, fmt.Errorf("probit fit: zero slope: %w", errs.ErrDegenerateStatistics)
	}

	p := &Probit{
		N:         n,
		Slope:     slope,
		Intercept: intercept,
		RSquared:  stat.RSquared(logs, z, nil, intercept, slope),
	}
	p.SampleMean, p.SampleStdDev = stat.MeanStdDev(logs, nil)
	p.P01 = p.Estimate(1)
	p.P10 = p.Estimate(10)
	p.P50 = p.Estimate(50)
	p.P90 = p.Estimate(90)
	p.P99 = p.Estimate(99)

	p.Bins = chiSquareBins(n)
	p.ChiSquared = chiSquared(logs, intercept, slope, p.Bins)
	p.DegreesOfFreedom = max(p.Bins-3, 1)
	p.PValue = distuv.ChiSquared{K: float64(p.DegreesOfFreedom)}.Survival(p.ChiSquared)

	return p, nil
}

func chiSquareBins(n int) int {
	bins := (n + 7) / 8
	return min(max(bins, minChiSquareBins), maxChiSquareBins)
}

// chiSquared places every log value at its fitted exceedance probability and counts
// it into one of bins equal-width probability buckets.
func chiSquared(logs []float64, intercept, slope float64, bins int) float64 {
	observed := make([]int, bins)
	for _, y := range logs {
		u := distuv.UnitNormal.CDF(intercept + slope*y)
		b := int(u * float64(bins))
		observed[min(max(b, 0), bins-1)]++
	}

	expected := float64(len(logs)) / float64(bins)
	chi := 0.0
	for _, o := range observed {
		d := float64(o) - expected
		chi += d * d / expected
	}

	return chi
}

// ProbitScale maps percentiles onto a linear [0, 1] axis coordinate so that a normal
// distribution plots as a straight line. Percents outside [MinPercent, MaxPercent]
// are clamped.
type ProbitScale struct {
	MinPercent float64
	MaxPercent float64
}

// DefaultProbitScale spans 0.1% to 99.9%.
func DefaultProbitScale() ProbitScale {
	return ProbitScale{MinPercent: 0.1, MaxPercent: 99.9}
}

func (s ProbitScale) bounds() (float64, float64) {
	return distuv.UnitNormal.Quantile(s.MinPercent / 100), distuv.UnitNormal.Quantile(s.MaxPercent / 100)
}

// ValueToCoord returns the axis coordinate of percent.
func (s ProbitScale) ValueToCoord(percent float64) float64 {
	percent = min(max(percent, s.MinPercent), s.MaxPercent)
	lo, hi := s.bounds()

	return (distuv.UnitNormal.Quantile(percent/100) - lo) / (hi - lo)
}

// CoordToValue is the inverse of ValueToCoord.
func (s ProbitScale) CoordToValue(coord float64) float64 {
	coord = min(max(coord, 0), 1)
	lo, hi := s.bounds()

	return distuv.UnitNormal.CDF(lo+coord*(hi-lo)) * 100
}
