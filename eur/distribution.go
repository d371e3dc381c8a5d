package eur

import (
	"math"
	"slices"

	"github.com/combocurve/typecurve/internal/stats"
)

// Ranked is one value placed on the percentile axis. Position is its index in the
// input slice so callers can map it back to a well.
type Ranked struct {
	Position int     `json:"position" yaml:"position"`
	Value    float64 `json:"value" yaml:"value"`
	Rank     float64 `json:"rank" yaml:"rank"`
}

// BlomRank returns the plotting position (i+1-0.375)/(n+0.25) of the i-th of n ordered
// values, in percent.
func BlomRank(i, n int) float64 {
	return (float64(i) + 1 - 0.375) / (float64(n) + 0.25) * 100
}

// PercentileDistribution sorts the finite values descending and assigns Blom ranks.
// The default places the largest value at the smallest rank (exceedance convention);
// useStatConvention uses the complement, 100 - rank.
//
// Example:
//
//	eur.PercentileDistribution([]float64{10, 20, 30, 40}, false)
//	// ranks ≈ 14.71, 38.24, 61.76, 85.29 for 40, 30, 20, 10
func PercentileDistribution(values []float64, useStatConvention bool) []Ranked {
	out := make([]Ranked, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, Ranked{Position: i, Value: v})
	}
	slices.SortStableFunc(out, func(a, b Ranked) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		default:
			return 0
		}
	})

	n := len(out)
	for i := range out {
		rank := BlomRank(i, n)
		if useStatConvention {
			rank = 100 - rank
		}
		out[i].Rank = rank
	}

	return out
}

// Distribution summarizes per-well values. Percentiles follow the statistical
// convention: P10 is the 10th percentile of the finite values.
type Distribution struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	P10    float64 `json:"p10" yaml:"p10"`
	P90    float64 `json:"p90" yaml:"p90"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// Summarize computes a Distribution over the finite values. Every field but Count is
// NaN when there are none.
func Summarize(values []float64) Distribution {
	sorted := stats.Compact(slices.Clone(values))
	slices.Sort(sorted)

	d := Distribution{
		Count:  len(sorted),
		Mean:   stats.Mean(sorted),
		Median: stats.Percentile(sorted, 50),
		P10:    stats.Percentile(sorted, 10),
		P90:    stats.Percentile(sorted, 90),
		Min:    math.NaN(),
		Max:    math.NaN(),
	}
	if d.Count > 0 {
		d.Min = sorted[0]
		d.Max = sorted[d.Count-1]
	}

	return d
}
