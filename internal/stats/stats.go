// Package stats provides the NaN-aware order statistics shared by the rollup and
// distribution code.
package stats

import (
	"math"
	"slices"
)

// Percentile returns the p-th percentile (0-100) of an ascending sorted slice using
// linear interpolation between order statistics at rank (p/100)*(n-1).
//
// Returns NaN for an empty slice and the single element for a one-element slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	p = min(max(p, 0), 100)
	rank := p / 100 * float64(n-1)
	lo := int(rank)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := rank - float64(lo)

	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Compact moves all non-NaN values of vals to its front and returns that prefix.
// The input slice is modified.
func Compact(vals []float64) []float64 {
	out := vals[:0]
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}

	return out
}

// PercentileOf computes the p-th percentile of vals, ignoring NaN entries.
// vals is reordered in place.
func PercentileOf(vals []float64, p float64) float64 {
	finite := Compact(vals)
	slices.Sort(finite)

	return Percentile(finite, p)
}

// Mean returns the arithmetic mean of the non-NaN values, or NaN when there are none.
func Mean(vals []float64) float64 {
	sum := 0.0
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}

	return sum / float64(n)
}

// Median returns the 50th percentile of the non-NaN values. vals is reordered in place.
func Median(vals []float64) float64 {
	return PercentileOf(vals, 50)
}

// CountFinite returns the number of non-NaN values.
func CountFinite(vals []float64) int {
	n := 0
	for _, v := range vals {
		if !math.IsNaN(v) {
			n++
		}
	}

	return n
}
