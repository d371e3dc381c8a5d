// Package eur computes per-well estimated ultimate recovery and peak rate, and the
// percentile and probit distributions of those values across an analog set.
package eur

import (
	"math"

	"github.com/combocurve/typecurve/align"
	"github.com/combocurve/typecurve/cumulative"
	"github.com/combocurve/typecurve/series"
)

// EUR returns the cumulative volume over the well's full life: the last point of the
// forecast-overlay cumulative curve. A well without samples yields NaN.
func EUR(s series.WellSeries, opts ...cumulative.Option) (float64, error) {
	points, err := cumulative.Discrete(s, nil, false, true, opts...)
	if err != nil {
		return math.NaN(), err
	}

	return cumulative.Final(points), nil
}

// PeakRate returns the well's peak rate. Aligned series have their peak at offset 0
// by construction, so the value there is returned (NaN when absent). Unaligned series
// are scanned over their data window; NaN samples are ignored and an empty window
// yields NaN.
func PeakRate(s series.WellSeries, mode align.Mode) float64 {
	if mode == align.ModeAlign {
		v, ok := s.ValueAt(0)
		if !ok {
			return math.NaN()
		}

		return v
	}

	peak := math.NaN()
	w := s.Window
	if w.Len() == 0 {
		return peak
	}
	for i := w.Start; i < w.End; i++ {
		v := s.Values[i]
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(peak) || v > peak {
			peak = v
		}
	}

	return peak
}
