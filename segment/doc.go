// Package segment implements piecewise analytic forecasts ("multiple segments").
//
// A Segment carries a decline family (flat, exponential, hyperbolic, harmonic,
// linear or empty) and its parameters. A Model is an ordered, non-overlapping list of
// segments with point prediction and closed-form cumulative integration:
//
//	m, err := segment.New(
//	    segment.Segment{Family: segment.FamilyFlat, StartIndex: 0, EndIndex: 29, Q0: 900},
//	    segment.Segment{Family: segment.FamilyHyperbolic, StartIndex: 30, EndIndex: 3649, Q0: 900, D: 0.003, B: 1.1},
//	)
//	rates := m.Predict([]int{0, 30, 365}, 0)
//	cum := m.CumulativeFrom([]int{0, 30, 365}, 0)
//
// Shift translates every segment by a number of days; ratio phases use it to line a
// base-phase fit up with the ratio series before multiplying.
//
// A Set groups the percentile series (P10, P50, P90, best) of one phase.
package segment
