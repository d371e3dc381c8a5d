// Package typecurve aggregates per-well production into type curves: aligned rate
// rollups, cumulative curves, EUR and peak-rate distributions and probit statistics
// across an analog well set.
//
// # Core Features
//
//   - Daily or calendar-monthly resolution, aligned to first production (rate phases)
//     or peak (ratio phases), or left on a shared calendar reference
//   - Ratio phases resolved to rates through the base phase's fitted segments
//   - Mean, median and percentile rollups with an explicit fill policy
//   - Cumulative curves on a relative schedule with optional forecast overlay
//   - EUR and peak-rate distributions with Blom plotting positions and a probit fit
//   - Recoverable conditions reported as Warnings instead of errors
//   - Rollups memoized as compressed snapshots keyed by an xxHash64 digest
//
// # Basic Usage
//
//	engine, _ := typecurve.New(typecurve.WithLogger(logger))
//
//	req, _ := engine.NewRequest(wells, phase.RateSource{Phase: phase.Oil, Set: fits})
//	res, _ := engine.Rollup(req)
//	for _, s := range res.Series {
//	    fmt.Println(s.Name, s.Values)
//	}
//	for _, w := range res.Warnings {
//	    fmt.Println("skipped:", w.Kind, w.Message)
//	}
//
// # Package Structure
//
// The Engine is a thin pipeline over the numeric packages, which can be used
// directly: segment, series, align, phase, rollup, cumulative and eur. Results can
// be persisted with snapshot; config loads engine settings from YAML.
package typecurve
