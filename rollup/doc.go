// Package rollup computes cross-well statistics per time offset.
//
// Wells are laid out on a shared offset grid in a time-major series.Matrix, then every
// row is reduced with a Statistic (mean, median or an interpolated percentile). The
// All variant counts every well, using the configured fill policy where a well has no
// sample; the NoForecast variant counts only observed samples inside each well's data
// window. Missing data is never coerced to zero: a step with no contributor is NaN
// with a zero count.
//
// The fill policy is explicit. FillNone is the default; FillZero, FillHold and
// FillModel are available through WithFill.
package rollup
