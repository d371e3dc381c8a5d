// Package series holds the data model shared by the engine: per-well production
// series with their data windows, the analog well set, the columnar matrix used by the
// aggregator, and the named output series.
package series
