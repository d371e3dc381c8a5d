// Package metrics instruments engine operations with prometheus counters and
// histograms. A nil *Collector is valid and records nothing.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/combocurve/typecurve/errs"
)

// Operation labels.
const (
	OpRollup       = "rollup"
	OpCumulative   = "cumulative"
	OpEUR          = "eur"
	OpPeak         = "peak"
	OpProbit       = "probit"
	OpSnapshotLoad = "snapshot_load"
)

// Recoverable kinds.
const (
	KindNoFit              = "no_fit"
	KindMissingBase        = "missing_base"
	KindInsufficientWells  = "insufficient_wells"
	KindDegenerateStats    = "degenerate_statistics"
	KindUnknownRecoverable = "other"
)

// Collector holds the engine metrics.
type Collector struct {
	Operations  *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Recoverable *prometheus.CounterVec
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates the metrics. Register them with Register or pass the
// Collector itself to a prometheus.Registerer.
func NewCollector() *Collector {
	return &Collector{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typecurve_operations_total",
				Help: "Total number of engine operations by operation",
			},
			[]string{"op"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "typecurve_operation_seconds",
				Help:    "Duration of engine operations in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"op"},
		),
		Recoverable: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typecurve_recoverable_total",
				Help: "Recoverable conditions rendered as placeholders, by kind",
			},
			[]string{"kind"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typecurve_cache_hits_total",
			Help: "Rollup memo cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typecurve_cache_misses_total",
			Help: "Rollup memo cache misses",
		}),
	}
}

// Register registers the collector with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	return reg.Register(c)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.Operations.Describe(ch)
	c.Duration.Describe(ch)
	c.Recoverable.Describe(ch)
	c.CacheHits.Describe(ch)
	c.CacheMisses.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.Operations.Collect(ch)
	c.Duration.Collect(ch)
	c.Recoverable.Collect(ch)
	c.CacheHits.Collect(ch)
	c.CacheMisses.Collect(ch)
}

// Observe counts one op and records its duration since start.
func (c *Collector) Observe(op string, start time.Time) {
	if c == nil {
		return
	}
	c.Operations.WithLabelValues(op).Inc()
	c.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// RecordRecoverable counts err under its recoverable kind. Errors outside the
// recoverable taxonomy are ignored.
func (c *Collector) RecordRecoverable(err error) {
	if c == nil || !errs.IsRecoverable(err) {
		return
	}
	c.Recoverable.WithLabelValues(Kind(err)).Inc()
}

// RecordCache counts a memo lookup.
func (c *Collector) RecordCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.Inc()
	} else {
		c.CacheMisses.Inc()
	}
}

// Kind returns the recoverable kind label of err.
func Kind(err error) string {
	switch {
	case errors.Is(err, errs.ErrInvalidSegmentModel):
		return KindNoFit
	case errors.Is(err, errs.ErrMissingBaseFit):
		return KindMissingBase
	case errors.Is(err, errs.ErrInsufficientWells):
		return KindInsufficientWells
	case errors.Is(err, errs.ErrDegenerateStatistics):
		return KindDegenerateStats
	default:
		return KindUnknownRecoverable
	}
}
