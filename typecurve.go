package typecurve

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/combocurve/typecurve/config"
	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/internal/options"
	"github.com/combocurve/typecurve/memo"
	"github.com/combocurve/typecurve/metrics"
	"github.com/combocurve/typecurve/phase"
	"github.com/combocurve/typecurve/series"
)

// Engine runs type-curve requests. It is safe for concurrent use.
type Engine struct {
	logger   zerolog.Logger
	metrics  *metrics.Collector
	cache    *memo.Cache
	cfg      *config.Config
	hasCache bool
}

// Option configures New.
type Option = options.Option[*Engine]

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return options.NoError(func(e *Engine) {
		e.logger = l
	})
}

// WithMetrics records operation counts, durations and recoverable conditions in c.
func WithMetrics(c *metrics.Collector) Option {
	return options.NoError(func(e *Engine) {
		e.metrics = c
	})
}

// WithCache memoizes rollups in c. A nil cache disables memoization.
func WithCache(c *memo.Cache) Option {
	return options.NoError(func(e *Engine) {
		e.cache = c
		e.hasCache = true
	})
}

// WithConfig sets the defaults used by NewRequest and, unless WithCache is given, the
// memo size and codec.
func WithConfig(cfg *config.Config) Option {
	return options.New(func(e *Engine) error {
		if cfg == nil {
			return fmt.Errorf("typecurve: nil config")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.cfg = cfg

		return nil
	})
}

// New builds an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: zerolog.Nop(),
		cfg:    config.Default(),
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	if !e.hasCache && e.cfg.Cache.Size >= 0 {
		ct, err := e.cfg.CacheCompression()
		if err != nil {
			return nil, err
		}
		if e.cache, err = memo.New(e.cfg.Cache.Size, memo.WithCompression(ct)); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Config returns the engine defaults.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// CacheStats returns the memo counters, or zero Stats without a cache.
func (e *Engine) CacheStats() memo.Stats {
	if e.cache == nil {
		return memo.Stats{}
	}

	return e.cache.Stats()
}

// NewRequest builds a Request from the engine defaults.
func (e *Engine) NewRequest(wells series.WellSet, src phase.Source) (Request, error) {
	return NewRequest(e.cfg, wells, src)
}

// Warning is a recoverable condition rendered as a placeholder: a well or series
// without a fit, a missing base phase, an empty rollup or degenerate statistics.
type Warning struct {
	WellID  string `json:"well_id,omitempty" yaml:"well_id,omitempty"`
	Series  string `json:"series,omitempty" yaml:"series,omitempty"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// recorder collects the warnings of one operation.
type recorder struct {
	e     *Engine
	op    string
	phase phase.Phase
	list  []Warning
}

func (e *Engine) recorder(op string, req Request) *recorder {
	return &recorder{e: e, op: op, phase: req.Phase}
}

// add records err when it is recoverable and returns err otherwise.
func (r *recorder) add(wellID, name string, err error) error {
	if err == nil {
		return nil
	}
	if !errs.IsRecoverable(err) {
		return err
	}

	w := Warning{WellID: wellID, Series: name, Kind: metrics.Kind(err), Message: err.Error()}
	r.list = append(r.list, w)
	r.e.metrics.RecordRecoverable(err)
	r.e.logger.Debug().
		Str("op", r.op).
		Str("well_id", wellID).
		Str("phase", string(r.phase)).
		Str("series", name).
		Str("kind", w.Kind).
		Err(err).
		Msg("recoverable condition")

	return nil
}

func (e *Engine) done(op string, start time.Time, req Request, warnings int) {
	e.metrics.Observe(op, start)
	e.logger.Debug().
		Str("op", op).
		Str("phase", string(req.Phase)).
		Int("wells", len(req.Wells.Wells)).
		Int("warnings", warnings).
		Dur("elapsed", time.Since(start)).
		Msg("operation complete")
}
