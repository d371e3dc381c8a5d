package typecurve

import (
	"fmt"
	"strings"
	"time"

	"github.com/combocurve/typecurve/align"
	"github.com/combocurve/typecurve/cumulative"
	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/eur"
	"github.com/combocurve/typecurve/metrics"
	"github.com/combocurve/typecurve/phase"
	"github.com/combocurve/typecurve/rollup"
	"github.com/combocurve/typecurve/series"
)

// RollupResult holds the rate rollup series of a request.
type RollupResult struct {
	Series   []series.Aggregated `json:"series" yaml:"series"`
	Warnings []Warning           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Cached is set when the series came from the memo.
	Cached bool `json:"cached" yaml:"cached"`
}

// Find returns the series called name.
func (r *RollupResult) Find(name string) (series.Aggregated, bool) {
	for _, s := range r.Series {
		if s.Name == name {
			return s, true
		}
	}

	return series.Aggregated{}, false
}

// Rollup aggregates the analog wells into statistic series.
//
// Every requested statistic is emitted under the variant selected by
// OverlayForecast; with the overlay on, the NoForecast series are emitted as well.
// When the phase has fits, their rate predictions on the rollup grid are appended as
// "<key>Fit" series (P10Fit, P50Fit, P90Fit, bestFit).
//
// Results without warnings are memoized.
func (e *Engine) Rollup(req Request) (*RollupResult, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := req.digest(metrics.OpRollup)
	if e.cache != nil {
		set, ok, err := e.cache.Load(key)
		if err != nil {
			e.logger.Warn().Err(err).Uint64("key", key).Msg("dropped corrupted memo entry")
		}
		e.metrics.RecordCache(ok)
		if ok {
			e.done(metrics.OpRollup, start, req, 0)
			return &RollupResult{Series: set, Cached: true}, nil
		}
	}

	rec := e.recorder(metrics.OpRollup, req)
	ps, err := e.prepare(req, req.Resolution, align.SemanticRate, rec)
	if err != nil {
		return nil, err
	}

	variants := []rollup.Variant{rollup.VariantFor(req.OverlayForecast)}
	if req.OverlayForecast {
		variants = append(variants, rollup.NoForecast)
	}
	out, err := rollup.AggregateMany(wellSeries(ps), req.statistics(), variants, rollup.WithFill(fillFunc(req, ps)))
	if err := rec.add("", "rollup", err); err != nil {
		return nil, err
	}

	if req.Source != nil && len(out) > 0 {
		fits, err := e.fitSeries(req, out[0].Index, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, fits...)
	}

	if e.cache != nil && len(rec.list) == 0 {
		if err := e.cache.Store(key, out); err != nil {
			e.logger.Warn().Err(err).Msg("failed to memoize rollup")
		}
	}
	e.done(metrics.OpRollup, start, req, len(rec.list))

	return &RollupResult{Series: out, Warnings: rec.list}, nil
}

func (e *Engine) fitSeries(req Request, grid []int, rec *recorder) ([]series.Aggregated, error) {
	var out []series.Aggregated
	for _, k := range fitKeys {
		if req.Source.ModelFor(k).IsEmpty() && k != req.key() {
			continue
		}
		name := string(k) + "Fit"
		values, err := req.Source.RatePrediction(k, grid)
		if err != nil {
			if err := rec.add("", name, err); err != nil {
				return nil, err
			}
			continue
		}
		if req.Resolution == align.Monthly {
			values = scale(values, align.DaysPerMonth)
		}
		out = append(out, series.Aggregated{Name: name, Index: append([]int(nil), grid...), Values: values})
	}

	return out, nil
}

// WellCurve is one well's cumulative curve.
type WellCurve struct {
	WellID string             `json:"well_id" yaml:"well_id"`
	Points []cumulative.Point `json:"points" yaml:"points"`
}

// CumulativeResult holds per-well cumulative curves and their rollups.
type CumulativeResult struct {
	Wells  []WellCurve         `json:"wells" yaml:"wells"`
	Series []series.Aggregated `json:"series" yaml:"series"`
	// Fit is the analytic cumulative of the rate fit for the request key; empty for
	// ratio phases and unfitted phases.
	Fit      []cumulative.Point `json:"fit,omitempty" yaml:"fit,omitempty"`
	Warnings []Warning          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FitCumulative integrates every analog well on the request schedule and rolls the
// curves up with the requested statistics.
//
// Curves are integrated from daily rates whatever the request resolution. Per-well
// Forecasts extend the overlay to the end of life and FitStarts anchor curves to their
// fit when HonorFit is set. Curves are rolled up on the union of their offsets with
// FillHold, so a finished curve keeps its final volume.
func (e *Engine) FitCumulative(req Request) (*CumulativeResult, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec := e.recorder(metrics.OpCumulative, req)
	ps, err := e.prepare(req, align.Daily, align.SemanticVolume, rec)
	if err != nil {
		return nil, err
	}

	res := &CumulativeResult{Wells: make([]WellCurve, len(ps))}
	curves := make([]series.WellSeries, 0, len(ps))
	for i, p := range ps {
		opts := []cumulative.Option{cumulative.WithSchedule(req.schedule())}
		if p.forecast != nil {
			opts = append(opts, cumulative.WithForecast(p.forecast))
		}
		points, err := cumulative.Discrete(p.series, p.fitStart, req.HonorFit, req.OverlayForecast, opts...)
		if err != nil {
			return nil, fmt.Errorf("well %q: %w", p.series.WellID, err)
		}
		res.Wells[i] = WellCurve{WellID: p.series.WellID, Points: points}

		curve, err := curveSeries(p.series.WellID, points)
		if err != nil {
			return nil, err
		}
		curves = append(curves, curve)
	}

	variants := []rollup.Variant{rollup.VariantFor(req.OverlayForecast)}
	res.Series, err = rollup.AggregateMany(curves, req.statistics(), variants, rollup.WithFill(rollup.FillHold))
	if err := rec.add("", "cumulative", err); err != nil {
		return nil, err
	}

	if req.Source != nil && req.Source.Type() == phase.Rate {
		fit, err := cumulative.Fitted(req.Source.ModelFor(req.key()), cumulative.WithSchedule(req.schedule()))
		if err := rec.add("", string(req.key())+"Fit", err); err != nil {
			return nil, err
		}
		res.Fit = fit
	}

	res.Warnings = rec.list
	e.done(metrics.OpCumulative, start, req, len(rec.list))

	return res, nil
}

func curveSeries(wellID string, points []cumulative.Point) (series.WellSeries, error) {
	if len(points) == 0 {
		return series.Empty(wellID), nil
	}
	index := make([]int, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		index[i], values[i] = p.Offset, p.Value
	}

	return series.New(wellID, time.Time{}, index, values)
}

// WellValue is one well's scalar result.
type WellValue struct {
	WellID string  `json:"well_id" yaml:"well_id"`
	Value  float64 `json:"value" yaml:"value"`
}

// DistributionResult holds per-well values, their plotting positions and a summary.
// Ranked[i].Position indexes Values.
type DistributionResult struct {
	Values  []WellValue      `json:"values" yaml:"values"`
	Ranked  []eur.Ranked     `json:"ranked" yaml:"ranked"`
	Summary eur.Distribution `json:"summary" yaml:"summary"`
	// FitPeak is the initial peak of the rate fit for the request key. Peak
	// distributions of fitted rate phases only.
	FitPeak  *float64  `json:"fit_peak,omitempty" yaml:"fit_peak,omitempty"`
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func (r *DistributionResult) floats() []float64 {
	out := make([]float64, len(r.Values))
	for i, v := range r.Values {
		out[i] = v.Value
	}

	return out
}

// EURDistribution computes every analog well's EUR from daily rates, extended by its
// forecast when one is given.
func (e *Engine) EURDistribution(req Request) (*DistributionResult, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec := e.recorder(metrics.OpEUR, req)
	res, err := e.eurDistribution(req, rec)
	if err != nil {
		return nil, err
	}
	e.done(metrics.OpEUR, start, req, len(res.Warnings))

	return res, nil
}

func (e *Engine) eurDistribution(req Request, rec *recorder) (*DistributionResult, error) {
	ps, err := e.prepare(req, align.Daily, align.SemanticVolume, rec)
	if err != nil {
		return nil, err
	}

	values := make([]WellValue, len(ps))
	for i, p := range ps {
		opts := []cumulative.Option{cumulative.WithSchedule(req.schedule())}
		if p.forecast != nil {
			opts = append(opts, cumulative.WithForecast(p.forecast))
		}
		v, err := eur.EUR(p.series, opts...)
		if err != nil {
			return nil, fmt.Errorf("well %q: %w", p.series.WellID, err)
		}
		values[i] = WellValue{WellID: p.series.WellID, Value: v}
	}

	return e.distribution(req, values, rec), nil
}

// PeakDistribution computes every analog well's peak rate at the request resolution.
// Aligned wells report the value at their anchor.
func (e *Engine) PeakDistribution(req Request) (*DistributionResult, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec := e.recorder(metrics.OpPeak, req)
	res, err := e.peakDistribution(req, rec)
	if err != nil {
		return nil, err
	}
	e.done(metrics.OpPeak, start, req, len(res.Warnings))

	return res, nil
}

func (e *Engine) peakDistribution(req Request, rec *recorder) (*DistributionResult, error) {
	ps, err := e.prepare(req, req.Resolution, align.SemanticRate, rec)
	if err != nil {
		return nil, err
	}

	values := make([]WellValue, len(ps))
	for i, p := range ps {
		values[i] = WellValue{WellID: p.series.WellID, Value: eur.PeakRate(p.series, req.Mode)}
	}

	res := e.distribution(req, values, rec)
	res.FitPeak = fitPeak(req)

	return res, nil
}

// fitPeak returns the largest rate of the request key's fit, in the request
// resolution's units. Ratio phases and unfitted keys have none.
func fitPeak(req Request) *float64 {
	if req.Source == nil || req.Source.Type() != phase.Rate {
		return nil
	}
	m := req.Source.ModelFor(req.key())
	if m.IsEmpty() {
		return nil
	}

	peak := m.MaxRate()
	if req.Resolution == align.Monthly {
		peak *= align.DaysPerMonth
	}

	return &peak
}

func (e *Engine) distribution(req Request, values []WellValue, rec *recorder) *DistributionResult {
	res := &DistributionResult{Values: values}
	floats := res.floats()
	res.Ranked = eur.PercentileDistribution(floats, req.StatConvention)
	res.Summary = eur.Summarize(floats)
	if res.Summary.Count == 0 {
		_ = rec.add("", "distribution", fmt.Errorf("%d wells without a finite value: %w", len(values), errs.ErrInsufficientWells))
	}
	res.Warnings = rec.list

	return res
}

// Measure selects the per-well value fitted by Probit.
type Measure int

const (
	MeasureEUR Measure = iota
	MeasurePeak
)

func (m Measure) String() string {
	if m == MeasurePeak {
		return "peak"
	}

	return "eur"
}

// MarshalText implements encoding.TextMarshaler.
func (m Measure) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Measure) UnmarshalText(text []byte) error {
	v, err := ParseMeasure(string(text))
	if err != nil {
		return err
	}
	*m = v

	return nil
}

// ParseMeasure parses "eur" or "peak".
func ParseMeasure(s string) (Measure, error) {
	switch strings.ToLower(s) {
	case "eur":
		return MeasureEUR, nil
	case "peak":
		return MeasurePeak, nil
	default:
		return 0, fmt.Errorf("unknown measure %q", s)
	}
}

// ProbitResult holds a probit fit and the distribution it was fitted to. Probit is
// nil when the values are degenerate; a warning then says why.
type ProbitResult struct {
	Measure      Measure             `json:"measure" yaml:"measure"`
	Probit       *eur.Probit         `json:"probit" yaml:"probit"`
	Distribution *DistributionResult `json:"distribution" yaml:"distribution"`
	Warnings     []Warning           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Probit fits the EUR or peak-rate distribution of the analog wells on a probit axis.
func (e *Engine) Probit(req Request, m Measure) (*ProbitResult, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec := e.recorder(metrics.OpProbit, req)
	var (
		dist *DistributionResult
		err  error
	)
	if m == MeasurePeak {
		dist, err = e.peakDistribution(req, rec)
	} else {
		dist, err = e.eurDistribution(req, rec)
	}
	if err != nil {
		return nil, err
	}

	res := &ProbitResult{Measure: m, Distribution: dist}
	res.Probit, err = eur.ProbitFit(dist.floats())
	if err := rec.add("", m.String(), err); err != nil {
		return nil, err
	}
	res.Warnings = rec.list
	dist.Warnings = rec.list
	e.done(metrics.OpProbit, start, req, len(rec.list))

	return res, nil
}
