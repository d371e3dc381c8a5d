package phase

import (
	"fmt"

	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/segment"
	"github.com/combocurve/typecurve/series"
)

// ResolveRate returns a rate series for s.
//
// Rate phases pass through unchanged. For ratio phases the base model is shifted by
// deltaT = s.Index[0] - base.FirstOffset(), evaluated at every offset of s and
// multiplied element-wise with the ratio values. A missing base fit yields an empty
// series and errs.ErrMissingBaseFit.
func ResolveRate(s series.WellSeries, t Type, base *segment.Model) (series.WellSeries, error) {
	if t == Rate {
		return s, nil
	}
	if base.IsEmpty() {
		return series.Empty(s.WellID), fmt.Errorf("well %q: %w", s.WellID, errs.ErrMissingBaseFit)
	}
	if s.IsEmpty() {
		return s.Clone(), nil
	}

	baseFirst, _ := base.FirstOffset()
	shifted := base.Shift(s.Index[0] - baseFirst)
	rates := shifted.Predict(s.Index, 0)
	for i, ratio := range s.Values {
		rates[i] *= ratio
	}

	return s.WithValues(rates)
}

// ResolveModel predicts the rate equivalent of a fitted ratio model at offsets. The
// base model is shifted onto the ratio model's own first offset, not a well's.
func ResolveModel(ratio, base *segment.Model, offsets []int) ([]float64, error) {
	if ratio.IsEmpty() {
		return nil, fmt.Errorf("ratio fit: %w", errs.ErrInvalidSegmentModel)
	}
	if base.IsEmpty() {
		return nil, errs.ErrMissingBaseFit
	}

	ratioFirst, _ := ratio.FirstOffset()
	baseFirst, _ := base.FirstOffset()
	baseRates := base.Shift(ratioFirst-baseFirst).Predict(offsets, 0)
	out := ratio.Predict(offsets, 0)
	for i := range out {
		out[i] *= baseRates[i]
	}

	return out, nil
}

// Source is where a phase's fitted segments come from. It is either a RateSource or a
// RatioSource; the choice is made once per phase change instead of branching on
// phase-type strings at every call site.
type Source interface {
	// Type returns Rate or Ratio.
	Type() Type
	// ModelFor returns the phase's own fit for key.
	ModelFor(key segment.SeriesKey) *segment.Model
	// Resolve converts s into a rate series using the fit for key.
	Resolve(s series.WellSeries, key segment.SeriesKey) (series.WellSeries, error)
	// RatePrediction predicts the phase's rate from its fit for key.
	RatePrediction(key segment.SeriesKey, offsets []int) ([]float64, error)
}

// RateSource holds the fits of a rate phase.
type RateSource struct {
	Phase Phase
	Set   segment.Set
}

var _ Source = RateSource{}

func (r RateSource) Type() Type { return Rate }

func (r RateSource) ModelFor(key segment.SeriesKey) *segment.Model { return r.Set.Get(key) }

func (r RateSource) Resolve(s series.WellSeries, _ segment.SeriesKey) (series.WellSeries, error) {
	return s, nil
}

func (r RateSource) RatePrediction(key segment.SeriesKey, offsets []int) ([]float64, error) {
	m := r.Set.Get(key)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.Phase, key, err)
	}

	return m.Predict(offsets, 0), nil
}

// RatioSource holds the fits of a ratio phase and of its base phase.
type RatioSource struct {
	Phase     Phase
	Set       segment.Set
	BasePhase Phase
	Base      segment.Set
}

var _ Source = RatioSource{}

func (r RatioSource) Type() Type { return Ratio }

func (r RatioSource) ModelFor(key segment.SeriesKey) *segment.Model { return r.Set.Get(key) }

// Resolve multiplies s with the base phase's fit for the same key.
func (r RatioSource) Resolve(s series.WellSeries, key segment.SeriesKey) (series.WellSeries, error) {
	out, err := ResolveRate(s, Ratio, r.Base.Get(key))
	if err != nil {
		return out, fmt.Errorf("%s/%s %s: %w", r.Phase, r.BasePhase, key, err)
	}

	return out, nil
}

func (r RatioSource) RatePrediction(key segment.SeriesKey, offsets []int) ([]float64, error) {
	out, err := ResolveModel(r.Set.Get(key), r.Base.Get(key), offsets)
	if err != nil {
		return nil, fmt.Errorf("%s/%s %s: %w", r.Phase, r.BasePhase, key, err)
	}

	return out, nil
}
