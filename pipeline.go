package typecurve

import (
	"math"

	"github.com/combocurve/typecurve/align"
	"github.com/combocurve/typecurve/config"
	"github.com/combocurve/typecurve/phase"
	"github.com/combocurve/typecurve/rollup"
	"github.com/combocurve/typecurve/segment"
	"github.com/combocurve/typecurve/series"
)

// prepared is one analog well after resampling, alignment and phase resolution, with
// its per-well inputs moved into the same offset frame.
type prepared struct {
	series   series.WellSeries
	forecast *segment.Model
	fitStart *int
}

// prepare runs resample, align and phase resolution over the analog wells. A well
// whose ratio cannot be resolved stays in the set as an empty series so it still
// counts where a fill policy supplies values for it.
func (e *Engine) prepare(req Request, res align.Resolution, sem align.Semantic, rec *recorder) ([]prepared, error) {
	resampled := series.WellSet{Wells: make([]series.WellSeries, len(req.Wells.Wells))}
	for i, w := range req.Wells.Wells {
		r, err := align.Resample(w, res, sem)
		if err != nil {
			return nil, err
		}
		resampled.Wells[i] = r
	}

	aligned := align.AlignSet(resampled, req.Mode, align.AnchorFor(req.phaseType()))
	out := make([]prepared, len(aligned))
	for i, s := range aligned {
		shift := frameShift(resampled.Wells[i], s)
		id := s.WellID

		p := prepared{series: s}
		if m := req.Forecasts[id]; !m.IsEmpty() {
			p.forecast = m.Shift(shift)
		}
		if start, ok := req.FitStarts[id]; ok {
			shifted := start + shift
			p.fitStart = &shifted
		}

		if req.phaseType() == phase.Ratio {
			resolved, err := req.Source.Resolve(s, req.key())
			if err := rec.add(id, string(req.key()), err); err != nil {
				return nil, err
			}
			p.series = resolved
		}
		out[i] = p
	}

	return out, nil
}

// frameShift returns how far alignment moved the offsets of a well.
func frameShift(before, after series.WellSeries) int {
	b, ok := before.FirstOffset()
	if !ok {
		return 0
	}
	a, _ := after.FirstOffset()

	return a - b
}

func wellSeries(ps []prepared) []series.WellSeries {
	out := make([]series.WellSeries, len(ps))
	for i, p := range ps {
		out[i] = p.series
	}

	return out
}

// fillFunc maps the request's fill policy name to a rollup filler. Model fills predict
// daily rates, so monthly rollups scale them like ResampleRate does.
func fillFunc(req Request, ps []prepared) series.FillFunc {
	switch req.Fill {
	case config.FillZero:
		return rollup.FillZero
	case config.FillHold:
		return rollup.FillHold
	case config.FillModel:
		models := make(map[string]*segment.Model, len(ps))
		for _, p := range ps {
			if p.forecast != nil {
				models[p.series.WellID] = p.forecast
			}
		}
		fill := rollup.FillModel(models)
		if req.Resolution != align.Monthly {
			return fill
		}

		return func(w series.WellSeries, offsets []int) []float64 {
			return scale(fill(w, offsets), align.DaysPerMonth)
		}
	default:
		return rollup.FillNone
	}
}

func scale(values []float64, factor float64) []float64 {
	for i, v := range values {
		if !math.IsNaN(v) {
			values[i] = v * factor
		}
	}

	return values
}
