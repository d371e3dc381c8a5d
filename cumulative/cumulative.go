// Package cumulative turns raw rate series into cumulative-volume curves sampled on a
// fixed relative-time schedule, so wells of different lengths share one chart grid.
//
// Discrete integrates observed samples directly; Fitted integrates a segment model
// analytically on the same schedule for comparison.
package cumulative

import (
	"fmt"
	"math"
	"slices"

	"github.com/combocurve/typecurve/internal/options"
	"github.com/combocurve/typecurve/segment"
	"github.com/combocurve/typecurve/series"
)

// Point is one sample of a cumulative curve.
type Point struct {
	Offset int     `json:"offset" yaml:"offset"`
	Value  float64 `json:"value" yaml:"value"`
}

type config struct {
	schedule Schedule
	forecast *segment.Model
}

// Option configures Discrete, Fitted and EUR-style callers.
type Option = options.Option[*config]

// WithSchedule replaces DefaultSchedule.
func WithSchedule(s Schedule) Option {
	return options.New(func(c *config) error {
		if err := s.Validate(); err != nil {
			return err
		}
		c.schedule = slices.Clone(s)

		return nil
	})
}

// WithForecast extends the overlay past the observed end of life with the analytic
// volume of m. m must use the series' offset frame.
func WithForecast(m *segment.Model) Option {
	return options.NoError(func(c *config) {
		c.forecast = m
	})
}

func build(opts []Option) (config, error) {
	return options.Build(config{schedule: DefaultSchedule}, opts...)
}

// Discrete returns the cumulative volume of s on the schedule grid.
//
// The grid starts at the first observed offset. With honorFit and a fitStart before
// that offset, a bridging point (fitStart, 0) is prepended so the well and the fit share
// an origin. Volume is a step integral of the raw samples: sample k holds over
// [Index[k], Index[k+1]) and the last sample over one more step; NaN samples add
// nothing.
//
// Without overlayForecast, grid points at or beyond the last observed offset are
// dropped. With it, the curve runs to the end of life (observed end, or the forecast's
// last day when WithForecast is set) and ends with an explicit terminal point.
func Discrete(s series.WellSeries, fitStart *int, honorFit, overlayForecast bool, opts ...Option) ([]Point, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cfg, err := build(opts)
	if err != nil {
		return nil, err
	}
	if s.IsEmpty() {
		return nil, nil
	}

	integral := newStepIntegral(s)
	first := s.Index[0]
	last := s.Index[len(s.Index)-1]

	end := integral.end
	var forecastVolume func(t int) float64
	if overlayForecast && !cfg.forecast.IsEmpty() {
		fc := cfg.forecast
		if fcLast, _ := fc.LastOffset(); fcLast+1 > end {
			observedEnd := end
			forecastVolume = func(t int) float64 {
				if t <= observedEnd {
					return 0
				}
				return fc.VolumeBetween(float64(observedEnd), float64(t))
			}
			end = fcLast + 1
		}
	}

	relative := cfg.schedule.Offsets()
	points := make([]Point, 0, len(relative)+2)
	if honorFit && fitStart != nil && *fitStart < first {
		points = append(points, Point{Offset: *fitStart, Value: 0})
	}

	for _, r := range relative {
		t := first + r
		if !overlayForecast && t >= last {
			break
		}
		if overlayForecast && t > end {
			break
		}
		v := integral.at(t)
		if forecastVolume != nil {
			v += forecastVolume(t)
		}
		points = append(points, Point{Offset: t, Value: v})
	}

	if overlayForecast && (len(points) == 0 || points[len(points)-1].Offset != end) {
		v := integral.at(end)
		if forecastVolume != nil {
			v += forecastVolume(end)
		}
		points = append(points, Point{Offset: end, Value: v})
	}

	return points, nil
}

// Fitted integrates m analytically on the schedule grid starting at its first offset,
// up to the end of its last segment.
func Fitted(m *segment.Model, opts ...Option) ([]Point, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("fitted cumulative: %w", err)
	}
	cfg, err := build(opts)
	if err != nil {
		return nil, err
	}

	first, _ := m.FirstOffset()
	last, _ := m.LastOffset()
	end := last + 1

	offsets := make([]int, 0, 64)
	for _, r := range cfg.schedule.Offsets() {
		if first+r >= end {
			break
		}
		offsets = append(offsets, first+r)
	}
	offsets = append(offsets, end)

	values := m.CumulativeFrom(offsets, 0)
	points := make([]Point, len(offsets))
	for i, t := range offsets {
		points[i] = Point{Offset: t, Value: values[i]}
	}

	return points, nil
}

// Final returns the value of the last point, or NaN for an empty curve.
func Final(points []Point) float64 {
	if len(points) == 0 {
		return math.NaN()
	}

	return points[len(points)-1].Value
}

// stepIntegral holds prefix volumes at every sample offset.
type stepIntegral struct {
	index  []int
	values []float64
	prefix []float64
	end    int
}

func newStepIntegral(s series.WellSeries) stepIntegral {
	n := len(s.Index)
	si := stepIntegral{
		index:  s.Index,
		values: make([]float64, n),
		prefix: make([]float64, n),
		end:    s.Index[n-1] + s.Step(),
	}
	for k, v := range s.Values {
		if !math.IsNaN(v) {
			si.values[k] = v
		}
		if k > 0 {
			si.prefix[k] = si.prefix[k-1] + si.values[k-1]*float64(s.Index[k]-s.Index[k-1])
		}
	}

	return si
}

// at returns the observed volume over [index[0], t).
func (si stepIntegral) at(t int) float64 {
	if t <= si.index[0] {
		return 0
	}
	t = min(t, si.end)

	k, found := slices.BinarySearch(si.index, t)
	if !found {
		k--
	}

	return si.prefix[k] + si.values[k]*float64(t-si.index[k])
}
