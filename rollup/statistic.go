package rollup

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/internal/stats"
)

type statKind uint8

const (
	kindMean statKind = iota
	kindPercentile
)

// Statistic is a cross-well reduction applied at every time step.
type Statistic struct {
	kind statKind
	p    float64
}

// Mean returns the arithmetic mean statistic.
func Mean() Statistic {
	return Statistic{kind: kindMean}
}

// Median returns the 50th percentile statistic.
func Median() Statistic {
	return Statistic{kind: kindPercentile, p: 50}
}

// Percentile returns the p-th percentile statistic, p in [0, 100].
func Percentile(p float64) Statistic {
	return Statistic{kind: kindPercentile, p: p}
}

// DefaultStatistics are the rollups drawn on a type-curve chart.
func DefaultStatistics() []Statistic {
	return []Statistic{Mean(), Median(), Percentile(10), Percentile(90)}
}

// ParseStatistic accepts "mean", "median" and "pNN" (case-insensitive).
func ParseStatistic(name string) (Statistic, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch lower {
	case "mean", "average":
		return Mean(), nil
	case "median":
		return Median(), nil
	}

	if rest, ok := strings.CutPrefix(lower, "p"); ok {
		p, err := strconv.ParseFloat(rest, 64)
		if err == nil {
			s := Percentile(p)
			if err := s.Validate(); err != nil {
				return Statistic{}, err
			}

			return s, nil
		}
	}

	return Statistic{}, fmt.Errorf("%w: %q", errs.ErrInvalidStatistic, name)
}

// Validate rejects percentiles outside [0, 100].
func (s Statistic) Validate() error {
	if s.kind == kindPercentile && (math.IsNaN(s.p) || s.p < 0 || s.p > 100) {
		return fmt.Errorf("%w: percentile %g", errs.ErrInvalidStatistic, s.p)
	}

	return nil
}

// IsMean reports whether s is the mean.
func (s Statistic) IsMean() bool {
	return s.kind == kindMean
}

// P returns the percentile of a percentile statistic.
func (s Statistic) P() float64 {
	return s.p
}

// String returns the series name of s: mean, median, p10, p12.5, ...
func (s Statistic) String() string {
	switch {
	case s.kind == kindMean:
		return "mean"
	case s.p == 50:
		return "median"
	default:
		return "p" + strconv.FormatFloat(s.p, 'f', -1, 64)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Statistic) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Statistic) UnmarshalText(text []byte) error {
	parsed, err := ParseStatistic(string(text))
	if err != nil {
		return err
	}
	*s = parsed

	return nil
}

// reduce computes s over finite values. vals is reordered in place.
func (s Statistic) reduce(vals []float64) float64 {
	if s.kind == kindMean {
		return stats.Mean(vals)
	}
	slices.Sort(vals)

	return stats.Percentile(vals, s.p)
}

// Variant selects which wells contribute at a time step.
type Variant int

const (
	// All counts every well: observed values, or fill values where it has no sample.
	All Variant = iota
	// NoForecast counts only wells with an observed sample inside their data window.
	NoForecast
)

func (v Variant) String() string {
	if v == NoForecast {
		return "noForecast"
	}

	return "all"
}

// VariantFor maps the overlayForecast switch to a variant.
func VariantFor(overlayForecast bool) Variant {
	if overlayForecast {
		return All
	}

	return NoForecast
}

// SeriesName returns the output name of stat under v: mean, meanNoForecast, p90NoForecast...
func SeriesName(stat Statistic, v Variant) string {
	if v == NoForecast {
		return stat.String() + "NoForecast"
	}

	return stat.String()
}
