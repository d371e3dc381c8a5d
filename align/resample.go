package align

import (
	"fmt"
	"math"

	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/series"
)

// Resolution is the time granularity of a series.
type Resolution int

const (
	Daily Resolution = iota
	Monthly
)

func (r Resolution) String() string {
	switch r {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// ParseResolution parses "daily" or "monthly".
func ParseResolution(s string) (Resolution, error) {
	switch s {
	case "daily":
		return Daily, nil
	case "monthly":
		return Monthly, nil
	default:
		return 0, fmt.Errorf("unknown resolution %q", s)
	}
}

// Semantic selects how monthly buckets are valued.
type Semantic int

const (
	// SemanticVolume values a month as its produced volume (cumulative charts).
	SemanticVolume Semantic = iota
	// SemanticRate values a month as a monthly rate via DaysPerMonth (rate charts).
	SemanticRate
)

// Resample converts a daily series to res. Daily is a no-op.
func Resample(s series.WellSeries, res Resolution, sem Semantic) (series.WellSeries, error) {
	if res == Daily {
		return s.Clone(), nil
	}
	if sem == SemanticVolume {
		return ResampleVolume(s)
	}

	return ResampleRate(s)
}

// ResampleVolume buckets daily rates by calendar month. Each month is worth the mean
// daily rate of its samples times the number of days in that month.
func ResampleVolume(s series.WellSeries) (series.WellSeries, error) {
	return resampleMonthly(s, func(mean float64, days int) float64 {
		return mean * float64(days)
	})
}

// ResampleRate buckets daily rates by calendar month and converts the mean daily rate
// with the fixed DaysPerMonth factor.
func ResampleRate(s series.WellSeries) (series.WellSeries, error) {
	return resampleMonthly(s, func(mean float64, _ int) float64 {
		return mean * DaysPerMonth
	})
}

type monthBucket struct {
	key       int
	offset    int
	days      int
	sum       float64
	n         int
	producing bool
}

// resampleMonthly groups samples by calendar month. The monthly index is the day
// offset of the first day of each month; months with no finite sample are NaN.
func resampleMonthly(s series.WellSeries, value func(mean float64, days int) float64) (series.WellSeries, error) {
	if s.IsEmpty() {
		return s.Clone(), nil
	}
	if !s.HasCalendar() {
		return series.WellSeries{}, fmt.Errorf("well %q: monthly resample: %w", s.WellID, errs.ErrMissingCalendar)
	}

	origin := civil(s.Origin)
	buckets := make([]monthBucket, 0, len(s.Index)/28+2)
	for i, offset := range s.Index {
		date := origin.AddDate(0, 0, offset)
		key := monthKey(date)
		if len(buckets) == 0 || buckets[len(buckets)-1].key != key {
			start := monthStart(date)
			buckets = append(buckets, monthBucket{
				key:    key,
				offset: DaysBetween(origin, start),
				days:   DaysInMonth(date),
			})
		}
		b := &buckets[len(buckets)-1]
		if v := s.Values[i]; !math.IsNaN(v) {
			b.sum += v
			b.n++
		}
		if s.Producing(i) {
			b.producing = true
		}
	}

	out := series.WellSeries{
		WellID: s.WellID,
		Origin: origin,
		Index:  make([]int, len(buckets)),
		Values: make([]float64, len(buckets)),
	}
	first, last := -1, -1
	for i, b := range buckets {
		out.Index[i] = b.offset
		if b.n == 0 {
			out.Values[i] = math.NaN()
		} else {
			out.Values[i] = value(b.sum/float64(b.n), b.days)
		}
		if b.producing {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first >= 0 {
		out.Window = series.DataWindow{Start: first, End: last + 1, HasProduction: true}
	}

	return out, nil
}
