package segment

import "slices"

// SeriesKey names one percentile series of a fit.
type SeriesKey string

const (
	P10  SeriesKey = "P10"
	P50  SeriesKey = "P50"
	P90  SeriesKey = "P90"
	Best SeriesKey = "best"
)

// Set maps percentile series to their models. One Set exists per phase.
type Set map[SeriesKey]*Model

// Get returns the model for key, or nil. Safe on a nil Set.
func (s Set) Get(key SeriesKey) *Model {
	if s == nil {
		return nil
	}

	return s[key]
}

// Keys returns the populated keys in sorted order.
func (s Set) Keys() []SeriesKey {
	keys := make([]SeriesKey, 0, len(s))
	for k, m := range s {
		if !m.IsEmpty() {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	return keys
}
