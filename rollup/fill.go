package rollup

import (
	"math"
	"sort"

	"github.com/combocurve/typecurve/segment"
	"github.com/combocurve/typecurve/series"
)

// FillNone leaves offsets without a sample missing (NaN). It is the default, so the
// All variant over unfilled input only counts observed samples.
var FillNone series.FillFunc

// FillZero treats offsets without a sample as zero production.
func FillZero(_ series.WellSeries, offsets []int) []float64 {
	return make([]float64, len(offsets))
}

// FillHold carries the most recent finite observation forward. Offsets before a
// well's first sample stay NaN.
func FillHold(w series.WellSeries, offsets []int) []float64 {
	out := make([]float64, len(offsets))
	for i, t := range offsets {
		out[i] = math.NaN()
		pos := sort.SearchInts(w.Index, t+1) - 1
		for ; pos >= 0; pos-- {
			if v := w.Values[pos]; !math.IsNaN(v) {
				out[i] = v
				break
			}
		}
	}

	return out
}

// FillModel fills each well from its own fitted model, keyed by well ID. Wells without
// a model, and offsets outside the model's segments, stay NaN.
func FillModel(models map[string]*segment.Model) series.FillFunc {
	return func(w series.WellSeries, offsets []int) []float64 {
		return models[w.WellID].Predict(offsets, math.NaN())
	}
}
