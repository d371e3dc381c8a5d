package series

import (
	"math"
	"slices"
)

// Standard rollup names.
const (
	NameMean             = "mean"
	NameMedian           = "median"
	NameP10              = "p10"
	NameP90              = "p90"
	NameMeanNoForecast   = "meanNoForecast"
	NameMedianNoForecast = "medianNoForecast"
)

// Aggregated is a named output series. Count holds the number of wells that
// contributed at each index; a zero count pairs with a NaN value.
type Aggregated struct {
	Name   string    `json:"name" yaml:"name"`
	Index  []int     `json:"index" yaml:"index"`
	Values []float64 `json:"values" yaml:"values"`
	Count  []int     `json:"count,omitempty" yaml:"count,omitempty"`
}

// Len returns the number of points.
func (a Aggregated) Len() int {
	return len(a.Index)
}

// Finite returns a copy without the NaN points, for renderers that cannot plot gaps.
func (a Aggregated) Finite() Aggregated {
	out := Aggregated{Name: a.Name}
	for i, v := range a.Values {
		if math.IsNaN(v) {
			continue
		}
		out.Index = append(out.Index, a.Index[i])
		out.Values = append(out.Values, v)
		if i < len(a.Count) {
			out.Count = append(out.Count, a.Count[i])
		}
	}

	return out
}

// Clone returns a deep copy.
func (a Aggregated) Clone() Aggregated {
	a.Index = slices.Clone(a.Index)
	a.Values = slices.Clone(a.Values)
	a.Count = slices.Clone(a.Count)

	return a
}
