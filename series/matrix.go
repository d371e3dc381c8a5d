package series

import (
	"math"
	"slices"
)

// FillFunc supplies values for the grid offsets at which a well has no sample.
// It must return one value per offset; NaN marks the value as missing.
type FillFunc func(w WellSeries, offsets []int) []float64

// Matrix is a time-major, contiguous (steps × wells) layout of a well set on a shared
// offset grid. Row t holds every well's value at Index[t], which keeps per-step
// statistics cache friendly.
type Matrix struct {
	Index   []int
	WellIDs []string

	values    []float64
	producing []bool
}

// Grid returns the sorted union of all well offsets.
func Grid(wells []WellSeries) []int {
	total := 0
	for _, w := range wells {
		total += len(w.Index)
	}

	grid := make([]int, 0, total)
	for _, w := range wells {
		grid = append(grid, w.Index...)
	}
	slices.Sort(grid)

	return slices.Compact(grid)
}

// NewMatrix lays wells out on grid. Observed samples are copied as-is; offsets with no
// sample take the value from fill, or NaN when fill is nil. A cell is marked producing
// only when the well has a sample there inside its data window.
func NewMatrix(wells []WellSeries, grid []int, fill FillFunc) Matrix {
	nw := len(wells)
	m := Matrix{
		Index:     slices.Clone(grid),
		WellIDs:   make([]string, nw),
		values:    make([]float64, len(grid)*nw),
		producing: make([]bool, len(grid)*nw),
	}

	missingAt := make([]int, 0, len(grid))
	missingOffsets := make([]int, 0, len(grid))

	for w, well := range wells {
		m.WellIDs[w] = well.WellID
		missingAt = missingAt[:0]
		missingOffsets = missingOffsets[:0]

		pos := 0
		for t, offset := range grid {
			for pos < len(well.Index) && well.Index[pos] < offset {
				pos++
			}
			cell := t*nw + w
			if pos < len(well.Index) && well.Index[pos] == offset {
				m.values[cell] = well.Values[pos]
				m.producing[cell] = well.Producing(pos)
				continue
			}
			m.values[cell] = math.NaN()
			missingAt = append(missingAt, t)
			missingOffsets = append(missingOffsets, offset)
		}

		if fill == nil || len(missingOffsets) == 0 {
			continue
		}
		filled := fill(well, missingOffsets)
		for i, t := range missingAt {
			if i < len(filled) {
				m.values[t*nw+w] = filled[i]
			}
		}
	}

	return m
}

// Steps returns the number of grid offsets.
func (m Matrix) Steps() int {
	return len(m.Index)
}

// Wells returns the number of wells.
func (m Matrix) Wells() int {
	return len(m.WellIDs)
}

// Row returns the values of every well at step t. The slice aliases the matrix.
func (m Matrix) Row(t int) []float64 {
	nw := len(m.WellIDs)
	return m.values[t*nw : (t+1)*nw]
}

// ProducingRow returns the producing flags at step t. The slice aliases the matrix.
func (m Matrix) ProducingRow(t int) []bool {
	nw := len(m.WellIDs)
	return m.producing[t*nw : (t+1)*nw]
}

// At returns the value and producing flag of well w at step t.
func (m Matrix) At(t, w int) (float64, bool) {
	cell := t*len(m.WellIDs) + w
	return m.values[cell], m.producing[cell]
}

// Column copies well w's values across all steps.
func (m Matrix) Column(w int) []float64 {
	out := make([]float64, len(m.Index))
	for t := range m.Index {
		out[t], _ = m.At(t, w)
	}

	return out
}
