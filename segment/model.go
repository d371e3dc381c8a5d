package segment

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/combocurve/typecurve/errs"
)

// Model is an immutable, ordered, non-overlapping list of segments.
//
// A nil or empty Model is valid: it represents a fit that has not been run, and every
// evaluation returns the caller's fill value.
type Model struct {
	segs []Segment
}

// New builds a Model. Segments are sorted by StartIndex; overlapping spans are rejected
// with errs.ErrInvalidSegmentModel. Gaps between segments are allowed.
func New(segs ...Segment) (*Model, error) {
	sorted := slices.Clone(segs)
	slices.SortStableFunc(sorted, func(a, b Segment) int {
		return a.StartIndex - b.StartIndex
	})

	for i, s := range sorted {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: segment %d: %w", errs.ErrInvalidSegmentModel, i, err)
		}
		if i > 0 && s.StartIndex <= sorted[i-1].EndIndex {
			return nil, fmt.Errorf("%w: segment %d [%d, %d] overlaps [%d, %d]",
				errs.ErrInvalidSegmentModel, i, s.StartIndex, s.EndIndex,
				sorted[i-1].StartIndex, sorted[i-1].EndIndex)
		}
	}

	return &Model{segs: sorted}, nil
}

// MustNew is New that panics on error. Intended for tests and static fixtures.
func MustNew(segs ...Segment) *Model {
	m, err := New(segs...)
	if err != nil {
		panic(err)
	}

	return m
}

// Len returns the number of segments.
func (m *Model) Len() int {
	if m == nil {
		return 0
	}

	return len(m.segs)
}

// IsEmpty reports whether the model has no segments.
func (m *Model) IsEmpty() bool {
	return m.Len() == 0
}

// Segments returns a copy of the segment list.
func (m *Model) Segments() []Segment {
	if m == nil {
		return nil
	}

	return slices.Clone(m.segs)
}

// FirstOffset returns the StartIndex of the first segment.
func (m *Model) FirstOffset() (int, bool) {
	if m.IsEmpty() {
		return 0, false
	}

	return m.segs[0].StartIndex, true
}

// LastOffset returns the EndIndex of the last segment.
func (m *Model) LastOffset() (int, bool) {
	if m.IsEmpty() {
		return 0, false
	}

	return m.segs[len(m.segs)-1].EndIndex, true
}

// Validate returns errs.ErrInvalidSegmentModel for an empty model, for callers that
// require a fit to be present.
func (m *Model) Validate() error {
	if m.IsEmpty() {
		return fmt.Errorf("%w: no segments", errs.ErrInvalidSegmentModel)
	}

	return nil
}

// Shift returns a new model with every segment translated by d days.
func (m *Model) Shift(d int) *Model {
	if m.IsEmpty() {
		return &Model{}
	}

	out := make([]Segment, len(m.segs))
	for i, s := range m.segs {
		out[i] = s.Shift(d)
	}

	return &Model{segs: out}
}

// find returns the position of the segment containing t, or -1.
func (m *Model) find(t int) int {
	i := sort.Search(len(m.segs), func(i int) bool {
		return m.segs[i].StartIndex > t
	}) - 1
	if i < 0 || !m.segs[i].Contains(t) {
		return -1
	}

	return i
}

// RateAt evaluates the model at a single offset.
func (m *Model) RateAt(t int, fill float64) float64 {
	if m.IsEmpty() {
		return fill
	}
	if i := m.find(t); i >= 0 {
		return m.segs[i].Rate(float64(t))
	}

	return fill
}

// Predict evaluates the model at each offset. Offsets outside every segment get fill.
//
// Example:
//
//	m := segment.MustNew(segment.Segment{Family: segment.FamilyFlat, EndIndex: 10, Q0: 2})
//	m.Predict([]int{0, 5, 10, 15}, 0) // [2 2 2 0]
func (m *Model) Predict(offsets []int, fill float64) []float64 {
	out := make([]float64, len(offsets))
	for i, t := range offsets {
		out[i] = m.RateAt(t, fill)
	}

	return out
}

// VolumeBetween integrates the model over the continuous interval [t0, t1].
// Each segment contributes over [StartIndex, EndIndex+1). Reversed bounds give a
// negative volume.
func (m *Model) VolumeBetween(t0, t1 float64) float64 {
	if m.IsEmpty() || t0 == t1 {
		return 0
	}
	if t1 < t0 {
		return -m.VolumeBetween(t1, t0)
	}

	total := 0.0
	for _, s := range m.segs {
		lo := math.Max(t0, float64(s.StartIndex))
		hi := math.Min(t1, float64(s.EndIndex+1))
		if lo >= hi {
			if float64(s.StartIndex) >= t1 {
				break
			}
			continue
		}
		total += s.Volume(lo, hi)
	}

	return total
}

// CumulativeFrom returns the analytic cumulative volume from offsets[0] to each
// requested offset. An empty model yields fill everywhere.
func (m *Model) CumulativeFrom(offsets []int, fill float64) []float64 {
	out := make([]float64, len(offsets))
	if m.IsEmpty() {
		for i := range out {
			out[i] = fill
		}

		return out
	}
	if len(offsets) == 0 {
		return out
	}

	cum := 0.0
	prev := float64(offsets[0])
	for i, t := range offsets {
		cum += m.VolumeBetween(prev, float64(t))
		prev = float64(t)
		out[i] = cum
	}

	return out
}

// TotalVolume integrates the full span of the model.
func (m *Model) TotalVolume() float64 {
	first, ok := m.FirstOffset()
	if !ok {
		return 0
	}
	last, _ := m.LastOffset()

	return m.VolumeBetween(float64(first), float64(last+1))
}

// MaxRate returns the largest boundary rate across segments, which is the model's peak
// because every family is monotonic inside its span. NaN for an empty model.
func (m *Model) MaxRate() float64 {
	if m.IsEmpty() {
		return math.NaN()
	}

	peak := math.Inf(-1)
	for _, s := range m.segs {
		peak = max(peak, s.StartRate(), s.EndRate())
	}

	return peak
}
