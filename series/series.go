package series

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/combocurve/typecurve/errs"
)

// DataWindow marks the positions [Start, End) of Values that hold observed production.
type DataWindow struct {
	Start         int  `json:"start" yaml:"start"`
	End           int  `json:"end" yaml:"end"`
	HasProduction bool `json:"has_production" yaml:"has_production"`
}

// Len returns the number of positions inside the window.
func (w DataWindow) Len() int {
	if !w.HasProduction || w.End <= w.Start {
		return 0
	}

	return w.End - w.Start
}

// Contains reports whether position i lies inside the window.
func (w DataWindow) Contains(i int) bool {
	return w.HasProduction && i >= w.Start && i < w.End
}

// WellSeries is one analog well's production.
//
// Index holds strictly increasing day offsets relative to Origin, the calendar date of
// offset 0. A zero Origin means the calendar is unknown; calendar-dependent operations
// (monthly resampling, NoAlign) then fail or degrade as documented on them.
type WellSeries struct {
	WellID string     `json:"well_id" yaml:"well_id"`
	Origin time.Time  `json:"origin" yaml:"origin"`
	Index  []int      `json:"index" yaml:"index"`
	Values []float64  `json:"values" yaml:"values"`
	Window DataWindow `json:"window" yaml:"window"`
}

// New builds a WellSeries whose window covers every sample.
func New(wellID string, origin time.Time, index []int, values []float64) (WellSeries, error) {
	s := WellSeries{
		WellID: wellID,
		Origin: origin,
		Index:  index,
		Values: values,
		Window: DataWindow{Start: 0, End: len(values), HasProduction: len(values) > 0},
	}
	if err := s.Validate(); err != nil {
		return WellSeries{}, err
	}

	return s, nil
}

// Empty returns a series with no samples and no production. Such a well still counts
// in "all wells" denominators when a fill policy supplies values for it.
func Empty(wellID string) WellSeries {
	return WellSeries{WellID: wellID}
}

// Validate checks the shape invariants. Failures are programmer errors.
func (s WellSeries) Validate() error {
	if len(s.Index) != len(s.Values) {
		return fmt.Errorf("well %q: %w: %d index vs %d values", s.WellID, errs.ErrShapeMismatch, len(s.Index), len(s.Values))
	}
	w := s.Window
	if w.Start < 0 || w.Start > w.End || w.End > len(s.Values) {
		return fmt.Errorf("well %q: %w: [%d, %d) over %d values", s.WellID, errs.ErrInvalidWindow, w.Start, w.End, len(s.Values))
	}
	for i := 1; i < len(s.Index); i++ {
		if s.Index[i] <= s.Index[i-1] {
			return fmt.Errorf("well %q: %w at position %d", s.WellID, errs.ErrUnsortedIndex, i)
		}
	}

	return nil
}

// Len returns the number of samples.
func (s WellSeries) Len() int {
	return len(s.Index)
}

// IsEmpty reports whether the series has no samples.
func (s WellSeries) IsEmpty() bool {
	return len(s.Index) == 0
}

// HasCalendar reports whether Origin is set.
func (s WellSeries) HasCalendar() bool {
	return !s.Origin.IsZero()
}

// FirstOffset returns Index[0].
func (s WellSeries) FirstOffset() (int, bool) {
	if s.IsEmpty() {
		return 0, false
	}

	return s.Index[0], true
}

// LastOffset returns the last index.
func (s WellSeries) LastOffset() (int, bool) {
	if s.IsEmpty() {
		return 0, false
	}

	return s.Index[len(s.Index)-1], true
}

// Step returns the spacing implied by the last two samples, or 1 for shorter series.
func (s WellSeries) Step() int {
	n := len(s.Index)
	if n < 2 {
		return 1
	}

	return s.Index[n-1] - s.Index[n-2]
}

// Position returns the position of offset in Index.
func (s WellSeries) Position(offset int) (int, bool) {
	i := sort.SearchInts(s.Index, offset)
	if i < len(s.Index) && s.Index[i] == offset {
		return i, true
	}

	return 0, false
}

// ValueAt returns the sample at offset.
func (s WellSeries) ValueAt(offset int) (float64, bool) {
	i, ok := s.Position(offset)
	if !ok {
		return 0, false
	}

	return s.Values[i], true
}

// Producing reports whether position i is inside the data window.
func (s WellSeries) Producing(i int) bool {
	return s.Window.Contains(i)
}

// DateOf returns the calendar date of offset.
func (s WellSeries) DateOf(offset int) time.Time {
	return s.Origin.AddDate(0, 0, offset)
}

// Clone returns a deep copy.
func (s WellSeries) Clone() WellSeries {
	s.Index = slices.Clone(s.Index)
	s.Values = slices.Clone(s.Values)

	return s
}

// WithValues returns a copy sharing nothing with s whose values are replaced.
// len(values) must equal s.Len().
func (s WellSeries) WithValues(values []float64) (WellSeries, error) {
	if len(values) != len(s.Index) {
		return WellSeries{}, fmt.Errorf("well %q: %w", s.WellID, errs.ErrShapeMismatch)
	}
	out := s
	out.Index = slices.Clone(s.Index)
	out.Values = slices.Clone(values)

	return out, nil
}

// WellSet groups the analog wells of a fit with the wells excluded from it.
// The engine only reads a WellSet.
type WellSet struct {
	Wells    []WellSeries `json:"wells" yaml:"wells"`
	Excluded []WellSeries `json:"excluded" yaml:"excluded"`
}

// Validate validates every well.
func (ws WellSet) Validate() error {
	for _, w := range ws.Wells {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	for _, w := range ws.Excluded {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("excluded: %w", err)
		}
	}

	return nil
}

// ReferenceDate returns the earliest known Origin among the analog wells.
func (ws WellSet) ReferenceDate() (time.Time, bool) {
	var ref time.Time
	for _, w := range ws.Wells {
		if !w.HasCalendar() {
			continue
		}
		if ref.IsZero() || w.Origin.Before(ref) {
			ref = w.Origin
		}
	}

	return ref, !ref.IsZero()
}

// IDs returns the analog well IDs in order.
func (ws WellSet) IDs() []string {
	ids := make([]string, len(ws.Wells))
	for i, w := range ws.Wells {
		ids[i] = w.WellID
	}

	return ids
}
