package align

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combocurve/typecurve/phase"
	"github.com/combocurve/typecurve/series"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustSeries(t testing.TB, id string, origin time.Time, index []int, values []float64) series.WellSeries {
	t.Helper()
	s, err := series.New(id, origin, index, values)
	require.NoError(t, err)

	return s
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"align", ModeAlign, false},
		{"noalign", ModeNoAlign, false},
		{"no_align", ModeNoAlign, false},
		{"calendar", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnchorFor(t *testing.T) {
	assert.Equal(t, AnchorFirstProduction, AnchorFor(phase.Rate))
	assert.Equal(t, AnchorPeak, AnchorFor(phase.Ratio))
}

func TestAnchor(t *testing.T) {
	s := mustSeries(t, "w", time.Time{}, []int{3, 4, 5, 6}, []float64{1, 3, 3, 2})

	first, ok := Anchor(s, AnchorFirstProduction)
	require.True(t, ok)
	assert.Equal(t, 3, first)

	peak, ok := Anchor(s, AnchorPeak)
	require.True(t, ok)
	assert.Equal(t, 4, peak, "ties resolve to the earliest offset")

	t.Run("peak ignores values outside the window", func(t *testing.T) {
		w := mustSeries(t, "w", time.Time{}, []int{0, 1, 2, 3}, []float64{9, 1, 5, 2})
		w.Window = series.DataWindow{Start: 1, End: 4, HasProduction: true}

		got, ok := Anchor(w, AnchorPeak)
		require.True(t, ok)
		assert.Equal(t, 2, got)
	})

	t.Run("peak skips NaN samples", func(t *testing.T) {
		w := mustSeries(t, "w", time.Time{}, []int{0, 1, 2, 3}, []float64{math.NaN(), 5, 10, 3})

		got, ok := Anchor(w, AnchorPeak)
		require.True(t, ok)
		assert.Equal(t, 2, got)

		v, ok := ToAnchor(w, AnchorPeak).ValueAt(0)
		require.True(t, ok)
		assert.Equal(t, 10.0, v)
	})

	t.Run("peak over an all-NaN window", func(t *testing.T) {
		w := mustSeries(t, "w", time.Time{}, []int{0, 1}, []float64{math.NaN(), math.NaN()})

		_, ok := Anchor(w, AnchorPeak)
		assert.False(t, ok)
	})

	t.Run("no production", func(t *testing.T) {
		w := mustSeries(t, "w", time.Time{}, []int{0, 1}, []float64{1, 2})
		w.Window = series.DataWindow{}

		_, ok := Anchor(w, AnchorPeak)
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := Anchor(series.Empty("w"), AnchorFirstProduction)
		assert.False(t, ok)
	})
}

func TestToAnchor(t *testing.T) {
	origin := day(2024, time.January, 1)
	s := mustSeries(t, "w", origin, []int{5, 6, 7}, []float64{10, 8, 6})

	got := ToAnchor(s, AnchorFirstProduction)
	assert.Equal(t, []int{0, 1, 2}, got.Index)
	assert.Equal(t, []float64{10, 8, 6}, got.Values)
	assert.Equal(t, day(2024, time.January, 6), got.Origin)
	assert.Equal(t, s.Window, got.Window)

	// input untouched
	assert.Equal(t, []int{5, 6, 7}, s.Index)

	again := ToAnchor(got, AnchorFirstProduction)
	assert.Equal(t, got, again)
}

func TestToAnchorPeakIsIdempotent(t *testing.T) {
	s := mustSeries(t, "w", day(2023, time.March, 15), []int{0, 1, 2, 3, 4}, []float64{0.5, 0.9, 1.4, 1.2, 1.1})

	once := ToAnchor(s, AnchorPeak)
	assert.Equal(t, []int{-2, -1, 0, 1, 2}, once.Index)
	assert.Equal(t, day(2023, time.March, 17), once.Origin)

	twice := ToAnchor(once, AnchorPeak)
	assert.Equal(t, once, twice)
}

func TestToReference(t *testing.T) {
	ref := day(2024, time.January, 1)
	s := mustSeries(t, "w", day(2024, time.January, 10), []int{0, 1, 2}, []float64{1, 2, 3})

	got := ToReference(s, ref)
	assert.Equal(t, []int{9, 10, 11}, got.Index)
	assert.Equal(t, ref, got.Origin)
	assert.Equal(t, got, ToReference(got, ref))

	t.Run("unknown calendar is identity", func(t *testing.T) {
		w := mustSeries(t, "w", time.Time{}, []int{0, 1}, []float64{1, 2})
		assert.Equal(t, w, ToReference(w, ref))
	})
}

func TestAlignSet(t *testing.T) {
	ws := series.WellSet{Wells: []series.WellSeries{
		mustSeries(t, "a", day(2024, time.February, 1), []int{0, 1}, []float64{4, 3}),
		mustSeries(t, "b", day(2024, time.January, 1), []int{2, 3}, []float64{6, 5}),
	}}

	tests := []struct {
		name string
		mode Mode
		want [][]int
	}{
		{"align", ModeAlign, [][]int{{0, 1}, {0, 1}}},
		{"noalign", ModeNoAlign, [][]int{{31, 32}, {2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlignSet(ws, tt.mode, AnchorFirstProduction)
			require.Len(t, got, 2)
			for i := range got {
				assert.Equal(t, tt.want[i], got[i].Index)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 31, DaysBetween(day(2024, time.January, 1), day(2024, time.February, 1)))
	assert.Equal(t, -29, DaysBetween(day(2024, time.March, 1), day(2024, time.February, 1)))
	assert.Equal(t, 0, DaysBetween(day(2024, time.March, 1), time.Date(2024, time.March, 1, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, DaysInMonth(day(2024, time.February, 10)))
	assert.Equal(t, 28, DaysInMonth(day(2023, time.February, 10)))
}
