package segment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/combocurve/typecurve/errs"
)

func twoSegmentModel(t *testing.T) *Model {
	t.Helper()

	m, err := New(
		Segment{Family: FamilyHyperbolic, StartIndex: 31, EndIndex: 400, Q0: 800, D: 0.01, B: 0.9},
		Segment{Family: FamilyFlat, StartIndex: 0, EndIndex: 30, Q0: 800},
	)
	require.NoError(t, err)

	return m
}

func TestNew(t *testing.T) {
	t.Run("sorts by start", func(t *testing.T) {
		m := twoSegmentModel(t)
		segs := m.Segments()
		require.Len(t, segs, 2)
		require.Equal(t, FamilyFlat, segs[0].Family)
		first, ok := m.FirstOffset()
		require.True(t, ok)
		require.Equal(t, 0, first)
		last, ok := m.LastOffset()
		require.True(t, ok)
		require.Equal(t, 400, last)
	})

	t.Run("rejects overlap", func(t *testing.T) {
		_, err := New(
			Segment{Family: FamilyFlat, StartIndex: 0, EndIndex: 10, Q0: 1},
			Segment{Family: FamilyFlat, StartIndex: 10, EndIndex: 20, Q0: 1},
		)
		require.ErrorIs(t, err, errs.ErrInvalidSegmentModel)
	})

	t.Run("rejects invalid segment", func(t *testing.T) {
		_, err := New(Segment{Family: FamilyFlat, StartIndex: 5, EndIndex: 1, Q0: 1})
		require.ErrorIs(t, err, errs.ErrInvalidSegmentModel)
		require.ErrorIs(t, err, errs.ErrInvalidSegment)
	})

	t.Run("gaps are allowed", func(t *testing.T) {
		_, err := New(
			Segment{Family: FamilyFlat, StartIndex: 0, EndIndex: 10, Q0: 1},
			Segment{Family: FamilyFlat, StartIndex: 20, EndIndex: 30, Q0: 1},
		)
		require.NoError(t, err)
	})

	t.Run("does not alias input", func(t *testing.T) {
		in := []Segment{{Family: FamilyFlat, StartIndex: 0, EndIndex: 10, Q0: 1}}
		m := MustNew(in...)
		in[0].Q0 = 99
		require.Equal(t, 1.0, m.RateAt(3, 0))
	})
}

func TestPredict(t *testing.T) {
	t.Run("constant segment with fill", func(t *testing.T) {
		m := MustNew(Segment{Family: FamilyFlat, StartIndex: 0, EndIndex: 10, Q0: 2})
		require.Equal(t, []float64{2, 2, 2, 0}, m.Predict([]int{0, 5, 10, 15}, 0))
	})

	t.Run("custom fill before and between segments", func(t *testing.T) {
		m := MustNew(
			Segment{Family: FamilyFlat, StartIndex: 0, EndIndex: 4, Q0: 1},
			Segment{Family: FamilyFlat, StartIndex: 10, EndIndex: 14, Q0: 3},
		)
		got := m.Predict([]int{-1, 2, 7, 12, 20}, -1)
		require.Equal(t, []float64{-1, 1, -1, 3, -1}, got)
	})

	t.Run("empty model returns fill", func(t *testing.T) {
		var m *Model
		require.Equal(t, []float64{0, 0}, m.Predict([]int{1, 2}, 0))
		require.Equal(t, []float64{5, 5}, (&Model{}).Predict([]int{1, 2}, 5))
		require.ErrorIs(t, m.Validate(), errs.ErrInvalidSegmentModel)
	})
}

func TestShiftProperty(t *testing.T) {
	m := twoSegmentModel(t)

	for _, d := range []int{-45, -1, 0, 7, 365} {
		shifted := m.Shift(d)
		for tm := -60; tm <= 800; tm += 13 {
			require.Equal(t, m.RateAt(tm-d, 0), shifted.RateAt(tm, 0), "d=%d t=%d", d, tm)
		}
	}

	t.Run("shift leaves the original intact", func(t *testing.T) {
		_ = m.Shift(100)
		first, _ := m.FirstOffset()
		require.Equal(t, 0, first)
	})

	t.Run("empty shift", func(t *testing.T) {
		var m *Model
		require.True(t, m.Shift(3).IsEmpty())
	})
}

func TestCumulativeFrom(t *testing.T) {
	t.Run("flat rate", func(t *testing.T) {
		m := MustNew(Segment{Family: FamilyFlat, StartIndex: 0, EndIndex: 10, Q0: 2})
		got := m.CumulativeFrom([]int{0, 5, 11, 20}, 0)
		require.Equal(t, []float64{0, 10, 22, 22}, got)
	})

	t.Run("spans segment boundaries", func(t *testing.T) {
		m := twoSegmentModel(t)
		offsets := []int{0, 10, 31, 100, 401}
		got := m.CumulativeFrom(offsets, 0)

		require.Zero(t, got[0])
		require.InDelta(t, 800*10, got[1], 1e-9)
		require.InDelta(t, 800*31, got[2], 1e-9)
		require.InDelta(t, m.TotalVolume(), got[4], 1e-6)
		for i := 1; i < len(got); i++ {
			require.GreaterOrEqual(t, got[i], got[i-1])
		}
	})

	t.Run("starts from first requested offset", func(t *testing.T) {
		m := MustNew(Segment{Family: FamilyFlat, StartIndex: 0, EndIndex: 100, Q0: 1})
		got := m.CumulativeFrom([]int{50, 60}, 0)
		require.Equal(t, []float64{0, 10}, got)
	})

	t.Run("empty model returns fill", func(t *testing.T) {
		require.Equal(t, []float64{math.Inf(1)}, (*Model)(nil).CumulativeFrom([]int{1}, math.Inf(1)))
	})
}

func TestMaxRate(t *testing.T) {
	m := MustNew(
		Segment{Family: FamilyLinear, StartIndex: 0, EndIndex: 10, Q0: 100, D: 20},
		Segment{Family: FamilyExponential, StartIndex: 11, EndIndex: 100, Q0: 300, D: 0.05},
	)
	require.InDelta(t, 300, m.MaxRate(), 1e-12)
	require.True(t, math.IsNaN((*Model)(nil).MaxRate()))
}

func TestSet(t *testing.T) {
	s := Set{
		P50: MustNew(Segment{Family: FamilyFlat, EndIndex: 1, Q0: 1}),
		P10: MustNew(Segment{Family: FamilyFlat, EndIndex: 1, Q0: 2}),
		P90: &Model{},
	}
	require.Equal(t, []SeriesKey{P10, P50}, s.Keys())
	require.Nil(t, Set(nil).Get(P50))
	require.NotNil(t, s.Get(P10))
}
