package rollup

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/segment"
	"github.com/combocurve/typecurve/series"
)

func well(t testing.TB, id string, index []int, values []float64) series.WellSeries {
	t.Helper()
	s, err := series.New(id, time.Time{}, index, values)
	require.NoError(t, err)

	return s
}

func TestAggregateMeanAll(t *testing.T) {
	wells := []series.WellSeries{
		well(t, "a", []int{0, 1, 2}, []float64{10, 8, 6}),
		well(t, "b", []int{0, 1, 2}, []float64{5, 4, 3}),
	}

	got, err := Aggregate(wells, Mean(), All)
	require.NoError(t, err)
	assert.Equal(t, "mean", got.Name)
	assert.Equal(t, []int{0, 1, 2}, got.Index)
	assert.InDeltaSlice(t, []float64{7.5, 6, 4.5}, got.Values, 1e-12)
	assert.Equal(t, []int{2, 2, 2}, got.Count)
}

func TestAggregateNoForecastHonorsWindow(t *testing.T) {
	index := []int{0, 1, 2, 3, 4, 5, 6}
	partial := well(t, "partial", index, []float64{1, 2, 3, 4, 5, 6, 7})
	partial.Window = series.DataWindow{Start: 2, End: 5, HasProduction: true}
	full := well(t, "full", index, []float64{10, 10, 10, 10, 10, 10, 10})
	wells := []series.WellSeries{partial, full}

	noForecast, err := Aggregate(wells, Mean(), NoForecast)
	require.NoError(t, err)
	assert.Equal(t, "meanNoForecast", noForecast.Name)
	assert.InDeltaSlice(t, []float64{10, 10, 6.5, 7, 7.5, 10, 10}, noForecast.Values, 1e-12)
	assert.Equal(t, []int{1, 1, 2, 2, 2, 1, 1}, noForecast.Count)

	all, err := Aggregate(wells, Mean(), All)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5.5, 6, 6.5, 7, 7.5, 8, 8.5}, all.Values, 1e-12)
	assert.Equal(t, []int{2, 2, 2, 2, 2, 2, 2}, all.Count)
}

func TestAggregatePercentiles(t *testing.T) {
	wells := []series.WellSeries{
		well(t, "a", []int{0}, []float64{4}),
		well(t, "b", []int{0}, []float64{1}),
		well(t, "c", []int{0}, []float64{3}),
		well(t, "d", []int{0}, []float64{2}),
	}

	tests := []struct {
		stat Statistic
		want float64
	}{
		{Median(), 2.5},
		{Percentile(10), 1.3},
		{Percentile(90), 3.7},
		{Percentile(0), 1},
		{Percentile(100), 4},
		{Mean(), 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.stat.String(), func(t *testing.T) {
			got, err := Aggregate(wells, tt.stat, All)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.Values[0], 1e-12)
		})
	}
}

func TestPercentileMonotonicity(t *testing.T) {
	wells := make([]series.WellSeries, 0, 25)
	for i := range 25 {
		v := math.Mod(float64(i*37), 11) + float64(i)/3
		wells = append(wells, well(t, "w", []int{0, 1}, []float64{v, v * v}))
	}

	out, err := AggregateMany(wells, []Statistic{Percentile(10), Median(), Percentile(90)}, []Variant{All})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for step := range 2 {
		assert.LessOrEqual(t, out[0].Values[step], out[1].Values[step])
		assert.LessOrEqual(t, out[1].Values[step], out[2].Values[step])
	}
}

func TestAggregateDegenerate(t *testing.T) {
	t.Run("single well returns its value", func(t *testing.T) {
		got, err := Aggregate([]series.WellSeries{well(t, "a", []int{3}, []float64{7})}, Percentile(90), All)
		require.NoError(t, err)
		assert.Equal(t, []float64{7}, got.Values)
	})

	t.Run("no wells", func(t *testing.T) {
		got, err := Aggregate(nil, Mean(), All)
		require.ErrorIs(t, err, errs.ErrInsufficientWells)
		assert.Equal(t, "mean", got.Name)
		assert.Zero(t, got.Len())
	})

	t.Run("no contributors is NaN, not zero", func(t *testing.T) {
		wells := []series.WellSeries{well(t, "a", []int{0, 1}, []float64{1, 2})}
		got, err := Aggregate(wells, Mean(), NoForecast, WithGrid([]int{0, 1, 2}))
		require.NoError(t, err)
		assert.True(t, math.IsNaN(got.Values[2]))
		assert.Equal(t, []int{1, 1, 0}, got.Count)
	})

	t.Run("NaN samples are skipped", func(t *testing.T) {
		wells := []series.WellSeries{
			well(t, "a", []int{0}, []float64{math.NaN()}),
			well(t, "b", []int{0}, []float64{4}),
		}
		got, err := Aggregate(wells, Mean(), All)
		require.NoError(t, err)
		assert.Equal(t, []float64{4}, got.Values)
		assert.Equal(t, []int{1}, got.Count)
	})
}

func TestAggregateErrors(t *testing.T) {
	wells := []series.WellSeries{well(t, "a", []int{0}, []float64{1})}

	_, err := Aggregate(wells, Percentile(120), All)
	require.ErrorIs(t, err, errs.ErrInvalidStatistic)

	_, err = Aggregate(wells, Mean(), All, WithGrid([]int{2, 1}))
	require.ErrorIs(t, err, errs.ErrUnsortedIndex)

	bad := series.WellSeries{WellID: "bad", Index: []int{0, 1}, Values: []float64{1}}
	_, err = Aggregate([]series.WellSeries{bad}, Mean(), All)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
	assert.False(t, errs.IsRecoverable(err))
}

func TestFillPolicies(t *testing.T) {
	long := well(t, "long", []int{0, 1, 2, 3}, []float64{8, 8, 8, 8})
	short := well(t, "short", []int{0, 1}, []float64{4, 2})
	idle := series.Empty("idle")
	wells := []series.WellSeries{long, short, idle}

	model := segment.MustNew(segment.Segment{Family: segment.FamilyFlat, StartIndex: 2, EndIndex: 2, Q0: 1})

	tests := []struct {
		name  string
		fill  series.FillFunc
		want  []float64
		count []int
	}{
		{"none", FillNone, []float64{6, 5, 8, 8}, []int{2, 2, 1, 1}},
		{"zero", FillZero, []float64{4, 10.0 / 3, 8.0 / 3, 8.0 / 3}, []int{3, 3, 3, 3}},
		{"hold", FillHold, []float64{6, 5, 5, 5}, []int{2, 2, 2, 2}},
		{"model", FillModel(map[string]*segment.Model{"short": model}), []float64{6, 5, 4.5, 8}, []int{2, 2, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(wells, Mean(), All, WithFill(tt.fill))
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got.Values, 1e-12)
			assert.Equal(t, tt.count, got.Count)

			// fill never leaks into the observed-only variant
			nf, err := Aggregate(wells, Mean(), NoForecast, WithFill(tt.fill))
			require.NoError(t, err)
			assert.InDeltaSlice(t, []float64{6, 5, 8, 8}, nf.Values, 1e-12)
		})
	}
}

func TestFillHoldSkipsGapsAndNaN(t *testing.T) {
	w := well(t, "w", []int{2, 5, 9}, []float64{3, math.NaN(), 1})

	got := FillHold(w, []int{0, 3, 6, 10})
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, []float64{3, 3, 1}, got[1:])
}

func TestRollups(t *testing.T) {
	wells := []series.WellSeries{
		well(t, "a", []int{0, 1}, []float64{10, 8}),
		well(t, "b", []int{0, 1}, []float64{5, 4}),
	}

	out, err := Rollups(wells)
	require.NoError(t, err)

	names := make([]string, len(out))
	for i, a := range out {
		names[i] = a.Name
	}
	assert.Equal(t, []string{
		series.NameMean, series.NameMeanNoForecast,
		series.NameMedian, series.NameMedianNoForecast,
		series.NameP10, "p10NoForecast",
		series.NameP90, "p90NoForecast",
	}, names)
}

func TestParseStatistic(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"mean", "mean", false},
		{"Median", "median", false},
		{"P90", "p90", false},
		{"p12.5", "p12.5", false},
		{"p50", "median", false},
		{"p101", "", true},
		{"mode", "", true},
		{"p", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatistic(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidStatistic)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestVariantFor(t *testing.T) {
	assert.Equal(t, All, VariantFor(true))
	assert.Equal(t, NoForecast, VariantFor(false))
	assert.Equal(t, "p90NoForecast", SeriesName(Percentile(90), NoForecast))
}
