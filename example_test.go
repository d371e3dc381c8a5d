package typecurve_test

import (
	"fmt"
	"time"

	"github.com/combocurve/typecurve"
	"github.com/combocurve/typecurve/phase"
	"github.com/combocurve/typecurve/segment"
	"github.com/combocurve/typecurve/series"
)

func ExampleEngine_Rollup() {
	w1, _ := series.New("w1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []int{0, 1, 2, 3}, []float64{10, 10, 10, 10})
	w2, _ := series.New("w2", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), []int{5, 6, 7}, []float64{30, 40, 50})

	engine, _ := typecurve.New()
	req, _ := engine.NewRequest(series.WellSet{Wells: []series.WellSeries{w1, w2}}, nil)
	res, _ := engine.Rollup(req)

	mean, _ := res.Find("mean")
	fmt.Println(mean.Index, mean.Values, mean.Count)
	// Output: [0 1 2 3] [20 25 30 10] [2 2 2 1]
}

func ExampleEngine_EURDistribution() {
	w1, _ := series.New("w1", time.Time{}, []int{0, 1, 2, 3}, []float64{10, 10, 10, 10})
	w2, _ := series.New("w2", time.Time{}, []int{0, 1, 2}, []float64{30, 40, 50})

	engine, _ := typecurve.New()
	req, _ := engine.NewRequest(series.WellSet{Wells: []series.WellSeries{w1, w2}}, nil)
	req.Forecasts = map[string]*segment.Model{
		"w1": segment.MustNew(segment.Segment{Family: segment.FamilyFlat, StartIndex: 4, EndIndex: 13, Q0: 2}),
	}
	res, _ := engine.EURDistribution(req)

	for _, v := range res.Values {
		fmt.Printf("%s %.0f\n", v.WellID, v.Value)
	}
	// Output:
	// w1 60
	// w2 120
}

func ExampleEngine_Probit() {
	var wells []series.WellSeries
	for i, rate := range []float64{5, 8, 12, 20, 35} {
		w, _ := series.New(fmt.Sprintf("w%d", i), time.Time{}, []int{0}, []float64{rate})
		wells = append(wells, w)
	}

	engine, _ := typecurve.New()
	req, _ := engine.NewRequest(series.WellSet{Wells: wells}, phase.RateSource{Phase: phase.Oil})
	res, _ := engine.Probit(req, typecurve.MeasurePeak)

	fmt.Println(res.Probit.N, res.Probit.P10 > res.Probit.P50, res.Probit.P50 > res.Probit.P90)
	// Output: 5 true true
}
