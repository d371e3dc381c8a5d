package rollup

import (
	"fmt"
	"math"
	"slices"

	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/internal/options"
	"github.com/combocurve/typecurve/internal/pool"
	"github.com/combocurve/typecurve/series"
)

type config struct {
	fill series.FillFunc
	grid []int
}

// Option configures Aggregate and AggregateMany.
type Option = options.Option[*config]

// WithFill sets the policy that supplies values where a well has no sample. It only
// affects the All variant.
func WithFill(fill series.FillFunc) Option {
	return options.NoError(func(c *config) {
		c.fill = fill
	})
}

// WithGrid evaluates the rollup on a fixed, strictly increasing offset grid instead of
// the union of the wells' offsets.
func WithGrid(grid []int) Option {
	return options.New(func(c *config) error {
		for i := 1; i < len(grid); i++ {
			if grid[i] <= grid[i-1] {
				return fmt.Errorf("rollup grid: %w at position %d", errs.ErrUnsortedIndex, i)
			}
		}
		c.grid = slices.Clone(grid)

		return nil
	})
}

// Aggregate reduces wells to one series with stat at every grid offset.
//
// Offsets where no well contributes get NaN and a zero count. An empty well list
// returns an empty series and errs.ErrInsufficientWells. Shape errors in the input
// abort the call.
//
// Example:
//
//	mean, err := rollup.Aggregate(wells, rollup.Mean(), rollup.All)
func Aggregate(wells []series.WellSeries, stat Statistic, variant Variant, opts ...Option) (series.Aggregated, error) {
	out, err := AggregateMany(wells, []Statistic{stat}, []Variant{variant}, opts...)
	if len(out) == 0 {
		return series.Aggregated{Name: SeriesName(stat, variant)}, err
	}

	return out[0], err
}

// AggregateMany computes every (stat, variant) pair over one shared matrix. Results are
// ordered by statistic, then variant.
func AggregateMany(wells []series.WellSeries, stats []Statistic, variants []Variant, opts ...Option) ([]series.Aggregated, error) {
	for _, s := range stats {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	for _, w := range wells {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}

	cfg, err := options.Build(config{}, opts...)
	if err != nil {
		return nil, err
	}

	grid := cfg.grid
	if grid == nil {
		grid = series.Grid(wells)
	}

	if len(wells) == 0 {
		out := make([]series.Aggregated, 0, len(stats)*len(variants))
		for _, s := range stats {
			for _, v := range variants {
				out = append(out, missing(SeriesName(s, v), grid))
			}
		}

		return out, fmt.Errorf("rollup: %w", errs.ErrInsufficientWells)
	}

	m := series.NewMatrix(wells, grid, cfg.fill)
	out := make([]series.Aggregated, 0, len(stats)*len(variants))
	for _, s := range stats {
		for _, v := range variants {
			out = append(out, reduceMatrix(m, s, v))
		}
	}

	return out, nil
}

// reduceMatrix walks the matrix row by row. The column scratch buffer is pooled.
func reduceMatrix(m series.Matrix, stat Statistic, variant Variant) series.Aggregated {
	out := series.Aggregated{
		Name:   SeriesName(stat, variant),
		Index:  slices.Clone(m.Index),
		Values: make([]float64, m.Steps()),
		Count:  make([]int, m.Steps()),
	}

	column, release := pool.GetFloat64Slice(m.Wells())
	defer release()

	for t := range m.Steps() {
		row := m.Row(t)
		producing := m.ProducingRow(t)
		n := 0
		for w, v := range row {
			if variant == NoForecast && !producing[w] {
				continue
			}
			if math.IsNaN(v) {
				continue
			}
			column[n] = v
			n++
		}
		out.Count[t] = n
		if n == 0 {
			out.Values[t] = math.NaN()
			continue
		}
		out.Values[t] = stat.reduce(column[:n])
	}

	return out
}

func missing(name string, grid []int) series.Aggregated {
	out := series.Aggregated{
		Name:   name,
		Index:  slices.Clone(grid),
		Values: make([]float64, len(grid)),
		Count:  make([]int, len(grid)),
	}
	for i := range out.Values {
		out.Values[i] = math.NaN()
	}

	return out
}

// Rollups is the standard chart set: every default statistic under both variants.
func Rollups(wells []series.WellSeries, opts ...Option) ([]series.Aggregated, error) {
	return AggregateMany(wells, DefaultStatistics(), []Variant{All, NoForecast}, opts...)
}
