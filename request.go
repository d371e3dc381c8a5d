package typecurve

import (
	"fmt"
	"maps"
	"slices"

	"github.com/combocurve/typecurve/align"
	"github.com/combocurve/typecurve/config"
	"github.com/combocurve/typecurve/cumulative"
	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/internal/hash"
	"github.com/combocurve/typecurve/phase"
	"github.com/combocurve/typecurve/rollup"
	"github.com/combocurve/typecurve/segment"
	"github.com/combocurve/typecurve/series"
)

// Request is one chart's worth of input: the well set, the phase fits and the chart
// switches.
type Request struct {
	Wells series.WellSet
	Phase phase.Phase
	// Source holds the type-curve fits of Phase. Nil means the phase is not fitted yet;
	// rate phases still roll up, ratio phases cannot be resolved.
	Source phase.Source
	// Key selects the fitted series used for ratio resolution and fit overlays.
	// Empty means segment.P50.
	Key segment.SeriesKey

	Mode            align.Mode
	Resolution      align.Resolution
	OverlayForecast bool
	HonorFit        bool
	Statistics      []rollup.Statistic
	Fill            string
	StatConvention  bool
	Schedule        cumulative.Schedule

	// Forecasts are per-well fitted models keyed by well ID, in the well's own offset
	// frame. They drive FillModel, forecast overlays and EUR.
	Forecasts map[string]*segment.Model
	// FitStarts are per-well fit start offsets keyed by well ID, in the well's own
	// offset frame. They are only read when HonorFit is set.
	FitStarts map[string]int
}

// NewRequest builds a Request from cfg. Phase is taken from src when it is a
// RateSource or RatioSource.
func NewRequest(cfg *config.Config, wells series.WellSet, src phase.Source) (Request, error) {
	mode, err := cfg.AlignMode()
	if err != nil {
		return Request{}, err
	}
	res, err := cfg.Res()
	if err != nil {
		return Request{}, err
	}
	stats, err := cfg.Stats()
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Wells:           wells,
		Source:          src,
		Key:             segment.P50,
		Mode:            mode,
		Resolution:      res,
		OverlayForecast: cfg.OverlayForecast,
		HonorFit:        cfg.HonorFit,
		Statistics:      stats,
		Fill:            cfg.Fill,
		StatConvention:  cfg.StatConvention,
		Schedule:        slices.Clone(cumulative.Schedule(cfg.Schedule)),
	}
	switch s := src.(type) {
	case phase.RateSource:
		req.Phase = s.Phase
	case phase.RatioSource:
		req.Phase = s.Phase
	}
	if err := checkPhaseType(cfg, src); err != nil {
		return Request{}, err
	}

	if err := req.Validate(); err != nil {
		return Request{}, err
	}

	return req, nil
}

// checkPhaseType rejects a source whose type disagrees with a configured phase type.
// A nil source is a rate phase without fits.
func checkPhaseType(cfg *config.Config, src phase.Source) error {
	if cfg.PhaseType == "" {
		return nil
	}
	want, err := cfg.Phase()
	if err != nil {
		return err
	}
	got := phase.Rate
	if src != nil {
		got = src.Type()
	}
	if got != want {
		return fmt.Errorf("%w: configured %s, source is %s", errs.ErrPhaseMismatch, want, got)
	}

	return nil
}

// Validate rejects malformed input. Shape errors in any well abort the request.
func (r Request) Validate() error {
	if err := r.Wells.Validate(); err != nil {
		return err
	}
	for _, s := range r.Statistics {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	switch r.Fill {
	case "", config.FillNone, config.FillZero, config.FillHold, config.FillModel:
	default:
		return fmt.Errorf("typecurve: unknown fill policy %q", r.Fill)
	}
	if len(r.Schedule) > 0 {
		if err := r.Schedule.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r Request) phaseType() phase.Type {
	if r.Source == nil {
		return phase.Rate
	}

	return r.Source.Type()
}

func (r Request) key() segment.SeriesKey {
	if r.Key == "" {
		return segment.P50
	}

	return r.Key
}

func (r Request) statistics() []rollup.Statistic {
	if len(r.Statistics) == 0 {
		return rollup.DefaultStatistics()
	}

	return r.Statistics
}

func (r Request) schedule() cumulative.Schedule {
	if len(r.Schedule) == 0 {
		return cumulative.DefaultSchedule
	}

	return r.Schedule
}

var fitKeys = []segment.SeriesKey{segment.P10, segment.P50, segment.P90, segment.Best}

// digest keys the memo on every input that can change a rollup.
func (r Request) digest(op string) uint64 {
	d := hash.NewDigest().
		String(op).
		String(string(r.Phase)).
		String(string(r.key())).
		Int(int(r.Mode)).
		Int(int(r.Resolution)).
		Bool(r.OverlayForecast).
		Bool(r.HonorFit).
		String(r.Fill).
		Bool(r.StatConvention)

	stats := r.statistics()
	d.Int(len(stats))
	for _, s := range stats {
		d.String(s.String())
	}
	sched := r.schedule()
	d.Int(len(sched))
	for _, st := range sched {
		d.Int(st.Until).Int(st.Every)
	}

	d.Int(len(r.Wells.Wells))
	for _, w := range r.Wells.Wells {
		digestWell(d, w)
	}

	switch s := r.Source.(type) {
	case nil:
		d.Int(0)
	case phase.RatioSource:
		d.Int(int(phase.Ratio) + 1).String(string(s.BasePhase))
		digestSet(d, s.Set)
		digestSet(d, s.Base)
	default:
		d.Int(int(s.Type()) + 1)
		for _, k := range fitKeys {
			digestModel(d, s.ModelFor(k))
		}
	}

	ids := slices.Sorted(maps.Keys(r.Forecasts))
	d.Int(len(ids))
	for _, id := range ids {
		d.String(id)
		digestModel(d, r.Forecasts[id])
	}
	ids = slices.Sorted(maps.Keys(r.FitStarts))
	d.Int(len(ids))
	for _, id := range ids {
		d.String(id).Int(r.FitStarts[id])
	}

	return d.Sum64()
}

func digestWell(d *hash.Digest, w series.WellSeries) {
	d.String(w.WellID).
		Bool(w.HasCalendar()).
		Int(int(w.Origin.Unix())).
		Ints(w.Index).
		Floats(w.Values).
		Int(w.Window.Start).
		Int(w.Window.End).
		Bool(w.Window.HasProduction)
}

func digestSet(d *hash.Digest, s segment.Set) {
	for _, k := range fitKeys {
		digestModel(d, s.Get(k))
	}
}

func digestModel(d *hash.Digest, m *segment.Model) {
	segs := m.Segments()
	d.Int(len(segs))
	for _, s := range segs {
		d.Int(int(s.Family)).
			Int(s.StartIndex).
			Int(s.EndIndex).
			Float(s.Q0).
			Float(s.D).
			Float(s.B)
	}
}
