package main

import (
	"github.com/spf13/cobra"

	"github.com/combocurve/typecurve"
	"github.com/combocurve/typecurve/align"
	"github.com/combocurve/typecurve/segment"
)

// requestFlags override config values for a single run.
type requestFlags struct {
	mode       string
	resolution string
	fill       string
	key        string
	overlay    bool
	honorFit   bool
	statConv   bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.mode, "mode", "", "Alignment mode (align|noalign)")
	fs.StringVar(&f.resolution, "resolution", "", "Resolution (daily|monthly)")
	fs.StringVar(&f.fill, "fill", "", "Fill policy for wells without a sample (none|zero|hold|model)")
	fs.StringVar(&f.key, "key", "", "Fitted series used for ratio resolution and fit overlays (P10|P50|P90|best)")
	fs.BoolVar(&f.overlay, "overlay", true, "Include forecast and filled values")
	fs.BoolVar(&f.honorFit, "honor-fit", false, "Anchor cumulative curves to their fit start")
	fs.BoolVar(&f.statConv, "stat-convention", false, "Rank percentiles in the statistical convention")
}

func (f *requestFlags) apply(cmd *cobra.Command, req *typecurve.Request) error {
	fs := cmd.Flags()
	if fs.Changed("mode") {
		mode, err := align.ParseMode(f.mode)
		if err != nil {
			return err
		}
		req.Mode = mode
	}
	if fs.Changed("resolution") {
		res, err := align.ParseResolution(f.resolution)
		if err != nil {
			return err
		}
		req.Resolution = res
	}
	if fs.Changed("fill") {
		req.Fill = f.fill
	}
	if fs.Changed("key") {
		req.Key = segment.SeriesKey(f.key)
	}
	if fs.Changed("overlay") {
		req.OverlayForecast = f.overlay
	}
	if fs.Changed("honor-fit") {
		req.HonorFit = f.honorFit
	}
	if fs.Changed("stat-convention") {
		req.StatConvention = f.statConv
	}

	return req.Validate()
}

// run is the body of one subcommand.
type run func(e *typecurve.Engine, req typecurve.Request) (any, error)

func newCommands(flags *rootFlags) []*cobra.Command {
	var measure string

	cmds := []struct {
		use, short string
		fn         run
	}{
		{"rollup", "Mean, median and percentile rate rollups", func(e *typecurve.Engine, req typecurve.Request) (any, error) {
			return e.Rollup(req)
		}},
		{"cumulative", "Per-well cumulative curves and their rollups", func(e *typecurve.Engine, req typecurve.Request) (any, error) {
			return e.FitCumulative(req)
		}},
		{"eur", "EUR distribution of the analog wells", func(e *typecurve.Engine, req typecurve.Request) (any, error) {
			return e.EURDistribution(req)
		}},
		{"peak", "Peak-rate distribution of the analog wells", func(e *typecurve.Engine, req typecurve.Request) (any, error) {
			return e.PeakDistribution(req)
		}},
		{"probit", "Probit fit of the EUR or peak-rate distribution", func(e *typecurve.Engine, req typecurve.Request) (any, error) {
			m, err := typecurve.ParseMeasure(measure)
			if err != nil {
				return nil, err
			}

			return e.Probit(req, m)
		}},
	}

	out := make([]*cobra.Command, 0, len(cmds))
	for _, c := range cmds {
		rf := &requestFlags{}
		cmd := &cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  cobra.NoArgs,
		}
		cmd.RunE = func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, flags, rf, c.fn)
		}
		rf.register(cmd)
		if c.use == "probit" {
			cmd.Flags().StringVar(&measure, "measure", "eur", "Distribution to fit (eur|peak)")
		}
		out = append(out, cmd)
	}

	return out
}

func execute(cmd *cobra.Command, flags *rootFlags, rf *requestFlags, fn run) error {
	s, err := newSession(cmd, flags)
	if err != nil {
		return err
	}
	req, err := s.request()
	if err != nil {
		return err
	}
	if err := rf.apply(cmd, &req); err != nil {
		return err
	}

	result, err := fn(s.engine, req)
	if err != nil {
		s.logger.Error().Err(err).Msg("operation failed")
		return err
	}
	if err := writeResult(cmd.OutOrStdout(), result, flags.outputFormat); err != nil {
		return err
	}
	if flags.dumpMetrics {
		return s.writeMetrics(cmd.ErrOrStderr())
	}

	return nil
}
