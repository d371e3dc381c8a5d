// Command tcfit computes type-curve rollups, cumulative curves, EUR and peak-rate
// distributions and probit fits for a well set read from a YAML or JSON file.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/combocurve/typecurve"
	"github.com/combocurve/typecurve/config"
	"github.com/combocurve/typecurve/metrics"
)

const (
	appName = "tcfit"
	version = "v0.4.0"
)

type rootFlags struct {
	configPath   string
	inputPath    string
	outputFormat string
	logLevel     string
	dumpMetrics  bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Type-curve rollups and distributions for analog well sets",
		Version: version,
		Long: `tcfit aligns the production of a set of analog wells and rolls it up into
type-curve statistics.

The input document lists the wells of one phase with optional type-curve fits,
per-well forecasts and fit starts. Results are written to stdout as YAML or JSON;
recoverable conditions (missing fits, degenerate statistics) are reported as
warnings in the result.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML engine config (defaults apply when empty)")
	pf.StringVarP(&flags.inputPath, "input", "i", "-", "Input document (.json, .yaml, or - for YAML on stdin)")
	pf.StringVarP(&flags.outputFormat, "output", "o", "yaml", "Output format (yaml|json)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level override (debug|info|warn|error)")
	pf.BoolVar(&flags.dumpMetrics, "metrics", false, "Write prometheus metrics to stderr on exit")

	for _, cmd := range newCommands(flags) {
		rootCmd.AddCommand(cmd)
	}

	return rootCmd
}

// session is the state shared by one subcommand run.
type session struct {
	cfg      *config.Config
	logger   zerolog.Logger
	engine   *typecurve.Engine
	registry *prometheus.Registry
	doc      *document
}

func newSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		var err error
		if cfg, err = config.Load(flags.configPath); err != nil {
			return nil, err
		}
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), level).With().
		Str("run_id", uuid.New().String()).
		Str("cmd", cmd.Name()).
		Logger()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector()
	if err := collector.Register(registry); err != nil {
		return nil, err
	}

	engine, err := typecurve.New(
		typecurve.WithConfig(cfg),
		typecurve.WithLogger(logger),
		typecurve.WithMetrics(collector),
	)
	if err != nil {
		return nil, err
	}

	doc, err := readInput(flags.inputPath, cfg.PhaseType)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("input", flags.inputPath).
		Str("phase", string(doc.Phase)).
		Int("wells", len(doc.Wells.Wells)).
		Msg("input loaded")

	return &session{cfg: cfg, logger: logger, engine: engine, registry: registry, doc: doc}, nil
}

// newLogger writes human-readable logs to a terminal and JSON lines otherwise.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func (s *session) request() (typecurve.Request, error) {
	req, err := s.engine.NewRequest(s.doc.Wells, s.doc.Source)
	if err != nil {
		return typecurve.Request{}, err
	}
	req.Phase = s.doc.Phase
	req.Forecasts = s.doc.Forecasts
	req.FitStarts = s.doc.FitStarts

	return req, nil
}

func (s *session) writeMetrics(w io.Writer) error {
	families, err := s.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
