package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/combocurve/typecurve/phase"
	"github.com/combocurve/typecurve/segment"
	"github.com/combocurve/typecurve/series"
)

// wellInput is one well in an input document. Origin is a calendar date
// (2006-01-02) or empty for wells without a calendar. A missing window covers every
// sample.
type wellInput struct {
	WellID string             `json:"well_id" yaml:"well_id"`
	Origin string             `json:"origin" yaml:"origin"`
	Index  []int              `json:"index" yaml:"index"`
	Values []float64          `json:"values" yaml:"values"`
	Window *series.DataWindow `json:"window,omitempty" yaml:"window,omitempty"`
}

// input is the well set and fits of one phase.
type input struct {
	Phase     string                       `json:"phase" yaml:"phase"`
	PhaseType string                       `json:"phase_type" yaml:"phase_type"`
	Wells     []wellInput                  `json:"wells" yaml:"wells"`
	Excluded  []wellInput                  `json:"excluded" yaml:"excluded"`
	Fits      map[string][]segment.Segment `json:"fits" yaml:"fits"`
	BasePhase string                       `json:"base_phase" yaml:"base_phase"`
	BaseFits  map[string][]segment.Segment `json:"base_fits" yaml:"base_fits"`
	Forecasts map[string][]segment.Segment `json:"forecasts" yaml:"forecasts"`
	FitStarts map[string]int               `json:"fit_starts" yaml:"fit_starts"`
}

// document is the decoded input, ready for a request.
type document struct {
	Phase     phase.Phase
	Wells     series.WellSet
	Source    phase.Source
	Forecasts map[string]*segment.Model
	FitStarts map[string]int
}

// readInput loads a JSON (.json) or YAML document from path; "-" reads stdin as YAML.
// phaseType is the configured phase type, used when the document names none.
func readInput(path, phaseType string) (*document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return parseInput(data, strings.EqualFold(filepath.Ext(path), ".json"), phaseType)
}

func parseInput(data []byte, isJSON bool, phaseType string) (*document, error) {
	var in input
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return nil, fmt.Errorf("failed to parse input: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	return in.document(phaseType)
}

func (in input) document(phaseType string) (*document, error) {
	doc := &document{FitStarts: in.FitStarts}

	var err error
	if doc.Phase, err = phase.ParsePhase(defaultString(in.Phase, string(phase.Oil))); err != nil {
		return nil, err
	}
	if doc.Wells.Wells, err = wellSeries(in.Wells); err != nil {
		return nil, err
	}
	if doc.Wells.Excluded, err = wellSeries(in.Excluded); err != nil {
		return nil, fmt.Errorf("excluded: %w", err)
	}
	if doc.Forecasts, err = models(in.Forecasts); err != nil {
		return nil, fmt.Errorf("forecasts: %w", err)
	}

	pt, err := phase.ParseType(defaultString(in.PhaseType, defaultString(phaseType, phase.Rate.String())))
	if err != nil {
		return nil, err
	}
	fits, err := modelSet(in.Fits)
	if err != nil {
		return nil, fmt.Errorf("fits: %w", err)
	}

	switch {
	case pt == phase.Ratio:
		base, err := phase.ParsePhase(defaultString(in.BasePhase, string(phase.Oil)))
		if err != nil {
			return nil, err
		}
		baseFits, err := modelSet(in.BaseFits)
		if err != nil {
			return nil, fmt.Errorf("base_fits: %w", err)
		}
		doc.Source = phase.RatioSource{Phase: doc.Phase, Set: fits, BasePhase: base, Base: baseFits}
	case len(fits) > 0:
		doc.Source = phase.RateSource{Phase: doc.Phase, Set: fits}
	}

	return doc, nil
}

func wellSeries(in []wellInput) ([]series.WellSeries, error) {
	out := make([]series.WellSeries, len(in))
	for i, w := range in {
		var origin time.Time
		if w.Origin != "" {
			t, err := time.Parse(time.DateOnly, w.Origin)
			if err != nil {
				return nil, fmt.Errorf("well %q origin: %w", w.WellID, err)
			}
			origin = t
		}

		s := series.WellSeries{WellID: w.WellID, Origin: origin, Index: w.Index, Values: w.Values}
		if w.Window != nil {
			s.Window = *w.Window
		} else {
			s.Window = series.DataWindow{Start: 0, End: len(w.Values), HasProduction: len(w.Values) > 0}
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("well %q: %w", w.WellID, err)
		}
		out[i] = s
	}

	return out, nil
}

func models(in map[string][]segment.Segment) (map[string]*segment.Model, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]*segment.Model, len(in))
	for id, segs := range in {
		m, err := segment.New(segs...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		out[id] = m
	}

	return out, nil
}

func modelSet(in map[string][]segment.Segment) (segment.Set, error) {
	ms, err := models(in)
	if err != nil {
		return nil, err
	}
	set := make(segment.Set, len(ms))
	for k, m := range ms {
		set[segment.SeriesKey(k)] = m
	}

	return set, nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
