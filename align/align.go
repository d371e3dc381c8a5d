package align

import (
	"fmt"
	"math"
	"time"

	"github.com/combocurve/typecurve/phase"
	"github.com/combocurve/typecurve/series"
)

// Mode selects the time origin of aligned series.
type Mode int

const (
	// ModeAlign re-indexes every well so its anchor sits at offset 0.
	ModeAlign Mode = iota
	// ModeNoAlign keeps calendar-relative offsets against a shared reference date.
	ModeNoAlign
)

func (m Mode) String() string {
	switch m {
	case ModeAlign:
		return "align"
	case ModeNoAlign:
		return "noalign"
	default:
		return "unknown"
	}
}

// ParseMode parses "align" or "noalign".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "align":
		return ModeAlign, nil
	case "noalign", "no_align":
		return ModeNoAlign, nil
	default:
		return 0, fmt.Errorf("unknown alignment mode %q", s)
	}
}

// AnchorRule picks the feature placed at offset 0 under ModeAlign.
type AnchorRule int

const (
	// AnchorFirstProduction anchors on the first sample.
	AnchorFirstProduction AnchorRule = iota
	// AnchorPeak anchors on the largest value inside the data window, earliest on ties.
	AnchorPeak
)

// AnchorFor returns the rule used for a phase type: first production for rate phases,
// peak for ratio phases, where first production carries no meaning.
func AnchorFor(t phase.Type) AnchorRule {
	if t == phase.Ratio {
		return AnchorPeak
	}

	return AnchorFirstProduction
}

// Anchor returns the offset that rule selects in s. The peak rule skips NaN samples
// and reports false when the window holds no finite value.
func Anchor(s series.WellSeries, rule AnchorRule) (int, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	if rule == AnchorFirstProduction {
		return s.Index[0], true
	}

	w := s.Window
	if w.Len() == 0 {
		return 0, false
	}
	best := -1
	for i := w.Start; i < w.End; i++ {
		v := s.Values[i]
		if math.IsNaN(v) {
			continue
		}
		if best < 0 || v > s.Values[best] {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}

	return s.Index[best], true
}

// ToAnchor shifts s so its anchor sits at offset 0. The origin moves to the anchor's
// calendar date, so applying it twice is the same as applying it once.
func ToAnchor(s series.WellSeries, rule AnchorRule) series.WellSeries {
	anchor, ok := Anchor(s, rule)
	if !ok || anchor == 0 {
		return s.Clone()
	}

	return shift(s, -anchor)
}

// ToReference re-expresses s against ref so that offset 0 is ref's calendar day.
// Series without a calendar are returned unchanged.
func ToReference(s series.WellSeries, ref time.Time) series.WellSeries {
	if !s.HasCalendar() || ref.IsZero() {
		return s.Clone()
	}

	delta := DaysBetween(ref, s.Origin)
	out := shift(s, delta)
	out.Origin = civil(ref)

	return out
}

// Align dispatches on mode. ref is only used by ModeNoAlign.
func Align(s series.WellSeries, mode Mode, rule AnchorRule, ref time.Time) series.WellSeries {
	if mode == ModeNoAlign {
		return ToReference(s, ref)
	}

	return ToAnchor(s, rule)
}

// AlignSet aligns every analog well of ws. Under ModeNoAlign the shared reference is
// the earliest origin in the set.
func AlignSet(ws series.WellSet, mode Mode, rule AnchorRule) []series.WellSeries {
	ref, _ := ws.ReferenceDate()
	out := make([]series.WellSeries, len(ws.Wells))
	for i, w := range ws.Wells {
		out[i] = Align(w, mode, rule, ref)
	}

	return out
}

// shift adds delta to every offset and moves the origin the opposite way.
func shift(s series.WellSeries, delta int) series.WellSeries {
	out := s.Clone()
	for i := range out.Index {
		out.Index[i] += delta
	}
	if out.HasCalendar() {
		out.Origin = civil(out.Origin).AddDate(0, 0, -delta)
	}

	return out
}
